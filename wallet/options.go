package wallet

type config struct {
	passphrase string
}

// Option configures signer construction
type Option func(*config)

// WithPassphrase sets the optional passphrase mixed into the master
// key of a mnemonic signer. It has no effect on other origins.
func WithPassphrase(passphrase string) Option {
	return func(c *config) {
		c.passphrase = passphrase
	}
}

func newConfig(opts []Option) *config {
	c := &config{}
	for _, opt := range opts {
		opt(c)
	}
	return c
}
