package wallet

import (
	"strings"
	"sync/atomic"

	"github.com/btccom/adasigner/bip32util"
	"github.com/btccom/adasigner/ed25519bip32"
	"github.com/btccom/adasigner/keyenc"
	"github.com/btccom/adasigner/sigerr"
	"github.com/btccom/adasigner/txcodec"
	"github.com/pkg/errors"
)

var (
	// ErrSignerClosed is returned by every operation on a
	// Signer after Close.
	ErrSignerClosed = sigerr.New(sigerr.SigningError, "signer is closed")
)

// Signer holds one key pair and signs with it. It never changes
// after construction, so Sign and PublicKey may be called from
// many goroutines. Close must not overlap other calls.
type Signer struct {
	key    *ed25519bip32.XPrv
	pub    []byte
	origin OriginKind
	closed atomic.Bool
}

var _ SignatureProvider = (*Signer)(nil)

// NewMnemonicSigner derives the key at path from a BIP-39 phrase.
func NewMnemonicSigner(phrase, path string, opts ...Option) (*Signer, error) {
	bip32Path, err := bip32util.NewPathFromString(path)
	if err != nil {
		return nil, err
	}

	// a blank phrase would otherwise read as a missing key origin
	if strings.TrimSpace(phrase) == "" {
		return nil, sigerr.New(sigerr.InvalidMnemonic, "empty mnemonic")
	}

	c := newConfig(opts)
	return New(&KeyOrigin{
		Mnemonic:   phrase,
		Passphrase: c.passphrase,
		Bip32:      bip32Path,
	})
}

// NewBech32Signer derives the key at path from a bech32 root
// private key (xprv or root_xsk).
func NewBech32Signer(rootKey, path string) (*Signer, error) {
	bip32Path, err := bip32util.NewPathFromString(path)
	if err != nil {
		return nil, err
	}

	if strings.TrimSpace(rootKey) == "" {
		return nil, sigerr.New(sigerr.InvalidEncoding, "empty root key")
	}

	return New(&KeyOrigin{
		RootKey: rootKey,
		Bip32:   bip32Path,
	})
}

// NewCLISigner uses a cardano-cli style signing key as is.
func NewCLISigner(cliKey string) (*Signer, error) {
	if strings.TrimSpace(cliKey) == "" {
		return nil, sigerr.New(sigerr.InvalidEncoding, "empty cli key")
	}

	return New(&KeyOrigin{
		CLIKey: cliKey,
	})
}

// New builds a Signer from any KeyOrigin. Intermediate key
// material is zeroed before returning, whether or not an
// error occurred.
func New(origin *KeyOrigin) (*Signer, error) {
	if origin == nil {
		return nil, sigerr.New(sigerr.MalformedInput, "no key origin")
	}

	kind, err := origin.Kind()
	if err != nil {
		return nil, err
	}

	var key *ed25519bip32.XPrv
	switch kind {
	case OriginMnemonic:
		key, err = mnemonicKey(origin.Mnemonic, origin.Passphrase, origin.path())
	case OriginRootKey:
		key, err = rootKey(origin.RootKey, origin.path())
	case OriginCLIKey:
		key, err = cliKey(origin.CLIKey)
	}
	if err != nil {
		log.Debugf("failed to construct %s signer: %v", kind, err)
		return nil, err
	}

	s := &Signer{
		key:    key,
		pub:    key.PublicKey(),
		origin: kind,
	}

	if keyHash, err := s.KeyHash(); err == nil {
		path := origin.path()
		if index, err := path.GetKeyIndex(); err == nil {
			log.Debugf("constructed %s signer at %s (key index %s), key hash %x",
				kind, path, bip32util.PathSegmentFromSequence(index), keyHash)
		} else {
			log.Debugf("constructed %s signer at %s, key hash %x", kind, path, keyHash)
		}
	}

	return s, nil
}

func mnemonicKey(phrase, passphrase string, path *bip32util.Path) (*ed25519bip32.XPrv, error) {
	entropy, err := keyenc.DecodeMnemonic(phrase)
	if err != nil {
		return nil, err
	}
	defer zero(entropy)

	pass := []byte(passphrase)
	defer zero(pass)

	master, err := ed25519bip32.NewMasterKeyFromEntropy(entropy, pass)
	if err != nil {
		return nil, err
	}

	return derive(master, path)
}

func rootKey(encoded string, path *bip32util.Path) (*ed25519bip32.XPrv, error) {
	raw, err := keyenc.DecodeRootKey(encoded)
	if err != nil {
		return nil, err
	}
	defer zero(raw)

	root, err := ed25519bip32.NewKeyFromBytes(raw)
	if err != nil {
		return nil, err
	}

	return derive(root, path)
}

func cliKey(encoded string) (*ed25519bip32.XPrv, error) {
	raw, err := keyenc.DecodeCLIKey(encoded)
	if err != nil {
		return nil, err
	}
	defer zero(raw)

	if len(raw) == ed25519bip32.SeedSize {
		return ed25519bip32.NewKeyFromSeed(raw)
	}
	return ed25519bip32.NewKeyFromExtended(raw, nil)
}

// derive walks path from root and zeroes root afterwards
func derive(root *ed25519bip32.XPrv, path *bip32util.Path) (*ed25519bip32.XPrv, error) {
	defer root.Zero()

	master, err := bip32util.NewBip32MasterKey(root)
	if err != nil {
		return nil, err
	}

	derived, err := master.DerivePath(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to derive %s", path)
	}

	return derived.Key, nil
}

// Origin reports which key input the signer was built from
func (s *Signer) Origin() OriginKind {
	return s.origin
}

// Sign returns the 64 byte Ed25519 signature over the exact bytes
// of payload. The signature is deterministic.
func (s *Signer) Sign(payload []byte) ([]byte, error) {
	if s.closed.Load() {
		return nil, ErrSignerClosed
	}

	sig, err := s.key.Sign(payload)
	if err != nil {
		return nil, sigerr.Wrap(sigerr.SigningError, err, "failed to sign")
	}

	return sig, nil
}

// SignTransaction signs the body hash of the hex encoded
// transaction, returning the signature as 128 hex characters.
func (s *Signer) SignTransaction(txHex string) (string, error) {
	sig, err := s.signTransaction(txHex)
	if err != nil {
		return "", err
	}

	return txcodec.EncodeSignature(sig)
}

// Witness signs the transaction like SignTransaction, and returns
// the hex of the CBOR [vkey, signature] witness for it.
func (s *Signer) Witness(txHex string) (string, error) {
	sig, err := s.signTransaction(txHex)
	if err != nil {
		return "", err
	}

	witness, err := txcodec.EncodeWitness(s.pub, sig)
	if err != nil {
		return "", err
	}

	return txcodec.EncodeHex(witness), nil
}

func (s *Signer) signTransaction(txHex string) ([]byte, error) {
	if s.closed.Load() {
		return nil, ErrSignerClosed
	}

	payload, err := txcodec.SigningPayload(txHex)
	if err != nil {
		return nil, err
	}

	return s.Sign(payload)
}

// PublicKey returns a copy of the 32 byte verification key.
// It returns nil once the signer is closed.
func (s *Signer) PublicKey() []byte {
	if s.closed.Load() {
		return nil
	}

	pub := make([]byte, len(s.pub))
	copy(pub, s.pub)
	return pub
}

// PublicKeyHex returns the verification key as 64 hex characters
func (s *Signer) PublicKeyHex() (string, error) {
	if s.closed.Load() {
		return "", ErrSignerClosed
	}

	return txcodec.EncodeHex(s.pub), nil
}

// KeyHash returns the 28 byte hash of the verification key
func (s *Signer) KeyHash() ([]byte, error) {
	if s.closed.Load() {
		return nil, ErrSignerClosed
	}

	return txcodec.KeyHash(s.pub)
}

// Close erases the secret key. Calling it again is a no-op.
func (s *Signer) Close() {
	if s.closed.Swap(true) {
		return
	}

	s.key.Zero()
	log.Tracef("closed %s signer", s.origin)
}

func zero(b []byte) {
	for i := range b {
		b[i] = 0
	}
}
