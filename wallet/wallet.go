// Package wallet turns one of the supported key inputs into a Signer
// for a single Ed25519 key pair.
package wallet

import (
	"strings"

	"github.com/btccom/adasigner/bip32util"
	"github.com/btccom/adasigner/sigerr"
)

// SignatureProvider is a contract whereby implementations
// accept a message, and will return a signature over it
// by the key behind PublicKey, or an error
type SignatureProvider interface {
	Sign(payload []byte) ([]byte, error)
	PublicKey() []byte
}

// OriginKind identifies which field of a KeyOrigin is set
type OriginKind int

const (
	// OriginMnemonic is a BIP-39 phrase plus derivation path
	OriginMnemonic OriginKind = iota + 1

	// OriginRootKey is a bech32 root private key plus
	// derivation path
	OriginRootKey

	// OriginCLIKey is a standalone signing key as cardano-cli
	// writes it. It carries no chain code and takes no path.
	OriginCLIKey
)

func (k OriginKind) String() string {
	switch k {
	case OriginMnemonic:
		return "mnemonic"
	case OriginRootKey:
		return "root key"
	case OriginCLIKey:
		return "cli key"
	}
	return "unknown"
}

// KeyOrigin contains information about how to retrieve the key.
// Exactly one of Mnemonic, RootKey or CLIKey must be set. Bip32
// selects the derived key for the first two, nil meaning the root.
type KeyOrigin struct {
	Mnemonic   string
	Passphrase string
	RootKey    string
	CLIKey     string
	Bip32      *bip32util.Path
}

// Kind reports which key input the origin carries
func (o *KeyOrigin) Kind() (OriginKind, error) {
	var kinds []OriginKind
	if strings.TrimSpace(o.Mnemonic) != "" {
		kinds = append(kinds, OriginMnemonic)
	}
	if strings.TrimSpace(o.RootKey) != "" {
		kinds = append(kinds, OriginRootKey)
	}
	if strings.TrimSpace(o.CLIKey) != "" {
		kinds = append(kinds, OriginCLIKey)
	}

	if len(kinds) != 1 {
		return 0, sigerr.Errorf(sigerr.MalformedInput, "key origin must carry exactly one key input, found %d", len(kinds))
	}
	if kinds[0] == OriginCLIKey && o.Bip32 != nil && !o.Bip32.IsRoot() {
		return 0, sigerr.New(sigerr.InvalidPath, "a cli key cannot be derived along a path")
	}

	return kinds[0], nil
}

func (o *KeyOrigin) path() *bip32util.Path {
	if o.Bip32 == nil {
		return bip32util.NewRootPath()
	}
	return o.Bip32
}
