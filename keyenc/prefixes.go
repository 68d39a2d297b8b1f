package keyenc

import (
	"github.com/btccom/adasigner/ed25519bip32"
	"github.com/btccom/adasigner/sigerr"
)

const (
	// PrefixXPrv is the bech32 prefix cardano-serialization-lib
	// uses for a serialized extended private key
	PrefixXPrv = "xprv"

	// PrefixRootXsk is the CIP-5 prefix for a root extended
	// private key
	PrefixRootXsk = "root_xsk"

	// PrefixEd25519Sk is the CIP-5 prefix for a plain Ed25519
	// signing key seed
	PrefixEd25519Sk = "ed25519_sk"

	// PrefixEd25519eSk is the CIP-5 prefix for an extended Ed25519
	// signing key without chain code
	PrefixEd25519eSk = "ed25519e_sk"
)

// KeyType captures what a bech32 prefix carries: the
// decoded payload size, and whether it is a root key for
// derivation or a leaf signing key.
type KeyType struct {
	// Prefix is the bech32 human readable part
	Prefix string

	// Size is the decoded payload length in bytes
	Size int

	// Root is set for keys which carry a chain code and
	// may be used as a derivation root
	Root bool
}

var (
	// XPrvKeyType is a 96 byte extended key with chain code
	XPrvKeyType = &KeyType{
		Prefix: PrefixXPrv,
		Size:   ed25519bip32.XPrvSize,
		Root:   true,
	}

	// RootXskKeyType is the CIP-5 spelling of XPrvKeyType
	RootXskKeyType = &KeyType{
		Prefix: PrefixRootXsk,
		Size:   ed25519bip32.XPrvSize,
		Root:   true,
	}

	// Ed25519SkKeyType is a 32 byte Ed25519 seed
	Ed25519SkKeyType = &KeyType{
		Prefix: PrefixEd25519Sk,
		Size:   ed25519bip32.SeedSize,
	}

	// Ed25519eSkKeyType is a 64 byte expanded secret kL || kR
	Ed25519eSkKeyType = &KeyType{
		Prefix: PrefixEd25519eSk,
		Size:   ed25519bip32.ExtendedKeySize,
	}
)

// CheckPrefix validates that the prefix is known
func CheckPrefix(prefix string) (string, error) {
	switch prefix {
	case PrefixXPrv, PrefixRootXsk, PrefixEd25519Sk, PrefixEd25519eSk:
		return prefix, nil
	default:
		return "", sigerr.Errorf(sigerr.InvalidEncoding, "unknown key prefix %q", prefix)
	}
}

// GetKeyType takes a bech32 prefix and returns
// the *KeyType it denotes
func GetKeyType(prefix string) (*KeyType, error) {
	switch prefix {
	case PrefixXPrv:
		return XPrvKeyType, nil
	case PrefixRootXsk:
		return RootXskKeyType, nil
	case PrefixEd25519Sk:
		return Ed25519SkKeyType, nil
	case PrefixEd25519eSk:
		return Ed25519eSkKeyType, nil
	}

	return nil, sigerr.Errorf(sigerr.InvalidEncoding, "unknown key prefix %q", prefix)
}
