// Package ed25519bip32 implements BIP32-Ed25519 extended private keys as
// used by Cardano: Icarus master key generation, derivation scheme V2,
// and Ed25519 signing with an expanded secret.
package ed25519bip32

import (
	"crypto/sha512"

	"filippo.io/edwards25519"
	"github.com/btccom/adasigner/sigerr"
	"golang.org/x/crypto/pbkdf2"
)

const (
	// XPrvSize is the serialized size of an extended private
	// key: kL || kR || chain code
	XPrvSize = 96

	// ExtendedKeySize is the size of the expanded secret kL || kR
	ExtendedKeySize = 64

	// ChainCodeSize is the size of the chain code
	ChainCodeSize = 32

	// PublicKeySize is the size of an Ed25519 public key
	PublicKeySize = 32

	// SeedSize is the size of a plain Ed25519 private key seed
	SeedSize = 32

	// SignatureSize is the size of an Ed25519 signature
	SignatureSize = 64

	// HardenedKeyStart is the first hardened child index
	HardenedKeyStart uint32 = 0x80000000

	icarusIterations = 4096
	minEntropySize   = 16
	maxEntropySize   = 32
)

var (
	// ErrBadKeyLength is returned when serialized key material
	// does not have the expected size
	ErrBadKeyLength = sigerr.New(sigerr.InvalidEncoding, "extended private key has invalid length")

	// ErrLowestBitsNotCleared is returned when kL is not a multiple of 8
	ErrLowestBitsNotCleared = sigerr.New(sigerr.InvalidEncoding, "extended private key lowest 3 bits are not cleared")

	// ErrHighestBitNotCleared is returned when kL has bit 255 set
	ErrHighestBitNotCleared = sigerr.New(sigerr.InvalidEncoding, "extended private key highest bit is not cleared")

	// ErrBadEntropyLength is returned when the entropy is not 128-256 bits
	ErrBadEntropyLength = sigerr.New(sigerr.InvalidMnemonic, "entropy must be between 16 and 32 bytes")

	// ErrZeroScalar is returned when a derivation step produces a
	// secret scalar congruent to zero. The step is not retried.
	ErrZeroScalar = sigerr.New(sigerr.DerivationError, "derived secret scalar is zero")
)

// XPrv is a BIP32-Ed25519 extended private key. The public key is
// computed once at construction.
type XPrv struct {
	key       [ExtendedKeySize]byte
	chainCode [ChainCodeSize]byte
	pub       [PublicKeySize]byte
}

// NewMasterKeyFromEntropy derives the Icarus master key from BIP39
// entropy (not the BIP39 seed) and an optional passphrase.
func NewMasterKeyFromEntropy(entropy, passphrase []byte) (*XPrv, error) {
	if len(entropy) < minEntropySize || len(entropy) > maxEntropySize {
		return nil, ErrBadEntropyLength
	}

	stretched := pbkdf2.Key(passphrase, entropy, icarusIterations, XPrvSize, sha512.New)
	defer zero(stretched)

	stretched[0] &= 0xf8
	stretched[31] &= 0x1f
	stretched[31] |= 0x40

	return newXPrv(stretched[:ExtendedKeySize], stretched[ExtendedKeySize:])
}

// NewKeyFromBytes parses a serialized 96 byte extended private key,
// checking the scalar bits the way Cardano tooling does.
func NewKeyFromBytes(b []byte) (*XPrv, error) {
	if len(b) != XPrvSize {
		return nil, ErrBadKeyLength
	}

	return NewKeyFromExtended(b[:ExtendedKeySize], b[ExtendedKeySize:])
}

// NewKeyFromExtended builds a key from an expanded secret kL || kR and
// a chain code. A nil chainCode is treated as all zeroes.
func NewKeyFromExtended(extended, chainCode []byte) (*XPrv, error) {
	if len(extended) != ExtendedKeySize {
		return nil, ErrBadKeyLength
	}
	if chainCode == nil {
		chainCode = make([]byte, ChainCodeSize)
	}
	if len(chainCode) != ChainCodeSize {
		return nil, ErrBadKeyLength
	}
	if extended[0]&0x07 != 0 {
		return nil, ErrLowestBitsNotCleared
	}
	if extended[31]&0x80 != 0 {
		return nil, ErrHighestBitNotCleared
	}

	return newXPrv(extended, chainCode)
}

// NewKeyFromSeed expands a plain 32 byte Ed25519 seed (RFC 8032) into an
// extended key with a zero chain code. Signatures are identical to
// those of crypto/ed25519 for the same seed.
func NewKeyFromSeed(seed []byte) (*XPrv, error) {
	if len(seed) != SeedSize {
		return nil, ErrBadKeyLength
	}

	digest := sha512.Sum512(seed)
	defer zero(digest[:])

	digest[0] &= 0xf8
	digest[31] &= 0x7f
	digest[31] |= 0x40

	return newXPrv(digest[:], make([]byte, ChainCodeSize))
}

func newXPrv(extended, chainCode []byte) (*XPrv, error) {
	s, err := secretScalar(extended[:32])
	if err != nil {
		return nil, err
	}

	k := &XPrv{}
	copy(k.key[:], extended)
	copy(k.chainCode[:], chainCode)
	copy(k.pub[:], edwards25519.NewIdentityPoint().ScalarBaseMult(s).Bytes())

	return k, nil
}

// secretScalar reduces kL modulo the group order. kL is not required
// to be canonical, the reduction gives the same point multiple.
func secretScalar(kl []byte) (*edwards25519.Scalar, error) {
	var wide [64]byte
	defer zero(wide[:])
	copy(wide[:], kl)

	s, err := edwards25519.NewScalar().SetUniformBytes(wide[:])
	if err != nil {
		return nil, sigerr.Wrap(sigerr.DerivationError, err, "cannot load secret scalar")
	}
	if s.Equal(edwards25519.NewScalar()) == 1 {
		return nil, ErrZeroScalar
	}

	return s, nil
}

// PublicKey returns a copy of the Ed25519 public key
func (k *XPrv) PublicKey() []byte {
	pub := make([]byte, PublicKeySize)
	copy(pub, k.pub[:])
	return pub
}

// ChainCode returns a copy of the chain code
func (k *XPrv) ChainCode() []byte {
	cc := make([]byte, ChainCodeSize)
	copy(cc, k.chainCode[:])
	return cc
}

// Bytes serializes the key as kL || kR || chain code. The caller
// owns the returned secret and should zero it after use.
func (k *XPrv) Bytes() []byte {
	out := make([]byte, 0, XPrvSize)
	out = append(out, k.key[:]...)
	out = append(out, k.chainCode[:]...)
	return out
}

// Clone returns an independent copy of the key
func (k *XPrv) Clone() *XPrv {
	c := *k
	return &c
}

// Zero overwrites the secret and chain code. The key must not be
// used afterwards.
func (k *XPrv) Zero() {
	zero(k.key[:])
	zero(k.chainCode[:])
}

func zero(b []byte) {
	for i := range b {
		b[i] = 0
	}
}
