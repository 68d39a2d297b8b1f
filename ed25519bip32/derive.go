package ed25519bip32

import (
	"crypto/hmac"
	"crypto/sha512"
	"encoding/binary"
)

// Domain tags for derivation scheme V2
const (
	tagHardenedKey   byte = 0x00
	tagHardenedChain byte = 0x01
	tagSoftKey       byte = 0x02
	tagSoftChain     byte = 0x03
)

// IsHardened returns whether index selects hardened derivation
func IsHardened(index uint32) bool {
	return index >= HardenedKeyStart
}

// Child derives the child key at index using derivation scheme V2.
// Hardened steps mix in the parent secret, soft steps only the parent
// public key. If the child scalar is zero the derivation fails with
// ErrZeroScalar rather than skipping to the next index.
func (k *XPrv) Child(index uint32) (*XPrv, error) {
	var seq [4]byte
	binary.LittleEndian.PutUint32(seq[:], index)

	zMac := hmac.New(sha512.New, k.chainCode[:])
	ccMac := hmac.New(sha512.New, k.chainCode[:])
	if IsHardened(index) {
		zMac.Write([]byte{tagHardenedKey})
		zMac.Write(k.key[:])
		ccMac.Write([]byte{tagHardenedChain})
		ccMac.Write(k.key[:])
	} else {
		zMac.Write([]byte{tagSoftKey})
		zMac.Write(k.pub[:])
		ccMac.Write([]byte{tagSoftChain})
		ccMac.Write(k.pub[:])
	}
	zMac.Write(seq[:])
	ccMac.Write(seq[:])

	z := zMac.Sum(nil)
	cc := ccMac.Sum(nil)
	defer zero(z)
	defer zero(cc)

	var child [ExtendedKeySize]byte
	defer zero(child[:])
	add28Mul8(child[:32], k.key[:32], z[:28])
	add256(child[32:], k.key[32:], z[32:])

	return newXPrv(child[:], cc[32:])
}

// add28Mul8 sets out = kl + 8*zl over 256 bit little endian integers,
// where zl is 28 bytes. A carry out of bit 255 is dropped.
func add28Mul8(out, kl, zl []byte) {
	var carry uint16
	for i := 0; i < 28; i++ {
		r := uint16(kl[i]) + uint16(zl[i])<<3 + carry
		out[i] = byte(r)
		carry = r >> 8
	}
	for i := 28; i < 32; i++ {
		r := uint16(kl[i]) + carry
		out[i] = byte(r)
		carry = r >> 8
	}
}

// add256 sets out = a + b mod 2^256, little endian
func add256(out, a, b []byte) {
	var carry uint16
	for i := 0; i < 32; i++ {
		r := uint16(a[i]) + uint16(b[i]) + carry
		out[i] = byte(r)
		carry = r >> 8
	}
}
