package ed25519bip32

import (
	"crypto/ed25519"
	"crypto/sha512"

	"filippo.io/edwards25519"
)

// Sign produces a deterministic Ed25519 signature over message using
// the expanded secret: r = H(kR || M), S = r + H(R || A || M) * kL.
func (k *XPrv) Sign(message []byte) ([]byte, error) {
	kl, err := secretScalar(k.key[:32])
	if err != nil {
		return nil, err
	}

	h := sha512.New()
	h.Write(k.key[32:])
	h.Write(message)
	var nonceDigest [sha512.Size]byte
	h.Sum(nonceDigest[:0])
	defer zero(nonceDigest[:])

	r, err := edwards25519.NewScalar().SetUniformBytes(nonceDigest[:])
	if err != nil {
		return nil, err
	}
	R := edwards25519.NewIdentityPoint().ScalarBaseMult(r).Bytes()

	h.Reset()
	h.Write(R)
	h.Write(k.pub[:])
	h.Write(message)
	var hramDigest [sha512.Size]byte
	h.Sum(hramDigest[:0])

	hram, err := edwards25519.NewScalar().SetUniformBytes(hramDigest[:])
	if err != nil {
		return nil, err
	}
	s := edwards25519.NewScalar().MultiplyAdd(hram, kl, r)

	sig := make([]byte, 0, SignatureSize)
	sig = append(sig, R...)
	sig = append(sig, s.Bytes()...)
	return sig, nil
}

// Verify checks sig over message against an Ed25519 public key.
// Malformed keys or signatures are reported as invalid.
func Verify(pub, message, sig []byte) bool {
	if len(pub) != PublicKeySize || len(sig) != SignatureSize {
		return false
	}
	return ed25519.Verify(ed25519.PublicKey(pub), message, sig)
}
