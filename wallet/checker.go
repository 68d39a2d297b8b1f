package wallet

import (
	"bytes"

	"github.com/btccom/adasigner/ed25519bip32"
	"github.com/btccom/adasigner/sigerr"
	"github.com/btccom/adasigner/txcodec"
	"github.com/pkg/errors"
)

// validSignature is an internal structure for capturing
// the fields of a valid signature
type validSignature struct {
	pubKey []byte
	sig    []byte
	hash   []byte
}

// parsePubKeyAndSig checks the lengths of a verification
// key and signature before they are used
func parsePubKeyAndSig(vchPubKey []byte, vchSig []byte) error {
	if len(vchPubKey) != ed25519bip32.PublicKeySize {
		return errors.New("Invalid length of public key")
	}
	if len(vchSig) != ed25519bip32.SignatureSize {
		return errors.New("Invalid length of signature")
	}
	return nil
}

// checkTxSig verifies sig over hash by pubKey
func checkTxSig(sig []byte, pubKey []byte, hash []byte) (*validSignature, error) {
	if ed25519bip32.Verify(pubKey, hash, sig) {
		return &validSignature{
			pubKey: pubKey,
			sig:    sig,
			hash:   hash,
		}, nil
	}

	return nil, errors.New("Invalid signature")
}

// Verify reports whether sig is a valid signature over payload by
// the verification key pub. Malformed inputs are invalid.
func Verify(pub, payload, sig []byte) bool {
	if err := parsePubKeyAndSig(pub, sig); err != nil {
		return false
	}
	_, err := checkTxSig(sig, pub, payload)
	return err == nil
}

// Checker verifies key witness signatures against a
// single transaction.
type Checker struct {
	hash []byte
}

// NewChecker decodes txHex and computes the hash its
// witnesses sign.
func NewChecker(txHex string) (*Checker, error) {
	hash, err := txcodec.SigningPayload(txHex)
	if err != nil {
		return nil, err
	}

	return &Checker{hash: hash}, nil
}

// GetSigHash returns the body hash of the transaction
func (c *Checker) GetSigHash() []byte {
	hash := make([]byte, len(c.hash))
	copy(hash, c.hash)
	return hash
}

// CheckSig verifies a signature by vchPubKey over the transaction
func (c *Checker) CheckSig(vchPubKey []byte, vchSig []byte) error {
	if err := parsePubKeyAndSig(vchPubKey, vchSig); err != nil {
		return sigerr.Wrap(sigerr.MalformedInput, err, "checker failed to parse pubkey/sig")
	}

	if _, err := checkTxSig(vchSig, vchPubKey, c.hash); err != nil {
		return sigerr.Wrap(sigerr.SigningError, err, "checker rejected signature")
	}
	return nil
}

// CheckSigHex is CheckSig for hex encoded inputs, as returned by
// Signer.PublicKeyHex and Signer.SignTransaction.
func (c *Checker) CheckSigHex(pubHex, sigHex string) error {
	pub, err := txcodec.DecodeHex(pubHex)
	if err != nil {
		return err
	}
	sig, err := txcodec.DecodeHex(sigHex)
	if err != nil {
		return err
	}

	return c.CheckSig(pub, sig)
}

// CheckWitness decodes a hex encoded [vkey, signature] witness and
// verifies it. If signer is not nil, the witness must be by that key.
func (c *Checker) CheckWitness(witnessHex string, signer []byte) error {
	raw, err := txcodec.DecodeHex(witnessHex)
	if err != nil {
		return err
	}

	witness, err := txcodec.DecodeWitness(raw)
	if err != nil {
		return err
	}

	if signer != nil && !bytes.Equal(signer, witness.VKey) {
		return sigerr.New(sigerr.SigningError, "witness is by a different key")
	}

	return c.CheckSig(witness.VKey, witness.Signature)
}
