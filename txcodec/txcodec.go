// Package txcodec decodes transaction payloads handed to the signer
// and encodes what the signer hands back.
package txcodec

import (
	"encoding/hex"

	"github.com/btccom/adasigner/ed25519bip32"
	"github.com/btccom/adasigner/sigerr"
	"github.com/fxamacker/cbor/v2"
	"golang.org/x/crypto/blake2b"
)

const (
	// TxHashSize is the length of a transaction body hash
	TxHashSize = blake2b.Size256

	// KeyHashSize is the length of a verification key hash
	KeyHashSize = 28

	// cborMajorMap is the major type of a CBOR map, in the top
	// three bits of the initial byte
	cborMajorMap = 5
)

// DecodeHex decodes s, which must be an even number of hex digits
// with no prefix or whitespace.
func DecodeHex(s string) ([]byte, error) {
	if s == "" {
		return nil, sigerr.New(sigerr.MalformedInput, "empty hex payload")
	}

	b, err := hex.DecodeString(s)
	if err != nil {
		return nil, sigerr.Wrap(sigerr.MalformedInput, err, "invalid hex payload")
	}

	return b, nil
}

// EncodeHex returns the lowercase hex of b
func EncodeHex(b []byte) string {
	return hex.EncodeToString(b)
}

// EncodeSignature hex encodes a 64 byte signature
func EncodeSignature(sig []byte) (string, error) {
	if len(sig) != ed25519bip32.SignatureSize {
		return "", sigerr.Errorf(sigerr.SigningError, "signature must be %d bytes, got %d", ed25519bip32.SignatureSize, len(sig))
	}

	return EncodeHex(sig), nil
}

// BodyBytes returns the transaction body exactly as it is encoded
// in tx. A full transaction is a CBOR array whose first element is
// the body; a bare CBOR map is taken to be the body itself.
func BodyBytes(tx []byte) ([]byte, error) {
	if len(tx) == 0 {
		return nil, sigerr.New(sigerr.MalformedInput, "empty transaction")
	}

	if err := cbor.Wellformed(tx); err != nil {
		return nil, sigerr.Wrap(sigerr.MalformedInput, err, "transaction is not well formed CBOR")
	}

	if tx[0]>>5 == cborMajorMap {
		return tx, nil
	}

	var elements []cbor.RawMessage
	if err := cbor.Unmarshal(tx, &elements); err != nil {
		return nil, sigerr.Wrap(sigerr.MalformedInput, err, "transaction is neither a CBOR array nor a map")
	}
	if len(elements) == 0 {
		return nil, sigerr.New(sigerr.MalformedInput, "transaction array is empty")
	}

	body := elements[0]
	if len(body) == 0 || body[0]>>5 != cborMajorMap {
		return nil, sigerr.New(sigerr.MalformedInput, "transaction body is not a CBOR map")
	}

	return body, nil
}

// TxHash is the blake2b-256 hash of a transaction body, the id
// of the transaction and the message its witnesses sign.
func TxHash(body []byte) [TxHashSize]byte {
	return blake2b.Sum256(body)
}

// SigningPayload decodes txHex and returns the bytes a key witness
// signs: the hash of the transaction body.
func SigningPayload(txHex string) ([]byte, error) {
	tx, err := DecodeHex(txHex)
	if err != nil {
		return nil, err
	}

	body, err := BodyBytes(tx)
	if err != nil {
		return nil, err
	}

	hash := TxHash(body)
	return hash[:], nil
}

// KeyHash is the blake2b-224 hash of a verification key, as used
// in addresses and required signer sets.
func KeyHash(vkey []byte) ([]byte, error) {
	h, err := blake2b.New(KeyHashSize, nil)
	if err != nil {
		return nil, err
	}
	h.Write(vkey)
	return h.Sum(nil), nil
}

// VKeyWitness is a verification key and its signature over a
// transaction body hash.
type VKeyWitness struct {
	_         struct{} `cbor:",toarray"`
	VKey      []byte
	Signature []byte
}

// EncodeWitness encodes the [vkey, signature] pair a transaction
// carries in its witness set.
func EncodeWitness(vkey, sig []byte) ([]byte, error) {
	if len(vkey) != ed25519bip32.PublicKeySize {
		return nil, sigerr.Errorf(sigerr.SigningError, "verification key must be %d bytes, got %d", ed25519bip32.PublicKeySize, len(vkey))
	}
	if len(sig) != ed25519bip32.SignatureSize {
		return nil, sigerr.Errorf(sigerr.SigningError, "signature must be %d bytes, got %d", ed25519bip32.SignatureSize, len(sig))
	}

	b, err := cbor.Marshal(VKeyWitness{VKey: vkey, Signature: sig})
	if err != nil {
		return nil, sigerr.Wrap(sigerr.SigningError, err, "failed to encode witness")
	}

	return b, nil
}

// DecodeWitness is the inverse of EncodeWitness
func DecodeWitness(b []byte) (*VKeyWitness, error) {
	var w VKeyWitness
	if err := cbor.Unmarshal(b, &w); err != nil {
		return nil, sigerr.Wrap(sigerr.MalformedInput, err, "invalid witness")
	}
	if len(w.VKey) != ed25519bip32.PublicKeySize || len(w.Signature) != ed25519bip32.SignatureSize {
		return nil, sigerr.New(sigerr.MalformedInput, "witness has wrong key or signature length")
	}

	return &w, nil
}
