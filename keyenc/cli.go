package keyenc

import (
	"bytes"
	"encoding/hex"
	"encoding/json"
	"strings"

	"github.com/btccom/adasigner/ed25519bip32"
	"github.com/btccom/adasigner/sigerr"
	"github.com/fxamacker/cbor/v2"
)

// cliExtendedKeySize is the payload of a cardano-cli extended
// signing key: kL || kR || public key || chain code
const cliExtendedKeySize = ed25519bip32.ExtendedKeySize + ed25519bip32.PublicKeySize + ed25519bip32.ChainCodeSize

// TextEnvelope is the JSON wrapper cardano-cli writes .skey files in
type TextEnvelope struct {
	Type        string `json:"type"`
	Description string `json:"description"`
	CborHex     string `json:"cborHex"`
}

// DecodeCLIKey decodes a signing key in one of the forms cardano-cli
// and its ecosystem produce:
//   - a JSON text envelope with a cborHex field
//   - a CBOR byte string in hex (5820.., 5840.. or 5880..)
//   - raw hex of a 32 byte seed or a 64 byte expanded secret
//   - bech32 ed25519_sk or ed25519e_sk
//
// The result is 32 bytes for a plain Ed25519 seed, or 64 bytes for an
// expanded secret kL || kR.
func DecodeCLIKey(encoded string) ([]byte, error) {
	encoded = strings.TrimSpace(encoded)

	switch {
	case encoded == "":
		return nil, sigerr.New(sigerr.InvalidEncoding, "empty key")
	case strings.HasPrefix(encoded, "{"):
		return decodeTextEnvelope(encoded)
	case strings.HasPrefix(strings.ToLower(encoded), PrefixEd25519Sk+"1"),
		strings.HasPrefix(strings.ToLower(encoded), PrefixEd25519eSk+"1"):
		_, payload, err := decodeKey(encoded)
		return payload, err
	}

	raw, err := hex.DecodeString(encoded)
	if err != nil {
		return nil, sigerr.Wrap(sigerr.InvalidEncoding, err, "key is neither hex, bech32 nor a text envelope")
	}

	switch len(raw) {
	case ed25519bip32.SeedSize, ed25519bip32.ExtendedKeySize:
		return raw, nil
	}

	defer zero(raw)
	return decodeCBORKey(raw)
}

func decodeTextEnvelope(encoded string) ([]byte, error) {
	var envelope TextEnvelope
	if err := json.Unmarshal([]byte(encoded), &envelope); err != nil {
		return nil, sigerr.Wrap(sigerr.InvalidEncoding, err, "invalid text envelope")
	}
	if !strings.Contains(envelope.Type, "SigningKey") {
		return nil, sigerr.Errorf(sigerr.InvalidEncoding, "text envelope type %q is not a signing key", envelope.Type)
	}

	raw, err := hex.DecodeString(strings.TrimSpace(envelope.CborHex))
	if err != nil {
		return nil, sigerr.Wrap(sigerr.InvalidEncoding, err, "invalid text envelope cborHex")
	}
	defer zero(raw)

	return decodeCBORKey(raw)
}

// decodeCBORKey unwraps a CBOR byte string holding a signing key
func decodeCBORKey(raw []byte) ([]byte, error) {
	var payload []byte
	if err := cbor.Unmarshal(raw, &payload); err != nil {
		return nil, sigerr.Wrap(sigerr.InvalidEncoding, err, "key is not a CBOR byte string")
	}

	switch len(payload) {
	case ed25519bip32.SeedSize, ed25519bip32.ExtendedKeySize:
		return payload, nil
	case cliExtendedKeySize:
		defer zero(payload)
		return splitCLIExtendedKey(payload)
	}

	zero(payload)
	return nil, sigerr.Errorf(sigerr.InvalidEncoding, "unexpected signing key length %d", len(payload))
}

// splitCLIExtendedKey returns kL || kR from a 128 byte extended key,
// checking the embedded public key.
func splitCLIExtendedKey(payload []byte) ([]byte, error) {
	extended := payload[:ed25519bip32.ExtendedKeySize]
	pub := payload[ed25519bip32.ExtendedKeySize : ed25519bip32.ExtendedKeySize+ed25519bip32.PublicKeySize]

	key, err := ed25519bip32.NewKeyFromExtended(extended, nil)
	if err != nil {
		return nil, err
	}
	defer key.Zero()

	if !bytes.Equal(key.PublicKey(), pub) {
		return nil, sigerr.New(sigerr.InvalidEncoding, "extended signing key does not match its public key")
	}

	out := make([]byte, ed25519bip32.ExtendedKeySize)
	copy(out, extended)
	return out, nil
}
