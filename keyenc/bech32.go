package keyenc

import (
	"strings"

	"github.com/btccom/adasigner/ed25519bip32"
	"github.com/btccom/adasigner/sigerr"
	"github.com/btcsuite/btcd/btcutil/bech32"
)

// DecodeBech32 decodes a bech32 string of any length, returning the
// prefix and the payload regrouped into bytes.
func DecodeBech32(encoded string) (string, []byte, error) {
	prefix, data, err := bech32.DecodeNoLimit(strings.TrimSpace(encoded))
	if err != nil {
		return "", nil, sigerr.Wrap(sigerr.InvalidEncoding, err, "invalid bech32 string")
	}

	payload, err := bech32.ConvertBits(data, 5, 8, false)
	if err != nil {
		return "", nil, sigerr.Wrap(sigerr.InvalidEncoding, err, "invalid bech32 payload")
	}

	return prefix, payload, nil
}

// EncodeBech32 encodes payload under prefix, without the BIP-173
// length limit.
func EncodeBech32(prefix string, payload []byte) (string, error) {
	if _, err := CheckPrefix(prefix); err != nil {
		return "", err
	}

	data, err := bech32.ConvertBits(payload, 8, 5, true)
	if err != nil {
		return "", sigerr.Wrap(sigerr.InvalidEncoding, err, "cannot regroup payload")
	}

	encoded, err := bech32.Encode(prefix, data)
	if err != nil {
		return "", sigerr.Wrap(sigerr.InvalidEncoding, err, "cannot encode bech32")
	}

	return encoded, nil
}

// decodeKey decodes a bech32 key and checks its prefix and length
// against the known key types.
func decodeKey(encoded string) (*KeyType, []byte, error) {
	prefix, payload, err := DecodeBech32(encoded)
	if err != nil {
		return nil, nil, err
	}

	keyType, err := GetKeyType(prefix)
	if err != nil {
		return nil, nil, err
	}

	if len(payload) != keyType.Size {
		zero(payload)
		return nil, nil, sigerr.Errorf(sigerr.InvalidEncoding, "%s key must be %d bytes, got %d", prefix, keyType.Size, len(payload))
	}

	return keyType, payload, nil
}

// DecodeRootKey decodes a bech32 root private key (xprv or root_xsk)
// into its 96 bytes: kL || kR || chain code. kL must be a clamped
// scalar.
func DecodeRootKey(encoded string) ([]byte, error) {
	keyType, payload, err := decodeKey(encoded)
	if err != nil {
		return nil, err
	}

	if !keyType.Root {
		zero(payload)
		return nil, sigerr.Errorf(sigerr.InvalidEncoding, "%s is not a root key prefix", keyType.Prefix)
	}

	key, err := ed25519bip32.NewKeyFromBytes(payload)
	if err != nil {
		zero(payload)
		return nil, err
	}
	key.Zero()

	return payload, nil
}

// EncodeRootKey is the inverse of DecodeRootKey
func EncodeRootKey(prefix string, key []byte) (string, error) {
	keyType, err := GetKeyType(prefix)
	if err != nil {
		return "", err
	}
	if !keyType.Root {
		return "", sigerr.Errorf(sigerr.InvalidEncoding, "%s is not a root key prefix", prefix)
	}
	if len(key) != keyType.Size {
		return "", sigerr.Errorf(sigerr.InvalidEncoding, "%s key must be %d bytes, got %d", prefix, keyType.Size, len(key))
	}

	return EncodeBech32(prefix, key)
}

func zero(b []byte) {
	for i := range b {
		b[i] = 0
	}
}
