// Package keyenc decodes the three key input formats into raw key
// bytes: BIP-39 mnemonics, bech32 root keys and cardano-cli keys.
package keyenc

import (
	"strings"

	"github.com/btccom/adasigner/sigerr"
	"github.com/tyler-smith/go-bip39"
)

// NormalizeMnemonic lower-cases the phrase and collapses whitespace
// to single spaces.
func NormalizeMnemonic(phrase string) string {
	return strings.Join(strings.Fields(strings.ToLower(phrase)), " ")
}

// DecodeMnemonic validates the word count, each word and the checksum
// of phrase, and returns the entropy it encodes.
func DecodeMnemonic(phrase string) ([]byte, error) {
	entropy, err := bip39.EntropyFromMnemonic(NormalizeMnemonic(phrase))
	if err != nil {
		return nil, sigerr.Wrap(sigerr.InvalidMnemonic, err, "invalid mnemonic")
	}

	return entropy, nil
}

// MnemonicSeed returns the 64 byte BIP-39 seed for phrase and
// passphrase, after the same validation as DecodeMnemonic.
func MnemonicSeed(phrase, passphrase string) ([]byte, error) {
	seed, err := bip39.NewSeedWithErrorChecking(NormalizeMnemonic(phrase), passphrase)
	if err != nil {
		return nil, sigerr.Wrap(sigerr.InvalidMnemonic, err, "invalid mnemonic")
	}

	return seed, nil
}
