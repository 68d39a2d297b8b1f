// Package handle keeps signers behind opaque integer handles for
// callers across a foreign function boundary. Every failure is
// logged and collapsed to a null handle or an absent result.
package handle

import (
	"sync"

	"github.com/btccom/adasigner/sigerr"
	"github.com/btccom/adasigner/wallet"
)

// Handle identifies a live signer. The zero Handle is null.
type Handle uintptr

// Null is returned when construction fails
const Null Handle = 0

// Table maps handles to the signers they own
type Table struct {
	mu      sync.RWMutex
	next    Handle
	signers map[Handle]*wallet.Signer
}

// NewTable returns an empty Table
func NewTable() *Table {
	return &Table{
		signers: make(map[Handle]*wallet.Signer),
	}
}

// NewMnemonic builds a mnemonic signer and returns its handle,
// or Null on failure.
func (t *Table) NewMnemonic(phrase, path string) Handle {
	signer, err := wallet.NewMnemonicSigner(phrase, path)
	return t.register("mnemonic", signer, err)
}

// NewBech32 builds a signer from a bech32 root key and path
func (t *Table) NewBech32(rootKey, path string) Handle {
	signer, err := wallet.NewBech32Signer(rootKey, path)
	return t.register("bech32", signer, err)
}

// NewCLI builds a signer from a cardano-cli style key
func (t *Table) NewCLI(cliKey string) Handle {
	signer, err := wallet.NewCLISigner(cliKey)
	return t.register("cli", signer, err)
}

func (t *Table) register(constructor string, signer *wallet.Signer, err error) Handle {
	if err != nil {
		logFailure(constructor, err)
		return Null
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	t.next++
	if t.next == Null {
		t.next++
	}
	h := t.next
	t.signers[h] = signer

	log.Debugf("registered %s signer as handle %d", constructor, h)
	return h
}

// get must be called with t.mu held for reading, so that
// Free cannot close the signer while it is in use.
func (t *Table) get(h Handle) (*wallet.Signer, bool) {
	if h == Null {
		return nil, false
	}

	signer, ok := t.signers[h]
	return signer, ok
}

// SignTransaction signs txHex with the signer behind h. The result
// is 128 lowercase hex characters; ok is false on any failure.
func (t *Table) SignTransaction(h Handle, txHex string) (string, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	signer, ok := t.get(h)
	if !ok {
		log.Warnf("sign_transaction called with unknown handle %d", h)
		return "", false
	}

	sig, err := signer.SignTransaction(txHex)
	if err != nil {
		logFailure("sign_transaction", err)
		return "", false
	}

	return sig, true
}

// PublicKey returns the hex verification key of the signer behind h
func (t *Table) PublicKey(h Handle) (string, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	signer, ok := t.get(h)
	if !ok {
		log.Warnf("get_public_key called with unknown handle %d", h)
		return "", false
	}

	pub, err := signer.PublicKeyHex()
	if err != nil {
		logFailure("get_public_key", err)
		return "", false
	}

	return pub, true
}

// Free zeroes the signer behind h and forgets the handle. Freeing
// Null or an unknown handle does nothing.
func (t *Table) Free(h Handle) {
	if h == Null {
		return
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	signer, ok := t.signers[h]
	if !ok {
		return
	}

	delete(t.signers, h)
	signer.Close()
	log.Debugf("freed handle %d", h)
}

// Len returns the number of live handles
func (t *Table) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.signers)
}

func logFailure(operation string, err error) {
	kind, ok := sigerr.KindOf(err)
	if !ok {
		log.Errorf("%s failed: %v", operation, err)
		return
	}
	log.Warnf("%s failed with %s: %v", operation, kind, err)
}
