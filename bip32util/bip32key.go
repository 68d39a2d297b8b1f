package bip32util

import (
	"github.com/btccom/adasigner/ed25519bip32"
	"github.com/btccom/adasigner/sigerr"
	"github.com/pkg/errors"
)

var (
	// ErrKeyPathMismatch is produced by NewBip32Key when
	// the path doesn't fit the key.
	ErrKeyPathMismatch = sigerr.New(sigerr.DerivationError, "key matched with wrong path")
)

// NewBip32MasterKey will initialize a Key from a root XPrv
func NewBip32MasterKey(key *ed25519bip32.XPrv) (*Key, error) {
	return NewBip32Key(key, NewRootPath())
}

// NewBip32Key will initialize a Key from a provided XPrv and Path
func NewBip32Key(key *ed25519bip32.XPrv, path *Path) (*Key, error) {
	if key == nil || path == nil {
		return nil, ErrKeyPathMismatch
	}

	return &Key{
		Key:  key,
		Path: path,
	}, nil
}

// Key captures an extended key with the entire
// derivation path used to reach it.
type Key struct {
	Key  *ed25519bip32.XPrv
	Path *Path
}

// Child takes a sequence number and derives a child
// key. Called repetitively to derive a path.
func (k *Key) Child(sequence uint32) (*Key, error) {
	newPath, err := k.Path.Child(sequence)
	if err != nil {
		return nil, err
	}

	newKey, err := k.Key.Child(sequence)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to derive %s", PathSegmentFromSequence(sequence))
	}

	return &Key{newKey, newPath}, nil
}

// DerivePath walks every index in path starting from k, and
// returns the key at the end. Intermediate keys are zeroed once
// their child is known; k itself is left untouched. An empty or
// nil path returns a copy of k.
func (k *Key) DerivePath(path *Path) (*Key, error) {
	if path == nil {
		path = NewRootPath()
	}

	current := &Key{Key: k.Key.Clone(), Path: k.Path}

	for _, sequence := range path.Path {
		next, err := current.Child(sequence)
		current.Key.Zero()
		if err != nil {
			return nil, err
		}
		current = next
	}

	return current, nil
}

// Zero erases the secret held by the key
func (k *Key) Zero() {
	k.Key.Zero()
}
