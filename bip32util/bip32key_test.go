package bip32util

import (
	"encoding/hex"
	"fmt"
	"testing"

	"github.com/btccom/adasigner/ed25519bip32"
	"github.com/btccom/adasigner/sigerr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func masterKey(t *testing.T) *Key {
	entropy := make([]byte, 16)
	xprv, err := ed25519bip32.NewMasterKeyFromEntropy(entropy, nil)
	require.NoError(t, err)

	key, err := NewBip32MasterKey(xprv)
	require.NoError(t, err)
	return key
}

func TestNewBip32Key(t *testing.T) {
	key := masterKey(t)
	assert.True(t, key.Path.IsRoot())

	_, err := NewBip32Key(nil, NewRootPath())
	assert.Equal(t, ErrKeyPathMismatch, err)

	_, err = NewBip32Key(key.Key, nil)
	assert.Equal(t, ErrKeyPathMismatch, err)
}

func TestKeyChild(t *testing.T) {
	key := masterKey(t)

	child, err := key.Child(ed25519bip32.HardenedKeyStart + 1852)
	require.NoError(t, err)
	assert.Equal(t, "m/1852'", child.Path.String())
	assert.Equal(t, "m", key.Path.String())
}

func TestDerivePath(t *testing.T) {
	fixtures := []struct {
		path string
		pub  string
	}{
		{"m", "37fdfdbe9ac856469f8d83c66c57880246cd8bf7f852bf5b94336fe535c0efc8"},
		{"m/0", "3ddf02afd5b977bf5d22d9f99130692bfd8f01f86bf0e2d6458016e7db30b355"},
		{"m/1", "a26bda448762dc2b94d5a8278986e17d88a4271d780af1958a3aa58b5c7813af"},
		{"m/1852'/1815'/0'", "beb7e770b3d0f1932b0a2f3a63285bf9ef7d3e461d55446d6a3911d8f0ee55c0"},
		{"m/1852'/1815'/0'/0/0", "7ea09a34aebb13c9841c71397b1cabfec5ddf950405293dee496cac2f437480a"},
		{"m/44'/1815'/0'/0/0", "008254ee8b74b30fa3a7ab1f6c34e911a16fb1bb53107920cb45f1dea5ba9f07"},
	}

	for i := 0; i < len(fixtures); i++ {
		desc := fmt.Sprintf("path case %d (%s)", i, fixtures[i].path)
		t.Run(desc, func(t *testing.T) {
			root := masterKey(t)
			rootBytes := root.Key.Bytes()

			path, err := NewPathFromString(fixtures[i].path)
			require.NoError(t, err)

			derived, err := root.DerivePath(path)
			require.NoError(t, err)
			assert.Equal(t, fixtures[i].pub, hex.EncodeToString(derived.Key.PublicKey()))
			assert.Equal(t, path.String(), derived.Path.String())

			// the starting key is never consumed
			assert.Equal(t, rootBytes, root.Key.Bytes())
		})
	}
}

func TestDerivePathEmptyReturnsRootCopy(t *testing.T) {
	root := masterKey(t)

	derived, err := root.DerivePath(NewRootPath())
	require.NoError(t, err)
	assert.Equal(t, root.Key.Bytes(), derived.Key.Bytes())

	derived.Zero()
	assert.NotEqual(t, root.Key.Bytes(), derived.Key.Bytes())

	derived, err = root.DerivePath(nil)
	require.NoError(t, err)
	assert.Equal(t, root.Key.Bytes(), derived.Key.Bytes())
	assert.True(t, derived.Path.IsRoot())
}

func TestDerivePathIsDeterministic(t *testing.T) {
	path, err := NewPathFromString("m/1852'/1815'/3'/0/7")
	require.NoError(t, err)

	a, err := masterKey(t).DerivePath(path)
	require.NoError(t, err)
	b, err := masterKey(t).DerivePath(path)
	require.NoError(t, err)
	assert.Equal(t, a.Key.Bytes(), b.Key.Bytes())
}

func TestDerivePathMaxDepth(t *testing.T) {
	root := masterKey(t)
	deep := &Key{Key: root.Key, Path: &Path{Path: make([]uint32, maxBip32Depth)}}

	_, err := deep.DerivePath(&Path{Path: []uint32{0}})
	assert.Error(t, err)
	assert.True(t, sigerr.IsKind(err, sigerr.InvalidPath))
}
