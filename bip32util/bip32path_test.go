package bip32util

import (
	"testing"

	"github.com/btccom/adasigner/sigerr"
	"github.com/stretchr/testify/assert"
)

func TestNewRootPath(t *testing.T) {
	path := NewRootPath()
	assert.Equal(t, 0, path.Depth())
	assert.Equal(t, 0, len(path.Path))
	assert.True(t, path.IsRoot())
	assert.Equal(t, "m", path.String())
}

type bip32PathTestCase struct {
	path     string
	depth    int
	expected string
}

func TestBip32Path_FromString(t *testing.T) {
	tests := []bip32PathTestCase{
		{"m", 0, "m"},
		{"", 0, "m"},
		{"m/0", 1, "m/0"},
		{"m/0'", 1, "m/0'"},
		{"m/1852H/1815h/0'/0/0", 5, "m/1852'/1815'/0'/0/0"},
		{"m/44'/1815'/0'/0/0", 5, "m/44'/1815'/0'/0/0"},
		{"m/1/2'/3/4'/5'/6/7/8'/9'/10", 10, "m/1/2'/3/4'/5'/6/7/8'/9'/10"},
		{"m/2147483647'", 1, "m/2147483647'"},
		{"m/2147483647", 1, "m/2147483647"},
	}

	for _, test := range tests {
		t.Run(test.path, func(t *testing.T) {
			indices, err := PathInfoFromString(test.path)
			assert.NoError(t, err)
			assert.Equal(t, test.depth, len(indices))

			b32path, err := NewPathFromString(test.path)
			assert.NoError(t, err)
			assert.Equal(t, test.depth, b32path.Depth())
			assert.Equal(t, test.expected, b32path.String())
		})
	}
}

func TestBip32Path_HardenedIndices(t *testing.T) {
	path, err := NewPathFromString("m/1852'/1815'/0'/2/0")
	assert.NoError(t, err)
	assert.Equal(t, []uint32{0x8000073c, 0x80000717, 0x80000000, 2, 0}, path.Path)

	idx, err := path.GetKeyIndex()
	assert.NoError(t, err)
	assert.Equal(t, uint32(0), idx)

	_, err = NewRootPath().GetKeyIndex()
	assert.Equal(t, ErrPathMissingKeyIndex, err)
}

type bip32PathTestError struct {
	path  string
	error string
}

func TestBip32Path_ErrorFromString(t *testing.T) {
	long := "m"
	for i := 0; i < 256; i++ {
		long += "/1"
	}

	tests := []bip32PathTestError{
		{"M/0", "absolute derivation path is required"},
		{"0", "absolute derivation path is required"},
		{"m0", "absolute derivation path is required"},
		{"m/", `invalid path segment ""`},
		{"m/0''", `improperly formatted derivation "0''" (cannot contain multiple hardened markers)`},
		{"m/0'H", `improperly formatted derivation "0'H" (cannot contain multiple hardened markers)`},
		{"m/'0", `improperly formatted derivation "'0" (hardened marker must be last)`},
		{"m/+1", `invalid path segment "+1"`},
		{"m/-1", `invalid path segment "-1"`},
		{"m/abc", `invalid path segment "abc"`},
		{"m/2147483648'", `invalid path segment: strconv.ParseUint: parsing "2147483648": value out of range`},
		{long, "the provided path exceeds the maximum number of allowed derivations: 255"},
	}

	for _, test := range tests {
		t.Run(test.path, func(t *testing.T) {
			_, err := PathInfoFromString(test.path)
			assert.Error(t, err)
			assert.Equal(t, test.error, err.Error())
			assert.True(t, sigerr.IsKind(err, sigerr.InvalidPath))

			path, err := NewPathFromString(test.path)
			assert.Error(t, err)
			assert.Nil(t, path)
			assert.Equal(t, test.error, err.Error())
		})
	}
}

func TestBip32Path_Child(t *testing.T) {
	parent, err := NewPathFromString("m/1852'")
	assert.NoError(t, err)

	child, err := parent.Child(0)
	assert.NoError(t, err)
	assert.Equal(t, "m/1852'/0", child.String())
	assert.Equal(t, "m/1852'", parent.String())

	deep := NewRootPath()
	for i := 0; i < maxBip32Depth; i++ {
		deep, err = deep.Child(uint32(i))
		assert.NoError(t, err)
	}
	_, err = deep.Child(0)
	assert.Equal(t, ErrPathAlreadyMaxDepth, err)
}
