package sigerr

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
)

func TestKindOf(t *testing.T) {
	err := New(InvalidPath, "bad path")
	kind, ok := KindOf(err)
	assert.True(t, ok)
	assert.Equal(t, InvalidPath, kind)
	assert.EqualError(t, err, "bad path")

	_, ok = KindOf(errors.New("plain"))
	assert.False(t, ok)

	_, ok = KindOf(nil)
	assert.False(t, ok)
}

func TestKindSurvivesWrapping(t *testing.T) {
	inner := New(InvalidMnemonic, "checksum mismatch")
	outer := errors.Wrap(inner, "building signer")
	assert.True(t, IsKind(outer, InvalidMnemonic))
	assert.False(t, IsKind(outer, InvalidEncoding))
}

func TestWrapKeepsInnermostKind(t *testing.T) {
	inner := New(DerivationError, "zero scalar")
	err := Wrap(SigningError, errors.Wrap(inner, "child 3"), "derive")
	assert.True(t, IsKind(err, DerivationError))

	plain := errors.New("boom")
	err = Wrap(MalformedInput, plain, "decode tx")
	assert.True(t, IsKind(err, MalformedInput))
	assert.EqualError(t, err, "decode tx: boom")
	assert.True(t, errors.Is(err, plain))
}

func TestErrorf(t *testing.T) {
	err := Errorf(InvalidEncoding, "expected %d bytes, got %d", 96, 12)
	assert.True(t, IsKind(err, InvalidEncoding))
	assert.EqualError(t, err, "expected 96 bytes, got 12")

	e, ok := err.(*Error)
	assert.True(t, ok)
	assert.Nil(t, e.Cause)
	assert.Nil(t, e.Unwrap())
}
