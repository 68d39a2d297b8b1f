// Package sigerr holds the error taxonomy shared by the signer packages.
// Callers branch on Kind rather than matching error strings.
package sigerr

import (
	"fmt"
)

// Kind is a stable category for a failed construction or operation
type Kind string

const (
	// InvalidMnemonic covers unknown words, bad word counts and
	// checksum mismatches
	InvalidMnemonic Kind = "InvalidMnemonic"

	// InvalidEncoding covers bech32 checksum/prefix/length failures
	// and malformed CLI keys
	InvalidEncoding Kind = "InvalidEncoding"

	// InvalidPath is returned when a derivation path fails to parse
	InvalidPath Kind = "InvalidPath"

	// DerivationError is returned when a derivation step yields a
	// key outside the valid scalar range
	DerivationError Kind = "DerivationError"

	// MalformedInput is returned for transaction payloads which are not
	// strict hex, or not a CBOR transaction
	MalformedInput Kind = "MalformedInput"

	// SigningError is returned when signing cannot proceed
	SigningError Kind = "SigningError"
)

// Error is a categorized error. Message is for humans, do not match on it.
type Error struct {
	Kind    Kind
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause == nil {
		return e.Message
	}
	return e.Message + ": " + e.Cause.Error()
}

// Unwrap returns the underlying error for errors.Is/As
func (e *Error) Unwrap() error {
	return e.Cause
}

// New returns an Error of the given kind
func New(kind Kind, msg string) error {
	return &Error{Kind: kind, Message: msg}
}

// Errorf returns an Error of the given kind with a formatted message
func Errorf(kind Kind, format string, args ...interface{}) error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// Wrap categorizes cause under kind. If cause already carries a
// Kind it is returned unchanged, so the innermost category wins.
func Wrap(kind Kind, cause error, msg string) error {
	if cause == nil {
		return New(kind, msg)
	}
	if _, ok := KindOf(cause); ok {
		return cause
	}
	return &Error{Kind: kind, Message: msg, Cause: cause}
}

// KindOf extracts the Kind from err, walking the wrap chain.
func KindOf(err error) (Kind, bool) {
	for err != nil {
		if e, ok := err.(*Error); ok {
			return e.Kind, true
		}
		switch x := err.(type) {
		case interface{ Unwrap() error }:
			err = x.Unwrap()
		case interface{ Cause() error }:
			err = x.Cause()
		default:
			return "", false
		}
	}
	return "", false
}

// IsKind reports whether err is (or wraps) an Error of the given Kind
func IsKind(err error, kind Kind) bool {
	k, ok := KindOf(err)
	return ok && k == kind
}
