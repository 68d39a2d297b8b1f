package bip32util

import (
	"math"
	"strconv"
	"strings"

	"github.com/btccom/adasigner/sigerr"
	"github.com/btcsuite/btcd/btcutil/hdkeychain"
)

var (
	// ErrPathMissingKeyIndex is thrown when a
	// path is too short, and doesn't include the
	// key index field
	ErrPathMissingKeyIndex = sigerr.New(sigerr.InvalidPath, "no key index set on path")

	// ErrPathAlreadyMaxDepth is returned when the
	// path has reached it's maximum depth of 255
	ErrPathAlreadyMaxDepth = sigerr.New(sigerr.InvalidPath, "cannot create child path, currently at max depth")
)

const (
	rootPathPrefix    = "m"
	privatePathSymbol = "'"
	maxBip32Depth     = math.MaxUint8
)

// hardenedSymbols are the accepted suffixes for a hardened
// segment. Cardano documentation often writes 1852H.
var hardenedSymbols = []string{privatePathSymbol, "H", "h"}

// NewPathFromString wraps a call to PathInfoFromString, and initializes
// a Path from the result.
func NewPathFromString(path string) (*Path, error) {
	indices, err := PathInfoFromString(path)
	if err != nil {
		return nil, err
	}

	return &Path{Path: indices}, nil
}

// Path defines a derivation path as the list of
// child indices walked from the root key.
type Path struct {
	Path []uint32
}

// NewRootPath initializes the empty path `m`
func NewRootPath() *Path {
	return &Path{
		Path: make([]uint32, 0),
	}
}

// Child attempts to append another sequence
// number to the path array, returning a new
// structure
func (p *Path) Child(sequence uint32) (*Path, error) {
	newDepth := p.Depth() + 1
	if newDepth > maxBip32Depth {
		return nil, ErrPathAlreadyMaxDepth
	}

	indices := make([]uint32, 0, newDepth)
	indices = append(indices, p.Path...)
	indices = append(indices, sequence)

	return &Path{Path: indices}, nil
}

// Depth returns the current depth of the path
func (p *Path) Depth() int {
	return len(p.Path)
}

// IsRoot returns whether the path selects the root key itself
func (p *Path) IsRoot() bool {
	return p.Depth() == 0
}

// GetKeyIndex returns the last index of the path,
// which selects the address key.
func (p *Path) GetKeyIndex() (uint32, error) {
	if p.Depth() < 1 {
		return 0, ErrPathMissingKeyIndex
	}

	return p.Path[p.Depth()-1], nil
}

// isBip32SequenceHardened returns whether the provided
// sequence has the leftmost bit set.
func isBip32SequenceHardened(sequence uint32) bool {
	return sequence&hdkeychain.HardenedKeyStart != 0
}

// PathSegmentFromSequence is used for serializing the
// sequence parameter from a Path into a string. The
// function returns the sequence number as a string, with
// the private path symbol if the sequence is hardened.
func PathSegmentFromSequence(sequence uint32) string {
	if isBip32SequenceHardened(sequence) {
		return strconv.FormatUint(uint64(sequence-hdkeychain.HardenedKeyStart), 10) + privatePathSymbol
	}
	return strconv.FormatUint(uint64(sequence), 10)
}

// trimHardened strips a single hardened marker from
// segment and reports whether one was present.
func trimHardened(segment string) (string, bool, error) {
	found := 0
	for _, symbol := range hardenedSymbols {
		found += strings.Count(segment, symbol)
	}

	switch {
	case found > 1:
		return "", false, sigerr.Errorf(sigerr.InvalidPath, "improperly formatted derivation %q (cannot contain multiple hardened markers)", segment)
	case found == 0:
		return segment, false, nil
	}

	for _, symbol := range hardenedSymbols {
		if strings.HasSuffix(segment, symbol) {
			return strings.TrimSuffix(segment, symbol), true, nil
		}
	}

	return "", false, sigerr.Errorf(sigerr.InvalidPath, "improperly formatted derivation %q (hardened marker must be last)", segment)
}

// PathInfoFromString takes a path(string) and extracts the
// child indices, or an error. The empty string and `m` both
// select the root key.
func PathInfoFromString(path string) ([]uint32, error) {
	path = strings.TrimSpace(path)
	if path == "" || path == rootPathPrefix {
		return []uint32{}, nil
	}

	if !strings.HasPrefix(path, rootPathPrefix+"/") {
		return nil, sigerr.New(sigerr.InvalidPath, "absolute derivation path is required")
	}

	pieces := strings.Split(path, "/")[1:]

	depth := len(pieces)
	if depth > maxBip32Depth {
		return nil, sigerr.Errorf(sigerr.InvalidPath, "the provided path exceeds the maximum number of allowed derivations: %d", math.MaxUint8)
	}

	indices := make([]uint32, depth)
	for i := 0; i < depth; i++ {
		segment, hardened, err := trimHardened(pieces[i])
		if err != nil {
			return nil, err
		}

		// ParseUint accepts a leading '+', digits only here
		if segment == "" || strings.TrimLeft(segment, "0123456789") != "" {
			return nil, sigerr.Errorf(sigerr.InvalidPath, "invalid path segment %q", pieces[i])
		}

		sequence, err := strconv.ParseUint(segment, 10, 31)
		if err != nil {
			return nil, sigerr.Wrap(sigerr.InvalidPath, err, "invalid path segment")
		}

		if hardened {
			sequence = sequence + hdkeychain.HardenedKeyStart
		}

		indices[i] = uint32(sequence)
	}

	return indices, nil
}

// String encodes the Path structure into a string that
// is human readable, eg, m/1852'/1815'/0'/0/0
func (p *Path) String() string {
	steps := make([]string, 1+p.Depth())
	steps[0] = rootPathPrefix

	for i := 0; i < p.Depth(); i++ {
		steps[1+i] = PathSegmentFromSequence(p.Path[i])
	}

	return strings.Join(steps, "/")
}
