package smaz

import (
	"fmt"
	"sync"

	"github.com/cespare/xxhash/v2"
)

// maxEntryLen bounds a single codebook entry so its length fits the one
// byte used for it in the binary codebook format.
const maxEntryLen = 255

// Codebook is an immutable ordered list of at most 254 distinct strings.
// The position of an entry is its symbol code. Encoder and decoder must
// use the same codebook for a stream to round-trip.
type Codebook struct {
	dict        []byte   // entries concatenated in code order
	bounds      []uint32 // entry i spans dict[bounds[i]:bounds[i+1]]
	symbols     []symbol // code -> decoder symbol
	maxLen      int      // longest entry in bytes
	fingerprint uint64   // xxhash64 of the length-prefixed entries
}

// NewCodebook validates entries and returns a codebook holding a copy of
// them. It fails with ErrInvalidCodebook when entries is empty, holds more
// than 254 strings, or contains an empty or duplicate entry. Entries are
// limited to 255 bytes each, the longest length the binary codebook format
// can record.
func NewCodebook(entries []string) (*Codebook, error) {
	raw := make([][]byte, len(entries))
	for i, e := range entries {
		raw[i] = []byte(e)
	}
	return newCodebook(raw)
}

func newCodebook(entries [][]byte) (*Codebook, error) {
	if err := validateEntries(entries); err != nil {
		return nil, err
	}
	total := 0
	for _, e := range entries {
		total += len(e)
	}
	cb := &Codebook{
		dict:    make([]byte, 0, total),
		bounds:  make([]uint32, 1, len(entries)+1),
		symbols: make([]symbol, len(entries)),
	}
	for i, e := range entries {
		cb.symbols[i] = newSymbol(e, uint32(len(cb.dict)))
		cb.dict = append(cb.dict, e...)
		cb.bounds = append(cb.bounds, uint32(len(cb.dict)))
		cb.maxLen = max(cb.maxLen, len(e))
	}
	cb.fingerprint = cb.digest()
	return cb, nil
}

func validateEntries(entries [][]byte) error {
	switch {
	case len(entries) == 0:
		return fmt.Errorf("%w: no entries", ErrInvalidCodebook)
	case len(entries) > maxCodes:
		return fmt.Errorf("%w: %d entries, at most %d allowed", ErrInvalidCodebook, len(entries), maxCodes)
	}
	seen := make(map[string]int, len(entries))
	for i, e := range entries {
		if len(e) == 0 {
			return fmt.Errorf("%w: entry %d is empty", ErrInvalidCodebook, i)
		}
		if len(e) > maxEntryLen {
			return fmt.Errorf("%w: entry %d is %d bytes, at most %d allowed", ErrInvalidCodebook, i, len(e), maxEntryLen)
		}
		if j, ok := seen[string(e)]; ok {
			return fmt.Errorf("%w: duplicate entry %q at %d and %d", ErrInvalidCodebook, e, j, i)
		}
		seen[string(e)] = i
	}
	return nil
}

// digest hashes the entry lengths followed by the entry bytes, the same
// layout the binary format stores.
func (cb *Codebook) digest() uint64 {
	d := xxhash.New()
	lens := make([]byte, cb.Len())
	for i := range lens {
		lens[i] = byte(cb.bounds[i+1] - cb.bounds[i])
	}
	_, _ = d.Write(lens)
	_, _ = d.Write(cb.dict)
	return d.Sum64()
}

// Len returns the number of entries.
func (cb *Codebook) Len() int { return len(cb.symbols) }

// MaxEntryLen returns the length of the longest entry in bytes.
func (cb *Codebook) MaxEntryLen() int { return cb.maxLen }

// Fingerprint identifies the codebook contents. Equal codebooks have equal
// fingerprints; streams carry no version tag, so callers that persist
// compressed data can store this value next to it.
func (cb *Codebook) Fingerprint() uint64 { return cb.fingerprint }

// Entry returns the string for code.
func (cb *Codebook) Entry(code int) (string, bool) {
	if code < 0 || code >= cb.Len() {
		return "", false
	}
	return string(cb.entry(code)), true
}

func (cb *Codebook) entry(code int) []byte {
	return cb.dict[cb.bounds[code]:cb.bounds[code+1]]
}

// Entries returns a copy of the entries in code order.
func (cb *Codebook) Entries() []string {
	out := make([]string, cb.Len())
	for i := range out {
		out[i] = string(cb.entry(i))
	}
	return out
}

// Equal reports whether two codebooks hold the same entries in the same order.
func (cb *Codebook) Equal(other *Codebook) bool {
	if cb == other {
		return true
	}
	if cb == nil || other == nil || cb.Len() != other.Len() || cb.fingerprint != other.fingerprint {
		return false
	}
	for i := range cb.bounds {
		if cb.bounds[i] != other.bounds[i] {
			return false
		}
	}
	return string(cb.dict) == string(other.dict)
}

var defaultCodebook = sync.OnceValue(func() *Codebook {
	cb, err := NewCodebook(defaultEntries[:])
	if err != nil {
		panic("smaz: default codebook: " + err.Error())
	}
	return cb
})

// DefaultCodebook returns the built-in 254-entry codebook tuned for
// English text, URLs and HTML fragments.
func DefaultCodebook() *Codebook {
	return defaultCodebook()
}
