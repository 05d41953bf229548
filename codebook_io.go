package smaz

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"sync"

	"github.com/cespare/xxhash/v2"
	"github.com/fxamacker/cbor/v2"
)

// codebookVersion is the binary codebook format version.
const codebookVersion uint64 = 20141006

// WriteTo serializes the codebook to w.
// Layout:
// - 8 bytes version word: (version<<32)|(n<<8)|1
// - n bytes, the length of each entry in code order
// - the concatenated entry bytes
// - 8 bytes xxhash64 of the two sections above (the fingerprint)
func (cb *Codebook) WriteTo(w io.Writer) (int64, error) {
	var (
		n    int64
		buf8 [8]byte
	)
	ver := (codebookVersion << 32) | (uint64(cb.Len()) << 8) | 1
	binary.LittleEndian.PutUint64(buf8[:], ver)
	if nn, err := w.Write(buf8[:]); err != nil {
		return n, err
	} else {
		n += int64(nn)
	}
	lens := make([]byte, cb.Len())
	for i := range lens {
		lens[i] = byte(cb.bounds[i+1] - cb.bounds[i])
	}
	if nn, err := w.Write(lens); err != nil {
		return n, err
	} else {
		n += int64(nn)
	}
	if nn, err := w.Write(cb.dict); err != nil {
		return n, err
	} else {
		n += int64(nn)
	}
	binary.LittleEndian.PutUint64(buf8[:], cb.digest())
	if nn, err := w.Write(buf8[:]); err != nil {
		return n, err
	} else {
		n += int64(nn)
	}
	return n, nil
}

// ReadCodebook deserializes a codebook written by WriteTo and returns it
// with the number of bytes consumed.
func ReadCodebook(r io.Reader) (*Codebook, int64, error) {
	var (
		n   int64
		hdr [8]byte
	)
	if _, err := io.ReadFull(r, hdr[:]); err != nil {
		return nil, n, err
	}
	n += 8
	ver := binary.LittleEndian.Uint64(hdr[:])
	if ver>>32 != codebookVersion {
		return nil, n, ErrBadVersion
	}
	count := int((ver >> 8) & 0xFF)
	lens := make([]byte, count)
	if _, err := io.ReadFull(r, lens); err != nil {
		return nil, n, err
	}
	n += int64(count)

	digest := xxhash.New()
	_, _ = digest.Write(lens)
	entries := make([][]byte, count)
	for i, l := range lens {
		entries[i] = make([]byte, l)
		if _, err := io.ReadFull(r, entries[i]); err != nil {
			return nil, n, err
		}
		n += int64(l)
		_, _ = digest.Write(entries[i])
	}
	if _, err := io.ReadFull(r, hdr[:]); err != nil {
		return nil, n, err
	}
	n += 8
	if binary.LittleEndian.Uint64(hdr[:]) != digest.Sum64() {
		return nil, n, ErrChecksum
	}

	cb, err := newCodebook(entries)
	if err != nil {
		return nil, n, err
	}
	return cb, n, nil
}

// ReadFrom fills a zero Codebook from r. Codebooks are immutable once
// built, so a receiver that already holds entries fails with
// ErrCodebookBuilt and is left unchanged. Use ReadCodebook to get a new
// value instead.
func (cb *Codebook) ReadFrom(r io.Reader) (int64, error) {
	if cb.Len() != 0 {
		return 0, ErrCodebookBuilt
	}
	parsed, n, err := ReadCodebook(r)
	if err != nil {
		return n, err
	}
	*cb = *parsed
	return n, nil
}

// MarshalBinary implements encoding.BinaryMarshaler.
func (cb *Codebook) MarshalBinary() ([]byte, error) {
	var buf bytes.Buffer
	if _, err := cb.WriteTo(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// UnmarshalBinary implements encoding.BinaryUnmarshaler. Like ReadFrom it
// only fills a zero Codebook.
func (cb *Codebook) UnmarshalBinary(data []byte) error {
	_, err := cb.ReadFrom(bytes.NewReader(data))
	return err
}

// cborEncMode uses Core Deterministic Encoding (RFC 8949 §4.2), so a
// codebook always marshals to the same bytes.
var cborEncMode = sync.OnceValue(func() cbor.EncMode {
	em, err := cbor.CoreDetEncOptions().EncMode()
	if err != nil {
		panic("smaz: CBOR encoder initialization failed: " + err.Error())
	}
	return em
})

// MarshalCBOR encodes the codebook as a CBOR array of byte strings in
// code order.
func (cb *Codebook) MarshalCBOR() ([]byte, error) {
	entries := make([][]byte, cb.Len())
	for i := range entries {
		entries[i] = cb.entry(i)
	}
	return cborEncMode().Marshal(entries)
}

// UnmarshalCBOR fills a zero Codebook from data. A receiver that already
// holds entries fails with ErrCodebookBuilt.
func (cb *Codebook) UnmarshalCBOR(data []byte) error {
	if cb.Len() != 0 {
		return ErrCodebookBuilt
	}
	var entries [][]byte
	if err := cbor.Unmarshal(data, &entries); err != nil {
		return fmt.Errorf("smaz: decoding CBOR codebook: %w", err)
	}
	parsed, err := newCodebook(entries)
	if err != nil {
		return err
	}
	*cb = *parsed
	return nil
}
