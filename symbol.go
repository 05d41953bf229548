package smaz

import (
	"encoding/binary"
)

// Opcode layout of the compressed stream.
const (
	maxCodes     = 254 // codes 0..253 index codebook entries
	literalCode  = 254 // next byte is emitted as-is
	verbatimCode = 255 // next byte is run length-1, followed by the run
	maxRun       = 255 // longest verbatim run the encoder emits

	asciiLimit = 0x80 // first byte value outside 7-bit ASCII

	packedMaxLen = 8 // entries up to this length decode from a single word
)

// symbol is a codebook entry as seen by the decoder.
//
//	val: entry bytes in little-endian, only meaningful when len <= 8
//	off: offset of the entry in the codebook's flat dictionary
//	len: entry length in bytes
type symbol struct {
	val uint64
	off uint32
	len uint32
}

func newSymbol(entry []byte, off uint32) symbol {
	sym := symbol{off: off, len: uint32(len(entry))}
	if sym.len <= packedMaxLen {
		for i := range entry {
			sym.val |= uint64(entry[i]) << (8 * i)
		}
	}
	return sym
}

func (s symbol) packed() bool { return s.len <= packedMaxLen }

// put writes the symbol at dst[pos:]. Packed symbols are stored with a
// single 8-byte write, so dst must have at least 8 bytes past pos; bytes
// beyond pos+len are scratch and get overwritten by the next write.
func (s symbol) put(dst []byte, pos int, dict []byte) {
	if s.packed() {
		binary.LittleEndian.PutUint64(dst[pos:], s.val)
		return
	}
	copy(dst[pos:], dict[s.off:s.off+s.len])
}
