package smaz

import (
	"encoding/binary"
)

// encode compresses src, which must be non-empty, into dst[:0].
//
// At every position the trie yields the longest codebook entry prefixing
// the remaining input. Bytes without any match accumulate in an unmatched
// run, which is flushed as a literal or verbatim opcode when it reaches
// maxRun bytes, when input ends, or right before the next symbol code.
// The run is a window on src, so nothing is copied until it is flushed.
func (c *Codec) encode(dst, src []byte) ([]byte, error) {
	if c.cfg.checkASCII {
		if i := nonASCII(src); i >= 0 {
			return nil, &InputError{Offset: i, Byte: src[i]}
		}
	}
	dst = dst[:0]
	if dst == nil {
		dst = make([]byte, 0, encapsulatedLen(len(src)))
	}

	pending := 0
	for pos := 0; pos < len(src); {
		code, n := c.trie.longestMatch(src[pos:])
		if n == 0 {
			pos++
			pending++
			if pending == maxRun || pos == len(src) {
				dst = appendRun(dst, src[pos-pending:pos])
				pending = 0
			}
			continue
		}
		if pending > 0 {
			dst = appendRun(dst, src[pos-pending:pos])
			pending = 0
		}
		dst = append(dst, code)
		pos += n
	}

	// Pathological input: matching lost more than verbatim framing would.
	if len(dst)*maxRun > len(src)*(maxRun+1) {
		c.cfg.logger.Debug("smaz: encoded output expanded, falling back to verbatim runs",
			"input", len(src), "output", len(dst))
		return Encapsulate(dst, src), nil
	}
	return dst, nil
}

// Encapsulate encodes src using only literal and verbatim opcodes, in
// chunks of up to 255 bytes, writing into buf[:0]. The result decodes with
// any codebook. A 1-byte chunk uses the literal opcode.
func Encapsulate(buf, src []byte) []byte {
	dst := buf[:0]
	if dst == nil {
		dst = make([]byte, 0, encapsulatedLen(len(src)))
	}
	for len(src) > 0 {
		n := min(len(src), maxRun)
		dst = appendRun(dst, src[:n])
		src = src[n:]
	}
	return dst
}

// encapsulatedLen is the size of Encapsulate's output for n input bytes
// at most: two framing bytes per started chunk.
func encapsulatedLen(n int) int {
	return n + 2*((n+maxRun-1)/maxRun)
}

func appendRun(dst, run []byte) []byte {
	if len(run) == 1 {
		return append(dst, literalCode, run[0])
	}
	dst = append(dst, verbatimCode, byte(len(run)-1))
	return append(dst, run...)
}

// nonASCII returns the index of the first byte >= 128 in b, or -1.
func nonASCII(b []byte) int {
	const highBits = 0x8080808080808080
	i := 0
	for ; i+8 <= len(b); i += 8 {
		if binary.LittleEndian.Uint64(b[i:])&highBits != 0 {
			break
		}
	}
	for ; i < len(b); i++ {
		if b[i] >= asciiLimit {
			return i
		}
	}
	return -1
}
