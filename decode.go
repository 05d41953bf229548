package smaz

// decode expands src, which must be non-empty, into dst[:0] in a single
// left-to-right pass over the opcodes.
func (c *Codec) decode(dst, src []byte) ([]byte, error) {
	var (
		symbols = c.cb.symbols
		dict    = c.cb.dict
		out     = dst[:cap(dst)]
		outPos  = 0
	)
	if len(out) < 2*len(src)+packedMaxLen {
		out = make([]byte, 2*len(src)+packedMaxLen)
	}

	for pos := 0; pos < len(src); {
		op := src[pos]
		pos++

		switch op {
		case literalCode:
			if pos >= len(src) {
				return nil, &DecodeError{Offset: pos - 1, Err: ErrTruncatedStream}
			}
			out = grow(out, outPos, 1)
			out[outPos] = src[pos]
			outPos++
			pos++

		case verbatimCode:
			if pos >= len(src) {
				return nil, &DecodeError{Offset: pos - 1, Err: ErrTruncatedStream}
			}
			n := int(src[pos]) + 1
			pos++
			if remaining := len(src) - pos; n > remaining {
				if c.cfg.strict {
					return nil, &DecodeError{Offset: pos - 2, Err: ErrBufferOverflow}
				}
				n = remaining
			}
			out = grow(out, outPos, n)
			copy(out[outPos:], src[pos:pos+n])
			outPos += n
			pos += n

		default:
			if int(op) >= len(symbols) {
				return nil, &DecodeError{Offset: pos - 1, Err: ErrCodeOutOfRange}
			}
			sym := symbols[op]
			// Packed symbols are written as a full word; reserve the slack.
			out = grow(out, outPos, int(sym.len)+packedMaxLen)
			sym.put(out, outPos, dict)
			outPos += int(sym.len)
		}
	}

	out = out[:outPos]
	if c.cfg.strict {
		if i := nonASCII(out); i >= 0 {
			return nil, &DecodeError{Offset: i, Err: ErrNonASCIIPayload}
		}
	}
	return out, nil
}

// grow returns b with at least n bytes available past pos, preserving b[:pos].
func grow(b []byte, pos, n int) []byte {
	if pos+n <= len(b) {
		return b
	}
	nb := make([]byte, max(2*len(b), pos+n))
	copy(nb, b[:pos])
	return nb
}
