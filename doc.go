// Package smaz provides compression for very short strings via a static codebook.
//
// # Overview
//
// General purpose compressors build their state dynamically and need tens
// or hundreds of bytes of input before they start paying for themselves.
// smaz instead ships a fixed codebook of up to 254 common substrings
// ("the", " ", "http://", ...) and replaces greedy longest matches with a
// single byte. Strings of two or three bytes already compress: "the"
// becomes one byte.
//
// # When to Use smaz
//
// smaz does well on:
//   - Short English text: titles, messages, log fragments
//   - URLs and paths
//   - Large numbers of small independent strings (keys, labels)
//
// Typical savings on English text are 40-50%.
//
// # When NOT to Use smaz
//
//   - Payloads of more than a few hundred bytes (use zstd or flate)
//   - Binary data (only passed through as verbatim runs)
//   - Text dominated by digits or symbols
//
// # Wire Format
//
// A compressed stream is a sequence of opcodes:
//
//	0..253            codebook entry with that index
//	254 b             one literal byte b
//	255 n-1 b[0..n)   verbatim run of n bytes (1 <= n <= 255 when encoding)
//
// Streams carry no version tag. A stream can only be decoded with the
// codebook it was encoded with; Codebook.Fingerprint identifies a table if
// the caller needs to record which one was used.
//
// The encoder never loses more than the verbatim framing overhead: when
// codebook matching would expand the input beyond len(src)*256/255 bytes,
// the whole input is re-encoded with Encapsulate instead.
//
// # Basic Usage
//
//	compressed, err := smaz.Compress([]byte("this is a small string"))
//	original, err := smaz.Decompress(compressed)
//
//	// Reuse a codec and its buffers
//	c, _ := smaz.NewCodec(smaz.WithStrict(true))
//	buf, err := c.Encode(buf, []byte("the end"))
//
//	// Alternate codebooks
//	cb, _ := smaz.NewCodebook([]string{"{\"", "\"}", "\":", ","})
//	out, err := smaz.Compress(src, smaz.WithCodebook(cb))
//
//	// Ship a codebook alongside the data
//	data, _ := cb.MarshalBinary()
//	cb2, _ := smaz.LoadCodebook("codebook.yaml")
//
// # Performance Characteristics
//
// Encoding: O(n), each position walks the trie at most MaxEntryLen steps
// Decoding: O(m), one table lookup per opcode
//
// Codebooks, tries and codecs are immutable and safe for concurrent use.
package smaz
