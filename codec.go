package smaz

import (
	"errors"
	"fmt"
	"sync"
	"unsafe"
)

// Codec pairs a codebook with its trie and a fixed configuration. A Codec
// is immutable: it holds no per-call state and is safe for concurrent use.
type Codec struct {
	cfg  config
	cb   *Codebook
	trie *Trie
}

// NewCodec returns a codec configured by opts. It fails with
// ErrInvalidCodebook when a supplied codebook cannot be compiled.
func NewCodec(opts ...Option) (*Codec, error) {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	return newCodec(cfg)
}

func newCodec(cfg config) (*Codec, error) {
	cb := cfg.codebook
	if cb == nil {
		cb = DefaultCodebook()
	}
	trie := cfg.trie
	if trie == nil {
		var err error
		if trie, err = compile(cb, cfg.logger); err != nil {
			return nil, err
		}
	} else if trie.fingerprint != cb.fingerprint {
		cfg.logger.Warn("smaz: trie was built from a different codebook",
			"trie", fmt.Sprintf("%016x", trie.fingerprint),
			"codebook", fmt.Sprintf("%016x", cb.fingerprint))
	}
	return &Codec{cfg: cfg, cb: cb, trie: trie}, nil
}

var defaultCodec = sync.OnceValue(func() *Codec {
	c, err := newCodec(defaultConfig())
	if err != nil {
		panic("smaz: default codec: " + err.Error())
	}
	return c
})

func codecFor(opts []Option) (*Codec, error) {
	if len(opts) == 0 {
		return defaultCodec(), nil
	}
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.isDefault() {
		return defaultCodec(), nil
	}
	return newCodec(cfg)
}

// Codebook returns the codebook used by c.
func (c *Codec) Codebook() *Codebook { return c.cb }

// Encode compresses src, reusing buf for output when it is large enough.
// buf can be nil or undersized; the result may have a different backing
// array than buf. buf and src must not overlap.
func (c *Codec) Encode(buf, src []byte) ([]byte, error) {
	if len(src) == 0 {
		return empty(buf), nil
	}
	return c.result(c.encode(buf[:0], src))
}

// EncodeAll compresses src into a newly allocated slice.
func (c *Codec) EncodeAll(src []byte) ([]byte, error) {
	return c.Encode(nil, src)
}

// Decode decompresses src, reusing buf for output when it is large enough.
// buf can be nil or undersized; the result may have a different backing
// array than buf. buf and src must not overlap.
func (c *Codec) Decode(buf, src []byte) ([]byte, error) {
	if len(src) == 0 {
		return empty(buf), nil
	}
	return c.result(c.decode(buf[:0], src))
}

// DecodeAll decompresses src into a newly allocated slice.
func (c *Codec) DecodeAll(src []byte) ([]byte, error) {
	return c.Decode(nil, src)
}

// DecodeString decompresses a string and returns a newly allocated slice.
func (c *Codec) DecodeString(s string) ([]byte, error) {
	return c.Decode(nil, unsafe.Slice(unsafe.StringData(s), len(s)))
}

// result applies the error policy. Nothing decoded or encoded before a
// failure is ever handed back.
func (c *Codec) result(out []byte, err error) ([]byte, error) {
	if err == nil {
		return out, nil
	}
	policy := c.cfg.policy
	if c.cfg.asciiSet && errors.Is(err, ErrInvalidInput) {
		policy = c.cfg.asciiPolicy
	}
	if policy == ErrorPolicyNil {
		c.cfg.logger.Debug("smaz: discarding failed call", "error", err)
		return nil, nil
	}
	return nil, err
}

func empty(buf []byte) []byte {
	if buf == nil {
		return []byte{}
	}
	return buf[:0]
}

// Compress compresses src with the codec described by opts. Without
// options the shared default codec is used.
func Compress(src []byte, opts ...Option) ([]byte, error) {
	c, err := codecFor(opts)
	if err != nil {
		return nil, err
	}
	return c.EncodeAll(src)
}

// Decompress decompresses src with the codec described by opts.
func Decompress(src []byte, opts ...Option) ([]byte, error) {
	c, err := codecFor(opts)
	if err != nil {
		return nil, err
	}
	return c.DecodeAll(src)
}

// MustCompress is like Compress but panics on error.
func MustCompress(src []byte, opts ...Option) []byte {
	out, err := Compress(src, opts...)
	if err != nil {
		panic(err)
	}
	return out
}

// MustDecompress is like Decompress but panics on error.
func MustDecompress(src []byte, opts ...Option) []byte {
	out, err := Decompress(src, opts...)
	if err != nil {
		panic(err)
	}
	return out
}
