package smaz

import (
	"log/slog"
)

// ErrorPolicy selects how a codec reports a failed call.
type ErrorPolicy uint8

const (
	// ErrorPolicyReturn returns the failure as an error. This is the default.
	ErrorPolicyReturn ErrorPolicy = iota
	// ErrorPolicyNil swallows the failure: the call returns a nil slice and
	// a nil error. Successful calls always return a non-nil slice, so a nil
	// result is unambiguous.
	ErrorPolicyNil
)

// String returns the policy name.
func (p ErrorPolicy) String() string {
	switch p {
	case ErrorPolicyReturn:
		return "return"
	case ErrorPolicyNil:
		return "nil"
	default:
		return "unknown"
	}
}

// config holds the per-codec settings.
type config struct {
	checkASCII  bool        // reject input bytes >= 128 when encoding
	strict      bool        // reject short verbatim runs and non-ascii output when decoding
	policy      ErrorPolicy // how failures are reported
	asciiPolicy ErrorPolicy // overrides policy for ASCII violations when asciiSet
	asciiSet    bool
	codebook    *Codebook // nil = DefaultCodebook
	trie        *Trie     // nil = built from codebook
	logger      *slog.Logger
}

var discardLogger = slog.New(slog.DiscardHandler)

func defaultConfig() config {
	return config{
		checkASCII: true,
		logger:     discardLogger,
	}
}

// isDefault reports whether cfg matches the shared default codec.
func (c config) isDefault() bool {
	return c.checkASCII && !c.strict && c.policy == ErrorPolicyReturn && !c.asciiSet &&
		c.codebook == nil && c.trie == nil && c.logger == discardLogger
}

// Option is a functional option for configuring a codec.
type Option func(*config)

// WithASCIICheck enables or disables rejecting input bytes >= 128 before
// encoding. Enabled by default. With the check disabled such bytes are
// carried as literal or verbatim opcodes and still round-trip.
func WithASCIICheck(enabled bool) Option {
	return func(c *config) {
		c.checkASCII = enabled
	}
}

// WithStrict enables strict decoding: a verbatim run longer than the
// remaining input fails with ErrBufferOverflow instead of being truncated,
// and decoded output containing bytes >= 128 fails with ErrNonASCIIPayload.
func WithStrict(enabled bool) Option {
	return func(c *config) {
		c.strict = enabled
	}
}

// WithErrorPolicy sets how failures are reported.
func WithErrorPolicy(p ErrorPolicy) Option {
	return func(c *config) {
		c.policy = p
	}
}

// WithASCIIViolation sets how an ASCII violation found by the encoder is
// reported, independently of WithErrorPolicy. Without it the codec's error
// policy applies.
func WithASCIIViolation(p ErrorPolicy) Option {
	return func(c *config) {
		c.asciiPolicy = p
		c.asciiSet = true
	}
}

// WithCodebook replaces the default codebook for both encoding and
// decoding. The matching trie is built once and cached by fingerprint.
func WithCodebook(cb *Codebook) Option {
	return func(c *config) {
		c.codebook = cb
	}
}

// WithTrie replaces the trie used for encoding. It must have been built
// from the codebook used to decode the output; this is not enforced.
func WithTrie(t *Trie) Option {
	return func(c *config) {
		c.trie = t
	}
}

// WithLogger sets the logger for debug diagnostics. Nil restores the
// default, which discards everything.
func WithLogger(l *slog.Logger) Option {
	return func(c *config) {
		if l == nil {
			l = discardLogger
		}
		c.logger = l
	}
}
