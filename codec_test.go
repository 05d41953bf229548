package smaz

import (
	"bytes"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"testing"
)

func TestCodecDefault(t *testing.T) {
	c, err := NewCodec()
	if err != nil {
		t.Fatalf("NewCodec: %v", err)
	}
	if c.Codebook() != DefaultCodebook() {
		t.Fatalf("default codec does not use the default codebook")
	}
	if got, _ := codecFor(nil); got != defaultCodec() {
		t.Fatalf("no options should select the shared codec")
	}
	// Options that restate the defaults also share it.
	got, err := codecFor([]Option{WithASCIICheck(true), WithStrict(false), WithLogger(nil)})
	if err != nil || got != defaultCodec() {
		t.Fatalf("default-equivalent options built a new codec")
	}
	if got, _ := codecFor([]Option{WithStrict(true)}); got == defaultCodec() {
		t.Fatalf("strict codec shared with default")
	}

	enc, err := c.EncodeAll([]byte("the end"))
	if err != nil {
		t.Fatalf("EncodeAll: %v", err)
	}
	dec, err := c.DecodeAll(enc)
	if err != nil || string(dec) != "the end" {
		t.Fatalf("DecodeAll=%q,%v", dec, err)
	}
}

func TestCodecEncodeBufferReuse(t *testing.T) {
	c, _ := NewCodec()
	buf := make([]byte, 10, 128)
	out, err := c.Encode(buf, []byte("http://google.com"))
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if !bytes.Equal(out, []byte{67, 59, 6, 6, 59, 87, 253}) {
		t.Fatalf("Encode=%v", out)
	}
	if &out[0] != &buf[0] {
		t.Fatalf("Encode did not reuse buf")
	}
	out, err = c.Encode(buf, nil)
	if err != nil || out == nil || len(out) != 0 {
		t.Fatalf("Encode(empty)=%v,%v", out, err)
	}
}

func TestErrorPolicy(t *testing.T) {
	nilPolicy := WithErrorPolicy(ErrorPolicyNil)

	out, err := Compress([]byte("na\xefve"), nilPolicy)
	if out != nil || err != nil {
		t.Fatalf("Compress=%v,%v want nil,nil", out, err)
	}
	out, err = Decompress([]byte{1, 254}, nilPolicy)
	if out != nil || err != nil {
		t.Fatalf("Decompress=%v,%v want nil,nil", out, err)
	}
	out, err = Decompress([]byte{255, 9}, nilPolicy, WithStrict(true))
	if out != nil || err != nil {
		t.Fatalf("strict Decompress=%v,%v want nil,nil", out, err)
	}

	// Success is still distinguishable from failure.
	out, err = Compress(nil, nilPolicy)
	if out == nil || err != nil {
		t.Fatalf("Compress(empty)=%v,%v want empty non-nil", out, err)
	}
	out, err = Decompress([]byte{1}, nilPolicy)
	if string(out) != "the" || err != nil {
		t.Fatalf("Decompress=%q,%v", out, err)
	}

	// ASCII violations can be reported separately from decode failures.
	asciiNil := []Option{WithASCIIViolation(ErrorPolicyNil)}
	out, err = Compress([]byte("\xff"), asciiNil...)
	if out != nil || err != nil {
		t.Fatalf("Compress=%v,%v want nil,nil", out, err)
	}
	if _, err = Decompress([]byte{254}, asciiNil...); !errors.Is(err, ErrTruncatedStream) {
		t.Fatalf("err=%v want ErrTruncatedStream", err)
	}
	_, err = Compress([]byte("\xff"), nilPolicy, WithASCIIViolation(ErrorPolicyReturn))
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("err=%v want ErrInvalidInput", err)
	}
	if got, _ := codecFor(asciiNil); got == defaultCodec() {
		t.Fatalf("ASCII violation policy shared with default codec")
	}

	// Configuration errors are always returned.
	_, err = Compress([]byte("x"), nilPolicy, WithCodebook(&Codebook{}))
	if !errors.Is(err, ErrInvalidCodebook) {
		t.Fatalf("err=%v want ErrInvalidCodebook", err)
	}

	for p, want := range map[ErrorPolicy]string{ErrorPolicyReturn: "return", ErrorPolicyNil: "nil", ErrorPolicy(7): "unknown"} {
		if p.String() != want {
			t.Errorf("ErrorPolicy(%d).String()=%q want %q", p, p.String(), want)
		}
	}
}

func TestMustPanics(t *testing.T) {
	mustPanic := func(name string, f func()) {
		t.Helper()
		defer func() {
			r := recover()
			if r == nil {
				t.Fatalf("%s did not panic", name)
			}
			if err, ok := r.(error); !ok || err == nil {
				t.Fatalf("%s panicked with %T, want error", name, r)
			}
		}()
		f()
	}
	mustPanic("MustCompress", func() { MustCompress([]byte{0xff}) })
	mustPanic("MustDecompress", func() { MustDecompress([]byte{254}) })

	if got := MustDecompress(MustCompress([]byte("the end"))); string(got) != "the end" {
		t.Fatalf("roundtrip got %q", got)
	}
}

func TestWithCodebook(t *testing.T) {
	cb := mustCodebook(t, jsonEntries)
	src := []byte(`{"id":"x","name":null}`)
	comp, err := Compress(src, WithCodebook(cb))
	if err != nil {
		t.Fatalf("Compress: %v", err)
	}
	if len(comp) >= len(src) {
		t.Fatalf("no gain: %d >= %d", len(comp), len(src))
	}
	out, err := Decompress(comp, WithCodebook(cb))
	if err != nil || !bytes.Equal(out, src) {
		t.Fatalf("Decompress=%q,%v", out, err)
	}

	// Equal codebooks share one compiled trie.
	c1, err := NewCodec(WithCodebook(cb))
	if err != nil {
		t.Fatalf("NewCodec: %v", err)
	}
	c2, err := NewCodec(WithCodebook(mustCodebook(t, jsonEntries)))
	if err != nil {
		t.Fatalf("NewCodec: %v", err)
	}
	if c1.trie != c2.trie {
		t.Fatalf("equal codebooks compiled twice")
	}
	if c1.Codebook() != cb {
		t.Fatalf("Codebook() returned a different codebook")
	}
}

func TestWithTrie(t *testing.T) {
	cb := mustCodebook(t, []string{"ab", "abc", "c"})
	trie, err := BuildTrie(cb)
	if err != nil {
		t.Fatalf("BuildTrie: %v", err)
	}
	c, err := NewCodec(WithCodebook(cb), WithTrie(trie))
	if err != nil {
		t.Fatalf("NewCodec: %v", err)
	}
	if c.trie != trie {
		t.Fatalf("supplied trie not used")
	}
	out, err := c.EncodeAll([]byte("abcab"))
	if err != nil {
		t.Fatalf("EncodeAll: %v", err)
	}
	if !bytes.Equal(out, []byte{1, 0}) {
		t.Fatalf("EncodeAll=%v want [1 0]", out)
	}

	// A mismatched trie is accepted with a warning.
	var logs bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logs, nil))
	if _, err := NewCodec(WithTrie(trie), WithLogger(logger)); err != nil {
		t.Fatalf("NewCodec: %v", err)
	}
	if !strings.Contains(logs.String(), "level=WARN") || !strings.Contains(logs.String(), "different codebook") {
		t.Fatalf("missing mismatch warning, got %q", logs.String())
	}
}

func TestWithLogger(t *testing.T) {
	var logs bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logs, &slog.HandlerOptions{Level: slog.LevelDebug}))

	if _, err := Compress([]byte("QQ"), WithLogger(logger)); err != nil {
		t.Fatalf("Compress: %v", err)
	}
	if !strings.Contains(logs.String(), "falling back") {
		t.Fatalf("fallback not logged, got %q", logs.String())
	}

	logs.Reset()
	if _, err := Decompress([]byte{254}, WithLogger(logger), WithErrorPolicy(ErrorPolicyNil)); err != nil {
		t.Fatalf("Decompress: %v", err)
	}
	if !strings.Contains(logs.String(), "discarding failed call") {
		t.Fatalf("discarded error not logged, got %q", logs.String())
	}

	// Default level filters debug records out.
	logs.Reset()
	quiet := slog.New(slog.NewTextHandler(&logs, nil))
	if _, err := Compress([]byte("QQ"), WithLogger(quiet)); err != nil {
		t.Fatalf("Compress: %v", err)
	}
	if logs.Len() != 0 {
		t.Fatalf("unexpected output %q", logs.String())
	}
}

func TestCodecConcurrent(t *testing.T) {
	c, err := NewCodec(WithStrict(true))
	if err != nil {
		t.Fatalf("NewCodec: %v", err)
	}
	inputs := roundtripInputs()

	var wg sync.WaitGroup
	errs := make(chan error, 8)
	for g := range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			var encBuf, decBuf []byte
			for i := range 200 {
				s := inputs[(g+i)%len(inputs)]
				enc, err := c.Encode(encBuf, []byte(s))
				if err != nil {
					errs <- err
					return
				}
				dec, err := c.Decode(decBuf, enc)
				if err != nil {
					errs <- err
					return
				}
				if string(dec) != s {
					errs <- fmt.Errorf("goroutine %d: roundtrip %.20q got %.20q", g, s, dec)
					return
				}
				encBuf, decBuf = enc, dec
			}
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		t.Fatal(err)
	}
}
