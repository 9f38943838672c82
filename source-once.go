package proconio

import (
	"fmt"
	"io"
	"iter"
	"strings"
	"unicode"
	"unicode/utf8"
)

// OnceSource is a [Source] that reads its input to completion exactly once and
// then splits the buffered text into tokens on demand. The buffer is owned by the
// OnceSource and never changes, tokens are substrings of it.
//
// Memory use is proportional to the total size of the input. OnceSource is meant for
// programs consuming a fixed input that is available up front.
type OnceSource struct {
	buf string

	// offset of the first byte that has not been consumed yet
	pos int
}

var _ Source = (*OnceSource)(nil)

// NewOnceSource reads r until io.EOF and returns a source over its contents.
// This is the only point at which an error of the underlying reader can surface.
func NewOnceSource(r io.Reader) (*OnceSource, error) {
	var sb strings.Builder
	if _, err := io.Copy(&sb, r); err != nil {
		return nil, fmt.Errorf("read input: %w", err)
	}

	return &OnceSource{buf: sb.String()}, nil
}

// MustOnceSource is like NewOnceSource but panics if reading the input fails.
func MustOnceSource(r io.Reader) *OnceSource {
	source, err := NewOnceSource(r)
	if err != nil {
		panic(err)
	}

	return source
}

// FromString returns a source over the given text.
func FromString(text string) *OnceSource {
	return &OnceSource{buf: text}
}

func (s *OnceSource) NextToken() (string, bool) {
	start := s.skipSpace()
	if start == len(s.buf) {
		return "", false
	}

	end := tokenEnd(s.buf, start)
	s.pos = end

	return s.buf[start:end], true
}

func (s *OnceSource) IsEmpty() bool {
	return s.skipSpace() == len(s.buf)
}

// Remaining counts the tokens that have not been consumed yet.
func (s *OnceSource) Remaining() int {
	var count int

	pos := s.pos
	for {
		pos = spaceEnd(s.buf, pos)
		if pos == len(s.buf) {
			return count
		}

		pos = tokenEnd(s.buf, pos)
		count++
	}
}

// All consumes the remaining tokens and yields them in input order.
// Stopping the iteration early leaves the rest of the tokens unconsumed.
func (s *OnceSource) All() iter.Seq[string] {
	return func(yield func(string) bool) {
		for {
			token, ok := s.NextToken()
			if !ok || !yield(token) {
				return
			}
		}
	}
}

// skipSpace moves the cursor over leading whitespace. Whitespace is never part
// of a token, so this does not consume anything observable.
func (s *OnceSource) skipSpace() int {
	s.pos = spaceEnd(s.buf, s.pos)
	return s.pos
}

func spaceEnd(text string, pos int) int {
	for pos < len(text) {
		r, size := decodeRune(text, pos)
		if !unicode.IsSpace(r) {
			break
		}

		pos += size
	}

	return pos
}

func tokenEnd(text string, pos int) int {
	for pos < len(text) {
		r, size := decodeRune(text, pos)
		if unicode.IsSpace(r) {
			break
		}

		pos += size
	}

	return pos
}

func decodeRune(text string, pos int) (rune, int) {
	// fast path for ascii input
	if c := text[pos]; c < utf8.RuneSelf {
		return rune(c), 1
	}

	return utf8.DecodeRuneInString(text[pos:])
}
