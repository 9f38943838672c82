package proconio

import (
	"errors"
)

// ErrEndOfInput is returned when a value is requested but the [Source] has
// no tokens left. It indicates that the declared bindings do not match the input.
var ErrEndOfInput = errors.New("failed to get the next token; " +
	"maybe reader reached an end of input. " +
	"ensure that the bindings passed to Scan are correctly " +
	"specified to match the problem input")

// Source is the abstract interface to a sequence of whitespace delimited tokens,
// designed to work with the [Scan] and [Read] functions.
//
// A [Source] hands out tokens strictly in input order. There is no way to rewind:
// every successful call to [Source.NextToken] advances the cursor and a token is
// never returned twice. Once a [Source] is exhausted it stays exhausted.
//
// A token is a maximal run of non-whitespace characters. Tokens are never empty
// and never contain whitespace.
//
// The package includes [OnceSource], which reads an [io.Reader] to completion
// once and then splits the buffered input lazily. Custom implementations, e.g.
// one that yields tokens from a pre-split []string, only need to implement
// the two methods below.
type Source interface {
	// NextToken returns the next unconsumed token and advances the cursor.
	// Returns false without side effects if no tokens remain.
	NextToken() (string, bool)

	// IsEmpty reports whether no unconsumed tokens remain.
	// It must not consume a token.
	IsEmpty() bool
}

// NextTokenOrErr returns the next token of the source or ErrEndOfInput.
func NextTokenOrErr(source Source) (string, error) {
	token, ok := source.NextToken()
	if !ok {
		return "", ErrEndOfInput
	}

	return token, nil
}

// MustNextToken is like NextTokenOrErr but panics with ErrEndOfInput if
// the source is exhausted.
func MustNextToken(source Source) string {
	token, err := NextTokenOrErr(source)
	if err != nil {
		panic(err)
	}

	return token
}
