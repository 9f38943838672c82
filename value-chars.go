package proconio

import (
	"errors"
	"reflect"
	"unicode/utf8"
)

var ErrNotAChar = errors.New("token is not a single character")

// Char reads a token consisting of exactly one unicode character.
//
// Note that a plain rune reads a number, as rune is an alias for int32.
type Char rune

// Chars reads one token as a slice of its unicode characters, one element per
// decoded character. Invalid UTF-8 decodes to utf8.RuneError.
type Chars []rune

// Bytes reads one token as a slice of its raw bytes.
//
// A plain []byte is an array of numbers with a leading count, like any other slice.
type Bytes []byte

var (
	tyChar  = reflect.TypeFor[Char]()
	tyChars = reflect.TypeFor[Chars]()
	tyBytes = reflect.TypeFor[Bytes]()
)

func setChar(source Source, target reflect.Value) error {
	token, err := NextTokenOrErr(source)
	if err != nil {
		return err
	}

	r, size := utf8.DecodeRuneInString(token)
	if size != len(token) || (r == utf8.RuneError && size == 1) {
		return conversionErr(token, target.Type(), ErrNotAChar)
	}

	target.SetInt(int64(r))
	return nil
}

func setChars(source Source, target reflect.Value) error {
	token, err := NextTokenOrErr(source)
	if err != nil {
		return err
	}

	target.Set(reflect.ValueOf(Chars(token)))
	return nil
}

func setBytes(source Source, target reflect.Value) error {
	token, err := NextTokenOrErr(source)
	if err != nil {
		return err
	}

	target.Set(reflect.ValueOf(Bytes(token)))
	return nil
}
