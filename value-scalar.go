package proconio

import (
	"encoding"
	"errors"
	"fmt"
	"reflect"
	"strconv"
	"strings"
)

// ConversionError is returned if a token can not be converted to the requested type.
type ConversionError struct {
	// Token is the offending token as found in the input.
	Token string

	// Type is the type the token should have been converted to.
	Type reflect.Type

	// Err is the cause, e.g. strconv.ErrSyntax or strconv.ErrRange.
	Err error
}

func (c *ConversionError) Error() string {
	return fmt.Sprintf("failed to parse the input %q to the value of type %q: %s; "+
		"ensure that the input format is correctly specified "+
		"and that the input value fits the specified type", c.Token, c.Type, c.Err)
}

func (c *ConversionError) Unwrap() error {
	return c.Err
}

func conversionErr(token string, ty reflect.Type, err error) error {
	var numErr *strconv.NumError
	if errors.As(err, &numErr) {
		// the token is already part of ConversionError, keep the plain cause
		err = numErr.Err
	}

	return &ConversionError{Token: token, Type: ty, Err: err}
}

func setBool(source Source, target reflect.Value) error {
	token, err := NextTokenOrErr(source)
	if err != nil {
		return err
	}

	// only the literal spellings, strconv.ParseBool also takes "1", "t", "TRUE", ...
	switch token {
	case "true":
		target.SetBool(true)
	case "false":
		target.SetBool(false)
	default:
		return conversionErr(token, target.Type(), strconv.ErrSyntax)
	}

	return nil
}

// makeSetInt builds a setter for signed or unsigned integers. The bit size is
// taken from the target, so out of range values fail with strconv.ErrRange.
func makeSetInt[V int64 | uint64](
	parse func(string, int, int) (V, error),
	setValue func(reflect.Value, V),
) setter {
	return func(source Source, target reflect.Value) error {
		token, err := NextTokenOrErr(source)
		if err != nil {
			return err
		}

		parsedValue, err := parse(token, 10, target.Type().Bits())
		if err != nil {
			return conversionErr(token, target.Type(), err)
		}

		setValue(target, parsedValue)
		return nil
	}
}

var (
	setInt  = makeSetInt(strconv.ParseInt, reflect.Value.SetInt)
	setUint = makeSetInt(parseUint, reflect.Value.SetUint)
)

// parseUint is strconv.ParseUint, but accepts a single leading '+' like ParseInt does.
func parseUint(s string, base int, bitSize int) (uint64, error) {
	return strconv.ParseUint(strings.TrimPrefix(s, "+"), base, bitSize)
}

func setFloat(source Source, target reflect.Value) error {
	token, err := NextTokenOrErr(source)
	if err != nil {
		return err
	}

	floatValue, err := strconv.ParseFloat(token, target.Type().Bits())
	if err != nil {
		return conversionErr(token, target.Type(), err)
	}

	target.SetFloat(floatValue)
	return nil
}

func setString(source Source, target reflect.Value) error {
	token, err := NextTokenOrErr(source)
	if err != nil {
		return err
	}

	target.SetString(token)

	return nil
}

func setTextUnmarshaler(source Source, target reflect.Value) error {
	token, err := NextTokenOrErr(source)
	if err != nil {
		return err
	}

	m := target.Addr().Interface().(encoding.TextUnmarshaler)
	if err := m.UnmarshalText([]byte(token)); err != nil {
		return conversionErr(token, target.Type(), err)
	}

	return nil
}
