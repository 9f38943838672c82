package proconio

import (
	"fmt"
	"math"
	"net"
	"strconv"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestScalarValues(t *testing.T) {
	if strconv.IntSize == 64 {
		parseTest(t, scalarTestValues[int]{
			MinIn:      "-9223372036854775808",
			MinOut:     math.MinInt64,
			MaxIn:      "9223372036854775807",
			MaxOut:     math.MaxInt64,
			OutOfRange: []string{"-9223372036854775809", "9223372036854775808"},
			Invalid:    []string{"foobar", "1e4", "x"},
		})

		parseTest(t, scalarTestValues[uint]{
			MinIn:      "0",
			MinOut:     0,
			MaxIn:      "18446744073709551615",
			MaxOut:     math.MaxUint64,
			OutOfRange: []string{"18446744073709551616"},
			Invalid:    []string{"foobar", "1e4", "-1"},
		})
	}

	parseTest(t, scalarTestValues[int8]{
		MinIn:      "-128",
		MinOut:     -128,
		MaxIn:      "127",
		MaxOut:     127,
		OutOfRange: []string{"-129", "128"},
		Invalid:    []string{"foobar", "1e4"},
	})

	parseTest(t, scalarTestValues[int32]{
		MinIn:      "-2147483648",
		MinOut:     -2147483648,
		MaxIn:      "2147483647",
		MaxOut:     2147483647,
		OutOfRange: []string{"-2147483649", "2147483648"},
		Invalid:    []string{"foobar", "1e4"},
	})

	parseTest(t, scalarTestValues[uint8]{
		MinIn:      "0",
		MinOut:     0,
		MaxIn:      "255",
		MaxOut:     255,
		OutOfRange: []string{"256", "+256"},
		Valid:      []string{"+5", "+0"},
		Invalid:    []string{"foobar", "1e4", "-1", "++5", "+-1", "+"},
	})

	parseTest(t, scalarTestValues[uint64]{
		MinIn:      "0",
		MinOut:     0,
		MaxIn:      "18446744073709551615",
		MaxOut:     math.MaxUint64,
		OutOfRange: []string{"18446744073709551616"},
		Invalid:    []string{"foobar", "1e4", "-1"},
	})

	parseTest(t, scalarTestValues[bool]{
		MinIn:   "true",
		MinOut:  true,
		MaxIn:   "false",
		MaxOut:  false,
		Invalid: []string{"foobar", "1e4", "-1", "1", "0", "t", "F", "TRUE", "False"},
	})

	parseTest(t, scalarTestValues[float64]{
		MinIn:      "-1234.5",
		MinOut:     -1234.5,
		MaxIn:      "1235.5",
		MaxOut:     1235.5,
		OutOfRange: []string{"1e400"},
		Valid:      []string{"1e4", "-1", "0.0024"},
		Invalid:    []string{"foobar"},
	})

	parseTest(t, scalarTestValues[float32]{
		MinIn:      "-0.5",
		MinOut:     -0.5,
		MaxIn:      "2.25",
		MaxOut:     2.25,
		OutOfRange: []string{"1e39"},
		Invalid:    []string{"foobar"},
	})

	parseTest(t, scalarTestValues[string]{
		MinIn:  "abc",
		MinOut: "abc",
		MaxIn:  "été",
		MaxOut: "été",
	})

	parseTest(t, scalarTestValues[Char]{
		MinIn:   "a",
		MinOut:  'a',
		MaxIn:   "é",
		MaxOut:  'é',
		Invalid: []string{"ab", "\xff"},
	})
}

type scalarTestValues[T any] struct {
	MinIn  string
	MinOut T

	MaxIn  string
	MaxOut T

	OutOfRange []string
	Invalid    []string
	Valid      []string
}

func parseTest[T any](t *testing.T, v scalarTestValues[T]) {
	var tZero T

	t.Run(fmt.Sprintf("parse to %T", tZero), func(t *testing.T) {
		actual, err := Read[T](FromString(v.MinIn))
		require.NoError(t, err)
		require.Equal(t, actual, v.MinOut)

		actual, err = Read[T](FromString(v.MaxIn))
		require.NoError(t, err)
		require.Equal(t, actual, v.MaxOut)

		for _, value := range v.OutOfRange {
			actual, err = Read[T](FromString(value))
			require.ErrorIs(t, err, strconv.ErrRange)
			require.Equal(t, actual, tZero)
		}

		for _, value := range v.Invalid {
			actual, err = Read[T](FromString(value))

			var conversionErr *ConversionError
			require.ErrorAs(t, err, &conversionErr)
			require.Equal(t, conversionErr.Token, value)
			require.Equal(t, conversionErr.Type.String(), fmt.Sprintf("%T", tZero))
			require.Equal(t, actual, tZero)
		}

		for _, value := range v.Valid {
			_, err = Read[T](FromString(value))
			require.NoError(t, err)
		}

		// one token per scalar
		source := FromString(v.MinIn + " " + v.MaxIn)
		_, err = Read[T](source)
		require.NoError(t, err)
		require.Equal(t, source.Remaining(), 1)
	})
}

func TestConversionErrorMessage(t *testing.T) {
	_, err := Read[int](FromString("x"))

	require.ErrorIs(t, err, strconv.ErrSyntax)
	require.ErrorContains(t, err, `failed to parse the input "x" to the value of type "int"`)
}

func TestLeadingPlusSign(t *testing.T) {
	signed, err := Read[int](FromString("+5"))
	require.NoError(t, err)
	require.Equal(t, signed, 5)

	unsigned, err := Read[uint](FromString("+5"))
	require.NoError(t, err)
	require.Equal(t, unsigned, uint(5))

	_, err = Read[uint32](FromString("++5"))

	var conversionErr *ConversionError
	require.ErrorAs(t, err, &conversionErr)
	require.Equal(t, conversionErr.Token, "++5")
}

func TestBoolIsStrict(t *testing.T) {
	values, err := Read[[2]bool](FromString("true false"))
	require.NoError(t, err)
	require.Equal(t, values, [2]bool{true, false})

	_, err = Read[bool](FromString("1"))
	require.ErrorIs(t, err, strconv.ErrSyntax)
}

func TestCharRejectsMultipleCharacters(t *testing.T) {
	_, err := Read[Char](FromString("ab"))
	require.ErrorIs(t, err, ErrNotAChar)
}

func TestTextUnmarshaler(t *testing.T) {
	ip, err := Read[net.IP](FromString("127.0.0.1"))
	require.NoError(t, err)
	require.Equal(t, ip, net.IPv4(127, 0, 0, 1))

	_, err = Read[net.IP](FromString("not-an-ip"))

	var conversionErr *ConversionError
	require.ErrorAs(t, err, &conversionErr)
	require.Equal(t, conversionErr.Token, "not-an-ip")
}
