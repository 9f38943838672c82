package proconio

import (
	"fmt"
	"math"
	"reflect"
	"strconv"

	"golang.org/x/exp/constraints"
)

// A Binding is a target for [Scan] that needs more than the type of the target to
// be read, e.g. a slice with a length that is not part of the input.
type Binding interface {
	bind(d *Decoder, source Source) error
}

type sizedBinding struct {
	target any
	length func() (int, error)
}

// Sized binds target, a pointer to a slice, to exactly n elements.
func Sized(target any, n int) Binding {
	return sizedBinding{
		target: target,
		length: func() (int, error) { return lengthOf(n) },
	}
}

// SizedBy binds target, a pointer to a slice, to as many elements as n points to.
// n is dereferenced when the binding is read, so it may point to a value
// that is bound by a previous target of the same [Scan] call.
//
//	var n int
//	var values []int64
//	err := proconio.Scan(source, &n, proconio.SizedBy(&values, &n))
func SizedBy[I constraints.Integer](target any, n *I) Binding {
	return sizedBinding{
		target: target,
		length: func() (int, error) {
			if n == nil {
				return 0, fmt.Errorf("%w: length pointer is nil", ErrInvalidTarget)
			}

			return lengthOf(*n)
		},
	}
}

// SizedFunc binds target, a pointer to a slice, to as many elements as n returns.
// n is called exactly once, right before the first element is read.
func SizedFunc(target any, n func() int) Binding {
	return sizedBinding{
		target: target,
		length: func() (int, error) { return lengthOf(n()) },
	}
}

func (b sizedBinding) bind(d *Decoder, source Source) error {
	targetValue := reflect.ValueOf(b.target)
	if targetValue.Kind() != reflect.Pointer || targetValue.IsNil() || targetValue.Elem().Kind() != reflect.Slice {
		return fmt.Errorf("%w: expected non-nil pointer to a slice, got %T", ErrInvalidTarget, b.target)
	}

	sliceType := targetValue.Type().Elem()

	elementSetter, err := d.buildSetter(sliceType.Elem())
	if err != nil {
		return fmt.Errorf("setter for element type %q: %w", sliceType, err)
	}

	elementCount, err := b.length()
	if err != nil {
		return err
	}

	value := reflect.New(sliceType).Elem()
	if err := readElements(source, value, elementCount, elementSetter); err != nil {
		return err
	}

	targetValue.Elem().Set(value)

	return nil
}

// upper bound of elements to allocate up front, the actual length is only trusted
// once the elements have been read
const maxPreallocate = 1 << 16

// readElements reads elementCount values into a new slice and assigns it to target.
func readElements(source Source, target reflect.Value, elementCount int, elementSetter setter) error {
	slice := reflect.MakeSlice(target.Type(), 0, min(elementCount, maxPreallocate))

	// a empty element
	placeholderValue := reflect.New(target.Type().Elem()).Elem()

	for idx := range elementCount {
		// add an empty element to grow the list
		slice = reflect.Append(slice, placeholderValue)

		elementValue := slice.Index(idx)
		if err := elementSetter(source, elementValue); err != nil {
			return fmt.Errorf("set element idx=%d: %w", idx, err)
		}
	}

	target.Set(slice)

	return nil
}

var tyLength = reflect.TypeFor[int]()

// readLength reads the leading count of a slice.
func readLength(source Source) (int, error) {
	token, err := NextTokenOrErr(source)
	if err != nil {
		return 0, err
	}

	parsedValue, err := strconv.ParseInt(token, 10, strconv.IntSize)
	if err != nil {
		return 0, conversionErr(token, tyLength, err)
	}

	if parsedValue < 0 {
		return 0, conversionErr(token, tyLength, ErrInvalidLength)
	}

	return int(parsedValue), nil
}

func lengthOf[I constraints.Integer](n I) (int, error) {
	if n < 0 {
		return 0, fmt.Errorf("%w: %d is negative", ErrInvalidLength, n)
	}

	if uint64(n) > math.MaxInt {
		return 0, fmt.Errorf("%w: %d is too large", ErrInvalidLength, n)
	}

	return int(n), nil
}

func lengthOfValue(value reflect.Value) (int, error) {
	switch value.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return lengthOf(value.Int())

	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return lengthOf(value.Uint())

	default:
		return 0, fmt.Errorf("%w: value of type %q", ErrInvalidLength, value.Type())
	}
}

func isInteger(ty reflect.Type) bool {
	switch ty.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return true

	default:
		return false
	}
}
