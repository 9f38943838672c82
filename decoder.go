package proconio

import (
	"context"
	"encoding"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"reflect"
	"strconv"
	"sync"
)

var ErrInvalidTarget = errors.New("invalid target")
var ErrInvalidLength = errors.New("invalid length")
var ErrIncompleteSetter = errors.New("setter used before it was built")

type NotSupportedError struct {
	Type reflect.Type
}

func (n NotSupportedError) Error() string {
	return fmt.Sprintf("type %q is not supported", n.Type)
}

// Unmarshal reads one value into target using the default Decoder.
// The target must be a non-nil pointer.
func Unmarshal(source Source, target any) error {
	return dec.Unmarshal(source, target)
}

// Read reads one value of type T using the default Decoder.
func Read[T any](source Source) (T, error) {
	return ReadWith[T](dec, source)
}

// MustRead is like Read but panics if the input does not match T.
func MustRead[T any](source Source) T {
	value, err := Read[T](source)
	if err != nil {
		dec.fatal(err)
	}

	return value
}

func ReadWith[T any](dec *Decoder, source Source) (T, error) {
	var target T
	err := dec.Unmarshal(source, &target)
	return target, err
}

// Scan reads the targets one after another using the default Decoder.
// See [Decoder.Scan].
func Scan(source Source, targets ...any) error {
	return dec.Scan(source, targets...)
}

// MustScan is like Scan but panics if the input does not match the targets.
func MustScan(source Source, targets ...any) {
	dec.MustScan(source, targets...)
}

// A setter sets the reflect.Value to a value read from the given Source
type setter func(Source, reflect.Value) error

// The state of building a setter and all setters it depends on
type construction struct {
	// types in construction, the setter is set once it is built
	pending map[reflect.Type]*setter

	// setters built so far, not added to the cache yet
	built map[reflect.Type]setter
}

var tyTextUnmarshaler = reflect.TypeFor[encoding.TextUnmarshaler]()

// The default Decoder instance.
var dec = NewDecoder()

var discardLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

// Decoder can be used to customize reading. A Decoder is safe for concurrent use,
// a Source is not.
type Decoder struct {
	// the struct tag that is used
	structTag string

	// receives debug records for each binding, may be nil
	logger *slog.Logger

	// Cache for setters, indexed by reflect.Type
	setterCache sync.Map
}

func NewDecoder() *Decoder {
	return &Decoder{
		structTag: "proconio",
	}
}

func (d *Decoder) WithTag(structTag string) *Decoder {
	if d.structTag == structTag {
		return d
	}

	return &Decoder{
		structTag: structTag,
		logger:    d.logger,
	}
}

func (d *Decoder) WithLogger(logger *slog.Logger) *Decoder {
	if d.logger == logger {
		return d
	}

	// setters do not depend on the logger, but sync.Map must not be copied
	return &Decoder{
		structTag: d.structTag,
		logger:    logger,
	}
}

func (d *Decoder) log() *slog.Logger {
	if d.logger == nil {
		return discardLogger
	}

	return d.logger
}

func (d *Decoder) fatal(err error) {
	d.log().Error("fatal input error", slog.Any("error", err))
	panic(err)
}

// Unmarshal reads one value into target, which must be a non-nil pointer.
// The target is only written if the value was read completely.
func (d *Decoder) Unmarshal(source Source, target any) error {
	targetValue := reflect.ValueOf(target)
	if targetValue.Kind() != reflect.Pointer || targetValue.IsNil() {
		return fmt.Errorf("%w: expected non-nil pointer, got %T", ErrInvalidTarget, target)
	}

	ty := targetValue.Type().Elem()

	// build the setter for the targets type
	setter, err := d.buildSetter(ty)
	if err != nil {
		return err
	}

	value := reflect.New(ty).Elem()
	if err := setter(source, value); err != nil {
		return err
	}

	targetValue.Elem().Set(value)

	return nil
}

// Scan reads the targets strictly left to right. A target is either a pointer
// to a value or a [Binding] as returned by [Sized], [SizedBy] or [SizedFunc].
// Because targets are read in order, a Binding may take its length from a target
// that was read before.
//
// Scan stops at the first error. Targets before the failing one are bound,
// the failing one and all following are left untouched.
func (d *Decoder) Scan(source Source, targets ...any) error {
	ctx := context.Background()

	logger := d.log()
	debug := logger.Enabled(ctx, slog.LevelDebug)

	for idx, target := range targets {
		if debug {
			attrs := []slog.Attr{slog.Int("index", idx), slog.String("type", fmt.Sprintf("%T", target))}
			if counter, ok := source.(interface{ Remaining() int }); ok {
				attrs = append(attrs, slog.Int("remaining", counter.Remaining()))
			}

			logger.LogAttrs(ctx, slog.LevelDebug, "bind value", attrs...)
		}

		var err error
		if binding, ok := target.(Binding); ok {
			err = binding.bind(d, source)
		} else {
			err = d.Unmarshal(source, target)
		}

		if err != nil {
			return fmt.Errorf("binding %d: %w", idx, err)
		}
	}

	return nil
}

// MustScan is like Scan but panics if the input does not match the targets.
func (d *Decoder) MustScan(source Source, targets ...any) {
	if err := d.Scan(source, targets...); err != nil {
		d.fatal(err)
	}
}

// buildSetter returns the setter for ty. Setters built on the way are only
// added to the cache if the setter for ty could be built completely.
func (d *Decoder) buildSetter(ty reflect.Type) (setter, error) {
	if cached, ok := d.setterCache.Load(ty); ok {
		return cached.(setter), nil
	}

	c := &construction{
		pending: map[reflect.Type]*setter{},
		built:   map[reflect.Type]setter{},
	}

	setter, err := d.setterOf(c, ty)
	if err != nil {
		return nil, err
	}

	for builtType, builtSetter := range c.built {
		d.setterCache.Store(builtType, builtSetter)
	}

	return setter, nil
}

func (d *Decoder) setterOf(c *construction, ty reflect.Type) (setter, error) {
	if cached, ok := d.setterCache.Load(ty); ok {
		return cached.(setter), nil
	}

	if built, ok := c.built[ty]; ok {
		return built, nil
	}

	if pending, ok := c.pending[ty]; ok {
		// detected a cycle. return a setter that calls the actual setter
		// once it has been built
		lazySetter := func(source Source, target reflect.Value) error {
			if *pending == nil {
				return fmt.Errorf("setter for %q: %w", ty, ErrIncompleteSetter)
			}

			return (*pending)(source, target)
		}

		return lazySetter, nil
	}

	pending := new(setter)
	c.pending[ty] = pending

	setter, err := d.makeSetterOf(c, ty)
	if err != nil {
		return nil, err
	}

	*pending = setter
	c.built[ty] = setter

	return setter, nil
}

func (d *Decoder) makeSetterOf(c *construction, ty reflect.Type) (setter, error) {
	switch ty {
	case tyChar:
		return setChar, nil
	case tyChars:
		return setChars, nil
	case tyBytes:
		return setBytes, nil
	}

	if reflect.PointerTo(ty).Implements(tyTextUnmarshaler) {
		return setTextUnmarshaler, nil
	}

	switch ty.Kind() {
	case reflect.Bool:
		return setBool, nil

	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return setInt, nil

	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return setUint, nil

	case reflect.Float32, reflect.Float64:
		return setFloat, nil

	case reflect.String:
		return setString, nil

	case reflect.Pointer:
		return d.makeSetPointer(c, ty)

	case reflect.Struct:
		return d.makeSetStruct(c, ty)

	case reflect.Slice:
		return d.makeSetSlice(c, ty)

	case reflect.Array:
		return d.makeSetArray(c, ty)

	default:
		return nil, NotSupportedError{Type: ty}
	}
}

// A fieldSetter is a setter that can look at the struct the field belongs to.
type fieldSetter func(source Source, target, parent reflect.Value) error

// dimension resolves the length of a slice from the struct being read
type dimension func(parent reflect.Value) (int, error)

func (d *Decoder) makeSetStruct(c *construction, ty reflect.Type) (setter, error) {
	fields, err := fieldsToRead(ty, d.structTag)
	if err != nil {
		return nil, fmt.Errorf("fields of %q: %w", ty, err)
	}

	setters := make([]fieldSetter, 0, len(fields))

	for idx, field := range fields {
		dims := make([]dimension, 0, len(field.Dims))
		for _, dim := range field.Dims {
			resolved, err := dimensionOf(fields, idx, dim)
			if err != nil {
				return nil, fmt.Errorf("length of field %q: %w", field.Name, err)
			}

			dims = append(dims, resolved)
		}

		fs, err := d.makeSetSized(c, field.Type, dims)
		if err != nil {
			return nil, fmt.Errorf("setter for field %q: %w", field.Name, err)
		}

		setters = append(setters, fs)
	}

	setter := func(source Source, target reflect.Value) error {
		for idx, field := range fields {
			fieldValue := target.FieldByIndex(field.Index)
			if err := setters[idx](source, fieldValue, target); err != nil {
				return fmt.Errorf("set field %q on %q: %w", field.Name, target.Type(), err)
			}
		}

		return nil
	}

	return setter, nil
}

// makeSetSized builds a setter for a field with explicit lengths. The first dimension
// applies to ty itself, the remaining ones to its elements.
func (d *Decoder) makeSetSized(c *construction, ty reflect.Type, dims []dimension) (fieldSetter, error) {
	if len(dims) == 0 {
		plainSetter, err := d.setterOf(c, ty)
		if err != nil {
			return nil, err
		}

		fs := func(source Source, target, _ reflect.Value) error {
			return plainSetter(source, target)
		}

		return fs, nil
	}

	if ty.Kind() != reflect.Slice || ty == tyChars || ty == tyBytes {
		return nil, fmt.Errorf("length given for %q: %w", ty, NotSupportedError{Type: ty})
	}

	elementSetter, err := d.makeSetSized(c, ty.Elem(), dims[1:])
	if err != nil {
		return nil, fmt.Errorf("setter for element type %q: %w", ty, err)
	}

	fs := func(source Source, target, parent reflect.Value) error {
		elementCount, err := dims[0](parent)
		if err != nil {
			return err
		}

		setElement := func(source Source, element reflect.Value) error {
			return elementSetter(source, element, parent)
		}

		return readElements(source, target, elementCount, setElement)
	}

	return fs, nil
}

func dimensionOf(fields []field, current int, dim string) (dimension, error) {
	if literal, err := strconv.Atoi(dim); err == nil {
		elementCount, err := lengthOf(literal)
		if err != nil {
			return nil, err
		}

		return func(reflect.Value) (int, error) { return elementCount, nil }, nil
	}

	// the nearest field of that name declared before the current one
	for idx := current - 1; idx >= 0; idx-- {
		ref := fields[idx]
		if ref.Name != dim {
			continue
		}

		if !isInteger(ref.Type) {
			return nil, fmt.Errorf("%w: field %q has type %q", ErrInvalidLength, dim, ref.Type)
		}

		resolve := func(parent reflect.Value) (int, error) {
			return lengthOfValue(parent.FieldByIndex(ref.Index))
		}

		return resolve, nil
	}

	return nil, fmt.Errorf("%w: no field %q declared before %q", ErrInvalidLength, dim, fields[current].Name)
}

func (d *Decoder) makeSetSlice(c *construction, ty reflect.Type) (setter, error) {
	elementSetter, err := d.setterOf(c, ty.Elem())
	if err != nil {
		return nil, fmt.Errorf("setter for element type %q: %w", ty, err)
	}

	setter := func(source Source, target reflect.Value) error {
		// no explicit length, the input declares a leading count
		elementCount, err := readLength(source)
		if err != nil {
			return fmt.Errorf("read length of %q: %w", ty, err)
		}

		return readElements(source, target, elementCount, elementSetter)
	}

	return setter, nil
}

func (d *Decoder) makeSetArray(c *construction, ty reflect.Type) (setter, error) {
	elementSetter, err := d.setterOf(c, ty.Elem())
	if err != nil {
		return nil, fmt.Errorf("setter for element type %q: %w", ty, err)
	}

	// number of elements in the array
	elementCount := ty.Len()

	setter := func(source Source, target reflect.Value) error {
		for idx := 0; idx < elementCount; idx++ {
			elementValue := target.Index(idx)
			if err := elementSetter(source, elementValue); err != nil {
				return fmt.Errorf("set element idx=%d: %w", idx, err)
			}
		}

		return nil
	}

	return setter, nil
}

func (d *Decoder) makeSetPointer(c *construction, ty reflect.Type) (setter, error) {
	pointeeType := ty.Elem()

	pointeeSetter, err := d.setterOf(c, pointeeType)
	if err != nil {
		return nil, err
	}

	setter := func(source Source, target reflect.Value) error {
		// newValue is now a pointer to an instance of the pointeeType
		newValue := reflect.New(pointeeType)
		if err := pointeeSetter(source, newValue.Elem()); err != nil {
			return err
		}

		// set pointer to the new value
		target.Set(newValue)

		return nil
	}

	return setter, err
}
