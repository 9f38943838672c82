package proconio

import (
	"fmt"
	"reflect"
	"strings"
)

type field struct {
	Name  string
	Type  reflect.Type
	Index []int

	// length expressions of the field, outermost first.
	// Each one is either a literal or the name of a previous field
	Dims []string
}

// fieldsToRead returns the fields of a struct in the order they are read from the input.
// That is declaration order, with the fields of embedded structs inlined at the
// position of the embedded struct.
func fieldsToRead(ty reflect.Type, structTag string) ([]field, error) {
	if ty.Kind() != reflect.Struct {
		panic("not a struct")
	}

	var fields []field

	var walk func(ty reflect.Type, parentIndex []int) error

	walk = func(ty reflect.Type, parentIndex []int) error {
		for idx := range ty.NumField() {
			fi := ty.Field(idx)
			if !fi.IsExported() {
				continue
			}

			tag := fi.Tag.Get(structTag)
			if tag == "-" {
				// this one is skipped
				continue
			}

			// derive index of this one. ensure we allocate a new slice by setting cap to
			// the length of the parents index
			index := append(parentIndex[:len(parentIndex):len(parentIndex)], fi.Index...)

			if fi.Anonymous && tag == "" && fi.Type.Kind() == reflect.Struct {
				// embedded struct, its fields are read in place
				if err := walk(fi.Type, index); err != nil {
					return err
				}

				continue
			}

			dims, err := dimsOf(tag)
			if err != nil {
				return fmt.Errorf("field %q: %w", fi.Name, err)
			}

			fields = append(fields, field{
				Name:  fi.Name,
				Type:  fi.Type,
				Index: index,
				Dims:  dims,
			})
		}

		return nil
	}

	if err := walk(ty, nil); err != nil {
		return nil, err
	}

	return fields, nil
}

// dimsOf parses a struct tag like `len=N,3`.
func dimsOf(tag string) ([]string, error) {
	if tag == "" {
		return nil, nil
	}

	lengths, ok := strings.CutPrefix(tag, "len=")
	if !ok {
		return nil, fmt.Errorf("unknown tag %q", tag)
	}

	dims := strings.Split(lengths, ",")
	for idx, dim := range dims {
		dims[idx] = strings.TrimSpace(dim)
		if dims[idx] == "" {
			return nil, fmt.Errorf("empty length in tag %q", tag)
		}
	}

	return dims, nil
}
