package lang

import (
	"slices"
	"strings"
)

// Kind discriminates the two value representations.
type Kind int

const (
	// KindString is a scalar string value.
	KindString Kind = iota

	// KindArray is an ordered array of string elements.
	KindArray
)

// String returns a string representation of the value kind.
func (k Kind) String() string {
	switch k {
	case KindString:
		return "String"

	case KindArray:
		return "Array"

	default:
		return "Unknown"
	}
}

// Value is the dual string/array variable value used throughout evaluation.
//
// A Value's kind is fixed at construction; every transformation returns a
// new Value. The zero Value is the empty string.
type Value struct {
	kind Kind
	str  string
	arr  []string
}

// String constructs a string Value.
func String(s string) Value {
	return Value{kind: KindString, str: s}
}

// Array constructs an array Value from the given elements.
// The elements are copied so the caller retains ownership of its slice.
func Array(elements ...string) Value {
	return Value{kind: KindArray, arr: slices.Clone(elements)}
}

// Kind returns the value's kind.
func (v Value) Kind() Kind { return v.kind }

// String returns the value as a string.
//
// An array is converted to a space-delimited string.
func (v Value) String() string {
	if v.kind == KindArray {
		return strings.Join(v.arr, " ")
	}

	return v.str
}

// Array returns the value as a slice of elements.
//
// A string value converts to a single-element slice, or to an empty slice
// if the string is empty. The returned slice is always a copy.
func (v Value) Array() []string {
	if v.kind == KindArray {
		return slices.Clone(v.arr)
	}

	if v.str == "" {
		return nil
	}

	return []string{v.str}
}

// Len returns the byte length of a string value or the element count of an
// array value.
func (v Value) Len() int {
	if v.kind == KindArray {
		return len(v.arr)
	}

	return len(v.str)
}

// IsEmpty reports whether the value has zero length.
func (v Value) IsEmpty() bool { return v.Len() == 0 }

// Equal reports structural, kind-sensitive equality. A string value is
// never equal to an array value, even when their string forms agree.
func (v Value) Equal(rhs Value) bool {
	if v.kind != rhs.kind {
		return false
	}

	if v.kind == KindArray {
		return slices.Equal(v.arr, rhs.arr)
	}

	return v.str == rhs.str
}

// Concat combines two values. The receiver's kind fixes the result's kind:
//
//   - String ⧺ x appends x's string form (arrays join with one space).
//   - Array ⧺ x appends x's elements (a nonempty string contributes one
//     element, an empty string contributes none).
func (v Value) Concat(rhs Value) Value {
	if v.kind == KindArray {
		return Value{kind: KindArray, arr: append(v.Array(), rhs.Array()...)}
	}

	return Value{kind: KindString, str: v.str + rhs.String()}
}
