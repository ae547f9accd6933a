// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package doc

import (
	"strconv"
)

// Value is a leaf value: a string, integer, float, boolean, reference or
// null. The zero Value is null.
type Value struct {
	kind Kind
	s    string
	i    int64
	f    float64
	b    bool
	set  bool
}

// StrVal returns a string value.
func StrVal(s string) Value { return Value{kind: KindStr, s: s, set: true} }

// IntVal returns an integer value.
func IntVal(i int64) Value { return Value{kind: KindInt, i: i, set: true} }

// FloatVal returns a float value.
func FloatVal(f float64) Value { return Value{kind: KindFloat, f: f, set: true} }

// BoolVal returns a boolean value.
func BoolVal(b bool) Value { return Value{kind: KindBool, b: b, set: true} }

// RefVal returns a reference to the dictionary entry with key id.
func RefVal(id int) Value { return Value{kind: KindRef, i: int64(id), set: true} }

// Null returns the null value.
func Null() Value { return Value{kind: KindNull} }

// Kind returns the kind of v. The null value has KindNull.
func (v Value) Kind() Kind {
	if !v.set {
		return KindNull
	}
	return v.kind
}

// IsNull reports whether v is null.
func (v Value) IsNull() bool { return !v.set }

// Str returns the string of a string value.
func (v Value) Str() (string, bool) { return v.s, v.Kind() == KindStr }

// Int returns the integer of an integer value.
func (v Value) Int() (int64, bool) { return v.i, v.Kind() == KindInt }

// Float returns the float of a float value.
func (v Value) Float() (float64, bool) { return v.f, v.Kind() == KindFloat }

// Bool returns the boolean of a boolean value.
func (v Value) Bool() (bool, bool) { return v.b, v.Kind() == KindBool }

// Ref returns the target key of a reference value.
func (v Value) Ref() (int, bool) { return int(v.i), v.Kind() == KindRef }

// String formats v for display.
func (v Value) String() string {
	switch v.Kind() {
	case KindStr:
		return strconv.Quote(v.s)
	case KindInt:
		return strconv.FormatInt(v.i, 10)
	case KindFloat:
		return strconv.FormatFloat(v.f, 'g', -1, 64)
	case KindBool:
		return strconv.FormatBool(v.b)
	case KindRef:
		return "@" + strconv.FormatInt(v.i, 10)
	}
	return "null"
}
