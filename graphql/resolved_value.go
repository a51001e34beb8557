/**
 * Copyright (c) 2018, The Artemis Authors.
 *
 * Permission to use, copy, modify, and/or distribute this software for any
 * purpose with or without fee is hereby granted, provided that the above
 * copyright notice and this permission notice appear in all copies.
 *
 * THE SOFTWARE IS PROVIDED "AS IS" AND THE AUTHOR DISCLAIMS ALL WARRANTIES
 * WITH REGARD TO THIS SOFTWARE INCLUDING ALL IMPLIED WARRANTIES OF
 * MERCHANTABILITY AND FITNESS. IN NO EVENT SHALL THE AUTHOR BE LIABLE FOR
 * ANY SPECIAL, DIRECT, INDIRECT, OR CONSEQUENTIAL DAMAGES OR ANY DAMAGES
 * WHATSOEVER RESULTING FROM LOSS OF USE, DATA OR PROFITS, WHETHER IN AN
 * ACTION OF CONTRACT, NEGLIGENCE OR OTHER TORTIOUS ACTION, ARISING OUT OF
 * OR IN CONNECTION WITH THE USE OR PERFORMANCE OF THIS SOFTWARE.
 */

package graphql

import (
	"fmt"
	"strconv"
)

// ValueKind tags the variant held by a ResolvedValue.
type ValueKind uint8

// Enumeration of ValueKind
const (
	KindNull ValueKind = iota
	KindBoolean
	KindInt
	KindFloat
	KindString
	KindEnum
	KindList
	KindObject
	// KindScalar holds an opaque host value to be serialized by a custom scalar.
	KindScalar
)

func (kind ValueKind) String() string {
	switch kind {
	case KindNull:
		return "Null"
	case KindBoolean:
		return "Boolean"
	case KindInt:
		return "Int"
	case KindFloat:
		return "Float"
	case KindString:
		return "String"
	case KindEnum:
		return "Enum"
	case KindList:
		return "List"
	case KindObject:
		return "Object"
	case KindScalar:
		return "Scalar"
	}
	return "unknown"
}

// ResolvedValue is the value produced by a resolver. The executor serializes it according to the
// declared type of the field without inspecting host values through reflection.
//
// Object values carry a source that becomes the parent value of resolvers of sub-fields. An
// object may name its concrete type (see ObjectOf) which is how values of interface fields pick
// their runtime type.
type ResolvedValue struct {
	kind     ValueKind
	b        bool
	i        int64
	f        float64
	s        string
	items    []ResolvedValue
	typeName string
	source   interface{}
}

// Null returns the null value.
func Null() ResolvedValue {
	return ResolvedValue{}
}

// Bool wraps a boolean.
func Bool(b bool) ResolvedValue {
	return ResolvedValue{kind: KindBoolean, b: b}
}

// Int wraps an integer.
func Int(i int64) ResolvedValue {
	return ResolvedValue{kind: KindInt, i: i}
}

// Float wraps a floating point number.
func Float(f float64) ResolvedValue {
	return ResolvedValue{kind: KindFloat, f: f}
}

// String wraps a string.
func String(s string) ResolvedValue {
	return ResolvedValue{kind: KindString, s: s}
}

// Enum refers to the enum member with the given name.
func Enum(name string) ResolvedValue {
	return ResolvedValue{kind: KindEnum, s: name}
}

// List wraps a list of values.
func List(items ...ResolvedValue) ResolvedValue {
	if items == nil {
		items = []ResolvedValue{}
	}
	return ResolvedValue{kind: KindList, items: items}
}

// ListOfValues maps each item in a slice into a ResolvedValue to build a list.
func ListOfValues[T any](items []T, f func(T) ResolvedValue) ResolvedValue {
	values := make([]ResolvedValue, len(items))
	for i, item := range items {
		values[i] = f(item)
	}
	return List(values...)
}

// Object wraps the source of an object value. The concrete type is taken from the declared type
// of the field or from the type resolver of an interface.
func Object(source interface{}) ResolvedValue {
	return ResolvedValue{kind: KindObject, source: source}
}

// ObjectOf wraps the source of an object value with the name of its concrete type.
func ObjectOf(typeName string, source interface{}) ResolvedValue {
	return ResolvedValue{kind: KindObject, typeName: typeName, source: source}
}

// Scalar wraps a host value that is converted by the Serialize function of a custom scalar.
func Scalar(value interface{}) ResolvedValue {
	return ResolvedValue{kind: KindScalar, source: value}
}

// ValueFromNative converts a native value (such as a bound argument) into a ResolvedValue. Values
// of unknown types become Scalar.
func ValueFromNative(v interface{}) ResolvedValue {
	switch v := v.(type) {
	case nil:
		return Null()
	case ResolvedValue:
		return v
	case bool:
		return Bool(v)
	case int:
		return Int(int64(v))
	case int32:
		return Int(int64(v))
	case int64:
		return Int(v)
	case float32:
		return Float(float64(v))
	case float64:
		return Float(v)
	case string:
		return String(v)
	case EnumMember:
		return Enum(v.Name)
	case []interface{}:
		return ListOfValues(v, ValueFromNative)
	}
	return Scalar(v)
}

// Kind returns the variant held by the value.
func (v ResolvedValue) Kind() ValueKind {
	return v.kind
}

// IsNull returns true for the null value.
func (v ResolvedValue) IsNull() bool {
	return v.kind == KindNull
}

// BoolValue returns the wrapped boolean.
func (v ResolvedValue) BoolValue() bool {
	return v.b
}

// IntValue returns the wrapped integer.
func (v ResolvedValue) IntValue() int64 {
	return v.i
}

// FloatValue returns the wrapped number. An Int is converted.
func (v ResolvedValue) FloatValue() float64 {
	if v.kind == KindInt {
		return float64(v.i)
	}
	return v.f
}

// StringValue returns the wrapped string or the name of the enum member.
func (v ResolvedValue) StringValue() string {
	return v.s
}

// Items returns the items of a list.
func (v ResolvedValue) Items() []ResolvedValue {
	return v.items
}

// TypeName returns the name of the concrete type given to ObjectOf.
func (v ResolvedValue) TypeName() string {
	return v.typeName
}

// Source returns the source of an object or the host value of a custom scalar.
func (v ResolvedValue) Source() interface{} {
	return v.source
}

// String prints the value for error messages.
func (v ResolvedValue) String() string {
	switch v.kind {
	case KindNull:
		return "null"
	case KindBoolean:
		return strconv.FormatBool(v.b)
	case KindInt:
		return strconv.FormatInt(v.i, 10)
	case KindFloat:
		return strconv.FormatFloat(v.f, 'g', -1, 64)
	case KindString:
		return strconv.Quote(v.s)
	case KindEnum:
		return v.s
	case KindList:
		return fmt.Sprintf("%v", v.items)
	}
	return fmt.Sprintf("%v", v.source)
}
