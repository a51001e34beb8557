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
	"math"
	"strconv"
)

// Names of the built-in scalars
const (
	StringTypeName  = "String"
	IntTypeName     = "Int"
	LongTypeName    = "Long"
	FloatTypeName   = "Float"
	DoubleTypeName  = "Double"
	BooleanTypeName = "Boolean"
	IDTypeName      = "ID"
)

// builtinScalars lists scalars present in every schema in the order they are registered.
func builtinScalars() []*ScalarType {
	return []*ScalarType{
		{
			name:        StringTypeName,
			description: "The `String` scalar type represents textual data, represented as UTF-8 character sequences.",
			builtin:     true,
			serialize:   serializeString,
			parse:       parseString,
		},
		{
			name:        IntTypeName,
			description: "The `Int` scalar type represents non-fractional signed whole numeric values between -(2^31) and 2^31 - 1.",
			builtin:     true,
			serialize:   intSerializer(IntTypeName, math.MinInt32, math.MaxInt32),
			parse:       intParser(math.MinInt32, math.MaxInt32),
		},
		{
			name:        LongTypeName,
			description: "The `Long` scalar type represents non-fractional signed whole numeric values of 64 bits.",
			builtin:     true,
			serialize:   intSerializer(LongTypeName, math.MinInt64, math.MaxInt64),
			parse:       intParser(math.MinInt64, math.MaxInt64),
		},
		{
			name:        FloatTypeName,
			description: "The `Float` scalar type represents signed double-precision fractional values.",
			builtin:     true,
			serialize:   floatSerializer(FloatTypeName),
			parse:       parseFloat,
		},
		{
			name:        DoubleTypeName,
			description: "The `Double` scalar type is an alias of `Float`.",
			builtin:     true,
			serialize:   floatSerializer(DoubleTypeName),
			parse:       parseFloat,
		},
		{
			name:        BooleanTypeName,
			description: "The `Boolean` scalar type represents `true` or `false`.",
			builtin:     true,
			serialize:   serializeBoolean,
			parse:       parseBoolean,
		},
		{
			name:        IDTypeName,
			description: "The `ID` scalar type represents a unique identifier serialized as a String.",
			builtin:     true,
			serialize:   serializeID,
			parse:       parseID,
		},
	}
}

func serializeString(value ResolvedValue) (ResolvedValue, error) {
	switch value.Kind() {
	case KindString:
		return value, nil
	case KindBoolean:
		return String(strconv.FormatBool(value.BoolValue())), nil
	case KindInt:
		return String(strconv.FormatInt(value.IntValue(), 10)), nil
	case KindFloat:
		return String(strconv.FormatFloat(value.FloatValue(), 'g', -1, 64)), nil
	}
	return Null(), fmt.Errorf("String cannot represent value: %s", value)
}

func parseString(value interface{}) (interface{}, error) {
	if s, ok := value.(string); ok {
		return s, nil
	}
	return nil, fmt.Errorf("String cannot represent a non string value: %v", value)
}

func intSerializer(name string, min int64, max int64) ScalarSerializer {
	return func(value ResolvedValue) (ResolvedValue, error) {
		var i int64
		switch value.Kind() {
		case KindInt:
			i = value.IntValue()
		case KindFloat:
			f := value.FloatValue()
			if f != math.Trunc(f) || f < float64(min) || f > float64(max) {
				return Null(), fmt.Errorf("%s cannot represent non-integer value: %s", name, value)
			}
			i = int64(f)
		case KindBoolean:
			if value.BoolValue() {
				i = 1
			}
		default:
			return Null(), fmt.Errorf("%s cannot represent non-integer value: %s", name, value)
		}
		if i < min || i > max {
			return Null(), fmt.Errorf("%s cannot represent value out of range: %d", name, i)
		}
		return Int(i), nil
	}
}

func intParser(min int64, max int64) ScalarParser {
	return func(value interface{}) (interface{}, error) {
		var i int64
		switch v := value.(type) {
		case int64:
			i = v
		case float64:
			if v != math.Trunc(v) || v < float64(min) || v > float64(max) {
				return nil, fmt.Errorf("cannot represent non-integer value: %v", v)
			}
			i = int64(v)
		default:
			return nil, fmt.Errorf("cannot represent non-integer value: %v", value)
		}
		if i < min || i > max {
			return nil, fmt.Errorf("cannot represent value out of range: %d", i)
		}
		return i, nil
	}
}

func floatSerializer(name string) ScalarSerializer {
	return func(value ResolvedValue) (ResolvedValue, error) {
		switch value.Kind() {
		case KindInt, KindFloat:
			return Float(value.FloatValue()), nil
		}
		return Null(), fmt.Errorf("%s cannot represent non numeric value: %s", name, value)
	}
}

func parseFloat(value interface{}) (interface{}, error) {
	switch v := value.(type) {
	case int64:
		return float64(v), nil
	case float64:
		return v, nil
	}
	return nil, fmt.Errorf("cannot represent non numeric value: %v", value)
}

func serializeBoolean(value ResolvedValue) (ResolvedValue, error) {
	if value.Kind() == KindBoolean {
		return value, nil
	}
	return Null(), fmt.Errorf("Boolean cannot represent a non boolean value: %s", value)
}

func parseBoolean(value interface{}) (interface{}, error) {
	if b, ok := value.(bool); ok {
		return b, nil
	}
	return nil, fmt.Errorf("Boolean cannot represent a non boolean value: %v", value)
}

func serializeID(value ResolvedValue) (ResolvedValue, error) {
	switch value.Kind() {
	case KindString:
		return value, nil
	case KindInt:
		return String(strconv.FormatInt(value.IntValue(), 10)), nil
	}
	return Null(), fmt.Errorf("ID cannot represent value: %s", value)
}

func parseID(value interface{}) (interface{}, error) {
	switch v := value.(type) {
	case string:
		return v, nil
	case int64:
		return strconv.FormatInt(v, 10), nil
	}
	return nil, fmt.Errorf("ID cannot represent value: %v", value)
}
