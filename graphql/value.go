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
	"encoding/json"
	"fmt"
	"math"

	"github.com/Martmists-GH/multiplatform-everything-sub000/graphql/ast"
	"github.com/Martmists-GH/multiplatform-everything-sub000/internal/util"
)

// ValueOf resolves an AST value into a native value given the type expected at the position of the
// value. Native values are int64, float64, string, bool, nil, EnumMember, []interface{} and
// map[string]interface{}. Host values inside a DummyValue pass through unchanged.
//
// Only the shape of the value is resolved here. Checking the value against the expected type is
// left to the caller (see executor argument coercion). The expected type may be nil when unknown.
func (req *RequestContext) ValueOf(value ast.Value, expected *TypeRef) (interface{}, error) {
	switch value := value.(type) {
	case nil:
		return nil, nil

	case ast.Variable:
		return req.variableValue(value, expected)

	case ast.IntValue:
		i, err := value.Int64Value()
		if err != nil {
			// Out of int64 range. Let the coercion report it as a float.
			f, ferr := ast.FloatValue{Value: value.Value}.Float64Value()
			if ferr != nil {
				return nil, req.valueError(value, "Invalid number %s.", value.Value)
			}
			return f, nil
		}
		return i, nil

	case ast.FloatValue:
		f, err := value.Float64Value()
		if err != nil {
			return nil, req.valueError(value, "Invalid number %s.", value.Value)
		}
		return f, nil

	case ast.StringValue:
		return value.Value, nil

	case ast.BooleanValue:
		return value.Value, nil

	case ast.NullValue:
		return nil, nil

	case ast.EnumValue:
		return req.enumValue(value, expected)

	case ast.ListValue:
		var itemType *TypeRef
		if expected != nil {
			itemType = expected.ItemType()
		}
		list := make([]interface{}, len(value.Values))
		for i, item := range value.Values {
			v, err := req.ValueOf(item, itemType)
			if err != nil {
				return nil, err
			}
			list[i] = v
		}
		return list, nil

	case ast.ObjectValue:
		var inputType *InputObjectType
		if expected != nil && !expected.IsList() {
			inputType = req.schema.InputType(expected.Name())
		}
		object := make(map[string]interface{}, len(value.Fields))
		for _, field := range value.Fields {
			var fieldType *TypeRef
			if inputType != nil {
				definition := inputType.Field(field.Name.Value)
				if definition == nil {
					return nil, req.valueError(field, `Field "%s" is not defined by type "%s".`,
						field.Name.Value, inputType.Name())
				}
				fieldType = definition.Type()
			}
			v, err := req.ValueOf(field.Value, fieldType)
			if err != nil {
				return nil, err
			}
			object[field.Name.Value] = v
		}
		return object, nil

	case ast.DummyValue:
		return req.nativeValue(value.Value, expected), nil
	}

	return nil, NewError(fmt.Sprintf("unsupported value %T", value), ErrKindInternal)
}

// variableValue resolves a variable reference. A provided value wins over the default value. A
// declared variable without either is null.
func (req *RequestContext) variableValue(variable ast.Variable, expected *TypeRef) (interface{}, error) {
	name := variable.Name.Value
	bindings := req.variables

	if value, ok := bindings.values[name]; ok {
		return req.ValueOf(value, expected)
	}

	definition := bindings.definitions.Get(name)
	if definition == nil {
		return nil, req.valueError(variable, `Variable "$%s" is not defined.`, name)
	}

	if definition.DefaultValue != nil {
		return req.ValueOf(definition.DefaultValue, expected)
	}
	return nil, nil
}

func (req *RequestContext) enumValue(value ast.EnumValue, expected *TypeRef) (interface{}, error) {
	if expected == nil {
		return value.Value, nil
	}
	enum := req.schema.Enum(expected.Name())
	if enum == nil {
		return nil, req.valueError(value, "Expected type %s, found %s.", expected, value.Value)
	}
	member, ok := enum.Member(value.Value)
	if !ok {
		names := make([]string, len(enum.Members()))
		for i, m := range enum.Members() {
			names[i] = m.Name
		}
		return nil, req.valueError(value, `Value "%s" does not exist in "%s" enum.%s`,
			value.Value, enum.Name(), util.DidYouMean(value.Value, names))
	}
	return member, nil
}

// nativeValue normalizes a JSON-like or host value: integers become int64, json.Number becomes an
// int64 or a float64, and strings at enum positions become enum members.
func (req *RequestContext) nativeValue(v interface{}, expected *TypeRef) interface{} {
	switch v := v.(type) {
	case int:
		return int64(v)
	case int32:
		return int64(v)
	case float32:
		return float64(v)

	case json.Number:
		if i, err := v.Int64(); err == nil {
			return i
		}
		if f, err := v.Float64(); err == nil {
			return f
		}
		return v.String()

	case float64:
		// Decoders without UseNumber produce float64 for every number.
		if expected != nil && v == math.Trunc(v) && math.Abs(v) < 1<<53 {
			switch expected.Name() {
			case IntTypeName, LongTypeName, IDTypeName:
				return int64(v)
			}
		}
		return v

	case string:
		if expected != nil && expected.IsList() {
			// A single item given for a list is coerced as the item.
			return req.nativeValue(v, expected.ItemType())
		}
		if expected != nil {
			if enum := req.schema.Enum(expected.Name()); enum != nil {
				if member, ok := enum.Member(v); ok {
					return member
				}
			}
		}
		return v

	case []interface{}:
		var itemType *TypeRef
		if expected != nil {
			itemType = expected.ItemType()
		}
		list := make([]interface{}, len(v))
		for i, item := range v {
			list[i] = req.nativeValue(item, itemType)
		}
		return list

	case map[string]interface{}:
		var inputType *InputObjectType
		if expected != nil && !expected.IsList() {
			inputType = req.schema.InputType(expected.Name())
		}
		object := make(map[string]interface{}, len(v))
		for name, item := range v {
			var fieldType *TypeRef
			if inputType != nil {
				if definition := inputType.Field(name); definition != nil {
					fieldType = definition.Type()
				}
			}
			object[name] = req.nativeValue(item, fieldType)
		}
		return object
	}
	return v
}

func (req *RequestContext) valueError(node ast.Node, format string, args ...interface{}) error {
	return NewError(fmt.Sprintf(format, args...), req.Location(node), ErrKindCoercion)
}
