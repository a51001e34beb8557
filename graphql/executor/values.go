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

package executor

import (
	"fmt"

	"github.com/Martmists-GH/multiplatform-everything-sub000/graphql"
	"github.com/Martmists-GH/multiplatform-everything-sub000/graphql/ast"
	jsoniter "github.com/json-iterator/go"
)

// bindArguments coerces the arguments given to field and binds them to req, the context derived
// for the field. Every problem found is returned; the field must not be resolved if any occurred.
func bindArguments(
	req *graphql.RequestContext,
	definition *graphql.FieldDefinition,
	parentTypeName string) graphql.Errors {

	var (
		errs  graphql.Errors
		field = req.Field()
	)

	for _, arg := range field.Arguments {
		if definition.Argument(arg.Name.Value) == nil {
			errs.Emplace(
				fmt.Sprintf(`Unknown argument "%s" on field "%s.%s".`,
					arg.Name.Value, parentTypeName, definition.Name()),
				req.Location(arg), graphql.ErrKindCoercion)
		}
	}

	for _, argDef := range definition.Arguments() {
		var (
			name    = argDef.Name()
			argType = argDef.Type()
			value   = req.UnboundArgument(name)
		)

		if !isProvided(req, value) {
			if argType.IsNonNull() {
				errs.Emplace(
					fmt.Sprintf(`Field "%s" argument "%s" of type "%s" is required but not provided.`,
						definition.Name(), name, argType),
					req.Location(field), graphql.ErrKindCoercion)
			}
			continue
		}

		native, err := req.ValueOf(value, argType)
		if err != nil {
			errs.Append(err)
			continue
		}

		coerced, err := coerceInputValue(req, native, argType)
		if err != nil {
			errs.Emplace(
				fmt.Sprintf("Expected type %s, found %s%s", argType, describeInput(value, native), err.Error()),
				req.Location(value), graphql.ErrKindCoercion)
			continue
		}

		req.BindArgument(name, coerced)
	}

	return errs
}

// isProvided returns false if the argument is absent or refers to a variable that has neither a
// value nor a default.
func isProvided(req *graphql.RequestContext, value ast.Value) bool {
	if value == nil {
		return false
	}
	if variable, ok := value.(ast.Variable); ok {
		name := variable.Name.Value
		if req.HasVariable(name) {
			return true
		}
		definition := req.VariableDefinition(name)
		return definition != nil && definition.DefaultValue != nil
	}
	return true
}

// describeInput renders the offending input for an error message: the literal as written in the
// document or the JSON encoding of a variable value.
func describeInput(value ast.Value, native interface{}) string {
	switch value.(type) {
	case ast.Variable, ast.DummyValue:
		if native == nil {
			return "null"
		}
		if b, err := jsoniter.ConfigCompatibleWithStandardLibrary.Marshal(native); err == nil {
			return string(b)
		}
		return fmt.Sprint(native)
	}
	return ast.Print(value)
}

// coercionError describes why a value does not fit its type. Its message is appended to
// "Expected type T, found V" so it is either empty or starts with a separator.
type coercionError struct {
	reason string
}

func (e *coercionError) Error() string {
	if e.reason == "" {
		return "."
	}
	return "; " + e.reason
}

func coercionFailure(format string, args ...interface{}) error {
	return &coercionError{fmt.Sprintf(format, args...)}
}

// coerceInputValue checks a native value against an input type and converts it to the value
// passed to resolvers: scalars go through their Parse function, enums must be members of the
// declared enum and input objects must provide their required fields.
func coerceInputValue(req *graphql.RequestContext, value interface{}, t *graphql.TypeRef) (interface{}, error) {
	if value == nil {
		if t.IsNonNull() {
			return nil, &coercionError{}
		}
		return nil, nil
	}

	if t.IsNonNull() {
		return coerceInputValue(req, value, t.Nullable())
	}

	if t.IsList() {
		itemType := t.ItemType()
		items, ok := value.([]interface{})
		if !ok {
			// A single item is accepted in place of a list of one item.
			item, err := coerceInputValue(req, value, itemType)
			if err != nil {
				return nil, err
			}
			return []interface{}{item}, nil
		}
		result := make([]interface{}, len(items))
		for i, item := range items {
			coerced, err := coerceInputValue(req, item, itemType)
			if err != nil {
				return nil, err
			}
			result[i] = coerced
		}
		return result, nil
	}

	schema := req.Schema()
	switch namedType := schema.TypeNamed(t.Name()).(type) {
	case *graphql.ScalarType:
		parsed, err := namedType.Parse(value)
		if err != nil {
			return nil, coercionFailure("%s", err.Error())
		}
		return parsed, nil

	case *graphql.EnumType:
		member, ok := value.(graphql.EnumMember)
		if !ok || member.Enum != namedType.Name() {
			return nil, &coercionError{}
		}
		return member, nil

	case *graphql.InputObjectType:
		object, ok := value.(map[string]interface{})
		if !ok {
			return nil, &coercionError{}
		}
		for name := range object {
			if namedType.Field(name) == nil {
				return nil, coercionFailure(`Field "%s" is not defined by type "%s".`, name, namedType.Name())
			}
		}
		result := make(map[string]interface{}, len(object))
		for _, field := range namedType.Fields() {
			fieldValue, exists := object[field.Name()]
			if !exists {
				if field.Type().IsNonNull() {
					return nil, coercionFailure(`Field "%s.%s" of required type "%s" was not provided.`,
						namedType.Name(), field.Name(), field.Type())
				}
				continue
			}
			coerced, err := coerceInputValue(req, fieldValue, field.Type())
			if err != nil {
				return nil, err
			}
			result[field.Name()] = coerced
		}
		return result, nil
	}

	return nil, coercionFailure(`Unknown input type "%s".`, t.Name())
}

// checkVariables verifies that every non-null variable of the operation has a value. It runs before
// execution and any problem fails the whole request.
func checkVariables(req *graphql.RequestContext, variables map[string]interface{}) graphql.Errors {
	var errs graphql.Errors
	for _, definition := range req.Operation().VariableDefinitions {
		if _, ok := definition.Type.(ast.NonNullType); !ok {
			continue
		}
		name := definition.Variable.Name.Value
		value, provided := variables[name]
		switch {
		case !provided && definition.DefaultValue == nil:
			errs.Emplace(
				fmt.Sprintf(`Variable "$%s" of required type "%s" was not provided.`, name, definition.Type),
				req.Location(definition), graphql.ErrKindCoercion)
		case provided && value == nil:
			errs.Emplace(
				fmt.Sprintf(`Variable "$%s" of non-null type "%s" must not be null.`, name, definition.Type),
				req.Location(definition), graphql.ErrKindCoercion)
		}
	}
	return errs
}
