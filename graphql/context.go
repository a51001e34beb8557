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
	"reflect"

	"github.com/Martmists-GH/multiplatform-everything-sub000/graphql/ast"
	"github.com/Martmists-GH/multiplatform-everything-sub000/graphql/token"
)

//===----------------------------------------------------------------------------------------====//
// ContextBag
//===----------------------------------------------------------------------------------------====//

// ContextBag holds ambient values of a request (such as the authenticated user) keyed by their
// dynamic types. It is immutable; With returns a new bag.
type ContextBag struct {
	values map[reflect.Type]interface{}
}

// NewContextBag creates a bag from values. A later value replaces an earlier one of the same type.
func NewContextBag(values ...interface{}) ContextBag {
	return ContextBag{}.With(values...)
}

// With returns a bag containing values in addition to the ones in this bag.
func (bag ContextBag) With(values ...interface{}) ContextBag {
	m := make(map[reflect.Type]interface{}, len(bag.values)+len(values))
	for t, v := range bag.values {
		m[t] = v
	}
	for _, v := range values {
		if v == nil {
			continue
		}
		m[reflect.TypeOf(v)] = v
	}
	return ContextBag{m}
}

// Len returns the number of values in the bag.
func (bag ContextBag) Len() int {
	return len(bag.values)
}

// Lookup finds the value of the given type. If t is an interface type and no value is keyed by it,
// a value implementing t is returned.
func (bag ContextBag) Lookup(t reflect.Type) (interface{}, bool) {
	if v, ok := bag.values[t]; ok {
		return v, true
	}
	if t.Kind() == reflect.Interface {
		for vt, v := range bag.values {
			if vt.Implements(t) {
				return v, true
			}
		}
	}
	return nil, false
}

// TypeOf returns the reflect.Type of T. It is handy for NeedsContext.
func TypeOf[T any]() reflect.Type {
	return reflect.TypeOf((*T)(nil)).Elem()
}

// ContextValue retrieves the ambient value of type T of the request.
func ContextValue[T any](req *RequestContext) (T, bool) {
	v, ok := req.bag.Lookup(TypeOf[T]())
	if !ok {
		var zero T
		return zero, false
	}
	return v.(T), true
}

//===----------------------------------------------------------------------------------------====//
// FragmentTable
//===----------------------------------------------------------------------------------------====//

// FragmentTable indexes fragment definitions of a document. Several fragments may share a name
// as long as their type conditions differ.
type FragmentTable struct {
	byName map[string][]*ast.FragmentDefinition
}

// NewFragmentTable indexes the given definitions.
func NewFragmentTable(definitions []*ast.FragmentDefinition) *FragmentTable {
	table := &FragmentTable{
		byName: make(map[string][]*ast.FragmentDefinition, len(definitions)),
	}
	for _, definition := range definitions {
		name := definition.Name.Value
		table.byName[name] = append(table.byName[name], definition)
	}
	return table
}

// Lookup finds the fragment with the name whose type condition is typeName.
func (table *FragmentTable) Lookup(name string, typeName string) *ast.FragmentDefinition {
	for _, definition := range table.byName[name] {
		if definition.TypeCondition.Name.Value == typeName {
			return definition
		}
	}
	return nil
}

//===----------------------------------------------------------------------------------------====//
// RequestContext
//===----------------------------------------------------------------------------------------====//

// variableBindings are the operation variables. They are shared by every context of a request.
type variableBindings struct {
	definitions ast.VariableDefinitions
	values      map[string]ast.Value
}

// RequestContext carries the state of one request: the schema, the fragment table, the operation
// variables and the ambient ContextBag. Executing a field derives a child context (ForField)
// holding the arguments of the field. The shared parts are never mutated once the request starts.
type RequestContext struct {
	schema    *Schema
	source    *token.Source
	operation *ast.OperationDefinition
	fragments *FragmentTable
	variables *variableBindings
	bag       ContextBag

	// field and its bound arguments; both are nil for the root context.
	field     *ast.Field
	arguments map[string]interface{}
}

// NewRequestContext creates the root context for executing operation in document. Variable values
// are JSON-like values (as decoded from the request) and are resolved lazily against their expected
// types.
func NewRequestContext(
	schema *Schema,
	document *ast.Document,
	operation *ast.OperationDefinition,
	variables map[string]interface{},
	bag ContextBag) *RequestContext {

	values := make(map[string]ast.Value, len(variables))
	for name, value := range variables {
		values[name] = ast.DummyValue{Value: value}
	}

	var definitions ast.VariableDefinitions
	if operation != nil {
		definitions = operation.VariableDefinitions
	}
	var (
		source    *token.Source
		fragments []*ast.FragmentDefinition
	)
	if document != nil {
		source = document.Source
		fragments = document.Fragments()
	}

	return &RequestContext{
		schema:    schema,
		source:    source,
		operation: operation,
		fragments: NewFragmentTable(fragments),
		variables: &variableBindings{
			definitions: definitions,
			values:      values,
		},
		bag: bag,
	}
}

// Schema returns the schema being executed.
func (req *RequestContext) Schema() *Schema {
	return req.schema
}

// Operation returns the executing operation.
func (req *RequestContext) Operation() *ast.OperationDefinition {
	return req.operation
}

// Location converts the location of a node in the document into an ErrorLocation.
func (req *RequestContext) Location(node ast.Node) ErrorLocation {
	return ErrorLocationOf(req.source, node.Loc())
}

// Fragments returns the fragment table of the document.
func (req *RequestContext) Fragments() *FragmentTable {
	return req.fragments
}

// Bag returns the ambient values.
func (req *RequestContext) Bag() ContextBag {
	return req.bag
}

// Field returns the field being resolved or nil for the root context.
func (req *RequestContext) Field() *ast.Field {
	return req.field
}

// ForField derives the context for resolving field. The arguments of the field become its unbound
// values; the fragment table, the variables and the bag are shared.
func (req *RequestContext) ForField(field *ast.Field) *RequestContext {
	return &RequestContext{
		schema:    req.schema,
		source:    req.source,
		operation: req.operation,
		fragments: req.fragments,
		variables: req.variables,
		bag:       req.bag,
		field:     field,
		arguments: map[string]interface{}{},
	}
}

// UnboundArgument returns the AST value given to the argument of the field or nil.
func (req *RequestContext) UnboundArgument(name string) ast.Value {
	if req.field == nil {
		return nil
	}
	arg := req.field.Arguments.Get(name)
	if arg == nil {
		return nil
	}
	return arg.Value
}

// BindArgument stores the coerced value of an argument. It is called by the executor before the
// resolver runs and must not be called afterwards.
func (req *RequestContext) BindArgument(name string, value interface{}) {
	req.arguments[name] = value
}

// Argument returns the coerced value of an argument. The second return value is false if the
// argument was not given.
func (req *RequestContext) Argument(name string) (interface{}, bool) {
	v, ok := req.arguments[name]
	return v, ok
}

// Arguments returns a copy of the bound arguments.
func (req *RequestContext) Arguments() map[string]interface{} {
	args := make(map[string]interface{}, len(req.arguments))
	for name, value := range req.arguments {
		args[name] = value
	}
	return args
}

// ArgumentAs returns the bound argument converted to T. It returns false if the argument is absent,
// null, or of another type.
func ArgumentAs[T any](req *RequestContext, name string) (T, bool) {
	v, ok := req.arguments[name].(T)
	return v, ok
}

// VariableDefinition returns the definition of the operation variable or nil.
func (req *RequestContext) VariableDefinition(name string) *ast.VariableDefinition {
	return req.variables.definitions.Get(name)
}

// HasVariable returns true if the request provides a value (possibly null) for the variable.
func (req *RequestContext) HasVariable(name string) bool {
	_, ok := req.variables.values[name]
	return ok
}
