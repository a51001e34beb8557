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

package ast

import (
	"strconv"
	"strings"

	"github.com/Martmists-GH/multiplatform-everything-sub000/graphql/token"
)

// Node represents a node in an AST tree from parsing GraphQL language.
type Node interface {
	// Loc returns the offset in the source where the node begins. Nodes not produced by the parser
	// return token.NoSourceLocation.
	Loc() token.SourceLocation
}

// Name represents a name.
//
// Reference: https://spec.graphql.org/October2021/#sec-Names
type Name struct {
	Value    string
	Location token.SourceLocation
}

var _ Node = Name{}

// Loc implements Node.
func (node Name) Loc() token.SourceLocation {
	return node.Location
}

// IsNil returns true if the name is absent (e.g., an anonymous operation or a field without alias).
func (node Name) IsNil() bool {
	return len(node.Value) == 0
}

//===----------------------------------------------------------------------------------------====//
// 2.2 Document
//===----------------------------------------------------------------------------------------====//
// A GraphQL Document describes a complete file or request string operated on by a GraphQL service
// or client. A document contains multiple definitions.
//
// Reference: https://spec.graphql.org/October2021/#sec-Document

// Definitions is a list of Definition.
type Definitions []Definition

// Loc implements Node.
func (nodes Definitions) Loc() token.SourceLocation {
	if len(nodes) == 0 {
		return token.NoSourceLocation
	}
	return nodes[0].Loc()
}

// Document represents a GraphQL Document.
//
// Reference: https://spec.graphql.org/October2021/#Document
type Document struct {
	// Definitions defined in the document.
	Definitions Definitions

	// Source that the document was parsed from. Used to convert locations into line and column.
	Source *token.Source
}

var _ Node = (*Document)(nil)

// Loc implements Node.
func (node *Document) Loc() token.SourceLocation {
	return node.Definitions.Loc()
}

// Operations returns all operation definitions in the document in order.
func (node *Document) Operations() []*OperationDefinition {
	var operations []*OperationDefinition
	for _, definition := range node.Definitions {
		if operation, ok := definition.(*OperationDefinition); ok {
			operations = append(operations, operation)
		}
	}
	return operations
}

// Fragments returns all fragment definitions in the document in order.
func (node *Document) Fragments() []*FragmentDefinition {
	var fragments []*FragmentDefinition
	for _, definition := range node.Definitions {
		if fragment, ok := definition.(*FragmentDefinition); ok {
			fragments = append(fragments, fragment)
		}
	}
	return fragments
}

// Definition represents a GraphQL Definition.
//
// Reference: https://spec.graphql.org/October2021/#Definition
type Definition interface {
	Node

	// GetDirectives returns directives applied to the definition. (Prepend "Get" to avoid name
	// collision with the fields in derived class.)
	GetDirectives() Directives

	// GetSelectionSet specifies the sets of fields to fetch.
	GetSelectionSet() SelectionSet

	// definitionNode is a special mark to indicate a Definition node. It makes sure that only
	// definition node can be assigned to Definition.
	definitionNode()
}

var (
	_ Definition = (*OperationDefinition)(nil)
	_ Definition = (*FragmentDefinition)(nil)
)

//===----------------------------------------------------------------------------------------====//
// 2.3 Operations
//===----------------------------------------------------------------------------------------====//
// There are three types of operations that GraphQL models:
//
//	* query – a read‐only fetch.
//	* mutation – a write followed by a fetch.
//	* subscription – a long‐lived request that fetches data in response to source events.
//
// Reference: https://spec.graphql.org/October2021/#sec-Language.Operations

// OperationType specifies the type of operation model.
//
// Reference: https://spec.graphql.org/October2021/#OperationType
type OperationType string

// Enumeration of OperationType
const (
	OperationTypeQuery        OperationType = "query"
	OperationTypeMutation     OperationType = "mutation"
	OperationTypeSubscription OperationType = "subscription"
)

// OperationDefinition represents a GraphQL operation.
//
// Reference: https://spec.graphql.org/October2021/#OperationDefinition
type OperationDefinition struct {
	Location token.SourceLocation

	// Operation is the type of operation. It is OperationTypeQuery for the query shorthand.
	Operation OperationType

	// Shorthand is set for the "{ field }" form which has no keyword, name, variables or directives.
	Shorthand bool

	// Name of the operation
	Name Name

	// VariableDefinitions contains variables given to the operation
	VariableDefinitions VariableDefinitions

	// Directives applied to the operation
	Directives Directives

	// SelectionSet specifies the sets of fields to fetch.
	SelectionSet SelectionSet
}

// Loc implements Node.
func (definition *OperationDefinition) Loc() token.SourceLocation {
	return definition.Location
}

// GetDirectives implements Definition.
func (definition *OperationDefinition) GetDirectives() Directives {
	return definition.Directives
}

// GetSelectionSet implements Definition.
func (definition *OperationDefinition) GetSelectionSet() SelectionSet {
	return definition.SelectionSet
}

// definitionNode implements Definition.
func (*OperationDefinition) definitionNode() {}

//===----------------------------------------------------------------------------------------====//
// 2.4 Selection Sets
//===----------------------------------------------------------------------------------------====//
// An operation selects the set of information it needs, and will receive exactly that information
// and nothing more, avoiding over‐fetching and under‐fetching data.
//
// Reference: https://spec.graphql.org/October2021/#sec-Selection-Sets

// SelectionSet specifies the information to be fetched.
//
// Reference: https://spec.graphql.org/October2021/#SelectionSet
type SelectionSet []Selection

var _ Node = SelectionSet{}

// Loc implements Node.
func (set SelectionSet) Loc() token.SourceLocation {
	if len(set) == 0 {
		return token.NoSourceLocation
	}
	return set[0].Loc()
}

// Selection represents a field or a set of fields.
//
//	Selection ::
//		Field
//		FragmentSpread
//		InlineFragment
//
// Reference: https://spec.graphql.org/October2021/#Selection
type Selection interface {
	Node

	// GetDirectives returns directives applied to the selection.
	GetDirectives() Directives

	// selectionNode is a special mark to indicate a Selection node. It makes sure that only selection
	// node can be assigned to Selection.
	selectionNode()
}

var (
	_ Selection = (*Field)(nil)
	_ Selection = (*FragmentSpread)(nil)
	_ Selection = (*InlineFragment)(nil)
)

//===----------------------------------------------------------------------------------------====//
// 2.5 Field
//===----------------------------------------------------------------------------------------====//

// Field describes a field selection.
//
// Reference: https://spec.graphql.org/October2021/#Field
type Field struct {
	Location token.SourceLocation

	// Alias specifies a different name of the key to be used in response object for returning the
	// field value.
	Alias Name

	// Name of the field
	Name Name

	// Arguments taken by the field
	Arguments Arguments

	// Directives applied to the field
	Directives Directives

	// Set of information to be fetched that is nested in the field.
	SelectionSet SelectionSet
}

// Loc implements Node.
func (node *Field) Loc() token.SourceLocation {
	return node.Location
}

// ResponseKey returns the key of the field in the response object which is the alias if given or
// the field name.
func (node *Field) ResponseKey() string {
	if !node.Alias.IsNil() {
		return node.Alias.Value
	}
	return node.Name.Value
}

// GetDirectives implements Selection.
func (node *Field) GetDirectives() Directives {
	return node.Directives
}

// selectionNode implements Selection.
func (*Field) selectionNode() {}

//===----------------------------------------------------------------------------------------====//
// 2.6 Argument
//===----------------------------------------------------------------------------------------====//

// Arguments specifies a list of Arguments
type Arguments []*Argument

// Loc implements Node.
func (nodes Arguments) Loc() token.SourceLocation {
	if len(nodes) == 0 {
		return token.NoSourceLocation
	}
	return nodes[0].Loc()
}

// Get returns the argument with the given name or nil if there is none.
func (nodes Arguments) Get(name string) *Argument {
	for _, arg := range nodes {
		if arg.Name.Value == name {
			return arg
		}
	}
	return nil
}

// An Argument is an argument taken by a field.
//
// Reference: https://spec.graphql.org/October2021/#Argument
type Argument struct {
	// Name of the argument
	Name Name

	// Value given to the argument
	Value Value
}

var _ Node = (*Argument)(nil)

// Loc implements Node.
func (node *Argument) Loc() token.SourceLocation {
	return node.Name.Location
}

//===----------------------------------------------------------------------------------------====//
// 2.8 Fragments
//===----------------------------------------------------------------------------------------====//
// Fragments allow for the reuse of common repeated selections of fields, reducing duplicated text
// in the document.
//
// Reference: https://spec.graphql.org/October2021/#sec-Language.Fragments

// FragmentDefinition represents a reusable selections of fields. More than one fragment may share a
// name as long as their type conditions differ.
//
// Reference: https://spec.graphql.org/October2021/#FragmentDefinition
type FragmentDefinition struct {
	Location token.SourceLocation

	// Name of the fragment
	Name Name

	// TypeCondition specifies the type this fragment applies to.
	TypeCondition NamedType

	// Directives applied to the fragment
	Directives Directives

	// SelectionSet describes set of fields to be requested by the fragment
	SelectionSet SelectionSet
}

// Loc implements Node.
func (definition *FragmentDefinition) Loc() token.SourceLocation {
	return definition.Location
}

// GetDirectives implements Definition.
func (definition *FragmentDefinition) GetDirectives() Directives {
	return definition.Directives
}

// GetSelectionSet implements Definition.
func (definition *FragmentDefinition) GetSelectionSet() SelectionSet {
	return definition.SelectionSet
}

// definitionNode implements Definition.
func (*FragmentDefinition) definitionNode() {}

// FragmentSpread uses the spread operator (...) on a fragment to adds a set of fields defined by
// the fragment to selection set.
//
// Reference: https://spec.graphql.org/October2021/#FragmentSpread
type FragmentSpread struct {
	Location token.SourceLocation

	// Name of the fragment to be consumed by the selection set
	Name Name

	// Directives applied to the fragment
	Directives Directives
}

// Loc implements Node.
func (node *FragmentSpread) Loc() token.SourceLocation {
	return node.Location
}

// GetDirectives implements Selection.
func (node *FragmentSpread) GetDirectives() Directives {
	return node.Directives
}

// selectionNode implements Selection.
func (*FragmentSpread) selectionNode() {}

// InlineFragment defines a fragment inline within a selection set.
//
// Reference: https://spec.graphql.org/October2021/#sec-Inline-Fragments
type InlineFragment struct {
	Location token.SourceLocation

	// TypeCondition specifies the type this inline fragment applies to. Its name is empty when the
	// fragment has no condition.
	TypeCondition NamedType

	// Directives applied to the inline fragment
	Directives Directives

	// SelectionSet describes the set of fields to be added into current selection set
	SelectionSet SelectionSet
}

// Loc implements Node.
func (node *InlineFragment) Loc() token.SourceLocation {
	return node.Location
}

// HasTypeCondition returns true if the inline fragment specifies a type condition.
func (node *InlineFragment) HasTypeCondition() bool {
	return !node.TypeCondition.Name.IsNil()
}

// GetDirectives implements Selection.
func (node *InlineFragment) GetDirectives() Directives {
	return node.Directives
}

// selectionNode implements Selection.
func (*InlineFragment) selectionNode() {}

//===----------------------------------------------------------------------------------------====//
// 2.9 Input Values
//===----------------------------------------------------------------------------------------====//
// Field and directive arguments accept input values of various literal primitives; input values can
// be scalars, enumeration values, lists, or input objects.
//
// Reference: https://spec.graphql.org/October2021/#sec-Input-Values

// Value represents a node containing a value. Values are resolved against an expected type by the
// request context once the type is known.
//
// Reference: https://spec.graphql.org/October2021/#Value
type Value interface {
	Node

	// Interface returns the literal as an interface{} without consulting any type information.
	Interface() interface{}

	// valueNode is a special mark to indicate a Value node. It makes sure that only value node can be
	// assigned to Value.
	valueNode()
}

// The following implement Value interface.
var (
	_ Value = Variable{}
	_ Value = IntValue{}
	_ Value = FloatValue{}
	_ Value = StringValue{}
	_ Value = BooleanValue{}
	_ Value = NullValue{}
	_ Value = EnumValue{}
	_ Value = ListValue{}
	_ Value = ObjectValue{}
	_ Value = DummyValue{}
)

// IntValue represents a value node containing an integer.
//
// Reference: https://spec.graphql.org/October2021/#IntValue
type IntValue struct {
	// Value is the literal text of the integer.
	Value    string
	Location token.SourceLocation
}

// Loc implements Node.
func (value IntValue) Loc() token.SourceLocation {
	return value.Location
}

// Interface implements Value.
func (value IntValue) Interface() interface{} {
	v, err := value.Int64Value()
	if err != nil {
		return nil
	}
	return v
}

// valueNode implements Value.
func (IntValue) valueNode() {}

// Int64Value parses literal into an int64.
func (value IntValue) Int64Value() (int64, error) {
	return strconv.ParseInt(value.Value, 10, 64)
}

// FloatValue represents a value node containing a float.
//
// Reference: https://spec.graphql.org/October2021/#FloatValue
type FloatValue struct {
	// Value is the literal text of the number.
	Value    string
	Location token.SourceLocation
}

// Loc implements Node.
func (value FloatValue) Loc() token.SourceLocation {
	return value.Location
}

// Interface implements Value.
func (value FloatValue) Interface() interface{} {
	v, err := value.Float64Value()
	if err != nil {
		return nil
	}
	return v
}

// valueNode implements Value.
func (FloatValue) valueNode() {}

// Float64Value parses literal into a float64.
func (value FloatValue) Float64Value() (float64, error) {
	return strconv.ParseFloat(value.Value, 64)
}

// StringValue represents a value node containing a string.
//
// Reference: https://spec.graphql.org/October2021/#StringValue
type StringValue struct {
	Value string

	// Block is set for a string written in the triple-quoted form.
	Block bool

	Location token.SourceLocation
}

// Loc implements Node.
func (value StringValue) Loc() token.SourceLocation {
	return value.Location
}

// Interface implements Value.
func (value StringValue) Interface() interface{} {
	return value.Value
}

// valueNode implements Value.
func (StringValue) valueNode() {}

// BooleanValue represents a value node containing a boolean.
//
// Reference: https://spec.graphql.org/October2021/#BooleanValue
type BooleanValue struct {
	Value    bool
	Location token.SourceLocation
}

// Loc implements Node.
func (value BooleanValue) Loc() token.SourceLocation {
	return value.Location
}

// Interface implements Value.
func (value BooleanValue) Interface() interface{} {
	return value.Value
}

// valueNode implements Value.
func (BooleanValue) valueNode() {}

// NullValue represents the keyword "null".
//
// Reference: https://spec.graphql.org/October2021/#NullValue
type NullValue struct {
	Location token.SourceLocation
}

// Loc implements Node.
func (value NullValue) Loc() token.SourceLocation {
	return value.Location
}

// Interface implements Value.
func (value NullValue) Interface() interface{} {
	return nil
}

// valueNode implements Value.
func (NullValue) valueNode() {}

// EnumValue represents a value node containing an enum member name.
//
// Reference: https://spec.graphql.org/October2021/#EnumValue
type EnumValue struct {
	Value    string
	Location token.SourceLocation
}

// Loc implements Node.
func (value EnumValue) Loc() token.SourceLocation {
	return value.Location
}

// Interface implements Value.
func (value EnumValue) Interface() interface{} {
	return value.Value
}

// valueNode implements Value.
func (EnumValue) valueNode() {}

// ListValue represents a value node containing list of values.
//
// Reference: https://spec.graphql.org/October2021/#ListValue
type ListValue struct {
	Values   []Value
	Location token.SourceLocation
}

// Loc implements Node.
func (value ListValue) Loc() token.SourceLocation {
	return value.Location
}

// Interface implements Value.
func (value ListValue) Interface() interface{} {
	result := make([]interface{}, len(value.Values))
	for i := range value.Values {
		result[i] = value.Values[i].Interface()
	}
	return result
}

// valueNode implements Value.
func (ListValue) valueNode() {}

// ObjectValue represents a value node containing list of values
//
// Reference: https://spec.graphql.org/October2021/#ObjectValue
type ObjectValue struct {
	Fields   []*ObjectField
	Location token.SourceLocation
}

// Loc implements Node.
func (value ObjectValue) Loc() token.SourceLocation {
	return value.Location
}

// Interface implements Value.
func (value ObjectValue) Interface() interface{} {
	values := make(map[string]interface{}, len(value.Fields))
	for _, field := range value.Fields {
		values[field.Name.Value] = field.Value.Interface()
	}
	return values
}

// valueNode implements Value.
func (ObjectValue) valueNode() {}

// ObjectField represent a node that assigns a value to an object field.
//
// Reference: https://spec.graphql.org/October2021/#ObjectField
type ObjectField struct {
	// Name of the field being assigned
	Name Name

	// Value that is assigned to the field
	Value Value
}

// Loc implements Node.
func (node *ObjectField) Loc() token.SourceLocation {
	return node.Name.Location
}

// DummyValue wraps an already-native Go value so it can stand in for a parsed literal. Variables
// supplied as JSON are bound this way. A DummyValue has no location in any source.
type DummyValue struct {
	Value interface{}
}

// Loc implements Node.
func (DummyValue) Loc() token.SourceLocation {
	return token.NoSourceLocation
}

// Interface implements Value.
func (value DummyValue) Interface() interface{} {
	return value.Value
}

// valueNode implements Value.
func (DummyValue) valueNode() {}

//===----------------------------------------------------------------------------------------====//
// 2.10 Variables
//===----------------------------------------------------------------------------------------====//
// A GraphQL query can be parameterized with variables, maximizing query reuse, and avoiding costly
// string building in clients at runtime.
//
// Reference: https://spec.graphql.org/October2021/#sec-Language.Variables

// Variable refers to a variable with a name.
//
// Reference: https://spec.graphql.org/October2021/#Variable
type Variable struct {
	// Name of the reference
	Name Name

	// Location of the "$"
	Location token.SourceLocation
}

// Loc implements Node.
func (value Variable) Loc() token.SourceLocation {
	return value.Location
}

// Interface implements Value.
func (value Variable) Interface() interface{} {
	// Return the name of variable.
	return value.Name.Value
}

// valueNode implements Value.
func (Variable) valueNode() {}

// VariableDefinitions is a list of VariableDefinition.
type VariableDefinitions []*VariableDefinition

// Loc implements Node.
func (nodes VariableDefinitions) Loc() token.SourceLocation {
	if len(nodes) == 0 {
		return token.NoSourceLocation
	}
	return nodes[0].Loc()
}

// Get returns the definition of the named variable or nil if there is none.
func (nodes VariableDefinitions) Get(name string) *VariableDefinition {
	for _, def := range nodes {
		if def.Variable.Name.Value == name {
			return def
		}
	}
	return nil
}

// VariableDefinition defines a variable.
//
// Reference: https://spec.graphql.org/October2021/#VariableDefinition
type VariableDefinition struct {
	// Variable that is defined by this node
	Variable Variable

	// Type of the variable value
	Type Type

	// DefaultValue describes the value to be used when no input value is supplied to the variable.
	DefaultValue Value

	// Directives applied to to the variable
	Directives Directives
}

// Loc implements Node.
func (value *VariableDefinition) Loc() token.SourceLocation {
	return value.Variable.Location
}

//===----------------------------------------------------------------------------------------====//
// 2.11 Type Reference
//===----------------------------------------------------------------------------------------====//
// GraphQL describes the types of data expected by query variables. Input types may be lists of
// another input type, or a non‐null variant of any other input type.
//
// Reference: https://spec.graphql.org/October2021/#sec-Type-References

// Type describes a type of data.
//
//	Type
//		NamedType
//		ListType
//		NonNullType
//
// Reference: https://spec.graphql.org/October2021/#Type
type Type interface {
	Node

	// String prints the type in GraphQL notation (e.g., "[String!]!").
	String() string

	// typeNode is a special mark to indicate a Type node. It makes sure that only type node can be
	// assigned to Type.
	typeNode()
}

var (
	_ Type = NamedType{}
	_ Type = ListType{}
	_ Type = NonNullType{}
)

// NullableType is a Type that can be wrapped in NonNullType. More specifically, NamedType and
// ListType.
type NullableType interface {
	Type
	nullableTypeNode()
}

var (
	_ NullableType = NamedType{}
	_ NullableType = ListType{}
)

// NamedType refers to a named type.
type NamedType struct {
	// Name of the type referred by this node
	Name Name
}

// Loc implements Node.
func (t NamedType) Loc() token.SourceLocation {
	return t.Name.Location
}

// String implements Type.
func (t NamedType) String() string {
	return t.Name.Value
}

// typeNode implements Type.
func (NamedType) typeNode() {}

// nullableTypeNode implements NullableType.
func (NamedType) nullableTypeNode() {}

// ListType referes to a list type of an item type.
type ListType struct {
	// ItemType specifies the type of item in the list.
	ItemType Type

	// Location of the "["
	Location token.SourceLocation
}

// Loc implements Node.
func (t ListType) Loc() token.SourceLocation {
	return t.Location
}

// String implements Type.
func (t ListType) String() string {
	return "[" + t.ItemType.String() + "]"
}

// typeNode implements Type
func (ListType) typeNode() {}

// nullableTypeNode implements NullableType.
func (ListType) nullableTypeNode() {}

// NonNullType refers to a type that doesn't accept null value.
type NonNullType struct {
	// Type wrapped in this non-null type; Can only be an NamedType or an ListType.
	Type NullableType
}

// Loc implements Node.
func (t NonNullType) Loc() token.SourceLocation {
	return t.Type.Loc()
}

// String implements Type.
func (t NonNullType) String() string {
	return t.Type.String() + "!"
}

// typeNode implements Type.
func (NonNullType) typeNode() {}

//===----------------------------------------------------------------------------------------====//
// 2.12 Directives
//===----------------------------------------------------------------------------------------====//
// Directives provide a way to describe alternate runtime execution and type validation behavior in
// a GraphQL document.
//
// Reference: https://spec.graphql.org/October2021/#sec-Language.Directives

// Directives specifies a list of directives
type Directives []*Directive

// Loc implements Node.
func (nodes Directives) Loc() token.SourceLocation {
	if len(nodes) == 0 {
		return token.NoSourceLocation
	}
	return nodes[0].Loc()
}

// Get returns the first directive with the given name or nil if there is none.
func (nodes Directives) Get(name string) *Directive {
	for _, directive := range nodes {
		if directive.Name.Value == name {
			return directive
		}
	}
	return nil
}

// Directive applies a GraphQL directive.
type Directive struct {
	// Location of the "@"
	Location token.SourceLocation

	// Name of the directive
	Name Name

	// Arguments taken by the directive
	Arguments Arguments
}

var _ Node = (*Directive)(nil)

// Loc implements Node.
func (node *Directive) Loc() token.SourceLocation {
	return node.Location
}

// String returns the directive in its GraphQL form.
func (node *Directive) String() string {
	var b strings.Builder
	FPrint(&b, node)
	return b.String()
}
