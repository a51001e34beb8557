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
	"context"
	"reflect"
)

// TypeKind classifies named types in a Schema.
type TypeKind uint8

// Enumeration of TypeKind
const (
	TypeKindObject TypeKind = iota
	TypeKindInterface
	TypeKindEnum
	TypeKindScalar
	TypeKindInputObject
)

func (kind TypeKind) String() string {
	switch kind {
	case TypeKindObject:
		return "type"
	case TypeKindInterface:
		return "interface"
	case TypeKindEnum:
		return "enum"
	case TypeKindScalar:
		return "scalar"
	case TypeKindInputObject:
		return "input"
	}
	return "unknown"
}

// NamedType is implemented by every type registered in a Schema.
type NamedType interface {
	Name() string
	Description() string
	Kind() TypeKind
}

// Resolver computes the value of a field. Source is the source of the parent object and is nil for
// root operations.
type Resolver func(ctx context.Context, source interface{}, req *RequestContext) (ResolvedValue, error)

// SubscriptionResolver produces the stream of source events of a subscription. The channel should
// be closed by the resolver when the stream ends or ctx is done.
type SubscriptionResolver func(ctx context.Context, req *RequestContext) (<-chan ResolvedValue, error)

// AccessRule decides whether a field can be resolved for the parent source and request. It runs
// before arguments are bound.
type AccessRule func(source interface{}, req *RequestContext) bool

// TypeResolver returns the name of the concrete object type of a value of an interface type.
type TypeResolver func(source interface{}) string

// AllowAll is the default access rule.
func AllowAll(interface{}, *RequestContext) bool {
	return true
}

//===----------------------------------------------------------------------------------------====//
// Fields and arguments
//===----------------------------------------------------------------------------------------====//

// InputValueDefinition describes an argument of a field or a field of an input object.
type InputValueDefinition struct {
	name        string
	description string
	typ         *TypeRef
}

// Name of the argument
func (arg *InputValueDefinition) Name() string {
	return arg.name
}

// Description of the argument
func (arg *InputValueDefinition) Description() string {
	return arg.description
}

// Type of the argument
func (arg *InputValueDefinition) Type() *TypeRef {
	return arg.typ
}

// FieldDefinition describes a field of an object or interface type, or a root operation (which is a
// field of the Query, Mutation or Subscription type).
type FieldDefinition struct {
	name        string
	description string
	typ         *TypeRef
	args        []*InputValueDefinition
	rule        AccessRule
	resolver    Resolver
	subscribe   SubscriptionResolver
	contexts    []reflect.Type
}

// Name of the field
func (field *FieldDefinition) Name() string {
	return field.name
}

// Description of the field
func (field *FieldDefinition) Description() string {
	return field.description
}

// Type returns the declared return type.
func (field *FieldDefinition) Type() *TypeRef {
	return field.typ
}

// Arguments returns the argument definitions in declaration order.
func (field *FieldDefinition) Arguments() []*InputValueDefinition {
	return field.args
}

// Argument finds an argument definition by name.
func (field *FieldDefinition) Argument(name string) *InputValueDefinition {
	for _, arg := range field.args {
		if arg.name == name {
			return arg
		}
	}
	return nil
}

// AccessRule returns the rule gating the field.
func (field *FieldDefinition) AccessRule() AccessRule {
	return field.rule
}

// Resolver returns the resolver of the field. For subscriptions, it resolves each source event.
func (field *FieldDefinition) Resolver() Resolver {
	return field.resolver
}

// Subscribe returns the source stream resolver of a subscription field or nil.
func (field *FieldDefinition) Subscribe() SubscriptionResolver {
	return field.subscribe
}

// NeededContexts lists the types of ambient values that must be present in the ContextBag.
func (field *FieldDefinition) NeededContexts() []reflect.Type {
	return field.contexts
}

// fieldMap keeps fields in declaration order with an index by name.
type fieldMap struct {
	list   []*FieldDefinition
	byName map[string]*FieldDefinition
}

func (m *fieldMap) add(field *FieldDefinition) bool {
	if m.byName == nil {
		m.byName = map[string]*FieldDefinition{}
	}
	if _, exists := m.byName[field.name]; exists {
		return false
	}
	m.byName[field.name] = field
	m.list = append(m.list, field)
	return true
}

//===----------------------------------------------------------------------------------------====//
// Named types
//===----------------------------------------------------------------------------------------====//

// ObjectType is a type with fields.
type ObjectType struct {
	name        string
	description string
	interfaces  []string
	fields      fieldMap
}

var _ NamedType = (*ObjectType)(nil)

// Name implements NamedType.
func (t *ObjectType) Name() string {
	return t.name
}

// Description implements NamedType.
func (t *ObjectType) Description() string {
	return t.description
}

// Kind implements NamedType.
func (t *ObjectType) Kind() TypeKind {
	return TypeKindObject
}

// Field returns the field with the given name or nil.
func (t *ObjectType) Field(name string) *FieldDefinition {
	return t.fields.byName[name]
}

// Fields returns fields in declaration order.
func (t *ObjectType) Fields() []*FieldDefinition {
	return t.fields.list
}

// Interfaces returns names of the interfaces implemented by the type.
func (t *ObjectType) Interfaces() []string {
	return t.interfaces
}

// Implements returns true if the type declares to implement the named interface.
func (t *ObjectType) Implements(name string) bool {
	for _, iface := range t.interfaces {
		if iface == name {
			return true
		}
	}
	return false
}

// InterfaceType is an abstract type with fields. Values of an interface type are completed as one
// of the object types implementing it.
type InterfaceType struct {
	name        string
	description string
	fields      fieldMap
	resolveType TypeResolver
}

var _ NamedType = (*InterfaceType)(nil)

// Name implements NamedType.
func (t *InterfaceType) Name() string {
	return t.name
}

// Description implements NamedType.
func (t *InterfaceType) Description() string {
	return t.description
}

// Kind implements NamedType.
func (t *InterfaceType) Kind() TypeKind {
	return TypeKindInterface
}

// Field returns the field with the given name or nil.
func (t *InterfaceType) Field(name string) *FieldDefinition {
	return t.fields.byName[name]
}

// Fields returns fields in declaration order.
func (t *InterfaceType) Fields() []*FieldDefinition {
	return t.fields.list
}

// ResolveType returns the name of the concrete type of source.
func (t *InterfaceType) ResolveType(source interface{}) string {
	return t.resolveType(source)
}

// EnumMember is a member of an enum type. It is comparable.
type EnumMember struct {
	// Enum is the name of the enum type
	Enum string

	// Name of the member
	Name string

	// Index is the position of the member in declaration order.
	Index int
}

// Value returns the member as a ResolvedValue.
func (member EnumMember) Value() ResolvedValue {
	return Enum(member.Name)
}

// String returns the member name.
func (member EnumMember) String() string {
	return member.Name
}

// EnumType is a leaf type whose values are one of its members. Members serialize as their names.
type EnumType struct {
	name        string
	description string
	members     []EnumMember
	byName      map[string]EnumMember
}

var _ NamedType = (*EnumType)(nil)

// Name implements NamedType.
func (t *EnumType) Name() string {
	return t.name
}

// Description implements NamedType.
func (t *EnumType) Description() string {
	return t.description
}

// Kind implements NamedType.
func (t *EnumType) Kind() TypeKind {
	return TypeKindEnum
}

// Members returns members in declaration order.
func (t *EnumType) Members() []EnumMember {
	return t.members
}

// Member finds a member by name.
func (t *EnumType) Member(name string) (EnumMember, bool) {
	member, ok := t.byName[name]
	return member, ok
}

// ScalarSerializer converts a resolved value into a leaf value (Boolean, Int, Float, String or
// Null) to be written to the response.
type ScalarSerializer func(value ResolvedValue) (ResolvedValue, error)

// ScalarParser converts a native input value (see RequestContext.ValueOf) into the value bound to
// an argument.
type ScalarParser func(value interface{}) (interface{}, error)

// ScalarType is a leaf type with custom serialization.
type ScalarType struct {
	name        string
	description string
	builtin     bool
	serialize   ScalarSerializer
	parse       ScalarParser
}

var _ NamedType = (*ScalarType)(nil)

// Name implements NamedType.
func (t *ScalarType) Name() string {
	return t.name
}

// Description implements NamedType.
func (t *ScalarType) Description() string {
	return t.description
}

// Kind implements NamedType.
func (t *ScalarType) Kind() TypeKind {
	return TypeKindScalar
}

// IsBuiltin returns true for scalars provided by every schema.
func (t *ScalarType) IsBuiltin() bool {
	return t.builtin
}

// Serialize converts a resolved value into a leaf value.
func (t *ScalarType) Serialize(value ResolvedValue) (ResolvedValue, error) {
	return t.serialize(value)
}

// Parse converts an input value.
func (t *ScalarType) Parse(value interface{}) (interface{}, error) {
	return t.parse(value)
}

// InputObjectType describes the shape of an object value given to an argument.
type InputObjectType struct {
	name        string
	description string
	fields      []*InputValueDefinition
}

var _ NamedType = (*InputObjectType)(nil)

// Name implements NamedType.
func (t *InputObjectType) Name() string {
	return t.name
}

// Description implements NamedType.
func (t *InputObjectType) Description() string {
	return t.description
}

// Kind implements NamedType.
func (t *InputObjectType) Kind() TypeKind {
	return TypeKindInputObject
}

// Fields returns input fields in declaration order.
func (t *InputObjectType) Fields() []*InputValueDefinition {
	return t.fields
}

// Field finds an input field by name.
func (t *InputObjectType) Field(name string) *InputValueDefinition {
	for _, field := range t.fields {
		if field.name == name {
			return field
		}
	}
	return nil
}

//===----------------------------------------------------------------------------------------====//
// Schema
//===----------------------------------------------------------------------------------------====//

// Names of the root operation types
const (
	QueryTypeName        = "Query"
	MutationTypeName     = "Mutation"
	SubscriptionTypeName = "Subscription"
)

// Schema is the immutable registry of types and root operations produced by SchemaBuilder.Build.
// It can be shared by concurrent requests without synchronization.
type Schema struct {
	// types in registration order; root types are not included.
	types        []NamedType
	typeMap      map[string]NamedType
	query        *ObjectType
	mutation     *ObjectType
	subscription *ObjectType

	// possibleTypes maps an interface name to the object types implementing it.
	possibleTypes map[string][]*ObjectType
}

// TypeNamed returns the named type or nil. Root operation types are included.
func (schema *Schema) TypeNamed(name string) NamedType {
	return schema.typeMap[name]
}

// Types returns user-defined and built-in types in registration order, excluding the root
// operation types.
func (schema *Schema) Types() []NamedType {
	return schema.types
}

// Type returns the object type with the given name or nil.
func (schema *Schema) Type(name string) *ObjectType {
	t, _ := schema.typeMap[name].(*ObjectType)
	return t
}

// Interface returns the interface type with the given name or nil.
func (schema *Schema) Interface(name string) *InterfaceType {
	t, _ := schema.typeMap[name].(*InterfaceType)
	return t
}

// Enum returns the enum type with the given name or nil.
func (schema *Schema) Enum(name string) *EnumType {
	t, _ := schema.typeMap[name].(*EnumType)
	return t
}

// Scalar returns the scalar type with the given name or nil.
func (schema *Schema) Scalar(name string) *ScalarType {
	t, _ := schema.typeMap[name].(*ScalarType)
	return t
}

// InputType returns the input object type with the given name or nil.
func (schema *Schema) InputType(name string) *InputObjectType {
	t, _ := schema.typeMap[name].(*InputObjectType)
	return t
}

// QueryType returns the root type for queries. It is never nil.
func (schema *Schema) QueryType() *ObjectType {
	return schema.query
}

// MutationType returns the root type for mutations or nil if the schema has no mutations.
func (schema *Schema) MutationType() *ObjectType {
	return schema.mutation
}

// SubscriptionType returns the root type for subscriptions or nil if the schema has none.
func (schema *Schema) SubscriptionType() *ObjectType {
	return schema.subscription
}

// Query returns the query operation with the given name or nil.
func (schema *Schema) Query(name string) *FieldDefinition {
	return schema.query.Field(name)
}

// Mutation returns the mutation operation with the given name or nil.
func (schema *Schema) Mutation(name string) *FieldDefinition {
	if schema.mutation == nil {
		return nil
	}
	return schema.mutation.Field(name)
}

// Subscription returns the subscription operation with the given name or nil.
func (schema *Schema) Subscription(name string) *FieldDefinition {
	if schema.subscription == nil {
		return nil
	}
	return schema.subscription.Field(name)
}

// PossibleTypes returns the object types that implement the named interface.
func (schema *Schema) PossibleTypes(interfaceName string) []*ObjectType {
	return schema.possibleTypes[interfaceName]
}

// IsPossibleType returns true if the object type implements the abstract type.
func (schema *Schema) IsPossibleType(abstractType string, objectType *ObjectType) bool {
	return objectType.Implements(abstractType)
}
