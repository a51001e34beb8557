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
	"fmt"
	"reflect"
)

// SchemaBuilder accumulates type and operation definitions. Build validates them once and freezes
// the result into an immutable Schema.
//
//	builder := graphql.NewSchemaBuilder()
//	builder.Enum("Episode", "NEWHOPE", "EMPIRE", "JEDI")
//	builder.Query("hero", graphql.Named("Character")).
//		Argument("episode", graphql.Named("Episode")).
//		Resolver(resolveHero)
//	schema, err := builder.Build()
//
// Problems found while registering (such as duplicate names) are reported by Build together with
// the problems found by validation.
type SchemaBuilder struct {
	types         []NamedType
	typeMap       map[string]NamedType
	interfaces    []*InterfaceType
	objects       []*ObjectType
	inputs        []*InputObjectType
	query         fieldMap
	mutation      fieldMap
	subscription  fieldMap
	errs          Errors
	built         bool
	pendingFields []*pendingField
}

// pendingField records a field definition with its owner for validation in Build.
type pendingField struct {
	owner      string
	field      *FieldDefinition
	isAbstract bool
}

// NewSchemaBuilder creates an empty builder.
func NewSchemaBuilder() *SchemaBuilder {
	return &SchemaBuilder{
		typeMap: map[string]NamedType{},
	}
}

func (b *SchemaBuilder) errorf(format string, args ...interface{}) {
	b.errs.Emplace(fmt.Sprintf(format, args...), ErrKindValidation)
}

// isValidName checks the name against /^[_a-zA-Z][_a-zA-Z0-9]*$/.
func isValidName(name string) bool {
	if len(name) == 0 {
		return false
	}
	for i := 0; i < len(name); i++ {
		c := name[i]
		switch {
		case c == '_', c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z':
		case c >= '0' && c <= '9' && i > 0:
		default:
			return false
		}
	}
	return true
}

func (b *SchemaBuilder) checkName(name string) {
	if !isValidName(name) {
		b.errorf(`Names must match /^[_a-zA-Z][_a-zA-Z0-9]*$/ but "%s" does not.`, name)
	} else if len(name) > 1 && name[0] == '_' && name[1] == '_' {
		b.errorf(`Name "%s" must not begin with "__", which is reserved by GraphQL introspection.`, name)
	}
}

func (b *SchemaBuilder) register(t NamedType) {
	name := t.Name()
	b.checkName(name)
	if _, exists := b.typeMap[name]; exists {
		b.errorf(`Schema must contain uniquely named types but contains multiple types named "%s".`, name)
		return
	}
	b.typeMap[name] = t
	b.types = append(b.types, t)
}

func (b *SchemaBuilder) newField(owner string, fields *fieldMap, name string, typ *TypeRef, isAbstract bool) *FieldDefinition {
	b.checkName(name)
	field := &FieldDefinition{
		name: name,
		typ:  typ,
		rule: AllowAll,
	}
	if !fields.add(field) {
		b.errorf(`Field "%s.%s" is defined more than once.`, owner, name)
	}
	b.pendingFields = append(b.pendingFields, &pendingField{
		owner:      owner,
		field:      field,
		isAbstract: isAbstract,
	})
	return field
}

//===----------------------------------------------------------------------------------------====//
// Object types
//===----------------------------------------------------------------------------------------====//

// ObjectBuilder configures an object type.
type ObjectBuilder struct {
	builder *SchemaBuilder
	t       *ObjectType
}

// Type registers an object type.
func (b *SchemaBuilder) Type(name string) *ObjectBuilder {
	t := &ObjectType{name: name}
	b.register(t)
	b.objects = append(b.objects, t)
	return &ObjectBuilder{b, t}
}

// Description sets the description of the type.
func (ob *ObjectBuilder) Description(description string) *ObjectBuilder {
	ob.t.description = description
	return ob
}

// Implements declares the interfaces implemented by the type.
func (ob *ObjectBuilder) Implements(interfaces ...string) *ObjectBuilder {
	ob.t.interfaces = append(ob.t.interfaces, interfaces...)
	return ob
}

// Field adds a field to the type.
func (ob *ObjectBuilder) Field(name string, typ *TypeRef) *FieldBuilder {
	return &FieldBuilder{ob.builder.newField(ob.t.name, &ob.t.fields, name, typ, false)}
}

//===----------------------------------------------------------------------------------------====//
// Interface types
//===----------------------------------------------------------------------------------------====//

// InterfaceBuilder configures an interface type.
type InterfaceBuilder struct {
	builder *SchemaBuilder
	t       *InterfaceType
}

// Interface registers an interface type.
func (b *SchemaBuilder) Interface(name string) *InterfaceBuilder {
	t := &InterfaceType{name: name}
	b.register(t)
	b.interfaces = append(b.interfaces, t)
	return &InterfaceBuilder{b, t}
}

// Description sets the description of the interface.
func (ib *InterfaceBuilder) Description(description string) *InterfaceBuilder {
	ib.t.description = description
	return ib
}

// ResolveType sets the function determining the concrete type of an interface value.
func (ib *InterfaceBuilder) ResolveType(resolver TypeResolver) *InterfaceBuilder {
	ib.t.resolveType = resolver
	return ib
}

// Field adds a field to the interface. Interface fields are resolved by the implementing types
// and need no resolver.
func (ib *InterfaceBuilder) Field(name string, typ *TypeRef) *FieldBuilder {
	return &FieldBuilder{ib.builder.newField(ib.t.name, &ib.t.fields, name, typ, true)}
}

//===----------------------------------------------------------------------------------------====//
// Leaf and input types
//===----------------------------------------------------------------------------------------====//

// EnumBuilder configures an enum type.
type EnumBuilder struct {
	t *EnumType
}

// Enum registers an enum type with the given members.
func (b *SchemaBuilder) Enum(name string, members ...string) *EnumBuilder {
	t := &EnumType{
		name:    name,
		members: make([]EnumMember, 0, len(members)),
		byName:  make(map[string]EnumMember, len(members)),
	}
	for _, member := range members {
		b.checkName(member)
		if _, exists := t.byName[member]; exists {
			b.errorf(`Enum "%s" contains member "%s" more than once.`, name, member)
			continue
		}
		switch member {
		case "true", "false", "null":
			b.errorf(`Enum "%s" cannot include value: %s.`, name, member)
			continue
		}
		m := EnumMember{
			Enum:  name,
			Name:  member,
			Index: len(t.members),
		}
		t.members = append(t.members, m)
		t.byName[member] = m
	}
	if len(t.members) == 0 {
		b.errorf(`Enum "%s" must define one or more values.`, name)
	}
	b.register(t)
	return &EnumBuilder{t}
}

// Description sets the description of the enum.
func (eb *EnumBuilder) Description(description string) *EnumBuilder {
	eb.t.description = description
	return eb
}

// ScalarBuilder configures a custom scalar.
type ScalarBuilder struct {
	t *ScalarType
}

// Scalar registers a custom scalar. Both Serialize and Parse must be set.
func (b *SchemaBuilder) Scalar(name string) *ScalarBuilder {
	t := &ScalarType{name: name}
	b.register(t)
	return &ScalarBuilder{t}
}

// Description sets the description of the scalar.
func (sb *ScalarBuilder) Description(description string) *ScalarBuilder {
	sb.t.description = description
	return sb
}

// Serialize sets the function converting resolved values into leaf values.
func (sb *ScalarBuilder) Serialize(serialize ScalarSerializer) *ScalarBuilder {
	sb.t.serialize = serialize
	return sb
}

// Parse sets the function converting input values.
func (sb *ScalarBuilder) Parse(parse ScalarParser) *ScalarBuilder {
	sb.t.parse = parse
	return sb
}

// InputTypeBuilder configures an input object type.
type InputTypeBuilder struct {
	builder *SchemaBuilder
	t       *InputObjectType
}

// InputType registers an input object type.
func (b *SchemaBuilder) InputType(name string) *InputTypeBuilder {
	t := &InputObjectType{name: name}
	b.register(t)
	b.inputs = append(b.inputs, t)
	return &InputTypeBuilder{b, t}
}

// Description sets the description of the input type.
func (ib *InputTypeBuilder) Description(description string) *InputTypeBuilder {
	ib.t.description = description
	return ib
}

// Field adds an input field.
func (ib *InputTypeBuilder) Field(name string, typ *TypeRef) *InputTypeBuilder {
	ib.builder.checkName(name)
	if ib.t.Field(name) != nil {
		ib.builder.errorf(`Field "%s.%s" is defined more than once.`, ib.t.name, name)
		return ib
	}
	ib.t.fields = append(ib.t.fields, &InputValueDefinition{
		name: name,
		typ:  typ,
	})
	return ib
}

//===----------------------------------------------------------------------------------------====//
// Fields
//===----------------------------------------------------------------------------------------====//

// FieldBuilder configures a field of an object or interface type.
type FieldBuilder struct {
	field *FieldDefinition
}

// Description sets the description of the field.
func (fb *FieldBuilder) Description(description string) *FieldBuilder {
	fb.field.description = description
	return fb
}

// Argument declares an argument.
func (fb *FieldBuilder) Argument(name string, typ *TypeRef) *FieldBuilder {
	fb.field.args = append(fb.field.args, &InputValueDefinition{
		name: name,
		typ:  typ,
	})
	return fb
}

// AccessRule replaces the default rule which allows every access.
func (fb *FieldBuilder) AccessRule(rule AccessRule) *FieldBuilder {
	fb.field.rule = rule
	return fb
}

// Resolver sets the resolver.
func (fb *FieldBuilder) Resolver(resolver Resolver) *FieldBuilder {
	fb.field.resolver = resolver
	return fb
}

// NeedsContext declares ambient values that must be present in the request ContextBag.
func (fb *FieldBuilder) NeedsContext(types ...reflect.Type) *FieldBuilder {
	fb.field.contexts = append(fb.field.contexts, types...)
	return fb
}

// ResolveWith adapts a function of a typed source into a Resolver. A source of another type is an
// error.
func ResolveWith[T any](f func(source T) ResolvedValue) Resolver {
	return func(_ context.Context, source interface{}, _ *RequestContext) (ResolvedValue, error) {
		s, ok := source.(T)
		if !ok {
			var zero T
			return Null(), fmt.Errorf("expect source of type %T but got %T", zero, source)
		}
		return f(s), nil
	}
}

//===----------------------------------------------------------------------------------------====//
// Root operations
//===----------------------------------------------------------------------------------------====//

// OperationResolver computes the value of a root operation.
type OperationResolver func(ctx context.Context, req *RequestContext) (ResolvedValue, error)

// OperationBuilder configures a query or a mutation.
type OperationBuilder struct {
	field *FieldDefinition
}

// Query registers a query operation.
func (b *SchemaBuilder) Query(name string, typ *TypeRef) *OperationBuilder {
	return &OperationBuilder{b.newField(QueryTypeName, &b.query, name, typ, false)}
}

// Mutation registers a mutation operation.
func (b *SchemaBuilder) Mutation(name string, typ *TypeRef) *OperationBuilder {
	return &OperationBuilder{b.newField(MutationTypeName, &b.mutation, name, typ, false)}
}

// Description sets the description of the operation.
func (ob *OperationBuilder) Description(description string) *OperationBuilder {
	ob.field.description = description
	return ob
}

// Argument declares an argument.
func (ob *OperationBuilder) Argument(name string, typ *TypeRef) *OperationBuilder {
	(&FieldBuilder{ob.field}).Argument(name, typ)
	return ob
}

// AccessRule replaces the default rule which allows every access. The source given to the rule is
// always nil.
func (ob *OperationBuilder) AccessRule(rule AccessRule) *OperationBuilder {
	ob.field.rule = rule
	return ob
}

// NeedsContext declares ambient values that must be present in the request ContextBag.
func (ob *OperationBuilder) NeedsContext(types ...reflect.Type) *OperationBuilder {
	ob.field.contexts = append(ob.field.contexts, types...)
	return ob
}

// Resolver sets the resolver.
func (ob *OperationBuilder) Resolver(resolver OperationResolver) *OperationBuilder {
	ob.field.resolver = func(ctx context.Context, _ interface{}, req *RequestContext) (ResolvedValue, error) {
		return resolver(ctx, req)
	}
	return ob
}

// SubscriptionBuilder configures a subscription.
type SubscriptionBuilder struct {
	field *FieldDefinition
}

// Subscription registers a subscription. Each value received from the stream is completed with
// the selection set of the subscription field.
func (b *SchemaBuilder) Subscription(name string, typ *TypeRef) *SubscriptionBuilder {
	field := b.newField(SubscriptionTypeName, &b.subscription, name, typ, false)
	field.resolver = func(_ context.Context, source interface{}, _ *RequestContext) (ResolvedValue, error) {
		return source.(ResolvedValue), nil
	}
	return &SubscriptionBuilder{field}
}

// Description sets the description of the subscription.
func (sb *SubscriptionBuilder) Description(description string) *SubscriptionBuilder {
	sb.field.description = description
	return sb
}

// Argument declares an argument.
func (sb *SubscriptionBuilder) Argument(name string, typ *TypeRef) *SubscriptionBuilder {
	(&FieldBuilder{sb.field}).Argument(name, typ)
	return sb
}

// AccessRule replaces the default rule which allows every access.
func (sb *SubscriptionBuilder) AccessRule(rule AccessRule) *SubscriptionBuilder {
	sb.field.rule = rule
	return sb
}

// NeedsContext declares ambient values that must be present in the request ContextBag.
func (sb *SubscriptionBuilder) NeedsContext(types ...reflect.Type) *SubscriptionBuilder {
	sb.field.contexts = append(sb.field.contexts, types...)
	return sb
}

// Resolver sets the function producing the stream of events.
func (sb *SubscriptionBuilder) Resolver(resolver SubscriptionResolver) *SubscriptionBuilder {
	sb.field.subscribe = resolver
	return sb
}

//===----------------------------------------------------------------------------------------====//
// Build
//===----------------------------------------------------------------------------------------====//

// MustBuild is like Build but panics on error.
func (b *SchemaBuilder) MustBuild() *Schema {
	schema, err := b.Build()
	if err != nil {
		panic(err)
	}
	return schema
}

// Build validates the registered definitions and returns the Schema. The returned error is a
// graphql.Errors listing every problem. Build can be called only once.
func (b *SchemaBuilder) Build() (*Schema, error) {
	if b.built {
		return nil, NewError("Schema already built.", ErrKindValidation)
	}
	b.built = true

	// Built-in scalars come after user types so that a user type can't shadow them silently.
	for _, scalar := range builtinScalars() {
		if _, exists := b.typeMap[scalar.name]; exists {
			b.errorf(`Type "%s" conflicts with the built-in scalar.`, scalar.name)
			continue
		}
		b.typeMap[scalar.name] = scalar
		b.types = append(b.types, scalar)
	}

	schema := &Schema{
		types:         b.types,
		typeMap:       make(map[string]NamedType, len(b.typeMap)+3),
		possibleTypes: map[string][]*ObjectType{},
	}
	for name, t := range b.typeMap {
		schema.typeMap[name] = t
	}

	if len(b.query.list) == 0 {
		b.errorf("Schema must define at least one query.")
	}
	schema.query = b.rootType(schema, QueryTypeName, b.query)
	if len(b.mutation.list) > 0 {
		schema.mutation = b.rootType(schema, MutationTypeName, b.mutation)
	}
	if len(b.subscription.list) > 0 {
		schema.subscription = b.rootType(schema, SubscriptionTypeName, b.subscription)
	}

	for _, t := range b.typeMap {
		if scalar, ok := t.(*ScalarType); ok && !scalar.builtin {
			if scalar.serialize == nil || scalar.parse == nil {
				b.errorf(`Scalar "%s" must provide both Serialize and Parse.`, scalar.name)
			}
		}
	}

	for _, iface := range b.interfaces {
		if iface.resolveType == nil {
			b.errorf(`Interface "%s" has no type resolver.`, iface.name)
		}
	}

	for _, object := range b.objects {
		b.validateImplementations(schema, object)
	}

	for _, pending := range b.pendingFields {
		b.validateField(schema, pending)
	}

	for _, input := range b.inputs {
		for _, field := range input.fields {
			b.validateInputType(schema, fmt.Sprintf("%s.%s", input.name, field.name), field.typ)
		}
	}

	if b.errs.HaveOccurred() {
		return nil, b.errs
	}
	return schema, nil
}

func (b *SchemaBuilder) rootType(schema *Schema, name string, fields fieldMap) *ObjectType {
	if _, exists := schema.typeMap[name]; exists {
		b.errorf(`Type "%s" is reserved for root operations.`, name)
	}
	t := &ObjectType{
		name:   name,
		fields: fields,
	}
	schema.typeMap[name] = t
	return t
}

func (b *SchemaBuilder) validateImplementations(schema *Schema, object *ObjectType) {
	for _, name := range object.interfaces {
		iface := schema.Interface(name)
		if iface == nil {
			b.errorf(`Type "%s" implements "%s" which is not an interface.`, object.name, name)
			continue
		}
		schema.possibleTypes[name] = append(schema.possibleTypes[name], object)

		for _, ifaceField := range iface.fields.list {
			field := object.Field(ifaceField.name)
			if field == nil {
				b.errorf(`Interface field "%s.%s" expected but "%s" does not provide it.`,
					name, ifaceField.name, object.name)
			} else if field.typ.Name() != ifaceField.typ.Name() && schema.Interface(ifaceField.typ.Name()) == nil {
				b.errorf(`Interface field "%s.%s" expects type "%s" but "%s.%s" is type "%s".`,
					name, ifaceField.name, ifaceField.typ, object.name, field.name, field.typ)
			}
		}
	}
}

func (b *SchemaBuilder) validateField(schema *Schema, pending *pendingField) {
	field := pending.field
	coordinate := pending.owner + "." + field.name

	if field.typ == nil {
		b.errorf(`Field "%s" has no type.`, coordinate)
		return
	}

	t := schema.typeMap[field.typ.Name()]
	switch t.(type) {
	case nil:
		b.errorf(`Type "%s" used by "%s" is not registered.`, field.typ.Name(), coordinate)
	case *InputObjectType:
		b.errorf(`The type of "%s" must be an output type but got "%s".`, coordinate, field.typ)
	}

	if !pending.isAbstract {
		if pending.owner == SubscriptionTypeName {
			if field.subscribe == nil {
				b.errorf(`Subscription "%s" has no resolver.`, field.name)
			}
		} else if field.resolver == nil {
			b.errorf(`Field "%s" has no resolver.`, coordinate)
		}
	}

	seen := map[string]bool{}
	for _, arg := range field.args {
		b.checkName(arg.name)
		if seen[arg.name] {
			b.errorf(`Argument "%s(%s:)" is defined more than once.`, coordinate, arg.name)
		}
		seen[arg.name] = true
		b.validateInputType(schema, fmt.Sprintf("%s(%s:)", coordinate, arg.name), arg.typ)
	}
}

func (b *SchemaBuilder) validateInputType(schema *Schema, coordinate string, typ *TypeRef) {
	if typ == nil {
		b.errorf(`"%s" has no type.`, coordinate)
		return
	}
	switch schema.typeMap[typ.Name()].(type) {
	case nil:
		b.errorf(`Type "%s" used by "%s" is not registered.`, typ.Name(), coordinate)
	case *ObjectType, *InterfaceType:
		b.errorf(`The type of "%s" must be an input type but got "%s".`, coordinate, typ)
	}
}
