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
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/Martmists-GH/multiplatform-everything-sub000/concurrent"
	"github.com/Martmists-GH/multiplatform-everything-sub000/graphql"
	"github.com/Martmists-GH/multiplatform-everything-sub000/graphql/ast"
	"github.com/Martmists-GH/multiplatform-everything-sub000/internal/util"
)

// Wrapper wraps the resolution of every field, including nested ones. It must call next exactly
// once; the context passed to next is the one the field is resolved with.
type Wrapper func(ctx context.Context, field *ast.Field, next func(ctx context.Context))

// Params contains the inputs of an execution.
type Params struct {
	// The schema to execute against (required)
	Schema *graphql.Schema

	// The parsed document (required)
	Document *ast.Document

	// Name of the operation to execute; it can be empty if the document contains one operation.
	OperationName string

	// Variable values as decoded from the request
	Variables map[string]interface{}

	// Ambient values for resolvers and access rules
	Bag graphql.ContextBag

	// Executor runs field tasks. A GoroutineExecutor is created for the request if it is nil.
	Executor concurrent.Executor

	// Wrapper is called around the resolution of every field.
	Wrapper Wrapper

	// MaxConcurrency limits the number of resolvers running at once. Zero means no limit.
	MaxConcurrency int
}

// errNullBubble is returned when a non-null position resolved to null. The error that caused it
// has already been recorded so it travels up to the nearest nullable position silently.
var errNullBubble = errors.New("null value in non-null position")

// execution holds the state shared by all field tasks of one operation.
type execution struct {
	schema    *graphql.Schema
	executor  concurrent.Executor
	wrapper   Wrapper
	semaphore chan struct{}

	mutex sync.Mutex
	errs  graphql.Errors
}

// Execute runs a query or a mutation and returns its result. Field errors are reported in the
// result along with the data. A problem with the request itself (no operation to run, missing
// variables) produces a result without data.
func Execute(ctx context.Context, params Params) *ExecutionResult {
	req, operation, errs := prepare(params)
	if errs.HaveOccurred() {
		return NewErrorResult(errs)
	}

	var rootType *graphql.ObjectType
	switch operation.Operation {
	case ast.OperationTypeQuery:
		rootType = params.Schema.QueryType()
	case ast.OperationTypeMutation:
		rootType = params.Schema.MutationType()
	case ast.OperationTypeSubscription:
		return NewErrorResult(graphql.ErrorsOf(
			"Subscriptions must be executed with Subscribe.", req.Location(operation)))
	}
	if rootType == nil {
		return NewErrorResult(graphql.ErrorsOf(
			fmt.Sprintf("Schema is not configured for %ss.", operation.Operation), req.Location(operation)))
	}

	fields, err := collectFields(req, rootType, rootType.Name(), []ast.SelectionSet{operation.SelectionSet})
	if err != nil {
		return NewErrorResult(graphql.ErrorsOf(err))
	}

	e, shutdown := newExecution(params)
	defer shutdown()

	data, err := e.executeFields(ctx, req, rootType, nil, fields, graphql.ResponsePath{})
	if err != nil {
		data = nil
	}

	return &ExecutionResult{
		Data:     data,
		Errors:   e.errs,
		executed: true,
	}
}

// prepare selects the operation and builds the root request context.
func prepare(params Params) (*graphql.RequestContext, *ast.OperationDefinition, graphql.Errors) {
	if params.Schema == nil {
		return nil, nil, graphql.ErrorsOf("Must provide schema.", graphql.ErrKindInternal)
	}

	operation, err := selectOperation(params.Document, params.OperationName)
	if err != nil {
		return nil, nil, graphql.ErrorsOf(err)
	}

	req := graphql.NewRequestContext(params.Schema, params.Document, operation, params.Variables, params.Bag)
	if errs := checkVariables(req, params.Variables); errs.HaveOccurred() {
		return nil, nil, errs
	}
	return req, operation, graphql.NoErrors()
}

// selectOperation finds the operation to execute in document.
func selectOperation(document *ast.Document, operationName string) (*ast.OperationDefinition, error) {
	if document == nil {
		return nil, graphql.NewError("Must provide query string.", graphql.ErrKindExecution)
	}

	operations := document.Operations()
	if operationName == "" {
		switch len(operations) {
		case 0:
			return nil, graphql.NewError("Must provide an operation.", graphql.ErrKindExecution)
		case 1:
			return operations[0], nil
		default:
			return nil, graphql.NewError(
				"Must provide operation name if query contains multiple operations.", graphql.ErrKindExecution)
		}
	}

	for _, operation := range operations {
		if !operation.Name.IsNil() && operation.Name.Value == operationName {
			return operation, nil
		}
	}
	return nil, graphql.NewError(fmt.Sprintf(`Unknown operation named "%s".`, operationName),
		graphql.ErrKindExecution)
}

// newExecution creates the state of an operation. The returned function releases the executor if
// it was created for the request.
func newExecution(params Params) (*execution, func()) {
	e := &execution{
		schema:   params.Schema,
		executor: params.Executor,
		wrapper:  params.Wrapper,
	}
	if params.MaxConcurrency > 0 {
		e.semaphore = make(chan struct{}, params.MaxConcurrency)
	}

	if e.executor != nil {
		return e, func() {}
	}

	executor := concurrent.NewGoroutineExecutor()
	e.executor = executor
	return e, func() {
		executor.Shutdown()
	}
}

// recordError adds a field error to the result. Errors raised by resolvers keep their message and
// extensions; the location and the path always come from the field.
func (e *execution) recordError(req *graphql.RequestContext, err error, field *collectedField, path graphql.ResponsePath) {
	message := err.Error()
	var gqlErr *graphql.Error
	if errors.As(err, &gqlErr) {
		message = gqlErr.Message
	}

	var locations []graphql.ErrorLocation
	if gqlErr != nil && len(gqlErr.Locations) > 0 && gqlErr.Kind == graphql.ErrKindCoercion {
		// Coercion errors point at the offending value.
		locations = gqlErr.Locations
	} else {
		locations = field.locations(req)
	}

	fieldErr := graphql.NewError(message, locations, path, graphql.ErrKindExecution, err)

	e.mutex.Lock()
	e.errs.Append(fieldErr)
	e.mutex.Unlock()
}

// executeFields resolves the fields of an object concurrently and assembles them in selection
// order. It returns errNullBubble if a non-null field resolved to null.
func (e *execution) executeFields(
	ctx context.Context,
	req *graphql.RequestContext,
	objectType *graphql.ObjectType,
	source interface{},
	fields []*collectedField,
	path graphql.ResponsePath) (*ResultObject, error) {

	tasks := make([]concurrent.Task, len(fields))
	for i, field := range fields {
		field := field
		tasks[i] = concurrent.TaskFunc(func() (interface{}, error) {
			return e.executeField(ctx, req, objectType, source, field, path.WithFieldName(field.responseKey))
		})
	}

	results := concurrent.SubmitAll(e.executor, tasks...)

	object := newResultObject(len(fields))
	bubbled := false
	for i, result := range results {
		err := result.Err
		if err != nil && err != errNullBubble {
			// The task itself failed (for example, it could not be submitted).
			field := fields[i]
			fieldPath := path.WithFieldName(field.responseKey)
			e.recordError(req, err, field, fieldPath)
			if definition := objectType.Field(field.name()); definition != nil && definition.Type().IsNonNull() {
				err = errNullBubble
			}
		}
		if err == errNullBubble {
			bubbled = true
		}
		object.set(fields[i].responseKey, result.Value)
	}

	if bubbled {
		return nil, errNullBubble
	}
	return object, nil
}

// executeField resolves one field of an object within the wrapper.
func (e *execution) executeField(
	ctx context.Context,
	req *graphql.RequestContext,
	objectType *graphql.ObjectType,
	source interface{},
	field *collectedField,
	path graphql.ResponsePath) (interface{}, error) {

	if field.name() == "__typename" {
		return objectType.Name(), nil
	}

	definition := objectType.Field(field.name())
	if definition == nil {
		names := make([]string, len(objectType.Fields()))
		for i, f := range objectType.Fields() {
			names[i] = f.Name()
		}
		e.recordError(req, fmt.Errorf(`Cannot query field "%s" on type "%s".%s`,
			field.name(), objectType.Name(), util.DidYouMean(field.name(), names)), field, path)
		return nil, nil
	}

	if e.wrapper == nil {
		return e.resolveField(ctx, req, objectType, definition, source, field, path)
	}

	var (
		value  interface{}
		err    error
		called bool
	)
	e.wrapper(ctx, field.first(), func(ctx context.Context) {
		called = true
		value, err = e.resolveField(ctx, req, objectType, definition, source, field, path)
	})
	if !called {
		return e.fieldFailed(req, definition,
			fmt.Errorf(`Field "%s.%s" was not resolved by the wrapper.`, objectType.Name(), definition.Name()),
			field, path)
	}
	return value, err
}

// fieldFailed records err for the field. The field becomes null, which bubbles up if its type is
// non-null.
func (e *execution) fieldFailed(
	req *graphql.RequestContext,
	definition *graphql.FieldDefinition,
	err error,
	field *collectedField,
	path graphql.ResponsePath) (interface{}, error) {

	e.recordError(req, err, field, path)
	if definition.Type().IsNonNull() {
		return nil, errNullBubble
	}
	return nil, nil
}

// resolveField implements the life cycle of one field: the required contexts and the access rule
// are checked, arguments are bound, the resolver is called and its value is completed against the
// declared type.
func (e *execution) resolveField(
	ctx context.Context,
	parentReq *graphql.RequestContext,
	objectType *graphql.ObjectType,
	definition *graphql.FieldDefinition,
	source interface{},
	field *collectedField,
	path graphql.ResponsePath) (interface{}, error) {

	if err := ctx.Err(); err != nil {
		return e.fieldFailed(parentReq, definition, err, field, path)
	}

	req := parentReq.ForField(field.first())

	for _, t := range definition.NeededContexts() {
		if _, ok := req.Bag().Lookup(t); !ok {
			return e.fieldFailed(req, definition, fmt.Errorf(
				`Field "%s.%s" requires a context value of type %s.`, objectType.Name(), definition.Name(), t),
				field, path)
		}
	}

	if !definition.AccessRule()(source, req) {
		return e.fieldFailed(req, definition, errAccessDenied, field, path)
	}

	if errs := bindArguments(req, definition, objectType.Name()); errs.HaveOccurred() {
		for _, err := range errs.Errors {
			e.recordError(req, err, field, path)
		}
		if definition.Type().IsNonNull() {
			return nil, errNullBubble
		}
		return nil, nil
	}

	value, err := e.callResolver(ctx, definition.Resolver(), source, req)
	if err != nil {
		return e.fieldFailed(req, definition, err, field, path)
	}

	return e.completeValueCatchingError(ctx, req, objectType, definition, definition.Type(), field, value, path)
}

// errAccessDenied is reported when the access rule of a field rejects the request.
var errAccessDenied = graphql.NewError("You don't have permission to access this.", graphql.ErrKindExecution)

// callResolver invokes a resolver, holding a slot of the concurrency limit while it runs. A panic
// in the resolver becomes its error.
func (e *execution) callResolver(
	ctx context.Context,
	resolver graphql.Resolver,
	source interface{},
	req *graphql.RequestContext) (value graphql.ResolvedValue, err error) {

	if e.semaphore != nil {
		select {
		case e.semaphore <- struct{}{}:
			defer func() { <-e.semaphore }()
		case <-ctx.Done():
			return graphql.Null(), ctx.Err()
		}
	}

	defer func() {
		if r := recover(); r != nil {
			value, err = graphql.Null(), fmt.Errorf("resolver panicked: %v", r)
		}
	}()

	return resolver(ctx, source, req)
}

// completeValueCatchingError completes a value at a position that can absorb an error: a field or
// an item of a list. A new error is recorded with the path of the position. The position becomes
// null, and the null bubbles up if the type of the position is non-null.
func (e *execution) completeValueCatchingError(
	ctx context.Context,
	req *graphql.RequestContext,
	parentType *graphql.ObjectType,
	definition *graphql.FieldDefinition,
	returnType *graphql.TypeRef,
	field *collectedField,
	value graphql.ResolvedValue,
	path graphql.ResponsePath) (interface{}, error) {

	completed, err := e.completeValue(ctx, req, parentType, definition, returnType, field, value, path)
	if err == nil {
		return completed, nil
	}
	if err != errNullBubble {
		e.recordError(req, err, field, path)
	}
	if returnType.IsNonNull() {
		return nil, errNullBubble
	}
	return nil, nil
}

// completeValue implements "Value Completion". It ensures the value resolved from the field
// resolver adheres to the expected return type.
//
// Reference: https://spec.graphql.org/June2018/#sec-Value-Completion
func (e *execution) completeValue(
	ctx context.Context,
	req *graphql.RequestContext,
	parentType *graphql.ObjectType,
	definition *graphql.FieldDefinition,
	returnType *graphql.TypeRef,
	field *collectedField,
	value graphql.ResolvedValue,
	path graphql.ResponsePath) (interface{}, error) {

	if returnType.IsNonNull() {
		completed, err := e.completeValue(ctx, req, parentType, definition, returnType.Nullable(), field, value, path)
		if err != nil {
			return nil, err
		}
		if completed == nil {
			return nil, fmt.Errorf("Cannot return null for non-nullable field %s.%s.",
				parentType.Name(), definition.Name())
		}
		return completed, nil
	}

	if value.IsNull() {
		return nil, nil
	}

	if returnType.IsList() {
		return e.completeListValue(ctx, req, parentType, definition, returnType, field, value, path)
	}

	switch namedType := e.schema.TypeNamed(returnType.Name()).(type) {
	case *graphql.ScalarType:
		return completeScalarValue(namedType, value)

	case *graphql.EnumType:
		return completeEnumValue(namedType, value)

	case *graphql.ObjectType:
		return e.completeObjectValue(ctx, req, namedType, namedType.Name(), field, value, path)

	case *graphql.InterfaceType:
		objectType, err := e.resolveRuntimeType(namedType, value)
		if err != nil {
			return nil, err
		}
		return e.completeObjectValue(ctx, req, objectType, namedType.Name(), field, value, path)
	}

	return nil, graphql.NewError(fmt.Sprintf(`Cannot complete value of unknown type "%s".`, returnType),
		graphql.ErrKindInternal)
}

// completeListValue completes every item with the item type. Items are completed concurrently and
// collected in order.
func (e *execution) completeListValue(
	ctx context.Context,
	req *graphql.RequestContext,
	parentType *graphql.ObjectType,
	definition *graphql.FieldDefinition,
	returnType *graphql.TypeRef,
	field *collectedField,
	value graphql.ResolvedValue,
	path graphql.ResponsePath) (interface{}, error) {

	if value.Kind() != graphql.KindList {
		return nil, fmt.Errorf(`Expected a list for field "%s.%s" but got %s.`,
			parentType.Name(), definition.Name(), value.Kind())
	}

	var (
		itemType = returnType.ItemType()
		items    = value.Items()
		tasks    = make([]concurrent.Task, len(items))
	)
	for i, item := range items {
		i, item := i, item
		tasks[i] = concurrent.TaskFunc(func() (interface{}, error) {
			return e.completeValueCatchingError(ctx, req, parentType, definition, itemType, field, item, path.WithIndex(i))
		})
	}

	completed := make([]interface{}, len(items))
	for i, result := range concurrent.SubmitAll(e.executor, tasks...) {
		if result.Err == errNullBubble {
			return nil, errNullBubble
		} else if result.Err != nil {
			return nil, result.Err
		}
		completed[i] = result.Value
	}
	return completed, nil
}

func completeScalarValue(scalar *graphql.ScalarType, value graphql.ResolvedValue) (interface{}, error) {
	serialized, err := scalar.Serialize(value)
	if err != nil {
		return nil, graphql.NewError(err.Error(), graphql.ErrKindCoercion)
	}
	return outputValue(serialized), nil
}

func completeEnumValue(enum *graphql.EnumType, value graphql.ResolvedValue) (interface{}, error) {
	switch value.Kind() {
	case graphql.KindEnum, graphql.KindString:
		if member, ok := enum.Member(value.StringValue()); ok {
			return member.Name, nil
		}
	case graphql.KindScalar:
		if member, ok := value.Source().(graphql.EnumMember); ok && member.Enum == enum.Name() {
			return member.Name, nil
		}
	}
	return nil, graphql.NewError(
		fmt.Sprintf(`Enum "%s" cannot represent value: %s`, enum.Name(), value), graphql.ErrKindCoercion)
}

// outputValue converts a serialized leaf value into the value stored in the result.
func outputValue(value graphql.ResolvedValue) interface{} {
	switch value.Kind() {
	case graphql.KindBoolean:
		return value.BoolValue()
	case graphql.KindInt:
		return value.IntValue()
	case graphql.KindFloat:
		return value.FloatValue()
	case graphql.KindString, graphql.KindEnum:
		return value.StringValue()
	case graphql.KindList:
		items := value.Items()
		result := make([]interface{}, len(items))
		for i, item := range items {
			result[i] = outputValue(item)
		}
		return result
	case graphql.KindScalar, graphql.KindObject:
		return value.Source()
	}
	return nil
}

// resolveRuntimeType determines the concrete object type of a value of an interface type. The
// type name carried by the value wins over the type resolver of the interface.
func (e *execution) resolveRuntimeType(iface *graphql.InterfaceType, value graphql.ResolvedValue) (*graphql.ObjectType, error) {
	typeName := value.TypeName()
	if typeName == "" {
		typeName = iface.ResolveType(value.Source())
	}

	objectType := e.schema.Type(typeName)
	if objectType == nil || !e.schema.IsPossibleType(iface.Name(), objectType) {
		return nil, graphql.NewError(
			fmt.Sprintf(`Runtime Object type "%s" is not a possible type for "%s".`, typeName, iface.Name()),
			graphql.ErrKindExecution)
	}
	return objectType, nil
}

// completeObjectValue executes the merged sub-selections of the field on the object.
func (e *execution) completeObjectValue(
	ctx context.Context,
	req *graphql.RequestContext,
	objectType *graphql.ObjectType,
	declaredType string,
	field *collectedField,
	value graphql.ResolvedValue,
	path graphql.ResponsePath) (interface{}, error) {

	if value.Kind() != graphql.KindObject {
		return nil, fmt.Errorf(`Expected an object of type "%s" but got %s.`, objectType.Name(), value.Kind())
	}
	if typeName := value.TypeName(); typeName != "" && typeName != objectType.Name() {
		return nil, fmt.Errorf(`Expected an object of type "%s" but got one of type "%s".`,
			objectType.Name(), typeName)
	}

	subFields, err := collectFields(req, objectType, declaredType, field.subSelections())
	if err != nil {
		return nil, err
	}

	object, err := e.executeFields(ctx, req, objectType, value.Source(), subFields, path)
	if err != nil {
		return nil, err
	}
	return object, nil
}
