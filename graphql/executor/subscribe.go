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
	"fmt"

	"github.com/Martmists-GH/multiplatform-everything-sub000/graphql"
	"github.com/Martmists-GH/multiplatform-everything-sub000/graphql/ast"
)

// Subscribe creates the source stream of a subscription and maps every event to the result of
// executing the subscription field's selection set with the event as source. The returned channel
// is closed when the source stream ends or ctx is done.
//
// Errors that prevent the creation of the source stream are returned as graphql.Errors.
func Subscribe(ctx context.Context, params Params) (<-chan *ExecutionResult, error) {
	req, operation, errs := prepare(params)
	if errs.HaveOccurred() {
		return nil, errs
	}

	if operation.Operation != ast.OperationTypeSubscription {
		return nil, graphql.ErrorsOf(
			fmt.Sprintf("Expected a subscription operation but got a %s.", operation.Operation),
			req.Location(operation), graphql.ErrKindExecution)
	}

	rootType := params.Schema.SubscriptionType()
	if rootType == nil {
		return nil, graphql.ErrorsOf("Schema is not configured for subscriptions.",
			req.Location(operation), graphql.ErrKindExecution)
	}

	fields, err := collectFields(req, rootType, rootType.Name(), []ast.SelectionSet{operation.SelectionSet})
	if err != nil {
		return nil, graphql.ErrorsOf(err)
	}
	if len(fields) != 1 {
		message := "Anonymous Subscription must select only one top level field."
		if !operation.Name.IsNil() {
			message = fmt.Sprintf(`Subscription "%s" must select only one top level field.`, operation.Name.Value)
		}
		return nil, graphql.ErrorsOf(message, req.Location(operation), graphql.ErrKindExecution)
	}

	stream, err := createSourceEventStream(ctx, req, rootType, fields[0])
	if err != nil {
		return nil, err
	}

	results := make(chan *ExecutionResult)
	go func() {
		defer close(results)

		e, shutdown := newExecution(params)
		defer shutdown()

		for {
			var (
				event graphql.ResolvedValue
				ok    bool
			)
			select {
			case event, ok = <-stream:
				if !ok {
					return
				}
			case <-ctx.Done():
				return
			}

			result := e.executeEvent(ctx, req, rootType, fields, event)
			select {
			case results <- result:
			case <-ctx.Done():
				return
			}
		}
	}()

	return results, nil
}

// createSourceEventStream runs the checks of the subscription field and calls its subscribe
// function.
func createSourceEventStream(
	ctx context.Context,
	rootReq *graphql.RequestContext,
	rootType *graphql.ObjectType,
	field *collectedField) (<-chan graphql.ResolvedValue, error) {

	fail := func(message string) error {
		return graphql.ErrorsOf(message, field.locations(rootReq), graphql.ResponsePath{}.WithFieldName(field.responseKey),
			graphql.ErrKindExecution)
	}

	definition := rootType.Field(field.name())
	if definition == nil || definition.Subscribe() == nil {
		return nil, fail(fmt.Sprintf(`Cannot query field "%s" on type "%s".`, field.name(), rootType.Name()))
	}

	req := rootReq.ForField(field.first())
	for _, t := range definition.NeededContexts() {
		if _, ok := req.Bag().Lookup(t); !ok {
			return nil, fail(fmt.Sprintf(`Field "%s.%s" requires a context value of type %s.`,
				rootType.Name(), definition.Name(), t))
		}
	}

	if !definition.AccessRule()(nil, req) {
		return nil, fail(errAccessDenied.Error())
	}

	if errs := bindArguments(req, definition, rootType.Name()); errs.HaveOccurred() {
		return nil, errs
	}

	stream, err := definition.Subscribe()(ctx, req)
	if err != nil {
		return nil, fail(err.Error())
	}
	return stream, nil
}

// executeEvent executes the subscription field for one event. Each event has its own error list.
func (e *execution) executeEvent(
	ctx context.Context,
	req *graphql.RequestContext,
	rootType *graphql.ObjectType,
	fields []*collectedField,
	event graphql.ResolvedValue) *ExecutionResult {

	eventExecution := &execution{
		schema:    e.schema,
		executor:  e.executor,
		wrapper:   e.wrapper,
		semaphore: e.semaphore,
	}

	data, err := eventExecution.executeFields(ctx, req, rootType, event, fields, graphql.ResponsePath{})
	if err != nil {
		data = nil
	}
	return &ExecutionResult{
		Data:     data,
		Errors:   eventExecution.errs,
		executed: true,
	}
}
