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

package engine

import (
	"context"

	"github.com/Martmists-GH/multiplatform-everything-sub000/graphql/ast"
	"github.com/Martmists-GH/multiplatform-everything-sub000/graphql/executor"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// TracerName names the tracer that records engine spans.
const TracerName = "github.com/Martmists-GH/multiplatform-everything-sub000/graphql/engine"

// Span names.
const (
	OperationSpanName = "graphql.operation"
	FieldSpanName     = "graphql.field"
)

// startOperationSpan starts the span covering a whole request.
func startOperationSpan(
	ctx context.Context,
	tracer trace.Tracer,
	requestID string,
	req *Request,
	operationType ast.OperationType) (context.Context, trace.Span) {

	return tracer.Start(ctx, OperationSpanName, trace.WithAttributes(
		attribute.String("graphql.request.id", requestID),
		attribute.String("graphql.operation.name", req.OperationName),
		attribute.String("graphql.operation.type", string(operationType)),
	))
}

// endOperationSpan records the outcome of the request on its span.
func endOperationSpan(span trace.Span, result *executor.ExecutionResult) {
	span.SetAttributes(attribute.Int("graphql.error_count", len(result.Errors.Errors)))
	if !result.HasData() {
		span.SetStatus(codes.Error, result.Errors.Error())
	}
	span.End()
}

// fieldTracingWrapper starts one span per resolved field. Field spans are children of the span of
// their parent field.
func fieldTracingWrapper(tracer trace.Tracer, next executor.Wrapper) executor.Wrapper {
	return func(ctx context.Context, field *ast.Field, resolve func(context.Context)) {
		attributes := []attribute.KeyValue{
			attribute.String("graphql.field.name", field.Name.Value),
		}
		if !field.Alias.IsNil() {
			attributes = append(attributes, attribute.String("graphql.field.alias", field.Alias.Value))
		}

		ctx, span := tracer.Start(ctx, FieldSpanName, trace.WithAttributes(attributes...))
		defer span.End()

		if next != nil {
			next(ctx, field, resolve)
			return
		}
		resolve(ctx)
	}
}
