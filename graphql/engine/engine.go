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

// Package engine runs GraphQL requests against a schema. It adds to the executor what a service
// needs around it: a cache of parsed documents, request ids, logging, tracing and counters.
package engine

import (
	"context"
	"errors"
	"time"

	"github.com/Martmists-GH/multiplatform-everything-sub000/concurrent"
	"github.com/Martmists-GH/multiplatform-everything-sub000/dataloader"
	"github.com/Martmists-GH/multiplatform-everything-sub000/graphql"
	"github.com/Martmists-GH/multiplatform-everything-sub000/graphql/ast"
	"github.com/Martmists-GH/multiplatform-everything-sub000/graphql/executor"
	"github.com/Martmists-GH/multiplatform-everything-sub000/graphql/parser"
	"github.com/Martmists-GH/multiplatform-everything-sub000/internal/reqid"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/atomic"
	"go.uber.org/zap"
)

// Stats is a snapshot of the counters of an Engine.
type Stats struct {
	// Requests is the number of requests received.
	Requests uint64

	// Failures counts requests that failed before execution (syntax errors, missing variables and
	// so on).
	Failures uint64

	// FieldErrors is the number of field errors reported by executed requests.
	FieldErrors uint64

	CacheHits   uint64
	CacheMisses uint64
}

type counters struct {
	requests    atomic.Uint64
	failures    atomic.Uint64
	fieldErrors atomic.Uint64
	cacheHits   atomic.Uint64
	cacheMisses atomic.Uint64
}

// Engine executes requests against a schema. It is safe for concurrent use.
type Engine struct {
	schema   *graphql.Schema
	config   Config
	logger   *zap.Logger
	cache    DocumentCache
	executor concurrent.Executor
	wrapper  executor.Wrapper

	tracerProvider trace.TracerProvider
	tracer         trace.Tracer

	counters counters
}

// Option customizes an Engine.
type Option func(e *Engine)

// WithLogger sets the logger. The default discards everything.
func WithLogger(logger *zap.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

// WithDocumentCache replaces the cache built from Config.DocumentCacheSize.
func WithDocumentCache(cache DocumentCache) Option {
	return func(e *Engine) {
		e.cache = cache
	}
}

// WithTracerProvider sets the provider of the tracer used when tracing is enabled. The default is
// the global provider.
func WithTracerProvider(provider trace.TracerProvider) Option {
	return func(e *Engine) {
		e.tracerProvider = provider
	}
}

// WithExecutor runs field tasks on the given executor instead of one goroutine per task.
func WithExecutor(executor concurrent.Executor) Option {
	return func(e *Engine) {
		e.executor = executor
	}
}

// WithWrapper installs a wrapper called around every field. It runs inside the field span when
// tracing is enabled.
func WithWrapper(wrapper executor.Wrapper) Option {
	return func(e *Engine) {
		e.wrapper = wrapper
	}
}

// New creates an Engine for the schema.
func New(schema *graphql.Schema, config Config, options ...Option) (*Engine, error) {
	if schema == nil {
		return nil, errors.New("engine: schema must not be nil")
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}

	e := &Engine{
		schema: schema,
		config: config,
		logger: zap.NewNop(),
	}
	for _, option := range options {
		option(e)
	}

	if e.cache == nil {
		if config.DocumentCacheSize > 0 {
			cache, err := NewLRUDocumentCache(config.DocumentCacheSize)
			if err != nil {
				return nil, err
			}
			e.cache = cache
		} else {
			e.cache = NopDocumentCache{}
		}
	}

	if config.Tracing {
		if e.tracerProvider == nil {
			e.tracerProvider = otel.GetTracerProvider()
		}
		e.tracer = e.tracerProvider.Tracer(TracerName)
		e.wrapper = fieldTracingWrapper(e.tracer, e.wrapper)
	}

	return e, nil
}

// Schema returns the schema requests run against.
func (e *Engine) Schema() *graphql.Schema {
	return e.schema
}

// Stats returns the current counters.
func (e *Engine) Stats() Stats {
	c := &e.counters
	return Stats{
		Requests:    c.requests.Load(),
		Failures:    c.failures.Load(),
		FieldErrors: c.fieldErrors.Load(),
		CacheHits:   c.cacheHits.Load(),
		CacheMisses: c.cacheMisses.Load(),
	}
}

// parse returns the document for query from the cache or parses it, then applies the depth limit.
// Documents that fail to parse are not cached.
func (e *Engine) parse(query string) (*ast.Document, error) {
	if query == "" {
		// Let the executor report the missing document.
		return nil, nil
	}

	document, ok := e.cache.Get(query)
	if ok {
		e.counters.cacheHits.Inc()
	} else {
		e.counters.cacheMisses.Inc()
		var err error
		if document, err = parser.ParseString(query); err != nil {
			return nil, err
		}
		e.cache.Add(query, document)
	}

	if e.config.MaxDepth > 0 {
		if err := checkDepth(document, e.config.MaxDepth); err != nil {
			return nil, err
		}
	}
	return document, nil
}

// params builds the executor parameters of a request.
func (e *Engine) params(req *Request, document *ast.Document) executor.Params {
	return executor.Params{
		Schema:         e.schema,
		Document:       document,
		OperationName:  req.OperationName,
		Variables:      req.Variables,
		Bag:            requestBag(req.Values),
		Executor:       e.executor,
		Wrapper:        e.wrapper,
		MaxConcurrency: e.config.MaxConcurrency,
	}
}

// requestBag holds values of a request along with a fresh dataloader.Manager so that batched loads
// and their cache are scoped to the request. A Manager given in values takes its place.
func requestBag(values []interface{}) graphql.ContextBag {
	return graphql.NewContextBag(&dataloader.Manager{}).With(values...)
}

// Execute runs a query or a mutation. A request id is attached to ctx unless it carries one.
func (e *Engine) Execute(ctx context.Context, req Request) *executor.ExecutionResult {
	start := time.Now()
	ctx, requestID := reqid.Ensure(ctx)
	e.counters.requests.Inc()

	logger := e.logger.With(
		zap.String("request_id", requestID),
		zap.String("operation_name", req.OperationName),
	)

	var result *executor.ExecutionResult
	document, err := e.parse(req.Query)
	if err != nil {
		result = executor.NewErrorResult(syntaxErrors(err))
	} else {
		var span trace.Span
		if e.tracer != nil {
			ctx, span = startOperationSpan(ctx, e.tracer, requestID, &req, operationType(document, req.OperationName))
		}

		result = executor.Execute(ctx, e.params(&req, document))

		if span != nil {
			endOperationSpan(span, result)
		}
	}

	e.report(logger, result, time.Since(start))
	return result
}

// ExecutePayload runs the request held in a GraphQL-over-HTTP JSON body. values are made available
// to resolvers like Request.Values.
func (e *Engine) ExecutePayload(ctx context.Context, payload []byte, values ...interface{}) *executor.ExecutionResult {
	req, err := ParseRequest(payload)
	if err != nil {
		e.counters.requests.Inc()
		e.counters.failures.Inc()
		e.logger.Warn("invalid request payload", zap.Error(err))
		return executor.NewErrorResult(graphql.ErrorsOf(err.Error(), graphql.ErrKindOther))
	}
	req.Values = values
	return e.Execute(ctx, req)
}

// Subscribe runs a subscription. Every event of the source stream produces one result on the
// returned channel. The channel is closed when the stream ends or ctx is done.
func (e *Engine) Subscribe(ctx context.Context, req Request) (<-chan *executor.ExecutionResult, error) {
	ctx, requestID := reqid.Ensure(ctx)
	e.counters.requests.Inc()

	logger := e.logger.With(
		zap.String("request_id", requestID),
		zap.String("operation_name", req.OperationName),
	)

	document, err := e.parse(req.Query)
	if err != nil {
		errs := syntaxErrors(err)
		e.counters.failures.Inc()
		logger.Warn("subscription failed", zap.Error(errs))
		return nil, errs
	}

	source, err := executor.Subscribe(ctx, e.params(&req, document))
	if err != nil {
		e.counters.failures.Inc()
		logger.Warn("subscription failed", zap.Error(err))
		return nil, err
	}
	logger.Debug("subscription started")

	results := make(chan *executor.ExecutionResult)
	go func() {
		defer close(results)
		defer logger.Debug("subscription ended")
		for result := range source {
			e.reportFieldErrors(logger, result)
			select {
			case results <- result:
			case <-ctx.Done():
				// Drain the source so that its goroutine can exit.
				for range source {
				}
				return
			}
		}
	}()
	return results, nil
}

// report logs the outcome of a request and updates the counters.
func (e *Engine) report(logger *zap.Logger, result *executor.ExecutionResult, duration time.Duration) {
	if !result.HasData() {
		e.counters.failures.Inc()
		logger.Warn("request failed", zap.Error(result.Errors), zap.Duration("duration", duration))
		return
	}

	e.reportFieldErrors(logger, result)
	logger.Debug("request executed",
		zap.Duration("duration", duration),
		zap.Int("errors", len(result.Errors.Errors)),
		zap.Bool("data_null", result.Data == nil),
	)
}

func (e *Engine) reportFieldErrors(logger *zap.Logger, result *executor.ExecutionResult) {
	errs := result.Errors.Errors
	if len(errs) == 0 {
		return
	}
	e.counters.fieldErrors.Add(uint64(len(errs)))
	if !logger.Core().Enabled(zap.DebugLevel) {
		return
	}
	for _, err := range errs {
		logger.Debug("field error",
			zap.String("message", err.Message),
			zap.Stringer("path", err.Path),
		)
	}
}

// syntaxErrors converts a failure to parse or admit a document into the errors of a result.
func syntaxErrors(err error) graphql.Errors {
	var gqlErr *graphql.Error
	if errors.As(err, &gqlErr) {
		return graphql.ErrorsOf(gqlErr)
	}
	return graphql.ErrorsOf(err.Error(), graphql.ErrKindSyntax)
}

// operationType returns the type of the operation that the executor will select, or an empty
// string if there is none.
func operationType(document *ast.Document, operationName string) ast.OperationType {
	if document == nil {
		return ""
	}
	operations := document.Operations()
	if operationName == "" {
		if len(operations) == 1 {
			return operations[0].Operation
		}
		return ""
	}
	for _, operation := range operations {
		if operation.Name.Value == operationName {
			return operation.Operation
		}
	}
	return ""
}
