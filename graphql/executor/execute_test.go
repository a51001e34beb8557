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

package executor_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/Martmists-GH/multiplatform-everything-sub000/concurrent"
	"github.com/Martmists-GH/multiplatform-everything-sub000/graphql"
	"github.com/Martmists-GH/multiplatform-everything-sub000/graphql/ast"
	"github.com/Martmists-GH/multiplatform-everything-sub000/graphql/executor"
	"github.com/Martmists-GH/multiplatform-everything-sub000/graphql/parser"
	"github.com/Martmists-GH/multiplatform-everything-sub000/internal/testutil"
	"go.uber.org/atomic"

	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"
)

type item struct {
	name string
}

type session struct {
	user string
}

func resolveConst(value graphql.ResolvedValue) graphql.OperationResolver {
	return func(context.Context, *graphql.RequestContext) (graphql.ResolvedValue, error) {
		return value, nil
	}
}

func resolveDelayed(delay time.Duration, value string) graphql.OperationResolver {
	return func(ctx context.Context, _ *graphql.RequestContext) (graphql.ResolvedValue, error) {
		select {
		case <-time.After(delay):
			return graphql.String(value), nil
		case <-ctx.Done():
			return graphql.Null(), ctx.Err()
		}
	}
}

// newItemSchemaBuilder returns a builder with an Item type whose "broken" field always fails.
func newItemSchemaBuilder() *graphql.SchemaBuilder {
	b := graphql.NewSchemaBuilder()
	itemType := b.Type("Item")
	itemType.Field("name", graphql.NonNull(graphql.Named("String"))).
		Resolver(graphql.ResolveWith(func(i *item) graphql.ResolvedValue {
			return graphql.String(i.name)
		}))
	itemType.Field("broken", graphql.NonNull(graphql.Named("String"))).
		Resolver(func(context.Context, interface{}, *graphql.RequestContext) (graphql.ResolvedValue, error) {
			return graphql.Null(), errors.New("broken on purpose")
		})
	itemType.Field("missing", graphql.NonNull(graphql.Named("String"))).
		Resolver(graphql.ResolveWith(func(*item) graphql.ResolvedValue {
			return graphql.Null()
		}))
	return b
}

var _ = Describe("Execute", func() {
	It("keeps selection order regardless of completion order", func() {
		b := graphql.NewSchemaBuilder()
		b.Query("slow", graphql.Named("String")).Resolver(resolveDelayed(40*time.Millisecond, "slow"))
		b.Query("fast", graphql.Named("String")).Resolver(resolveDelayed(0, "fast"))
		b.Query("medium", graphql.Named("String")).Resolver(resolveDelayed(20*time.Millisecond, "medium"))
		schema := b.MustBuild()

		result := execute(schema, `{ slow fast medium again: fast }`)
		Expect(result.Data.Keys()).Should(Equal([]string{"slow", "fast", "medium", "again"}))
		Expect(result.MarshalJSON()).Should(Equal(
			[]byte(`{"data":{"slow":"slow","fast":"fast","medium":"medium","again":"fast"}}`)))
	})

	It("resolves sibling fields concurrently", func() {
		var (
			running    atomic.Int32
			maxRunning atomic.Int32
		)
		track := func(context.Context, *graphql.RequestContext) (graphql.ResolvedValue, error) {
			n := running.Inc()
			for {
				max := maxRunning.Load()
				if n <= max || maxRunning.CAS(max, n) {
					break
				}
			}
			time.Sleep(20 * time.Millisecond)
			running.Dec()
			return graphql.Int(int64(n)), nil
		}

		b := graphql.NewSchemaBuilder()
		for i := 0; i < 4; i++ {
			b.Query(fmt.Sprintf("f%d", i), graphql.Named("Int")).Resolver(track)
		}
		schema := b.MustBuild()

		result := execute(schema, `{ f0 f1 f2 f3 }`)
		Expect(result.Errors.HaveOccurred()).Should(BeFalse())
		Expect(maxRunning.Load()).Should(BeNumerically(">", 1))

		maxRunning.Store(0)
		result = execute(schema, `{ f0 f1 f2 f3 }`, func(params *executor.Params) {
			params.MaxConcurrency = 1
		})
		Expect(result.Errors.HaveOccurred()).Should(BeFalse())
		Expect(maxRunning.Load()).Should(Equal(int32(1)))
	})

	It("runs on a caller supplied executor", func() {
		b := graphql.NewSchemaBuilder()
		b.Query("a", graphql.Named("String")).Resolver(resolveConst(graphql.String("A")))
		b.Query("b", graphql.Named("String")).Resolver(resolveConst(graphql.String("B")))
		schema := b.MustBuild()

		result := execute(schema, `{ b a }`, func(params *executor.Params) {
			params.Executor = &concurrent.InlineExecutor{}
		})
		Expect(result).Should(MatchResultInJSON(`{"data": {"b": "B", "a": "A"}}`))
	})

	It("executes mutations", func() {
		var counter atomic.Int64
		b := graphql.NewSchemaBuilder()
		b.Query("counter", graphql.NonNull(graphql.Named("Long"))).
			Resolver(func(context.Context, *graphql.RequestContext) (graphql.ResolvedValue, error) {
				return graphql.Int(counter.Load()), nil
			})
		b.Mutation("increment", graphql.NonNull(graphql.Named("Long"))).
			Argument("by", graphql.Named("Long")).
			Resolver(func(_ context.Context, req *graphql.RequestContext) (graphql.ResolvedValue, error) {
				by, ok := graphql.ArgumentAs[int64](req, "by")
				if !ok {
					by = 1
				}
				return graphql.Int(counter.Add(by)), nil
			})
		schema := b.MustBuild()

		Expect(execute(schema, `mutation { increment(by: 41) }`)).Should(
			MatchResultInJSON(`{"data": {"increment": 41}}`))
		Expect(execute(schema, `mutation { increment }`)).Should(
			MatchResultInJSON(`{"data": {"increment": 42}}`))
		Expect(execute(schema, `{ counter }`)).Should(MatchResultInJSON(`{"data": {"counter": 42}}`))
	})

	Describe("null propagation", func() {
		var schema *graphql.Schema

		BeforeEach(func() {
			b := newItemSchemaBuilder()
			b.Query("item", graphql.Named("Item")).
				Resolver(resolveConst(graphql.Object(&item{"first"})))
			b.Query("requiredItem", graphql.NonNull(graphql.Named("Item"))).
				Resolver(resolveConst(graphql.Object(&item{"required"})))
			b.Query("items", graphql.ListOf(graphql.NonNull(graphql.Named("Item")))).
				Resolver(resolveConst(graphql.List(graphql.Object(&item{"a"}), graphql.Object(&item{"b"}))))
			b.Query("nullableItems", graphql.ListOf(graphql.Named("Item"))).
				Resolver(resolveConst(graphql.List(graphql.Object(&item{"a"}), graphql.Object(&item{"b"}))))
			b.Query("ok", graphql.Named("String")).Resolver(resolveConst(graphql.String("ok")))
			schema = b.MustBuild()
		})

		It("nullifies the nearest nullable field", func() {
			result := execute(schema, `{ item { name broken } ok }`)
			Expect(result).Should(MatchResultInJSON(`{
				"errors": [{
					"message": "broken on purpose",
					"locations": [{"line": 1, "column": 15}],
					"path": ["item", "broken"]
				}],
				"data": {"item": null, "ok": "ok"}
			}`))
		})

		It("nullifies the whole data when every ancestor is non-null", func() {
			result := execute(schema, `{ ok requiredItem { broken } }`)
			Expect(result.HasData()).Should(BeTrue())
			Expect(result).Should(MatchResultInJSON(`{
				"errors": [{
					"message": "broken on purpose",
					"locations": [{"line": 1, "column": 21}],
					"path": ["requiredItem", "broken"]
				}],
				"data": null
			}`))
		})

		It("nullifies a list with a failed non-null item and reports each error once", func() {
			result := execute(schema, `{ items { broken } nullableItems { missing } }`)
			Expect(result.Errors).Should(testutil.ConsistOfGraphQLErrors(
				testutil.MatchGraphQLError(
					testutil.MessageEqual("broken on purpose"),
					testutil.PathEqual("items", 0, "broken"),
				),
				testutil.MatchGraphQLError(
					testutil.MessageEqual("broken on purpose"),
					testutil.PathEqual("items", 1, "broken"),
				),
				testutil.MatchGraphQLError(
					testutil.MessageEqual("Cannot return null for non-nullable field Item.missing."),
					testutil.PathEqual("nullableItems", 0, "missing"),
				),
				testutil.MatchGraphQLError(
					testutil.MessageEqual("Cannot return null for non-nullable field Item.missing."),
					testutil.PathEqual("nullableItems", 1, "missing"),
				),
			))
			Expect(result.Data.MarshalJSON()).Should(MatchJSON(`{"items": null, "nullableItems": [null, null]}`))
		})

		It("turns a panic into a field error", func() {
			b := graphql.NewSchemaBuilder()
			b.Query("explode", graphql.Named("String")).
				Resolver(func(context.Context, *graphql.RequestContext) (graphql.ResolvedValue, error) {
					panic("boom")
				})
			result := execute(b.MustBuild(), `{ explode }`)
			Expect(result).Should(MatchResultInJSON(`{
				"errors": [{
					"message": "resolver panicked: boom",
					"locations": [{"line": 1, "column": 3}],
					"path": ["explode"]
				}],
				"data": {"explode": null}
			}`))
		})

		It("keeps the message and extensions of a graphql.Error", func() {
			b := graphql.NewSchemaBuilder()
			b.Query("fail", graphql.Named("String")).
				Resolver(func(context.Context, *graphql.RequestContext) (graphql.ResolvedValue, error) {
					return graphql.Null(), graphql.NewError("not found", graphql.ErrorExtensions{"code": "NOT_FOUND"})
				})
			result := execute(b.MustBuild(), `{ fail }`)
			Expect(result).Should(MatchResultInJSON(`{
				"errors": [{
					"message": "not found",
					"locations": [{"line": 1, "column": 3}],
					"path": ["fail"],
					"extensions": {"code": "NOT_FOUND"}
				}],
				"data": {"fail": null}
			}`))
		})
	})

	Describe("value completion", func() {
		It("serializes leaf values through their scalar", func() {
			b := graphql.NewSchemaBuilder()
			b.Query("int", graphql.Named("Int")).Resolver(resolveConst(graphql.Float(3)))
			b.Query("float", graphql.Named("Float")).Resolver(resolveConst(graphql.Int(2)))
			b.Query("string", graphql.Named("String")).Resolver(resolveConst(graphql.Bool(true)))
			b.Query("id", graphql.Named("ID")).Resolver(resolveConst(graphql.Int(7)))
			b.Query("tooBig", graphql.Named("Int")).Resolver(resolveConst(graphql.Int(1 << 40)))
			b.Query("list", graphql.ListOf(graphql.Named("Boolean"))).
				Resolver(resolveConst(graphql.List(graphql.Bool(true), graphql.Null(), graphql.Bool(false))))
			result := execute(b.MustBuild(), `{ int float string id tooBig list }`)
			Expect(result.Data.MarshalJSON()).Should(MatchJSON(`{
				"int": 3, "float": 2, "string": "true", "id": "7", "tooBig": null, "list": [true, null, false]
			}`))
			Expect(result.Errors).Should(testutil.ConsistOfGraphQLErrors(
				testutil.MatchGraphQLError(
					testutil.MessageEqual("Int cannot represent value out of range: 1099511627776"),
					testutil.PathEqual("tooBig"),
				),
			))
		})

		It("rejects a value that is not a member of the enum", func() {
			b := graphql.NewSchemaBuilder()
			b.Enum("Color", "RED", "GREEN")
			b.Query("color", graphql.Named("Color")).Resolver(resolveConst(graphql.Enum("BLUE")))
			b.Query("favorite", graphql.Named("Color")).Resolver(resolveConst(graphql.String("GREEN")))
			result := execute(b.MustBuild(), `{ color favorite }`)
			Expect(result.Data.MarshalJSON()).Should(MatchJSON(`{"color": null, "favorite": "GREEN"}`))
			Expect(result.Errors).Should(testutil.ConsistOfGraphQLErrors(
				testutil.MatchGraphQLError(
					testutil.MessageEqual(`Enum "Color" cannot represent value: BLUE`),
					testutil.PathEqual("color"),
				),
			))
		})

		It("reports a value of the wrong shape", func() {
			b := newItemSchemaBuilder()
			b.Query("notAList", graphql.ListOf(graphql.Named("String"))).
				Resolver(resolveConst(graphql.String("x")))
			b.Query("notAnObject", graphql.Named("Item")).Resolver(resolveConst(graphql.Int(1)))
			b.Query("wrongType", graphql.Named("Item")).
				Resolver(resolveConst(graphql.ObjectOf("Other", &item{"x"})))
			result := execute(b.MustBuild(), `{ notAList notAnObject { name } wrongType { name } }`)
			Expect(result.Data.MarshalJSON()).Should(MatchJSON(
				`{"notAList": null, "notAnObject": null, "wrongType": null}`))
			Expect(result.Errors).Should(testutil.ConsistOfGraphQLErrors(
				testutil.MatchGraphQLError(
					testutil.MessageEqual(`Expected a list for field "Query.notAList" but got String.`)),
				testutil.MatchGraphQLError(
					testutil.MessageEqual(`Expected an object of type "Item" but got Int.`)),
				testutil.MatchGraphQLError(
					testutil.MessageEqual(`Expected an object of type "Item" but got one of type "Other".`)),
			))
		})

		It("resolves the runtime type of an interface", func() {
			b := graphql.NewSchemaBuilder()
			b.Interface("Named").
				ResolveType(func(interface{}) string { return "Ghost" }).
				Field("name", graphql.Named("String"))
			b.Type("Person").Implements("Named").
				Field("name", graphql.Named("String")).
				Resolver(graphql.ResolveWith(func(i *item) graphql.ResolvedValue {
					return graphql.String(i.name)
				}))
			b.Query("tagged", graphql.Named("Named")).
				Resolver(resolveConst(graphql.ObjectOf("Person", &item{"tagged"})))
			b.Query("untagged", graphql.Named("Named")).
				Resolver(resolveConst(graphql.Object(&item{"untagged"})))
			result := execute(b.MustBuild(), `{ tagged { __typename name } untagged { name } }`)
			Expect(result.Data.MarshalJSON()).Should(MatchJSON(
				`{"tagged": {"__typename": "Person", "name": "tagged"}, "untagged": null}`))
			Expect(result.Errors).Should(testutil.ConsistOfGraphQLErrors(
				testutil.MatchGraphQLError(
					testutil.MessageEqual(`Runtime Object type "Ghost" is not a possible type for "Named".`),
					testutil.PathEqual("untagged"),
				),
			))
		})

		It("answers __typename on the root type", func() {
			b := graphql.NewSchemaBuilder()
			b.Query("ok", graphql.Named("String")).Resolver(resolveConst(graphql.String("ok")))
			Expect(execute(b.MustBuild(), `{ __typename ok }`)).Should(
				MatchResultInJSON(`{"data": {"__typename": "Query", "ok": "ok"}}`))
		})
	})

	Describe("arguments", func() {
		var schema *graphql.Schema

		BeforeEach(func() {
			b := graphql.NewSchemaBuilder()
			b.Enum("Order", "ASC", "DESC")
			b.InputType("Filter").
				Field("prefix", graphql.NonNull(graphql.Named("String"))).
				Field("order", graphql.Named("Order")).
				Field("limit", graphql.Named("Int"))
			b.Query("search", graphql.Named("String")).
				Argument("filter", graphql.NonNull(graphql.Named("Filter"))).
				Argument("tags", graphql.ListOf(graphql.NonNull(graphql.Named("String")))).
				Resolver(func(_ context.Context, req *graphql.RequestContext) (graphql.ResolvedValue, error) {
					filter, _ := graphql.ArgumentAs[map[string]interface{}](req, "filter")
					tags, _ := graphql.ArgumentAs[[]interface{}](req, "tags")
					return graphql.String(fmt.Sprintf("%v %v %v %v", filter["prefix"], filter["order"], filter["limit"], tags)), nil
				})
			b.Query("sorted", graphql.Named("String")).
				Argument("by", graphql.ListOf(graphql.Named("Order"))).
				Resolver(func(_ context.Context, req *graphql.RequestContext) (graphql.ResolvedValue, error) {
					by, _ := graphql.ArgumentAs[[]interface{}](req, "by")
					return graphql.String(fmt.Sprintf("%v", by)), nil
				})
			schema = b.MustBuild()
		})

		It("coerces input objects and lists", func() {
			result := execute(schema, `{ search(filter: {prefix: "a", order: DESC, limit: 3}, tags: ["x", "y"]) }`)
			Expect(result).Should(MatchResultInJSON(`{"data": {"search": "a DESC 3 [x y]"}}`))
		})

		It("accepts a single item for a list", func() {
			result := execute(schema, `{ search(filter: {prefix: "a"}, tags: "x") }`)
			Expect(result).Should(MatchResultInJSON(`{"data": {"search": "a <nil> <nil> [x]"}}`))
		})

		It("coerces input objects given in variables", func() {
			result := execute(schema, `query($f: Filter!) { search(filter: $f) }`,
				withVariables(map[string]interface{}{
					"f": map[string]interface{}{"prefix": "b", "order": "ASC", "limit": float64(5)},
				}))
			Expect(result).Should(MatchResultInJSON(`{"data": {"search": "b ASC 5 []"}}`))
		})

		It("coerces a single enum given in variables for a list of enums", func() {
			literal := execute(schema, `{ sorted(by: DESC) }`)
			Expect(literal).Should(MatchResultInJSON(`{"data": {"sorted": "[DESC]"}}`))

			result := execute(schema, `query($by: [Order]) { sorted(by: $by) }`,
				withVariables(map[string]interface{}{"by": "DESC"}))
			Expect(result).Should(MatchResultInJSON(`{"data": {"sorted": "[DESC]"}}`))

			result = execute(schema, `query($by: [Order]) { sorted(by: $by) }`,
				withVariables(map[string]interface{}{"by": []interface{}{"ASC", "DESC"}}))
			Expect(result).Should(MatchResultInJSON(`{"data": {"sorted": "[ASC DESC]"}}`))
		})

		It("reports a missing required input field", func() {
			result := execute(schema, `{ search(filter: {order: ASC}) }`)
			Expect(result.Errors).Should(testutil.ConsistOfGraphQLErrors(
				testutil.MatchGraphQLError(
					testutil.MessageEqual(`Expected type Filter!, found {order: ASC}; `+
						`Field "Filter.prefix" of required type "String!" was not provided.`),
					testutil.LocationEqual(graphql.ErrorLocation{Line: 1, Column: 18}),
				),
			))
		})

		It("reports an undefined input field", func() {
			result := execute(schema, `{ search(filter: {prefix: "a", size: 1}) }`)
			Expect(result.Errors).Should(testutil.ConsistOfGraphQLErrors(
				testutil.MatchGraphQLError(
					testutil.MessageEqual(`Field "size" is not defined by type "Filter".`),
				),
			))
		})

		It("reports a null item in a list of non-null items", func() {
			result := execute(schema, `{ search(filter: {prefix: "a"}, tags: ["x", null]) }`)
			Expect(result.Errors).Should(testutil.ConsistOfGraphQLErrors(
				testutil.MatchGraphQLError(
					testutil.MessageEqual(`Expected type [String!], found ["x", null].`),
				),
			))
		})
	})

	Describe("context values", func() {
		var schema *graphql.Schema

		BeforeEach(func() {
			b := graphql.NewSchemaBuilder()
			b.Query("me", graphql.Named("String")).
				NeedsContext(graphql.TypeOf[*session]()).
				Resolver(func(_ context.Context, req *graphql.RequestContext) (graphql.ResolvedValue, error) {
					s, _ := graphql.ContextValue[*session](req)
					return graphql.String(s.user), nil
				})
			schema = b.MustBuild()
		})

		It("provides the ambient values to resolvers", func() {
			result := execute(schema, `{ me }`, withBag(&session{"leia"}))
			Expect(result).Should(MatchResultInJSON(`{"data": {"me": "leia"}}`))
		})

		It("fails a field whose required context is absent", func() {
			result := execute(schema, `{ me }`)
			Expect(result.Errors).Should(testutil.ConsistOfGraphQLErrors(
				testutil.MatchGraphQLError(
					testutil.MessageEqual(`Field "Query.me" requires a context value of type *executor_test.session.`),
					testutil.PathEqual("me"),
				),
			))
		})
	})

	Describe("wrapper", func() {
		type ctxKey struct{}

		It("is called around every field", func() {
			b := newItemSchemaBuilder()
			b.Query("item", graphql.Named("Item")).
				Resolver(func(ctx context.Context, _ *graphql.RequestContext) (graphql.ResolvedValue, error) {
					return graphql.Object(&item{ctx.Value(ctxKey{}).(string)}), nil
				})
			schema := b.MustBuild()

			var (
				calls atomic.Int32
				mutex sync.Mutex
				names []string
			)
			result := execute(schema, `{ item { name } }`, func(params *executor.Params) {
				params.Executor = &concurrent.InlineExecutor{}
				params.Wrapper = func(ctx context.Context, field *ast.Field, next func(context.Context)) {
					calls.Inc()
					mutex.Lock()
					names = append(names, field.Name.Value)
					mutex.Unlock()
					next(context.WithValue(ctx, ctxKey{}, "wrapped"))
				}
			})
			Expect(result).Should(MatchResultInJSON(`{"data": {"item": {"name": "wrapped"}}}`))
			Expect(calls.Load()).Should(Equal(int32(2)))
			Expect(names).Should(Equal([]string{"item", "name"}))
		})

		It("fails a field that the wrapper does not resolve", func() {
			b := graphql.NewSchemaBuilder()
			b.Query("ok", graphql.Named("String")).Resolver(resolveConst(graphql.String("ok")))
			result := execute(b.MustBuild(), `{ ok }`, func(params *executor.Params) {
				params.Wrapper = func(context.Context, *ast.Field, func(context.Context)) {}
			})
			Expect(result.Errors).Should(testutil.ConsistOfGraphQLErrors(
				testutil.MatchGraphQLError(testutil.MessageEqual(`Field "Query.ok" was not resolved by the wrapper.`)),
			))
		})
	})

	It("fails fields when the context is cancelled", func() {
		b := graphql.NewSchemaBuilder()
		b.Query("ok", graphql.Named("String")).Resolver(resolveConst(graphql.String("ok")))
		schema := b.MustBuild()

		document, err := parser.ParseString(`{ ok }`)
		Expect(err).ShouldNot(HaveOccurred())

		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		result := executor.Execute(ctx, executor.Params{Schema: schema, Document: document})
		Expect(result).Should(MatchResultInJSON(`{
			"errors": [{"message": "context canceled", "locations": [{"line": 1, "column": 3}], "path": ["ok"]}],
			"data": {"ok": null}
		}`))
	})

	It("requires a document", func() {
		b := graphql.NewSchemaBuilder()
		b.Query("ok", graphql.Named("String")).Resolver(resolveConst(graphql.String("ok")))
		result := executor.Execute(context.Background(), executor.Params{Schema: b.MustBuild()})
		Expect(result).Should(MatchResultInJSON(`{"errors": [{"message": "Must provide query string."}]}`))
	})
})
