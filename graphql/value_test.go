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

package graphql_test

import (
	"context"
	"encoding/json"

	"github.com/Martmists-GH/multiplatform-everything-sub000/graphql"
	"github.com/Martmists-GH/multiplatform-everything-sub000/graphql/ast"
	"github.com/Martmists-GH/multiplatform-everything-sub000/graphql/parser"
	. "github.com/Martmists-GH/multiplatform-everything-sub000/internal/testutil"
	"github.com/Martmists-GH/multiplatform-everything-sub000/internal/util"

	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"
)

type currentUser struct {
	name string
}

type greeter interface {
	Greet() string
}

func (u *currentUser) Greet() string {
	return "hello " + u.name
}

var _ = Describe("RequestContext", func() {
	var (
		schema   *graphql.Schema
		document *ast.Document
		req      *graphql.RequestContext
	)

	// newRequest parses query and creates the context for its first operation.
	newRequest := func(query string, variables map[string]interface{}, bag graphql.ContextBag) *graphql.RequestContext {
		var err error
		document, err = parser.ParseString(query)
		Expect(err).ShouldNot(HaveOccurred())
		return graphql.NewRequestContext(schema, document, document.Operations()[0], variables, bag)
	}

	// argumentOf returns the AST value of the argument of the first field in the operation.
	argumentOf := func(name string) ast.Value {
		field := document.Operations()[0].SelectionSet[0].(*ast.Field)
		return req.ForField(field).UnboundArgument(name)
	}

	BeforeEach(func() {
		schema = newPetSchemaBuilder().MustBuild()
	})

	Describe("ValueOf", func() {
		It("resolves literals", func() {
			req = newRequest(`{ pets(a: 1, b: 1.5, c: "s", d: true, e: null, f: [1, 2], g: {x: 1}) }`, nil, graphql.ContextBag{})

			expectValue := func(name string, expected interface{}) {
				v, err := req.ValueOf(argumentOf(name), nil)
				Expect(err).ShouldNot(HaveOccurred())
				Expect(v).Should(Equal(expected))
			}
			expectValue("a", int64(1))
			expectValue("b", 1.5)
			expectValue("c", "s")
			expectValue("d", true)
			expectValue("e", nil)
			expectValue("f", []interface{}{int64(1), int64(2)})
			expectValue("g", map[string]interface{}{"x": int64(1)})
		})

		It("resolves enum values against the expected type", func() {
			req = newRequest(`{ pets(a: CAT, b: FISH) }`, nil, graphql.ContextBag{})

			v, err := req.ValueOf(argumentOf("a"), graphql.Named("Species"))
			Expect(err).ShouldNot(HaveOccurred())
			Expect(v).Should(Equal(graphql.EnumMember{Enum: "Species", Name: "CAT", Index: 0}))

			_, err = req.ValueOf(argumentOf("b"), graphql.Named("Species"))
			Expect(err).Should(MatchGraphQLError(
				MessageEqual(`Value "FISH" does not exist in "Species" enum.`),
				LocationEqual(graphql.ErrorLocation{Line: 1, Column: 19}),
				KindIs(graphql.ErrKindCoercion),
			))

			_, err = req.ValueOf(argumentOf("a"), graphql.Named("String"))
			Expect(err).Should(MatchGraphQLError(MessageEqual(`Expected type String, found CAT.`)))
		})

		It("suggests close enum members", func() {
			req = newRequest(`{ pets(a: DOGG) }`, nil, graphql.ContextBag{})
			_, err := req.ValueOf(argumentOf("a"), graphql.Named("Species"))
			Expect(err).Should(MatchGraphQLError(
				MessageEqual(`Value "DOGG" does not exist in "Species" enum. Did you mean "DOG"?`),
			))
		})

		It("recurses into lists and input objects with the expected sub-types", func() {
			req = newRequest(`{ pets(filter: {species: DOG, names: ["a"]}, list: [CAT, DOG]) }`, nil, graphql.ContextBag{})

			v, err := req.ValueOf(argumentOf("filter"), graphql.Named("PetFilter"))
			Expect(err).ShouldNot(HaveOccurred())
			Expect(v).Should(Equal(map[string]interface{}{
				"species": graphql.EnumMember{Enum: "Species", Name: "DOG", Index: 1},
				"names":   []interface{}{"a"},
			}))

			v, err = req.ValueOf(argumentOf("list"), graphql.ListOf(graphql.Named("Species")))
			Expect(err).ShouldNot(HaveOccurred())
			Expect(v).Should(Equal([]interface{}{
				graphql.EnumMember{Enum: "Species", Name: "CAT", Index: 0},
				graphql.EnumMember{Enum: "Species", Name: "DOG", Index: 1},
			}))
		})

		It("rejects unknown input fields", func() {
			req = newRequest(`{ pets(filter: {color: RED}) }`, nil, graphql.ContextBag{})
			_, err := req.ValueOf(argumentOf("filter"), graphql.Named("PetFilter"))
			Expect(err).Should(MatchGraphQLError(
				MessageEqual(`Field "color" is not defined by type "PetFilter".`),
			))
		})

		It("resolves variables from the request, then defaults, then null", func() {
			req = newRequest(`query ($a: Int, $b: Int = 2, $c: Int, $d: Species) { pets(a: $a, b: $b, c: $c, d: $d, e: $e) }`,
				map[string]interface{}{
					"a": json.Number("1"),
					"d": "DOG",
				}, graphql.ContextBag{})

			v, err := req.ValueOf(argumentOf("a"), graphql.Named("Int"))
			Expect(err).ShouldNot(HaveOccurred())
			Expect(v).Should(Equal(int64(1)))

			v, err = req.ValueOf(argumentOf("b"), graphql.Named("Int"))
			Expect(err).ShouldNot(HaveOccurred())
			Expect(v).Should(Equal(int64(2)))

			v, err = req.ValueOf(argumentOf("c"), graphql.Named("Int"))
			Expect(err).ShouldNot(HaveOccurred())
			Expect(v).Should(BeNil())

			v, err = req.ValueOf(argumentOf("d"), graphql.Named("Species"))
			Expect(err).ShouldNot(HaveOccurred())
			Expect(v).Should(Equal(graphql.EnumMember{Enum: "Species", Name: "DOG", Index: 1}))

			_, err = req.ValueOf(argumentOf("e"), graphql.Named("Int"))
			Expect(err).Should(MatchGraphQLError(MessageEqual(`Variable "$e" is not defined.`)))

			Expect(req.HasVariable("a")).Should(BeTrue())
			Expect(req.HasVariable("b")).Should(BeFalse())
			Expect(req.VariableDefinition("b")).ShouldNot(BeNil())
		})

		It("normalizes host values in dummy values", func() {
			req = newRequest(`{ pets }`, nil, graphql.ContextBag{})

			v, err := req.ValueOf(ast.DummyValue{Value: 3}, graphql.Named("Int"))
			Expect(err).ShouldNot(HaveOccurred())
			Expect(v).Should(Equal(int64(3)))

			v, err = req.ValueOf(ast.DummyValue{Value: 3.0}, graphql.Named("Int"))
			Expect(err).ShouldNot(HaveOccurred())
			Expect(v).Should(Equal(int64(3)))

			v, err = req.ValueOf(ast.DummyValue{Value: []interface{}{"CAT"}}, graphql.ListOf(graphql.Named("Species")))
			Expect(err).ShouldNot(HaveOccurred())
			Expect(v).Should(Equal([]interface{}{graphql.EnumMember{Enum: "Species", Name: "CAT", Index: 0}}))
		})
	})

	Describe("child contexts", func() {
		It("binds arguments per field and shares the rest", func() {
			user := &currentUser{name: "luke"}
			req = newRequest(`query ($a: Int) { pets(a: $a) }`, map[string]interface{}{"a": 1}, graphql.NewContextBag(user))

			field := document.Operations()[0].SelectionSet[0].(*ast.Field)
			child := req.ForField(field)
			Expect(child.Field()).Should(BeIdenticalTo(field))
			Expect(child.Schema()).Should(BeIdenticalTo(req.Schema()))
			Expect(child.Fragments()).Should(BeIdenticalTo(req.Fragments()))
			Expect(child.HasVariable("a")).Should(BeTrue())

			child.BindArgument("a", int64(1))
			v, ok := child.Argument("a")
			Expect(ok).Should(BeTrue())
			Expect(v).Should(Equal(int64(1)))

			i, ok := graphql.ArgumentAs[int64](child, "a")
			Expect(ok).Should(BeTrue())
			Expect(i).Should(Equal(int64(1)))

			_, ok = graphql.ArgumentAs[string](child, "a")
			Expect(ok).Should(BeFalse())

			_, ok = req.Argument("a")
			Expect(ok).Should(BeFalse())
			Expect(req.ForField(field).Arguments()).Should(BeEmpty())

			u, ok := graphql.ContextValue[*currentUser](child)
			Expect(ok).Should(BeTrue())
			Expect(u).Should(BeIdenticalTo(user))
		})
	})

	Describe("ContextBag", func() {
		It("is keyed by type", func() {
			user := &currentUser{name: "leia"}
			bag := graphql.NewContextBag(user, "token", nil)
			Expect(bag.Len()).Should(Equal(2))

			v, ok := bag.Lookup(graphql.TypeOf[string]())
			Expect(ok).Should(BeTrue())
			Expect(v).Should(Equal("token"))

			v, ok = bag.Lookup(graphql.TypeOf[greeter]())
			Expect(ok).Should(BeTrue())
			Expect(v.(greeter).Greet()).Should(Equal("hello leia"))

			_, ok = bag.Lookup(graphql.TypeOf[int]())
			Expect(ok).Should(BeFalse())

			extended := bag.With(42)
			Expect(extended.Len()).Should(Equal(3))
			Expect(bag.Len()).Should(Equal(2))
		})
	})

	Describe("FragmentTable", func() {
		It("looks up fragments by name and type condition", func() {
			document, err := parser.ParseString(`
				{ pets }
				fragment F on Cat { name }
				fragment F on Dog { name }
			`)
			Expect(err).ShouldNot(HaveOccurred())

			table := graphql.NewFragmentTable(document.Fragments())
			Expect(table.Lookup("F", "Dog")).Should(BeIdenticalTo(document.Fragments()[1]))
			Expect(table.Lookup("F", "Cat")).Should(BeIdenticalTo(document.Fragments()[0]))
			Expect(table.Lookup("F", "Bird")).Should(BeNil())
			Expect(table.Lookup("G", "Dog")).Should(BeNil())
		})
	})
})

var _ = Describe("Schema SDL", func() {
	It("prints registered types and root operations", func() {
		schema := newPetSchemaBuilder().MustBuild()
		Expect(schema.SDL()).Should(Equal(util.Dedent(`
			"Kinds of pets"
			enum Species {
			  CAT
			  DOG
			}

			interface Named {
			  name: String!
			}

			type Pet implements Named {
			  name: String!
			}

			input PetFilter {
			  species: Species
			  names: [String!]
			}

			type Query {
			  pets(filter: PetFilter): [Pet]
			}
		`)))
	})

	It("prints custom scalars, descriptions and every root type", func() {
		b := graphql.NewSchemaBuilder()
		b.Scalar("UUID").
			Description("An identifier").
			Serialize(func(v graphql.ResolvedValue) (graphql.ResolvedValue, error) { return v, nil }).
			Parse(func(v interface{}) (interface{}, error) { return v, nil })
		b.Query("id", graphql.Named("UUID")).
			Description("Line one\nLine two").
			Resolver(resolveNothing)
		b.Mutation("reset", graphql.Named("Boolean")).Resolver(resolveNothing)
		b.Subscription("ticks", graphql.NonNull(graphql.Named("Int"))).
			Resolver(func(context.Context, *graphql.RequestContext) (<-chan graphql.ResolvedValue, error) {
				return nil, nil
			})

		Expect(b.MustBuild().SDL()).Should(Equal(util.Dedent(`
			"An identifier"
			scalar UUID

			type Query {
			  """
			  Line one
			  Line two
			  """
			  id: UUID
			}

			type Mutation {
			  reset: Boolean
			}

			type Subscription {
			  ticks: Int!
			}
		`)))
	})
})
