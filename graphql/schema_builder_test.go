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
	"fmt"

	"github.com/Martmists-GH/multiplatform-everything-sub000/graphql"
	. "github.com/Martmists-GH/multiplatform-everything-sub000/internal/testutil"

	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"
)

type pet struct {
	name string
}

func resolvePetName(p *pet) graphql.ResolvedValue {
	return graphql.String(p.name)
}

func resolveNothing(context.Context, *graphql.RequestContext) (graphql.ResolvedValue, error) {
	return graphql.Null(), nil
}

// newPetSchemaBuilder returns a builder of a small valid schema.
func newPetSchemaBuilder() *graphql.SchemaBuilder {
	b := graphql.NewSchemaBuilder()

	b.Enum("Species", "CAT", "DOG").Description("Kinds of pets")

	b.Interface("Named").
		ResolveType(func(interface{}) string { return "Pet" }).
		Field("name", graphql.NonNull(graphql.Named("String")))

	b.Type("Pet").
		Implements("Named").
		Field("name", graphql.NonNull(graphql.Named("String"))).
		Resolver(graphql.ResolveWith(resolvePetName))

	b.InputType("PetFilter").
		Field("species", graphql.Named("Species")).
		Field("names", graphql.ListOf(graphql.NonNull(graphql.Named("String"))))

	b.Query("pets", graphql.ListOf(graphql.Named("Pet"))).
		Argument("filter", graphql.Named("PetFilter")).
		Resolver(resolveNothing)

	return b
}

var _ = Describe("SchemaBuilder", func() {
	It("builds a valid schema", func() {
		schema, err := newPetSchemaBuilder().Build()
		Expect(err).ShouldNot(HaveOccurred())

		Expect(schema.Type("Pet")).ShouldNot(BeNil())
		Expect(schema.Type("Pet").Implements("Named")).Should(BeTrue())
		Expect(schema.Interface("Named")).ShouldNot(BeNil())
		Expect(schema.Enum("Species").Members()).Should(HaveLen(2))
		Expect(schema.InputType("PetFilter").Field("names").Type().String()).Should(Equal("[String!]"))
		Expect(schema.Query("pets").Argument("filter").Type().Name()).Should(Equal("PetFilter"))
		Expect(schema.Mutation("pets")).Should(BeNil())
		Expect(schema.Subscription("pets")).Should(BeNil())
		Expect(schema.QueryType().Name()).Should(Equal("Query"))
		Expect(schema.PossibleTypes("Named")).Should(ConsistOf(schema.Type("Pet")))
	})

	It("provides the built-in scalars", func() {
		schema := newPetSchemaBuilder().MustBuild()
		for _, name := range []string{"String", "Int", "Long", "Float", "Double", "Boolean", "ID"} {
			Expect(schema.Scalar(name)).ShouldNot(BeNil(), name)
			Expect(schema.Scalar(name).IsBuiltin()).Should(BeTrue())
		}
	})

	It("defaults access rules to allow all", func() {
		schema := newPetSchemaBuilder().MustBuild()
		rule := schema.Query("pets").AccessRule()
		Expect(rule(nil, nil)).Should(BeTrue())
	})

	It("rejects an unregistered type", func() {
		b := newPetSchemaBuilder()
		b.Query("owner", graphql.Named("Owner")).Resolver(resolveNothing)

		_, err := b.Build()
		Expect(err).Should(HaveOccurred())
		Expect(err).Should(ConsistOfGraphQLErrors(
			MatchGraphQLError(
				MessageEqual(`Type "Owner" used by "Query.owner" is not registered.`),
				KindIs(graphql.ErrKindValidation),
			),
		))
	})

	It("rejects a field without resolver", func() {
		b := newPetSchemaBuilder()
		b.Type("Owner").Field("name", graphql.Named("String"))
		b.Query("owner", graphql.Named("Owner"))

		_, err := b.Build()
		Expect(err).Should(ConsistOfGraphQLErrors(
			MatchGraphQLError(MessageEqual(`Field "Owner.name" has no resolver.`)),
			MatchGraphQLError(MessageEqual(`Field "Query.owner" has no resolver.`)),
		))
	})

	It("reports every problem at once", func() {
		b := graphql.NewSchemaBuilder()
		b.Interface("Node").Field("id", graphql.Named("ID"))
		b.Type("User").Implements("Node", "Missing")
		b.Type("User")
		b.Scalar("Date")

		_, err := b.Build()
		Expect(err).Should(ConsistOfGraphQLErrors(
			MatchGraphQLError(MessageEqual(`Schema must contain uniquely named types but contains multiple types named "User".`)),
			MatchGraphQLError(MessageEqual(`Schema must define at least one query.`)),
			MatchGraphQLError(MessageEqual(`Scalar "Date" must provide both Serialize and Parse.`)),
			MatchGraphQLError(MessageEqual(`Interface "Node" has no type resolver.`)),
			MatchGraphQLError(MessageEqual(`Interface field "Node.id" expected but "User" does not provide it.`)),
			MatchGraphQLError(MessageEqual(`Type "User" implements "Missing" which is not an interface.`)),
		))
	})

	It("rejects an input type used as output and an object used as input", func() {
		b := newPetSchemaBuilder()
		b.Query("filter", graphql.Named("PetFilter")).
			Argument("pet", graphql.Named("Pet")).
			Resolver(resolveNothing)

		_, err := b.Build()
		Expect(err).Should(ConsistOfGraphQLErrors(
			MatchGraphQLError(MessageEqual(`The type of "Query.filter" must be an output type but got "PetFilter".`)),
			MatchGraphQLError(MessageEqual(`The type of "Query.filter(pet:)" must be an input type but got "Pet".`)),
		))
	})

	It("rejects invalid names and duplicates", func() {
		b := newPetSchemaBuilder()
		b.Enum("Color", "RED", "RED", "null")
		b.Type("__Hidden").Field("1x", graphql.Named("String")).Resolver(graphql.ResolveWith(resolvePetName))
		b.Query("pets", graphql.Named("Pet")).Resolver(resolveNothing)

		_, err := b.Build()
		Expect(err).Should(ConsistOfGraphQLErrors(
			MatchGraphQLError(MessageEqual(`Enum "Color" contains member "RED" more than once.`)),
			MatchGraphQLError(MessageEqual(`Enum "Color" cannot include value: null.`)),
			MatchGraphQLError(MessageEqual(`Name "__Hidden" must not begin with "__", which is reserved by GraphQL introspection.`)),
			MatchGraphQLError(MessageEqual(`Names must match /^[_a-zA-Z][_a-zA-Z0-9]*$/ but "1x" does not.`)),
			MatchGraphQLError(MessageEqual(`Field "Query.pets" is defined more than once.`)),
		))
	})

	It("requires a stream resolver for subscriptions", func() {
		b := newPetSchemaBuilder()
		b.Subscription("petAdded", graphql.Named("Pet"))

		_, err := b.Build()
		Expect(err).Should(ConsistOfGraphQLErrors(
			MatchGraphQLError(MessageEqual(`Subscription "petAdded" has no resolver.`)),
		))
	})

	It("builds only once", func() {
		b := newPetSchemaBuilder()
		_, err := b.Build()
		Expect(err).ShouldNot(HaveOccurred())

		_, err = b.Build()
		Expect(err).Should(MatchGraphQLError(MessageEqual("Schema already built.")))
	})

	It("panics in MustBuild on error", func() {
		b := graphql.NewSchemaBuilder()
		Expect(func() { b.MustBuild() }).Should(Panic())
	})

	It("adapts typed resolvers", func() {
		resolver := graphql.ResolveWith(resolvePetName)

		value, err := resolver(context.Background(), &pet{name: "Kitty"}, nil)
		Expect(err).ShouldNot(HaveOccurred())
		Expect(value).Should(Equal(graphql.String("Kitty")))

		_, err = resolver(context.Background(), "not a pet", nil)
		Expect(err).Should(MatchError(fmt.Sprintf("expect source of type %T but got string", (*pet)(nil))))
	})
})
