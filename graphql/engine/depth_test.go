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

package engine_test

import (
	"context"

	"github.com/Martmists-GH/multiplatform-everything-sub000/graphql"
	"github.com/Martmists-GH/multiplatform-everything-sub000/graphql/engine"
	"github.com/Martmists-GH/multiplatform-everything-sub000/graphql/parser"
	"github.com/Martmists-GH/multiplatform-everything-sub000/internal/testutil"

	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"
	"github.com/onsi/ginkgo/extensions/table"
)

var _ = Describe("Depth limit", func() {
	table.DescribeTable("measures documents",
		func(query string, expected int) {
			document, err := parser.ParseString(query)
			Expect(err).ShouldNot(HaveOccurred())
			Expect(engine.DocumentDepth(document)).Should(Equal(expected))
		},
		table.Entry("single field", `{ hero }`, 1),
		table.Entry("nested fields", `{ hero { friends { name } } }`, 3),
		table.Entry("deepest operation", `query A { hero { name } } query B { hero { friends { friends { name } } } }`, 4),
		table.Entry("fragment spreads", `
			{ hero { ...Friends } }
			fragment Friends on Character { friends { name } }
		`, 3),
		table.Entry("inline fragments", `{ hero { ... on Droid { friends { name } } } }`, 3),
		table.Entry("fragment cycles", `
			{ hero { ...A } }
			fragment A on Character { friends { ...B } }
			fragment B on Character { name ...A }
		`, 3),
		table.Entry("object arguments", `{ hero(episode: EMPIRE) { name } }`, 2),
	)

	It("rejects documents nested too deeply", func() {
		config := engine.DefaultConfig()
		config.MaxDepth = 2
		e := newEngine(config)

		result := e.Execute(context.Background(), engine.Request{Query: `{ hero { friends { name } } }`})
		Expect(result.HasData()).Should(BeFalse())
		Expect(result.Errors).Should(testutil.ConsistOfGraphQLErrors(
			testutil.MatchGraphQLError(
				testutil.MessageEqual("Query depth 3 exceeds the maximum depth of 2."),
				testutil.LocationEqual(graphql.ErrorLocation{Line: 1, Column: 20}),
				testutil.KindIs(graphql.ErrKindValidation),
			),
		))
		Expect(e.Stats().Failures).Should(Equal(uint64(1)))

		result = e.Execute(context.Background(), engine.Request{Query: `{ hero { name } }`})
		Expect(result).Should(testutil.SerializeToJSON(`{"data": {"hero": {"name": "R2-D2"}}}`))
	})

	It("applies the limit to cached documents", func() {
		config := engine.DefaultConfig()
		config.MaxDepth = 1
		e := newEngine(config)

		query := `{ hero { name } }`
		for i := 0; i < 2; i++ {
			result := e.Execute(context.Background(), engine.Request{Query: query})
			Expect(result.HasData()).Should(BeFalse())
		}
		Expect(e.Stats().CacheHits).Should(Equal(uint64(1)))
	})
})
