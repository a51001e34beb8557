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
	"encoding/json"
	"errors"

	"github.com/Martmists-GH/multiplatform-everything-sub000/graphql/engine"

	. "github.com/onsi/ginkgo"
	"github.com/onsi/ginkgo/extensions/table"
	. "github.com/onsi/gomega"
)

var _ = Describe("ParseRequest", func() {
	It("reads query, operation name and variables", func() {
		req, err := engine.ParseRequest([]byte(`{
			"query": "query Q($n: Int) { a }",
			"operationName": "Q",
			"variables": {"n": 9007199254740993, "f": 1.5, "s": "x", "l": [1, null]}
		}`))
		Expect(err).ShouldNot(HaveOccurred())
		Expect(req.Query).Should(Equal("query Q($n: Int) { a }"))
		Expect(req.OperationName).Should(Equal("Q"))
		Expect(req.Variables).Should(Equal(map[string]interface{}{
			"n": json.Number("9007199254740993"),
			"f": json.Number("1.5"),
			"s": "x",
			"l": []interface{}{json.Number("1"), nil},
		}))
	})

	It("accepts variables encoded in a string", func() {
		req, err := engine.ParseRequest([]byte(`{"query": "{ a }", "variables": "{\"id\": \"1000\"}"}`))
		Expect(err).ShouldNot(HaveOccurred())
		Expect(req.Variables).Should(Equal(map[string]interface{}{"id": "1000"}))
	})

	It("accepts missing and null members", func() {
		req, err := engine.ParseRequest([]byte(`{"query": "{ a }", "operationName": null, "variables": null}`))
		Expect(err).ShouldNot(HaveOccurred())
		Expect(req).Should(Equal(engine.Request{Query: "{ a }"}))
	})

	table.DescribeTable("rejects invalid payloads",
		func(payload string, message string) {
			_, err := engine.ParseRequest([]byte(payload))
			Expect(err).Should(MatchError("invalid request payload: " + message))
			var parseErr *engine.RequestParseError
			Expect(errors.As(err, &parseErr)).Should(BeTrue())
		},
		table.Entry("not JSON", `{"query": `, "payload is not valid JSON"),
		table.Entry("not an object", `["{ a }"]`, "payload must be a JSON object"),
		table.Entry("query of wrong type", `{"query": 1}`, `"query" must be a string`),
		table.Entry("operation name of wrong type", `{"operationName": true}`, `"operationName" must be a string`),
		table.Entry("variables of wrong type", `{"variables": [1]}`, `"variables" must be an object`),
		table.Entry("variables string not JSON", `{"variables": "{"}`, `"variables" is not valid JSON`),
	)
})
