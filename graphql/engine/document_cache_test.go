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
	"github.com/Martmists-GH/multiplatform-everything-sub000/graphql/engine"
	"github.com/Martmists-GH/multiplatform-everything-sub000/graphql/parser"

	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"
)

var _ = Describe("LRUDocumentCache", func() {
	It("returns cached documents", func() {
		cache, err := engine.NewLRUDocumentCache(2)
		Expect(err).ShouldNot(HaveOccurred())

		document, err := parser.ParseString(`{ a }`)
		Expect(err).ShouldNot(HaveOccurred())

		_, ok := cache.Get(`{ a }`)
		Expect(ok).Should(BeFalse())

		cache.Add(`{ a }`, document)
		cached, ok := cache.Get(`{ a }`)
		Expect(ok).Should(BeTrue())
		Expect(cached).Should(BeIdenticalTo(document))
	})

	It("evicts the least recently used document", func() {
		cache, err := engine.NewLRUDocumentCache(2)
		Expect(err).ShouldNot(HaveOccurred())

		queries := []string{`{ a }`, `{ b }`, `{ c }`}
		for _, query := range queries[:2] {
			document, err := parser.ParseString(query)
			Expect(err).ShouldNot(HaveOccurred())
			cache.Add(query, document)
		}
		// Touch "{ a }" so that "{ b }" becomes the oldest.
		_, ok := cache.Get(`{ a }`)
		Expect(ok).Should(BeTrue())

		document, err := parser.ParseString(queries[2])
		Expect(err).ShouldNot(HaveOccurred())
		cache.Add(queries[2], document)

		Expect(cache.Len()).Should(Equal(2))
		_, ok = cache.Get(`{ b }`)
		Expect(ok).Should(BeFalse())
		_, ok = cache.Get(`{ a }`)
		Expect(ok).Should(BeTrue())
	})

	It("rejects a non-positive size", func() {
		_, err := engine.NewLRUDocumentCache(0)
		Expect(err).Should(HaveOccurred())
	})
})

var _ = Describe("NopDocumentCache", func() {
	It("never returns a document", func() {
		document, err := parser.ParseString(`{ a }`)
		Expect(err).ShouldNot(HaveOccurred())

		var cache engine.DocumentCache = engine.NopDocumentCache{}
		cache.Add(`{ a }`, document)
		_, ok := cache.Get(`{ a }`)
		Expect(ok).Should(BeFalse())
	})
})
