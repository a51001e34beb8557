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
	"github.com/Martmists-GH/multiplatform-everything-sub000/graphql/ast"

	"github.com/cespare/xxhash/v2"
	lru "github.com/hashicorp/golang-lru"
)

// DocumentCache keeps parsed documents to save parsing efforts on repeated queries. Cached
// documents are shared by concurrent requests and must not be modified.
type DocumentCache interface {
	// Get looks up the document parsed from query.
	Get(query string) (document *ast.Document, ok bool)

	// Add stores the document parsed from query.
	Add(query string, document *ast.Document)
}

type cachedDocument struct {
	query    string
	document *ast.Document
}

// LRUDocumentCache is a thread-safe DocumentCache evicting the least recently used document. Entries
// are keyed by the xxhash of the query text.
type LRUDocumentCache struct {
	cache *lru.Cache
}

var _ DocumentCache = (*LRUDocumentCache)(nil)

// NewLRUDocumentCache creates a cache holding up to size documents.
func NewLRUDocumentCache(size int) (*LRUDocumentCache, error) {
	cache, err := lru.New(size)
	if err != nil {
		return nil, err
	}
	return &LRUDocumentCache{cache}, nil
}

// Get implements DocumentCache.
func (c *LRUDocumentCache) Get(query string) (*ast.Document, bool) {
	v, ok := c.cache.Get(xxhash.Sum64String(query))
	if !ok {
		return nil, false
	}
	entry := v.(*cachedDocument)
	// Hash collision.
	if entry.query != query {
		return nil, false
	}
	return entry.document, true
}

// Add implements DocumentCache.
func (c *LRUDocumentCache) Add(query string, document *ast.Document) {
	c.cache.Add(xxhash.Sum64String(query), &cachedDocument{query, document})
}

// Len returns the number of cached documents.
func (c *LRUDocumentCache) Len() int {
	return c.cache.Len()
}

// NopDocumentCache does nothing.
type NopDocumentCache struct{}

var _ DocumentCache = NopDocumentCache{}

// Get implements DocumentCache.
func (NopDocumentCache) Get(string) (*ast.Document, bool) {
	return nil, false
}

// Add implements DocumentCache.
func (NopDocumentCache) Add(string, *ast.Document) {}
