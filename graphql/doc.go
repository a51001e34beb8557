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

// Package graphql defines the data model shared by the parser and the executor: the error model,
// the schema registry and its builder, the request context and the resolution of AST values.
//
// Schema
//
// A Schema is built once with a SchemaBuilder and is immutable afterwards. Every field carries a
// declared type (a TypeRef), its arguments, an access rule and a resolver. Build validates the
// whole registered surface (every referenced type must be registered, every field must have a
// resolver, every interface must have a type resolver) and fails with all problems at once.
//
// Resolvers return a ResolvedValue which tags the produced value with its kind. The executor
// serializes it according to the declared type without reflecting over host values.
//
// Request context
//
// A RequestContext lives for one request. It shares the fragment table, the operation variables
// and the ambient ContextBag with the child contexts derived for every field (ForField); only the
// bound arguments belong to the child.
package graphql
