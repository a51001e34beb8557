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

package parser

import (
	"github.com/Martmists-GH/multiplatform-everything-sub000/graphql/ast"
	"github.com/Martmists-GH/multiplatform-everything-sub000/graphql/token"
)

// Parse parses the given GraphQL source into an executable Document. The document must contain at
// least one operation or fragment definition and nothing after the last one.
func Parse(source *token.Source) (*ast.Document, error) {
	parser, err := newParser(source)
	if err != nil {
		return nil, err
	}

	document, err := parser.parseExecutableDocument()
	if err != nil {
		return nil, parser.finish(err)
	}
	return document, nil
}

// ParseString is a shorthand for parsing a document held in a string.
func ParseString(body string) (*ast.Document, error) {
	return Parse(token.NewSourceFromString(body))
}

// ParseValue parses the AST for string containing a GraphQL value (e.g., `[42]`).
func ParseValue(source *token.Source) (ast.Value, error) {
	parser, err := newParser(source)
	if err != nil {
		return nil, err
	}

	value, err := parseStandalone(parser, func() (ast.Value, error) {
		return parser.parseValue(false /* isConst */)
	})
	if err != nil {
		return nil, parser.finish(err)
	}
	return value, nil
}

// ParseType parses the AST for string containing a GraphQL Type (e.g., `[Int!]`).
func ParseType(source *token.Source) (ast.Type, error) {
	parser, err := newParser(source)
	if err != nil {
		return nil, err
	}

	t, err := parseStandalone(parser, parser.parseTypeReference)
	if err != nil {
		return nil, parser.finish(err)
	}
	return t, nil
}

// parseStandalone runs rule between SOF and EOF.
func parseStandalone[T any](p *parser, rule func() (T, error)) (T, error) {
	var zero T

	if _, err := p.expect(token.KindSOF); err != nil {
		return zero, err
	}

	result, err := rule()
	if err != nil {
		return zero, err
	}

	if _, err := p.expect(token.KindEOF); err != nil {
		return zero, err
	}

	return result, nil
}
