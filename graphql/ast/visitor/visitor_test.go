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

package visitor_test

import (
	"fmt"

	"github.com/Martmists-GH/multiplatform-everything-sub000/graphql/ast"
	"github.com/Martmists-GH/multiplatform-everything-sub000/graphql/ast/visitor"
	"github.com/Martmists-GH/multiplatform-everything-sub000/graphql/parser"

	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"
)

func parse(s string) *ast.Document {
	doc, err := parser.ParseString(s)
	Expect(err).ShouldNot(HaveOccurred(), "%s", s)
	return doc
}

func nodeKind(node ast.Node) string {
	typeName := fmt.Sprintf("%T", node)
	// Strip "ast." or "*ast.".
	if typeName[0] == '*' {
		typeName = typeName[1:]
	}
	return typeName[4:]
}

func nodeValue(node ast.Node) interface{} {
	switch node := node.(type) {
	case ast.Name:
		return node.Value
	case ast.IntValue, ast.FloatValue, ast.StringValue, ast.BooleanValue, ast.NullValue, ast.EnumValue:
		return node.(ast.Value).Interface()
	default:
		return nil
	}
}

type visited struct {
	Action string
	Kind   string
	Value  interface{}
}

func record(visits *[]visited) *visitor.NodeVisitorFuncs {
	return &visitor.NodeVisitorFuncs{
		Enter: func(node ast.Node) visitor.Result {
			*visits = append(*visits, visited{"enter", nodeKind(node), nodeValue(node)})
			return visitor.Continue
		},
		Leave: func(node ast.Node) visitor.Result {
			*visits = append(*visits, visited{"leave", nodeKind(node), nodeValue(node)})
			return visitor.Continue
		},
	}
}

var _ = Describe("Visitor", func() {
	It("visits nodes in document order", func() {
		var visits []visited
		Expect(visitor.Walk(parse("{ a(x: 1) }"), record(&visits))).Should(Equal(visitor.Continue))

		Expect(visits).Should(Equal([]visited{
			{"enter", "Document", nil},
			{"enter", "OperationDefinition", nil},
			{"enter", "Field", nil},
			{"enter", "Name", "a"},
			{"leave", "Name", "a"},
			{"enter", "Argument", nil},
			{"enter", "Name", "x"},
			{"leave", "Name", "x"},
			{"enter", "IntValue", int64(1)},
			{"leave", "IntValue", int64(1)},
			{"leave", "Argument", nil},
			{"leave", "Field", nil},
			{"leave", "OperationDefinition", nil},
			{"leave", "Document", nil},
		}))
	})

	It("allows skipping a sub-tree", func() {
		var names []string
		visitor.Walk(parse("{ a { x } b }"), &visitor.NodeVisitorFuncs{
			Enter: func(node ast.Node) visitor.Result {
				if field, ok := node.(*ast.Field); ok {
					names = append(names, field.Name.Value)
					if field.Name.Value == "a" {
						return visitor.SkipSubTree
					}
				}
				return visitor.Continue
			},
		})
		Expect(names).Should(Equal([]string{"a", "b"}))
	})

	It("allows early exit while visiting", func() {
		var names []string
		result := visitor.Walk(parse("{ a { b { c } } d }"), &visitor.NodeVisitorFuncs{
			Enter: func(node ast.Node) visitor.Result {
				if name, ok := node.(ast.Name); ok {
					names = append(names, name.Value)
					if name.Value == "b" {
						return visitor.Break
					}
				}
				return visitor.Continue
			},
		})
		Expect(result).Should(Equal(visitor.Break))
		Expect(names).Should(Equal([]string{"a", "b"}))
	})

	It("visits fragments, variables and types", func() {
		var kinds []string
		visitor.Walk(parse(`
			query Q($v: [Int!] = [1]) { ...F ... on T @skip(if: $v) { f(o: {k: ENUM}) } }
			fragment F on T { g }
		`), &visitor.NodeVisitorFuncs{
			Enter: func(node ast.Node) visitor.Result {
				kinds = append(kinds, nodeKind(node))
				return visitor.Continue
			},
		})

		Expect(kinds).Should(ContainElement("VariableDefinition"))
		Expect(kinds).Should(ContainElement("ListType"))
		Expect(kinds).Should(ContainElement("NonNullType"))
		Expect(kinds).Should(ContainElement("FragmentSpread"))
		Expect(kinds).Should(ContainElement("InlineFragment"))
		Expect(kinds).Should(ContainElement("Directive"))
		Expect(kinds).Should(ContainElement("ObjectField"))
		Expect(kinds).Should(ContainElement("EnumValue"))
		Expect(kinds).Should(ContainElement("FragmentDefinition"))
	})
})
