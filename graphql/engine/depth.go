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
	"fmt"

	"github.com/Martmists-GH/multiplatform-everything-sub000/graphql"
	"github.com/Martmists-GH/multiplatform-everything-sub000/graphql/ast"
	"github.com/Martmists-GH/multiplatform-everything-sub000/graphql/ast/visitor"
)

// depthMeter measures how deeply fields nest in a document. Fields selected through fragment
// spreads count at the depth of the spread.
type depthMeter struct {
	fragments map[string][]*ast.FragmentDefinition

	// Depth of each fragment measured so far. A fragment being measured maps to 0 which stops
	// cycles.
	measured map[string]int
}

func newDepthMeter(document *ast.Document) *depthMeter {
	meter := &depthMeter{
		fragments: map[string][]*ast.FragmentDefinition{},
		measured:  map[string]int{},
	}
	for _, fragment := range document.Fragments() {
		name := fragment.Name.Value
		meter.fragments[name] = append(meter.fragments[name], fragment)
	}
	return meter
}

// measure returns the depth of node and the first field found at that depth.
func (meter *depthMeter) measure(node ast.Node) (int, *ast.Field) {
	var (
		depth, maxDepth int
		deepest         *ast.Field
	)
	visitor.Walk(node, &visitor.NodeVisitorFuncs{
		Enter: func(node ast.Node) visitor.Result {
			switch node := node.(type) {
			case *ast.Field:
				depth++
				if depth > maxDepth {
					maxDepth, deepest = depth, node
				}
			case *ast.FragmentSpread:
				if d := depth + meter.fragmentDepth(node.Name.Value); d > maxDepth {
					maxDepth, deepest = d, nil
				}
			case *ast.Argument, *ast.Directive, *ast.VariableDefinition:
				return visitor.SkipSubTree
			}
			return visitor.Continue
		},
		Leave: func(node ast.Node) visitor.Result {
			if _, ok := node.(*ast.Field); ok {
				depth--
			}
			return visitor.Continue
		},
	})
	return maxDepth, deepest
}

func (meter *depthMeter) fragmentDepth(name string) int {
	if depth, ok := meter.measured[name]; ok {
		return depth
	}
	meter.measured[name] = 0

	maxDepth := 0
	for _, fragment := range meter.fragments[name] {
		if depth, _ := meter.measure(fragment); depth > maxDepth {
			maxDepth = depth
		}
	}
	meter.measured[name] = maxDepth
	return maxDepth
}

// DocumentDepth returns the deepest nesting of fields among the operations of document.
func DocumentDepth(document *ast.Document) int {
	meter := newDepthMeter(document)
	maxDepth := 0
	for _, operation := range document.Operations() {
		if depth, _ := meter.measure(operation); depth > maxDepth {
			maxDepth = depth
		}
	}
	return maxDepth
}

// checkDepth rejects a document whose operations nest fields deeper than limit.
func checkDepth(document *ast.Document, limit int) error {
	meter := newDepthMeter(document)
	for _, operation := range document.Operations() {
		depth, deepest := meter.measure(operation)
		if depth <= limit {
			continue
		}

		location := operation.Location
		if deepest != nil {
			location = deepest.Location
		}
		return graphql.NewError(
			fmt.Sprintf("Query depth %d exceeds the maximum depth of %d.", depth, limit),
			graphql.ErrorLocationOf(document.Source, location),
			graphql.ErrKindValidation,
		)
	}
	return nil
}
