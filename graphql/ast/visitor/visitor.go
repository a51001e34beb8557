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

// Package visitor walks a parsed GraphQL document in depth-first order.
package visitor

import (
	"fmt"

	"github.com/Martmists-GH/multiplatform-everything-sub000/graphql/ast"
)

// Result contains the return value for visitor function. The behavior of the visitor can be altered
// based on the value, including skipping over a sub-tree of AST (by returning SkipSubTree) or to
// stop the whole traversal (by returning Break).
type Result interface {
	// result puts a special mark for a Result type. The unexpored field forbids external package to
	// use our defined result constants.
	result()
}

// resultConstant is a constant to tell visitor of the next action to take
type resultConstant int

// result implements Result.
func (resultConstant) result() {}

// Enumeration of resultConstant.
const (
	// No action, continue the traversal.
	Continue resultConstant = iota

	// Skip over the sub-tree of AST
	SkipSubTree

	// Stop the traversal on return
	Break
)

// NodeVisitorFuncs is called on every node. Either function may be nil.
type NodeVisitorFuncs struct {
	// Enter is called before the children of node are visited.
	Enter func(node ast.Node) Result

	// Leave is called after the children of node are visited. It is not called for a node whose Enter
	// returned SkipSubTree.
	Leave func(node ast.Node) Result
}

// Walk traverses node and its descendants in document order. It returns Break if the traversal was
// stopped early and Continue otherwise.
func Walk(node ast.Node, funcs *NodeVisitorFuncs) Result {
	if walk(node, funcs) == Break {
		return Break
	}
	return Continue
}

func walk(node ast.Node, funcs *NodeVisitorFuncs) Result {
	if funcs.Enter != nil {
		switch funcs.Enter(node) {
		case Break:
			return Break
		case SkipSubTree:
			return Continue
		}
	}

	for _, child := range children(node) {
		if walk(child, funcs) == Break {
			return Break
		}
	}

	if funcs.Leave != nil {
		if funcs.Leave(node) == Break {
			return Break
		}
	}
	return Continue
}

// children lists the direct child nodes in the order they appear in the source.
func children(node ast.Node) []ast.Node {
	var nodes []ast.Node
	appendName := func(name ast.Name) {
		if !name.IsNil() {
			nodes = append(nodes, name)
		}
	}
	appendDirectives := func(directives ast.Directives) {
		for _, directive := range directives {
			nodes = append(nodes, directive)
		}
	}
	appendSelectionSet := func(set ast.SelectionSet) {
		for _, selection := range set {
			nodes = append(nodes, selection)
		}
	}
	appendArguments := func(args ast.Arguments) {
		for _, arg := range args {
			nodes = append(nodes, arg)
		}
	}

	switch node := node.(type) {
	case *ast.Document:
		for _, definition := range node.Definitions {
			nodes = append(nodes, definition)
		}

	case *ast.OperationDefinition:
		appendName(node.Name)
		for _, varDef := range node.VariableDefinitions {
			nodes = append(nodes, varDef)
		}
		appendDirectives(node.Directives)
		appendSelectionSet(node.SelectionSet)

	case *ast.FragmentDefinition:
		appendName(node.Name)
		nodes = append(nodes, node.TypeCondition)
		appendDirectives(node.Directives)
		appendSelectionSet(node.SelectionSet)

	case *ast.VariableDefinition:
		nodes = append(nodes, node.Variable, node.Type)
		if node.DefaultValue != nil {
			nodes = append(nodes, node.DefaultValue)
		}
		appendDirectives(node.Directives)

	case *ast.Field:
		appendName(node.Alias)
		appendName(node.Name)
		appendArguments(node.Arguments)
		appendDirectives(node.Directives)
		appendSelectionSet(node.SelectionSet)

	case *ast.FragmentSpread:
		appendName(node.Name)
		appendDirectives(node.Directives)

	case *ast.InlineFragment:
		if node.HasTypeCondition() {
			nodes = append(nodes, node.TypeCondition)
		}
		appendDirectives(node.Directives)
		appendSelectionSet(node.SelectionSet)

	case *ast.Argument:
		nodes = append(nodes, node.Name, node.Value)

	case *ast.Directive:
		appendName(node.Name)
		appendArguments(node.Arguments)

	case ast.Variable:
		nodes = append(nodes, node.Name)

	case ast.ListValue:
		for _, value := range node.Values {
			nodes = append(nodes, value)
		}

	case ast.ObjectValue:
		for _, field := range node.Fields {
			nodes = append(nodes, field)
		}

	case *ast.ObjectField:
		nodes = append(nodes, node.Name, node.Value)

	case ast.NamedType:
		nodes = append(nodes, node.Name)

	case ast.ListType:
		nodes = append(nodes, node.ItemType)

	case ast.NonNullType:
		nodes = append(nodes, node.Type)

	case ast.Name, ast.IntValue, ast.FloatValue, ast.StringValue, ast.BooleanValue, ast.NullValue,
		ast.EnumValue, ast.DummyValue:
		// Leaves

	default:
		panic(fmt.Sprintf("unexpected node type %T to visit", node))
	}

	return nodes
}
