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

package executor

import (
	"github.com/Martmists-GH/multiplatform-everything-sub000/graphql"
	"github.com/Martmists-GH/multiplatform-everything-sub000/graphql/ast"
)

// collectedField groups the fields in a selection set that share a response key. They are
// resolved once and their sub-selections are merged.
type collectedField struct {
	responseKey string
	fields      []*ast.Field
}

// first returns the field that fixed the position of the response key.
func (field *collectedField) first() *ast.Field {
	return field.fields[0]
}

// name returns the name of the selected schema field.
func (field *collectedField) name() string {
	return field.fields[0].Name.Value
}

// locations returns the locations of every field definition in the group.
func (field *collectedField) locations(req *graphql.RequestContext) []graphql.ErrorLocation {
	locations := make([]graphql.ErrorLocation, 0, len(field.fields))
	for _, f := range field.fields {
		if location := req.Location(f); location.IsValid() {
			locations = append(locations, location)
		}
	}
	return locations
}

// subSelections returns the selection sets of every field in the group.
func (field *collectedField) subSelections() []ast.SelectionSet {
	sets := make([]ast.SelectionSet, 0, len(field.fields))
	for _, f := range field.fields {
		if len(f.SelectionSet) > 0 {
			sets = append(sets, f.SelectionSet)
		}
	}
	return sets
}

// fieldCollector expands the selection sets of one object into a flat list of fields. Fragment
// spreads are expanded by name plus type: the fragment for the concrete type is preferred and the
// fragments for the interfaces it implements are tried next. A spread without any matching
// fragment expands to nothing.
type fieldCollector struct {
	req *graphql.RequestContext

	// The concrete type of the object.
	objectType *graphql.ObjectType

	// The declared type of the field that produced the object. It is the object type itself or one
	// of its interfaces.
	declaredType string

	fields  []*collectedField
	byKey   map[string]*collectedField
	visited map[*ast.FragmentDefinition]bool
}

// collectFields implements "CollectFields" over several selection sets of the same object. The
// result is in document order and the first occurrence of a response key fixes its position.
func collectFields(
	req *graphql.RequestContext,
	objectType *graphql.ObjectType,
	declaredType string,
	selectionSets []ast.SelectionSet) ([]*collectedField, error) {

	collector := &fieldCollector{
		req:          req,
		objectType:   objectType,
		declaredType: declaredType,
		byKey:        map[string]*collectedField{},
		visited:      map[*ast.FragmentDefinition]bool{},
	}

	for _, selectionSet := range selectionSets {
		if err := collector.collect(selectionSet); err != nil {
			return nil, err
		}
	}

	return collector.fields, nil
}

func (collector *fieldCollector) collect(selectionSet ast.SelectionSet) error {
	for _, selection := range selectionSet {
		include, err := shouldIncludeNode(collector.req, selection)
		if err != nil {
			return err
		}
		if !include {
			continue
		}

		switch selection := selection.(type) {
		case *ast.Field:
			collector.addField(selection)

		case *ast.InlineFragment:
			if selection.HasTypeCondition() &&
				!collector.doesTypeConditionSatisfy(selection.TypeCondition.Name.Value) {
				continue
			}
			if err := collector.collect(selection.SelectionSet); err != nil {
				return err
			}

		case *ast.FragmentSpread:
			fragment := collector.lookupFragment(selection.Name.Value)
			if fragment == nil || collector.visited[fragment] {
				continue
			}
			collector.visited[fragment] = true
			if err := collector.collect(fragment.SelectionSet); err != nil {
				return err
			}
		}
	}
	return nil
}

func (collector *fieldCollector) addField(field *ast.Field) {
	key := field.ResponseKey()
	if existing, exists := collector.byKey[key]; exists {
		existing.fields = append(existing.fields, field)
		return
	}
	collected := &collectedField{
		responseKey: key,
		fields:      []*ast.Field{field},
	}
	collector.byKey[key] = collected
	collector.fields = append(collector.fields, collected)
}

func (collector *fieldCollector) lookupFragment(name string) *ast.FragmentDefinition {
	fragments := collector.req.Fragments()
	if fragment := fragments.Lookup(name, collector.objectType.Name()); fragment != nil {
		return fragment
	}
	for _, iface := range collector.objectType.Interfaces() {
		if fragment := fragments.Lookup(name, iface); fragment != nil {
			return fragment
		}
	}
	return nil
}

// doesTypeConditionSatisfy determines if the type condition of an inline fragment applies to the
// object.
func (collector *fieldCollector) doesTypeConditionSatisfy(typeCondition string) bool {
	return typeCondition == collector.objectType.Name() ||
		typeCondition == collector.declaredType ||
		collector.objectType.Implements(typeCondition)
}

// Determines if a field should be included based on the @include and @skip directives, where @skip
// has higher precedence than @include. The field or fragment must not be queried if either the
// @skip condition is true or the @include condition is false.
//
// Reference: https://spec.graphql.org/June2018/#sec--include
func shouldIncludeNode(req *graphql.RequestContext, node ast.Selection) (bool, error) {
	directives := node.GetDirectives()

	skip, err := directiveCondition(req, directives.Get("skip"))
	if err != nil {
		return false, err
	}
	if skip != nil && *skip {
		return false, nil
	}

	include, err := directiveCondition(req, directives.Get("include"))
	if err != nil {
		return false, err
	}
	if include != nil && !*include {
		return false, nil
	}

	return true, nil
}

var booleanType = graphql.NonNull(graphql.Named(graphql.BooleanTypeName))

// directiveCondition evaluates the "if" argument of @skip or @include. It returns nil when the
// directive is absent.
func directiveCondition(req *graphql.RequestContext, directive *ast.Directive) (*bool, error) {
	if directive == nil {
		return nil, nil
	}

	arg := directive.Arguments.Get("if")
	if arg == nil {
		return nil, graphql.NewError(
			`Directive "@`+directive.Name.Value+`" argument "if" of type "Boolean!" is required but not provided.`,
			req.Location(directive), graphql.ErrKindCoercion)
	}

	value, err := req.ValueOf(arg.Value, booleanType)
	if err != nil {
		return nil, err
	}
	condition, ok := value.(bool)
	if !ok {
		return nil, graphql.NewError(
			"Expected type Boolean!, found "+ast.Print(arg.Value)+".",
			req.Location(arg.Value), graphql.ErrKindCoercion)
	}
	return &condition, nil
}
