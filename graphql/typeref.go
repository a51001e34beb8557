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

package graphql

import (
	"github.com/Martmists-GH/multiplatform-everything-sub000/graphql/ast"
)

type typeRefKind uint8

const (
	typeRefNamed typeRefKind = iota
	typeRefList
	typeRefNonNull
)

// TypeRef describes the type of a field, an argument or a variable. It is either a named type, a
// list of another TypeRef, or a non-null wrapper around a named or list type. A TypeRef is
// immutable once created.
type TypeRef struct {
	kind   typeRefKind
	name   string
	ofType *TypeRef
}

// Named returns a reference to the type with the given name.
func Named(name string) *TypeRef {
	return &TypeRef{
		kind: typeRefNamed,
		name: name,
	}
}

// ListOf returns a reference to a list whose items are of the given type.
func ListOf(itemType *TypeRef) *TypeRef {
	return &TypeRef{
		kind:   typeRefList,
		ofType: itemType,
	}
}

// NonNull returns the non-null variant of the given type. It returns t unchanged if t is already
// non-null.
func NonNull(t *TypeRef) *TypeRef {
	if t.IsNonNull() {
		return t
	}
	return &TypeRef{
		kind:   typeRefNonNull,
		ofType: t,
	}
}

// TypeRefFromAST converts a type reference in a GraphQL document (such as the type of a variable
// definition) into a TypeRef.
func TypeRefFromAST(t ast.Type) *TypeRef {
	switch t := t.(type) {
	case ast.NamedType:
		return Named(t.Name.Value)
	case *ast.ListType:
		return ListOf(TypeRefFromAST(t.ItemType))
	case ast.ListType:
		return ListOf(TypeRefFromAST(t.ItemType))
	case ast.NonNullType:
		return NonNull(TypeRefFromAST(t.Type))
	}
	return nil
}

// IsNonNull returns true if the type rejects null.
func (t *TypeRef) IsNonNull() bool {
	return t.kind == typeRefNonNull
}

// IsList returns true if the type is a list, ignoring a non-null wrapper.
func (t *TypeRef) IsList() bool {
	return t.Nullable().kind == typeRefList
}

// Nullable strips the non-null wrapper, if any.
func (t *TypeRef) Nullable() *TypeRef {
	if t.kind == typeRefNonNull {
		return t.ofType
	}
	return t
}

// ItemType returns the type of list items. It returns nil if t is not a list.
func (t *TypeRef) ItemType() *TypeRef {
	t = t.Nullable()
	if t.kind != typeRefList {
		return nil
	}
	return t.ofType
}

// Name returns the name of the type after removing all list and non-null wrappers.
func (t *TypeRef) Name() string {
	for t.kind != typeRefNamed {
		t = t.ofType
	}
	return t.name
}

// Equal returns true if both references describe the same type.
func (t *TypeRef) Equal(other *TypeRef) bool {
	for t != nil && other != nil {
		if t.kind != other.kind {
			return false
		}
		if t.kind == typeRefNamed {
			return t.name == other.name
		}
		t, other = t.ofType, other.ofType
	}
	return t == nil && other == nil
}

// String prints the type in GraphQL notation, e.g., "[Character!]!".
func (t *TypeRef) String() string {
	switch t.kind {
	case typeRefList:
		return "[" + t.ofType.String() + "]"
	case typeRefNonNull:
		return t.ofType.String() + "!"
	}
	return t.name
}
