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
	"strings"

	jsoniter "github.com/json-iterator/go"
)

var descriptionEncoder = jsoniter.Config{EscapeHTML: false}.Froze()

// SDL renders the schema in the GraphQL schema definition language. Built-in scalars are omitted.
// Types are printed in registration order, followed by the Query, Mutation and Subscription types.
func (schema *Schema) SDL() string {
	var b strings.Builder

	for _, t := range schema.types {
		switch t := t.(type) {
		case *ScalarType:
			if t.builtin {
				continue
			}
			printDescription(&b, "", t.description)
			b.WriteString("scalar ")
			b.WriteString(t.name)
			b.WriteString("\n\n")

		case *EnumType:
			printDescription(&b, "", t.description)
			b.WriteString("enum ")
			b.WriteString(t.name)
			b.WriteString(" {\n")
			for _, member := range t.members {
				b.WriteString("  ")
				b.WriteString(member.Name)
				b.WriteString("\n")
			}
			b.WriteString("}\n\n")

		case *InputObjectType:
			printDescription(&b, "", t.description)
			b.WriteString("input ")
			b.WriteString(t.name)
			b.WriteString(" {\n")
			for _, field := range t.fields {
				b.WriteString("  ")
				b.WriteString(field.name)
				b.WriteString(": ")
				b.WriteString(field.typ.String())
				b.WriteString("\n")
			}
			b.WriteString("}\n\n")

		case *InterfaceType:
			printDescription(&b, "", t.description)
			b.WriteString("interface ")
			b.WriteString(t.name)
			printFields(&b, t.fields.list)

		case *ObjectType:
			printDescription(&b, "", t.description)
			b.WriteString("type ")
			b.WriteString(t.name)
			if len(t.interfaces) > 0 {
				b.WriteString(" implements ")
				b.WriteString(strings.Join(t.interfaces, " & "))
			}
			printFields(&b, t.fields.list)
		}
	}

	for _, root := range []*ObjectType{schema.query, schema.mutation, schema.subscription} {
		if root == nil {
			continue
		}
		b.WriteString("type ")
		b.WriteString(root.name)
		printFields(&b, root.fields.list)
	}

	return strings.TrimSuffix(b.String(), "\n")
}

func printFields(b *strings.Builder, fields []*FieldDefinition) {
	b.WriteString(" {\n")
	for _, field := range fields {
		printDescription(b, "  ", field.description)
		b.WriteString("  ")
		b.WriteString(field.name)
		if len(field.args) > 0 {
			b.WriteString("(")
			for i, arg := range field.args {
				if i > 0 {
					b.WriteString(", ")
				}
				b.WriteString(arg.name)
				b.WriteString(": ")
				b.WriteString(arg.typ.String())
			}
			b.WriteString(")")
		}
		b.WriteString(": ")
		b.WriteString(field.typ.String())
		b.WriteString("\n")
	}
	b.WriteString("}\n\n")
}

func printDescription(b *strings.Builder, indent string, description string) {
	if len(description) == 0 {
		return
	}
	b.WriteString(indent)
	if strings.ContainsRune(description, '\n') {
		b.WriteString(`"""`)
		b.WriteString("\n")
		for _, line := range strings.Split(description, "\n") {
			b.WriteString(indent)
			b.WriteString(strings.ReplaceAll(line, `"""`, `\"""`))
			b.WriteString("\n")
		}
		b.WriteString(indent)
		b.WriteString(`"""`)
	} else {
		s, _ := descriptionEncoder.MarshalToString(description)
		b.WriteString(s)
	}
	b.WriteString("\n")
}
