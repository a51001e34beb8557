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

package token

import (
	"fmt"
)

// Kind describes the different kinds of tokens that the lexer emits.
type Kind int

// Enumeration of Kind
//
// Reference: https://spec.graphql.org/October2021/#sec-Appendix-Grammar-Summary.Lexical-Tokens
const (
	// <SOF>
	KindSOF Kind = iota + 1
	// <EOF>
	KindEOF
	// !
	KindBang
	// $
	KindDollar
	// (
	KindLeftParen
	// )
	KindRightParen
	// ...
	KindSpread
	// :
	KindColon
	// =
	KindEquals
	// @
	KindAt
	// [
	KindLeftBracket
	// ]
	KindRightBracket
	// {
	KindLeftBrace
	// }
	KindRightBrace
	// Ref: https://spec.graphql.org/October2021/#Name
	KindName
	// Ref: https://spec.graphql.org/October2021/#IntValue
	KindInt
	// Ref: https://spec.graphql.org/October2021/#FloatValue
	KindFloat
	// Ref: https://spec.graphql.org/October2021/#StringValue
	KindString
	// Ref: https://spec.graphql.org/October2021/#StringValue
	KindBlockString
	// Ref: https://spec.graphql.org/October2021/#sec-Comments
	KindComment
)

var kindNames = [...]string{
	KindSOF:          "<SOF>",
	KindEOF:          "<EOF>",
	KindBang:         "!",
	KindDollar:       "$",
	KindLeftParen:    "(",
	KindRightParen:   ")",
	KindSpread:       "...",
	KindColon:        ":",
	KindEquals:       "=",
	KindAt:           "@",
	KindLeftBracket:  "[",
	KindRightBracket: "]",
	KindLeftBrace:    "{",
	KindRightBrace:   "}",
	KindName:         "Name",
	KindInt:          "Int",
	KindFloat:        "Float",
	KindString:       "String",
	KindBlockString:  "BlockString",
	KindComment:      "Comment",
}

var _ fmt.Stringer = Kind(0)

func (kind Kind) String() string {
	if kind > 0 && int(kind) < len(kindNames) {
		return kindNames[kind]
	}
	panic("unsupported token kind")
}

// IsPunctuator returns true for the single and triple character punctuators.
func (kind Kind) IsPunctuator() bool {
	return kind >= KindBang && kind <= KindRightBrace
}

// Token represents a range of characters represented by a lexical token within a Source.
type Token struct {
	// The kind of Token.
	Kind Kind

	// The position at which this Token begins in the source
	Location SourceLocation

	// The length of the token in the source in bytes
	Length int

	// For punctuation and comment tokens, this is empty. For other kinds of token, this represents
	// the interpreted value of the token.
	Value string

	// Tokens exist as nodes in a double-linked-list amongst all tokens including comments. <SOF> is
	// always the first node and <EOF> the last. Parser rewinds by walking back to a saved node so
	// tokens are never lexed twice.
	Prev *Token
	Next *Token
}

// End returns the location right after the last byte of the token.
func (token *Token) End() SourceLocation {
	return token.Location.WithOffset(token.Length)
}

// Description describe a token as a string for debugging and error messages.
func (token *Token) Description() string {
	if token.Kind == KindName || token.Kind == KindInt || token.Kind == KindFloat ||
		token.Kind == KindString || token.Kind == KindBlockString {
		return fmt.Sprintf(`%s "%s"`, token.Kind.String(), token.Value)
	}
	return token.Kind.Description()
}

// Description describes a kind for error messages. Punctuators are quoted.
func (kind Kind) Description() string {
	if kind.IsPunctuator() {
		return `"` + kind.String() + `"`
	}
	return kind.String()
}
