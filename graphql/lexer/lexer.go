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

package lexer

import (
	"fmt"
	"strings"
	"unicode/utf16"
	"unicode/utf8"

	"github.com/Martmists-GH/multiplatform-everything-sub000/graphql"
	"github.com/Martmists-GH/multiplatform-everything-sub000/graphql/token"
)

// Lexer is the return type of New.
type Lexer struct {
	source *token.Source

	// The previously focused non-ignored token
	lastToken *token.Token

	// The currently focused non-ignored token
	token *token.Token

	// Offset into the source body just past the last token lexed so far. Moved by only consume() and
	// consumeWhitespace().
	bytePos int

	// This caches the value of source.Body().Size().
	bodySize int
}

// New initializes a Lexer for given Source object. A Lexer is a stateful stream generator in that
// every time it is advanced, it returns the next token in the Source. Assuming the source lexes,
// the final Token emitted by the lexer will be of kind EOF, after which the lexer will repeatedly
// return the same EOF token whenever called.
func New(source *token.Source) *Lexer {
	startOfFileToken := &token.Token{
		Kind:     token.KindSOF,
		Location: token.NoSourceLocation,
	}
	return &Lexer{
		source:    source,
		lastToken: startOfFileToken,
		token:     startOfFileToken,
		bodySize:  source.Body().Size(),
	}
}

// Source returns the source being lexed.
func (lexer *Lexer) Source() *token.Source {
	return lexer.source
}

// Token returns current token being lexed.
func (lexer *Lexer) Token() *token.Token {
	return lexer.token
}

// LastToken returns the token focused before the current one.
func (lexer *Lexer) LastToken() *token.Token {
	return lexer.lastToken
}

// Advance the token stream to the next non-ignored token.
func (lexer *Lexer) Advance() (*token.Token, error) {
	nextToken, err := lexer.Lookahead()
	if err != nil {
		return nil, err
	}
	lexer.lastToken, lexer.token = lexer.token, nextToken
	return nextToken, nil
}

// Rewind moves the focus back to a token that was returned earlier by Token or Advance. Tokens
// already lexed stay linked, so advancing again after a rewind never re-scans the source.
func (lexer *Lexer) Rewind(tok *token.Token) {
	lexer.token = tok
	lexer.lastToken = tok.Prev
	for lexer.lastToken != nil && lexer.lastToken.Kind == token.KindComment {
		lexer.lastToken = lexer.lastToken.Prev
	}
	if lexer.lastToken == nil {
		lexer.lastToken = tok
	}
}

// Lookahead looks ahead and returns the next non-ignored token, but does not switch current token.
func (lexer *Lexer) Lookahead() (*token.Token, error) {
	tok := lexer.token
	if tok.Kind == token.KindEOF {
		return tok, nil
	}

	for {
		// Read next token and save to token.Next if we haven't done yet.
		if tok.Next == nil {
			nextToken, err := lexer.lexToken(tok)
			if err != nil {
				return nil, err
			}
			tok.Next = nextToken
		}
		tok = tok.Next

		if tok.Kind != token.KindComment {
			return tok, nil
		}
	}
}

// peek peeks the next byte at bytePos without consume it.
func (lexer *Lexer) peek() byte {
	return lexer.source.Body().At(lexer.bytePos)
}

// peekAt peeks the byte n bytes after bytePos.
func (lexer *Lexer) peekAt(n int) byte {
	return lexer.source.Body().At(lexer.bytePos + n)
}

// consume reads a byte at current bytePos and then advances the bytePos. Return the byte.
func (lexer *Lexer) consume() byte {
	b := lexer.source.Body().At(lexer.bytePos)
	if lexer.bytePos < lexer.bodySize {
		lexer.bytePos++
	}
	return b
}

// consumeWhitespace consumes bytes from body starting at current bytePos until it finds a
// non-ignored character. Commas are insignificant in GraphQL and are skipped like whitespace.
func (lexer *Lexer) consumeWhitespace() {
	body := lexer.source.Body()
	bodySize := lexer.bodySize
	bytePos := lexer.bytePos

	for bytePos < bodySize {
		switch body[bytePos] {
		case '\t', ' ', ',', '\n', '\r':
			bytePos++

		case '\xEF':
			// Unicode BOM (U+FEFF) may appear anywhere between tokens.
			if bytePos+2 < bodySize && body[bytePos+1] == '\xBB' && body[bytePos+2] == '\xBF' {
				bytePos += 3
				continue
			}
			lexer.bytePos = bytePos
			return

		default:
			lexer.bytePos = bytePos
			return
		}
	}

	lexer.bytePos = bytePos
}

// consumeDigits consumes bytes that represent a digit (i.e., from "0" to "9"). Return the first
// non-digit byte.
func (lexer *Lexer) consumeDigits() byte {
	for {
		char := lexer.peek()
		if !isDigit(char) {
			return char
		}
		lexer.consume()
	}
}

func isDigit(char byte) bool {
	return char >= '0' && char <= '9'
}

func isNameStart(char byte) bool {
	return char == '_' || (char >= 'a' && char <= 'z') || (char >= 'A' && char <= 'Z')
}

func (lexer *Lexer) charAtPosToStr(bytePos int) string {
	if bytePos >= lexer.bodySize {
		return "<EOF>"
	}

	// Try to decode a rune at bytePos.
	r, _ := lexer.source.Body().RuneAt(bytePos)

	// Print as ASCII for printable range.
	if r >= 0x20 && r < 0x7F {
		return fmt.Sprintf(`"%c"`, r)
	}

	// Print the escaped form. e.g. `"\\u0007"`
	return fmt.Sprintf(`"\u%04X"`, r)
}

// newSyntaxError creates a syntax error located at the given byte position.
func (lexer *Lexer) newSyntaxError(bytePos int, format string, args ...interface{}) error {
	return graphql.NewSyntaxError(
		lexer.source,
		lexer.source.LocationFromPos(bytePos),
		fmt.Sprintf(format, args...))
}

// newUnexpectedCharacterError creates a syntax error to indicate an unexpected character at the
// given offset was encountered.
func (lexer *Lexer) newUnexpectedCharacterError(bytePos int) error {
	char := lexer.source.Body().At(bytePos)
	if (char < 0x0020) && (char != 0x0009) && (char != 0x000a) && (char != 0x000d) {
		return lexer.newSyntaxError(bytePos, "Cannot contain the invalid character %s.", lexer.charAtPosToStr(bytePos))
	} else if char == '\'' {
		return lexer.newSyntaxError(bytePos, "Unexpected single quote character ('), did you mean to use a double quote (\")?")
	}
	return lexer.newSyntaxError(bytePos, "Cannot parse the unexpected character %s.", lexer.charAtPosToStr(bytePos))
}

func (lexer *Lexer) makeToken(prev *token.Token, kind token.Kind, startPos int, value string) *token.Token {
	return &token.Token{
		Kind:     kind,
		Location: lexer.source.LocationFromPos(startPos),
		Length:   lexer.bytePos - startPos,
		Value:    value,
		Prev:     prev,
	}
}

// lexToken gets the next token from the source starting at the lexer.bytePos. This skips over
// whitespaces until it finds the next lexable token, then lexes punctuators immediately or calls
// the appropriate helper function for more complicated tokens.
func (lexer *Lexer) lexToken(prev *token.Token) (*token.Token, error) {
	lexer.consumeWhitespace()

	startPos := lexer.bytePos
	if startPos >= lexer.bodySize {
		return lexer.makeToken(prev, token.KindEOF, startPos, ""), nil
	}

	// lexSimpleToken consumes a byte and produces a token of the given kind.
	lexSimpleToken := func(kind token.Kind) (*token.Token, error) {
		lexer.consume()
		return lexer.makeToken(prev, kind, startPos, ""), nil
	}

	char := lexer.peek()
	switch char {
	case '!':
		return lexSimpleToken(token.KindBang)
	case '#':
		return lexer.lexComment(prev), nil
	case '$':
		return lexSimpleToken(token.KindDollar)
	case '(':
		return lexSimpleToken(token.KindLeftParen)
	case ')':
		return lexSimpleToken(token.KindRightParen)
	case '.':
		if lexer.peekAt(1) == '.' && lexer.peekAt(2) == '.' {
			lexer.bytePos += 3
			return lexer.makeToken(prev, token.KindSpread, startPos, ""), nil
		}
		return nil, lexer.newUnexpectedCharacterError(startPos)
	case ':':
		return lexSimpleToken(token.KindColon)
	case '=':
		return lexSimpleToken(token.KindEquals)
	case '@':
		return lexSimpleToken(token.KindAt)
	case '[':
		return lexSimpleToken(token.KindLeftBracket)
	case ']':
		return lexSimpleToken(token.KindRightBracket)
	case '{':
		return lexSimpleToken(token.KindLeftBrace)
	case '}':
		return lexSimpleToken(token.KindRightBrace)

	case '-', '0', '1', '2', '3', '4', '5', '6', '7', '8', '9':
		return lexer.lexNumber(prev)

	case '"':
		if lexer.peekAt(1) == '"' && lexer.peekAt(2) == '"' {
			lexer.bytePos += 3
			return lexer.lexBlockString(prev, startPos)
		}
		lexer.consume()
		return lexer.lexString(prev, startPos)
	}

	if isNameStart(char) {
		return lexer.lexName(prev), nil
	}

	return nil, lexer.newUnexpectedCharacterError(startPos)
}

// lexComment reads a comment token from the source file.
//
//	Comment ::
//		# CommentChar*
//
//	CommentChar ::
//		SourceCharacter but not LineTerminator
//
// Reference: https://spec.graphql.org/October2021/#sec-Comments
func (lexer *Lexer) lexComment(prev *token.Token) *token.Token {
	startPos := lexer.bytePos

	// Consume #.
	lexer.consume()
	for lexer.bytePos < lexer.bodySize {
		char := lexer.peek()
		if char == '\n' || char == '\r' {
			break
		}
		lexer.consume()
	}

	return lexer.makeToken(prev, token.KindComment, startPos,
		string(lexer.source.Body()[startPos+1:lexer.bytePos]))
}

// lexNumber reads a number token from the source file, either a float or an int depending on
// whether a fractional or exponent part appears. A number immediately followed by a "." or a
// NameStart is rejected so "1.2.3" and "123abc" never lex as a number followed by garbage.
//
//	IntValue ::
//		IntegerPart [lookahead != {Digit, ., NameStart}]
//
//	FloatValue ::
//		IntegerPart FractionalPart ExponentPart [lookahead != {Digit, ., NameStart}]
//		IntegerPart FractionalPart [lookahead != {Digit, ., NameStart}]
//		IntegerPart ExponentPart [lookahead != {Digit, ., NameStart}]
//
// Reference: https://spec.graphql.org/October2021/#sec-Int-Value
func (lexer *Lexer) lexNumber(prev *token.Token) (*token.Token, error) {
	startPos := lexer.bytePos
	tokenKind := token.KindInt

	char := lexer.consume()
	if char == '-' {
		char = lexer.peek()
		if !isDigit(char) {
			return nil, lexer.newSyntaxError(lexer.bytePos,
				"Invalid number, expected digit after '-' but got: %s.", lexer.charAtPosToStr(lexer.bytePos))
		}
		lexer.consume()
	}

	if char == '0' {
		char = lexer.peek()
		if isDigit(char) {
			return nil, lexer.newSyntaxError(lexer.bytePos,
				"Invalid number, unexpected digit after 0: %s.", lexer.charAtPosToStr(lexer.bytePos))
		}
	} else {
		char = lexer.consumeDigits()
	}

	if char == '.' {
		tokenKind = token.KindFloat
		lexer.consume()

		if !isDigit(lexer.peek()) {
			return nil, lexer.newSyntaxError(lexer.bytePos,
				"Invalid number, expected digit after decimal point ('.') but got: %s.",
				lexer.charAtPosToStr(lexer.bytePos))
		}
		char = lexer.consumeDigits()
	}

	if char == 'E' || char == 'e' {
		tokenKind = token.KindFloat
		lexer.consume()

		if char = lexer.peek(); char == '+' || char == '-' {
			lexer.consume()
		}

		if !isDigit(lexer.peek()) {
			return nil, lexer.newSyntaxError(lexer.bytePos,
				"Invalid number, expected digit but got: %s.", lexer.charAtPosToStr(lexer.bytePos))
		}
		char = lexer.consumeDigits()
	}

	if char == '.' || isNameStart(char) {
		return nil, lexer.newSyntaxError(lexer.bytePos,
			"Invalid number, expected digit but got: %s.", lexer.charAtPosToStr(lexer.bytePos))
	}

	return lexer.makeToken(prev, tokenKind, startPos,
		string(lexer.source.Body()[startPos:lexer.bytePos])), nil
}

// lexString reads a string token from the source file.
//
//	StringValue ::
//		" StringCharacter* "
//
//	StringCharacter ::
//		SourceCharacter but not " or \ or LineTerminator
//		\u EscapedUnicode
//		\ EscapedCharacter
//
//	EscapedUnicode ::
//		{ HexDigit+ }
//		HexDigit HexDigit HexDigit HexDigit
//
//	EscapedCharacter :: one of
//		"	\	/	b	f	n	r	t
//
// Reference: https://spec.graphql.org/October2021/#sec-String-Value
func (lexer *Lexer) lexString(prev *token.Token, startPos int) (*token.Token, error) {
	var value strings.Builder

	for lexer.bytePos < lexer.bodySize {
		char := lexer.peek()

		// Exit when encounter a LineTerminator.
		if char == '\n' || char == '\r' {
			break
		}

		if char == '"' {
			lexer.consume()
			return lexer.makeToken(prev, token.KindString, startPos, value.String()), nil
		}

		// Make sure the character is a valid SourceCharacter.
		if char < 0x0020 && char != '\t' {
			return nil, lexer.newSyntaxError(lexer.bytePos,
				"Invalid character within String: %s.", lexer.charAtPosToStr(lexer.bytePos))
		}

		if char != '\\' {
			// Copy the whole (possibly multi-byte) rune.
			r, size := lexer.source.Body().RuneAt(lexer.bytePos)
			if r == utf8.RuneError && size <= 1 {
				value.WriteByte(char)
				lexer.consume()
				continue
			}
			value.WriteRune(r)
			lexer.bytePos += size
			continue
		}

		escapePos := lexer.bytePos
		lexer.consume()
		char = lexer.consume()
		switch char {
		case '"':
			value.WriteByte('"')
		case '\\':
			value.WriteByte('\\')
		case '/':
			value.WriteByte('/')
		case 'b':
			value.WriteByte('\b')
		case 'f':
			value.WriteByte('\f')
		case 'n':
			value.WriteByte('\n')
		case 'r':
			value.WriteByte('\r')
		case 't':
			value.WriteByte('\t')
		case 'u':
			r, err := lexer.lexEscapedUnicode(escapePos)
			if err != nil {
				return nil, err
			}
			value.WriteRune(r)
		default:
			return nil, lexer.newSyntaxError(escapePos,
				"Invalid character escape sequence: %s.",
				string(lexer.source.Body()[escapePos:lexer.bytePos]))
		}
	}

	return nil, lexer.newSyntaxError(lexer.bytePos, "Unterminated string.")
}

// lexEscapedUnicode reads the code point of an escape sequence whose "\u" has been consumed. A
// "\uXXXX" that holds a leading surrogate must be followed by a "\uXXXX" trailing surrogate; the
// pair is recombined into a single code point.
func (lexer *Lexer) lexEscapedUnicode(escapePos int) (rune, error) {
	invalidEscape := func() (rune, error) {
		end := lexer.bytePos
		if end > lexer.bodySize {
			end = lexer.bodySize
		}
		return 0, lexer.newSyntaxError(escapePos,
			"Invalid character escape sequence: %s.",
			string(lexer.source.Body()[escapePos:end]))
	}

	// Variable-width form: \u{1F600}
	if lexer.peek() == '{' {
		lexer.consume()
		var (
			code   rune
			digits int
		)
		for {
			char := lexer.consume()
			if char == '}' {
				break
			}
			h := char2hex(char)
			if h < 0 || lexer.bytePos > lexer.bodySize {
				return invalidEscape()
			}
			code = code<<4 | h
			digits++
			if code > utf8.MaxRune {
				return invalidEscape()
			}
		}
		if digits == 0 || (code >= 0xD800 && code <= 0xDFFF) {
			return invalidEscape()
		}
		return code, nil
	}

	code, ok := lexer.lexFixedWidthUnicode()
	if !ok {
		return invalidEscape()
	}

	if utf16.IsSurrogate(code) {
		// A leading surrogate must be followed by a trailing one.
		if code <= 0xDBFF && lexer.peek() == '\\' && lexer.peekAt(1) == 'u' {
			lexer.bytePos += 2
			trailing, ok := lexer.lexFixedWidthUnicode()
			if ok && trailing >= 0xDC00 && trailing <= 0xDFFF {
				return utf16.DecodeRune(code, trailing), nil
			}
		}
		return invalidEscape()
	}

	return code, nil
}

// lexFixedWidthUnicode reads exactly four hex digits.
func (lexer *Lexer) lexFixedWidthUnicode() (rune, bool) {
	if lexer.bodySize-lexer.bytePos < 4 {
		lexer.bytePos = lexer.bodySize
		return 0, false
	}
	code := uniCharCode(lexer.consume(), lexer.consume(), lexer.consume(), lexer.consume())
	return code, code >= 0
}

// Converts four hexadecimal chars to the integer that the string represents. For example,
// uniCharCode('0','0','0','f') will return 15, and uniCharCode('0','0','f','f') returns 255.
//
// Returns a negative number on error, if a char was invalid.
func uniCharCode(a byte, b byte, c byte, d byte) rune {
	return (char2hex(a) << 12) | (char2hex(b) << 8) | (char2hex(c) << 4) | char2hex(d)
}

// Converts a hex character to its integer value. Returns -1 on error.
func char2hex(a byte) rune {
	switch {
	case a >= '0' && a <= '9':
		return rune(a - '0')
	case a >= 'A' && a <= 'F':
		return rune(a-'A') + 10
	case a >= 'a' && a <= 'f':
		return rune(a-'a') + 10
	}
	return -1
}

// lexBlockString reads a block string token from the source file. The value is kept verbatim except
// for the escaped triple-quote.
//
//	BlockStringCharacter ::
//		SourceCharacter but not """ or \"""
//		\"""
//
// Reference: https://spec.graphql.org/October2021/#BlockStringCharacter
func (lexer *Lexer) lexBlockString(prev *token.Token, startPos int) (*token.Token, error) {
	var value strings.Builder

	for lexer.bytePos < lexer.bodySize {
		char := lexer.peek()

		if char == '"' && lexer.peekAt(1) == '"' && lexer.peekAt(2) == '"' {
			lexer.bytePos += 3
			return lexer.makeToken(prev, token.KindBlockString, startPos, value.String()), nil
		}

		if char == '\\' && lexer.peekAt(1) == '"' && lexer.peekAt(2) == '"' && lexer.peekAt(3) == '"' {
			lexer.bytePos += 4
			value.WriteString(`"""`)
			continue
		}

		// Make sure the character is a valid SourceCharacter.
		if char < 0x0020 && char != '\t' && char != '\r' && char != '\n' {
			return nil, lexer.newSyntaxError(lexer.bytePos,
				"Invalid character within String: %s.", lexer.charAtPosToStr(lexer.bytePos))
		}

		lexer.consume()
		value.WriteByte(char)
	}

	return nil, lexer.newSyntaxError(lexer.bytePos, "Unterminated string.")
}

// lexName lexes a Name token from source.
//
//	Name ::
//		/[_A-Za-z][_0-9A-Za-z]*/
//
// Reference: https://spec.graphql.org/October2021/#sec-Names
func (lexer *Lexer) lexName(prev *token.Token) *token.Token {
	startPos := lexer.bytePos

	lexer.consume()
	for {
		char := lexer.peek()
		if isNameStart(char) || isDigit(char) {
			lexer.consume()
			continue
		}
		break
	}

	return lexer.makeToken(prev, token.KindName, startPos,
		string(lexer.source.Body()[startPos:lexer.bytePos]))
}
