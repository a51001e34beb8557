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

package lexer_test

import (
	"github.com/Martmists-GH/multiplatform-everything-sub000/graphql"
	"github.com/Martmists-GH/multiplatform-everything-sub000/graphql/lexer"
	"github.com/Martmists-GH/multiplatform-everything-sub000/graphql/token"
	"github.com/Martmists-GH/multiplatform-everything-sub000/internal/testutil"

	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"
	. "github.com/onsi/gomega/gstruct"
	"github.com/onsi/gomega/types"
)

func lexOne(str string) (*token.Token, error) {
	lexer := lexer.New(token.NewSourceFromString(str))
	return lexer.Advance()
}

func lexAll(str string) ([]*token.Token, error) {
	lexer := lexer.New(token.NewSourceFromString(str))
	var tokens []*token.Token
	for {
		tok, err := lexer.Advance()
		if err != nil {
			return nil, err
		}
		tokens = append(tokens, tok)
		if tok.Kind == token.KindEOF {
			return tokens, nil
		}
	}
}

func expectSyntaxError(text string, message string, location graphql.ErrorLocation) {
	_, err := lexOne(text)
	Expect(err).Should(testutil.MatchGraphQLError(
		testutil.MessageContainSubstring(message),
		testutil.LocationEqual(location),
		testutil.KindIs(graphql.ErrKindSyntax),
	))
}

// MatchToken skips matching Prev and Next fields in the Token.
func MatchToken(token *token.Token) types.GomegaMatcher {
	return PointTo(MatchFields(IgnoreExtras, Fields{
		"Kind":     Equal(token.Kind),
		"Location": Equal(token.Location),
		"Length":   Equal(token.Length),
		"Value":    Equal(token.Value),
	}))
}

var _ = Describe("Lexer", func() {
	It("disallows uncommon control characters", func() {
		expectSyntaxError(
			"\u0007",
			`Cannot contain the invalid character "\u0007"`,
			graphql.ErrorLocation{Line: 1, Column: 1},
		)
	})

	It("accepts BOM header", func() {
		Expect(lexOne("\uFEFF foo")).Should(MatchToken(&token.Token{
			Kind:     token.KindName,
			Location: token.SourceLocation(4),
			Length:   3,
			Value:    "foo",
		}))
	})

	It("records line and column", func() {
		source := token.NewSourceFromString("\n \r\n \r  foo\n")
		tok, err := lexer.New(source).Advance()
		Expect(err).ShouldNot(HaveOccurred())
		Expect(tok).Should(MatchToken(&token.Token{
			Kind:     token.KindName,
			Location: token.SourceLocation(8),
			Length:   3,
			Value:    "foo",
		}))
		Expect(source.LocationInfoOf(tok.Location)).Should(Equal(token.SourceLocationInfo{
			Name:   "GraphQL request",
			Line:   4,
			Column: 3,
		}))
	})

	It("skips whitespace and comments", func() {
		Expect(lexOne(`

    foo


`)).Should(MatchToken(&token.Token{
			Kind:     token.KindName,
			Location: token.SourceLocation(6),
			Length:   3,
			Value:    "foo",
		}))

		Expect(lexOne(`
    #comment
    foo#comment
`)).Should(MatchToken(&token.Token{
			Kind:     token.KindName,
			Location: token.SourceLocation(18),
			Length:   3,
			Value:    "foo",
		}))

		Expect(lexOne(",,,foo,,,")).Should(MatchToken(&token.Token{
			Kind:     token.KindName,
			Location: token.SourceLocation(3),
			Length:   3,
			Value:    "foo",
		}))
	})

	It("errors respect whitespace", func() {
		expectSyntaxError("\n\n    ?\n\n", `Cannot parse the unexpected character "?".`,
			graphql.ErrorLocation{Line: 3, Column: 5})
	})

	It("lexes strings", func() {
		Expect(lexOne(`"simple"`)).Should(MatchToken(&token.Token{
			Kind:     token.KindString,
			Location: token.SourceLocation(0),
			Length:   8,
			Value:    "simple",
		}))

		Expect(lexOne(`" white space "`)).Should(MatchToken(&token.Token{
			Kind:     token.KindString,
			Location: token.SourceLocation(0),
			Length:   15,
			Value:    " white space ",
		}))

		Expect(lexOne(`"quote \""`)).Should(MatchToken(&token.Token{
			Kind:     token.KindString,
			Location: token.SourceLocation(0),
			Length:   10,
			Value:    "quote \"",
		}))

		Expect(lexOne(`"escaped \n\r\b\t\f"`)).Should(MatchToken(&token.Token{
			Kind:     token.KindString,
			Location: token.SourceLocation(0),
			Length:   20,
			Value:    "escaped \n\r\b\t\f",
		}))

		Expect(lexOne(`"slashes \\ \/"`)).Should(MatchToken(&token.Token{
			Kind:     token.KindString,
			Location: token.SourceLocation(0),
			Length:   15,
			Value:    "slashes \\ /",
		}))

		Expect(lexOne(`"unicode \u1234\u5678\u90AB\uCDEF"`)).Should(MatchToken(&token.Token{
			Kind:     token.KindString,
			Location: token.SourceLocation(0),
			Length:   34,
			Value:    "unicode \u1234\u5678\u90AB\uCDEF",
		}))

		Expect(lexOne(`"unicode фы世界"`)).Should(MatchToken(&token.Token{
			Kind:     token.KindString,
			Location: token.SourceLocation(0),
			Length:   20,
			Value:    "unicode фы世界",
		}))
	})

	It("lexes variable-width and surrogate pair unicode escapes", func() {
		Expect(lexOne(`"\u{1F600}"`)).Should(MatchToken(&token.Token{
			Kind:     token.KindString,
			Location: token.SourceLocation(0),
			Length:   11,
			Value:    "\U0001F600",
		}))

		Expect(lexOne(`"\uD83D\uDE00"`)).Should(MatchToken(&token.Token{
			Kind:     token.KindString,
			Location: token.SourceLocation(0),
			Length:   14,
			Value:    "\U0001F600",
		}))

		expectSyntaxError(`"\u{110000}"`, "Invalid character escape sequence",
			graphql.ErrorLocation{Line: 1, Column: 2})
		expectSyntaxError(`"\uD83D"`, "Invalid character escape sequence",
			graphql.ErrorLocation{Line: 1, Column: 2})
		expectSyntaxError(`"\u{}"`, "Invalid character escape sequence",
			graphql.ErrorLocation{Line: 1, Column: 2})
	})

	It("lex reports useful string errors", func() {
		expectSyntaxError(`"`, "Unterminated string.", graphql.ErrorLocation{Line: 1, Column: 2})
		expectSyntaxError(`"no end quote`, "Unterminated string.", graphql.ErrorLocation{Line: 1, Column: 14})
		expectSyntaxError(`'single quotes'`,
			`Unexpected single quote character ('), did you mean to use a double quote (")?`,
			graphql.ErrorLocation{Line: 1, Column: 1})
		expectSyntaxError("\"contains unescaped \u0007 control char\"",
			`Invalid character within String: "\u0007".`,
			graphql.ErrorLocation{Line: 1, Column: 21})
		expectSyntaxError("\"multi\nline\"", "Unterminated string.", graphql.ErrorLocation{Line: 1, Column: 7})
		expectSyntaxError("\"multi\rline\"", "Unterminated string.", graphql.ErrorLocation{Line: 1, Column: 7})
		expectSyntaxError(`"bad \z esc"`, `Invalid character escape sequence: \z.`,
			graphql.ErrorLocation{Line: 1, Column: 6})
		expectSyntaxError(`"bad \x esc"`, `Invalid character escape sequence: \x.`,
			graphql.ErrorLocation{Line: 1, Column: 6})
		expectSyntaxError(`"bad \u1 esc"`, `Invalid character escape sequence: \u1 es.`,
			graphql.ErrorLocation{Line: 1, Column: 6})
		expectSyntaxError(`"bad \uXXXF esc"`, `Invalid character escape sequence: \uXXXF.`,
			graphql.ErrorLocation{Line: 1, Column: 6})
	})

	It("lexes block strings verbatim", func() {
		Expect(lexOne(`"""simple"""`)).Should(MatchToken(&token.Token{
			Kind:     token.KindBlockString,
			Location: token.SourceLocation(0),
			Length:   12,
			Value:    "simple",
		}))

		Expect(lexOne(`"""contains \""" triple-quote"""`)).Should(MatchToken(&token.Token{
			Kind:     token.KindBlockString,
			Location: token.SourceLocation(0),
			Length:   32,
			Value:    `contains """ triple-quote`,
		}))

		Expect(lexOne("\"\"\"\n  multi\n  line\n\"\"\"")).Should(MatchToken(&token.Token{
			Kind:     token.KindBlockString,
			Location: token.SourceLocation(0),
			Length:   22,
			Value:    "\n  multi\n  line\n",
		}))

		Expect(lexOne(`"""unescaped \n\r\b\t\f\u1234"""`)).Should(MatchToken(&token.Token{
			Kind:     token.KindBlockString,
			Location: token.SourceLocation(0),
			Length:   32,
			Value:    `unescaped \n\r\b\t\f\u1234`,
		}))
	})

	It("lex reports useful block string errors", func() {
		expectSyntaxError(`"""`, "Unterminated string.", graphql.ErrorLocation{Line: 1, Column: 4})
		expectSyntaxError(`"""no end quote`, "Unterminated string.", graphql.ErrorLocation{Line: 1, Column: 16})
		expectSyntaxError("\"\"\"contains unescaped \u0007 control char\"\"\"",
			`Invalid character within String: "\u0007".`,
			graphql.ErrorLocation{Line: 1, Column: 23})
	})

	It("lexes numbers", func() {
		tests := []struct {
			text  string
			kind  token.Kind
			value string
		}{
			{"4", token.KindInt, "4"},
			{"4.123", token.KindFloat, "4.123"},
			{"-4", token.KindInt, "-4"},
			{"9", token.KindInt, "9"},
			{"0", token.KindInt, "0"},
			{"-4.123", token.KindFloat, "-4.123"},
			{"0.123", token.KindFloat, "0.123"},
			{"123e4", token.KindFloat, "123e4"},
			{"123E4", token.KindFloat, "123E4"},
			{"123e-4", token.KindFloat, "123e-4"},
			{"123e+4", token.KindFloat, "123e+4"},
			{"-1.123e4", token.KindFloat, "-1.123e4"},
			{"-1.123E4", token.KindFloat, "-1.123E4"},
			{"-1.123e-4", token.KindFloat, "-1.123e-4"},
			{"-1.123e+4", token.KindFloat, "-1.123e+4"},
			{"-1.123e4567", token.KindFloat, "-1.123e4567"},
		}
		for _, test := range tests {
			Expect(lexOne(test.text)).Should(MatchToken(&token.Token{
				Kind:     test.kind,
				Location: token.SourceLocation(0),
				Length:   len(test.text),
				Value:    test.value,
			}), "lexing %s", test.text)
		}
	})

	It("lex reports useful number errors", func() {
		expectSyntaxError("00", `Invalid number, unexpected digit after 0: "0".`,
			graphql.ErrorLocation{Line: 1, Column: 2})
		expectSyntaxError("+1", `Cannot parse the unexpected character "+".`,
			graphql.ErrorLocation{Line: 1, Column: 1})
		expectSyntaxError("1.", `Invalid number, expected digit after decimal point ('.') but got: <EOF>.`,
			graphql.ErrorLocation{Line: 1, Column: 3})
		expectSyntaxError("1.e1", `Invalid number, expected digit after decimal point ('.') but got: "e".`,
			graphql.ErrorLocation{Line: 1, Column: 3})
		expectSyntaxError(".123", `Cannot parse the unexpected character ".".`,
			graphql.ErrorLocation{Line: 1, Column: 1})
		expectSyntaxError("1.A", `Invalid number, expected digit after decimal point ('.') but got: "A".`,
			graphql.ErrorLocation{Line: 1, Column: 3})
		expectSyntaxError("-A", `Invalid number, expected digit after '-' but got: "A".`,
			graphql.ErrorLocation{Line: 1, Column: 2})
		expectSyntaxError("1.0e", `Invalid number, expected digit but got: <EOF>.`,
			graphql.ErrorLocation{Line: 1, Column: 5})
		expectSyntaxError("1.0eA", `Invalid number, expected digit but got: "A".`,
			graphql.ErrorLocation{Line: 1, Column: 5})
	})

	It("rejects numbers followed by a dot or a name", func() {
		expectSyntaxError("1.2.3", `Invalid number, expected digit but got: ".".`,
			graphql.ErrorLocation{Line: 1, Column: 4})
		expectSyntaxError("123abc", `Invalid number, expected digit but got: "a".`,
			graphql.ErrorLocation{Line: 1, Column: 4})
		expectSyntaxError("1.23f", `Invalid number, expected digit but got: "f".`,
			graphql.ErrorLocation{Line: 1, Column: 5})
		expectSyntaxError("0xF1", `Invalid number, expected digit but got: "x".`,
			graphql.ErrorLocation{Line: 1, Column: 2})
	})

	It("lexes punctuation", func() {
		tests := []struct {
			text string
			kind token.Kind
		}{
			{"!", token.KindBang},
			{"$", token.KindDollar},
			{"(", token.KindLeftParen},
			{")", token.KindRightParen},
			{"...", token.KindSpread},
			{":", token.KindColon},
			{"=", token.KindEquals},
			{"@", token.KindAt},
			{"[", token.KindLeftBracket},
			{"]", token.KindRightBracket},
			{"{", token.KindLeftBrace},
			{"}", token.KindRightBrace},
		}
		for _, test := range tests {
			Expect(lexOne(test.text)).Should(MatchToken(&token.Token{
				Kind:     test.kind,
				Location: token.SourceLocation(0),
				Length:   len(test.text),
			}), "lexing %s", test.text)
			Expect(test.kind.IsPunctuator()).Should(BeTrue())
		}
	})

	It("lex reports useful unknown character error", func() {
		expectSyntaxError("..", `Cannot parse the unexpected character ".".`,
			graphql.ErrorLocation{Line: 1, Column: 1})
		expectSyntaxError("?", `Cannot parse the unexpected character "?".`,
			graphql.ErrorLocation{Line: 1, Column: 1})
		expectSyntaxError("\u203B", `Cannot parse the unexpected character "\u203B".`,
			graphql.ErrorLocation{Line: 1, Column: 1})
		expectSyntaxError("&", `Cannot parse the unexpected character "&".`,
			graphql.ErrorLocation{Line: 1, Column: 1})
		expectSyntaxError("|", `Cannot parse the unexpected character "|".`,
			graphql.ErrorLocation{Line: 1, Column: 1})
	})

	It("lex reports useful information for dashes in names", func() {
		lexer := lexer.New(token.NewSourceFromString("a-b"))
		firstToken, err := lexer.Advance()
		Expect(err).ShouldNot(HaveOccurred())
		Expect(firstToken).Should(MatchToken(&token.Token{
			Kind:     token.KindName,
			Location: token.SourceLocation(0),
			Length:   1,
			Value:    "a",
		}))

		_, err = lexer.Advance()
		Expect(err).Should(testutil.MatchGraphQLError(
			testutil.MessageEqual(`Syntax Error: Invalid number, expected digit after '-' but got: "b".`),
			testutil.LocationEqual(graphql.ErrorLocation{Line: 1, Column: 3}),
			testutil.KindIs(graphql.ErrKindSyntax),
		))
	})

	It("produces double linked list of tokens, including comments", func() {
		lexer := lexer.New(token.NewSourceFromString(`{
      #comment
      field
    }`))

		startToken := lexer.Token()
		var (
			endToken *token.Token
			err      error
		)
		for {
			endToken, err = lexer.Advance()
			Expect(err).ShouldNot(HaveOccurred())
			if endToken.Kind == token.KindEOF {
				break
			}
			Expect(endToken.Kind).ShouldNot(Equal(token.KindComment))
		}

		Expect(startToken.Prev).Should(BeNil())
		Expect(endToken.Next).Should(BeNil())

		var tokens []*token.Token
		for tok := startToken; tok != nil; tok = tok.Next {
			if len(tokens) > 0 {
				Expect(tok.Prev).Should(Equal(tokens[len(tokens)-1]))
			}
			tokens = append(tokens, tok)
		}

		kinds := make([]string, len(tokens))
		for i, tok := range tokens {
			kinds[i] = tok.Kind.String()
		}
		Expect(kinds).Should(Equal([]string{
			"<SOF>",
			"{",
			"Comment",
			"Name",
			"}",
			"<EOF>",
		}))
	})

	Describe("Rewind", func() {
		It("replays tokens from a saved position without re-lexing", func() {
			lexer := lexer.New(token.NewSourceFromString("query { hero }"))

			first, err := lexer.Advance()
			Expect(err).ShouldNot(HaveOccurred())
			Expect(first.Value).Should(Equal("query"))

			saved := lexer.Token()
			brace, err := lexer.Advance()
			Expect(err).ShouldNot(HaveOccurred())
			hero, err := lexer.Advance()
			Expect(err).ShouldNot(HaveOccurred())
			Expect(hero.Value).Should(Equal("hero"))

			lexer.Rewind(saved)
			Expect(lexer.Token()).Should(BeIdenticalTo(saved))

			again, err := lexer.Advance()
			Expect(err).ShouldNot(HaveOccurred())
			Expect(again).Should(BeIdenticalTo(brace))
			Expect(lexer.LastToken()).Should(BeIdenticalTo(saved))
		})

		It("returns EOF repeatedly after the end", func() {
			tokens, err := lexAll("a")
			Expect(err).ShouldNot(HaveOccurred())
			Expect(tokens).Should(HaveLen(2))
			Expect(tokens[1].Kind).Should(Equal(token.KindEOF))
			Expect(tokens[1].Location).Should(Equal(token.SourceLocation(1)))
		})
	})
})
