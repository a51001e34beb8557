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
	"fmt"

	"github.com/Martmists-GH/multiplatform-everything-sub000/graphql"
	"github.com/Martmists-GH/multiplatform-everything-sub000/graphql/ast"
	"github.com/Martmists-GH/multiplatform-everything-sub000/graphql/lexer"
	"github.com/Martmists-GH/multiplatform-everything-sub000/graphql/token"
)

// mismatchError is raised when a grammar rule cannot match the tokens at the cursor. It is
// recoverable: attemptTo restores the cursor and lets the caller try the next alternative. Errors of
// any other type (such as the ones from lexer) abort parsing.
type mismatchError struct {
	location    token.SourceLocation
	description string
}

// Error implements Go's error interface.
func (e *mismatchError) Error() string {
	return e.description
}

// parser holds internal state during parsing.
type parser struct {
	// The lexer for tokenization
	lexer *lexer.Lexer

	// The mismatch that occurred furthest into the source. It is reported when no alternative matches.
	furthest *mismatchError
}

func newParser(source *token.Source) (*parser, error) {
	if source == nil {
		return nil, graphql.NewError("Must provide Source. Received: nil")
	}
	return &parser{
		lexer: lexer.New(source),
	}, nil
}

// attemptTo runs rule speculatively. If rule fails with a mismatch, the lexer is rewound to where the
// rule started and the zero value of T is returned without error so the caller can try another
// alternative. Any other error is returned as is.
func attemptTo[T any](p *parser, rule func() (T, error)) (T, error) {
	saved := p.lexer.Token()
	result, err := rule()
	if err == nil {
		return result, nil
	}
	if _, recoverable := err.(*mismatchError); !recoverable {
		return result, err
	}
	p.lexer.Rewind(saved)
	var zero T
	return zero, nil
}

// finish converts an escaped mismatch into a syntax error located at the furthest mismatch seen.
func (p *parser) finish(err error) error {
	if _, ok := err.(*mismatchError); ok {
		return graphql.NewSyntaxError(p.lexer.Source(), p.furthest.location, p.furthest.description)
	}
	return err
}

// mismatch records a grammar mismatch at tok.
func (p *parser) mismatch(tok *token.Token, format string, args ...interface{}) error {
	err := &mismatchError{
		location:    tok.Location,
		description: fmt.Sprintf(format, args...),
	}
	// Among mismatches at the same location, the latest one describes the outermost rule that failed.
	if p.furthest == nil || err.location >= p.furthest.location {
		p.furthest = err
	}
	return err
}

// Peek return current token without consume it.
func (p *parser) peek() *token.Token {
	return p.lexer.Token()
}

// advance consumes the current token and returns it.
func (p *parser) advance() (*token.Token, error) {
	tok := p.lexer.Token()
	if _, err := p.lexer.Advance(); err != nil {
		return nil, err
	}
	return tok, nil
}

// If the next token is of the given kind, return true after advancing the lexer. Otherwise, do not
// change the parser state and return false.
func (p *parser) skip(tokenKind token.Kind) (bool, error) {
	if p.lexer.Token().Kind != tokenKind {
		return false, nil
	}
	if _, err := p.lexer.Advance(); err != nil {
		return false, err
	}
	return true, nil
}

// If the next token is of the given kind, return that token after advancing the lexer. Otherwise,
// do not change the parser state and raise a mismatch.
func (p *parser) expect(tokenKind token.Kind) (*token.Token, error) {
	tok := p.lexer.Token()
	if tok.Kind == tokenKind {
		return p.advance()
	}
	return nil, p.mismatch(tok, "Expected %s, found %s", tokenKind.Description(), tok.Description())
}

// If the next token is a keyword with the given value, return that token after advancing the lexer.
// Otherwise, do not change the parser state and raise a mismatch.
func (p *parser) expectKeyword(keyword string) (*token.Token, error) {
	tok := p.lexer.Token()
	if tok.Kind == token.KindName && tok.Value == keyword {
		return p.advance()
	}
	return nil, p.mismatch(tok, `Expected "%s", found %s`, keyword, tok.Description())
}

// Helper function for creating an error when an unexpected lexed token is encountered.
func (p *parser) unexpected() error {
	tok := p.lexer.Token()
	return p.mismatch(tok, "Unexpected %s", tok.Description())
}

// Converts a name lex token into a name parse node.
func (p *parser) parseName() (ast.Name, error) {
	tok, err := p.expect(token.KindName)
	if err != nil {
		return ast.Name{}, err
	}
	return ast.Name{
		Value:    tok.Value,
		Location: tok.Location,
	}, nil
}

// Implements the parsing rules in the Document section.

// parseExecutableDocument requires at least one definition and consumes the whole source.
//
//	ExecutableDocument ::
//		ExecutableDefinition+
func (p *parser) parseExecutableDocument() (*ast.Document, error) {
	if _, err := p.expect(token.KindSOF); err != nil {
		return nil, err
	}

	var definitions ast.Definitions
	for {
		definition, err := attemptTo(p, p.parseDefinition)
		if err != nil {
			return nil, err
		}
		if definition == nil {
			break
		}
		definitions = append(definitions, definition)
	}

	if len(definitions) == 0 || p.peek().Kind != token.KindEOF {
		return nil, p.unexpected()
	}

	return &ast.Document{
		Definitions: definitions,
		Source:      p.lexer.Source(),
	}, nil
}

//	ExecutableDefinition ::
//		OperationDefinition
//		FragmentDefinition
func (p *parser) parseDefinition() (ast.Definition, error) {
	operation, err := attemptTo(p, p.parseOperationDefinition)
	if err != nil {
		return nil, err
	} else if operation != nil {
		return operation, nil
	}

	fragment, err := attemptTo(p, p.parseFragmentDefinition)
	if err != nil {
		return nil, err
	} else if fragment != nil {
		return fragment, nil
	}

	return nil, p.unexpected()
}

//	OperationDefinition ::
//		OperationType Name? VariableDefinitions? Directives? SelectionSet
//		SelectionSet
func (p *parser) parseOperationDefinition() (*ast.OperationDefinition, error) {
	start := p.peek()

	// Query shorthand
	if start.Kind == token.KindLeftBrace {
		selectionSet, err := p.parseSelectionSet()
		if err != nil {
			return nil, err
		}
		return &ast.OperationDefinition{
			Location:     start.Location,
			Operation:    ast.OperationTypeQuery,
			Shorthand:    true,
			SelectionSet: selectionSet,
		}, nil
	}

	operationType, err := p.parseOperationType()
	if err != nil {
		return nil, err
	}

	definition := &ast.OperationDefinition{
		Location:  start.Location,
		Operation: operationType,
	}

	if p.peek().Kind == token.KindName {
		if definition.Name, err = p.parseName(); err != nil {
			return nil, err
		}
	}

	if p.peek().Kind == token.KindLeftParen {
		if definition.VariableDefinitions, err = p.parseVariableDefinitions(); err != nil {
			return nil, err
		}
	}

	if definition.Directives, err = p.parseDirectives(false /* isConst */); err != nil {
		return nil, err
	}

	if definition.SelectionSet, err = p.parseSelectionSet(); err != nil {
		return nil, err
	}

	return definition, nil
}

//	OperationType : one of
//		query	mutation	subscription
func (p *parser) parseOperationType() (ast.OperationType, error) {
	tok := p.peek()
	if tok.Kind == token.KindName {
		switch ast.OperationType(tok.Value) {
		case ast.OperationTypeQuery, ast.OperationTypeMutation, ast.OperationTypeSubscription:
			if _, err := p.advance(); err != nil {
				return "", err
			}
			return ast.OperationType(tok.Value), nil
		}
	}
	return "", p.unexpected()
}

//	VariableDefinitions :
//		( VariableDefinition+ )
func (p *parser) parseVariableDefinitions() (ast.VariableDefinitions, error) {
	if _, err := p.expect(token.KindLeftParen); err != nil {
		return nil, err
	}

	var definitions ast.VariableDefinitions
	for {
		definition, err := p.parseVariableDefinition()
		if err != nil {
			return nil, err
		}
		definitions = append(definitions, definition)

		if stop, err := p.skip(token.KindRightParen); err != nil {
			return nil, err
		} else if stop {
			return definitions, nil
		}
	}
}

//	VariableDefinition :
//		Variable : Type DefaultValue? Directives[Const]?
func (p *parser) parseVariableDefinition() (*ast.VariableDefinition, error) {
	variable, err := p.parseVariable()
	if err != nil {
		return nil, err
	}

	if _, err := p.expect(token.KindColon); err != nil {
		return nil, err
	}

	t, err := p.parseTypeReference()
	if err != nil {
		return nil, err
	}

	definition := &ast.VariableDefinition{
		Variable: variable,
		Type:     t,
	}

	//	DefaultValue :
	//		= Value[Const]
	if hasDefault, err := p.skip(token.KindEquals); err != nil {
		return nil, err
	} else if hasDefault {
		if definition.DefaultValue, err = p.parseValue(true /* isConst */); err != nil {
			return nil, err
		}
	}

	if definition.Directives, err = p.parseDirectives(true /* isConst */); err != nil {
		return nil, err
	}

	return definition, nil
}

//	Variable :
//		$ Name
func (p *parser) parseVariable() (ast.Variable, error) {
	dollar, err := p.expect(token.KindDollar)
	if err != nil {
		return ast.Variable{}, err
	}

	name, err := p.parseName()
	if err != nil {
		return ast.Variable{}, err
	}

	return ast.Variable{
		Name:     name,
		Location: dollar.Location,
	}, nil
}

//	SelectionSet :
//		{ Selection+ }
func (p *parser) parseSelectionSet() (ast.SelectionSet, error) {
	if _, err := p.expect(token.KindLeftBrace); err != nil {
		return nil, err
	}

	var selections ast.SelectionSet
	for {
		selection, err := p.parseSelection()
		if err != nil {
			return nil, err
		}
		selections = append(selections, selection)

		if stop, err := p.skip(token.KindRightBrace); err != nil {
			return nil, err
		} else if stop {
			return selections, nil
		}
	}
}

//	Selection :
//		FragmentSpread
//		InlineFragment
//		Field
func (p *parser) parseSelection() (ast.Selection, error) {
	spread, err := attemptTo(p, p.parseFragmentSpread)
	if err != nil {
		return nil, err
	} else if spread != nil {
		return spread, nil
	}

	fragment, err := attemptTo(p, p.parseInlineFragment)
	if err != nil {
		return nil, err
	} else if fragment != nil {
		return fragment, nil
	}

	return p.parseField()
}

//	Field :
//		Alias? Name Arguments? Directives? SelectionSet?
//
//	Alias :
//		Name :
func (p *parser) parseField() (*ast.Field, error) {
	nameOrAlias, err := p.parseName()
	if err != nil {
		return nil, err
	}

	field := &ast.Field{
		Location: nameOrAlias.Location,
	}

	if hasAlias, err := p.skip(token.KindColon); err != nil {
		return nil, err
	} else if hasAlias {
		field.Alias = nameOrAlias
		if field.Name, err = p.parseName(); err != nil {
			return nil, err
		}
	} else {
		field.Name = nameOrAlias
	}

	if p.peek().Kind == token.KindLeftParen {
		if field.Arguments, err = p.parseArguments(false /* isConst */); err != nil {
			return nil, err
		}
	}

	if field.Directives, err = p.parseDirectives(false /* isConst */); err != nil {
		return nil, err
	}

	if p.peek().Kind == token.KindLeftBrace {
		if field.SelectionSet, err = p.parseSelectionSet(); err != nil {
			return nil, err
		}
	}

	return field, nil
}

//	Arguments[Const] :
//		( Argument[?Const]+ )
func (p *parser) parseArguments(isConst bool) (ast.Arguments, error) {
	if _, err := p.expect(token.KindLeftParen); err != nil {
		return nil, err
	}

	var args ast.Arguments
	for {
		arg, err := p.parseArgument(isConst)
		if err != nil {
			return nil, err
		}
		args = append(args, arg)

		if stop, err := p.skip(token.KindRightParen); err != nil {
			return nil, err
		} else if stop {
			return args, nil
		}
	}
}

//	Argument[Const] :
//		Name : Value[?Const]
func (p *parser) parseArgument(isConst bool) (*ast.Argument, error) {
	name, err := p.parseName()
	if err != nil {
		return nil, err
	}

	if _, err := p.expect(token.KindColon); err != nil {
		return nil, err
	}

	value, err := p.parseValue(isConst)
	if err != nil {
		return nil, err
	}

	return &ast.Argument{
		Name:  name,
		Value: value,
	}, nil
}

// Implements the parsing rules in the Fragments section.

//	FragmentSpread :
//		... FragmentName Directives?
func (p *parser) parseFragmentSpread() (*ast.FragmentSpread, error) {
	spread, err := p.expect(token.KindSpread)
	if err != nil {
		return nil, err
	}

	name, err := p.parseFragmentName()
	if err != nil {
		return nil, err
	}

	directives, err := p.parseDirectives(false /* isConst */)
	if err != nil {
		return nil, err
	}

	return &ast.FragmentSpread{
		Location:   spread.Location,
		Name:       name,
		Directives: directives,
	}, nil
}

//	InlineFragment :
//		... TypeCondition? Directives? SelectionSet
func (p *parser) parseInlineFragment() (*ast.InlineFragment, error) {
	spread, err := p.expect(token.KindSpread)
	if err != nil {
		return nil, err
	}

	fragment := &ast.InlineFragment{
		Location: spread.Location,
	}

	if tok := p.peek(); tok.Kind == token.KindName && tok.Value == "on" {
		if fragment.TypeCondition, err = p.parseTypeCondition(); err != nil {
			return nil, err
		}
	}

	if fragment.Directives, err = p.parseDirectives(false /* isConst */); err != nil {
		return nil, err
	}

	if fragment.SelectionSet, err = p.parseSelectionSet(); err != nil {
		return nil, err
	}

	return fragment, nil
}

//	FragmentDefinition :
//		fragment FragmentName TypeCondition Directives? SelectionSet
func (p *parser) parseFragmentDefinition() (*ast.FragmentDefinition, error) {
	keyword, err := p.expectKeyword("fragment")
	if err != nil {
		return nil, err
	}

	// A fragment named "on" can never be spread. Reject it outright instead of letting another
	// alternative report a less helpful error.
	if tok := p.peek(); tok.Kind == token.KindName && tok.Value == "on" {
		return nil, graphql.NewSyntaxError(p.lexer.Source(), tok.Location,
			fmt.Sprintf("Unexpected %s", tok.Description()))
	}

	definition := &ast.FragmentDefinition{
		Location: keyword.Location,
	}

	if definition.Name, err = p.parseFragmentName(); err != nil {
		return nil, err
	}

	if definition.TypeCondition, err = p.parseTypeCondition(); err != nil {
		return nil, err
	}

	if definition.Directives, err = p.parseDirectives(false /* isConst */); err != nil {
		return nil, err
	}

	if definition.SelectionSet, err = p.parseSelectionSet(); err != nil {
		return nil, err
	}

	return definition, nil
}

//	FragmentName :
//		Name but not on
func (p *parser) parseFragmentName() (ast.Name, error) {
	if tok := p.peek(); tok.Kind == token.KindName && tok.Value == "on" {
		return ast.Name{}, p.unexpected()
	}
	return p.parseName()
}

//	TypeCondition :
//		on NamedType
func (p *parser) parseTypeCondition() (ast.NamedType, error) {
	if _, err := p.expectKeyword("on"); err != nil {
		return ast.NamedType{}, err
	}
	return p.parseNamedType()
}

// Implements the parsing rules in the Values section.

//	Value[Const] :
//		[~Const] Variable
//		IntValue
//		FloatValue
//		StringValue
//		BooleanValue
//		NullValue
//		EnumValue
//		ListValue[?Const]
//		ObjectValue[?Const]
//
//	BooleanValue : one of `true` `false`
//
//	NullValue : `null`
//
//	EnumValue : Name but not `true`, `false` or `null`
func (p *parser) parseValue(isConst bool) (ast.Value, error) {
	tok := p.peek()
	switch tok.Kind {
	case token.KindLeftBracket:
		return p.parseListValue(isConst)

	case token.KindLeftBrace:
		return p.parseObjectValue(isConst)

	case token.KindInt:
		if _, err := p.advance(); err != nil {
			return nil, err
		}
		return ast.IntValue{
			Value:    tok.Value,
			Location: tok.Location,
		}, nil

	case token.KindFloat:
		if _, err := p.advance(); err != nil {
			return nil, err
		}
		return ast.FloatValue{
			Value:    tok.Value,
			Location: tok.Location,
		}, nil

	case token.KindString, token.KindBlockString:
		if _, err := p.advance(); err != nil {
			return nil, err
		}
		return ast.StringValue{
			Value:    tok.Value,
			Block:    tok.Kind == token.KindBlockString,
			Location: tok.Location,
		}, nil

	case token.KindName:
		if _, err := p.advance(); err != nil {
			return nil, err
		}
		switch tok.Value {
		case "true", "false":
			return ast.BooleanValue{
				Value:    tok.Value == "true",
				Location: tok.Location,
			}, nil
		case "null":
			return ast.NullValue{
				Location: tok.Location,
			}, nil
		}
		return ast.EnumValue{
			Value:    tok.Value,
			Location: tok.Location,
		}, nil

	case token.KindDollar:
		if !isConst {
			return p.parseVariable()
		}
	}

	return nil, p.unexpected()
}

//	ListValue[Const] :
//		[ ]
//		[ Value[?Const]+ ]
func (p *parser) parseListValue(isConst bool) (ast.Value, error) {
	start, err := p.expect(token.KindLeftBracket)
	if err != nil {
		return nil, err
	}

	list := ast.ListValue{
		Location: start.Location,
		Values:   []ast.Value{},
	}
	for {
		if stop, err := p.skip(token.KindRightBracket); err != nil {
			return nil, err
		} else if stop {
			return list, nil
		}

		value, err := p.parseValue(isConst)
		if err != nil {
			return nil, err
		}
		list.Values = append(list.Values, value)
	}
}

//	ObjectValue[Const] :
//		{ }
//		{ ObjectField[?Const]+ }
func (p *parser) parseObjectValue(isConst bool) (ast.Value, error) {
	start, err := p.expect(token.KindLeftBrace)
	if err != nil {
		return nil, err
	}

	object := ast.ObjectValue{
		Location: start.Location,
		Fields:   []*ast.ObjectField{},
	}
	for {
		if stop, err := p.skip(token.KindRightBrace); err != nil {
			return nil, err
		} else if stop {
			return object, nil
		}

		field, err := p.parseObjectField(isConst)
		if err != nil {
			return nil, err
		}
		object.Fields = append(object.Fields, field)
	}
}

//	ObjectField[Const] :
//		Name : Value[?Const]
func (p *parser) parseObjectField(isConst bool) (*ast.ObjectField, error) {
	name, err := p.parseName()
	if err != nil {
		return nil, err
	}

	if _, err := p.expect(token.KindColon); err != nil {
		return nil, err
	}

	value, err := p.parseValue(isConst)
	if err != nil {
		return nil, err
	}

	return &ast.ObjectField{
		Name:  name,
		Value: value,
	}, nil
}

// Implements the parsing rules in the Directives section.

//	Directives[Const] :
//		Directive[?Const]+
func (p *parser) parseDirectives(isConst bool) (ast.Directives, error) {
	var directives ast.Directives
	for p.peek().Kind == token.KindAt {
		directive, err := p.parseDirective(isConst)
		if err != nil {
			return nil, err
		}
		directives = append(directives, directive)
	}
	return directives, nil
}

//	Directive[Const] :
//		@ Name Arguments[?Const]?
func (p *parser) parseDirective(isConst bool) (*ast.Directive, error) {
	at, err := p.expect(token.KindAt)
	if err != nil {
		return nil, err
	}

	directive := &ast.Directive{
		Location: at.Location,
	}

	if directive.Name, err = p.parseName(); err != nil {
		return nil, err
	}

	if p.peek().Kind == token.KindLeftParen {
		if directive.Arguments, err = p.parseArguments(isConst); err != nil {
			return nil, err
		}
	}

	return directive, nil
}

// Implements the parsing rules in the Types section.

//	Type :
//		ListType
//		NonNullType
//		NamedType
//
//	ListType :
//		[ Type ]
//
//	NonNullType :
//		NamedType !
//		ListType !
func (p *parser) parseTypeReference() (ast.Type, error) {
	var t ast.NullableType

	list, err := attemptTo(p, p.parseListType)
	if err != nil {
		return nil, err
	}

	if list != nil {
		t = *list
	} else {
		named, err := p.parseNamedType()
		if err != nil {
			return nil, err
		}
		t = named
	}

	if nonNull, err := p.skip(token.KindBang); err != nil {
		return nil, err
	} else if nonNull {
		return ast.NonNullType{
			Type: t,
		}, nil
	}

	return t, nil
}

func (p *parser) parseListType() (*ast.ListType, error) {
	start, err := p.expect(token.KindLeftBracket)
	if err != nil {
		return nil, err
	}

	itemType, err := p.parseTypeReference()
	if err != nil {
		return nil, err
	}

	if _, err := p.expect(token.KindRightBracket); err != nil {
		return nil, err
	}

	return &ast.ListType{
		ItemType: itemType,
		Location: start.Location,
	}, nil
}

//	NamedType :
//		Name
func (p *parser) parseNamedType() (ast.NamedType, error) {
	name, err := p.parseName()
	if err != nil {
		return ast.NamedType{}, err
	}
	return ast.NamedType{
		Name: name,
	}, nil
}
