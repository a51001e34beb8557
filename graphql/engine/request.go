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
	"errors"
	"fmt"

	jsoniter "github.com/json-iterator/go"
	"github.com/tidwall/gjson"
)

// Request is a GraphQL request to run with Engine.
type Request struct {
	Query         string
	OperationName string
	Variables     map[string]interface{}

	// Values are made available to resolvers through graphql.ContextValue.
	Values []interface{}
}

// RequestParseError is returned by ParseRequest when the payload is not a valid request.
type RequestParseError struct {
	Err error
}

// Error implements Go's error interface.
func (err *RequestParseError) Error() string {
	return "invalid request payload: " + err.Err.Error()
}

// Unwrap returns the underlying error.
func (err *RequestParseError) Unwrap() error {
	return err.Err
}

var (
	errPayloadNotJSON   = errors.New("payload is not valid JSON")
	errPayloadNotObject = errors.New("payload must be a JSON object")
)

// Numbers in variables are decoded as json.Number so that integers keep their precision.
var variablesJSON = jsoniter.Config{
	UseNumber: true,
}.Froze()

// ParseRequest reads the "query", "operationName" and "variables" of a GraphQL-over-HTTP JSON body.
// The variables may also be given as a string holding a JSON object.
func ParseRequest(payload []byte) (Request, error) {
	if !gjson.ValidBytes(payload) {
		return Request{}, &RequestParseError{errPayloadNotJSON}
	}
	body := gjson.ParseBytes(payload)
	if !body.IsObject() {
		return Request{}, &RequestParseError{errPayloadNotObject}
	}

	var (
		req    Request
		fields = gjson.GetManyBytes(payload, "query", "operationName", "variables")
		err    error
	)

	if req.Query, err = optionalString(fields[0], "query"); err != nil {
		return Request{}, err
	}
	if req.OperationName, err = optionalString(fields[1], "operationName"); err != nil {
		return Request{}, err
	}

	variables := fields[2]
	if variables.Type == gjson.String && variables.Str != "" {
		if !gjson.Valid(variables.Str) {
			return Request{}, &RequestParseError{errors.New(`"variables" is not valid JSON`)}
		}
		variables = gjson.Parse(variables.Str)
	}
	switch {
	case variables.IsObject():
		if err := variablesJSON.UnmarshalFromString(variables.Raw, &req.Variables); err != nil {
			return Request{}, &RequestParseError{err}
		}
	case variables.Type == gjson.Null, variables.Type == gjson.String && variables.Str == "":
	default:
		return Request{}, &RequestParseError{errors.New(`"variables" must be an object`)}
	}

	return req, nil
}

func optionalString(value gjson.Result, key string) (string, error) {
	switch value.Type {
	case gjson.Null:
		return "", nil
	case gjson.String:
		return value.Str, nil
	}
	return "", &RequestParseError{fmt.Errorf(`"%s" must be a string`, key)}
}
