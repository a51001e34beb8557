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
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"unsafe"

	"github.com/Martmists-GH/multiplatform-everything-sub000/graphql/token"

	jsoniter "github.com/json-iterator/go"
)

// ErrKind defines the kind of error this is.
type ErrKind uint8

// Enumeration of Kind
const (
	ErrKindOther      ErrKind = iota // Unclassified error. This value is not printed in the error message.
	ErrKindCoercion                  // Failed to coerce input or result values for desired GraphQL type.
	ErrKindSyntax                    // Represent a syntax error in the GraphQL source.
	ErrKindValidation                // Represent an error occurred when building or validating schema.
	ErrKindExecution                 // Represent an error occurred when executing a query.
	ErrKindInternal                  // Internal error
)

func (k ErrKind) String() string {
	switch k {
	case ErrKindOther:
		return "other error"
	case ErrKindCoercion:
		return "coercion error"
	case ErrKindSyntax:
		return "syntax error"
	case ErrKindValidation:
		return "validation error"
	case ErrKindExecution:
		return "execution error"
	case ErrKindInternal:
		return "internal error"
	}
	return "unknown error kind"
}

// ErrorExtensions provides an additional entry to a GraphQL error with key "extensions". It is
// useful for attaching vendor-specific error data (such as error code).
type ErrorExtensions map[string]interface{}

// ErrorLocation contains a line number and a column number to point out the beginning of an
// associated syntax element.
type ErrorLocation struct {
	// Both line and column are positive numbers starting from 1
	Line   uint
	Column uint
}

// ErrorLocationOf converts a 0-indexed location in source into an ErrorLocation. An invalid
// location (such as the one carried by a DummyValue) yields the zero ErrorLocation.
func ErrorLocationOf(source *token.Source, location token.SourceLocation) ErrorLocation {
	if source == nil || !location.IsValid() {
		return ErrorLocation{}
	}
	info := source.LocationInfoOf(location)
	return ErrorLocation{
		Line:   info.Line,
		Column: info.Column,
	}
}

// IsValid returns false for the zero ErrorLocation.
func (location ErrorLocation) IsValid() bool {
	return location.Line > 0
}

// ErrorWithLocations indicates an error that contains locations. If "locations" is not given in the
// arguments to NewError, NewError will retrieve one from the underlying error (if provided) that
// implements this interface.
type ErrorWithLocations interface {
	Locations() []ErrorLocation
}

// ResponsePath is an array of "key" where each key is either a string (indicating the field name)
// or an integer (indicating an index to list.) It is immutable: WithFieldName and WithIndex return
// a new path so that concurrently executing fields never share a backing array.
type ResponsePath struct {
	// Currently this could only be either int or string.
	keys []interface{}
}

// Empty returns true if the path doesn't contain any path keys.
func (path ResponsePath) Empty() bool {
	return len(path.keys) == 0
}

// Keys returns a copy of the keys in the path.
func (path ResponsePath) Keys() []interface{} {
	keys := make([]interface{}, len(path.keys))
	copy(keys, path.keys)
	return keys
}

func (path ResponsePath) with(key interface{}) ResponsePath {
	keys := make([]interface{}, len(path.keys)+1)
	copy(keys, path.keys)
	keys[len(path.keys)] = key
	return ResponsePath{keys}
}

// WithFieldName returns a path with the field name added to the end.
func (path ResponsePath) WithFieldName(name string) ResponsePath {
	return path.with(name)
}

// WithIndex returns a path with the list index added to the end.
func (path ResponsePath) WithIndex(index int) ResponsePath {
	return path.with(index)
}

// String serializes a ResponsePath to more readable format.
func (path ResponsePath) String() string {
	var b strings.Builder
	for _, key := range path.keys {
		switch key := key.(type) {
		case string:
			// Field name
			if b.Len() > 0 {
				b.WriteRune('.')
			}
			b.WriteString(key)

		case int:
			// Index
			b.WriteRune('[')
			b.WriteString(strconv.Itoa(key))
			b.WriteRune(']')
		}
	}
	return b.String()
}

// responsePathMarshaller implements jsoniter.ValEncoder to encode ResponsePath to JSON.
type responsePathMarshaller struct{}

var _ jsoniter.ValEncoder = responsePathMarshaller{}

// IsEmpty implements jsoniter.ValEncoder.
func (responsePathMarshaller) IsEmpty(ptr unsafe.Pointer) bool {
	return len((*ResponsePath)(ptr).keys) == 0
}

// Encode implements jsoniter.ValEncoder.
func (responsePathMarshaller) Encode(ptr unsafe.Pointer, stream *jsoniter.Stream) {
	path := (*ResponsePath)(ptr)
	stream.WriteArrayStart()
	for i, key := range path.keys {
		if i > 0 {
			stream.WriteMore()
		}
		switch key := key.(type) {
		case string:
			stream.WriteString(key)
		case int:
			stream.WriteInt(key)
		default:
			stream.Error = fmt.Errorf(`unsupported type "%T" of key in response path`, key)
			return
		}
	}
	stream.WriteArrayEnd()
}

// MarshalJSON serializes path keys to JSON.
func (path ResponsePath) MarshalJSON() ([]byte, error) {
	return jsoniter.Marshal(&path)
}

// An Error describes a failure to parse a document, build a schema or execute an operation. The
// JSON form carries "message", "locations", "path" and "extensions"; Kind and the wrapped error only
// show up when the error is printed.
type Error struct {
	Message string

	// Locations in the document the error refers to. An execution error has a single location, the
	// field that failed.
	Locations []ErrorLocation

	// Path of the response field that failed. Only execution errors carry one.
	Path ResponsePath

	// Extensions are written to the "extensions" entry of the response.
	Extensions ErrorExtensions

	// Err is the error that caused this one.
	Err error

	Kind ErrKind
}

var _ error = (*Error)(nil)

// NewError builds an Error from a message and any of ErrorLocation, []ErrorLocation, ResponsePath,
// ErrorExtensions, ErrKind and a causing error. Whatever is not given is taken from the causing
// error when it has one.
func NewError(message string, args ...interface{}) error {
	e := &Error{Message: message}

	for _, arg := range args {
		switch arg := arg.(type) {
		case ErrorLocation:
			if arg.IsValid() {
				e.Locations = []ErrorLocation{arg}
			}
		case []ErrorLocation:
			e.Locations = arg
		case ResponsePath:
			e.Path = arg
		case ErrorExtensions:
			e.Extensions = arg
		case ErrKind:
			e.Kind = arg
		case error:
			e.Err = arg
		default:
			return fmt.Errorf("unknown type %T, value %v in error call", arg, arg)
		}
	}

	if e.Err != nil {
		e.inherit(e.Err)
	}
	return e
}

// inherit fills the context missing from e with the one of cause.
func (e *Error) inherit(cause error) {
	if len(e.Locations) == 0 {
		if withLocations, ok := cause.(ErrorWithLocations); ok {
			e.Locations = withLocations.Locations()
		}
	}

	inner, ok := cause.(*Error)
	if !ok {
		return
	}
	if len(e.Locations) == 0 && len(inner.Locations) > 0 {
		e.Locations = append([]ErrorLocation(nil), inner.Locations...)
	}
	if e.Path.Empty() {
		e.Path = inner.Path
	}
	if e.Extensions == nil {
		e.Extensions = inner.Extensions
	}
	if e.Kind == ErrKindOther {
		e.Kind = inner.Kind
	}
}

// WrapError builds an Error with message caused by err.
func WrapError(err error, message string) error {
	return NewError(message, err)
}

// WrapErrorf is WrapError with a formatted message.
func WrapErrorf(err error, format string, args ...interface{}) error {
	return NewError(fmt.Sprintf(format, args...), err)
}

// Unwrap returns the underlying error.
func (e *Error) Unwrap() error {
	return e.Err
}

// Error implements Go's error interface. A chain of Errors is printed one per line with the
// locations, path and kind repeated only where they change.
func (e *Error) Error() string {
	var b strings.Builder
	e.print(&b, nil)
	return b.String()
}

func (e *Error) print(b *strings.Builder, outer *Error) {
	start := b.Len()
	separate := func(sep string) {
		if b.Len() > start {
			b.WriteString(sep)
		}
	}

	b.WriteString(e.Message)

	if len(e.Locations) > 0 && (outer == nil || !reflect.DeepEqual(outer.Locations, e.Locations)) {
		if b.Len() > start {
			b.WriteString(" at ")
		} else {
			b.WriteString("At ")
		}
		fmt.Fprintf(b, "%+v", e.Locations)
	}

	if !e.Path.Empty() && (outer == nil || !reflect.DeepEqual(outer.Path, e.Path)) {
		if b.Len() > start {
			b.WriteString(" for ")
		} else {
			b.WriteString("For ")
		}
		b.WriteString("response field in the path ")
		b.WriteString(e.Path.String())
	}

	if e.Kind != ErrKindOther && (outer == nil || outer.Kind != e.Kind) {
		separate(": ")
		b.WriteString(e.Kind.String())
	}

	switch inner := e.Err.(type) {
	case nil:
	case *Error:
		separate(":\n  ")
		inner.print(b, e)
	default:
		if inner.Error() != e.Message {
			separate(": ")
			b.WriteString(inner.Error())
		}
	}
}

// MarshalJSON implements json.Marshaler.
func (e *Error) MarshalJSON() ([]byte, error) {
	return jsoniter.Marshal(e)
}

// errorMarshaller implements jsoniter.ValEncoder to encode Error to JSON.
type errorMarshaller struct{}

var _ jsoniter.ValEncoder = errorMarshaller{}

// IsEmpty implements jsoniter.ValEncoder.
func (errorMarshaller) IsEmpty(ptr unsafe.Pointer) bool {
	return (*Error)(ptr) == nil
}

// Encode implements jsoniter.ValEncoder.
func (errorMarshaller) Encode(ptr unsafe.Pointer, stream *jsoniter.Stream) {
	err := (*Error)(ptr)
	stream.WriteObjectStart()

	stream.WriteObjectField("message")
	stream.WriteString(err.Message)

	if len(err.Locations) > 0 {
		stream.WriteMore()
		stream.WriteObjectField("locations")
		stream.WriteArrayStart()
		for i := range err.Locations {
			if i > 0 {
				stream.WriteMore()
			}
			location := &err.Locations[i]
			stream.WriteObjectStart()
			stream.WriteObjectField("line")
			stream.WriteUint(location.Line)
			stream.WriteMore()
			stream.WriteObjectField("column")
			stream.WriteUint(location.Column)
			stream.WriteObjectEnd()
		}
		stream.WriteArrayEnd()
	}

	if !err.Path.Empty() {
		stream.WriteMore()
		stream.WriteObjectField("path")
		stream.WriteVal(&err.Path)
	}

	if len(err.Extensions) > 0 {
		stream.WriteMore()
		stream.WriteObjectField("extensions")
		stream.WriteVal(map[string]interface{}(err.Extensions))
	}

	stream.WriteObjectEnd()
}

// Errors wraps a list of Error. Intentionally wrapped in a struct instead of a simple alias to
// []*Error (i.e., "type Errors []*Error") to enforce error checks to use errs.HaveOccurred()
// instead of (errs != nil) (errs may be an empty array which should be treat as no error).
type Errors struct {
	Errors []*Error
}

// ErrorsOf is an utility function to constructs an Errors value. It takes arguments in one of the
// form otherwise it panics:
//
//  1. A list of error values which must all be *graphql.Error; or
//  2. Arguments that can be taken by NewError to construct an Error value; That is, a string
//     specified the error message followed by other error context (e.g., locations).
//  3. A list of error values followed by arguments that can be taken by NewError.
func ErrorsOf(args ...interface{}) Errors {
	var errs Errors
	for i, arg := range args {
		switch arg := arg.(type) {
		case error:
			errs.Append(arg)

		case string:
			errs.Emplace(arg, args[(i+1):]...)
			return errs

		default:
			panic("ErrorsOf: bad call")
		}
	}
	return errs
}

// NoErrors constructs an empty Errors.
func NoErrors() Errors {
	return Errors{}
}

// Emplace constructs an Error from arguments and append to the errs. Note that it would panic if
// unsupported argument is supplied in args.
func (errs *Errors) Emplace(message string, args ...interface{}) {
	errs.Append(NewError(message, args...))
}

// Append appends list of Error's to the end of the Errors. An error that is not a *graphql.Error is
// wrapped into one first. The update is occurred in-place to the given Errors.
func (errs *Errors) Append(e ...error) {
	for _, err := range e {
		gqlErr, ok := err.(*Error)
		if !ok {
			gqlErr = NewError(err.Error(), err).(*Error)
		}
		errs.Errors = append(errs.Errors, gqlErr)
	}
}

// AppendErrors takes a list of Errors's and pulls every Error in each Errors to append to "errs".
func (errs *Errors) AppendErrors(e ...Errors) {
	for _, err := range e {
		errs.Errors = append(errs.Errors, err.Errors...)
	}
}

// HaveOccurred returns true if some errors exist. Use this instead of relying on "errs != nil" for
// checking existence of error because errs may be an empty array.
func (errs Errors) HaveOccurred() bool {
	return len(errs.Errors) > 0
}

// Error implements Go's error interface so that a list of errors can be returned from functions
// like SchemaBuilder.Build.
func (errs Errors) Error() string {
	messages := make([]string, len(errs.Errors))
	for i, err := range errs.Errors {
		messages[i] = err.Error()
	}
	return strings.Join(messages, "\n")
}

func init() {
	jsoniter.RegisterTypeEncoder("graphql.ResponsePath", responsePathMarshaller{})
	jsoniter.RegisterTypeEncoder("graphql.Error", errorMarshaller{})
}
