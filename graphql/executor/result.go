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
	"io"
	"unsafe"

	"github.com/Martmists-GH/multiplatform-everything-sub000/graphql"
	jsoniter "github.com/json-iterator/go"
)

// ResultObject is an object in the result data. Fields keep the order in which they were selected
// in the document, which is not necessarily the order in which they were resolved. Values are nil,
// bool, int64, float64, string, []interface{}, *ResultObject or a host value produced by a custom
// scalar.
type ResultObject struct {
	keys   []string
	values []interface{}
}

func newResultObject(size int) *ResultObject {
	return &ResultObject{
		keys:   make([]string, 0, size),
		values: make([]interface{}, 0, size),
	}
}

func (object *ResultObject) set(key string, value interface{}) {
	object.keys = append(object.keys, key)
	object.values = append(object.values, value)
}

// Len returns the number of fields.
func (object *ResultObject) Len() int {
	return len(object.keys)
}

// Keys returns the response keys in selection order.
func (object *ResultObject) Keys() []string {
	return object.keys
}

// Get returns the value of the field with the response key.
func (object *ResultObject) Get(key string) (interface{}, bool) {
	for i, k := range object.keys {
		if k == key {
			return object.values[i], true
		}
	}
	return nil, false
}

// MarshalJSON implements json.Marshaler.
func (object *ResultObject) MarshalJSON() ([]byte, error) {
	return jsoniter.Marshal(object)
}

// ExecutionResult contains result from running an operation.
type ExecutionResult struct {
	// Data is nil either when the request failed before execution started or when a field error
	// nullified the whole result. HasData tells the two apart.
	Data   *ResultObject
	Errors graphql.Errors

	executed bool
}

// NewErrorResult creates the result of a request that failed before execution. Its JSON encoding
// contains no "data" entry.
func NewErrorResult(errs graphql.Errors) *ExecutionResult {
	return &ExecutionResult{Errors: errs}
}

// HasData returns true if the operation was executed, in which case the encoded result contains a
// "data" entry (possibly null).
func (result *ExecutionResult) HasData() bool {
	return result.executed
}

// MarshalJSON implements json.Marshaler.
func (result *ExecutionResult) MarshalJSON() ([]byte, error) {
	return jsoniter.Marshal(result)
}

// MarshalJSONTo writes the JSON encoding of result followed by a newline to w.
func (result *ExecutionResult) MarshalJSONTo(w io.Writer) error {
	stream := jsoniter.NewStream(jsoniter.ConfigDefault, w, 512)
	stream.WriteVal(result)
	stream.WriteRaw("\n")
	if stream.Error != nil {
		return stream.Error
	}
	return stream.Flush()
}

// resultObjectMarshaller implements jsoniter.ValEncoder to encode ResultObject to JSON.
type resultObjectMarshaller struct{}

var _ jsoniter.ValEncoder = resultObjectMarshaller{}

// IsEmpty implements jsoniter.ValEncoder.
func (resultObjectMarshaller) IsEmpty(ptr unsafe.Pointer) bool {
	return (*ResultObject)(ptr).Len() == 0
}

// Encode implements jsoniter.ValEncoder.
func (resultObjectMarshaller) Encode(ptr unsafe.Pointer, stream *jsoniter.Stream) {
	object := (*ResultObject)(ptr)
	stream.WriteObjectStart()
	for i, key := range object.keys {
		if i > 0 {
			stream.WriteMore()
		}
		stream.WriteObjectField(key)
		writeResultValue(stream, object.values[i])
	}
	stream.WriteObjectEnd()
}

func writeResultValue(stream *jsoniter.Stream, value interface{}) {
	switch value := value.(type) {
	case nil:
		stream.WriteNil()
	case bool:
		stream.WriteBool(value)
	case int64:
		stream.WriteInt64(value)
	case float64:
		stream.WriteFloat64(value)
	case string:
		stream.WriteString(value)
	case *ResultObject:
		if value == nil {
			stream.WriteNil()
			return
		}
		stream.WriteVal(value)
	case []interface{}:
		stream.WriteArrayStart()
		for i, item := range value {
			if i > 0 {
				stream.WriteMore()
			}
			writeResultValue(stream, item)
		}
		stream.WriteArrayEnd()
	default:
		stream.WriteVal(value)
	}
}

// executionResultMarshaller implements jsoniter.ValEncoder to encode ExecutionResult to JSON.
type executionResultMarshaller struct{}

var _ jsoniter.ValEncoder = executionResultMarshaller{}

// IsEmpty implements jsoniter.ValEncoder.
func (executionResultMarshaller) IsEmpty(ptr unsafe.Pointer) bool {
	return false
}

// Encode implements jsoniter.ValEncoder.
func (executionResultMarshaller) Encode(ptr unsafe.Pointer, stream *jsoniter.Stream) {
	result := (*ExecutionResult)(ptr)
	stream.WriteObjectStart()

	// "errors" goes first to make it clear when something went wrong.
	if result.Errors.HaveOccurred() {
		stream.WriteObjectField("errors")
		stream.WriteArrayStart()
		for i, err := range result.Errors.Errors {
			if i > 0 {
				stream.WriteMore()
			}
			stream.WriteVal(err)
		}
		stream.WriteArrayEnd()
		if result.executed {
			stream.WriteMore()
		}
	}

	if result.executed {
		stream.WriteObjectField("data")
		writeResultValue(stream, result.Data)
	}

	stream.WriteObjectEnd()
}

func init() {
	jsoniter.RegisterTypeEncoder("executor.ResultObject", resultObjectMarshaller{})
	jsoniter.RegisterTypeEncoder("executor.ExecutionResult", executionResultMarshaller{})
}
