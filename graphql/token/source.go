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
	"sort"
	"sync"
	"unicode/utf8"
)

// SourceBody contains contents of a GraphQL document in a byte sequence.
type SourceBody []byte

// RuneAt decodes a rune at given pos. It also returns the number of bytes occupied by the rune.
// A position past the end yields (-1, 0).
func (body SourceBody) RuneAt(pos int) (rune, int) {
	if pos >= len(body) {
		return -1, 0
	}

	// Fast path: characters below Runeself are represented as themselves in a single byte.
	c := body[pos]
	if c < utf8.RuneSelf {
		return rune(c), 1
	}

	return utf8.DecodeRune(body[pos:])
}

// At returns the byte in the source at given position. Return 0 if the given position is out of
// body's range.
func (body SourceBody) At(pos int) byte {
	if pos >= len(body) {
		return 0
	}
	return body[pos]
}

// Size returns the body size in bytes.
func (body SourceBody) Size() int {
	return len(body)
}

// SourceLocationInfo describes a source location for a SourceLocation with source name, line and
// column number. Line and Column are 1-indexed.
type SourceLocationInfo struct {
	Name   string
	Line   uint
	Column uint
}

// SourceConfig specifies configuration of a Source.
type SourceConfig struct {
	Body SourceBody

	// `Name`, `LineOffset` and `ColumnOffset` are optional. They are useful for clients who store
	// GraphQL documents in source files. For example, if the GraphQL input starts at line 40 in a
	// file named Foo.graphql, it might be useful for `Name` to be "Foo.graphql" with location
	// information `LineOffset: 40` and `ColumnOffset: 0`. `LineOffset` and `ColumnOffset` are both
	// 0-indexed.
	Name         string
	LineOffset   uint
	ColumnOffset uint
}

// Source represent a GraphQL source text.
type Source struct {
	config SourceConfig

	// Byte offsets at which each line begins. Built on the first call to LocationInfoOf.
	lineStarts     []int
	lineStartsOnce sync.Once
}

// DefaultSourceName is given to a Source created without a name.
const DefaultSourceName = "GraphQL request"

// NewSource initializes a Source instance from given config.
func NewSource(config *SourceConfig) *Source {
	source := &Source{
		config: *config,
	}
	if len(config.Name) == 0 {
		source.config.Name = DefaultSourceName
	}
	return source
}

// NewSourceFromString creates an unnamed Source that holds the given document text.
func NewSourceFromString(body string) *Source {
	return NewSource(&SourceConfig{
		Body: SourceBody(body),
	})
}

// Body returns source.config.Body.
func (source *Source) Body() SourceBody {
	return source.config.Body
}

// Name returns source.config.Name.
func (source *Source) Name() string {
	return source.config.Name
}

// LineOffset returns source.config.LineOffset.
func (source *Source) LineOffset() uint {
	return source.config.LineOffset
}

// ColumnOffset returns source.config.ColumnOffset.
func (source *Source) ColumnOffset() uint {
	return source.config.ColumnOffset
}

// LocationFromPos returns a SourceLocation that represent the location for given position in the
// body.
func (source *Source) LocationFromPos(bytePos int) SourceLocation {
	if bytePos < 0 || bytePos > source.Body().Size() {
		panic("illegal byte position value")
	}
	return SourceLocation(bytePos)
}

// computeLineStarts records the offset following every line terminator. "\r\n" counts as a single
// terminator.
func (source *Source) computeLineStarts() {
	body := source.Body()
	starts := []int{0}
	for i := 0; i < len(body); i++ {
		switch body[i] {
		case '\r':
			if i+1 < len(body) && body[i+1] == '\n' {
				i++
			}
			starts = append(starts, i+1)
		case '\n':
			starts = append(starts, i+1)
		}
	}
	source.lineStarts = starts
}

// LocationInfoOf computes and returns a SourceLocationInfo for a given SourceLocation.
func (source *Source) LocationInfoOf(loc SourceLocation) SourceLocationInfo {
	if !loc.IsValid() {
		return SourceLocationInfo{
			Name: source.Name(),
		}
	}

	source.lineStartsOnce.Do(source.computeLineStarts)

	position := int(loc)
	if size := source.Body().Size(); position > size {
		position = size
	}

	// Find the last line that starts at or before position.
	starts := source.lineStarts
	line := sort.Search(len(starts), func(i int) bool {
		return starts[i] > position
	}) - 1

	return SourceLocationInfo{
		Name:   source.Name(),
		Line:   source.LineOffset() + uint(line) + 1,
		Column: source.ColumnOffset() + uint(position-starts[line]) + 1,
	}
}
