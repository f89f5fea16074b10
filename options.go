// Copyright 2017-2020 Denis Bernard <db047h@gmail.com>
//
// Permission is hereby granted, free of charge, to any person obtaining a copy of
// this software and associated documentation files (the "Software"), to deal in
// the Software without restriction, including without limitation the rights to
// use, copy, modify, merge, publish, distribute, sublicense, and/or sell copies of
// the Software, and to permit persons to whom the Software is furnished to do so,
// subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in all
// copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY, FITNESS
// FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE AUTHORS OR
// COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER LIABILITY, WHETHER
// IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM, OUT OF OR IN
// CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE SOFTWARE.

package sgml

import (
	"strings"

	"github.com/db47h/sgml/entity"
	"golang.org/x/net/html/atom"
)

const defaultBufferSize = 4 << 10

// HTMLLiteralElements lists the HTML elements whose content is literal text.
var HTMLLiteralElements = []string{
	atom.Script.String(),
	atom.Style.String(),
	atom.Xmp.String(),
	atom.Listing.String(),
}

type options struct {
	strict     bool
	normalize  bool
	literal    map[string]struct{}
	charEntity func(name string) bool
	entities   entity.Lookup
	trackLines bool
	fileName   string
	bufSize    int
}

func newOptions(opts []Option) *options {
	o := &options{
		normalize:  true,
		charEntity: entity.IsHTML,
		bufSize:    defaultBufferSize,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// An Option is a configuration option for a new Lexer or Tokenizer.
type Option func(*options)

// Strict selects the strict (formal SGML grammar) recognition policy. The
// default is lenient.
func Strict(on bool) Option {
	return func(o *options) {
		o.strict = on
	}
}

// Normalize sets whether tag names, attribute names, named character reference
// names and declaration names are converted to lower case. The default is true.
func Normalize(on bool) Option {
	return func(o *options) {
		o.normalize = on
	}
}

// LiteralElements registers elements whose content is literal text: after
// reporting a start tag for one of these elements, the lexer enters literal
// mode until the matching end tag. Names are matched case-insensitively.
//
// See HTMLLiteralElements.
func LiteralElements(names ...string) Option {
	return func(o *options) {
		if o.literal == nil {
			o.literal = make(map[string]struct{}, len(names))
		}
		for _, n := range names {
			if a := atom.Lookup([]byte(strings.ToLower(n))); a != 0 {
				n = a.String()
			}
			o.literal[strings.ToLower(n)] = struct{}{}
		}
	}
}

// CharEntities sets the function used to decide whether &name is a named
// character reference (f returns true) or a general entity reference. The name
// passed to f is already case-normalized if normalization is enabled. The
// default is entity.IsHTML. A nil f reports every &name as an entity reference.
func CharEntities(f func(name string) bool) Option {
	return func(o *options) {
		o.charEntity = f
	}
}

// Entities sets the lookup function used to replace entity references in
// quoted attribute values. It takes precedence over the HTML character
// entities, which are always resolved.
func Entities(l entity.Lookup) Option {
	return func(o *options) {
		o.entities = l
	}
}

// TrackLines enables line tracking. name is used as the file name of reported
// positions.
func TrackLines(name string) Option {
	return func(o *options) {
		o.trackLines = true
		o.fileName = name
	}
}

// BufferSize sets the size of the read buffer of a Tokenizer. It has no effect
// on a Lexer.
func BufferSize(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.bufSize = n
		}
	}
}
