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
	"strconv"
	"strings"
)

// A Handler receives the events produced by a Lexer. Handler methods are
// called synchronously from Feed and Close, and may in turn call any method of
// the Lexer, including Feed and Close.
//
// The term argument of reference events is the reference terminator: ";",
// "\n", or "" if the reference was ended by any other character or by the end
// of input.
type Handler interface {
	Data(text string)
	StartTag(name string, attrs []Attr)
	EndTag(name string)
	CharRef(ordinal int, term string)
	NamedCharRef(name string, term string)
	EntityRef(name string, term string)
	PI(text string)
	Comment(text string)
	Declaration(tokens []DeclToken)
	LexicalError(msg string)
	LexicalLimitation(msg string)
}

// NopHandler implements Handler and ignores all events. It is meant to be
// embedded in handlers interested in a subset of events only.
type NopHandler struct{}

func (NopHandler) Data(string) {}
func (NopHandler) StartTag(string, []Attr) {}
func (NopHandler) EndTag(string) {}
func (NopHandler) CharRef(int, string) {}
func (NopHandler) NamedCharRef(string, string) {}
func (NopHandler) EntityRef(string, string) {}
func (NopHandler) PI(string) {}
func (NopHandler) Comment(string) {}
func (NopHandler) Declaration([]DeclToken) {}
func (NopHandler) LexicalError(string) {}
func (NopHandler) LexicalLimitation(string) {}

// An Attr is a start tag attribute. HasValue is false for attributes
// specified without a value (e.g. <td nowrap>).
type Attr struct {
	Name     string
	Value    string
	HasValue bool
}

func (a Attr) String() string {
	if !a.HasValue {
		return a.Name
	}
	return a.Name + "=" + strconv.Quote(a.Value)
}

// DeclKind is the type of a markup declaration token.
type DeclKind int

// Declaration token kinds.
const (
	DeclName    DeclKind = iota // name token, including #NAME and %name; forms
	DeclNumber                  // name token starting with a digit
	DeclLiteral                 // quoted literal, quotes removed
	DeclComment                 // -- comment --, delimiters removed
)

// A DeclToken is a token in a markup declaration.
type DeclToken struct {
	Kind DeclKind
	Text string
}

func (t DeclToken) String() string {
	switch t.Kind {
	case DeclLiteral:
		return strconv.Quote(t.Text)
	case DeclComment:
		return "--" + t.Text + "--"
	default:
		return t.Text
	}
}

func joinTokens(tokens []DeclToken) string {
	var b strings.Builder
	for i, t := range tokens {
		if i > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(t.String())
	}
	return b.String()
}
