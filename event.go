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

	"github.com/db47h/sgml/token"
)

// An Event is a lexer event recorded by a Recorder or returned by a
// Tokenizer. Only the fields relevant to Kind are set:
//
//	Data, PI, Comment           Text
//	StartTag                    Name, Attrs
//	EndTag                      Name
//	CharRef                     Ordinal, Term
//	NamedCharRef, EntityRef     Name, Term
//	Declaration                 Tokens
//	Error, Limitation           Text (the message)
type Event struct {
	Kind    token.Token
	Pos     token.Pos
	Name    string
	Text    string
	Attrs   []Attr
	Ordinal int
	Term    string
	Tokens  []DeclToken
}

func (e Event) String() string {
	var b strings.Builder
	b.WriteString(e.Kind.String())
	switch e.Kind {
	case token.Data, token.PI, token.Comment:
		b.WriteByte(' ')
		b.WriteString(strconv.Quote(e.Text))
	case token.StartTag:
		b.WriteByte(' ')
		b.WriteString(e.Name)
		for _, a := range e.Attrs {
			b.WriteByte(' ')
			b.WriteString(a.String())
		}
	case token.EndTag:
		b.WriteByte(' ')
		b.WriteString(e.Name)
	case token.CharRef:
		b.WriteByte(' ')
		b.WriteString(strconv.Itoa(e.Ordinal))
		b.WriteByte(' ')
		b.WriteString(strconv.Quote(e.Term))
	case token.NamedCharRef, token.EntityRef:
		b.WriteByte(' ')
		b.WriteString(e.Name)
		b.WriteByte(' ')
		b.WriteString(strconv.Quote(e.Term))
	case token.Declaration:
		if len(e.Tokens) > 0 {
			b.WriteByte(' ')
			b.WriteString(joinTokens(e.Tokens))
		}
	case token.Error, token.Limitation:
		b.WriteByte(' ')
		b.WriteString(e.Text)
	}
	return b.String()
}

// A Recorder is a Handler that records events. If Lexer is set, recorded
// events carry the lexer's position.
type Recorder struct {
	Events []Event
	Lexer  *Lexer
}

func (r *Recorder) push(e Event) {
	if r.Lexer != nil {
		e.Pos = r.Lexer.Pos()
	}
	r.Events = append(r.Events, e)
}

// Strings returns the string representation of all recorded events.
func (r *Recorder) Strings() []string {
	s := make([]string, len(r.Events))
	for i := range r.Events {
		s[i] = r.Events[i].String()
	}
	return s
}

// Reset discards all recorded events.
func (r *Recorder) Reset() {
	r.Events = r.Events[:0]
}

func (r *Recorder) Data(text string) {
	r.push(Event{Kind: token.Data, Text: text})
}

func (r *Recorder) StartTag(name string, attrs []Attr) {
	r.push(Event{Kind: token.StartTag, Name: name, Attrs: attrs})
}

func (r *Recorder) EndTag(name string) {
	r.push(Event{Kind: token.EndTag, Name: name})
}

func (r *Recorder) CharRef(ordinal int, term string) {
	r.push(Event{Kind: token.CharRef, Ordinal: ordinal, Term: term})
}

func (r *Recorder) NamedCharRef(name string, term string) {
	r.push(Event{Kind: token.NamedCharRef, Name: name, Term: term})
}

func (r *Recorder) EntityRef(name string, term string) {
	r.push(Event{Kind: token.EntityRef, Name: name, Term: term})
}

func (r *Recorder) PI(text string) {
	r.push(Event{Kind: token.PI, Text: text})
}

func (r *Recorder) Comment(text string) {
	r.push(Event{Kind: token.Comment, Text: text})
}

func (r *Recorder) Declaration(tokens []DeclToken) {
	r.push(Event{Kind: token.Declaration, Tokens: tokens})
}

func (r *Recorder) LexicalError(msg string) {
	r.push(Event{Kind: token.Error, Text: msg})
}

func (r *Recorder) LexicalLimitation(msg string) {
	r.push(Event{Kind: token.Limitation, Text: msg})
}
