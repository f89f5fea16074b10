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
	"errors"
	"fmt"
	"strings"

	"github.com/db47h/sgml/entity"
	"github.com/db47h/sgml/token"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// ErrClosed is returned by Write, and used as a panic value by Feed and Close,
// when input is supplied to a closed Lexer.
var ErrClosed = errors.New("sgml: lexer closed")

type diag struct {
	limitation bool
	msg        string
}

// A Lexer is a push lexer for SGML and HTML documents. Input is supplied in
// arbitrary chunks with Feed and events are delivered synchronously to a
// Handler. The sequence of events does not depend on how the input is split
// into chunks.
//
// A Lexer must not be used concurrently from multiple goroutines.
type Lexer struct {
	h    Handler
	buf  []byte    // unconsumed input
	i    int       // scan cursor in buf
	offs token.Pos // stream offset of buf[0]
	pos  token.Pos // start of the current event

	data    []byte // pending character data
	dataPos token.Pos

	literal    string // closing element name in literal mode
	literalEnd endCandidate
	strict     bool
	normalize  bool
	noMoreTags bool

	scanning  bool // a scan pass is running
	finishing bool // Close was called
	closed    bool

	diags      []diag
	prog       progress // suspended scan
	lower      cases.Caser
	literals   map[string]struct{}
	charEntity func(name string) bool
	entities   entity.Lookup
	file       *token.File
}

// New returns a new Lexer that delivers events to h. A nil h discards all
// events.
func New(h Handler, opts ...Option) *Lexer {
	return newLexer(h, newOptions(opts))
}

func newLexer(h Handler, o *options) *Lexer {
	if h == nil {
		h = NopHandler{}
	}
	l := &Lexer{
		h:          h,
		strict:     o.strict,
		normalize:  o.normalize,
		lower:      cases.Lower(language.Und),
		literals:   o.literal,
		charEntity: o.charEntity,
		entities:   entity.Chain(o.entities, entity.HTML),
	}
	if o.trackLines {
		l.file = token.NewFile(o.fileName)
	}
	return l
}

// Feed appends p to the input and scans as much of it as can be decided
// without further input. Events are delivered to the handler before Feed
// returns. When called from a handler method, the input is queued and scanned
// by the pass already in progress.
//
// Feed panics with ErrClosed if Close has been called.
func (l *Lexer) Feed(p []byte) {
	if l.closed || l.finishing && !l.scanning {
		panic(ErrClosed)
	}
	if l.file != nil {
		l.file.Add(p)
	}
	l.buf = append(l.buf, p...)
	if !l.scanning {
		l.scan()
	}
}

// FeedString is like Feed but takes a string argument.
func (l *Lexer) FeedString(s string) {
	l.Feed([]byte(s))
}

// Write implements io.Writer. It returns ErrClosed if the Lexer is closed.
func (l *Lexer) Write(p []byte) (int, error) {
	if l.closed || l.finishing && !l.scanning {
		return 0, ErrClosed
	}
	l.Feed(p)
	return len(p), nil
}

// Close marks the end of input. Any pending input is resolved with best-effort
// rules and pending character data is delivered. When called from a handler
// method, the lexer finishes once the current pass has consumed all input.
//
// Adjacent character data is always reported as a single Data event, so that
// the events do not depend on chunking. As a consequence, character data at
// the end of the input fed so far is only delivered once the next markup is
// seen, or by Close. For a document ending in a newline, Close delivers that
// newline. After NoMoreTags, all remaining input is held until Close. Use
// Flush to deliver it earlier.
//
// Close panics with ErrClosed if called more than once.
func (l *Lexer) Close() {
	if l.closed || l.finishing {
		panic(ErrClosed)
	}
	l.finishing = true
	if !l.scanning {
		l.scan()
	}
}

// scan runs the state machine over buffered input until it either consumes
// everything or needs more input.
func (l *Lexer) scan() {
	l.scanning = true
	for {
		var state stateFn = lexText
		for state != nil {
			state = state(l)
		}
		if !l.finishing {
			break
		}
		l.flush()
		// handlers may feed more input while pending data is delivered.
		if l.i >= len(l.buf) {
			l.closed = true
			break
		}
	}
	l.scanning = false
	l.pos = l.offs + token.Pos(l.i)
	if l.i > 0 {
		l.offs += token.Pos(l.i)
		l.buf = l.buf[:copy(l.buf, l.buf[l.i:])]
		l.i = 0
	}
}

// abs returns the stream offset of buffer index i.
func (l *Lexer) abs(i int) token.Pos {
	return l.offs + token.Pos(i)
}

// idx returns the buffer index of stream offset p.
func (l *Lexer) idx(p token.Pos) int {
	return int(p - l.offs)
}

// Normalize turns case normalization on or off and returns the previous
// setting. It affects names scanned after the call.
func (l *Lexer) Normalize(on bool) bool {
	prev := l.normalize
	l.normalize = on
	return prev
}

// Restrict selects the strict (on) or lenient recognition policy and returns
// the previous setting.
func (l *Lexer) Restrict(on bool) bool {
	prev := l.strict
	l.strict = on
	return prev
}

// SetLiteral enters literal mode: all input up to the closing tag </name> is
// character data. The closing tag is matched case-insensitively and may contain
// white space before its '>'. An empty name leaves literal mode.
func (l *Lexer) SetLiteral(name string) {
	l.literal = name
}

// Literal returns the name of the element whose end tag closes literal mode, or
// an empty string if the lexer is not in literal mode.
func (l *Lexer) Literal() string {
	return l.literal
}

// NoMoreTags switches the lexer to plain text mode for the rest of the input:
// nothing is recognized as markup anymore. The remaining input is reported as
// a single Data event by Close, unless Flush is called before.
func (l *Lexer) NoMoreTags() {
	l.noMoreTags = true
}

// Pos returns the input offset of the event being delivered. Outside of
// handler methods, it returns the offset of the first unconsumed byte.
func (l *Lexer) Pos() token.Pos {
	return l.pos
}

// Position returns the position of Pos(). Line and column are only available
// if line tracking is enabled.
func (l *Lexer) Position() token.Position {
	if l.file == nil {
		return token.Position{Offset: l.pos}
	}
	return l.file.Position(l.pos)
}

// Line returns the line number of Pos(), or -1 if line tracking is disabled.
func (l *Lexer) Line() int {
	if l.file == nil {
		return -1
	}
	return l.file.Position(l.pos).Line
}

// File returns the line table of the input, or nil if line tracking is
// disabled.
func (l *Lexer) File() *token.File {
	return l.file
}

// fold returns b as a string, lower cased if normalization is enabled.
func (l *Lexer) fold(b []byte) string {
	if !l.normalize {
		return string(b)
	}
	return l.lower.String(string(b))
}

func (l *Lexer) errorf(format string, args ...interface{}) {
	if l.strict {
		l.diags = append(l.diags, diag{msg: fmt.Sprintf(format, args...)})
	}
}

func (l *Lexer) limitationf(format string, args ...interface{}) {
	if l.strict {
		l.diags = append(l.diags, diag{limitation: true, msg: fmt.Sprintf(format, args...)})
	}
}

// discard drops the diagnostics gathered by an unsuccessful scan.
func (l *Lexer) discard() {
	l.diags = l.diags[:0]
}

// appendText adds buf[from:to] to the pending character data.
func (l *Lexer) appendText(from, to int) {
	if from >= to {
		return
	}
	if len(l.data) == 0 {
		l.dataPos = l.offs + token.Pos(from)
	}
	l.data = append(l.data, l.buf[from:to]...)
}

// Flush delivers pending character data now instead of waiting for the next
// markup or Close. Data split by Flush is reported as separate Data events, so
// the events then depend on when Flush is called. It is a no-op when called
// from a handler method.
func (l *Lexer) Flush() {
	if l.scanning {
		return
	}
	l.flush()
	l.pos = l.abs(l.i)
}

// flush delivers pending character data.
func (l *Lexer) flush() {
	if len(l.data) == 0 {
		return
	}
	s := string(l.data)
	l.data = l.data[:0]
	l.pos = l.dataPos
	l.h.Data(s)
}

// deliver prepares the delivery of an event starting at buffer index at:
// pending data is flushed first, then the diagnostics gathered while scanning
// the event.
func (l *Lexer) deliver(at int) {
	l.flush()
	l.pos = l.offs + token.Pos(at)
	for _, d := range l.diags {
		if d.limitation {
			l.h.LexicalLimitation(d.msg)
		} else {
			l.h.LexicalError(d.msg)
		}
	}
	l.diags = l.diags[:0]
	l.prog = progress{}
}

func (l *Lexer) enterLiteral(name string) {
	if l.literals == nil || name == "" {
		return
	}
	if _, ok := l.literals[strings.ToLower(name)]; ok {
		l.literal = name
	}
}
