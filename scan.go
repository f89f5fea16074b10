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
	"bytes"
	"strconv"
	"unicode/utf8"

	"github.com/db47h/sgml/entity"
	"github.com/db47h/sgml/token"
)

// Scanners in this file match a single construct starting at a given buffer
// index. They never consume input or deliver events: the calling state does
// that once the whole construct is known. Diagnostics found along the way are
// queued in l.diags.
//
// A scan that runs out of input saves its progress in l.prog and the next pass
// picks up where it stopped, so that no byte of a pending construct is
// examined twice however small the chunks fed to the lexer.

type scanResult int

const (
	scanOK      scanResult = iota
	scanMore               // the construct may continue past the end of the buffer
	scanBad                // not a valid construct
	scanInvalid            // an invalid construct was skipped, only diagnostics are left
)

type scanKind int

const (
	inNothing scanKind = iota
	inStartTag
	inEndTag
	inComment
	inCommentDecl
	inPI
	inDecl
	inRef
)

type span struct {
	from, to token.Pos
}

// progress is the state of a suspended scan. Offsets are stream offsets since
// buffer indices change whenever consumed input is dropped. Phase 0 is the
// initial phase of every scanner.
type progress struct {
	kind  scanKind
	at    token.Pos // start of the construct
	phase int
	j     token.Pos // where scanning resumes
	from  token.Pos // start of the token being scanned
	quote byte
	tag   startTag
	attr  Attr
	toks  []DeclToken
	spans []span
	ref   reference
	hex   bool
}

// resume returns the progress of the scan of a construct of the given kind at
// buffer index i, and the buffer index where scanning resumes. Progress and
// diagnostics of any other construct are dropped.
func (l *Lexer) resume(kind scanKind, i int) (*progress, int) {
	p := &l.prog
	if at := l.abs(i); p.kind != kind || p.at != at {
		*p = progress{kind: kind, at: at, j: at}
		l.discard()
	}
	return p, l.idx(p.j)
}

// suspend records that the current scan resumes at buffer index j.
func (l *Lexer) suspend(j int) scanResult {
	l.prog.j = l.abs(j)
	return scanMore
}

func isSpace(c byte) bool {
	switch c {
	case ' ', '\t', '\n', '\r', '\f':
		return true
	}
	return false
}

func skipSpace(b []byte, i int) int {
	for i < len(b) && isSpace(b[i]) {
		i++
	}
	return i
}

func (l *Lexer) isNameChar(c byte) bool {
	return entity.IsNameChar(c) || !l.strict && (c == '_' || c == ':')
}

func (l *Lexer) isAttrChar(c byte) bool {
	if l.strict {
		return entity.IsNameChar(c)
	}
	switch c {
	case '=', '>', '<', '/', '"', '\'':
		return false
	}
	return !isSpace(c)
}

func (l *Lexer) isValueChar(c byte) bool {
	if l.strict {
		return entity.IsNameChar(c)
	}
	return c != '>' && !isSpace(c)
}

// scanName returns the index of the first non-name character at or after j.
func (l *Lexer) scanName(j int) int {
	for j < len(l.buf) && l.isNameChar(l.buf[j]) {
		j++
	}
	return j
}

type startTag struct {
	name   string
	attrs  []Attr
	end    int  // buffer index past the tag, or of the content of a null end tag element
	net    bool // <name/ null end tag shorthand
	netEnd int  // buffer index of the null end tag
}

const (
	tagName = iota + 1
	tagNET
	tagAttrs
	tagSlash
	tagAttrName
	tagEquals
	tagValue
	tagQuoted
	tagUnquoted
)

// scanStartTag scans a start tag. When it returns scanMore with t.net set, the
// tag is a null end tag element whose closing '/' is still missing.
func (l *Lexer) scanStartTag(i int) (startTag, scanResult) {
	p, j := l.resume(inStartTag, i)
	t := &p.tag
	b, n := l.buf, len(l.buf)
	for {
		switch p.phase {
		case 0:
			j = i + 1
			p.from, p.phase = l.abs(j), tagName
		case tagName:
			if j = l.scanName(j); j == n {
				return *t, l.suspend(j)
			}
			from := l.idx(p.from)
			t.name = l.fold(b[from:j])
			p.phase = tagAttrs
			if l.strict && j > from && b[j] == '/' {
				j++
				t.net, p.from, p.phase = true, l.abs(j), tagNET
			}
		case tagNET:
			t.end = l.idx(p.from)
			q := bytes.IndexByte(b[j:], '/')
			if q < 0 {
				return *t, l.suspend(n)
			}
			t.netEnd = j + q
			return *t, scanOK
		case tagAttrs:
			if j = skipSpace(b, j); j == n {
				return *t, l.suspend(j)
			}
			switch c := b[j]; {
			case c == '>':
				t.end = j + 1
				return *t, scanOK
			case c == '<':
				l.limitationf("unclosed start tag %q", t.name)
				t.end = j
				return *t, scanOK
			case c == '/':
				j++
				p.phase = tagSlash
			case l.isAttrChar(c):
				p.from, p.phase = l.abs(j), tagAttrName
			default:
				l.errorf("illegal character %q in start tag %q", c, t.name)
				j++
			}
		case tagSlash:
			if j == n {
				return *t, l.suspend(j)
			}
			if b[j] == '>' {
				t.end = j + 1
				return *t, scanOK
			}
			l.limitationf("null end tag in start tag %q", t.name)
			p.phase = tagAttrs
		case tagAttrName:
			for j < n && l.isAttrChar(b[j]) {
				j++
			}
			if j == n {
				return *t, l.suspend(j)
			}
			p.attr = Attr{Name: l.fold(b[l.idx(p.from):j])}
			p.phase = tagEquals
		case tagEquals:
			if j = skipSpace(b, j); j == n {
				return *t, l.suspend(j)
			}
			if b[j] != '=' {
				l.addAttr(t, p.attr)
				p.phase = tagAttrs
				break
			}
			j++
			p.phase = tagValue
		case tagValue:
			if j = skipSpace(b, j); j == n {
				return *t, l.suspend(j)
			}
			switch c := b[j]; {
			case c == '"' || c == '\'':
				j++
				p.quote, p.from, p.phase = c, l.abs(j), tagQuoted
			case l.isValueChar(c):
				p.from, p.phase = l.abs(j), tagUnquoted
			default:
				l.errorf("missing value for attribute %q", p.attr.Name)
				l.addAttr(t, p.attr)
				p.phase = tagAttrs
			}
		case tagQuoted:
			q := bytes.IndexByte(b[j:], p.quote)
			if q < 0 {
				return *t, l.suspend(n)
			}
			p.attr.Value = entity.ReplaceFunc(string(b[l.idx(p.from):j+q]), l.entities)
			p.attr.HasValue = true
			l.addAttr(t, p.attr)
			j += q + 1
			p.phase = tagAttrs
		case tagUnquoted:
			for j < n && l.isValueChar(b[j]) {
				j++
			}
			if j == n {
				return *t, l.suspend(j)
			}
			p.attr.Value = string(b[l.idx(p.from):j])
			p.attr.HasValue = true
			l.addAttr(t, p.attr)
			p.phase = tagAttrs
		}
	}
}

// addAttr appends a to the attributes of t. The first occurrence of an
// attribute wins.
func (l *Lexer) addAttr(t *startTag, a Attr) {
	for i := range t.attrs {
		if t.attrs[i].Name == a.Name {
			l.errorf("duplicate attribute %q in start tag %q", a.Name, t.name)
			return
		}
	}
	t.attrs = append(t.attrs, a)
}

const (
	endName = iota + 1
	endSpace
	endJunk
)

func (l *Lexer) scanEndTag(i int) (name string, end int, res scanResult) {
	p, j := l.resume(inEndTag, i)
	b, n := l.buf, len(l.buf)
	for {
		switch p.phase {
		case 0:
			j = i + 2
			p.from, p.phase = l.abs(j), endName
		case endName:
			if j = l.scanName(j); j == n {
				return "", 0, l.suspend(j)
			}
			p.tag.name = l.fold(b[l.idx(p.from):j])
			p.phase = endSpace
		case endSpace:
			if j = skipSpace(b, j); j == n {
				return "", 0, l.suspend(j)
			}
			switch b[j] {
			case '>':
				return p.tag.name, j + 1, scanOK
			case '<':
				l.limitationf("unclosed end tag %q", p.tag.name)
				return p.tag.name, j, scanOK
			}
			l.errorf("illegal character %q in end tag %q", b[j], p.tag.name)
			p.phase = endJunk
		case endJunk:
			q := bytes.IndexAny(b[j:], "<>")
			if q < 0 {
				return "", 0, l.suspend(n)
			}
			if j += q; b[j] == '<' {
				return p.tag.name, j, scanOK
			}
			return p.tag.name, j + 1, scanOK
		}
	}
}

var (
	commentEnd = []byte("-->")
	dashes     = []byte("--")
)

// scanComment scans a lenient comment, from "<!--" at index i to the first
// "-->". As in HTML, "<!-->" and "<!--->" are empty comments.
func (l *Lexer) scanComment(i int) (text string, end int, res scanResult) {
	p, j := l.resume(inComment, i)
	b, n := l.buf, len(l.buf)
	if p.phase == 0 {
		j = i + 4
		switch {
		case j < n && b[j] == '>':
			return "", j + 1, scanOK
		case j+1 < n && b[j] == '-' && b[j+1] == '>':
			return "", j + 2, scanOK
		case j == n || j+1 == n && b[j] == '-':
			return "", 0, scanMore
		}
		p.phase = 1
	}
	q := bytes.Index(b[j:], commentEnd)
	if q < 0 {
		return "", 0, l.suspend(max(i+4, n-len(commentEnd)+1))
	}
	return string(b[i+4 : j+q]), j + q + len(commentEnd), scanOK
}

const (
	commentText = iota + 1
	commentSep
	commentResync
)

// scanCommentDecl scans a strict comment declaration. The buffer holds "<!--"
// at index i. Comment boundaries are kept as offsets until the closing '>' is
// found.
func (l *Lexer) scanCommentDecl(i int) (comments []string, end int, res scanResult) {
	p, j := l.resume(inCommentDecl, i)
	b, n := l.buf, len(l.buf)
	for {
		switch p.phase {
		case 0:
			j = i + 4
			p.from, p.phase = l.abs(j), commentText
		case commentText:
			q := bytes.Index(b[j:], dashes)
			if q < 0 {
				return nil, 0, l.suspend(max(l.idx(p.from), n-len(dashes)+1))
			}
			p.spans = append(p.spans, span{p.from, l.abs(j + q)})
			j += q + len(dashes)
			p.phase = commentSep
		case commentSep:
			if j = skipSpace(b, j); j == n {
				return nil, 0, l.suspend(j)
			}
			switch b[j] {
			case '>':
				return l.comments(p.spans), j + 1, scanOK
			case '-':
				if j+1 == n {
					return nil, 0, l.suspend(j)
				}
				if b[j+1] == '-' {
					j += 2
					p.from, p.phase = l.abs(j), commentText
					continue
				}
			}
			l.errorf("invalid character %q in comment declaration", b[j])
			p.phase = commentResync
		case commentResync:
			q := bytes.IndexByte(b[j:], '>')
			if q < 0 {
				return nil, 0, l.suspend(n)
			}
			return l.comments(p.spans), j + q + 1, scanOK
		}
	}
}

func (l *Lexer) comments(spans []span) []string {
	s := make([]string, len(spans))
	for k, sp := range spans {
		s[k] = string(l.buf[l.idx(sp.from):l.idx(sp.to)])
	}
	return s
}

// scanPI scans a processing instruction, <?text>.
func (l *Lexer) scanPI(i int) (text string, end int, res scanResult) {
	p, j := l.resume(inPI, i)
	if p.phase == 0 {
		j, p.phase = i+2, 1
	}
	q := bytes.IndexByte(l.buf[j:], '>')
	if q < 0 {
		return "", 0, l.suspend(len(l.buf))
	}
	return string(l.buf[i+2 : j+q]), j + q + 1, scanOK
}

const (
	declTokens = iota + 1
	declLiteral
	declComment
	declName
	declSubset
	declSubsetEnd
	declResync
)

// scanDeclaration scans a markup declaration, "<!" followed by a name. In
// lenient mode, an invalid character yields scanBad. In strict mode, it is
// reported and the declaration is skipped up to the next '>' (scanInvalid).
func (l *Lexer) scanDeclaration(i int) (toks []DeclToken, end int, res scanResult) {
	p, j := l.resume(inDecl, i)
	b, n := l.buf, len(l.buf)
	for {
		switch p.phase {
		case 0:
			j, p.phase = i+2, declTokens
		case declTokens:
			if j = skipSpace(b, j); j == n {
				return nil, 0, l.suspend(j)
			}
			switch c := b[j]; {
			case c == '>':
				return p.toks, j + 1, scanOK
			case c == '"' || c == '\'':
				j++
				p.quote, p.from, p.phase = c, l.abs(j), declLiteral
				continue
			case c == '-':
				if j+1 == n {
					return nil, 0, l.suspend(j)
				}
				if b[j+1] == '-' {
					j += 2
					p.from, p.phase = l.abs(j), declComment
					continue
				}
			case c == '[':
				l.limitationf("declaration subsets are not supported")
				j++
				p.phase = declSubset
				continue
			case entity.IsNameChar(c) || c == '#' || c == '%':
				p.from, p.phase = l.abs(j), declName
				j++
				continue
			}
			if !l.strict {
				return nil, j, scanBad
			}
			l.errorf("invalid character %q in declaration", b[j])
			p.phase = declResync
		case declLiteral:
			q := bytes.IndexByte(b[j:], p.quote)
			if q < 0 {
				return nil, 0, l.suspend(n)
			}
			p.toks = append(p.toks, DeclToken{DeclLiteral, string(b[l.idx(p.from) : j+q])})
			j += q + 1
			p.phase = declTokens
		case declComment:
			q := bytes.Index(b[j:], dashes)
			if q < 0 {
				return nil, 0, l.suspend(max(l.idx(p.from), n-len(dashes)+1))
			}
			p.toks = append(p.toks, DeclToken{DeclComment, string(b[l.idx(p.from) : j+q])})
			j += q + len(dashes)
			p.phase = declTokens
		case declName:
			if j = l.scanName(j); j == n {
				return nil, 0, l.suspend(j)
			}
			from := l.idx(p.from)
			if b[from] == '%' && b[j] == ';' {
				j++
			}
			kind := DeclName
			if entity.IsDigit(b[from]) {
				kind = DeclNumber
			}
			p.toks = append(p.toks, DeclToken{kind, l.fold(b[from:j])})
			p.phase = declTokens
		case declSubset:
			q := bytes.IndexByte(b[j:], ']')
			if q < 0 {
				return nil, 0, l.suspend(n)
			}
			j += q + 1
			p.phase = declSubsetEnd
		case declSubsetEnd:
			if j = skipSpace(b, j); j == n {
				return nil, 0, l.suspend(j)
			}
			if b[j] == '>' {
				return p.toks, j + 1, scanOK
			}
			p.phase = declSubset
		case declResync:
			q := bytes.IndexByte(b[j:], '>')
			if q < 0 {
				return nil, 0, l.suspend(n)
			}
			return nil, j + q + 1, scanInvalid
		}
	}
}

type reference struct {
	kind    token.Token // CharRef, NamedCharRef or EntityRef
	name    string
	ordinal int
	term    string
	end     int
	newline bool // the "\n" terminator is also character data
}

// more is the result of a reference scan that ran out of input.
func (l *Lexer) more() scanResult {
	if l.final() {
		return scanBad
	}
	return scanMore
}

func (l *Lexer) scanReference(i int) (reference, scanResult) {
	p, k := l.resume(inRef, i)
	r := &p.ref
	b, n := l.buf, len(l.buf)
	if p.phase == 0 {
		j := i + 1
		if j == n {
			return *r, l.more()
		}
		switch c := b[j]; {
		case c == '#':
			if j++; j == n {
				return *r, l.more()
			}
			switch c = b[j]; {
			case entity.IsDigit(c):
				r.kind = token.CharRef
			case !l.strict && (c == 'x' || c == 'X'):
				if j+1 == n {
					return *r, l.more()
				}
				if !entity.IsHexDigit(b[j+1]) {
					return *r, scanBad
				}
				r.kind, p.hex = token.CharRef, true
			case entity.IsNameStart(c):
				r.kind = token.NamedCharRef
			default:
				return *r, scanBad
			}
		case entity.IsNameStart(c):
			r.kind = token.EntityRef
		default:
			return *r, scanBad
		}
		p.from, p.phase = l.abs(j), 1
		if k = j; p.hex {
			k++
		}
	}

	switch {
	case p.hex:
		for k < n && entity.IsHexDigit(b[k]) {
			k++
		}
	case r.kind == token.CharRef:
		for k < n && entity.IsDigit(b[k]) {
			k++
		}
	default:
		k = l.scanName(k)
	}
	switch {
	case k == n && !l.final():
		return *r, l.suspend(k)
	case k < n && b[k] == ';':
		r.term, r.end = ";", k+1
	case k < n && b[k] == '\n':
		r.term, r.end = "\n", k+1
		r.newline = !l.strict
	case l.strict:
		return *r, scanBad
	default:
		r.end = k
	}

	name := b[l.idx(p.from):k]
	switch r.kind {
	case token.CharRef:
		digits, base := name, 10
		if p.hex {
			digits, base = name[1:], 16
		}
		v, err := strconv.ParseUint(string(digits), base, 32)
		if err != nil || v > utf8.MaxRune {
			return *r, scanBad
		}
		r.ordinal = int(v)
	case token.NamedCharRef:
		r.name = l.fold(name)
	default:
		folded := l.fold(name)
		if l.charEntity != nil && l.charEntity(folded) {
			r.kind, r.name = token.NamedCharRef, folded
		} else {
			r.name = string(name)
		}
	}
	return *r, scanOK
}

// matchEndTag matches the end tag </name\s*> at b[p], with name compared
// case-insensitively. When the name matched but the input ends in the white
// space before '>', it returns scanMore with the index where that white space
// ends.
func matchEndTag(b []byte, p int, name string) (int, scanResult) {
	n := len(b)
	k := p + 1
	if k == n {
		return 0, scanMore
	}
	if b[k] != '/' {
		return 0, scanBad
	}
	k++
	m := k + len(name)
	if m > n {
		if bytes.EqualFold(b[k:], []byte(name[:n-k])) {
			return 0, scanMore
		}
		return 0, scanBad
	}
	if !bytes.EqualFold(b[k:m], []byte(name)) {
		return 0, scanBad
	}
	return closeEndTag(b, m)
}

// closeEndTag matches the white space and '>' ending a literal end tag at
// b[m].
func closeEndTag(b []byte, m int) (int, scanResult) {
	if m = skipSpace(b, m); m == len(b) {
		return m, scanMore
	}
	if b[m] != '>' {
		return 0, scanBad
	}
	return m + 1, scanOK
}
