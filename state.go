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
	"fmt"

	"github.com/db47h/sgml/entity"
	"github.com/db47h/sgml/token"
)

// A stateFn is a state of the lexer's DFA. Each state consumes input from
// l.buf[l.i:] and returns the next state. A nil return ends the scan pass,
// either because all input is consumed or because the state needs more input
// to make a decision.
type stateFn func(l *Lexer) stateFn

// final returns true if no more input will be fed in the current pass.
func (l *Lexer) final() bool {
	return l.finishing
}

// lexText is the initial state.
func lexText(l *Lexer) stateFn {
	n := len(l.buf)
	if l.i >= n {
		return nil
	}
	if l.noMoreTags {
		l.appendText(l.i, n)
		l.i = n
		return nil
	}
	if l.literal != "" {
		return lexLiteral
	}
	k := bytes.IndexAny(l.buf[l.i:], "<&")
	if k < 0 {
		l.appendText(l.i, n)
		l.i = n
		return nil
	}
	l.appendText(l.i, l.i+k)
	l.i += k
	if l.buf[l.i] == '<' {
		return lexMarkup
	}
	return lexReference
}

// lexStray reports the delimiter at the cursor as character data.
func lexStray(l *Lexer) stateFn {
	l.appendText(l.i, l.i+1)
	l.i++
	return lexText
}

// incomplete is returned by states that need more input to decide what the
// delimiter at the cursor starts. On the final pass, the delimiter is data.
func (l *Lexer) incomplete() stateFn {
	l.discard()
	if l.final() {
		return lexStray
	}
	return nil
}

// unterminated is like incomplete, with an error reported in strict mode on
// the final pass.
func (l *Lexer) unterminated(what string) stateFn {
	if !l.final() {
		return nil
	}
	l.discard()
	if l.strict {
		l.deliver(l.i)
		l.h.LexicalError("unterminated " + what)
	}
	return lexStray
}

// peek returns the byte at buffer index i.
func (l *Lexer) peek(i int) (byte, bool) {
	if i >= len(l.buf) {
		return 0, false
	}
	return l.buf[i], true
}

// lexMarkup dispatches on the characters following a '<'.
func lexMarkup(l *Lexer) stateFn {
	i := l.i
	c, ok := l.peek(i + 1)
	if !ok {
		return l.incomplete()
	}
	switch {
	case entity.IsNameStart(c) || c == '>':
		return lexStartTag
	case c == '/':
		if c, ok = l.peek(i + 2); !ok {
			return l.incomplete()
		}
		if entity.IsNameStart(c) || c == '<' || c == '>' {
			return lexEndTag
		}
	case c == '!':
		if c, ok = l.peek(i + 2); !ok {
			return l.incomplete()
		}
		switch {
		case c == '-':
			if c, ok = l.peek(i + 3); !ok {
				return l.incomplete()
			}
			if c == '-' {
				return lexComment
			}
		case entity.IsNameStart(c):
			return lexDeclaration
		}
		l.appendText(i, i+2)
		l.i = i + 2
		return lexText
	case c == '?':
		if l.strict {
			return lexPI
		}
	}
	return lexStray
}

func lexStartTag(l *Lexer) stateFn {
	at := l.i
	t, res := l.scanStartTag(at)
	if res == scanMore {
		if t.net && l.final() {
			l.i = t.end
			l.deliver(at)
			l.h.StartTag(t.name, t.attrs)
			l.h.LexicalError(fmt.Sprintf("missing null end tag for %q", t.name))
			return lexText
		}
		return l.unterminated("start tag")
	}
	if t.net {
		// <name/content/
		l.i = t.netEnd + 1
		l.deliver(at)
		l.h.StartTag(t.name, t.attrs)
		l.appendText(t.end, t.netEnd)
		l.deliver(t.netEnd)
		l.h.EndTag(t.name)
		return lexText
	}
	l.i = t.end
	l.deliver(at)
	l.h.StartTag(t.name, t.attrs)
	l.enterLiteral(t.name)
	return lexText
}

func lexEndTag(l *Lexer) stateFn {
	at := l.i
	name, end, res := l.scanEndTag(at)
	if res == scanMore {
		return l.unterminated("end tag")
	}
	l.i = end
	l.deliver(at)
	l.h.EndTag(name)
	return lexText
}

// lexComment scans a comment declaration. In lenient mode, a comment runs from
// <!-- to the first -->. In strict mode, the declaration is a sequence of
// --comment-- blocks separated by white space and ending with '>'.
func lexComment(l *Lexer) stateFn {
	if l.strict {
		return lexCommentDecl
	}
	i := l.i
	text, end, res := l.scanComment(i)
	if res == scanMore {
		if !l.final() {
			return nil
		}
		text, end = string(l.buf[i+4:]), len(l.buf)
	}
	l.i = end
	l.deliver(i)
	l.h.Comment(text)
	return lexText
}

func lexCommentDecl(l *Lexer) stateFn {
	i := l.i
	comments, end, res := l.scanCommentDecl(i)
	if res == scanMore {
		if !l.final() {
			return nil
		}
		l.discard()
		text := string(l.buf[i+4:])
		l.i = len(l.buf)
		l.deliver(i)
		l.h.LexicalError("unterminated comment")
		l.h.Comment(text)
		return lexText
	}
	l.i = end
	l.deliver(i)
	for _, c := range comments {
		l.h.Comment(c)
	}
	return lexText
}

// lexPI scans a processing instruction, <?text>. Only recognized in strict
// mode.
func lexPI(l *Lexer) stateFn {
	i := l.i
	text, end, res := l.scanPI(i)
	if res == scanMore {
		return l.unterminated("processing instruction")
	}
	l.i = end
	l.deliver(i)
	l.h.PI(text)
	return lexText
}

func lexDeclaration(l *Lexer) stateFn {
	i := l.i
	toks, end, res := l.scanDeclaration(i)
	switch res {
	case scanMore:
		return l.unterminated("declaration")
	case scanBad:
		l.discard()
		l.appendText(i, i+2)
		l.i = i + 2
		return lexText
	case scanInvalid:
		l.i = end
		l.deliver(i)
		return lexText
	}
	l.i = end
	l.deliver(i)
	l.h.Declaration(toks)
	return lexText
}

func lexReference(l *Lexer) stateFn {
	i := l.i
	r, res := l.scanReference(i)
	switch res {
	case scanMore:
		return nil
	case scanBad:
		return lexStray
	}
	l.i = r.end
	l.deliver(i)
	switch r.kind {
	case token.CharRef:
		l.h.CharRef(r.ordinal, r.term)
	case token.NamedCharRef:
		l.h.NamedCharRef(r.name, r.term)
	default:
		l.h.EntityRef(r.name, r.term)
	}
	if r.newline {
		l.appendText(r.end-1, r.end)
	}
	return lexText
}

// An endCandidate is an end tag in literal mode whose name matched but whose
// trailing white space runs up to the end of the buffer. Scanning of the white
// space resumes at j.
type endCandidate struct {
	at, j token.Pos
	name  string
}

// lexLiteral scans literal text up to the end tag closing literal mode. A
// possible prefix of that end tag at the end of the buffer is retained until
// more input is available.
func lexLiteral(l *Lexer) stateFn {
	b := l.buf
	i := l.i
	j := i
	if c := l.literalEnd; c.at == l.abs(i) && c.name == l.literal && c.j > c.at {
		l.literalEnd = endCandidate{}
		end, res := closeEndTag(b, l.idx(c.j))
		switch res {
		case scanOK:
			return l.closeLiteral(i, end)
		case scanMore:
			if !l.final() {
				l.literalEnd = endCandidate{c.at, l.abs(end), c.name}
				return nil
			}
		}
		j = i + 1
	}
	for {
		q := bytes.IndexByte(b[j:], '<')
		if q < 0 {
			break
		}
		p := j + q
		end, res := matchEndTag(b, p, l.literal)
		switch res {
		case scanOK:
			return l.closeLiteral(p, end)
		case scanMore:
			if !l.final() {
				l.appendText(i, p)
				l.i = p
				if end > 0 {
					l.literalEnd = endCandidate{l.abs(p), l.abs(end), l.literal}
				}
				return nil
			}
		}
		j = p + 1
	}
	l.appendText(i, len(b))
	l.i = len(b)
	return nil
}

// closeLiteral leaves literal mode on the end tag at buf[p:end].
func (l *Lexer) closeLiteral(p, end int) stateFn {
	name := l.fold(l.buf[p+2 : p+2+len(l.literal)])
	l.appendText(l.i, p)
	l.i = end
	l.literal = ""
	l.deliver(p)
	l.h.EndTag(name)
	return lexText
}
