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
	"io"
)

// queue is a FIFO queue.
type queue struct {
	items []Event
	head  int
	tail  int
	count int
}

func (q *queue) push(e Event) {
	if q.head == q.tail && q.count > 0 {
		items := make([]Event, len(q.items)*2)
		copy(items, q.items[q.head:])
		copy(items[len(q.items)-q.head:], q.items[:q.head])
		q.head = 0
		q.tail = len(q.items)
		q.items = items
	}
	q.items[q.tail] = e
	q.tail = (q.tail + 1) % len(q.items)
	q.count++
}

// pop pops the first item from the queue. Callers must check that q.count > 0 beforehand.
func (q *queue) pop() Event {
	i := q.head
	q.head = (q.head + 1) % len(q.items)
	q.count--
	e := q.items[i]
	q.items[i] = Event{}
	return e
}

// maxEmptyReads is the number of consecutive empty reads after which Next
// fails with io.ErrNoProgress.
const maxEmptyReads = 100

// A Tokenizer wraps a Lexer to provide a pull interface over an io.Reader.
type Tokenizer struct {
	l    *Lexer
	r    io.Reader
	rec  Recorder
	q    queue
	buf  []byte
	err  error
	done bool
}

// NewTokenizer returns a new Tokenizer reading from r.
func NewTokenizer(r io.Reader, opts ...Option) *Tokenizer {
	o := newOptions(opts)
	t := &Tokenizer{
		r:   r,
		buf: make([]byte, o.bufSize),
		q:   queue{items: make([]Event, 16)},
	}
	t.l = newLexer(&t.rec, o)
	t.rec.Lexer = t.l
	return t
}

// Lexer returns the underlying Lexer. It can be used to switch modes between
// calls to Next.
func (t *Tokenizer) Lexer() *Lexer {
	return t.l
}

// Next returns the next event. At the end of input, it returns io.EOF. Any
// other error is the error returned by the underlying reader, after all events
// lexed before the error have been returned.
func (t *Tokenizer) Next() (Event, error) {
	for empty := 0; t.q.count == 0; {
		if t.done {
			return Event{}, t.err
		}
		n, err := t.r.Read(t.buf)
		if n > 0 {
			empty = 0
			t.l.Feed(t.buf[:n])
		} else if err == nil {
			if empty++; empty >= maxEmptyReads {
				err = io.ErrNoProgress
			}
		}
		if err != nil {
			t.done, t.err = true, err
			if err == io.EOF && !t.l.closed && !t.l.finishing {
				t.l.Close()
			}
		}
		for i := range t.rec.Events {
			t.q.push(t.rec.Events[i])
		}
		t.rec.Reset()
	}
	return t.q.pop(), nil
}
