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

package token

import (
	"errors"
	"fmt"
)

// Pos is a byte offset in the input stream, counted from the first byte ever
// fed to a lexer.
type Pos int

// IsValid returns true if p is a valid position (i.e. p >= 0).
func (p Pos) IsValid() bool {
	return p >= 0
}

// ErrLine is the panic value of AddLine when called out of order.
var ErrLine = errors.New("invalid line position")

// Position describes an arbitrary source position including the file, line, and column location.
type Position struct {
	Filename string
	Offset   Pos // byte offset in the input stream
	Line     int // 1-based line number
	Column   int // 1-based column number (byte index)
}

// IsValid returns true if the position has a valid line number.
func (p Position) IsValid() bool {
	return p.Line > 0
}

func (p Position) String() string {
	if p.Filename == "" {
		return fmt.Sprintf("%d:%d", p.Line, p.Column)
	}
	return fmt.Sprintf("%s:%d:%d", p.Filename, p.Line, p.Column)
}

// A File records the offsets of line starts in a stream of input fed to a
// lexer in chunks, and converts offsets to line/column positions.
type File struct {
	name  string
	size  Pos   // number of bytes scanned by Add so far
	lines []Pos // 0-based line/Pos information
}

// NewFile returns a new File. Line 1 starts at offset 0.
func NewFile(name string) *File {
	return &File{
		name:  name,
		lines: []Pos{0},
	}
}

// Name returns the file name.
func (f *File) Name() string {
	return f.name
}

// Size returns the number of bytes passed to Add so far.
func (f *File) Size() Pos {
	return f.size
}

// Lines returns the number of lines seen so far.
func (f *File) Lines() int {
	return len(f.lines)
}

// AddLine adds a new line starting at the given offset.
//
// If pos is not past the start of the last known line, AddLine will panic.
func (f *File) AddLine(pos Pos) {
	if l := len(f.lines); l > 0 && f.lines[l-1] >= pos {
		panic(ErrLine)
	}
	f.lines = append(f.lines, pos)
}

// Add records the line starts found in the next chunk of input.
func (f *File) Add(p []byte) {
	for i, b := range p {
		if b == '\n' {
			f.AddLine(f.size + Pos(i) + 1)
		}
	}
	f.size += Pos(len(p))
}

// Position returns the 1-based line and column for a given pos. The returned
// column is a byte offset, not a rune offset.
func (f *File) Position(pos Pos) Position {
	i, j := 0, len(f.lines)
	for i < j {
		h := int(uint(i+j) >> 1)
		if !(f.lines[h] > pos) {
			i = h + 1
		} else {
			j = h
		}
	}
	if i == 0 {
		return Position{Filename: f.name, Offset: pos}
	}
	return Position{f.name, pos, i, int(pos-f.lines[i-1]) + 1}
}

// LinePos returns the offset of the given 1-based line, or -1 if the line is
// unknown.
func (f *File) LinePos(line int) Pos {
	if line < 1 || line > len(f.lines) {
		return -1
	}
	return f.lines[line-1]
}
