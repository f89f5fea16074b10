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

// Package token defines constants and types representing the lexical events
// produced by the SGML lexer, as well as source positions.
package token

import "strconv"

// Token represents an event's numeric ID.
type Token uint

// Token IDs
const (
	Invalid      Token = iota
	Data               // character data
	StartTag           // <name attr=value>
	EndTag             // </name>
	CharRef            // &#65;
	NamedCharRef       // &#RE; or &amp;
	EntityRef          // &name;
	PI                 // <?...>
	Comment            // <!-- ... -->
	Declaration        // <!NAME ...>
	Error              // lexical error -- the associated value is a string
	Limitation         // lexical limitation -- the associated value is a string
)

var names = [...]string{
	Invalid:      "INVALID",
	Data:         "DATA",
	StartTag:     "START",
	EndTag:       "END",
	CharRef:      "CHARREF",
	NamedCharRef: "NAMEDCHARREF",
	EntityRef:    "ENTITYREF",
	PI:           "PI",
	Comment:      "COMMENT",
	Declaration:  "DECL",
	Error:        "ERROR",
	Limitation:   "LIMITATION",
}

func (t Token) String() string {
	if int(t) < len(names) {
		return names[t]
	}
	return "Token(" + strconv.Itoa(int(t)) + ")"
}

// IsDiagnostic returns true for Error and Limitation.
func (t Token) IsDiagnostic() bool {
	return t == Error || t == Limitation
}
