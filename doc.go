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

// Package sgml provides a streaming lexer for SGML and HTML documents.
//
// The Lexer is a push lexer: input is supplied in chunks of any size with Feed,
// the end of input is signaled with Close, and events (character data, tags,
// references, comments, declarations and diagnostics) are delivered
// synchronously to a Handler. The Tokenizer wraps a Lexer to provide a pull
// interface over an io.Reader.
//
//	l := sgml.New(handler, sgml.LiteralElements(sgml.HTMLLiteralElements...))
//	for chunk := range chunks {
//		l.Feed(chunk)
//	}
//	l.Close()
//
// # Chunking
//
// Input may be split at any byte, including in the middle of a tag or a
// reference. The lexer never reports a construct before its closing delimiter has
// been seen, and retains incomplete input until the next call to Feed or Close.
// Adjacent character data is coalesced and delivered as a single Data event just
// before the next non-data event, or on Close. As a result, the sequence of events
// does not depend on how the input is split. Flush delivers pending character
// data early, at the cost of that guarantee.
//
// On Close, incomplete constructs are resolved with best-effort rules: a '<' or
// '&' that does not start a complete construct is character data, and an
// unterminated comment runs to the end of input.
//
// # State functions
//
// The scanner is a Deterministic Finite State Automaton whose states and actions
// are implemented as functions:
//
//	type stateFn func(*Lexer) stateFn
//
// Each state either consumes input and returns the next state, or returns nil to
// suspend the scan pass until more input is available. Construct scanners only
// look at the buffer; the state that called them consumes input and delivers
// events once the construct is complete. A suspended construct scan records how
// far it got and resumes from there on the next pass, so that lexing time stays
// linear in the input size whatever the chunk sizes.
//
// # Handlers and reentrancy
//
// Handler methods may call any method of the Lexer. Mode changes (Normalize,
// Restrict, SetLiteral, NoMoreTags) take effect on the input following the
// current event. Feed and Close called from a handler do not start a new scan
// pass: new input is appended to the buffer and picked up by the current pass, and
// Close is deferred until that pass has consumed all input.
//
// # Strict and lenient modes
//
// In strict mode, markup is recognized according to the formal SGML grammar:
// comment declarations are sequences of --comment-- blocks, processing
// instructions and <name/content/ null end tags are recognized, and references
// must be terminated by ';' or a newline. Deviations are reported as
// LexicalError, unsupported constructs as LexicalLimitation.
//
// In lenient mode, the lexer follows the practice of HTML user agents: comments
// run from <!-- to the first --> (<!--> and <!---> are empty comments), unquoted
// attribute values may contain any character but white space and '>',
// hexadecimal character references are accepted, and malformed markup is
// reported silently as character data. Markup declarations are recognized in
// both modes.
package sgml
