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

// Command sgmllex prints the events produced by the SGML lexer for each input
// file, one per line. Lexical errors and limitations are printed with the
// offending source line. The exit status is 1 if any lexical error was found.
package main

import (
	"bytes"
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/alecthomas/kong"
	"github.com/db47h/sgml"
	"github.com/db47h/sgml/token"
	"golang.org/x/text/width"
)

type cli struct {
	Files       []string `arg:"" optional:"" help:"Files to lex. Standard input is read if none is given or for \"-\"."`
	Strict      bool     `help:"Use the strict SGML recognition policy" env:"SGMLLEX_STRICT"`
	NoNormalize bool     `help:"Report names in their original case" env:"SGMLLEX_NO_NORMALIZE"`
	HTML        bool     `help:"Lex the content of script, style, xmp and listing elements as literal text" env:"SGMLLEX_HTML"`
	Literal     []string `help:"Additional literal elements" placeholder:"NAME"`
	Chunk       int      `help:"Feed input in chunks of N bytes (0 feeds each file at once)" default:"0" placeholder:"N"`
	ErrorsOnly  bool     `help:"Only print lexical errors and limitations"`
	Positions   bool     `help:"Prefix events with their line and column"`
}

func (c *cli) options(name string) []sgml.Option {
	opts := []sgml.Option{
		sgml.Strict(c.Strict),
		sgml.Normalize(!c.NoNormalize),
		sgml.TrackLines(name),
	}
	var lits []string
	if c.HTML {
		lits = append(lits, sgml.HTMLLiteralElements...)
	}
	lits = append(lits, c.Literal...)
	if len(lits) > 0 {
		opts = append(opts, sgml.LiteralElements(lits...))
	}
	return opts
}

func main() {
	log.SetFlags(0)
	log.SetPrefix("sgmllex: ")

	var params cli
	kong.Parse(&params, kong.Description("Print the lexical events of SGML and HTML documents."))

	if len(params.Files) == 0 {
		params.Files = []string{"-"}
	}
	failed := false
	for _, name := range params.Files {
		var (
			src []byte
			err error
		)
		if name == "-" {
			name = "<stdin>"
			src, err = io.ReadAll(os.Stdin)
		} else {
			src, err = os.ReadFile(name)
		}
		if err != nil {
			log.Fatal(err)
		}
		if n := lex(os.Stdout, name, src, &params); n > 0 {
			failed = true
		}
	}
	if failed {
		os.Exit(1)
	}
}

// lex prints the events for src and returns the number of lexical errors.
func lex(w io.Writer, name string, src []byte, c *cli) int {
	rec := new(sgml.Recorder)
	l := sgml.New(rec, c.options(name)...)
	rec.Lexer = l
	if c.Chunk <= 0 {
		l.Feed(src)
	} else {
		for p := src; len(p) > 0; {
			n := c.Chunk
			if n > len(p) {
				n = len(p)
			}
			l.Feed(p[:n])
			p = p[n:]
		}
	}
	l.Close()

	errs := 0
	f := l.File()
	for _, e := range rec.Events {
		pos := f.Position(e.Pos)
		if e.Kind.IsDiagnostic() {
			if e.Kind == token.Error {
				errs++
			}
			printDiag(w, src, f, pos, e)
			continue
		}
		if c.ErrorsOnly {
			continue
		}
		if c.Positions {
			fmt.Fprintf(w, "%d:%d\t%v\n", pos.Line, pos.Column, e)
		} else {
			fmt.Fprintln(w, e)
		}
	}
	return errs
}

func printDiag(w io.Writer, src []byte, f *token.File, pos token.Position, e sgml.Event) {
	kind := "error"
	if e.Kind == token.Limitation {
		kind = "limitation"
	}
	fmt.Fprintf(w, "%s: %s: %s\n", pos, kind, e.Text)
	start := f.LinePos(pos.Line)
	if start < 0 || int(start) > len(src) {
		return
	}
	line := src[start:]
	if i := bytes.IndexByte(line, '\n'); i >= 0 {
		line = line[:i]
	}
	col := pos.Column - 1
	if col > len(line) {
		col = len(line)
	}
	fmt.Fprintf(w, "\t%s\n\t%s^\n", bytes.TrimRight(line, "\r"), padding(line[:col]))
}

// padding returns the blank prefix that aligns a caret under the character
// following l (supposing rendering with a UTF-8 locale and monospaced font).
// Tabs are kept as is.
func padding(l []byte) string {
	var b strings.Builder
	for i := 0; i < len(l); {
		r, s := utf8.DecodeRune(l[i:])
		i += s
		if r == '\t' {
			b.WriteByte('\t')
			continue
		}
		if !unicode.IsGraphic(r) {
			continue
		}
		switch width.LookupRune(r).Kind() {
		case width.EastAsianFullwidth, width.EastAsianWide:
			b.WriteString("  ")
		default:
			b.WriteByte(' ')
		}
	}
	return b.String()
}
