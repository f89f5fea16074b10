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

// Package entity implements entity and character reference replacement in
// attribute values.
//
// A reference has one of the forms
//
//	&name;    &name
//	&#65;     &#65
//	&#x41;    &#x41
//	&#RE;     &#RE
//
// A reference without a trailing ';' ends at the first character that cannot
// be part of a name. Besides the names resolved by the caller supplied Lookup,
// the SGML function characters #RE (carriage return), #RS (line feed), #SPACE
// and #TAB, as well as all numeric character references to valid code points,
// are always resolved. Unknown references are left untouched.
package entity

import (
	"strconv"
	"strings"
	"unicode/utf8"

	"golang.org/x/net/html"
)

// A Lookup resolves an entity name to its replacement text.
type Lookup func(name string) (string, bool)

// Map returns a Lookup backed by the map m.
func Map(m map[string]string) Lookup {
	return func(name string) (string, bool) {
		v, ok := m[name]
		return v, ok
	}
}

// Chain returns a Lookup that tries each of the given lookups in turn. Nil
// lookups are skipped.
func Chain(lookups ...Lookup) Lookup {
	return func(name string) (string, bool) {
		for _, l := range lookups {
			if l == nil {
				continue
			}
			if v, ok := l(name); ok {
				return v, ok
			}
		}
		return "", false
	}
}

// functionChars maps the SGML function character names (lower case) to their
// replacement text.
var functionChars = map[string]string{
	"re":    "\r",
	"rs":    "\n",
	"space": " ",
	"tab":   "\t",
}

// Replace returns a copy of s where all references resolved by m or by the
// built-in table are replaced.
func Replace(s string, m map[string]string) string {
	return ReplaceFunc(s, Map(m))
}

// ReplaceFunc returns a copy of s where all references resolved by lookup or
// by the built-in table are replaced. The lookup function is called with the
// reference name, including the leading '#' for character references. It may
// be nil.
func ReplaceFunc(s string, lookup Lookup) string {
	i := strings.IndexByte(s, '&')
	if i < 0 {
		return s
	}
	var b strings.Builder
	b.Grow(len(s))
	for i >= 0 {
		b.WriteString(s[:i])
		s = s[i:]
		if n, v, ok := reference(s, lookup); ok {
			b.WriteString(v)
			s = s[n:]
		} else {
			b.WriteByte('&')
			s = s[1:]
		}
		i = strings.IndexByte(s, '&')
	}
	b.WriteString(s)
	return b.String()
}

// reference resolves the reference at the start of s. It returns the length
// of the reference text and its replacement.
func reference(s string, lookup Lookup) (n int, v string, ok bool) {
	var (
		j    = 1
		base = 0 // 0 for names
	)
	if j < len(s) && s[j] == '#' {
		j++
	}
	k := j
	switch {
	case j == 2 && k+1 < len(s) && (s[k] == 'x' || s[k] == 'X') && IsHexDigit(s[k+1]):
		base = 16
		for k++; k < len(s) && IsHexDigit(s[k]); k++ {
		}
	case j == 2 && k < len(s) && IsDigit(s[k]):
		base = 10
		for ; k < len(s) && IsDigit(s[k]); k++ {
		}
	case k < len(s) && IsNameStart(s[k]):
		for k++; k < len(s) && IsNameChar(s[k]); k++ {
		}
	default:
		return 0, "", false
	}
	n = k
	if k < len(s) && s[k] == ';' {
		n++
	}
	name := s[1:k]
	if lookup != nil {
		if v, ok = lookup(name); ok {
			return n, v, true
		}
	}
	if j == 1 {
		return 0, "", false
	}
	switch base {
	case 0:
		v, ok = functionChars[strings.ToLower(s[j:k])]
	case 10:
		v, ok = Rune(s[j:k], 10)
	case 16:
		v, ok = Rune(s[j+1:k], 16)
	}
	return n, v, ok
}

// Rune converts the digits of a numeric character reference to a string. It
// returns false if the digits do not denote a valid Unicode code point.
func Rune(digits string, base int) (string, bool) {
	c, err := strconv.ParseUint(digits, base, 32)
	if err != nil || c > utf8.MaxRune || !utf8.ValidRune(rune(c)) {
		return "", false
	}
	return string(rune(c)), true
}

// HTML resolves name against the HTML character entity table. Names are case
// sensitive.
func HTML(name string) (string, bool) {
	if name == "" || !IsNameStart(name[0]) {
		return "", false
	}
	ref := "&" + name + ";"
	v := html.UnescapeString(ref)
	// a partial match like "&ampx;" leaves the unmatched tail, ';' included.
	if v == ref || len(v) > 1 && strings.HasSuffix(v, ";") {
		return "", false
	}
	return v, true
}

// IsHTML returns true if name is a known HTML character entity.
func IsHTML(name string) bool {
	_, ok := HTML(name)
	return ok
}

// IsNameStart returns true if c can start a name.
func IsNameStart(c byte) bool {
	return 'a' <= c && c <= 'z' || 'A' <= c && c <= 'Z'
}

// IsNameChar returns true if c can appear in a name after the first character.
func IsNameChar(c byte) bool {
	return IsNameStart(c) || IsDigit(c) || c == '.' || c == '-'
}

// IsDigit returns true for ASCII decimal digits.
func IsDigit(c byte) bool {
	return '0' <= c && c <= '9'
}

// IsHexDigit returns true for ASCII hexadecimal digits.
func IsHexDigit(c byte) bool {
	return IsDigit(c) || 'a' <= c && c <= 'f' || 'A' <= c && c <= 'F'
}
