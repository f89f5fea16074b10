package sgml_test

import (
	"math/rand"
	"strconv"
	"strings"
	"testing"

	"github.com/d4l3k/messagediff"
	"github.com/db47h/sgml"
	"github.com/db47h/sgml/entity"
	"github.com/db47h/sgml/token"
)

type testData struct {
	name  string
	input string
	res   res
}

type res []string

// lexAll lexes input fed in chunks of the given size, or all at once if chunk
// is 0.
func lexAll(input string, chunk int, opts ...sgml.Option) []string {
	var rec sgml.Recorder
	l := sgml.New(&rec, opts...)
	if chunk <= 0 {
		l.FeedString(input)
	} else {
		for i := 0; i < len(input); i += chunk {
			e := i + chunk
			if e > len(input) {
				e = len(input)
			}
			l.FeedString(input[i:e])
		}
	}
	l.Close()
	return rec.Strings()
}

func runTests(t *testing.T, data []testData, opts ...sgml.Option) {
	t.Helper()
	for _, td := range data {
		td := td
		t.Run(td.name, func(t *testing.T) {
			for _, chunk := range []int{0, 1, 2, 7} {
				got := lexAll(td.input, chunk, opts...)
				if diff, equal := messagediff.PrettyDiff([]string(td.res), got); !equal {
					t.Errorf("chunk size %d:\n%s", chunk, diff)
				}
			}
		})
	}
}

func TestLexer_lenient(t *testing.T) {
	data := []testData{
		{"text", "Hello, world", res{`DATA "Hello, world"`}},
		{"tags", "<p>Hello &amp; welcome</p>", res{
			"START p", `DATA "Hello "`, `NAMEDCHARREF amp ";"`, `DATA " welcome"`, "END p"}},
		{"splitTag", `<div class="x">`, res{`START div class="x"`}},
		{"attrs", `<IMG SRC="a.gif" ALT='x &lt; y' ISMAP width=10>`, res{
			`START img src="a.gif" alt="x < y" ismap width="10"`}},
		{"attrEntities", `<a title="&lt;&#65;&foo;">`, res{`START a title="<A&foo;"`}},
		{"unquotedValue", `<a href=?a=1&amp;b=2>`, res{`START a href="?a=1&amp;b=2"`}},
		{"lenientAttrs", `<a data_x:y=foo/bar b=>`, res{`START a data_x:y="foo/bar" b`}},
		{"emptyTags", "<></>", res{"START ", "END "}},
		{"selfClosing", "<br/>x", res{"START br", `DATA "x"`}},
		{"comment", "a<!-- x -- y -->b", res{`DATA "a"`, `COMMENT " x -- y "`, `DATA "b"`}},
		{"emptyComment", "<!---->", res{`COMMENT ""`}},
		{"unterminatedComment", "<!-- open", res{`COMMENT " open"`}},
		{"abruptComments", "a<!-->b<!--->c", res{
			`DATA "a"`, `COMMENT ""`, `DATA "b"`, `COMMENT ""`, `DATA "c"`}},
		{"commentAtEnd", "<!--", res{`COMMENT ""`}},
		{"pi", "<?pi>x", res{`DATA "<?pi>x"`}},
		{"doctype", `<!DOCTYPE HTML PUBLIC "-//W3C//DTD HTML 4.01//EN">`, res{
			`DECL doctype html public "-//W3C//DTD HTML 4.01//EN"`}},
		{"badDecl", "<!DOCTYPE html (x)>y", res{`DATA "<!DOCTYPE html (x)>y"`}},
		{"markupDecl", "<!><!-x", res{`DATA "<!><!-x"`}},
		{"charRefs", "&#65;&#66 x&#x43;", res{
			`CHARREF 65 ";"`, `CHARREF 66 ""`, `DATA " x"`, `CHARREF 67 ";"`}},
		{"newlineTerm", "&amp\nb", res{`NAMEDCHARREF amp "\n"`, `DATA "\nb"`}},
		{"entityRefs", "&MyEntity; &Amp; &AMP;", res{
			`ENTITYREF MyEntity ";"`, `DATA " "`, `NAMEDCHARREF amp ";"`, `DATA " "`, `NAMEDCHARREF amp ";"`}},
		{"functionChars", "&#RE;&#Space;", res{`NAMEDCHARREF re ";"`, `NAMEDCHARREF space ";"`}},
		{"bigRef", "&#99999999999;", res{`DATA "&#99999999999;"`}},
		{"refAtEnd", "x&amp", res{`DATA "x"`, `NAMEDCHARREF amp ""`}},
		{"stray", "a < b && c <3 </ x", res{`DATA "a < b && c <3 </ x"`}},
		{"trailingLt", "x<", res{`DATA "x<"`}},
		{"trailingDecl", "x<!-", res{`DATA "x<!-"`}},
		{"trailingRef", "x&#", res{`DATA "x&#"`}},
		{"endTags", "</a  ></A junk></b<c>", res{"END a", "END a", "END b", "START c"}},
		{"unclosedStartTag", "<a<b>", res{"START a", "START b"}},
		{"unterminatedTag", `x<a href="y`, res{`DATA "x<a href=\"y"`}},
		{"nonASCII", "<é>", res{`DATA "<é>"`}},
	}
	runTests(t, data)
}

func TestLexer_strict(t *testing.T) {
	data := []testData{
		{"comments", "<!-- x -- -- y -->", res{`COMMENT " x "`, `COMMENT " y "`}},
		{"malformedComment", "<!-- x -- y -->", res{
			"ERROR invalid character 'y' in comment declaration", `COMMENT " x "`}},
		{"unterminatedComment", "<!-- open but never closed", res{
			"ERROR unterminated comment", `COMMENT " open but never closed"`}},
		{"pi", "<?php echo 1 ?><a>", res{`PI "php echo 1 ?"`, "START a"}},
		{"subset", `<!DOCTYPE doc [ <!ENTITY x "y"> ]>text`, res{
			"LIMITATION declaration subsets are not supported", "DECL doctype doc", `DATA "text"`}},
		{"declComment", `<!ENTITY foo -- the foo -- "bar">`, res{`DECL entity foo -- the foo -- "bar"`}},
		{"paramEntity", `<!ENTITY % ISOlat1 PUBLIC "ISO 8879:1986//ENTITIES Added Latin 1//EN">%ISOlat1;`, res{
			`DECL entity % isolat1 public "ISO 8879:1986//ENTITIES Added Latin 1//EN"`, `DATA "%ISOlat1;"`}},
		{"declNumber", "<!SHORTREF map 1st>", res{"DECL shortref map 1st"}},
		{"badDecl", "<!DOCTYPE html (x)>y", res{"ERROR invalid character '(' in declaration", `DATA "y"`}},
		{"refs", "&#65;&#66 x&#x43;&amp", res{
			`CHARREF 65 ";"`, `DATA "&#66 x"`, `NAMEDCHARREF x43 ";"`, `DATA "&amp"`}},
		{"newlineTerm", "&amp\nb", res{`NAMEDCHARREF amp "\n"`, `DATA "b"`}},
		{"endTags", "</a junk></b<c>", res{
			`ERROR illegal character 'j' in end tag "a"`, "END a",
			`LIMITATION unclosed end tag "b"`, "END b", "START c"}},
		{"unclosedStartTag", "<a<b>", res{`LIMITATION unclosed start tag "a"`, "START a", "START b"}},
		{"duplicateAttr", "<a x=1 x=2>", res{`ERROR duplicate attribute "x" in start tag "a"`, `START a x="1"`}},
		{"illegalAttrChar", "<a @ b>", res{`ERROR illegal character '@' in start tag "a"`, "START a b"}},
		{"missingValue", "<a x=>", res{`ERROR missing value for attribute "x"`, "START a x"}},
		{"net", "<em/text/ more", res{"START em", `DATA "text"`, "END em", `DATA " more"`}},
		{"missingNet", "<br/>x", res{"START br", `ERROR missing null end tag for "br"`, `DATA ">x"`}},
		{"netInAttrs", "<a x=1/b>", res{`LIMITATION null end tag in start tag "a"`, `START a x="1" b`}},
		{"selfClosing", "<a x=foo/>", res{`START a x="foo"`}},
		{"unterminatedTag", `x<a href="y`, res{`DATA "x"`, "ERROR unterminated start tag", `DATA "<a href=\"y"`}},
		{"unterminatedPI", "<?pi", res{"ERROR unterminated processing instruction", `DATA "<?pi"`}},
	}
	runTests(t, data, sgml.Strict(true))
}

func TestLexer_literal(t *testing.T) {
	data := []testData{
		{"script", `<script>if (a<b && c) document.write("</p>")</script><p>`, res{
			"START script", `DATA "if (a<b && c) document.write(\"</p>\")"`, "END script", "START p"}},
		{"caseInsensitive", "<STYLE>p { color: red }</style  ><x>", res{
			"START style", `DATA "p { color: red }"`, "END style", "START x"}},
		{"markupIgnored", "<xmp><!-- &amp; --></xmp>", res{"START xmp", `DATA "<!-- &amp; -->"`, "END xmp"}},
		{"unterminated", "<xmp><b>bold</x", res{"START xmp", `DATA "<b>bold</x"`}},
		{"notLiteral", "<b><i></b>", res{"START b", "START i", "END b"}},
	}
	runTests(t, data, sgml.LiteralElements(sgml.HTMLLiteralElements...))
	runTests(t, []testData{
		{"keepCase", "<Script>x</SCRIPT>", res{"START Script", `DATA "x"`, "END SCRIPT"}},
	}, sgml.LiteralElements(sgml.HTMLLiteralElements...), sgml.Normalize(false))
}

func TestLexer_options(t *testing.T) {
	runTests(t, []testData{
		{"noNormalize", `<A HREF="X">&AMP;&Amp;</A>`, res{
			`START A HREF="X"`, `NAMEDCHARREF AMP ";"`, `ENTITYREF Amp ";"`, "END A"}},
	}, sgml.Normalize(false))
	runTests(t, []testData{
		{"noCharEntities", "&amp;", res{`ENTITYREF amp ";"`}},
	}, sgml.CharEntities(nil))
	runTests(t, []testData{
		{"entities", `<a title="&me; &amp; co">`, res{`START a title="Denis & co"`}},
	}, sgml.Entities(entity.Map(map[string]string{"me": "Denis"})))
}

const sampleDoc = `<!DOCTYPE html PUBLIC "-//W3C//DTD HTML 4.01//EN">
<html><head><title>T&eacute;st &#169; &#x263A;</title>
<style>p > a { color: red }</STYLE >
<script>document.write("<b>" + (a<b) + "</b>")</script></head>
<!-- comment -- with -- dashes -->
<body bgcolor=white><p class="x" id='y' checked>1 < 2 && 3 > 2 &amp
<a href="?a=1&amp;b=2">link</a><br/><?pi target?>
<em/net/ &MyEntity; &#RE; </body></html>
`

// Random splits of a document must produce the same events as the document
// fed at once.
func TestLexer_fragmentation(t *testing.T) {
	r := rand.New(rand.NewSource(42))
	for _, opts := range [][]sgml.Option{
		{sgml.LiteralElements(sgml.HTMLLiteralElements...)},
		{sgml.LiteralElements(sgml.HTMLLiteralElements...), sgml.Strict(true)},
		{sgml.Normalize(false)},
	} {
		want := lexAll(sampleDoc, 0, opts...)
		for n := 0; n < 50; n++ {
			var rec sgml.Recorder
			l := sgml.New(&rec, opts...)
			for s := sampleDoc; len(s) > 0; {
				k := r.Intn(len(s) + 1)
				l.FeedString(s[:k])
				s = s[k:]
			}
			l.Close()
			if diff, equal := messagediff.PrettyDiff(want, rec.Strings()); !equal {
				t.Fatalf("split %d:\n%s", n, diff)
			}
		}
	}
}

func TestLexer_adversarialComment(t *testing.T) {
	input := "<!--" + strings.Repeat("-", 10000) + "-->"
	got := lexAll(input, 0)
	if len(got) != 1 || got[0] != `COMMENT "`+strings.Repeat("-", 10000)+`"` {
		t.Fatalf("lenient: unexpected events %d", len(got))
	}
	got = lexAll(input, 0, sgml.Strict(true))
	if len(got) != 2501 {
		t.Fatalf("strict: expected 2501 comments, got %d events", len(got))
	}
	for _, s := range got {
		if s != `COMMENT ""` {
			t.Fatalf("strict: unexpected event %s", s)
		}
	}
}

// Constructs fed one byte at a time must give the same events as when fed at
// once. Suspended scans resume where they stopped, which these inputs exercise
// in every scanner.
func TestLexer_longConstructs(t *testing.T) {
	const n = 1 << 12
	rep := strings.Repeat
	strict := []sgml.Option{sgml.Strict(true)}
	data := []struct {
		name  string
		input string
		opts  []sgml.Option
	}{
		{"comment", "<!--" + rep("-", n) + "-->", nil},
		{"commentGt", "<!-- " + rep("->", n) + "-->", nil},
		{"commentDecl", "<!--" + rep("-", n) + "-->", strict},
		{"commentDeclSpaces", "<!-- a --" + rep(" ", n) + "-- b --" + rep(" ", n) + ">", strict},
		{"commentDeclBad", "<!-- a -- x" + rep("y", n) + ">", strict},
		{"startTag", "<" + rep("a", n) + rep(" x", n) + ">", nil},
		{"quotedAttr", `<a title="` + rep("x>", n) + `" b = '` + rep("&amp;", n) + `'>`, nil},
		{"unquotedAttr", "<a b=" + rep("x", n) + ">", nil},
		{"duplicateAttrs", "<a" + rep(" x=1", n) + ">", strict},
		{"net", "<em/" + rep("x", n) + "/", strict},
		{"endTag", "</" + rep("a", n) + rep(" ", n) + rep("x", n) + ">", nil},
		{"pi", "<?" + rep("x", n) + ">", strict},
		{"decl", `<!DOCTYPE ` + rep("x", n) + ` "` + rep("y", n) + `" -- ` + rep("-", n) + ` -- [` + rep("]", n) + ` >`, nil},
		{"badDecl", "<!DOCTYPE (" + rep("x", n) + ">", strict},
		{"entityRef", "&" + rep("a", n) + ";", nil},
		{"charRef", "&#" + rep("0", n) + "65;&#x" + rep("0", n) + "41", nil},
		{"literal", "<script>" + rep("x</scrip", n) + "</script" + rep(" ", n) + "x</script" + rep(" ", n) + ">", []sgml.Option{
			sgml.LiteralElements(sgml.HTMLLiteralElements...)}},
		{"unterminated", `<a title="` + rep("x", n), strict},
	}
	for _, td := range data {
		td := td
		t.Run(td.name, func(t *testing.T) {
			want := lexAll(td.input, 0, td.opts...)
			for _, chunk := range []int{1, 3} {
				got := lexAll(td.input, chunk, td.opts...)
				if diff, equal := messagediff.PrettyDiff(want, got); !equal {
					t.Fatalf("chunk size %d:\n%s", chunk, diff)
				}
			}
		})
	}
}

// A comment declaration fed one byte at a time only allocates its comments
// once the declaration is complete.
func TestLexer_bytewiseAllocs(t *testing.T) {
	const n = 1 << 12
	input := []byte("<!--" + strings.Repeat("-", n) + "-->")
	allocs := testing.AllocsPerRun(1, func() {
		l := sgml.New(nil, sgml.Strict(true))
		for i := range input {
			l.Feed(input[i : i+1])
		}
		l.Close()
	})
	if allocs > n/4 {
		t.Errorf("expected at most %d allocations, got %.0f", n/4, allocs)
	}
}

// Every byte of the input is accounted for by exactly one event: ordered by
// position, events tile the input and each one matches the text it spans.
func TestLexer_conservation(t *testing.T) {
	for _, chunk := range []int{0, 1, 5} {
		var rec sgml.Recorder
		l := sgml.New(&rec, sgml.LiteralElements(sgml.HTMLLiteralElements...))
		rec.Lexer = l
		step := chunk
		if step == 0 {
			step = len(sampleDoc)
		}
		for i := 0; i < len(sampleDoc); i += step {
			l.FeedString(sampleDoc[i:min(i+step, len(sampleDoc))])
		}
		l.Close()
		if len(rec.Events) == 0 || rec.Events[0].Pos != 0 {
			t.Fatalf("chunk size %d: first event not at offset 0", chunk)
		}
		for i, e := range rec.Events {
			end := token.Pos(len(sampleDoc))
			if i+1 < len(rec.Events) {
				end = rec.Events[i+1].Pos
			}
			if end <= e.Pos {
				t.Fatalf("chunk size %d: %v at offset %d is followed by an event at offset %d", chunk, e, e.Pos, end)
			}
			if src := sampleDoc[e.Pos:end]; !matchesSource(e, src) {
				t.Errorf("chunk size %d: %v does not match source text %q", chunk, e, src)
			}
		}
	}
}

// matchesSource returns true if src, the input spanned by e, is a plausible
// source for e. Names are compared case-insensitively.
func matchesSource(e sgml.Event, src string) bool {
	hasPrefix := func(p string) bool {
		return len(src) >= len(p) && strings.EqualFold(src[:len(p)], p)
	}
	switch e.Kind {
	case token.Data:
		return src == e.Text
	case token.StartTag:
		return hasPrefix("<" + e.Name)
	case token.EndTag:
		return hasPrefix("</"+e.Name) && strings.HasSuffix(src, ">")
	case token.Comment:
		return src == "<!--"+e.Text+"-->"
	case token.PI:
		return src == "<?"+e.Text+">"
	case token.Declaration:
		return strings.HasPrefix(src, "<!") && strings.HasSuffix(src, ">")
	case token.CharRef, token.NamedCharRef, token.EntityRef:
		term := e.Term
		if term == "\n" {
			// the newline is reported again as data
			term = ""
		}
		ref, ok := strings.CutSuffix(src, term)
		if !ok {
			return false
		}
		if e.Kind != token.CharRef {
			return hasPrefix("&") && strings.EqualFold(strings.TrimPrefix(ref[1:], "#"), e.Name)
		}
		digits, base := strings.TrimPrefix(ref, "&#"), 10
		if len(digits) > 0 && (digits[0] == 'x' || digits[0] == 'X') {
			digits, base = digits[1:], 16
		}
		v, err := strconv.ParseUint(digits, base, 32)
		return strings.HasPrefix(ref, "&#") && err == nil && int(v) == e.Ordinal
	}
	return false
}

// Character data is coalesced: trailing data waits for Close or Flush.
func TestLexer_pendingData(t *testing.T) {
	var rec sgml.Recorder
	l := sgml.New(&rec)
	l.FeedString("<html><p>x</p></html>\n")
	want := []string{"START html", "START p", `DATA "x"`, "END p", "END html"}
	if diff, equal := messagediff.PrettyDiff(want, rec.Strings()); !equal {
		t.Fatal(diff)
	}
	l.Close()
	if diff, equal := messagediff.PrettyDiff(append(want, `DATA "\n"`), rec.Strings()); !equal {
		t.Error(diff)
	}

	h := new(hookHandler)
	l = sgml.New(h)
	h.hook = func(name string) { l.NoMoreTags() }
	l.FeedString("<plaintext>")
	l.FeedString(strings.Repeat("<b>", 1000))
	l.FeedString(strings.Repeat("x", 2000))
	if diff, equal := messagediff.PrettyDiff([]string{"START plaintext"}, h.Strings()); !equal {
		t.Fatal(diff)
	}
	l.Flush()
	want = []string{"START plaintext", `DATA "` + strings.Repeat("<b>", 1000) + strings.Repeat("x", 2000) + `"`}
	if diff, equal := messagediff.PrettyDiff(want, h.Strings()); !equal {
		t.Fatal(diff)
	}
	if p := l.Pos(); p != 5011 {
		t.Errorf("expected Pos() == 5011 after Flush, got %d", p)
	}
	l.FeedString("y")
	l.Close()
	if diff, equal := messagediff.PrettyDiff(append(want, `DATA "y"`), h.Strings()); !equal {
		t.Error(diff)
	}
}

// hookHandler records events and calls hook on each start tag.
type hookHandler struct {
	sgml.Recorder
	hook func(name string)
}

func (h *hookHandler) StartTag(name string, attrs []sgml.Attr) {
	h.Recorder.StartTag(name, attrs)
	if h.hook != nil {
		h.hook(name)
	}
}

func TestLexer_reentrant(t *testing.T) {
	data := []struct {
		name  string
		input string
		hook  func(l *sgml.Lexer, name string)
		res   res
	}{
		{"feed", "<a>", func(l *sgml.Lexer, name string) {
			if name == "a" {
				l.FeedString("<b>x")
			}
		}, res{"START a", "START b", `DATA "x"`}},
		{"literal", "<textarea><b></textarea>", func(l *sgml.Lexer, name string) {
			if name == "textarea" {
				l.SetLiteral(name)
			}
		}, res{"START textarea", `DATA "<b>"`, "END textarea"}},
		{"noMoreTags", "<plaintext><b>&amp;", func(l *sgml.Lexer, name string) {
			if name == "plaintext" {
				l.NoMoreTags()
			}
		}, res{"START plaintext", `DATA "<b>&amp;"`}},
		{"restrict", "<strict><?pi>", func(l *sgml.Lexer, name string) {
			if name == "strict" && l.Restrict(true) {
				panic("expected lenient mode")
			}
		}, res{"START strict", `PI "pi"`}},
		{"normalize", "<raw><B>", func(l *sgml.Lexer, name string) {
			if name == "raw" && !l.Normalize(false) {
				panic("expected normalization")
			}
		}, res{"START raw", "START B"}},
	}
	for _, td := range data {
		td := td
		t.Run(td.name, func(t *testing.T) {
			h := new(hookHandler)
			l := sgml.New(h)
			h.hook = func(name string) { td.hook(l, name) }
			l.FeedString(td.input)
			l.Close()
			if diff, equal := messagediff.PrettyDiff([]string(td.res), h.Strings()); !equal {
				t.Error(diff)
			}
		})
	}
}

func TestLexer_closeFromHandler(t *testing.T) {
	h := new(hookHandler)
	l := sgml.New(h)
	h.hook = func(name string) {
		if name == "a" {
			l.Close()
		}
	}
	l.FeedString("<a>text<b")
	want := []string{"START a", `DATA "text<b"`}
	if diff, equal := messagediff.PrettyDiff(want, h.Strings()); !equal {
		t.Fatal(diff)
	}
	expectPanic(t, "Close", l.Close)
}

func expectPanic(t *testing.T, name string, f func()) {
	t.Helper()
	defer func() {
		if r := recover(); r != sgml.ErrClosed {
			t.Errorf("%s: expected panic with ErrClosed, got %v", name, r)
		}
	}()
	f()
}

func TestLexer_Close(t *testing.T) {
	var rec sgml.Recorder
	l := sgml.New(&rec)
	l.FeedString("<p>x</p>")
	if n := len(rec.Events); n != 3 {
		t.Fatalf("expected 3 events before Close, got %d", n)
	}
	l.Close()
	if n := len(rec.Events); n != 3 {
		t.Errorf("expected no events from Close, got %v", rec.Strings()[3:])
	}
	if n, err := l.Write([]byte("x")); n != 0 || err != sgml.ErrClosed {
		t.Errorf("Write: got %d, %v", n, err)
	}
	expectPanic(t, "Close", l.Close)
	expectPanic(t, "Feed", func() { l.FeedString("x") })
}

func TestLexer_Write(t *testing.T) {
	var rec sgml.Recorder
	l := sgml.New(&rec)
	for _, s := range []string{"<a hr", "ef=x>", ""} {
		if n, err := l.Write([]byte(s)); n != len(s) || err != nil {
			t.Fatalf("Write(%q): got %d, %v", s, n, err)
		}
	}
	l.Close()
	if diff, equal := messagediff.PrettyDiff([]string{`START a href="x"`}, rec.Strings()); !equal {
		t.Error(diff)
	}
}

func TestLexer_Line(t *testing.T) {
	h := new(hookHandler)
	l := sgml.New(h, sgml.TrackLines("doc"))
	h.Lexer = l
	var lines []int
	h.hook = func(string) { lines = append(lines, l.Line()) }
	l.FeedString("<a>\n<b>\n\n</b>")
	l.Close()
	want := []string{"doc:1:1", "doc:1:4", "doc:2:1", "doc:2:4", "doc:4:1"}
	var got []string
	for _, e := range h.Events {
		got = append(got, l.File().Position(e.Pos).String())
	}
	if diff, equal := messagediff.PrettyDiff(want, got); !equal {
		t.Error(diff)
	}
	if diff, equal := messagediff.PrettyDiff([]int{1, 2}, lines); !equal {
		t.Error(diff)
	}
	if sgml.New(nil).Line() != -1 {
		t.Error("expected Line() == -1 without line tracking")
	}
}

func TestLexer_Pos(t *testing.T) {
	l := sgml.New(nil)
	l.FeedString("ab<c")
	if p := l.Pos(); p != 2 {
		t.Errorf("expected Pos() == 2, got %d", p)
	}
	l.FeedString(">def")
	if p := l.Position(); p.Offset != 8 || p.IsValid() {
		t.Errorf("unexpected position %+v", p)
	}
}
