package sgml_test

import (
	"errors"
	"io"
	"strings"
	"testing"
	"testing/iotest"

	"github.com/d4l3k/messagediff"
	"github.com/db47h/sgml"
	"github.com/db47h/sgml/token"
)

func TestTokenizer(t *testing.T) {
	const input = `<!DOCTYPE html><p class=x>Hello &amp; <b>world</b><!-- c --></p>tail`
	want := lexAll(input, 0)
	for _, size := range []int{1, 3, 4096} {
		tk := sgml.NewTokenizer(iotest.HalfReader(strings.NewReader(input)), sgml.BufferSize(size))
		var got []string
		for {
			e, err := tk.Next()
			if err == io.EOF {
				break
			}
			if err != nil {
				t.Fatal(err)
			}
			if e.Kind == token.StartTag && e.Name == "p" && e.Pos != 15 {
				t.Errorf("buffer size %d: expected <p> at offset 15, got %d", size, e.Pos)
			}
			got = append(got, e.String())
		}
		if diff, equal := messagediff.PrettyDiff(want, got); !equal {
			t.Errorf("buffer size %d:\n%s", size, diff)
		}
		if _, err := tk.Next(); err != io.EOF {
			t.Errorf("buffer size %d: expected io.EOF after end of input, got %v", size, err)
		}
	}
}

func TestTokenizer_readError(t *testing.T) {
	errBoom := errors.New("boom")
	tk := sgml.NewTokenizer(io.MultiReader(strings.NewReader("<a>b"), iotest.ErrReader(errBoom)))
	e, err := tk.Next()
	if err != nil || e.String() != "START a" {
		t.Fatalf("got %v, %v", e, err)
	}
	if _, err = tk.Next(); err != errBoom {
		t.Fatalf("expected %v, got %v", errBoom, err)
	}
	if _, err = tk.Next(); err != errBoom {
		t.Fatalf("expected sticky error, got %v", err)
	}
}

type emptyReader struct{}

func (emptyReader) Read([]byte) (int, error) { return 0, nil }

func TestTokenizer_noProgress(t *testing.T) {
	tk := sgml.NewTokenizer(emptyReader{})
	if _, err := tk.Next(); err != io.ErrNoProgress {
		t.Fatalf("expected io.ErrNoProgress, got %v", err)
	}
}

// Mode switches made between calls to Next apply to the input not yet lexed.
func TestTokenizer_Lexer(t *testing.T) {
	tk := sgml.NewTokenizer(strings.NewReader("<textarea><b></textarea>"), sgml.BufferSize(1))
	e, err := tk.Next()
	if err != nil || e.Name != "textarea" {
		t.Fatalf("got %v, %v", e, err)
	}
	tk.Lexer().SetLiteral(e.Name)
	var got []string
	for {
		e, err = tk.Next()
		if err != nil {
			break
		}
		got = append(got, e.String())
	}
	if diff, equal := messagediff.PrettyDiff([]string{`DATA "<b>"`, "END textarea"}, got); !equal {
		t.Error(diff)
	}
}
