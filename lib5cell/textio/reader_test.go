package textio

import (
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/2x3systems/go5cell/go5cell"
)

func TestTokens(t *testing.T) {
	r := NewReader(strings.NewReader("  3 -1\n\n7\nof. 2 4\n  header line  \n5 6 x\n"))

	for _, want := range []int{3, -1, 7} {
		got, err := r.Int("val")
		if err != nil || got != want {
			t.Fatalf("got %d (%v), want %d", got, err, want)
		}
	}

	flags := ""
	for i := 0; i < 3; i++ {
		c, err := r.Char("flag")
		if err != nil {
			t.Fatal(err)
		}
		flags += string(c)
	}
	if flags != "of." {
		t.Fatalf("flags %q", flags)
	}

	vals, err := r.LineInts("rest")
	if err != nil || len(vals) != 2 || vals[0] != 2 || vals[1] != 4 {
		t.Fatalf("rest of line: %v (%v)", vals, err)
	}

	line, err := r.NonEmptyLine()
	if err != nil || line != "header line" {
		t.Fatalf("line %q (%v)", line, err)
	}

	if _, err = r.IntIn("ranged", 0, 5); !errors.Is(err, go5cell.ErrInvalidInput) {
		t.Fatalf("5 should be out of [0, 5): %v", err)
	}
	if v, err := r.IntIn("ranged", 0, 7); err != nil || v != 6 {
		t.Fatalf("got %d (%v)", v, err)
	}
	if _, err = r.Int("word"); !errors.Is(err, go5cell.ErrInvalidInput) {
		t.Fatalf("x is not an int: %v", err)
	}

	if _, err = r.Token(); err != io.ErrUnexpectedEOF {
		t.Fatalf("expected EOF, got %v", err)
	}
	if _, err = r.Int("past end"); !errors.Is(err, go5cell.ErrInvalidInput) {
		t.Fatalf("expected invalid input, got %v", err)
	}
}

func TestLineIntsAcrossLines(t *testing.T) {
	r := NewReader(strings.NewReader("1 2 3\n4 5"))
	if _, err := r.Int("first"); err != nil {
		t.Fatal(err)
	}
	a, _ := r.LineInts("a")
	b, err := r.LineInts("b")
	if len(a) != 2 || len(b) != 2 || b[1] != 5 || err != nil {
		t.Fatalf("a=%v b=%v err=%v", a, b, err)
	}
	if _, err = r.LineInts("c"); !errors.Is(err, go5cell.ErrInvalidInput) {
		t.Fatalf("expected invalid input, got %v", err)
	}
}
