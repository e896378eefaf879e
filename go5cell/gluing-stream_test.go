package go5cell

import (
	"bytes"
	"strings"
	"sync"
	"testing"
)

type setAdder struct {
	mu   sync.Mutex
	seen map[string]bool
}

func (s *setAdder) TryAddGluing(g *Gluing) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := g.Desc
	if s.seen[key] {
		return false
	}
	s.seen[key] = true
	return true
}

type closeBuffer struct {
	bytes.Buffer
	closed bool
}

func (b *closeBuffer) Close() error {
	b.closed = true
	return nil
}

func testGluings() []*Gluing {
	return []*Gluing{
		{NumPentachora: 1, Pairing: "0:1 0:0 0:3 0:2 _", PermIndices: []int{3, 3, 5, 5, -1}, Desc: "a"},
		{NumPentachora: 2, Pairing: "p2", PermIndices: make([]int, 10), Orientable: true, Desc: "b"},
		{NumPentachora: 2, Pairing: "p2", PermIndices: make([]int, 10), Desc: "b"},
		{NumPentachora: 3, Pairing: "p3", PermIndices: make([]int, 15), Desc: "c"},
	}
}

func TestStreamGluings(t *testing.T) {
	src := testGluings()
	stream := StreamGluings(src...)

	i := 0
	for g := range stream.Outlet {
		if g == src[i] {
			t.Fatal("StreamGluings should emit copies")
		}
		if g.Desc != src[i].Desc || len(g.PermIndices) != len(src[i].PermIndices) {
			t.Fatalf("gluing %d: got %+v", i, g)
		}
		i++
	}
	if i != len(src) {
		t.Fatalf("got %d gluings, want %d", i, len(src))
	}
}

func TestSelect(t *testing.T) {
	for _, tc := range []struct {
		sel  GluingSelector
		want int
	}{
		{DefaultGluingSelector, 4},
		{GluingSelector{MinPentachora: 2}, 3},
		{GluingSelector{MaxPentachora: 2}, 3},
		{GluingSelector{MinPentachora: 2, MaxPentachora: 2}, 2},
		{GluingSelector{OrientableOnly: true}, 1},
		{GluingSelector{MinPentachora: 4}, 0},
	} {
		if got := StreamGluings(testGluings()...).Select(tc.sel).PullAll(); got != tc.want {
			t.Errorf("%+v: got %d, want %d", tc.sel, got, tc.want)
		}
	}
}

func TestAddTo(t *testing.T) {
	adder := &setAdder{seen: map[string]bool{}}
	if n := StreamGluings(testGluings()...).AddTo(adder).PullAll(); n != 3 {
		t.Fatalf("added %d, want 3", n)
	}
	if n := StreamGluings(testGluings()...).AddTo(adder).PullAll(); n != 0 {
		t.Fatalf("re-added %d, want 0", n)
	}
}

func TestPrint(t *testing.T) {
	out := &closeBuffer{}
	opts := PrintOpts{Label: "x", Pairing: true, Indices: true, Desc: true}
	if n := StreamGluings(testGluings()[:1]...).Print(out, opts).PullAll(); n != 1 {
		t.Fatalf("passed %d, want 1", n)
	}
	if !out.closed {
		t.Fatal("Print should close its writer")
	}
	want := "x,000001,[0:1 0:0 0:3 0:2 _] 3 3 5 5 -1 a\n"
	if got := out.String(); got != want {
		t.Fatalf("got %q, want %q", got, want)
	}

	var line strings.Builder
	WriteGluing(&line, testGluings()[3], PrintOpts{Desc: true})
	if line.String() != "c" {
		t.Fatalf("got %q", line.String())
	}
}
