package catalog_test

import (
	"errors"
	"os"
	"path"
	"strings"
	"testing"

	"github.com/2x3systems/go5cell/go5cell"
	"github.com/2x3systems/go5cell/lib5cell/catalog"
)

func testGluing(n int, idx ...int) *go5cell.Gluing {
	g := &go5cell.Gluing{
		NumPentachora: n,
		Pairing:       strings.Repeat("0 0 ", 5*n),
		PermIndices:   make([]int, 5*n),
		Desc:          "test",
	}
	copy(g.PermIndices, idx)
	return g
}

func countSelected(cat go5cell.Catalog, sel go5cell.GluingSelector) int {
	total := 0
	onHit := make(chan *go5cell.Gluing)
	go func() {
		cat.Select(sel, onHit)
		close(onHit)
	}()
	for range onHit {
		total++
	}
	return total
}

func TestBasics(t *testing.T) {
	dir, err := os.MkdirTemp("", "junk*")
	if err != nil {
		t.Fatal(err)
	}
	defer os.RemoveAll(dir)

	opts := go5cell.CatalogOpts{
		DbPathName: path.Join(dir, "TestBasics"),
	}
	cat, err := catalog.Open(opts)
	if err != nil {
		t.Fatal(err)
	}

	gluings := []*go5cell.Gluing{
		testGluing(1, -1, 3, 5),
		testGluing(1, -1, 4, 5),
		testGluing(2, 0, 1, 2, 3),
		testGluing(3, 23, 22),
	}
	gluings[2].Orientable = true

	for _, g := range gluings {
		if added := cat.TryAddGluing(g); !added {
			t.Fatal("expected add")
		}
		if added := cat.TryAddGluing(g.Clone()); added {
			t.Fatal("expected duplicate")
		}
	}
	if cat.NumGluings(1) != 2 || cat.NumGluings(2) != 1 || cat.NumGluings(4) != 0 {
		t.Fatal("NumGluings fail")
	}

	if n := countSelected(cat, go5cell.DefaultGluingSelector); n != 4 {
		t.Fatalf("Select all: got %d", n)
	}
	if n := countSelected(cat, go5cell.GluingSelector{MinPentachora: 2, MaxPentachora: 2}); n != 1 {
		t.Fatalf("Select n=2: got %d", n)
	}
	if n := countSelected(cat, go5cell.GluingSelector{OrientableOnly: true}); n != 1 {
		t.Fatalf("Select orientable: got %d", n)
	}

	// Records come back intact.
	onHit := make(chan *go5cell.Gluing)
	go func() {
		cat.Select(go5cell.GluingSelector{MinPentachora: 3}, onHit)
		close(onHit)
	}()
	for g := range onHit {
		if g.NumPentachora != 3 || g.PermIndices[0] != 23 || g.PermIndices[2] != 0 || g.Desc != "test" {
			t.Fatalf("bad record %+v", g)
		}
	}

	if err := cat.Close(); err != nil {
		t.Fatal(err)
	}

	// Counters survive a reopen.
	opts.ReadOnly = true
	cat, err = catalog.Open(opts)
	if err != nil {
		t.Fatal(err)
	}
	defer cat.Close()
	if !cat.IsReadOnly() || cat.NumGluings(1) != 2 {
		t.Fatal("reopen fail")
	}
	if cat.TryAddGluing(testGluing(5)) {
		t.Fatal("read-only catalog accepted a gluing")
	}
	if err := cat.PutFrontier(1, "g\n"); !errors.Is(err, go5cell.ErrCatalogReadOnly) {
		t.Fatalf("expected ErrCatalogReadOnly, got %v", err)
	}
}

func TestReadOnlyNeedsPath(t *testing.T) {
	_, err := catalog.Open(go5cell.CatalogOpts{ReadOnly: true})
	if !errors.Is(err, go5cell.ErrBadCatalogParam) {
		t.Fatalf("expected ErrBadCatalogParam, got %v", err)
	}
}

func TestFrontiers(t *testing.T) {
	cat, err := catalog.Open(go5cell.CatalogOpts{})
	if err != nil {
		t.Fatal(err)
	}
	defer cat.Close()

	dumps := map[uint64]string{
		7: "g\n" + strings.Repeat("-1 ", 500) + "\n",
		2: "g\nfirst\n",
		9: "g\nlast\n",
	}
	for id, tagged := range dumps {
		if err := cat.PutFrontier(id, tagged); err != nil {
			t.Fatal(err)
		}
	}
	if cat.NumFrontiers() != 3 {
		t.Fatalf("NumFrontiers: got %d", cat.NumFrontiers())
	}

	var ids []uint64
	err = cat.Frontiers(func(id uint64, tagged string) bool {
		if tagged != dumps[id] {
			t.Fatalf("frontier %d came back as %q", id, tagged)
		}
		ids = append(ids, id)
		return cat.DeleteFrontier(id) == nil
	})
	if err != nil {
		t.Fatal(err)
	}
	if len(ids) != 3 || ids[0] != 2 || ids[1] != 7 || ids[2] != 9 {
		t.Fatalf("frontiers out of order: %v", ids)
	}
	if cat.NumFrontiers() != 0 {
		t.Fatal("DeleteFrontier fail")
	}

	// Stopping early leaves the rest in place.
	cat.PutFrontier(1, "g\na\n")
	cat.PutFrontier(2, "g\nb\n")
	calls := 0
	cat.Frontiers(func(id uint64, tagged string) bool {
		calls++
		return false
	})
	if calls != 1 || cat.NumFrontiers() != 2 {
		t.Fatal("early stop fail")
	}
}
