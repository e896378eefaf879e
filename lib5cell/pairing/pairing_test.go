package pairing

import (
	"errors"
	"strings"
	"testing"

	"github.com/2x3systems/go5cell/go5cell"
	"github.com/2x3systems/go5cell/lib5cell/perm"
	"github.com/2x3systems/go5cell/lib5cell/textio"
	"github.com/stretchr/testify/require"
)

func selfGluedPairing() *FacetPairing {
	fp := NewFacetPairing(1)
	fp.Match(FacetSpec{0, 0}, FacetSpec{0, 1})
	fp.Match(FacetSpec{0, 2}, FacetSpec{0, 3})
	return fp
}

func TestFacetSpecOrder(t *testing.T) {
	f := FacetSpec{0, 4}
	f.Inc()
	require.Equal(t, FacetSpec{1, 0}, f)
	f.Dec()
	require.Equal(t, FacetSpec{0, 4}, f)

	var g FacetSpec
	g.SetBeforeStart()
	require.True(t, g.IsBeforeStart())
	g.Inc()
	require.Equal(t, FacetSpec{0, 0}, g)

	require.True(t, FacetSpec{2, 0}.IsBoundary(2))
	require.True(t, FacetSpec{2, 0}.IsPastEnd(2, true))
	require.False(t, FacetSpec{2, 0}.IsPastEnd(2, false))
	require.True(t, FacetSpec{2, 1}.IsPastEnd(2, false))

	require.Equal(t, -1, FacetSpec{0, 3}.Compare(FacetSpec{1, 0}))
	require.Equal(t, 1, FacetSpec{1, 1}.Compare(FacetSpec{1, 0}))
	require.Equal(t, 0, FacetSpec{1, 1}.Compare(FacetSpec{1, 1}))
}

func TestTextForms(t *testing.T) {
	fp := selfGluedPairing()
	require.NoError(t, fp.Validate())
	require.Equal(t, "0 1 0 0 0 3 0 2 1 0", fp.TextRep())
	require.Equal(t, "0:1 0:0 0:3 0:2 bdry", fp.TextShort())
	require.Equal(t, 1, fp.NumBoundaryFacets())
	require.False(t, fp.IsClosed())

	back, err := FromTextRep(fp.TextRep())
	require.NoError(t, err)
	require.True(t, fp.Equal(back))

	short, err := ParseTextShort(fp.TextShort())
	require.NoError(t, err)
	require.True(t, fp.Equal(short))

	two, err := ParseTextShort("0:1 0:0 1:0 1:1 1:2 | 0:2 0:3 0:4 1:4 1:3")
	require.NoError(t, err)
	require.Equal(t, 2, two.Size())
	require.True(t, two.IsClosed())
	require.Equal(t, FacetSpec{1, 2}, two.Dest(FacetSpec{0, 4}))

	var b strings.Builder
	require.NoError(t, two.Dump(&b))
	loaded, err := Load(textio.NewReader(strings.NewReader("\n\n" + b.String())))
	require.NoError(t, err)
	require.True(t, two.Equal(loaded))
}

func TestTextRepRejects(t *testing.T) {
	bad := []string{
		"",
		"0 1 0 0 0 3 0 2 1",   // token count
		"0 1 0 0 0 3 0 2 1 1", // boundary must be (n, 0)
		"0 1 0 0 0 3 0 2 2 0", // simplex out of range
		"0 1 0 0 0 3 0 5 1 0", // facet out of range
		"0 1 0 2 0 3 0 2 1 0", // asymmetric
		"0 1 0 0 0 3 0 x 1 0", // non-integer
	}
	for _, rep := range bad {
		_, err := FromTextRep(rep)
		require.Error(t, err, rep)
		require.True(t, errors.Is(err, go5cell.ErrInvalidInput), rep)
	}

	_, err := ParseTextShort("0:1 0:0 0:3 0:2")
	require.Error(t, err)
	_, err = ParseTextShort("0:1 0:0 0:3 0:2 0:4")
	require.Error(t, err)
}

func TestAutomorphisms(t *testing.T) {
	fp := selfGluedPairing()
	require.True(t, fp.IsCanonical())

	autos := fp.FindAutomorphisms()
	require.Len(t, autos, 8)
	foundIdentity := false
	for _, iso := range autos {
		require.True(t, fp.Equal(iso.ApplyTo(fp)), iso.String())
		foundIdentity = foundIdentity || iso.IsIdentity()
	}
	require.True(t, foundIdentity)

	// A lone pentachoron with nothing glued has every relabelling as a symmetry.
	lone := NewFacetPairing(1)
	require.Len(t, lone.FindAutomorphisms(), perm.NumPerm5)

	// Not canonical: (0,0) should glue to (0,1) rather than (0,2).
	nc := NewFacetPairing(1)
	nc.Match(FacetSpec{0, 0}, FacetSpec{0, 2})
	nc.Match(FacetSpec{0, 1}, FacetSpec{0, 3})
	require.False(t, nc.IsCanonical())
}

func countPairings(n int, bdry go5cell.BoundaryPolicy, nBdry int, t *testing.T) int {
	count := 0
	seen := map[string]bool{}
	FindAllPairings(n, bdry, nBdry, func(fp *FacetPairing, autos []Iso) bool {
		count++
		rep := fp.TextRep()
		require.False(t, seen[rep], "pairing emitted twice: %s", fp)
		seen[rep] = true
		require.NoError(t, fp.Validate())
		require.True(t, fp.IsConnected(), fp.String())
		require.True(t, fp.IsCanonical(), fp.String())
		require.NotEmpty(t, autos)
		if nBdry >= 0 {
			require.Equal(t, nBdry, fp.NumBoundaryFacets())
		}
		for _, iso := range autos {
			require.True(t, fp.Equal(iso.ApplyTo(fp)))
		}
		return true
	})
	return count
}

func TestPairingCounts(t *testing.T) {
	require.Equal(t, 3, countPairings(2, go5cell.ClosedOnly, -1, t))
	require.Equal(t, 1, countPairings(1, go5cell.BoundedOnly, 1, t))
	require.Equal(t, 4, countPairings(2, go5cell.BoundedOnly, 2, t))
	require.Equal(t, 0, countPairings(1, go5cell.ClosedOnly, -1, t))
	require.Equal(t, 0, countPairings(2, go5cell.BoundedOnly, 1, t))

	if testing.Short() {
		t.Skip("skipping larger pairing counts in short mode")
	}
	require.Equal(t, 26, countPairings(4, go5cell.ClosedOnly, -1, t))
	require.Equal(t, 10, countPairings(3, go5cell.BoundedOnly, 1, t))
	require.Equal(t, 91, countPairings(4, go5cell.BoundedOnly, 2, t))
}

func TestFindAllPairingsStops(t *testing.T) {
	calls := 0
	FindAllPairings(4, go5cell.ClosedOnly, -1, func(fp *FacetPairing, autos []Iso) bool {
		calls++
		return calls < 2
	})
	require.Equal(t, 2, calls)
}
