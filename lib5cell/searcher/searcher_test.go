package searcher

import (
	"errors"
	"sort"
	"strings"
	"testing"

	"github.com/2x3systems/go5cell/go5cell"
	"github.com/2x3systems/go5cell/lib5cell/gluing"
	"github.com/2x3systems/go5cell/lib5cell/pairing"
	"github.com/2x3systems/go5cell/lib5cell/perm"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

const twoPentClosed = "0:1 0:0 1:0 1:1 1:2 | 0:2 0:3 0:4 1:4 1:3"

func mustPairing(t *testing.T, short string) *pairing.FacetPairing {
	fp, err := pairing.ParseTextShort(short)
	require.NoError(t, err)
	return fp
}

// resultKey identifies a complete assignment across pairings.
func resultKey(gp *gluing.GluingPerms) string {
	return gp.Pairing().TextRep() + "/" + gp.Key()
}

func collect(s *Searcher, maxDepth int) (complete []string, partial []string) {
	s.Run(maxDepth, func(s *Searcher) {
		if s.IsComplete() {
			complete = append(complete, resultKey(s.Perms()))
		} else {
			partial = append(partial, s.TaggedData())
		}
	})
	return
}

func censusCount(t *testing.T, n int, opts Opts) int {
	count := 0
	pairing.FindAllPairings(n, go5cell.ClosedOnly, -1, func(fp *pairing.FacetPairing, autos []pairing.Iso) bool {
		s := New(fp.Clone(), autos, opts)
		s.Run(-1, func(s *Searcher) {
			require.True(t, s.IsComplete())
			count++
		})
		return true
	})
	return count
}

func TestCensusCounts(t *testing.T) {
	require.Equal(t, 23, censusCount(t, 2, Opts{}))
	require.Equal(t, 15, censusCount(t, 2, Opts{OrientableOnly: true}))

	// The same walk with every merge rechecked.
	require.Equal(t, 23, censusCount(t, 2, Opts{Verify: true}))
}

func TestOrientableResults(t *testing.T) {
	found := 0
	pairing.FindAllPairings(2, go5cell.ClosedOnly, -1, func(fp *pairing.FacetPairing, autos []pairing.Iso) bool {
		fp = fp.Clone()
		all, _ := collect(New(fp, autos, Opts{}), -1)
		allSet := map[string]bool{}
		for _, key := range all {
			allSet[key] = true
		}

		New(fp, autos, Opts{OrientableOnly: true}).Run(-1, func(s *Searcher) {
			found++
			require.True(t, allSet[resultKey(s.Perms())])

			// Equal orientations across a facet require an odd gluing.
			for f := (pairing.FacetSpec{}); f.Simp < fp.Size(); f.Inc() {
				dest := fp.Dest(f)
				sign := s.Orientation(f.Simp) * s.Orientation(dest.Simp) * s.Perms().Perm(f).Sign()
				require.Equal(t, -1, sign, "facet %v", f)
			}
		})
		return true
	})
	require.Equal(t, 15, found)
}

// orbitKey returns the least key over the images of gp under autos.
func orbitKey(gp *gluing.GluingPerms, autos []pairing.Iso) string {
	min := ""
	for _, iso := range autos {
		key := gp.ApplyIso(iso).Key()
		if min == "" || key < min {
			min = key
		}
	}
	return gp.Pairing().TextRep() + "/" + min
}

// pairingSet names the pairings a test walks over.
type pairingSet struct {
	name string
	n    int
	bdry go5cell.BoundaryPolicy
	opts Opts
	long bool
}

var pairingSets = []pairingSet{
	{name: "closed2", n: 2, bdry: go5cell.ClosedOnly},
	{name: "any1", n: 1, bdry: go5cell.AnyBoundary, opts: Opts{Verify: true}},
	{name: "any2", n: 2, bdry: go5cell.AnyBoundary, opts: Opts{Verify: true}, long: true},
}

func (ps pairingSet) each(t *testing.T, fn func(fp *pairing.FacetPairing, autos []pairing.Iso)) {
	if ps.long && testing.Short() {
		t.Skip("skipping bounded two-pentachoron pairings in short mode")
	}
	pairing.FindAllPairings(ps.n, ps.bdry, -1, func(fp *pairing.FacetPairing, autos []pairing.Iso) bool {
		fn(fp.Clone(), append([]pairing.Iso(nil), autos...))
		return true
	})
}

func TestOneResultPerOrbit(t *testing.T) {
	for _, ps := range pairingSets {
		t.Run(ps.name, func(t *testing.T) {
			ps.each(t, func(fp *pairing.FacetPairing, autos []pairing.Iso) {
				trivial := []pairing.Iso{pairing.IdentityIso(fp.Size())}

				orbits := map[string]bool{}
				New(fp, trivial, ps.opts).Run(-1, func(s *Searcher) {
					orbits[orbitKey(s.Perms(), autos)] = true
				})

				reps := map[string]bool{}
				New(fp, autos, ps.opts).Run(-1, func(s *Searcher) {
					key := orbitKey(s.Perms(), autos)
					require.False(t, reps[key], "two results in orbit %s", key)
					reps[key] = true
				})
				require.Equal(t, orbits, reps)
			})
		})
	}
}

func TestOracleAgrees(t *testing.T) {
	for _, ps := range pairingSets {
		t.Run(ps.name, func(t *testing.T) {
			ps.each(t, func(fp *pairing.FacetPairing, autos []pairing.Iso) {
				fast, _ := collect(New(fp, autos, ps.opts), -1)
				for _, key := range fast {
					require.NotEmpty(t, key)
				}

				var slow []string
				New(fp, autos, Opts{Oracle: true}).Run(-1, func(s *Searcher) {
					if ValidateLinks(s.Perms()) {
						slow = append(slow, resultKey(s.Perms()))
					}
				})

				sort.Strings(fast)
				sort.Strings(slow)
				require.Empty(t, cmp.Diff(fast, slow), "pairing %s", fp.TextShort())
			})
		})
	}
}

func TestBoundedCounts(t *testing.T) {
	for _, tc := range []struct {
		ps       pairingSet
		pairings int
		results  int
	}{
		{pairingSets[1], 3, 8},
		{pairingSets[2], 14, 584},
	} {
		t.Run(tc.ps.name, func(t *testing.T) {
			pairings, results := 0, 0
			tc.ps.each(t, func(fp *pairing.FacetPairing, autos []pairing.Iso) {
				pairings++
				New(fp, autos, tc.ps.opts).Run(-1, func(s *Searcher) {
					require.True(t, s.IsComplete())
					results++
				})
			})
			require.Equal(t, tc.pairings, pairings)
			require.Equal(t, tc.results, results)
		})
	}
}

// One pentachoron with two facet pairs glued and one facet left as boundary.
func TestOnePentachoronBounded(t *testing.T) {
	for _, tc := range []struct {
		pairing    string
		all        int
		orientable int
	}{
		{"0:1 0:0 0:3 0:2 bdry", 4, 4},
		{"0:1 0:0 bdry bdry bdry", 3, 2},
	} {
		fp := mustPairing(t, tc.pairing)
		require.True(t, fp.IsCanonical(), tc.pairing)
		autos := fp.FindAutomorphisms()

		all, partial := collect(New(fp, autos, Opts{Verify: true}), -1)
		require.Empty(t, partial)
		require.Len(t, all, tc.all, tc.pairing)

		orientable, _ := collect(New(fp, autos, Opts{OrientableOnly: true, Verify: true}), -1)
		require.Len(t, orientable, tc.orientable, tc.pairing)

		var slow []string
		New(fp, autos, Opts{Oracle: true}).Run(-1, func(s *Searcher) {
			if ValidateLinks(s.Perms()) {
				slow = append(slow, resultKey(s.Perms()))
			}
		})
		sort.Strings(all)
		sort.Strings(slow)
		require.Empty(t, cmp.Diff(all, slow), tc.pairing)
	}
}

func TestStop(t *testing.T) {
	s := New(mustPairing(t, twoPentClosed), nil, Opts{})
	calls := 0
	s.Run(-1, func(s *Searcher) {
		calls++
		s.Stop()
	})
	require.Equal(t, 1, calls)
}

func TestSingleBoundaryPentachoron(t *testing.T) {
	fp := pairing.NewFacetPairing(1)
	s := New(fp, nil, Opts{})
	require.Zero(t, s.OrderSize())

	calls := 0
	s.Run(-1, func(s *Searcher) { calls++ })
	s.Run(-1, func(s *Searcher) { calls++ })
	require.Equal(t, 1, calls)
}

func TestSetOrder(t *testing.T) {
	fp := mustPairing(t, twoPentClosed)
	s := New(fp, nil, Opts{})
	want, _ := collect(New(fp, nil, Opts{}), -1)

	order := append([]pairing.FacetSpec(nil), s.Order()...)
	order[0], order[1] = order[1], order[0]
	order[4] = fp.Dest(order[4])
	require.NoError(t, s.SetOrder(order))

	// Canonicity does not depend on the order the pairs are filled.
	got, _ := collect(s, -1)
	sort.Strings(want)
	sort.Strings(got)
	require.Equal(t, want, got)

	bad := New(fp, nil, Opts{})
	err := bad.SetOrder(order[:4])
	require.True(t, errors.Is(err, go5cell.ErrInvalidInput))
	err = bad.SetOrder(append(order[:4:4], order[0]))
	require.True(t, errors.Is(err, go5cell.ErrInvalidInput))
}

// linkState is the part of the forests that must come back exactly on backtrack.
type linkState struct {
	NumEdges, NumTriangles int
	Edges                  []edgeState
	Triangles              []triState
	EdgeLog, TriLog        []int
}

func snapshot(s *Searcher) linkState {
	ls := linkState{
		NumEdges:     s.nEdgeClasses,
		NumTriangles: s.nTriangleClasses,
		Edges:        append([]edgeState(nil), s.edgeState...),
		Triangles:    append([]triState(nil), s.triState...),
		EdgeLog:      append([]int(nil), s.edgeStateChanged...),
		TriLog:       append([]int(nil), s.triStateChanged...),
	}
	// Twists are only read below a root, and the saved boundary cursors only while bdryEdges is 1.
	for i := range ls.Edges {
		es := &ls.Edges[i]
		if es.parent < 0 {
			es.twistUpEdge, es.twistUpTriangle = 0, 0
		}
		es.bdryNextOld, es.bdryTwistOld = [2]int{}, [2]uint8{}
	}
	for i := range ls.Triangles {
		if ls.Triangles[i].parent < 0 {
			ls.Triangles[i].twistUp = perm.Code012
		}
	}
	return ls
}

var cmpState = cmp.AllowUnexported(edgeState{}, triState{})

func TestMergeSplitRestores(t *testing.T) {
	fp := mustPairing(t, twoPentClosed)
	_, frontiers := collect(New(fp, nil, Opts{}), 2)
	require.NotEmpty(t, frontiers)

	fresh := New(fp, nil, Opts{})
	fresh.orderElt = 0
	states := []*Searcher{fresh}
	for _, tagged := range frontiers {
		s, err := LoadTagged(strings.NewReader(tagged), nil)
		require.NoError(t, err)
		states = append(states, s)
	}

	for _, s := range states {
		facet := s.order[s.orderElt]
		adj := fp.Dest(facet)
		for idx := 0; idx < perm.NumPerm4; idx++ {
			before := snapshot(s)

			s.perms.SetPermIndex(facet, idx)
			s.perms.SetPermIndex(adj, perm.S4Inv[idx])

			triDirty := s.mergeTriangleClasses()
			require.Equal(t, s.badTriangleLink(facet), triDirty, "depth %d index %d", s.orderElt, idx)
			if !triDirty {
				if !s.mergeEdgeClasses() {
					require.NoError(t, s.CheckConsistency())
				}
				s.splitEdgeClasses()
			}
			s.splitTriangleClasses()

			after := snapshot(s)
			require.Empty(t, cmp.Diff(before, after, cmpState), "depth %d index %d", s.orderElt, idx)
		}
	}
}

func TestIdleAfterFullRun(t *testing.T) {
	fp := mustPairing(t, twoPentClosed)
	s := New(fp, nil, Opts{Verify: true})
	idle := snapshot(New(fp, nil, Opts{}))

	s.Run(-1, func(*Searcher) {})
	require.Equal(t, -1, s.Depth())
	require.Equal(t, 20, s.NumEdgeClasses())
	require.Equal(t, 20, s.NumTriangleClasses())
	require.Empty(t, cmp.Diff(idle, snapshot(s), cmpState))
}

func TestDumpLoad(t *testing.T) {
	fp := mustPairing(t, twoPentClosed)
	s := New(fp, nil, Opts{OrientableOnly: true})

	var mid string
	s.Run(3, func(s *Searcher) {
		if mid == "" && !s.IsComplete() {
			mid = s.TaggedData()
		}
	})
	require.NotEmpty(t, mid)
	require.True(t, strings.HasPrefix(mid, "g\n"))

	loaded, err := LoadTagged(strings.NewReader(mid), nil)
	require.NoError(t, err)
	require.True(t, loaded.Started())
	require.True(t, loaded.Opts().OrientableOnly)
	require.Equal(t, 3, loaded.Depth())
	require.Equal(t, mid, loaded.TaggedData())

	// Untagged dumps load too.
	var b strings.Builder
	require.NoError(t, loaded.perms.Dump(&b))
	untagged := strings.TrimPrefix(mid, "g\n")
	require.True(t, strings.HasPrefix(untagged, b.String()))
	again, err := Load(strings.NewReader(untagged), loaded.Autos())
	require.NoError(t, err)
	require.Empty(t, cmp.Diff(snapshot(loaded), snapshot(again), cmpState))
}

func TestResumeFrontiers(t *testing.T) {
	for _, opts := range []Opts{{}, {OrientableOnly: true}} {
		fp := mustPairing(t, twoPentClosed)
		want, _ := collect(New(fp, nil, opts), -1)

		got, frontiers := collect(New(fp, nil, opts), 2)
		for _, tagged := range frontiers {
			s, err := LoadTagged(strings.NewReader(tagged), nil)
			require.NoError(t, err)
			sub, more := collect(s, -1)
			require.Empty(t, more)
			got = append(got, sub...)
		}

		sort.Strings(want)
		sort.Strings(got)
		require.Equal(t, want, got, "opts %+v", opts)
	}
}

func TestResumeInStages(t *testing.T) {
	fp := mustPairing(t, twoPentClosed)
	want, _ := collect(New(fp, nil, Opts{}), -1)

	// Split at depth 1, then split each of those again by one more level.
	got, first := collect(New(fp, nil, Opts{}), 1)
	for _, tagged := range first {
		s, err := LoadTagged(strings.NewReader(tagged), nil)
		require.NoError(t, err)
		done, second := collect(s, 1)
		got = append(got, done...)
		for _, tagged := range second {
			s, err := LoadTagged(strings.NewReader(tagged), nil)
			require.NoError(t, err)
			done, _ := collect(s, -1)
			got = append(got, done...)
		}
	}

	sort.Strings(want)
	sort.Strings(got)
	require.Equal(t, want, got)
}

func TestLoadRejects(t *testing.T) {
	fp := mustPairing(t, twoPentClosed)
	var mid string
	New(fp, nil, Opts{}).Run(2, func(s *Searcher) {
		if mid == "" {
			mid = s.TaggedData()
		}
	})
	require.NotEmpty(t, mid)
	lines := strings.Split(mid, "\n")

	// Line layout: tag, pairing, indices, flags, orientation, orderElt/size, order, nEdgeClasses, 20 edges, ...
	edit := func(line int, text string) string {
		dup := append([]string(nil), lines...)
		dup[line] = text
		return strings.Join(dup, "\n")
	}
	firstEdge := 8
	firstTri := firstEdge + 10*fp.Size() + 2
	triFields := strings.Fields(lines[firstTri])
	require.Len(t, triFields, 6)
	triFields[2] = "0"
	bad := map[string]string{
		"marker":      edit(0, "x"),
		"flags":       edit(3, "q.s"),
		"orientation": edit(4, "2 0"),
		"orderElt":    edit(5, "9 5"),
		"orderSize":   edit(5, "2 4"),
		"order":       edit(6, "0 1 0 1 0 3 0 4 1 3"),
		"edgeParent":  edit(firstEdge, "20 0 3 0 0 0 3 0 0 0 0 -1 -1 0 0"),
		"edgeTwist":   edit(firstEdge, "-1 0 3 2 0 0 3 0 0 0 0 -1 -1 0 0"),
		"bdryEdges":   edit(firstEdge, "-1 0 3 0 0 0 4 0 0 0 0 -1 -1 0 0"),
		"triSize":     edit(firstTri, strings.Join(triFields, " ")),
		"truncated":   strings.Join(lines[:len(lines)/2], "\n"),
	}
	for name, text := range bad {
		_, err := LoadTagged(strings.NewReader(text), nil)
		require.True(t, errors.Is(err, go5cell.ErrInvalidInput), "%s: %v", name, err)
	}

	_, err := Load(strings.NewReader(strings.Join(lines[1:], "\n")), nil)
	require.NoError(t, err)
}
