package census

import (
	"context"
	"errors"
	"os"
	"runtime"
	"sort"
	"strings"
	"testing"

	"github.com/2x3systems/go5cell/go5cell"
	"github.com/2x3systems/go5cell/lib5cell/gluing"
	"github.com/2x3systems/go5cell/lib5cell/pairing"
	"github.com/2x3systems/go5cell/lib5cell/searcher"
	"github.com/stretchr/testify/require"
)

func closedOpts(n int) go5cell.CensusOpts {
	opts := go5cell.DefaultCensusOpts
	opts.NumPentachora = n
	return opts
}

func runKeys(t *testing.T, opts go5cell.CensusOpts) []string {
	var keys []string
	st, err := Run(context.Background(), opts, func(gp *gluing.GluingPerms) bool {
		keys = append(keys, ResultKey(gp))
		return true
	})
	require.NoError(t, err)
	require.EqualValues(t, len(keys), st.Results)
	sort.Strings(keys)
	return keys
}

func TestRun(t *testing.T) {
	opts := closedOpts(2)
	require.Len(t, runKeys(t, opts), 23)

	opts.OrientableOnly = true
	require.Len(t, runKeys(t, opts), 15)

	st, err := Run(context.Background(), opts, func(*gluing.GluingPerms) bool { return true })
	require.NoError(t, err)
	require.EqualValues(t, 3, st.Pairings)
	require.EqualValues(t, 15, st.Results)
	require.Contains(t, st.String(), "3 pairings, 0 frontiers, 15 results")
}

func TestRunStops(t *testing.T) {
	calls := 0
	st, err := Run(context.Background(), closedOpts(2), func(gp *gluing.GluingPerms) bool {
		calls++
		return calls < 3
	})
	require.NoError(t, err)
	require.Equal(t, 3, calls)
	require.EqualValues(t, 2, st.Results)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = Run(ctx, closedOpts(2), func(gp *gluing.GluingPerms) bool { return true })
	require.ErrorIs(t, err, context.Canceled)
}

func TestBadOpts(t *testing.T) {
	for _, opts := range []go5cell.CensusOpts{
		{NumPentachora: 0, Boundary: go5cell.ClosedOnly},
		{NumPentachora: go5cell.MaxPentachora + 1, Boundary: go5cell.ClosedOnly},
		{NumPentachora: 2},
		{NumPentachora: 2, Boundary: go5cell.ClosedOnly, NumBdryFacets: -2},
	} {
		_, err := Run(context.Background(), opts, func(*gluing.GluingPerms) bool { return true })
		require.True(t, errors.Is(err, go5cell.ErrBadCensusParam), "%+v", opts)
	}

	_, err := Split(context.Background(), closedOpts(2), 0, func(Frontier) bool { return true })
	require.True(t, errors.Is(err, go5cell.ErrBadCensusParam))
}

func TestSplitResume(t *testing.T) {
	for _, depth := range []int{1, 3, 5} {
		opts := closedOpts(2)
		want := runKeys(t, opts)

		var got []string
		var lastID uint64
		st, err := Split(context.Background(), opts, depth, func(f Frontier) bool {
			require.Equal(t, lastID+1, f.ID)
			lastID = f.ID

			if f.Result != nil {
				got = append(got, ResultKey(f.Result))
				return true
			}
			require.True(t, strings.HasPrefix(f.Tagged, "g\n"))
			s, err := searcher.LoadTagged(strings.NewReader(f.Tagged), nil)
			require.NoError(t, err)
			require.Equal(t, depth, s.Depth())
			s.Run(-1, func(s *searcher.Searcher) {
				got = append(got, ResultKey(s.Perms()))
			})
			return true
		})
		require.NoError(t, err)
		require.EqualValues(t, 3, st.Pairings)
		require.EqualValues(t, lastID, st.Frontiers+st.Results)

		sort.Strings(got)
		require.Equal(t, want, got, "depth %d", depth)
	}
}

func TestRunParallel(t *testing.T) {
	for _, orientable := range []bool{false, true} {
		opts := closedOpts(2)
		opts.OrientableOnly = orientable
		want := runKeys(t, opts)

		opts.SplitDepth = 2
		opts.Workers = 4
		var got []string
		st, err := RunParallel(context.Background(), opts, func(gp *gluing.GluingPerms) bool {
			got = append(got, ResultKey(gp))
			return true
		})
		require.NoError(t, err)
		require.NotZero(t, st.Frontiers)
		require.EqualValues(t, len(want), st.Results)

		sort.Strings(got)
		require.Equal(t, want, got)
	}
}

// The four-pentachoron census takes tens of minutes even spread over every core,
// so it only runs when GO5CELL_LONG_TESTS is set.
func TestRunParallelFour(t *testing.T) {
	if os.Getenv("GO5CELL_LONG_TESTS") == "" {
		t.Skip("set GO5CELL_LONG_TESTS to run the four-pentachoron census")
	}
	for _, tc := range []struct {
		orientable bool
		want       int64
	}{
		{false, 8656},
		{true, 4150},
	} {
		opts := closedOpts(4)
		opts.OrientableOnly = tc.orientable
		opts.SplitDepth = 3
		opts.Workers = runtime.NumCPU()
		st, err := RunParallel(context.Background(), opts, func(*gluing.GluingPerms) bool { return true })
		require.NoError(t, err)
		require.Equal(t, tc.want, st.Results, "orientable=%v", tc.orientable)
		t.Logf("n=4 orientable=%v over %d workers: %v", tc.orientable, opts.Workers, st)
	}
}

func TestRunParallelStops(t *testing.T) {
	opts := closedOpts(2)
	opts.SplitDepth = 1
	opts.Workers = 3

	calls := 0
	_, err := RunParallel(context.Background(), opts, func(gp *gluing.GluingPerms) bool {
		calls++
		return false
	})
	require.NoError(t, err)
	require.Equal(t, 1, calls)
}

func TestStream(t *testing.T) {
	stream := Stream(context.Background(), closedOpts(2))
	require.Equal(t, 23, stream.PullAll())

	opts := closedOpts(2)
	opts.OrientableOnly = true
	stream = Stream(context.Background(), opts)
	for g := range stream.Outlet {
		require.True(t, g.Orientable)
		require.Equal(t, 2, g.NumPentachora)
		require.Len(t, g.PermIndices, 10)
		for _, idx := range g.PermIndices {
			require.True(t, idx >= 0 && idx < 24)
		}
	}
}

func TestOrbits(t *testing.T) {
	orbits := NewOrbits()
	members := 0
	pairing.FindAllPairings(2, go5cell.ClosedOnly, -1, func(fp *pairing.FacetPairing, autos []pairing.Iso) bool {
		trivial := []pairing.Iso{pairing.IdentityIso(fp.Size())}
		searcher.New(fp.Clone(), trivial, searcher.Opts{}).Run(-1, func(s *searcher.Searcher) {
			orbits.Add(s.Perms(), autos)
			members++
		})
		return true
	})

	// Every orbit holds exactly one census result.
	require.Equal(t, 23, orbits.Len())

	total := 0
	prev := ""
	orbits.Each(func(key string, count int) bool {
		require.Less(t, prev, key)
		require.Equal(t, count, orbits.Count(key))
		prev = key
		total += count
		return true
	})
	require.Equal(t, members, total)
	require.Greater(t, members, 23)
	require.Zero(t, orbits.Count("no such orbit"))
}
