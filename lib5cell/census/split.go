package census

import (
	"context"
	"strings"
	"time"

	"github.com/2x3systems/go5cell/go5cell"
	"github.com/2x3systems/go5cell/lib5cell/gluing"
	"github.com/2x3systems/go5cell/lib5cell/pairing"
	"github.com/2x3systems/go5cell/lib5cell/searcher"
	"github.com/pkg/errors"
	"github.com/plan-systems/klog"
)

// Frontier is one unit of work produced by Split.
//
// Usually Tagged holds a partial search, to be resumed with searcher.LoadTagged.
// If the search finished above the split depth, Result holds a complete gluing instead.
type Frontier struct {
	ID     uint64 // position in split order, starting at 1
	Tagged string
	Result *gluing.GluingPerms
}

// Searcher loads the partial search held by f.  It returns nil for a frontier holding a complete Result.
func (f Frontier) Searcher() (*searcher.Searcher, error) {
	if f.Result != nil {
		return nil, nil
	}
	s, err := searcher.LoadTagged(strings.NewReader(f.Tagged), nil)
	if err != nil {
		return nil, errors.Wrapf(err, "frontier %d", f.ID)
	}
	return s, nil
}

// Split runs each pairing's search down to depth matched pairs and emits the state found there.
// Resuming every emitted frontier to completion yields exactly the results Run would emit.
func Split(ctx context.Context, opts go5cell.CensusOpts, depth int, emit func(f Frontier) bool) (Stats, error) {
	var st Stats
	if err := checkOpts(&opts); err != nil {
		return st, err
	}
	if depth < 1 {
		return st, errors.Wrap(go5cell.ErrBadCensusParam, "split depth must be at least 1")
	}
	start := time.Now()
	sopts := searchOpts(&opts)
	nextID := uint64(0)

	pairing.FindAllPairings(opts.NumPentachora, opts.Boundary, opts.NumBdryFacets, func(fp *pairing.FacetPairing, autos []pairing.Iso) bool {
		if ctx.Err() != nil {
			return false
		}
		st.Pairings++

		stopped := false
		s := searcher.New(fp.Clone(), autos, sopts)
		s.Run(depth, func(s *searcher.Searcher) {
			if ctx.Err() != nil {
				stopped = true
				s.Stop()
				return
			}

			nextID++
			f := Frontier{ID: nextID}
			if s.IsComplete() {
				f.Result = s.Perms().Clone()
				st.Results++
			} else {
				f.Tagged = s.TaggedData()
				st.Frontiers++
			}
			if !emit(f) {
				stopped = true
				s.Stop()
			}
		})
		return !stopped
	})

	st.Elapsed = time.Since(start)
	klog.V(1).Infof("census: split n=%d at depth %d: %v", opts.NumPentachora, depth, st)
	return st, ctx.Err()
}
