// Package census runs the gluing-permutation search over every facet pairing of a given size.
package census

import (
	"context"
	"fmt"
	"time"

	"github.com/2x3systems/go5cell/go5cell"
	"github.com/2x3systems/go5cell/lib5cell/gluing"
	"github.com/2x3systems/go5cell/lib5cell/pairing"
	"github.com/2x3systems/go5cell/lib5cell/searcher"
	"github.com/dustin/go-humanize"
	"github.com/pkg/errors"
	"github.com/plan-systems/klog"
)

// Emit receives each result.  The GluingPerms is owned by the caller of Emit and changes
// once Emit returns, so receivers must Clone it to keep it.  Returning false ends the census.
type Emit func(gp *gluing.GluingPerms) bool

// Stats summarises a census run.
type Stats go5cell.CensusStats

func (st Stats) String() string {
	return fmt.Sprintf("%s pairings, %s frontiers, %s results in %v",
		humanize.Comma(st.Pairings),
		humanize.Comma(st.Frontiers),
		humanize.Comma(st.Results),
		st.Elapsed.Round(time.Millisecond))
}

func checkOpts(opts *go5cell.CensusOpts) error {
	switch {
	case opts.NumPentachora < 1 || opts.NumPentachora > go5cell.MaxPentachora:
		return errors.Wrapf(go5cell.ErrBadCensusParam, "NumPentachora must be in 1..%d", go5cell.MaxPentachora)
	case opts.Boundary&go5cell.AnyBoundary == 0:
		return errors.Wrap(go5cell.ErrBadCensusParam, "Boundary policy selects nothing")
	case opts.NumBdryFacets < -1:
		return errors.Wrap(go5cell.ErrBadCensusParam, "NumBdryFacets must be -1 or more")
	case opts.SplitDepth < 0:
		return errors.Wrap(go5cell.ErrBadCensusParam, "SplitDepth must not be negative")
	}
	return nil
}

func searchOpts(opts *go5cell.CensusOpts) searcher.Opts {
	return searcher.Opts{
		OrientableOnly: opts.OrientableOnly,
		FiniteOnly:     opts.FiniteOnly,
	}
}

// Run enumerates every facet pairing selected by opts and emits each canonical gluing of each.
// Cancelling ctx stops the census between results and returns ctx.Err().
func Run(ctx context.Context, opts go5cell.CensusOpts, emit Emit) (Stats, error) {
	var st Stats
	if err := checkOpts(&opts); err != nil {
		return st, err
	}
	start := time.Now()
	sopts := searchOpts(&opts)

	pairing.FindAllPairings(opts.NumPentachora, opts.Boundary, opts.NumBdryFacets, func(fp *pairing.FacetPairing, autos []pairing.Iso) bool {
		if ctx.Err() != nil {
			return false
		}
		st.Pairings++

		found := int64(0)
		stopped := false
		s := searcher.New(fp.Clone(), autos, sopts)
		s.Run(-1, func(s *searcher.Searcher) {
			if ctx.Err() != nil || !emit(s.Perms()) {
				stopped = true
				s.Stop()
				return
			}
			found++
		})
		st.Results += found

		klog.V(2).Infof("census: pairing %s: %d gluings (%d automorphisms)", fp.TextShort(), found, len(autos))
		return !stopped
	})

	st.Elapsed = time.Since(start)
	klog.V(1).Infof("census: n=%d %v: %v", opts.NumPentachora, opts.Boundary, st)
	return st, ctx.Err()
}

// Stream runs a census in its own goroutine, pushing each result into the returned stream.
// The stream closes when the census finishes or ctx is cancelled.
func Stream(ctx context.Context, opts go5cell.CensusOpts) *go5cell.GluingStream {
	out := go5cell.NewGluingStream()

	go func() {
		_, err := Run(ctx, opts, func(gp *gluing.GluingPerms) bool {
			select {
			case out.Outlet <- gp.ToGluing(opts.OrientableOnly):
				return true
			case <-ctx.Done():
				return false
			}
		})
		if err != nil && ctx.Err() == nil {
			klog.Errorf("census: %v", err)
		}
		out.Close()
	}()

	return out
}
