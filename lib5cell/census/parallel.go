package census

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/2x3systems/go5cell/go5cell"
	"github.com/2x3systems/go5cell/lib5cell/gluing"
	"github.com/2x3systems/go5cell/lib5cell/searcher"
	"github.com/plan-systems/klog"
	"golang.org/x/sync/errgroup"
)

// RunParallel is Run with the search tree cut at opts.SplitDepth and the pieces spread over opts.Workers goroutines.
// emit is only ever called from the calling goroutine.  Results arrive in no particular order.
func RunParallel(ctx context.Context, opts go5cell.CensusOpts, emit Emit) (Stats, error) {
	if err := checkOpts(&opts); err != nil {
		return Stats{}, err
	}
	if opts.SplitDepth == 0 || opts.Workers <= 1 {
		return Run(ctx, opts, emit)
	}
	start := time.Now()

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	grp, grpCtx := errgroup.WithContext(runCtx)

	frontiers := make(chan Frontier, opts.Workers)
	results := make(chan *gluing.GluingPerms, 4*opts.Workers)

	var splitStats Stats
	grp.Go(func() error {
		defer close(frontiers)
		var err error
		splitStats, err = Split(grpCtx, opts, opts.SplitDepth, func(f Frontier) bool {
			if f.Result != nil {
				select {
				case results <- f.Result:
					return true
				case <-grpCtx.Done():
					return false
				}
			}
			select {
			case frontiers <- f:
				return true
			case <-grpCtx.Done():
				return false
			}
		})
		return err
	})

	var resumed atomic.Int64
	for w := 0; w < opts.Workers; w++ {
		grp.Go(func() error {
			return Resume(grpCtx, frontiers, results, &resumed)
		})
	}

	var waitErr error
	go func() {
		waitErr = grp.Wait()
		close(results)
	}()

	var st Stats
	stopped := false
	for gp := range results {
		if stopped {
			continue
		}
		if emit(gp) {
			st.Results++
		} else {
			stopped = true
			cancel()
		}
	}

	st.Pairings = splitStats.Pairings
	st.Frontiers = splitStats.Frontiers
	st.Elapsed = time.Since(start)
	klog.V(1).Infof("census: n=%d over %d workers (%d frontiers resumed): %v", opts.NumPentachora, opts.Workers, resumed.Load(), st)

	if stopped {
		return st, nil
	}
	if waitErr != nil {
		return st, waitErr
	}
	return st, ctx.Err()
}

// Resume loads each frontier from in, runs it to completion and sends a clone of every result to out.
// It returns when in closes or ctx is cancelled.  If resumed is non-nil, it counts the frontiers finished.
func Resume(ctx context.Context, in <-chan Frontier, out chan<- *gluing.GluingPerms, resumed *atomic.Int64) error {
	for f := range in {
		if f.Result != nil {
			select {
			case out <- f.Result:
				continue
			case <-ctx.Done():
				return ctx.Err()
			}
		}

		s, err := f.Searcher()
		if err != nil {
			return err
		}
		klog.V(3).Infof("census: resuming frontier %d at depth %d of %d", f.ID, s.Depth(), s.OrderSize())
		s.Run(-1, func(s *searcher.Searcher) {
			select {
			case out <- s.Perms().Clone():
			case <-ctx.Done():
				s.Stop()
			}
		})
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if resumed != nil {
			resumed.Add(1)
		}
	}
	return nil
}
