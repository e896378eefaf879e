// Package searcher enumerates gluing permutations for a fixed facet pairing of pentachora.
//
// The search is a depth-first walk over the matched facet pairs in a fixed order.
// Edge links (which must stay disks) and triangle links (which must stay arcs or
// untwisted circles) are tracked incrementally by two union-find forests without
// path compression, so every merge can be undone exactly on backtrack.
package searcher

import (
	"github.com/2x3systems/go5cell/lib5cell/gluing"
	"github.com/2x3systems/go5cell/lib5cell/pairing"
	"github.com/2x3systems/go5cell/lib5cell/perm"
)

// Opts selects what a Searcher looks for.
type Opts struct {
	OrientableOnly bool // only orientable triangulations
	FiniteOnly     bool // only finite (non-ideal) triangulations; recorded but not yet used for pruning
	Oracle         bool // debug: skip the union-find and walk triangle links directly
	Verify         bool // debug: recheck the union-find invariants after every merge
}

// Action receives the searcher at each leaf of the search.
// It must treat the searcher as read-only, except that it may call Stop.
type Action func(s *Searcher)

// Searcher is a resumable depth-first search over the gluing permutations of one facet pairing.
// A Searcher is not safe for concurrent use.
type Searcher struct {
	perms   *gluing.GluingPerms
	autos   []pairing.Iso
	opts    Opts
	started bool
	stopped bool

	orientation []int               // +1/-1 per pentachoron once visited, 0 before
	order       []pairing.FacetSpec // representative facet of each matched pair, in search order
	orderElt    int                 // current depth

	nEdgeClasses     int
	edgeState        []edgeState // 10 per pentachoron
	edgeStateChanged []int       // 10 per depth: the child grafted by each edge union, or -1

	nTriangleClasses int
	triState         []triState // 10 per pentachoron
	triStateChanged  []int      // 5 per depth: the child grafted by each triangle union, or -1
}

// New returns a searcher over the given pairing.
//
// autos must be automorphisms of the pairing; only assignments that are
// lexicographically least under every one of them are reported.  Passing nil
// computes the full automorphism group.
func New(fp *pairing.FacetPairing, autos []pairing.Iso, opts Opts) *Searcher {
	if autos == nil {
		autos = fp.FindAutomorphisms()
	}
	n := fp.Size()

	s := &Searcher{
		perms:       gluing.New(fp),
		autos:       autos,
		opts:        opts,
		orientation: make([]int, n),
	}

	// Default order: left to right.
	for f := (pairing.FacetSpec{}); !f.IsPastEnd(n, true); f.Inc() {
		if !fp.IsUnmatched(f) && f.Less(fp.Dest(f)) {
			s.order = append(s.order, f)
		}
	}

	s.allocState()
	return s
}

func (s *Searcher) allocState() {
	n := s.perms.Size()
	m := len(s.order)

	s.nEdgeClasses = 10 * n
	s.edgeState = make([]edgeState, 10*n)
	for i := range s.edgeState {
		s.edgeState[i].reset(i)
	}
	s.edgeStateChanged = make([]int, 10*m)
	for i := range s.edgeStateChanged {
		s.edgeStateChanged[i] = -1
	}

	s.nTriangleClasses = 10 * n
	s.triState = make([]triState, 10*n)
	for i := range s.triState {
		s.triState[i].reset()
	}
	s.triStateChanged = make([]int, 5*m)
	for i := range s.triStateChanged {
		s.triStateChanged[i] = -1
	}
}

// SetOrder installs a different order in which to fill the matched pairs.
// Each pair must appear exactly once, by either of its facets.  It has no effect once the search has started.
func (s *Searcher) SetOrder(order []pairing.FacetSpec) error {
	if s.started {
		return nil
	}
	if err := checkOrder(s.perms.Pairing(), order); err != nil {
		return err
	}
	s.order = append(s.order[:0], order...)
	return nil
}

// Perms returns the current assignment.  Callers must not modify it.
func (s *Searcher) Perms() *gluing.GluingPerms {
	return s.perms
}

func (s *Searcher) Pairing() *pairing.FacetPairing {
	return s.perms.Pairing()
}

func (s *Searcher) Autos() []pairing.Iso {
	return s.autos
}

func (s *Searcher) Opts() Opts {
	return s.opts
}

// SetVerify turns the per-merge invariant check on or off.
func (s *Searcher) SetVerify(verify bool) {
	s.opts.Verify = verify
}

// Depth returns the number of pairs currently glued.
func (s *Searcher) Depth() int {
	return s.orderElt
}

// OrderSize returns the number of matched pairs.
func (s *Searcher) OrderSize() int {
	return len(s.order)
}

// Order returns the search order.  Callers must not modify it.
func (s *Searcher) Order() []pairing.FacetSpec {
	return s.order
}

func (s *Searcher) Started() bool {
	return s.started
}

// IsComplete returns true if every matched pair has been given a gluing.
func (s *Searcher) IsComplete() bool {
	return s.orderElt == len(s.order)
}

func (s *Searcher) NumEdgeClasses() int {
	return s.nEdgeClasses
}

func (s *Searcher) NumTriangleClasses() int {
	return s.nTriangleClasses
}

// Orientation returns +1 or -1 for a visited pentachoron in an orientable-only search, else 0.
func (s *Searcher) Orientation(simp int) int {
	return s.orientation[simp]
}

// Stop ends the current Run as soon as the action returns.
// A stopped searcher is left mid-search and should be discarded.
func (s *Searcher) Stop() {
	s.stopped = true
}

// Run continues the search from its current state.
//
// If maxDepth < 0 the search runs to completion and action sees every complete,
// canonical assignment.  Otherwise the search descends at most maxDepth pairs
// below its starting depth, and action also sees each partial state at that
// depth (which may be dumped and resumed elsewhere).
func (s *Searcher) Run(maxDepth int, action Action) {
	fp := s.perms.Pairing()
	n := fp.Size()
	if maxDepth < 0 {
		maxDepth = 5*n + 1
	}
	s.stopped = false

	if !s.started {
		s.started = true

		// Nothing to choose at all?
		if n == 0 || len(s.order) == 0 {
			action(s)
			s.orderElt = -1
			return
		}

		s.orderElt = 0
		s.orientation[s.order[0].Simp] = 1
		s.seedOrientation()
	}

	// Already run to the end.
	if s.orderElt < 0 {
		return
	}

	// A partial search that has already finished.
	if s.orderElt == len(s.order) {
		if s.isCanonical() {
			action(s)
		}
		return
	}

	if maxDepth == 0 {
		action(s)
		return
	}

	minOrder := s.orderElt
	maxOrder := s.orderElt + maxDepth

	for s.orderElt >= minOrder && !s.stopped {
		facet := s.order[s.orderElt]
		adj := fp.Dest(facet)

		// Step to the next permutation, keeping its parity if the orientation is fixed.
		idx := s.perms.PermIndex(facet)
		if !s.opts.OrientableOnly || adj.Facet == 0 {
			idx++
		} else {
			idx += 2
		}

		if idx >= perm.NumPerm4 {
			// Out of options here: back up one level.
			s.perms.SetPermIndex(facet, gluing.Unset)
			s.perms.SetPermIndex(adj, gluing.Unset)
			s.orderElt--
			if s.orderElt >= minOrder {
				s.unglue()
			}
			continue
		}

		s.perms.SetPermIndex(facet, idx)
		s.perms.SetPermIndex(adj, perm.S4Inv[idx])

		if s.opts.Oracle {
			if s.badTriangleLink(facet) {
				continue
			}
		} else {
			if s.mergeTriangleClasses() {
				s.splitTriangleClasses()
				continue
			}
			if s.mergeEdgeClasses() {
				s.splitEdgeClasses()
				s.splitTriangleClasses()
				continue
			}
			if s.opts.Verify {
				s.mustBeConsistent()
			}
		}

		// First visit to the adjacent pentachoron: fix its orientation.
		if adj.Facet == 0 && s.opts.OrientableOnly {
			parity := idx
			if facet.Facet != 4 {
				parity++
			}
			if adj.Facet != 4 {
				parity++
			}
			if parity%2 == 0 {
				s.orientation[adj.Simp] = -s.orientation[facet.Simp]
			} else {
				s.orientation[adj.Simp] = s.orientation[facet.Simp]
			}
		}

		s.orderElt++

		if s.orderElt == len(s.order) {
			// A complete assignment.
			if s.isCanonical() {
				action(s)
			}
			s.orderElt--
			s.unglue()
			continue
		}

		s.seedOrientation()

		if s.orderElt == maxOrder {
			// Deep enough: report the partial state and step back.
			action(s)
			s.perms.SetPermIndex(s.order[s.orderElt], gluing.Unset)
			s.orderElt--
			s.unglue()
		}
	}

	if minOrder == 0 && !s.stopped && !s.opts.Oracle {
		s.checkIdle()
	}
}

// seedOrientation primes the index of the facet at the current depth so that
// stepping by 2 only visits gluings that respect the orientations already fixed.
func (s *Searcher) seedOrientation() {
	if !s.opts.OrientableOnly {
		return
	}
	facet := s.order[s.orderElt]
	adj := s.perms.Pairing().Dest(facet)
	if adj.Facet == 0 {
		return
	}

	seed := 0
	if s.orientation[facet.Simp] == s.orientation[adj.Simp] {
		seed = 1
	}
	corr := 0
	if facet.Facet != 4 {
		corr++
	}
	if adj.Facet != 4 {
		corr++
	}
	if corr == 1 {
		seed = (seed + 1) % 2
	}
	s.perms.SetPermIndex(facet, seed-2)
}

// unglue undoes the merges made at the current depth.
func (s *Searcher) unglue() {
	if s.opts.Oracle {
		return
	}
	s.splitEdgeClasses()
	s.splitTriangleClasses()
}
