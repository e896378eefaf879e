package searcher

import (
	"github.com/2x3systems/go5cell/go5cell"
	"github.com/pkg/errors"
	"github.com/plan-systems/klog"
)

// CheckConsistency recomputes the class counts and per-root totals of both forests from scratch
// and compares them with what the searcher has been tracking.
func (s *Searcher) CheckConsistency() error {
	nSlots := len(s.edgeState)

	// Every parent chain must end at a root within nSlots steps.
	edgeRoot := func(id int) (int, error) {
		for steps := 0; s.edgeState[id].parent >= 0; steps++ {
			if steps > nSlots {
				return 0, errors.Wrapf(go5cell.ErrSearchCorrupt, "edge slot %d: parent chain does not terminate", id)
			}
			id = s.edgeState[id].parent
		}
		return id, nil
	}
	triRoot := func(id int) (int, error) {
		for steps := 0; s.triState[id].parent >= 0; steps++ {
			if steps > nSlots {
				return 0, errors.Wrapf(go5cell.ErrSearchCorrupt, "triangle slot %d: parent chain does not terminate", id)
			}
			id = s.triState[id].parent
		}
		return id, nil
	}

	edgeRoots := 0
	bdrySum := make([]int, nSlots)
	for id := range s.edgeState {
		if s.edgeState[id].parent < 0 {
			edgeRoots++
		}
		root, err := edgeRoot(id)
		if err != nil {
			return err
		}
		bdrySum[root] += int(s.edgeState[id].bdryEdges)
	}
	if edgeRoots != s.nEdgeClasses {
		return errors.Wrapf(go5cell.ErrSearchCorrupt, "%d edge roots but %d edge classes", edgeRoots, s.nEdgeClasses)
	}
	for id := range s.edgeState {
		if s.edgeState[id].parent < 0 && s.edgeState[id].bdry != bdrySum[id] {
			return errors.Wrapf(go5cell.ErrSearchCorrupt, "edge root %d: bdry %d but members hold %d", id, s.edgeState[id].bdry, bdrySum[id])
		}
	}

	triRoots := 0
	sizes := make([]int, nSlots)
	for id := range s.triState {
		if s.triState[id].parent < 0 {
			triRoots++
		}
		root, err := triRoot(id)
		if err != nil {
			return err
		}
		sizes[root]++
	}
	if triRoots != s.nTriangleClasses {
		return errors.Wrapf(go5cell.ErrSearchCorrupt, "%d triangle roots but %d triangle classes", triRoots, s.nTriangleClasses)
	}
	for id := range s.triState {
		if s.triState[id].parent < 0 && s.triState[id].size != sizes[id] {
			return errors.Wrapf(go5cell.ErrSearchCorrupt, "triangle root %d: size %d but %d members", id, s.triState[id].size, sizes[id])
		}
	}

	return nil
}

func (s *Searcher) mustBeConsistent() {
	if err := s.CheckConsistency(); err != nil {
		klog.Errorf("searcher: %v at depth %d", err, s.orderElt)
		panic(err)
	}
}

// checkIdle confirms that a search run to completion from depth 0 has undone every merge.
func (s *Searcher) checkIdle() {
	var err error
	n := s.perms.Size()

	switch {
	case s.nEdgeClasses != 10*n:
		err = errors.Wrapf(go5cell.ErrSearchCorrupt, "nEdgeClasses == %d at end of search", s.nEdgeClasses)
	case s.nTriangleClasses != 10*n:
		err = errors.Wrapf(go5cell.ErrSearchCorrupt, "nTriangleClasses == %d at end of search", s.nTriangleClasses)
	}

	for id := 0; err == nil && id < len(s.edgeState); id++ {
		es := &s.edgeState[id]
		if es.parent != -1 || es.rank != 0 || es.bdry != 3 || es.hadEqualRank ||
			es.bdryEdges != 3 || es.bdryNext != [2]int{id, id} || es.bdryTwist != [2]uint8{} {
			err = errors.Wrapf(go5cell.ErrSearchCorrupt, "edge slot %d not reset at end of search", id)
		}
	}
	for id := 0; err == nil && id < len(s.triState); id++ {
		ts := &s.triState[id]
		if ts.parent != -1 || ts.rank != 0 || ts.size != 1 || !ts.bounded || ts.hadEqualRank {
			err = errors.Wrapf(go5cell.ErrSearchCorrupt, "triangle slot %d not reset at end of search", id)
		}
	}
	for i, id := range s.edgeStateChanged {
		if err == nil && id != -1 {
			err = errors.Wrapf(go5cell.ErrSearchCorrupt, "edgeStateChanged[%d] == %d at end of search", i, id)
		}
	}
	for i, id := range s.triStateChanged {
		if err == nil && id != -1 {
			err = errors.Wrapf(go5cell.ErrSearchCorrupt, "triStateChanged[%d] == %d at end of search", i, id)
		}
	}

	if err == nil {
		return
	}
	klog.Errorf("searcher: %v", err)
	if s.opts.Verify {
		panic(err)
	}
}
