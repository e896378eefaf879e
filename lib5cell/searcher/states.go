package searcher

import "github.com/2x3systems/go5cell/lib5cell/perm"

// edgeState is one pentachoron edge slot in the edge union-find forest.
//
// Besides the union-find fields, each slot keeps a cursor into the boundary
// cycles of its class's edge link.  The link of an edge inside one pentachoron
// is a triangle; bdryEdges counts how many of its three sides are still
// unglued, and bdryNext/bdryTwist point to the neighbouring slots along the
// boundary cycle (with twist set where the transverse orientation flips).
type edgeState struct {
	parent          int   // -1 at a root
	rank            int   // union-by-rank depth bound
	bdry            int   // at a root: unglued link sides over the whole class
	twistUpEdge     uint8 // 1 if the edge is reversed relative to parent
	twistUpTriangle uint8 // 1 if the link orientation is reversed relative to parent
	hadEqualRank    bool  // set if this slot's union bumped the parent's rank

	bdryEdges    uint8 // 0..3 unglued link sides in this slot
	bdryNext     [2]int
	bdryTwist    [2]uint8
	bdryNextOld  [2]int // saved copies of bdryNext/bdryTwist taken when bdryEdges drops from 2
	bdryTwistOld [2]uint8
}

func (es *edgeState) reset(id int) {
	*es = edgeState{
		parent:      -1,
		bdry:        3,
		bdryEdges:   3,
		bdryNext:    [2]int{id, id},
		bdryNextOld: [2]int{-1, -1},
	}
}

// triState is one pentachoron triangle slot in the triangle union-find forest.
type triState struct {
	parent       int        // -1 at a root
	rank         int        // union-by-rank depth bound
	size         int        // at a root: slots in the class
	bounded      bool       // at a root: false once the triangle link has closed into a circle
	twistUp      perm.Perm3 // maps this slot's vertex labels onto the parent's
	hadEqualRank bool       // set if this slot's union bumped the parent's rank
}

func (ts *triState) reset() {
	*ts = triState{
		parent:  -1,
		size:    1,
		bounded: true,
		twistUp: perm.Code012,
	}
}

func b2u(b bool) uint8 {
	if b {
		return 1
	}
	return 0
}
