package searcher

import (
	"github.com/2x3systems/go5cell/lib5cell/faces"
	"github.com/2x3systems/go5cell/lib5cell/perm"
)

// findTriangleClass returns the root of triangle slot id.
func (s *Searcher) findTriangleClass(id int) int {
	for s.triState[id].parent >= 0 {
		id = s.triState[id].parent
	}
	return id
}

// findTriangleClassTwist returns the root of id along with the product of twists on the way up.
func (s *Searcher) findTriangleClassTwist(id int) (int, perm.Perm3) {
	twist := perm.Code012
	for ; s.triState[id].parent >= 0; id = s.triState[id].parent {
		twist = s.triState[id].twistUp.Compose(twist)
	}
	return id, twist
}

// directTwist returns the Perm3 carrying the ascending vertex labels of triangle e
// onto those of triangle f under p.
func directTwist(p perm.Perm5, e, f int) perm.Perm3 {
	ev := faces.TriangleVertex[e]
	fv := faces.TriangleVertex[f]
	switch p.At(ev[0]) {
	case fv[0]:
		if p.At(ev[1]) == fv[1] {
			return perm.Code012
		}
		return perm.Code021
	case fv[1]:
		if p.At(ev[1]) == fv[0] {
			return perm.Code102
		}
		return perm.Code120
	default:
		if p.At(ev[1]) == fv[0] {
			return perm.Code201
		}
		return perm.Code210
	}
}

// mergeTriangleClasses joins the triangle links across the pair at the current depth.
// It returns true if some triangle ends up identified with itself by a non-trivial twist.
// All five unions are made either way so that splitTriangleClasses can undo them.
func (s *Searcher) mergeTriangleClasses() bool {
	facet := s.order[s.orderElt]
	adj := s.perms.Pairing().Dest(facet)
	p := s.perms.Perm(facet)

	dirty := false
	v1 := facet.Facet
	w1 := p.At(v1)

	for v2 := 0; v2 < 5; v2++ {
		if v2 == v1 {
			continue
		}
		w2 := p.At(v2)

		// The triangle opposite edge v1-v2.
		e := faces.EdgeNumber[v1][v2]
		f := faces.EdgeNumber[w1][w2]
		logIdx := v2 + 5*s.orderElt

		twist := directTwist(p, e, f)

		eRep, eTwist := s.findTriangleClassTwist(e + 10*facet.Simp)
		fRep, fTwist := s.findTriangleClassTwist(f + 10*adj.Simp)

		if eRep == fRep {
			s.triState[eRep].bounded = false
			if eTwist != fTwist.Compose(twist) {
				dirty = true
			}
			s.triStateChanged[logIdx] = -1
			continue
		}

		eRoot, fRoot := &s.triState[eRep], &s.triState[fRep]
		if eRoot.rank < fRoot.rank {
			// eRep goes beneath fRep.
			eRoot.parent = fRep
			eRoot.twistUp = fTwist.Compose(twist).Compose(eTwist.Inverse())
			fRoot.size += eRoot.size
			s.triStateChanged[logIdx] = eRep
		} else {
			// fRep goes beneath eRep.
			fRoot.parent = eRep
			fRoot.twistUp = eTwist.Compose(twist.Inverse()).Compose(fTwist.Inverse())
			if eRoot.rank == fRoot.rank {
				eRoot.rank++
				fRoot.hadEqualRank = true
			}
			eRoot.size += fRoot.size
			s.triStateChanged[logIdx] = fRep
		}
		s.nTriangleClasses--
	}

	return dirty
}

// splitTriangleClasses undoes mergeTriangleClasses at the current depth, in reverse.
func (s *Searcher) splitTriangleClasses() {
	facet := s.order[s.orderElt]
	v1 := facet.Facet

	for v2 := 4; v2 >= 0; v2-- {
		if v2 == v1 {
			continue
		}
		f := faces.EdgeNumber[v1][v2]
		fIdx := f + 10*facet.Simp
		logIdx := v2 + 5*s.orderElt

		subRep := s.triStateChanged[logIdx]
		if subRep < 0 {
			s.triState[s.findTriangleClass(fIdx)].bounded = true
			continue
		}

		rep := s.triState[subRep].parent
		sub := &s.triState[subRep]
		sub.parent = -1
		if sub.hadEqualRank {
			sub.hadEqualRank = false
			s.triState[rep].rank--
		}
		s.triState[rep].size -= sub.size

		s.triStateChanged[logIdx] = -1
		s.nTriangleClasses++
	}
}
