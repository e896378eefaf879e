package searcher

import (
	"github.com/2x3systems/go5cell/lib5cell/faces"
	"github.com/plan-systems/klog"
)

// mergeEdgeClasses joins the edge links across the pair at the current depth.
//
// It returns true if an edge is identified with itself in reverse, if an edge
// link becomes non-orientable, or if an edge link picks up genus.  All six
// unions are made either way so that splitEdgeClasses can undo them.
func (s *Searcher) mergeEdgeClasses() bool {
	facet := s.order[s.orderElt]
	adj := s.perms.Pairing().Dest(facet)
	p := s.perms.Perm(facet)

	dirty := false

	var (
		eNext, fNext   [2]int
		eTwist, fTwist [2]uint8
	)

	v1 := facet.Facet
	w1 := p.At(v1)

	for v2 := 0; v2 < 4; v2++ {
		if v2 == v1 {
			continue
		}
		w2 := p.At(v2)

		for v3 := v2 + 1; v3 < 5; v3++ {
			if v3 == v1 {
				continue
			}
			w3 := p.At(v3)

			// The edge opposite triangle v1-v2-v3.
			e := faces.TriangleNumber[v1][v2][v3]
			f := faces.TriangleNumber[w1][w2][w3]
			eIdx := e + 10*facet.Simp
			fIdx := f + 10*adj.Simp
			logIdx := e + 10*s.orderElt

			// Edges run naturally from the smaller vertex to the larger.
			hasTwistEdge := b2u(p.At(faces.EdgeVertex[e][0]) > p.At(faces.EdgeVertex[e][1]))

			// Are the ascending labellings of the two opposite triangles joined with opposite orientations?
			fixed := 0
			for k := 0; k < 3; k++ {
				if p.At(faces.TriangleVertex[e][k]) == faces.TriangleVertex[f][k] {
					fixed++
				}
			}
			hasTwistTriangle := b2u(fixed != 1)

			var parentTwistEdge, parentTwistTriangle uint8
			eRep := eIdx
			for ; s.edgeState[eRep].parent >= 0; eRep = s.edgeState[eRep].parent {
				parentTwistEdge ^= s.edgeState[eRep].twistUpEdge
				parentTwistTriangle ^= s.edgeState[eRep].twistUpTriangle
			}
			fRep := fIdx
			for ; s.edgeState[fRep].parent >= 0; fRep = s.edgeState[fRep].parent {
				parentTwistEdge ^= s.edgeState[fRep].twistUpEdge
				parentTwistTriangle ^= s.edgeState[fRep].twistUpTriangle
			}

			es := &s.edgeState[eIdx]
			fs := &s.edgeState[fIdx]

			if eRep == fRep {
				s.edgeState[eRep].bdry -= 2

				// Edge identified with itself in reverse?
				if hasTwistEdge^parentTwistEdge != 0 {
					dirty = true
				}
				// Edge link made non-orientable?
				if hasTwistTriangle^parentTwistTriangle != 0 {
					dirty = true
				}

				s.edgeStateChanged[logIdx] = -1

				if eIdx == fIdx {
					// Folding two sides of the same link triangle together.
					// With a twist the link is already flagged non-orientable; with all three
					// sides free the fold changes no cycles.  With one side already glued, the
					// two free sides close off or their neighbours join up.  bdryEdges drops
					// straight from 2 to 0 so no backup is needed.
					if hasTwistTriangle == 0 && es.bdryEdges < 3 && es.bdryNext[0] != eIdx {
						s.edgeBdryJoin(es.bdryNext[0], 1^es.bdryTwist[0],
							es.bdryNext[1], es.bdryTwist[1]^es.bdryTwist[0])
					}
					es.bdryEdges -= 2
					continue
				}

				// Two distinct slots already in the same edge link.
				if es.bdryEdges == 2 {
					s.edgeBdryBackup(eIdx)
				}
				if fs.bdryEdges == 2 {
					s.edgeBdryBackup(fIdx)
				}

				switch {
				case s.edgeBdryLength1(eIdx) && s.edgeBdryLength1(fIdx):
					// Joining two boundary cycles of length one: the link gains genus.
					dirty = true

				case s.edgeBdryLength2(eIdx, fIdx):
					// Closing off a single boundary cycle of length two.

				default:
					s.edgeBdryNext(eIdx, facet.Simp, e, facet.Facet, &eNext, &eTwist)
					s.edgeBdryNext(fIdx, adj.Simp, f, adj.Facet, &fNext, &fTwist)

					if eNext[0] == fIdx && fNext[1^eTwist[0]] == eIdx {
						// Adjacent sides of the link boundary: cut them out.
						s.edgeBdryJoin(eNext[1], 0^eTwist[1],
							fNext[0^eTwist[0]],
							(eTwist[0]^fTwist[0^eTwist[0]])^eTwist[1])
					} else if eNext[1] == fIdx && fNext[0^eTwist[1]] == eIdx {
						s.edgeBdryJoin(eNext[0], 1^eTwist[0],
							fNext[1^eTwist[1]],
							(eTwist[1]^fTwist[1^eTwist[1]])^eTwist[0])
					} else if !s.edgeBdrySameCycle(eIdx, fIdx) {
						// Two different boundary cycles of one link: genus again.
						dirty = true
					} else {
						s.edgeBdryJoin(eNext[0], 1^eTwist[0],
							fNext[1^hasTwistTriangle],
							eTwist[0]^(hasTwistTriangle^fTwist[1^hasTwistTriangle]))
						s.edgeBdryJoin(eNext[1], 0^eTwist[1],
							fNext[0^hasTwistTriangle],
							eTwist[1]^(hasTwistTriangle^fTwist[0^hasTwistTriangle]))
					}
				}

				es.bdryEdges--
				fs.bdryEdges--
				continue
			}

			// Two different edge classes: graft the lower-ranked root beneath the other.
			eRoot, fRoot := &s.edgeState[eRep], &s.edgeState[fRep]
			if eRoot.rank < fRoot.rank {
				eRoot.parent = fRep
				eRoot.twistUpEdge = hasTwistEdge ^ parentTwistEdge
				eRoot.twistUpTriangle = hasTwistTriangle ^ parentTwistTriangle
				fRoot.bdry = fRoot.bdry + eRoot.bdry - 2
				s.edgeStateChanged[logIdx] = eRep
			} else {
				fRoot.parent = eRep
				fRoot.twistUpEdge = hasTwistEdge ^ parentTwistEdge
				fRoot.twistUpTriangle = hasTwistTriangle ^ parentTwistTriangle
				if eRoot.rank == fRoot.rank {
					eRoot.rank++
					fRoot.hadEqualRank = true
				}
				eRoot.bdry = eRoot.bdry + fRoot.bdry - 2
				s.edgeStateChanged[logIdx] = fRep
			}
			s.nEdgeClasses--

			if es.bdryEdges == 2 {
				s.edgeBdryBackup(eIdx)
			}
			if fs.bdryEdges == 2 {
				s.edgeBdryBackup(fIdx)
			}

			switch {
			case s.edgeBdryLength1(eIdx):
				// eIdx is a whole boundary cycle of length one, so it simply caps fIdx.
				// Only if fIdx is down to its last free side does anything move.
				if !s.edgeBdryLength1(fIdx) && fs.bdryEdges == 1 {
					s.edgeBdryJoin(fs.bdryNext[0], 1^fs.bdryTwist[0],
						fs.bdryNext[1], fs.bdryTwist[0]^fs.bdryTwist[1])
				}

			case s.edgeBdryLength1(fIdx):
				if es.bdryEdges == 1 {
					s.edgeBdryJoin(es.bdryNext[0], 1^es.bdryTwist[0],
						es.bdryNext[1], es.bdryTwist[0]^es.bdryTwist[1])
				}

			default:
				// Both slots sit on boundary cycles of length two or more: splice the cycles together.
				s.edgeBdryNext(eIdx, facet.Simp, e, facet.Facet, &eNext, &eTwist)
				s.edgeBdryNext(fIdx, adj.Simp, f, adj.Facet, &fNext, &fTwist)

				s.edgeBdryJoin(eNext[0], 1^eTwist[0],
					fNext[1^hasTwistTriangle],
					eTwist[0]^(hasTwistTriangle^fTwist[1^hasTwistTriangle]))
				s.edgeBdryJoin(eNext[1], 0^eTwist[1],
					fNext[0^hasTwistTriangle],
					eTwist[1]^(hasTwistTriangle^fTwist[0^hasTwistTriangle]))
			}

			es.bdryEdges--
			fs.bdryEdges--
		}
	}

	return dirty
}

// splitEdgeClasses undoes mergeEdgeClasses at the current depth, in reverse.
func (s *Searcher) splitEdgeClasses() {
	facet := s.order[s.orderElt]
	adj := s.perms.Pairing().Dest(facet)
	p := s.perms.Perm(facet)

	v1 := facet.Facet
	w1 := p.At(v1)

	for v2 := 3; v2 >= 0; v2-- {
		if v2 == v1 {
			continue
		}
		w2 := p.At(v2)

		for v3 := 4; v3 > v2; v3-- {
			if v3 == v1 {
				continue
			}
			w3 := p.At(v3)

			e := faces.TriangleNumber[v1][v2][v3]
			f := faces.TriangleNumber[w1][w2][w3]
			eIdx := e + 10*facet.Simp
			fIdx := f + 10*adj.Simp
			logIdx := e + 10*s.orderElt

			if subRep := s.edgeStateChanged[logIdx]; subRep < 0 {
				rep := eIdx
				for s.edgeState[rep].parent >= 0 {
					rep = s.edgeState[rep].parent
				}
				s.edgeState[rep].bdry += 2
			} else {
				// Separate the two trees that had been grafted together.
				sub := &s.edgeState[subRep]
				rep := &s.edgeState[sub.parent]

				sub.parent = -1
				if sub.hadEqualRank {
					sub.hadEqualRank = false
					rep.rank--
				}
				rep.bdry = rep.bdry + 2 - sub.bdry

				s.edgeStateChanged[logIdx] = -1
				s.nEdgeClasses++
			}

			// Restore the boundary cycles.
			if eIdx == fIdx {
				s.edgeState[eIdx].bdryEdges += 2
				if s.edgeState[eIdx].bdryEdges == 2 {
					s.edgeBdryFixAdj(eIdx)
				}
				continue
			}

			s.edgeState[fIdx].bdryEdges++
			s.edgeState[eIdx].bdryEdges++
			s.edgeBdryUndo(fIdx)
			s.edgeBdryUndo(eIdx)
		}
	}
}

// edgeBdryUndo restores the cursors of slot id once its bdryEdges has been incremented back.
func (s *Searcher) edgeBdryUndo(id int) {
	es := &s.edgeState[id]
	switch es.bdryEdges {
	case 3:
		es.bdryNext = [2]int{id, id}
		es.bdryTwist = [2]uint8{0, 0}
	case 2:
		s.edgeBdryRestore(id)
		s.edgeBdryFixAdj(id)
	case 1:
		// Nothing here changed during the merge; just point the neighbours back.
		s.edgeBdryFixAdj(id)
	}
}

// edgeBdryNext returns the two neighbours of slot id along its link's boundary,
// as seen from the side of the link triangle that lies in facet bdryFacet of pent.
func (s *Searcher) edgeBdryNext(id, pent, edge, bdryFacet int, next *[2]int, twist *[2]uint8) {
	es := &s.edgeState[id]
	switch es.bdryEdges {
	case 3:
		*next = [2]int{id, id}
		*twist = [2]uint8{0, 0}

	case 2:
		nextFacet := faces.EdgeLinkNextFacet[edge][bdryFacet]
		prevFacet := faces.EdgeLinkPrevFacet[edge][bdryFacet]
		useNext := false

		switch {
		case s.perms.PermIndexOf(pent, nextFacet) < 0:
			useNext = true
		case s.perms.PermIndexOf(pent, prevFacet) < 0:
			useNext = false
		default:
			// We are part way through gluing a pentachoron to itself: the free side
			// we cannot see belongs to the facet being glued or to its partner.
			cur := s.order[s.orderElt]
			ghost := cur.Facet
			if bdryFacet == cur.Facet {
				ghost = s.perms.Pairing().Dest(cur).Facet
			}
			if nextFacet == ghost {
				useNext = true
			} else if prevFacet != ghost {
				klog.Warningf("searcher: inconsistent edge link boundary at slot %d (edge %d, facet %d)", id, edge, bdryFacet)
			}
		}

		if useNext {
			*next = [2]int{es.bdryNext[0], id}
			*twist = [2]uint8{es.bdryTwist[0], 0}
		} else {
			*next = [2]int{id, es.bdryNext[1]}
			*twist = [2]uint8{0, es.bdryTwist[1]}
		}

	case 1:
		*next = es.bdryNext
		*twist = es.bdryTwist
	}
}

// edgeBdrySameCycle walks the boundary cycle through eIdx and reports whether it meets fIdx.
func (s *Searcher) edgeBdrySameCycle(eIdx, fIdx int) bool {
	tmp := s.edgeState[eIdx].bdryNext[0]
	twist := s.edgeState[eIdx].bdryTwist[0]
	for tmp != eIdx && tmp != fIdx {
		next := s.edgeState[tmp].bdryNext[twist]
		twist ^= s.edgeState[tmp].bdryTwist[twist]
		tmp = next
	}
	return tmp == fIdx
}

func (s *Searcher) edgeBdryJoin(id int, end uint8, adjID int, twist uint8) {
	s.edgeState[id].bdryNext[end] = adjID
	s.edgeState[id].bdryTwist[end] = twist
	s.edgeState[adjID].bdryNext[(end^1)^twist] = id
	s.edgeState[adjID].bdryTwist[(end^1)^twist] = twist
}

// edgeBdryFixAdj points the neighbours of id back at id.
func (s *Searcher) edgeBdryFixAdj(id int) {
	es := &s.edgeState[id]
	if es.bdryNext[0] == id {
		return
	}
	s.edgeState[es.bdryNext[0]].bdryNext[1^es.bdryTwist[0]] = id
	s.edgeState[es.bdryNext[0]].bdryTwist[1^es.bdryTwist[0]] = es.bdryTwist[0]
	s.edgeState[es.bdryNext[1]].bdryNext[0^es.bdryTwist[1]] = id
	s.edgeState[es.bdryNext[1]].bdryTwist[0^es.bdryTwist[1]] = es.bdryTwist[1]
}

func (s *Searcher) edgeBdryBackup(id int) {
	es := &s.edgeState[id]
	es.bdryNextOld = es.bdryNext
	es.bdryTwistOld = es.bdryTwist
}

func (s *Searcher) edgeBdryRestore(id int) {
	es := &s.edgeState[id]
	es.bdryNext = es.bdryNextOld
	es.bdryTwist = es.bdryTwistOld
}

// edgeBdryLength1 is true if id alone makes up a boundary cycle of length one.
func (s *Searcher) edgeBdryLength1(id int) bool {
	es := &s.edgeState[id]
	return es.bdryNext[0] == id && es.bdryEdges == 1
}

// edgeBdryLength2 is true if id1 and id2 together make up a boundary cycle of length two.
func (s *Searcher) edgeBdryLength2(id1, id2 int) bool {
	e1, e2 := &s.edgeState[id1], &s.edgeState[id2]
	return e1.bdryNext[0] == id2 && e1.bdryNext[1] == id2 &&
		e1.bdryEdges == 1 && e2.bdryEdges == 1
}
