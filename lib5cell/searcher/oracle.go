package searcher

import (
	"github.com/2x3systems/go5cell/lib5cell/faces"
	"github.com/2x3systems/go5cell/lib5cell/gluing"
	"github.com/2x3systems/go5cell/lib5cell/pairing"
	"github.com/2x3systems/go5cell/lib5cell/perm"
)

var (
	rotate0123 = perm.NewPerm5(1, 2, 3, 0, 4)
	swap34     = perm.Transposition5(3, 4)
)

// badTriangleLink walks around each of the four triangles of the given facet,
// pushing through pentachora and across glued facets.  It returns true if some
// walk closes up back at its start with a rotation or reflection.
func (s *Searcher) badTriangleLink(facet pairing.FacetSpec) bool {
	return badTriangleLink(s.perms, facet)
}

func badTriangleLink(gp *gluing.GluingPerms, facet pairing.FacetSpec) bool {
	fp := gp.Pairing()

	// start maps 0,1,2,3 onto the facet's vertices, with 0,1,2 on the triangle under study.
	start := perm.Transposition5(facet.Facet, 4)
	for i := 0; i < 4; i++ {
		start = start.Compose(rotate0123)

		current := start
		pent := facet.Simp
		started := false
		incomplete := false

		for !started || pent != facet.Simp || start.At(3) != current.At(3) || start.At(4) != current.At(4) {
			started = true

			// Push through the pentachoron.
			current = current.Compose(swap34)

			// Push across a facet.
			across := pairing.FacetSpec{Simp: pent, Facet: current.At(4)}
			if fp.IsUnmatched(across) {
				incomplete = true
				break
			}
			adj := fp.Dest(across)
			if gp.PermIndex(across) >= 0 {
				current = gp.Perm(across).Compose(current)
			} else if gp.PermIndex(adj) >= 0 {
				current = gp.Perm(adj).Inverse().Compose(current)
			} else {
				incomplete = true
				break
			}
			pent = adj.Simp
		}

		if !incomplete && start != current {
			return true
		}
	}
	return false
}

// ValidateLinks checks a complete assignment from scratch.  It returns true if
// every triangle link is an arc or an untwisted circle, no edge is identified
// with itself in reverse, and every edge link is an orientable planar surface.
//
// This is the posterior check that the union-find search applies incrementally.
func ValidateLinks(gp *gluing.GluingPerms) bool {
	fp := gp.Pairing()
	n := fp.Size()

	for f := (pairing.FacetSpec{}); f.Simp < n; f.Inc() {
		if !fp.IsUnmatched(f) && badTriangleLink(gp, f) {
			return false
		}
	}

	edges := newParityForest(10 * n)   // edge identifications, parity = edge reversed
	links := newParityForest(10 * n)   // same classes, parity = link orientation reversed
	corners := newParityForest(30 * n) // link vertices: (edge slot, vertex off the edge)

	cornerID := func(simp, edge, v int) int {
		ev := faces.TriangleVertex[edge]
		for k := 0; k < 3; k++ {
			if ev[k] == v {
				return 30*simp + 3*edge + k
			}
		}
		return -1
	}

	glued := make([]int, 10*n) // link sides glued, per edge slot
	for f := (pairing.FacetSpec{}); f.Simp < n; f.Inc() {
		dest := fp.Dest(f)
		if fp.IsUnmatched(f) || dest.Less(f) {
			continue
		}
		p := gp.Perm(f)
		for e := 0; e < faces.NumEdges; e++ {
			a, b := faces.EdgeVertex[e][0], faces.EdgeVertex[e][1]
			if a == f.Facet || b == f.Facet {
				continue
			}
			pa, pb := p.At(a), p.At(b)
			g := faces.EdgeNumber[pa][pb]
			eIdx := 10*f.Simp + e
			gIdx := 10*dest.Simp + g
			glued[eIdx]++
			glued[gIdx]++

			if !edges.union(eIdx, gIdx, b2u(pa > pb)) {
				return false
			}

			fixed := 0
			for k := 0; k < 3; k++ {
				if p.At(faces.TriangleVertex[e][k]) == faces.TriangleVertex[g][k] {
					fixed++
				}
			}
			if !links.union(eIdx, gIdx, b2u(fixed != 1)) {
				return false
			}

			// The two link vertices on the glued side.
			for _, v := range faces.TriangleVertex[e] {
				if v == f.Facet {
					continue
				}
				corners.union(cornerID(f.Simp, e, v), cornerID(dest.Simp, g, p.At(v)), 0)
			}
		}
	}

	// Boundary cycles: components of the graph of unglued link sides.
	bdry := newParityForest(30 * n)
	onBdry := make([]bool, 30*n)
	for id := 0; id < 10*n; id++ {
		simp, e := id/10, id%10
		tv := faces.TriangleVertex[e]
		for k := 0; k < 3; k++ {
			// The side opposite link vertex tv[k] lies in facet tv[k].
			if !fp.IsUnmatched(pairing.FacetSpec{Simp: simp, Facet: tv[k]}) {
				continue
			}
			a := corners.find(cornerID(simp, e, tv[(k+1)%3]))
			b := corners.find(cornerID(simp, e, tv[(k+2)%3]))
			bdry.union(a, b, 0)
			onBdry[a], onBdry[b] = true, true
		}
	}

	// Each edge link must be a sphere with holes: V - E + F + cycles == 2.
	type linkCount struct {
		faces  int
		glued  int
		verts  map[int]bool
		cycles map[int]bool
	}
	counts := map[int]*linkCount{}
	for id := 0; id < 10*n; id++ {
		root := edges.find(id)
		lc := counts[root]
		if lc == nil {
			lc = &linkCount{verts: map[int]bool{}, cycles: map[int]bool{}}
			counts[root] = lc
		}
		lc.faces++
		lc.glued += glued[id]
		simp, e := id/10, id%10
		for _, v := range faces.TriangleVertex[e] {
			corner := corners.find(cornerID(simp, e, v))
			lc.verts[corner] = true
			if onBdry[corner] {
				lc.cycles[bdry.find(corner)] = true
			}
		}
	}
	for _, lc := range counts {
		// Glued sides are identified in pairs.
		numSides := 3*lc.faces - lc.glued/2
		euler := len(lc.verts) - numSides + lc.faces
		if euler+len(lc.cycles) != 2 {
			return false
		}
	}
	return true
}

// parityForest is a plain union-find with a Z/2 label on every path, used only by ValidateLinks.
type parityForest struct {
	parent []int
	parity []uint8
}

func newParityForest(size int) *parityForest {
	pf := &parityForest{
		parent: make([]int, size),
		parity: make([]uint8, size),
	}
	for i := range pf.parent {
		pf.parent[i] = i
	}
	return pf
}

func (pf *parityForest) find(id int) int {
	root, _ := pf.findParity(id)
	return root
}

func (pf *parityForest) findParity(id int) (int, uint8) {
	var par uint8
	for pf.parent[id] != id {
		par ^= pf.parity[id]
		id = pf.parent[id]
	}
	return id, par
}

// union joins a and b with relative parity par.  It returns false if a and b
// are already joined with the opposite parity.
func (pf *parityForest) union(a, b int, par uint8) bool {
	ra, pa := pf.findParity(a)
	rb, pb := pf.findParity(b)
	if ra == rb {
		return pa^pb == par
	}
	pf.parent[ra] = rb
	pf.parity[ra] = pa ^ pb ^ par
	return true
}
