package pairing

import "fmt"

// FacetSpec names facet Facet (0..4) of pentachoron Simp.
//
// For a pairing of n pentachora, (n, 0) denotes the boundary and (-1, 4) sits
// before the first facet.  FacetSpecs are ordered by (Simp, Facet).
type FacetSpec struct {
	Simp  int
	Facet int
}

// Boundary returns the boundary marker for a pairing of n pentachora.
func Boundary(n int) FacetSpec {
	return FacetSpec{n, 0}
}

func (f FacetSpec) IsBoundary(n int) bool {
	return f.Simp == n && f.Facet == 0
}

func (f *FacetSpec) SetBoundary(n int) {
	f.Simp = n
	f.Facet = 0
}

func (f FacetSpec) IsBeforeStart() bool {
	return f.Simp < 0
}

func (f *FacetSpec) SetBeforeStart() {
	f.Simp = -1
	f.Facet = 4
}

// IsPastEnd reports whether f lies beyond the last facet of n pentachora.
// If bdryAlso is set, the boundary marker itself also counts as past the end.
func (f FacetSpec) IsPastEnd(n int, bdryAlso bool) bool {
	return f.Simp == n && (bdryAlso || f.Facet != 0)
}

// Inc steps f to the next facet in order.
func (f *FacetSpec) Inc() {
	f.Facet++
	if f.Facet > 4 {
		f.Facet = 0
		f.Simp++
	}
}

// Dec steps f to the previous facet in order.
func (f *FacetSpec) Dec() {
	f.Facet--
	if f.Facet < 0 {
		f.Facet = 4
		f.Simp--
	}
}

func (f FacetSpec) Less(g FacetSpec) bool {
	return f.Simp < g.Simp || (f.Simp == g.Simp && f.Facet < g.Facet)
}

// Compare returns -1, 0, or 1 as f is before, equal to, or after g.
func (f FacetSpec) Compare(g FacetSpec) int {
	switch {
	case f.Less(g):
		return -1
	case g.Less(f):
		return 1
	}
	return 0
}

// Index returns the position of f in a flat array of 5 facets per pentachoron.
func (f FacetSpec) Index() int {
	return 5*f.Simp + f.Facet
}

func (f FacetSpec) String() string {
	return fmt.Sprintf("%d:%d", f.Simp, f.Facet)
}
