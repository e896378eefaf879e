package pairing

import (
	"github.com/2x3systems/go5cell/go5cell"
)

// OnPairing receives each pairing found by FindAllPairings along with its automorphisms.
// The pairing is owned by the enumerator and changes after the call returns, so receivers must Clone it to keep it.
// Returning false stops the enumeration.
type OnPairing func(fp *FacetPairing, autos []Iso) bool

// FindAllPairings enumerates every connected facet pairing on n pentachora in canonical form, each exactly once.
//
// bdry selects closed and/or bounded pairings.  If bounded pairings are allowed,
// nBdryFacets >= 0 requests exactly that many boundary facets; -1 allows any number.
func FindAllPairings(n int, bdry go5cell.BoundaryPolicy, nBdryFacets int, emit OnPairing) {
	if bdry&go5cell.AnyBoundary == 0 || n <= 0 {
		return
	}
	total := 5 * n
	if bdry.AllowsBounded() && nBdryFacets >= 0 &&
		(nBdryFacets%2 != total%2 ||
			nBdryFacets > 3*n+2 ||
			(nBdryFacets == 0 && !bdry.AllowsClosed())) {
		return
	}

	// Every facet starts out "unspecified", i.e. glued to itself.
	fp := &FacetPairing{
		size:  n,
		pairs: make([]FacetSpec, total),
	}
	for f := (FacetSpec{0, 0}); f.Simp < n; f.Inc() {
		*fp.destRef(f) = f
	}

	undo := func(f FacetSpec, usedFacets, boundaryFacets *int) {
		if fp.IsUnmatched(f) {
			*usedFacets--
			*boundaryFacets--
		} else {
			*usedFacets -= 2
			d := fp.Dest(f)
			*fp.destRef(d) = d
		}
	}

	trying := FacetSpec{0, 0} // the facet we are currently trying to match
	boundaryFacets := 0       // facets deliberately left unmatched so far
	usedFacets := 0           // facets whose matchings are decided

	for {
		// Facet trying needs a partner; dest(trying) is the last one tried, always >= trying,
		// and there is no reciprocal gluing back to trying yet.
		d := fp.destRef(trying)
		d.Inc()

		// Don't close off the current set of pentachora while others remain; that would disconnect.
		// Here we avoid tying the last two facets of the set together.
		if usedFacets%5 == 3 &&
			usedFacets < total-2 &&
			fp.noDest(FacetSpec{usedFacets/5 + 1, 0}) &&
			d.Simp <= usedFacets/5 {
			d.Simp = usedFacets/5 + 1
			d.Facet = 0
		}

		// Leave room for the required number of boundary facets.
		if bdry.AllowsBounded() {
			if nBdryFacets < 0 {
				if !bdry.AllowsClosed() {
					if boundaryFacets == 0 && usedFacets == total-2 && d.Simp < n {
						d.SetBoundary(n)
					}
				}
			} else if usedFacets-boundaryFacets+nBdryFacets == total && d.Simp < n {
				// The quota of non-boundary facets is used up.
				d.SetBoundary(n)
			}
		}

		for {
			// Move on to the next free destination.
			for d.Simp < n && !fp.noDest(*d) {
				d.Inc()
			}

			// A facet past 0 whose predecessor is unused can't be the first free slot of its pentachoron.
			if d.Simp < n && d.Facet > 0 && fp.noDest(FacetSpec{d.Simp, d.Facet - 1}) {
				d.Simp++
				d.Facet = 0
				continue
			}
			break
		}

		// Facet 0 of a pentachoron whose predecessor is unused: nothing sane remains but the boundary.
		if d.Simp < n && d.Facet == 0 && fp.noDest(FacetSpec{d.Simp - 1, 0}) {
			d.SetBoundary(n)
		}

		// Also avoid sending the last facet of a set of pentachora to the boundary.
		if usedFacets%5 == 4 &&
			usedFacets < total-1 &&
			fp.noDest(FacetSpec{usedFacets/5 + 1, 0}) &&
			fp.IsUnmatched(trying) {
			d.Inc()
		}

		if d.IsPastEnd(n, !bdry.AllowsBounded() || boundaryFacets == nBdryFacets) {
			// trying can't be joined to anything else: step back.
			*d = trying
			trying.Dec()

			// Keep heading back until we find a facet that joins forwards or to the boundary.
			for !trying.IsBeforeStart() && fp.Dest(trying).Less(trying) {
				trying.Dec()
			}
			if trying.IsBeforeStart() {
				break
			}

			undo(trying, &usedFacets, &boundaryFacets)
			continue
		}

		// Match it up and head to the next free facet.
		if fp.IsUnmatched(trying) {
			usedFacets++
			boundaryFacets++
		} else {
			usedFacets += 2
			*fp.destRef(*d) = trying
		}

		oldTrying := trying
		trying.Inc()
		for trying.Simp < n && !fp.noDest(trying) {
			trying.Inc()
		}

		if trying.Simp == n {
			var autos []Iso
			if fp.isCanonicalInternal(&autos) {
				if !emit(fp, autos) {
					return
				}
			}

			trying = oldTrying
			undo(trying, &usedFacets, &boundaryFacets)
			continue
		}

		// Start on a new facet: set dest(trying) one step before its first feasible destination,
		// which is at least the previous forward destination from this pentachoron.
		if trying.Facet > 0 {
			tmp := trying
			for tmp.Dec(); tmp.Simp == trying.Simp; tmp.Dec() {
				if tmp.Less(fp.Dest(tmp)) {
					if fp.Dest(trying).Less(fp.Dest(tmp)) {
						*fp.destRef(trying) = fp.Dest(tmp)

						// dest(trying) is incremented before use; stay on the boundary if that is where we are.
						if fp.IsUnmatched(trying) {
							fp.destRef(trying).Dec()
						}
					}
					break
				}
			}
		}

		// If pentachoron 0 doesn't glue to itself, no later pentachoron can either.
		if dt := fp.Dest(trying); dt.Simp == trying.Simp && dt.Facet < 4 && trying.Simp > 0 {
			if fp.DestOf(0, 0).Simp != 0 {
				fp.destRef(trying).Facet = 4
			}
		}
	}
}
