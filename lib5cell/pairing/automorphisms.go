package pairing

import (
	"github.com/2x3systems/go5cell/lib5cell/perm"
)

// IsCanonical returns true if this pairing is in canonical form, i.e. it is
// lexicographically minimal among all relabellings of its pentachora and facets.
func (fp *FacetPairing) IsCanonical() bool {
	n := fp.size
	if n == 0 {
		return true
	}
	for simp := 0; simp < n; simp++ {
		for facet := 0; facet < 4; facet++ {
			next := fp.DestOf(simp, facet+1)
			if next.Less(fp.DestOf(simp, facet)) && next != (FacetSpec{simp, facet}) {
				return false
			}
		}
		if simp > 0 && fp.DestOf(simp, 0).Simp >= simp {
			return false
		}
		if simp > 1 && !fp.DestOf(simp-1, 0).Less(fp.DestOf(simp, 0)) {
			return false
		}
	}
	return fp.isCanonicalInternal(nil)
}

// FindAutomorphisms returns every automorphism of this pairing.
// The pairing must be connected and in canonical form; otherwise the result is empty.
func (fp *FacetPairing) FindAutomorphisms() []Iso {
	if fp.size == 0 {
		return []Iso{IdentityIso(0)}
	}
	var autos []Iso
	fp.isCanonicalInternal(&autos)
	return autos
}

// isCanonicalInternal builds every automorphism one facet at a time, choosing the
// preimage of (0,0) first.  Any relabelling that yields a lexicographically smaller
// pairing proves this one is not canonical.  If list is non-nil, the automorphisms
// found are appended to it (and it is cleared on a false return).
func (fp *FacetPairing) isCanonicalInternal(list *[]Iso) bool {
	n := fp.size
	first := FacetSpec{0, 0}

	// A lone pentachoron with no gluings at all: every facet relabelling is an automorphism.
	if fp.IsUnmatched(first) {
		if list != nil {
			for i := 0; i < perm.NumPerm5; i++ {
				iso := NewIso(1)
				iso.SimpImage[0] = 0
				iso.FacetPerm[0] = perm.OrderedS5[i]
				*list = append(*list, iso)
			}
		}
		return true
	}

	notCanonical := func() bool {
		if list != nil {
			*list = (*list)[:0]
		}
		return false
	}

	image := make([]FacetSpec, 5*n)
	preImage := make([]FacetSpec, 5*n)
	for i := range image {
		image[i].SetBeforeStart()
		preImage[i].SetBeforeStart()
	}

	firstDest := fp.Dest(first)
	for preImage[0] = first; !preImage[0].IsPastEnd(n, true); preImage[0].Inc() {
		pre0 := preImage[0]
		if fp.IsUnmatched(pre0) {
			continue
		}

		firstDestPre := fp.Dest(pre0)
		if firstDest.Simp == 0 && firstDestPre.Simp != pre0.Simp {
			continue
		}
		if firstDest.Simp != 0 && firstDestPre.Simp == pre0.Simp {
			return notCanonical()
		}

		image[pre0.Index()] = first
		preImage[firstDest.Index()] = firstDestPre
		image[firstDestPre.Index()] = firstDest

		// Step forwards to the next facet whose preimage is undetermined.
		trying := first
		trying.Inc()
		if trying == firstDest {
			trying.Inc()
		}

		for trying != first {
			// All facets before trying have preimages; we sit on the last candidate tried for trying.
			stepDown := false

			if trying.IsPastEnd(n, true) {
				if list != nil {
					iso := NewIso(n)
					for i := 0; i < n; i++ {
						img := image[5*i : 5*i+5]
						iso.SimpImage[i] = img[0].Simp
						iso.FacetPerm[i] = perm.NewPerm5(img[0].Facet, img[1].Facet, img[2].Facet, img[3].Facet, img[4].Facet)
					}
					*list = append(*list, iso)
				}
				stepDown = true
			} else {
				pre := &preImage[trying.Index()]
				if pre.Simp >= 0 && pre.Facet == 4 {
					pre.SetBeforeStart()
					stepDown = true
				} else {
					if pre.IsBeforeStart() {
						// The pentachoron is already fixed by facet 0's preimage.
						pre.Simp = preImage[5*trying.Simp].Simp
						pre.Facet = 0
					} else {
						pre.Facet++
					}

					unmatched := fp.IsUnmatched(trying)
					for ; pre.Facet <= 4; pre.Facet++ {
						if !image[pre.Index()].IsBeforeStart() {
							continue
						}
						preUnmatched := fp.IsUnmatched(*pre)
						if !unmatched && preUnmatched {
							continue
						}
						if unmatched && !preUnmatched {
							return notCanonical()
						}
						break
					}
					if pre.Facet > 4 {
						pre.SetBeforeStart()
						stepDown = true
					}
				}
			}

			if !stepDown {
				// trying is unmatched iff its preimage is unmatched.
				pre := preImage[trying.Index()]
				image[pre.Index()] = trying
				if !fp.IsUnmatched(pre) {
					fPre := fp.Dest(pre)
					if image[fPre.Index()].IsBeforeStart() {
						// The partner's image goes into the next available slot.
						placed := false
						for i := 0; i < 5; i++ {
							if img := image[5*fPre.Simp+i]; !img.IsBeforeStart() {
								facet := 0
								for !preImage[5*img.Simp+facet].IsBeforeStart() {
									facet++
								}
								image[fPre.Index()] = FacetSpec{img.Simp, facet}
								placed = true
								break
							}
						}
						if !placed {
							simp := trying.Simp + 1
							for !preImage[5*simp].IsBeforeStart() {
								simp++
							}
							image[fPre.Index()] = FacetSpec{simp, 0}
						}

						fImg := image[fPre.Index()]
						preImage[fImg.Index()] = fPre
					}
				}

				// Compare lexicographically and shunt trying up while the images agree.
				for {
					fImg := fp.Dest(trying)
					fPre := fp.Dest(preImage[trying.Index()])
					if !fPre.IsBoundary(n) {
						fPre = image[fPre.Index()]
					}

					if fImg.Less(fPre) {
						stepDown = true
					} else if fPre.Less(fImg) {
						return notCanonical()
					}

					trying.Inc()
					if stepDown || trying.IsPastEnd(n, true) || preImage[trying.Index()].IsBeforeStart() {
						break
					}
				}
			}

			if stepDown {
				trying.Dec()
				for {
					fPre := preImage[trying.Index()]
					if !fp.IsUnmatched(fPre) {
						fPre = fp.Dest(fPre)
						if image[fPre.Index()].Less(trying) {
							// Derived automatically from an earlier choice.
							trying.Dec()
							continue
						}
					}
					break
				}

				fPre := preImage[trying.Index()]
				image[fPre.Index()].SetBeforeStart()
				if !fp.IsUnmatched(fPre) {
					fPre = fp.Dest(fPre)
					fImg := image[fPre.Index()]
					preImage[fImg.Index()].SetBeforeStart()
					image[fPre.Index()].SetBeforeStart()
				}
			}
		}
	}

	return true
}
