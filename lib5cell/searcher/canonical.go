package searcher

import (
	"github.com/2x3systems/go5cell/lib5cell/pairing"
)

// isCanonical reports whether the current complete assignment is least among
// its images under every automorphism of the pairing.
func (s *Searcher) isCanonical() bool {
	fp := s.perms.Pairing()
	n := fp.Size()

	for _, iso := range s.autos {
		// Compare with the preimage of the assignment under iso, facet by facet.
		for f := (pairing.FacetSpec{}); f.Simp < n; f.Inc() {
			dest := fp.Dest(f)
			if fp.IsUnmatched(f) || dest.Less(f) {
				continue
			}

			img := iso.Apply(f)
			pre := iso.FacetPerm[dest.Simp].Inverse().
				Compose(s.perms.Perm(img)).
				Compose(iso.FacetPerm[f.Simp])

			order := s.perms.Perm(f).CompareWith(pre)
			if order < 0 {
				break
			}
			if order > 0 {
				return false
			}
		}
	}
	return true
}
