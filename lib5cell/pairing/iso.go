package pairing

import (
	"strconv"
	"strings"

	"github.com/2x3systems/go5cell/lib5cell/perm"
)

// Iso is a combinatorial isomorphism between pairings on n pentachora.
// Pentachoron i maps to SimpImage[i], and its facet j maps to facet FacetPerm[i][j] there.
type Iso struct {
	SimpImage []int
	FacetPerm []perm.Perm5
}

func NewIso(n int) Iso {
	return Iso{
		SimpImage: make([]int, n),
		FacetPerm: make([]perm.Perm5, n),
	}
}

// IdentityIso returns the identity on n pentachora.
func IdentityIso(n int) Iso {
	iso := NewIso(n)
	for i := 0; i < n; i++ {
		iso.SimpImage[i] = i
		iso.FacetPerm[i] = perm.Identity5
	}
	return iso
}

// Size returns the number of pentachora this iso acts on.
func (iso Iso) Size() int {
	return len(iso.SimpImage)
}

// Apply returns the image of facet f.  The boundary marker maps to itself.
func (iso Iso) Apply(f FacetSpec) FacetSpec {
	if f.Simp < 0 || f.Simp >= len(iso.SimpImage) {
		return f
	}
	return FacetSpec{iso.SimpImage[f.Simp], iso.FacetPerm[f.Simp].At(f.Facet)}
}

func (iso Iso) IsIdentity() bool {
	for i, img := range iso.SimpImage {
		if img != i || !iso.FacetPerm[i].IsIdentity() {
			return false
		}
	}
	return true
}

// ApplyTo returns the image of the given pairing under iso.
func (iso Iso) ApplyTo(fp *FacetPairing) *FacetPairing {
	n := fp.Size()
	dst := NewFacetPairing(n)
	for f := (FacetSpec{0, 0}); !f.IsPastEnd(n, true); f.Inc() {
		d := fp.Dest(f)
		if d.IsBoundary(n) {
			continue
		}
		*dst.destRef(iso.Apply(f)) = iso.Apply(d)
	}
	return dst
}

func (iso Iso) String() string {
	var b strings.Builder
	for i, img := range iso.SimpImage {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(strconv.Itoa(i))
		b.WriteString(" -> ")
		b.WriteString(strconv.Itoa(img))
		b.WriteString(" (")
		b.WriteString(iso.FacetPerm[i].String())
		b.WriteString(")")
	}
	return b.String()
}
