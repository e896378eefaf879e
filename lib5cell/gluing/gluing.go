// Package gluing holds a facet pairing together with a choice of gluing permutation for each matched facet.
package gluing

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/2x3systems/go5cell/go5cell"
	"github.com/2x3systems/go5cell/lib5cell/pairing"
	"github.com/2x3systems/go5cell/lib5cell/perm"
	"github.com/2x3systems/go5cell/lib5cell/textio"
	"github.com/pkg/errors"
)

const (
	// Unset marks a facet whose gluing has not been chosen.
	Unset = -1

	// OddSeed is the value an orientable-only search leaves on a facet that may only take odd S4 indices.
	OddSeed = -2
)

// GluingPerms assigns to each matched facet f an index into perm.S4.
//
// Index i stands for the gluing IndexToGluing(f, i), which sends facet f.Facet
// onto the partner facet.  For a fully assigned pair (f, g), the index at g
// is always S4Inv of the index at f.
type GluingPerms struct {
	pairing *pairing.FacetPairing
	indices []int
}

// New returns an assignment on fp with every index unset.
// The pairing is shared, not copied, and must not change while in use.
func New(fp *pairing.FacetPairing) *GluingPerms {
	gp := &GluingPerms{
		pairing: fp,
		indices: make([]int, 5*fp.Size()),
	}
	for i := range gp.indices {
		gp.indices[i] = Unset
	}
	return gp
}

func (gp *GluingPerms) Pairing() *pairing.FacetPairing {
	return gp.pairing
}

// Size returns the number of pentachora.
func (gp *GluingPerms) Size() int {
	return gp.pairing.Size()
}

func (gp *GluingPerms) PermIndex(f pairing.FacetSpec) int {
	return gp.indices[5*f.Simp+f.Facet]
}

func (gp *GluingPerms) PermIndexOf(simp, facet int) int {
	return gp.indices[5*simp+facet]
}

func (gp *GluingPerms) SetPermIndex(f pairing.FacetSpec, idx int) {
	gp.indices[5*f.Simp+f.Facet] = idx
}

// Indices returns the raw index array, 5 entries per pentachoron.
func (gp *GluingPerms) Indices() []int {
	return gp.indices
}

// Perm returns the gluing permutation currently chosen for f.
// f must be matched and its index must be set.
func (gp *GluingPerms) Perm(f pairing.FacetSpec) perm.Perm5 {
	return gp.IndexToGluing(f, gp.PermIndex(f))
}

// swapWith4[i] swaps i and 4.
var swapWith4 [5]perm.Perm5

// gluings[a][b][i] is the gluing from facet a onto facet b that S4 index i stands for.
var gluings [5][5][perm.NumPerm4]perm.Perm5

func init() {
	for a := range swapWith4 {
		swapWith4[a] = perm.Transposition5(a, 4)
	}
	for a := 0; a < 5; a++ {
		for b := 0; b < 5; b++ {
			for i, p := range perm.S4 {
				gluings[a][b][i] = swapWith4[b].Compose(p).Compose(swapWith4[a])
			}
		}
	}
}

// IndexToGluing returns the gluing from f to its partner that S4 index idx stands for.
func (gp *GluingPerms) IndexToGluing(f pairing.FacetSpec, idx int) perm.Perm5 {
	return gluings[f.Facet][gp.pairing.Dest(f).Facet][idx]
}

// GluingToIndex returns the S4 index standing for gluing p from f to its partner.
// p must send f.Facet onto the partner's facet.
func (gp *GluingPerms) GluingToIndex(f pairing.FacetSpec, p perm.Perm5) int {
	dest := gp.pairing.Dest(f)
	return swapWith4[dest.Facet].Compose(p).Compose(swapWith4[f.Facet]).S4Index()
}

// IsComplete returns true if every matched facet has a chosen gluing.
func (gp *GluingPerms) IsComplete() bool {
	n := gp.Size()
	for f := (pairing.FacetSpec{}); !f.IsPastEnd(n, true); f.Inc() {
		if !gp.pairing.IsUnmatched(f) && gp.PermIndex(f) < 0 {
			return false
		}
	}
	return true
}

// Clone returns a copy that shares the (immutable) pairing.
func (gp *GluingPerms) Clone() *GluingPerms {
	return &GluingPerms{
		pairing: gp.pairing,
		indices: append([]int(nil), gp.indices...),
	}
}

// Equal returns true if both assignments have equal pairings and indices.
func (gp *GluingPerms) Equal(other *GluingPerms) bool {
	if !gp.pairing.Equal(other.pairing) {
		return false
	}
	for i, idx := range gp.indices {
		if other.indices[i] != idx {
			return false
		}
	}
	return true
}

// ApplyIso returns the image of this assignment under iso, an automorphism of the pairing.
//
// The gluing at iso[f] becomes iso_d ∘ P(f) ∘ iso_f^-1, where iso_f and iso_d
// are the facet perms of the pentachora of f and of its partner.
func (gp *GluingPerms) ApplyIso(iso pairing.Iso) *GluingPerms {
	img := New(gp.pairing)
	n := gp.Size()
	for f := (pairing.FacetSpec{}); !f.IsPastEnd(n, true); f.Inc() {
		if gp.pairing.IsUnmatched(f) || gp.PermIndex(f) < 0 {
			continue
		}
		dest := gp.pairing.Dest(f)
		p := iso.FacetPerm[dest.Simp].
			Compose(gp.Perm(f)).
			Compose(iso.FacetPerm[f.Simp].Inverse())
		fImg := iso.Apply(f)
		img.SetPermIndex(fImg, img.GluingToIndex(fImg, p))
	}
	return img
}

// Key returns a compact string that identifies this assignment, suitable as a catalog key.
func (gp *GluingPerms) Key() string {
	var b strings.Builder
	b.Grow(len(gp.indices))
	for _, idx := range gp.indices {
		if idx < 0 {
			b.WriteByte('.')
		} else {
			b.WriteByte(byte('a' + idx))
		}
	}
	return b.String()
}

// WriteTextShort writes the pairing short form, then " ; " and the gluing of each facet in order.
// Facets with no gluing are written as "-".
func (gp *GluingPerms) WriteTextShort(out io.Writer) {
	gp.pairing.WriteTextShort(out)
	io.WriteString(out, " ;")
	n := gp.Size()
	for f := (pairing.FacetSpec{}); !f.IsPastEnd(n, true); f.Inc() {
		if gp.pairing.IsUnmatched(f) || gp.PermIndex(f) < 0 {
			io.WriteString(out, " -")
		} else {
			io.WriteString(out, " ")
			io.WriteString(out, gp.Perm(f).String())
		}
	}
}

func (gp *GluingPerms) TextShort() string {
	var b strings.Builder
	gp.WriteTextShort(&b)
	return b.String()
}

func (gp *GluingPerms) String() string {
	return gp.TextShort()
}

// Dump writes the pairing line followed by a line of 5n indices.
func (gp *GluingPerms) Dump(out io.Writer) error {
	if err := gp.pairing.Dump(out); err != nil {
		return err
	}
	var b strings.Builder
	for i, idx := range gp.indices {
		if i > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(strconv.Itoa(idx))
	}
	b.WriteByte('\n')
	_, err := io.WriteString(out, b.String())
	return err
}

// Load reads an assignment written by Dump.
func Load(in *textio.Reader) (*GluingPerms, error) {
	fp, err := pairing.Load(in)
	if err != nil {
		return nil, err
	}
	gp := New(fp)
	for i := range gp.indices {
		idx, err := in.IntIn("gluing permutation index", OddSeed, perm.NumPerm4)
		if err != nil {
			return nil, err
		}
		gp.indices[i] = idx
	}
	return gp, nil
}

// ToGluing exports this assignment as a census result.
func (gp *GluingPerms) ToGluing(orientable bool) *go5cell.Gluing {
	g := &go5cell.Gluing{
		NumPentachora: gp.Size(),
		Pairing:       gp.pairing.TextRep(),
		PermIndices:   make([]int, len(gp.indices)),
		Orientable:    orientable,
		Desc:          gp.TextShort(),
	}
	for i, idx := range gp.indices {
		if idx < 0 {
			idx = Unset
		}
		g.PermIndices[i] = idx
	}
	return g
}

// FromGluing rebuilds an assignment from a census result.
func FromGluing(g *go5cell.Gluing) (*GluingPerms, error) {
	fp, err := pairing.FromTextRep(g.Pairing)
	if err != nil {
		return nil, err
	}
	if len(g.PermIndices) != 5*fp.Size() {
		return nil, errors.Wrap(go5cell.ErrInvalidInput, fmt.Sprintf("gluing: expected %d indices, got %d", 5*fp.Size(), len(g.PermIndices)))
	}
	gp := New(fp)
	for i, idx := range g.PermIndices {
		if idx < Unset || idx >= perm.NumPerm4 {
			return nil, errors.Wrapf(go5cell.ErrInvalidInput, "gluing: index %d out of range", idx)
		}
		gp.indices[i] = idx
	}
	return gp, nil
}
