package pairing

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/2x3systems/go5cell/go5cell"
	"github.com/2x3systems/go5cell/lib5cell/textio"
	"github.com/pkg/errors"
)

// FacetPairing is a symmetric, fixed-point-free partial matching on the 5n facets of n pentachora.
// Unmatched facets are paired with the boundary marker (n, 0).
type FacetPairing struct {
	size  int
	pairs []FacetSpec
}

// NewFacetPairing returns a pairing on n pentachora with every facet on the boundary.
func NewFacetPairing(n int) *FacetPairing {
	fp := &FacetPairing{
		size:  n,
		pairs: make([]FacetSpec, 5*n),
	}
	for i := range fp.pairs {
		fp.pairs[i].SetBoundary(n)
	}
	return fp
}

// Size returns the number of pentachora.
func (fp *FacetPairing) Size() int {
	return fp.size
}

// Dest returns the facet that f is glued to, or the boundary marker.
func (fp *FacetPairing) Dest(f FacetSpec) FacetSpec {
	return fp.pairs[5*f.Simp+f.Facet]
}

func (fp *FacetPairing) DestOf(simp, facet int) FacetSpec {
	return fp.pairs[5*simp+facet]
}

func (fp *FacetPairing) destRef(f FacetSpec) *FacetSpec {
	return &fp.pairs[5*f.Simp+f.Facet]
}

// IsUnmatched returns true if f is glued to the boundary.
func (fp *FacetPairing) IsUnmatched(f FacetSpec) bool {
	return fp.Dest(f).IsBoundary(fp.size)
}

// IsBoundary is an alias of IsUnmatched.
func (fp *FacetPairing) IsBoundary(f FacetSpec) bool {
	return fp.IsUnmatched(f)
}

// noDest is true while f has not yet been assigned a destination during enumeration.
func (fp *FacetPairing) noDest(f FacetSpec) bool {
	return fp.Dest(f) == f
}

// Match glues f and g to each other.
func (fp *FacetPairing) Match(f, g FacetSpec) {
	*fp.destRef(f) = g
	*fp.destRef(g) = f
}

// Unmatch sends f (and its current partner, if any) to the boundary.
func (fp *FacetPairing) Unmatch(f FacetSpec) {
	if g := fp.Dest(f); !g.IsBoundary(fp.size) {
		fp.destRef(g).SetBoundary(fp.size)
	}
	fp.destRef(f).SetBoundary(fp.size)
}

// IsClosed returns true if no facet is on the boundary.
func (fp *FacetPairing) IsClosed() bool {
	return fp.NumBoundaryFacets() == 0
}

func (fp *FacetPairing) NumBoundaryFacets() int {
	count := 0
	for _, d := range fp.pairs {
		if d.IsBoundary(fp.size) {
			count++
		}
	}
	return count
}

// IsConnected returns true if the dual graph of the pairing is connected.
func (fp *FacetPairing) IsConnected() bool {
	if fp.size == 0 {
		return true
	}
	seen := make([]bool, fp.size)
	stack := []int{0}
	seen[0] = true
	count := 1
	for len(stack) > 0 {
		simp := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		for facet := 0; facet < 5; facet++ {
			d := fp.DestOf(simp, facet)
			if !d.IsBoundary(fp.size) && !seen[d.Simp] {
				seen[d.Simp] = true
				count++
				stack = append(stack, d.Simp)
			}
		}
	}
	return count == fp.size
}

func (fp *FacetPairing) Equal(other *FacetPairing) bool {
	if fp.size != other.size {
		return false
	}
	for i := range fp.pairs {
		if fp.pairs[i] != other.pairs[i] {
			return false
		}
	}
	return true
}

func (fp *FacetPairing) Clone() *FacetPairing {
	return &FacetPairing{
		size:  fp.size,
		pairs: append([]FacetSpec(nil), fp.pairs...),
	}
}

// Validate checks that the pairing is symmetric and that every entry is in range.
func (fp *FacetPairing) Validate() error {
	n := fp.size
	for f := (FacetSpec{0, 0}); !f.IsPastEnd(n, true); f.Inc() {
		d := fp.Dest(f)
		switch {
		case d.Simp < 0 || d.Simp > n || d.Facet < 0 || d.Facet > 4:
			return errors.Wrapf(go5cell.ErrBadPairing, "facet %v: destination %v out of range", f, d)
		case d.Simp == n && d.Facet != 0:
			return errors.Wrapf(go5cell.ErrBadPairing, "facet %v: destination %v out of range", f, d)
		case d == f:
			return errors.Wrapf(go5cell.ErrBadPairing, "facet %v is glued to itself", f)
		case d.Simp < n && fp.Dest(d) != f:
			return errors.Wrapf(go5cell.ErrBadPairing, "facet %v: mismatched facet pairings", f)
		}
	}
	return nil
}

// TextRep returns the machine-readable form: "simp facet" for every facet in order.
func (fp *FacetPairing) TextRep() string {
	var b strings.Builder
	for i, d := range fp.pairs {
		if i > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(strconv.Itoa(d.Simp))
		b.WriteByte(' ')
		b.WriteString(strconv.Itoa(d.Facet))
	}
	return b.String()
}

// FromTextRep parses the form written by TextRep.
func FromTextRep(rep string) (*FacetPairing, error) {
	tokens := strings.Fields(rep)
	if len(tokens) == 0 || len(tokens)%10 != 0 {
		return nil, errors.Wrap(go5cell.ErrInvalidInput, "facet pairing: invalid number of tokens")
	}

	n := len(tokens) / 10
	fp := &FacetPairing{
		size:  n,
		pairs: make([]FacetSpec, 5*n),
	}
	for i := range fp.pairs {
		simp, err := strconv.Atoi(tokens[2*i])
		if err != nil {
			return nil, errors.Wrap(go5cell.ErrInvalidInput, "facet pairing: contains non-integer simplex")
		}
		if simp < 0 || simp > n {
			return nil, errors.Wrap(go5cell.ErrInvalidInput, "facet pairing: simplex out of range")
		}
		facet, err := strconv.Atoi(tokens[2*i+1])
		if err != nil {
			return nil, errors.Wrap(go5cell.ErrInvalidInput, "facet pairing: contains non-integer facet")
		}
		if facet < 0 || facet > 4 {
			return nil, errors.Wrap(go5cell.ErrInvalidInput, "facet pairing: facet out of range")
		}
		fp.pairs[i] = FacetSpec{simp, facet}
	}

	if err := fp.Validate(); err != nil {
		return nil, errors.Wrap(go5cell.ErrInvalidInput, err.Error())
	}
	return fp, nil
}

// WriteTextShort writes the human-readable form, e.g. "0:1 0:0 1:0 bdry bdry | 0:2 ...".
func (fp *FacetPairing) WriteTextShort(out io.Writer) {
	var b strings.Builder
	for f := (FacetSpec{0, 0}); !f.IsPastEnd(fp.size, true); f.Inc() {
		if f.Facet == 0 && f.Simp > 0 {
			b.WriteString(" | ")
		} else if f.Simp > 0 || f.Facet > 0 {
			b.WriteByte(' ')
		}
		d := fp.Dest(f)
		if d.IsBoundary(fp.size) {
			b.WriteString("bdry")
		} else {
			fmt.Fprintf(&b, "%d:%d", d.Simp, d.Facet)
		}
	}
	io.WriteString(out, b.String())
}

// TextShort returns the form written by WriteTextShort.
func (fp *FacetPairing) TextShort() string {
	var b strings.Builder
	fp.WriteTextShort(&b)
	return b.String()
}

func (fp *FacetPairing) String() string {
	return fp.TextShort()
}

// Dump writes the text representation followed by a newline.
func (fp *FacetPairing) Dump(out io.Writer) error {
	_, err := io.WriteString(out, fp.TextRep()+"\n")
	return err
}

// Load reads a pairing written by Dump, skipping any leading blank lines.
func Load(in *textio.Reader) (*FacetPairing, error) {
	line, err := in.NonEmptyLine()
	if err != nil {
		return nil, errors.Wrap(go5cell.ErrInvalidInput, "unexpected end of input while reading a facet pairing")
	}
	return FromTextRep(line)
}
