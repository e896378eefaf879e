package pairing

import (
	"fmt"

	"github.com/2x3systems/go5cell/go5cell"
	"github.com/alecthomas/participle/v2"
	"github.com/pkg/errors"
)

// PairingExpr is the short human-readable form of a pairing, e.g. "0:1 0:0 1:0 bdry bdry | 0:2 ...".
type PairingExpr struct {
	Simplices []*SimplexExpr `parser:"@@ (\"|\" @@)*"`
}

// SimplexExpr lists the destinations of the five facets of one pentachoron.
type SimplexExpr struct {
	Dests []*DestExpr `parser:"@@*"`
}

type DestExpr struct {
	Bdry  bool       `parser:"(  @\"bdry\""`
	Facet *FacetExpr `parser:" | @@ )"`
}

type FacetExpr struct {
	Simp  int `parser:"@Int \":\""`
	Facet int `parser:"@Int"`
}

var parsePairingExpr = participle.MustBuild[PairingExpr]()

// ParseTextShort reads the form written by WriteTextShort.
func ParseTextShort(text string) (*FacetPairing, error) {
	expr, err := parsePairingExpr.ParseString("", text)
	if err != nil {
		return nil, errors.Wrap(go5cell.ErrInvalidInput, err.Error())
	}

	n := len(expr.Simplices)
	fp := NewFacetPairing(n)
	for simp, sx := range expr.Simplices {
		if len(sx.Dests) != 5 {
			return nil, errors.Wrap(go5cell.ErrInvalidInput, fmt.Sprintf("pentachoron %d: expected 5 facets, got %d", simp, len(sx.Dests)))
		}
		for facet, dx := range sx.Dests {
			if dx.Bdry {
				continue
			}
			d := FacetSpec{dx.Facet.Simp, dx.Facet.Facet}
			if d.Simp < 0 || d.Simp >= n || d.Facet < 0 || d.Facet > 4 {
				return nil, errors.Wrapf(go5cell.ErrInvalidInput, "pentachoron %d facet %d: destination %v out of range", simp, facet, d)
			}
			fp.pairs[5*simp+facet] = d
		}
	}

	if err := fp.Validate(); err != nil {
		return nil, errors.Wrap(go5cell.ErrInvalidInput, err.Error())
	}
	return fp, nil
}
