package searcher

import (
	"bufio"
	"io"
	"strconv"
	"strings"

	"github.com/2x3systems/go5cell/go5cell"
	"github.com/2x3systems/go5cell/lib5cell/gluing"
	"github.com/2x3systems/go5cell/lib5cell/pairing"
	"github.com/2x3systems/go5cell/lib5cell/perm"
	"github.com/2x3systems/go5cell/lib5cell/textio"
	"github.com/pkg/errors"
)

// DataTag marks a tagged dump of this searcher type.
const DataTag = 'g'

type lineWriter struct {
	bw  *bufio.Writer
	buf []byte
}

func (w *lineWriter) ints(vals ...int) {
	for i, v := range vals {
		if i > 0 {
			w.buf = append(w.buf, ' ')
		}
		w.buf = strconv.AppendInt(w.buf, int64(v), 10)
	}
	w.buf = append(w.buf, '\n')
	w.bw.Write(w.buf)
	w.buf = w.buf[:0]
}

func flag(set bool, c byte) byte {
	if set {
		return c
	}
	return '.'
}

// Dump writes the complete search state in the line-oriented text form read by Load.
//
// The change logs are written at their historical lengths of 25n and 25n/2 entries,
// padded with -1, so that dumps stay readable by older tools.
func (s *Searcher) Dump(out io.Writer) error {
	if err := s.perms.Dump(out); err != nil {
		return err
	}

	bw := bufio.NewWriter(out)
	w := &lineWriter{bw: bw}
	n := s.perms.Size()

	bw.Write([]byte{
		flag(s.opts.OrientableOnly, 'o'),
		flag(s.opts.FiniteOnly, 'f'),
		flag(s.started, 's'),
		'\n',
	})

	w.ints(s.orientation...)

	w.ints(s.orderElt, len(s.order))
	order := make([]int, 0, 2*len(s.order))
	for _, f := range s.order {
		order = append(order, f.Simp, f.Facet)
	}
	w.ints(order...)

	w.ints(s.nEdgeClasses)
	for i := range s.edgeState {
		es := &s.edgeState[i]
		w.ints(es.parent, es.rank, es.bdry,
			int(es.twistUpEdge), int(es.twistUpTriangle), boolInt(es.hadEqualRank),
			int(es.bdryEdges),
			es.bdryNext[0], es.bdryNext[1],
			int(es.bdryTwist[0]), int(es.bdryTwist[1]),
			es.bdryNextOld[0], es.bdryNextOld[1],
			int(es.bdryTwistOld[0]), int(es.bdryTwistOld[1]))
	}
	w.ints(padLog(s.edgeStateChanged, 25*n)...)

	w.ints(s.nTriangleClasses)
	for i := range s.triState {
		ts := &s.triState[i]
		w.ints(ts.parent, ts.rank, ts.size, boolInt(ts.bounded), ts.twistUp.Code(), boolInt(ts.hadEqualRank))
	}
	w.ints(padLog(s.triStateChanged, 25*n/2)...)

	return bw.Flush()
}

// DumpTagged writes DataTag on its own line followed by Dump.
func (s *Searcher) DumpTagged(out io.Writer) error {
	if _, err := io.WriteString(out, string(rune(DataTag))+"\n"); err != nil {
		return err
	}
	return s.Dump(out)
}

// TaggedData returns the output of DumpTagged as a string.
func (s *Searcher) TaggedData() string {
	var b strings.Builder
	s.DumpTagged(&b)
	return b.String()
}

func padLog(log []int, size int) []int {
	if len(log) >= size {
		return log
	}
	padded := make([]int, size)
	copy(padded, log)
	for i := len(log); i < size; i++ {
		padded[i] = -1
	}
	return padded
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

// LoadTagged reads the output of DumpTagged.
func LoadTagged(in io.Reader, autos []pairing.Iso) (*Searcher, error) {
	r := textio.NewReader(in)
	c, err := r.Char("class marker")
	if err != nil {
		return nil, errors.Wrap(go5cell.ErrInvalidInput, "missing class marker")
	}
	if c != DataTag {
		return nil, errors.Wrapf(go5cell.ErrInvalidInput, "invalid class marker %q", c)
	}
	return load(r, autos)
}

// Load reads a searcher written by Dump.  If autos is nil, the full automorphism group of the pairing is used.
// The result always has Oracle and Verify off.
func Load(in io.Reader, autos []pairing.Iso) (*Searcher, error) {
	return load(textio.NewReader(in), autos)
}

func load(r *textio.Reader, autos []pairing.Iso) (*Searcher, error) {
	gp, err := gluing.Load(r)
	if err != nil {
		return nil, err
	}
	fp := gp.Pairing()
	n := fp.Size()
	nSlots := 10 * n

	s := &Searcher{
		perms: gp,
		autos: autos,
	}
	if s.autos == nil {
		s.autos = fp.FindAutomorphisms()
	}

	flags := [3]struct {
		name string
		set  byte
		dst  *bool
	}{
		{"orientability tag", 'o', &s.opts.OrientableOnly},
		{"finiteness tag", 'f', &s.opts.FiniteOnly},
		{"started tag", 's', &s.started},
	}
	for _, fl := range flags {
		c, err := r.Char(fl.name)
		if err != nil {
			return nil, err
		}
		switch c {
		case fl.set:
			*fl.dst = true
		case '.':
		default:
			return nil, errors.Wrapf(go5cell.ErrInvalidInput, "invalid %s %q", fl.name, c)
		}
	}

	s.orientation = make([]int, n)
	for i := range s.orientation {
		if s.orientation[i], err = r.IntIn("orientation", -1, 2); err != nil {
			return nil, err
		}
	}

	if s.orderElt, err = r.Int("order position"); err != nil {
		return nil, err
	}
	orderSize, err := r.IntIn("order size", 0, 5*n/2+1)
	if err != nil {
		return nil, err
	}
	if s.orderElt < -1 || s.orderElt > orderSize {
		return nil, errors.Wrapf(go5cell.ErrInvalidInput, "order position out of range: %d", s.orderElt)
	}
	s.order = make([]pairing.FacetSpec, orderSize)
	for i := range s.order {
		if s.order[i].Simp, err = r.IntIn("order facet simplex", 0, n); err != nil {
			return nil, err
		}
		if s.order[i].Facet, err = r.IntIn("order facet", 0, 5); err != nil {
			return nil, err
		}
	}
	if err = checkOrder(fp, s.order); err != nil {
		return nil, err
	}
	m := orderSize

	if s.nEdgeClasses, err = r.IntIn("edge classes", 0, nSlots+1); err != nil {
		return nil, err
	}
	s.edgeState = make([]edgeState, nSlots)
	for i := range s.edgeState {
		if err = readEdgeState(r, &s.edgeState[i], nSlots); err != nil {
			return nil, err
		}
	}
	if s.edgeStateChanged, err = readLog(r, "edge state changed", 10*m, 25*n, nSlots); err != nil {
		return nil, err
	}

	if s.nTriangleClasses, err = r.IntIn("triangle classes", 0, nSlots+1); err != nil {
		return nil, err
	}
	s.triState = make([]triState, nSlots)
	for i := range s.triState {
		if err = readTriState(r, &s.triState[i], nSlots); err != nil {
			return nil, err
		}
	}
	if s.triStateChanged, err = readLog(r, "triangle state changed", 5*m, 25*n/2, nSlots); err != nil {
		return nil, err
	}

	return s, nil
}

// checkOrder verifies that order names each matched pair of fp exactly once.
func checkOrder(fp *pairing.FacetPairing, order []pairing.FacetSpec) error {
	seen := make([]bool, 5*fp.Size())
	pairs := 0
	for f := (pairing.FacetSpec{}); !f.IsPastEnd(fp.Size(), true); f.Inc() {
		if !fp.IsUnmatched(f) && f.Less(fp.Dest(f)) {
			pairs++
		}
	}
	if len(order) != pairs {
		return errors.Wrapf(go5cell.ErrInvalidInput, "order lists %d pairs but the pairing has %d", len(order), pairs)
	}
	for _, f := range order {
		if f.Simp < 0 || f.Simp >= fp.Size() || f.Facet < 0 || f.Facet > 4 || fp.IsUnmatched(f) {
			return errors.Wrapf(go5cell.ErrInvalidInput, "order facet %v is not matched", f)
		}
		if seen[f.Index()] {
			return errors.Wrapf(go5cell.ErrInvalidInput, "order lists the pair at %v twice", f)
		}
		seen[f.Index()] = true
		seen[fp.Dest(f).Index()] = true
	}
	return nil
}

func readEdgeState(r *textio.Reader, es *edgeState, nSlots int) error {
	var err error
	var v int
	read := func(field string, lo, hi int) int {
		if err != nil {
			return 0
		}
		v, err = r.IntIn(field, lo, hi)
		return v
	}
	es.parent = read("edge state parent", -1, nSlots)
	es.rank = read("edge state rank", 0, nSlots)
	es.bdry = read("edge state bdry", 0, 3*nSlots+1)
	es.twistUpEdge = uint8(read("edge state twistUpEdge", 0, 2))
	es.twistUpTriangle = uint8(read("edge state twistUpTriangle", 0, 2))
	es.hadEqualRank = read("edge state hadEqualRank", 0, 2) == 1
	es.bdryEdges = uint8(read("edge state bdryEdges", 0, 4))
	es.bdryNext[0] = read("edge state bdryNext", 0, nSlots)
	es.bdryNext[1] = read("edge state bdryNext", 0, nSlots)
	es.bdryTwist[0] = uint8(read("edge state bdryTwist", 0, 2))
	es.bdryTwist[1] = uint8(read("edge state bdryTwist", 0, 2))
	es.bdryNextOld[0] = read("edge state bdryNextOld", -1, nSlots)
	es.bdryNextOld[1] = read("edge state bdryNextOld", -1, nSlots)
	es.bdryTwistOld[0] = uint8(read("edge state bdryTwistOld", 0, 2))
	es.bdryTwistOld[1] = uint8(read("edge state bdryTwistOld", 0, 2))
	return err
}

func readTriState(r *textio.Reader, ts *triState, nSlots int) error {
	var err error
	var v int
	read := func(field string, lo, hi int) int {
		if err != nil {
			return 0
		}
		v, err = r.IntIn(field, lo, hi)
		return v
	}
	ts.parent = read("triangle state parent", -1, nSlots)
	ts.rank = read("triangle state rank", 0, nSlots)
	ts.size = read("triangle state size", 1, nSlots+1)
	ts.bounded = read("triangle state bounded", 0, 2) == 1
	ts.twistUp = perm.Perm3FromCode(read("triangle state twistUp", 0, perm.NumPerm3))
	ts.hadEqualRank = read("triangle state hadEqualRank", 0, 2) == 1
	return err
}

// readLog reads a change log from its own line.  Both the tight length and the
// historical padded length are accepted; entries past the tight length must be -1.
func readLog(r *textio.Reader, field string, tight, padded, nSlots int) ([]int, error) {
	vals, err := r.LineInts(field)
	if err != nil {
		return nil, err
	}
	if len(vals) != tight && len(vals) != padded {
		return nil, errors.Wrapf(go5cell.ErrInvalidInput, "%s: expected %d or %d entries, got %d", field, tight, padded, len(vals))
	}
	for i, v := range vals {
		if v < -1 || v >= nSlots {
			return nil, errors.Wrapf(go5cell.ErrInvalidInput, "%s out of range: %d", field, v)
		}
		if i >= tight && v != -1 {
			return nil, errors.Wrapf(go5cell.ErrInvalidInput, "%s: entry %d beyond the search depth is set", field, i)
		}
	}
	return vals[:tight], nil
}
