package catalog

import (
	"github.com/2x3systems/go5cell/go5cell"
	"github.com/gogo/protobuf/proto"
	"github.com/pkg/errors"
)

const (
	catalogMajorVers = 2026
	catalogMinorVers = 1
)

// catalogState is stored under gCatalogStateKey.
type catalogState struct {
	MajorVers    uint64
	MinorVers    uint64
	NumGluings   []uint64 // indexed by pentachoron count
	NumFrontiers uint64
}

func (cs *catalogState) Marshal() ([]byte, error) {
	buf := proto.NewBuffer(make([]byte, 0, 16+4*len(cs.NumGluings)))
	buf.EncodeVarint(cs.MajorVers)
	buf.EncodeVarint(cs.MinorVers)
	buf.EncodeVarint(uint64(len(cs.NumGluings)))
	for _, n := range cs.NumGluings {
		buf.EncodeVarint(n)
	}
	if err := buf.EncodeVarint(cs.NumFrontiers); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (cs *catalogState) Unmarshal(val []byte) error {
	buf := proto.NewBuffer(val)
	var err error
	next := func() uint64 {
		if err != nil {
			return 0
		}
		var v uint64
		v, err = buf.DecodeVarint()
		return v
	}

	cs.MajorVers = next()
	cs.MinorVers = next()
	count := next()
	if err == nil && count > go5cell.MaxPentachora+1 {
		return errors.Wrapf(go5cell.ErrUnmarshal, "catalog state holds %d counters", count)
	}
	cs.NumGluings = make([]uint64, count)
	for i := range cs.NumGluings {
		cs.NumGluings[i] = next()
	}
	cs.NumFrontiers = next()
	if err != nil {
		return errors.Wrap(go5cell.ErrUnmarshal, err.Error())
	}
	return nil
}

// appendGluingKey appends the result key for g: pentachoron count, pairing, NUL, then one byte per facet.
func appendGluingKey(key []byte, g *go5cell.Gluing) []byte {
	key = append(key, kResultPrefix, byte(g.NumPentachora))
	key = append(key, g.Pairing...)
	key = append(key, 0)
	for _, idx := range g.PermIndices {
		key = append(key, byte(idx+1))
	}
	return key
}

// marshalGluing writes g as a sequence of varints and length-prefixed strings.
// Perm indices are stored shifted by one so that -1 (boundary) encodes as 0.
func marshalGluing(g *go5cell.Gluing) ([]byte, error) {
	buf := proto.NewBuffer(make([]byte, 0, 64+len(g.Pairing)+len(g.Desc)))
	buf.EncodeVarint(uint64(g.NumPentachora))
	buf.EncodeStringBytes(g.Pairing)
	buf.EncodeVarint(uint64(len(g.PermIndices)))
	for _, idx := range g.PermIndices {
		buf.EncodeVarint(uint64(idx + 1))
	}
	orientable := uint64(0)
	if g.Orientable {
		orientable = 1
	}
	buf.EncodeVarint(orientable)
	if err := buf.EncodeStringBytes(g.Desc); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func unmarshalGluing(val []byte) (*go5cell.Gluing, error) {
	buf := proto.NewBuffer(val)
	g := &go5cell.Gluing{}

	n, err := buf.DecodeVarint()
	if err != nil {
		return nil, errors.Wrap(go5cell.ErrUnmarshal, "pentachoron count")
	}
	g.NumPentachora = int(n)
	if g.Pairing, err = buf.DecodeStringBytes(); err != nil {
		return nil, errors.Wrap(go5cell.ErrUnmarshal, "pairing")
	}
	count, err := buf.DecodeVarint()
	if err != nil || count != uint64(go5cell.FacetsPerSimplex*g.NumPentachora) {
		return nil, errors.Wrap(go5cell.ErrUnmarshal, "perm index count")
	}
	g.PermIndices = make([]int, count)
	for i := range g.PermIndices {
		v, err := buf.DecodeVarint()
		if err != nil {
			return nil, errors.Wrap(go5cell.ErrUnmarshal, "perm index")
		}
		g.PermIndices[i] = int(v) - 1
	}
	orientable, err := buf.DecodeVarint()
	if err != nil {
		return nil, errors.Wrap(go5cell.ErrUnmarshal, "orientable flag")
	}
	g.Orientable = orientable != 0
	if g.Desc, err = buf.DecodeStringBytes(); err != nil {
		return nil, errors.Wrap(go5cell.ErrUnmarshal, "desc")
	}
	return g, nil
}
