package go5cell

import (
	"io"
	"time"
)

const (
	// MaxPentachora bounds the pentachoron count a census accepts.
	MaxPentachora = 12

	// FacetsPerSimplex is the number of facets of a pentachoron.
	FacetsPerSimplex = 5
)

// BoundaryPolicy selects which facet pairings a census visits.
type BoundaryPolicy int32

const (
	ClosedOnly  BoundaryPolicy = 1 << iota // pairings with every facet matched
	BoundedOnly                            // pairings with at least one boundary facet

	AnyBoundary = ClosedOnly | BoundedOnly
)

func (bp BoundaryPolicy) AllowsClosed() bool {
	return bp&ClosedOnly != 0
}

func (bp BoundaryPolicy) AllowsBounded() bool {
	return bp&BoundedOnly != 0
}

func (bp BoundaryPolicy) String() string {
	switch bp {
	case ClosedOnly:
		return "closed"
	case BoundedOnly:
		return "bounded"
	case AnyBoundary:
		return "any"
	}
	return "none"
}

// CensusOpts specifies a census run.
type CensusOpts struct {
	NumPentachora  int            // number of pentachora in each triangulation
	Boundary       BoundaryPolicy // which pairings to visit
	NumBdryFacets  int            // exact number of boundary facets, or -1 for any
	OrientableOnly bool           // only emit orientable triangulations
	FiniteOnly     bool           // stored with each search; does not prune
	SplitDepth     int            // partial-search depth used to form frontiers (0 disables splitting)
	Workers        int            // number of goroutines consuming frontiers
	CatalogPath    string         // omit for an in-memory catalog
}

// DefaultCensusOpts{}
var DefaultCensusOpts = CensusOpts{
	NumPentachora: 2,
	Boundary:      ClosedOnly,
	NumBdryFacets: -1,
	Workers:       1,
}

// CensusStats summarises a finished (or cancelled) census.
type CensusStats struct {
	Pairings  int64         // facet pairings visited
	Frontiers int64         // partial-search states produced
	Results   int64         // gluings emitted
	Elapsed   time.Duration // wall time
}

// Gluing is a single census result: a facet pairing together with a gluing permutation on every matched facet.
type Gluing struct {
	NumPentachora int    // pentachoron count
	Pairing       string // facet pairing text representation
	PermIndices   []int  // S4 index per facet (5 per pentachoron), -1 on boundary facets
	Orientable    bool   // set if produced by an orientable-only search
	Desc          string // human readable form, filled in by the producer
}

// Clone returns a deep copy of g.
func (g *Gluing) Clone() *Gluing {
	dup := *g
	dup.PermIndices = append([]int(nil), g.PermIndices...)
	return &dup
}

// OnGluingHit is a callback channel used to return Gluings meeting a set of selection criteria.
// Ownership of a Gluing also travels through the channel.
type OnGluingHit chan<- *Gluing

// GluingSelector is an operator that either selects a given Gluing or not.
type GluingSelector struct {
	MinPentachora  int  // lower bound on pentachoron count (0 for none)
	MaxPentachora  int  // upper bound on pentachoron count (0 for none)
	OrientableOnly bool // only select gluings from orientable-only searches
}

// DefaultGluingSelector selects everything.
var DefaultGluingSelector = GluingSelector{}

func (sel GluingSelector) SelectsGluing(g *Gluing) bool {
	if sel.MinPentachora > 0 && g.NumPentachora < sel.MinPentachora {
		return false
	}
	if sel.MaxPentachora > 0 && g.NumPentachora > sel.MaxPentachora {
		return false
	}
	if sel.OrientableOnly && !g.Orientable {
		return false
	}
	return true
}

// PrintOpts specifies what is printed for each gluing
type PrintOpts struct {
	Label   string // Prefix label
	Pairing bool   // If set, prints the facet pairing text representation
	Indices bool   // If set, prints the raw S4 permutation indices
	Desc    bool   // If set, prints the human readable form
}

// DefaultPrintOpts{}
var DefaultPrintOpts = PrintOpts{
	Desc: true,
}

type GluingAdder interface {

	// Tries to add the given gluing to this catalog.
	// If true is returned, g did not exist and was added.
	TryAddGluing(g *Gluing) bool
}

// CatalogOpts specifies params for opening a Catalog
type CatalogOpts struct {
	DbPathName string // omit for in-memory db
	ReadOnly   bool   // open in read-only mode
}

// Catalog wraps a database of census results and pending partial searches.
type Catalog interface {
	GluingAdder

	// Returns true if this catalog was opened for read-only access.
	IsReadOnly() bool

	// NumGluings returns the number of stored gluings for a given pentachoron count.
	NumGluings(numPentachora int) int64

	// Select fires the given callback with each stored Gluing that meets the selection criteria.
	Select(sel GluingSelector, onHit OnGluingHit)

	// PutFrontier stores a tagged partial-search dump under the given ID.
	PutFrontier(id uint64, tagged string) error

	// Frontiers calls fn with each stored frontier in ID order until fn returns false.
	Frontiers(fn func(id uint64, tagged string) bool) error

	// DeleteFrontier removes a frontier once it has been searched.
	DeleteFrontier(id uint64) error

	// NumFrontiers returns the number of frontiers currently stored.
	NumFrontiers() int64

	io.Closer
}
