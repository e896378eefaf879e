// Package py5cell registers the _py5cell gpython module.
package py5cell

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync/atomic"

	"github.com/2x3systems/go5cell/go5cell"
	"github.com/2x3systems/go5cell/lib5cell/catalog"
	"github.com/2x3systems/go5cell/lib5cell/census"
	"github.com/2x3systems/go5cell/lib5cell/gluing"
	"github.com/2x3systems/go5cell/lib5cell/pairing"
	"github.com/2x3systems/go5cell/lib5cell/searcher"
	"github.com/go-python/gpython/py"
)

var (
	LIB_VERSION = "v1.2026.1"
)

var (
	pyGluingStreamType = py.NewType("GluingStream", "go5cell.GluingStream")
	pyCatalogType      = py.NewType("Catalog", "go5cell.Catalog")
)

// Flags for OpenCatalog
const (
	READ_ONLY = 0x01
)

func loadPolicy(bdry int) (go5cell.BoundaryPolicy, error) {
	policy := go5cell.BoundaryPolicy(bdry)
	if policy&go5cell.AnyBoundary == 0 || policy&^go5cell.AnyBoundary != 0 {
		return 0, py.ExceptionNewf(py.ValueError, "boundary must be CLOSED, BOUNDED or ANY (got %d)", bdry)
	}
	return policy, nil
}

// FindPairings(n, bdry[, nBdryFacets]) returns a list of pairings in short text form.
func py_FindPairings(module py.Object, args py.Tuple) (py.Object, error) {
	var n, bdry int
	nBdry := -1
	if err := py.LoadTuple(args, []interface{}{&n, &bdry, &nBdry}); err != nil {
		return nil, err
	}
	policy, err := loadPolicy(bdry)
	if err != nil {
		return nil, err
	}
	if n < 1 || n > go5cell.MaxPentachora {
		return nil, py.ExceptionNewf(py.ValueError, "pentachoron count must be in 1..%d", go5cell.MaxPentachora)
	}

	var items []py.Object
	pairing.FindAllPairings(n, policy, nBdry, func(fp *pairing.FacetPairing, autos []pairing.Iso) bool {
		items = append(items, py.String(fp.TextShort()))
		return true
	})
	return py.NewListFromItems(items), nil
}

// Census(n[, orientable]) returns the number of gluings found over all closed pairings on n pentachora.
func py_Census(module py.Object, args py.Tuple) (py.Object, error) {
	opts, err := loadCensusOpts(args)
	if err != nil {
		return nil, err
	}
	st, err := census.Run(context.Background(), opts, func(*gluing.GluingPerms) bool { return true })
	if err != nil {
		return nil, py.ExceptionNewf(py.ValueError, "%v", err)
	}
	return py.Int(st.Results), nil
}

// CensusStream(n[, orientable]) returns a GluingStream of the same results Census counts.
func py_CensusStream(module py.Object, args py.Tuple) (py.Object, error) {
	opts, err := loadCensusOpts(args)
	if err != nil {
		return nil, err
	}
	return wrapGluingStream(census.Stream(context.Background(), opts)), nil
}

func loadCensusOpts(args py.Tuple) (go5cell.CensusOpts, error) {
	opts := go5cell.DefaultCensusOpts
	if err := py.LoadTuple(args, []interface{}{&opts.NumPentachora, &opts.OrientableOnly}); err != nil {
		return opts, err
	}
	return opts, nil
}

// Search(pairingText[, orientable]) returns every canonical gluing of one pairing, in short text form.
// The pairing may be given in either the short or the long text form.
func py_Search(module py.Object, args py.Tuple) (py.Object, error) {
	var text string
	orientable := false
	if err := py.LoadTuple(args, []interface{}{&text, &orientable}); err != nil {
		return nil, err
	}

	fp, err := pairing.ParseTextShort(text)
	if err != nil {
		var errLong error
		if fp, errLong = pairing.FromTextRep(text); errLong != nil {
			return nil, py.ExceptionNewf(py.ValueError, "%v", err)
		}
	}
	if !fp.IsCanonical() {
		return nil, py.ExceptionNewf(py.ValueError, "pairing %q is not in canonical form", text)
	}

	var items []py.Object
	s := searcher.New(fp, nil, searcher.Opts{OrientableOnly: orientable})
	s.Run(-1, func(s *searcher.Searcher) {
		items = append(items, py.String(s.Perms().TextShort()))
	})
	return py.NewListFromItems(items), nil
}

// OpenCatalog(pathname, flags) opens a catalog; an empty pathname gives an in-memory catalog.
func py_OpenCatalog(module py.Object, args py.Tuple) (py.Object, error) {
	var pathname string
	var flags int32
	if err := py.LoadTuple(args, []interface{}{&pathname, &flags}); err != nil {
		return nil, err
	}

	opts := go5cell.CatalogOpts{
		ReadOnly:   (flags & READ_ONLY) != 0,
		DbPathName: pathname,
	}
	cat, err := catalog.Open(opts)
	if err != nil {
		return nil, py.ExceptionNewf(py.RuntimeError, "%v", err)
	}
	return py.Object(pyCatalog{cat}), nil
}

type pyCatalog struct {
	go5cell.Catalog
}

func (cat pyCatalog) Type() *py.Type {
	return pyCatalogType
}

func py_Catalog_Close(self py.Object, args py.Tuple) (py.Object, error) {
	cat := self.(pyCatalog)
	if cat.Catalog != nil {
		cat.Close()
	}
	return py.None, nil
}

func getGluingSelector(args py.Tuple, sel *go5cell.GluingSelector) error {
	return py.LoadTuple(args, []interface{}{&sel.MinPentachora, &sel.MaxPentachora, &sel.OrientableOnly})
}

// Select([minPent, maxPent, orientable]) streams stored gluings.
func py_Catalog_Select(self py.Object, args py.Tuple) (py.Object, error) {
	cat := self.(pyCatalog)
	sel := go5cell.DefaultGluingSelector
	if err := getGluingSelector(args, &sel); err != nil {
		return nil, err
	}
	return wrapGluingStream(go5cell.SelectFromCatalog(cat, sel)), nil
}

func py_Catalog_NumGluings(self py.Object, args py.Tuple) (py.Object, error) {
	cat := self.(pyCatalog)
	n, err := py.GetInt(args[0])
	if err != nil {
		return nil, err
	}
	return py.Int(cat.NumGluings(int(n))), nil
}

type gluingStream struct {
	*go5cell.GluingStream
}

func (stream gluingStream) Type() *py.Type {
	return pyGluingStreamType
}

func wrapGluingStream(stream *go5cell.GluingStream) py.Object {
	return py.Object(gluingStream{stream})
}

func py_GluingStream_Go(self py.Object, args py.Tuple) (py.Object, error) {
	stream := self.(gluingStream)
	count := stream.PullAll()
	return py.Int(count), nil
}

func py_GluingStream_AddTo(self py.Object, args py.Tuple) (py.Object, error) {
	stream := self.(gluingStream)
	cat, ok := args[0].(pyCatalog)
	if !ok {
		return nil, py.ExceptionNewf(py.TypeError, "expected Catalog object (got %v)", args[0].Type().Name)
	}
	if cat.IsReadOnly() {
		return nil, py.ExceptionNewf(py.PermissionError, "%v", go5cell.ErrCatalogReadOnly)
	}
	return wrapGluingStream(stream.AddTo(cat)), nil
}

func py_GluingStream_Select(self py.Object, args py.Tuple) (py.Object, error) {
	stream := self.(gluingStream)
	sel := go5cell.DefaultGluingSelector
	if err := getGluingSelector(args, &sel); err != nil {
		return nil, err
	}
	return wrapGluingStream(stream.Select(sel)), nil
}

type echoToWriter struct {
	stdout *os.File
	to     io.WriteCloser
}

func (echo *echoToWriter) Write(buf []byte) (int, error) {
	if echo.to == nil {
		return echo.stdout.Write(buf)
	}
	return echo.to.Write(buf)
}

func (echo *echoToWriter) Close() error {
	if echo.to != nil {
		return echo.to.Close()
	}
	return nil
}

var gOutCount = int32(0)

// Print([label], pairing=, indices=, desc=, file=) prints each gluing passing through.
func py_GluingStream_Print(self py.Object, args py.Tuple, kwargs py.StringDict) (py.Object, error) {
	stream := self.(gluingStream)

	var pathname string
	opts := go5cell.DefaultPrintOpts
	py.LoadTuple(args, []interface{}{&opts.Label})
	if opts.Label == "" {
		py.LoadAttr(kwargs, "label", &opts.Label)
	}

	count := atomic.AddInt32(&gOutCount, 1)
	if opts.Label == "" {
		opts.Label = fmt.Sprintf("out[%d]", count)
	}

	py.LoadAttr(kwargs, "pairing", &opts.Pairing)
	py.LoadAttr(kwargs, "indices", &opts.Indices)
	py.LoadAttr(kwargs, "desc", &opts.Desc)
	py.LoadAttr(kwargs, "file", &pathname)

	writer := &echoToWriter{
		stdout: os.Stdout,
	}
	if len(pathname) > 0 {
		os.MkdirAll(filepath.Dir(pathname), 0700)
		file, err := os.OpenFile(pathname, os.O_TRUNC|os.O_WRONLY|os.O_CREATE, 0600)
		if err != nil {
			return nil, py.ExceptionNewf(py.FileNotFoundError, "%v", err)
		}
		writer.to = file
	}

	return wrapGluingStream(stream.Print(writer, opts)), nil
}

func init() {

	/////////////////////////////////
	// Catalog
	{
		pyCatalogType.Dict["Select"] = py.MustNewMethod("Select", py_Catalog_Select, 0, "streams stored gluings meeting (minPent, maxPent, orientable)")
		pyCatalogType.Dict["NumGluings"] = py.MustNewMethod("NumGluings", py_Catalog_NumGluings, 0, "")
		pyCatalogType.Dict["Close"] = py.MustNewMethod("Close", py_Catalog_Close, 0, "")
	}

	/////////////////////////////////
	// GluingStream
	{
		pyGluingStreamType.Dict["Go"] = py.MustNewMethod("Go", py_GluingStream_Go, 0, "counts the number of gluings output from the GluingStream")
		pyGluingStreamType.Dict["Print"] = py.MustNewMethod("Print", py_GluingStream_Print, 0, "prints each gluing from the GluingStream")
		pyGluingStreamType.Dict["AddTo"] = py.MustNewMethod("AddTo", py_GluingStream_AddTo, 0, "")
		pyGluingStreamType.Dict["Select"] = py.MustNewMethod("Select", py_GluingStream_Select, 0, "")
	}

	{
		methods := []*py.Method{
			py.MustNewMethod("FindPairings", py_FindPairings, 0, "FindPairings(n, bdry[, nBdryFacets]) lists canonical facet pairings"),
			py.MustNewMethod("Census", py_Census, 0, "Census(n[, orientable]) counts the gluings over closed pairings"),
			py.MustNewMethod("CensusStream", py_CensusStream, 0, ""),
			py.MustNewMethod("Search", py_Search, 0, "Search(pairing[, orientable]) lists the gluings of one pairing"),
			py.MustNewMethod("OpenCatalog", py_OpenCatalog, 0, ""),
		}

		globals := py.StringDict{
			"LIB_VERSION":    py.String(LIB_VERSION),
			"MAX_PENTACHORA": py.Int(go5cell.MaxPentachora),
			"CLOSED":         py.Int(go5cell.ClosedOnly),
			"BOUNDED":        py.Int(go5cell.BoundedOnly),
			"ANY":            py.Int(go5cell.AnyBoundary),
			"READ_ONLY":      py.Int(READ_ONLY),
		}

		py.RegisterModule(&py.ModuleImpl{
			Info: py.ModuleInfo{
				Name: "_py5cell",
				Doc:  "4D census gpython module",
			},
			Methods: methods,
			Globals: globals,
		})
	}
}

