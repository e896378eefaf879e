package catalog

import (
	"encoding/binary"
	"runtime"
	"sync"

	"github.com/2x3systems/go5cell/go5cell"
	"github.com/dgraph-io/badger/v4"
	"github.com/klauspost/compress/zstd"
	"github.com/pkg/errors"
	"github.com/plan-systems/klog"
)

/***

Catalog database format:

	gCatalogStateKey => catalogState (version, per-n result counters, frontier count)

	'r', Np (byte), PairingTextRep, NUL, [5*Np]byte (perm index + 1)   => Gluing record
	...

	'f', FrontierID (uint64, big endian)   => zstd(tagged searcher dump)
	...

Results sort by pentachoron count and then by pairing, so Select can seek straight to the low end of a selector's range.
Frontiers sort by ID, which is the order a split produced them.

***/

var (
	gCatalogStateKey = []byte{0x00, 0x00, 0x01}
)

const (
	kResultPrefix   = 'r'
	kFrontierPrefix = 'f'
)

// catalog is a badger wrapper for census results and pending partial searches.
type catalog struct {
	mu         sync.Mutex
	readOnly   bool
	stateDirty bool
	state      catalogState
	db         *badger.DB
	enc        *zstd.Encoder
	dec        *zstd.Decoder
}

// Open opens (or creates) a catalog.  An empty DbPathName gives an in-memory catalog.
func Open(opts go5cell.CatalogOpts) (go5cell.Catalog, error) {
	cat := &catalog{
		readOnly: opts.ReadOnly,
	}

	dbOpts := badger.DefaultOptions(opts.DbPathName)
	dbOpts.ReadOnly = opts.ReadOnly
	dbOpts.DetectConflicts = false // not needed so disable for performance
	dbOpts.Logger = nil
	dbOpts.MetricsEnabled = false

	// Badger for windows currently does not support read-only mode
	if runtime.GOOS == "windows" {
		dbOpts.ReadOnly = false
	}

	if len(opts.DbPathName) == 0 {
		if opts.ReadOnly {
			return nil, errors.Wrap(go5cell.ErrBadCatalogParam, "DbPathName must be specified for read-only catalog")
		}
		dbOpts.InMemory = true
	}

	var err error
	cat.db, err = badger.Open(dbOpts)
	if err != nil {
		return nil, err
	}

	err = cat.loadState()
	if err == badger.ErrKeyNotFound {
		err = nil
		cat.stateDirty = !cat.readOnly
		cat.state.MajorVers = catalogMajorVers
		cat.state.MinorVers = catalogMinorVers
		cat.state.NumGluings = make([]uint64, go5cell.MaxPentachora+1)
	}

	if err == nil && (cat.state.MajorVers != catalogMajorVers || cat.state.MinorVers != catalogMinorVers) {
		err = errors.Wrapf(go5cell.ErrBadCatalogParam, "catalog version %d.%d is incompatible", cat.state.MajorVers, cat.state.MinorVers)
	}
	for err == nil && len(cat.state.NumGluings) <= go5cell.MaxPentachora {
		cat.state.NumGluings = append(cat.state.NumGluings, 0)
	}
	if err == nil {
		cat.enc, err = zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
	}
	if err == nil {
		cat.dec, err = zstd.NewReader(nil)
	}

	if err != nil {
		cat.Close()
		return nil, err
	}

	klog.V(2).Infof("catalog: opened %q (in-memory=%v, read-only=%v)", opts.DbPathName, dbOpts.InMemory, opts.ReadOnly)
	return cat, nil
}

func (cat *catalog) loadState() error {
	return cat.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(gCatalogStateKey)
		if err == nil {
			err = item.Value(func(val []byte) error {
				return cat.state.Unmarshal(val)
			})
		}
		return err
	})
}

func (cat *catalog) flushState() error {
	if !cat.stateDirty || cat.db == nil {
		return nil
	}
	err := cat.db.Update(func(txn *badger.Txn) error {
		stateBuf, err := cat.state.Marshal()
		if err != nil {
			return err
		}
		return txn.Set(gCatalogStateKey, stateBuf)
	})
	if err == nil {
		cat.stateDirty = false
	}
	return err
}

func (cat *catalog) Close() error {
	cat.mu.Lock()
	defer cat.mu.Unlock()

	err := cat.flushState()
	if cat.db != nil {
		if closeErr := cat.db.Close(); err == nil {
			err = closeErr
		}
		cat.db = nil
	}
	if cat.enc != nil {
		cat.enc.Close()
		cat.enc = nil
	}
	if cat.dec != nil {
		cat.dec.Close()
		cat.dec = nil
	}
	return err
}

func (cat *catalog) IsReadOnly() bool {
	return cat.readOnly
}

func (cat *catalog) NumGluings(numPentachora int) int64 {
	cat.mu.Lock()
	defer cat.mu.Unlock()

	if numPentachora < 0 || numPentachora >= len(cat.state.NumGluings) {
		return 0
	}
	return int64(cat.state.NumGluings[numPentachora])
}

func (cat *catalog) NumFrontiers() int64 {
	cat.mu.Lock()
	defer cat.mu.Unlock()

	return int64(cat.state.NumFrontiers)
}

// TryAddGluing stores g unless an identical gluing is already present.
func (cat *catalog) TryAddGluing(g *go5cell.Gluing) bool {
	if cat.readOnly || g.NumPentachora < 0 || g.NumPentachora > go5cell.MaxPentachora {
		return false
	}

	var keyBuf [256]byte
	key := appendGluingKey(keyBuf[:0], g)
	val, err := marshalGluing(g)
	if err != nil {
		klog.Warningf("catalog: dropping gluing %q: %v", g.Desc, err)
		return false
	}

	cat.mu.Lock()
	defer cat.mu.Unlock()

	added := false
	err = cat.db.Update(func(txn *badger.Txn) error {
		_, err := txn.Get(key)
		if err != badger.ErrKeyNotFound {
			return err
		}
		added = true
		return txn.Set(key, val)
	})
	if err != nil {
		panic(err)
	}

	if added {
		cat.state.NumGluings[g.NumPentachora]++
		cat.stateDirty = true
	}
	return added
}

// Select sends each stored gluing that meets sel to onHit.
// The caller owns each gluing received.
func (cat *catalog) Select(sel go5cell.GluingSelector, onHit go5cell.OnGluingHit) {
	minKey := [2]byte{kResultPrefix, byte(sel.MinPentachora)}

	txn := cat.db.NewTransaction(false)
	defer txn.Discard()

	it := txn.NewIterator(badger.IteratorOptions{
		PrefetchValues: true,
		PrefetchSize:   300,
		Prefix:         minKey[:1],
	})
	defer it.Close()

	for it.Seek(minKey[:]); it.Valid(); it.Next() {
		item := it.Item()

		// Stop when the pentachoron count is over the max
		if sel.MaxPentachora > 0 && int(item.Key()[1]) > sel.MaxPentachora {
			break
		}

		err := item.Value(func(val []byte) error {
			g, err := unmarshalGluing(val)
			if err != nil {
				return err
			}
			if sel.SelectsGluing(g) {
				onHit <- g
			}
			return nil
		})
		if err != nil {
			klog.Errorf("catalog: bad record at %q: %v", item.Key(), err)
		}
	}
}

func frontierKey(id uint64) []byte {
	var key [9]byte
	key[0] = kFrontierPrefix
	binary.BigEndian.PutUint64(key[1:], id)
	return key[:]
}

// PutFrontier stores (or replaces) a tagged searcher dump.
func (cat *catalog) PutFrontier(id uint64, tagged string) error {
	if cat.readOnly {
		return go5cell.ErrCatalogReadOnly
	}

	cat.mu.Lock()
	defer cat.mu.Unlock()

	key := frontierKey(id)
	val := cat.enc.EncodeAll([]byte(tagged), nil)
	isNew := false
	err := cat.db.Update(func(txn *badger.Txn) error {
		_, err := txn.Get(key)
		if err == badger.ErrKeyNotFound {
			isNew = true
		} else if err != nil {
			return err
		}
		return txn.Set(key, val)
	})
	if err != nil {
		return err
	}
	if isNew {
		cat.state.NumFrontiers++
		cat.stateDirty = true
	}
	return nil
}

// Frontiers calls fn with each stored frontier in ID order until fn returns false.
// fn may call DeleteFrontier on the frontier it was given.
func (cat *catalog) Frontiers(fn func(id uint64, tagged string) bool) error {
	type frontier struct {
		id     uint64
		tagged string
	}

	// Decode under a read txn, then hand out the batch so that fn is free to write.
	var batch []frontier
	err := cat.db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.IteratorOptions{
			PrefetchValues: true,
			PrefetchSize:   100,
			Prefix:         []byte{kFrontierPrefix},
		})
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			item := it.Item()
			id := binary.BigEndian.Uint64(item.Key()[1:])
			err := item.Value(func(val []byte) error {
				raw, err := cat.dec.DecodeAll(val, nil)
				if err != nil {
					return errors.Wrapf(go5cell.ErrUnmarshal, "frontier %d: %v", id, err)
				}
				batch = append(batch, frontier{id, string(raw)})
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	for _, f := range batch {
		if !fn(f.id, f.tagged) {
			break
		}
	}
	return nil
}

func (cat *catalog) DeleteFrontier(id uint64) error {
	if cat.readOnly {
		return go5cell.ErrCatalogReadOnly
	}

	cat.mu.Lock()
	defer cat.mu.Unlock()

	key := frontierKey(id)
	found := false
	err := cat.db.Update(func(txn *badger.Txn) error {
		_, err := txn.Get(key)
		if err == badger.ErrKeyNotFound {
			return nil
		} else if err != nil {
			return err
		}
		found = true
		return txn.Delete(key)
	})
	if err == nil && found {
		cat.state.NumFrontiers--
		cat.stateDirty = true
	}
	return err
}
