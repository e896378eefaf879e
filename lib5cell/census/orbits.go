package census

import (
	"github.com/2x3systems/go5cell/lib5cell/gluing"
	"github.com/2x3systems/go5cell/lib5cell/pairing"
	"github.com/emirpasic/gods/trees/redblacktree"
)

// ResultKey identifies a gluing across pairings: the pairing's text form, then the gluing's Key.
func ResultKey(gp *gluing.GluingPerms) string {
	return gp.Pairing().TextRep() + "/" + gp.Key()
}

// OrbitKey returns the least ResultKey over the images of gp under autos.
func OrbitKey(gp *gluing.GluingPerms, autos []pairing.Iso) string {
	least := gp.Key()
	for _, iso := range autos {
		if key := gp.ApplyIso(iso).Key(); key < least {
			least = key
		}
	}
	return gp.Pairing().TextRep() + "/" + least
}

// Orbits buckets gluings by orbit, in key order.
type Orbits struct {
	tree *redblacktree.Tree // OrbitKey => member count (int)
}

func NewOrbits() *Orbits {
	return &Orbits{
		tree: redblacktree.NewWithStringComparator(),
	}
}

// Add files gp under its orbit and returns true if the orbit is new.
func (o *Orbits) Add(gp *gluing.GluingPerms, autos []pairing.Iso) bool {
	key := OrbitKey(gp, autos)
	count, found := o.tree.Get(key)
	if !found {
		o.tree.Put(key, 1)
		return true
	}
	o.tree.Put(key, count.(int)+1)
	return false
}

// Len returns the number of orbits seen.
func (o *Orbits) Len() int {
	return o.tree.Size()
}

// Count returns how many gluings were added under the given orbit key.
func (o *Orbits) Count(key string) int {
	count, found := o.tree.Get(key)
	if !found {
		return 0
	}
	return count.(int)
}

// Each calls fn with each orbit key and member count, in key order, until fn returns false.
func (o *Orbits) Each(fn func(key string, count int) bool) {
	itr := o.tree.Iterator()
	for itr.Next() {
		if !fn(itr.Key().(string), itr.Value().(int)) {
			return
		}
	}
}
