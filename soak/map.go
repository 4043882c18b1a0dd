package soak

import (
	"encoding/binary"

	"fixedcap/config"
	"fixedcap/debug"
	"fixedcap/fixedmap"
	"fixedcap/hashfn"
)

// mapHash builds the configured hash.  buckets > 0 folds the result so
// that only a handful of home slots exist and probe chains overlap heavily.
func mapHash(cfg config.MapConfig, seed int64) fixedmap.HashFunc[uint64] {
	var h fixedmap.HashFunc[uint64]
	switch cfg.Hash {
	case config.HashIdentity:
		h = hashfn.Identity[uint64]
	case config.HashKeyed:
		var key [8]byte
		binary.LittleEndian.PutUint64(key[:], uint64(seed))
		k, err := hashfn.NewKeyed(key[:])
		if err != nil {
			debug.DropError("soak: keyed hash, falling back to mix", err)
			h = hashfn.Mix[uint64]
			break
		}
		var buf [8]byte
		h = func(x uint64) uint64 {
			binary.LittleEndian.PutUint64(buf[:], x)
			return k.Bytes(buf[:])
		}
	default:
		h = hashfn.Mix[uint64]
	}
	if cfg.Buckets > 0 {
		inner, b := h, uint64(cfg.Buckets)
		h = func(x uint64) uint64 { return inner(x) % b }
	}
	return h
}

// RunMap checks fixedmap against the built-in map.  Every few hundred ops
// the whole key space is looked up, so a deletion that broke some other
// key's probe chain shows up as a missing key.
func RunMap(cfg *config.Config, seed int64) Result {
	r := newRun(Map, seed)
	mc := cfg.Map
	slots := make([]fixedmap.Slot[uint64, uint64], mc.TableSize)
	defer lockStorage(cfg.LockMemory, Map, slots)()

	m := fixedmap.Over(slots, mapHash(mc, seed))
	model := make(map[uint64]*uint64, mc.TableSize)
	values := make([]uint64, mc.KeySpace*2)
	for i := range values {
		values[i] = uint64(i)
	}

	r.loop(cfg.Ops, func() {
		k := uint64(r.rng.Intn(mc.KeySpace))
		switch r.rng.Intn(8) {
		case 0, 1, 2:
			v := &values[r.rng.Intn(len(values))]
			_, present := model[k]
			fits := present || len(model) < mc.TableSize
			r.expect("Insert ok", m.Insert(k, v), fits)
			if fits {
				model[k] = v
			}
		case 3, 4:
			_, present := model[k]
			r.expect("Remove ok", m.Remove(k), present)
			delete(model, k)
		case 5, 6:
			got, ok := m.Get(k)
			want, present := model[k]
			r.expect("Get ok", ok, present)
			r.expect("Contains", m.Contains(k), present)
			if present {
				r.expect("Get value", got, want)
			}
		case 7:
			if r.step%64 == 7 {
				r.checkMap(m, model, mc.KeySpace)
			}
		}
		r.expect("Len", m.Len(), len(model))
	})
	r.checkMap(m, model, mc.KeySpace)
	return r.finish()
}

func (r *run) checkMap(m *fixedmap.Map[uint64, uint64], model map[uint64]*uint64, keySpace int) {
	for k := uint64(0); k < uint64(keySpace); k++ {
		got, ok := m.Get(k)
		want, present := model[k]
		if ok != present || got != want {
			r.failf("key %d: got (%p, %v), want (%p, %v)", k, got, ok, want, present)
			return
		}
	}
}
