package cache

import (
	"fmt"

	"github.com/jonwraymond/tzresolve/class"
	"github.com/jonwraymond/tzresolve/zone"
)

// ComputeFunc produces the value for a name on first use.
type ComputeFunc func() (zone.Zone, class.Class, error)

// ProbeFunc is like ComputeFunc but may report absence (ok=false) instead of
// producing a value. An error is reserved for genuine failures such as data
// corruption, never for "no such zone".
type ProbeFunc func() (z zone.Zone, c class.Class, ok bool, err error)

// Store holds one name table per worker slot.
//
// Contract:
// - Ownership: a worker only ever touches its own table, so no lock guards
//   the hot path. Worker-id assignment upstream must be stable and
//   non-reentrant per table.
// - Reset is the sole mutator of the outer slot vector and must not run
//   concurrently with GetOrCompute or Probe on any worker. This is the one
//   required external synchronization point.
// - Entries are written at most once per (worker, name) and never mutated
//   or removed except by Reset.
type Store struct {
	tables []map[string]entry
}

type entry struct {
	zone   zone.Zone
	class  class.Class
	absent bool
}

// NewStore creates a store with one table slot per worker.
func NewStore(workers int) *Store {
	s := &Store{}
	s.Reset(workers)
	return s
}

// Workers returns the current number of table slots.
func (s *Store) Workers() int { return len(s.tables) }

// table returns the worker's table, creating it lazily. A worker id outside
// the slot vector is an internal-invariant violation: it signals a bug in
// worker-id assignment upstream, not a data problem, so it panics rather
// than returning an error.
func (s *Store) table(worker int) map[string]entry {
	if worker < 0 || worker >= len(s.tables) {
		panic(fmt.Sprintf("cache: worker id %d out of range [0,%d)", worker, len(s.tables)))
	}
	t := s.tables[worker]
	if t == nil {
		t = make(map[string]entry)
		s.tables[worker] = t
	}
	return t
}

// GetOrCompute returns the pair stored under name in the worker's table,
// invoking compute exactly once to fill a miss. A compute failure is
// propagated and nothing is stored. An absent marker left by a prior Probe
// does not satisfy GetOrCompute: compute runs and reports the real failure.
func (s *Store) GetOrCompute(worker int, name string, compute ComputeFunc) (zone.Zone, class.Class, error) {
	t := s.table(worker)
	if e, ok := t[name]; ok && !e.absent {
		return e.zone, e.class, nil
	}
	z, c, err := compute()
	if err != nil {
		return nil, class.None, err
	}
	t[name] = entry{zone: z, class: c}
	return z, c, nil
}

// Probe is GetOrCompute for fallible lookups: when compute reports ok=false
// an absent marker is stored so repeated probes of a missing name stay
// cheap, and Probe returns ok=false. Genuine compute errors propagate and
// are not cached.
func (s *Store) Probe(worker int, name string, compute ProbeFunc) (zone.Zone, class.Class, bool, error) {
	t := s.table(worker)
	if e, ok := t[name]; ok {
		if e.absent {
			return nil, class.None, false, nil
		}
		return e.zone, e.class, true, nil
	}
	z, c, ok, err := compute()
	if err != nil {
		return nil, class.None, false, err
	}
	if !ok {
		t[name] = entry{absent: true}
		return nil, class.None, false, nil
	}
	t[name] = entry{zone: z, class: c}
	return z, c, true, nil
}

// Reset discards every worker's table and resizes the slot vector to
// workers. The caller must ensure no resolution call is in flight on any
// worker; Reset is stop-the-world by contract, not by locking.
func (s *Store) Reset(workers int) {
	if workers < 0 {
		panic(fmt.Sprintf("cache: negative worker count %d", workers))
	}
	s.tables = make([]map[string]entry, workers)
}
