package cache

import (
	"fmt"
	"testing"
	"time"

	"github.com/jonwraymond/tzresolve/class"
	"github.com/jonwraymond/tzresolve/zone"
)

// BenchmarkGetOrCompute_Hit measures the lock-free hot path.
func BenchmarkGetOrCompute_Hit(b *testing.B) {
	s := NewStore(1)
	z := zone.NewFixed("UTC+02:00", 2*time.Hour, 0)
	compute := func() (zone.Zone, class.Class, error) {
		return z, class.Fixed, nil
	}
	_, _, _ = s.GetOrCompute(0, "UTC+02:00", compute)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _, _ = s.GetOrCompute(0, "UTC+02:00", compute)
	}
}

// BenchmarkGetOrCompute_Parallel measures contention across workers, each
// goroutine pinned to its own table.
func BenchmarkGetOrCompute_Parallel(b *testing.B) {
	workers := 8
	s := NewStore(workers)
	z := zone.NewFixed("UTC+02:00", 2*time.Hour, 0)
	compute := func() (zone.Zone, class.Class, error) {
		return z, class.Fixed, nil
	}

	b.ResetTimer()
	done := make(chan struct{})
	for w := 0; w < workers; w++ {
		go func(w int) {
			defer func() { done <- struct{}{} }()
			for i := 0; i < b.N/workers; i++ {
				_, _, _ = s.GetOrCompute(w, "UTC+02:00", compute)
			}
		}(w)
	}
	for w := 0; w < workers; w++ {
		<-done
	}
}

// BenchmarkProbe_Absent measures repeated probes of a cached-missing name.
func BenchmarkProbe_Absent(b *testing.B) {
	s := NewStore(1)
	missing := func() (zone.Zone, class.Class, bool, error) {
		return nil, class.None, false, nil
	}
	_, _, _, _ = s.Probe(0, "No/Such", missing)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _, _, _ = s.Probe(0, "No/Such", missing)
	}
}

// BenchmarkGetOrCompute_ManyNames measures mixed-key lookups.
func BenchmarkGetOrCompute_ManyNames(b *testing.B) {
	s := NewStore(1)
	z := zone.NewFixed("UTC", 0, 0)
	compute := func() (zone.Zone, class.Class, error) {
		return z, class.Fixed, nil
	}
	names := make([]string, 64)
	for i := range names {
		names[i] = fmt.Sprintf("Region/City%02d", i)
		_, _, _ = s.GetOrCompute(0, names[i], compute)
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _, _ = s.GetOrCompute(0, names[i%len(names)], compute)
	}
}
