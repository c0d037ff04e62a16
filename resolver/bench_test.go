package resolver

import (
	"strings"
	"testing"

	"github.com/jonwraymond/tzresolve/class"
	"github.com/jonwraymond/tzresolve/tzdb"
)

func benchDB(b *testing.B) string {
	b.Helper()
	root := b.TempDir()
	s, err := tzdb.LoadSource(strings.NewReader(testSource))
	if err != nil {
		b.Fatal(err)
	}
	if err := s.Compile(root); err != nil {
		b.Fatal(err)
	}
	return root
}

// BenchmarkResolve_CacheHit measures the lock-free steady state.
func BenchmarkResolve_CacheHit(b *testing.B) {
	r, err := New(Config{Root: benchDB(b), Workers: 1})
	if err != nil {
		b.Fatal(err)
	}
	if _, err := r.Resolve(0, "Europe/Warsaw", class.All); err != nil {
		b.Fatal(err)
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = r.Resolve(0, "Europe/Warsaw", class.All)
	}
}

// BenchmarkResolve_GrammarMiss measures fixed-grammar construction on a
// cold name each time.
func BenchmarkResolve_GrammarMiss(b *testing.B) {
	r, err := New(Config{Workers: 1})
	if err != nil {
		b.Fatal(err)
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		r.Reset(0)
		_, _ = r.Resolve(0, "UTC+02:00")
	}
}

// BenchmarkExists_FastPath measures the no-cache, no-filesystem path.
func BenchmarkExists_FastPath(b *testing.B) {
	r, err := New(Config{Workers: 1})
	if err != nil {
		b.Fatal(err)
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = r.Exists(0, "UTC+02:00")
	}
}
