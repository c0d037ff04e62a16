// Package cache provides the per-worker resolution cache.
//
// Each worker owns one name table outright, which makes reads and writes
// lock-free: the same zone may be decoded once per worker, trading bounded
// memory redundancy for contention-free access.
package cache
