// Package resolver resolves textual time-zone identifiers into validated,
// immutable zone objects while enforcing a caller-supplied class mask.
//
// Resolution is cached per worker with no locking on the hot path; see the
// cache package for the ownership rules. The three failure kinds are
// DatabaseMissingError, UnknownTimeZoneError and DisallowedClassError.
package resolver
