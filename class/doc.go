// Package class provides the zone classification bitmask.
//
// A Class combines a zone's structural kind (Fixed or Variable) with the
// provenance of its compiled data (Standard or Legacy). Callers use Class
// values as allow-list masks during resolution.
package class
