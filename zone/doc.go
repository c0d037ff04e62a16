// Package zone defines the resolved time-zone value types.
//
// A zone is either Fixed (constant UTC offset) or Variable (an ordered
// sequence of offset transitions). Zones are immutable after construction
// and safe to share read-only.
package zone
