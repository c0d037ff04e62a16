package class

import (
	"strings"

	"github.com/jonwraymond/tzresolve/zone"
)

// Class is a bitmask describing a zone's structural kind and data
// provenance. The zero value is None.
type Class uint8

// Individual flags.
const (
	// Fixed marks a constant-offset zone.
	Fixed Class = 1 << iota

	// Variable marks a DST-aware, transition-based zone.
	Variable

	// Standard marks data originating from a standard tz source file.
	Standard

	// Legacy marks data originating from the "backward" or "etcetera"
	// source files.
	Legacy
)

// Derived constants.
const (
	// None is the empty class.
	None Class = 0

	// Default is the mask applied when a caller does not supply one.
	Default = Fixed | Standard

	// All permits every class.
	All = Fixed | Variable | Standard | Legacy
)

// flagOrder is the canonical label ordering.
var flagOrder = [...]struct {
	flag  Class
	label string
}{
	{Fixed, "FIXED"},
	{Variable, "VARIABLE"},
	{Standard, "STANDARD"},
	{Legacy, "LEGACY"},
}

// Union returns the set union of c and o.
func (c Class) Union(o Class) Class { return c | o }

// Intersect returns the set intersection of c and o.
func (c Class) Intersect(o Class) Class { return c & o }

// Has reports whether c and o share at least one flag.
func (c Class) Has(o Class) bool { return c&o != None }

// Labels returns the canonical names of the known flags present in c, in
// fixed order. Unknown bits contribute nothing.
func (c Class) Labels() []string {
	labels := make([]string, 0, len(flagOrder))
	for _, f := range flagOrder {
		if c&f.flag != None {
			labels = append(labels, f.label)
		}
	}
	return labels
}

// String renders c as its labels joined with " | ", e.g. "FIXED | STANDARD".
func (c Class) String() string {
	return strings.Join(c.Labels(), " | ")
}

// QualifiedString renders c like String but with each label prefixed by the
// type name, e.g. "Class.FIXED | Class.STANDARD". Used in error messages.
func (c Class) QualifiedString() string {
	labels := c.Labels()
	for i, l := range labels {
		labels[i] = "Class." + l
	}
	return strings.Join(labels, " | ")
}

// legacySources are the tz source files whose zones classify as Legacy.
var legacySources = map[string]bool{
	"backward": true,
	"etcetera": true,
}

// FromSource returns the provenance contribution of a single tz source file
// name. An empty name contributes nothing.
func FromSource(name string) Class {
	switch {
	case name == "":
		return None
	case legacySources[name]:
		return Legacy
	default:
		return Standard
	}
}

// Structural returns the class implied by a zone's shape alone.
func Structural(z zone.Zone) Class {
	if z == nil {
		return None
	}
	switch z.Kind() {
	case zone.KindVariable:
		return Variable
	default:
		return Fixed
	}
}

// Classify returns a zone's full class: its structural class unioned with
// the provenance contribution of every source file its data came from.
func Classify(z zone.Zone, sources ...string) Class {
	c := Structural(z)
	for _, s := range sources {
		c = c.Union(FromSource(s))
	}
	return c
}
