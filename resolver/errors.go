package resolver

import (
	"fmt"

	"github.com/jonwraymond/tzresolve/class"
)

// DatabaseMissingError indicates the compiled database root is absent or
// empty: the build step never ran. Distinct from UnknownTimeZoneError so a
// missing build prerequisite is not mistaken for a bad name.
type DatabaseMissingError struct {
	Name string
}

func (e *DatabaseMissingError) Error() string {
	return fmt.Sprintf("resolver: cannot resolve %q: compiled time zone database is missing or empty", e.Name)
}

// UnknownTimeZoneError indicates a name recognized by neither the compiled
// database nor the fixed-offset grammar.
type UnknownTimeZoneError struct {
	Name string
}

func (e *UnknownTimeZoneError) Error() string {
	return fmt.Sprintf("resolver: unknown time zone %q", e.Name)
}

// DisallowedClassError indicates a zone that resolved successfully but whose
// class is not permitted by the caller's mask. The decoded zone stays
// cached, so a later call with a wider mask is cheap.
type DisallowedClassError struct {
	Name  string
	Class class.Class
	Mask  class.Class
}

func (e *DisallowedClassError) Error() string {
	return fmt.Sprintf("resolver: time zone %q has class %s, which the mask %s does not permit",
		e.Name, e.Class.QualifiedString(), e.Mask.QualifiedString())
}
