package zone

import (
	"errors"
	"fmt"
	"sort"
	"time"
)

// Sentinel errors for zone construction.
var (
	// ErrNoTransitions indicates a variable zone was built with an empty
	// transition list.
	ErrNoTransitions = errors.New("zone: variable zone requires at least one transition")

	// ErrUnorderedTransitions indicates transition instants are not strictly
	// increasing.
	ErrUnorderedTransitions = errors.New("zone: transitions must be strictly increasing")
)

// Kind discriminates the two zone variants.
type Kind int

const (
	// KindFixed is a zone with a constant UTC offset.
	KindFixed Kind = iota

	// KindVariable is a zone whose offset changes at transition instants.
	KindVariable
)

func (k Kind) String() string {
	switch k {
	case KindFixed:
		return "fixed"
	case KindVariable:
		return "variable"
	default:
		return fmt.Sprintf("zone.Kind(%d)", int(k))
	}
}

// Zone is a resolved, immutable time zone.
//
// Contract:
// - Immutability: a Zone never changes after construction and may be read
//   concurrently without synchronization.
// - Identity: two zones decoded independently may be equal in value without
//   being the same object; compare with Equal.
type Zone interface {
	// Name returns the zone's display name, e.g. "Europe/Warsaw".
	Name() string

	// Kind reports whether the zone is fixed or variable.
	Kind() Kind
}

// Fixed is a constant-offset zone.
type Fixed struct {
	name   string
	offset time.Duration
	save   time.Duration
}

// NewFixed creates a fixed-offset zone. The save component is display-only
// and is not added to the offset.
func NewFixed(name string, offset, save time.Duration) *Fixed {
	return &Fixed{name: name, offset: offset, save: save}
}

// Name returns the zone's display name.
func (f *Fixed) Name() string { return f.name }

// Kind returns KindFixed.
func (f *Fixed) Kind() Kind { return KindFixed }

// Offset returns the constant UTC offset.
func (f *Fixed) Offset() time.Duration { return f.offset }

// Save returns the display-only daylight saving component.
func (f *Fixed) Save() time.Duration { return f.save }

// Transition is a timestamped change of effective UTC offset within a
// variable zone. The offset and abbreviation apply from When until the next
// transition, or indefinitely if it is the last one.
type Transition struct {
	When   time.Time
	Offset time.Duration
	Save   time.Duration
	Abbrev string
}

// Variable is a DST-aware zone backed by a strictly time-ordered transition
// sequence.
type Variable struct {
	name        string
	transitions []Transition
}

// NewVariable creates a variable zone. The transition list must be non-empty
// and strictly increasing by instant; it is copied, so the caller's slice may
// be reused.
func NewVariable(name string, transitions []Transition) (*Variable, error) {
	if len(transitions) == 0 {
		return nil, ErrNoTransitions
	}
	ts := make([]Transition, len(transitions))
	copy(ts, transitions)
	for i := 1; i < len(ts); i++ {
		if !ts[i-1].When.Before(ts[i].When) {
			return nil, fmt.Errorf("%w: %s is not after %s",
				ErrUnorderedTransitions, ts[i].When.UTC(), ts[i-1].When.UTC())
		}
	}
	return &Variable{name: name, transitions: ts}, nil
}

// Name returns the zone's display name.
func (v *Variable) Name() string { return v.name }

// Kind returns KindVariable.
func (v *Variable) Kind() Kind { return KindVariable }

// Transitions returns a copy of the transition sequence.
func (v *Variable) Transitions() []Transition {
	ts := make([]Transition, len(v.transitions))
	copy(ts, v.transitions)
	return ts
}

// Len returns the number of transitions.
func (v *Variable) Len() int { return len(v.transitions) }

// Lookup returns the transition in effect at t. Instants earlier than the
// first transition clamp to the first rule.
func (v *Variable) Lookup(t time.Time) Transition {
	i := sort.Search(len(v.transitions), func(i int) bool {
		return v.transitions[i].When.After(t)
	})
	if i == 0 {
		return v.transitions[0]
	}
	return v.transitions[i-1]
}

// Offset returns the UTC offset in effect at t.
func (v *Variable) Offset(t time.Time) time.Duration {
	return v.Lookup(t).Offset
}

// Equal reports whether two zones are equal in value: same kind, name, and
// offset data. Nil zones are equal only to each other.
func Equal(a, b Zone) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	if a.Kind() != b.Kind() || a.Name() != b.Name() {
		return false
	}
	switch az := a.(type) {
	case *Fixed:
		bz, ok := b.(*Fixed)
		return ok && az.offset == bz.offset && az.save == bz.save
	case *Variable:
		bz, ok := b.(*Variable)
		if !ok || len(az.transitions) != len(bz.transitions) {
			return false
		}
		for i := range az.transitions {
			at, bt := az.transitions[i], bz.transitions[i]
			if !at.When.Equal(bt.When) || at.Offset != bt.Offset ||
				at.Save != bt.Save || at.Abbrev != bt.Abbrev {
				return false
			}
		}
		return true
	default:
		return false
	}
}

// Compile-time variant checks.
var (
	_ Zone = (*Fixed)(nil)
	_ Zone = (*Variable)(nil)
)
