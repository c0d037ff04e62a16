package grammar

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"time"

	"github.com/jonwraymond/tzresolve/zone"
)

// ErrNoMatch is returned by Construct for names outside the fixed grammar.
var ErrNoMatch = errors.New("grammar: name is not a fixed-offset form")

// Recognized forms:
//
//	UTC, GMT, UT, Z
//	+HH, +HH:MM, +HHMM, +HH:MM:SS, +HHMMSS (and -)
//	UTC+HH:MM etc. with a UTC/GMT/UT prefix
var fixedPattern = regexp.MustCompile(
	`^(?:(UTC|GMT|UT|Z)|(UTC|GMT|UT)?([+-])(\d{2})(?::?(\d{2})(?::?(\d{2}))?)?)$`)

// parse returns the offset denoted by name, or ok=false when the name is
// outside the grammar or its components are out of range.
func parse(name string) (offset time.Duration, ok bool) {
	m := fixedPattern.FindStringSubmatch(name)
	if m == nil {
		return 0, false
	}
	if m[1] != "" {
		// Bare UTC/GMT/UT/Z.
		return 0, true
	}

	hours, _ := strconv.Atoi(m[4])
	minutes := 0
	if m[5] != "" {
		minutes, _ = strconv.Atoi(m[5])
	}
	seconds := 0
	if m[6] != "" {
		seconds, _ = strconv.Atoi(m[6])
	}
	if hours > 23 || minutes > 59 || seconds > 59 {
		return 0, false
	}

	offset = time.Duration(hours)*time.Hour +
		time.Duration(minutes)*time.Minute +
		time.Duration(seconds)*time.Second
	if m[3] == "-" {
		offset = -offset
	}
	return offset, true
}

// Matches reports whether name denotes a fixed offset. No I/O.
func Matches(name string) bool {
	_, ok := parse(name)
	return ok
}

// Construct builds the fixed zone denoted by name. The zone keeps the
// caller's spelling as its display name.
func Construct(name string) (*zone.Fixed, error) {
	offset, ok := parse(name)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrNoMatch, name)
	}
	return zone.NewFixed(name, offset, 0), nil
}
