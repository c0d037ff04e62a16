package tzdb

import (
	"errors"
	"fmt"
	"io"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/jonwraymond/tzresolve/class"
	"github.com/jonwraymond/tzresolve/zone"
)

// ErrBadSource indicates an invalid zone source document.
var ErrBadSource = errors.New("tzdb: invalid zone source")

// Source is a YAML zone source list, the input to the database build step.
//
// Example:
//
//	zones:
//	  - name: EST
//	    sources: [northamerica]
//	    offset: -5h
//	  - name: Europe/Warsaw
//	    sources: [europe]
//	    transitions:
//	      - when: 2024-03-31T01:00:00Z
//	        offset: 2h
//	        save: 1h
//	        abbrev: CEST
type Source struct {
	Zones []SourceZone `yaml:"zones"`
}

// SourceZone describes one zone. Exactly one of Offset or Transitions must
// be set.
type SourceZone struct {
	Name        string             `yaml:"name"`
	Sources     []string           `yaml:"sources"`
	Offset      string             `yaml:"offset,omitempty"`
	Save        string             `yaml:"save,omitempty"`
	Transitions []SourceTransition `yaml:"transitions,omitempty"`
}

// SourceTransition describes one offset change of a variable zone.
type SourceTransition struct {
	When   time.Time `yaml:"when"`
	Offset string    `yaml:"offset"`
	Save   string    `yaml:"save,omitempty"`
	Abbrev string    `yaml:"abbrev"`
}

// LoadSource parses a YAML zone source document. Unknown fields are
// rejected.
func LoadSource(r io.Reader) (*Source, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	var s Source
	if err := dec.Decode(&s); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadSource, err)
	}
	if len(s.Zones) == 0 {
		return nil, fmt.Errorf("%w: no zones", ErrBadSource)
	}
	return &s, nil
}

// Build constructs the zone and its full class from a source entry.
func (sz SourceZone) Build() (zone.Zone, class.Class, error) {
	if sz.Name == "" {
		return nil, class.None, fmt.Errorf("%w: zone without a name", ErrBadSource)
	}
	if (sz.Offset != "") == (len(sz.Transitions) > 0) {
		return nil, class.None, fmt.Errorf(
			"%w: zone %q must set exactly one of offset or transitions", ErrBadSource, sz.Name)
	}

	var z zone.Zone
	if sz.Offset != "" {
		offset, err := parseDuration(sz.Name, "offset", sz.Offset)
		if err != nil {
			return nil, class.None, err
		}
		save, err := parseOptionalDuration(sz.Name, "save", sz.Save)
		if err != nil {
			return nil, class.None, err
		}
		z = zone.NewFixed(sz.Name, offset, save)
	} else {
		ts := make([]zone.Transition, 0, len(sz.Transitions))
		for i, st := range sz.Transitions {
			offset, err := parseDuration(sz.Name, fmt.Sprintf("transitions[%d].offset", i), st.Offset)
			if err != nil {
				return nil, class.None, err
			}
			save, err := parseOptionalDuration(sz.Name, fmt.Sprintf("transitions[%d].save", i), st.Save)
			if err != nil {
				return nil, class.None, err
			}
			ts = append(ts, zone.Transition{
				When:   st.When.UTC(),
				Offset: offset,
				Save:   save,
				Abbrev: st.Abbrev,
			})
		}
		v, err := zone.NewVariable(sz.Name, ts)
		if err != nil {
			return nil, class.None, fmt.Errorf("%w: zone %q: %v", ErrBadSource, sz.Name, err)
		}
		z = v
	}

	return z, class.Classify(z, sz.Sources...), nil
}

// Compile builds every zone in the source and installs it under root.
func (s *Source) Compile(root string) error {
	for _, sz := range s.Zones {
		z, c, err := sz.Build()
		if err != nil {
			return err
		}
		if err := Install(root, sz.Name, z, c); err != nil {
			return fmt.Errorf("tzdb: install %q: %w", sz.Name, err)
		}
	}
	return nil
}

func parseDuration(zoneName, field, value string) (time.Duration, error) {
	if value == "" {
		return 0, fmt.Errorf("%w: zone %q is missing %s", ErrBadSource, zoneName, field)
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("%w: zone %q %s: %v", ErrBadSource, zoneName, field, err)
	}
	return d, nil
}

func parseOptionalDuration(zoneName, field, value string) (time.Duration, error) {
	if value == "" {
		return 0, nil
	}
	return parseDuration(zoneName, field, value)
}
