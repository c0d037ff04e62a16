package zone

import (
	"errors"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

func mustVariable(t *testing.T, name string, ts []Transition) *Variable {
	t.Helper()
	v, err := NewVariable(name, ts)
	if err != nil {
		t.Fatalf("NewVariable(%q) = %v", name, err)
	}
	return v
}

func warsawTransitions() []Transition {
	return []Transition{
		{When: time.Date(2024, 3, 31, 1, 0, 0, 0, time.UTC), Offset: 2 * time.Hour, Save: time.Hour, Abbrev: "CEST"},
		{When: time.Date(2024, 10, 27, 1, 0, 0, 0, time.UTC), Offset: time.Hour, Abbrev: "CET"},
		{When: time.Date(2025, 3, 30, 1, 0, 0, 0, time.UTC), Offset: 2 * time.Hour, Save: time.Hour, Abbrev: "CEST"},
	}
}

func TestNewVariable_Validation(t *testing.T) {
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name        string
		transitions []Transition
		wantErr     error
	}{
		{"empty", nil, ErrNoTransitions},
		{"single", []Transition{{When: base, Offset: time.Hour}}, nil},
		{"ordered", warsawTransitions(), nil},
		{
			"duplicate instant",
			[]Transition{
				{When: base, Offset: time.Hour},
				{When: base, Offset: 2 * time.Hour},
			},
			ErrUnorderedTransitions,
		},
		{
			"decreasing",
			[]Transition{
				{When: base.Add(time.Hour), Offset: time.Hour},
				{When: base, Offset: 2 * time.Hour},
			},
			ErrUnorderedTransitions,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewVariable("Test/Zone", tt.transitions)
			if tt.wantErr == nil {
				if err != nil {
					t.Fatalf("NewVariable() = %v, want nil", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("NewVariable() = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestVariable_Immutable(t *testing.T) {
	src := warsawTransitions()
	v := mustVariable(t, "Europe/Warsaw", src)

	// Mutating the caller's slice must not affect the zone.
	src[0].Offset = 99 * time.Hour
	if got := v.Transitions()[0].Offset; got != 2*time.Hour {
		t.Errorf("caller mutation leaked into zone: offset = %v", got)
	}

	// Mutating the returned copy must not affect the zone either.
	out := v.Transitions()
	out[1].Abbrev = "XXX"
	if got := v.Transitions()[1].Abbrev; got != "CET" {
		t.Errorf("returned-slice mutation leaked into zone: abbrev = %q", got)
	}
}

func TestVariable_Lookup(t *testing.T) {
	v := mustVariable(t, "Europe/Warsaw", warsawTransitions())

	tests := []struct {
		name       string
		at         time.Time
		wantOffset time.Duration
		wantAbbrev string
	}{
		{"before first clamps to first rule", time.Date(2023, 6, 1, 0, 0, 0, 0, time.UTC), 2 * time.Hour, "CEST"},
		{"exactly at transition", time.Date(2024, 10, 27, 1, 0, 0, 0, time.UTC), time.Hour, "CET"},
		{"between transitions", time.Date(2024, 12, 25, 0, 0, 0, 0, time.UTC), time.Hour, "CET"},
		{"after last", time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC), 2 * time.Hour, "CEST"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := v.Lookup(tt.at)
			if got.Offset != tt.wantOffset || got.Abbrev != tt.wantAbbrev {
				t.Errorf("Lookup(%s) = (%v, %q), want (%v, %q)",
					tt.at, got.Offset, got.Abbrev, tt.wantOffset, tt.wantAbbrev)
			}
			if off := v.Offset(tt.at); off != tt.wantOffset {
				t.Errorf("Offset(%s) = %v, want %v", tt.at, off, tt.wantOffset)
			}
		})
	}
}

func TestEqual(t *testing.T) {
	fixed := NewFixed("UTC+02:00", 2*time.Hour, 0)
	variable := mustVariable(t, "Europe/Warsaw", warsawTransitions())

	tests := []struct {
		name string
		a, b Zone
		want bool
	}{
		{"both nil", nil, nil, true},
		{"nil vs fixed", nil, fixed, false},
		{"fixed same value", fixed, NewFixed("UTC+02:00", 2*time.Hour, 0), true},
		{"fixed different offset", fixed, NewFixed("UTC+02:00", 3*time.Hour, 0), false},
		{"fixed different name", fixed, NewFixed("UTC+03:00", 2*time.Hour, 0), false},
		{"fixed vs variable", fixed, variable, false},
		{"variable same value", variable, mustVariable(t, "Europe/Warsaw", warsawTransitions()), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Equal(tt.a, tt.b); got != tt.want {
				t.Errorf("Equal() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestTransitions_RoundTrip(t *testing.T) {
	want := warsawTransitions()
	v := mustVariable(t, "Europe/Warsaw", want)
	if diff := cmp.Diff(want, v.Transitions()); diff != "" {
		t.Errorf("Transitions() mismatch (-want +got):\n%s", diff)
	}
}

func TestKind_String(t *testing.T) {
	if got := KindFixed.String(); got != "fixed" {
		t.Errorf("KindFixed.String() = %q", got)
	}
	if got := KindVariable.String(); got != "variable" {
		t.Errorf("KindVariable.String() = %q", got)
	}
	if got := Kind(7).String(); got != "zone.Kind(7)" {
		t.Errorf("Kind(7).String() = %q", got)
	}
}
