package metrics

import (
	"errors"
	"testing"
	"time"
)

// TestParse_Percentage verifies percent suffix parsing and scaling.
// Params: testing.T for assertions.
// Returns: none.
func TestParse_Percentage(t *testing.T) {
	value, emit, err := Parse("87.5 Percent", KindPercentage, nil)
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}
	if !emit {
		t.Fatalf("expected value to be emitted")
	}
	if value != 0.875 {
		t.Fatalf("unexpected value: %v", value)
	}

	if _, _, err := Parse("87.5", KindPercentage, nil); err == nil {
		t.Fatalf("expected error for missing Percent suffix")
	}
	assertParseErrorKind(t, Parse, "87.5", KindPercentage, ErrPercentage)
}

// TestParse_Duration verifies Seconds/Minutes unit words.
// Params: testing.T for assertions.
// Returns: none.
func TestParse_Duration(t *testing.T) {
	cases := []struct {
		raw  string
		want float64
	}{
		{"23 Minutes", 1380},
		{"5 Seconds", 5},
		{"0 Seconds", 0},
		{"1.5 Minutes", 90},
	}
	for _, tc := range cases {
		value, emit, err := Parse(tc.raw, KindDuration, nil)
		if err != nil {
			t.Fatalf("Parse(%q) error: %v", tc.raw, err)
		}
		if !emit || value != tc.want {
			t.Fatalf("Parse(%q) = (%v,%v), want %v", tc.raw, value, emit, tc.want)
		}
	}

	for _, raw := range []string{"5 Hours", "Seconds", "x Minutes", "5"} {
		if _, _, err := Parse(raw, KindDuration, nil); err == nil {
			t.Fatalf("expected error for %q", raw)
		}
	}
}

// TestParse_Timestamp verifies the full and historic date-time grammars.
// Params: testing.T for assertions.
// Returns: none.
func TestParse_Timestamp(t *testing.T) {
	zone := time.FixedZone("", -5*3600)

	value, emit, err := Parse("2003-09-25 09:23:30 -0500", KindTimestamp, nil)
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}
	want := float64(time.Date(2003, 9, 25, 9, 23, 30, 0, zone).Unix())
	if !emit || value != want {
		t.Fatalf("unexpected epoch: got=%v want=%v", value, want)
	}

	legacy, emit, err := Parse("Thu Sep 25 09:23:30 -0500 2003", KindTimestamp, nil)
	if err != nil {
		t.Fatalf("Parse() legacy error: %v", err)
	}
	if !emit || legacy != want {
		t.Fatalf("unexpected legacy epoch: got=%v want=%v", legacy, want)
	}

	if _, _, err := Parse("25.09.2003 09:23", KindTimestamp, nil); err == nil {
		t.Fatalf("expected error for unsupported timestamp format")
	}
}

// TestParse_Date verifies the ISO and MM/DD/YY date grammars.
// Params: testing.T for assertions.
// Returns: none.
func TestParse_Date(t *testing.T) {
	want := float64(time.Date(2001, 9, 25, 0, 0, 0, 0, time.UTC).Unix())

	value, emit, err := Parse("2001-09-25", KindDate, nil)
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}
	if !emit || value != want {
		t.Fatalf("unexpected epoch: got=%v want=%v", value, want)
	}

	legacy, emit, err := Parse("09/25/01", KindDate, nil)
	if err != nil {
		t.Fatalf("Parse() legacy error: %v", err)
	}
	if !emit || legacy != want {
		t.Fatalf("unexpected legacy epoch: got=%v want=%v", legacy, want)
	}

	if _, _, err := Parse("September 25 2001", KindDate, nil); err == nil {
		t.Fatalf("expected error for unsupported date format")
	}
}

// TestParse_UnitSuffixes verifies each fixed-suffix grammar.
// Params: testing.T for assertions.
// Returns: none.
func TestParse_UnitSuffixes(t *testing.T) {
	cases := []struct {
		raw  string
		kind ValueKind
		want float64
	}{
		{"230.0 Volts", KindVoltage, 230},
		{"36.2 C", KindTemperature, 36.2},
		{"50.0 Hz", KindFrequency, 50},
		{"1.4 Amps", KindCurrent, 1.4},
		{"865 Watts", KindPower, 865},
		{"1440 VA", KindApparentPower, 1440},
		{"42", KindCount, 42},
	}
	for _, tc := range cases {
		value, emit, err := Parse(tc.raw, tc.kind, nil)
		if err != nil {
			t.Fatalf("Parse(%q) error: %v", tc.raw, err)
		}
		if !emit || value != tc.want {
			t.Fatalf("Parse(%q) = (%v,%v), want %v", tc.raw, value, emit, tc.want)
		}
	}

	bad := []struct {
		raw  string
		kind ValueKind
		want ParseErrorKind
	}{
		{"230.0", KindVoltage, ErrVoltage},
		{"not a number Volts", KindVoltage, ErrVoltage},
		{"36.2 F", KindTemperature, ErrTemperature},
		{"50 Hertz", KindFrequency, ErrFrequency},
		{"1.4 A", KindCurrent, ErrCurrent},
		{"many", KindCount, ErrCount},
		{"865 W", KindPower, ErrPower},
		{"1440 Volt-Amps", KindApparentPower, ErrApparentPower},
	}
	for _, tc := range bad {
		assertParseErrorKind(t, Parse, tc.raw, tc.kind, tc.want)
	}
}

// TestParse_SentinelBypassesGrammar verifies sentinel lookup precedes units.
// Params: testing.T for assertions.
// Returns: none.
func TestParse_SentinelBypassesGrammar(t *testing.T) {
	sentinels := Sentinels{"No connection to Master": nil}

	value, emit, err := Parse("No connection to Master", KindTimestamp, sentinels)
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}
	if emit {
		t.Fatalf("expected suppressed value, got %v", value)
	}

	pinned := 7.0
	value, emit, err = Parse("On", KindCount, Sentinels{"On": &pinned})
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}
	if !emit || value != 7 {
		t.Fatalf("unexpected sentinel value: (%v,%v)", value, emit)
	}
}

// assertParseErrorKind asserts Parse fails with one typed error kind.
// Params: t test handle; parse function under test; raw input; kind value
// grammar; want expected error kind.
// Returns: none.
func assertParseErrorKind(
	t *testing.T,
	parse func(string, ValueKind, Sentinels) (float64, bool, error),
	raw string,
	kind ValueKind,
	want ParseErrorKind,
) {
	t.Helper()

	_, _, err := parse(raw, kind, nil)
	if err == nil {
		t.Fatalf("expected parse error for %q", raw)
	}

	var parseErr *ParseError
	if !errors.As(err, &parseErr) {
		t.Fatalf("unexpected error type: %v", err)
	}
	if parseErr.Kind != want {
		t.Fatalf("unexpected error kind for %q: got=%v want=%v", raw, parseErr.Kind, want)
	}
	if parseErr.Raw != raw {
		t.Fatalf("error lost raw value: %q", parseErr.Raw)
	}
}
