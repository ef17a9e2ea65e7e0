package metrics

import (
	"strconv"
	"strings"
	"time"
)

const (
	timestampLayout       = "2006-01-02 15:04:05 -0700"
	timestampLegacyLayout = "Mon Jan 02 15:04:05 -0700 2006"
	dateLayout            = "2006-01-02"
	dateLegacyLayout      = "01/02/06"
)

// ValueKind selects the unit grammar used to parse one raw status value.
// Params: none.
// Returns: enum value naming one parse grammar.
type ValueKind uint8

const (
	// KindTimestamp parses full date-time values into Unix epoch seconds.
	KindTimestamp ValueKind = iota
	// KindDate parses calendar dates into midnight-UTC epoch seconds.
	KindDate
	// KindDuration parses "<n> Seconds"/"<n> Minutes" into seconds.
	KindDuration
	// KindPercentage parses "<n> Percent" into a 0..1 ratio.
	KindPercentage
	// KindVoltage parses "<n> Volts".
	KindVoltage
	// KindTemperature parses "<n> C".
	KindTemperature
	// KindFrequency parses "<n> Hz".
	KindFrequency
	// KindCurrent parses "<n> Amps".
	KindCurrent
	// KindCount parses a bare number with no unit suffix.
	KindCount
	// KindPower parses "<n> Watts".
	KindPower
	// KindApparentPower parses "<n> VA".
	KindApparentPower
)

// unitSuffixes maps suffix-only kinds to their exact unit word.
var unitSuffixes = map[ValueKind]string{
	KindVoltage:       " Volts",
	KindTemperature:   " C",
	KindFrequency:     " Hz",
	KindCurrent:       " Amps",
	KindPower:         " Watts",
	KindApparentPower: " VA",
}

// errorKindForValue maps value kinds to their parse error kinds.
var errorKindForValue = map[ValueKind]ParseErrorKind{
	KindTimestamp:     ErrTimestamp,
	KindDate:          ErrDate,
	KindDuration:      ErrDuration,
	KindPercentage:    ErrPercentage,
	KindVoltage:       ErrVoltage,
	KindTemperature:   ErrTemperature,
	KindFrequency:     ErrFrequency,
	KindCurrent:       ErrCurrent,
	KindCount:         ErrCount,
	KindPower:         ErrPower,
	KindApparentPower: ErrApparentPower,
}

// Sentinels maps exact raw strings to fixed parse results.
// Params: nil entry value means "field intentionally has no value".
// Returns: per-field override table checked before the unit grammar.
type Sentinels map[string]*float64

// Parse converts one raw status value into an optional float per kind.
// Params: raw status value; kind unit grammar; sentinels optional override table.
// Returns: parsed value, presence flag (false means suppressed), parse error.
func Parse(raw string, kind ValueKind, sentinels Sentinels) (float64, bool, error) {
	if mapped, hit := sentinels[raw]; hit {
		if mapped == nil {
			return 0, false, nil
		}
		return *mapped, true, nil
	}

	switch kind {
	case KindTimestamp:
		return parseTimestamp(raw)
	case KindDate:
		return parseDate(raw)
	case KindDuration:
		return parseDuration(raw)
	case KindPercentage:
		return parsePercentage(raw)
	case KindCount:
		value, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return 0, false, &ParseError{Kind: ErrCount, Raw: raw}
		}
		return value, true, nil
	default:
		return parseUnitSuffix(raw, kind)
	}
}

// parseTimestamp parses full date-time values, falling back to the historic
// apcupsd format, and converts them to Unix epoch seconds.
// Params: raw status value.
// Returns: epoch seconds, presence flag, parse error.
func parseTimestamp(raw string) (float64, bool, error) {
	parsed, err := time.Parse(timestampLayout, raw)
	if err != nil {
		parsed, err = time.Parse(timestampLegacyLayout, raw)
	}
	if err != nil {
		return 0, false, &ParseError{Kind: ErrTimestamp, Raw: raw}
	}
	return float64(parsed.Unix()), true, nil
}

// parseDate parses calendar dates, falling back to the MM/DD/YY form, and
// converts midnight UTC of that day to Unix epoch seconds.
// Params: raw status value.
// Returns: epoch seconds, presence flag, parse error.
func parseDate(raw string) (float64, bool, error) {
	parsed, err := time.Parse(dateLayout, raw)
	if err != nil {
		parsed, err = time.Parse(dateLegacyLayout, raw)
	}
	if err != nil {
		return 0, false, &ParseError{Kind: ErrDate, Raw: raw}
	}
	return float64(parsed.Unix()), true, nil
}

// parseDuration parses "<number> <unit>" where unit is Seconds or Minutes.
// Params: raw status value.
// Returns: seconds, presence flag, parse error.
func parseDuration(raw string) (float64, bool, error) {
	number, unit, found := strings.Cut(raw, " ")
	if !found {
		return 0, false, &ParseError{Kind: ErrDuration, Raw: raw}
	}

	value, err := strconv.ParseFloat(number, 64)
	if err != nil {
		return 0, false, &ParseError{Kind: ErrDuration, Raw: raw}
	}

	switch unit {
	case "Seconds":
		return value, true, nil
	case "Minutes":
		return value * 60, true, nil
	default:
		return 0, false, &ParseError{Kind: ErrDuration, Raw: raw}
	}
}

// parsePercentage parses "<number> Percent" into a 0..1 ratio.
// Params: raw status value.
// Returns: ratio, presence flag, parse error.
func parsePercentage(raw string) (float64, bool, error) {
	number, found := strings.CutSuffix(raw, " Percent")
	if !found {
		return 0, false, &ParseError{Kind: ErrPercentage, Raw: raw}
	}

	value, err := strconv.ParseFloat(number, 64)
	if err != nil {
		return 0, false, &ParseError{Kind: ErrPercentage, Raw: raw}
	}
	return value / 100, true, nil
}

// parseUnitSuffix parses "<number><suffix>" for fixed-suffix kinds.
// Params: raw status value; kind one of the suffix-table kinds.
// Returns: unscaled value, presence flag, parse error.
func parseUnitSuffix(raw string, kind ValueKind) (float64, bool, error) {
	number, found := strings.CutSuffix(raw, unitSuffixes[kind])
	if !found {
		return 0, false, &ParseError{Kind: errorKindForValue[kind], Raw: raw}
	}

	value, err := strconv.ParseFloat(number, 64)
	if err != nil {
		return 0, false, &ParseError{Kind: errorKindForValue[kind], Raw: raw}
	}
	return value, true, nil
}
