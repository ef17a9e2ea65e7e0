package metrics

import "fmt"

// ParseErrorKind names the grammar that rejected a raw value.
// Params: none.
// Returns: enum value used in ParseError.
type ParseErrorKind uint8

const (
	// ErrTimestamp marks a value both timestamp grammars rejected.
	ErrTimestamp ParseErrorKind = iota
	// ErrDate marks a value both date grammars rejected.
	ErrDate
	// ErrDuration marks a malformed duration value.
	ErrDuration
	// ErrPercentage marks a malformed percentage value.
	ErrPercentage
	// ErrVoltage marks a malformed voltage value.
	ErrVoltage
	// ErrTemperature marks a malformed temperature value.
	ErrTemperature
	// ErrFrequency marks a malformed frequency value.
	ErrFrequency
	// ErrCurrent marks a malformed current value.
	ErrCurrent
	// ErrCount marks a malformed bare count value.
	ErrCount
	// ErrPower marks a malformed power value.
	ErrPower
	// ErrApparentPower marks a malformed apparent power value.
	ErrApparentPower
	// ErrHex marks a malformed hex bitfield value.
	ErrHex
)

// String returns the human unit name for error messages.
// Params: none.
// Returns: unit name string.
func (k ParseErrorKind) String() string {
	switch k {
	case ErrTimestamp:
		return "timestamp"
	case ErrDate:
		return "date"
	case ErrDuration:
		return "duration"
	case ErrPercentage:
		return "percentage"
	case ErrVoltage:
		return "voltage"
	case ErrTemperature:
		return "temperature"
	case ErrFrequency:
		return "frequency"
	case ErrCurrent:
		return "current"
	case ErrCount:
		return "count"
	case ErrPower:
		return "power"
	case ErrApparentPower:
		return "apparent power"
	case ErrHex:
		return "hex value"
	default:
		return "value"
	}
}

// ParseError reports one raw value rejected by its unit grammar.
// Params: grammar kind and offending raw string.
// Returns: error naming the rejected unit and value.
type ParseError struct {
	Kind ParseErrorKind
	Raw  string
}

// Error formats the parse failure.
// Params: none.
// Returns: message naming the unit and raw value.
func (e *ParseError) Error() string {
	return fmt.Sprintf("invalid %s %q", e.Kind, e.Raw)
}

// RenderError wraps the first parse failure hit during a render walk.
// Params: offending status key and underlying parse error.
// Returns: render-level failure naming the key.
type RenderError struct {
	Key string
	Err error
}

// Error formats the render failure.
// Params: none.
// Returns: message prefixed with the status key.
func (e *RenderError) Error() string {
	return fmt.Sprintf("%s: %v", e.Key, e.Err)
}

// Unwrap exposes the wrapped parse error.
// Params: none.
// Returns: underlying error.
func (e *RenderError) Unwrap() error {
	return e.Err
}
