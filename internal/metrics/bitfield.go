package metrics

import "strconv"

// BitfieldWidth tags the register width of one hex status field.
// Params: none.
// Returns: width selector for DecodeBitfield.
type BitfieldWidth uint8

const (
	// Width8 decodes one-byte vendor registers.
	Width8 BitfieldWidth = 8
	// Width32 decodes the four-byte status word.
	Width32 BitfieldWidth = 32
)

// DecodeBitfield parses one "0x"-prefixed hex status value at the declared
// width. The first two characters are a base indicator and are not validated,
// only stripped.
// Params: raw status value; width register width tag.
// Returns: decoded bitmask or hex parse error.
func DecodeBitfield(raw string, width BitfieldWidth) (uint32, error) {
	if len(raw) < 2 {
		return 0, &ParseError{Kind: ErrHex, Raw: raw}
	}

	var (
		value uint64
		err   error
	)
	switch width {
	case Width8:
		value, err = strconv.ParseUint(raw[2:], 16, 8)
	case Width32:
		value, err = strconv.ParseUint(raw[2:], 16, 32)
	default:
		return 0, &ParseError{Kind: ErrHex, Raw: raw}
	}
	if err != nil {
		return 0, &ParseError{Kind: ErrHex, Raw: raw}
	}

	return uint32(value), nil
}

// bitSet answers whether any mask bit is set in the decoded field.
// Params: field decoded bitmask; mask queried bit position(s).
// Returns: true when field and mask intersect.
func bitSet(field, mask uint32) bool {
	return field&mask != 0
}
