package types

import (
	"encoding/json"
	"fmt"
	"strconv"
)

// FlexFloat is a float64 that can be unmarshaled from either a JSON number or a JSON string.
// Questionnaire clients send numeric answers both ways.
type FlexFloat float64

// UnmarshalJSON implements the json.Unmarshaler interface.
func (f *FlexFloat) UnmarshalJSON(data []byte) error {
	if len(data) == 0 {
		return nil
	}

	// Try unmarshaling as a number first
	var n float64
	if err := json.Unmarshal(data, &n); err == nil {
		*f = FlexFloat(n)
		return nil
	}

	// Try unmarshaling as a string
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		val, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return fmt.Errorf("FlexFloat: invalid float string %q: %w", s, err)
		}
		*f = FlexFloat(val)
		return nil
	}

	return fmt.Errorf("FlexFloat: unexpected type, expected number or string")
}

// MarshalJSON implements the json.Marshaler interface.
func (f FlexFloat) MarshalJSON() ([]byte, error) {
	return json.Marshal(float64(f))
}

// Float64 converts FlexFloat back to float64.
func (f FlexFloat) Float64() float64 {
	return float64(f)
}

// Int converts FlexFloat to an int, truncating any fractional part.
func (f FlexFloat) Int() int {
	return int(f)
}
