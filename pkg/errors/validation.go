package errors

import (
	"github.com/google/uuid"
	"github.com/lucasb-eyer/go-colorful"
)

// ValidateChartID checks that id is a canonical UUID as issued by the chart
// store.
func ValidateChartID(id string) error {
	if id == "" {
		return New(ErrCodeInvalidChartID, "chart id cannot be empty")
	}
	if len(id) != 36 {
		return New(ErrCodeInvalidChartID, "invalid chart id: %q", id)
	}
	if _, err := uuid.Parse(id); err != nil {
		return Wrap(ErrCodeInvalidChartID, err, "invalid chart id: %q", id)
	}
	return nil
}

// ValidateColor checks that c is a hex colour such as "#a6cee3" or "#fff".
func ValidateColor(c string) error {
	if c == "" {
		return New(ErrCodeInvalidColor, "color cannot be empty")
	}
	if _, err := colorful.Hex(c); err != nil {
		return Wrap(ErrCodeInvalidColor, err, "invalid color: %q", c)
	}
	return nil
}

// ValidateColorRange checks that the range is non-empty and every entry is a
// valid colour.
func ValidateColorRange(colors []string) error {
	if len(colors) == 0 {
		return New(ErrCodeInvalidColor, "color range cannot be empty")
	}
	for _, c := range colors {
		if err := ValidateColor(c); err != nil {
			return err
		}
	}
	return nil
}
