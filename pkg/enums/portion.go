package enums

import "fmt"

// Portion describes the serving size ordered for a menu item.
type Portion string

const (
	PortionFull Portion = "full"
	PortionHalf Portion = "half"
)

var validPortions = []Portion{
	PortionFull,
	PortionHalf,
}

// IsValid reports whether the value matches the canonical portion enum.
func (p Portion) IsValid() bool {
	for _, candidate := range validPortions {
		if candidate == p {
			return true
		}
	}
	return false
}

// ParsePortion converts the raw string to Portion.
func ParsePortion(value string) (Portion, error) {
	for _, candidate := range validPortions {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid portion %q", value)
}
