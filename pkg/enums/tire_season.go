package enums

import "fmt"

// TireSeason classifies a stored tire set.
type TireSeason string

const (
	TireSeasonSummer TireSeason = "SUMMER"
	TireSeasonWinter TireSeason = "WINTER"
)

// String implements fmt.Stringer.
func (s TireSeason) String() string {
	return string(s)
}

// IsValid reports whether the value is a known TireSeason.
func (s TireSeason) IsValid() bool {
	return s == TireSeasonSummer || s == TireSeasonWinter
}

// ParseTireSeason converts raw input into a TireSeason.
func ParseTireSeason(value string) (TireSeason, error) {
	switch TireSeason(value) {
	case TireSeasonSummer:
		return TireSeasonSummer, nil
	case TireSeasonWinter:
		return TireSeasonWinter, nil
	default:
		return "", fmt.Errorf("invalid tire season %q", value)
	}
}
