package value_objects

import "strings"

// Category is the life area a task belongs to.
// Unrecognised values are kept verbatim so they can still be reported back.
type Category string

const (
	CategoryWork     Category = "Work"
	CategoryAcademic Category = "Academic"
	CategoryPersonal Category = "Personal"
)

// ParseCategory normalises a category label. Known labels are matched
// case-insensitively; anything else is returned trimmed and unchanged.
func ParseCategory(s string) Category {
	s = strings.TrimSpace(s)
	switch strings.ToLower(s) {
	case "work":
		return CategoryWork
	case "academic":
		return CategoryAcademic
	case "personal":
		return CategoryPersonal
	}
	return Category(s)
}

// IsKnown reports whether the category is one of the built-in areas.
func (c Category) IsKnown() bool {
	return c == CategoryWork || c == CategoryAcademic || c == CategoryPersonal
}

// DueType marks whether a deadline can slip.
type DueType string

const (
	DueTypeSoft DueType = "soft"
	DueTypeHard DueType = "hard"
)

// ParseDueType returns DueTypeHard for "hard" in any case and DueTypeSoft otherwise,
// except for empty input which stays empty.
func ParseDueType(s string) DueType {
	s = strings.ToLower(strings.TrimSpace(s))
	switch s {
	case "":
		return ""
	case "hard":
		return DueTypeHard
	}
	return DueTypeSoft
}

// IsHard reports whether the deadline is a hard one.
func (d DueType) IsHard() bool {
	return d == DueTypeHard
}

// EnergyLevel is the user's self-reported energy.
type EnergyLevel string

const (
	EnergyLow    EnergyLevel = "low"
	EnergyMedium EnergyLevel = "medium"
	EnergyHigh   EnergyLevel = "high"
)

// ParseEnergyLevel lower-cases and trims the label.
func ParseEnergyLevel(s string) EnergyLevel {
	return EnergyLevel(strings.ToLower(strings.TrimSpace(s)))
}
