package models

import (
	"encoding/json"
	"strings"

	"gorm.io/datatypes"
)

// Dietary tags offered on the RSVP form.
const (
	DietVegetarian       = "Vegetarian"
	DietVegan            = "Vegan"
	DietGlutenFree       = "Gluten-free"
	DietHalal            = "Halal"
	DietKosher           = "Kosher"
	DietDairyFree        = "Dairy-free"
	DietNutAllergy       = "Nut allergy"
	DietShellfishAllergy = "Shellfish allergy"
)

var DietaryOptions = []string{
	DietVegetarian,
	DietVegan,
	DietGlutenFree,
	DietHalal,
	DietKosher,
	DietDairyFree,
	DietNutAllergy,
	DietShellfishAllergy,
}

const legacyAllergensPrefix = "Allergens:"

// InvalidDietaryOptionError names a tag outside DietaryOptions.
type InvalidDietaryOptionError struct {
	Option string
}

func (e *InvalidDietaryOptionError) Error() string {
	return "Invalid dietary option: " + e.Option
}

// DietaryRequirements is the structured form of a guest's dietary needs:
// a set of known tags plus an optional free-text allergen note.
type DietaryRequirements struct {
	Options   []string `json:"options"`
	Allergens string   `json:"allergens,omitempty"`
}

func isDietaryOption(s string) bool {
	for _, o := range DietaryOptions {
		if o == s {
			return true
		}
	}
	return false
}

// Normalize dedupes options into canonical order and trims the allergen note.
// It returns nil when nothing is left.
func (d *DietaryRequirements) Normalize() (*DietaryRequirements, error) {
	if d == nil {
		return nil, nil
	}
	seen := make(map[string]bool, len(d.Options))
	for _, o := range d.Options {
		o = strings.TrimSpace(o)
		if o == "" {
			continue
		}
		if !isDietaryOption(o) {
			return nil, &InvalidDietaryOptionError{Option: o}
		}
		seen[o] = true
	}
	out := &DietaryRequirements{Options: []string{}, Allergens: strings.TrimSpace(d.Allergens)}
	for _, o := range DietaryOptions {
		if seen[o] {
			out.Options = append(out.Options, o)
		}
	}
	if len(out.Options) == 0 && out.Allergens == "" {
		return nil, nil
	}
	return out, nil
}

// String renders the human form, e.g. "Vegan, Allergens: peanuts".
func (d *DietaryRequirements) String() string {
	if d == nil {
		return ""
	}
	parts := append([]string{}, d.Options...)
	if d.Allergens != "" {
		parts = append(parts, legacyAllergensPrefix+" "+d.Allergens)
	}
	return strings.Join(parts, ", ")
}

// ParseLegacyDietary reads the comma-delimited string form. Unknown
// segments are kept in the allergen note so nothing typed by a guest is lost.
func ParseLegacyDietary(s string) *DietaryRequirements {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	d := &DietaryRequirements{}
	var extra []string
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		switch {
		case part == "":
		case strings.HasPrefix(strings.ToLower(part), strings.ToLower(legacyAllergensPrefix)):
			note := strings.TrimSpace(part[len(legacyAllergensPrefix):])
			if note != "" {
				extra = append(extra, note)
			}
		case isDietaryOption(part):
			d.Options = append(d.Options, part)
		default:
			extra = append(extra, part)
		}
	}
	d.Allergens = strings.Join(extra, ", ")
	n, _ := d.Normalize()
	return n
}

// UnmarshalJSON accepts either the structured object or the legacy string.
func (d *DietaryRequirements) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		parsed := ParseLegacyDietary(s)
		if parsed == nil {
			*d = DietaryRequirements{}
			return nil
		}
		*d = *parsed
		return nil
	}
	type plain DietaryRequirements
	var p plain
	if err := json.Unmarshal(b, &p); err != nil {
		return err
	}
	*d = DietaryRequirements(p)
	return nil
}

// EncodeDietary produces the column value; nil stores NULL.
func EncodeDietary(d *DietaryRequirements) (datatypes.JSON, error) {
	n, err := d.Normalize()
	if err != nil || n == nil {
		return nil, err
	}
	b, err := json.Marshal(n)
	if err != nil {
		return nil, err
	}
	return datatypes.JSON(b), nil
}

func DecodeDietary(raw datatypes.JSON) (*DietaryRequirements, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return nil, nil
	}
	var d DietaryRequirements
	if err := json.Unmarshal(raw, &d); err != nil {
		return nil, err
	}
	return d.Normalize()
}
