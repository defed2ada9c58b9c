package models

import (
	"encoding/json"
	"errors"
	"reflect"
	"testing"
)

func TestDietaryNormalize(t *testing.T) {
	t.Run("dedupes into canonical order", func(t *testing.T) {
		d := &DietaryRequirements{Options: []string{DietVegan, " Halal ", DietVegetarian, DietVegan}, Allergens: "  sesame "}
		n, err := d.Normalize()
		if err != nil {
			t.Fatalf("Normalize() error = %v", err)
		}
		want := []string{DietVegetarian, DietVegan, DietHalal}
		if !reflect.DeepEqual(n.Options, want) {
			t.Errorf("Options = %v, want %v", n.Options, want)
		}
		if n.Allergens != "sesame" {
			t.Errorf("Allergens = %q, want %q", n.Allergens, "sesame")
		}
	})

	t.Run("empty is nil", func(t *testing.T) {
		n, err := (&DietaryRequirements{Options: []string{""}, Allergens: " "}).Normalize()
		if err != nil || n != nil {
			t.Errorf("Normalize() = %v, %v; want nil, nil", n, err)
		}
	})

	t.Run("unknown option rejected", func(t *testing.T) {
		_, err := (&DietaryRequirements{Options: []string{"Paleo"}}).Normalize()
		var bad *InvalidDietaryOptionError
		if !errors.As(err, &bad) {
			t.Fatalf("Normalize() error = %v, want InvalidDietaryOptionError", err)
		}
		if err.Error() != "Invalid dietary option: Paleo" {
			t.Errorf("message = %q", err.Error())
		}
	})
}

func TestParseLegacyDietary(t *testing.T) {
	tests := []struct {
		in   string
		want *DietaryRequirements
	}{
		{"", nil},
		{"   ", nil},
		{"Vegan", &DietaryRequirements{Options: []string{DietVegan}}},
		{"Kosher, Vegetarian, Allergens: peanuts", &DietaryRequirements{Options: []string{DietVegetarian, DietKosher}, Allergens: "peanuts"}},
		{"no onions", &DietaryRequirements{Options: []string{}, Allergens: "no onions"}},
	}
	for _, tt := range tests {
		got := ParseLegacyDietary(tt.in)
		if !reflect.DeepEqual(got, tt.want) {
			t.Errorf("ParseLegacyDietary(%q) = %+v, want %+v", tt.in, got, tt.want)
		}
	}
}

func TestDietaryUnmarshalAcceptsBothForms(t *testing.T) {
	var fromString DietaryRequirements
	if err := json.Unmarshal([]byte(`"Vegan, Allergens: shellfish"`), &fromString); err != nil {
		t.Fatalf("unmarshal string: %v", err)
	}
	var fromObject DietaryRequirements
	if err := json.Unmarshal([]byte(`{"options":["Vegan"],"allergens":"shellfish"}`), &fromObject); err != nil {
		t.Fatalf("unmarshal object: %v", err)
	}
	if fromString.String() != "Vegan, Allergens: shellfish" {
		t.Errorf("string form = %q", fromString.String())
	}
	if fromObject.String() != fromString.String() {
		t.Errorf("object form %q != string form %q", fromObject.String(), fromString.String())
	}
}

func TestEncodeDecodeDietary(t *testing.T) {
	raw, err := EncodeDietary(nil)
	if err != nil || raw != nil {
		t.Fatalf("EncodeDietary(nil) = %s, %v; want nil", raw, err)
	}

	raw, err = EncodeDietary(&DietaryRequirements{Options: []string{DietGlutenFree, DietGlutenFree}})
	if err != nil {
		t.Fatalf("EncodeDietary() error = %v", err)
	}
	d, err := DecodeDietary(raw)
	if err != nil {
		t.Fatalf("DecodeDietary() error = %v", err)
	}
	if d == nil || len(d.Options) != 1 || d.Options[0] != DietGlutenFree {
		t.Errorf("DecodeDietary() = %+v", d)
	}

	if d, err := DecodeDietary(nil); d != nil || err != nil {
		t.Errorf("DecodeDietary(nil) = %v, %v", d, err)
	}
}
