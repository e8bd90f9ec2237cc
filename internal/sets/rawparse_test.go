package sets

import (
	"errors"
	"testing"

	"github.com/tidwall/gjson"
)

func parseRaw(t *testing.T, raw string) (Definition, error) {
	t.Helper()
	if !gjson.Valid(raw) {
		t.Fatalf("test fixture is not valid JSON: %s", raw)
	}
	return ParseDefinition(gjson.Parse(raw))
}

func TestParseDefinitionMapsBonuses(t *testing.T) {
	def, err := parseRaw(t, `{"id":7,"name":"  Galaxy Brain ","wearableIds":[48,49,50,49],
		"traitBonuses":[1,-2,3,-4,0,0],"setBonusBRS":3}`)
	if err != nil {
		t.Fatalf("ParseDefinition: %v", err)
	}
	if def.Name != "Galaxy Brain" {
		t.Errorf("Name = %q, want trimmed name", def.Name)
	}
	want := Modifiers{NRG: 1, AGG: -2, SPK: 3, BRN: -4}
	if def.Modifiers != want {
		t.Errorf("Modifiers = %+v, want %+v", def.Modifiers, want)
	}
	if def.SetBonusBRS != 3 {
		t.Errorf("SetBonusBRS = %d, want 3", def.SetBonusBRS)
	}
	if def.ItemCount() != 3 {
		t.Errorf("ItemCount = %d, want 3 (duplicate 49 dropped)", def.ItemCount())
	}
	if def.ID != "" {
		t.Errorf("ID = %q, want empty before catalog assignment", def.ID)
	}
}

func TestParseDefinitionFallsBackToID(t *testing.T) {
	def, err := parseRaw(t, `{"id":12,"traitBonuses":[0,0,0,0,0,0],"setBonusBRS":1}`)
	if err != nil {
		t.Fatalf("ParseDefinition: %v", err)
	}
	if def.Name != "12" {
		t.Errorf("Name = %q, want id fallback", def.Name)
	}
	if def.RequiredWearableIDs == nil || len(def.RequiredWearableIDs) != 0 {
		t.Errorf("RequiredWearableIDs = %v, want empty", def.RequiredWearableIDs)
	}
}

func TestParseDefinitionAcceptsWholeFloats(t *testing.T) {
	def, err := parseRaw(t, `{"name":"x","traitBonuses":[2.0,-1,0,0,0.0,-0],"setBonusBRS":3.0}`)
	if err != nil {
		t.Fatalf("ParseDefinition: %v", err)
	}
	if def.Modifiers != (Modifiers{NRG: 2, AGG: -1}) || def.SetBonusBRS != 3 {
		t.Errorf("got %+v brs %d", def.Modifiers, def.SetBonusBRS)
	}
}

func TestParseDefinitionFloatIDFallback(t *testing.T) {
	def, err := parseRaw(t, `{"id":12.5,"traitBonuses":[0,0,0,0,0,0],"setBonusBRS":1}`)
	if err != nil {
		t.Fatalf("ParseDefinition: %v", err)
	}
	if def.Name != "12.5" {
		t.Errorf("Name = %q, want 12.5", def.Name)
	}
}

func TestParseDefinitionRejects(t *testing.T) {
	cases := []struct {
		name  string
		raw   string
		field string
	}{
		{"no name or id", `{"traitBonuses":[0,0,0,0,0,0],"setBonusBRS":1}`, "name"},
		{"blank name and id", `{"name":"  ","id":"","traitBonuses":[0,0,0,0,0,0],"setBonusBRS":1}`, "name"},
		{"missing bonuses", `{"name":"x","setBonusBRS":1}`, "traitBonuses"},
		{"short bonuses", `{"name":"x","traitBonuses":[0,0,0,0,0],"setBonusBRS":1}`, "traitBonuses"},
		{"long bonuses", `{"name":"x","traitBonuses":[0,0,0,0,0,0,0],"setBonusBRS":1}`, "traitBonuses"},
		{"string bonus", `{"name":"x","traitBonuses":[0,"1",0,0,0,0],"setBonusBRS":1}`, "traitBonuses"},
		{"null bonus", `{"name":"x","traitBonuses":[0,null,0,0,0,0],"setBonusBRS":1}`, "traitBonuses"},
		{"eye shape bonus", `{"name":"x","traitBonuses":[0,0,0,0,1,0],"setBonusBRS":1}`, "traitBonuses"},
		{"eye color bonus", `{"name":"x","traitBonuses":[0,0,0,0,0,-1],"setBonusBRS":1}`, "traitBonuses"},
		{"fractional eye bonus", `{"name":"x","traitBonuses":[0,0,0,0,0.4,0],"setBonusBRS":1}`, "traitBonuses"},
		{"fractional eye color", `{"name":"x","traitBonuses":[0,0,0,0,0,-0.2],"setBonusBRS":1}`, "traitBonuses"},
		{"fractional bonus", `{"name":"x","traitBonuses":[0,1.5,0,0,0,0],"setBonusBRS":1}`, "traitBonuses"},
		{"huge bonus", `{"name":"x","traitBonuses":[1e300,0,0,0,0,0],"setBonusBRS":1}`, "traitBonuses"},
		{"fractional brs", `{"name":"x","traitBonuses":[0,0,0,0,0,0],"setBonusBRS":2.5}`, "setBonusBRS"},
		{"missing brs", `{"name":"x","traitBonuses":[0,0,0,0,0,0]}`, "setBonusBRS"},
		{"string brs", `{"name":"x","traitBonuses":[0,0,0,0,0,0],"setBonusBRS":"2"}`, "setBonusBRS"},
		{"null brs", `{"name":"x","traitBonuses":[0,0,0,0,0,0],"setBonusBRS":null}`, "setBonusBRS"},
		{"bad wearable", `{"name":"x","wearableIds":[1,"a"],"traitBonuses":[0,0,0,0,0,0],"setBonusBRS":1}`, "wearableIds"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			_, err := parseRaw(t, c.raw)
			var ve *ValidationError
			if !errors.As(err, &ve) {
				t.Fatalf("err = %v, want *ValidationError", err)
			}
			if ve.Field != c.field {
				t.Errorf("Field = %q, want %q (%v)", ve.Field, c.field, ve)
			}
			if ve.Index != -1 {
				t.Errorf("Index = %d, want -1 for a standalone parse", ve.Index)
			}
		})
	}
}

func TestSlug(t *testing.T) {
	cases := map[string]string{
		"Galaxy Brain":         "galaxy-brain",
		"  Mythical Sergeant ": "mythical-sergeant",
		"Aagent (Headset)":     "aagent-headset",
		"--Link--Marine--":     "link-marine",
		"Sign of Vitalik!":     "sign-of-vitalik",
		"":                     "",
	}
	for in, want := range cases {
		if got := Slug(in); got != want {
			t.Errorf("Slug(%q) = %q, want %q", in, got, want)
		}
	}
}
