package classify

import "testing"

// TestClassifyByName covers the category rules, type rules and defaults.
func TestClassifyByName(t *testing.T) {
	tests := []struct {
		name     string
		object   string
		category string
		color    string
		shape    string
		objType  ObjectType
	}{
		{"station", "ISS (ZARYA)", "station", "#4fc3f7", "box", Payload},
		{"telescope", "HST", "telescope", "#ba68c8", "cylinder", Payload},
		{"weather", "NOAA 19", "weather", "#81c784", "sphere", Payload},
		{"earth observation", "SENTINEL-2A", "earth-observation", "#4db6ac", "cone", Payload},
		{"navigation", "NAVSTAR 43 (USA 132)", "navigation", "#ffd54f", "octahedron", Payload},
		{"debris by name", "COSMOS 1408 DEB", "debris", "#ef5350", "tetrahedron", Debris},
		{"rocket body", "CZ-4B R/B", "rocket-body", "#ff8a65", "capsule", RocketBody},
		{"default", "OBJECT A", "unknown", "#9e9e9e", "sphere", Payload},
		{"case insensitive", "iss (zarya)", "station", "#4fc3f7", "box", Payload},
		// FENGYUN matches the weather rule first, but the name still carries
		// the debris type.
		{"fengyun debris", "FENGYUN 1C DEB", "weather", "#81c784", "sphere", Debris},
		{"coolant", "SL-8 COOLANT", "unknown", "#9e9e9e", "sphere", Debris},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			c := Classify(tc.object, false)
			if c.Category != tc.category {
				t.Errorf("category = %q, want %q", c.Category, tc.category)
			}
			if c.Color != tc.color {
				t.Errorf("color = %q, want %q", c.Color, tc.color)
			}
			if c.Shape != tc.shape {
				t.Errorf("shape = %q, want %q", c.Shape, tc.shape)
			}
			if c.Type != tc.objType {
				t.Errorf("type = %q, want %q", c.Type, tc.objType)
			}
		})
	}
}

// TestClassifyDebrisCatalogOverride checks that catalog provenance beats any
// name-based rule, station names included.
func TestClassifyDebrisCatalogOverride(t *testing.T) {
	c := Classify("ISS (ZARYA)", true)
	if c.Category != "debris" || c.Color != "#ef5350" || c.Shape != "tetrahedron" {
		t.Errorf("override classification = %+v", c)
	}
	if c.Type != Debris {
		t.Errorf("type = %q, want Debris", c.Type)
	}
}
