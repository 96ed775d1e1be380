// Package classify assigns display categories, colors, shapes and object
// types to catalog objects from their names. Classification is heuristic:
// an ordered list of keyword rules evaluated first-match-wins, with a
// defined default when nothing matches. Objects known to come from a debris
// catalog override name-based inference entirely.
package classify

import "strings"

// ObjectType is the coarse payload/debris/rocket-body classification.
type ObjectType string

const (
	Payload    ObjectType = "Payload"
	Debris     ObjectType = "Debris"
	RocketBody ObjectType = "Rocket Body"
)

// Classification is the full display classification of one object.
type Classification struct {
	Category string
	Color    string
	Shape    string
	Type     ObjectType
}

// categoryRule maps name keywords to a category with its display style.
// Rules are evaluated in order; the first keyword hit wins.
type categoryRule struct {
	keywords []string
	category string
	color    string
	shape    string
}

var categoryRules = []categoryRule{
	{[]string{"ISS", "ZARYA", "TIANGONG", "STATION", "MIR"}, "station", "#4fc3f7", "box"},
	{[]string{"HST", "HUBBLE", "TELESCOPE", "WEBB", "CHANDRA", "KEPLER"}, "telescope", "#ba68c8", "cylinder"},
	{[]string{"NOAA", "GOES", "METOP", "METEOR", "FENGYUN", "HIMAWARI"}, "weather", "#81c784", "sphere"},
	{[]string{"LANDSAT", "SENTINEL", "TERRA", "AQUA", "WORLDVIEW", "SPOT"}, "earth-observation", "#4db6ac", "cone"},
	{[]string{"GPS", "NAVSTAR", "GLONASS", "GALILEO", "BEIDOU"}, "navigation", "#ffd54f", "octahedron"},
	{[]string{"DEB", "DEBRIS", "FRAG"}, "debris", "#ef5350", "tetrahedron"},
	{[]string{"R/B", "ROCKET"}, "rocket-body", "#ff8a65", "capsule"},
}

// Defaults used when no rule matches.
const (
	defaultCategory = "unknown"
	defaultColor    = "#9e9e9e"
	defaultShape    = "sphere"
)

// Debris display style applied by the catalog override.
const (
	debrisCategory = "debris"
	debrisColor    = "#ef5350"
	debrisShape    = "tetrahedron"
)

// typeRule maps name patterns to an object type. Debris and rocket-body
// patterns are checked before defaulting to Payload.
type typeRule struct {
	patterns []string
	objType  ObjectType
}

var typeRules = []typeRule{
	{[]string{" DEB", "DEBRIS", "FRAG", "COOLANT", "WESTFORD"}, Debris},
	{[]string{" R/B", "AKM", "PAM-"}, RocketBody},
}

// Classify returns the display classification for an object name.
// fromDebrisCatalog forces the debris category, shape, color and type,
// taking precedence over every name rule.
func Classify(name string, fromDebrisCatalog bool) Classification {
	if fromDebrisCatalog {
		return Classification{
			Category: debrisCategory,
			Color:    debrisColor,
			Shape:    debrisShape,
			Type:     Debris,
		}
	}

	upper := strings.ToUpper(name)

	c := Classification{
		Category: defaultCategory,
		Color:    defaultColor,
		Shape:    defaultShape,
		Type:     classifyType(upper),
	}

	for _, rule := range categoryRules {
		for _, kw := range rule.keywords {
			if strings.Contains(upper, kw) {
				c.Category = rule.category
				c.Color = rule.color
				c.Shape = rule.shape
				return c
			}
		}
	}
	return c
}

// classifyType applies the payload/debris/rocket-body rules independently of
// the category heuristic.
func classifyType(upperName string) ObjectType {
	for _, rule := range typeRules {
		for _, p := range rule.patterns {
			if strings.Contains(upperName, p) {
				return rule.objType
			}
		}
	}
	return Payload
}
