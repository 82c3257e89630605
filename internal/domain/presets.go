package domain

import (
	"sort"
	"strings"
)

// Game pairs a board size with its fleet.
type Game struct {
	Name  string  `json:"name"`
	Size  int     `json:"size"`
	Ships Catalog `json:"ships"`
}

var presets = map[string]Game{
	"regular": {
		Name: "regular",
		Size: 10,
		Ships: Catalog{
			{Name: "patrol_boat", Length: 2},
			{Name: "submarine", Length: 3},
			{Name: "destroyer", Length: 3},
			{Name: "cruiser", Length: 4},
			{Name: "aircraft_carrier", Length: 5},
		},
	},
	"mini": {
		Name: "mini",
		Size: 5,
		Ships: Catalog{
			{Name: "patrol_boat", Length: 2},
			{Name: "submarine", Length: 3},
		},
	},
	"mini2": {
		Name: "mini2",
		Size: 6,
		Ships: Catalog{
			{Name: "patrol_boat", Length: 2},
			{Name: "submarine", Length: 3},
			{Name: "destroyer", Length: 3},
		},
	},
	"tiny": {
		Name:  "tiny",
		Size:  4,
		Ships: Catalog{{Name: "patrol_boat", Length: 2}},
	},
}

// Preset returns a named game; the catalog is a fresh copy.
func Preset(name string) (Game, bool) {
	g, ok := presets[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return Game{}, false
	}
	g.Ships = g.Ships.Clone()
	return g, true
}

// Presets lists every built-in game sorted by name.
func Presets() []Game {
	out := make([]Game, 0, len(presets))
	for name := range presets {
		g, _ := Preset(name)
		out = append(out, g)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}
