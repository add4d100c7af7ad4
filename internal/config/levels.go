package config

import (
	"errors"
	"sort"
)

var ErrUnknownLevel = errors.New("config: unknown level")

type Point struct {
	X float64 `yaml:"x" json:"x"`
	Y float64 `yaml:"y" json:"y"`
}

// Level is a fixed star layout with the point balls drop from.
type Level struct {
	Name        string  `yaml:"name" json:"name"`
	Description string  `yaml:"description" json:"description"`
	Spawn       Point   `yaml:"spawn" json:"spawn"`
	Stars       []Point `yaml:"stars" json:"stars"`
	Hint        string  `yaml:"hint" json:"hint"`
}

var Levels = map[string]*Level{
	"tutorial": {
		Name:        "tutorial",
		Description: "one ramp, three stars",
		Spawn:       Point{X: -8, Y: 6},
		Stars:       []Point{{X: -4, Y: 0.2}, {X: 0, Y: -1.8}, {X: 4, Y: -3.8}},
		Hint:        "y = -0.5x - 2",
	},
	"valley": {
		Name:        "valley",
		Description: "roll down one side and up the other",
		Spawn:       Point{X: -3, Y: 6},
		Stars:       []Point{{X: -2, Y: -1.2}, {X: 0, Y: -2.8}, {X: 1.5, Y: -1.9}},
		Hint:        "y = 0.4x^2 - 3",
	},
	"steps": {
		Name:        "steps",
		Description: "a ledge that ends in mid air",
		Spawn:       Point{X: -8, Y: 6},
		Stars:       []Point{{X: -6, Y: 3.2}, {X: -2, Y: 1.2}, {X: 3, Y: -2}},
		Hint:        "y = -0.5x { x < 0 }",
	},
	"wave": {
		Name:        "wave",
		Description: "ride the ripples down",
		Spawn:       Point{X: -9, Y: 5},
		Stars:       []Point{{X: -5, Y: 0.65}, {X: -2, Y: -2.7}, {X: 1, Y: -2.45}, {X: 4, Y: -5.55}},
		Hint:        "y = sin(x) - 0.5x - 3",
	},
	"wall": {
		Name:        "wall",
		Description: "a sideways curve turns the drop around",
		Spawn:       Point{X: 2, Y: 6},
		Stars:       []Point{{X: 1.25, Y: 0}, {X: 1.6, Y: -2.2}},
		Hint:        "x = 0.1y^2 + 1",
	},
}

// GetLevel returns the named level or nil.
func GetLevel(name string) *Level {
	return Levels[name]
}

// ListLevels returns the level names in sorted order.
func ListLevels() []string {
	names := make([]string, 0, len(Levels))
	for name := range Levels {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
