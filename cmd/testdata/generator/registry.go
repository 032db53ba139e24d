package generator

import (
	"fmt"
	"slices"
)

// Registry maps generator names to generator factory functions.
// Factories allow parameterization such as the station count.
var Registry = map[string]func(stations int) Generator{
	"measurements": func(stations int) Generator {
		return &MeasurementGenerator{StationCount: stations}
	},
	"malformed": func(stations int) Generator {
		return &MalformedGenerator{MeasurementGenerator: MeasurementGenerator{StationCount: stations}, Ratio: 0.01}
	},
}

// Get returns a generator by name
func Get(name string, stations int) (Generator, error) {
	factory, exists := Registry[name]
	if !exists {
		return nil, fmt.Errorf("unknown generator: %s", name)
	}
	return factory(stations), nil
}

// List returns all available generator names, sorted
func List() []string {
	names := make([]string, 0, len(Registry))
	for name := range Registry {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}
