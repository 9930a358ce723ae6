package pipeline

import (
	"fmt"
	"sort"

	"github.com/tarungka/rxwire/stream"
)

var mappers = map[string]stream.MapFunction[int]{
	"identity": func(v int) int { return v },
	"double":   func(v int) int { return v * 2 },
	"square":   func(v int) int { return v * v },
	"negate":   func(v int) int { return -v },
}

// LookupMapper returns the named map function. An empty name means no map
// stage and returns nil.
func LookupMapper(name string) (stream.MapFunction[int], error) {
	if name == "" {
		return nil, nil
	}
	fn, ok := mappers[name]
	if !ok {
		return nil, fmt.Errorf("unknown mapper %q (known: %v)", name, MapperNames())
	}
	return fn, nil
}

func MapperNames() []string {
	names := make([]string, 0, len(mappers))
	for name := range mappers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
