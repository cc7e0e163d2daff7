// levels contains the level generators environments are built from, and a registry
// that selects one by name from configuration.
package levels

import (
	"sort"

	"gymtable/table_env"

	"github.com/pkg/errors"
)

var (
	ErrUnknownLevel = errors.New("unknown level")
	ErrBadLayout    = errors.New("malformed level layout")
	ErrTooSmall     = errors.New("grid too small for level")
)

// Spec selects and parameterizes a level. Layout and Mission are only used by the
// layout level.
type Spec struct {
	Name        string   `yaml:"name"`
	RandomStart bool     `yaml:"randomstart"`
	Layout      []string `yaml:"layout"`
	Mission     string   `yaml:"mission"`
}

type builder func(spec Spec) (table_env.Generator, error)

var registry = map[string]builder{
	"empty": func(spec Spec) (table_env.Generator, error) {
		return &Empty{RandomStart: spec.RandomStart}, nil
	},
	"doorkey": func(spec Spec) (table_env.Generator, error) {
		return &DoorKey{}, nil
	},
	"layout": func(spec Spec) (table_env.Generator, error) {
		return NewLayout(spec.Layout, spec.Mission)
	},
	"debug": func(spec Spec) (table_env.Generator, error) {
		return NewLayout(DebugLayout, DebugMission)
	},
}

// New returns the generator named by spec.
func New(spec Spec) (table_env.Generator, error) {
	build, ok := registry[spec.Name]
	if !ok {
		return nil, errors.Wrapf(ErrUnknownLevel, "%q", spec.Name)
	}
	return build(spec)
}

// Names lists the registered levels.
func Names() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
