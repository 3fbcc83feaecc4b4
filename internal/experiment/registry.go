package experiment

import (
	"errors"
	"fmt"
	"sort"

	"github.com/crush-robotics/turtle-locomotion-oracles/internal/oracle"
)

var ErrUnknownOracle = errors.New("experiment: unknown oracle")

// Oracle is a constructed oracle reduced to what sampling and verification
// need.
type Oracle struct {
	Name     string
	Scale    oracle.Scale
	Offset   oracle.Vec3
	Period   float64
	Channels []oracle.Channel
}

type Constructor func(scale oracle.Scale, offset oracle.Vec3) (*Oracle, error)

type Registry struct {
	oracles map[string]Constructor
	aliases map[string]string
}

func NewRegistry() *Registry {
	r := &Registry{
		oracles: make(map[string]Constructor),
		aliases: make(map[string]string),
	}

	r.Register("joint", func(scale oracle.Scale, offset oracle.Vec3) (*Oracle, error) {
		j, err := oracle.NewJointSpace(scale, offset)
		if err != nil {
			return nil, err
		}
		return &Oracle{Scale: scale, Offset: offset, Period: j.Period(), Channels: []oracle.Channel{j.Channel()}}, nil
	}, "cornelia")

	r.Register("task", func(scale oracle.Scale, offset oracle.Vec3) (*Oracle, error) {
		ts, err := oracle.NewTaskSpace(scale, offset)
		if err != nil {
			return nil, err
		}
		return &Oracle{Scale: scale, Offset: offset, Period: ts.Period(), Channels: ts.Channels()}, nil
	}, "green_sea_turtle")

	return r
}

// Register adds a constructor under name and any aliases, replacing
// earlier entries.
func (r *Registry) Register(name string, c Constructor, aliases ...string) {
	r.oracles[name] = c
	for _, a := range aliases {
		r.aliases[a] = name
	}
}

// Canonical resolves an alias to its registered name.
func (r *Registry) Canonical(name string) (string, error) {
	if _, ok := r.oracles[name]; ok {
		return name, nil
	}
	if c, ok := r.aliases[name]; ok {
		return c, nil
	}
	return "", fmt.Errorf("%w: %s (available: %v)", ErrUnknownOracle, name, r.Names())
}

func (r *Registry) Build(name string, scale oracle.Scale, offset oracle.Vec3) (*Oracle, error) {
	canonical, err := r.Canonical(name)
	if err != nil {
		return nil, err
	}
	o, err := r.oracles[canonical](scale, offset)
	if err != nil {
		return nil, err
	}
	o.Name = canonical
	return o, nil
}

// Names lists registered names followed by aliases, each group sorted.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.oracles))
	for name := range r.oracles {
		names = append(names, name)
	}
	sort.Strings(names)

	aliases := make([]string, 0, len(r.aliases))
	for a := range r.aliases {
		aliases = append(aliases, a)
	}
	sort.Strings(aliases)
	return append(names, aliases...)
}

// Aliases returns the aliases of a registered name, sorted.
func (r *Registry) Aliases(name string) []string {
	var out []string
	for a, c := range r.aliases {
		if c == name {
			out = append(out, a)
		}
	}
	sort.Strings(out)
	return out
}
