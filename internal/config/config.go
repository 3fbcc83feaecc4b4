package config

import (
	"errors"
	"fmt"
	"math"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/crush-robotics/turtle-locomotion-oracles/internal/oracle"
)

const (
	DefaultOracle    = "joint"
	DefaultSF        = 1.0
	DefaultSW        = 1.0
	DefaultStart     = 0.0
	DefaultStop      = 10.0
	DefaultSamples   = 1000
	DefaultEps       = 1e-5
	DefaultTolerance = 1e-6
)

var ErrInvalidConfig = errors.New("config: invalid configuration")

type Config struct {
	Oracle  string       `yaml:"oracle"`
	Scale   oracle.Scale `yaml:"scale"`
	Offset  []float64    `yaml:"offset"`
	Grid    GridConfig   `yaml:"grid"`
	Verify  VerifyConfig `yaml:"verify"`
	DataDir string       `yaml:"data_dir,omitempty"`
}

type GridConfig struct {
	Start   float64 `yaml:"start"`
	Stop    float64 `yaml:"stop"`
	Samples int     `yaml:"samples"`
}

type VerifyConfig struct {
	Eps       float64 `yaml:"eps"`
	Tolerance float64 `yaml:"tolerance"`
}

func DefaultConfig() *Config {
	return &Config{
		Oracle: DefaultOracle,
		Scale:  oracle.Scale{SF: DefaultSF, SW: DefaultSW},
		Offset: []float64{0, 0, 0},
		Grid: GridConfig{
			Start:   DefaultStart,
			Stop:    DefaultStop,
			Samples: DefaultSamples,
		},
		Verify: VerifyConfig{
			Eps:       DefaultEps,
			Tolerance: DefaultTolerance,
		},
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Keys reports the keys present in a config file. Nested mapping keys are
// reported both as their section and as dotted paths, e.g. "scale" and
// "scale.sf".
func Keys(path string) (map[string]bool, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	keys := make(map[string]bool)
	if len(doc.Content) == 0 {
		return keys, nil
	}
	root := doc.Content[0]
	if root.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("%w: %s is not a mapping", ErrInvalidConfig, path)
	}
	collectKeys(root, "", keys)
	return keys, nil
}

func collectKeys(n *yaml.Node, prefix string, keys map[string]bool) {
	for i := 0; i+1 < len(n.Content); i += 2 {
		name := prefix + n.Content[i].Value
		keys[name] = true
		if v := n.Content[i+1]; v.Kind == yaml.MappingNode {
			collectKeys(v, name+".", keys)
		}
	}
}

// Merge copies the fields of src named by keys, as returned by Keys, over
// dst. A section key without dotted children copies the whole section.
func Merge(dst, src *Config, keys map[string]bool) {
	field := func(section, name string) bool {
		return keys[section+"."+name] || (keys[section] && !hasChildren(keys, section))
	}
	if keys["oracle"] {
		dst.Oracle = src.Oracle
	}
	if field("scale", "sf") {
		dst.Scale.SF = src.Scale.SF
	}
	if field("scale", "sw") {
		dst.Scale.SW = src.Scale.SW
	}
	if keys["offset"] {
		dst.Offset = append([]float64(nil), src.Offset...)
	}
	if field("grid", "start") {
		dst.Grid.Start = src.Grid.Start
	}
	if field("grid", "stop") {
		dst.Grid.Stop = src.Grid.Stop
	}
	if field("grid", "samples") {
		dst.Grid.Samples = src.Grid.Samples
	}
	if field("verify", "eps") {
		dst.Verify.Eps = src.Verify.Eps
	}
	if field("verify", "tolerance") {
		dst.Verify.Tolerance = src.Verify.Tolerance
	}
	if keys["data_dir"] {
		dst.DataDir = src.DataDir
	}
}

func hasChildren(keys map[string]bool, section string) bool {
	for k := range keys {
		if strings.HasPrefix(k, section+".") {
			return true
		}
	}
	return false
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Validate checks everything the oracle factories and the sampler would
// otherwise reject later.
func (c *Config) Validate() error {
	if err := c.Scale.Validate(); err != nil {
		return err
	}
	if _, err := c.OffsetVec(); err != nil {
		return err
	}
	if c.Grid.Samples < 1 {
		return fmt.Errorf("%w: grid.samples must be at least 1, got %d", ErrInvalidConfig, c.Grid.Samples)
	}
	if !finite(c.Grid.Start) || !finite(c.Grid.Stop) {
		return fmt.Errorf("%w: grid bounds must be finite", ErrInvalidConfig)
	}
	if !(c.Verify.Eps > 0) || !(c.Verify.Tolerance > 0) {
		return fmt.Errorf("%w: verify.eps and verify.tolerance must be positive", ErrInvalidConfig)
	}
	return nil
}

func (c *Config) OffsetVec() (oracle.Vec3, error) {
	return oracle.OffsetFromSlice(c.Offset)
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
