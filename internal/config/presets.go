package config

import (
	"sort"

	"github.com/crush-robotics/turtle-locomotion-oracles/internal/oracle"
)

var Presets = map[string]map[string]*Config{
	"joint": {
		"default": {
			Oracle: "joint", Scale: oracle.Scale{SF: 1.0, SW: 1.0}, Offset: []float64{0, 0, 0},
			Grid: GridConfig{Start: 0, Stop: 10, Samples: 1000},
		},
		"slow": {
			Oracle: "joint", Scale: oracle.Scale{SF: 1.0, SW: 0.5}, Offset: []float64{0, 0, 0},
			Grid: GridConfig{Start: 0, Stop: 20, Samples: 2000},
		},
		"fast": {
			Oracle: "joint", Scale: oracle.Scale{SF: 1.0, SW: 2.0}, Offset: []float64{0, 0, 0},
			Grid: GridConfig{Start: 0, Stop: 10, Samples: 2000},
		},
		"small": {
			Oracle: "joint", Scale: oracle.Scale{SF: 0.5, SW: 1.0}, Offset: []float64{0, 0, 0},
			Grid: GridConfig{Start: 0, Stop: 10, Samples: 1000},
		},
	},
	"task": {
		"default": {
			Oracle: "task", Scale: oracle.Scale{SF: 1.0, SW: 1.0}, Offset: []float64{1, 1, 1},
			Grid: GridConfig{Start: 0, Stop: 10, Samples: 1000},
		},
		"hatchling": {
			Oracle: "task", Scale: oracle.Scale{SF: 0.2, SW: 3.0}, Offset: []float64{0, 0, 0},
			Grid: GridConfig{Start: 0, Stop: 5, Samples: 2000},
		},
		"cruise": {
			Oracle: "task", Scale: oracle.Scale{SF: 1.0, SW: 0.6}, Offset: []float64{0, 0, 0},
			Grid: GridConfig{Start: 0, Stop: 30, Samples: 3000},
		},
		"large": {
			Oracle: "task", Scale: oracle.Scale{SF: 2.0, SW: 1.0}, Offset: []float64{1, 1, 1},
			Grid: GridConfig{Start: 0, Stop: 10, Samples: 1000},
		},
	},
}

// GetPreset returns a copy of the named preset with verification defaults
// filled in, or nil.
func GetPreset(oracleName, preset string) *Config {
	oraclePresets, ok := Presets[oracleName]
	if !ok {
		return nil
	}
	p, ok := oraclePresets[preset]
	if !ok {
		return nil
	}
	cfg := *p
	cfg.Offset = append([]float64(nil), p.Offset...)
	if cfg.Verify == (VerifyConfig{}) {
		cfg.Verify = DefaultConfig().Verify
	}
	return &cfg
}

func ListPresets(oracleName string) []string {
	oraclePresets, ok := Presets[oracleName]
	if !ok {
		return nil
	}
	names := make([]string, 0, len(oraclePresets))
	for name := range oraclePresets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
