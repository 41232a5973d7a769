// Package config decodes the HCL document that parameterizes a mining run:
// t_alpha, L_max, firsts_n, the elbow-detection parameters, and the
// downstream score-weight table a fact-synthesis layer built on top of this
// package's output would consume. It is passed explicitly through every
// pipeline constructor rather than held as a package global.
package config

import (
	"fmt"

	"github.com/hashicorp/hcl/v2/hclsimple"

	"github.com/agentic-research/adtree/internal/mutualinfo"
)

// Config is threaded explicitly through every pipeline constructor; no
// package holds it as a global.
type Config struct {
	TAlpha     int64             `hcl:"t_alpha,optional"`
	LMax       int               `hcl:"l_max,optional"`
	FirstsN    int               `hcl:"firsts_n,optional"`
	Prominence float64           `hcl:"elbow_prominence,optional"`
	MinDist    int               `hcl:"elbow_min_distance,optional"`
	Weights    map[string]float64 `hcl:"score_weights,optional"`
}

// Default returns the configuration used when no file is supplied: a
// minimum support of 1 (so the +1 Laplace smoothing never divides by a
// degenerate marginal), subsets up to triples, the top 25 pairings per
// level, and the default elbow parameters.
func Default() Config {
	return Config{
		TAlpha:     1,
		LMax:       3,
		FirstsN:    25,
		Prominence: mutualinfo.DefaultElbowParams().Prominence,
		MinDist:    mutualinfo.DefaultElbowParams().MinDistance,
	}
}

// Load decodes an HCL configuration file, filling in any field left unset
// with Default()'s value.
func Load(path string) (Config, error) {
	cfg := Default()
	if err := hclsimple.DecodeFile(path, nil, &cfg); err != nil {
		return Config{}, fmt.Errorf("config: decode %s: %w", path, err)
	}
	if cfg.TAlpha < 0 {
		return Config{}, fmt.Errorf("config: t_alpha must be >= 0, got %d", cfg.TAlpha)
	}
	if cfg.LMax < 1 {
		return Config{}, fmt.Errorf("config: l_max must be >= 1, got %d", cfg.LMax)
	}
	if cfg.FirstsN < 1 {
		return Config{}, fmt.Errorf("config: firsts_n must be >= 1, got %d", cfg.FirstsN)
	}
	return cfg, nil
}

// ElbowParams projects the elbow-detection fields into mutualinfo's
// parameter type.
func (c Config) ElbowParams() mutualinfo.ElbowParams {
	return mutualinfo.ElbowParams{Prominence: c.Prominence, MinDistance: c.MinDist}
}
