package economy

import (
	"fmt"
	"math"
	"os"
	"sort"

	"github.com/peterkuimelis/nucleon/internal/chem"
	"gopkg.in/yaml.v3"
)

const (
	DefaultStartingEnergy    = 100
	DefaultMaxHeat           = 100
	DefaultCompressionCap    = 20
	DefaultSupernovaIgnition = 25
)

// Config holds the tunable numbers of one economy. It maps directly to economy.yaml.
type Config struct {
	StartingEnergy float64           `yaml:"starting_energy"`
	StartingHeat   float64           `yaml:"starting_heat"`
	MaxHeat        float64           `yaml:"max_heat"`
	Compression    CompressionConfig `yaml:"compression"`

	// SupernovaIgnition is the flat base cost added to every target in (26, 92].
	SupernovaIgnition float64 `yaml:"supernova_ignition"`

	// RarityWeights maps rarity name → base draw weight.
	RarityWeights map[string]float64 `yaml:"rarity_weights"`
}

// CompressionConfig parameterizes the compression cascade.
type CompressionConfig struct {
	Threshold     int   `yaml:"threshold"`      // stockpile size that triggers compression
	Levels        []int `yaml:"levels"`         // batch sizes, each yields Level/2 of the next tier
	MaxIterations int   `yaml:"max_iterations"` // pass cap for the cascade
	HeatPerStep   int   `yaml:"heat_per_step"`  // heat added per compression step
}

// DefaultConfig returns the stock balance.
func DefaultConfig() Config {
	return Config{
		StartingEnergy: DefaultStartingEnergy,
		StartingHeat:   0,
		MaxHeat:        DefaultMaxHeat,
		Compression: CompressionConfig{
			Threshold:     16,
			Levels:        []int{16, 8, 6, 4, 2},
			MaxIterations: DefaultCompressionCap,
			HeatPerStep:   0,
		},
		SupernovaIgnition: DefaultSupernovaIgnition,
		RarityWeights: map[string]float64{
			"common":    50,
			"uncommon":  25,
			"rare":      12,
			"epic":      5,
			"legendary": 1,
		},
	}
}

// LoadConfig reads a YAML file on top of DefaultConfig and validates the result.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, err
	}
	return ParseConfig(data)
}

// ParseConfig decodes YAML on top of DefaultConfig.
func ParseConfig(data []byte) (Config, error) {
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse economy YAML: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks that every field is usable. Compression levels are sorted
// descending as a side effect.
func (c *Config) Validate() error {
	for name, v := range map[string]float64{
		"starting_energy":    c.StartingEnergy,
		"starting_heat":      c.StartingHeat,
		"max_heat":           c.MaxHeat,
		"supernova_ignition": c.SupernovaIgnition,
	} {
		if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
			return fmt.Errorf("config: %s must be a finite non-negative number, got %v", name, v)
		}
	}
	if c.StartingHeat > c.MaxHeat {
		return fmt.Errorf("config: starting_heat %v exceeds max_heat %v", c.StartingHeat, c.MaxHeat)
	}

	cc := &c.Compression
	if cc.Threshold < 2 {
		return fmt.Errorf("config: compression threshold must be >= 2, got %d", cc.Threshold)
	}
	if len(cc.Levels) == 0 {
		return fmt.Errorf("config: at least one compression level is required")
	}
	for _, l := range cc.Levels {
		// A level below 2 would consume units without producing any.
		if l < 2 {
			return fmt.Errorf("config: compression level %d must be >= 2", l)
		}
	}
	sort.Sort(sort.Reverse(sort.IntSlice(cc.Levels)))
	if cc.Levels[len(cc.Levels)-1] > cc.Threshold {
		return fmt.Errorf("config: no compression level is at or below threshold %d", cc.Threshold)
	}
	if cc.MaxIterations < 1 {
		return fmt.Errorf("config: compression max_iterations must be >= 1, got %d", cc.MaxIterations)
	}
	if cc.HeatPerStep < 0 {
		return fmt.Errorf("config: compression heat_per_step must be >= 0, got %d", cc.HeatPerStep)
	}

	for name, w := range c.RarityWeights {
		if _, err := chem.ParseRarity(name); err != nil {
			return fmt.Errorf("config: rarity_weights: %w", err)
		}
		if math.IsNaN(w) || math.IsInf(w, 0) || w < 0 {
			return fmt.Errorf("config: rarity weight for %s must be a finite non-negative number", name)
		}
	}
	return nil
}

// rarityWeight returns the configured base weight for a rarity (0 if unset).
func (c Config) rarityWeight(r chem.Rarity) float64 {
	return c.RarityWeights[r.String()]
}
