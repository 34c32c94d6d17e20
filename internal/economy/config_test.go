package economy

import (
	"os"
	"path/filepath"
	"slices"
	"testing"
)

func TestDefaultConfigIsValid(t *testing.T) {
	cfg := DefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}
}

func TestParseConfigOverlaysDefaults(t *testing.T) {
	cfg, err := ParseConfig([]byte(`
starting_energy: 250
compression:
  threshold: 6
  levels: [2, 6, 4]
`))
	if err != nil {
		t.Fatal(err)
	}
	if cfg.StartingEnergy != 250 {
		t.Errorf("Expected starting energy 250, got %v", cfg.StartingEnergy)
	}
	if cfg.MaxHeat != DefaultMaxHeat {
		t.Errorf("Expected default max heat, got %v", cfg.MaxHeat)
	}
	if cfg.Compression.Threshold != 6 {
		t.Errorf("Expected threshold 6, got %d", cfg.Compression.Threshold)
	}
	want := []int{6, 4, 2}
	for i, l := range want {
		if cfg.Compression.Levels[i] != l {
			t.Errorf("Expected levels sorted descending %v, got %v", want, cfg.Compression.Levels)
			break
		}
	}
	if cfg.Compression.MaxIterations != DefaultCompressionCap {
		t.Errorf("Expected default pass cap, got %d", cfg.Compression.MaxIterations)
	}
}

func TestParseConfigRejectsInvalid(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"negative energy", "starting_energy: -1"},
		{"heat above max", "starting_heat: 150"},
		{"tiny threshold", "compression: {threshold: 1}"},
		{"level below two", "compression: {levels: [16, 1]}"},
		{"no level under threshold", "compression: {threshold: 6, levels: [16, 8]}"},
		{"zero pass cap", "compression: {max_iterations: 0}"},
		{"negative heat per step", "compression: {heat_per_step: -2}"},
		{"unknown rarity", "rarity_weights: {mythic: 3}"},
		{"negative rarity weight", "rarity_weights: {rare: -3}"},
		{"not yaml", "::: ["},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ParseConfig([]byte(tt.yaml)); err == nil {
				t.Error("Expected an error")
			}
		})
	}
}

func TestLoadConfigFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "economy.yaml")
	if err := os.WriteFile(path, []byte("max_heat: 80\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.MaxHeat != 80 {
		t.Errorf("Expected max heat 80, got %v", cfg.MaxHeat)
	}

	if _, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("Expected an error for a missing file")
	}
}

func TestNewEngineLeavesCallerConfigAlone(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Compression.Threshold = 8
	cfg.Compression.Levels = []int{2, 8, 4}

	if _, err := NewEngine(EngineConfig{Config: &cfg}); err != nil {
		t.Fatal(err)
	}
	if want := []int{2, 8, 4}; !slices.Equal(cfg.Compression.Levels, want) {
		t.Errorf("Expected caller's levels %v untouched, got %v", want, cfg.Compression.Levels)
	}
}
