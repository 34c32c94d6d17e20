package net

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadSessionConfigDefaults(t *testing.T) {
	dir := t.TempDir()
	sc, err := LoadSessionConfig(
		filepath.Join(dir, "elements.yaml"),
		filepath.Join(dir, "molecules.yaml"),
		filepath.Join(dir, "economy.yaml"),
	)
	if err != nil {
		t.Fatal(err)
	}
	if sc.Index.Max() != 26 {
		t.Errorf("Expected static table up to iron, got max %d", sc.Index.Max())
	}
	if sc.Config.StartingEnergy != 100 {
		t.Errorf("Expected default starting energy, got %v", sc.Config.StartingEnergy)
	}
	if len(sc.Recipes) != 0 {
		t.Errorf("Expected empty catalog, got %d", len(sc.Recipes))
	}
}

func TestLoadSessionConfigFiles(t *testing.T) {
	dir := t.TempDir()
	write := func(name, body string) string {
		p := filepath.Join(dir, name)
		if err := os.WriteFile(p, []byte(body), 0o644); err != nil {
			t.Fatal(err)
		}
		return p
	}
	mol := write("molecules.yaml", "molecules:\n  - id: h2\n    name: Hydrogen Gas\n    elements: [1]\n    element_counts: {H: 2}\n    rarity: common\n")
	eco := write("economy.yaml", "starting_energy: 42\n")

	sc, err := LoadSessionConfig(filepath.Join(dir, "none.yaml"), mol, eco)
	if err != nil {
		t.Fatal(err)
	}
	if sc.Config.StartingEnergy != 42 {
		t.Errorf("Expected starting energy 42, got %v", sc.Config.StartingEnergy)
	}
	if len(sc.Recipes) != 1 || sc.Recipes[0].ID != "h2" {
		t.Errorf("Unexpected catalog %+v", sc.Recipes)
	}

	bad := write("bad.yaml", "starting_energy: -1\n")
	if _, err := LoadSessionConfig(filepath.Join(dir, "none.yaml"), mol, bad); err == nil {
		t.Error("Expected invalid economy config to fail")
	}
}
