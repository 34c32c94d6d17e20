package chem

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Rarity grades a molecule recipe for draw weighting.
type Rarity int

const (
	RarityCommon Rarity = iota
	RarityUncommon
	RarityRare
	RarityEpic
	RarityLegendary
)

func (r Rarity) String() string {
	switch r {
	case RarityCommon:
		return "common"
	case RarityUncommon:
		return "uncommon"
	case RarityRare:
		return "rare"
	case RarityEpic:
		return "epic"
	case RarityLegendary:
		return "legendary"
	default:
		return "unknown"
	}
}

// ParseRarity maps a rarity name to its value.
func ParseRarity(s string) (Rarity, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "common", "":
		return RarityCommon, nil
	case "uncommon":
		return RarityUncommon, nil
	case "rare":
		return RarityRare, nil
	case "epic":
		return RarityEpic, nil
	case "legendary":
		return RarityLegendary, nil
	default:
		return RarityCommon, fmt.Errorf("unknown rarity %q", s)
	}
}

// MarshalText implements encoding.TextMarshaler.
func (r Rarity) MarshalText() ([]byte, error) {
	return []byte(r.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (r *Rarity) UnmarshalText(text []byte) error {
	v, err := ParseRarity(string(text))
	if err != nil {
		return err
	}
	*r = v
	return nil
}

// Recipe is one molecule in the catalog.
type Recipe struct {
	ID            string         `yaml:"id" json:"id"`
	Name          string         `yaml:"name" json:"name"`
	Elements      []int          `yaml:"elements" json:"elements"`             // atomic numbers involved
	ElementCounts map[string]int `yaml:"element_counts" json:"elementCounts"` // symbol → atoms per molecule
	Rarity        Rarity         `yaml:"rarity" json:"rarity"`
}

// MaxElement returns the highest atomic number the recipe needs.
func (r Recipe) MaxElement() int {
	max := 0
	for _, z := range r.Elements {
		if z > max {
			max = z
		}
	}
	return max
}

// ElementCount returns the total number of atoms in one molecule.
// Recipes without counts fall back to the number of distinct elements.
func (r Recipe) ElementCount() int {
	total := 0
	for _, n := range r.ElementCounts {
		total += n
	}
	if total == 0 {
		total = len(r.Elements)
	}
	return total
}

// RecipeFile represents the top-level YAML structure of molecules.yaml.
type RecipeFile struct {
	Molecules []Recipe `yaml:"molecules"`
}

// LoadRecipes reads the molecule catalog from a YAML file.
func LoadRecipes(path string) ([]Recipe, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseRecipes(data)
}

// ParseRecipes decodes a molecule catalog and checks every entry has an id
// and at least one element.
func ParseRecipes(data []byte) ([]Recipe, error) {
	var rf RecipeFile
	if err := yaml.Unmarshal(data, &rf); err != nil {
		return nil, fmt.Errorf("parse molecule YAML: %w", err)
	}

	seen := make(map[string]bool, len(rf.Molecules))
	for i, r := range rf.Molecules {
		if r.ID == "" {
			return nil, fmt.Errorf("molecule %d: missing id", i)
		}
		if seen[r.ID] {
			return nil, fmt.Errorf("molecule %q listed twice", r.ID)
		}
		seen[r.ID] = true
		if len(r.Elements) == 0 {
			return nil, fmt.Errorf("molecule %q: no elements", r.ID)
		}
		for _, z := range r.Elements {
			if z < 1 || z > MaxAtomicNumber {
				return nil, fmt.Errorf("molecule %q: atomic number %d out of range", r.ID, z)
			}
		}
	}
	return rf.Molecules, nil
}
