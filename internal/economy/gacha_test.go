package economy

import (
	"errors"
	"math"
	"testing"

	"github.com/peterkuimelis/nucleon/internal/chem"
	"github.com/peterkuimelis/nucleon/internal/log"
)

func testRecipes() []chem.Recipe {
	return []chem.Recipe{
		{ID: "h2", Name: "Hydrogen Gas", Elements: []int{1}, ElementCounts: map[string]int{"H": 2}, Rarity: chem.RarityCommon},
		{ID: "h2o", Name: "Water", Elements: []int{1, 8}, ElementCounts: map[string]int{"H": 2, "O": 1}, Rarity: chem.RarityUncommon},
		{ID: "fe2o3", Name: "Rust", Elements: []int{8, 26}, ElementCounts: map[string]int{"Fe": 2, "O": 3}, Rarity: chem.RarityLegendary},
	}
}

func TestComplexityPenalty(t *testing.T) {
	tests := []struct {
		atoms int
		want  float64
	}{
		{0, 1},
		{1, 1},
		{2, 1 / 1.15},
		{5, 1 / 1.6},
	}
	for _, tt := range tests {
		if got := ComplexityPenalty(tt.atoms); math.Abs(got-tt.want) > 1e-9 {
			t.Errorf("ComplexityPenalty(%d) = %v, want %v", tt.atoms, got, tt.want)
		}
	}
}

func TestMoleculeWeightsFiltersByCap(t *testing.T) {
	base := DefaultConfig().rarityWeight

	got := MoleculeWeights(testRecipes(), base, 0, 8)
	if len(got) != 2 {
		t.Fatalf("Expected 2 candidates under cap 8, got %d", len(got))
	}
	if got[0].Recipe.ID != "h2" || got[1].Recipe.ID != "h2o" {
		t.Errorf("Unexpected candidates %s, %s", got[0].Recipe.ID, got[1].Recipe.ID)
	}
	if want := 50 / 1.15; math.Abs(got[0].Weight-want) > 1e-9 {
		t.Errorf("Expected h2 weight %v, got %v", want, got[0].Weight)
	}
	if want := 25 / 1.3; math.Abs(got[1].Weight-want) > 1e-9 {
		t.Errorf("Expected h2o weight %v, got %v", want, got[1].Weight)
	}

	if all := MoleculeWeights(testRecipes(), base, 0, 26); len(all) != 3 {
		t.Errorf("Expected all 3 recipes under cap 26, got %d", len(all))
	}
}

// TestResearchScalesWeightsUniformly: research raises every weight by the
// same factor, so relative odds do not move.
func TestResearchScalesWeightsUniformly(t *testing.T) {
	base := DefaultConfig().rarityWeight
	plain := MoleculeWeights(testRecipes(), base, 0, 26)
	boosted := MoleculeWeights(testRecipes(), base, 4, 26)

	amp := ResearchAmplifier(4)
	if amp <= 1 {
		t.Fatalf("Expected amplifier above 1, got %v", amp)
	}
	for i := range plain {
		if math.Abs(boosted[i].Weight-plain[i].Weight*amp) > 1e-9 {
			t.Errorf("%s: expected %v, got %v", plain[i].Recipe.ID, plain[i].Weight*amp, boosted[i].Weight)
		}
	}
}

func TestMoleculeWeightsSkipsZeroWeight(t *testing.T) {
	base := func(r chem.Rarity) float64 {
		if r == chem.RarityUncommon {
			return 0
		}
		return 1
	}
	got := MoleculeWeights(testRecipes(), base, 0, 26)
	for _, c := range got {
		if c.Recipe.ID == "h2o" {
			t.Error("Expected zero-weight recipe to be dropped")
		}
	}
}

func TestRoulette(t *testing.T) {
	cands := []WeightedRecipe{
		{Recipe: chem.Recipe{ID: "a"}, Weight: 50},
		{Recipe: chem.Recipe{ID: "b"}, Weight: 25},
	}
	tests := []struct {
		roll float64
		want string
	}{
		{0, "a"},
		{0.5, "a"},  // 37.5 < 50
		{0.7, "b"},  // 52.5
		{0.99, "b"}, // 74.25
	}
	for _, tt := range tests {
		got, err := Roulette(cands, &fixedRand{values: []float64{tt.roll}})
		if err != nil {
			t.Fatal(err)
		}
		if got.ID != tt.want {
			t.Errorf("roll %v: expected %s, got %s", tt.roll, tt.want, got.ID)
		}
	}

	if _, err := Roulette(nil, &fixedRand{values: []float64{0}}); !errors.Is(err, ErrNoCandidates) {
		t.Errorf("Expected ErrNoCandidates for empty set, got %v", err)
	}
}

func TestDrawMoleculeFollowsScanner(t *testing.T) {
	e := newTestEngine(t, nil, map[string]int{"H": 1})
	recipes := testRecipes()
	high := &fixedRand{values: []float64{0.99}}

	if e.ElementCap() != 1 {
		t.Fatalf("Expected cap 1 holding only hydrogen, got %d", e.ElementCap())
	}
	got, err := e.DrawMolecule(recipes, high)
	if err != nil {
		t.Fatal(err)
	}
	if got.ID != "h2" {
		t.Errorf("Expected h2 as the only candidate, got %s", got.ID)
	}

	for i := 0; i < 7; i++ {
		if !e.UpgradeEquipment(TrackScanner) {
			t.Fatalf("scanner upgrade %d refused", i+1)
		}
	}
	if e.ElementCap() != 8 {
		t.Fatalf("Expected cap 8, got %d", e.ElementCap())
	}
	got, err = e.DrawMolecule(recipes, high)
	if err != nil {
		t.Fatal(err)
	}
	if got.ID != "h2o" {
		t.Errorf("Expected water to become drawable, got %s", got.ID)
	}
	if n := len(e.logger.EventsOfType(log.EventMoleculeDraw)); n != 2 {
		t.Errorf("Expected 2 draw events, got %d", n)
	}
}

func TestDrawMoleculeNoCandidates(t *testing.T) {
	e := newTestEngine(t, nil, nil)
	_, err := e.DrawMolecule(testRecipes()[2:], &fixedRand{values: []float64{0.5}})
	if !errors.Is(err, ErrNoCandidates) {
		t.Errorf("Expected ErrNoCandidates, got %v", err)
	}
}

func TestDrawElementFallback(t *testing.T) {
	e := newTestEngine(t, nil, map[string]int{"O": 1})

	sym, err := e.DrawElement(&fixedRand{values: []float64{0}})
	if err != nil {
		t.Fatal(err)
	}
	if sym != "H" || e.Count("H") != 1 {
		t.Errorf("Expected a zero roll to draw H, got %s (H=%d)", sym, e.Count("H"))
	}

	// The top of the roll lands on the heaviest element within the cap.
	sym, err = e.DrawElement(&fixedRand{values: []float64{0.999}})
	if err != nil {
		t.Fatal(err)
	}
	if sym != "O" || e.Count("O") != 2 {
		t.Errorf("Expected O at cap 8, got %s (O=%d)", sym, e.Count("O"))
	}
	if e.sink.count("H") != 1 || e.sink.count("O") != 1 {
		t.Errorf("Expected one card per draw, got %v", e.sink.cards)
	}
	if n := len(e.logger.EventsOfType(log.EventElementDraw)); n != 2 {
		t.Errorf("Expected 2 element draw events, got %d", n)
	}
}

func TestElementCapUsesFrontier(t *testing.T) {
	e, err := NewEngine(EngineConfig{Frontier: func() int { return 115 }})
	if err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 10; i++ {
		e.UpgradeEquipment(TrackScanner)
	}
	if got := e.ElementCap(); got != chem.MaxAtomicNumber {
		t.Errorf("Expected cap clamped to %d, got %d", chem.MaxAtomicNumber, got)
	}
}
