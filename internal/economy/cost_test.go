package economy

import (
	"errors"
	"math"
	"testing"
)

func TestBaseEnergyCostRegimes(t *testing.T) {
	tests := []struct {
		z    int
		want int
	}{
		{2, 1},
		{3, 1},
		{8, 4},
		{9, 0},
		{10, 1},
		{26, 16},
		{27, 25},
		{60, 38},
		{92, 75},
		{93, 100},
		{100, 12800},
	}
	for _, tt := range tests {
		got, err := EnergyCost(tt.z, CostInputs{SupernovaIgnition: DefaultSupernovaIgnition})
		if err != nil {
			t.Fatalf("EnergyCost(%d): %v", tt.z, err)
		}
		if got != tt.want {
			t.Errorf("EnergyCost(%d) = %d, want %d", tt.z, got, tt.want)
		}
	}
}

// TestSupernovaCostsMoreThanIron: the first supernova tier is strictly dearer
// than the last fusion tier under identical modifiers.
func TestSupernovaCostsMoreThanIron(t *testing.T) {
	inputs := []CostInputs{
		{SupernovaIgnition: DefaultSupernovaIgnition},
		{SupernovaIgnition: DefaultSupernovaIgnition, CoilLevel: 20, ResearchLevel: 5, Heat: 80},
	}
	for _, in := range inputs {
		iron, err := EnergyCost(26, in)
		if err != nil {
			t.Fatal(err)
		}
		cobalt, err := EnergyCost(27, in)
		if err != nil {
			t.Fatal(err)
		}
		if cobalt <= iron {
			t.Errorf("Expected cost(27) > cost(26) for %+v, got %d <= %d", in, cobalt, iron)
		}
	}
}

func TestEnergyCostMonotonicWithinRegime(t *testing.T) {
	regimes := [][2]int{{2, 8}, {9, 26}, {27, 92}, {93, 118}}
	inputs := []CostInputs{
		{SupernovaIgnition: DefaultSupernovaIgnition},
		{SupernovaIgnition: DefaultSupernovaIgnition, CoilLevel: 7, ResearchLevel: 3, Heat: 42},
	}
	for _, in := range inputs {
		for _, r := range regimes {
			prev := -1
			for z := r[0]; z <= r[1]; z++ {
				c, err := EnergyCost(z, in)
				if err != nil {
					t.Fatalf("EnergyCost(%d): %v", z, err)
				}
				if c < prev {
					t.Errorf("Expected non-decreasing cost in [%d,%d]: cost(%d)=%d < %d", r[0], r[1], z, c, prev)
				}
				prev = c
			}
		}
	}
}

func TestEnergyCostModifiers(t *testing.T) {
	var oxygen Milestones
	oxygen.reach(8)

	var both Milestones
	both.reach(8)
	both.reach(26)

	tests := []struct {
		name string
		z    int
		in   CostInputs
		want int
	}{
		{"coil level 1", 8, CostInputs{CoilLevel: 1}, 3},             // 4 × 0.96
		{"research 5", 8, CostInputs{ResearchLevel: 5}, 3},           // 4 × 0.90
		{"research past zero clamps", 8, CostInputs{ResearchLevel: 60}, 0},
		{"oxygen milestone covers 8", 8, CostInputs{Milestones: oxygen}, 3}, // 4 × 0.95
		{"oxygen milestone skips 20", 20, CostInputs{Milestones: oxygen}, 9},
		{"iron milestone covers 20", 20, CostInputs{Milestones: both}, 9},   // 9.86 × 0.93
		{"iron milestone covers 26", 26, CostInputs{Milestones: both}, 14},  // 16.04 × 0.93
		{"heat 10", 8, CostInputs{Heat: 10}, 4},
		{"heat 50", 8, CostInputs{Heat: 50}, 8},
		{"heat 100", 26, CostInputs{Heat: 100}, 56},
		{"heat 100 on a fractional base", 9, CostInputs{Heat: 100}, 1}, // 0.5 × 3.51
		{"no penalty on zero cost", 9, CostInputs{ResearchLevel: 60, Heat: 100}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.in.SupernovaIgnition = DefaultSupernovaIgnition
			got, err := EnergyCost(tt.z, tt.in)
			if err != nil {
				t.Fatal(err)
			}
			if got != tt.want {
				t.Errorf("EnergyCost(%d) = %d, want %d", tt.z, got, tt.want)
			}
		})
	}
}

func TestEnergyCostRejectsBadInput(t *testing.T) {
	for _, z := range []int{-5, 0, 1, 119, 500} {
		if _, err := EnergyCost(z, CostInputs{}); !errors.Is(err, ErrInvalidTarget) {
			t.Errorf("EnergyCost(%d): expected ErrInvalidTarget, got %v", z, err)
		}
		if _, err := RequiredMaterialCount(z); !errors.Is(err, ErrInvalidTarget) {
			t.Errorf("RequiredMaterialCount(%d): expected ErrInvalidTarget, got %v", z, err)
		}
	}

	for _, heat := range []float64{math.NaN(), math.Inf(1), -4} {
		if _, err := EnergyCost(8, CostInputs{Heat: heat}); !errors.Is(err, ErrCalculation) {
			t.Errorf("EnergyCost with heat %v: expected ErrCalculation, got %v", heat, err)
		}
	}

	if _, err := EnergyCost(30, CostInputs{SupernovaIgnition: math.NaN()}); !errors.Is(err, ErrCalculation) {
		t.Errorf("Expected ErrCalculation for NaN ignition, got %v", err)
	}
}

func TestRequiredMaterialCount(t *testing.T) {
	tests := []struct{ z, want int }{
		{2, 2}, {8, 2},
		{9, 3}, {12, 3}, {13, 4}, {26, 7},
		{27, 6}, {32, 6}, {33, 7}, {100, 18}, {110, 19}, {118, 20},
	}
	for _, tt := range tests {
		got, err := RequiredMaterialCount(tt.z)
		if err != nil {
			t.Fatalf("RequiredMaterialCount(%d): %v", tt.z, err)
		}
		if got != tt.want {
			t.Errorf("RequiredMaterialCount(%d) = %d, want %d", tt.z, got, tt.want)
		}
	}
}

func TestParseTarget(t *testing.T) {
	if z, err := ParseTarget(26); err != nil || z != 26 {
		t.Errorf("ParseTarget(26) = %d, %v", z, err)
	}
	for _, v := range []float64{2.5, math.NaN(), math.Inf(-1), 1, 119} {
		if _, err := ParseTarget(v); !errors.Is(err, ErrInvalidTarget) {
			t.Errorf("ParseTarget(%v): expected ErrInvalidTarget, got %v", v, err)
		}
	}
}
