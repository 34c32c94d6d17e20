package economy

import (
	"errors"
	"fmt"
	"math"

	"github.com/peterkuimelis/nucleon/internal/chem"
)

const (
	MinTarget = 2
	MaxTarget = chem.MaxAtomicNumber

	// Regime boundaries by target atomic number.
	lightCeiling     = 8  // cheap early fusion up to oxygen
	fusionCeiling    = 26 // stellar fusion ends at iron
	supernovaCeiling = 92 // supernova synthesis up to uranium

	maxRequiredMaterial = 20

	// Largest cost that still converts exactly from float64.
	maxCost = 1 << 53
)

var (
	ErrInvalidTarget = errors.New("invalid target")
	ErrCalculation   = errors.New("calculation error")
)

// CostInputs is the slice of engine state the cost formula depends on.
type CostInputs struct {
	CoilLevel         int
	ResearchLevel     int
	Milestones        Milestones
	Heat              float64
	SupernovaIgnition float64
}

// ValidTarget reports whether z can be the target of a fusion.
func ValidTarget(z int) bool {
	return z >= MinTarget && z <= MaxTarget
}

// ParseTarget converts a transport number into a target, rejecting fractions
// and non-finite values.
func ParseTarget(v float64) (int, error) {
	if !isFinite(v) || v != math.Trunc(v) {
		return 0, fmt.Errorf("%w: %v is not an integer", ErrInvalidTarget, v)
	}
	if v < MinTarget || v > MaxTarget {
		return 0, fmt.Errorf("%w: %v outside [%d, %d]", ErrInvalidTarget, v, MinTarget, MaxTarget)
	}
	return int(v), nil
}

func checkTarget(z int) error {
	if !ValidTarget(z) {
		return fmt.Errorf("%w: %d outside [%d, %d]", ErrInvalidTarget, z, MinTarget, MaxTarget)
	}
	return nil
}

func checked(step string, v float64) (float64, error) {
	if !isFinite(v) {
		return 0, fmt.Errorf("%w: %s produced %v", ErrCalculation, step, v)
	}
	return v, nil
}

// BaseEnergyCost is the piecewise cost before any modifier.
func BaseEnergyCost(z int, ignition float64) (float64, error) {
	if err := checkTarget(z); err != nil {
		return 0, err
	}

	var base float64
	switch {
	case z <= lightCeiling:
		base = math.Max(1, math.Floor(float64(z)*0.5))
	case z <= fusionCeiling:
		base = math.Pow(float64(z-lightCeiling), 1.2) * 0.5
	case z <= supernovaCeiling:
		p := float64(z-fusionCeiling) / float64(supernovaCeiling-fusionCeiling)
		base = ignition + p*p*50
	default:
		// Grows exponentially past uranium.
		excess := z - supernovaCeiling
		base = 50 * math.Pow(2, float64(excess))
	}
	return checked("base cost", base)
}

// EnergyCost returns the energy needed to fuse toward z under the given state.
func EnergyCost(z int, in CostInputs) (int, error) {
	base, err := BaseEnergyCost(z, in.SupernovaIgnition)
	if err != nil {
		return 0, err
	}

	cost, err := checked("coil reduction", base*TrackCoil.Effect(in.CoilLevel))
	if err != nil {
		return 0, err
	}

	research := math.Max(0, 1-float64(in.ResearchLevel)*0.02)
	if cost, err = checked("research reduction", cost*research); err != nil {
		return 0, err
	}

	if cost, err = checked("milestone reduction", cost*in.Milestones.Discount(z)); err != nil {
		return 0, err
	}

	if cost > 0 {
		penalty := 1 + math.Pow(in.Heat, 1.2)/100
		if cost, err = checked("overheat penalty", cost*penalty); err != nil {
			return 0, err
		}
	}

	cost = math.Floor(cost)
	if cost > maxCost {
		return 0, fmt.Errorf("%w: cost %v overflows", ErrCalculation, cost)
	}
	if cost < 0 {
		cost = 0
	}
	return int(cost), nil
}

// RequiredMaterialCount returns how many units of tier z-1 one fusion consumes.
func RequiredMaterialCount(z int) (int, error) {
	if err := checkTarget(z); err != nil {
		return 0, err
	}

	var n float64
	switch {
	case z <= lightCeiling:
		n = 2
	case z <= fusionCeiling:
		n = math.Max(2, math.Ceil(float64(z-lightCeiling)/4)+2)
	default:
		n = math.Min(maxRequiredMaterial, math.Ceil(float64(z-fusionCeiling)/6)+5)
	}
	n, err := checked("material requirement", n)
	if err != nil {
		return 0, err
	}
	return int(n), nil
}
