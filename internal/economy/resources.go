package economy

import (
	"fmt"
	"math"
)

// ResourcePool holds the two consumable scalars of an economy.
type ResourcePool struct {
	Energy  float64 `json:"energy"`
	Heat    float64 `json:"heat"`
	MaxHeat float64 `json:"maxHeat"` // base capacity before heatsink upgrades
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// check reports whether both resources are finite and non-negative.
func (p ResourcePool) check() error {
	if !isFinite(p.Energy) || p.Energy < 0 {
		return fmt.Errorf("energy is %v", p.Energy)
	}
	if !isFinite(p.Heat) || p.Heat < 0 {
		return fmt.Errorf("heat is %v", p.Heat)
	}
	if !isFinite(p.MaxHeat) || p.MaxHeat < 0 {
		return fmt.Errorf("max heat is %v", p.MaxHeat)
	}
	return nil
}

// spend removes amount of energy. Callers check affordability first; this
// refuses rather than going negative.
func (p *ResourcePool) spend(amount int) error {
	if amount < 0 {
		return fmt.Errorf("negative energy cost %d", amount)
	}
	if p.Energy < float64(amount) {
		return fmt.Errorf("energy %v below cost %d", p.Energy, amount)
	}
	p.Energy -= float64(amount)
	return nil
}

// gain adds surplus energy.
func (p *ResourcePool) gain(amount int) {
	if amount > 0 {
		p.Energy += float64(amount)
	}
}

// addHeat raises heat, clamped to capacity.
func (p *ResourcePool) addHeat(amount int, capacity float64) {
	if amount <= 0 {
		return
	}
	p.Heat = math.Min(p.Heat+float64(amount), capacity)
}

// vent lowers heat by up to amount and returns how much was removed.
func (p *ResourcePool) vent(amount float64) float64 {
	if amount <= 0 || !isFinite(amount) {
		return 0
	}
	removed := math.Min(amount, p.Heat)
	p.Heat -= removed
	return removed
}
