package economy

import (
	"encoding/json"
	"fmt"
	"math"

	"github.com/peterkuimelis/nucleon/internal/log"
	"github.com/spf13/cast"
)

// SaveState is the persisted shape of one economy.
type SaveState struct {
	Energy        float64         `json:"energy"`
	Heat          float64         `json:"heat"`
	ResearchLevel int             `json:"researchLevel"`
	Equipment     map[string]int  `json:"equipment"`
	Milestones    map[string]bool `json:"milestones"`
	Materials     map[string]int  `json:"materials"`
}

// SaveState captures the engine for persistence.
func (e *Engine) SaveState() SaveState {
	return SaveState{
		Energy:        e.st.pool.Energy,
		Heat:          e.st.pool.Heat,
		ResearchLevel: e.st.milestones.ResearchLevel(),
		Equipment:     e.st.equipment.Map(),
		Milestones:    e.st.milestones.Map(),
		Materials:     e.st.ledger.Map(),
	}
}

// LoadState replaces the engine's state. Invalid values are coerced to safe
// defaults instead of failing: non-finite or negative numbers become 0,
// unknown tracks and flags are ignored, levels are clamped to their caps and
// heat to the current capacity. The research level is recounted from the
// milestone flags; the saved value is ignored.
func (e *Engine) LoadState(s SaveState) {
	op := e.beginOp()

	next := state{
		ledger: NewLedger(),
		pool: ResourcePool{
			Energy:  sanitize(s.Energy),
			Heat:    sanitize(s.Heat),
			MaxHeat: e.cfg.MaxHeat,
		},
	}

	for id, level := range s.Equipment {
		if t, ok := ParseTrack(id); ok {
			next.equipment.set(t, level)
		}
	}
	next.pool.Heat = math.Min(next.pool.Heat, next.pool.MaxHeat+next.equipment.Effect(TrackHeatsink))

	for name, on := range s.Milestones {
		if m, ok := ParseMilestone(name); ok && on {
			next.milestones.unlocked[m] = true
		}
	}
	next.milestones.research = next.milestones.count()

	for sym, n := range s.Materials {
		if n > 0 && sym != "" {
			next.ledger.counts[sym] = n
		}
	}

	e.st = next
	e.log(log.NewStateLoadedEvent(op, len(next.ledger.counts), next.milestones.research))
}

func sanitize(v float64) float64 {
	if !isFinite(v) || v < 0 {
		return 0
	}
	return v
}

// UnmarshalJSON decodes leniently: fields of the wrong type or out of range
// take their zero value rather than failing the whole document.
func (s *SaveState) UnmarshalJSON(data []byte) error {
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("save state: %w", err)
	}
	*s = coerceSaveState(raw)
	return nil
}

// DecodeSaveState parses a saved document. Only a document that is not a
// JSON object is an error.
func DecodeSaveState(data []byte) (SaveState, error) {
	var s SaveState
	if err := json.Unmarshal(data, &s); err != nil {
		return SaveState{}, err
	}
	return s, nil
}

func coerceSaveState(raw map[string]any) SaveState {
	s := SaveState{
		Energy:        coerceFloat(raw["energy"]),
		Heat:          coerceFloat(raw["heat"]),
		ResearchLevel: coerceInt(raw["researchLevel"]),
		Equipment:     make(map[string]int),
		Milestones:    make(map[string]bool),
		Materials:     make(map[string]int),
	}
	for k, v := range coerceMap(raw["equipment"]) {
		s.Equipment[k] = coerceInt(v)
	}
	for k, v := range coerceMap(raw["milestones"]) {
		b, err := cast.ToBoolE(v)
		s.Milestones[k] = err == nil && b
	}
	for k, v := range coerceMap(raw["materials"]) {
		if n := coerceInt(v); n > 0 {
			s.Materials[k] = n
		}
	}
	return s
}

func coerceFloat(v any) float64 {
	if v == nil {
		return 0
	}
	f, err := cast.ToFloat64E(v)
	if err != nil {
		return 0
	}
	return sanitize(f)
}

func coerceInt(v any) int {
	f := coerceFloat(v)
	if f > math.MaxInt32 {
		return 0
	}
	return int(f)
}

func coerceMap(v any) map[string]any {
	if v == nil {
		return nil
	}
	m, err := cast.ToStringMapE(v)
	if err != nil {
		return nil
	}
	return m
}

// Snapshot is a read-only view of an engine for transports and UIs.
type Snapshot struct {
	ID            string          `json:"id"`
	Energy        float64         `json:"energy"`
	Heat          float64         `json:"heat"`
	HeatCapacity  float64         `json:"heatCapacity"`
	ResearchLevel int             `json:"researchLevel"`
	ElementCap    int             `json:"elementCap"`
	Equipment     map[string]int  `json:"equipment"`
	Milestones    map[string]bool `json:"milestones"`
	Materials     map[string]int  `json:"materials"`
}

// Snapshot returns the current view of the engine.
func (e *Engine) Snapshot() Snapshot {
	return Snapshot{
		ID:            e.ID.String(),
		Energy:        e.st.pool.Energy,
		Heat:          e.st.pool.Heat,
		HeatCapacity:  e.HeatCapacity(),
		ResearchLevel: e.st.milestones.ResearchLevel(),
		ElementCap:    e.ElementCap(),
		Equipment:     e.st.equipment.Map(),
		Milestones:    e.st.milestones.Map(),
		Materials:     e.st.ledger.Map(),
	}
}
