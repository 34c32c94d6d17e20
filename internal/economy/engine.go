package economy

import (
	"fmt"
	"maps"
	"math"
	"slices"

	"github.com/google/uuid"
	"github.com/peterkuimelis/nucleon/internal/chem"
	"github.com/peterkuimelis/nucleon/internal/log"
)

// CardSink materializes one playable card of a material in the owner's hand.
type CardSink func(symbol string)

// Frontier reports the highest atomic number the player has discovered.
type Frontier func() int

// EngineConfig wires an Engine to its collaborators. Zero fields get defaults.
type EngineConfig struct {
	Config   *Config
	Index    *chem.Index
	Logger   log.EventLogger
	CardSink CardSink
	Frontier Frontier
}

// state is everything an operation may mutate. Operations work on a clone and
// swap it in only once every write has succeeded.
type state struct {
	ledger     Ledger
	pool       ResourcePool
	equipment  Equipment
	milestones Milestones
}

func (s state) clone() state {
	c := s
	c.ledger = s.ledger.Clone()
	return c
}

// Engine is one player's fusion economy.
type Engine struct {
	ID uuid.UUID

	cfg      Config
	index    *chem.Index
	logger   log.EventLogger
	sink     CardSink
	frontier Frontier

	st  state
	ops int
}

// NewEngine creates an engine with starting resources and an empty ledger.
func NewEngine(ec EngineConfig) (*Engine, error) {
	cfg := DefaultConfig()
	if ec.Config != nil {
		cfg = *ec.Config
		cfg.Compression.Levels = slices.Clone(ec.Config.Compression.Levels)
		cfg.RarityWeights = maps.Clone(ec.Config.RarityWeights)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	e := &Engine{
		ID:       uuid.New(),
		cfg:      cfg,
		index:    ec.Index,
		logger:   ec.Logger,
		sink:     ec.CardSink,
		frontier: ec.Frontier,
	}
	if e.index == nil {
		e.index = chem.StaticIndex()
	}
	if e.logger == nil {
		e.logger = log.Discard
	}
	if e.frontier == nil {
		e.frontier = e.highestHeld
	}
	e.st = state{
		ledger: NewLedger(),
		pool: ResourcePool{
			Energy:  cfg.StartingEnergy,
			Heat:    cfg.StartingHeat,
			MaxHeat: cfg.MaxHeat,
		},
	}
	return e, nil
}

// Config returns the engine's balance configuration.
func (e *Engine) Config() Config {
	return e.cfg
}

// Index returns the element table the engine resolves symbols with.
func (e *Engine) Index() *chem.Index {
	return e.index
}

// Logger returns the engine's event logger.
func (e *Engine) Logger() log.EventLogger {
	return e.logger
}

// Count returns the held amount of a material.
func (e *Engine) Count(symbol string) int {
	return e.st.ledger.Count(symbol)
}

// Resources returns a copy of the resource pool.
func (e *Engine) Resources() ResourcePool {
	return e.st.pool
}

// Equipment returns a copy of the equipment levels.
func (e *Engine) Equipment() Equipment {
	return e.st.equipment
}

// Milestones returns a copy of the milestone flags.
func (e *Engine) Milestones() Milestones {
	return e.st.milestones
}

// HeatCapacity is the base max heat plus heatsink upgrades.
func (e *Engine) HeatCapacity() float64 {
	return e.st.pool.MaxHeat + e.st.equipment.Effect(TrackHeatsink)
}

// costInputs captures the cost-relevant part of a state.
func (e *Engine) costInputs(s state) CostInputs {
	return CostInputs{
		CoilLevel:         s.equipment.Level(TrackCoil),
		ResearchLevel:     s.milestones.ResearchLevel(),
		Milestones:        s.milestones,
		Heat:              s.pool.Heat,
		SupernovaIgnition: e.cfg.SupernovaIgnition,
	}
}

// EnergyCost prices a fusion toward z against the current state.
func (e *Engine) EnergyCost(z int) (int, error) {
	return EnergyCost(z, e.costInputs(e.st))
}

// RequiredMaterialCount returns the units of tier z-1 a fusion toward z consumes.
func (e *Engine) RequiredMaterialCount(z int) (int, error) {
	return RequiredMaterialCount(z)
}

// beginOp starts a new operation and returns its number for event tagging.
func (e *Engine) beginOp() int {
	e.ops++
	return e.ops
}

func (e *Engine) log(ev log.Event) {
	e.logger.Log(ev)
}

// emit hands produced units to the card sink. A panicking sink is logged and
// skipped; the committed state stays.
func (e *Engine) emit(op int, symbol string, n int) {
	for i := 0; i < n; i++ {
		e.log(log.NewCardCreatedEvent(op, symbol))
		if e.sink == nil {
			continue
		}
		func() {
			defer func() {
				if r := recover(); r != nil {
					e.log(log.NewInternalErrorEvent(op, "card sink", fmt.Sprint(r)))
				}
			}()
			e.sink(symbol)
		}()
	}
}

// Grant adds base material from outside the transformation chain (draws, rewards).
func (e *Engine) Grant(symbol string, amount int) error {
	if amount <= 0 {
		return fmt.Errorf("grant %s: amount must be positive, got %d", symbol, amount)
	}
	if _, ok := e.index.Number(symbol); !ok {
		return fmt.Errorf("grant %q: %w", symbol, chem.ErrUnknownElement)
	}
	op := e.beginOp()
	if err := e.st.ledger.add(symbol, amount); err != nil {
		return err
	}
	e.log(log.NewGrantEvent(op, symbol, amount))
	return nil
}

// UpgradeEquipment raises a track by one level. It returns false at the cap.
// Paying for the upgrade is the caller's business.
func (e *Engine) UpgradeEquipment(t Track) bool {
	op := e.beginOp()
	if !e.st.equipment.upgrade(t) {
		return false
	}
	e.log(log.NewUpgradeEvent(op, t.String(), e.st.equipment.Level(t)))
	return true
}

// Cooldown vents heat according to the coolant track and returns the amount removed.
func (e *Engine) Cooldown() float64 {
	op := e.beginOp()
	vented := e.st.pool.vent(e.st.equipment.Effect(TrackCoolant))
	e.log(log.NewCooldownEvent(op, vented, e.st.pool.Heat))
	return vented
}

// highestHeld is the default frontier: the heaviest element currently held.
func (e *Engine) highestHeld() int {
	max := 1
	for _, sym := range e.st.ledger.Symbols() {
		if z, ok := e.index.Number(sym); ok && z > max {
			max = z
		}
	}
	return max
}

// ElementCap is the highest atomic number a drawn molecule may require.
func (e *Engine) ElementCap() int {
	limit := e.frontier() + int(e.st.equipment.Effect(TrackScanner))
	return int(math.Max(1, math.Min(float64(limit), chem.MaxAtomicNumber)))
}
