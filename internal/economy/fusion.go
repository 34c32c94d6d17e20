package economy

import (
	"fmt"

	"github.com/peterkuimelis/nucleon/internal/log"
)

// fusionPlan is one validated fusion, priced against a snapshot.
type fusionPlan struct {
	z        int
	source   string // symbol of tier z-1
	target   string // symbol of tier z
	required int
	cost     int
}

func (p fusionPlan) heat() int    { return p.z / 10 }
func (p fusionPlan) surplus() int { return p.z / 5 }

// resolveTarget checks z and looks up both symbols and the material requirement.
func (e *Engine) resolveTarget(z int) (fusionPlan, Failure) {
	if err := checkTarget(z); err != nil {
		return fusionPlan{}, Failure{Reason: ReasonInvalidTarget, Detail: err.Error()}
	}
	target, ok := e.index.Symbol(z)
	if !ok {
		return fusionPlan{}, Failure{Reason: ReasonInvalidTarget, Detail: fmt.Sprintf("no element known for Z=%d", z)}
	}
	source, ok := e.index.Symbol(z - 1)
	if !ok {
		return fusionPlan{}, Failure{Reason: ReasonInvalidTarget, Detail: fmt.Sprintf("no element known for Z=%d", z-1)}
	}
	required, err := RequiredMaterialCount(z)
	if err != nil {
		return fusionPlan{}, Failure{Reason: reasonFor(err), Detail: err.Error()}
	}
	return fusionPlan{z: z, source: source, target: target, required: required}, Failure{}
}

// price fills in the energy cost of a plan against a snapshot.
func (e *Engine) price(s state, p *fusionPlan) Failure {
	cost, err := EnergyCost(p.z, e.costInputs(s))
	if err != nil {
		return Failure{Reason: reasonFor(err), Detail: err.Error()}
	}
	p.cost = cost
	return Failure{}
}

// checkState rejects a snapshot that already violates the resource or ledger invariants.
func checkState(s state) Failure {
	if err := s.pool.check(); err != nil {
		return Failure{Reason: ReasonCalculationError, Detail: "corrupt resource pool: " + err.Error()}
	}
	for sym, n := range s.ledger.counts {
		if n < 0 {
			return Failure{Reason: ReasonCalculationError, Detail: fmt.Sprintf("corrupt ledger entry %s=%d", sym, n)}
		}
	}
	return Failure{}
}

// applyMaterial moves one fusion's units on the working ledger and flips its milestone.
func applyMaterial(s *state, p fusionPlan) ([]string, error) {
	if err := s.ledger.add(p.source, -p.required); err != nil {
		return nil, err
	}
	if err := s.ledger.add(p.target, 1); err != nil {
		return nil, err
	}
	var unlocked []string
	if m, ok := s.milestones.reach(p.z); ok {
		unlocked = append(unlocked, m.String())
	}
	return unlocked, nil
}

// PerformFusion fuses required units of tier z-1 into one unit of tier z.
// Every precondition is checked against one snapshot before anything is
// written; a failed call leaves the engine untouched.
func (e *Engine) PerformFusion(z int) (res FusionResult) {
	op := e.beginOp()
	defer func() {
		if r := recover(); r != nil {
			e.log(log.NewInternalErrorEvent(op, "fusion", fmt.Sprint(r)))
			res = FusionResult{Target: z, Failure: Failure{Reason: ReasonCalculationError, Detail: fmt.Sprintf("internal error: %v", r)}}
		}
	}()

	fail := func(f Failure) FusionResult {
		e.log(log.NewFusionFailedEvent(op, z, f.Reason.String(), f.Detail))
		return FusionResult{Target: z, Failure: f, ResearchLevel: e.st.milestones.ResearchLevel()}
	}

	snap := e.st
	if f := checkState(snap); f.Reason != ReasonNone {
		return fail(f)
	}

	plan, f := e.resolveTarget(z)
	if f.Reason != ReasonNone {
		return fail(f)
	}

	have := snap.ledger.Count(plan.source)
	if have < plan.required {
		return fail(Failure{
			Reason:    ReasonInsufficientMaterial,
			Detail:    fmt.Sprintf("need %d %s, have %d", plan.required, plan.source, have),
			Required:  float64(plan.required),
			Available: float64(have),
		})
	}

	if f := e.price(snap, &plan); f.Reason != ReasonNone {
		return fail(f)
	}
	if snap.pool.Energy < float64(plan.cost) {
		return fail(Failure{
			Reason:    ReasonInsufficientEnergy,
			Detail:    fmt.Sprintf("need %d energy, have %v", plan.cost, snap.pool.Energy),
			Required:  float64(plan.cost),
			Available: snap.pool.Energy,
		})
	}

	work := snap.clone()
	unlocked, err := applyMaterial(&work, plan)
	if err != nil {
		return fail(Failure{Reason: ReasonCalculationError, Detail: err.Error()})
	}
	if err := work.pool.spend(plan.cost); err != nil {
		return fail(Failure{Reason: ReasonCalculationError, Detail: err.Error()})
	}
	work.pool.addHeat(plan.heat(), work.pool.MaxHeat+work.equipment.Effect(TrackHeatsink))
	work.pool.gain(plan.surplus())
	if err := work.pool.check(); err != nil {
		return fail(Failure{Reason: ReasonCalculationError, Detail: err.Error()})
	}

	e.st = work

	e.log(log.NewFusionEvent(op, plan.source, plan.required, plan.target, plan.cost))
	for _, name := range unlocked {
		e.log(log.NewMilestoneEvent(op, name, z, e.st.milestones.ResearchLevel()))
	}
	e.emit(op, plan.target, 1)

	return FusionResult{
		Success:       true,
		Target:        z,
		TargetSymbol:  plan.target,
		Consumed:      Consumption{Symbol: plan.source, Amount: plan.required},
		EnergyCost:    plan.cost,
		HeatIncrease:  plan.heat(),
		SurplusEnergy: plan.surplus(),
		ResearchLevel: e.st.milestones.ResearchLevel(),
		Milestones:    unlocked,
	}
}

// PerformBatchFusion runs a list of fusions as one unit. The whole list is
// validated against the pre-batch snapshot: an entry cannot use material that
// an earlier entry would produce, and entries drawing on the same tier must
// fit in that tier's snapshot count together. Either every entry is applied
// or none is.
func (e *Engine) PerformBatchFusion(targets []int) (res BatchResult) {
	op := e.beginOp()
	defer func() {
		if r := recover(); r != nil {
			e.log(log.NewInternalErrorEvent(op, "batch fusion", fmt.Sprint(r)))
			res = BatchResult{FailedIndex: -1, Failure: Failure{Reason: ReasonCalculationError, Detail: fmt.Sprintf("internal error: %v", r)}}
		}
	}()

	fail := func(idx int, f Failure) BatchResult {
		e.log(log.NewBatchFailedEvent(op, len(targets), f.Reason.String(), f.Detail))
		return BatchResult{FailedIndex: idx, Failure: f, ResearchLevel: e.st.milestones.ResearchLevel()}
	}

	if len(targets) == 0 {
		return fail(-1, Failure{Reason: ReasonEmptyBatch, Detail: "batch has no entries"})
	}

	snap := e.st
	if f := checkState(snap); f.Reason != ReasonNone {
		return fail(-1, f)
	}

	// Phase 1: validate everything against the snapshot.
	plans := make([]fusionPlan, len(targets))
	for i, z := range targets {
		p, f := e.resolveTarget(z)
		if f.Reason != ReasonNone {
			return fail(i, f)
		}
		plans[i] = p
	}

	totalEnergy := 0
	for i := range plans {
		if f := e.price(snap, &plans[i]); f.Reason != ReasonNone {
			return fail(i, f)
		}
		totalEnergy += plans[i].cost
	}
	if snap.pool.Energy < float64(totalEnergy) {
		return fail(-1, Failure{
			Reason:    ReasonInsufficientEnergy,
			Detail:    fmt.Sprintf("batch needs %d energy, have %v", totalEnergy, snap.pool.Energy),
			Required:  float64(totalEnergy),
			Available: snap.pool.Energy,
		})
	}

	demand := make(map[string]int)
	for i, p := range plans {
		have := snap.ledger.Count(p.source)
		if have < p.required {
			return fail(i, Failure{
				Reason:    ReasonInsufficientMaterial,
				Detail:    fmt.Sprintf("entry %d (Z=%d) needs %d %s, have %d", i, p.z, p.required, p.source, have),
				Required:  float64(p.required),
				Available: float64(have),
			})
		}
		demand[p.source] += p.required
	}
	for _, p := range plans {
		if have := snap.ledger.Count(p.source); demand[p.source] > have {
			return fail(-1, Failure{
				Reason:    ReasonInsufficientMaterial,
				Detail:    fmt.Sprintf("batch needs %d %s in total, have %d", demand[p.source], p.source, have),
				Required:  float64(demand[p.source]),
				Available: float64(have),
			})
		}
	}

	// Phase 2: apply to a working copy, then swap it in.
	work := snap.clone()
	items := make([]BatchItem, len(plans))
	totalHeat, totalSurplus := 0, 0
	for i, p := range plans {
		unlocked, err := applyMaterial(&work, p)
		if err != nil {
			return fail(i, Failure{Reason: ReasonCalculationError, Detail: err.Error()})
		}
		totalHeat += p.heat()
		totalSurplus += p.surplus()
		items[i] = BatchItem{
			Index:         i,
			Target:        p.z,
			TargetSymbol:  p.target,
			Consumed:      Consumption{Symbol: p.source, Amount: p.required},
			EnergyCost:    p.cost,
			HeatIncrease:  p.heat(),
			SurplusEnergy: p.surplus(),
			Milestones:    unlocked,
		}
	}
	work.pool.addHeat(totalHeat, work.pool.MaxHeat+work.equipment.Effect(TrackHeatsink))
	if err := work.pool.spend(totalEnergy); err != nil {
		return fail(-1, Failure{Reason: ReasonCalculationError, Detail: err.Error()})
	}
	work.pool.gain(totalSurplus)
	if err := work.pool.check(); err != nil {
		return fail(-1, Failure{Reason: ReasonCalculationError, Detail: err.Error()})
	}

	e.st = work

	e.log(log.NewBatchFusionEvent(op, len(plans), totalEnergy, totalHeat, totalSurplus))
	for _, it := range items {
		for _, name := range it.Milestones {
			m, _ := ParseMilestone(name)
			e.log(log.NewMilestoneEvent(op, name, m.Target(), e.st.milestones.ResearchLevel()))
		}
	}
	for _, it := range items {
		e.emit(op, it.TargetSymbol, 1)
	}

	return BatchResult{
		Success:            true,
		FailedIndex:        -1,
		Items:              items,
		TotalEnergyCost:    totalEnergy,
		TotalHeatIncrease:  totalHeat,
		TotalSurplusEnergy: totalSurplus,
		ResearchLevel:      e.st.milestones.ResearchLevel(),
	}
}
