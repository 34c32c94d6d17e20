package economy

import (
	"fmt"

	"github.com/peterkuimelis/nucleon/internal/chem"
	"github.com/peterkuimelis/nucleon/internal/log"
)

// CascadeOutcome reports what a compression cascade did.
type CascadeOutcome struct {
	Results []CompressionResult
	Steps   int  // individual compressions performed
	Passes  int  // passes over the ledger, including the final idle one
	Capped  bool // stopped by MaxIterations with stockpiles still over the threshold
}

// Produced returns the total units created per symbol.
func (o CascadeOutcome) Produced() map[string]int {
	out := make(map[string]int)
	for _, r := range o.Results {
		out[r.To] += r.Produced
	}
	return out
}

// PlanCompression runs the cascade on a copy of l and returns the outcome
// together with the resulting ledger. Materials are visited in ascending
// atomic number; the heaviest known element has no successor and is skipped.
func PlanCompression(l Ledger, idx *chem.Index, cc CompressionConfig) (CascadeOutcome, Ledger) {
	work := l.Clone()
	var out CascadeOutcome
	elems := idx.Elements()

	for out.Passes < cc.MaxIterations {
		out.Passes++
		progressed := false

		for _, el := range elems {
			next, ok := idx.Symbol(el.Number + 1)
			if !ok {
				continue
			}
			for work.Count(el.Symbol) >= cc.Threshold {
				for _, level := range cc.Levels {
					if level > cc.Threshold {
						continue
					}
					times := 0
					for work.Count(el.Symbol) >= level {
						// Both adds stay non-negative: the count was just checked.
						_ = work.add(el.Symbol, -level)
						_ = work.add(next, level/2)
						times++
					}
					if times == 0 {
						continue
					}
					progressed = true
					out.Steps += times
					out.Results = append(out.Results, CompressionResult{
						From:     el.Symbol,
						To:       next,
						Level:    level,
						Times:    times,
						Consumed: level * times,
						Produced: level / 2 * times,
					})
				}
			}
		}

		if !progressed {
			return out, work
		}
	}
	out.Capped = compressible(work, idx, elems, cc.Threshold)
	return out, work
}

// compressible reports whether any element with a successor is still at or
// above the threshold.
func compressible(l Ledger, idx *chem.Index, elems []chem.Element, threshold int) bool {
	for _, el := range elems {
		if _, ok := idx.Symbol(el.Number + 1); ok && l.Count(el.Symbol) >= threshold {
			return true
		}
	}
	return false
}

// RunCompressionCascade compresses every stockpile at or above the threshold
// into the next tier until nothing more can be compressed. It costs no energy.
// It returns nil when nothing changed, so a second call right after the first
// is a no-op.
func (e *Engine) RunCompressionCascade() (results []CompressionResult) {
	op := e.beginOp()
	defer func() {
		if r := recover(); r != nil {
			e.log(log.NewInternalErrorEvent(op, "compression", fmt.Sprint(r)))
			results = nil
		}
	}()

	snap := e.st
	if f := checkState(snap); f.Reason != ReasonNone {
		e.log(log.NewInternalErrorEvent(op, "compression", f.Detail))
		return nil
	}

	outcome, ledger := PlanCompression(snap.ledger, e.index, e.cfg.Compression)
	if len(outcome.Results) == 0 {
		return nil
	}
	if outcome.Capped {
		e.log(log.NewInternalErrorEvent(op, "compression",
			fmt.Sprintf("stopped after %d passes without reaching a fixed point", outcome.Passes)))
	}

	work := snap.clone()
	work.ledger = ledger
	work.pool.addHeat(outcome.Steps*e.cfg.Compression.HeatPerStep, work.pool.MaxHeat+work.equipment.Effect(TrackHeatsink))
	e.st = work

	for _, r := range outcome.Results {
		e.log(log.NewCompressionEvent(op, r.From, r.Consumed, r.To, r.Produced))
	}
	for _, r := range outcome.Results {
		e.emit(op, r.To, r.Produced)
	}
	return outcome.Results
}
