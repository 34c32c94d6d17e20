package economy

import (
	"errors"
	"math"

	"github.com/peterkuimelis/nucleon/internal/chem"
	"github.com/peterkuimelis/nucleon/internal/log"
)

// ErrNoCandidates means no recipe is drawable; callers fall back to another pool.
var ErrNoCandidates = errors.New("no drawable molecules")

// RandomSource is the subset of *rand.Rand the roulette needs.
type RandomSource interface {
	Float64() float64
}

// WeightedRecipe is a drawable recipe and its weight.
type WeightedRecipe struct {
	Recipe chem.Recipe
	Weight float64
}

// ComplexityPenalty damps molecules with many atoms.
func ComplexityPenalty(atoms int) float64 {
	if atoms <= 1 {
		return 1
	}
	return 1 / (1 + 0.15*float64(atoms-1))
}

// ResearchAmplifier scales every weight by research progress.
func ResearchAmplifier(research int) float64 {
	if research <= 0 {
		return 1
	}
	return 1 + 0.1*math.Pow(float64(research), 0.8)
}

// MoleculeWeights returns the recipes whose heaviest element is at most
// elementCap, each with weight base(rarity) · penalty(atoms) · amplifier(research).
// Recipes with a zero or non-finite weight are left out.
func MoleculeWeights(recipes []chem.Recipe, base func(chem.Rarity) float64, research, elementCap int) []WeightedRecipe {
	amp := ResearchAmplifier(research)
	var out []WeightedRecipe
	for _, r := range recipes {
		if r.MaxElement() > elementCap {
			continue
		}
		w := base(r.Rarity) * ComplexityPenalty(r.ElementCount()) * amp
		if !isFinite(w) || w <= 0 {
			continue
		}
		out = append(out, WeightedRecipe{Recipe: r, Weight: w})
	}
	return out
}

// Roulette makes a cumulative-weight draw.
func Roulette(cands []WeightedRecipe, rng RandomSource) (chem.Recipe, error) {
	total := 0.0
	for _, c := range cands {
		total += c.Weight
	}
	if len(cands) == 0 || total <= 0 || !isFinite(total) {
		return chem.Recipe{}, ErrNoCandidates
	}

	pick := rng.Float64() * total
	acc := 0.0
	for _, c := range cands {
		acc += c.Weight
		if pick < acc {
			return c.Recipe, nil
		}
	}
	// Float rounding can leave pick == total.
	return cands[len(cands)-1].Recipe, nil
}

// DrawWeights returns the drawable recipes for this engine's research level and cap.
func (e *Engine) DrawWeights(recipes []chem.Recipe) []WeightedRecipe {
	return MoleculeWeights(recipes, e.cfg.rarityWeight, e.st.milestones.ResearchLevel(), e.ElementCap())
}

// DrawMolecule draws one recipe. It returns ErrNoCandidates when nothing is
// drawable under the current cap.
func (e *Engine) DrawMolecule(recipes []chem.Recipe, rng RandomSource) (chem.Recipe, error) {
	op := e.beginOp()
	r, err := Roulette(e.DrawWeights(recipes), rng)
	if err != nil {
		return chem.Recipe{}, err
	}
	e.log(log.NewMoleculeDrawEvent(op, r.ID, r.Name, r.Rarity.String()))
	return r, nil
}

// DrawElement is the fallback pool when no molecule is drawable: one unit of
// an element within the cap, lighter elements weighted by 1/Z. The unit is
// added to the ledger and handed to the card sink.
func (e *Engine) DrawElement(rng RandomSource) (string, error) {
	op := e.beginOp()
	limit := e.ElementCap()

	var pool []chem.Element
	total := 0.0
	for _, el := range e.index.Elements() {
		if el.Number <= limit {
			pool = append(pool, el)
			total += 1 / float64(el.Number)
		}
	}
	if len(pool) == 0 {
		return "", ErrNoCandidates
	}

	pick := rng.Float64() * total
	chosen := pool[len(pool)-1]
	acc := 0.0
	for _, el := range pool {
		acc += 1 / float64(el.Number)
		if pick < acc {
			chosen = el
			break
		}
	}

	if err := e.st.ledger.add(chosen.Symbol, 1); err != nil {
		return "", err
	}
	e.log(log.NewElementDrawEvent(op, chosen.Symbol, limit))
	e.emit(op, chosen.Symbol, 1)
	return chosen.Symbol, nil
}
