package economy

import (
	"errors"
	"fmt"
)

// Reason classifies why an operation was rejected.
type Reason int

const (
	ReasonNone Reason = iota
	ReasonInvalidTarget
	ReasonInsufficientMaterial
	ReasonInsufficientEnergy
	ReasonCalculationError
	ReasonEmptyBatch
)

func (r Reason) String() string {
	switch r {
	case ReasonNone:
		return ""
	case ReasonInvalidTarget:
		return "InvalidTarget"
	case ReasonInsufficientMaterial:
		return "InsufficientMaterial"
	case ReasonInsufficientEnergy:
		return "InsufficientEnergy"
	case ReasonCalculationError:
		return "CalculationError"
	case ReasonEmptyBatch:
		return "EmptyBatch"
	default:
		return "Unknown"
	}
}

// MarshalText implements encoding.TextMarshaler.
func (r Reason) MarshalText() ([]byte, error) {
	return []byte(r.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (r *Reason) UnmarshalText(text []byte) error {
	for c := ReasonNone; c <= ReasonEmptyBatch; c++ {
		if c.String() == string(text) {
			*r = c
			return nil
		}
	}
	return fmt.Errorf("unknown reason %q", text)
}

// reasonFor maps a cost-calculator error onto the taxonomy.
func reasonFor(err error) Reason {
	switch {
	case errors.Is(err, ErrInvalidTarget):
		return ReasonInvalidTarget
	default:
		return ReasonCalculationError
	}
}

// Consumption names the material a fusion spent.
type Consumption struct {
	Symbol string `json:"symbol"`
	Amount int    `json:"amount"`
}

// Failure describes a rejected operation. Required and Available are set for
// InsufficientMaterial (units) and InsufficientEnergy (energy).
type Failure struct {
	Reason    Reason  `json:"reason,omitempty"`
	Detail    string  `json:"detail,omitempty"`
	Required  float64 `json:"required,omitempty"`
	Available float64 `json:"available,omitempty"`
}

// FusionResult is the outcome of a single fusion.
type FusionResult struct {
	Success bool `json:"success"`
	Failure

	Target        int         `json:"target"`
	TargetSymbol  string      `json:"targetSymbol,omitempty"`
	Consumed      Consumption `json:"consumed"`
	EnergyCost    int         `json:"energyCost"`
	HeatIncrease  int         `json:"heatIncrease"`
	SurplusEnergy int         `json:"surplusEnergy"`
	ResearchLevel int         `json:"researchLevel"`
	Milestones    []string    `json:"milestones,omitempty"` // newly unlocked
}

// BatchItem is the outcome of one entry of a batch.
type BatchItem struct {
	Index         int         `json:"index"`
	Target        int         `json:"target"`
	TargetSymbol  string      `json:"targetSymbol"`
	Consumed      Consumption `json:"consumed"`
	EnergyCost    int         `json:"energyCost"`
	HeatIncrease  int         `json:"heatIncrease"`
	SurplusEnergy int         `json:"surplusEnergy"`
	Milestones    []string    `json:"milestones,omitempty"`
}

// BatchResult is the outcome of a batch of fusions. On failure Items is empty
// and FailedIndex names the first offending entry (-1 for whole-batch checks).
type BatchResult struct {
	Success bool `json:"success"`
	Failure
	FailedIndex int `json:"failedIndex"`

	Items              []BatchItem `json:"items"`
	TotalEnergyCost    int         `json:"totalEnergyCost"`
	TotalHeatIncrease  int         `json:"totalHeatIncrease"`
	TotalSurplusEnergy int         `json:"totalSurplusEnergy"`
	ResearchLevel      int         `json:"researchLevel"`
}

// CompressionResult records one run of compressions at a single level.
type CompressionResult struct {
	From     string `json:"from"`
	To       string `json:"to"`
	Level    int    `json:"level"`
	Times    int    `json:"times"`
	Consumed int    `json:"consumed"`
	Produced int    `json:"produced"`
}
