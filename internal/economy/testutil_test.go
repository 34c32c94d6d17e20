package economy

import (
	"reflect"
	"testing"

	"github.com/peterkuimelis/nucleon/internal/chem"
	"github.com/peterkuimelis/nucleon/internal/log"
)

// recordingSink collects every card the engine hands out.
type recordingSink struct {
	cards []string
}

func (s *recordingSink) sink(symbol string) {
	s.cards = append(s.cards, symbol)
}

func (s *recordingSink) count(symbol string) int {
	n := 0
	for _, c := range s.cards {
		if c == symbol {
			n++
		}
	}
	return n
}

// fixedRand returns a scripted sequence of Float64 values, repeating the last.
type fixedRand struct {
	values []float64
	pos    int
}

func (r *fixedRand) Float64() float64 {
	v := r.values[r.pos]
	if r.pos < len(r.values)-1 {
		r.pos++
	}
	return v
}

// testIndex covers hydrogen through iron plus a few heavier elements so
// supernova targets resolve.
func testIndex(t *testing.T) *chem.Index {
	t.Helper()
	elems := chem.StaticIndex().Elements()
	elems = append(elems,
		chem.Element{Number: 27, Symbol: "Co", Name: "Cobalt"},
		chem.Element{Number: 28, Symbol: "Ni", Name: "Nickel"},
	)
	idx, err := chem.NewIndex(elems)
	if err != nil {
		t.Fatalf("build index: %v", err)
	}
	return idx
}

type testEngine struct {
	*Engine
	logger *log.MemoryLogger
	sink   *recordingSink
}

// newTestEngine builds an engine with a memory logger, a recording card sink
// and the given materials. A nil cfg uses DefaultConfig.
func newTestEngine(t *testing.T, cfg *Config, materials map[string]int) *testEngine {
	t.Helper()
	logger := log.NewMemoryLogger()
	sink := &recordingSink{}
	e, err := NewEngine(EngineConfig{
		Config:   cfg,
		Index:    testIndex(t),
		Logger:   logger,
		CardSink: sink.sink,
	})
	if err != nil {
		t.Fatalf("NewEngine: %v", err)
	}
	for sym, n := range materials {
		if err := e.Grant(sym, n); err != nil {
			t.Fatalf("grant %s: %v", sym, err)
		}
	}
	return &testEngine{Engine: e, logger: logger, sink: sink}
}

// compressionConfig returns the default config with a custom threshold.
func compressionConfig(threshold int, levels ...int) *Config {
	cfg := DefaultConfig()
	cfg.Compression.Threshold = threshold
	if len(levels) > 0 {
		cfg.Compression.Levels = levels
	}
	return &cfg
}

// assertUnchanged fails if the engine's persisted state differs from before.
func assertUnchanged(t *testing.T, e *Engine, before SaveState) {
	t.Helper()
	after := e.SaveState()
	if !reflect.DeepEqual(before, after) {
		t.Errorf("Expected state unchanged\nbefore: %+v\nafter:  %+v", before, after)
	}
}
