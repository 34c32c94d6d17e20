package economy

import (
	"testing"

	"github.com/peterkuimelis/nucleon/internal/log"
)

func TestCompressionCascade(t *testing.T) {
	e := newTestEngine(t, compressionConfig(6), map[string]int{"H": 13})
	energy := e.Resources().Energy

	results := e.RunCompressionCascade()
	if len(results) != 2 {
		t.Fatalf("Expected 2 compression results, got %d: %+v", len(results), results)
	}

	first := results[0]
	if first.From != "H" || first.To != "He" || first.Level != 6 || first.Times != 2 {
		t.Errorf("Unexpected first step %+v", first)
	}
	if first.Consumed != 12 || first.Produced != 6 {
		t.Errorf("Expected 12 H -> 6 He, got %d -> %d", first.Consumed, first.Produced)
	}

	second := results[1]
	if second.From != "He" || second.To != "Li" || second.Consumed != 6 || second.Produced != 3 {
		t.Errorf("Unexpected second step %+v", second)
	}

	if e.Count("H") != 1 || e.Count("He") != 0 || e.Count("Li") != 3 {
		t.Errorf("Expected H=1 He=0 Li=3, got H=%d He=%d Li=%d", e.Count("H"), e.Count("He"), e.Count("Li"))
	}
	if e.Resources().Energy != energy {
		t.Errorf("Expected compression to cost no energy, got %v", e.Resources().Energy)
	}
	if e.sink.count("He") != 6 || e.sink.count("Li") != 3 {
		t.Errorf("Expected 6 He and 3 Li cards, got %v", e.sink.cards)
	}
	if n := len(e.logger.EventsOfType(log.EventCompression)); n != 2 {
		t.Errorf("Expected 2 compression events, got %d", n)
	}
}

func TestCompressionIsIdempotent(t *testing.T) {
	e := newTestEngine(t, compressionConfig(6), map[string]int{"H": 13})
	e.RunCompressionCascade()
	after := e.SaveState()
	cards := len(e.sink.cards)

	if results := e.RunCompressionCascade(); results != nil {
		t.Errorf("Expected no-op second cascade, got %+v", results)
	}
	assertUnchanged(t, e.Engine, after)
	if len(e.sink.cards) != cards {
		t.Error("Expected no new cards")
	}
}

func TestCompressionDefaultThreshold(t *testing.T) {
	e := newTestEngine(t, nil, map[string]int{"H": 15, "Li": 16})

	results := e.RunCompressionCascade()
	if len(results) != 1 {
		t.Fatalf("Expected 1 result, got %+v", results)
	}
	if results[0].From != "Li" || results[0].Level != 16 {
		t.Errorf("Unexpected result %+v", results[0])
	}
	if e.Count("H") != 15 || e.Count("Li") != 0 || e.Count("Be") != 8 {
		t.Errorf("Expected H=15 Li=0 Be=8, got H=%d Li=%d Be=%d", e.Count("H"), e.Count("Li"), e.Count("Be"))
	}
}

// TestCompressionSkipsHeaviestKnown: the last element in the index has no
// successor and is never compressed.
func TestCompressionSkipsHeaviestKnown(t *testing.T) {
	e := newTestEngine(t, compressionConfig(6), map[string]int{"Ni": 40})

	if results := e.RunCompressionCascade(); results != nil {
		t.Errorf("Expected nothing to compress, got %+v", results)
	}
	if e.Count("Ni") != 40 {
		t.Errorf("Expected Ni=40, got %d", e.Count("Ni"))
	}
}

func TestPlanCompressionPassCap(t *testing.T) {
	l := NewLedger()
	if err := l.add("H", 13); err != nil {
		t.Fatal(err)
	}
	cc := compressionConfig(6).Compression

	full, _ := PlanCompression(l, testIndex(t), cc)
	if full.Capped {
		t.Error("Expected the default pass cap to reach a fixed point")
	}
	if full.Steps != 3 {
		t.Errorf("Expected 3 steps, got %d", full.Steps)
	}

	cc.MaxIterations = 1
	capped, ledger := PlanCompression(l, testIndex(t), cc)
	if capped.Capped || capped.Passes != 1 {
		t.Errorf("Expected one pass with nothing left over, got %+v", capped)
	}
	if l.Count("H") != 13 {
		t.Error("Expected the input ledger to stay untouched")
	}
	if ledger.Count("Li") != 3 {
		t.Errorf("Expected one pass to still reach Li=3, got %d", ledger.Count("Li"))
	}
}

func TestCompressionLastPassNotReportedAsCapped(t *testing.T) {
	cfg := compressionConfig(6)
	cfg.Compression.MaxIterations = 1
	e := newTestEngine(t, cfg, map[string]int{"H": 13})

	if res := e.RunCompressionCascade(); len(res) != 2 {
		t.Fatalf("Expected 2 compression results, got %+v", res)
	}
	if errs := e.logger.EventsOfType(log.EventInternalError); len(errs) != 0 {
		t.Errorf("Expected no internal error when the last pass reached a fixed point, got %+v", errs)
	}
}

func TestCompressible(t *testing.T) {
	idx := testIndex(t)
	l := NewLedger()
	if err := l.add("Ni", 50); err != nil {
		t.Fatal(err)
	}
	if compressible(l, idx, idx.Elements(), 6) {
		t.Error("Expected the heaviest element not to count as compressible")
	}
	if err := l.add("H", 6); err != nil {
		t.Fatal(err)
	}
	if !compressible(l, idx, idx.Elements(), 6) {
		t.Error("Expected H=6 to be compressible at threshold 6")
	}
}

func TestCompressionHeatPerStep(t *testing.T) {
	cfg := compressionConfig(6)
	cfg.Compression.HeatPerStep = 1
	e := newTestEngine(t, cfg, map[string]int{"H": 13})

	e.RunCompressionCascade()
	if got := e.Resources().Heat; got != 3 {
		t.Errorf("Expected heat 3 after 3 steps, got %v", got)
	}
}

func TestCompressionProduced(t *testing.T) {
	out := CascadeOutcome{Results: []CompressionResult{
		{From: "H", To: "He", Produced: 6},
		{From: "H", To: "He", Produced: 1},
		{From: "He", To: "Li", Produced: 3},
	}}
	got := out.Produced()
	if got["He"] != 7 || got["Li"] != 3 {
		t.Errorf("Unexpected totals %v", got)
	}
}
