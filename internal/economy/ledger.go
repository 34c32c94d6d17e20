package economy

import (
	"fmt"
	"sort"
)

// Ledger maps material symbol → owned count. Absent symbols count as zero.
type Ledger struct {
	counts map[string]int
}

// NewLedger returns an empty ledger.
func NewLedger() Ledger {
	return Ledger{counts: make(map[string]int)}
}

// Count returns how many units of symbol are held.
func (l Ledger) Count(symbol string) int {
	return l.counts[symbol]
}

// Symbols returns every symbol with a non-zero count, sorted.
func (l Ledger) Symbols() []string {
	out := make([]string, 0, len(l.counts))
	for s, n := range l.counts {
		if n != 0 {
			out = append(out, s)
		}
	}
	sort.Strings(out)
	return out
}

// Total returns the number of units across all materials.
func (l Ledger) Total() int {
	total := 0
	for _, n := range l.counts {
		total += n
	}
	return total
}

// Map returns a copy of the non-zero entries.
func (l Ledger) Map() map[string]int {
	out := make(map[string]int, len(l.counts))
	for s, n := range l.counts {
		if n != 0 {
			out[s] = n
		}
	}
	return out
}

// Clone returns an independent copy.
func (l Ledger) Clone() Ledger {
	c := NewLedger()
	for s, n := range l.counts {
		c.counts[s] = n
	}
	return c
}

// add applies delta to symbol. The entry never goes negative; the ledger is
// left untouched when it would.
func (l Ledger) add(symbol string, delta int) error {
	next := l.counts[symbol] + delta
	if next < 0 {
		return fmt.Errorf("ledger: %s would drop to %d", symbol, next)
	}
	if next == 0 {
		delete(l.counts, symbol)
		return nil
	}
	l.counts[symbol] = next
	return nil
}
