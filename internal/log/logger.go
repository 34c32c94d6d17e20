package log

import (
	"fmt"
	"io"
	"strings"
)

// EventLogger is the interface for logging economy events.
type EventLogger interface {
	Log(event Event)
	Events() []Event
}

// --- MemoryLogger: stores events in memory for test assertions ---

type MemoryLogger struct {
	events []Event
	seq    int
}

func NewMemoryLogger() *MemoryLogger {
	return &MemoryLogger{}
}

func (l *MemoryLogger) Log(event Event) {
	l.seq++
	event.Seq = l.seq
	l.events = append(l.events, event)
}

func (l *MemoryLogger) Events() []Event {
	return l.events
}

// EventsOfType returns all events matching the given type.
func (l *MemoryLogger) EventsOfType(t EventType) []Event {
	var result []Event
	for _, e := range l.events {
		if e.Type == t {
			result = append(result, e)
		}
	}
	return result
}

// LastEvent returns the most recent event, or a zero event if none.
func (l *MemoryLogger) LastEvent() Event {
	if len(l.events) == 0 {
		return Event{}
	}
	return l.events[len(l.events)-1]
}

// Drain returns all events logged since the previous Drain and forgets them.
// Sequence numbers keep counting.
func (l *MemoryLogger) Drain() []Event {
	events := l.events
	l.events = nil
	return events
}

// --- TextLogger: writes human-readable lines to an io.Writer ---

type TextLogger struct {
	MemoryLogger
	w io.Writer
}

func NewTextLogger(w io.Writer) *TextLogger {
	return &TextLogger{w: w}
}

func (l *TextLogger) Log(event Event) {
	l.MemoryLogger.Log(event)
	fmt.Fprintln(l.w, FormatEvent(event))
}

// --- Discard ---

type discardLogger struct{}

func (discardLogger) Log(Event)       {}
func (discardLogger) Events() []Event { return nil }

// Discard is an EventLogger that drops everything.
var Discard EventLogger = discardLogger{}

// --- Formatting ---

// FormatEvent formats a single event as a human-readable line.
func FormatEvent(e Event) string {
	kind := e.Type.String()
	// Pad type to 14 chars for alignment
	for len(kind) < 14 {
		kind += " "
	}
	return fmt.Sprintf("#%-3d %s| %s", e.Op, kind, e.Details)
}

// FormatAll formats all events as a multi-line string.
func FormatAll(events []Event) string {
	var sb strings.Builder
	for _, e := range events {
		sb.WriteString(FormatEvent(e))
		sb.WriteByte('\n')
	}
	return sb.String()
}

// --- Helper constructors for common events ---

func NewFusionEvent(op int, from string, consumed int, target string, cost int) Event {
	return Event{
		Op:       op,
		Type:     EventFusion,
		Material: target,
		Details:  fmt.Sprintf("fuses %d×%s → %s (energy -%d)", consumed, from, target, cost),
	}
}

func NewFusionFailedEvent(op int, target int, reason string, detail string) Event {
	return Event{
		Op:      op,
		Type:    EventFusionFailed,
		Details: fmt.Sprintf("fusion toward Z=%d rejected: %s (%s)", target, reason, detail),
	}
}

func NewBatchFusionEvent(op int, items int, energy int, heat int, surplus int) Event {
	return Event{
		Op:      op,
		Type:    EventBatchFusion,
		Details: fmt.Sprintf("batch of %d fusions (energy -%d, heat +%d, surplus +%d)", items, energy, heat, surplus),
	}
}

func NewBatchFailedEvent(op int, items int, reason string, detail string) Event {
	return Event{
		Op:      op,
		Type:    EventBatchFailed,
		Details: fmt.Sprintf("batch of %d rejected: %s (%s)", items, reason, detail),
	}
}

func NewCompressionEvent(op int, from string, consumed int, to string, produced int) Event {
	return Event{
		Op:       op,
		Type:     EventCompression,
		Material: to,
		Details:  fmt.Sprintf("compresses %d×%s → %d×%s", consumed, from, produced, to),
	}
}

func NewMilestoneEvent(op int, name string, z int, research int) Event {
	return Event{
		Op:      op,
		Type:    EventMilestone,
		Details: fmt.Sprintf("milestone %s unlocked at Z=%d (research level %d)", name, z, research),
	}
}

func NewUpgradeEvent(op int, track string, level int) Event {
	return Event{
		Op:      op,
		Type:    EventUpgrade,
		Details: fmt.Sprintf("%s upgraded to level %d", track, level),
	}
}

func NewCooldownEvent(op int, vented float64, heat float64) Event {
	return Event{
		Op:      op,
		Type:    EventCooldown,
		Details: fmt.Sprintf("vents %.0f heat (heat now %.0f)", vented, heat),
	}
}

func NewGrantEvent(op int, symbol string, amount int) Event {
	return Event{
		Op:       op,
		Type:     EventGrant,
		Material: symbol,
		Details:  fmt.Sprintf("receives %d×%s", amount, symbol),
	}
}

func NewCardCreatedEvent(op int, symbol string) Event {
	return Event{
		Op:       op,
		Type:     EventCardCreated,
		Material: symbol,
		Details:  fmt.Sprintf("%s card added to hand", symbol),
	}
}

func NewMoleculeDrawEvent(op int, id string, name string, rarity string) Event {
	return Event{
		Op:      op,
		Type:    EventMoleculeDraw,
		Details: fmt.Sprintf("draws molecule %s (%s, %s)", name, id, rarity),
	}
}

func NewElementDrawEvent(op int, symbol string, elementCap int) Event {
	return Event{
		Op:       op,
		Type:     EventElementDraw,
		Material: symbol,
		Details:  fmt.Sprintf("no molecule within Z<=%d, draws 1×%s instead", elementCap, symbol),
	}
}

func NewStateLoadedEvent(op int, materials int, research int) Event {
	return Event{
		Op:      op,
		Type:    EventStateLoaded,
		Details: fmt.Sprintf("state loaded (%d materials, research level %d)", materials, research),
	}
}

func NewInternalErrorEvent(op int, where string, detail string) Event {
	return Event{
		Op:      op,
		Type:    EventInternalError,
		Details: fmt.Sprintf("%s: %s", where, detail),
	}
}
