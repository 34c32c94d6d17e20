package net

import (
	"github.com/peterkuimelis/nucleon/internal/chem"
	"github.com/peterkuimelis/nucleon/internal/economy"
	"github.com/peterkuimelis/nucleon/internal/log"
)

// Message types for the JSON line protocol over TCP and websocket.

// Client → server request types.
const (
	MsgFuse     = "fuse"
	MsgBatch    = "batch"
	MsgCompress = "compress"
	MsgUpgrade  = "upgrade"
	MsgCooldown = "cooldown"
	MsgGrant    = "grant"
	MsgDraw     = "draw"
	MsgState    = "state"
	MsgSave     = "save"
	MsgLoad     = "load"
)

// Server → client response types. Every success response echoes the request type.
const (
	MsgError = "error"
)

// --- Client → Server messages ---

// ClientMessage is the envelope for all client-to-server messages.
type ClientMessage struct {
	Type string `json:"type"`

	// For "fuse". Decoded as a number so non-integer targets can be rejected
	// instead of silently truncated.
	Z float64 `json:"z,omitempty"`

	// For "batch"
	Targets []float64 `json:"targets,omitempty"`

	// For "upgrade"
	Track string `json:"track,omitempty"`

	// For "grant"
	Symbol string `json:"symbol,omitempty"`
	Amount int    `json:"amount,omitempty"`

	// For "save" and "load"
	ID string `json:"id,omitempty"`
}

// --- Server → Client messages ---

// ServerMessage is the envelope for all server-to-client messages.
type ServerMessage struct {
	Type string `json:"type"`

	// For "error"
	Error string `json:"error,omitempty"`

	// For "fuse"
	Fusion *economy.FusionResult `json:"fusion,omitempty"`

	// For "batch"
	Batch *economy.BatchResult `json:"batch,omitempty"`

	// For "compress"
	Compression []economy.CompressionResult `json:"compression,omitempty"`

	// For "upgrade"
	Upgraded bool `json:"upgraded,omitempty"`

	// For "cooldown"
	Vented float64 `json:"vented,omitempty"`

	// For "draw". Element is set instead of Molecule when no molecule was
	// drawable and an element was drawn from the fallback pool.
	Molecule *chem.Recipe `json:"molecule,omitempty"`
	Element  string       `json:"element,omitempty"`

	// For "save" and "load"
	ID string `json:"id,omitempty"`

	// Attached to every response.
	Cards  []string          `json:"cards,omitempty"` // cards created by this request
	Events []EventView       `json:"events,omitempty"`
	State  *economy.Snapshot `json:"state,omitempty"`
}

// EventView is a simplified economy event for the client.
type EventView struct {
	Op       int    `json:"op"`
	Type     string `json:"type"`
	Material string `json:"material,omitempty"`
	Details  string `json:"details"`
}

// NewEventView converts a logged event for the wire.
func NewEventView(e log.Event) EventView {
	return EventView{
		Op:       e.Op,
		Type:     e.Type.String(),
		Material: e.Material,
		Details:  e.Details,
	}
}

// EventViews converts a list of logged events.
func EventViews(events []log.Event) []EventView {
	if len(events) == 0 {
		return nil
	}
	out := make([]EventView, len(events))
	for i, e := range events {
		out[i] = NewEventView(e)
	}
	return out
}
