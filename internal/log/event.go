package log

// EventType enumerates all observable economy events.
type EventType int

const (
	EventFusion EventType = iota
	EventFusionFailed
	EventBatchFusion
	EventBatchFailed
	EventCompression
	EventMilestone
	EventUpgrade
	EventCooldown
	EventGrant
	EventCardCreated
	EventMoleculeDraw
	EventStateLoaded
	EventInternalError // recovered panic or broken state inside an operation
	EventElementDraw
)

func (e EventType) String() string {
	switch e {
	case EventFusion:
		return "Fusion"
	case EventFusionFailed:
		return "FusionFailed"
	case EventBatchFusion:
		return "BatchFusion"
	case EventBatchFailed:
		return "BatchFailed"
	case EventCompression:
		return "Compression"
	case EventMilestone:
		return "Milestone"
	case EventUpgrade:
		return "Upgrade"
	case EventCooldown:
		return "Cooldown"
	case EventGrant:
		return "Grant"
	case EventCardCreated:
		return "CardCreated"
	case EventMoleculeDraw:
		return "MoleculeDraw"
	case EventStateLoaded:
		return "StateLoaded"
	case EventInternalError:
		return "InternalError"
	case EventElementDraw:
		return "ElementDraw"
	default:
		return "Unknown"
	}
}

// Event represents a single observable event in one player's economy.
type Event struct {
	Seq      int       `json:"seq"`                // monotonic sequence number
	Op       int       `json:"op"`                 // which engine operation produced it (1-based)
	Type     EventType `json:"type"`               // event type
	Material string    `json:"material,omitempty"` // element symbol (if applicable)
	Details  string    `json:"details"`            // human-readable detail string
}
