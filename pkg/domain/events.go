package domain

import (
	"context"
	"time"
)

// EventType defines the category of the event.
type EventType string

const (
	EventGenerate     EventType = "generate"
	EventGateRejected EventType = "gate_rejected"
	EventExport       EventType = "export"
)

// EventBase contains common fields for all events.
type EventBase struct {
	Timestamp time.Time `json:"timestamp"`
	Type      EventType `json:"type"`
}

// GenerateEvent is emitted after a state space was produced (possibly empty).
type GenerateEvent struct {
	EventBase
	Variables int           `json:"variables"`
	States    int           `json:"states"`
	Duration  time.Duration `json:"duration"`
}

// GateEvent is emitted when the gate blanks the state space.
// Reasons holds one reason code per gate issue.
type GateEvent struct {
	EventBase
	Variables int      `json:"variables"`
	Reasons   []string `json:"reasons"`
}

// ExportEvent is emitted after a state space was encoded.
type ExportEvent struct {
	EventBase
	Format   string `json:"format"`
	Bytes    int    `json:"bytes"`
	CacheHit bool   `json:"cache_hit"`
}

// LifecycleHooks defines callbacks for engine observability.
type LifecycleHooks struct {
	OnGenerate     func(context.Context, *GenerateEvent)
	OnGateRejected func(context.Context, *GateEvent)
	OnExport       func(context.Context, *ExportEvent)
}
