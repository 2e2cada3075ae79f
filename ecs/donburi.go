package ecs

import (
	"github.com/phanxgames/trellis"

	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/features/events"
)

// ScrollPhase says which notification a ScrollEvent carries.
type ScrollPhase uint8

const (
	ScrollPhaseStarted ScrollPhase = iota
	ScrollPhaseFinished
)

// ScrollEvent is published once when a scroll request starts and once when
// it finishes. Completed is only meaningful for ScrollPhaseFinished and is
// false for a cancelled or superseded request.
type ScrollEvent struct {
	Phase     ScrollPhase
	Target    trellis.ScrollTarget
	Completed bool
}

// ScrollEventType is the Donburi event type for trellis scroll events.
var ScrollEventType = events.NewEventType[ScrollEvent]()

type scrollEventBridge struct {
	world donburi.World
}

// NewScrollEventBridge creates a ScrollListener backed by a Donburi world.
// Events are published to ScrollEventType and can be consumed with
// events.Subscribe and ProcessEvents.
func NewScrollEventBridge(world donburi.World) trellis.ScrollListener {
	return &scrollEventBridge{world: world}
}

func (b *scrollEventBridge) ScrollStarted(target trellis.ScrollTarget) {
	ScrollEventType.Publish(b.world, ScrollEvent{Phase: ScrollPhaseStarted, Target: target})
}

func (b *scrollEventBridge) ScrollFinished(target trellis.ScrollTarget, completed bool) {
	ScrollEventType.Publish(b.world, ScrollEvent{Phase: ScrollPhaseFinished, Target: target, Completed: completed})
}
