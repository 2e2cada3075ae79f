// Package ecs provides ECS adapters for trellis scroll notifications.
//
// The primary adapter is [NewScrollEventBridge], which forwards the start
// and finish of every scroll request into a [Donburi] world as typed events.
// Subscribe to [ScrollEventType] in your ECS systems to receive them.
//
// Usage:
//
//	bridge := ecs.NewScrollEventBridge(world)
//	container.Scroller().AddListener(bridge)
//
// [Donburi]: https://github.com/yohamta/donburi
package ecs
