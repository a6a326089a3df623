// Package ecs connects stratum transforms to a [Donburi] world.
//
// [Bridge] republishes every transform change event as a Donburi event of
// type [TransformChangeEventType]. Donburi queues events, so systems see
// them after the change has been committed, once the world's events are
// processed:
//
//	world := donburi.NewWorld()
//	sub := ecs.Bridge(world)
//	defer sub.Remove()
//
//	ecs.TransformChangeEventType.Subscribe(world, onTransformChange)
//	// ... each tick:
//	events.ProcessAllEvents(world)
//
// [Donburi]: https://github.com/yohamta/donburi
package ecs
