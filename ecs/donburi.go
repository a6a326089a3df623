package ecs

import (
	"github.com/phanxgames/stratum"

	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/features/events"
)

// TransformChangeEventType is the Donburi event type for transform changes.
var TransformChangeEventType = events.NewEventType[stratum.TransformChangeEvent]()

// TransformData attaches a stratum transform to an entity.
type TransformData struct {
	Transform *stratum.Transform
}

// TransformComponent is the Donburi component holding an entity's transform.
var TransformComponent = donburi.NewComponentType[TransformData]()

// Bridge publishes every stratum transform change into world until the
// returned subscription is removed.
func Bridge(world donburi.World) stratum.Subscription {
	return stratum.TransformChanges.Subscribe(func(ev stratum.TransformChangeEvent) {
		TransformChangeEventType.Publish(world, ev)
	})
}

// NewEntity creates an entity with a transform under parent (Root if nil).
// The entity is the transform's game object.
func NewEntity(world donburi.World, parent *stratum.Transform) (donburi.Entity, *stratum.Transform) {
	entity := world.Create(TransformComponent)
	entry := world.Entry(entity)
	t := stratum.NewTransform(entity, parent)
	TransformComponent.SetValue(entry, TransformData{Transform: t})
	return entity, t
}

// TransformOf returns the transform attached to entity, or nil.
func TransformOf(world donburi.World, entity donburi.Entity) *stratum.Transform {
	if !world.Valid(entity) {
		return nil
	}
	entry := world.Entry(entity)
	if !entry.HasComponent(TransformComponent) {
		return nil
	}
	return TransformComponent.Get(entry).Transform
}
