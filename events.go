package stratum

import (
	"fmt"
	"reflect"

	"go.uber.org/zap"
)

// Observer receives events of type E from an EventBus. Implementations must
// be comparable (typically a pointer) so they can be unregistered.
type Observer[E any] interface {
	Observe(event E)
}

type observerEntry[E any] struct {
	id       uint32
	observer Observer[E] // nil for func subscriptions
	fn       func(E)
}

// EventBus is a synchronous, single-threaded dispatcher for one event type.
// Observers run in registration order on the goroutine that calls Notify.
type EventBus[E any] struct {
	name    string
	entries []observerEntry[E]
	nextID  uint32
}

// NewEventBus creates an empty bus. The name is used in log output.
func NewEventBus[E any](name string) *EventBus[E] {
	return &EventBus[E]{name: name}
}

// Register adds o to the bus. Registering the same observer twice is a no-op.
// Panics if o's dynamic type is not comparable.
func (b *EventBus[E]) Register(o Observer[E]) {
	if o == nil {
		return
	}
	if !reflect.TypeOf(o).Comparable() {
		panic(fmt.Sprintf("stratum: observer of type %T is not comparable; register a pointer", o))
	}
	if b.indexOf(o) >= 0 {
		return
	}
	b.nextID++
	b.entries = append(b.entries, observerEntry[E]{id: b.nextID, observer: o})
}

// Unregister removes o. Unregistering an absent observer is a no-op.
func (b *EventBus[E]) Unregister(o Observer[E]) {
	if o == nil || !reflect.TypeOf(o).Comparable() {
		return
	}
	if i := b.indexOf(o); i >= 0 {
		b.removeAt(i)
	}
}

// Subscribe registers fn and returns a handle that removes it.
// Each call registers a new entry, even for the same function.
func (b *EventBus[E]) Subscribe(fn func(E)) Subscription {
	if fn == nil {
		return Subscription{}
	}
	b.nextID++
	id := b.nextID
	b.entries = append(b.entries, observerEntry[E]{id: id, fn: fn})
	return Subscription{remove: func() { b.removeID(id) }}
}

// Notify delivers event to every observer registered at the time of the
// call. A panicking observer is logged and skipped; the rest still run.
func (b *EventBus[E]) Notify(event E) {
	if len(b.entries) == 0 {
		return
	}
	// Snapshot so observers may register or unregister while dispatching.
	snapshot := make([]observerEntry[E], len(b.entries))
	copy(snapshot, b.entries)
	for i := range snapshot {
		b.dispatch(&snapshot[i], event)
	}
}

// Len returns the number of registered observers and subscriptions.
func (b *EventBus[E]) Len() int {
	return len(b.entries)
}

// Clear removes every observer.
func (b *EventBus[E]) Clear() {
	b.entries = nil
}

func (b *EventBus[E]) dispatch(e *observerEntry[E], event E) {
	defer func() {
		if r := recover(); r != nil {
			Logger().Warn("observer panicked",
				zap.String("bus", b.name),
				zap.Uint32("observer", e.id),
				zap.Any("recovered", r),
			)
		}
	}()
	if e.observer != nil {
		e.observer.Observe(event)
		return
	}
	e.fn(event)
}

func (b *EventBus[E]) indexOf(o Observer[E]) int {
	for i := range b.entries {
		if b.entries[i].observer != nil && b.entries[i].observer == o {
			return i
		}
	}
	return -1
}

func (b *EventBus[E]) removeID(id uint32) {
	for i := range b.entries {
		if b.entries[i].id == id {
			b.removeAt(i)
			return
		}
	}
}

func (b *EventBus[E]) removeAt(i int) {
	copy(b.entries[i:], b.entries[i+1:])
	b.entries[len(b.entries)-1] = observerEntry[E]{}
	b.entries = b.entries[:len(b.entries)-1]
}

// Subscription removes a function registered with EventBus.Subscribe.
type Subscription struct {
	remove func()
}

// Remove unregisters the subscription. Safe to call more than once.
func (s *Subscription) Remove() {
	if s.remove == nil {
		return
	}
	s.remove()
	s.remove = nil
}

// --- Transform change events ---

// ChangeKind identifies which transform property changed.
type ChangeKind uint8

const (
	ChangePosition ChangeKind = iota // local position
	ChangeRotation                   // local rotation
	ChangeScale                      // local scale
	ChangeHeight                     // local height
	ChangeParent                     // parent transform
)

func (k ChangeKind) String() string {
	switch k {
	case ChangePosition:
		return "position"
	case ChangeRotation:
		return "rotation"
	case ChangeScale:
		return "scale"
	case ChangeHeight:
		return "height"
	case ChangeParent:
		return "parent"
	default:
		return fmt.Sprintf("ChangeKind(%d)", uint8(k))
	}
}

// TransformChangeEvent is delivered before the change is committed, so
// Source still reports the old state while observers run.
//
// OldValue and NewValue hold a Vec2 for ChangePosition, float64 for
// ChangeRotation and ChangeHeight, Vec3 for ChangeScale and *Transform for
// ChangeParent.
type TransformChangeEvent struct {
	Source   *Transform
	Kind     ChangeKind
	OldValue any
	NewValue any
}

// TransformChanges receives the change events of every transform, after the
// transform's own observers.
var TransformChanges = NewEventBus[TransformChangeEvent]("transform")
