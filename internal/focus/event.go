package focus

import (
	"sync"
	"time"

	"github.com/yungbote/neurofocus-backend/internal/platform/logger"
)

// EventType mirrors the DOM event names a browser host forwards.
type EventType string

const (
	EventVisibilityChange EventType = "visibilitychange"
	EventBlur             EventType = "blur"
	EventFocus            EventType = "focus"
	EventMouseMove        EventType = "mousemove"
	EventPointerDown      EventType = "pointerdown"
	EventKeyDown          EventType = "keydown"
	EventScroll           EventType = "scroll"
	EventWheel            EventType = "wheel"
	EventClick            EventType = "click"
	EventTouchStart       EventType = "touchstart"
)

// Event is one host signal. Hidden is only meaningful for visibilitychange.
type Event struct {
	Type   EventType `json:"type"`
	Hidden bool      `json:"hidden,omitempty"`
	At     time.Time `json:"at,omitempty"`
}

// IsActivity reports whether the event counts as user interaction for the idle
// detector and the quiz trigger.
func (e Event) IsActivity() bool {
	switch e.Type {
	case EventMouseMove, EventPointerDown, EventKeyDown, EventScroll, EventWheel, EventClick, EventTouchStart:
		return true
	}
	return false
}

// Bus fans host events out to subscribed detectors. Each subscriber runs
// isolated: a panic in one is logged and the rest still see the event.
type Bus struct {
	log    *logger.Logger
	mu     sync.RWMutex
	nextID int
	subs   map[int]subscriber
}

type subscriber struct {
	name string
	fn   func(Event)
}

func NewBus(log *logger.Logger) *Bus {
	if log == nil {
		log = logger.NewNop()
	}
	return &Bus{
		log:  log.With("component", "FocusEventBus"),
		subs: make(map[int]subscriber),
	}
}

// Subscribe registers fn under name. The returned func detaches it and is safe
// to call more than once.
func (b *Bus) Subscribe(name string, fn func(Event)) (unsubscribe func()) {
	b.mu.Lock()
	id := b.nextID
	b.nextID++
	b.subs[id] = subscriber{name: name, fn: fn}
	b.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			b.mu.Lock()
			delete(b.subs, id)
			b.mu.Unlock()
		})
	}
}

func (b *Bus) Len() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subs)
}

// Emit delivers ev synchronously to every current subscriber.
func (b *Bus) Emit(ev Event) {
	b.mu.RLock()
	subs := make([]subscriber, 0, len(b.subs))
	for _, s := range b.subs {
		subs = append(subs, s)
	}
	b.mu.RUnlock()

	for _, s := range subs {
		b.deliver(s, ev)
	}
}

func (b *Bus) deliver(s subscriber, ev Event) {
	defer func() {
		if r := recover(); r != nil {
			b.log.Error("focus event subscriber panicked", "subscriber", s.name, "event", ev.Type, "panic", r)
		}
	}()
	s.fn(ev)
}

// guard runs fn and converts a panic into a logged error so one misbehaving
// penalty callback cannot take down a timer goroutine.
func guard(log *logger.Logger, name string, fn func()) {
	if fn == nil {
		return
	}
	defer func() {
		if r := recover(); r != nil {
			log.Error("focus callback panicked", "callback", name, "panic", r)
		}
	}()
	fn()
}
