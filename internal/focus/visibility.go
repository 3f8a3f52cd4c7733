package focus

import (
	"sync"

	"github.com/yungbote/neurofocus-backend/internal/platform/logger"
)

// transitionDetector fires once per transition into a negative state
// (tab hidden, window blurred) and re-arms on the matching positive event.
type transitionDetector struct {
	name     string
	log      *logger.Logger
	bus      *Bus
	classify func(Event) (negative, positive bool)
	onSignal func()

	mu      sync.Mutex
	active  bool
	entered bool
	unsub   func()
}

func (d *transitionDetector) Activate() {
	d.mu.Lock()
	if d.active {
		d.mu.Unlock()
		return
	}
	d.active = true
	d.entered = false
	d.mu.Unlock()

	unsub := d.bus.Subscribe(d.name, d.handle)
	d.mu.Lock()
	if d.active {
		d.unsub = unsub
		unsub = nil
	}
	d.mu.Unlock()
	if unsub != nil {
		unsub()
	}
}

func (d *transitionDetector) Deactivate() {
	d.mu.Lock()
	if !d.active {
		d.mu.Unlock()
		return
	}
	d.active = false
	d.entered = false
	unsub := d.unsub
	d.unsub = nil
	d.mu.Unlock()

	if unsub != nil {
		unsub()
	}
}

func (d *transitionDetector) Active() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.active
}

func (d *transitionDetector) handle(ev Event) {
	neg, pos := d.classify(ev)
	if !neg && !pos {
		return
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	if !d.active {
		return
	}
	if pos {
		d.entered = false
		return
	}
	if d.entered {
		return
	}
	d.entered = true
	guard(d.log, d.name, d.onSignal)
}

// VisibilityDetector signals when the page becomes hidden.
type VisibilityDetector struct{ transitionDetector }

func NewVisibilityDetector(log *logger.Logger, bus *Bus, onHidden func()) *VisibilityDetector {
	if log == nil {
		log = logger.NewNop()
	}
	return &VisibilityDetector{transitionDetector{
		name: "visibility",
		log:  log.With("detector", "visibility"),
		bus:  bus,
		classify: func(ev Event) (bool, bool) {
			if ev.Type != EventVisibilityChange {
				return false, false
			}
			return ev.Hidden, !ev.Hidden
		},
		onSignal: onHidden,
	}}
}

// BlurDetector signals when the window loses focus.
type BlurDetector struct{ transitionDetector }

func NewBlurDetector(log *logger.Logger, bus *Bus, onBlur func()) *BlurDetector {
	if log == nil {
		log = logger.NewNop()
	}
	return &BlurDetector{transitionDetector{
		name: "blur",
		log:  log.With("detector", "blur"),
		bus:  bus,
		classify: func(ev Event) (bool, bool) {
			switch ev.Type {
			case EventBlur:
				return true, false
			case EventFocus:
				return false, true
			}
			return false, false
		},
		onSignal: onBlur,
	}}
}
