package focus

import (
	"sync"
	"time"

	"github.com/facebookgo/clock"

	"github.com/yungbote/neurofocus-backend/internal/platform/logger"
)

// IdleDetector fires onIdle after threshold without activity, then re-arms.
// Every activity event restarts the countdown.
type IdleDetector struct {
	log       *logger.Logger
	bus       *Bus
	clk       clock.Clock
	threshold time.Duration
	onIdle    func()

	mu       sync.Mutex
	active   bool
	gen      uint64
	timer    *clock.Timer
	deadline time.Time
	unsub    func()
}

func NewIdleDetector(log *logger.Logger, bus *Bus, clk clock.Clock, threshold time.Duration, onIdle func()) *IdleDetector {
	if log == nil {
		log = logger.NewNop()
	}
	if clk == nil {
		clk = clock.New()
	}
	return &IdleDetector{
		log:       log.With("detector", "idle"),
		bus:       bus,
		clk:       clk,
		threshold: threshold,
		onIdle:    onIdle,
	}
}

func (d *IdleDetector) Activate() {
	d.mu.Lock()
	if d.active {
		d.mu.Unlock()
		return
	}
	d.active = true
	d.armLocked()
	d.mu.Unlock()

	unsub := d.bus.Subscribe("idle", d.handle)
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

// Deactivate stops the timer and detaches from the bus. If a fire is in flight
// it waits for it, so no idle callback runs once this returns.
func (d *IdleDetector) Deactivate() {
	d.mu.Lock()
	if !d.active {
		d.mu.Unlock()
		return
	}
	d.active = false
	d.gen++
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	d.deadline = time.Time{}
	unsub := d.unsub
	d.unsub = nil
	d.mu.Unlock()

	if unsub != nil {
		unsub()
	}
}

func (d *IdleDetector) Active() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.active
}

// Deadline is when the pending idle timer will fire; zero when inactive.
func (d *IdleDetector) Deadline() time.Time {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.deadline
}

// Reset restarts the countdown as if activity had just happened.
func (d *IdleDetector) Reset() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.active {
		d.armLocked()
	}
}

func (d *IdleDetector) handle(ev Event) {
	if ev.IsActivity() {
		d.Reset()
	}
}

func (d *IdleDetector) armLocked() {
	if d.timer != nil {
		d.timer.Stop()
	}
	d.gen++
	gen := d.gen
	d.deadline = d.clk.Now().Add(d.threshold)
	d.timer = d.clk.AfterFunc(d.threshold, func() { d.fire(gen) })
}

// fire holds mu across the callback; stale generations are dropped so a timer
// that raced with Stop or Reset never applies a penalty.
func (d *IdleDetector) fire(gen uint64) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if !d.active || gen != d.gen {
		return
	}
	d.timer = nil
	d.armLocked()
	guard(d.log, "idle", d.onIdle)
}
