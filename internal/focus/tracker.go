package focus

import (
	"sync"
	"time"

	"github.com/facebookgo/clock"

	"github.com/yungbote/neurofocus-backend/internal/platform/logger"
)

// Tracker wires the idle, visibility and blur detectors to a shared Score for
// as long as it is active. It never resets the score; whoever opens a tracked
// session does.
type Tracker struct {
	log   *logger.Logger
	score *Score
	cfg   Config

	idle       *IdleDetector
	visibility *VisibilityDetector
	blur       *BlurDetector

	mu     sync.Mutex
	active bool
}

func NewTracker(log *logger.Logger, bus *Bus, clk clock.Clock, score *Score, cfg Config) *Tracker {
	if log == nil {
		log = logger.NewNop()
	}
	t := &Tracker{
		log:   log.With("component", "FocusTracker"),
		score: score,
		cfg:   cfg,
	}
	t.idle = NewIdleDetector(t.log, bus, clk, cfg.IdleThreshold, t.penalty("idle", cfg.IdlePenalty))
	t.visibility = NewVisibilityDetector(t.log, bus, t.penalty("hidden", cfg.HiddenPenalty))
	t.blur = NewBlurDetector(t.log, bus, t.penalty("blur", cfg.BlurPenalty))
	return t
}

func (t *Tracker) penalty(reason string, amount int) func() {
	return func() {
		snap := t.score.DecreaseScore(amount)
		t.log.Debug("focus penalty applied", "reason", reason, "amount", amount, "score", snap.Value, "state", snap.State)
	}
}

// SetActive attaches (true) or detaches (false) every detector. Calls that do
// not change the flag are no-ops.
func (t *Tracker) SetActive(active bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.active == active {
		return
	}
	t.active = active
	if active {
		for _, d := range t.detectors() {
			t.run("activate", d.Activate)
		}
		return
	}
	ds := t.detectors()
	for i := len(ds) - 1; i >= 0; i-- {
		t.run("deactivate", ds[i].Deactivate)
	}
}

func (t *Tracker) Active() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.active
}

// Close deactivates the tracker; safe to defer on every exit path.
func (t *Tracker) Close() { t.SetActive(false) }

func (t *Tracker) Score() *Score { return t.score }

// IdleDeadline is when the next idle penalty is due; zero while inactive.
func (t *Tracker) IdleDeadline() time.Time { return t.idle.Deadline() }

func (t *Tracker) detectors() []Detector {
	return []Detector{t.idle, t.visibility, t.blur}
}

// run isolates detector lifecycle calls so one failing detector does not leave
// the others attached.
func (t *Tracker) run(op string, fn func()) {
	defer func() {
		if r := recover(); r != nil {
			t.log.Error("detector lifecycle call panicked", "op", op, "panic", r)
		}
	}()
	fn()
}
