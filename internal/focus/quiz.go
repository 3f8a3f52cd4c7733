package focus

import (
	"context"
	"sync"
	"time"

	"github.com/facebookgo/clock"

	"github.com/yungbote/neurofocus-backend/internal/domain"
	"github.com/yungbote/neurofocus-backend/internal/platform/logger"
)

// QuizFetcher generates a short quiz from study material.
type QuizFetcher interface {
	GenerateQuiz(ctx context.Context, content string) (*domain.Quiz, error)
}

// QuizTrigger surfaces a quiz after a long stretch without interaction, when
// there is enough material to quiz on. Firing resets the interaction clock,
// which is the only cooldown.
type QuizTrigger struct {
	log     *logger.Logger
	bus     *Bus
	clk     clock.Clock
	cfg     Config
	fetcher QuizFetcher
	content func() string
	onQuiz  func(*domain.Quiz)

	mu                sync.Mutex
	lastInteractionAt time.Time
	running           bool
	unsub             func()
	cancel            context.CancelFunc
	done              chan struct{}
}

func NewQuizTrigger(log *logger.Logger, bus *Bus, clk clock.Clock, cfg Config, fetcher QuizFetcher, content func() string, onQuiz func(*domain.Quiz)) *QuizTrigger {
	if log == nil {
		log = logger.NewNop()
	}
	if clk == nil {
		clk = clock.New()
	}
	return &QuizTrigger{
		log:     log.With("component", "QuizTrigger"),
		bus:     bus,
		clk:     clk,
		cfg:     cfg,
		fetcher: fetcher,
		content: content,
		onQuiz:  onQuiz,
	}
}

// Start begins tracking interactions and polling every QuizPollInterval until
// Stop is called or ctx ends.
func (q *QuizTrigger) Start(ctx context.Context) {
	q.mu.Lock()
	if q.running {
		q.mu.Unlock()
		return
	}
	q.running = true
	q.lastInteractionAt = q.clk.Now()
	ctx, cancel := context.WithCancel(ctx)
	q.cancel = cancel
	q.done = make(chan struct{})
	done := q.done
	q.mu.Unlock()

	unsub := q.bus.Subscribe("quiz", q.handle)
	q.mu.Lock()
	if q.running && q.done == done {
		q.unsub = unsub
		unsub = nil
	}
	q.mu.Unlock()
	if unsub != nil {
		unsub()
	}

	ticker := q.clk.Ticker(q.cfg.QuizPollInterval)
	go func() {
		defer close(done)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				q.Check(ctx)
			}
		}
	}()
}

// Stop detaches the trigger and waits for the polling goroutine to exit.
func (q *QuizTrigger) Stop() {
	q.mu.Lock()
	if !q.running {
		q.mu.Unlock()
		return
	}
	q.running = false
	cancel, done, unsub := q.cancel, q.done, q.unsub
	q.cancel, q.done, q.unsub = nil, nil, nil
	q.mu.Unlock()

	if unsub != nil {
		unsub()
	}
	cancel()
	<-done
}

func (q *QuizTrigger) LastInteractionAt() time.Time {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.lastInteractionAt
}

func (q *QuizTrigger) handle(ev Event) {
	if !ev.IsActivity() {
		return
	}
	q.mu.Lock()
	q.lastInteractionAt = q.clk.Now()
	q.mu.Unlock()
}

// Check runs one poll. It reports whether the trigger fired; a failed fetch
// still counts as fired so the cooldown applies.
func (q *QuizTrigger) Check(ctx context.Context) bool {
	q.mu.Lock()
	now := q.clk.Now()
	if now.Sub(q.lastInteractionAt) <= q.cfg.QuizIdleThreshold {
		q.mu.Unlock()
		return false
	}
	material := ""
	if q.content != nil {
		material = q.content()
	}
	if len(material) <= q.cfg.QuizMinContent {
		q.mu.Unlock()
		return false
	}
	q.lastInteractionAt = now
	q.mu.Unlock()

	if q.fetcher == nil {
		return true
	}
	quiz, err := q.fetcher.GenerateQuiz(ctx, material)
	if err != nil {
		q.log.Warn("quiz unavailable", "error", err)
		return true
	}
	if !quiz.Usable() {
		q.log.Warn("quiz unavailable", "error", "generated quiz is incomplete")
		return true
	}
	guard(q.log, "quiz", func() {
		if q.onQuiz != nil {
			q.onQuiz(quiz)
		}
	})
	return true
}
