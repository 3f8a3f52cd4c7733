package focus

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/facebookgo/clock"

	"github.com/yungbote/neurofocus-backend/internal/domain"
	"github.com/yungbote/neurofocus-backend/internal/platform/logger"
)

// SessionAPI is the server side of a tracked session.
type SessionAPI interface {
	StartSession(ctx context.Context, contentID string) (*domain.Session, error)
	EndSession(ctx context.Context, focusScore int) (*domain.Session, error)
}

// Controller owns one tracked view: its score, tracker, quiz trigger and the
// server session. Close must run on every exit path.
type Controller struct {
	log     *logger.Logger
	cfg     Config
	api     SessionAPI
	score   *Score
	tracker *Tracker
	quiz    *QuizTrigger

	mu         sync.Mutex
	open       bool
	contentID  string
	session    *domain.Session
	transcript strings.Builder
}

type ControllerOptions struct {
	Log     *logger.Logger
	Bus     *Bus
	Clock   clock.Clock
	Config  Config
	API     SessionAPI
	Quizzes QuizFetcher
	// OnQuiz receives generated quizzes; optional.
	OnQuiz func(*domain.Quiz)
}

func NewController(opts ControllerOptions) *Controller {
	log := opts.Log
	if log == nil {
		log = logger.NewNop()
	}
	bus := opts.Bus
	if bus == nil {
		bus = NewBus(log)
	}
	c := &Controller{
		log:   log.With("component", "FocusController"),
		cfg:   opts.Config,
		api:   opts.API,
		score: NewScore(),
	}
	c.tracker = NewTracker(log, bus, opts.Clock, c.score, opts.Config)
	c.quiz = NewQuizTrigger(log, bus, opts.Clock, opts.Config, opts.Quizzes, c.Transcript, opts.OnQuiz)
	return c
}

func (c *Controller) Score() *Score { return c.score }

func (c *Controller) Tracker() *Tracker { return c.tracker }

func (c *Controller) Quiz() *QuizTrigger { return c.quiz }

// Open starts a tracked view of contentID. An already-open view is closed
// first. The score is reset, the server session started and the detectors
// attached. A failed server start is returned, but tracking still runs; the
// later Close then skips endSession.
func (c *Controller) Open(ctx context.Context, contentID string) error {
	contentID = strings.TrimSpace(contentID)
	if contentID == "" {
		return errors.New("content id required")
	}
	if c.IsOpen() {
		if _, err := c.Close(ctx); err != nil {
			c.log.Warn("closing previous view failed", "error", err)
		}
	}

	c.mu.Lock()
	c.open = true
	c.contentID = contentID
	c.session = nil
	c.transcript.Reset()
	c.mu.Unlock()

	c.score.ResetFocus()

	var startErr error
	if c.api != nil {
		sess, err := c.api.StartSession(ctx, contentID)
		if err != nil {
			startErr = fmt.Errorf("start session: %w", err)
			c.log.Warn("session start failed; tracking locally", "content_id", contentID, "error", err)
		} else {
			c.mu.Lock()
			c.session = sess
			c.mu.Unlock()
		}
	}

	c.tracker.SetActive(true)
	c.quiz.Start(context.WithoutCancel(ctx))
	return startErr
}

// Close detaches every detector, stops the quiz poller and, when a server
// session was started, ends it with the current score. Closing a closed
// controller is a no-op.
func (c *Controller) Close(ctx context.Context) (*domain.Session, error) {
	c.mu.Lock()
	if !c.open {
		c.mu.Unlock()
		return nil, nil
	}
	c.open = false
	started := c.session != nil
	c.session = nil
	c.mu.Unlock()

	c.tracker.SetActive(false)
	c.quiz.Stop()

	if !started || c.api == nil {
		return nil, nil
	}
	final := c.score.Value()
	ended, err := c.api.EndSession(ctx, final)
	if err != nil {
		if errors.Is(err, domain.ErrNoActiveSession) {
			c.log.Warn("server had no active session to end", "score", final)
			return nil, nil
		}
		return nil, fmt.Errorf("end session: %w", err)
	}
	return ended, nil
}

func (c *Controller) IsOpen() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.open
}

// Session is the server record of the current view, if one was started.
func (c *Controller) Session() *domain.Session {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.session
}

func (c *Controller) ContentID() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.contentID
}

// AppendTranscript adds captured study material used by the quiz gate.
func (c *Controller) AppendTranscript(text string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.transcript.Len() > 0 {
		c.transcript.WriteByte(' ')
	}
	c.transcript.WriteString(text)
}

func (c *Controller) Transcript() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.transcript.String()
}

// Answer rewards a correct quiz answer.
func (c *Controller) Answer(correct bool) Snapshot {
	if !correct {
		return c.score.Snapshot()
	}
	return c.score.IncreaseScore(c.cfg.QuizReward)
}
