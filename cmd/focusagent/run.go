package main

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/facebookgo/clock"
	"golang.org/x/sync/errgroup"

	"github.com/yungbote/neurofocus-backend/internal/domain"
	"github.com/yungbote/neurofocus-backend/internal/focus"
	"github.com/yungbote/neurofocus-backend/internal/platform/logger"
)

const (
	maxLineBytes = 1 << 20
	closeTimeout = 10 * time.Second
)

// hostMessage is one NDJSON line from the browser host. Control messages
// (open, close, transcript, answer) drive the controller; anything else is
// forwarded to the detectors as a DOM event.
type hostMessage struct {
	Type      string `json:"type"`
	Hidden    bool   `json:"hidden,omitempty"`
	ContentID string `json:"contentId,omitempty"`
	Text      string `json:"text,omitempty"`
	Correct   bool   `json:"correct,omitempty"`
}

type agentDeps struct {
	log     *logger.Logger
	clk     clock.Clock
	cfg     focus.Config
	api     focus.SessionAPI
	quizzes focus.QuizFetcher
}

type agent struct {
	log  *logger.Logger
	bus  *focus.Bus
	ctrl *focus.Controller
}

func (a *agent) handle(ctx context.Context, msg hostMessage) {
	switch msg.Type {
	case "open":
		if err := a.ctrl.Open(ctx, msg.ContentID); err != nil {
			a.log.Warn("open failed", "content_id", msg.ContentID, "error", err)
		}
	case "close":
		if _, err := a.ctrl.Close(ctx); err != nil {
			a.log.Warn("close failed", "error", err)
		}
	case "transcript":
		a.ctrl.AppendTranscript(msg.Text)
	case "answer":
		a.ctrl.Answer(msg.Correct)
	case "":
		a.log.Warn("host message without type")
	default:
		a.bus.Emit(focus.Event{Type: focus.EventType(msg.Type), Hidden: msg.Hidden})
	}
}

// runAgent tracks views until in reaches EOF or ctx is cancelled. The open
// view, if any, is closed on every exit path.
func runAgent(ctx context.Context, deps agentDeps, in io.Reader, out io.Writer) error {
	log := deps.log
	if log == nil {
		log = logger.NewNop()
	}
	clk := deps.clk
	if clk == nil {
		clk = clock.New()
	}
	if err := deps.cfg.Validate(); err != nil {
		return err
	}

	status := newPrinter()
	bus := focus.NewBus(log)
	ctrl := focus.NewController(focus.ControllerOptions{
		Log:     log,
		Bus:     bus,
		Clock:   clk,
		Config:  deps.cfg,
		API:     deps.api,
		Quizzes: deps.quizzes,
		OnQuiz: func(q *domain.Quiz) {
			status.send(renderQuiz(q))
		},
	})
	a := &agent{log: log.With("component", "FocusAgent"), bus: bus, ctrl: ctrl}
	unwatch := ctrl.Score().Watch(func(s focus.Snapshot) {
		status.send(renderStatus(s))
	})

	g, gctx := errgroup.WithContext(ctx)

	// readHost is not in the group: a blocked Scan on stdin must not hold
	// up shutdown. It stops forwarding once gctx is done.
	msgs := make(chan hostMessage)
	readErr := make(chan error, 1)
	go readHost(gctx, in, msgs, readErr, a.log)

	g.Go(func() error {
		for line := range status.lines {
			if _, err := fmt.Fprintln(out, line); err != nil {
				return err
			}
		}
		return nil
	})
	g.Go(func() error {
		defer status.close()
		defer unwatch()
		defer func() {
			closeCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), closeTimeout)
			defer cancel()
			ended, err := ctrl.Close(closeCtx)
			if err != nil {
				a.log.Warn("final close failed", "error", err)
			}
			if ended != nil {
				status.send(renderEnded(ended))
			}
		}()
		for {
			select {
			case <-gctx.Done():
				return nil
			case msg, ok := <-msgs:
				if !ok {
					return <-readErr
				}
				a.handle(gctx, msg)
			}
		}
	})
	return g.Wait()
}

func readHost(ctx context.Context, in io.Reader, msgs chan<- hostMessage, readErr chan<- error, log *logger.Logger) {
	defer close(msgs)
	scanner := bufio.NewScanner(in)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineBytes)
	for scanner.Scan() {
		raw := scanner.Bytes()
		if len(raw) == 0 {
			continue
		}
		var msg hostMessage
		if err := json.Unmarshal(raw, &msg); err != nil {
			log.Warn("skipping malformed host message", "error", err)
			continue
		}
		select {
		case msgs <- msg:
		case <-ctx.Done():
			readErr <- nil
			return
		}
	}
	readErr <- scanner.Err()
}

// printer serialises status lines onto the output. Late sends after close
// are dropped, as are sends while the writer is behind.
type printer struct {
	mu     sync.Mutex
	closed bool
	lines  chan string
}

func newPrinter() *printer {
	return &printer{lines: make(chan string, 32)}
}

func (p *printer) send(line string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return
	}
	select {
	case p.lines <- line:
	default:
	}
}

func (p *printer) close() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.closed {
		p.closed = true
		close(p.lines)
	}
}
