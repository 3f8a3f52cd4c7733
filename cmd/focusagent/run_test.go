package main

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/facebookgo/clock"
	"github.com/google/uuid"

	"github.com/yungbote/neurofocus-backend/internal/domain"
	"github.com/yungbote/neurofocus-backend/internal/focus"
	"github.com/yungbote/neurofocus-backend/internal/platform/logger"
)

type fakeAPI struct {
	mu      sync.Mutex
	started []string
	ended   []int
}

func (f *fakeAPI) StartSession(_ context.Context, contentID string) (*domain.Session, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.started = append(f.started, contentID)
	return domain.NewSession(uuid.New(), contentID, time.Now()), nil
}

func (f *fakeAPI) EndSession(_ context.Context, score int) (*domain.Session, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.ended = append(f.ended, score)
	s := domain.NewSession(uuid.New(), "x", time.Now())
	s.FocusScore = &score
	return s, nil
}

func TestRunAgentTracksAndClosesView(t *testing.T) {
	api := &fakeAPI{}
	in := strings.NewReader(strings.Join([]string{
		`{"type":"open","contentId":"lecture-1"}`,
		`{"type":"visibilitychange","hidden":true}`,
		`not json`,
		`{"type":"visibilitychange","hidden":false}`,
		`{"type":"blur"}`,
		`{"type":"answer","correct":true}`,
		`{"type":"close"}`,
		`{"type":"open","contentId":"lecture-2"}`,
	}, "\n"))
	var out bytes.Buffer

	err := runAgent(context.Background(), agentDeps{
		clk: clock.NewMock(),
		cfg: focus.DefaultConfig(),
		api: api,
	}, in, &out)
	if err != nil {
		t.Fatalf("runAgent: %v", err)
	}

	// 100 - 15 hidden - 10 blur + 15 answer
	if len(api.started) != 2 || api.started[0] != "lecture-1" || api.started[1] != "lecture-2" {
		t.Fatalf("started: want=[lecture-1 lecture-2] got=%v", api.started)
	}
	if len(api.ended) != 2 || api.ended[0] != 90 || api.ended[1] != 100 {
		t.Fatalf("ended: want=[90 100] got=%v", api.ended)
	}
	if !strings.Contains(out.String(), "session ended") {
		t.Fatalf("output: want final close line got=%q", out.String())
	}
}

var errBrokenPipe = errors.New("broken pipe")

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, errBrokenPipe }

func TestRunAgentStopsWhenOutputFails(t *testing.T) {
	lines := []string{`{"type":"open","contentId":"lecture-1"}`}
	for i := 0; i < 500; i++ {
		lines = append(lines, `{"type":"blur"}`, `{"type":"focus"}`)
	}
	api := &fakeAPI{}

	done := make(chan error, 1)
	go func() {
		done <- runAgent(context.Background(), agentDeps{
			clk: clock.NewMock(),
			cfg: focus.DefaultConfig(),
			api: api,
		}, strings.NewReader(strings.Join(lines, "\n")), failingWriter{})
	}()

	select {
	case err := <-done:
		if !errors.Is(err, errBrokenPipe) {
			t.Fatalf("err: want=%v got=%v", errBrokenPipe, err)
		}
	case <-time.After(5 * time.Second):
		t.Fatalf("runAgent did not return after output failure")
	}
	api.mu.Lock()
	defer api.mu.Unlock()
	if len(api.ended) != len(api.started) {
		t.Fatalf("every started view must be ended: started=%v ended=%v", api.started, api.ended)
	}
}

func TestReadHostStopsOnCancelWithoutReader(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	msgs := make(chan hostMessage)
	readErr := make(chan error, 1)
	in := strings.NewReader(`{"type":"blur"}` + "\n" + `{"type":"focus"}`)

	go readHost(ctx, in, msgs, readErr, logger.NewNop())
	cancel()

	select {
	case err := <-readErr:
		if err != nil {
			t.Fatalf("readErr: want=nil got=%v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatalf("readHost blocked sending to an unread channel")
	}
	if _, ok := <-msgs; ok {
		t.Fatalf("msgs: want closed")
	}
}

func TestRunAgentRejectsInvalidConfig(t *testing.T) {
	cfg := focus.DefaultConfig()
	cfg.IdlePenalty = -1
	if err := runAgent(context.Background(), agentDeps{cfg: cfg}, strings.NewReader(""), &bytes.Buffer{}); err == nil {
		t.Fatalf("want error for negative penalty")
	}
}

func TestRenderStatus(t *testing.T) {
	got := renderStatus(focus.Snapshot{Value: 35, State: focus.StateLost, Message: "take a break"})
	if !strings.Contains(got, "35") || !strings.Contains(got, "LOST") || !strings.Contains(got, "take a break") {
		t.Fatalf("status: got=%q", got)
	}
}

func TestRenderQuiz(t *testing.T) {
	got := renderQuiz(&domain.Quiz{Questions: []domain.QuizQuestion{{
		Text:    "Capital of France?",
		Options: []domain.QuizOption{{Text: "Paris", IsCorrect: true}, {Text: "Lyon"}},
	}}})
	for _, want := range []string{"1. Capital of France?", "a) Paris", "b) Lyon"} {
		if !strings.Contains(got, want) {
			t.Fatalf("quiz: want %q in %q", want, got)
		}
	}
}
