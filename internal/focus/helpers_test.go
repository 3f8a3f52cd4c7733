package focus

import (
	"sync/atomic"
	"testing"

	"github.com/facebookgo/clock"

	"github.com/yungbote/neurofocus-backend/internal/platform/logger"
)

func newTestLogger(t *testing.T) *logger.Logger {
	t.Helper()
	log, err := logger.New("test")
	if err != nil {
		t.Fatalf("logger.New: %v", err)
	}
	t.Cleanup(log.Sync)
	return log
}

type counter struct{ n atomic.Int64 }

func (c *counter) inc()       { c.n.Add(1) }
func (c *counter) get() int64 { return c.n.Load() }

func newMockEnv(t *testing.T) (*Bus, *clock.Mock) {
	t.Helper()
	return NewBus(newTestLogger(t)), clock.NewMock()
}
