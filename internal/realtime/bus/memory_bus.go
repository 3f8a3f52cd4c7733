package bus

import (
	"context"
	"fmt"
	"sync"

	"github.com/yungbote/neurofocus-backend/internal/platform/logger"
	"github.com/yungbote/neurofocus-backend/internal/realtime"
)

// memoryBus delivers messages inside a single process. Used when no
// REDIS_ADDR is configured.
type memoryBus struct {
	log *logger.Logger

	mu       sync.RWMutex
	handlers []func(realtime.SSEMessage)
}

func NewMemoryBus(log *logger.Logger) Bus {
	return &memoryBus{log: log.With("service", "MemoryEventBus")}
}

func (b *memoryBus) Publish(ctx context.Context, msg realtime.SSEMessage) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	b.mu.RLock()
	handlers := append([]func(realtime.SSEMessage){}, b.handlers...)
	b.mu.RUnlock()
	for _, h := range handlers {
		h(msg)
	}
	return nil
}

func (b *memoryBus) StartForwarder(ctx context.Context, onMsg func(m realtime.SSEMessage)) error {
	if onMsg == nil {
		return fmt.Errorf("onMsg callback required")
	}
	b.mu.Lock()
	idx := len(b.handlers)
	b.handlers = append(b.handlers, onMsg)
	b.mu.Unlock()

	go func() {
		<-ctx.Done()
		b.mu.Lock()
		defer b.mu.Unlock()
		if idx < len(b.handlers) {
			b.handlers[idx] = func(realtime.SSEMessage) {}
		}
	}()
	return nil
}

func (b *memoryBus) Close() error { return nil }
