package services

import (
	"context"

	"github.com/google/uuid"

	"github.com/yungbote/neurofocus-backend/internal/platform/logger"
	"github.com/yungbote/neurofocus-backend/internal/realtime"
	"github.com/yungbote/neurofocus-backend/internal/realtime/bus"
)

// SSEEmitter delivers best-effort realtime notifications. Emit never fails
// the calling operation.
type SSEEmitter interface {
	Emit(ctx context.Context, msg realtime.SSEMessage)
}

type HubEmitter struct{ Hub *realtime.SSEHub }

func (e *HubEmitter) Emit(ctx context.Context, msg realtime.SSEMessage) {
	e.Hub.Broadcast(msg)
}

type BusEmitter struct {
	Bus bus.Bus
	Log *logger.Logger
}

func (e *BusEmitter) Emit(ctx context.Context, msg realtime.SSEMessage) {
	if err := e.Bus.Publish(ctx, msg); err != nil && e.Log != nil {
		e.Log.Warn("Failed to publish realtime event", "event", msg.Event, "error", err)
	}
}

type NopEmitter struct{}

func (NopEmitter) Emit(context.Context, realtime.SSEMessage) {}

// UserChannel is the SSE channel every stream of a user subscribes to.
func UserChannel(userID uuid.UUID) string {
	return "user:" + userID.String()
}
