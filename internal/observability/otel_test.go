package observability

import (
	"context"
	"testing"

	"github.com/yungbote/neurofocus-backend/internal/platform/logger"
)

func TestParseHeaders(t *testing.T) {
	got := ParseHeaders(" api-key = abc ,broken, =x,team=focus")
	if len(got) != 2 || got["api-key"] != "abc" || got["team"] != "focus" {
		t.Fatalf("headers: got=%v", got)
	}
	if got := ParseHeaders(""); got != nil {
		t.Fatalf("empty: want=nil got=%v", got)
	}
}

func TestClampRatio(t *testing.T) {
	for _, tc := range []struct{ in, want float64 }{{-1, 0}, {0.25, 0.25}, {3, 1}} {
		if got := clampRatio(tc.in); got != tc.want {
			t.Fatalf("clamp(%v): want=%v got=%v", tc.in, tc.want, got)
		}
	}
}

func TestInitOTelDisabledIsNoop(t *testing.T) {
	shutdown := InitOTel(context.Background(), logger.NewNop(), OtelConfig{})
	if shutdown == nil {
		t.Fatalf("shutdown: want non-nil")
	}
	if err := shutdown(context.Background()); err != nil {
		t.Fatalf("shutdown: %v", err)
	}
}
