package focus

import (
	"strings"
	"testing"
	"time"
)

func TestParseConfigOverlaysDefaults(t *testing.T) {
	cfg, err := ParseConfig([]byte("hidden_penalty: 25\nidle_threshold: 30s\nquiz_idle_threshold: 5m\n"))
	if err != nil {
		t.Fatalf("ParseConfig: %v", err)
	}
	if cfg.HiddenPenalty != 25 {
		t.Fatalf("hidden_penalty: want=25 got=%d", cfg.HiddenPenalty)
	}
	if cfg.IdleThreshold != 30*time.Second {
		t.Fatalf("idle_threshold: want=30s got=%s", cfg.IdleThreshold)
	}
	if cfg.QuizIdleThreshold != 5*time.Minute {
		t.Fatalf("quiz_idle_threshold: want=5m got=%s", cfg.QuizIdleThreshold)
	}
	if cfg.BlurPenalty != 10 {
		t.Fatalf("blur_penalty default: want=10 got=%d", cfg.BlurPenalty)
	}
}

func TestParseConfigRejectsInvalidValues(t *testing.T) {
	_, err := ParseConfig([]byte("blur_penalty: -1\nidle_threshold: 0s\n"))
	if err == nil {
		t.Fatalf("want validation error")
	}
	if !strings.Contains(err.Error(), "idle_threshold") {
		t.Fatalf("error should name idle_threshold: %v", err)
	}
}

func TestLoadConfigEmptyPathIsDefault(t *testing.T) {
	cfg, err := LoadConfig("")
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg != DefaultConfig() {
		t.Fatalf("want defaults got=%+v", cfg)
	}
}
