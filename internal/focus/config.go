package focus

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds every tunable penalty and threshold of the tracker and quiz
// trigger.
type Config struct {
	HiddenPenalty     int           `yaml:"hidden_penalty"`
	BlurPenalty       int           `yaml:"blur_penalty"`
	IdlePenalty       int           `yaml:"idle_penalty"`
	IdleThreshold     time.Duration `yaml:"idle_threshold"`
	QuizPollInterval  time.Duration `yaml:"quiz_poll_interval"`
	QuizIdleThreshold time.Duration `yaml:"quiz_idle_threshold"`
	QuizMinContent    int           `yaml:"quiz_min_content"`
	QuizReward        int           `yaml:"quiz_reward"`
}

func DefaultConfig() Config {
	return Config{
		HiddenPenalty:     15,
		BlurPenalty:       10,
		IdlePenalty:       20,
		IdleThreshold:     45 * time.Second,
		QuizPollInterval:  60 * time.Second,
		QuizIdleThreshold: 10 * time.Minute,
		QuizMinContent:    500,
		QuizReward:        15,
	}
}

func (c Config) Validate() error {
	var errs []error
	if c.HiddenPenalty < 0 || c.BlurPenalty < 0 || c.IdlePenalty < 0 || c.QuizReward < 0 {
		errs = append(errs, errors.New("penalties and rewards must not be negative"))
	}
	if c.IdleThreshold <= 0 {
		errs = append(errs, fmt.Errorf("idle_threshold must be positive, got %s", c.IdleThreshold))
	}
	if c.QuizPollInterval <= 0 {
		errs = append(errs, fmt.Errorf("quiz_poll_interval must be positive, got %s", c.QuizPollInterval))
	}
	if c.QuizIdleThreshold <= 0 {
		errs = append(errs, fmt.Errorf("quiz_idle_threshold must be positive, got %s", c.QuizIdleThreshold))
	}
	if c.QuizMinContent < 0 {
		errs = append(errs, errors.New("quiz_min_content must not be negative"))
	}
	return errors.Join(errs...)
}

// LoadConfig reads a YAML overlay on top of DefaultConfig. An empty path
// returns the defaults.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read focus config: %w", err)
	}
	return ParseConfig(raw)
}

func ParseConfig(raw []byte) (Config, error) {
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return cfg, fmt.Errorf("parse focus config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("invalid focus config: %w", err)
	}
	return cfg, nil
}
