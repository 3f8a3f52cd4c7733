package services

import (
	"context"
	"errors"
	"net/http"
	"strings"

	types "github.com/yungbote/neurofocus-backend/internal/domain"
	"github.com/yungbote/neurofocus-backend/internal/platform/apierr"
	"github.com/yungbote/neurofocus-backend/internal/platform/groq"
	"github.com/yungbote/neurofocus-backend/internal/platform/logger"
)

var (
	ErrContentRequired  = apierr.BadRequest("invalid_request", errors.New("Content is required for quiz generation"))
	ErrQuizGeneration   = apierr.New(http.StatusBadGateway, "quiz_generation_failed", errors.New("Failed to generate quiz"))
	ErrQuizUnconfigured = apierr.New(http.StatusServiceUnavailable, "quiz_unavailable", errors.New("quiz generation is not configured"))
)

const quizSystemPrompt = `You are an ADHD learning assistant. Generate a 3-question micro-quiz in JSON format. Keep questions short. Output format: { "questions": [{ "text": "string", "options": [{ "text": "string", "isCorrect": boolean }] }] }`

type QuizService interface {
	Generate(ctx context.Context, content string) (*types.Quiz, error)
}

type quizService struct {
	log *logger.Logger
	llm groq.Client
}

// NewQuizService accepts a nil client; Generate then reports the feature as unavailable.
func NewQuizService(log *logger.Logger, llm groq.Client) QuizService {
	return &quizService{log: log.With("service", "QuizService"), llm: llm}
}

func (s *quizService) Generate(ctx context.Context, content string) (*types.Quiz, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, ErrContentRequired
	}
	if s.llm == nil {
		return nil, ErrQuizUnconfigured
	}

	var quiz types.Quiz
	if err := s.llm.GenerateJSON(ctx, quizSystemPrompt, "Generate a quiz for this content: "+content, &quiz); err != nil {
		s.log.Warn("Quiz generation failed", "content_len", len(content), "error", err)
		return nil, ErrQuizGeneration
	}
	if !quiz.Usable() {
		s.log.Warn("Quiz generation returned an unusable quiz", "questions", len(quiz.Questions))
		return nil, ErrQuizGeneration
	}
	return &quiz, nil
}
