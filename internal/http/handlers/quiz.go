package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/neurofocus-backend/internal/http/response"
	"github.com/yungbote/neurofocus-backend/internal/services"
)

type QuizHandler struct {
	quizzes services.QuizService
}

func NewQuizHandler(quizzes services.QuizService) *QuizHandler {
	return &QuizHandler{quizzes: quizzes}
}

// POST /quiz/generate-quiz
// body: { "content": "transcript or notes" }
func (h *QuizHandler) Generate(c *gin.Context) {
	var req struct {
		Content string `json:"content"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	quiz, err := h.quizzes.Generate(c.Request.Context(), req.Content)
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondOK(c, quiz)
}
