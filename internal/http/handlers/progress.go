package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/neurofocus-backend/internal/http/response"
	"github.com/yungbote/neurofocus-backend/internal/services"
)

type ProgressHandler struct {
	progress services.ProgressService
}

func NewProgressHandler(progress services.ProgressService) *ProgressHandler {
	return &ProgressHandler{progress: progress}
}

// GET /progress/me
func (h *ProgressHandler) GetMe(c *gin.Context) {
	p, created, err := h.progress.Touch(c.Request.Context())
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	if created {
		response.RespondCreated(c, p)
		return
	}
	response.RespondOK(c, p)
}

// POST /progress/skills
// body: { "topic": "...", "xp": 10, "topics": ["..."] }
func (h *ProgressHandler) AddSkill(c *gin.Context) {
	var req struct {
		Topic  string   `json:"topic"`
		XP     int      `json:"xp"`
		Topics []string `json:"topics"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	p, err := h.progress.AddSkillXP(c.Request.Context(), req.Topic, req.XP, req.Topics)
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondOK(c, p)
}
