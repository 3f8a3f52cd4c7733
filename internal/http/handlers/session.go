package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/neurofocus-backend/internal/http/response"
	"github.com/yungbote/neurofocus-backend/internal/services"
)

type SessionHandler struct {
	sessions services.SessionService
}

func NewSessionHandler(sessions services.SessionService) *SessionHandler {
	return &SessionHandler{sessions: sessions}
}

// POST /session/createOrUpdateSession
// body: { "contentId": "..." }
func (h *SessionHandler) CreateOrUpdate(c *gin.Context) {
	var req struct {
		ContentID string `json:"contentId"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	session, created, err := h.sessions.Start(c.Request.Context(), req.ContentID)
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	if created {
		response.RespondCreated(c, session)
		return
	}
	response.RespondOK(c, session)
}

// POST /session/endSession
// body: { "focusScore": 0..100 }
func (h *SessionHandler) End(c *gin.Context) {
	var req struct {
		FocusScore *int `json:"focusScore"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	if req.FocusScore == nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", errors.New("focusScore is required"))
		return
	}
	session, err := h.sessions.End(c.Request.Context(), *req.FocusScore)
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondOK(c, session)
}

// GET /session/history?limit=20
func (h *SessionHandler) History(c *gin.Context) {
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "50"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", errors.New("limit must be an integer"))
		return
	}
	sessions, err := h.sessions.History(c.Request.Context(), limit)
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"sessions": sessions})
}
