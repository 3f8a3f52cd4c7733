package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	types "github.com/yungbote/neurofocus-backend/internal/domain"
	"github.com/yungbote/neurofocus-backend/internal/http/response"
	"github.com/yungbote/neurofocus-backend/internal/services"
)

type PreferencesHandler struct {
	prefs services.PreferencesService
}

func NewPreferencesHandler(prefs services.PreferencesService) *PreferencesHandler {
	return &PreferencesHandler{prefs: prefs}
}

// GET /preferences/get
func (h *PreferencesHandler) Get(c *gin.Context) {
	p, err := h.prefs.Get(c.Request.Context())
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondOK(c, p)
}

// POST /preferences/save and PUT /preferences/update share the upsert.
func (h *PreferencesHandler) Save(c *gin.Context) {
	var req types.PreferenceSettings
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	p, err := h.prefs.Save(c.Request.Context(), req)
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"success": true, "evaluation": p.Profile(), "preferences": p})
}
