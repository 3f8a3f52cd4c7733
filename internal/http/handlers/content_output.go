package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	types "github.com/yungbote/neurofocus-backend/internal/domain"
	"github.com/yungbote/neurofocus-backend/internal/http/response"
	"github.com/yungbote/neurofocus-backend/internal/services"
)

type ContentOutputHandler struct {
	outputs services.ContentOutputService
}

func NewContentOutputHandler(outputs services.ContentOutputService) *ContentOutputHandler {
	return &ContentOutputHandler{outputs: outputs}
}

// POST /content_outputs
// body: { "inputType": "pdf", "rawStorageRef": "..." }
func (h *ContentOutputHandler) Create(c *gin.Context) {
	var req struct {
		InputType     string `json:"inputType"`
		RawStorageRef string `json:"rawStorageRef"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	out, err := h.outputs.Create(c.Request.Context(), req.InputType, req.RawStorageRef)
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondCreated(c, gin.H{"contentId": out.ID, "status": out.Status})
}

// GET /content_outputs/:contentId
func (h *ContentOutputHandler) Get(c *gin.Context) {
	id, ok := contentID(c)
	if !ok {
		return
	}
	out, err := h.outputs.Get(c.Request.Context(), id)
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondOK(c, out.View())
}

// PATCH /content_outputs/:contentId
func (h *ContentOutputHandler) Patch(c *gin.Context) {
	id, ok := contentID(c)
	if !ok {
		return
	}
	var req struct {
		Status       *types.ContentStatus `json:"status"`
		OutputFormat *string              `json:"outputFormat"`
		Processed    *types.ProcessedRef  `json:"processed"`
		ErrorMessage *string              `json:"errorMessage"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	out, err := h.outputs.Update(c.Request.Context(), id, services.ContentOutputPatch{
		Status:       req.Status,
		OutputFormat: req.OutputFormat,
		Processed:    req.Processed,
		ErrorMessage: req.ErrorMessage,
	})
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondOK(c, out.View())
}

// GET /content_outputs/:contentId/processed
func (h *ContentOutputHandler) Processed(c *gin.Context) {
	id, ok := contentID(c)
	if !ok {
		return
	}
	r, attrs, err := h.outputs.OpenProcessed(c.Request.Context(), id)
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	defer r.Close()
	contentType := attrs.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	c.DataFromReader(http.StatusOK, attrs.Size, contentType, r, nil)
}

func contentID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("contentId"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", errors.New("invalid contentId"))
		return uuid.Nil, false
	}
	return id, true
}
