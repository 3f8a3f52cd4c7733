package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/neurofocus-backend/internal/http/response"
	"github.com/yungbote/neurofocus-backend/internal/services"
)

type StorageHandler struct {
	storage  services.StorageService
	maxBytes int64
}

// NewStorageHandler caps multipart uploads at maxBytes; zero or less means 100 MiB.
func NewStorageHandler(storage services.StorageService, maxBytes int64) *StorageHandler {
	if maxBytes <= 0 {
		maxBytes = 100 << 20
	}
	return &StorageHandler{storage: storage, maxBytes: maxBytes}
}

// POST /storage/upload
// multipart form: file=<file>, inputType=audio|video|text
func (h *StorageHandler) Upload(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxBytes)
	fh, err := c.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			response.RespondError(c, http.StatusRequestEntityTooLarge, "file_too_large", errors.New("File too large"))
			return
		}
		response.RespondAPIError(c, services.ErrNoFileUploaded)
		return
	}
	f, err := fh.Open()
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	defer f.Close()

	res, err := h.storage.Upload(c.Request.Context(), c.PostForm("inputType"), fh.Filename, fh.Header.Get("Content-Type"), f)
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondOK(c, gin.H{
		"message":    "File uploaded successfully",
		"storageRef": res.StorageRef,
		"blobName":   res.BlobName,
		"container":  res.Container,
		"inputType":  res.InputType,
	})
}

// GET /storage/download_url?blobName=...&inputType=...
func (h *StorageHandler) DownloadURL(c *gin.Context) {
	u, expires, err := h.storage.DownloadURL(c.Request.Context(), c.Query("inputType"), c.Query("blobName"))
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"downloadUrl": u, "expiresAt": expires})
}
