package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"
	"time"

	"github.com/facebookgo/clock"
	"github.com/google/uuid"

	"github.com/yungbote/neurofocus-backend/internal/platform/apierr"
	"github.com/yungbote/neurofocus-backend/internal/platform/ctxutil"
	"github.com/yungbote/neurofocus-backend/internal/platform/gcp"
	"github.com/yungbote/neurofocus-backend/internal/platform/logger"
)

// DownloadURLTTL bounds how long a signed download link stays valid.
const DownloadURLTTL = time.Hour

var (
	ErrInvalidInputType = apierr.BadRequest("invalid_request", errors.New("Invalid or missing inputType"))
	ErrNoFileUploaded   = apierr.BadRequest("invalid_request", errors.New("No file uploaded"))
	ErrBlobNameRequired = apierr.BadRequest("invalid_request", errors.New("Missing blobName or inputType"))
	ErrBlobNotFound     = apierr.NotFound("not_found", errors.New("Blob not found"))
)

// UploadInputTypes are the raw content kinds accepted for upload. Each has
// its own key prefix in the upload bucket.
var UploadInputTypes = []string{"audio", "video", "text"}

func validInputType(t string) bool {
	for _, v := range UploadInputTypes {
		if t == v {
			return true
		}
	}
	return false
}

type UploadResult struct {
	StorageRef string `json:"storageRef"`
	BlobName   string `json:"blobName"`
	Container  string `json:"container"`
	InputType  string `json:"inputType"`
}

type StorageService interface {
	// Upload stores a raw file under the caller's prefix for inputType. The
	// returned StorageRef is what POST /content_outputs expects.
	Upload(ctx context.Context, inputType, filename, contentType string, body io.Reader) (*UploadResult, error)
	// DownloadURL signs a short-lived GET link for one of the caller's uploads.
	DownloadURL(ctx context.Context, inputType, blobName string) (string, time.Time, error)
}

type storageService struct {
	log   *logger.Logger
	clk   clock.Clock
	blobs gcp.BlobStore
}

// NewStorageService accepts a nil store when no bucket is configured.
func NewStorageService(log *logger.Logger, clk clock.Clock, blobs gcp.BlobStore) StorageService {
	return &storageService{log: log.With("service", "StorageService"), clk: clk, blobs: blobs}
}

// uploadKey is <inputType>/<userID>/<unixMillis>-<base name>.
func uploadKey(inputType string, userID uuid.UUID, now time.Time, filename string) string {
	name := path.Base(strings.ReplaceAll(strings.TrimSpace(filename), "\\", "/"))
	if name == "." || name == "/" || name == "" {
		name = "upload"
	}
	return fmt.Sprintf("%s/%s/%d-%s", inputType, userID, now.UnixMilli(), name)
}

func (s *storageService) Upload(ctx context.Context, inputType, filename, contentType string, body io.Reader) (*UploadResult, error) {
	userID := ctxutil.UserID(ctx)
	if userID == uuid.Nil {
		return nil, ErrUnauthenticated
	}
	if body == nil {
		return nil, ErrNoFileUploaded
	}
	inputType = strings.ToLower(strings.TrimSpace(inputType))
	if !validInputType(inputType) {
		return nil, ErrInvalidInputType
	}
	if s.blobs == nil {
		return nil, ErrBlobStoreUnavailable
	}

	key := uploadKey(inputType, userID, s.clk.Now(), filename)
	ref, err := s.blobs.Upload(ctx, "", key, contentType, body)
	if err != nil {
		return nil, fmt.Errorf("upload %s: %w", inputType, err)
	}
	s.log.Info("Stored upload", "user_id", userID, "input_type", inputType, "blob", ref.Name)
	return &UploadResult{StorageRef: ref.URL, BlobName: ref.Name, Container: ref.Container, InputType: inputType}, nil
}

func (s *storageService) DownloadURL(ctx context.Context, inputType, blobName string) (string, time.Time, error) {
	userID := ctxutil.UserID(ctx)
	if userID == uuid.Nil {
		return "", time.Time{}, ErrUnauthenticated
	}
	inputType = strings.ToLower(strings.TrimSpace(inputType))
	blobName = strings.TrimLeft(strings.TrimSpace(blobName), "/")
	if inputType == "" || blobName == "" {
		return "", time.Time{}, ErrBlobNameRequired
	}
	if !validInputType(inputType) {
		return "", time.Time{}, ErrInvalidInputType
	}
	// other users' uploads look missing
	if !strings.HasPrefix(blobName, inputType+"/"+userID.String()+"/") || strings.Contains(blobName, "..") {
		return "", time.Time{}, ErrBlobNotFound
	}
	if s.blobs == nil {
		return "", time.Time{}, ErrBlobStoreUnavailable
	}

	expires := s.clk.Now().Add(DownloadURLTTL).UTC()
	u, err := s.blobs.SignedURL(ctx, "", blobName, DownloadURLTTL)
	if errors.Is(err, gcp.ErrBlobNotFound) {
		return "", time.Time{}, ErrBlobNotFound
	}
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign download url: %w", err)
	}
	return u, expires, nil
}
