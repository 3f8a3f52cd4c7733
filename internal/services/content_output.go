package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/facebookgo/clock"
	"github.com/google/uuid"

	"github.com/yungbote/neurofocus-backend/internal/data/repos"
	types "github.com/yungbote/neurofocus-backend/internal/domain"
	"github.com/yungbote/neurofocus-backend/internal/platform/apierr"
	"github.com/yungbote/neurofocus-backend/internal/platform/ctxutil"
	"github.com/yungbote/neurofocus-backend/internal/platform/dbctx"
	"github.com/yungbote/neurofocus-backend/internal/platform/gcp"
	"github.com/yungbote/neurofocus-backend/internal/platform/logger"
)

var (
	ErrContentOutputFields   = apierr.BadRequest("invalid_request", errors.New("Missing fields"))
	ErrContentOutputNotFound = apierr.NotFound("not_found", errors.New("Not found"))
	ErrInvalidContentStatus  = apierr.BadRequest("invalid_request", errors.New("invalid status"))
	ErrContentNotReady       = apierr.New(http.StatusConflict, "not_ready", errors.New("content output is not ready"))
	ErrBlobStoreUnavailable  = apierr.New(http.StatusServiceUnavailable, "storage_unavailable", errors.New("blob storage is not configured"))
)

// ContentOutputPatch carries the fields a processor may update. Nil means unchanged.
type ContentOutputPatch struct {
	Status       *types.ContentStatus
	OutputFormat *string
	Processed    *types.ProcessedRef
	ErrorMessage *string
}

type ContentOutputService interface {
	Create(ctx context.Context, inputType, rawStorageRef string) (*types.ContentOutput, error)
	Get(ctx context.Context, id uuid.UUID) (*types.ContentOutput, error)
	Update(ctx context.Context, id uuid.UUID, patch ContentOutputPatch) (*types.ContentOutput, error)
	// OpenProcessed streams the processed blob of a READY output.
	OpenProcessed(ctx context.Context, id uuid.UUID) (io.ReadCloser, *gcp.ObjectAttrs, error)
}

type contentOutputService struct {
	log     *logger.Logger
	clk     clock.Clock
	outputs repos.ContentOutputRepo
	blobs   gcp.BlobReader
}

// NewContentOutputService accepts a nil blob reader when no bucket is configured.
func NewContentOutputService(log *logger.Logger, clk clock.Clock, outputs repos.ContentOutputRepo, blobs gcp.BlobReader) ContentOutputService {
	return &contentOutputService{
		log:     log.With("service", "ContentOutputService"),
		clk:     clk,
		outputs: outputs,
		blobs:   blobs,
	}
}

func (s *contentOutputService) Create(ctx context.Context, inputType, rawStorageRef string) (*types.ContentOutput, error) {
	userID := ctxutil.UserID(ctx)
	if userID == uuid.Nil {
		return nil, ErrUnauthenticated
	}
	inputType = strings.TrimSpace(inputType)
	rawStorageRef = strings.TrimSpace(rawStorageRef)
	if inputType == "" || rawStorageRef == "" {
		return nil, ErrContentOutputFields
	}
	now := s.clk.Now().UTC()
	out := &types.ContentOutput{
		ID:            uuid.New(),
		UserID:        userID,
		InputType:     inputType,
		RawStorageRef: rawStorageRef,
		Status:        types.ContentStatusUploaded,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := s.outputs.Create(dbctx.Context{Ctx: ctx}, out); err != nil {
		return nil, fmt.Errorf("create content output: %w", err)
	}
	return out, nil
}

// Get hides other users' outputs behind the same not-found error.
func (s *contentOutputService) Get(ctx context.Context, id uuid.UUID) (*types.ContentOutput, error) {
	userID := ctxutil.UserID(ctx)
	if userID == uuid.Nil {
		return nil, ErrUnauthenticated
	}
	out, err := s.outputs.GetByID(dbctx.Context{Ctx: ctx}, id)
	if err != nil {
		return nil, fmt.Errorf("load content output: %w", err)
	}
	if out == nil || out.UserID != userID {
		return nil, ErrContentOutputNotFound
	}
	return out, nil
}

func (s *contentOutputService) Update(ctx context.Context, id uuid.UUID, patch ContentOutputPatch) (*types.ContentOutput, error) {
	if _, err := s.Get(ctx, id); err != nil {
		return nil, err
	}
	updates := map[string]any{}
	if patch.Status != nil {
		if !patch.Status.Valid() {
			return nil, ErrInvalidContentStatus
		}
		updates["status"] = *patch.Status
	}
	if patch.OutputFormat != nil {
		updates["output_format"] = *patch.OutputFormat
	}
	if patch.Processed != nil {
		updates["processed_blob_name"] = patch.Processed.BlobName
		updates["processed_container"] = patch.Processed.Container
	}
	if patch.ErrorMessage != nil {
		updates["error_message"] = *patch.ErrorMessage
	}
	updates["updated_at"] = s.clk.Now().UTC()

	dbc := dbctx.Context{Ctx: ctx}
	if err := s.outputs.UpdateFields(dbc, id, updates); err != nil {
		return nil, fmt.Errorf("update content output: %w", err)
	}
	return s.Get(ctx, id)
}

func (s *contentOutputService) OpenProcessed(ctx context.Context, id uuid.UUID) (io.ReadCloser, *gcp.ObjectAttrs, error) {
	out, err := s.Get(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	view := out.View()
	if view.Processed == nil {
		return nil, nil, ErrContentNotReady
	}
	if s.blobs == nil {
		return nil, nil, ErrBlobStoreUnavailable
	}
	r, attrs, err := s.blobs.Open(ctx, view.Processed.Container, view.Processed.BlobName)
	if errors.Is(err, gcp.ErrBlobNotFound) {
		s.log.Warn("Processed blob missing", "content_id", id, "blob", view.Processed.BlobName)
		return nil, nil, ErrContentOutputNotFound
	}
	if err != nil {
		return nil, nil, fmt.Errorf("open processed blob: %w", err)
	}
	return r, attrs, nil
}
