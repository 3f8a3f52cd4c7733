package services

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	types "github.com/yungbote/neurofocus-backend/internal/domain"
	"github.com/yungbote/neurofocus-backend/internal/platform/gcp"
)

type fakeBlobStore struct {
	blobs        map[string]string
	contentTypes map[string]string
	signedTTL    time.Duration
}

func (f *fakeBlobStore) Open(_ context.Context, container, name string) (io.ReadCloser, *gcp.ObjectAttrs, error) {
	body, ok := f.blobs[container+"/"+name]
	if !ok {
		return nil, nil, gcp.ErrBlobNotFound
	}
	return io.NopCloser(strings.NewReader(body)), &gcp.ObjectAttrs{Size: int64(len(body)), ContentType: "text/markdown"}, nil
}

func (f *fakeBlobStore) Upload(_ context.Context, container, name, contentType string, r io.Reader) (*gcp.ObjectRef, error) {
	if container == "" {
		container = "uploads"
	}
	body, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	if f.blobs == nil {
		f.blobs = map[string]string{}
		f.contentTypes = map[string]string{}
	}
	f.blobs[container+"/"+name] = string(body)
	f.contentTypes[container+"/"+name] = contentType
	return &gcp.ObjectRef{Container: container, Name: name, URL: "https://storage.googleapis.com/" + container + "/" + name}, nil
}

func (f *fakeBlobStore) SignedURL(_ context.Context, container, name string, ttl time.Duration) (string, error) {
	if container == "" {
		container = "uploads"
	}
	if _, ok := f.blobs[container+"/"+name]; !ok {
		return "", gcp.ErrBlobNotFound
	}
	f.signedTTL = ttl
	return "https://signed.example/" + container + "/" + name, nil
}

func (f *fakeBlobStore) Close() error { return nil }

func TestContentOutputLifecycle(t *testing.T) {
	env := newServiceEnv(t)
	blobs := &fakeBlobStore{blobs: map[string]string{"processed/summary.md": "# Summary"}}
	svc := NewContentOutputService(env.log, env.clk, env.outputs, blobs)
	owner := userCtx(uuid.New())

	_, err := svc.Create(owner, "pdf", "")
	wantStatus(t, err, http.StatusBadRequest)

	out, err := svc.Create(owner, "pdf", "raw/notes.pdf")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if out.Status != types.ContentStatusUploaded {
		t.Fatalf("status: want=%s got=%s", types.ContentStatusUploaded, out.Status)
	}

	_, _, err = svc.OpenProcessed(owner, out.ID)
	wantStatus(t, err, http.StatusConflict)

	bad := types.ContentStatus("DONE")
	_, err = svc.Update(owner, out.ID, ContentOutputPatch{Status: &bad})
	wantStatus(t, err, http.StatusBadRequest)

	ready := types.ContentStatusReady
	format := "markdown"
	updated, err := svc.Update(owner, out.ID, ContentOutputPatch{
		Status:       &ready,
		OutputFormat: &format,
		Processed:    &types.ProcessedRef{BlobName: "summary.md", Container: "processed"},
	})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if v := updated.View(); v.Processed == nil || v.OutputFormat != "markdown" {
		t.Fatalf("view: got %+v", v)
	}

	r, attrs, err := svc.OpenProcessed(owner, out.ID)
	if err != nil {
		t.Fatalf("OpenProcessed: %v", err)
	}
	defer r.Close()
	body, _ := io.ReadAll(r)
	if string(body) != "# Summary" || attrs.ContentType != "text/markdown" {
		t.Fatalf("blob: got %q %+v", body, attrs)
	}

	_, err = svc.Get(userCtx(uuid.New()), out.ID)
	if !errors.Is(err, ErrContentOutputNotFound) {
		t.Fatalf("other user: want not found got %v", err)
	}
}

func TestContentOutputWithoutBlobStore(t *testing.T) {
	env := newServiceEnv(t)
	svc := NewContentOutputService(env.log, env.clk, env.outputs, nil)
	ctx := userCtx(uuid.New())

	out, err := svc.Create(ctx, "video", "raw/v.mp4")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	ready := types.ContentStatusReady
	if _, err := svc.Update(ctx, out.ID, ContentOutputPatch{Status: &ready, Processed: &types.ProcessedRef{BlobName: "b", Container: "c"}}); err != nil {
		t.Fatalf("Update: %v", err)
	}
	_, _, err = svc.OpenProcessed(ctx, out.ID)
	wantStatus(t, err, http.StatusServiceUnavailable)
}
