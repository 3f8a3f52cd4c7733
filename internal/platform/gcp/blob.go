package gcp

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"os"
	"strings"
	"time"

	"cloud.google.com/go/storage"
	"google.golang.org/api/option"

	"github.com/yungbote/neurofocus-backend/internal/platform/logger"
)

const uploadTimeout = 2 * time.Minute

var ErrBlobNotFound = errors.New("blob not found")

type ObjectAttrs struct {
	Size        int64
	ContentType string
	Updated     time.Time
}

// ObjectRef locates a stored object. URL is its unsigned address.
type ObjectRef struct {
	Container string
	Name      string
	URL       string
}

// BlobReader opens stored objects. An empty container falls back to the
// configured default bucket.
type BlobReader interface {
	Open(ctx context.Context, container, name string) (io.ReadCloser, *ObjectAttrs, error)
}

// BlobStore adds uploads and time-limited download links.
type BlobStore interface {
	BlobReader
	Upload(ctx context.Context, container, name, contentType string, r io.Reader) (*ObjectRef, error)
	// SignedURL returns a GET link valid for ttl. It fails with
	// ErrBlobNotFound when the object does not exist.
	SignedURL(ctx context.Context, container, name string, ttl time.Duration) (string, error)
	Close() error
}

type blobStore struct {
	log           *logger.Logger
	client        *storage.Client
	mode          ObjectStorageMode
	emulatorHost  string
	publicBaseURL string
	defaultBucket string
}

func NewBlobStore(ctx context.Context, log *logger.Logger, cfg ObjectStorageConfig) (BlobStore, error) {
	if err := ValidateObjectStorageConfig(cfg); err != nil {
		return nil, fmt.Errorf("validate object storage config: %w", err)
	}
	client, err := newStorageClientForMode(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create storage client: %w", err)
	}
	serviceLog := log.With("service", "BlobStore")
	serviceLog.Info("Object storage initialized", "mode", cfg.Mode, "emulator_host", cfg.EmulatorHost, "default_bucket", cfg.DefaultBucket)
	return &blobStore{
		log:           serviceLog,
		client:        client,
		mode:          cfg.Mode,
		emulatorHost:  strings.TrimRight(cfg.EmulatorHost, "/"),
		publicBaseURL: cfg.PublicBaseURL,
		defaultBucket: cfg.DefaultBucket,
	}, nil
}

func newStorageClientForMode(ctx context.Context, cfg ObjectStorageConfig) (*storage.Client, error) {
	if cfg.IsEmulatorMode() {
		_ = os.Setenv("STORAGE_EMULATOR_HOST", strings.TrimRight(cfg.EmulatorHost, "/"))
		return storage.NewClient(ctx, option.WithoutAuthentication())
	}
	opts := append(ClientOptionsFromEnv(), option.WithScopes(storage.ScopeReadWrite))
	return storage.NewClient(ctx, opts...)
}

func (b *blobStore) location(container, name string) (string, string, error) {
	bucket := strings.TrimSpace(container)
	if bucket == "" {
		bucket = b.defaultBucket
	}
	name = strings.TrimLeft(strings.TrimSpace(name), "/")
	if bucket == "" || name == "" {
		return "", "", fmt.Errorf("blob location incomplete: bucket=%q name=%q", bucket, name)
	}
	return bucket, name, nil
}

func (b *blobStore) Open(ctx context.Context, container, name string) (io.ReadCloser, *ObjectAttrs, error) {
	bucket, name, err := b.location(container, name)
	if err != nil {
		return nil, nil, err
	}
	r, err := b.client.Bucket(bucket).Object(name).NewReader(ctx)
	if errors.Is(err, storage.ErrObjectNotExist) || errors.Is(err, storage.ErrBucketNotExist) {
		return nil, nil, ErrBlobNotFound
	}
	if err != nil {
		return nil, nil, fmt.Errorf("open gcs object %q in bucket %q: %w", name, bucket, err)
	}
	attrs := &ObjectAttrs{
		Size:        r.Attrs.Size,
		ContentType: r.Attrs.ContentType,
		Updated:     r.Attrs.LastModified,
	}
	return r, attrs, nil
}

func (b *blobStore) Upload(ctx context.Context, container, name, contentType string, r io.Reader) (*ObjectRef, error) {
	bucket, name, err := b.location(container, name)
	if err != nil {
		return nil, err
	}
	ctx, cancel := context.WithTimeout(ctx, uploadTimeout)
	defer cancel()

	w := b.client.Bucket(bucket).Object(name).NewWriter(ctx)
	if contentType == "" {
		contentType = ContentTypeForKey(name)
	}
	w.ContentType = contentType
	if _, err := io.Copy(w, r); err != nil {
		_ = w.Close()
		return nil, fmt.Errorf("failed to write data to GCS: %w", err)
	}
	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("failed to close GCS writer: %w", err)
	}
	return &ObjectRef{Container: bucket, Name: name, URL: b.publicURL(bucket, name)}, nil
}

func (b *blobStore) SignedURL(ctx context.Context, container, name string, ttl time.Duration) (string, error) {
	bucket, name, err := b.location(container, name)
	if err != nil {
		return "", err
	}
	_, err = b.client.Bucket(bucket).Object(name).Attrs(ctx)
	if errors.Is(err, storage.ErrObjectNotExist) || errors.Is(err, storage.ErrBucketNotExist) {
		return "", ErrBlobNotFound
	}
	if err != nil {
		return "", fmt.Errorf("stat gcs object %q in bucket %q: %w", name, bucket, err)
	}
	// the emulator cannot verify signatures; its media links are open
	if b.mode == ObjectStorageModeGCSEmulator {
		return b.publicURL(bucket, name), nil
	}
	u, err := b.client.Bucket(bucket).SignedURL(name, &storage.SignedURLOptions{
		Method:  "GET",
		Expires: time.Now().Add(ttl),
		Scheme:  storage.SigningSchemeV4,
	})
	if err != nil {
		return "", fmt.Errorf("sign gcs object %q in bucket %q: %w", name, bucket, err)
	}
	return u, nil
}

func (b *blobStore) publicURL(bucket, name string) string {
	return PublicObjectURL(b.mode, b.emulatorHost, b.publicBaseURL, bucket, name)
}

// PublicObjectURL is the unsigned address of an object: the JSON API media
// link on the emulator, the storage.googleapis.com path otherwise.
func PublicObjectURL(mode ObjectStorageMode, emulatorHost, publicBaseURL, bucket, name string) string {
	name = strings.TrimLeft(strings.TrimSpace(name), "/")
	if mode == ObjectStorageModeGCSEmulator {
		base := publicBaseURL
		if base == "" {
			base = emulatorHost
		}
		return fmt.Sprintf("%s/storage/v1/b/%s/o/%s?alt=media", strings.TrimRight(base, "/"), url.PathEscape(bucket), url.PathEscape(name))
	}
	if publicBaseURL != "" {
		return fmt.Sprintf("%s/%s/%s", strings.TrimRight(publicBaseURL, "/"), bucket, name)
	}
	return fmt.Sprintf("https://storage.googleapis.com/%s/%s", bucket, name)
}

// ContentTypeForKey guesses a MIME type from the object name's extension.
func ContentTypeForKey(key string) string {
	s := strings.ToLower(strings.TrimSpace(key))
	if i := strings.Index(s, "?"); i >= 0 {
		s = s[:i]
	}
	switch {
	case strings.HasSuffix(s, ".mp3"):
		return "audio/mpeg"
	case strings.HasSuffix(s, ".wav"):
		return "audio/wav"
	case strings.HasSuffix(s, ".m4a"):
		return "audio/mp4"
	case strings.HasSuffix(s, ".ogg"):
		return "audio/ogg"
	case strings.HasSuffix(s, ".mp4"), strings.HasSuffix(s, ".m4v"):
		return "video/mp4"
	case strings.HasSuffix(s, ".webm"):
		return "video/webm"
	case strings.HasSuffix(s, ".mov"):
		return "video/quicktime"
	case strings.HasSuffix(s, ".pdf"):
		return "application/pdf"
	case strings.HasSuffix(s, ".txt"):
		return "text/plain"
	case strings.HasSuffix(s, ".md"):
		return "text/markdown"
	case strings.HasSuffix(s, ".json"):
		return "application/json"
	default:
		return "application/octet-stream"
	}
}

func (b *blobStore) Close() error {
	if b == nil || b.client == nil {
		return nil
	}
	return b.client.Close()
}
