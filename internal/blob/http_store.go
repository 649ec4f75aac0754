package blob

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/MKhiriev/go-journal-keeper/internal/config"
	"github.com/MKhiriev/go-journal-keeper/internal/logger"
	"github.com/MKhiriev/go-journal-keeper/internal/utils"
)

// publicURLPrefix is the path prefix under which objects are served without
// authentication. ParsePublicURL keys on it.
const publicURLPrefix = "/storage/v1/object/public/"

type httpBlobStore struct {
	client *utils.HTTPClient

	baseURL    string
	serviceKey string

	logger *logger.Logger
}

// NewHTTPBlobStore constructs an HTTP implementation of [BlobStore].
// It normalises and validates the base URL from cfg.BaseURL and configures
// the underlying HTTP client with the resolved base URL, the bearer service
// key, and the request timeout.
//
// Returns an error if cfg.BaseURL is empty or cannot be parsed as a valid URL.
func NewHTTPBlobStore(cfg config.Blob, logger *logger.Logger) (BlobStore, error) {
	baseURL, err := normalizeBaseURL(cfg.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid blob base url: %w", err)
	}

	client := utils.NewHTTPClient()
	client.
		SetBaseURL(baseURL).
		SetTimeout(cfg.RequestTimeout).
		SetHeader("Authorization", "Bearer "+cfg.ServiceKey)

	return &httpBlobStore{
		client:     client,
		baseURL:    baseURL,
		serviceKey: cfg.ServiceKey,
		logger:     logger,
	}, nil
}

func normalizeBaseURL(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", fmt.Errorf("empty address")
	}

	if !strings.Contains(raw, "://") {
		raw = "https://" + raw
	}

	u, err := url.Parse(raw)
	if err != nil {
		return "", err
	}
	if u.Scheme == "" || u.Host == "" {
		return "", fmt.Errorf("address must include host and scheme")
	}

	return strings.TrimRight(u.String(), "/"), nil
}

// Upload implements [BlobStore]. It POSTs the payload to
// POST /storage/v1/object/{bucket}/{path} with the upsert header set, so a
// replay of the same migration path overwrites rather than fails.
func (h *httpBlobStore) Upload(ctx context.Context, bucket, path string, data []byte, contentType string) (string, error) {
	log := logger.FromContext(ctx)

	resp, err := h.client.R().
		SetContext(ctx).
		SetHeader("Content-Type", contentType).
		SetHeader("x-upsert", "true").
		SetBody(data).
		Post("/storage/v1/object/" + bucket + "/" + path)
	if err != nil {
		log.Err(err).
			Str("func", "httpBlobStore.Upload").
			Str("bucket", bucket).
			Str("path", path).
			Msg("upload request failed")
		return "", fmt.Errorf("upload request: %w", err)
	}
	if err = mapHTTPError(resp); err != nil {
		log.Err(err).
			Str("func", "httpBlobStore.Upload").
			Str("bucket", bucket).
			Str("path", path).
			Int("status", resp.StatusCode()).
			Msg("upload rejected by storage")
		return "", err
	}

	return h.PublicURL(bucket, path), nil
}

// Remove implements [BlobStore]. It sends one batched
// DELETE /storage/v1/object/{bucket} request carrying all paths.
func (h *httpBlobStore) Remove(ctx context.Context, bucket string, paths []string) error {
	log := logger.FromContext(ctx)

	if len(paths) == 0 {
		return nil
	}

	resp, err := h.client.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(map[string][]string{"prefixes": paths}).
		Delete("/storage/v1/object/" + bucket)
	if err != nil {
		log.Err(err).
			Str("func", "httpBlobStore.Remove").
			Str("bucket", bucket).
			Int("paths count", len(paths)).
			Msg("remove request failed")
		return fmt.Errorf("remove request: %w", err)
	}
	if err = mapHTTPError(resp); err != nil {
		log.Err(err).
			Str("func", "httpBlobStore.Remove").
			Str("bucket", bucket).
			Int("status", resp.StatusCode()).
			Msg("remove rejected by storage")
		return err
	}

	return nil
}

// List implements [BlobStore]. A one-object listing is enough to tell a
// present bucket from a missing one.
func (h *httpBlobStore) List(ctx context.Context, bucket string) error {
	log := logger.FromContext(ctx)

	resp, err := h.client.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(map[string]any{"prefix": "", "limit": 1}).
		Post("/storage/v1/object/list/" + bucket)
	if err != nil {
		log.Err(err).
			Str("func", "httpBlobStore.List").
			Str("bucket", bucket).
			Msg("list request failed")
		return fmt.Errorf("list request: %w", err)
	}
	if err = mapHTTPError(resp); err != nil {
		log.Err(err).
			Str("func", "httpBlobStore.List").
			Str("bucket", bucket).
			Int("status", resp.StatusCode()).
			Msg("list rejected by storage")
		return err
	}

	return nil
}

// PublicURL implements [BlobStore].
func (h *httpBlobStore) PublicURL(bucket, path string) string {
	return h.baseURL + publicURLPrefix + bucket + "/" + path
}

// ParsePublicURL implements [BlobStore]. It accepts URLs of this store only;
// foreign hosts and non-public paths return ok=false.
func (h *httpBlobStore) ParsePublicURL(rawURL string) (bucket, path string, ok bool) {
	rest, found := strings.CutPrefix(rawURL, h.baseURL+publicURLPrefix)
	if !found {
		return "", "", false
	}

	bucket, path, found = strings.Cut(rest, "/")
	if !found || bucket == "" || path == "" {
		return "", "", false
	}

	return bucket, path, true
}
