// Package storage implements the upload collaborator: bytes in, durable
// URL out. An object store is used when configured, with bounded retries
// for transient failures; otherwise files land on local disk.
package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/apex/log"
	"github.com/google/uuid"

	"pawrescue/apperr"
	"pawrescue/config"
)

// Uploader stores raw file bytes and returns a durable public URL.
type Uploader interface {
	Store(ctx context.Context, filename string, data []byte) (string, error)
}

// NewUploader picks the object-store backend when an endpoint is
// configured and falls back to local disk otherwise.
func NewUploader(cfg *config.Config) Uploader {
	if cfg.UploadEndpoint != "" {
		return &ObjectStore{
			endpoint:   strings.TrimRight(cfg.UploadEndpoint, "/"),
			apiKey:     cfg.UploadAPIKey,
			keyPrefix:  cfg.UploadKeyPrefix,
			maxRetries: cfg.UploadRetries,
			retryDelay: cfg.UploadRetryDelay,
			httpClient: &http.Client{Timeout: cfg.UploadTimeout},
		}
	}
	log.Warn("No upload endpoint configured, storing uploads on local disk")
	return &LocalStore{
		dir:        cfg.UploadDir,
		publicBase: strings.TrimRight(cfg.UploadPublicBase, "/"),
	}
}

func objectKey(prefix, filename string) string {
	ext := path.Ext(filename)
	return strings.TrimLeft(prefix, "/") + uuid.NewString() + ext
}

// ObjectStore PUTs objects to a remote blob endpoint. Only timeout and
// 5xx failures are retried, with linear backoff; auth and validation
// failures surface immediately.
type ObjectStore struct {
	endpoint   string
	apiKey     string
	keyPrefix  string
	maxRetries int
	retryDelay time.Duration
	httpClient *http.Client
}

func (s *ObjectStore) Store(ctx context.Context, filename string, data []byte) (string, error) {
	key := objectKey(s.keyPrefix, filename)
	url := s.endpoint + "/" + key

	var lastErr error
	for attempt := 1; attempt <= s.maxRetries; attempt++ {
		err := s.put(ctx, url, data)
		if err == nil {
			return url, nil
		}
		lastErr = err
		if !errors.Is(err, apperr.ErrUploadTransient) {
			return "", err
		}
		if attempt < s.maxRetries {
			delay := s.retryDelay * time.Duration(attempt)
			log.Warnf("Upload attempt %d/%d failed, retrying in %v: %v",
				attempt, s.maxRetries, delay, err)
			select {
			case <-time.After(delay):
			case <-ctx.Done():
				return "", fmt.Errorf("upload canceled: %w", ctx.Err())
			}
		}
	}
	return "", fmt.Errorf("upload failed after %d attempts: %w", s.maxRetries, lastErr)
}

func (s *ObjectStore) put(ctx context.Context, url string, data []byte) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPut, url, bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("create upload request: %w", err)
	}
	req.Header.Set("Content-Type", "application/octet-stream")
	if s.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+s.apiKey)
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		if isTimeout(err) {
			return fmt.Errorf("upload request: %w: %v", apperr.ErrUploadTransient, err)
		}
		return fmt.Errorf("upload request: %w", err)
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		return nil
	case resp.StatusCode >= 500:
		return fmt.Errorf("object store status %d: %w", resp.StatusCode, apperr.ErrUploadTransient)
	default:
		return fmt.Errorf("object store rejected upload with status %d", resp.StatusCode)
	}
}

func isTimeout(err error) bool {
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}
	return errors.Is(err, context.DeadlineExceeded)
}

// LocalStore writes uploads under a local directory served as static
// files. Used when no object store is configured.
type LocalStore struct {
	dir        string
	publicBase string
}

func (s *LocalStore) Store(ctx context.Context, filename string, data []byte) (string, error) {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return "", fmt.Errorf("create upload dir: %w", err)
	}
	name := uuid.NewString() + path.Ext(filename)
	if err := os.WriteFile(filepath.Join(s.dir, name), data, 0o644); err != nil {
		return "", fmt.Errorf("write upload: %w", err)
	}
	return s.publicBase + "/uploads/" + name, nil
}
