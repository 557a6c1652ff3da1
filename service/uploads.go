package service

import (
	"context"

	"pawrescue/apperr"
)

// maxUploadBytes caps one media upload.
const maxUploadBytes = 10 << 20

// Upload stores a media file and returns its public URL.
func (s *Service) Upload(ctx context.Context, filename string, data []byte) (string, error) {
	if filename == "" {
		return "", apperr.MissingField("file")
	}
	if len(data) == 0 {
		return "", apperr.Validationf("empty upload")
	}
	if len(data) > maxUploadBytes {
		return "", apperr.Validationf("upload exceeds %d bytes", maxUploadBytes)
	}
	return s.uploads.Store(ctx, filename, data)
}
