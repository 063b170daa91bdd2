package scraper

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/vendo/internal/common"
)

// ImageStorage downloads cover images into the configured public images
// directory.
type ImageStorage struct {
	baseDir   string
	client    *http.Client
	userAgent string
	logger    arbor.ILogger
}

// NewImageStorage creates the images directory if missing.
func NewImageStorage(baseDir, userAgent string, logger arbor.ILogger) (*ImageStorage, error) {
	if err := os.MkdirAll(baseDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create image directory: %w", err)
	}
	return &ImageStorage{
		baseDir:   baseDir,
		client:    &http.Client{Timeout: 30 * time.Second},
		userAgent: userAgent,
		logger:    logger,
	}, nil
}

// Download fetches the cover image and writes it as
// cover_{resourceID}_{unix}.{ext}. The returned path is relative to the
// images directory.
func (s *ImageStorage) Download(ctx context.Context, imageURL, resourceID string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, imageURL, nil)
	if err != nil {
		return "", &common.UpstreamFetchError{URL: imageURL, Err: err}
	}
	req.Header.Set("User-Agent", s.userAgent)

	resp, err := s.client.Do(req)
	if err != nil {
		return "", &common.UpstreamFetchError{URL: imageURL, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return "", &common.UpstreamFetchError{URL: imageURL, StatusCode: resp.StatusCode}
	}

	filename := fmt.Sprintf("cover_%s_%d%s", resourceID, time.Now().Unix(), imageExt(imageURL))
	fullPath := filepath.Join(s.baseDir, filename)

	file, err := os.Create(fullPath)
	if err != nil {
		return "", fmt.Errorf("failed to create image file: %w", err)
	}
	defer file.Close()

	if _, err := io.Copy(file, resp.Body); err != nil {
		os.Remove(fullPath)
		return "", fmt.Errorf("failed to write image file: %w", err)
	}

	s.logger.Debug().
		Str("url", imageURL).
		Str("file", filename).
		Msg("Cover image stored")

	return filename, nil
}

// imageExt derives the file extension from the URL path, defaulting to .jpg.
func imageExt(imageURL string) string {
	parsed, err := url.Parse(imageURL)
	if err != nil {
		return ".jpg"
	}
	ext := strings.ToLower(path.Ext(parsed.Path))
	switch ext {
	case ".jpg", ".jpeg", ".png", ".gif", ".webp":
		return ext
	}
	return ".jpg"
}
