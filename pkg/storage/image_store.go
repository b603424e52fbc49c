package storage

import (
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// MaxImageSizeBytes is the hard cap for a single uploaded image.
const MaxImageSizeBytes = 5 * 1024 * 1024

var extensionByMIME = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/gif":  ".gif",
	"image/webp": ".webp",
}

// ErrNotImage is returned when the payload does not sniff as a supported image.
var ErrNotImage = fmt.Errorf("only image files are allowed")

// ErrTooLarge is returned when the payload exceeds the size cap.
var ErrTooLarge = fmt.Errorf("image exceeds the %d byte limit", MaxImageSizeBytes)

// ImageStore persists uploaded images on disk and hands out stable public URLs.
type ImageStore struct {
	baseDir string
	baseURL string
	maxSize int64
}

// NewImageStore ensures the base directory exists and returns a handle.
func NewImageStore(baseDir, publicBaseURL string, maxSize int64) (*ImageStore, error) {
	if baseDir == "" {
		baseDir = "./uploads"
	}
	if maxSize <= 0 {
		maxSize = MaxImageSizeBytes
	}
	if err := os.MkdirAll(baseDir, 0o755); err != nil {
		return nil, fmt.Errorf("create uploads directory: %w", err)
	}
	return &ImageStore{
		baseDir: baseDir,
		baseURL: strings.TrimRight(publicBaseURL, "/"),
		maxSize: maxSize,
	}, nil
}

// Store validates and persists an image, returning its public URL.
// The payload must sniff as a supported image type and fit under the size cap;
// nothing is written when validation fails.
func (s *ImageStore) Store(data []byte, folder string) (string, error) {
	if int64(len(data)) > s.maxSize {
		return "", ErrTooLarge
	}
	mime := http.DetectContentType(data)
	ext, ok := extensionByMIME[mime]
	if !ok {
		return "", ErrNotImage
	}

	folder = sanitizeFolder(folder)
	name := uuid.NewString() + ext
	dir := filepath.Join(s.baseDir, folder)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("prepare upload directory: %w", err)
	}
	if err := os.WriteFile(filepath.Join(dir, name), data, 0o644); err != nil {
		return "", fmt.Errorf("write upload file: %w", err)
	}

	if folder == "" {
		return s.baseURL + "/" + name, nil
	}
	return s.baseURL + "/" + folder + "/" + name, nil
}

// Delete removes a previously stored file if present.
func (s *ImageStore) Delete(publicURL string) error {
	rel := strings.TrimPrefix(publicURL, s.baseURL+"/")
	if rel == publicURL || rel == "" {
		return nil
	}
	path := filepath.Join(s.baseDir, filepath.FromSlash(rel))
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("delete upload file: %w", err)
	}
	return nil
}

func sanitizeFolder(folder string) string {
	folder = strings.Trim(folder, "/")
	parts := strings.Split(folder, "/")
	clean := make([]string, 0, len(parts))
	for _, p := range parts {
		if p == "" || p == "." || p == ".." {
			continue
		}
		clean = append(clean, p)
	}
	return strings.Join(clean, "/")
}
