package handler

import (
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"strings"
	"time"

	appErrors "github.com/iccthub/portal-api/pkg/errors"
	"github.com/iccthub/portal-api/pkg/storage"
)

// maxUploadFiles caps the number of images accepted per resource.
const maxUploadFiles = 5

// storeUploadedImages reads multipart files sequentially and stores each one.
// The operation is all-or-nothing: the first failure removes everything
// stored so far and aborts before any database write happens.
func storeUploadedImages(store *storage.ImageStore, files []*multipart.FileHeader, folder string) ([]string, error) {
	if len(files) == 0 {
		return nil, nil
	}
	if len(files) > maxUploadFiles {
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("at most %d images are allowed", maxUploadFiles))
	}
	if store == nil {
		return nil, appErrors.Clone(appErrors.ErrInternal, "image storage is not configured")
	}

	var urls []string
	for _, header := range files {
		data, err := readUpload(header)
		if err != nil {
			rollbackUploads(store, urls)
			return nil, err
		}
		url, err := store.Store(data, folder)
		if err != nil {
			rollbackUploads(store, urls)
			if err == storage.ErrNotImage || err == storage.ErrTooLarge {
				return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, err.Error())
			}
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to store image")
		}
		urls = append(urls, url)
	}
	return urls, nil
}

func readUpload(header *multipart.FileHeader) ([]byte, error) {
	if header.Size > storage.MaxImageSizeBytes {
		return nil, appErrors.Clone(appErrors.ErrValidation, "image exceeds the 5MB limit")
	}
	file, err := header.Open()
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "failed to read upload")
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, storage.MaxImageSizeBytes+1))
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "failed to read upload")
	}
	if int64(len(data)) > storage.MaxImageSizeBytes {
		return nil, appErrors.Clone(appErrors.ErrValidation, "image exceeds the 5MB limit")
	}
	return data, nil
}

func rollbackUploads(store *storage.ImageStore, urls []string) {
	if store == nil {
		return
	}
	for _, url := range urls {
		_ = store.Delete(url)
	}
}

// parseStringList accepts a JSON array string or a comma separated list, the
// two shapes browser clients send for multi-value form fields. A value that
// looks like JSON but fails to parse is rejected, never comma-split.
func parseStringList(raw string) ([]string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	if strings.HasPrefix(raw, "[") {
		var values []string
		if err := json.Unmarshal([]byte(raw), &values); err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "malformed list value")
		}
		return values, nil
	}
	parts := strings.Split(raw, ",")
	values := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			values = append(values, trimmed)
		}
	}
	return values, nil
}

// parseListField parses a multi-value form field, naming the field in the
// validation error.
func parseListField(field, raw string) ([]string, error) {
	values, err := parseStringList(raw)
	if err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, "invalid "+field+" value")
	}
	return values, nil
}

// parseFormDate accepts RFC 3339 timestamps or bare dates.
func parseFormDate(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, fmt.Errorf("empty date")
	}
	if ts, err := time.Parse(time.RFC3339, raw); err == nil {
		return ts, nil
	}
	return time.Parse("2006-01-02", raw)
}
