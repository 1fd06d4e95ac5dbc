package services

import (
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"

	"github.com/segmentio/ksuid"

	"slimSquadAPI/pkg/utilities"
)

// MaxPhotoBytes caps uploads at 5 MB. Exceeding it is a validation
// error, never a silent truncation.
const MaxPhotoBytes = 5 << 20

const uploadsPrefix = "/uploads/"

var photoMIMETypes = map[string]string{
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
	".gif":  "image/gif",
	".webp": "image/webp",
}

// PhotoService owns the uploads directory. Filenames are fresh KSUIDs,
// so stored content is immutable and collisions are not a concern.
type PhotoService struct {
	dir string
}

func NewPhotoService(dir string) *PhotoService {
	return &PhotoService{dir: dir}
}

// Save persists an uploaded photo and returns its reference path of the
// form /uploads/<name>.<ext>. A nil or empty upload keeps the existing
// reference unchanged. A successful save removes the previously stored
// file best-effort.
func (s *PhotoService) Save(fh *multipart.FileHeader, existingPath *string) (*string, error) {
	if fh == nil || fh.Size == 0 {
		return existingPath, nil
	}
	if err := CheckSize(fh); err != nil {
		return nil, err
	}

	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create uploads directory: %w", err)
	}

	ext := strings.ToLower(filepath.Ext(fh.Filename))
	if ext == "" {
		ext = ".jpg"
	}
	name := ksuid.New().String() + ext

	src, err := fh.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open uploaded photo: %w", err)
	}
	defer src.Close()

	dst, err := os.Create(filepath.Join(s.dir, name))
	if err != nil {
		return nil, fmt.Errorf("failed to create photo file: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, io.LimitReader(src, MaxPhotoBytes)); err != nil {
		return nil, fmt.Errorf("failed to store photo: %w", err)
	}

	rel := uploadsPrefix + name
	if existingPath != nil && *existingPath != rel {
		s.Remove(*existingPath)
	}
	return &rel, nil
}

// CheckSize rejects an upload over the cap without touching the
// filesystem, so callers can validate a batch before persisting any.
func CheckSize(fh *multipart.FileHeader) error {
	if fh != nil && fh.Size > MaxPhotoBytes {
		return NewValidationError("photo must be 5 MB or smaller")
	}
	return nil
}

// Remove deletes a stored photo by its reference path. Failures are
// logged and swallowed; an orphaned file is non-fatal.
func (s *PhotoService) Remove(relPath string) {
	name := filepath.Base(strings.TrimPrefix(relPath, uploadsPrefix))
	if name == "" || name == "." || name == string(filepath.Separator) {
		return
	}
	if err := os.Remove(filepath.Join(s.dir, name)); err != nil && !os.IsNotExist(err) {
		utilities.Log.Warnw("failed to remove photo", "path", relPath, "error", err)
	}
}

// Resolve maps an uploads filename to its absolute path, rejecting
// anything that would escape the uploads directory.
func (s *PhotoService) Resolve(fileName string) (string, error) {
	clean := filepath.Base(filepath.Clean(fileName))
	if clean != fileName || clean == "." || clean == ".." {
		return "", fmt.Errorf("invalid upload name %q", fileName)
	}
	return filepath.Join(s.dir, clean), nil
}

// MIMETypeFor maps an upload filename to its content type, defaulting
// to a generic binary type.
func MIMETypeFor(fileName string) string {
	if mime, ok := photoMIMETypes[strings.ToLower(filepath.Ext(fileName))]; ok {
		return mime
	}
	return "application/octet-stream"
}
