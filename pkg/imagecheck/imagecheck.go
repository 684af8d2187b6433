// Package imagecheck holds the listing image upload rules shared by the API
// server and the Go client, so oversized or non-image files are refused
// before any bytes leave the caller.
package imagecheck

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

const (
	// MaxSize is the per-file limit (10MB)
	MaxSize int64 = 10 * 1024 * 1024
	// MaxPerListing is the maximum number of images a listing may hold
	MaxPerListing = 10
)

var (
	ErrTooLarge     = errors.New("image exceeds the 10MB size limit")
	ErrNotImage     = errors.New("file is not an image")
	ErrEmpty        = errors.New("image is empty")
	ErrTooManyFiles = fmt.Errorf("a listing can hold at most %d images", MaxPerListing)
)

// FileError ties a rule violation to the offending file
type FileError struct {
	Name string
	Err  error
}

func (e *FileError) Error() string {
	return fmt.Sprintf("%s: %v", e.Name, e.Err)
}

func (e *FileError) Unwrap() error {
	return e.Err
}

// Validate checks a single file against the size and type rules
func Validate(name string, size int64, contentType string) error {
	switch {
	case size <= 0:
		return &FileError{Name: name, Err: ErrEmpty}
	case size > MaxSize:
		return &FileError{Name: name, Err: ErrTooLarge}
	case !strings.HasPrefix(strings.ToLower(strings.TrimSpace(contentType)), "image/"):
		return &FileError{Name: name, Err: ErrNotImage}
	}
	return nil
}

// CheckCount reports whether adding incoming images to a listing that
// already has existing ones stays within MaxPerListing.
func CheckCount(existing, incoming int) error {
	if existing+incoming > MaxPerListing {
		return ErrTooManyFiles
	}
	return nil
}

// Extension returns a lowercase extension for the object key, falling back
// to one derived from the content type.
func Extension(name, contentType string) string {
	if ext := strings.ToLower(filepath.Ext(name)); ext != "" && len(ext) <= 5 {
		return ext
	}
	switch strings.ToLower(contentType) {
	case "image/jpeg":
		return ".jpg"
	case "image/png":
		return ".png"
	case "image/gif":
		return ".gif"
	case "image/webp":
		return ".webp"
	}
	return ""
}
