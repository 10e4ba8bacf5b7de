// Package uploads validates user-submitted files (extension, MIME type,
// size class) before handing them to a blob store. The store itself is an
// interface; DiskStore is the local implementation used in development and
// single-node deployments.
package uploads

import (
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// Kind is a size/format class for uploaded files.
type Kind string

const (
	// KindPhoto covers identity photos and profile pictures, max 2MB.
	KindPhoto Kind = "photo"
	// KindScreenshot covers payment proof captures, max 3MB.
	KindScreenshot Kind = "screenshot"
	// KindDocument covers CNI scans, PDF or image, max 5MB.
	KindDocument Kind = "document"
)

type rule struct {
	extensions []string
	mimeTypes  []string
	maxBytes   int64
}

var rules = map[Kind]rule{
	KindPhoto: {
		extensions: []string{"jpg", "jpeg", "png", "webp"},
		mimeTypes:  []string{"image/jpeg", "image/png", "image/webp"},
		maxBytes:   2 << 20,
	},
	KindScreenshot: {
		extensions: []string{"jpg", "jpeg", "png", "webp"},
		mimeTypes:  []string{"image/jpeg", "image/png", "image/webp"},
		maxBytes:   3 << 20,
	},
	KindDocument: {
		extensions: []string{"pdf", "jpg", "jpeg", "png", "webp"},
		mimeTypes:  []string{"application/pdf", "image/jpeg", "image/png", "image/webp"},
		maxBytes:   5 << 20,
	},
}

// Validate checks an uploaded file against the rules of its kind.
func Validate(header *multipart.FileHeader, kind Kind) error {
	r, ok := rules[kind]
	if !ok {
		return fmt.Errorf("unknown upload kind %q", kind)
	}

	if header.Size > r.maxBytes {
		return fmt.Errorf("file exceeds %dMB limit", r.maxBytes>>20)
	}

	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(header.Filename), "."))
	if !contains(r.extensions, ext) {
		return fmt.Errorf("unsupported format, allowed: %s", strings.Join(r.extensions, ", "))
	}

	if ct := header.Header.Get("Content-Type"); ct != "" && !contains(r.mimeTypes, ct) {
		return fmt.Errorf("invalid content type %q", ct)
	}
	return nil
}

func contains(list []string, v string) bool {
	for _, item := range list {
		if item == v {
			return true
		}
	}
	return false
}

// Store saves validated files and returns a retrievable reference.
type Store interface {
	Save(header *multipart.FileHeader, kind Kind) (string, error)
}

// DiskStore writes files under a base directory, one subdirectory per kind,
// with uuid file names.
type DiskStore struct {
	baseDir string
}

// NewDiskStore creates the base directory if needed.
func NewDiskStore(baseDir string) (*DiskStore, error) {
	if err := os.MkdirAll(baseDir, 0o755); err != nil {
		return nil, fmt.Errorf("uploads.NewDiskStore: %w", err)
	}
	return &DiskStore{baseDir: baseDir}, nil
}

// Save validates the file and writes it to disk, returning the stored path
// relative to the base directory.
func (s *DiskStore) Save(header *multipart.FileHeader, kind Kind) (string, error) {
	const op = "uploads.DiskStore.Save"

	if err := Validate(header, kind); err != nil {
		return "", err
	}

	src, err := header.Open()
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = src.Close()
	}()

	ext := strings.ToLower(filepath.Ext(header.Filename))
	rel := filepath.Join(string(kind), uuid.NewString()+ext)
	abs := filepath.Join(s.baseDir, rel)
	if err := os.MkdirAll(filepath.Dir(abs), 0o755); err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	dst, err := os.Create(abs)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = dst.Close()
	}()

	if _, err := io.Copy(dst, src); err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return rel, nil
}
