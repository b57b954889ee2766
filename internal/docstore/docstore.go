// Package docstore reads document sources by URL path segments.
package docstore

import (
	"context"
	stderrors "errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"git.home.luguber.info/inful/docsite/internal/foundation/errors"
)

// DefaultExtension is appended to resolved document locations.
const DefaultExtension = ".md"

// IndexName is the file name used when a path has no segments.
const IndexName = "index"

// ErrMissingDocument is wrapped by errors for paths with no backing source.
var ErrMissingDocument = stderrors.New("missing document")

// Store reads document text by path segments.
type Store interface {
	Read(ctx context.Context, segments []string) ([]byte, error)
}

// FSStore resolves segments to files under a base directory:
// base/seg1/seg2.ext, or base/index.ext for no segments.
type FSStore struct {
	base string
	ext  string
}

// NewFSStore returns a store rooted at base. An empty ext uses DefaultExtension.
func NewFSStore(base, ext string) *FSStore {
	if ext == "" {
		ext = DefaultExtension
	}
	if !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	return &FSStore{base: base, ext: ext}
}

// Base returns the content directory.
func (s *FSStore) Base() string { return s.base }

// Locate returns the file a path resolves to. Segments that would escape the
// base directory are rejected as missing documents.
func (s *FSStore) Locate(segments []string) (string, error) {
	if len(segments) == 0 {
		return filepath.Join(s.base, IndexName+s.ext), nil
	}
	for _, seg := range segments {
		if seg == "" || seg == "." || seg == ".." || strings.ContainsAny(seg, `/\`) || strings.ContainsRune(seg, 0) {
			return "", missing(strings.Join(segments, "/"), nil)
		}
	}
	return filepath.Join(s.base, filepath.Join(segments...)+s.ext), nil
}

// Rel returns the slash-separated location of segments relative to the
// base directory.
func (s *FSStore) Rel(segments []string) (string, error) {
	loc, err := s.Locate(segments)
	if err != nil {
		return "", err
	}
	rel, err := filepath.Rel(s.base, loc)
	if err != nil {
		return "", errors.WrapError(err, errors.CategoryInternal, "relative document location").Build()
	}
	return filepath.ToSlash(rel), nil
}

// Read returns the document text for segments.
func (s *FSStore) Read(ctx context.Context, segments []string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	loc, err := s.Locate(segments)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(loc)
	if err != nil {
		if stderrors.Is(err, fs.ErrNotExist) || isDirectory(err) {
			return nil, missing(strings.Join(segments, "/"), err)
		}
		return nil, errors.WrapError(err, errors.CategoryFileSystem, "read document").
			WithContext("file", loc).
			Build()
	}
	return data, nil
}

// Exists reports whether segments resolve to a readable document.
func (s *FSStore) Exists(segments []string) bool {
	loc, err := s.Locate(segments)
	if err != nil {
		return false
	}
	info, err := os.Stat(loc)
	return err == nil && info.Mode().IsRegular()
}

func isDirectory(err error) bool {
	var pe *fs.PathError
	if !stderrors.As(err, &pe) {
		return false
	}
	info, statErr := os.Stat(pe.Path)
	return statErr == nil && info.IsDir()
}

func missing(path string, cause error) error {
	b := errors.WrapError(ErrMissingDocument, errors.CategoryNotFound, "document not found").
		WithContext("path", path)
	if cause != nil {
		b = b.WithContext("cause", cause.Error())
	}
	return b.Build()
}

// IsMissing reports whether err reports a missing document.
func IsMissing(err error) bool {
	return stderrors.Is(err, ErrMissingDocument)
}
