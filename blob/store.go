// Copyright (C) 2025 sage-x-project
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as
// published by the Free Software Foundation, either version 3 of the
// License, or (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with this program. If not, see <https://www.gnu.org/licenses/>.

// SPDX-License-Identifier: LGPL-3.0-or-later

// Package blob stores opaque, already-encrypted blobs (attachments, voice
// clips, encrypted channel backups) on the local filesystem, keyed by a
// random id. Every path it builds is checked against a path-traversal
// escape before being touched.
package blob

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/liberte-project/liberte/internal/logger"
)

// DefaultMaxSize is the ceiling on a single stored blob, matching the
// server's default request body limit.
const DefaultMaxSize = 50 * 1024 * 1024 // 50 MiB

var (
	// ErrEmptyBlob is returned by Store for zero-length data.
	ErrEmptyBlob = errors.New("blob: empty blob")
	// ErrTooLarge is returned by Store when data exceeds the store's max size.
	ErrTooLarge = errors.New("blob: too large")
	// ErrNotFound is returned by Get/Delete for an unknown id.
	ErrNotFound = errors.New("blob: not found")
	// ErrPathTraversal is returned when a computed path would escape the
	// store's base directory.
	ErrPathTraversal = errors.New("blob: path traversal detected")
)

// Store persists blobs under a base directory on the local filesystem.
type Store struct {
	basePath string
	maxSize  int
	log      logger.Logger
}

// New creates the base directory (if absent) and returns a Store rooted
// there, rejecting any blob larger than maxSize.
func New(basePath string, maxSize int, log logger.Logger) (*Store, error) {
	if err := os.MkdirAll(basePath, 0o700); err != nil {
		return nil, fmt.Errorf("blob: create base directory %q: %w", basePath, err)
	}
	abs, err := filepath.Abs(basePath)
	if err != nil {
		return nil, fmt.Errorf("blob: resolve base directory %q: %w", basePath, err)
	}
	log.Info("blob store initialized", logger.String("path", abs))
	return &Store{basePath: abs, maxSize: maxSize, log: log}, nil
}

// BasePath returns the store's root directory.
func (s *Store) BasePath() string { return s.basePath }

// ensureWithin resolves target relative to the store's base directory and
// confirms the cleaned result stays within it; a path whose ".." elements
// climb out of the base directory is rejected.
func (s *Store) ensureWithin(target string) (string, error) {
	rel, err := filepath.Rel(s.basePath, target)
	if err != nil {
		return "", ErrPathTraversal
	}
	if rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) || filepath.IsAbs(rel) {
		return "", ErrPathTraversal
	}
	resolved := filepath.Join(s.basePath, rel)
	if resolved != s.basePath && !strings.HasPrefix(resolved, s.basePath+string(filepath.Separator)) {
		return "", ErrPathTraversal
	}
	return resolved, nil
}

func (s *Store) safeBlobPath(id uuid.UUID) (string, error) {
	return s.ensureWithin(filepath.Join(s.basePath, id.String()))
}

// SafeSubpath builds a path for a named file under subdir (e.g. per-user
// backup slots), rejecting any path separator or ".." in either input.
func (s *Store) SafeSubpath(subdir, filename string) (string, error) {
	if containsPathChars(subdir) || containsPathChars(filename) {
		return "", ErrPathTraversal
	}
	return s.ensureWithin(filepath.Join(s.basePath, subdir, filename))
}

func containsPathChars(s string) bool {
	return strings.ContainsAny(s, `/\`) || strings.Contains(s, "..")
}

// Store writes data under a freshly generated id and returns it.
func (s *Store) Store(data []byte) (uuid.UUID, error) {
	if len(data) == 0 {
		return uuid.UUID{}, ErrEmptyBlob
	}
	if len(data) > s.maxSize {
		return uuid.UUID{}, fmt.Errorf("%w: %d bytes (max %d)", ErrTooLarge, len(data), s.maxSize)
	}

	id := uuid.New()
	path, err := s.safeBlobPath(id)
	if err != nil {
		return uuid.UUID{}, err
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return uuid.UUID{}, fmt.Errorf("blob: write %s: %w", id, err)
	}
	s.log.Debug("blob: stored", logger.String("id", id.String()), logger.Int("size", len(data)))
	return id, nil
}

// Get reads the blob stored under id.
func (s *Store) Get(id uuid.UUID) ([]byte, error) {
	path, err := s.safeBlobPath(id)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("blob: read %s: %w", id, err)
	}
	s.log.Debug("blob: retrieved", logger.String("id", id.String()), logger.Int("size", len(data)))
	return data, nil
}

// Delete removes the blob stored under id.
func (s *Store) Delete(id uuid.UUID) error {
	path, err := s.safeBlobPath(id)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("%w: %s", ErrNotFound, id)
		}
		return fmt.Errorf("blob: delete %s: %w", id, err)
	}
	s.log.Debug("blob: deleted", logger.String("id", id.String()))
	return nil
}

// List returns every blob id currently stored at the top level of the
// base directory.
func (s *Store) List() ([]uuid.UUID, error) {
	entries, err := os.ReadDir(s.basePath)
	if err != nil {
		return nil, fmt.Errorf("blob: list: %w", err)
	}
	ids := make([]uuid.UUID, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if id, err := uuid.Parse(entry.Name()); err == nil {
			ids = append(ids, id)
		}
	}
	return ids, nil
}
