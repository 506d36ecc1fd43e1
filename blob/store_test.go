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

package blob

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/liberte-project/liberte/internal/logger"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := New(t.TempDir(), 1024*1024, logger.NewDefaultLogger())
	require.NoError(t, err)
	return s
}

func TestStoreAndGet(t *testing.T) {
	s := newTestStore(t)
	data := []byte("encrypted-blob-data")

	id, err := s.Store(data)
	require.NoError(t, err)

	got, err := s.Get(id)
	require.NoError(t, err)
	assert.Equal(t, data, got)
}

func TestDelete(t *testing.T) {
	s := newTestStore(t)
	id, err := s.Store([]byte("delete-me"))
	require.NoError(t, err)

	require.NoError(t, s.Delete(id))
	_, err = s.Get(id)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestList(t *testing.T) {
	s := newTestStore(t)
	id1, err := s.Store([]byte("blob-1"))
	require.NoError(t, err)
	id2, err := s.Store([]byte("blob-2"))
	require.NoError(t, err)

	ids, err := s.List()
	require.NoError(t, err)
	assert.Contains(t, ids, id1)
	assert.Contains(t, ids, id2)
}

func TestNotFound(t *testing.T) {
	s := newTestStore(t)
	_, err := s.Get(uuid.New())
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestEmptyBlobRejected(t *testing.T) {
	s := newTestStore(t)
	_, err := s.Store(nil)
	assert.ErrorIs(t, err, ErrEmptyBlob)
}

func TestTooLargeRejected(t *testing.T) {
	s, err := New(t.TempDir(), 8, logger.NewDefaultLogger())
	require.NoError(t, err)
	_, err = s.Store(make([]byte, 9))
	assert.ErrorIs(t, err, ErrTooLarge)
}

func TestSafeSubpathRejectsTraversal(t *testing.T) {
	s := newTestStore(t)

	_, err := s.SafeSubpath("../escape", "file")
	assert.ErrorIs(t, err, ErrPathTraversal)

	_, err = s.SafeSubpath("backups", "../escape")
	assert.ErrorIs(t, err, ErrPathTraversal)

	_, err = s.SafeSubpath("backups", "a/b")
	assert.ErrorIs(t, err, ErrPathTraversal)
}

func TestSafeSubpathAllowsNormalNames(t *testing.T) {
	s := newTestStore(t)
	path, err := s.SafeSubpath("backups", "0123abcd")
	require.NoError(t, err)
	assert.Contains(t, path, "backups")
}
