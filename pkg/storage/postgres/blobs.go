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

package postgres

import (
	"context"

	"github.com/google/uuid"

	"github.com/liberte-project/liberte/pkg/storage"
)

func (s *Store) CreateBlob(ctx context.Context, blob *storage.Blob) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO blobs (id, file_name, file_size, blake3_hash, is_uploaded, local_path, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		blob.ID, blob.FileName, blob.FileSize, blob.Blake3Hash, blob.IsUploaded, blob.LocalPath, blob.CreatedAt)
	return err
}

func (s *Store) GetBlob(ctx context.Context, id uuid.UUID) (*storage.Blob, error) {
	var b storage.Blob
	err := s.pool.QueryRow(ctx,
		`SELECT id, file_name, file_size, blake3_hash, is_uploaded, local_path, created_at
		 FROM blobs WHERE id = $1`, id,
	).Scan(&b.ID, &b.FileName, &b.FileSize, &b.Blake3Hash, &b.IsUploaded, &b.LocalPath, &b.CreatedAt)
	if err != nil {
		return nil, mapNoRows(err)
	}
	return &b, nil
}

func (s *Store) MarkBlobUploaded(ctx context.Context, id uuid.UUID) error {
	tag, err := s.pool.Exec(ctx, `UPDATE blobs SET is_uploaded = TRUE WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return storage.ErrNotFound
	}
	return nil
}
