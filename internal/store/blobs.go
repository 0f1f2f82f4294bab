package store

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/selinongun-dev/aspora-orgchart/internal/model"
)

// OrgBlobName 组织名册 blob 的固定名字，每次上传覆盖
const OrgBlobName = "org.csv"

// ErrBlobNotFound 指定名字下没有任何 blob
var ErrBlobNotFound = errors.New("blob not found")

// PutBlob 写入一个 blob 版本
func (s *Store) PutBlob(blob *model.CSVBlob) error {
	_, err := s.db.Exec(`
		INSERT INTO blobs (id, name, filename, content_type, size, content, uploaded_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, blob.ID, blob.Name, blob.Filename, blob.ContentType, blob.Size, blob.Content, blob.UploadedAt)
	if err != nil {
		return fmt.Errorf("failed to put blob: %w", err)
	}
	return nil
}

// LatestBlob 取指定名字最新的 blob，含内容
func (s *Store) LatestBlob(name string) (*model.CSVBlob, error) {
	var blob model.CSVBlob
	err := s.db.QueryRow(`
		SELECT id, name, filename, content_type, size, content, uploaded_at
		FROM blobs WHERE name = ?
		ORDER BY uploaded_at DESC, rowid DESC LIMIT 1
	`, name).Scan(&blob.ID, &blob.Name, &blob.Filename, &blob.ContentType, &blob.Size, &blob.Content, &blob.UploadedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("%w: %s", ErrBlobNotFound, name)
		}
		return nil, fmt.Errorf("failed to query blob: %w", err)
	}
	return &blob, nil
}

// ListBlobs 列出指定名字的所有版本元信息，新的在前
func (s *Store) ListBlobs(name string) ([]model.BlobMeta, error) {
	rows, err := s.db.Query(`
		SELECT id, name, filename, content_type, size, uploaded_at
		FROM blobs WHERE name = ?
		ORDER BY uploaded_at DESC, rowid DESC
	`, name)
	if err != nil {
		return nil, fmt.Errorf("failed to list blobs: %w", err)
	}
	defer rows.Close()

	var metas []model.BlobMeta
	for rows.Next() {
		var m model.BlobMeta
		if err := rows.Scan(&m.ID, &m.Name, &m.Filename, &m.ContentType, &m.Size, &m.UploadedAt); err != nil {
			return nil, fmt.Errorf("failed to scan blob meta: %w", err)
		}
		metas = append(metas, m)
	}
	return metas, rows.Err()
}

// DeleteBlobs 删除指定名字的全部版本，返回删除条数
// 上传新版本前先调用，保证同名只留一份
func (s *Store) DeleteBlobs(name string) (int64, error) {
	res, err := s.db.Exec("DELETE FROM blobs WHERE name = ?", name)
	if err != nil {
		return 0, fmt.Errorf("failed to delete blobs: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to count deleted blobs: %w", err)
	}
	return n, nil
}
