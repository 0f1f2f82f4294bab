package model

import "time"

// CSVBlob 存储的 CSV Blob（同名最多保留一个版本，上传时覆盖）
type CSVBlob struct {
	ID          string    `json:"id"`   // 版本 uuid
	Name        string    `json:"name"` // 固定 blob 名，如 org.csv
	Filename    string    `json:"filename"`
	ContentType string    `json:"contentType"`
	Size        int64     `json:"size"`
	Content     []byte    `json:"-"`
	UploadedAt  time.Time `json:"uploadedAt"`
}

// BlobMeta Blob 元信息（不含内容，用于状态展示）
type BlobMeta struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Filename    string    `json:"filename"`
	ContentType string    `json:"contentType"`
	Size        int64     `json:"size"`
	UploadedAt  time.Time `json:"uploadedAt"`
}

// Meta 提取元信息
func (b *CSVBlob) Meta() BlobMeta {
	return BlobMeta{
		ID:          b.ID,
		Name:        b.Name,
		Filename:    b.Filename,
		ContentType: b.ContentType,
		Size:        b.Size,
		UploadedAt:  b.UploadedAt,
	}
}
