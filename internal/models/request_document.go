package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type RequestDocument struct {
	ID           string    `gorm:"primaryKey;size:36" json:"id"`
	RequestID    string    `gorm:"column:request_id;size:36;not null;index:idx_request_document_request" json:"request_id"`
	UserID       string    `gorm:"column:user_id;size:36;not null" json:"user_id"`
	Filename     string    `gorm:"column:filename;size:255;not null" json:"filename"`
	FileURL      string    `gorm:"column:file_url;size:500;not null" json:"file_url"`
	FileType     string    `gorm:"column:file_type;size:100;not null" json:"file_type"`
	FileSize     int64     `gorm:"column:file_size;not null" json:"file_size"`
	DocumentType string    `gorm:"column:document_type;size:50;not null" json:"document_type"`
	Description  string    `gorm:"column:description;type:text" json:"description"`
	UploadedAt   time.Time `gorm:"column:uploaded_at;autoCreateTime" json:"uploaded_at"`
}

func (RequestDocument) TableName() string {
	return "request_documents"
}

func (d *RequestDocument) BeforeCreate(tx *gorm.DB) error {
	if d.ID == "" {
		d.ID = uuid.NewString()
	}
	return nil
}
