package model

import (
	"time"
)

// UploadStatus is the single-row table backing the upload lock
type UploadStatus struct {
	ID        string    `gorm:"primaryKey;type:varchar(32)"`
	Uploading bool      `gorm:"not null;default:false"`
	Owner     string    `gorm:"type:varchar(255);not null;default:''"`
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime:false"`
}

// TableName specifies the table name for UploadStatus
func (UploadStatus) TableName() string {
	return "upload_status"
}
