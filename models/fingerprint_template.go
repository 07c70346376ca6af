package models

import (
	"time"
)

// FingerprintTemplate represents a vendor-encoded fingerprint template.
// Identity is (user_id, finger_id) and deliberately NOT scoped by device:
// templates pushed by different terminals for the same finger overwrite each other.
type FingerprintTemplate struct {
	ID       uint   `gorm:"primaryKey" json:"id"`
	UserID   string `gorm:"type:varchar(50);not null;uniqueIndex:idx_user_finger" json:"user_id"`
	FingerID int    `gorm:"not null;uniqueIndex:idx_user_finger" json:"finger_id"`
	// DeviceSN 记录最后一次上报该模板的终端
	DeviceSN string `gorm:"type:varchar(50)" json:"device_sn"`
	Template string `gorm:"type:longtext" json:"template"`
	Size     int    `gorm:"default:0" json:"size"`
	// Valid 软删除标记：0 无效，1 有效
	Valid     int       `gorm:"default:1" json:"valid"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
