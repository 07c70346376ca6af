package models

import (
	"time"
)

// VerifyMethod codes reported by the terminal firmware
const (
	VerifyPassword    = 0
	VerifyFingerprint = 1
	VerifyCard        = 2
)

// AttendanceLog represents a single punch reported by a terminal. Append-only.
// The composite unique index makes re-delivery of the same punch idempotent.
type AttendanceLog struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	DeviceSN  string    `gorm:"type:varchar(50);not null;uniqueIndex:idx_att_dedup" json:"device_sn"`
	UserID    string    `gorm:"type:varchar(50);not null;uniqueIndex:idx_att_dedup" json:"user_id"`
	CheckTime time.Time `gorm:"not null;uniqueIndex:idx_att_dedup" json:"check_time"`
	// Status 考勤状态码：0 上班签到，1 下班签退，设备固件定义
	Status     int       `gorm:"default:0" json:"status"`
	VerifyMode int       `gorm:"default:1" json:"verify_mode"`
	WorkCode   int       `gorm:"default:0" json:"work_code"`
	CreatedAt  time.Time `json:"created_at"`
}
