package models

import (
	"time"
)

// BiometricUser represents a person enrolled on a terminal. The same person
// enrolled on two terminals is two rows: identity is (user_id, device_sn).
type BiometricUser struct {
	ID       uint   `gorm:"primaryKey" json:"id"`
	UserID   string `gorm:"type:varchar(50);not null;uniqueIndex:idx_user_device" json:"user_id"`
	DeviceSN string `gorm:"type:varchar(50);not null;uniqueIndex:idx_user_device" json:"device_sn"`
	Name     string `gorm:"type:varchar(100)" json:"name"`
	// Privilege 终端权限角色：0 普通用户，14 超级管理员
	Privilege  int    `gorm:"default:0" json:"privilege"`
	CardNumber string `gorm:"type:varchar(50)" json:"card_number"`
	Password   string `gorm:"type:varchar(50)" json:"-"`
	// 以下字段由后台管理端维护，设备侧同步不感知，合并时必须保留
	Email        string    `gorm:"type:varchar(100)" json:"email"`
	RemoteAccess bool      `gorm:"default:false" json:"remote_access"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
