package models

import (
	"time"
)

// DeviceStatus represents the status of an attendance terminal
type DeviceStatus string

const (
	DeviceStatusOnline  DeviceStatus = "online"
	DeviceStatusOffline DeviceStatus = "offline"
)

// DeviceOnlineWindow 设备在线判定窗口：最后一次通信距今小于该值视为在线
const DeviceOnlineWindow = 300 * time.Second

// Device represents a fingerprint attendance terminal identified by its serial number
type Device struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	SerialNumber string    `gorm:"type:varchar(50);uniqueIndex;not null" json:"serial_number"`
	IPAddress    string    `gorm:"type:varchar(45)" json:"ip_address"`
	LastActivity time.Time `json:"last_activity"`
	// Status 为最后一次写入的状态，仅作参考；对外展示一律通过 CurrentStatus 重新推导
	Status    DeviceStatus `gorm:"type:varchar(20);default:'offline'" json:"status"`
	CreatedAt time.Time    `json:"created_at"`
	UpdatedAt time.Time    `json:"updated_at"`
}

// CurrentStatus derives the device status from the staleness window at read time.
// The stored Status column is never trusted on its own.
func (d *Device) CurrentStatus(now time.Time) DeviceStatus {
	if now.Sub(d.LastActivity) < DeviceOnlineWindow {
		return DeviceStatusOnline
	}
	return DeviceStatusOffline
}
