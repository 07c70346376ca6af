package models

import (
	"time"
)

// CommandStatus represents the lifecycle state of an outbound device command
type CommandStatus string

const (
	CommandStatusPending CommandStatus = "PENDING"
	CommandStatusSent    CommandStatus = "SENT"
	CommandStatusSuccess CommandStatus = "SUCCESS"
	CommandStatusError   CommandStatus = "ERROR"
)

// DeviceCommand represents a provisioning command queued for a terminal.
// Lifecycle: PENDING -> SENT -> {SUCCESS, ERROR}. The terminal poll endpoint
// drains PENDING commands and the acknowledgement endpoint settles them.
type DeviceCommand struct {
	ID       uint   `gorm:"primaryKey" json:"id"`
	DeviceSN string `gorm:"type:varchar(50);not null;index" json:"device_sn"`
	// Content 协议格式的命令文本，如 DATA UPDATE USERINFO PIN=...
	Content   string        `gorm:"type:text" json:"content"`
	Status    CommandStatus `gorm:"type:varchar(20);default:'PENDING';index" json:"status"`
	CreatedAt time.Time     `json:"created_at"`
	UpdatedAt time.Time     `json:"updated_at"`
}
