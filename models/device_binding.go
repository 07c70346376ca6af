package models

import (
	"time"
)

// BindingResult represents the outcome of a binding check or bind attempt
type BindingResult string

const (
	BindingNewUser BindingResult = "NEW_USER"
	BindingAllowed BindingResult = "ALLOWED"
	BindingBlocked BindingResult = "BLOCKED"
	BindingSuccess BindingResult = "SUCCESS"
)

// DeviceBinding ties an employee to exactly one mobile device installation
// for the GPS attendance channel. DeviceUUID is an app install identifier,
// not a terminal serial number.
type DeviceBinding struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	EmployeeID  string    `gorm:"type:varchar(50);uniqueIndex;not null" json:"employee_id"`
	DeviceUUID  string    `gorm:"type:varchar(100);not null" json:"device_uuid"`
	DeviceModel string    `gorm:"type:varchar(100)" json:"device_model"`
	LastLogin   time.Time `json:"last_login"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
