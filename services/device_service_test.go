package services

import (
	"testing"
	"time"

	"adms-gateway-service/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordContactCreatesDeviceOnFirstSight(t *testing.T) {
	db := newTestDB(t)
	svc := NewDeviceService(db, newTestConfig(), nil)

	require.NoError(t, svc.RecordContact("TERM-1", "10.0.0.5"))

	var device models.Device
	require.NoError(t, db.Where("serial_number = ?", "TERM-1").First(&device).Error)
	assert.Equal(t, "10.0.0.5", device.IPAddress)
	assert.Equal(t, models.DeviceStatusOnline, device.Status)
	assert.WithinDuration(t, time.Now(), device.LastActivity, 5*time.Second)
}

func TestRecordContactRefreshesExistingDevice(t *testing.T) {
	db := newTestDB(t)
	svc := NewDeviceService(db, newTestConfig(), nil)

	require.NoError(t, svc.RecordContact("TERM-1", "10.0.0.5"))
	require.NoError(t, svc.RecordContact("TERM-1", "10.0.0.9"))

	var count int64
	db.Model(&models.Device{}).Count(&count)
	assert.EqualValues(t, 1, count)

	var device models.Device
	require.NoError(t, db.Where("serial_number = ?", "TERM-1").First(&device).Error)
	assert.Equal(t, "10.0.0.9", device.IPAddress)
}

func TestDeviceStatusDerivedFromActivityWindow(t *testing.T) {
	db := newTestDB(t)
	svc := NewDeviceService(db, newTestConfig(), nil)

	now := time.Now()
	// 存储的status故意与活动时间矛盾，读取时必须以活动时间为准
	require.NoError(t, db.Create(&models.Device{
		SerialNumber: "STALE",
		LastActivity: now.Add(-models.DeviceOnlineWindow - time.Second),
		Status:       models.DeviceStatusOnline,
	}).Error)
	require.NoError(t, db.Create(&models.Device{
		SerialNumber: "FRESH",
		LastActivity: now.Add(-models.DeviceOnlineWindow + 10*time.Second),
		Status:       models.DeviceStatusOffline,
	}).Error)

	devices, err := svc.GetAllDevices()
	require.NoError(t, err)
	require.Len(t, devices, 2)

	bySerial := map[string]models.DeviceStatus{}
	for _, d := range devices {
		bySerial[d.SerialNumber] = d.Status
	}
	assert.Equal(t, models.DeviceStatusOffline, bySerial["STALE"])
	assert.Equal(t, models.DeviceStatusOnline, bySerial["FRESH"])
}

func TestGetDeviceBySNNotFound(t *testing.T) {
	db := newTestDB(t)
	svc := NewDeviceService(db, newTestConfig(), nil)

	_, err := svc.GetDeviceBySN("UNKNOWN")
	assert.Error(t, err)
}
