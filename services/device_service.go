package services

import (
	"errors"
	"time"

	"adms-gateway-service/config"
	"adms-gateway-service/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// InterfaceDeviceService defines the device service interface
type InterfaceDeviceService interface {
	RecordContact(serial, sourceIP string) error
	GetAllDevices() ([]models.Device, error)
	GetDeviceBySN(serial string) (*models.Device, error)
	GetDeviceStatus(serial string) (models.DeviceStatus, error)
}

// DeviceService 提供设备心跳与状态查询服务
type DeviceService struct {
	DB     *gorm.DB
	Config *config.Config
	Cache  InterfaceCacheService // 可为nil，缓存仅为尽力而为
}

// NewDeviceService 创建一个新的设备服务
func NewDeviceService(db *gorm.DB, cfg *config.Config, cache InterfaceCacheService) InterfaceDeviceService {
	return &DeviceService{
		DB:     db,
		Config: cfg,
		Cache:  cache,
	}
}

// 1 RecordContact 记录一次终端通信：首次出现则创建设备，否则刷新IP和活动时间
func (s *DeviceService) RecordContact(serial, sourceIP string) error {
	now := time.Now()
	device := models.Device{
		SerialNumber: serial,
		IPAddress:    sourceIP,
		LastActivity: now,
		Status:       models.DeviceStatusOnline,
	}

	err := s.DB.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "serial_number"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"ip_address":    sourceIP,
			"last_activity": now,
			"status":        models.DeviceStatusOnline,
			"updated_at":    now,
		}),
	}).Create(&device).Error
	if err != nil {
		return err
	}

	// 写穿缓存，失败不影响主流程
	if s.Cache != nil {
		if cacheErr := s.Cache.SetDeviceLastSeen(serial, now); cacheErr != nil {
			config.Warning("写入设备活动缓存失败: %v", cacheErr)
		}
	}
	return nil
}

// 2 GetAllDevices 获取所有设备列表，状态按在线窗口实时推导
func (s *DeviceService) GetAllDevices() ([]models.Device, error) {
	var devices []models.Device
	if err := s.DB.Order("serial_number").Find(&devices).Error; err != nil {
		return nil, err
	}

	now := time.Now()
	for i := range devices {
		devices[i].Status = devices[i].CurrentStatus(now)
	}
	return devices, nil
}

// 3 GetDeviceBySN 根据序列号获取设备
func (s *DeviceService) GetDeviceBySN(serial string) (*models.Device, error) {
	var device models.Device
	if err := s.DB.Where("serial_number = ?", serial).First(&device).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("设备不存在")
		}
		return nil, err
	}

	device.Status = device.CurrentStatus(time.Now())
	return &device, nil
}

// 4 GetDeviceStatus 查询设备在线状态，优先走缓存快路径
func (s *DeviceService) GetDeviceStatus(serial string) (models.DeviceStatus, error) {
	if s.Cache != nil {
		if lastSeen, err := s.Cache.GetDeviceLastSeen(serial); err == nil {
			if time.Since(lastSeen) < models.DeviceOnlineWindow {
				return models.DeviceStatusOnline, nil
			}
		}
	}

	device, err := s.GetDeviceBySN(serial)
	if err != nil {
		return "", err
	}
	return device.Status, nil
}
