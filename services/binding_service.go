package services

import (
	"errors"
	"time"

	"adms-gateway-service/config"
	"adms-gateway-service/models"

	"gorm.io/gorm"
)

// InterfaceBindingService defines the employee-device binding service interface.
// 一个员工同一时间只允许绑定一台移动设备，解绑不在本服务范围内。
type InterfaceBindingService interface {
	CheckStatus(employeeID, deviceUUID string) (models.BindingResult, error)
	Bind(employeeID, deviceUUID, deviceModel string) (models.BindingResult, error)
	GetBindings() ([]models.DeviceBinding, error)
}

// BindingService 提供GPS考勤通道的设备绑定服务
type BindingService struct {
	DB     *gorm.DB
	Config *config.Config
}

// NewBindingService 创建一个新的绑定服务
func NewBindingService(db *gorm.DB, cfg *config.Config) InterfaceBindingService {
	return &BindingService{
		DB:     db,
		Config: cfg,
	}
}

// 1 CheckStatus 检查员工与设备的绑定关系：
// 无绑定记录返回NEW_USER，UUID匹配返回ALLOWED并刷新最后登录时间，
// UUID不匹配返回BLOCKED且不产生任何变更
func (s *BindingService) CheckStatus(employeeID, deviceUUID string) (models.BindingResult, error) {
	if employeeID == "" || deviceUUID == "" {
		return "", errors.New("员工ID和设备UUID不能为空")
	}

	var binding models.DeviceBinding
	err := s.DB.Where("employee_id = ?", employeeID).First(&binding).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.BindingNewUser, nil
	}
	if err != nil {
		return "", err
	}

	if binding.DeviceUUID != deviceUUID {
		return models.BindingBlocked, nil
	}

	if err := s.DB.Model(&binding).Update("last_login", time.Now()).Error; err != nil {
		// 刷新登录时间失败不改变判定结果
		config.Warning("刷新绑定登录时间失败 employee=%s: %v", employeeID, err)
	}
	return models.BindingAllowed, nil
}

// 2 Bind 建立绑定。绑定是一次性操作：已存在绑定一律拒绝，
// 即使请求的UUID与已绑定设备相同
func (s *BindingService) Bind(employeeID, deviceUUID, deviceModel string) (models.BindingResult, error) {
	if employeeID == "" || deviceUUID == "" {
		return "", errors.New("员工ID和设备UUID不能为空")
	}

	var count int64
	if err := s.DB.Model(&models.DeviceBinding{}).Where("employee_id = ?", employeeID).Count(&count).Error; err != nil {
		return "", err
	}
	if count > 0 {
		return models.BindingBlocked, nil
	}

	binding := models.DeviceBinding{
		EmployeeID:  employeeID,
		DeviceUUID:  deviceUUID,
		DeviceModel: deviceModel,
		LastLogin:   time.Now(),
	}
	if err := s.DB.Create(&binding).Error; err != nil {
		return "", err
	}
	return models.BindingSuccess, nil
}

// 3 GetBindings 获取所有绑定记录
func (s *BindingService) GetBindings() ([]models.DeviceBinding, error) {
	var bindings []models.DeviceBinding
	if err := s.DB.Order("employee_id").Find(&bindings).Error; err != nil {
		return nil, err
	}
	return bindings, nil
}
