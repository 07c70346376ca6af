package services

import (
	"errors"
	"fmt"

	"adms-gateway-service/config"
	"adms-gateway-service/models"

	"gorm.io/gorm"
)

// 命令文本格式由终端固件约定，字段顺序不可调整
const (
	cmdUserInfoFormat    = "DATA UPDATE USERINFO PIN=%s\tName=%s\tPri=%d\tPasswd=%s\tCard=%s\tGrp=1"
	cmdFingerprintFormat = "DATA UPDATE FINGERTMP PIN=%s\tFID=%d\tSize=%d\tValid=%d\tTMP=%s"
)

// InterfaceCommandService defines the outbound command queue service interface
type InterfaceCommandService interface {
	QueueProvisioning(targetSerial string) (int, error)
	DrainPending(serial string) ([]models.DeviceCommand, error)
	Acknowledge(commandID uint, returnCode int) error
	GetCommands(serial string, page models.PaginationQuery) ([]models.DeviceCommand, models.PaginationResult, error)
}

// CommandService 提供下发命令队列的生产与消费服务
type CommandService struct {
	DB     *gorm.DB
	Config *config.Config
}

// NewCommandService 创建一个新的命令服务
func NewCommandService(db *gorm.DB, cfg *config.Config) InterfaceCommandService {
	return &CommandService{
		DB:     db,
		Config: cfg,
	}
}

// 1 QueueProvisioning 全量下发：把库中所有用户和有效指纹模板序列化为
// 命令文本，全部以PENDING状态入队给目标终端。不按来源设备过滤，
// 属于面向整机恢复的广播操作，调用方必须明确指定目标序列号
func (s *CommandService) QueueProvisioning(targetSerial string) (int, error) {
	if targetSerial == "" {
		return 0, errors.New("目标设备序列号不能为空")
	}

	var users []models.BiometricUser
	if err := s.DB.Find(&users).Error; err != nil {
		return 0, err
	}

	var templates []models.FingerprintTemplate
	if err := s.DB.Where("valid = ?", 1).Find(&templates).Error; err != nil {
		return 0, err
	}

	commands := make([]models.DeviceCommand, 0, len(users)+len(templates))
	for _, u := range users {
		commands = append(commands, models.DeviceCommand{
			DeviceSN: targetSerial,
			Content:  fmt.Sprintf(cmdUserInfoFormat, u.UserID, u.Name, u.Privilege, u.Password, u.CardNumber),
			Status:   models.CommandStatusPending,
		})
	}
	for _, t := range templates {
		commands = append(commands, models.DeviceCommand{
			DeviceSN: targetSerial,
			Content:  fmt.Sprintf(cmdFingerprintFormat, t.UserID, t.FingerID, t.Size, t.Valid, t.Template),
			Status:   models.CommandStatusPending,
		})
	}

	if len(commands) == 0 {
		return 0, nil
	}
	if err := s.DB.Create(&commands).Error; err != nil {
		return 0, err
	}

	config.Info("已为设备 %s 入队 %d 条下发命令", targetSerial, len(commands))
	return len(commands), nil
}

// 2 DrainPending 取出指定终端的全部PENDING命令并标记为SENT，
// 供终端轮询响应携带。按入队顺序返回
func (s *CommandService) DrainPending(serial string) ([]models.DeviceCommand, error) {
	var commands []models.DeviceCommand
	err := s.DB.Where("device_sn = ? AND status = ?", serial, models.CommandStatusPending).
		Order("id").Find(&commands).Error
	if err != nil {
		return nil, err
	}
	if len(commands) == 0 {
		return commands, nil
	}

	ids := make([]uint, 0, len(commands))
	for _, cmd := range commands {
		ids = append(ids, cmd.ID)
	}
	err = s.DB.Model(&models.DeviceCommand{}).Where("id IN ?", ids).
		Update("status", models.CommandStatusSent).Error
	if err != nil {
		return nil, err
	}

	for i := range commands {
		commands[i].Status = models.CommandStatusSent
	}
	return commands, nil
}

// 3 Acknowledge 根据终端回执推进命令状态：Return=0为SUCCESS，否则为ERROR
func (s *CommandService) Acknowledge(commandID uint, returnCode int) error {
	status := models.CommandStatusSuccess
	if returnCode != 0 {
		status = models.CommandStatusError
	}

	result := s.DB.Model(&models.DeviceCommand{}).Where("id = ?", commandID).
		Update("status", status)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return errors.New("命令不存在")
	}
	return nil
}

// 4 GetCommands 按目标终端分页查询命令及其生命周期状态
func (s *CommandService) GetCommands(serial string, page models.PaginationQuery) ([]models.DeviceCommand, models.PaginationResult, error) {
	page.Normalize()

	tx := s.DB.Model(&models.DeviceCommand{})
	if serial != "" {
		tx = tx.Where("device_sn = ?", serial)
	}

	var total int64
	if err := tx.Count(&total).Error; err != nil {
		return nil, models.PaginationResult{}, err
	}

	var commands []models.DeviceCommand
	offset := (page.PageNum - 1) * page.PageSize
	if err := tx.Order("id DESC").Offset(offset).Limit(page.PageSize).Find(&commands).Error; err != nil {
		return nil, models.PaginationResult{}, err
	}

	return commands, models.NewPaginationResult(int(total), page.PageNum, page.PageSize), nil
}
