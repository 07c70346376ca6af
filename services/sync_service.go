package services

import (
	"bufio"
	"errors"
	"strconv"
	"strings"

	"adms-gateway-service/config"
	"adms-gateway-service/models"

	"gorm.io/gorm"
)

// UserPatch 表示一次用户合并的输入。字符串字段为空、指针字段为nil
// 均视为"未提供"，合并时不会覆盖已有值。
type UserPatch struct {
	UserID       string
	DeviceSN     string
	Name         string
	Privilege    *int
	CardNumber   string
	Password     string
	Email        string
	RemoteAccess *bool
}

// InterfaceSyncService defines the entity merge service interface.
// 用户与指纹采用两种截然不同的合并策略：用户合并保留旧值（防止设备的
// 部分负载抹掉后台录入的数据），指纹合并为最后写入者获胜的整体覆盖。
type InterfaceSyncService interface {
	MergeUser(patch UserPatch) (*models.BiometricUser, error)
	MergeFingerprint(tpl models.FingerprintTemplate) (*models.FingerprintTemplate, error)
	ApplyOperationLog(deviceSN, body string) (users, fingerprints int)
	GetAllUsers() ([]models.BiometricUser, error)
	GetUser(userID, deviceSN string) (*models.BiometricUser, error)
}

// SyncService 提供设备实体同步的合并服务
type SyncService struct {
	DB     *gorm.DB
	Config *config.Config
}

// NewSyncService 创建一个新的同步服务
func NewSyncService(db *gorm.DB, cfg *config.Config) InterfaceSyncService {
	return &SyncService{
		DB:     db,
		Config: cfg,
	}
}

// 1 MergeUser 按 (user_id, device_sn) 合并用户：不存在则插入，
// 存在则只更新本次提供的非空字段，其余字段保持原值
func (s *SyncService) MergeUser(patch UserPatch) (*models.BiometricUser, error) {
	if patch.UserID == "" || patch.DeviceSN == "" {
		return nil, errors.New("用户ID和设备序列号不能为空")
	}

	var existing models.BiometricUser
	err := s.DB.Where("user_id = ? AND device_sn = ?", patch.UserID, patch.DeviceSN).First(&existing).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		user := models.BiometricUser{
			UserID:     patch.UserID,
			DeviceSN:   patch.DeviceSN,
			Name:       patch.Name,
			CardNumber: patch.CardNumber,
			Password:   patch.Password,
			Email:      patch.Email,
		}
		if patch.Privilege != nil {
			user.Privilege = *patch.Privilege
		}
		if patch.RemoteAccess != nil {
			user.RemoteAccess = *patch.RemoteAccess
		}
		if err := s.DB.Create(&user).Error; err != nil {
			return nil, err
		}
		return &user, nil
	}
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	if patch.Name != "" {
		updates["name"] = patch.Name
	}
	if patch.Privilege != nil {
		updates["privilege"] = *patch.Privilege
	}
	if patch.CardNumber != "" {
		updates["card_number"] = patch.CardNumber
	}
	if patch.Password != "" {
		updates["password"] = patch.Password
	}
	if patch.Email != "" {
		updates["email"] = patch.Email
	}
	if patch.RemoteAccess != nil {
		updates["remote_access"] = *patch.RemoteAccess
	}

	if len(updates) > 0 {
		if err := s.DB.Model(&existing).Updates(updates).Error; err != nil {
			return nil, err
		}
	}
	return &existing, nil
}

// 2 MergeFingerprint 按 (user_id, finger_id) 合并指纹模板：不存在则插入，
// 存在则整体覆盖，包括空模板。模板字节数始终按负载长度重新计算
func (s *SyncService) MergeFingerprint(tpl models.FingerprintTemplate) (*models.FingerprintTemplate, error) {
	if tpl.UserID == "" {
		return nil, errors.New("用户ID不能为空")
	}
	tpl.Size = len(tpl.Template)

	var existing models.FingerprintTemplate
	err := s.DB.Where("user_id = ? AND finger_id = ?", tpl.UserID, tpl.FingerID).First(&existing).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		if err := s.DB.Create(&tpl).Error; err != nil {
			return nil, err
		}
		return &tpl, nil
	}
	if err != nil {
		return nil, err
	}

	// 最后写入者获胜：map更新保证零值字段同样落库
	updates := map[string]interface{}{
		"template":  tpl.Template,
		"size":      tpl.Size,
		"device_sn": tpl.DeviceSN,
		"valid":     tpl.Valid,
	}
	if err := s.DB.Model(&existing).Updates(updates).Error; err != nil {
		return nil, err
	}
	return &existing, nil
}

// 3 ApplyOperationLog 处理OPERLOG请求体中设备上报的实体行：
// USER行进入用户合并，FP行进入指纹合并，其余行（OPLOG等管理事件）直接丢弃。
// 单行失败只记录日志，不中断后续行的处理
func (s *SyncService) ApplyOperationLog(deviceSN, body string) (users, fingerprints int) {
	scanner := bufio.NewScanner(strings.NewReader(body))
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		switch {
		case strings.HasPrefix(line, "USER "):
			patch := parseUserLine(deviceSN, strings.TrimPrefix(line, "USER "))
			if _, err := s.MergeUser(patch); err != nil {
				config.Warning("合并设备用户失败 sn=%s: %v", deviceSN, err)
				continue
			}
			users++
		case strings.HasPrefix(line, "FP "):
			tpl := parseFingerprintLine(deviceSN, strings.TrimPrefix(line, "FP "))
			if _, err := s.MergeFingerprint(tpl); err != nil {
				config.Warning("合并指纹模板失败 sn=%s: %v", deviceSN, err)
				continue
			}
			fingerprints++
		}
	}
	return users, fingerprints
}

// 4 GetAllUsers 获取所有设备用户
func (s *SyncService) GetAllUsers() ([]models.BiometricUser, error) {
	var users []models.BiometricUser
	if err := s.DB.Order("device_sn, user_id").Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

// 5 GetUser 按复合身份获取单个设备用户
func (s *SyncService) GetUser(userID, deviceSN string) (*models.BiometricUser, error) {
	var user models.BiometricUser
	if err := s.DB.Where("user_id = ? AND device_sn = ?", userID, deviceSN).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("用户不存在")
		}
		return nil, err
	}
	return &user, nil
}

// parseKeyValues 解析制表符分隔的 key=value 字段
func parseKeyValues(payload string) map[string]string {
	kv := make(map[string]string)
	for _, field := range strings.Split(payload, "\t") {
		parts := strings.SplitN(field, "=", 2)
		if len(parts) != 2 {
			continue
		}
		kv[strings.TrimSpace(parts[0])] = parts[1]
	}
	return kv
}

func parseUserLine(deviceSN, payload string) UserPatch {
	kv := parseKeyValues(payload)
	patch := UserPatch{
		UserID:     kv["PIN"],
		DeviceSN:   deviceSN,
		Name:       kv["Name"],
		CardNumber: kv["Card"],
		Password:   kv["Passwd"],
	}
	if pri, ok := kv["Pri"]; ok {
		if v, err := strconv.Atoi(pri); err == nil {
			patch.Privilege = &v
		}
	}
	return patch
}

func parseFingerprintLine(deviceSN, payload string) models.FingerprintTemplate {
	kv := parseKeyValues(payload)
	tpl := models.FingerprintTemplate{
		UserID:   kv["PIN"],
		DeviceSN: deviceSN,
		Template: kv["TMP"],
		Valid:    1,
	}
	if fid, err := strconv.Atoi(kv["FID"]); err == nil {
		tpl.FingerID = fid
	}
	if valid, ok := kv["Valid"]; ok {
		if v, err := strconv.Atoi(valid); err == nil {
			tpl.Valid = v
		}
	}
	return tpl
}
