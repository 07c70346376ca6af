package services

import (
	"bufio"
	"errors"
	"strconv"
	"strings"
	"time"

	"adms-gateway-service/config"
	"adms-gateway-service/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ErrMalformedRecord 表示无法解析的考勤记录行，按协议约定静默跳过
var ErrMalformedRecord = errors.New("malformed attendance record")

// AttendanceQuery 考勤记录查询条件
type AttendanceQuery struct {
	DeviceSN  string     `form:"device_sn" json:"device_sn"`
	UserID    string     `form:"user_id" json:"user_id"`
	StartTime *time.Time `form:"-" json:"start_time"`
	EndTime   *time.Time `form:"-" json:"end_time"`
	models.PaginationQuery
}

// InterfaceAttendanceService defines the attendance ingestion service interface
type InterfaceAttendanceService interface {
	IngestBatch(deviceSN, body string) (stored, skipped int)
	ParseRecord(deviceSN, line string) (*models.AttendanceLog, error)
	StoreRecord(record *models.AttendanceLog) (bool, error)
	GetAttendances(query AttendanceQuery) ([]models.AttendanceLog, models.PaginationResult, error)
	PurgeFutureRecords() (int64, error)
}

// AttendanceService 提供考勤记录的接收与查询服务
type AttendanceService struct {
	DB       *gorm.DB
	Config   *config.Config
	Realtime InterfaceRealtimeService // 可为nil，实时推送仅为尽力而为
}

// NewAttendanceService 创建一个新的考勤服务
func NewAttendanceService(db *gorm.DB, cfg *config.Config, realtime InterfaceRealtimeService) InterfaceAttendanceService {
	return &AttendanceService{
		DB:       db,
		Config:   cfg,
		Realtime: realtime,
	}
}

// 1 IngestBatch 逐行处理ATTLOG请求体。每行是独立的工作单元：
// 格式错误的行跳过，单行落库失败只记录日志，均不影响后续行
func (s *AttendanceService) IngestBatch(deviceSN, body string) (stored, skipped int) {
	scanner := bufio.NewScanner(strings.NewReader(body))
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		record, err := s.ParseRecord(deviceSN, line)
		if err != nil {
			skipped++
			continue
		}

		inserted, err := s.StoreRecord(record)
		if err != nil {
			config.Warning("保存考勤记录失败 sn=%s user=%s: %v", deviceSN, record.UserID, err)
			skipped++
			continue
		}
		if !inserted {
			// 重复投递，幂等忽略
			skipped++
			continue
		}
		stored++

		if s.Realtime != nil {
			if pubErr := s.Realtime.PublishAttendance(record); pubErr != nil {
				config.Warning("推送考勤消息失败: %v", pubErr)
			}
		}
	}
	return stored, skipped
}

// 2 ParseRecord 解析单行考勤记录。字段按空白分隔：
// 用户ID 日期 时间 [状态 验证方式 工作码]，尾部字段缺省为 0/1/0
func (s *AttendanceService) ParseRecord(deviceSN, line string) (*models.AttendanceLog, error) {
	fields := strings.Fields(line)
	if len(fields) < 2 {
		return nil, ErrMalformedRecord
	}

	var checkTime time.Time
	var err error
	rest := 2
	if len(fields) >= 3 && strings.Contains(fields[2], ":") {
		checkTime, err = time.ParseInLocation("2006-01-02 15:04:05", fields[1]+" "+fields[2], time.Local)
		rest = 3
	} else {
		checkTime, err = time.ParseInLocation("2006-01-02", fields[1], time.Local)
	}
	if err != nil {
		return nil, ErrMalformedRecord
	}

	record := &models.AttendanceLog{
		DeviceSN:   deviceSN,
		UserID:     fields[0],
		CheckTime:  checkTime,
		Status:     0,
		VerifyMode: models.VerifyFingerprint,
		WorkCode:   0,
	}
	if len(fields) > rest {
		if v, err := strconv.Atoi(fields[rest]); err == nil {
			record.Status = v
		}
	}
	if len(fields) > rest+1 {
		if v, err := strconv.Atoi(fields[rest+1]); err == nil {
			record.VerifyMode = v
		}
	}
	if len(fields) > rest+2 {
		if v, err := strconv.Atoi(fields[rest+2]); err == nil {
			record.WorkCode = v
		}
	}
	return record, nil
}

// 3 StoreRecord 幂等落库：(device_sn, user_id, check_time) 唯一，
// 重复投递不产生新行。返回本次是否实际插入
func (s *AttendanceService) StoreRecord(record *models.AttendanceLog) (bool, error) {
	result := s.DB.Clauses(clause.OnConflict{DoNothing: true}).Create(record)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// 4 GetAttendances 按条件分页查询考勤记录
func (s *AttendanceService) GetAttendances(query AttendanceQuery) ([]models.AttendanceLog, models.PaginationResult, error) {
	query.Normalize()

	tx := s.DB.Model(&models.AttendanceLog{})
	if query.DeviceSN != "" {
		tx = tx.Where("device_sn = ?", query.DeviceSN)
	}
	if query.UserID != "" {
		tx = tx.Where("user_id = ?", query.UserID)
	}
	if query.StartTime != nil {
		tx = tx.Where("check_time >= ?", *query.StartTime)
	}
	if query.EndTime != nil {
		tx = tx.Where("check_time <= ?", *query.EndTime)
	}

	var total int64
	if err := tx.Count(&total).Error; err != nil {
		return nil, models.PaginationResult{}, err
	}

	var logs []models.AttendanceLog
	offset := (query.PageNum - 1) * query.PageSize
	if err := tx.Order("check_time DESC").Offset(offset).Limit(query.PageSize).Find(&logs).Error; err != nil {
		return nil, models.PaginationResult{}, err
	}

	return logs, models.NewPaginationResult(int(total), query.PageNum, query.PageSize), nil
}

// 5 PurgeFutureRecords 时间合理性清理：删除打卡时间晚于当前时间的记录
func (s *AttendanceService) PurgeFutureRecords() (int64, error) {
	result := s.DB.Where("check_time > ?", time.Now()).Delete(&models.AttendanceLog{})
	return result.RowsAffected, result.Error
}
