package services

import (
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"adms-gateway-service/config"
	"adms-gateway-service/models"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/google/uuid"
)

// 主题常量
const (
	// 考勤事件主题
	TopicAttendance = "adms/attendance"

	// 设备状态主题
	TopicDeviceStatus = "adms/device/status"
)

// RealtimeMessage MQTT消息基础结构
type RealtimeMessage struct {
	Type      string      `json:"type"`
	Timestamp int64       `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// InterfaceRealtimeService 定义实时推送服务接口。
// 所有推送均为尽力而为：未配置或未连接时直接丢弃，绝不阻塞接入流程。
type InterfaceRealtimeService interface {
	Connect() error
	Disconnect()
	PublishAttendance(record *models.AttendanceLog) error
	PublishDeviceOnline(serial, sourceIP string) error
}

// RealtimeService 基于MQTT的实时事件推送实现
type RealtimeService struct {
	Config      *config.Config
	Client      mqtt.Client
	isConnected bool
	mu          sync.RWMutex
}

// NewRealtimeService 创建一个新的实时推送服务。
// 未配置MQTT Broker时返回空实现（所有操作为no-op）
func NewRealtimeService(cfg *config.Config) InterfaceRealtimeService {
	service := &RealtimeService{
		Config: cfg,
	}
	if cfg.MQTTBrokerURL == "" {
		return service
	}

	opts := mqtt.NewClientOptions()
	opts.AddBroker(cfg.MQTTBrokerURL)
	// 使用唯一的客户端ID，避免同一服务多实例冲突
	opts.SetClientID(fmt.Sprintf("%s-%s", cfg.MQTTClientID, uuid.New().String()[:8]))
	opts.SetAutoReconnect(true)
	opts.SetMaxReconnectInterval(time.Second * 30)
	opts.SetKeepAlive(time.Second * 60)
	opts.SetPingTimeout(time.Second * 10)
	opts.SetCleanSession(true)

	if cfg.MQTTUsername != "" {
		opts.SetUsername(cfg.MQTTUsername)
		opts.SetPassword(cfg.MQTTPassword)
	}

	service.Client = mqtt.NewClient(opts)
	return service
}

// Connect 连接MQTT服务器
func (s *RealtimeService) Connect() error {
	if s.Client == nil {
		return nil
	}

	token := s.Client.Connect()
	if !token.WaitTimeout(5*time.Second) || token.Error() != nil {
		return fmt.Errorf("连接MQTT服务器失败: %v", token.Error())
	}

	s.mu.Lock()
	s.isConnected = true
	s.mu.Unlock()
	config.Info("[MQTT] 已连接到 %s", s.Config.MQTTBrokerURL)
	return nil
}

// Disconnect 断开MQTT连接
func (s *RealtimeService) Disconnect() {
	if s.Client == nil {
		return
	}
	s.Client.Disconnect(250)

	s.mu.Lock()
	s.isConnected = false
	s.mu.Unlock()
}

// PublishAttendance 推送一条考勤事件
func (s *RealtimeService) PublishAttendance(record *models.AttendanceLog) error {
	return s.publish(TopicAttendance, RealtimeMessage{
		Type:      "attendance",
		Timestamp: time.Now().UnixMilli(),
		Payload:   record,
	})
}

// PublishDeviceOnline 推送设备上线事件
func (s *RealtimeService) PublishDeviceOnline(serial, sourceIP string) error {
	return s.publish(TopicDeviceStatus, RealtimeMessage{
		Type:      "device_online",
		Timestamp: time.Now().UnixMilli(),
		Payload: map[string]string{
			"serial_number": serial,
			"ip_address":    sourceIP,
		},
	})
}

// publish 发布消息，未连接时直接丢弃
func (s *RealtimeService) publish(topic string, msg RealtimeMessage) error {
	if s.Client == nil {
		return nil
	}

	s.mu.RLock()
	connected := s.isConnected && s.Client.IsConnected()
	s.mu.RUnlock()
	if !connected {
		return nil
	}

	data, err := json.Marshal(msg)
	if err != nil {
		return err
	}

	token := s.Client.Publish(topic, 1, false, data)
	if !token.WaitTimeout(3*time.Second) || token.Error() != nil {
		return fmt.Errorf("发布消息到 %s 失败: %v", topic, token.Error())
	}
	return nil
}
