package container

import (
	"sync"

	"adms-gateway-service/config"
	"adms-gateway-service/services"

	"gorm.io/gorm"
)

// ServiceContainer 管理所有服务的依赖注入
type ServiceContainer struct {
	db     *gorm.DB
	config *config.Config

	// 基础服务
	jwtService      services.InterfaceJWTService
	cacheService    services.InterfaceCacheService
	realtimeService services.InterfaceRealtimeService

	// 业务服务
	deviceService     services.InterfaceDeviceService
	syncService       services.InterfaceSyncService
	attendanceService services.InterfaceAttendanceService
	commandService    services.InterfaceCommandService
	bindingService    services.InterfaceBindingService

	mu sync.RWMutex
}

// NewServiceContainer 创建新的服务容器
func NewServiceContainer(db *gorm.DB, cfg *config.Config) *ServiceContainer {
	if db == nil {
		panic("数据库连接为空")
	}
	if cfg == nil {
		panic("配置为空")
	}

	container := &ServiceContainer{
		db:     db,
		config: cfg,
	}
	container.initializeServices()
	return container
}

// initializeServices 初始化所有服务
func (c *ServiceContainer) initializeServices() {
	c.mu.Lock()
	defer c.mu.Unlock()

	// 初始化基础服务
	c.jwtService = services.NewJWTService(c.config)
	c.cacheService = services.NewCacheService(c.config)

	// 初始化实时推送服务并连接（未配置时为no-op实现）
	c.realtimeService = services.NewRealtimeService(c.config)
	if err := c.realtimeService.Connect(); err != nil {
		config.Warning("MQTT实时推送连接失败: %v", err)
	}

	// 初始化业务服务
	c.deviceService = services.NewDeviceService(c.db, c.config, c.cacheService)
	c.syncService = services.NewSyncService(c.db, c.config)
	c.attendanceService = services.NewAttendanceService(c.db, c.config, c.realtimeService)
	c.commandService = services.NewCommandService(c.db, c.config)
	c.bindingService = services.NewBindingService(c.db, c.config)
}

// GetService 获取指定名称的服务
func (c *ServiceContainer) GetService(name string) interface{} {
	c.mu.RLock()
	defer c.mu.RUnlock()

	switch name {
	case "config":
		return c.config
	case "db":
		return c.db
	case "jwt":
		return c.jwtService
	case "cache":
		return c.cacheService
	case "realtime":
		return c.realtimeService
	case "device":
		return c.deviceService
	case "sync":
		return c.syncService
	case "attendance":
		return c.attendanceService
	case "command":
		return c.commandService
	case "binding":
		return c.bindingService
	default:
		return nil
	}
}
