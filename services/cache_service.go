package services

import (
	"context"
	"time"

	"adms-gateway-service/config"
	"adms-gateway-service/models"

	"github.com/go-redis/redis/v8"
)

// InterfaceCacheService 定义设备活动缓存服务接口
type InterfaceCacheService interface {
	SetDeviceLastSeen(serial string, t time.Time) error
	GetDeviceLastSeen(serial string) (time.Time, error)
	Close() error
}

// CacheService 基于Redis的设备最后活动时间缓存，供仪表盘状态查询走快路径。
// 缓存键的过期时间等于在线判定窗口，键不存在即视为需要回源数据库。
type CacheService struct {
	Client *redis.Client
	Ctx    context.Context
}

const deviceLastSeenPrefix = "device:lastseen:"

// NewCacheService creates a new Redis-backed cache service
func NewCacheService(cfg *config.Config) *CacheService {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.GetRedisAddr(),
		Password: "", // No password set
		DB:       cfg.RedisDB,
	})

	return &CacheService{
		Client: client,
		Ctx:    context.Background(),
	}
}

// SetDeviceLastSeen 写入设备最后活动时间，过期时间与在线窗口一致
func (s *CacheService) SetDeviceLastSeen(serial string, t time.Time) error {
	key := deviceLastSeenPrefix + serial
	return s.Client.Set(s.Ctx, key, t.Format(time.RFC3339Nano), models.DeviceOnlineWindow).Err()
}

// GetDeviceLastSeen 读取设备最后活动时间，键不存在返回 redis.Nil
func (s *CacheService) GetDeviceLastSeen(serial string) (time.Time, error) {
	key := deviceLastSeenPrefix + serial
	val, err := s.Client.Get(s.Ctx, key).Result()
	if err != nil {
		return time.Time{}, err
	}
	return time.Parse(time.RFC3339Nano, val)
}

// Close 关闭Redis连接
func (s *CacheService) Close() error {
	return s.Client.Close()
}
