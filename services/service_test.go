package services

import (
	"fmt"
	"testing"

	"adms-gateway-service/config"
	"adms-gateway-service/models"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newTestDB 为每个测试创建独立的内存数据库
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	err = db.AutoMigrate(
		&models.Admin{},
		&models.Device{},
		&models.BiometricUser{},
		&models.FingerprintTemplate{},
		&models.AttendanceLog{},
		&models.DeviceCommand{},
		&models.DeviceBinding{},
	)
	require.NoError(t, err)
	return db
}

func newTestConfig() *config.Config {
	return &config.Config{
		EnvType:      "LOCAL",
		JWTSecretKey: "test-secret",
	}
}
