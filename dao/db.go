package dao

import (
	"fmt"
	"log/slog"
	"time"

	"mentora-backend/config"
	"mentora-backend/model"

	"github.com/avast/retry-go/v4"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

const (
	connectAttempts = 5
	connectDelay    = 2 * time.Second
)

var DB *gorm.DB

// Init 建立数据库连接并自动迁移表结构。MySQL可能晚于服务就绪，连接失败时退避重试
func Init() error {
	dsn := config.Cfg.DB.DSN()

	err := retry.Do(
		func() error {
			var err error
			DB, err = gorm.Open(mysql.Open(dsn), &gorm.Config{})
			return err
		},
		retry.Attempts(connectAttempts),
		retry.Delay(connectDelay),
		retry.DelayType(retry.BackOffDelay),
		retry.OnRetry(func(n uint, err error) {
			slog.Warn("Retrying to connect to database",
				"attempt", n+1,
				"err", err)
		}),
	)
	if err != nil {
		return fmt.Errorf("failed to connect to database after retries: %v", err)
	}

	if err := DB.AutoMigrate(
		&model.User{},
		&model.Chat{},
		&model.UserPreference{},
	); err != nil {
		return fmt.Errorf("failed to migrate database: %v", err)
	}

	return nil
}
