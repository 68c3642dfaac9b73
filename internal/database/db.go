package database

import (
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/fastinglab/fasting-be/internal/config"
	"github.com/fastinglab/fasting-be/internal/models"
)

// InitGorm 初始化 GORM 连接并跑自动迁移
// AutoMigrate 会自动建表、补列、建索引；表已存在时只增不删
func InitGorm(cfg *config.Config) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(cfg.DSN()), &gorm.Config{})
	if err != nil {
		return nil, err
	}
	// FastingSession：断食会话；ActiveRef：活跃位指针
	// MealRecord：饮食记录；UserSettings/WeightSample：设置与体重
	if err := db.AutoMigrate(
		&models.FastingSession{},
		&models.ActiveRef{},
		&models.MealRecord{},
		&models.UserSettings{},
		&models.WeightSample{},
	); err != nil {
		return nil, err
	}
	return db, nil
}
