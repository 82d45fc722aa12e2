package app

import (
	"fmt"
	"time"

	"github.com/obrasuite/obrasuite/config"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	"gorm.io/gorm/schema"
)

// getDatabase opens the gorm handle; only postgres is supported.
func getDatabase(conf config.DBConfig) *gorm.DB {
	dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%d sslmode=disable TimeZone=%s",
		conf.Host, conf.User, conf.Passwd, conf.Name, conf.Port, time.Local.String())

	loglevel := logger.Silent
	if conf.Debug {
		loglevel = logger.Info
	}

	db, err := gorm.Open(postgres.New(postgres.Config{
		DSN:                  dsn,
		PreferSimpleProtocol: true,
	}), &gorm.Config{
		NamingStrategy: schema.NamingStrategy{SingularTable: true},
		Logger:         logger.Default.LogMode(loglevel),
	})
	if err != nil {
		zap.S().Fatalf("database connection failed: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		zap.S().Fatalf("database handle failed: %v", err)
	}
	sqlDB.SetMaxOpenConns(conf.MaxConn)
	sqlDB.SetMaxIdleConns(conf.IdleConn)
	sqlDB.SetConnMaxLifetime(time.Hour)
	return db
}
