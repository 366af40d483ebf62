package resource

import (
	"fmt"
	"sync"
	"time"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"reel-service/ddd/infrastructure/database/po"
	"reel-service/pkg/assert"
	"reel-service/pkg/config"
	"reel-service/pkg/logger"
	"reel-service/pkg/manager"
)

var (
	mysqlResourceOnce sync.Once
	mysqlSingleton    *MySqlResource
)

// MySqlResource MySQL资源管理器
type MySqlResource struct {
	db *gorm.DB
}

// DefaultMysqlResource 获取MySQL资源单例
func DefaultMysqlResource() *MySqlResource {
	assert.NotCircular()
	mysqlResourceOnce.Do(func() {
		mysqlSingleton = &MySqlResource{}
	})
	assert.NotNil(mysqlSingleton)
	return mysqlSingleton
}

// MustOpen 建立数据库连接并迁移表结构
func (r *MySqlResource) MustOpen() {
	if r.db != nil {
		return
	}

	cfg := config.GetGlobalConfig()
	if cfg == nil {
		panic("global config not initialized before MySqlResource")
	}

	db, err := gorm.Open(mysql.Open(cfg.Database.GetDSN()), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Warn),
	})
	if err != nil {
		panic(fmt.Sprintf("failed to connect mysql: %v", err))
	}

	sqlDB, err := db.DB()
	if err != nil {
		panic(fmt.Sprintf("failed to get sql.DB: %v", err))
	}
	if cfg.Database.MaxIdleConns > 0 {
		sqlDB.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	}
	if cfg.Database.MaxOpenConns > 0 {
		sqlDB.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	}
	if cfg.Database.ConnMaxLifetime > 0 {
		sqlDB.SetConnMaxLifetime(cfg.Database.ConnMaxLifetime)
	} else {
		sqlDB.SetConnMaxLifetime(time.Hour)
	}

	if err := db.AutoMigrate(
		&po.Video{},
		&po.ProcessingStatus{},
		&po.Transcript{},
		&po.TranscriptSegment{},
		&po.ImportantSegment{},
		&po.Reel{},
	); err != nil {
		panic(fmt.Sprintf("failed to migrate schema: %v", err))
	}

	r.db = db

	logger.Info("MySQL resource initialized", map[string]interface{}{
		"host":     cfg.Database.Host,
		"database": cfg.Database.Database,
	})
}

// Close 释放数据库连接
func (r *MySqlResource) Close() {
	if r.db == nil {
		return
	}
	if sqlDB, err := r.db.DB(); err == nil {
		_ = sqlDB.Close()
	}
}

// MainDB 获取主库连接
func (r *MySqlResource) MainDB() *gorm.DB {
	return r.db
}

// MySqlResourcePlugin wires the resource into the manager.
type MySqlResourcePlugin struct{}

// Name identifies the plugin slot.
func (p *MySqlResourcePlugin) Name() string {
	return "mysql"
}

// MustCreateResource returns the singleton MySQL resource for registration.
func (p *MySqlResourcePlugin) MustCreateResource() manager.Resource {
	return DefaultMysqlResource()
}
