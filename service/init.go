/*
 * @module service/init
 * @description 服务初始化模块，负责日志、数据库连接、配置加载与调度器启动
 * @architecture 分层架构 - 服务层
 * @documentReference dev_docs/qc_tracking_requirements.md
 * @stateFlow 应用启动时执行初始化流程
 * @rules 上游记录库连接失败不致命（各接口降级为空结果）；本地批注库打开失败致命
 * @dependencies gorm.io/gorm, gorm.io/driver/postgres, gorm.io/driver/sqlite
 * @refs api/routes.go, service/qc/engine.go
 */

package service

import (
	"fmt"
	"log"
	"log/slog"
	"os"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"qctrack-service/logger"
	"qctrack-service/service/alerting"
	"qctrack-service/service/annotations"
	"qctrack-service/service/distributed_lock"
	"qctrack-service/service/meta"
	"qctrack-service/service/qc"
	"qctrack-service/service/records"
	"qctrack-service/service/scheduler"
)

var (
	// DB 上游Artiscan记录库连接；连接失败时为nil，数据源按上游不可用降级
	DB *gorm.DB
	// AnnotationDB 本地批注sqlite库
	AnnotationDB *gorm.DB

	GlobalMeta              *meta.QCMeta
	GlobalEngine            *qc.Engine
	GlobalAnnotationService *annotations.Service
	GlobalScheduler         *scheduler.WeeklyAlertScheduler
)

func init() {
	logger.InitLogger()
	initSourceDatabase()
	initAnnotationDatabase()
	initServices()
}

// initSourceDatabase 初始化上游记录库连接
// 失败时只记录诊断：评估接口返回空而合法的结果，看板保持可导航
func initSourceDatabase() {
	var dsn string
	if databaseURL := os.Getenv("ARTISCAN_DATABASE_URL"); databaseURL != "" {
		dsn = databaseURL
	} else {
		host := getEnvWithDefault("ARTISCAN_DB_HOST", "localhost")
		port := getEnvWithDefault("ARTISCAN_DB_PORT", "5432")
		user := getEnvWithDefault("ARTISCAN_DB_USER", "artiscan")
		password := getEnvWithDefault("ARTISCAN_DB_PASSWORD", "")
		dbname := getEnvWithDefault("ARTISCAN_DB_NAME", "DBArtiscan")
		sslmode := getEnvWithDefault("ARTISCAN_DB_SSLMODE", "disable")

		dsn = fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
			host, port, user, password, dbname, sslmode)
	}

	var err error
	DB, err = gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		slog.Error("上游记录库连接失败，评估接口将返回空结果", "error", err)
		DB = nil
		return
	}
	slog.Info("上游记录库连接成功")
}

// initAnnotationDatabase 初始化本地批注库
func initAnnotationDatabase() {
	path := getEnvWithDefault("QC_ANNOTATION_DB", "qc_annotations.db")

	var err error
	AnnotationDB, err = gorm.Open(sqlite.Open(path), &gorm.Config{})
	if err != nil {
		log.Fatalf("批注库打开失败: %v", err)
	}
	slog.Info("批注库就绪", "path", path)
}

// initServices 构建服务实例并按需启动调度器
func initServices() {
	GlobalMeta = meta.LoadFromEnv()

	timeout := records.DefaultFetchTimeout
	if val := os.Getenv("ARTISCAN_FETCH_TIMEOUT"); val != "" {
		if parsed, err := time.ParseDuration(val); err == nil {
			timeout = parsed
		}
	}
	source := records.NewGormSource(DB, timeout)
	GlobalEngine = qc.NewEngine(source, GlobalMeta)

	var err error
	GlobalAnnotationService, err = annotations.NewService(AnnotationDB)
	if err != nil {
		log.Fatalf("批注服务初始化失败: %v", err)
	}

	webhookURL := os.Getenv("QC_WEBHOOK_URL")
	if webhookURL == "" {
		slog.Info("未配置QC_WEBHOOK_URL，周控告警调度器不启动")
		return
	}

	notifier := alerting.NewWebhookChannel(webhookURL, 10*time.Second)
	GlobalScheduler = scheduler.NewWeeklyAlertScheduler(GlobalEngine, notifier, os.Getenv("QC_ALERT_CRON"))

	if os.Getenv("REDIS_HOST") != "" {
		lock, err := distributed_lock.NewRedisLock()
		if err != nil {
			slog.Error("分布式锁初始化失败，调度器使用进程内防重", "error", err)
		} else {
			GlobalScheduler.SetDistributedLock(lock)
		}
	}

	if err := GlobalScheduler.StartScheduler(); err != nil {
		slog.Error("周控告警调度器启动失败", "error", err)
	}
}

// getEnvWithDefault 获取环境变量，如果不存在则返回默认值
func getEnvWithDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
