/*
 * @module testutil/test_helper
 * @description 测试工具和辅助函数
 * @architecture 测试基础设施 - 提供测试通用工具和数据工厂
 * @documentReference dev_docs/qc_tracking_requirements.md
 * @stateFlow 测试环境初始化 -> 测试数据创建 -> 测试执行 -> 清理资源
 * @rules 提供可重用的测试工具，确保测试环境的一致性
 * @dependencies gorm, sqlite, testify, time
 * @refs service/models, service/records
 */

package testutil

import (
	"fmt"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"qctrack-service/service/models"
)

// TestDB 测试数据库配置
type TestDB struct {
	DB *gorm.DB
}

// NewTestDB 创建内存测试数据库并迁移批注模型
func NewTestDB() *TestDB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		panic(fmt.Sprintf("failed to connect test database: %v", err))
	}

	if err := db.AutoMigrate(&models.Annotation{}); err != nil {
		panic(fmt.Sprintf("failed to migrate test database: %v", err))
	}

	return &TestDB{DB: db}
}

// NewSnapshotDB 创建带上游快照表结构的内存数据库
// 表名与列名与上游只读库一致，供数据源层测试使用
func NewSnapshotDB() *TestDB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		panic(fmt.Sprintf("failed to connect test database: %v", err))
	}

	statements := []string{
		`CREATE TABLE "CONTROLE_STUDY" (
			"Id_ControleStudy" INTEGER PRIMARY KEY,
			"Id_Object" INTEGER,
			"Id_UserModule" INTEGER,
			"Name" TEXT,
			"StudyDate" TEXT
		)`,
		`CREATE TABLE "RESULT" (
			"Id_Result" INTEGER PRIMARY KEY,
			"Id_ControleStudy" INTEGER
		)`,
	}
	for _, stmt := range statements {
		if err := db.Exec(stmt).Error; err != nil {
			panic(fmt.Sprintf("failed to create snapshot schema: %v", err))
		}
	}

	return &TestDB{DB: db}
}

// SnapshotStudy 快照测试行
type SnapshotStudy struct {
	StudyID   int
	ObjectID  int
	ModuleID  int
	Name      string
	StudyDate string
	HasResult bool
}

// SeedSnapshot 写入快照测试数据；HasResult为false的记录无结果关联
func (tdb *TestDB) SeedSnapshot(studies []SnapshotStudy) {
	for i, study := range studies {
		var date interface{}
		if study.StudyDate != "" {
			date = study.StudyDate
		}
		err := tdb.DB.Exec(
			`INSERT INTO "CONTROLE_STUDY" ("Id_ControleStudy", "Id_Object", "Id_UserModule", "Name", "StudyDate") VALUES (?, ?, ?, ?, ?)`,
			study.StudyID, study.ObjectID, study.ModuleID, study.Name, date,
		).Error
		if err != nil {
			panic(fmt.Sprintf("failed to seed CONTROLE_STUDY: %v", err))
		}
		if study.HasResult {
			err := tdb.DB.Exec(
				`INSERT INTO "RESULT" ("Id_Result", "Id_ControleStudy") VALUES (?, ?)`,
				i+1, study.StudyID,
			).Error
			if err != nil {
				panic(fmt.Sprintf("failed to seed RESULT: %v", err))
			}
		}
	}
}

// CleanDB 清理数据库
func (tdb *TestDB) CleanDB() {
	sqlDB, err := tdb.DB.DB()
	if err == nil {
		sqlDB.Close()
	}
}

// Date 构造测试日期（UTC零点）
func Date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// DatePtr 构造测试日期指针
func DatePtr(year int, month time.Month, day int) *time.Time {
	d := Date(year, month, day)
	return &d
}
