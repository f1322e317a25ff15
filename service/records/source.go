/*
 * @module service/records/source
 * @description 上游检查记录快照的只读数据源，带限时读取与宽松日期解析
 * @architecture 分层架构 - 数据访问层
 * @documentReference dev_docs/qc_tracking_requirements.md
 * @stateFlow 单次限时SQL读取 -> 日期归一化 -> 原始记录切片
 * @rules 上游不可用或超时返回错误由调用方降级，不得阻塞或崩溃；字符串/空日期需容忍
 * @dependencies gorm.io/gorm, github.com/spf13/cast
 * @refs service/qc/engine.go, service/init.go
 */

package records

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/spf13/cast"
	"gorm.io/gorm"

	"qctrack-service/service/models"
)

// DefaultFetchTimeout 上游快照读取的默认超时
const DefaultFetchTimeout = 5 * time.Second

// GormSource 基于gorm的记录快照数据源
type GormSource struct {
	db      *gorm.DB
	timeout time.Duration
}

// NewGormSource 创建数据源；db允许为nil（上游未连接时按不可用处理）
func NewGormSource(db *gorm.DB, timeout time.Duration) *GormSource {
	if timeout <= 0 {
		timeout = DefaultFetchTimeout
	}
	return &GormSource{db: db, timeout: timeout}
}

// snapshotRow 查询扫描用中间行；StudyDate按原样接收，之后统一归一化
type snapshotRow struct {
	StudyID   int         `gorm:"column:study_id"`
	ObjectID  int         `gorm:"column:object_id"`
	ModuleID  int         `gorm:"column:module_id"`
	Name      string      `gorm:"column:name"`
	StudyDate interface{} `gorm:"column:study_date"`
}

// FetchRecords 读取一次上游快照
// 只取有结果关联且StudyDate非空的记录，上游侧已做空值过滤
func (s *GormSource) FetchRecords(ctx context.Context) ([]models.RawRecord, error) {
	if s.db == nil {
		return nil, fmt.Errorf("上游数据库未连接")
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	var rows []snapshotRow
	err := s.db.WithContext(ctx).Raw(`
		SELECT cs."Id_ControleStudy" AS study_id,
		       cs."Id_Object"        AS object_id,
		       cs."Id_UserModule"    AS module_id,
		       cs."Name"             AS name,
		       cs."StudyDate"        AS study_date
		FROM "CONTROLE_STUDY" cs
		JOIN "RESULT" r ON cs."Id_ControleStudy" = r."Id_ControleStudy"
		WHERE cs."StudyDate" IS NOT NULL
		ORDER BY cs."Id_ControleStudy" DESC
	`).Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("读取质控记录快照失败: %w", err)
	}

	records := make([]models.RawRecord, 0, len(rows))
	for _, row := range rows {
		records = append(records, models.RawRecord{
			StudyID:   row.StudyID,
			ObjectID:  row.ObjectID,
			ModuleID:  row.ModuleID,
			Name:      row.Name,
			StudyDate: normalizeStudyDate(row.StudyDate),
		})
	}
	return records, nil
}

// normalizeStudyDate 容忍time/字符串/字节串类型的日期，解析失败返回nil由分类器排除
func normalizeStudyDate(value interface{}) *time.Time {
	if value == nil {
		return nil
	}
	if raw, ok := value.([]byte); ok {
		value = string(raw)
	}
	parsed, err := cast.ToTimeE(value)
	if err != nil || parsed.IsZero() {
		slog.Debug("无法解析的检查日期，记录被排除", "value", value)
		return nil
	}
	return &parsed
}
