/*
 * @module service/annotations/annotation_service
 * @description 非符合性批注服务：轻量sqlite存储，仅追加写与按单元格索引读
 * @architecture 分层架构 - 业务服务层
 * @documentReference dev_docs/qc_tracking_requirements.md
 * @stateFlow 边界校验 -> 追加写入 -> 列表/索引读取
 * @rules 批注键(机器名,周期标签)与分桶器标签完全一致；缺少必填字段在边界拒绝；无更新无删除
 * @dependencies gorm.io/gorm, github.com/google/uuid
 * @refs service/models/annotation.go, api/controllers/annotation_controller.go
 */

package annotations

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"qctrack-service/service/models"
)

// ErrValidation 必填字段缺失
var ErrValidation = errors.New("批注字段校验失败")

// IsValidationError 判断错误是否为字段校验失败
func IsValidationError(err error) bool {
	return errors.Is(err, ErrValidation)
}

// Service 批注服务
type Service struct {
	db *gorm.DB
}

// NewService 创建批注服务并迁移表结构
func NewService(db *gorm.DB) (*Service, error) {
	if err := db.AutoMigrate(&models.Annotation{}); err != nil {
		return nil, fmt.Errorf("批注表迁移失败: %w", err)
	}
	return &Service{db: db}, nil
}

// CreateRequest 批注提交参数
type CreateRequest struct {
	Machine     string `json:"machine"`
	PeriodLabel string `json:"period_label"`
	Comment     string `json:"comment"`
	Author      string `json:"author"`
}

// Create 追加一条批注；machine/period_label/comment必填，author缺省为inconnu
func (s *Service) Create(ctx context.Context, req CreateRequest) (*models.Annotation, error) {
	if req.Machine == "" || req.PeriodLabel == "" || req.Comment == "" {
		return nil, fmt.Errorf("%w: machine、period_label与comment为必填字段", ErrValidation)
	}
	if req.Author == "" {
		req.Author = "inconnu"
	}

	annotation := &models.Annotation{
		ID:          uuid.New().String(),
		Machine:     req.Machine,
		PeriodLabel: req.PeriodLabel,
		Comment:     req.Comment,
		Author:      req.Author,
	}
	if err := s.db.WithContext(ctx).Create(annotation).Error; err != nil {
		return nil, fmt.Errorf("写入批注失败: %w", err)
	}
	return annotation, nil
}

// List 返回全部批注，按创建时间升序
func (s *Service) List(ctx context.Context) ([]models.Annotation, error) {
	var annotations []models.Annotation
	if err := s.db.WithContext(ctx).Order("created_at ASC").Find(&annotations).Error; err != nil {
		return nil, fmt.Errorf("读取批注失败: %w", err)
	}
	return annotations, nil
}

// IndexByCell 构建(机器名|周期标签)到最新批注的索引，供展示层装饰Missing单元格
func (s *Service) IndexByCell(ctx context.Context) (map[string]models.Annotation, error) {
	annotations, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	// List已按时间升序，后写的覆盖先写的
	sort.SliceStable(annotations, func(i, j int) bool {
		return annotations[i].CreatedAt.Before(annotations[j].CreatedAt)
	})

	index := make(map[string]models.Annotation, len(annotations))
	for _, annotation := range annotations {
		index[CellKey(annotation.Machine, annotation.PeriodLabel)] = annotation
	}
	return index, nil
}

// CellKey 单元格索引键
func CellKey(machine, periodLabel string) string {
	return machine + "|" + periodLabel
}
