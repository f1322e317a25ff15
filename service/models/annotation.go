/*
 * @module service/models/annotation
 * @description 非符合性批注模型，按（机器名，周期标签）定位，仅追加
 * @architecture 分层架构 - 数据模型层
 * @documentReference dev_docs/qc_tracking_requirements.md
 * @stateFlow 批注提交 -> 持久化 -> 展示层按单元格查询
 * @rules 批注只读装饰 Missing 单元格，绝不参与分类或计分
 * @dependencies gorm.io/gorm
 * @refs service/annotations/
 */

package models

import "time"

// Annotation 针对某台机器某个周期的自由文本批注
type Annotation struct {
	ID          string    `gorm:"primaryKey;type:varchar(36)" json:"id"`
	Machine     string    `gorm:"not null;index:idx_annotation_cell" json:"machine"`
	PeriodLabel string    `gorm:"not null;index:idx_annotation_cell" json:"period_label"`
	Comment     string    `gorm:"not null" json:"comment"`
	Author      string    `json:"author"`
	CreatedAt   time.Time `json:"created_at"`
}

// TableName 指定批注表名
func (Annotation) TableName() string {
	return "qc_annotations"
}
