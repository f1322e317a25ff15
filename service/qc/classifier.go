/*
 * @module service/qc/classifier
 * @description 记录分类器：将原始检查记录按类别规则归类，未知机器进入审计清单
 * @architecture 分层架构 - 质控引擎层
 * @documentReference dev_docs/qc_tracking_requirements.md
 * @stateFlow 排除规则 -> 特殊机器名称匹配 -> 模块集合/名称回退 -> 注册表解析
 * @rules 排除规则优先于一切；特殊机器只看名称；CQH不做名称回退；各类别独立评估，不做互斥
 * @dependencies regexp
 * @refs service/meta/qc_meta.go, service/qc/engine.go
 */

package qc

import (
	"qctrack-service/service/meta"
	"qctrack-service/service/models"
)

// Classifier 记录分类器，规则来自静态元数据
type Classifier struct {
	meta *meta.QCMeta
}

// NewClassifier 创建分类器
func NewClassifier(m *meta.QCMeta) *Classifier {
	return &Classifier{meta: m}
}

// Matches 判断单条记录是否命中指定类别的原始规则（不含注册表与日期校验）
func (c *Classifier) Matches(rec models.RawRecord, rule *meta.CategoryRule) bool {
	if c.meta.Exclusion.MatchString(rec.Name) {
		return false
	}

	// 多模态机器的各类质控共用同一模块标识，只能靠名称区分
	if c.meta.SpecialMachines[rec.ObjectID] {
		return rule.NamePattern.MatchString(rec.Name)
	}

	if rule.ModuleIDs[rec.ModuleID] {
		return true
	}
	if rule.NameFallback && rule.NamePattern.MatchString(rec.Name) {
		return true
	}
	return false
}

// Classify 对记录集合按类别过滤
// 返回分类记录与未知机器审计条目；日期为空的记录直接跳过
func (c *Classifier) Classify(records []models.RawRecord, rule *meta.CategoryRule) ([]models.ClassifiedRecord, []models.AuditRecord) {
	var classified []models.ClassifiedRecord
	var audit []models.AuditRecord

	for _, rec := range records {
		if rec.StudyDate == nil {
			continue
		}
		if !c.Matches(rec, rule) {
			continue
		}

		machine, known := c.meta.Machines[rec.ObjectID]
		if !known {
			audit = append(audit, models.AuditRecord{
				ObjectID:  rec.ObjectID,
				ModuleID:  rec.ModuleID,
				Name:      rec.Name,
				StudyDate: rec.StudyDate,
				Category:  rule.Code,
			})
			continue
		}

		classified = append(classified, models.ClassifiedRecord{
			RawRecord: rec,
			Category:  rule.Code,
			Machine:   machine,
		})
	}

	return classified, audit
}
