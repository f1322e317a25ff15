/*
 * @module service/qc/events
 * @description 事件投影器：把原始记录平铺成日历事件，标题带类别前缀
 * @architecture 分层架构 - 质控引擎层
 * @documentReference dev_docs/qc_tracking_requirements.md
 * @stateFlow 原始记录 -> 前缀解析 -> 日历事件序列
 * @rules 与周期分桶完全独立；未知机器的记录不产生事件；顺序保持快照顺序
 * @dependencies fmt, time
 * @refs service/meta/qc_meta.go
 */

package qc

import (
	"fmt"

	"qctrack-service/service/meta"
	"qctrack-service/service/models"
)

// ProjectEvents 将记录投影为日历事件
// 前缀取第一个模块集合命中的事件类别（含仅展示的CQQ/TOMO）
func ProjectEvents(records []models.RawRecord, m *meta.QCMeta) []models.CalendarEvent {
	events := make([]models.CalendarEvent, 0, len(records))

	for _, rec := range records {
		if rec.StudyDate == nil {
			continue
		}
		machine, known := m.Machines[rec.ObjectID]
		if !known {
			continue
		}

		prefix := ""
		for _, category := range m.EventCategories {
			if category.ModuleIDs[rec.ModuleID] {
				prefix = category.Code + " - "
				break
			}
		}

		events = append(events, models.CalendarEvent{
			ID:      rec.StudyID,
			Title:   fmt.Sprintf("%s%s (%s)", prefix, rec.Name, machine.Name),
			Start:   rec.StudyDate.Format("2006-01-02T15:04:05"),
			Color:   machine.ColorTag,
			Machine: machine.Name,
		})
	}

	return events
}
