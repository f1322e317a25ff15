/*
 * @module service/models/qc_models
 * @description 质控周期性跟踪核心数据模型，包括机器、原始记录、周期、网格单元与评估结果
 * @architecture 分层架构 - 数据模型层
 * @documentReference dev_docs/qc_tracking_requirements.md
 * @stateFlow 原始记录 -> 分类记录 -> 合规网格 -> 符合率
 * @rules 模型均为值对象，评估过程中不做持久化；状态使用显式枚举，不使用展示符号
 * @refs service/qc/, service/records/
 */

package models

import (
	"fmt"
	"time"
)

// MachineRef 机器注册表条目，进程启动时从配置加载，之后不可变
type MachineRef struct {
	ID       int    `json:"id"`
	Name     string `json:"name"`
	ColorTag string `json:"color_tag"`
}

// RawRecord 上游快照中的单条检查记录
// StudyDate 为空或无法解析的记录在分类前被排除
type RawRecord struct {
	StudyID   int        `json:"study_id"`
	ObjectID  int        `json:"object_id"`
	ModuleID  int        `json:"module_id"`
	Name      string     `json:"name"`
	StudyDate *time.Time `json:"study_date"`
}

// ClassifiedRecord 分类后的记录，附带命中的质控类别与解析出的机器
// 仅存活于单次评估周期内，不持久化
type ClassifiedRecord struct {
	RawRecord
	Category string     `json:"category"`
	Machine  MachineRef `json:"machine"`
}

// Period 连续且互不重叠的日期区间，带人读标签与年份标记
type Period struct {
	Label     string    `json:"label"`
	Year      int       `json:"year"`
	DateStart time.Time `json:"date_start"`
	DateEnd   time.Time `json:"date_end"`
}

// Contains 判断日期（按天）是否落在周期区间内，边界含
func (p Period) Contains(d time.Time) bool {
	day := time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, time.UTC)
	return !day.Before(p.DateStart) && !day.After(p.DateEnd)
}

// CellStatus 合规单元格三态枚举
type CellStatus string

const (
	// StatusDone 周期内至少有一条分类记录
	StatusDone CellStatus = "done"
	// StatusMissing 周期已结束且没有任何记录
	StatusMissing CellStatus = "missing"
	// StatusPending 周期尚未结束
	StatusPending CellStatus = "pending"
)

// ParseCellStatus 从导出文本解析单元格状态
func ParseCellStatus(s string) (CellStatus, error) {
	switch CellStatus(s) {
	case StatusDone, StatusMissing, StatusPending:
		return CellStatus(s), nil
	}
	return "", fmt.Errorf("无效的单元格状态: %q", s)
}

// ComplianceRow 网格的一行：一个周期加上每台机器的状态
type ComplianceRow struct {
	Period Period                `json:"period"`
	Cells  map[string]CellStatus `json:"cells"`
}

// ComplianceGrid 某一质控类别的周期×机器网格
// Machines 为列顺序（机器名），Rows 按周期时间顺序排列
type ComplianceGrid struct {
	Category string          `json:"category"`
	Machines []string        `json:"machines"`
	Rows     []ComplianceRow `json:"rows"`
}

// StatusOf 返回指定周期标签与机器的单元格状态
func (g *ComplianceGrid) StatusOf(label string, year int, machine string) (CellStatus, bool) {
	for _, row := range g.Rows {
		if row.Period.Label == label && row.Period.Year == year {
			status, ok := row.Cells[machine]
			return status, ok
		}
	}
	return "", false
}

// AuditRecord 机器标识不在注册表中的记录，保留供人工核查
type AuditRecord struct {
	ObjectID  int        `json:"object_id"`
	ModuleID  int        `json:"module_id"`
	Name      string     `json:"name"`
	StudyDate *time.Time `json:"study_date"`
	Category  string     `json:"category"`
}

// EvaluationResult 单次评估的完整输出
// 审计清单作为返回值的一部分，而非共享全局状态
type EvaluationResult struct {
	Grids     map[string]*ComplianceGrid    `json:"grids"`
	Rates     map[string]map[string]float64 `json:"rates"`
	Machines  []string                      `json:"machines"`
	AuditList []AuditRecord                 `json:"audit_list"`
}

// NewEvaluationResult 创建空评估结果（上游不可用时也返回该合法空形状）
func NewEvaluationResult() *EvaluationResult {
	return &EvaluationResult{
		Grids:     make(map[string]*ComplianceGrid),
		Rates:     make(map[string]map[string]float64),
		Machines:  []string{},
		AuditList: []AuditRecord{},
	}
}

// CalendarEvent 日历展示用的离散事件，由事件投影器生成
type CalendarEvent struct {
	ID      int    `json:"id"`
	Title   string `json:"title"`
	Start   string `json:"start"`
	Color   string `json:"color"`
	Machine string `json:"machine"`
}
