/*
 * @module service/qc/engine
 * @description 质控评估引擎：抓取快照、分类、分桶、计率的单次同步编排
 * @architecture 分层架构 - 质控引擎层
 * @documentReference dev_docs/qc_tracking_requirements.md
 * @stateFlow 快照读取 -> 逐类别分类 -> 周期分桶 -> 符合率 -> 评估结果值
 * @rules 引擎自身无状态，每次调用全量重算；上游失败时返回空结果而不是崩溃；审计清单随结果返回
 * @dependencies context, time
 * @refs service/records/, service/qc/classifier.go, service/qc/bucketer.go, service/qc/rates.go
 */

package qc

import (
	"context"
	"fmt"
	"sort"
	"time"

	"qctrack-service/service/meta"
	"qctrack-service/service/models"
)

// RecordSource 上游检查记录快照的只读来源
type RecordSource interface {
	FetchRecords(ctx context.Context) ([]models.RawRecord, error)
}

// Engine 质控评估引擎
type Engine struct {
	source     RecordSource
	meta       *meta.QCMeta
	classifier *Classifier
}

// NewEngine 创建评估引擎
func NewEngine(source RecordSource, m *meta.QCMeta) *Engine {
	return &Engine{
		source:     source,
		meta:       m,
		classifier: NewClassifier(m),
	}
}

// Meta 返回引擎使用的静态配置
func (e *Engine) Meta() *meta.QCMeta {
	return e.meta
}

// Evaluate 以当前时间执行一次完整评估
// year为0表示保留全部年份；weeklyMode控制周网格的列模式
// （看板与导出用全量注册表列，符合率总览用观测列），月/半年网格始终用观测列
func (e *Engine) Evaluate(ctx context.Context, year int, weeklyMode ColumnMode) (*models.EvaluationResult, error) {
	return e.EvaluateAt(ctx, year, weeklyMode, time.Now())
}

// EvaluateAt 以指定的"今天"执行评估，供测试与重放使用
func (e *Engine) EvaluateAt(ctx context.Context, year int, weeklyMode ColumnMode, today time.Time) (*models.EvaluationResult, error) {
	result := models.NewEvaluationResult()

	records, err := e.source.FetchRecords(ctx)
	if err != nil {
		// 上游不可用：空而合法的结果形状，由调用方记录诊断并降级展示
		return result, fmt.Errorf("上游记录快照不可用: %w", err)
	}

	machineSet := make(map[string]bool)
	for _, rule := range e.meta.Categories {
		classified, audit := e.classifier.Classify(records, rule)
		result.AuditList = append(result.AuditList, audit...)

		mode := ColumnsObserved
		if rule.PeriodKind == meta.PeriodWeekly {
			mode = weeklyMode
		}

		periods := GeneratePeriods(rule.PeriodKind, e.meta.YearStart, e.meta.YearEnd)
		grid := BuildGrid(rule.Code, classified, periods, e.meta.Machines, mode, today)
		grid = FilterGridYear(grid, year)
		result.Grids[rule.Code] = grid

		for _, machine := range grid.Machines {
			machineSet[machine] = true
		}
	}

	for machine := range machineSet {
		result.Machines = append(result.Machines, machine)
	}
	sort.Strings(result.Machines)

	for code, grid := range result.Grids {
		result.Rates[code] = ConformityRates(grid, result.Machines)
	}

	return result, nil
}

// Events 生成日历事件序列（独立于分桶的平铺投影）
func (e *Engine) Events(ctx context.Context) ([]models.CalendarEvent, error) {
	records, err := e.source.FetchRecords(ctx)
	if err != nil {
		return []models.CalendarEvent{}, fmt.Errorf("上游记录快照不可用: %w", err)
	}
	return ProjectEvents(records, e.meta), nil
}

// WeeklyLate 返回当前ISO周中周控未完成的机器名清单与周号
// 基于注册表全量列：没有任何记录的机器同样算未完成
func (e *Engine) WeeklyLate(ctx context.Context, today time.Time) ([]string, int, error) {
	isoYear, isoWeek := today.ISOWeek()

	result, err := e.EvaluateAt(ctx, 0, ColumnsRegistry, today)
	if err != nil {
		return nil, isoWeek, err
	}

	grid, ok := result.Grids[meta.CategoryWeekly]
	if !ok {
		return nil, isoWeek, fmt.Errorf("缺少周控网格")
	}

	label := fmt.Sprintf("S%d", isoWeek)
	for _, row := range grid.Rows {
		if row.Period.Label != label || row.Period.Year != isoYear {
			continue
		}
		var late []string
		for _, machine := range grid.Machines {
			if row.Cells[machine] != models.StatusDone {
				late = append(late, machine)
			}
		}
		return late, isoWeek, nil
	}

	// 当前周不在配置的年份范围内
	return nil, isoWeek, nil
}

// WeekProgress 年度进度：当前ISO周号、全年总周数与百分比
// 12月28日保证落在当年最后一个ISO周
func WeekProgress(today time.Time) (week int, totalWeeks int, percent float64) {
	_, week = today.ISOWeek()
	_, totalWeeks = time.Date(today.Year(), time.December, 28, 0, 0, 0, 0, time.UTC).ISOWeek()
	percent = round1(100 * float64(week) / float64(totalWeeks))
	return week, totalWeeks, percent
}
