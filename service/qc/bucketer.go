/*
 * @module service/qc/bucketer
 * @description 周期分桶器：将分类记录映射到周期网格，得到done/missing/pending三态单元格
 * @architecture 分层架构 - 质控引擎层
 * @documentReference dev_docs/qc_tracking_requirements.md
 * @stateFlow 分类记录 + 周期序列 + 机器列 -> 合规网格
 * @rules 单元格状态是记录落点与当前日期的纯函数；支持观测机器列与注册表全量列两种模式
 * @dependencies sort, time
 * @refs service/qc/classifier.go, service/qc/rates.go
 */

package qc

import (
	"sort"
	"time"

	"qctrack-service/service/models"
)

// ColumnMode 网格列的取值方式
type ColumnMode int

const (
	// ColumnsObserved 列为该类别实际出现过记录的机器
	ColumnsObserved ColumnMode = iota
	// ColumnsRegistry 列为注册表全部机器，无记录的机器也占列（审计完整视图）
	ColumnsRegistry
)

// BuildGrid 构建某一类别的合规网格
// today 决定missing与pending的分界，按天比较
func BuildGrid(category string, records []models.ClassifiedRecord, periods []models.Period, registry map[int]models.MachineRef, mode ColumnMode, today time.Time) *models.ComplianceGrid {
	machines := gridColumns(records, registry, mode)
	todayDay := time.Date(today.Year(), today.Month(), today.Day(), 0, 0, 0, 0, time.UTC)

	// 每机器的记录日期索引，避免每个单元格全量扫描
	byMachine := make(map[string][]time.Time)
	for _, rec := range records {
		day := time.Date(rec.StudyDate.Year(), rec.StudyDate.Month(), rec.StudyDate.Day(), 0, 0, 0, 0, time.UTC)
		byMachine[rec.Machine.Name] = append(byMachine[rec.Machine.Name], day)
	}

	grid := &models.ComplianceGrid{
		Category: category,
		Machines: machines,
		Rows:     make([]models.ComplianceRow, 0, len(periods)),
	}

	for _, period := range periods {
		row := models.ComplianceRow{
			Period: period,
			Cells:  make(map[string]models.CellStatus, len(machines)),
		}
		for _, machine := range machines {
			row.Cells[machine] = cellStatus(byMachine[machine], period, todayDay)
		}
		grid.Rows = append(grid.Rows, row)
	}

	return grid
}

// FilterGridYear 只保留指定年份标记的行；year为0时返回原网格
func FilterGridYear(grid *models.ComplianceGrid, year int) *models.ComplianceGrid {
	if year == 0 {
		return grid
	}
	filtered := &models.ComplianceGrid{
		Category: grid.Category,
		Machines: grid.Machines,
		Rows:     make([]models.ComplianceRow, 0, len(grid.Rows)),
	}
	for _, row := range grid.Rows {
		if row.Period.Year == year {
			filtered.Rows = append(filtered.Rows, row)
		}
	}
	return filtered
}

func cellStatus(days []time.Time, period models.Period, today time.Time) models.CellStatus {
	for _, day := range days {
		if period.Contains(day) {
			return models.StatusDone
		}
	}
	if period.DateEnd.Before(today) {
		return models.StatusMissing
	}
	return models.StatusPending
}

func gridColumns(records []models.ClassifiedRecord, registry map[int]models.MachineRef, mode ColumnMode) []string {
	seen := make(map[string]bool)
	var machines []string

	switch mode {
	case ColumnsRegistry:
		for _, machine := range registry {
			if !seen[machine.Name] {
				seen[machine.Name] = true
				machines = append(machines, machine.Name)
			}
		}
	default:
		for _, rec := range records {
			if !seen[rec.Machine.Name] {
				seen[rec.Machine.Name] = true
				machines = append(machines, rec.Machine.Name)
			}
		}
	}

	sort.Strings(machines)
	return machines
}
