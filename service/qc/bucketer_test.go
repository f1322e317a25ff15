/*
 * @module service/qc/bucketer_test
 * @description 周期分桶器单元测试：三态单元格、列模式与年份过滤
 * @architecture 单元测试
 * @documentReference dev_docs/qc_tracking_requirements.md
 * @stateFlow 测试准备 -> 网格构建 -> 单元格验证
 * @rules 以固定的"今天"断言missing/pending分界，避免真实时钟
 * @dependencies testing, testify
 * @refs bucketer.go
 */

package qc

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"qctrack-service/service/meta"
	"qctrack-service/service/models"
	"qctrack-service/testutil"
)

func classifiedRecord(studyID, objectID int, machine string, date time.Time) models.ClassifiedRecord {
	d := date
	return models.ClassifiedRecord{
		RawRecord: models.RawRecord{
			StudyID:   studyID,
			ObjectID:  objectID,
			Name:      "CQH",
			StudyDate: &d,
		},
		Category: meta.CategoryWeekly,
		Machine:  models.MachineRef{ID: objectID, Name: machine},
	}
}

func TestBuildGrid_TriStateCells(t *testing.T) {
	periods := WeeklyPeriods(2025, 2025)
	// 2025-03-04（周二）的记录落在S10（3月3日-3月7日）
	records := []models.ClassifiedRecord{
		classifiedRecord(1, 159, "Versa HD 1", testutil.Date(2025, 3, 4)),
	}
	// 今天设在S11的周三：S10已过，S11进行中，S12未开始
	today := testutil.Date(2025, 3, 12)

	grid := BuildGrid(meta.CategoryWeekly, records, periods, meta.Default().Machines, ColumnsObserved, today)
	require.Equal(t, []string{"Versa HD 1"}, grid.Machines)

	s10, ok := grid.StatusOf("S10", 2025, "Versa HD 1")
	require.True(t, ok)
	assert.Equal(t, models.StatusDone, s10)

	s9, ok := grid.StatusOf("S9", 2025, "Versa HD 1")
	require.True(t, ok)
	assert.Equal(t, models.StatusMissing, s9)

	s11, ok := grid.StatusOf("S11", 2025, "Versa HD 1")
	require.True(t, ok)
	assert.Equal(t, models.StatusPending, s11, "进行中的周不算缺失")

	s12, ok := grid.StatusOf("S12", 2025, "Versa HD 1")
	require.True(t, ok)
	assert.Equal(t, models.StatusPending, s12)
}

func TestBuildGrid_PeriodEndDayIsNotMissing(t *testing.T) {
	periods := WeeklyPeriods(2025, 2025)
	// 今天正好是S10的周五：周期最后一天仍为pending
	today := testutil.Date(2025, 3, 7)

	grid := BuildGrid(meta.CategoryWeekly, nil, periods, meta.Default().Machines, ColumnsRegistry, today)
	status, ok := grid.StatusOf("S10", 2025, "Versa HD 1")
	require.True(t, ok)
	assert.Equal(t, models.StatusPending, status)

	// 次日（周六）起才算缺失
	grid = BuildGrid(meta.CategoryWeekly, nil, periods, meta.Default().Machines, ColumnsRegistry, testutil.Date(2025, 3, 8))
	status, ok = grid.StatusOf("S10", 2025, "Versa HD 1")
	require.True(t, ok)
	assert.Equal(t, models.StatusMissing, status)
}

func TestBuildGrid_ColumnModes(t *testing.T) {
	registry := meta.Default().Machines
	periods := WeeklyPeriods(2025, 2025)
	records := []models.ClassifiedRecord{
		classifiedRecord(1, 159, "Versa HD 1", testutil.Date(2025, 3, 4)),
	}
	today := testutil.Date(2025, 3, 12)

	observed := BuildGrid(meta.CategoryWeekly, records, periods, registry, ColumnsObserved, today)
	assert.Equal(t, []string{"Versa HD 1"}, observed.Machines)

	full := BuildGrid(meta.CategoryWeekly, records, periods, registry, ColumnsRegistry, today)
	assert.Len(t, full.Machines, len(registry))
	assert.Contains(t, full.Machines, "NOVALIS")
	assert.Contains(t, full.Machines, "TOMO1")
	// 无任何记录的机器每个已结束周期都是missing
	status, ok := full.StatusOf("S9", 2025, "NOVALIS")
	require.True(t, ok)
	assert.Equal(t, models.StatusMissing, status)
}

func TestBuildGrid_RecordOutsideAllPeriods(t *testing.T) {
	periods := WeeklyPeriods(2025, 2025)
	// 2026年的记录不影响2025年的网格
	records := []models.ClassifiedRecord{
		classifiedRecord(1, 159, "Versa HD 1", testutil.Date(2026, 6, 2)),
	}
	today := testutil.Date(2025, 3, 12)

	grid := BuildGrid(meta.CategoryWeekly, records, periods, meta.Default().Machines, ColumnsObserved, today)
	for _, row := range grid.Rows {
		assert.NotEqual(t, models.StatusDone, row.Cells["Versa HD 1"],
			"周期 %s 不应出现done", row.Period.Label)
	}
}

func TestFilterGridYear(t *testing.T) {
	periods := WeeklyPeriods(2024, 2025)
	grid := BuildGrid(meta.CategoryWeekly, nil, periods, meta.Default().Machines, ColumnsRegistry, testutil.Date(2025, 3, 12))

	filtered := FilterGridYear(grid, 2025)
	require.NotEmpty(t, filtered.Rows)
	for _, row := range filtered.Rows {
		assert.Equal(t, 2025, row.Period.Year)
	}

	// year为0返回原网格
	assert.Equal(t, grid, FilterGridYear(grid, 0))
}

func TestBuildGrid_MonthlyBucketing(t *testing.T) {
	periods := MonthlyPeriods(2025, 2025)
	records := []models.ClassifiedRecord{
		classifiedRecord(1, 159, "Versa HD 1", testutil.Date(2025, 1, 15)),
		classifiedRecord(2, 159, "Versa HD 1", testutil.Date(2025, 12, 31)),
	}
	today := testutil.Date(2026, 2, 1)

	grid := BuildGrid(meta.CategoryMonthly, records, periods, meta.Default().Machines, ColumnsObserved, today)

	january, ok := grid.StatusOf("Janvier 2025", 2025, "Versa HD 1")
	require.True(t, ok)
	assert.Equal(t, models.StatusDone, january)

	// 12月31日属于12月（12月特例保证覆盖到月末）
	december, ok := grid.StatusOf("Décembre 2025", 2025, "Versa HD 1")
	require.True(t, ok)
	assert.Equal(t, models.StatusDone, december)

	february, ok := grid.StatusOf("Février 2025", 2025, "Versa HD 1")
	require.True(t, ok)
	assert.Equal(t, models.StatusMissing, february)
}
