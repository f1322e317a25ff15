/*
 * @module service/qc/periods_test
 * @description 周期生成器单元测试：覆盖性、无缝隙无重叠、标签与年份规则
 * @architecture 单元测试
 * @documentReference dev_docs/qc_tracking_requirements.md
 * @stateFlow 测试准备 -> 周期生成 -> 结果验证
 * @rules 周期序列是纯函数输出，断言精确到天
 * @dependencies testing, testify
 * @refs periods.go
 */

package qc

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"qctrack-service/service/models"
)

func TestWeeklyPeriods_CoversFullYears(t *testing.T) {
	periods := WeeklyPeriods(2024, 2025)
	require.NotEmpty(t, periods)

	// 每个范围内的日期（按周一对齐）都必须被某个周期覆盖
	for d := time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC); d.Year() <= 2025; d = d.AddDate(0, 0, 1) {
		isoYear, _ := d.ISOWeek()
		if isoYear < 2024 || isoYear > 2025 {
			continue
		}
		if d.Weekday() == time.Saturday || d.Weekday() == time.Sunday {
			continue
		}
		covered := false
		for _, p := range periods {
			if p.Contains(d) {
				covered = true
				break
			}
		}
		assert.True(t, covered, "日期 %s 未被任何周周期覆盖", d.Format("2006-01-02"))
	}
}

func TestWeeklyPeriods_MondayToFriday(t *testing.T) {
	periods := WeeklyPeriods(2025, 2025)
	require.NotEmpty(t, periods)

	for _, p := range periods {
		assert.Equal(t, time.Monday, p.DateStart.Weekday(), "周期 %s 起始不是周一", p.Label)
		assert.Equal(t, time.Friday, p.DateEnd.Weekday(), "周期 %s 结束不是周五", p.Label)
		assert.Equal(t, 4, int(p.DateEnd.Sub(p.DateStart).Hours()/24))
	}
}

func TestWeeklyPeriods_LabelsAndISOYear(t *testing.T) {
	periods := WeeklyPeriods(2025, 2025)
	require.NotEmpty(t, periods)

	// 2025年第一个ISO周从2024-12-30开始
	first := periods[0]
	assert.Equal(t, "S1", first.Label)
	assert.Equal(t, 2025, first.Year)
	assert.Equal(t, time.Date(2024, time.December, 30, 0, 0, 0, 0, time.UTC), first.DateStart)

	// 2025年3月第10周：周一3月3日至周五3月7日
	var s10 *models.Period
	for i := range periods {
		if periods[i].Label == "S10" && periods[i].Year == 2025 {
			s10 = &periods[i]
			break
		}
	}
	require.NotNil(t, s10)
	assert.Equal(t, time.Date(2025, time.March, 3, 0, 0, 0, 0, time.UTC), s10.DateStart)
	assert.Equal(t, time.Date(2025, time.March, 7, 0, 0, 0, 0, time.UTC), s10.DateEnd)
}

func TestWeeklyPeriods_NoOverlap(t *testing.T) {
	periods := WeeklyPeriods(2024, 2025)
	for i := 1; i < len(periods); i++ {
		assert.True(t, periods[i].DateStart.After(periods[i-1].DateEnd),
			"周期 %s 与 %s 重叠", periods[i-1].Label, periods[i].Label)
	}
}

func TestMonthlyPeriods_FrenchLabelsAndDecember(t *testing.T) {
	periods := MonthlyPeriods(2025, 2025)
	require.Len(t, periods, 12)

	assert.Equal(t, "Janvier 2025", periods[0].Label)
	assert.Equal(t, time.Date(2025, time.January, 31, 0, 0, 0, 0, time.UTC), periods[0].DateEnd)

	assert.Equal(t, "Février 2025", periods[1].Label)
	assert.Equal(t, time.Date(2025, time.February, 28, 0, 0, 0, 0, time.UTC), periods[1].DateEnd)

	december := periods[11]
	assert.Equal(t, "Décembre 2025", december.Label)
	assert.Equal(t, time.Date(2025, time.December, 1, 0, 0, 0, 0, time.UTC), december.DateStart)
	assert.Equal(t, time.Date(2025, time.December, 31, 0, 0, 0, 0, time.UTC), december.DateEnd)
}

func TestMonthlyPeriods_LeapFebruary(t *testing.T) {
	periods := MonthlyPeriods(2024, 2024)
	require.Len(t, periods, 12)
	assert.Equal(t, time.Date(2024, time.February, 29, 0, 0, 0, 0, time.UTC), periods[1].DateEnd)
}

func TestSemestralPeriods_FixedHalves(t *testing.T) {
	periods := SemestralPeriods(2024, 2025)
	require.Len(t, periods, 4)

	assert.Equal(t, "S1 2024", periods[0].Label)
	assert.Equal(t, time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC), periods[0].DateStart)
	assert.Equal(t, time.Date(2024, time.June, 30, 0, 0, 0, 0, time.UTC), periods[0].DateEnd)

	assert.Equal(t, "S2 2024", periods[1].Label)
	assert.Equal(t, time.Date(2024, time.July, 1, 0, 0, 0, 0, time.UTC), periods[1].DateStart)
	assert.Equal(t, time.Date(2024, time.December, 31, 0, 0, 0, 0, time.UTC), periods[1].DateEnd)

	assert.Equal(t, "S1 2025", periods[2].Label)
	assert.Equal(t, "S2 2025", periods[3].Label)
}

func TestGeneratePeriods_UnknownKind(t *testing.T) {
	assert.Nil(t, GeneratePeriods("quarterly", 2024, 2025))
}
