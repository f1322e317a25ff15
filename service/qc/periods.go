/*
 * @module service/qc/periods
 * @description 周期生成器：按类别与年份范围生成周（周一至周五）、月、半年三种参考周期网格
 * @architecture 分层架构 - 质控引擎层
 * @documentReference dev_docs/qc_tracking_requirements.md
 * @stateFlow 纯函数，每次评估重新生成，不落存储
 * @rules 同一类别同一年份范围内周期完整覆盖且互不重叠；周标签S<ISO周号>，年份取周期起始日的ISO年
 * @dependencies time
 * @refs service/qc/bucketer.go
 */

package qc

import (
	"fmt"
	"time"

	"qctrack-service/service/meta"
	"qctrack-service/service/models"
)

// 月份标签使用法语月名（与批注键、展示层约定一致）
var frenchMonths = [12]string{
	"Janvier", "Février", "Mars", "Avril", "Mai", "Juin",
	"Juillet", "Août", "Septembre", "Octobre", "Novembre", "Décembre",
}

// GeneratePeriods 按周期类型生成覆盖[startYear, endYear]的有序周期序列
func GeneratePeriods(kind string, startYear, endYear int) []models.Period {
	switch kind {
	case meta.PeriodWeekly:
		return WeeklyPeriods(startYear, endYear)
	case meta.PeriodMonthly:
		return MonthlyPeriods(startYear, endYear)
	case meta.PeriodSemestral:
		return SemestralPeriods(startYear, endYear)
	}
	return nil
}

// WeeklyPeriods 生成周一至周五的周周期
// 从起始年前一年12月25日之前的周一开始推进，保证首年的S1被覆盖；
// 只保留ISO年落在范围内的周期
func WeeklyPeriods(startYear, endYear int) []models.Period {
	seed := time.Date(startYear-1, time.December, 25, 0, 0, 0, 0, time.UTC)
	current := mondayOnOrBefore(seed)

	var periods []models.Period
	for current.Year() <= endYear {
		isoYear, isoWeek := current.ISOWeek()
		if isoYear >= startYear && isoYear <= endYear {
			periods = append(periods, models.Period{
				Label:     fmt.Sprintf("S%d", isoWeek),
				Year:      isoYear,
				DateStart: current,
				DateEnd:   current.AddDate(0, 0, 4),
			})
		}
		current = current.AddDate(0, 0, 7)
	}
	return periods
}

// MonthlyPeriods 生成自然月周期，结束日为下月首日的前一天，12月特殊处理为当年12月31日
func MonthlyPeriods(startYear, endYear int) []models.Period {
	var periods []models.Period
	for year := startYear; year <= endYear; year++ {
		for month := 1; month <= 12; month++ {
			start := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
			var end time.Time
			if month < 12 {
				end = time.Date(year, time.Month(month+1), 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, -1)
			} else {
				end = time.Date(year, time.December, 31, 0, 0, 0, 0, time.UTC)
			}
			periods = append(periods, models.Period{
				Label:     fmt.Sprintf("%s %d", frenchMonths[month-1], year),
				Year:      year,
				DateStart: start,
				DateEnd:   end,
			})
		}
	}
	return periods
}

// SemestralPeriods 生成固定半年周期：1月1日-6月30日与7月1日-12月31日
func SemestralPeriods(startYear, endYear int) []models.Period {
	var periods []models.Period
	for year := startYear; year <= endYear; year++ {
		periods = append(periods,
			models.Period{
				Label:     fmt.Sprintf("S1 %d", year),
				Year:      year,
				DateStart: time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC),
				DateEnd:   time.Date(year, time.June, 30, 0, 0, 0, 0, time.UTC),
			},
			models.Period{
				Label:     fmt.Sprintf("S2 %d", year),
				Year:      year,
				DateStart: time.Date(year, time.July, 1, 0, 0, 0, 0, time.UTC),
				DateEnd:   time.Date(year, time.December, 31, 0, 0, 0, 0, time.UTC),
			},
		)
	}
	return periods
}

// mondayOnOrBefore 返回给定日期当周的周一
func mondayOnOrBefore(d time.Time) time.Time {
	offset := (int(d.Weekday()) + 6) % 7
	return d.AddDate(0, 0, -offset)
}
