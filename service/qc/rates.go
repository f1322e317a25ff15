/*
 * @module service/qc/rates
 * @description 符合率计算器：将机器列归约为单个百分比
 * @architecture 分层架构 - 质控引擎层
 * @documentReference dev_docs/qc_tracking_requirements.md
 * @stateFlow 合规网格 -> 每机器已判定周期计数 -> 百分比
 * @rules 仅done与missing计入分母；无已判定周期按惯例100.0；机器不在网格中为0.0；保留一位小数
 * @dependencies math, strings
 * @refs service/qc/bucketer.go
 */

package qc

import (
	"math"
	"strings"

	"qctrack-service/service/models"
)

// ConformityRate 计算某台机器在网格中的符合率
// 列匹配对大小写与空格不敏感
func ConformityRate(grid *models.ComplianceGrid, machine string) float64 {
	column := matchColumn(grid.Machines, machine)
	if column == "" {
		return 0.0
	}

	var conformant, judged int
	for _, row := range grid.Rows {
		switch row.Cells[column] {
		case models.StatusDone:
			conformant++
			judged++
		case models.StatusMissing:
			judged++
		}
	}

	if judged == 0 {
		return 100.0
	}
	return round1(100 * float64(conformant) / float64(judged))
}

// ConformityRates 对给定机器清单批量计算符合率
func ConformityRates(grid *models.ComplianceGrid, machines []string) map[string]float64 {
	rates := make(map[string]float64, len(machines))
	for _, machine := range machines {
		rates[machine] = ConformityRate(grid, machine)
	}
	return rates
}

// AverageRate 计算一组符合率的平均值，保留一位小数；空集合为0
func AverageRate(rates map[string]float64) float64 {
	if len(rates) == 0 {
		return 0
	}
	var sum float64
	for _, rate := range rates {
		sum += rate
	}
	return round1(sum / float64(len(rates)))
}

func matchColumn(columns []string, machine string) string {
	want := normalizeMachineName(machine)
	for _, column := range columns {
		if normalizeMachineName(column) == want {
			return column
		}
	}
	return ""
}

func normalizeMachineName(name string) string {
	return strings.ToUpper(strings.ReplaceAll(name, " ", ""))
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
