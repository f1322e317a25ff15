/*
 * @module service/meta/qc_meta
 * @description 质控跟踪静态元数据：机器注册表、类别规则（模块集合/名称正则/排除规则/特殊机器）与年份范围
 * @architecture 元数据层
 * @documentReference dev_docs/qc_tracking_requirements.md
 * @stateFlow 进程启动时加载一次，运行期只读
 * @rules 默认值对应现场配置，可通过环境变量以JSON覆盖；名称必须唯一否则聚合会串列
 * @dependencies encoding/json, regexp
 * @refs service/qc/classifier.go, service/qc/engine.go
 */

package meta

import (
	"encoding/json"
	"log/slog"
	"os"
	"regexp"
	"strconv"
	"time"

	"qctrack-service/service/models"
)

// 周期类型
const (
	PeriodWeekly    = "weekly"
	PeriodMonthly   = "monthly"
	PeriodSemestral = "semestral"
)

// 质控类别代码
const (
	CategoryWeekly    = "CQH"
	CategoryMonthly   = "CQM"
	CategorySemestral = "CQS"
)

// CategoryRule 单个质控类别的分类规则
type CategoryRule struct {
	Code         string
	Name         string
	PeriodKind   string
	ModuleIDs    map[int]bool
	NamePattern  *regexp.Regexp
	NameFallback bool // 模块集合之外允许按名称回退匹配（仅CQM/CQS）
}

// EventCategory 仅用于日历事件标题前缀的类别（含不参与周期计分的CQQ/TOMO）
type EventCategory struct {
	Code      string
	ModuleIDs map[int]bool
}

// QCMeta 质控跟踪全部静态配置
type QCMeta struct {
	Machines        map[int]models.MachineRef
	Exclusion       *regexp.Regexp
	SpecialMachines map[int]bool
	Categories      []*CategoryRule
	EventCategories []EventCategory
	YearStart       int
	YearEnd         int
}

// 名称排除规则：测试/待删除/试验类记录对所有类别无效
var exclusionPattern = regexp.MustCompile(`(?i)(test|à ?supp|a ?supp|à ?supprimer|a ?supprimer|essai|asupprimer|àsupprimer)`)

var (
	cqhPattern = regexp.MustCompile(`(?i)(cqh|controle ?qualite ?hebdo|contrôle ?qualité ?hebdo|controlequalitehebdomadaire|contrôlequalitéhebdomadaire)`)
	cqmPattern = regexp.MustCompile(`(?i)(cqm|controle ?qualite ?mensuel(le)?|contrôle ?qualité ?mensuel(le)?|controlequalitemensuel(le)?|contrôlequalitémensuel(le)?)`)
	cqsPattern = regexp.MustCompile(`(?i)(cqs|controle ?qualite ?semestriel(le)?|contrôle ?qualité ?semestriel(le)?|controlequalitesemestriel(le)?|contrôlequalitésemestriel(le)?)`)
)

// Default 返回现场默认配置
func Default() *QCMeta {
	return &QCMeta{
		Machines: map[int]models.MachineRef{
			145: {ID: 145, Name: "Versa HD 3", ColorTag: "#1976D2"},
			182: {ID: 182, Name: "Versa HD 2", ColorTag: "#FF9800"},
			99:  {ID: 99, Name: "TOMO1", ColorTag: "#388E3C"},
			121: {ID: 121, Name: "TOMO2", ColorTag: "#8E24AA"},
			177: {ID: 177, Name: "Versa HD 4", ColorTag: "#FBC02D"},
			162: {ID: 162, Name: "Versa HD 5", ColorTag: "#D32F2F"},
			159: {ID: 159, Name: "Versa HD 1", ColorTag: "#0288D1"},
			25:  {ID: 25, Name: "NOVALIS", ColorTag: "#F57C00"},
		},
		Exclusion: exclusionPattern,
		// 多模态机型的所有质控共用同一模块标识，只能按名称区分类别
		SpecialMachines: map[int]bool{99: true, 121: true},
		Categories: []*CategoryRule{
			{
				Code:         CategoryWeekly,
				Name:         "Contrôle qualité hebdomadaire",
				PeriodKind:   PeriodWeekly,
				ModuleIDs:    intSet(66, 64, 63, 62, 61, 60),
				NamePattern:  cqhPattern,
				NameFallback: false,
			},
			{
				Code:         CategoryMonthly,
				Name:         "Contrôle qualité mensuel",
				PeriodKind:   PeriodMonthly,
				ModuleIDs:    intSet(97, 98, 92, 90, 105, 104, 103),
				NamePattern:  cqmPattern,
				NameFallback: true,
			},
			{
				Code:         CategorySemestral,
				Name:         "Contrôle qualité semestriel",
				PeriodKind:   PeriodSemestral,
				ModuleIDs:    intSet(96, 95, 94, 93, 91, 106),
				NamePattern:  cqsPattern,
				NameFallback: true,
			},
		},
		EventCategories: []EventCategory{
			{Code: CategoryWeekly, ModuleIDs: intSet(66, 64, 63, 62, 61, 60)},
			{Code: CategoryMonthly, ModuleIDs: intSet(97, 98, 92, 90, 105, 104, 103)},
			{Code: CategorySemestral, ModuleIDs: intSet(96, 95, 94, 93, 91, 106)},
			{Code: "CQQ", ModuleIDs: intSet(25, 27, 28, 29, 30, 32, 36, 37, 38)},
			{Code: "TOMO", ModuleIDs: intSet(24, 26)},
		},
		YearStart: 2024,
		YearEnd:   time.Now().Year(),
	}
}

// LoadFromEnv 在默认配置上应用环境变量覆盖
// QC_MACHINES: {"145":{"name":"Versa HD 3","color_tag":"#1976D2"},...}
// QC_MODULES: {"CQH":[66,64],...}
// QC_SPECIAL_MACHINES: [99,121]
// QC_YEAR_START / QC_YEAR_END: 整数年份
func LoadFromEnv() *QCMeta {
	m := Default()

	if val := os.Getenv("QC_MACHINES"); val != "" {
		var raw map[string]struct {
			Name     string `json:"name"`
			ColorTag string `json:"color_tag"`
		}
		if err := json.Unmarshal([]byte(val), &raw); err != nil {
			slog.Error("解析QC_MACHINES失败，保留默认机器注册表", "error", err)
		} else {
			machines := make(map[int]models.MachineRef, len(raw))
			for idStr, entry := range raw {
				id, err := strconv.Atoi(idStr)
				if err != nil {
					slog.Error("QC_MACHINES包含非法机器标识", "id", idStr)
					continue
				}
				machines[id] = models.MachineRef{ID: id, Name: entry.Name, ColorTag: entry.ColorTag}
			}
			if len(machines) > 0 {
				m.Machines = machines
			}
		}
	}

	if val := os.Getenv("QC_MODULES"); val != "" {
		var raw map[string][]int
		if err := json.Unmarshal([]byte(val), &raw); err != nil {
			slog.Error("解析QC_MODULES失败，保留默认模块集合", "error", err)
		} else {
			for _, rule := range m.Categories {
				if ids, ok := raw[rule.Code]; ok {
					rule.ModuleIDs = intSet(ids...)
				}
			}
		}
	}

	if val := os.Getenv("QC_SPECIAL_MACHINES"); val != "" {
		var ids []int
		if err := json.Unmarshal([]byte(val), &ids); err != nil {
			slog.Error("解析QC_SPECIAL_MACHINES失败", "error", err)
		} else {
			m.SpecialMachines = intSet(ids...)
		}
	}

	if val := os.Getenv("QC_YEAR_START"); val != "" {
		if year, err := strconv.Atoi(val); err == nil {
			m.YearStart = year
		}
	}
	if val := os.Getenv("QC_YEAR_END"); val != "" {
		if year, err := strconv.Atoi(val); err == nil {
			m.YearEnd = year
		}
	}
	if m.YearEnd < m.YearStart {
		slog.Error("年份范围非法，回退为起始年", "start", m.YearStart, "end", m.YearEnd)
		m.YearEnd = m.YearStart
	}

	return m
}

// Category 按代码查找类别规则
func (m *QCMeta) Category(code string) (*CategoryRule, bool) {
	for _, rule := range m.Categories {
		if rule.Code == code {
			return rule, true
		}
	}
	return nil, false
}

// MachineNames 返回注册表全部机器名（未排序）
func (m *QCMeta) MachineNames() []string {
	names := make([]string, 0, len(m.Machines))
	for _, machine := range m.Machines {
		names = append(names, machine.Name)
	}
	return names
}

func intSet(ids ...int) map[int]bool {
	set := make(map[int]bool, len(ids))
	for _, id := range ids {
		set[id] = true
	}
	return set
}
