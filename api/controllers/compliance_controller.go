/*
 * @module api/controllers/compliance_controller
 * @description 合规看板控制器：周期网格、符合率总览与未知机器审计清单
 * @architecture MVC架构 - 控制器层
 * @documentReference dev_docs/qc_tracking_requirements.md
 * @stateFlow 请求接收 -> 引擎评估 -> 响应返回
 * @rules 上游不可用时降级为空而合法的网格，看板保持可导航；审计清单来自评估返回值
 * @dependencies qctrack-service/service/qc, github.com/go-chi/render
 * @refs api/routes.go, service/qc/engine.go
 */

package controllers

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/render"

	"qctrack-service/service"
	"qctrack-service/service/annotations"
	"qctrack-service/service/models"
	"qctrack-service/service/qc"
)

// ComplianceController 合规看板控制器
type ComplianceController struct {
	engine      *qc.Engine
	annotations *annotations.Service
}

// NewComplianceController 创建合规看板控制器实例
func NewComplianceController() *ComplianceController {
	return &ComplianceController{
		engine:      service.GlobalEngine,
		annotations: service.GlobalAnnotationService,
	}
}

// NewComplianceControllerWith 以显式依赖创建控制器（测试用）
func NewComplianceControllerWith(engine *qc.Engine, ann *annotations.Service) *ComplianceController {
	return &ComplianceController{engine: engine, annotations: ann}
}

// DashboardResponse 看板响应：三类网格、符合率与单元格批注索引
type DashboardResponse struct {
	Year        int                               `json:"year"`
	Grids       map[string]*models.ComplianceGrid `json:"grids"`
	Rates       map[string]map[string]float64     `json:"rates"`
	Machines    []string                          `json:"machines"`
	Annotations map[string]models.Annotation      `json:"annotations"`
}

// OverviewResponse 符合率总览响应
type OverviewResponse struct {
	Year         int                           `json:"year"`
	Machines     []string                      `json:"machines"`
	Rates        map[string]map[string]float64 `json:"rates"`
	Averages     map[string]float64            `json:"averages"`
	WeekNumber   int                           `json:"week_number"`
	TotalWeeks   int                           `json:"total_weeks"`
	ProgressRate float64                       `json:"progress_rate"`
}

// Dashboard 获取合规看板网格
// @Summary 获取周期合规看板
// @Description 返回周/月/半年三类周期网格、符合率与批注索引；上游不可用时返回空网格
// @Tags 质控合规
// @Produce json
// @Param year query int false "年份过滤，0为全部"
// @Param scope query string false "周网格列模式" Enums(registry,observed) default(registry)
// @Success 200 {object} APIResponse{data=DashboardResponse}
// @Router /qc/dashboard [get]
func (c *ComplianceController) Dashboard(w http.ResponseWriter, r *http.Request) {
	year := parseYear(r)

	weeklyMode := qc.ColumnsRegistry
	if r.URL.Query().Get("scope") == "observed" {
		weeklyMode = qc.ColumnsObserved
	}

	result, err := c.engine.Evaluate(r.Context(), year, weeklyMode)
	if err != nil {
		slog.Error("看板评估失败，降级为空结果", "error", err)
		render.JSON(w, r, SuccessResponse("上游数据源不可用，返回空结果", DashboardResponse{
			Year:        year,
			Grids:       result.Grids,
			Rates:       result.Rates,
			Machines:    result.Machines,
			Annotations: map[string]models.Annotation{},
		}))
		return
	}

	index, err := c.annotations.IndexByCell(r.Context())
	if err != nil {
		slog.Error("批注索引读取失败", "error", err)
		index = map[string]models.Annotation{}
	}

	render.JSON(w, r, SuccessResponse("查询成功", DashboardResponse{
		Year:        year,
		Grids:       result.Grids,
		Rates:       result.Rates,
		Machines:    result.Machines,
		Annotations: index,
	}))
}

// Overview 获取符合率总览
// @Summary 获取每机器每类别的符合率总览
// @Description 返回按观测机器计算的符合率、类别平均值与年度周进度
// @Tags 质控合规
// @Produce json
// @Param year query int false "年份过滤，0为全部"
// @Success 200 {object} APIResponse{data=OverviewResponse}
// @Router /qc/overview [get]
func (c *ComplianceController) Overview(w http.ResponseWriter, r *http.Request) {
	year := parseYear(r)
	week, totalWeeks, percent := qc.WeekProgress(time.Now())

	result, err := c.engine.Evaluate(r.Context(), year, qc.ColumnsObserved)
	if err != nil {
		slog.Error("符合率评估失败，降级为空结果", "error", err)
	}

	averages := make(map[string]float64, len(result.Rates))
	for code, rates := range result.Rates {
		averages[code] = qc.AverageRate(rates)
	}

	render.JSON(w, r, SuccessResponse("查询成功", OverviewResponse{
		Year:         year,
		Machines:     result.Machines,
		Rates:        result.Rates,
		Averages:     averages,
		WeekNumber:   week,
		TotalWeeks:   totalWeeks,
		ProgressRate: percent,
	}))
}

// AuditMachines 获取未知机器审计清单
// @Summary 获取未识别机器的记录清单
// @Description 返回对象标识不在机器注册表中的记录，供人工核查，不参与任何计分
// @Tags 质控合规
// @Produce json
// @Success 200 {object} APIResponse{data=[]models.AuditRecord}
// @Router /qc/audit/machines [get]
func (c *ComplianceController) AuditMachines(w http.ResponseWriter, r *http.Request) {
	result, err := c.engine.Evaluate(r.Context(), 0, qc.ColumnsObserved)
	if err != nil {
		slog.Error("审计评估失败，降级为空结果", "error", err)
	}
	render.JSON(w, r, SuccessResponse("查询成功", dedupeAudit(result.AuditList)))
}

func parseYear(r *http.Request) int {
	if val := r.URL.Query().Get("year"); val != "" {
		if year, err := strconv.Atoi(val); err == nil {
			return year
		}
	}
	return time.Now().Year()
}

// dedupeAudit 按(对象,模块,名称)去重，保留首个出现的日期
func dedupeAudit(records []models.AuditRecord) []models.AuditRecord {
	type key struct {
		ObjectID int
		ModuleID int
		Name     string
	}
	seen := make(map[key]bool)
	deduped := make([]models.AuditRecord, 0, len(records))
	for _, rec := range records {
		k := key{ObjectID: rec.ObjectID, ModuleID: rec.ModuleID, Name: rec.Name}
		if seen[k] {
			continue
		}
		seen[k] = true
		deduped = append(deduped, rec)
	}
	return deduped
}
