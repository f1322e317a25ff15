/*
 * @module api/controllers/export_controller
 * @description 网格导出控制器：CSV（UTF-8 BOM、分号分隔）与xlsx两种表格格式
 * @architecture MVC架构 - 控制器层
 * @documentReference dev_docs/qc_tracking_requirements.md
 * @stateFlow 请求接收 -> 引擎评估 -> 网格序列化 -> 附件下载
 * @rules CSV一行一周期一列一机器；BOM保证表格软件识别UTF-8；单元格为状态枚举词
 * @dependencies qctrack-service/service/qc, github.com/go-chi/chi/v5
 * @refs api/routes.go, service/qc/exporter.go
 */

package controllers

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"qctrack-service/service"
	"qctrack-service/service/meta"
	"qctrack-service/service/models"
	"qctrack-service/service/qc"
)

// 导出路径段到类别代码的映射
var exportCategories = map[string]string{
	"weekly":    meta.CategoryWeekly,
	"monthly":   meta.CategoryMonthly,
	"semestral": meta.CategorySemestral,
}

// ExportController 网格导出控制器
type ExportController struct {
	engine *qc.Engine
}

// NewExportController 创建导出控制器实例
func NewExportController() *ExportController {
	return &ExportController{engine: service.GlobalEngine}
}

// NewExportControllerWith 以显式依赖创建控制器（测试用）
func NewExportControllerWith(engine *qc.Engine) *ExportController {
	return &ExportController{engine: engine}
}

// ExportCSV 导出网格CSV
// @Summary 导出某一类别的周期网格CSV
// @Description 分号分隔、UTF-8带BOM，兼容Excel直接打开
// @Tags 质控导出
// @Produce text/csv
// @Param category path string true "类别" Enums(weekly,monthly,semestral)
// @Param year query int false "年份过滤，0为全部"
// @Success 200 {string} string "CSV内容"
// @Failure 400 {object} APIResponse
// @Router /qc/export/{category}.csv [get]
func (c *ExportController) ExportCSV(w http.ResponseWriter, r *http.Request) {
	grid, code, ok := c.resolveGrid(w, r)
	if !ok {
		return
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%s_dashboard.csv", code))
	if err := qc.WriteGridCSV(w, grid); err != nil {
		slog.Error("CSV导出失败", "category", code, "error", err)
	}
}

// ExportXLSX 导出网格xlsx
// @Summary 导出某一类别的周期网格xlsx
// @Description 与CSV同构的电子表格格式
// @Tags 质控导出
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param category path string true "类别" Enums(weekly,monthly,semestral)
// @Param year query int false "年份过滤，0为全部"
// @Success 200 {string} string "xlsx内容"
// @Failure 400 {object} APIResponse
// @Router /qc/export/{category}.xlsx [get]
func (c *ExportController) ExportXLSX(w http.ResponseWriter, r *http.Request) {
	grid, code, ok := c.resolveGrid(w, r)
	if !ok {
		return
	}

	content, err := qc.GenerateGridXLSX(grid)
	if err != nil {
		slog.Error("xlsx导出失败", "category", code, "error", err)
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, InternalErrorResponse("xlsx生成失败", nil))
		return
	}

	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%s_dashboard.xlsx", code))
	_, _ = w.Write(content)
}

// resolveGrid 解析类别路径参数并评估对应网格；失败时已写好响应
func (c *ExportController) resolveGrid(w http.ResponseWriter, r *http.Request) (*models.ComplianceGrid, string, bool) {
	category := chi.URLParam(r, "category")
	code, ok := exportCategories[category]
	if !ok {
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, BadRequestResponse("未知的导出类别: "+category, nil))
		return nil, "", false
	}

	result, err := c.engine.Evaluate(r.Context(), parseYear(r), qc.ColumnsRegistry)
	if err != nil {
		// 降级导出空网格：文件仍然合法，只是没有数据行
		slog.Error("导出评估失败，降级为空网格", "category", code, "error", err)
	}

	grid, ok := result.Grids[code]
	if !ok {
		grid = &models.ComplianceGrid{Category: code, Machines: []string{}}
	}
	return grid, code, true
}
