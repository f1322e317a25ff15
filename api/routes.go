/*
 * @module api/routes
 * @description API路由配置模块，负责初始化和配置所有HTTP路由
 * @architecture RESTful API架构
 * @documentReference dev_docs/qc_tracking_requirements.md
 * @stateFlow 无状态HTTP请求处理
 * @rules 遵循RESTful API设计规范，统一错误处理和响应格式
 * @dependencies github.com/go-chi/chi/v5, github.com/go-chi/cors, github.com/go-chi/render
 * @refs api/controllers
 */

package api

import (
	"qctrack-service/api/controllers"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/render"
)

// InitRoute 初始化所有API路由
func InitRoute(r *chi.Mux) {
	// 基础中间件
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(render.SetContentType(render.ContentTypeJSON))

	// CORS配置
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link", "Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// 健康检查
	healthController := controllers.NewHealthController()
	r.Get("/health", healthController.Health)
	r.Get("/ready", healthController.Ready)

	// 质控追踪
	r.Route("/qc", func(r chi.Router) {
		complianceController := controllers.NewComplianceController()
		r.Get("/overview", complianceController.Overview)
		r.Get("/dashboard", complianceController.Dashboard)
		r.Get("/audit/machines", complianceController.AuditMachines)

		// 日历事件投影
		calendarController := controllers.NewCalendarController()
		r.Get("/events", calendarController.Events)

		// 网格导出
		exportController := controllers.NewExportController()
		r.Get("/export/{category}.csv", exportController.ExportCSV)
		r.Get("/export/{category}.xlsx", exportController.ExportXLSX)

		// 单元格批注
		annotationController := controllers.NewAnnotationController()
		r.Route("/annotations", func(r chi.Router) {
			r.Post("/", annotationController.Create)
			r.Get("/", annotationController.List)
		})
	})
}
