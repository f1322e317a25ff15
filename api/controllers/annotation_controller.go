/*
 * @module api/controllers/annotation_controller
 * @description 单元格批注控制器：为具体机器与周期的质控单元格附加说明文字
 * @architecture MVC架构 - 控制器层
 * @documentReference dev_docs/qc_tracking_requirements.md
 * @stateFlow 请求接收 -> 参数校验 -> 服务层持久化 -> 响应返回
 * @rules 机器名、周期标签、内容为必填项；作者缺省为inconnu
 * @dependencies qctrack-service/service/annotations, github.com/go-chi/render
 * @refs api/routes.go, service/annotations/annotation_service.go
 */

package controllers

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/render"

	"qctrack-service/service"
	"qctrack-service/service/annotations"
)

// AnnotationController 批注控制器
type AnnotationController struct {
	annotations *annotations.Service
}

// NewAnnotationController 创建批注控制器实例
func NewAnnotationController() *AnnotationController {
	return &AnnotationController{annotations: service.GlobalAnnotationService}
}

// NewAnnotationControllerWith 以显式依赖创建控制器（测试用）
func NewAnnotationControllerWith(svc *annotations.Service) *AnnotationController {
	return &AnnotationController{annotations: svc}
}

// Create 创建批注
// @Summary 为某机器某周期的单元格创建批注
// @Tags 质控批注
// @Accept json
// @Produce json
// @Param annotation body annotations.CreateRequest true "批注内容"
// @Success 200 {object} APIResponse{data=models.Annotation}
// @Failure 400 {object} APIResponse
// @Failure 500 {object} APIResponse
// @Router /qc/annotations [post]
func (c *AnnotationController) Create(w http.ResponseWriter, r *http.Request) {
	var req annotations.CreateRequest
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, BadRequestResponse("请求体解析失败", nil))
		return
	}

	created, err := c.annotations.Create(r.Context(), req)
	if err != nil {
		if annotations.IsValidationError(err) {
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, BadRequestResponse(err.Error(), nil))
			return
		}
		slog.Error("批注创建失败", "machine", req.Machine, "period", req.PeriodLabel, "error", err)
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, InternalErrorResponse("批注保存失败", nil))
		return
	}

	render.JSON(w, r, SuccessResponse("创建成功", created))
}

// List 查询全部批注
// @Summary 查询全部单元格批注
// @Tags 质控批注
// @Produce json
// @Success 200 {object} APIResponse{data=[]models.Annotation}
// @Failure 500 {object} APIResponse
// @Router /qc/annotations [get]
func (c *AnnotationController) List(w http.ResponseWriter, r *http.Request) {
	list, err := c.annotations.List(r.Context())
	if err != nil {
		slog.Error("批注查询失败", "error", err)
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, InternalErrorResponse("批注查询失败", nil))
		return
	}
	render.JSON(w, r, SuccessResponse("查询成功", list))
}
