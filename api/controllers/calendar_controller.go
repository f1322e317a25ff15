/*
 * @module api/controllers/calendar_controller
 * @description 日历事件控制器：把检查记录平铺成前端日历可消费的事件序列
 * @architecture MVC架构 - 控制器层
 * @documentReference dev_docs/qc_tracking_requirements.md
 * @stateFlow 请求接收 -> 事件投影 -> 响应返回
 * @rules 上游不可用时返回空事件列表而非错误页
 * @dependencies qctrack-service/service/qc, github.com/go-chi/render
 * @refs api/routes.go, service/qc/events.go
 */

package controllers

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/render"

	"qctrack-service/service"
	"qctrack-service/service/qc"
)

// CalendarController 日历事件控制器
type CalendarController struct {
	engine *qc.Engine
}

// NewCalendarController 创建日历事件控制器实例
func NewCalendarController() *CalendarController {
	return &CalendarController{engine: service.GlobalEngine}
}

// NewCalendarControllerWith 以显式依赖创建控制器（测试用）
func NewCalendarControllerWith(engine *qc.Engine) *CalendarController {
	return &CalendarController{engine: engine}
}

// Events 获取日历事件
// @Summary 获取质控日历事件序列
// @Description 每条有效记录一个事件，标题带类别前缀，携带机器名与颜色标签
// @Tags 质控日历
// @Produce json
// @Success 200 {object} APIResponse{data=[]models.CalendarEvent}
// @Router /qc/events [get]
func (c *CalendarController) Events(w http.ResponseWriter, r *http.Request) {
	events, err := c.engine.Events(r.Context())
	if err != nil {
		slog.Error("日历事件生成失败，返回空列表", "error", err)
	}
	render.JSON(w, r, SuccessResponse("查询成功", events))
}
