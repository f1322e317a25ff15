/*
 * @module api/controllers/response
 * @description 统一API响应结构与构造函数
 * @architecture MVC架构 - 控制器层
 * @documentReference dev_docs/qc_tracking_requirements.md
 * @stateFlow 无状态
 * @rules 所有JSON接口使用统一的{status,msg,data}信封
 * @refs api/routes.go
 */

package controllers

// APIResponse 统一API响应结构
type APIResponse struct {
	Status int         `json:"status" example:"0"`
	Msg    string      `json:"msg" example:"操作成功"`
	Data   interface{} `json:"data,omitempty"`
}

// SuccessResponse 成功响应
func SuccessResponse(msg string, data interface{}) *APIResponse {
	return &APIResponse{Status: 0, Msg: msg, Data: data}
}

// BadRequestResponse 请求参数错误响应
func BadRequestResponse(msg string, data interface{}) *APIResponse {
	return &APIResponse{Status: 400, Msg: msg, Data: data}
}

// NotFoundResponse 资源不存在响应
func NotFoundResponse(msg string, data interface{}) *APIResponse {
	return &APIResponse{Status: 404, Msg: msg, Data: data}
}

// InternalErrorResponse 服务内部错误响应
func InternalErrorResponse(msg string, data interface{}) *APIResponse {
	return &APIResponse{Status: 500, Msg: msg, Data: data}
}
