/*
 * @module api/controllers/annotation_controller_test
 * @description 批注控制器单元测试：创建、校验失败与列表
 * @architecture 单元测试 - 内存sqlite承载服务层
 * @documentReference dev_docs/qc_tracking_requirements.md
 * @stateFlow 服务构造 -> HTTP请求 -> 响应信封验证
 * @rules 校验失败必须是400信封，不落库
 * @dependencies testing, testify, httptest
 * @refs annotation_controller.go
 */

package controllers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"qctrack-service/service/models"
)

func TestAnnotationController_Create(t *testing.T) {
	controller := NewAnnotationControllerWith(newTestAnnotationService(t))

	body := `{"machine":"Versa HD 1","period_label":"S10","comment":"CQH reporté","author":"physicien"}`
	req := httptest.NewRequest(http.MethodPost, "/qc/annotations", strings.NewReader(body))
	rec := httptest.NewRecorder()
	controller.Create(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	envelope, data := decodeEnvelope(t, rec)
	assert.Equal(t, 0, envelope.Status)

	var created models.Annotation
	require.NoError(t, json.Unmarshal(data, &created))
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, "physicien", created.Author)
}

func TestAnnotationController_Create_ValidationFailure(t *testing.T) {
	svc := newTestAnnotationService(t)
	controller := NewAnnotationControllerWith(svc)

	req := httptest.NewRequest(http.MethodPost, "/qc/annotations", strings.NewReader(`{"machine":"Versa HD 1"}`))
	rec := httptest.NewRecorder()
	controller.Create(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	envelope, _ := decodeEnvelope(t, rec)
	assert.Equal(t, 400, envelope.Status)

	list, err := svc.List(req.Context())
	require.NoError(t, err)
	assert.Empty(t, list, "校验失败不得落库")
}

func TestAnnotationController_Create_MalformedBody(t *testing.T) {
	controller := NewAnnotationControllerWith(newTestAnnotationService(t))

	req := httptest.NewRequest(http.MethodPost, "/qc/annotations", strings.NewReader("{pas du json"))
	rec := httptest.NewRecorder()
	controller.Create(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAnnotationController_List(t *testing.T) {
	svc := newTestAnnotationService(t)
	controller := NewAnnotationControllerWith(svc)

	create := func(body string) {
		req := httptest.NewRequest(http.MethodPost, "/qc/annotations", strings.NewReader(body))
		rec := httptest.NewRecorder()
		controller.Create(rec, req)
		require.Equal(t, http.StatusOK, rec.Code)
	}
	create(`{"machine":"TOMO1","period_label":"Janvier 2025","comment":"Maintenance"}`)
	create(`{"machine":"NOVALIS","period_label":"S2 2025","comment":"Arrêt programmé"}`)

	req := httptest.NewRequest(http.MethodGet, "/qc/annotations", nil)
	rec := httptest.NewRecorder()
	controller.List(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	_, data := decodeEnvelope(t, rec)

	var list []models.Annotation
	require.NoError(t, json.Unmarshal(data, &list))
	require.Len(t, list, 2)
	assert.Equal(t, "TOMO1", list[0].Machine)
}
