/*
 * @module service/scheduler/weekly_alert_test
 * @description 周控告警调度器单元测试：触发逻辑、防重与失败跳过
 * @architecture 单元测试 - 桩数据源与桩通知器
 * @documentReference dev_docs/qc_tracking_requirements.md
 * @stateFlow 桩构造 -> RunOnce -> 通知行为验证
 * @rules 不启动真实cron，直接驱动RunOnce
 * @dependencies testing, testify
 * @refs weekly_alert.go
 */

package scheduler

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"qctrack-service/service/alerting"
	"qctrack-service/service/meta"
	"qctrack-service/service/models"
	"qctrack-service/service/qc"
)

// stubRecordSource 桩数据源
type stubRecordSource struct {
	records []models.RawRecord
	err     error
}

func (s *stubRecordSource) FetchRecords(ctx context.Context) ([]models.RawRecord, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.records, nil
}

// stubNotifier 记录发送调用的桩通知器
type stubNotifier struct {
	mu     sync.Mutex
	alerts []*alerting.WeeklyAlert
	err    error
}

func (s *stubNotifier) Send(alert *alerting.WeeklyAlert) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	s.alerts = append(s.alerts, alert)
	return nil
}

func (s *stubNotifier) GetChannelType() string { return "stub" }
func (s *stubNotifier) IsEnabled() bool        { return true }

func (s *stubNotifier) sent() []*alerting.WeeklyAlert {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.alerts
}

func schedulerMeta() *meta.QCMeta {
	m := meta.Default()
	m.YearStart = time.Now().Year() - 1
	m.YearEnd = time.Now().Year() + 1
	return m
}

func TestRunOnce_SendsAlertForLateMachines(t *testing.T) {
	// 没有任何记录：全部注册机器都未完成本周周控
	engine := qc.NewEngine(&stubRecordSource{}, schedulerMeta())
	notifier := &stubNotifier{}
	s := NewWeeklyAlertScheduler(engine, notifier, "")

	s.RunOnce()

	alerts := notifier.sent()
	require.Len(t, alerts, 1)
	_, wantWeek := time.Now().ISOWeek()
	assert.Equal(t, wantWeek, alerts[0].WeekNumber)
	assert.Len(t, alerts[0].Machines, len(schedulerMeta().Machines))
}

func TestRunOnce_UpstreamFailureSkipsRound(t *testing.T) {
	engine := qc.NewEngine(&stubRecordSource{err: fmt.Errorf("base inaccessible")}, schedulerMeta())
	notifier := &stubNotifier{}
	s := NewWeeklyAlertScheduler(engine, notifier, "")

	s.RunOnce()

	assert.Empty(t, notifier.sent(), "评估失败本轮必须跳过而不是发送")
}

func TestRunOnce_NotifierFailureDoesNotPanic(t *testing.T) {
	engine := qc.NewEngine(&stubRecordSource{}, schedulerMeta())
	notifier := &stubNotifier{err: fmt.Errorf("webhook indisponible")}
	s := NewWeeklyAlertScheduler(engine, notifier, "")

	assert.NotPanics(t, s.RunOnce)
}

func TestRunOnce_OverlapGuard(t *testing.T) {
	engine := qc.NewEngine(&stubRecordSource{}, schedulerMeta())
	notifier := &stubNotifier{}
	s := NewWeeklyAlertScheduler(engine, notifier, "")

	// 人工占住运行标记，模拟上一轮尚未结束
	require.True(t, s.running.CompareAndSwap(false, true))
	s.RunOnce()
	s.running.Store(false)

	assert.Empty(t, notifier.sent(), "运行中的轮次未结束时新轮次必须跳过")
}

func TestStartScheduler_RejectsDoubleStart(t *testing.T) {
	engine := qc.NewEngine(&stubRecordSource{}, schedulerMeta())
	s := NewWeeklyAlertScheduler(engine, &stubNotifier{}, DefaultCronSpec)

	require.NoError(t, s.StartScheduler())
	defer s.StopScheduler()

	assert.Error(t, s.StartScheduler())
}

func TestNewWeeklyAlertScheduler_DefaultCronSpec(t *testing.T) {
	engine := qc.NewEngine(&stubRecordSource{}, schedulerMeta())
	s := NewWeeklyAlertScheduler(engine, &stubNotifier{}, "")
	assert.Equal(t, DefaultCronSpec, s.cronSpec)
}
