/*
 * @module service/scheduler/weekly_alert
 * @description 周控告警调度器：按cron节奏评估当前ISO周并推送未完成机器清单
 * @architecture 分层架构 - 服务层
 * @documentReference dev_docs/qc_tracking_requirements.md
 * @stateFlow 启动调度器 -> 定时触发 -> 防重检查 -> 评估 -> Webhook推送
 * @rules 任务不得与自身重叠；任一异常记录日志后跳过本轮，不重试不补跑；清单为空不推送
 * @dependencies github.com/robfig/cron/v3, service/distributed_lock
 * @refs service/qc/engine.go, service/alerting/notification.go
 */

package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/robfig/cron/v3"

	"qctrack-service/service/alerting"
	"qctrack-service/service/distributed_lock"
	"qctrack-service/service/qc"
)

// DefaultCronSpec 默认在周三与周五16点触发（含秒字段）
const DefaultCronSpec = "0 0 16 * * WED,FRI"

// 分布式锁的键与存活时长
const (
	lockKey = "weekly_alert"
	lockTTL = 10 * time.Minute
)

// WeeklyAlertScheduler 周控告警调度器
type WeeklyAlertScheduler struct {
	engine           *qc.Engine
	notifier         alerting.NotificationSender
	cron             *cron.Cron
	cronSpec         string
	distributedLock  distributed_lock.DistributedLock
	running          atomic.Bool
	schedulerStarted bool
}

// NewWeeklyAlertScheduler 创建调度器
func NewWeeklyAlertScheduler(engine *qc.Engine, notifier alerting.NotificationSender, cronSpec string) *WeeklyAlertScheduler {
	if cronSpec == "" {
		cronSpec = DefaultCronSpec
	}
	return &WeeklyAlertScheduler{
		engine:   engine,
		notifier: notifier,
		cron:     cron.New(cron.WithSeconds()),
		cronSpec: cronSpec,
	}
}

// SetDistributedLock 设置分布式锁（可选，多实例部署时防重）
func (s *WeeklyAlertScheduler) SetDistributedLock(lock distributed_lock.DistributedLock) {
	s.distributedLock = lock
	if lock != nil {
		slog.Info("周控告警调度器已启用分布式锁")
	}
}

// StartScheduler 启动调度器
func (s *WeeklyAlertScheduler) StartScheduler() error {
	if s.schedulerStarted {
		return fmt.Errorf("调度器已经启动")
	}

	if _, err := s.cron.AddFunc(s.cronSpec, s.RunOnce); err != nil {
		return fmt.Errorf("注册周控告警任务失败: %w", err)
	}
	s.cron.Start()
	s.schedulerStarted = true

	slog.Info("周控告警调度器启动完成", "cron", s.cronSpec)
	return nil
}

// StopScheduler 停止调度器
func (s *WeeklyAlertScheduler) StopScheduler() {
	if !s.schedulerStarted {
		return
	}
	s.cron.Stop()
	s.schedulerStarted = false
	slog.Info("周控告警调度器已停止")
}

// RunOnce 执行一轮周控检查
// 任何失败只记录日志并跳过，下一轮独立进行
func (s *WeeklyAlertScheduler) RunOnce() {
	if !s.running.CompareAndSwap(false, true) {
		slog.Warn("上一轮周控检查尚未结束，跳过本轮")
		return
	}
	defer s.running.Store(false)

	defer func() {
		if r := recover(); r != nil {
			slog.Error("周控检查发生异常，本轮跳过", "panic", r)
		}
	}()

	ctx := context.Background()

	if s.distributedLock != nil {
		acquired, err := s.distributedLock.TryLock(ctx, lockKey, lockTTL)
		if err != nil {
			slog.Error("获取调度锁失败，本轮跳过", "error", err)
			return
		}
		if !acquired {
			slog.Info("其他实例持有调度锁，本轮跳过")
			return
		}
		defer func() {
			if err := s.distributedLock.Unlock(ctx, lockKey); err != nil {
				slog.Error("释放调度锁失败", "error", err)
			}
		}()
	}

	late, week, err := s.engine.WeeklyLate(ctx, time.Now())
	if err != nil {
		slog.Error("周控评估失败，本轮跳过", "error", err)
		return
	}
	if len(late) == 0 {
		slog.Info("本周周控全部完成", "week", week)
		return
	}

	alert := &alerting.WeeklyAlert{
		WeekNumber:  week,
		Machines:    late,
		TriggeredAt: time.Now(),
	}
	if err := s.notifier.Send(alert); err != nil {
		slog.Error("周控告警推送失败", "week", week, "error", err)
		return
	}
	slog.Info("周控告警已推送", "week", week, "machines", late)
}
