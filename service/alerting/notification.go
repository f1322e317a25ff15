/*
 * @module service/alerting/notification
 * @description 通知渠道接口与Webhook实现，向协作平台推送周控未完成告警
 * @architecture 分层架构 - 业务服务层
 * @documentReference dev_docs/qc_tracking_requirements.md
 * @stateFlow 告警构造 -> 文本格式化 -> Webhook投递
 * @rules 清单为空不发送；投递限时；HTTP>=400视为失败，由调度器记录后跳过
 * @dependencies net/http, bytes, encoding/json
 * @refs service/scheduler/weekly_alert.go
 */

package alerting

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// WeeklyAlert 周控未完成告警
type WeeklyAlert struct {
	WeekNumber  int       `json:"week_number"`
	Machines    []string  `json:"machines"`
	TriggeredAt time.Time `json:"triggered_at"`
}

// NotificationSender 通知发送器接口
type NotificationSender interface {
	Send(alert *WeeklyAlert) error
	GetChannelType() string
	IsEnabled() bool
}

// WebhookNotificationChannel Webhook通知渠道（Teams兼容的text负载）
type WebhookNotificationChannel struct {
	URL     string            `json:"url"`
	Headers map[string]string `json:"headers"`
	Timeout time.Duration     `json:"timeout"`
	Enabled bool              `json:"is_enabled"`
}

// NewWebhookChannel 创建Webhook渠道；URL为空时渠道禁用
func NewWebhookChannel(url string, timeout time.Duration) *WebhookNotificationChannel {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &WebhookNotificationChannel{
		URL:     url,
		Timeout: timeout,
		Enabled: url != "",
	}
}

// Send 发送Webhook通知
func (w *WebhookNotificationChannel) Send(alert *WeeklyAlert) error {
	if !w.Enabled {
		return fmt.Errorf("Webhook通知渠道未启用")
	}
	if len(alert.Machines) == 0 {
		return nil
	}

	payload, err := json.Marshal(map[string]string{"text": FormatWeeklyAlertText(alert)})
	if err != nil {
		return fmt.Errorf("序列化告警数据失败: %v", err)
	}

	req, err := http.NewRequest(http.MethodPost, w.URL, bytes.NewBuffer(payload))
	if err != nil {
		return fmt.Errorf("创建HTTP请求失败: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	for k, v := range w.Headers {
		req.Header.Set(k, v)
	}

	client := &http.Client{Timeout: w.Timeout}
	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("发送Webhook通知失败: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return fmt.Errorf("Webhook通知响应错误: %d", resp.StatusCode)
	}
	return nil
}

// GetChannelType 获取渠道类型
func (w *WebhookNotificationChannel) GetChannelType() string {
	return "webhook"
}

// IsEnabled 检查是否启用
func (w *WebhookNotificationChannel) IsEnabled() bool {
	return w.Enabled
}

// FormatWeeklyAlertText 构造告警正文（保持现场既有的法语话术）
func FormatWeeklyAlertText(alert *WeeklyAlert) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "🚨 **Alerte CQH hebdo**\n\n")
	fmt.Fprintf(&sb, "Les CQH suivants n'ont pas été réalisés pour la semaine %d :\n", alert.WeekNumber)
	for _, machine := range alert.Machines {
		fmt.Fprintf(&sb, "• %s\n", machine)
	}
	sb.WriteString("Merci de vérifier avant la clôture de la semaine !")
	return sb.String()
}
