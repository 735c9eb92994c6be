package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"sales-kpi/internal/logger"
	"sales-kpi/internal/metrics"
	"sales-kpi/internal/model"
)

var ErrWebhookNotConfigured = errors.New("webhook not configured")

type WebhookStatusError struct {
	Code int
	Body string
}

func (e *WebhookStatusError) Error() string {
	return fmt.Sprintf("webhook status %d: %s", e.Code, e.Body)
}

func (e *WebhookStatusError) StatusCode() int { return e.Code }

// Notifier posts plain-text messages to a Discord-style webhook.
type Notifier struct {
	webhookURL string
	timeout    time.Duration
	client     *http.Client
}

func NewNotifier(webhookURL string, timeout time.Duration) *Notifier {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Notifier{webhookURL: webhookURL, timeout: timeout, client: &http.Client{Timeout: timeout}}
}

func (n *Notifier) Enabled() bool { return n != nil && n.webhookURL != "" }

func (n *Notifier) Send(ctx context.Context, content string) error {
	if !n.Enabled() {
		return ErrWebhookNotConfigured
	}
	payload, err := json.Marshal(map[string]string{"content": content})
	if err != nil {
		return fmt.Errorf("encode webhook payload: %w", err)
	}

	start := time.Now()
	err = n.post(ctx, payload)
	metrics.ObserveExternal("webhook", "send", start, err)
	return err
}

func (n *Notifier) post(ctx context.Context, payload []byte) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.webhookURL, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("webhook call: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		data, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return &WebhookStatusError{Code: resp.StatusCode, Body: strings.TrimSpace(string(data))}
	}
	return nil
}

// NotifyDailyKPI forwards a submission in the background. Delivery problems
// are logged and never reach the caller.
func (n *Notifier) NotifyDailyKPI(userName string, rec model.DailyRecord) {
	if !n.Enabled() {
		return
	}
	msg := FormatDailyKPI(userName, rec)
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), n.timeout)
		defer cancel()
		if err := n.Send(ctx, msg); err != nil {
			logger.Warn("notify.daily_kpi.failed", "uid", rec.UserID, "date", rec.Date.String(), "err", err)
			return
		}
		logger.Debug("notify.daily_kpi.sent", "uid", rec.UserID, "date", rec.Date.String())
	}()
}

// FormatDailyKPI renders one submission as a single line.
func FormatDailyKPI(userName string, rec model.DailyRecord) string {
	c := rec.Counters
	var b strings.Builder
	fmt.Fprintf(&b, "📊 %s %s | 送信 手動%d/外注%d | 有効 手動%d/外注%d | 返信%d | 商談%d | 成約%d | 案件化%d | 進行中%d | 資料閲覧%d | 動画視聴%d",
		userName, rec.Date,
		c.EmailsSentManual, c.EmailsSentOutsource,
		c.ValidEmailsManual, c.ValidEmailsOutsource,
		c.RepliesReceived, c.MeetingsScheduled, c.DealsClosed, c.ProjectsCreated,
		c.OngoingProjects, c.SlideViews, c.VideoViews)
	if notes := strings.Join(strings.Fields(rec.Notes), " "); notes != "" {
		fmt.Fprintf(&b, " | メモ: %s", notes)
	}
	return b.String()
}
