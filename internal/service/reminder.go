package service

import (
	"context"
	"fmt"
	"time"

	"sales-kpi/internal/logger"

	"github.com/robfig/cron/v3"
)

// Sender delivers one message. *Notifier satisfies it.
type Sender interface {
	Send(ctx context.Context, content string) error
}

// Locker lets exactly one replica run a job per key.
type Locker interface {
	Once(ctx context.Context, key string, ttl time.Duration, fn func() error) error
}

type ReminderService struct {
	cron   *cron.Cron
	sender Sender
	locker Locker
	appURL string
	loc    *time.Location
}

func NewReminderService(sender Sender, locker Locker, appURL string, loc *time.Location) *ReminderService {
	if loc == nil {
		loc = time.Local
	}
	return &ReminderService{
		cron:   cron.New(cron.WithLocation(loc)),
		sender: sender,
		locker: locker,
		appURL: appURL,
		loc:    loc,
	}
}

// Schedule registers the daily and weekly reminders. Specs use the standard
// five-field cron format.
func (r *ReminderService) Schedule(dailySpec, weeklySpec string) error {
	if _, err := r.cron.AddFunc(dailySpec, func() { r.run("daily", r.SendDailyReminder) }); err != nil {
		return fmt.Errorf("daily reminder schedule %q: %w", dailySpec, err)
	}
	if _, err := r.cron.AddFunc(weeklySpec, func() { r.run("weekly", r.SendWeeklyReminder) }); err != nil {
		return fmt.Errorf("weekly reminder schedule %q: %w", weeklySpec, err)
	}
	return nil
}

func (r *ReminderService) Start() {
	r.cron.Start()
	logger.Info("reminder.started", "entries", len(r.cron.Entries()), "tz", r.loc.String())
}

// Stop waits for running jobs or until ctx is done.
func (r *ReminderService) Stop(ctx context.Context) {
	select {
	case <-r.cron.Stop().Done():
	case <-ctx.Done():
	}
}

func (r *ReminderService) run(kind string, send func(context.Context) error) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()
	if err := send(ctx); err != nil {
		logger.Warn("reminder.failed", "kind", kind, "err", err)
		return
	}
	logger.Info("reminder.sent", "kind", kind)
}

func (r *ReminderService) SendDailyReminder(ctx context.Context) error {
	return r.deliver(ctx, "daily", DailyReminderMessage(r.appURL))
}

func (r *ReminderService) SendWeeklyReminder(ctx context.Context) error {
	return r.deliver(ctx, "weekly", WeeklyReminderMessage(r.appURL))
}

func (r *ReminderService) deliver(ctx context.Context, kind, msg string) error {
	send := func() error { return r.sender.Send(ctx, msg) }
	if r.locker == nil {
		return send()
	}
	key := fmt.Sprintf("reminder:%s:%s", kind, time.Now().In(r.loc).Format(time.DateOnly))
	return r.locker.Once(ctx, key, 23*time.Hour, send)
}

func DailyReminderMessage(appURL string) string {
	return "📊 今日の営業KPIを入力してください！\n" + appURL + "/daily-input"
}

func WeeklyReminderMessage(appURL string) string {
	return "📈 週次レビューの時間です！今週の振り返りを行いましょう。\n" + appURL + "/weekly-review"
}
