package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"sales-kpi/internal/metrics"
	"sales-kpi/internal/model"
)

var (
	ErrInvalidDate      = errors.New("invalid date")
	ErrStoreUnavailable = errors.New("record store unavailable")
)

// WeekLength is the inclusive window size: weekStart .. weekStart+6.
const WeekLength = 7

// RecordStore is the read side the weekly summary needs. *DailyService
// satisfies it.
type RecordStore interface {
	FetchRecordsInRange(ctx context.Context, userID int, start, end model.Date) ([]model.DailyRecord, error)
}

type WeeklyService struct{ store RecordStore }

func NewWeeklyService(store RecordStore) *WeeklyService { return &WeeklyService{store: store} }

// Summarize builds the weekly summary for the week starting at weekStart
// (YYYY-MM-DD). An empty week is not an error.
func (s *WeeklyService) Summarize(ctx context.Context, userID int, weekStart string) (*model.WeeklySummary, error) {
	start, err := model.ParseDate(weekStart)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidDate, err)
	}
	end := start.AddDays(WeekLength - 1)

	began := time.Now()
	records, err := s.store.FetchRecordsInRange(ctx, userID, start, end)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrStoreUnavailable, err)
	}

	summary := BuildWeeklySummary(start, records)
	metrics.WeeklySummaryBuildSeconds.Observe(time.Since(began).Seconds())
	return &summary, nil
}

// BuildWeeklySummary aggregates already-normalised records. Records are sorted
// by date first, so the ongoing-projects snapshot always comes from the latest
// day regardless of input order.
func BuildWeeklySummary(weekStart model.Date, records []model.DailyRecord) model.WeeklySummary {
	sorted := make([]model.DailyRecord, len(records))
	copy(sorted, records)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Date.Before(sorted[j].Date) })

	var t model.Counters
	for _, r := range sorted {
		t.EmailsSentManual += r.EmailsSentManual
		t.EmailsSentOutsource += r.EmailsSentOutsource
		t.ValidEmailsManual += r.ValidEmailsManual
		t.ValidEmailsOutsource += r.ValidEmailsOutsource
		t.RepliesReceived += r.RepliesReceived
		t.MeetingsScheduled += r.MeetingsScheduled
		t.DealsClosed += r.DealsClosed
		t.ProjectsCreated += r.ProjectsCreated
		t.SlideViews += r.SlideViews
		t.VideoViews += r.VideoViews
	}
	if n := len(sorted); n > 0 {
		t.OngoingProjects = sorted[n-1].OngoingProjects
	}

	validEmails := t.ValidEmails()
	return model.WeeklySummary{
		WeekStart:     weekStart,
		WeekEnd:       weekStart.AddDays(WeekLength - 1),
		DailyData:     sorted,
		Totals:        t,
		ReplyRate:     model.NewRate(t.RepliesReceived, validEmails),
		MeetingRate:   model.NewRate(t.MeetingsScheduled, t.RepliesReceived),
		DealRate:      model.NewRate(t.DealsClosed, t.MeetingsScheduled),
		ProjectRate:   model.NewRate(t.ProjectsCreated, t.MeetingsScheduled),
		SlideViewRate: model.NewRate(t.SlideViews, validEmails),
		VideoViewRate: model.NewRate(t.VideoViews, validEmails),
	}
}
