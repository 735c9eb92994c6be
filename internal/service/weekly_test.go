package service

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"sales-kpi/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubStore struct {
	records    []model.DailyRecord
	err        error
	calls      int
	start, end model.Date
}

func (s *stubStore) FetchRecordsInRange(_ context.Context, _ int, start, end model.Date) ([]model.DailyRecord, error) {
	s.calls++
	s.start, s.end = start, end
	return s.records, s.err
}

func day(s string) model.Date {
	d, err := model.ParseDate(s)
	if err != nil {
		panic(err)
	}
	return d
}

func twoDayWeek() []model.DailyRecord {
	return []model.DailyRecord{
		{Date: day("2024-01-08"), Counters: model.Counters{
			ValidEmailsManual: 10, ValidEmailsOutsource: 0, RepliesReceived: 2, MeetingsScheduled: 1,
			DealsClosed: 0, ProjectsCreated: 0, OngoingProjects: 3, SlideViews: 1, VideoViews: 0,
		}},
		{Date: day("2024-01-09"), Counters: model.Counters{
			ValidEmailsManual: 5, ValidEmailsOutsource: 5, RepliesReceived: 1, MeetingsScheduled: 1,
			DealsClosed: 1, ProjectsCreated: 1, OngoingProjects: 5, SlideViews: 2, VideoViews: 1,
		}},
	}
}

func TestSummarize_TwoDayScenario(t *testing.T) {
	store := &stubStore{records: twoDayWeek()}
	s := NewWeeklyService(store)

	sum, err := s.Summarize(context.Background(), 1, "2024-01-08")
	require.NoError(t, err)

	assert.Equal(t, 20, sum.Totals.ValidEmails())
	assert.Equal(t, 3, sum.Totals.RepliesReceived)
	assert.Equal(t, 2, sum.Totals.MeetingsScheduled)
	assert.Equal(t, 1, sum.Totals.DealsClosed)
	assert.Equal(t, 1, sum.Totals.ProjectsCreated)
	assert.Equal(t, 5, sum.Totals.OngoingProjects)
	assert.Equal(t, 3, sum.Totals.SlideViews)
	assert.Equal(t, 1, sum.Totals.VideoViews)

	assert.Equal(t, "15.00", sum.ReplyRate.String())
	assert.Equal(t, "66.67", sum.MeetingRate.String())
	assert.Equal(t, "50.00", sum.DealRate.String())
	assert.Equal(t, "50.00", sum.ProjectRate.String())
	assert.Equal(t, "15.00", sum.SlideViewRate.String())
	assert.Equal(t, "5.00", sum.VideoViewRate.String())
}

func TestSummarize_WindowIsSevenInclusiveDays(t *testing.T) {
	store := &stubStore{}
	_, err := NewWeeklyService(store).Summarize(context.Background(), 1, "2024-02-26")
	require.NoError(t, err)

	assert.Equal(t, 1, store.calls)
	assert.Equal(t, "2024-02-26", store.start.String())
	assert.Equal(t, "2024-03-03", store.end.String())
}

func TestSummarize_EmptyWeek(t *testing.T) {
	sum, err := NewWeeklyService(&stubStore{}).Summarize(context.Background(), 1, "2024-01-08")
	require.NoError(t, err)

	assert.Equal(t, model.Counters{}, sum.Totals)
	assert.NotNil(t, sum.DailyData)
	assert.Empty(t, sum.DailyData)
	for _, r := range []model.Rate{sum.ReplyRate, sum.MeetingRate, sum.DealRate, sum.ProjectRate, sum.SlideViewRate, sum.VideoViewRate} {
		assert.False(t, r.Defined())
	}

	out, err := json.Marshal(sum)
	require.NoError(t, err)
	var m map[string]any
	require.NoError(t, json.Unmarshal(out, &m))
	assert.Equal(t, []any{}, m["daily_data"])
	for _, k := range []string{"reply_rate", "meeting_rate", "deal_rate", "project_rate", "slide_view_rate", "video_view_rate"} {
		assert.Equal(t, float64(0), m[k], k)
	}
	assert.Equal(t, "2024-01-14", m["week_end"])
}

func TestSummarize_InvalidWeekStartSkipsFetch(t *testing.T) {
	store := &stubStore{}
	_, err := NewWeeklyService(store).Summarize(context.Background(), 1, "2024-13-40")

	assert.ErrorIs(t, err, ErrInvalidDate)
	assert.Zero(t, store.calls)
}

func TestSummarize_StoreFailure(t *testing.T) {
	cause := errors.New("database is locked")
	_, err := NewWeeklyService(&stubStore{err: cause}).Summarize(context.Background(), 1, "2024-01-08")

	assert.ErrorIs(t, err, ErrStoreUnavailable)
	assert.ErrorIs(t, err, cause)
}

func TestSummarize_Idempotent(t *testing.T) {
	s := NewWeeklyService(&stubStore{records: twoDayWeek()})

	a, err := s.Summarize(context.Background(), 1, "2024-01-08")
	require.NoError(t, err)
	b, err := s.Summarize(context.Background(), 1, "2024-01-08")
	require.NoError(t, err)

	ja, _ := json.Marshal(a)
	jb, _ := json.Marshal(b)
	assert.JSONEq(t, string(ja), string(jb))
}

func TestBuildWeeklySummary_SumsEveryCounter(t *testing.T) {
	records := []model.DailyRecord{
		{Date: day("2024-01-08"), Counters: model.Counters{EmailsSentManual: 1, EmailsSentOutsource: 2, ValidEmailsManual: 3, ValidEmailsOutsource: 4, RepliesReceived: 5, MeetingsScheduled: 6, DealsClosed: 7, ProjectsCreated: 8, OngoingProjects: 100, SlideViews: 9, VideoViews: 10}},
		{Date: day("2024-01-10"), Counters: model.Counters{EmailsSentManual: 10, EmailsSentOutsource: 20, ValidEmailsManual: 30, ValidEmailsOutsource: 40, RepliesReceived: 50, MeetingsScheduled: 60, DealsClosed: 70, ProjectsCreated: 80, OngoingProjects: 1, SlideViews: 90, VideoViews: 100}},
		// a row whose counters were all NULL in storage
		model.DailyKPI{Date: day("2024-01-11")}.Record(),
	}
	sum := BuildWeeklySummary(day("2024-01-08"), records)

	assert.Equal(t, model.Counters{
		EmailsSentManual: 11, EmailsSentOutsource: 22, ValidEmailsManual: 33, ValidEmailsOutsource: 44,
		RepliesReceived: 55, MeetingsScheduled: 66, DealsClosed: 77, ProjectsCreated: 88,
		OngoingProjects: 0, SlideViews: 99, VideoViews: 110,
	}, sum.Totals)
}

func TestBuildWeeklySummary_OngoingProjectsIsLatestSnapshot(t *testing.T) {
	records := []model.DailyRecord{
		{Date: day("2024-01-12"), Counters: model.Counters{OngoingProjects: 4}},
		{Date: day("2024-01-08"), Counters: model.Counters{OngoingProjects: 9}},
		{Date: day("2024-01-10"), Counters: model.Counters{OngoingProjects: 7}},
	}
	sum := BuildWeeklySummary(day("2024-01-08"), records)

	assert.Equal(t, 4, sum.Totals.OngoingProjects)
	require.Len(t, sum.DailyData, 3)
	assert.Equal(t, "2024-01-08", sum.DailyData[0].Date.String())
	assert.Equal(t, "2024-01-12", sum.DailyData[2].Date.String())
	// input slice untouched
	assert.Equal(t, "2024-01-12", records[0].Date.String())
}

func TestBuildWeeklySummary_DenominatorsAreIndependent(t *testing.T) {
	t.Run("no valid emails, meetings held", func(t *testing.T) {
		sum := BuildWeeklySummary(day("2024-01-08"), []model.DailyRecord{
			{Date: day("2024-01-08"), Counters: model.Counters{RepliesReceived: 2, MeetingsScheduled: 4, DealsClosed: 1, ProjectsCreated: 3, SlideViews: 5, VideoViews: 6}},
		})
		assert.False(t, sum.ReplyRate.Defined())
		assert.False(t, sum.SlideViewRate.Defined())
		assert.False(t, sum.VideoViewRate.Defined())
		assert.Equal(t, "200.00", sum.MeetingRate.String())
		assert.Equal(t, "25.00", sum.DealRate.String())
		assert.Equal(t, "75.00", sum.ProjectRate.String())
	})

	t.Run("valid emails, no meetings", func(t *testing.T) {
		sum := BuildWeeklySummary(day("2024-01-08"), []model.DailyRecord{
			{Date: day("2024-01-08"), Counters: model.Counters{ValidEmailsManual: 8, RepliesReceived: 0, SlideViews: 2}},
		})
		assert.Equal(t, "0.00", sum.ReplyRate.String())
		assert.True(t, sum.ReplyRate.Defined())
		assert.Equal(t, "25.00", sum.SlideViewRate.String())
		assert.Equal(t, "0.00", sum.VideoViewRate.String())
		assert.False(t, sum.MeetingRate.Defined())
		assert.False(t, sum.DealRate.Defined())
		assert.False(t, sum.ProjectRate.Defined())
	})
}

func TestBuildWeeklySummary_NoMeetingsGivesLiteralZero(t *testing.T) {
	sum := BuildWeeklySummary(day("2024-01-08"), []model.DailyRecord{
		{Date: day("2024-01-08"), Counters: model.Counters{ValidEmailsManual: 3, RepliesReceived: 1}},
	})

	out, err := json.Marshal(sum)
	require.NoError(t, err)
	var m map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(out, &m))
	assert.Equal(t, "0", string(m["deal_rate"]))
	assert.Equal(t, "0", string(m["project_rate"]))
	assert.Equal(t, `"33.33"`, string(m["reply_rate"]))
}
