package model

import "time"

type User struct {
	ID        int       `gorm:"primaryKey" json:"id"`
	Email     string    `gorm:"size:255;uniqueIndex;not null" json:"email"`
	Password  string    `gorm:"not null" json:"-"`
	Name      string    `gorm:"not null" json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

type KPIGoal struct {
	ID                         int       `gorm:"primaryKey" json:"id"`
	UserID                     int       `gorm:"index;not null" json:"user_id"`
	WeekStart                  Date      `gorm:"type:date;not null" json:"week_start"`
	EmailsManualTarget         int       `json:"emails_manual_target"`
	EmailsOutsourceTarget      int       `json:"emails_outsource_target"`
	ValidEmailsManualTarget    int       `json:"valid_emails_manual_target"`
	ValidEmailsOutsourceTarget int       `json:"valid_emails_outsource_target"`
	ReplyTarget                int       `json:"reply_target"`
	ReplyRateTarget            float64   `json:"reply_rate_target"`
	MeetingsTarget             int       `json:"meetings_target"`
	MeetingRateTarget          float64   `json:"meeting_rate_target"`
	DealsTarget                int       `json:"deals_target"`
	DealRateTarget             float64   `json:"deal_rate_target"`
	ProjectsTarget             int       `json:"projects_target"`
	ProjectRateTarget          float64   `json:"project_rate_target"`
	OngoingProjectsTarget      int       `json:"ongoing_projects_target"`
	SlideViewsTarget           int       `json:"slide_views_target"`
	SlideViewRateTarget        float64   `json:"slide_view_rate_target"`
	VideoViewsTarget           int       `json:"video_views_target"`
	VideoViewRateTarget        float64   `json:"video_view_rate_target"`
	CreatedAt                  time.Time `json:"created_at"`
}

// DailyKPI is the stored row. Counters are nullable so rows written by older
// clients (or by hand) load without error; DailyRecord is the normalised form.
type DailyKPI struct {
	ID                   int       `gorm:"primaryKey"`
	UserID               int       `gorm:"not null;uniqueIndex:uk_user_date"`
	Date                 Date      `gorm:"type:date;not null;uniqueIndex:uk_user_date"`
	EmailsSentManual     *int
	EmailsSentOutsource  *int
	ValidEmailsManual    *int
	ValidEmailsOutsource *int
	RepliesReceived      *int
	MeetingsScheduled    *int
	DealsClosed          *int
	ProjectsCreated      *int
	OngoingProjects      *int
	SlideViews           *int
	VideoViews           *int
	Notes                *string
	CreatedAt            time.Time
}

func (r DailyKPI) Record() DailyRecord {
	return DailyRecord{
		ID:     r.ID,
		UserID: r.UserID,
		Date:   r.Date,
		Counters: Counters{
			EmailsSentManual:     intOrZero(r.EmailsSentManual),
			EmailsSentOutsource:  intOrZero(r.EmailsSentOutsource),
			ValidEmailsManual:    intOrZero(r.ValidEmailsManual),
			ValidEmailsOutsource: intOrZero(r.ValidEmailsOutsource),
			RepliesReceived:      intOrZero(r.RepliesReceived),
			MeetingsScheduled:    intOrZero(r.MeetingsScheduled),
			DealsClosed:          intOrZero(r.DealsClosed),
			ProjectsCreated:      intOrZero(r.ProjectsCreated),
			OngoingProjects:      intOrZero(r.OngoingProjects),
			SlideViews:           intOrZero(r.SlideViews),
			VideoViews:           intOrZero(r.VideoViews),
		},
		Notes:     stringOrEmpty(r.Notes),
		CreatedAt: r.CreatedAt,
	}
}

// NewDailyKPI builds a full row; every column is written so an upsert replaces
// the previous submission wholesale.
func NewDailyKPI(userID int, date Date, c Counters, notes string) DailyKPI {
	return DailyKPI{
		UserID:               userID,
		Date:                 date,
		EmailsSentManual:     &c.EmailsSentManual,
		EmailsSentOutsource:  &c.EmailsSentOutsource,
		ValidEmailsManual:    &c.ValidEmailsManual,
		ValidEmailsOutsource: &c.ValidEmailsOutsource,
		RepliesReceived:      &c.RepliesReceived,
		MeetingsScheduled:    &c.MeetingsScheduled,
		DealsClosed:          &c.DealsClosed,
		ProjectsCreated:      &c.ProjectsCreated,
		OngoingProjects:      &c.OngoingProjects,
		SlideViews:           &c.SlideViews,
		VideoViews:           &c.VideoViews,
		Notes:                &notes,
		CreatedAt:            time.Now(),
	}
}

type WeeklyReview struct {
	ID           int       `gorm:"primaryKey" json:"id"`
	UserID       int       `gorm:"not null;uniqueIndex:uk_user_week" json:"user_id"`
	WeekStart    Date      `gorm:"type:date;not null;uniqueIndex:uk_user_week" json:"week_start"`
	WeekEnd      Date      `gorm:"type:date;not null" json:"week_end"`
	Achievements string    `json:"achievements"`
	Challenges   string    `json:"challenges"`
	Improvements string    `json:"improvements"`
	Notes        string    `json:"notes"`
	CreatedAt    time.Time `json:"created_at"`
}

func (User) TableName() string         { return "users" }
func (KPIGoal) TableName() string      { return "kpi_goals" }
func (DailyKPI) TableName() string     { return "daily_kpi" }
func (WeeklyReview) TableName() string { return "weekly_reviews" }

func intOrZero(p *int) int {
	if p == nil {
		return 0
	}
	return *p
}

func stringOrEmpty(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}
