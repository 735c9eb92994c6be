package model

import "encoding/json"

type RegisterRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
	Name     string `json:"name" binding:"required"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type LoginResponse struct {
	Token string   `json:"token"`
	User  UserInfo `json:"user"`
}

type UserInfo struct {
	ID    int    `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
}

// DailyKPIRequest is one day's submission. Omitted counters are 0.
type DailyKPIRequest struct {
	Date                 string `json:"date" binding:"required"`
	EmailsSentManual     int    `json:"emails_sent_manual" binding:"min=0"`
	EmailsSentOutsource  int    `json:"emails_sent_outsource" binding:"min=0"`
	ValidEmailsManual    int    `json:"valid_emails_manual" binding:"min=0"`
	ValidEmailsOutsource int    `json:"valid_emails_outsource" binding:"min=0"`
	RepliesReceived      int    `json:"replies_received" binding:"min=0"`
	MeetingsScheduled    int    `json:"meetings_scheduled" binding:"min=0"`
	DealsClosed          int    `json:"deals_closed" binding:"min=0"`
	ProjectsCreated      int    `json:"projects_created" binding:"min=0"`
	OngoingProjects      int    `json:"ongoing_projects" binding:"min=0"`
	SlideViews           int    `json:"slide_views" binding:"min=0"`
	VideoViews           int    `json:"video_views" binding:"min=0"`
	Notes                string `json:"notes"`
}

func (r DailyKPIRequest) Counters() Counters {
	return Counters{
		EmailsSentManual:     r.EmailsSentManual,
		EmailsSentOutsource:  r.EmailsSentOutsource,
		ValidEmailsManual:    r.ValidEmailsManual,
		ValidEmailsOutsource: r.ValidEmailsOutsource,
		RepliesReceived:      r.RepliesReceived,
		MeetingsScheduled:    r.MeetingsScheduled,
		DealsClosed:          r.DealsClosed,
		ProjectsCreated:      r.ProjectsCreated,
		OngoingProjects:      r.OngoingProjects,
		SlideViews:           r.SlideViews,
		VideoViews:           r.VideoViews,
	}
}

type GoalRequest struct {
	WeekStart                  string  `json:"week_start" binding:"required"`
	EmailsManualTarget         int     `json:"emails_manual_target" binding:"min=0"`
	EmailsOutsourceTarget      int     `json:"emails_outsource_target" binding:"min=0"`
	ValidEmailsManualTarget    int     `json:"valid_emails_manual_target" binding:"min=0"`
	ValidEmailsOutsourceTarget int     `json:"valid_emails_outsource_target" binding:"min=0"`
	ReplyTarget                int     `json:"reply_target" binding:"min=0"`
	ReplyRateTarget            float64 `json:"reply_rate_target" binding:"min=0"`
	MeetingsTarget             int     `json:"meetings_target" binding:"min=0"`
	MeetingRateTarget          float64 `json:"meeting_rate_target" binding:"min=0"`
	DealsTarget                int     `json:"deals_target" binding:"min=0"`
	DealRateTarget             float64 `json:"deal_rate_target" binding:"min=0"`
	ProjectsTarget             int     `json:"projects_target" binding:"min=0"`
	ProjectRateTarget          float64 `json:"project_rate_target" binding:"min=0"`
	OngoingProjectsTarget      int     `json:"ongoing_projects_target" binding:"min=0"`
	SlideViewsTarget           int     `json:"slide_views_target" binding:"min=0"`
	SlideViewRateTarget        float64 `json:"slide_view_rate_target" binding:"min=0"`
	VideoViewsTarget           int     `json:"video_views_target" binding:"min=0"`
	VideoViewRateTarget        float64 `json:"video_view_rate_target" binding:"min=0"`
}

type ReviewRequest struct {
	WeekStart    string `json:"week_start" binding:"required"`
	Achievements string `json:"achievements"`
	Challenges   string `json:"challenges"`
	Improvements string `json:"improvements"`
	Notes        string `json:"notes"`
}

// AnalyzeRequest carries client-side data, or only WeekStart to have the
// server build the summary and load the current goals.
type AnalyzeRequest struct {
	WeeklyData json.RawMessage `json:"weeklyData"`
	Goals      json.RawMessage `json:"goals"`
	WeekStart  string          `json:"week_start"`
}

type ImproveEmailRequest struct {
	Template string `json:"template" binding:"required"`
	// ReplyRate accepts both the numeric and the "12.50" string form.
	ReplyRate Rate `json:"replyRate"`
}

type DiscordTestRequest struct {
	Message string `json:"message"`
}
