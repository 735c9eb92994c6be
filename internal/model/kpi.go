package model

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Counters holds the per-day KPI fields. In a weekly total every field is a sum
// except OngoingProjects, which is a gauge and carries the latest day's value.
type Counters struct {
	EmailsSentManual     int `json:"emails_sent_manual"`
	EmailsSentOutsource  int `json:"emails_sent_outsource"`
	ValidEmailsManual    int `json:"valid_emails_manual"`
	ValidEmailsOutsource int `json:"valid_emails_outsource"`
	RepliesReceived      int `json:"replies_received"`
	MeetingsScheduled    int `json:"meetings_scheduled"`
	DealsClosed          int `json:"deals_closed"`
	ProjectsCreated      int `json:"projects_created"`
	OngoingProjects      int `json:"ongoing_projects"`
	SlideViews           int `json:"slide_views"`
	VideoViews           int `json:"video_views"`
}

func (c Counters) ValidEmails() int { return c.ValidEmailsManual + c.ValidEmailsOutsource }

type DailyRecord struct {
	ID     int  `json:"id,omitempty"`
	UserID int  `json:"user_id"`
	Date   Date `json:"date"`
	Counters
	Notes     string    `json:"notes"`
	CreatedAt time.Time `json:"created_at"`
}

type WeeklySummary struct {
	WeekStart     Date          `json:"week_start"`
	WeekEnd       Date          `json:"week_end"`
	DailyData     []DailyRecord `json:"daily_data"`
	Totals        Counters      `json:"totals"`
	ReplyRate     Rate          `json:"reply_rate"`
	MeetingRate   Rate          `json:"meeting_rate"`
	DealRate      Rate          `json:"deal_rate"`
	ProjectRate   Rate          `json:"project_rate"`
	SlideViewRate Rate          `json:"slide_view_rate"`
	VideoViewRate Rate          `json:"video_view_rate"`
}

var hundred = decimal.NewFromInt(100)

// Rate is a percentage with two fractional digits. A rate whose denominator
// was zero is undefined and encodes as the JSON number 0, which keeps it
// distinct from a computed "0.00".
type Rate struct {
	value   decimal.Decimal
	defined bool
}

func NewRate(numerator, denominator int) Rate {
	if denominator == 0 {
		return Rate{}
	}
	v := decimal.NewFromInt(int64(numerator)).
		Mul(hundred).
		Div(decimal.NewFromInt(int64(denominator))).
		Round(2)
	return Rate{value: v, defined: true}
}

func (r Rate) Defined() bool            { return r.defined }
func (r Rate) Decimal() decimal.Decimal { return r.value }

func (r Rate) Float64() float64 {
	f, _ := r.value.Float64()
	return f
}

func (r Rate) String() string {
	if !r.defined {
		return "0"
	}
	return r.value.StringFixed(2)
}

func (r Rate) MarshalJSON() ([]byte, error) {
	if !r.defined {
		return []byte("0"), nil
	}
	return json.Marshal(r.value.StringFixed(2))
}

func (r *Rate) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) > 0 && b[0] != '"' {
		// bare numbers only appear for undefined rates
		if string(b) == "0" || string(b) == "null" {
			*r = Rate{}
			return nil
		}
		d, err := decimal.NewFromString(string(b))
		if err != nil {
			return fmt.Errorf("rate: %w", err)
		}
		*r = Rate{value: d.Round(2), defined: true}
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return fmt.Errorf("rate: %w", err)
	}
	*r = Rate{value: d.Round(2), defined: true}
	return nil
}
