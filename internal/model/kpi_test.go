package model

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRate(t *testing.T) {
	cases := []struct {
		name     string
		num, den int
		want     string
	}{
		{"exact", 3, 20, "15.00"},
		{"repeating rounds up", 2, 3, "66.67"},
		{"repeating rounds down", 1, 3, "33.33"},
		{"half", 1, 8, "12.50"},
		{"over one hundred", 5, 2, "250.00"},
		{"zero numerator", 0, 7, "0.00"},
		{"zero denominator", 5, 0, "0"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, NewRate(tc.num, tc.den).String())
		})
	}
}

func TestRate_ZeroDenominatorIsDistinctFromZeroPercent(t *testing.T) {
	undefined := NewRate(0, 0)
	zero := NewRate(0, 10)

	assert.False(t, undefined.Defined())
	assert.True(t, zero.Defined())

	a, err := json.Marshal(undefined)
	require.NoError(t, err)
	b, err := json.Marshal(zero)
	require.NoError(t, err)
	assert.Equal(t, `0`, string(a))
	assert.Equal(t, `"0.00"`, string(b))
}

func TestRate_UnmarshalAcceptsBothForms(t *testing.T) {
	var r Rate
	require.NoError(t, json.Unmarshal([]byte(`"15.00"`), &r))
	assert.True(t, r.Defined())
	assert.Equal(t, 15.0, r.Float64())

	require.NoError(t, json.Unmarshal([]byte(`12.345`), &r))
	assert.Equal(t, "12.35", r.String())

	require.NoError(t, json.Unmarshal([]byte(`0`), &r))
	assert.False(t, r.Defined())

	assert.Error(t, json.Unmarshal([]byte(`"abc"`), &r))
}

func TestDailyKPI_RecordNormalisesNulls(t *testing.T) {
	seven := 7
	row := DailyKPI{ID: 1, UserID: 2, Date: NewDate(2024, 1, 8), RepliesReceived: &seven}

	rec := row.Record()
	assert.Equal(t, 7, rec.RepliesReceived)
	assert.Zero(t, rec.EmailsSentManual)
	assert.Zero(t, rec.OngoingProjects)
	assert.Equal(t, "", rec.Notes)
}

func TestNewDailyKPI_RoundTrip(t *testing.T) {
	c := Counters{EmailsSentManual: 1, ValidEmailsOutsource: 2, OngoingProjects: 3, VideoViews: 4}
	row := NewDailyKPI(9, NewDate(2024, 1, 8), c, "memo")

	rec := row.Record()
	assert.Equal(t, c, rec.Counters)
	assert.Equal(t, "memo", rec.Notes)
	assert.Equal(t, 9, rec.UserID)
}

func TestDailyRecord_JSONIsFlat(t *testing.T) {
	rec := DailyRecord{UserID: 1, Date: NewDate(2024, 1, 8), Counters: Counters{RepliesReceived: 2}}
	out, err := json.Marshal(rec)
	require.NoError(t, err)

	var m map[string]any
	require.NoError(t, json.Unmarshal(out, &m))
	assert.Equal(t, "2024-01-08", m["date"])
	assert.Equal(t, float64(2), m["replies_received"])
	assert.NotContains(t, m, "Counters")
}
