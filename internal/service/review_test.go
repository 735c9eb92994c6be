package service

import (
	"context"
	"testing"

	"sales-kpi/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReviewService_SaveReplacesAndDerivesWeekEnd(t *testing.T) {
	ctx := context.Background()
	s := NewReviewService(newTestDB(t))

	_, err := s.Save(ctx, 1, model.ReviewRequest{WeekStart: "2024-01-08", Achievements: "3 meetings"})
	require.NoError(t, err)
	_, err = s.Save(ctx, 1, model.ReviewRequest{WeekStart: "2024-01-08", Achievements: "4 meetings", Challenges: "low reply rate"})
	require.NoError(t, err)

	r, err := s.Get(ctx, 1, "2024-01-08")
	require.NoError(t, err)
	require.NotNil(t, r)
	assert.Equal(t, "2024-01-14", r.WeekEnd.String())
	assert.Equal(t, "4 meetings", r.Achievements)
	assert.Equal(t, "low reply rate", r.Challenges)

	var count int64
	require.NoError(t, s.db.Model(&model.WeeklyReview{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestReviewService_GetMissingAndInvalid(t *testing.T) {
	s := NewReviewService(newTestDB(t))

	r, err := s.Get(context.Background(), 1, "2024-01-08")
	require.NoError(t, err)
	assert.Nil(t, r)

	_, err = s.Get(context.Background(), 1, "2024/01/08")
	assert.ErrorIs(t, err, ErrInvalidDate)
}
