package service

import (
	"context"
	"errors"
	"fmt"

	"sales-kpi/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ReviewService struct{ db *gorm.DB }

func NewReviewService(db *gorm.DB) *ReviewService { return &ReviewService{db: db} }

// Save writes the review for (user, week_start), replacing an earlier one.
func (s *ReviewService) Save(ctx context.Context, userID int, req model.ReviewRequest) (*model.WeeklyReview, error) {
	start, err := model.ParseDate(req.WeekStart)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidDate, err)
	}
	r := model.WeeklyReview{
		UserID:       userID,
		WeekStart:    start,
		WeekEnd:      start.AddDays(WeekLength - 1),
		Achievements: req.Achievements,
		Challenges:   req.Challenges,
		Improvements: req.Improvements,
		Notes:        req.Notes,
	}
	err = s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "week_start"}},
		DoUpdates: clause.AssignmentColumns([]string{"week_end", "achievements", "challenges", "improvements", "notes"}),
	}).Create(&r).Error
	if err != nil {
		return nil, fmt.Errorf("upsert weekly review: %w", err)
	}
	return &r, nil
}

func (s *ReviewService) Get(ctx context.Context, userID int, weekStart string) (*model.WeeklyReview, error) {
	start, err := model.ParseDate(weekStart)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidDate, err)
	}
	var r model.WeeklyReview
	err = s.db.WithContext(ctx).Where("user_id = ? AND week_start = ?", userID, start).First(&r).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query weekly review: %w", err)
	}
	return &r, nil
}
