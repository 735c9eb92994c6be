package service

import (
	"context"
	"errors"
	"fmt"

	"sales-kpi/internal/model"

	"gorm.io/gorm"
)

type GoalService struct{ db *gorm.DB }

func NewGoalService(db *gorm.DB) *GoalService { return &GoalService{db: db} }

// Save inserts a new goals row; earlier rows for the same week are kept as history.
func (s *GoalService) Save(ctx context.Context, userID int, req model.GoalRequest) (*model.KPIGoal, error) {
	weekStart, err := model.ParseDate(req.WeekStart)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidDate, err)
	}
	g := model.KPIGoal{
		UserID:                     userID,
		WeekStart:                  weekStart,
		EmailsManualTarget:         req.EmailsManualTarget,
		EmailsOutsourceTarget:      req.EmailsOutsourceTarget,
		ValidEmailsManualTarget:    req.ValidEmailsManualTarget,
		ValidEmailsOutsourceTarget: req.ValidEmailsOutsourceTarget,
		ReplyTarget:                req.ReplyTarget,
		ReplyRateTarget:            req.ReplyRateTarget,
		MeetingsTarget:             req.MeetingsTarget,
		MeetingRateTarget:          req.MeetingRateTarget,
		DealsTarget:                req.DealsTarget,
		DealRateTarget:             req.DealRateTarget,
		ProjectsTarget:             req.ProjectsTarget,
		ProjectRateTarget:          req.ProjectRateTarget,
		OngoingProjectsTarget:      req.OngoingProjectsTarget,
		SlideViewsTarget:           req.SlideViewsTarget,
		SlideViewRateTarget:        req.SlideViewRateTarget,
		VideoViewsTarget:           req.VideoViewsTarget,
		VideoViewRateTarget:        req.VideoViewRateTarget,
	}
	if err := s.db.WithContext(ctx).Create(&g).Error; err != nil {
		return nil, fmt.Errorf("insert goals: %w", err)
	}
	return &g, nil
}

// Current returns the goals with the latest week start, or nil.
func (s *GoalService) Current(ctx context.Context, userID int) (*model.KPIGoal, error) {
	var g model.KPIGoal
	err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("week_start DESC").Order("id DESC").
		First(&g).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query goals: %w", err)
	}
	return &g, nil
}
