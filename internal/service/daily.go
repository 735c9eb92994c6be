package service

import (
	"context"
	"errors"
	"fmt"

	"sales-kpi/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type DailyService struct{ db *gorm.DB }

func NewDailyService(db *gorm.DB) *DailyService { return &DailyService{db: db} }

// UpsertDailyRecord replaces whatever was stored for (userID, date).
func (s *DailyService) UpsertDailyRecord(ctx context.Context, userID int, date model.Date, c model.Counters, notes string) (model.DailyRecord, error) {
	row := model.NewDailyKPI(userID, date, c, notes)
	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "date"}},
		UpdateAll: true,
	}).Create(&row).Error
	if err != nil {
		return model.DailyRecord{}, fmt.Errorf("upsert daily kpi: %w", err)
	}
	return row.Record(), nil
}

// FetchRecordsInRange returns the user's records with start <= date <= end,
// ascending by date.
func (s *DailyService) FetchRecordsInRange(ctx context.Context, userID int, start, end model.Date) ([]model.DailyRecord, error) {
	var rows []model.DailyKPI
	err := s.db.WithContext(ctx).
		Where("user_id = ? AND date >= ? AND date <= ?", userID, start, end).
		Order("date").Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("query daily kpi range: %w", err)
	}
	records := make([]model.DailyRecord, 0, len(rows))
	for _, r := range rows {
		records = append(records, r.Record())
	}
	return records, nil
}

// GetDailyRecord returns nil when nothing was submitted for that day.
func (s *DailyService) GetDailyRecord(ctx context.Context, userID int, date model.Date) (*model.DailyRecord, error) {
	var row model.DailyKPI
	err := s.db.WithContext(ctx).
		Where("user_id = ? AND date = ?", userID, date).
		First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query daily kpi: %w", err)
	}
	rec := row.Record()
	return &rec, nil
}
