package service

import (
	"sales-kpi/internal/model"

	"gorm.io/gorm"
)

func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(&model.User{}, &model.KPIGoal{}, &model.DailyKPI{}, &model.WeeklyReview{})
}
