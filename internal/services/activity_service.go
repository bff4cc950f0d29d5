package services

import (
	"context"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/example/giftvault/internal/models"
)

// ActivityService appends entries to a user's activity timeline. Logging is
// best-effort: a failed insert is logged and never fails the calling
// transition.
type ActivityService struct {
	db *gorm.DB
}

// NewActivityService constructs an ActivityService.
func NewActivityService(db *gorm.DB) *ActivityService {
	return &ActivityService{db: db}
}

// Log records an activity entry. Safe to call on a nil service.
func (s *ActivityService) Log(ctx context.Context, userID uuid.UUID, activityType, title, description string) {
	if s == nil || s.db == nil {
		return
	}

	activity := models.Activity{
		UserID:      userID,
		Type:        activityType,
		Title:       title,
		Description: description,
	}
	if err := s.db.WithContext(ctx).Create(&activity).Error; err != nil {
		logrus.WithError(err).WithField("user", userID).Warn("failed to log activity")
	}
}
