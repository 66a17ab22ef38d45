package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/yungbote/mentor-backend/internal/domain"
	"github.com/yungbote/mentor-backend/internal/platform/logger"
	"github.com/yungbote/mentor-backend/internal/repos"
)

const (
	DefaultCheckinLimit = 7
	MaxCheckinLimit     = 100
)

type CheckinService interface {
	// Create stores a check-in. mood is required; win, blocker and any extra
	// telemetry fields are kept as sent.
	Create(ctx context.Context, studentID string, data map[string]any) (map[string]any, error)
	ListRecent(ctx context.Context, studentID string, limit int) ([]map[string]any, error)
}

type checkinService struct {
	log      *logger.Logger
	checkins repos.CheckinRepo
}

func NewCheckinService(log *logger.Logger, checkins repos.CheckinRepo) CheckinService {
	return &checkinService{log: log.With("service", "CheckinService"), checkins: checkins}
}

func (cs *checkinService) Create(ctx context.Context, studentID string, data map[string]any) (map[string]any, error) {
	mood, _ := data[domain.FieldMood].(string)
	if strings.TrimSpace(mood) == "" {
		return nil, fmt.Errorf("%w: mood is required", ErrValidation)
	}
	record := make(map[string]any, len(data))
	for k, v := range data {
		if v == nil || k == domain.FieldStudentID || k == domain.FieldCreatedAt {
			continue
		}
		record[k] = v
	}
	doc, err := cs.checkins.Create(ctx, studentID, record)
	if err != nil {
		return nil, err
	}
	cs.log.Debug("Check-in stored", "student_id", studentID, "checkin_id", doc[domain.FieldID])
	return doc, nil
}

func (cs *checkinService) ListRecent(ctx context.Context, studentID string, limit int) ([]map[string]any, error) {
	switch {
	case limit <= 0:
		limit = DefaultCheckinLimit
	case limit > MaxCheckinLimit:
		limit = MaxCheckinLimit
	}
	return cs.checkins.ListByStudent(ctx, studentID, limit)
}
