package repos

import (
	"context"
	"fmt"

	"github.com/yungbote/mentor-backend/internal/domain"
	"github.com/yungbote/mentor-backend/internal/platform/docstore"
	"github.com/yungbote/mentor-backend/internal/platform/logger"
)

// CheckinRepo stores append-only daily check-ins.
type CheckinRepo interface {
	Create(ctx context.Context, studentID string, data map[string]any) (map[string]any, error)
	ListByStudent(ctx context.Context, studentID string, limit int) ([]map[string]any, error)
}

type checkinRepo struct {
	store docstore.Store
	log   *logger.Logger
	now   Clock
}

func NewCheckinRepo(store docstore.Store, baseLog *logger.Logger) CheckinRepo {
	return &checkinRepo{store: store, log: baseLog.With("repo", "CheckinRepo"), now: systemClock}
}

func (cr *checkinRepo) Create(ctx context.Context, studentID string, data map[string]any) (map[string]any, error) {
	record := make(map[string]any, len(data)+2)
	for k, v := range data {
		record[k] = v
	}
	record[domain.FieldStudentID] = studentID
	record[domain.FieldCreatedAt] = domain.Timestamp(cr.now())
	delete(record, domain.FieldID)
	doc, err := cr.store.Create(ctx, docstore.Checkins, record)
	if err != nil {
		return nil, fmt.Errorf("create checkin: %w", err)
	}
	return doc.Map(), nil
}

// ListByStudent returns the newest check-ins first; limit <= 0 means all.
func (cr *checkinRepo) ListByStudent(ctx context.Context, studentID string, limit int) ([]map[string]any, error) {
	docs, err := cr.store.Query(ctx, docstore.Checkins, docstore.Eq(domain.FieldStudentID, studentID))
	if err != nil {
		return nil, fmt.Errorf("list checkins: %w", err)
	}
	out := toMaps(docs)
	sortNewestFirst(out)
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}
