package repos

import (
	"context"
	"fmt"

	"github.com/yungbote/mentor-backend/internal/domain"
	"github.com/yungbote/mentor-backend/internal/platform/docstore"
	"github.com/yungbote/mentor-backend/internal/platform/logger"
)

type AssignmentRepo interface {
	Create(ctx context.Context, assignedBy string, data map[string]any) (map[string]any, error)
	GetByID(ctx context.Context, id string) (map[string]any, error)
}

type assignmentRepo struct {
	store docstore.Store
	log   *logger.Logger
	now   Clock
}

func NewAssignmentRepo(store docstore.Store, baseLog *logger.Logger) AssignmentRepo {
	return &assignmentRepo{store: store, log: baseLog.With("repo", "AssignmentRepo"), now: systemClock}
}

func (ar *assignmentRepo) Create(ctx context.Context, assignedBy string, data map[string]any) (map[string]any, error) {
	record := make(map[string]any, len(data)+2)
	for k, v := range data {
		record[k] = v
	}
	delete(record, domain.FieldID)
	record[domain.FieldAssignedBy] = assignedBy
	record[domain.FieldCreatedAt] = domain.Timestamp(ar.now())
	doc, err := ar.store.Create(ctx, docstore.Assignments, record)
	if err != nil {
		return nil, fmt.Errorf("create assignment: %w", err)
	}
	return doc.Map(), nil
}

func (ar *assignmentRepo) GetByID(ctx context.Context, id string) (map[string]any, error) {
	doc, err := ar.store.Get(ctx, docstore.Assignments, id)
	if err != nil {
		return nil, err
	}
	return doc.Map(), nil
}
