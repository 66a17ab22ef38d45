package repos

import (
	"context"
	"fmt"

	"github.com/yungbote/mentor-backend/internal/domain"
	"github.com/yungbote/mentor-backend/internal/platform/docstore"
	"github.com/yungbote/mentor-backend/internal/platform/logger"
)

// SubmissionRepo tracks one student's progress on one assignment.
type SubmissionRepo interface {
	Create(ctx context.Context, assignmentID, studentID string) (map[string]any, error)
	GetByID(ctx context.Context, id string) (map[string]any, error)
	ListByStudent(ctx context.Context, studentID string) ([]map[string]any, error)
	UpdateStatus(ctx context.Context, id string, status domain.SubmissionStatus) (map[string]any, error)
}

type submissionRepo struct {
	store docstore.Store
	log   *logger.Logger
	now   Clock
}

func NewSubmissionRepo(store docstore.Store, baseLog *logger.Logger) SubmissionRepo {
	return &submissionRepo{store: store, log: baseLog.With("repo", "SubmissionRepo"), now: systemClock}
}

func (sr *submissionRepo) Create(ctx context.Context, assignmentID, studentID string) (map[string]any, error) {
	doc, err := sr.store.Create(ctx, docstore.StudentSubmissions, map[string]any{
		domain.FieldAssignmentID: assignmentID,
		domain.FieldStudentID:    studentID,
		domain.FieldStatus:       string(domain.SubmissionAssigned),
		domain.FieldCreatedAt:    domain.Timestamp(sr.now()),
	})
	if err != nil {
		return nil, fmt.Errorf("create submission: %w", err)
	}
	return doc.Map(), nil
}

func (sr *submissionRepo) GetByID(ctx context.Context, id string) (map[string]any, error) {
	doc, err := sr.store.Get(ctx, docstore.StudentSubmissions, id)
	if err != nil {
		return nil, err
	}
	return doc.Map(), nil
}

// ListByStudent returns the student's submissions, newest first.
func (sr *submissionRepo) ListByStudent(ctx context.Context, studentID string) ([]map[string]any, error) {
	docs, err := sr.store.Query(ctx, docstore.StudentSubmissions, docstore.Eq(domain.FieldStudentID, studentID))
	if err != nil {
		return nil, fmt.Errorf("list submissions: %w", err)
	}
	out := toMaps(docs)
	sortNewestFirst(out)
	return out, nil
}

func (sr *submissionRepo) UpdateStatus(ctx context.Context, id string, status domain.SubmissionStatus) (map[string]any, error) {
	err := sr.store.Set(ctx, docstore.StudentSubmissions, id, map[string]any{
		domain.FieldStatus:    string(status),
		domain.FieldUpdatedAt: domain.Timestamp(sr.now()),
	}, docstore.SetOptions{Merge: true})
	if err != nil {
		return nil, fmt.Errorf("update submission %s: %w", id, err)
	}
	return sr.GetByID(ctx, id)
}
