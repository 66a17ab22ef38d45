package services

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/yungbote/mentor-backend/internal/domain"
	"github.com/yungbote/mentor-backend/internal/platform/logger"
	"github.com/yungbote/mentor-backend/internal/repos"
)

const homeworkFetchConcurrency = 8

// HomeworkService exposes a student's submissions joined with their
// assignment documents.
type HomeworkService interface {
	List(ctx context.Context, studentID string) ([]map[string]any, error)
	// AddForStudent records a self-assigned task: one assignment plus one
	// submission for the same student.
	AddForStudent(ctx context.Context, studentID string, fields map[string]any) (map[string]any, error)
	UpdateStatus(ctx context.Context, studentID, submissionID string, status domain.SubmissionStatus) (map[string]any, error)
}

type homeworkService struct {
	log         *logger.Logger
	assignments repos.AssignmentRepo
	submissions repos.SubmissionRepo
}

func NewHomeworkService(log *logger.Logger, assignments repos.AssignmentRepo, submissions repos.SubmissionRepo) HomeworkService {
	return &homeworkService{
		log:         log.With("service", "HomeworkService"),
		assignments: assignments,
		submissions: submissions,
	}
}

func (hs *homeworkService) List(ctx context.Context, studentID string) ([]map[string]any, error) {
	subs, err := hs.submissions.ListByStudent(ctx, studentID)
	if err != nil {
		return nil, err
	}
	if len(subs) == 0 {
		return []map[string]any{}, nil
	}

	ids := make(map[string]struct{})
	for _, s := range subs {
		if id, _ := s[domain.FieldAssignmentID].(string); id != "" {
			ids[id] = struct{}{}
		}
	}

	var (
		mu      sync.Mutex
		byID    = make(map[string]map[string]any, len(ids))
		g, gctx = errgroup.WithContext(ctx)
	)
	g.SetLimit(homeworkFetchConcurrency)
	for id := range ids {
		g.Go(func() error {
			doc, err := hs.assignments.GetByID(gctx, id)
			if repos.IsNotFound(err) {
				// Dangling weak reference; the submission is listed without it.
				return nil
			}
			if err != nil {
				return fmt.Errorf("load assignment %s: %w", id, err)
			}
			mu.Lock()
			byID[id] = doc
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	out := make([]map[string]any, 0, len(subs))
	for _, s := range subs {
		id, _ := s[domain.FieldAssignmentID].(string)
		if a, ok := byID[id]; ok {
			s["assignment"] = a
		} else if id != "" {
			hs.log.Warn("Submission references missing assignment", "student_id", studentID, "assignment_id", id)
		}
		out = append(out, s)
	}
	return out, nil
}

func (hs *homeworkService) AddForStudent(ctx context.Context, studentID string, fields map[string]any) (map[string]any, error) {
	title, _ := fields["title"].(string)
	details, _ := fields["details"].(string)
	if strings.TrimSpace(title) == "" && strings.TrimSpace(details) == "" {
		return nil, fmt.Errorf("%w: title or details is required", ErrValidation)
	}
	assignment, err := hs.assignments.Create(ctx, studentID, fields)
	if err != nil {
		return nil, err
	}
	sub, err := hs.submissions.Create(ctx, assignment[domain.FieldID].(string), studentID)
	if err != nil {
		return nil, err
	}
	sub["assignment"] = assignment
	return sub, nil
}

func (hs *homeworkService) UpdateStatus(ctx context.Context, studentID, submissionID string, status domain.SubmissionStatus) (map[string]any, error) {
	if !status.Valid() {
		return nil, fmt.Errorf("%w: unsupported status %q", ErrValidation, status)
	}
	sub, err := hs.submissions.GetByID(ctx, submissionID)
	if repos.IsNotFound(err) {
		return nil, fmt.Errorf("submission %s: %w", submissionID, ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	if owner, _ := sub[domain.FieldStudentID].(string); owner != studentID {
		// Reported as missing so ids of other students' work are not confirmed.
		return nil, fmt.Errorf("submission %s: %w", submissionID, ErrNotFound)
	}
	return hs.submissions.UpdateStatus(ctx, submissionID, status)
}
