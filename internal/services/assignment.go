package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/yungbote/mentor-backend/internal/domain"
	"github.com/yungbote/mentor-backend/internal/platform/logger"
	"github.com/yungbote/mentor-backend/internal/repos"
)

type AssignRequest struct {
	StudentIDs []string
	// Fields is the assignment body (title, description, dueDate, ...).
	Fields map[string]any
}

type AssignResult struct {
	Assignment  map[string]any   `json:"assignment"`
	Submissions []map[string]any `json:"submissions"`
}

type AssignmentService interface {
	// Assign writes the assignment and then one submission per student as
	// independent writes. A failure part way leaves earlier writes in place.
	Assign(ctx context.Context, teacherID string, req AssignRequest) (*AssignResult, error)
}

type assignmentService struct {
	log         *logger.Logger
	assignments repos.AssignmentRepo
	submissions repos.SubmissionRepo
}

func NewAssignmentService(log *logger.Logger, assignments repos.AssignmentRepo, submissions repos.SubmissionRepo) AssignmentService {
	return &assignmentService{
		log:         log.With("service", "AssignmentService"),
		assignments: assignments,
		submissions: submissions,
	}
}

func (as *assignmentService) Assign(ctx context.Context, teacherID string, req AssignRequest) (*AssignResult, error) {
	title, _ := req.Fields["title"].(string)
	if strings.TrimSpace(title) == "" {
		return nil, fmt.Errorf("%w: title is required", ErrValidation)
	}
	students := dedupe(req.StudentIDs)
	if len(students) == 0 {
		return nil, fmt.Errorf("%w: studentIds must list at least one student", ErrValidation)
	}

	fields := make(map[string]any, len(req.Fields))
	for k, v := range req.Fields {
		if k == "studentIds" || v == nil {
			continue
		}
		fields[k] = v
	}
	assignment, err := as.assignments.Create(ctx, teacherID, fields)
	if err != nil {
		return nil, err
	}
	assignmentID, _ := assignment[domain.FieldID].(string)

	res := &AssignResult{Assignment: assignment, Submissions: make([]map[string]any, 0, len(students))}
	for _, sid := range students {
		sub, err := as.submissions.Create(ctx, assignmentID, sid)
		if err != nil {
			as.log.Error("Submission write failed after assignment was stored",
				"assignment_id", assignmentID, "student_id", sid, "written", len(res.Submissions), "error", err)
			return nil, err
		}
		res.Submissions = append(res.Submissions, sub)
	}
	as.log.Info("Assignment created", "assignment_id", assignmentID, "students", len(students))
	return res, nil
}

func dedupe(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		id = strings.TrimSpace(id)
		if id == "" {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
