package tools

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/yungbote/mentor-backend/internal/agent"
	"github.com/yungbote/mentor-backend/internal/services"
)

func GetHomework(svc services.HomeworkService) agent.Tool {
	return newTool(agent.ToolSpec{
		Name:        "get_homework",
		Description: "List the student's homework with assignment details and status.",
		Parameters:  schema(nil),
	}, func(ctx context.Context, studentID string, _ struct{}) (any, error) {
		items, err := svc.List(ctx, studentID)
		if err != nil {
			return nil, downstream(err)
		}
		return map[string]any{"homework": items}, nil
	})
}

type addHomeworkArgs struct {
	Title       string `json:"title"`
	Details     string `json:"details"`
	TaskDetails string `json:"task_details"`
	DueDate     string `json:"dueDate"`
}

func (a *addHomeworkArgs) validate() error {
	if a.Details == "" {
		a.Details = a.TaskDetails
	}
	a.Title = strings.TrimSpace(a.Title)
	a.Details = strings.TrimSpace(a.Details)
	if a.Title == "" && a.Details == "" {
		return errors.New("title or details is required")
	}
	return nil
}

func AddHomework(svc services.HomeworkService) agent.Tool {
	return newTool(agent.ToolSpec{
		Name:        "add_homework",
		Description: "Add a homework task the student wants to track.",
		Parameters: schema(map[string]any{
			"title":   str("Short task title."),
			"details": str("What needs to be done."),
			"dueDate": str("Due date, ISO 8601, optional."),
		}),
	}, func(ctx context.Context, studentID string, args addHomeworkArgs) (any, error) {
		fields := map[string]any{}
		if args.Title != "" {
			fields["title"] = args.Title
		}
		if args.Details != "" {
			fields["details"] = args.Details
		}
		if d := strings.TrimSpace(args.DueDate); d != "" {
			fields["dueDate"] = d
		}
		sub, err := svc.AddForStudent(ctx, studentID, fields)
		if err != nil {
			return nil, downstream(err)
		}
		return map[string]any{
			"message":    fmt.Sprintf("Homework task created with id %v", sub["id"]),
			"submission": sub,
		}, nil
	})
}
