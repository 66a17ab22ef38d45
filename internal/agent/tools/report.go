package tools

import (
	"context"
	"errors"
	"strings"

	"github.com/yungbote/mentor-backend/internal/agent"
	"github.com/yungbote/mentor-backend/internal/services"
)

type reportArgs struct {
	Focus string `json:"focus"`
}

func GenerateTeacherReport(runner ReportRunner) agent.Tool {
	return newTool(agent.ToolSpec{
		Name:        "generate_teacher_report",
		Description: "Produce a teacher-facing progress report for the student.",
		Parameters: schema(map[string]any{
			"focus": str("Optional area the teacher asked about."),
		}),
	}, func(ctx context.Context, studentID string, args reportArgs) (any, error) {
		if runner == nil {
			return nil, &Error{Kind: KindUnavailable, Err: errors.New("analytics runner has not been registered")}
		}
		prompt := services.ReportPrompt
		if f := strings.TrimSpace(args.Focus); f != "" {
			prompt += " Focus on: " + f
		}
		report, err := runner.RunReport(ctx, studentID, prompt)
		if err != nil {
			return nil, &Error{Kind: KindDownstream, Err: err}
		}
		return map[string]any{"studentId": studentID, "report": report}, nil
	})
}
