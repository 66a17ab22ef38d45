package tools

import (
	"context"
	"errors"

	"github.com/yungbote/mentor-backend/internal/agent"
	"github.com/yungbote/mentor-backend/internal/services"
)

func GetStudentProfile(svc services.ProfileService) agent.Tool {
	return newTool(agent.ToolSpec{
		Name:        "get_student_profile",
		Description: "Read the student's profile. Returns null when nothing is saved yet.",
		Parameters:  schema(nil),
	}, func(ctx context.Context, studentID string, _ struct{}) (any, error) {
		doc, err := svc.Get(ctx, studentID)
		if errors.Is(err, services.ErrNotFound) {
			return map[string]any{"profile": nil}, nil
		}
		if err != nil {
			return nil, downstream(err)
		}
		return map[string]any{"profile": doc}, nil
	})
}

func UpdateStudentProfile(svc services.ProfileService) agent.Tool {
	return newTool(agent.ToolSpec{
		Name:        "update_student_profile",
		Description: "Save profile fields the student shared. Only the given fields change.",
		Parameters: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"name":        str("Preferred name."),
				"dateOfBirth": str("Date of birth, YYYY-MM-DD."),
				"grade":       str("School grade or year."),
				"subjects":    map[string]any{"type": "array", "items": map[string]any{"type": "string"}},
				"interests":   map[string]any{"type": "array", "items": map[string]any{"type": "string"}},
			},
			"additionalProperties": true,
		},
	}, func(ctx context.Context, studentID string, fields map[string]any) (any, error) {
		doc, err := svc.Update(ctx, studentID, fields)
		if err != nil {
			return nil, downstream(err)
		}
		return map[string]any{"profile": doc}, nil
	})
}

func CompleteOnboarding(svc services.ProfileService) agent.Tool {
	return newTool(agent.ToolSpec{
		Name:        "complete_onboarding",
		Description: "Mark onboarding finished once profile and goals are saved.",
		Parameters:  schema(nil),
	}, func(ctx context.Context, studentID string, _ struct{}) (any, error) {
		doc, err := svc.CompleteOnboarding(ctx, studentID)
		if err != nil {
			return nil, downstream(err)
		}
		return map[string]any{"profile": doc}, nil
	})
}
