package tools

import (
	"context"
	"errors"

	"github.com/yungbote/mentor-backend/internal/agent"
	"github.com/yungbote/mentor-backend/internal/services"
)

func GetGoals(svc services.GoalService) agent.Tool {
	return newTool(agent.ToolSpec{
		Name:        "get_goals",
		Description: "Read the student's current goals.",
		Parameters:  schema(nil),
	}, func(ctx context.Context, studentID string, _ struct{}) (any, error) {
		goals, err := svc.Get(ctx, studentID)
		if err != nil {
			return nil, downstream(err)
		}
		return map[string]any{"goals": goals}, nil
	})
}

type updateGoalsArgs struct {
	Goals []string `json:"goals"`
}

func (a *updateGoalsArgs) validate() error {
	if a.Goals == nil {
		return errors.New("goals must be a list of strings")
	}
	return nil
}

func UpdateGoals(svc services.GoalService) agent.Tool {
	return newTool(agent.ToolSpec{
		Name:        "update_goals",
		Description: "Replace the student's goals with the given ordered list.",
		Parameters: schema(map[string]any{
			"goals": map[string]any{"type": "array", "items": map[string]any{"type": "string"}},
		}, "goals"),
	}, func(ctx context.Context, studentID string, args updateGoalsArgs) (any, error) {
		goals, err := svc.Set(ctx, studentID, args.Goals)
		if err != nil {
			return nil, downstream(err)
		}
		return map[string]any{"goals": goals}, nil
	})
}
