package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/yungbote/mentor-backend/internal/platform/logger"
	"github.com/yungbote/mentor-backend/internal/repos"
)

type GoalService interface {
	// Get returns nil when no goals have been stored.
	Get(ctx context.Context, studentID string) ([]string, error)
	Set(ctx context.Context, studentID string, goals []string) ([]string, error)
}

type goalService struct {
	log      *logger.Logger
	profiles repos.ProfileRepo
}

func NewGoalService(log *logger.Logger, profiles repos.ProfileRepo) GoalService {
	return &goalService{log: log.With("service", "GoalService"), profiles: profiles}
}

func (gs *goalService) Get(ctx context.Context, studentID string) ([]string, error) {
	return gs.profiles.GetGoals(ctx, studentID)
}

// Set stores goals in order. Blank entries are rejected rather than dropped
// so the echoed list always matches what the caller sent.
func (gs *goalService) Set(ctx context.Context, studentID string, goals []string) ([]string, error) {
	for i, g := range goals {
		if strings.TrimSpace(g) == "" {
			return nil, fmt.Errorf("%w: goal %d is empty", ErrValidation, i)
		}
	}
	return gs.profiles.SetGoals(ctx, studentID, goals)
}
