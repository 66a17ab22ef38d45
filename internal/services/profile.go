package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/yungbote/mentor-backend/internal/domain"
	"github.com/yungbote/mentor-backend/internal/platform/logger"
	"github.com/yungbote/mentor-backend/internal/repos"
)

type ProfileService interface {
	Get(ctx context.Context, studentID string) (map[string]any, error)
	// Update merge-writes the given fields and returns the stored profile.
	Update(ctx context.Context, studentID string, updates map[string]any) (map[string]any, error)
	CompleteOnboarding(ctx context.Context, studentID string) (map[string]any, error)
}

type profileService struct {
	log      *logger.Logger
	profiles repos.ProfileRepo
}

func NewProfileService(log *logger.Logger, profiles repos.ProfileRepo) ProfileService {
	return &profileService{log: log.With("service", "ProfileService"), profiles: profiles}
}

// reserved fields are owned by the server.
var reservedProfileFields = map[string]struct{}{
	domain.FieldID:        {},
	domain.FieldUpdatedAt: {},
}

func (ps *profileService) Get(ctx context.Context, studentID string) (map[string]any, error) {
	doc, err := ps.profiles.Get(ctx, studentID)
	if repos.IsNotFound(err) {
		return nil, fmt.Errorf("profile %s: %w", studentID, ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return doc, nil
}

func (ps *profileService) Update(ctx context.Context, studentID string, updates map[string]any) (map[string]any, error) {
	fields := NormalizeProfileUpdate(updates)
	if len(fields) == 0 {
		return nil, fmt.Errorf("%w: no profile fields provided", ErrValidation)
	}
	doc, err := ps.profiles.Merge(ctx, studentID, fields)
	if err != nil {
		return nil, err
	}
	ps.log.Debug("Profile updated", "student_id", studentID, "fields", len(fields))
	return doc, nil
}

func (ps *profileService) CompleteOnboarding(ctx context.Context, studentID string) (map[string]any, error) {
	return ps.profiles.Merge(ctx, studentID, map[string]any{domain.FieldOnboardingComplete: true})
}

// NormalizeProfileUpdate drops null values and server-owned keys and folds
// date_of_birth into dateOfBirth. The camelCase key wins when both are set.
func NormalizeProfileUpdate(updates map[string]any) map[string]any {
	out := make(map[string]any, len(updates))
	for k, v := range updates {
		k = strings.TrimSpace(k)
		if k == "" || v == nil {
			continue
		}
		if _, reserved := reservedProfileFields[k]; reserved {
			continue
		}
		out[k] = v
	}
	if dob, ok := out["date_of_birth"]; ok {
		delete(out, "date_of_birth")
		if _, has := out[domain.FieldDateOfBirth]; !has {
			out[domain.FieldDateOfBirth] = dob
		}
	}
	return out
}
