package repos

import (
	"context"
	"fmt"

	"github.com/yungbote/mentor-backend/internal/domain"
	"github.com/yungbote/mentor-backend/internal/platform/docstore"
	"github.com/yungbote/mentor-backend/internal/platform/logger"
)

// ProfileRepo reads and merge-writes student profile documents.
type ProfileRepo interface {
	Get(ctx context.Context, studentID string) (map[string]any, error)
	// Merge writes fields plus id and updatedAt, keeping every other field,
	// and returns the stored document.
	Merge(ctx context.Context, studentID string, fields map[string]any) (map[string]any, error)
	GetGoals(ctx context.Context, studentID string) ([]string, error)
	SetGoals(ctx context.Context, studentID string, goals []string) ([]string, error)
}

type profileRepo struct {
	store docstore.Store
	log   *logger.Logger
	now   Clock
}

func NewProfileRepo(store docstore.Store, baseLog *logger.Logger) ProfileRepo {
	return &profileRepo{store: store, log: baseLog.With("repo", "ProfileRepo"), now: systemClock}
}

func (pr *profileRepo) Get(ctx context.Context, studentID string) (map[string]any, error) {
	doc, err := pr.store.Get(ctx, docstore.Students, studentID)
	if err != nil {
		return nil, err
	}
	return doc.Map(), nil
}

func (pr *profileRepo) Merge(ctx context.Context, studentID string, fields map[string]any) (map[string]any, error) {
	update := make(map[string]any, len(fields)+2)
	for k, v := range fields {
		update[k] = v
	}
	update[domain.FieldID] = studentID
	update[domain.FieldUpdatedAt] = domain.Timestamp(pr.now())
	if err := pr.store.Set(ctx, docstore.Students, studentID, update, docstore.SetOptions{Merge: true}); err != nil {
		return nil, fmt.Errorf("merge profile: %w", err)
	}
	return pr.Get(ctx, studentID)
}

// GetGoals returns nil when the profile or its goals field is absent.
func (pr *profileRepo) GetGoals(ctx context.Context, studentID string) ([]string, error) {
	doc, err := pr.Get(ctx, studentID)
	if IsNotFound(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return StringList(doc[domain.FieldGoals]), nil
}

func (pr *profileRepo) SetGoals(ctx context.Context, studentID string, goals []string) ([]string, error) {
	if goals == nil {
		goals = []string{}
	}
	doc, err := pr.Merge(ctx, studentID, map[string]any{domain.FieldGoals: goals})
	if err != nil {
		return nil, err
	}
	return StringList(doc[domain.FieldGoals]), nil
}

// StringList converts a decoded document value into []string. Non-string
// elements are skipped; a missing value yields nil.
func StringList(v any) []string {
	switch x := v.(type) {
	case []string:
		return append([]string{}, x...)
	case []any:
		out := make([]string, 0, len(x))
		for _, it := range x {
			if s, ok := it.(string); ok {
				out = append(out, s)
			}
		}
		return out
	}
	return nil
}
