package repos

import (
	"context"
	"fmt"
	"strings"

	"github.com/yungbote/mentor-backend/internal/domain"
	"github.com/yungbote/mentor-backend/internal/platform/docstore"
	"github.com/yungbote/mentor-backend/internal/platform/logger"
)

type UserRepo interface {
	GetByID(ctx context.Context, id string) (*domain.User, error)
}

type userRepo struct {
	store docstore.Store
	log   *logger.Logger
}

func NewUserRepo(store docstore.Store, baseLog *logger.Logger) UserRepo {
	return &userRepo{store: store, log: baseLog.With("repo", "UserRepo")}
}

func (ur *userRepo) GetByID(ctx context.Context, id string) (*domain.User, error) {
	doc, err := ur.store.Get(ctx, docstore.Users, id)
	if err != nil {
		return nil, err
	}
	u := &domain.User{ID: doc.ID}
	if s, ok := doc.Data["email"].(string); ok {
		u.Email = strings.TrimSpace(s)
	}
	switch r := doc.Data["role"].(type) {
	case string:
		u.Role = domain.Role(strings.ToLower(strings.TrimSpace(r)))
	case nil:
	default:
		ur.log.Warn("User role has unexpected type", "user_id", id, "type", fmt.Sprintf("%T", r))
	}
	return u, nil
}
