package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/pageza/foodgram/backend/internal/store"
	"github.com/pageza/foodgram/backend/internal/types"
)

// UserService reads user profiles
type UserService struct {
	users store.UserStore
	views *ViewBuilder
}

func NewUserService(users store.UserStore, views *ViewBuilder) *UserService {
	return &UserService{users: users, views: views}
}

func (s *UserService) ListUsers(ctx context.Context, actor *uuid.UUID, q *types.PageQuery) (*types.ListResponse[types.UserView], error) {
	users, total, err := s.users.List(ctx, store.Page{Offset: q.Offset(), Limit: q.Size()})
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	views, err := s.views.Users(ctx, actor, users)
	if err != nil {
		return nil, err
	}
	return &types.ListResponse[types.UserView]{Count: total, Results: views}, nil
}

func (s *UserService) GetUser(ctx context.Context, actor *uuid.UUID, id uuid.UUID) (*types.UserView, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, notFound("user", id)
		}
		return nil, fmt.Errorf("failed to load user: %w", err)
	}
	return s.views.User(ctx, actor, user)
}

// IsAdmin reports whether id belongs to an admin. Unknown ids are not admins.
func (s *UserService) IsAdmin(ctx context.Context, id uuid.UUID) (bool, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return false, nil
		}
		return false, err
	}
	return user.IsAdmin(), nil
}
