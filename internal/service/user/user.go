package user

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/Alijeyrad/eunoia_backend/internal/repo"
	"github.com/Alijeyrad/eunoia_backend/pkg/reqctx"
)

type Store interface {
	GetByID(ctx context.Context, id uuid.UUID) (*repo.User, error)
	ListWithCounts(ctx context.Context) ([]*repo.UserSummary, error)
	DeleteCascade(ctx context.Context, id uuid.UUID) error
}

type Service interface {
	GetByID(ctx context.Context, id uuid.UUID) (*repo.User, error)
	// List returns every account, newest first, with per-user record counts.
	List(ctx context.Context) ([]*repo.UserSummary, error)
	// Delete removes the account together with its bookings, assessments and
	// mood logs.
	Delete(ctx context.Context, id uuid.UUID) error
}

type UserService struct {
	store Store
}

func New(store Store) *UserService {
	return &UserService{store: store}
}

func (s *UserService) GetByID(ctx context.Context, id uuid.UUID) (*repo.User, error) {
	u, err := s.store.GetByID(ctx, id)
	if err != nil {
		if repo.IsNotFound(err) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to query user: %w", err)
	}
	return u, nil
}

func (s *UserService) List(ctx context.Context) ([]*repo.UserSummary, error) {
	out, err := s.store.ListWithCounts(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return out, nil
}

func (s *UserService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.store.DeleteCascade(ctx, id); err != nil {
		if repo.IsNotFound(err) {
			return ErrUserNotFound
		}
		return fmt.Errorf("failed to delete user: %w", err)
	}
	slog.InfoContext(ctx, "user_deleted",
		"request_id", reqctx.RequestIDFromContext(ctx),
		"user_id", id,
	)
	return nil
}
