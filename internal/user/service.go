package user

import (
	"context"
	"log/slog"

	"github.com/frahmantamala/access-request/internal"
)

// Repository returns (nil, nil) when the user does not exist.
type Repository interface {
	GetByID(ctx context.Context, userID int64) (*Profile, error)
}

type Service struct {
	repo   Repository
	logger *slog.Logger
}

func NewService(repo Repository, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		repo:   repo,
		logger: logger,
	}
}

func (s *Service) GetByID(ctx context.Context, userID int64) (*Profile, error) {
	p, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to get user by id", "user_id", userID, "error", err)
		return nil, internal.NewInternalError("failed to load user", err)
	}
	if p == nil {
		return nil, internal.ErrUserNotFound
	}
	return p, nil
}
