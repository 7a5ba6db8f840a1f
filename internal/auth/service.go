package auth

import (
	"context"
	"log/slog"
	"strings"

	"github.com/frahmantamala/access-request/internal"
	"github.com/frahmantamala/access-request/internal/core/user"
	"golang.org/x/crypto/bcrypt"
)

const (
	msgRegistered = "User registered successfully"
	msgLoggedIn   = "Login successful"
)

type Service struct {
	repo           RepositoryAPI
	tokenGenerator TokenGeneratorAPI
	bcryptCost     int
	logger         *slog.Logger
}

func NewService(repo RepositoryAPI, tokenGen TokenGeneratorAPI, bcryptCost int, logger *slog.Logger) *Service {
	if bcryptCost < bcrypt.MinCost || bcryptCost > bcrypt.MaxCost {
		bcryptCost = bcrypt.DefaultCost
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		repo:           repo,
		tokenGenerator: tokenGen,
		bcryptCost:     bcryptCost,
		logger:         logger,
	}
}

// Register creates a user and logs them in. The role defaults to Employee.
func (s *Service) Register(ctx context.Context, dto RegisterDTO) (*AuthResponse, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	// Validate has already rejected unknown roles
	role, _ := user.ParseRole(dto.Role)

	existing, err := s.repo.GetByUsername(ctx, dto.Username)
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to look up username", "error", err)
		return nil, internal.NewInternalError("failed to register user", err)
	}
	if existing != nil {
		return nil, internal.ErrUsernameTaken
	}

	hash, err := HashPassword(dto.Password, s.bcryptCost)
	if err != nil {
		return nil, internal.NewInternalError("failed to hash password", err)
	}

	u := &user.User{
		Username:     dto.Username,
		PasswordHash: hash,
		Role:         role,
	}
	record := ToDataModel(u)
	if err := s.repo.Create(ctx, record); err != nil {
		// a concurrent registration can still win the unique index
		if _, ok := internal.IsAppError(err); ok {
			return nil, err
		}
		s.logger.ErrorContext(ctx, "failed to create user", "error", err)
		return nil, internal.NewInternalError("failed to register user", err)
	}
	u = FromDataModel(record)

	s.logger.InfoContext(ctx, "user registered", "user_id", u.ID, "role", u.Role)
	return s.issue(u, msgRegistered)
}

// Login verifies credentials. Unknown usernames and wrong passwords are
// indistinguishable to the caller.
func (s *Service) Login(ctx context.Context, dto LoginDTO) (*AuthResponse, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	record, err := s.repo.GetByUsername(ctx, dto.Username)
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to look up user", "error", err)
		return nil, internal.NewInternalError("failed to log in", err)
	}
	if record == nil {
		s.logger.InfoContext(ctx, "login failed: unknown username")
		return nil, internal.ErrInvalidCredentials
	}

	if err := VerifyPassword(record.PasswordHash, dto.Password); err != nil {
		s.logger.InfoContext(ctx, "login failed: wrong password", "user_id", record.ID)
		return nil, internal.ErrInvalidCredentials
	}

	u := FromDataModel(record)
	s.logger.InfoContext(ctx, "user logged in", "user_id", u.ID)
	return s.issue(u, msgLoggedIn)
}

func (s *Service) ValidateAccessToken(tokenString string) (*Claims, error) {
	if strings.TrimSpace(tokenString) == "" {
		return nil, internal.ErrMissingToken
	}
	return s.tokenGenerator.ValidateToken(tokenString)
}

// ResolveUser loads the current state of a token's subject. A user deleted
// since the token was issued resolves to ErrUserNotFound.
func (s *Service) ResolveUser(ctx context.Context, userID int64) (*user.User, error) {
	record, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		return nil, internal.NewInternalError("failed to load user", err)
	}
	if record == nil {
		return nil, internal.ErrUserNotFound
	}
	return FromDataModel(record), nil
}

func (s *Service) issue(u *user.User, message string) (*AuthResponse, error) {
	token, expiresAt, err := s.tokenGenerator.GenerateToken(u)
	if err != nil {
		return nil, internal.NewInternalError("failed to issue token", err)
	}
	return &AuthResponse{
		Message:   message,
		Token:     token,
		ExpiresAt: expiresAt,
		User:      NewUserView(u),
	}, nil
}
