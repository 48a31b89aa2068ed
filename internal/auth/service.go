package auth

import (
	"context"
	"log/slog"

	"github.com/deevseek/washcorner/internal"
	"golang.org/x/crypto/bcrypt"
)

// Actor is the authenticated caller placed in the request context.
type Actor = internal.Actor

type Service struct {
	repo           RepositoryAPI
	tokenGenerator TokenGeneratorAPI
	logger         *slog.Logger
}

func NewService(repo RepositoryAPI, tokenGen TokenGeneratorAPI, logger *slog.Logger) *Service {
	return &Service{
		repo:           repo,
		tokenGenerator: tokenGen,
		logger:         logger,
	}
}

// Authenticate validates credentials and returns tokens. Unknown emails and
// wrong passwords produce the same error.
func (s *Service) Authenticate(ctx context.Context, dto LoginDTO) (AuthTokens, error) {
	dto.Normalize()
	if err := dto.Validate(); err != nil {
		return AuthTokens{}, err
	}

	u, err := s.repo.GetByEmail(ctx, dto.Email)
	if err != nil {
		s.logger.Error("failed to load user for login", "error", err)
		return AuthTokens{}, internal.NewInternalError("failed to authenticate", err)
	}
	if u == nil {
		return AuthTokens{}, internal.ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(dto.Password)); err != nil {
		s.logger.Warn("login rejected: password mismatch", "user_id", u.ID)
		return AuthTokens{}, internal.ErrInvalidCredentials
	}
	if !u.IsActive {
		return AuthTokens{}, internal.ErrUserInactive
	}

	return s.issue(u.ID, u.Email, u.RoleName)
}

// RefreshTokens exchanges a refresh token for a new pair, re-reading the
// user so a deactivated account cannot refresh.
func (s *Service) RefreshTokens(ctx context.Context, refreshToken string) (AuthTokens, error) {
	claims, err := s.tokenGenerator.ValidateRefreshToken(refreshToken)
	if err != nil {
		return AuthTokens{}, err
	}

	u, err := s.repo.GetByID(ctx, claims.UserID)
	if err != nil {
		return AuthTokens{}, internal.NewInternalError("failed to refresh tokens", err)
	}
	if u == nil {
		return AuthTokens{}, internal.ErrInvalidToken
	}
	if !u.IsActive {
		return AuthTokens{}, internal.ErrUserInactive
	}

	return s.issue(u.ID, u.Email, u.RoleName)
}

func (s *Service) ValidateAccessToken(tokenString string) (*Claims, error) {
	return s.tokenGenerator.ValidateAccessToken(tokenString)
}

// ResolveActor loads the current state of the token's user.
func (s *Service) ResolveActor(ctx context.Context, claims *Claims) (*Actor, error) {
	u, err := s.repo.GetByID(ctx, claims.UserID)
	if err != nil {
		return nil, internal.NewInternalError("failed to load user", err)
	}
	if u == nil {
		return nil, internal.ErrInvalidToken
	}
	if !u.IsActive {
		return nil, internal.ErrUserInactive
	}
	return &Actor{
		UserID: u.ID,
		Email:  u.Email,
		Name:   u.Name,
		Role:   u.RoleName,
	}, nil
}

func (s *Service) issue(userID int64, email, role string) (AuthTokens, error) {
	access, err := s.tokenGenerator.GenerateAccessToken(userID, email, role)
	if err != nil {
		return AuthTokens{}, internal.NewInternalError("failed to issue token", err)
	}
	refresh, err := s.tokenGenerator.GenerateRefreshToken(userID, email, role)
	if err != nil {
		return AuthTokens{}, internal.NewInternalError("failed to issue token", err)
	}

	tokens := AuthTokens{AccessToken: access, RefreshToken: refresh, Role: role}
	if claims, err := s.tokenGenerator.ValidateAccessToken(access); err == nil && claims.ExpiresAt != nil {
		tokens.ExpiresAt = claims.ExpiresAt.Time
	}
	return tokens, nil
}

// HashPassword creates a bcrypt hash of the password
func HashPassword(password string, cost int) (string, error) {
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}
