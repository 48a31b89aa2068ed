package auth

import (
	"context"
	"time"

	userDatamodel "github.com/deevseek/washcorner/internal/core/datamodel/user"
	"github.com/golang-jwt/jwt/v5"
)

const (
	TokenTypeAccess  = "access"
	TokenTypeRefresh = "refresh"
)

type ServiceAPI interface {
	Authenticate(ctx context.Context, dto LoginDTO) (AuthTokens, error)
	RefreshTokens(ctx context.Context, refreshToken string) (AuthTokens, error)
	ValidateAccessToken(tokenString string) (*Claims, error)
	ResolveActor(ctx context.Context, claims *Claims) (*Actor, error)
}

type RepositoryAPI interface {
	// GetByEmail returns nil when no user has the address.
	GetByEmail(ctx context.Context, email string) (*userDatamodel.UserWithRole, error)
	// GetByID returns nil when the user does not exist.
	GetByID(ctx context.Context, id int64) (*userDatamodel.UserWithRole, error)
}

type TokenGeneratorAPI interface {
	GenerateAccessToken(userID int64, email, role string) (string, error)
	GenerateRefreshToken(userID int64, email, role string) (string, error)
	ValidateAccessToken(tokenString string) (*Claims, error)
	ValidateRefreshToken(tokenString string) (*Claims, error)
}

type AuthTokens struct {
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token"`
	ExpiresAt    time.Time `json:"expires_at"`
	Role         string    `json:"role"`
}

// Claims carries the user's role at issue time. The auth middleware reloads
// the role from the database so role changes apply before the token expires.
type Claims struct {
	UserID    int64  `json:"user_id"`
	Email     string `json:"email"`
	Role      string `json:"role"`
	TokenType string `json:"token_type"`
	jwt.RegisteredClaims
}
