package auth

import (
	"context"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

// Permission names granted to committee members. Stored in the
// permissions table and checked by the RBAC middleware.
const (
	PermRecordDues      = "record_dues"
	PermManageResidents = "manage_residents"
	PermManageCash      = "manage_cash"
	PermManageSettings  = "manage_settings"
	PermManageBackup    = "manage_backup"
	PermViewReports     = "view_reports"
	PermTreasurer       = "treasurer"
	PermAdmin           = "admin"
)

type contextKey string

// ContextUserKey carries the authenticated user through the request
// context.
const ContextUserKey contextKey = "auth_user"

// User is the authenticated committee member attached to a request.
type User struct {
	ID          int64    `json:"id"`
	Email       string   `json:"email"`
	Name        string   `json:"name,omitempty"`
	Permissions []string `json:"permissions,omitempty"`
}

func (u *User) HasPermission(permission string) bool {
	for _, p := range u.Permissions {
		if p == permission {
			return true
		}
	}
	return false
}

func (u *User) HasAnyPermission(permissions []string) bool {
	for _, userPerm := range u.Permissions {
		for _, requiredPerm := range permissions {
			if userPerm == requiredPerm {
				return true
			}
		}
	}
	return false
}

// IsTreasurer reports whether the user can handle money: recording
// dues and cash entries.
func (u *User) IsTreasurer() bool {
	return u.HasAnyPermission([]string{PermTreasurer, PermAdmin})
}

func (u *User) IsAdmin() bool {
	return u.HasPermission(PermAdmin)
}

// ContextWithUser attaches the authenticated user to a context.
func ContextWithUser(ctx context.Context, user *User) context.Context {
	return context.WithValue(ctx, ContextUserKey, user)
}

// UserFromContext extracts the authenticated user from a context.
func UserFromContext(ctx context.Context) (*User, bool) {
	user, ok := ctx.Value(ContextUserKey).(*User)
	return user, ok
}

type ServiceAPI interface {
	Authenticate(dto LoginDTO) (AuthTokens, error)
	RefreshTokens(refreshToken string) (AuthTokens, error)
	ValidateAccessToken(tokenString string) (*Claims, error)
	GetUserWithPermissions(userID int64) (*User, error)
	HashPassword(password string) (string, error)
}

type RepositoryAPI interface {
	GetPasswordForUsername(email string) (passwordHash string, userID string, err error)
	GetUserWithPermissions(userID int64) (*User, error)
}

type TokenGeneratorAPI interface {
	GenerateAccessToken(userID string) (token string, err error)
	GenerateRefreshToken(userID string) (token string, err error)
	ValidateToken(tokenString string) (*Claims, error)
}

type AuthTokens struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// Claims represents JWT token claims
type Claims struct {
	UserID string `json:"user_id"`
	Email  string `json:"email"`
	jwt.RegisteredClaims
}

type JWTTokenGenerator struct {
	AccessTokenSecret  []byte
	RefreshTokenSecret []byte
	AccessTokenTTL     time.Duration
	RefreshTokenTTL    time.Duration
}

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidToken       = errors.New("invalid token")
	ErrTokenExpired       = errors.New("token expired")
	ErrUserInactive       = errors.New("user is inactive")
)

func VerifyPassword(hashedPassword, password string) error {
	return bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(password))
}

func HashPassword(password string, cost int) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}
