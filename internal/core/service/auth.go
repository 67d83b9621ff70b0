package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"stockchat/internal/core/domain"
	"stockchat/internal/core/port"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"
)

const minPasswordLength = 6

// Claims is the session token payload.
type Claims struct {
	UserID   string `json:"user_id"`
	UserName string `json:"user_name"`
	jwt.RegisteredClaims
}

// Auth owns registration, login and session token verification. The pipeline
// only ever sees the opaque user id it produces.
type Auth struct {
	users     port.UserStore
	jwtSecret []byte
	tokenTTL  time.Duration
}

func NewAuth(users port.UserStore, jwtSecret []byte, tokenTTL time.Duration) *Auth {
	return &Auth{users: users, jwtSecret: jwtSecret, tokenTTL: tokenTTL}
}

func (a *Auth) Register(ctx context.Context, name, password string) (domain.User, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return domain.User{}, errors.New("username is required")
	}
	if len(password) < minPasswordLength {
		return domain.User{}, domain.ErrPasswordTooShort
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return domain.User{}, fmt.Errorf("hashing password: %w", err)
	}

	user := domain.User{
		ID:           uuid.New(),
		Name:         name,
		PasswordHash: string(hash),
		CreatedAtUTC: time.Now().UTC(),
	}

	if err := a.users.CreateUser(ctx, user); err != nil {
		return domain.User{}, err
	}

	log.Info().Str("user", user.Name).Msg("user registered")
	return user, nil
}

// Login checks credentials and issues a session token. Unknown users and bad
// passwords are indistinguishable to the caller.
func (a *Auth) Login(ctx context.Context, name, password string) (string, domain.User, error) {
	user, err := a.users.GetUserByName(ctx, strings.TrimSpace(name))
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return "", domain.User{}, domain.ErrInvalidCredentials
		}
		return "", domain.User{}, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", domain.User{}, domain.ErrInvalidCredentials
	}

	token, err := a.issueToken(user)
	if err != nil {
		return "", domain.User{}, fmt.Errorf("issuing token: %w", err)
	}

	log.Info().Str("user", user.Name).Msg("user logged in")
	return token, user, nil
}

func (a *Auth) issueToken(user domain.User) (string, error) {
	now := time.Now()
	claims := &Claims{
		UserID:   user.ID.String(),
		UserName: user.Name,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(a.tokenTTL)),
			IssuedAt:  jwt.NewNumericDate(now),
			Issuer:    "stockchat",
		},
	}

	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(a.jwtSecret)
}

// Verify parses and validates a session token, returning its claims.
func (a *Auth) Verify(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(_ *jwt.Token) (any, error) {
		return a.jwtSecret, nil
	})
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, jwt.ErrSignatureInvalid
	}

	return claims, nil
}
