package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"stockchat/internal/core/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func newTestAuth(users *MockUserStore) *Auth {
	return NewAuth(users, []byte("test-secret"), time.Hour)
}

func TestAuth_Register(t *testing.T) {
	tests := []struct {
		name     string
		userName string
		password string
		storeErr error
		wantErr  error
	}{
		{
			name:     "valid registration",
			userName: "alice",
			password: "hunter22",
		},
		{
			name:     "name is trimmed",
			userName: "  bob  ",
			password: "hunter22",
		},
		{
			name:     "short password rejected",
			userName: "alice",
			password: "abc",
			wantErr:  domain.ErrPasswordTooShort,
		},
		{
			name:     "duplicate name",
			userName: "alice",
			password: "hunter22",
			storeErr: domain.ErrUserExists,
			wantErr:  domain.ErrUserExists,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			users := new(MockUserStore)
			if tc.wantErr == nil || tc.storeErr != nil {
				users.On("CreateUser", mock.Anything, mock.AnythingOfType("domain.User")).Return(tc.storeErr)
			}

			user, err := newTestAuth(users).Register(context.Background(), tc.userName, tc.password)

			if tc.wantErr != nil {
				require.ErrorIs(t, err, tc.wantErr)
				return
			}
			require.NoError(t, err)
			assert.NotEqual(t, tc.password, user.PasswordHash)
			assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(tc.password)))
			assert.Equal(t, strings.TrimSpace(tc.userName), user.Name)
			users.AssertExpectations(t)
		})
	}
}

func TestAuth_LoginRoundTrip(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("hunter22"), bcrypt.DefaultCost)
	require.NoError(t, err)

	users := new(MockUserStore)
	stored := domain.User{Name: "alice", PasswordHash: string(hash)}
	users.On("GetUserByName", mock.Anything, "alice").Return(stored, nil)

	auth := newTestAuth(users)

	token, user, err := auth.Login(context.Background(), "alice", "hunter22")
	require.NoError(t, err)
	assert.Equal(t, "alice", user.Name)

	claims, err := auth.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, "alice", claims.UserName)
}

func TestAuth_LoginFailures(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("hunter22"), bcrypt.DefaultCost)
	require.NoError(t, err)

	tests := []struct {
		name     string
		userName string
		password string
	}{
		{
			name:     "unknown user",
			userName: "nobody",
			password: "hunter22",
		},
		{
			name:     "wrong password",
			userName: "alice",
			password: "wrong",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			users := new(MockUserStore)
			users.On("GetUserByName", mock.Anything, "alice").
				Return(domain.User{Name: "alice", PasswordHash: string(hash)}, nil)
			users.On("GetUserByName", mock.Anything, "nobody").
				Return(domain.User{}, domain.ErrUserNotFound)

			_, _, err := newTestAuth(users).Login(context.Background(), tc.userName, tc.password)

			require.ErrorIs(t, err, domain.ErrInvalidCredentials)
		})
	}
}

func TestAuth_VerifyRejectsForeignToken(t *testing.T) {
	users := new(MockUserStore)
	other := NewAuth(users, []byte("other-secret"), time.Hour)
	token, err := other.issueToken(domain.User{Name: "alice"})
	require.NoError(t, err)

	_, err = newTestAuth(users).Verify(token)
	require.Error(t, err)
}
