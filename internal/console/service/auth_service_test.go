package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xela07ax/shield-console/internal/domain"
	"go.uber.org/zap/zaptest"
	"golang.org/x/crypto/bcrypt"
)

type mapUsers map[string]*domain.User

func (m mapUsers) GetUserByEmail(_ context.Context, email string) (*domain.User, error) {
	return m[email], nil
}

type failingUsers struct{}

func (failingUsers) GetUserByEmail(context.Context, string) (*domain.User, error) {
	return nil, errors.New("db down")
}

type fakeIssuer struct{}

func (fakeIssuer) Issue(u *domain.User) (string, time.Time, error) {
	return "token-" + u.ID, time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC), nil
}

func usersWithAdmin(t *testing.T) mapUsers {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte("s3cret"), bcrypt.MinCost)
	require.NoError(t, err)
	return mapUsers{
		"admin@shield.local":   {ID: "usr-admin", Email: "admin@shield.local", Role: "admin", PasswordHash: string(hash)},
		"analyst@shield.local": {ID: "usr-analyst", Email: "analyst@shield.local", Role: "analyst"},
	}
}

func TestAuthService_Login(t *testing.T) {
	aud := &recordingAuditor{}
	svc := NewAuthService(usersWithAdmin(t), fakeIssuer{}, aud, zaptest.NewLogger(t))

	res, err := svc.Login(context.Background(), " Admin@Shield.local ", "s3cret", "127.0.0.1")
	require.NoError(t, err)
	assert.Equal(t, "token-usr-admin", res.Token)
	assert.Equal(t, "admin", res.User.Role)
	assert.Equal(t, []string{"auth.login:SUCCESS"}, aud.actions())
}

func TestAuthService_InvalidCredentials(t *testing.T) {
	tests := []struct {
		name, email, password string
	}{
		{"wrong password", "admin@shield.local", "nope"},
		{"unknown user", "ghost@shield.local", "s3cret"},
		{"user without password", "analyst@shield.local", "anything"},
		{"empty input", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := NewAuthService(usersWithAdmin(t), fakeIssuer{}, &recordingAuditor{}, zaptest.NewLogger(t))
			_, err := svc.Login(context.Background(), tt.email, tt.password, "127.0.0.1")
			assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
		})
	}
}

func TestAuthService_NoStore(t *testing.T) {
	svc := NewAuthService(nil, fakeIssuer{}, &recordingAuditor{}, zaptest.NewLogger(t))
	_, err := svc.Login(context.Background(), "admin@shield.local", "s3cret", "")
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
}

func TestAuthService_LookupError(t *testing.T) {
	svc := NewAuthService(failingUsers{}, fakeIssuer{}, &recordingAuditor{}, zaptest.NewLogger(t))
	_, err := svc.Login(context.Background(), "admin@shield.local", "s3cret", "")
	require.Error(t, err)
	assert.NotErrorIs(t, err, domain.ErrInvalidCredentials)
}
