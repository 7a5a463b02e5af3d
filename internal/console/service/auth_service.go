package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/xela07ax/shield-console/internal/audit"
	"github.com/xela07ax/shield-console/internal/domain"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

type UserProvider interface {
	GetUserByEmail(ctx context.Context, email string) (*domain.User, error)
}

type SessionIssuer interface {
	Issue(u *domain.User) (string, time.Time, error)
}

type AuthService struct {
	users    UserProvider // nil, если БД не сконфигурирована: логин невозможен
	sessions SessionIssuer
	auditor  audit.Auditor
	logger   *zap.Logger
}

func NewAuthService(users UserProvider, sessions SessionIssuer, auditor audit.Auditor, logger *zap.Logger) *AuthService {
	return &AuthService{
		users:    users,
		sessions: sessions,
		auditor:  auditor,
		logger:   logger.Named("auth-service"),
	}
}

// LoginResult выпущенная сессия
type LoginResult struct {
	User      *domain.User
	Token     string
	ExpiresAt time.Time
}

// Login проверяет email/пароль (bcrypt) и выпускает сессию.
// Не уточняем, что именно неверно (логин или пароль), для защиты от перебора.
func (s *AuthService) Login(ctx context.Context, email, password, clientIP string) (*LoginResult, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" || s.users == nil {
		return nil, domain.ErrInvalidCredentials
	}

	user, err := s.users.GetUserByEmail(ctx, email)
	if err != nil {
		s.logger.Error("user lookup failed", zap.Error(err))
		return nil, fmt.Errorf("auth: user lookup: %w", err)
	}
	if user == nil || user.PasswordHash == "" {
		s.fail(email, clientIP, "unknown_user")
		return nil, domain.ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		s.fail(email, clientIP, "bad_password")
		return nil, domain.ErrInvalidCredentials
	}

	token, expiresAt, err := s.sessions.Issue(user)
	if err != nil {
		return nil, err
	}

	s.auditor.Log(audit.Event{
		Actor:    user.Email,
		Action:   audit.ActionLogin,
		Target:   user.ID,
		Status:   "SUCCESS",
		ClientIP: clientIP,
	})
	return &LoginResult{User: user, Token: token, ExpiresAt: expiresAt}, nil
}

func (s *AuthService) fail(email, clientIP, reason string) {
	s.auditor.Log(audit.Event{
		Actor:    email,
		Action:   audit.ActionLoginFailed,
		Status:   "REJECTED",
		Details:  map[string]interface{}{"reason": reason},
		ClientIP: clientIP,
	})
}
