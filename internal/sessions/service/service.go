package sessions

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/aleodoni/meetapp/internal/auth"
	"github.com/aleodoni/meetapp/internal/errs"
	"github.com/aleodoni/meetapp/internal/logger"
	"github.com/aleodoni/meetapp/internal/models"
	users "github.com/aleodoni/meetapp/internal/users/service"
	"github.com/aleodoni/meetapp/internal/validator"
)

const msgInvalidCredentials = "Invalid email or password"

type UserLookup interface {
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
}

type SessionService struct {
	Users       UserLookup
	Tokens      *auth.TokenManager
	Revocations auth.RevocationStore
	Logger      *logger.Logger
}

func NewSessionService(lookup UserLookup, tokens *auth.TokenManager, revocations auth.RevocationStore, log *logger.Logger) *SessionService {
	return &SessionService{Users: lookup, Tokens: tokens, Revocations: revocations, Logger: log}
}

// Create checks the credentials in body and issues a session token.
func (s *SessionService) Create(ctx context.Context, body map[string]interface{}) (*models.SessionResponse, error) {
	result := validator.Validate(validator.SessionSchema, body)
	if err := result.Err(); err != nil {
		return nil, err
	}

	email := strings.ToLower(strings.TrimSpace(result.String("email")))
	user, err := s.Users.GetUserByEmail(ctx, email)
	var notFound *errs.NotFoundError
	if errors.As(err, &notFound) {
		s.Logger.LogSecurity("SESSION", "login attempt for unknown email")
		return nil, errs.NewAuth(msgInvalidCredentials)
	}
	if err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}

	if !users.CheckPassword(user.PasswordHash, result.String("password")) {
		s.Logger.LogSecurity("SESSION", fmt.Sprintf("wrong password for user %d", user.ID))
		return nil, errs.NewAuth(msgInvalidCredentials)
	}

	token, _, err := s.Tokens.Issue(user.ID)
	if err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}

	s.Logger.Info("SESSION", fmt.Sprintf("User %d signed in", user.ID))
	return &models.SessionResponse{User: user.Summary(), Token: token}, nil
}

// Destroy revokes the token described by claims. Without a revocation store
// logout is a no-op and tokens live until they expire.
func (s *SessionService) Destroy(ctx context.Context, claims *auth.Claims) error {
	if s.Revocations == nil {
		return nil
	}
	if err := s.Revocations.Revoke(ctx, claims); err != nil {
		return fmt.Errorf("destroy session: %w", err)
	}
	s.Logger.Info("SESSION", fmt.Sprintf("User %d signed out", claims.UserID))
	return nil
}
