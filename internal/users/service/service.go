package users

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/aleodoni/meetapp/internal/errs"
	"github.com/aleodoni/meetapp/internal/logger"
	"github.com/aleodoni/meetapp/internal/models"
	"github.com/aleodoni/meetapp/internal/validator"
)

const msgUserExists = "User already exists"

type UserDBLayer interface {
	CreateUser(ctx context.Context, user *models.User) error
	GetUserByID(ctx context.Context, id int64) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	UpdateUser(ctx context.Context, user *models.User) error
}

type UserService struct {
	DB     UserDBLayer
	Logger *logger.Logger
	Now    func() time.Time
}

func NewUserService(db UserDBLayer, log *logger.Logger) *UserService {
	return &UserService{DB: db, Logger: log, Now: time.Now}
}

func (s *UserService) Create(ctx context.Context, body map[string]interface{}) (*models.User, error) {
	result := validator.Validate(validator.UserCreateSchema, body)
	if err := result.Err(); err != nil {
		return nil, err
	}

	email := normalizeEmail(result.String("email"))
	if err := s.ensureEmailFree(ctx, email, 0); err != nil {
		return nil, err
	}

	hash, err := HashPassword(result.String("password"))
	if err != nil {
		return nil, err
	}

	now := s.Now()
	user := &models.User{
		Name:         strings.TrimSpace(result.String("name")),
		Email:        email,
		PasswordHash: hash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.DB.CreateUser(ctx, user); err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}

	s.Logger.Info("USER", fmt.Sprintf("User %d registered", user.ID))
	return user, nil
}

// Update changes the profile of userID. Changing the password needs the
// current one plus a matching confirmation.
func (s *UserService) Update(ctx context.Context, userID int64, body map[string]interface{}) (*models.User, error) {
	result := validator.Validate(validator.UserUpdateSchema, body)
	if err := result.Err(); err != nil {
		return nil, err
	}

	var problems []string
	if result.Has("password") {
		if !result.Has("old_password") {
			problems = append(problems, "old_password is a required field")
		}
		if result.String("confirm_password") != result.String("password") {
			problems = append(problems, "confirm_password must match password")
		}
	} else if result.Has("old_password") {
		problems = append(problems, "password is a required field")
	}
	if len(problems) > 0 {
		return nil, errs.NewValidation(problems...)
	}

	user, err := s.DB.GetUserByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("update user %d: %w", userID, err)
	}

	if result.Has("email") {
		email := normalizeEmail(result.String("email"))
		if email != user.Email {
			if err := s.ensureEmailFree(ctx, email, user.ID); err != nil {
				return nil, err
			}
			user.Email = email
		}
	}

	if result.Has("old_password") && !CheckPassword(user.PasswordHash, result.String("old_password")) {
		s.Logger.LogSecurity("USER", fmt.Sprintf("wrong current password for user %d", userID))
		return nil, errs.NewAuth("Password does not match")
	}

	if result.Has("password") {
		hash, err := HashPassword(result.String("password"))
		if err != nil {
			return nil, err
		}
		user.PasswordHash = hash
	}

	if result.Has("name") {
		user.Name = strings.TrimSpace(result.String("name"))
	}
	user.UpdatedAt = s.Now()

	if err := s.DB.UpdateUser(ctx, user); err != nil {
		return nil, fmt.Errorf("update user %d: %w", userID, err)
	}

	s.Logger.Info("USER", fmt.Sprintf("User %d updated", user.ID))
	return user, nil
}

func (s *UserService) ensureEmailFree(ctx context.Context, email string, ownerID int64) error {
	existing, err := s.DB.GetUserByEmail(ctx, email)
	var notFound *errs.NotFoundError
	switch {
	case errors.As(err, &notFound):
		return nil
	case err != nil:
		return fmt.Errorf("lookup user by email: %w", err)
	case existing.ID != ownerID:
		return errs.NewConflict(msgUserExists)
	default:
		return nil
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
