package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/yeremiapane/autoservice-app/models"
	"github.com/yeremiapane/autoservice-app/store"
	"golang.org/x/crypto/bcrypt"
)

const minPasswordLength = 6

type UserInput struct {
	Username        string      `json:"username" binding:"required"`
	FirstName       string      `json:"first_name"`
	LastName        string      `json:"last_name"`
	Email           string      `json:"email" binding:"omitempty,email"`
	Phone           string      `json:"phone"`
	Role            models.Role `json:"role" binding:"required"`
	IsActive        *bool       `json:"is_active"`
	Password        string      `json:"password"`
	PasswordConfirm string      `json:"password_confirm"`
}

type UserService struct {
	store store.Store
}

func NewUserService(s store.Store) *UserService {
	return &UserService{store: s}
}

func (s *UserService) List(ctx context.Context, role models.Role) ([]models.User, error) {
	var opts []store.Option
	if role != "" {
		opts = append(opts, store.Where("role = ?", role))
	}
	return s.store.Users().List(ctx, opts...)
}

func (s *UserService) Get(ctx context.Context, id uint) (*models.User, error) {
	user, err := s.store.Users().Get(ctx, id)
	if err != nil {
		return nil, lookupError("user", err)
	}
	return user, nil
}

func (s *UserService) Create(ctx context.Context, in UserInput) (*models.User, error) {
	if err := validateUser(in); err != nil {
		return nil, err
	}
	if in.Password == "" {
		return nil, validationError("password is required")
	}
	if err := s.ensureUsernameFree(ctx, in.Username, 0); err != nil {
		return nil, err
	}

	user := &models.User{IsActive: true}
	if err := applyUser(user, in); err != nil {
		return nil, err
	}
	if err := s.store.Users().Create(ctx, user); err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}
	return user, nil
}

// Update edits the profile. The password changes only when a new one is given.
func (s *UserService) Update(ctx context.Context, id uint, in UserInput) (*models.User, error) {
	if err := validateUser(in); err != nil {
		return nil, err
	}
	user, err := s.store.Users().Get(ctx, id)
	if err != nil {
		return nil, lookupError("user", err)
	}
	if err := s.ensureUsernameFree(ctx, in.Username, id); err != nil {
		return nil, err
	}
	if err := applyUser(user, in); err != nil {
		return nil, err
	}
	if err := s.store.Users().Update(ctx, user); err != nil {
		return nil, fmt.Errorf("update user: %w", err)
	}
	return user, nil
}

// Delete removes a user. Nobody can delete their own account.
func (s *UserService) Delete(ctx context.Context, id, actorID uint) error {
	if id == actorID {
		return forbiddenError("you cannot delete your own account")
	}
	if err := s.store.Users().Delete(ctx, id); err != nil {
		return lookupError("user", err)
	}
	return nil
}

func (s *UserService) ensureUsernameFree(ctx context.Context, username string, exceptID uint) error {
	n, err := s.store.Users().Count(ctx, store.Where("username = ? AND id <> ?", strings.TrimSpace(username), exceptID))
	if err != nil {
		return err
	}
	if n > 0 {
		return conflictError("username %s is already taken", username)
	}
	return nil
}

func validateUser(in UserInput) error {
	if strings.TrimSpace(in.Username) == "" {
		return validationError("username is required")
	}
	if !models.IsValidRole(in.Role) {
		return validationError("unknown role %q", in.Role)
	}
	if in.Password != "" || in.PasswordConfirm != "" {
		if in.Password != in.PasswordConfirm {
			return validationError("passwords do not match")
		}
		if len(in.Password) < minPasswordLength {
			return validationError("password must be at least %d characters", minPasswordLength)
		}
	}
	return nil
}

func applyUser(user *models.User, in UserInput) error {
	user.Username = strings.TrimSpace(in.Username)
	user.FirstName = in.FirstName
	user.LastName = in.LastName
	user.Email = in.Email
	user.Phone = in.Phone
	user.Role = in.Role
	if in.IsActive != nil {
		user.IsActive = *in.IsActive
	}
	if in.Password != "" {
		hashed, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
		if err != nil {
			return fmt.Errorf("hash password: %w", err)
		}
		user.Password = string(hashed)
	}
	return nil
}
