package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/hazratullahh/eceomerce-jawad/database"
	"github.com/hazratullahh/eceomerce-jawad/models"
	"github.com/hazratullahh/eceomerce-jawad/utils"
	"go.mongodb.org/mongo-driver/v2/bson"
)

type UserInput struct {
	Name     string
	Email    string
	Password string // empty on update keeps the current password
	Role     models.Role
}

type UserService struct {
	users database.UserRepository
}

func NewUserService(users database.UserRepository) *UserService {
	return &UserService{users: users}
}

func (s *UserService) List(ctx context.Context, search string) ([]models.User, error) {
	return s.users.List(ctx, strings.TrimSpace(search))
}

func (s *UserService) emailTaken(ctx context.Context, email string, self bson.ObjectID) error {
	other, err := s.users.FindByEmail(ctx, email)
	if errors.Is(err, database.ErrNotFound) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("find user: %w", err)
	}
	if other.ID != self {
		return &ConflictError{Message: "User with this email already exists"}
	}
	return nil
}

func (s *UserService) Create(ctx context.Context, in UserInput) (*models.User, error) {
	if strings.TrimSpace(in.Name) == "" || strings.TrimSpace(in.Email) == "" || in.Password == "" {
		return nil, invalid("user", "Missing required fields")
	}
	if !in.Role.Valid() {
		return nil, invalid("role", "Invalid role provided")
	}
	email := utils.NormalizeEmail(in.Email)
	if err := s.emailTaken(ctx, email, bson.NilObjectID); err != nil {
		return nil, err
	}

	hash, err := utils.HashPassword(in.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	now := time.Now().UTC()
	u := &models.User{
		Name:         strings.TrimSpace(in.Name),
		Email:        email,
		PasswordHash: hash,
		Role:         in.Role,
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.users.Insert(ctx, u); err != nil {
		if errors.Is(err, database.ErrDuplicate) {
			return nil, &ConflictError{Message: "User with this email already exists"}
		}
		return nil, storeError("User", err)
	}
	return u, nil
}

// Register opens a USER account.
func (s *UserService) Register(ctx context.Context, name, email, password string) (*models.User, error) {
	return s.Create(ctx, UserInput{Name: name, Email: email, Password: password, Role: models.RoleUser})
}

func (s *UserService) Update(ctx context.Context, id bson.ObjectID, in UserInput) (*models.User, error) {
	if strings.TrimSpace(in.Name) == "" || strings.TrimSpace(in.Email) == "" {
		return nil, invalid("user", "Missing required fields for update")
	}
	if !in.Role.Valid() {
		return nil, invalid("role", "Invalid role provided")
	}

	u, err := s.users.FindByID(ctx, id)
	if err != nil {
		return nil, storeError("User", err)
	}
	email := utils.NormalizeEmail(in.Email)
	if email != u.Email {
		if err := s.emailTaken(ctx, email, id); err != nil {
			return nil, err
		}
	}

	u.Name = strings.TrimSpace(in.Name)
	u.Email = email
	u.Role = in.Role
	if in.Password != "" {
		hash, err := utils.HashPassword(in.Password)
		if err != nil {
			return nil, fmt.Errorf("hash password: %w", err)
		}
		u.PasswordHash = hash
	}
	u.UpdatedAt = time.Now().UTC()

	if err := s.users.Update(ctx, u); err != nil {
		return nil, storeError("User", err)
	}
	return u, nil
}

// Delete removes a user. Nobody can delete their own account.
func (s *UserService) Delete(ctx context.Context, actor, id bson.ObjectID) error {
	if actor == id {
		return &ForbiddenError{Message: "Cannot delete your own admin account"}
	}
	if err := s.users.Delete(ctx, id); err != nil {
		return storeError("User", err)
	}
	return nil
}
