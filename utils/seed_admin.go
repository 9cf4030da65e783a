package utils

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/hazratullahh/eceomerce-jawad/models"
)

type UserSeeder interface {
	EnsureUser(ctx context.Context, u *models.User) (bool, error)
}

func SeedAdminUser(ctx context.Context, users UserSeeder, email, pass, name string) error {
	email = NormalizeEmail(email)
	if email == "" || pass == "" {
		return fmt.Errorf("missing ADMIN_EMAIL or ADMIN_PASSWORD env vars")
	}

	hash, err := HashPassword(pass)
	if err != nil {
		return fmt.Errorf("hash admin password: %w", err)
	}

	now := time.Now().UTC()
	created, err := users.EnsureUser(ctx, &models.User{
		Name:         name,
		Email:        email,
		PasswordHash: hash,
		Role:         models.RoleAdmin,
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if err != nil {
		return fmt.Errorf("seed admin upsert failed: %w", err)
	}

	if created {
		log.Println("Admin user seeded:", email)
	} else {
		log.Println("Admin user already exists:", email)
	}
	return nil
}
