package seed

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	appModels "github.com/demir/enrollpass/internal/app/models"
	appRepos "github.com/demir/enrollpass/internal/app/repositories"
	"github.com/demir/enrollpass/internal/config"
	"github.com/demir/enrollpass/internal/pkg/auth"
)

// CreateDefaultData provisions the default admin account. Students
// self-register, admins only exist through seeding, so a fresh database
// without this step has no way to create courses at all.
func CreateDefaultData(ctx context.Context, dbPool *pgxpool.Pool, cfg *config.Config, lgr zerolog.Logger) error {
	userRepo := appRepos.NewUserRepository(dbPool)

	if cfg.Admin.Email == "" {
		lgr.Warn().Msg("No admin email configured, skipping admin seed")
		return nil
	}

	exists, err := userRepo.EmailExists(ctx, cfg.Admin.Email)
	if err != nil {
		return fmt.Errorf("failed to check for existing admin: %w", err)
	}
	if exists {
		lgr.Info().Str("email", cfg.Admin.Email).Msg("Admin user already exists, skipping creation")
		return nil
	}

	if cfg.Admin.Password == "" {
		return errors.New("admin password is required to seed the admin account")
	}

	hashedPassword, err := auth.HashPassword(cfg.Admin.Password)
	if err != nil {
		return fmt.Errorf("failed to hash admin password: %w", err)
	}

	admin := &appModels.User{
		Email:    cfg.Admin.Email,
		Password: hashedPassword,
		Name:     cfg.Admin.Name,
		RoleType: appModels.RoleAdmin,
	}

	if err := userRepo.Create(ctx, admin); err != nil {
		return fmt.Errorf("failed to create admin user: %w", err)
	}

	lgr.Info().Int64("adminId", admin.ID).Str("email", admin.Email).Msg("Default admin user created")
	return nil
}
