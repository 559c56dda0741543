package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"mobile-verify.backend/internal/config"
	"mobile-verify.backend/internal/domain/entities"
	domainrepo "mobile-verify.backend/internal/domain/repositories"
	"mobile-verify.backend/internal/infrastructure/repositories"
)

// admin-verify marks a user's mobile number verified without a token, for
// support cases where SMS delivery is impossible (ported numbers, carrier
// blocks).

var openAdminDB = func(dsn string) (*gorm.DB, error) {
	return gorm.Open(postgres.New(postgres.Config{DSN: dsn, PreferSimpleProtocol: true}), &gorm.Config{TranslateError: true})
}

var openAdminSQLDB = func(db *gorm.DB) (io.Closer, error) {
	return db.DB()
}

type adminVerifyRuntime interface {
	GetUserByID(ctx context.Context, userID uuid.UUID) (*entities.User, error)
	MarkMobileVerified(ctx context.Context, userID uuid.UUID) error
}

type adminVerifyDeps struct {
	loadEnv func() error
	loadCfg func() *config.Config
	prepare func(cfg *config.Config) (adminVerifyRuntime, io.Closer, error)
	out     io.Writer
}

type adminVerifyRuntimeImpl struct {
	userRepo domainrepo.UserRepository
}

func (r adminVerifyRuntimeImpl) GetUserByID(ctx context.Context, userID uuid.UUID) (*entities.User, error) {
	return r.userRepo.GetByID(ctx, userID)
}

func (r adminVerifyRuntimeImpl) MarkMobileVerified(ctx context.Context, userID uuid.UUID) error {
	return r.userRepo.MarkMobileVerified(ctx, userID)
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

func defaultAdminVerifyDeps() adminVerifyDeps {
	return adminVerifyDeps{
		loadEnv: func() error { return godotenv.Load() },
		loadCfg: config.Load,
		prepare: func(cfg *config.Config) (adminVerifyRuntime, io.Closer, error) {
			db, err := openAdminDB(cfg.Database.URL())
			if err != nil {
				return nil, nil, fmt.Errorf("failed to connect db: %w", err)
			}

			sqlDB, err := openAdminSQLDB(db)
			if err != nil {
				return nil, nil, fmt.Errorf("failed to init sql db: %w", err)
			}

			return adminVerifyRuntimeImpl{
				userRepo: repositories.NewUserRepository(db),
			}, sqlDB, nil
		},
		out: os.Stdout,
	}
}

func parseUserID(userID string) (uuid.UUID, error) {
	if userID == "" {
		return uuid.Nil, fmt.Errorf("--user-id is required")
	}
	return uuid.Parse(userID)
}

func runAdminVerify(args []string, deps adminVerifyDeps) error {
	if deps.loadEnv == nil {
		deps.loadEnv = func() error { return godotenv.Load() }
	}
	if deps.loadCfg == nil {
		deps.loadCfg = config.Load
	}
	if deps.prepare == nil {
		def := defaultAdminVerifyDeps()
		deps.prepare = def.prepare
	}
	if deps.out == nil {
		deps.out = os.Stdout
	}

	fs := flag.NewFlagSet("admin-verify", flag.ContinueOnError)
	userIDFlag := fs.String("user-id", "", "target user UUID (required)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	userID, err := parseUserID(*userIDFlag)
	if err != nil {
		return err
	}

	if err := deps.loadEnv(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg := deps.loadCfg()
	runtime, closer, err := deps.prepare(cfg)
	if err != nil {
		return err
	}
	if closer == nil {
		closer = nopCloser{}
	}
	defer closer.Close()

	ctx := context.Background()
	user, err := runtime.GetUserByID(ctx, userID)
	if err != nil {
		return fmt.Errorf("failed to load user %s: %w", userID, err)
	}
	if user.IsMobileVerified() {
		return fmt.Errorf("user %s is already verified (mobile=%s)", userID, user.Mobile)
	}

	if err := runtime.MarkMobileVerified(ctx, userID); err != nil {
		return fmt.Errorf("failed marking mobile verified: %w", err)
	}

	_, _ = fmt.Fprintln(deps.out, "Marked mobile number verified")
	_, _ = fmt.Fprintf(deps.out, "user_id=%s\n", userID.String())
	_, _ = fmt.Fprintf(deps.out, "mobile=%s\n", user.Mobile)
	return nil
}

func main() {
	if err := runAdminVerify(os.Args[1:], defaultAdminVerifyDeps()); err != nil {
		log.Fatal(err)
	}
}
