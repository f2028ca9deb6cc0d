package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/pflag"

	"github.com/dtroode/deltacargo-server/internal/config"
	"github.com/dtroode/deltacargo-server/internal/logger"
	"github.com/dtroode/deltacargo-server/internal/model"
	"github.com/dtroode/deltacargo-server/internal/password"
	"github.com/dtroode/deltacargo-server/internal/repository/postgres"
)

type account struct {
	email        string
	password     string
	name         string
	whatsapp     string
	branch       string
	personalCode string
	role         model.Role
}

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "seed: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	var (
		admin      account
		client     account
		skipClient bool
	)
	admin.role, client.role = model.RoleAdmin, model.RoleClient

	flagSet := pflag.NewFlagSet("seed", pflag.ContinueOnError)
	flagSet.StringVar(&admin.email, "admin-email", "admin@deltacargo.com", "admin login")
	flagSet.StringVar(&admin.password, "admin-password", "admin123", "admin password")
	flagSet.StringVar(&admin.name, "admin-name", "Administrator", "admin display name")
	flagSet.StringVar(&admin.whatsapp, "admin-whatsapp", "+77771234567", "admin whatsapp number")
	flagSet.StringVar(&admin.branch, "admin-branch", "HQ", "admin branch")
	flagSet.StringVar(&admin.personalCode, "admin-code", "ADMIN001", "admin personal code")
	flagSet.StringVar(&client.email, "client-email", "client@test.com", "test client login")
	flagSet.StringVar(&client.password, "client-password", "test123", "test client password")
	flagSet.StringVar(&client.name, "client-name", "Test Client", "test client display name")
	flagSet.StringVar(&client.whatsapp, "client-whatsapp", "+77757777777", "test client whatsapp number")
	flagSet.StringVar(&client.branch, "client-branch", "Almaty", "test client branch")
	flagSet.BoolVar(&skipClient, "skip-client", false, "create only the admin account")
	dsn := flagSet.String("dsn", "", "database DSN (default: DATABASE_DSN)")

	if err := flagSet.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return nil
		}
		return err
	}

	cfg, err := config.NewConfig()
	if err != nil {
		return err
	}
	if *dsn != "" {
		cfg.Database.DSN = *dsn
	}
	lg := logger.New(cfg.LogLevel)

	ctx := context.Background()
	db, err := postgres.NewConnection(ctx, cfg.Database.DSN)
	if err != nil {
		return fmt.Errorf("failed to connect: %w", err)
	}
	defer db.Close()

	accounts := []account{admin}
	if !skipClient {
		accounts = append(accounts, client)
	}
	return seed(ctx, postgres.NewUserRepository(db), accounts, lg)
}

// seed creates each account unless its email is already taken.
func seed(ctx context.Context, store model.UserStore, accounts []account, lg *logger.Logger) error {
	for _, a := range accounts {
		_, err := store.GetByEmail(ctx, a.email)
		if err == nil {
			lg.Info("Seed: account already exists", "email", a.email)
			continue
		}
		if !errors.Is(err, model.ErrNotFound) {
			return fmt.Errorf("failed to look up %s: %w", a.email, err)
		}

		hash, err := password.Hash(a.password)
		if err != nil {
			return fmt.Errorf("failed to hash password for %s: %w", a.email, err)
		}

		created, err := store.Create(ctx, model.User{
			Email:        a.email,
			Name:         a.name,
			Branch:       a.branch,
			WhatsApp:     a.whatsapp,
			PersonalCode: a.personalCode,
			PasswordHash: hash,
			Role:         a.role,
			Active:       true,
		})
		if err != nil {
			return fmt.Errorf("failed to create %s: %w", a.email, err)
		}
		lg.Info("Seed: account created",
			"email", created.Email,
			"role", string(created.Role),
			"personal_code", created.PersonalCode)
	}
	return nil
}
