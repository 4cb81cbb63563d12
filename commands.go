package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"github.com/cppla/secureapi/config"
	"github.com/cppla/secureapi/models"
	"github.com/cppla/secureapi/repository"
	"github.com/cppla/secureapi/routes"
	"github.com/cppla/secureapi/utils"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server (default)",
	RunE:  runServe,
}

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update the users and posts tables",
	RunE: func(cmd *cobra.Command, args []string) error {
		_, db, err := boot()
		if err != nil {
			return err
		}
		defer config.Close(db)
		utils.Sugar.Info("migration finished")
		return nil
	},
}

var (
	userAddEmail    string
	userAddPassword string
)

var userAddCmd = &cobra.Command{
	Use:   "useradd <username>",
	Short: "Create a user account from the command line",
	Args:  cobra.ExactArgs(1),
	RunE:  runUserAdd,
}

func init() {
	userAddCmd.Flags().StringVar(&userAddEmail, "email", "", "email address of the new user")
	userAddCmd.Flags().StringVar(&userAddPassword, "password", "", "password of the new user (at least 6 characters)")
	_ = userAddCmd.MarkFlagRequired("email")
	_ = userAddCmd.MarkFlagRequired("password")
}

// boot loads configuration, starts logging and opens the migrated database.
func boot() (config.AppConfig, *gorm.DB, error) {
	cfg, err := config.Load()
	if err != nil {
		return cfg, nil, fmt.Errorf("load configuration: %w", err)
	}
	if err := utils.InitLogger(cfg); err != nil {
		return cfg, nil, fmt.Errorf("init logger: %w", err)
	}
	if cfg.SecretKey == config.DefaultSecretKey {
		utils.Sugar.Warn("running with the development SECRET_KEY; never do this in production")
	}

	db, err := config.OpenDatabase(cfg, &models.User{}, &models.Post{})
	if err != nil {
		return cfg, nil, err
	}
	return cfg, db, nil
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, db, err := boot()
	if err != nil {
		return err
	}

	tokens, err := utils.NewTokenService(cfg.SecretKey, cfg.Algorithm, cfg.TokenTTL())
	if err != nil {
		return err
	}

	rc := utils.NewRedis(cfg)
	r := routes.SetupRouter(routes.Dependencies{
		Config: cfg,
		DB:     db,
		Tokens: tokens,
		Cache:  utils.NewCache(rc),
	})

	cleanup := []func() error{func() error { return config.Close(db) }}
	if rc != nil {
		cleanup = append(cleanup, rc.Close)
	}

	utils.Sugar.Infof("Starting %s on port %s (database %s)", cfg.AppName, cfg.AppPort, cfg.MaskedDatabaseURL())
	if err := utils.GraceServer(":"+cfg.AppPort, r, cleanup...); err != nil {
		utils.Sugar.Errorf("server stopped with error: %v", err)
		return err
	}
	return nil
}

func runUserAdd(cmd *cobra.Command, args []string) error {
	username := args[0]
	if n := len([]rune(username)); n < 3 || n > 50 {
		return errors.New("username must be 3-50 characters")
	}
	if len([]rune(userAddPassword)) < 6 {
		return errors.New("password must be at least 6 characters")
	}
	if err := utils.CheckPasswordLength(utils.Sanitize(userAddPassword)); err != nil {
		return err
	}
	if err := validator.New().Var(userAddEmail, "required,email"); err != nil {
		return fmt.Errorf("invalid email %q", userAddEmail)
	}

	_, db, err := boot()
	if err != nil {
		return err
	}
	defer config.Close(db)

	// same escaping as the registration endpoint so the account can log in over HTTP
	hash, err := utils.HashPassword(utils.Sanitize(userAddPassword))
	if err != nil {
		return err
	}
	user := models.User{
		Username:     utils.Sanitize(username),
		Email:        userAddEmail,
		PasswordHash: hash,
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := repository.NewUserRepository(db).Create(ctx, &user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return fmt.Errorf("user %q already exists", username)
		}
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "created user %s (id %d)\n", user.Username, user.ID)
	return nil
}
