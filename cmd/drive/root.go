package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/dmitrymomot/drive/pkg/config"
	"github.com/dmitrymomot/drive/pkg/logger"
	"github.com/dmitrymomot/drive/pkg/requestid"
)

type appConfig struct {
	Env     string `env:"APP_ENV" envDefault:"development"`
	Name    string `env:"APP_NAME" envDefault:"drive"`
	Backend string `env:"APP_BACKEND" envDefault:"embedded"` // appwrite or embedded
	// LogLevel overrides the APP_ENV default: debug, info, warn or error.
	LogLevel string `env:"APP_LOG_LEVEL"`

	PasswordVerification bool `env:"USERS_PASSWORD_VERIFICATION" envDefault:"false"`
}

const (
	backendAppwrite = "appwrite"
	backendEmbedded = "embedded"
)

// NewRootCmd creates the root command for the drive CLI.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "drive",
		Short:         "Drive - personal cloud drive",
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	cmd.AddCommand(NewServeCmd())
	cmd.AddCommand(NewMigrateCmd())

	return cmd
}

func loadApp() (appConfig, *slog.Logger, error) {
	var app appConfig
	if err := config.Load(&app); err != nil {
		return appConfig{}, nil, err
	}
	opts, err := loggerOptions(app)
	if err != nil {
		return appConfig{}, nil, err
	}
	return app, logger.New(opts...), nil
}

func loggerOptions(app appConfig) ([]logger.Option, error) {
	opts := []logger.Option{
		logger.WithEnvironment(app.Env, app.Name),
		logger.WithContextExtractors(requestid.LoggerExtractor()),
	}
	if app.LogLevel != "" {
		var lvl slog.Level
		if err := lvl.UnmarshalText([]byte(app.LogLevel)); err != nil {
			return nil, fmt.Errorf("APP_LOG_LEVEL: %w", err)
		}
		opts = append(opts, logger.WithLevel(lvl))
	}
	return opts, nil
}
