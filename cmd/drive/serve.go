package main

import (
	"net/http"
	"os/signal"
	"syscall"

	"github.com/samber/oops"
	"github.com/spf13/cobra"

	"github.com/dmitrymomot/drive/modules/auth"
	"github.com/dmitrymomot/drive/pkg/config"
	"github.com/dmitrymomot/drive/pkg/cookie"
	"github.com/dmitrymomot/drive/pkg/httpserver"
	"github.com/dmitrymomot/drive/pkg/logger"
	"github.com/dmitrymomot/drive/pkg/ratelimiter"
	"github.com/dmitrymomot/drive/pkg/session"
	"github.com/dmitrymomot/drive/svc/users"
	"github.com/dmitrymomot/drive/web/views"
)

// NewServeCmd creates the serve subcommand.
func NewServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP server",
		Long:  `Start the web server with the sign-in, sign-up and passcode routes.`,
		RunE:  runServe,
	}
}

func runServe(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	app, log, err := loadApp()
	if err != nil {
		return oops.Code("CONFIG_INVALID").Wrap(err)
	}

	var (
		usersCfg   users.Config
		cookieCfg  cookie.Config
		sessionCfg session.Config
		serverCfg  httpserver.Config
		limitCfg   ratelimiter.Config
	)
	for _, load := range []func() error{
		func() error { return config.Load(&usersCfg) },
		func() error { return config.Load(&cookieCfg) },
		func() error { return config.Load(&sessionCfg) },
		func() error { return config.Load(&serverCfg) },
		func() error { return config.Load(&limitCfg, config.WithPrefix("AUTH_")) },
	} {
		if err := load(); err != nil {
			return oops.Code("CONFIG_INVALID").Wrap(err)
		}
	}

	b, err := newBackend(ctx, app, usersCfg, log)
	if err != nil {
		return err
	}
	defer b.Close()

	cookies, err := cookie.NewFromConfig(cookieCfg)
	if err != nil {
		return oops.Code("CONFIG_INVALID").With("operation", "create cookie manager").Wrap(err)
	}
	transport := session.NewCookieTransport(cookies, sessionCfg.CookieName)

	opts := []users.Option{users.WithLogger(log)}
	if app.PasswordVerification {
		opts = append(opts, users.WithPasswordVerification())
	}
	userSvc, err := users.New(b.factory, transport, usersCfg, opts...)
	if err != nil {
		return oops.Code("CONFIG_INVALID").With("operation", "create users service").Wrap(err)
	}

	limit, err := authRateLimit(b.limits, limitCfg)
	if err != nil {
		return oops.Code("CONFIG_INVALID").With("operation", "create auth rate limit").Wrap(err)
	}
	authSvc := auth.NewService(userSvc, cookies, views.Auth(), newErrorHandler(log),
		auth.WithLogger(log),
		auth.WithRateLimit(limit),
	)

	log.InfoContext(ctx, "starting drive", logger.Component("serve"))
	server := httpserver.NewFromConfig(serverCfg, httpserver.WithLogger(log))
	if err := server.Run(ctx, newRouter(log, userSvc, authSvc, b.checks)); err != nil {
		return oops.Code("SERVER_FAILED").Wrap(err)
	}
	return nil
}

// authRateLimit limits auth form and passcode posts per client address,
// sharing store across replicas when one is given.
func authRateLimit(store ratelimiter.Store, cfg ratelimiter.Config) (func(http.Handler) http.Handler, error) {
	if store == nil {
		store = ratelimiter.NewMemoryStore()
	}
	bucket, err := ratelimiter.NewBucket(store, cfg)
	if err != nil {
		return nil, err
	}
	return ratelimiter.Middleware(bucket, ratelimiter.Composite(
		func(*http.Request) string { return "auth" },
		ratelimiter.ByIP,
	)), nil
}
