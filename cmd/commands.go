package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"text/tabwriter"
	"time"

	"weather_dashboard/internal/cities"
	"weather_dashboard/internal/config"
	"weather_dashboard/internal/handlers"
	"weather_dashboard/internal/logger"
	"weather_dashboard/internal/repository"
	"weather_dashboard/internal/repository/db"
	"weather_dashboard/internal/repository/gateway"
	"weather_dashboard/internal/scheduler"
	"weather_dashboard/internal/server"
	"weather_dashboard/internal/service"

	"github.com/jmoiron/sqlx"
)

const shutdownTimeout = 10 * time.Second

// Globals are flags shared by every command.
type Globals struct {
	ConfigDir string `help:"Directory containing config.yml." default:"configs" type:"path"`
	EnvFile   string `help:"Dotenv file loaded before the environment." default:".env"`
}

// app is the wired dependency graph.
type app struct {
	cfg      *config.Config
	log      *logger.Logger
	db       *sqlx.DB
	repos    *repository.Repository
	services *service.Service
}

func (g *Globals) load() (*config.Config, *logger.Logger, error) {
	cfg, err := config.Load(g.ConfigDir, g.EnvFile)
	if err != nil {
		return nil, nil, err
	}
	return cfg, logger.Get(cfg.Log.Level, cfg.Log.Format), nil
}

func (g *Globals) wire() (*app, error) {
	cfg, log, err := g.load()
	if err != nil {
		return nil, err
	}

	// open DB
	conn, err := db.InitDB(cfg.DB.Path)
	if err != nil {
		return nil, fmt.Errorf("init sqlite: %w", err)
	}

	gw := gateway.New(gateway.Options{
		BaseURL:        cfg.Gateway.URL,
		AnonKey:        cfg.Gateway.AnonKey,
		ServiceRoleKey: cfg.Gateway.ServiceRoleKey,
		Timeout:        cfg.Gateway.Timeout,
	})

	// wire dependencies
	repos := repository.NewRepository(gw, repository.Tables{
		Weather:     cfg.Gateway.Tables.Weather,
		Predictions: cfg.Gateway.Tables.Predictions,
		Users:       cfg.Gateway.Tables.Users,
	}, conn)
	services := service.NewService(repos, cities.Default(), service.Options{
		JWTSecret:          cfg.Gateway.JWTSecret,
		WeatherPageSize:    cfg.Weather.PageSize,
		WeatherMaxRows:     cfg.Weather.MaxRows,
		PredictionPageSize: cfg.Predictions.PageSize,
		PredictionMaxRows:  cfg.Predictions.MaxRows,
		DashboardIdleTTL:   cfg.Dashboard.IdleTTL,
	}, log)

	return &app{cfg: cfg, log: log, db: conn, repos: repos, services: services}, nil
}

func (a *app) close() {
	if err := a.db.Close(); err != nil {
		a.log.Errorw("failed to close sqlite", "err", err)
	}
	_ = a.log.Sync()
}

// ServeCmd runs the HTTP API until SIGINT or SIGTERM.
type ServeCmd struct{}

func (c *ServeCmd) Run(g *Globals) error {
	a, err := g.wire()
	if err != nil {
		return err
	}
	defer a.close()
	log := a.log

	if !a.cfg.AdminEnabled() {
		log.Warnw("service role key not configured; admin user management disabled")
	}
	if a.cfg.Gateway.JWTSecret == "" {
		log.Warnw("jwt secret not configured; token signatures are checked by the gateway only")
	}

	apiHandler := handlers.NewHandler(a.services, log).WithStreamInterval(a.cfg.WS.DefaultInterval)

	sched := scheduler.New(a.services.ActivityLog, a.cfg.Activity.Retention, a.cfg.Activity.PruneInterval, log).
		WithDashboardSweep(a.services.Dashboard, a.cfg.Dashboard.SweepInterval)
	if err := sched.Start(); err != nil {
		return fmt.Errorf("start scheduler: %w", err)
	}
	defer sched.Stop()

	// start HTTP server
	srv := &server.Server{}
	errCh := make(chan error, 1)
	go func() {
		log.Infow("http_server_starting", "port", a.cfg.Port)
		errCh <- srv.Run(a.cfg.Port, apiHandler.InitRoutes())
	}()

	// graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	case <-quit:
	}

	log.Infow("shutting down server...")

	// allow in-flight requests to complete
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}
	return nil
}

// CheckAuthConfigCmd reports which credentials are present without
// contacting the gateway.
type CheckAuthConfigCmd struct{}

func (c *CheckAuthConfigCmd) Run(g *Globals) error {
	cfg, _, err := g.load()
	if err != nil {
		return err
	}
	fmt.Printf("gateway url:       %s\n", cfg.Gateway.URL)
	fmt.Printf("anon key:          %s\n", presence(cfg.Gateway.AnonKey))
	fmt.Printf("service role key:  %s\n", presence(cfg.Gateway.ServiceRoleKey))
	fmt.Printf("jwt secret:        %s\n", presence(cfg.Gateway.JWTSecret))
	if !cfg.AdminEnabled() {
		fmt.Println("admin user management is disabled until SUPABASE_SERVICE_ROLE_KEY is set")
	}
	fmt.Println("sign-up requires email confirmation when \"Confirm Email\" is enabled in the gateway's email provider settings")
	return nil
}

func presence(s string) string {
	if s == "" {
		return "missing"
	}
	return "set"
}

// CreateUserCmd creates a confirmed viewer account.
type CreateUserCmd struct {
	Email    string `arg:"" help:"Account email."`
	Password string `arg:"" help:"Account password (at least 6 characters)."`
}

func (c *CreateUserCmd) Run(g *Globals) error {
	a, err := g.wire()
	if err != nil {
		return err
	}
	defer a.close()

	user, err := a.services.Admin.CreateUser(context.Background(), c.Email, c.Password)
	if err != nil {
		return err
	}
	fmt.Printf("created %s (%s) with role %s\n", user.Email, user.ID, user.Role)
	return nil
}

// ListUsersCmd prints every account, newest first.
type ListUsersCmd struct{}

func (c *ListUsersCmd) Run(g *Globals) error {
	a, err := g.wire()
	if err != nil {
		return err
	}
	defer a.close()

	users, err := a.services.Admin.ListUsers(context.Background())
	if err != nil {
		return err
	}
	tw := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tEMAIL\tROLE\tCREATED\tLAST SIGN-IN")
	for _, u := range users {
		last := "never"
		if u.LastSignInAt != nil {
			last = u.LastSignInAt.UTC().Format(time.RFC3339)
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", u.ID, u.Email, u.Role, u.CreatedAt.UTC().Format(time.RFC3339), last)
	}
	return tw.Flush()
}

// CheckConnectionCmd counts the rows of the gateway tables with the public key.
type CheckConnectionCmd struct {
	Timeout time.Duration `help:"Overall timeout." default:"30s"`
}

func (c *CheckConnectionCmd) Run(g *Globals) error {
	a, err := g.wire()
	if err != nil {
		return err
	}
	defer a.close()

	ctx, cancel := context.WithTimeout(context.Background(), c.Timeout)
	defer cancel()

	var failed []error
	for _, check := range []struct {
		table string
		count func(context.Context, string) (int, error)
	}{
		{a.cfg.Gateway.Tables.Weather, a.repos.Weather.Count},
		{a.cfg.Gateway.Tables.Predictions, a.repos.Predictions.Count},
	} {
		n, err := check.count(ctx, "")
		if err != nil {
			fmt.Printf("%-14s FAILED: %v\n", check.table, err)
			failed = append(failed, fmt.Errorf("%s: %w", check.table, err))
			continue
		}
		fmt.Printf("%-14s ok (%d rows visible to the public key)\n", check.table, n)
	}
	return errors.Join(failed...)
}
