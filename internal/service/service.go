package service

import (
	"context"
	"time"

	"weather_dashboard/internal/cities"
	"weather_dashboard/internal/logger"
	"weather_dashboard/internal/models"
	"weather_dashboard/internal/repository"
)

// Authorization covers sign-in, sign-up, sign-out and token inspection.
type Authorization interface {
	SignIn(ctx context.Context, email, password string) (AuthResult, error)
	SignUp(ctx context.Context, email, password string) (AuthResult, error)
	SignOut(ctx context.Context, accessToken, userID string) AuthResult
	ParseToken(accessToken string) (*Claims, error)
	TokenSubject(accessToken string) (string, error)
}

// Sessions resolves the identity and role behind an access token.
type Sessions interface {
	Resolve(ctx context.Context, accessToken string) (Resolution, error)
}

// Weather runs stateless weather queries.
type Weather interface {
	LoadReadings(ctx context.Context, accessToken string, filter models.DashboardFilter) ([]models.EnrichedReading, error)
	NormalizeFilter(f models.DashboardFilter) (models.DashboardFilter, error)
}

// Dashboard keeps one dashboard state per user.
type Dashboard interface {
	Get(ctx context.Context, accessToken, userID string) (DashboardView, error)
	Apply(ctx context.Context, accessToken, userID string, filter models.DashboardFilter) (DashboardView, error)
	Refresh(ctx context.Context, accessToken, userID string) (DashboardView, error)
	Reset(ctx context.Context, accessToken, userID string) (DashboardView, error)
	Clear(userID string)
	EvictIdle() int
}

// Predictions loads the latest forecast per city.
type Predictions interface {
	LoadLatest(ctx context.Context, accessToken string) PredictionResult
}

// Admin exposes the admin panel figures and user management.
type Admin interface {
	Metrics(ctx context.Context, accessToken, window string) (AdminMetrics, error)
	ListUsers(ctx context.Context) ([]models.Identity, error)
	CreateUser(ctx context.Context, email, password string) (*models.Identity, error)
}

// ActivityLog is the append-only user activity log.
type ActivityLog interface {
	Record(ctx context.Context, e models.ActivityEvent)
	List(ctx context.Context, f LogFilter) ([]models.ActivityEvent, error)
	Prune(ctx context.Context, retention time.Duration) (int64, error)
}

// Service aggregates all sub-services.
type Service struct {
	Authorization
	Sessions
	Weather
	Dashboard
	Predictions
	Admin
	ActivityLog

	Cities *cities.Table
}

// Options carries the tuning knobs the services read from configuration.
type Options struct {
	JWTSecret          string
	WeatherPageSize    int
	WeatherMaxRows     int
	PredictionPageSize int
	PredictionMaxRows  int
	DashboardIdleTTL   time.Duration
}

// NewService wires the repository layer into concrete services.
func NewService(repos *repository.Repository, table *cities.Table, opts Options, log *logger.Logger) *Service {
	if log == nil {
		log = logger.Nop()
	}

	activity := NewActivityService(repos.Activity, log)
	weather := NewWeatherService(repos.Weather, table, Paging{PageSize: opts.WeatherPageSize, MaxRows: opts.WeatherMaxRows}, log)
	dashboard := NewDashboardService(weather, log).WithIdleTTL(opts.DashboardIdleTTL)
	predictions := NewPredictionService(repos.Predictions, table, Paging{PageSize: opts.PredictionPageSize, MaxRows: opts.PredictionMaxRows}, log)

	return &Service{
		Authorization: NewAuthService(repos.Auth, activity, dashboard, opts.JWTSecret, log),
		Sessions:      NewSessionResolver(repos.Auth, repos.Roles, log),
		Weather:       weather,
		Dashboard:     dashboard,
		Predictions:   predictions,
		Admin:         NewAdminService(repos.Users, repos.Weather, repos.Predictions, predictions, log),
		ActivityLog:   activity,
		Cities:        table,
	}
}
