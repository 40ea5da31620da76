package repository

import (
	"context"
	"errors"
	"time"

	"weather_dashboard/internal/models"
	"weather_dashboard/internal/repository/gateway"

	"github.com/jmoiron/sqlx"
)

// ErrRoleNotFound is returned when the users table has no row for an identity.
var ErrRoleNotFound = errors.New("role not found")

// Authorization is the gateway's auth API as seen by the services.
type Authorization interface {
	SignUp(ctx context.Context, email, password string, metadata map[string]any) (gateway.AuthResponse, error)
	SignIn(ctx context.Context, email, password string) (*models.Session, error)
	SignOut(ctx context.Context, accessToken string) error
	CurrentUser(ctx context.Context, accessToken string) (*models.Identity, error)
}

// UserAdmin exposes service-role user management.
type UserAdmin interface {
	Enabled() bool
	ListUsers(ctx context.Context) ([]models.Identity, error)
	CreateUser(ctx context.Context, email, password string, metadata map[string]any) (*models.Identity, error)
}

// RoleRepo reads the role column of the users table.
type RoleRepo interface {
	GetRole(ctx context.Context, accessToken, userID string) (string, error)
}

// WeatherQuery selects one page of weather readings.
type WeatherQuery struct {
	Cities []string  // nil means no city predicate
	Since  time.Time // zero means no lower bound
	Offset int
	Limit  int
}

// WeatherRepo pages through the weather table, newest first.
type WeatherRepo interface {
	FetchPage(ctx context.Context, accessToken string, q WeatherQuery) ([]models.WeatherReading, error)
	Count(ctx context.Context, accessToken string) (int, error)
}

// PredictionRepo pages through the predictions table, newest first.
type PredictionRepo interface {
	FetchPage(ctx context.Context, accessToken string, offset, limit int) ([]models.PredictionRecord, error)
	Count(ctx context.Context, accessToken string) (int, error)
}

// ActivityRepo stores the local user activity log.
type ActivityRepo interface {
	Append(ctx context.Context, e models.ActivityEvent) error
	List(ctx context.Context, from, to time.Time, typ string, limit int) ([]models.ActivityEvent, error)
	DeleteBefore(ctx context.Context, cutoff time.Time) (int64, error)
}

// Tables names the gateway tables.
type Tables struct {
	Weather     string
	Predictions string
	Users       string
}

type Repository struct {
	Auth        Authorization
	Users       UserAdmin
	Roles       RoleRepo
	Weather     WeatherRepo
	Predictions PredictionRepo
	Activity    ActivityRepo
}

func NewRepository(gw *gateway.Client, tables Tables, db *sqlx.DB) *Repository {
	return &Repository{
		Auth:        NewAuthGateway(gw),
		Users:       NewUserAdminGateway(gw),
		Roles:       NewRoleGateway(gw, tables.Users),
		Weather:     NewWeatherGateway(gw, tables.Weather),
		Predictions: NewPredictionGateway(gw, tables.Predictions),
		Activity:    NewActivitySQLite(db),
	}
}
