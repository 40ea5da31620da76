package repository

import (
	"context"

	"weather_dashboard/internal/models"
	"weather_dashboard/internal/repository/gateway"
)

// AuthGateway adapts the gateway client to Authorization.
type AuthGateway struct {
	gw *gateway.Client
}

func NewAuthGateway(gw *gateway.Client) *AuthGateway {
	return &AuthGateway{gw: gw}
}

// Ensure implementation of Authorization interface at compile time.
var _ Authorization = (*AuthGateway)(nil)

func (r *AuthGateway) SignUp(ctx context.Context, email, password string, metadata map[string]any) (gateway.AuthResponse, error) {
	return r.gw.SignUp(ctx, email, password, metadata)
}

func (r *AuthGateway) SignIn(ctx context.Context, email, password string) (*models.Session, error) {
	return r.gw.SignInWithPassword(ctx, email, password)
}

func (r *AuthGateway) SignOut(ctx context.Context, accessToken string) error {
	return r.gw.SignOut(ctx, accessToken)
}

// CurrentUser returns (nil, nil) when the token identifies nobody.
func (r *AuthGateway) CurrentUser(ctx context.Context, accessToken string) (*models.Identity, error) {
	return r.gw.GetUser(ctx, accessToken)
}

// UserAdminGateway adapts the gateway's admin user API.
type UserAdminGateway struct {
	gw *gateway.Client
}

func NewUserAdminGateway(gw *gateway.Client) *UserAdminGateway {
	return &UserAdminGateway{gw: gw}
}

var _ UserAdmin = (*UserAdminGateway)(nil)

func (r *UserAdminGateway) Enabled() bool { return r.gw.HasServiceKey() }

func (r *UserAdminGateway) ListUsers(ctx context.Context) ([]models.Identity, error) {
	return r.gw.AdminListUsers(ctx)
}

func (r *UserAdminGateway) CreateUser(ctx context.Context, email, password string, metadata map[string]any) (*models.Identity, error) {
	return r.gw.AdminCreateUser(ctx, email, password, metadata)
}
