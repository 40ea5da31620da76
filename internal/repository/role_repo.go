package repository

import (
	"context"
	"fmt"

	"weather_dashboard/internal/repository/gateway"
)

// RoleGateway reads roles from the users table through the row API, so
// row-level security applies to the lookup.
type RoleGateway struct {
	gw    *gateway.Client
	table string
}

func NewRoleGateway(gw *gateway.Client, table string) *RoleGateway {
	return &RoleGateway{gw: gw, table: table}
}

var _ RoleRepo = (*RoleGateway)(nil)

// GetRole returns the stored role, or ErrRoleNotFound when no row exists.
func (r *RoleGateway) GetRole(ctx context.Context, accessToken, userID string) (string, error) {
	var rows []struct {
		Role *string `json:"role"`
	}
	err := r.gw.Select(ctx, accessToken, r.table, gateway.Query{
		Select:  "role",
		Filters: []gateway.Filter{gateway.Eq("id", userID)},
		Limit:   1,
	}, &rows)
	if err != nil {
		return "", fmt.Errorf("get role for %q: %w", userID, err)
	}
	if len(rows) == 0 || rows[0].Role == nil || *rows[0].Role == "" {
		return "", ErrRoleNotFound
	}
	return *rows[0].Role, nil
}
