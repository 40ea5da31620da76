package service

import (
	"context"
	"errors"
	"fmt"

	"weather_dashboard/internal/logger"
	"weather_dashboard/internal/models"
	"weather_dashboard/internal/repository"
)

// SessionState is a state of the role resolver.
type SessionState int

const (
	StateResolving SessionState = iota
	StateUnauthenticated
	StateAuthorized
	StateDenied
)

func (s SessionState) String() string {
	switch s {
	case StateResolving:
		return "resolving"
	case StateUnauthenticated:
		return "unauthenticated"
	case StateAuthorized:
		return "authorized"
	case StateDenied:
		return "denied"
	default:
		return fmt.Sprintf("SessionState(%d)", int(s))
	}
}

// Resolution is the outcome of resolving one request's session.
type Resolution struct {
	State    SessionState
	Identity *models.Identity
	Role     string
	// Fallback is set when the role could not be read and the lowest
	// privilege was assigned instead.
	Fallback bool
}

// Decision is what a gated route does with a resolution.
type Decision int

const (
	DecisionAllow Decision = iota
	DecisionUnauthenticated
	DecisionDeny     // access-denied affordance
	DecisionRedirect // back to the default landing view
)

// Decide applies requiredRole to res. An empty requiredRole admits any
// authorized user.
func Decide(res Resolution, requiredRole string) Decision {
	if res.State != StateAuthorized || res.Identity == nil {
		return DecisionUnauthenticated
	}
	if requiredRole == "" || res.Role == requiredRole {
		return DecisionAllow
	}
	if requiredRole == models.RoleAdmin {
		return DecisionDeny
	}
	return DecisionRedirect
}

// Gate applies Decide and moves a denied resolution to StateDenied.
func (res Resolution) Gate(requiredRole string) (Resolution, Decision) {
	d := Decide(res, requiredRole)
	if d == DecisionDeny {
		res.State = StateDenied
	}
	return res, d
}

type identityReader interface {
	CurrentUser(ctx context.Context, accessToken string) (*models.Identity, error)
}

// SessionResolver reads identity and role from the gateway on every call.
// Nothing is cached between requests.
type SessionResolver struct {
	auth  identityReader
	roles repository.RoleRepo
	log   *logger.Logger
}

func NewSessionResolver(auth identityReader, roles repository.RoleRepo, log *logger.Logger) *SessionResolver {
	if log == nil {
		log = logger.Nop()
	}
	return &SessionResolver{auth: auth, roles: roles, log: log}
}

var _ Sessions = (*SessionResolver)(nil)

// Resolve moves from Resolving to Unauthenticated or Authorized. A failed or
// empty role lookup resolves to the viewer role. The returned error is set
// only when the identity itself could not be read; the resolution is then
// Unauthenticated.
func (r *SessionResolver) Resolve(ctx context.Context, accessToken string) (Resolution, error) {
	if accessToken == "" {
		return Resolution{State: StateUnauthenticated}, nil
	}

	user, err := r.auth.CurrentUser(ctx, accessToken)
	if err != nil {
		return Resolution{State: StateUnauthenticated}, fmt.Errorf("read current identity: %w", err)
	}
	if user == nil {
		return Resolution{State: StateUnauthenticated}, nil
	}

	res := Resolution{State: StateAuthorized, Identity: user}
	role, err := r.roles.GetRole(ctx, accessToken, user.ID)
	switch {
	case err == nil && (role == models.RoleAdmin || role == models.RoleViewer):
		res.Role = role
	case err == nil:
		r.log.Warnw("role_unknown_value", "user_id", user.ID, "role", role)
		res.Role, res.Fallback = models.RoleViewer, true
	case errors.Is(err, repository.ErrRoleNotFound):
		r.log.Warnw("role_row_missing", "user_id", user.ID)
		res.Role, res.Fallback = models.RoleViewer, true
	default:
		r.log.Warnw("role_lookup_failed", "user_id", user.ID, "err", err)
		res.Role, res.Fallback = models.RoleViewer, true
	}

	resolved := *user
	resolved.Role = res.Role
	res.Identity = &resolved
	return res, nil
}
