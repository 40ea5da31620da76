package gateway

import (
	"context"
	"net/http"

	"weather_dashboard/internal/models"
)

// AuthResponse is the outcome of a sign-up. Session is nil when the gateway
// requires email confirmation before issuing one.
type AuthResponse struct {
	User    *models.Identity
	Session *models.Session
}

// signUpResponse covers both shapes: a session envelope, or the bare user
// object when no session is issued.
type signUpResponse struct {
	models.Session
	models.Identity
}

// SignUp registers a new account with the given profile metadata.
func (c *Client) SignUp(ctx context.Context, email, password string, metadata map[string]any) (AuthResponse, error) {
	var out signUpResponse
	_, err := c.do(ctx, request{
		op:     "auth_sign_up",
		method: http.MethodPost,
		path:   "/auth/v1/signup",
		body: map[string]any{
			"email":    email,
			"password": password,
			"data":     metadata,
		},
	}, &out)
	if err != nil {
		return AuthResponse{}, err
	}

	if out.AccessToken != "" {
		sess := out.Session
		return AuthResponse{User: sess.User, Session: &sess}, nil
	}
	if out.Identity.ID != "" {
		user := out.Identity
		return AuthResponse{User: &user}, nil
	}
	return AuthResponse{}, nil
}

// SignInWithPassword exchanges credentials for a session.
func (c *Client) SignInWithPassword(ctx context.Context, email, password string) (*models.Session, error) {
	var sess models.Session
	_, err := c.do(ctx, request{
		op:     "auth_sign_in",
		method: http.MethodPost,
		path:   "/auth/v1/token?grant_type=password",
		body: map[string]string{
			"email":    email,
			"password": password,
		},
	}, &sess)
	if err != nil {
		return nil, err
	}
	if sess.AccessToken == "" {
		return nil, nil
	}
	return &sess, nil
}

// SignOut revokes the session behind accessToken.
func (c *Client) SignOut(ctx context.Context, accessToken string) error {
	_, err := c.do(ctx, request{
		op:     "auth_sign_out",
		method: http.MethodPost,
		path:   "/auth/v1/logout",
		bearer: accessToken,
	}, nil)
	return err
}

// GetUser returns the identity behind accessToken, or nil when the token is
// not (or no longer) accepted.
func (c *Client) GetUser(ctx context.Context, accessToken string) (*models.Identity, error) {
	var user models.Identity
	_, err := c.do(ctx, request{
		op:     "auth_get_user",
		method: http.MethodGet,
		path:   "/auth/v1/user",
		bearer: accessToken,
	}, &user)
	if err != nil {
		if gwErr, ok := AsError(err); ok && (gwErr.IsUnauthorized() || gwErr.IsForbidden()) {
			return nil, nil
		}
		return nil, err
	}
	if user.ID == "" {
		return nil, nil
	}
	return &user, nil
}

// AdminListUsers lists every account. Requires the service role key.
func (c *Client) AdminListUsers(ctx context.Context) ([]models.Identity, error) {
	if !c.HasServiceKey() {
		return nil, ErrNoServiceKey
	}
	var out struct {
		Users []models.Identity `json:"users"`
	}
	_, err := c.do(ctx, request{
		op:     "auth_admin_list_users",
		method: http.MethodGet,
		path:   "/auth/v1/admin/users?per_page=1000",
		apiKey: c.serviceKey,
	}, &out)
	if err != nil {
		return nil, err
	}
	return out.Users, nil
}

// AdminCreateUser creates an already-confirmed account. Requires the
// service role key.
func (c *Client) AdminCreateUser(ctx context.Context, email, password string, metadata map[string]any) (*models.Identity, error) {
	if !c.HasServiceKey() {
		return nil, ErrNoServiceKey
	}
	var user models.Identity
	_, err := c.do(ctx, request{
		op:     "auth_admin_create_user",
		method: http.MethodPost,
		path:   "/auth/v1/admin/users",
		apiKey: c.serviceKey,
		body: map[string]any{
			"email":         email,
			"password":      password,
			"email_confirm": true,
			"user_metadata": metadata,
		},
	}, &user)
	if err != nil {
		return nil, err
	}
	return &user, nil
}
