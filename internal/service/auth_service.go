package service

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"regexp"
	"strings"
	"time"

	"weather_dashboard/internal/logger"
	"weather_dashboard/internal/models"
	"weather_dashboard/internal/repository"
	"weather_dashboard/internal/repository/gateway"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Landing routes returned to the UI after auth flows.
const (
	RedirectDashboard = "/dashboard"
	RedirectSignIn    = "/"
)

const minPasswordLen = 6

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// Domain errors for token inspection.
var (
	ErrInvalidToken = errors.New("invalid token")
	ErrTokenExpired = errors.New("token expired")
)

// AuthError is a rejection reported by the gateway's auth API, carrying the
// message shown to the user.
type AuthError struct {
	Message string
	Err     error
}

func (e *AuthError) Error() string { return e.Message }
func (e *AuthError) Unwrap() error { return e.Err }

// AuthResult is what the UI needs after an auth flow.
type AuthResult struct {
	Session  *models.Session  `json:"session,omitempty"`
	User     *models.Identity `json:"user,omitempty"`
	Redirect string           `json:"redirect,omitempty"`
}

// Claims are the fields read from a gateway access token.
type Claims struct {
	jwt.RegisteredClaims
	Email string `json:"email"`
	Role  string `json:"role"`
}

// UserID returns the subject of the token.
func (c *Claims) UserID() string { return c.Subject }

type activityRecorder interface {
	Record(ctx context.Context, e models.ActivityEvent)
}

type stateClearer interface {
	Clear(userID string)
}

// AuthService handles the sign-in, sign-up and sign-out flows.
type AuthService struct {
	authRepo  repository.Authorization
	activity  activityRecorder
	dashboard stateClearer
	jwtSecret []byte
	log       *logger.Logger
}

func NewAuthService(repo repository.Authorization, activity activityRecorder, dashboard stateClearer, jwtSecret string, log *logger.Logger) *AuthService {
	if log == nil {
		log = logger.Nop()
	}
	s := &AuthService{authRepo: repo, activity: activity, dashboard: dashboard, log: log}
	if jwtSecret != "" {
		s.jwtSecret = []byte(jwtSecret)
	}
	return s
}

var _ Authorization = (*AuthService)(nil)

// validateCredentials runs the checks done before any gateway call.
func validateCredentials(email, password string) error {
	if !emailPattern.MatchString(email) {
		return invalid("email", "Please enter a valid email address.")
	}
	if len(password) < minPasswordLen {
		return invalid("password", fmt.Sprintf("Password must be at least %d characters.", minPasswordLen))
	}
	return nil
}

// friendlyAuthMessage maps known gateway messages to user-facing text.
func friendlyAuthMessage(msg string) string {
	lower := strings.ToLower(msg)
	switch {
	case strings.Contains(lower, "invalid login credentials"):
		return "Invalid email or password."
	case strings.Contains(lower, "already registered"):
		return "This email is already registered. Please sign in instead."
	default:
		return msg
	}
}

// mapAuthError turns gateway rejections into AuthError. Outages and
// transport failures are returned wrapped.
func mapAuthError(op string, err error) error {
	if gwErr, ok := gateway.AsError(err); ok && gwErr.Status < http.StatusInternalServerError {
		return &AuthError{Message: friendlyAuthMessage(gwErr.Message), Err: err}
	}
	return fmt.Errorf("%s: %w", op, err)
}

// SignIn checks credentials with the gateway.
func (s *AuthService) SignIn(ctx context.Context, email, password string) (AuthResult, error) {
	email = strings.TrimSpace(email)
	if err := validateCredentials(email, password); err != nil {
		return AuthResult{}, err
	}

	sess, err := s.authRepo.SignIn(ctx, email, password)
	if err != nil {
		s.log.Infow("auth_sign_in_failed", "email", email, "err", err)
		return AuthResult{}, mapAuthError("sign in", err)
	}
	if sess == nil {
		return AuthResult{}, &AuthError{Message: "Sign-in did not return a session."}
	}

	s.recordAuth(ctx, models.ActivitySignIn, sess.User, email, "user signed in")
	return signedIn(sess), nil
}

// SignUp registers an account with the viewer role. When the gateway creates
// the account without a session, one immediate sign-in is attempted; if that
// also yields nothing, ErrEmailConfirmationRequired is returned along with the
// created user.
func (s *AuthService) SignUp(ctx context.Context, email, password string) (AuthResult, error) {
	email = strings.TrimSpace(email)
	if err := validateCredentials(email, password); err != nil {
		return AuthResult{}, err
	}

	res, err := s.authRepo.SignUp(ctx, email, password, map[string]any{"role": models.RoleViewer})
	if err != nil {
		s.log.Infow("auth_sign_up_failed", "email", email, "err", err)
		return AuthResult{}, mapAuthError("sign up", err)
	}
	s.recordAuth(ctx, models.ActivitySignUp, res.User, email, "account created")

	if res.Session != nil {
		s.recordAuth(ctx, models.ActivitySignIn, res.User, email, "user signed in after sign-up")
		return signedIn(res.Session), nil
	}

	sess, err := s.authRepo.SignIn(ctx, email, password)
	if err == nil && sess != nil {
		s.recordAuth(ctx, models.ActivitySignIn, sess.User, email, "user signed in after sign-up")
		return signedIn(sess), nil
	}
	s.log.Infow("auth_sign_up_no_session", "email", email, "fallback_err", err)
	return AuthResult{User: withAccountRole(res.User)}, ErrEmailConfirmationRequired
}

// withAccountRole replaces the gateway's generic "authenticated" role with
// the account role recorded in the user metadata.
func withAccountRole(u *models.Identity) *models.Identity {
	if u == nil {
		return nil
	}
	out := *u
	out.Role = roleOf(out)
	return &out
}

func signedIn(sess *models.Session) AuthResult {
	sess.User = withAccountRole(sess.User)
	return AuthResult{Session: sess, User: sess.User, Redirect: RedirectDashboard}
}

// SignOut revokes the remote session on a best-effort basis and always clears
// the local state of userID.
func (s *AuthService) SignOut(ctx context.Context, accessToken, userID string) AuthResult {
	if accessToken != "" {
		if err := s.authRepo.SignOut(ctx, accessToken); err != nil {
			s.log.Warnw("auth_sign_out_remote_failed", "user_id", userID, "err", err)
		}
	}
	if userID != "" {
		if s.dashboard != nil {
			s.dashboard.Clear(userID)
		}
		s.recordAuth(ctx, models.ActivitySignOut, &models.Identity{ID: userID}, "", "user signed out")
	}
	return AuthResult{Redirect: RedirectSignIn}
}

func (s *AuthService) recordAuth(ctx context.Context, typ string, user *models.Identity, email, msg string) {
	if s.activity == nil {
		return
	}
	e := models.ActivityEvent{
		EventID:     uuid.NewString(),
		OccurredAt:  time.Now().UTC(),
		Type:        typ,
		Email:       email,
		Description: msg,
	}
	if user != nil {
		e.UserID = user.ID
		if e.Email == "" {
			e.Email = user.Email
		}
	}
	s.activity.Record(ctx, e)
}

// ParseToken decodes a gateway access token. With a configured secret the
// HS256 signature is verified; without one the token is only decoded and its
// expiry checked, leaving verification to the gateway.
func (s *AuthService) ParseToken(accessToken string) (*Claims, error) {
	return s.parseToken(accessToken, true)
}

// TokenSubject returns the user a token was issued to even when the token has
// expired. The signature is still checked when a secret is configured.
func (s *AuthService) TokenSubject(accessToken string) (string, error) {
	claims, err := s.parseToken(accessToken, false)
	if err != nil {
		return "", err
	}
	return claims.UserID(), nil
}

func (s *AuthService) parseToken(accessToken string, checkExpiry bool) (*Claims, error) {
	claims := &Claims{}
	if s.jwtSecret != nil {
		var opts []jwt.ParserOption
		if !checkExpiry {
			opts = append(opts, jwt.WithoutClaimsValidation())
		}
		token, err := jwt.ParseWithClaims(accessToken, claims, func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
			}
			return s.jwtSecret, nil
		}, opts...)
		if err != nil {
			if errors.Is(err, jwt.ErrTokenExpired) {
				return nil, ErrTokenExpired
			}
			return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
		}
		if !token.Valid {
			return nil, ErrInvalidToken
		}
	} else {
		if _, _, err := jwt.NewParser().ParseUnverified(accessToken, claims); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
		}
		if checkExpiry && claims.ExpiresAt != nil && !claims.ExpiresAt.After(time.Now()) {
			return nil, ErrTokenExpired
		}
	}

	if claims.Subject == "" {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
