package handlers

import (
	"context"
	"net/http"
	"sync"
	"time"

	"weather_dashboard/internal/models"
	"weather_dashboard/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

// ---- Service Mocks ----

type mockAuth struct {
	signInRes  service.AuthResult
	signInErr  error
	signUpRes  service.AuthResult
	signUpErr  error
	signOutRes service.AuthResult
	parseSub   string
	parseErr   error
	subjectErr error

	lastSignInEmail  string
	lastSignUpEmail  string
	lastSignOutToken string
	lastSignOutUser  string
	lastParseToken   string
}

func (m *mockAuth) SignIn(ctx context.Context, email, password string) (service.AuthResult, error) {
	m.lastSignInEmail = email
	return m.signInRes, m.signInErr
}
func (m *mockAuth) SignUp(ctx context.Context, email, password string) (service.AuthResult, error) {
	m.lastSignUpEmail = email
	return m.signUpRes, m.signUpErr
}
func (m *mockAuth) SignOut(ctx context.Context, token, userID string) service.AuthResult {
	m.lastSignOutToken = token
	m.lastSignOutUser = userID
	if m.signOutRes.Redirect == "" {
		return service.AuthResult{Redirect: service.RedirectSignIn}
	}
	return m.signOutRes
}
func (m *mockAuth) ParseToken(token string) (*service.Claims, error) {
	m.lastParseToken = token
	if m.parseErr != nil {
		return nil, m.parseErr
	}
	return &service.Claims{RegisteredClaims: jwt.RegisteredClaims{Subject: m.parseSub}}, nil
}
func (m *mockAuth) TokenSubject(token string) (string, error) {
	if m.subjectErr != nil {
		return "", m.subjectErr
	}
	return m.parseSub, nil
}

type mockSessions struct {
	res service.Resolution
	err error
}

func (m *mockSessions) Resolve(ctx context.Context, token string) (service.Resolution, error) {
	return m.res, m.err
}

// authorizedAs returns a session resolver reporting user uid with role.
func authorizedAs(uid, role string) *mockSessions {
	return &mockSessions{res: service.Resolution{
		State:    service.StateAuthorized,
		Identity: &models.Identity{ID: uid, Email: uid + "@example.com", Role: role},
		Role:     role,
	}}
}

type mockWeather struct {
	readings   []models.EnrichedReading
	err        error
	lastFilter models.DashboardFilter
}

func (m *mockWeather) LoadReadings(ctx context.Context, token string, f models.DashboardFilter) ([]models.EnrichedReading, error) {
	m.lastFilter = f
	return m.readings, m.err
}
func (m *mockWeather) NormalizeFilter(f models.DashboardFilter) (models.DashboardFilter, error) {
	if f.TimeRangeType == "" {
		f.TimeRangeType = models.RangeAll
	}
	if f.IsAll() {
		f.SelectedCities = []string{models.AllCities}
	}
	if f.TimeRangeType != models.RangeAll && f.TimeRangeType != models.RangeToday && f.TimeRangeType != models.RangeWeek {
		return models.DashboardFilter{}, &service.ValidationError{Field: "timeRangeType", Message: "unknown time range"}
	}
	return f, nil
}

type mockDashboard struct {
	view       service.DashboardView
	err        error
	lastUser   string
	lastFilter models.DashboardFilter
	calls      []string
	cleared    []string
}

func (m *mockDashboard) record(op, uid string) (service.DashboardView, error) {
	m.calls = append(m.calls, op)
	m.lastUser = uid
	return m.view, m.err
}
func (m *mockDashboard) Get(ctx context.Context, token, uid string) (service.DashboardView, error) {
	return m.record("get", uid)
}
func (m *mockDashboard) Apply(ctx context.Context, token, uid string, f models.DashboardFilter) (service.DashboardView, error) {
	m.lastFilter = f
	return m.record("apply", uid)
}
func (m *mockDashboard) Refresh(ctx context.Context, token, uid string) (service.DashboardView, error) {
	return m.record("refresh", uid)
}
func (m *mockDashboard) Reset(ctx context.Context, token, uid string) (service.DashboardView, error) {
	return m.record("reset", uid)
}
func (m *mockDashboard) Clear(uid string) { m.cleared = append(m.cleared, uid) }
func (m *mockDashboard) EvictIdle() int { return 0 }

type mockPredictions struct {
	mu    sync.Mutex
	res   service.PredictionResult
	calls int
}

func (m *mockPredictions) LoadLatest(ctx context.Context, token string) service.PredictionResult {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	return m.res
}

type mockAdmin struct {
	metrics    service.AdminMetrics
	metricsErr error
	users      []models.Identity
	usersErr   error
	created    *models.Identity
	createErr  error
	lastWindow string
}

func (m *mockAdmin) Metrics(ctx context.Context, token, window string) (service.AdminMetrics, error) {
	m.lastWindow = window
	return m.metrics, m.metricsErr
}
func (m *mockAdmin) ListUsers(ctx context.Context) ([]models.Identity, error) {
	return m.users, m.usersErr
}
func (m *mockAdmin) CreateUser(ctx context.Context, email, password string) (*models.Identity, error) {
	return m.created, m.createErr
}

type mockActivity struct {
	mu       sync.Mutex
	recorded []models.ActivityEvent
	resp     []models.ActivityEvent
	err      error
	last     service.LogFilter
}

func (m *mockActivity) Record(ctx context.Context, e models.ActivityEvent) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.recorded = append(m.recorded, e)
}
func (m *mockActivity) List(ctx context.Context, f service.LogFilter) ([]models.ActivityEvent, error) {
	m.last = f
	return m.resp, m.err
}
func (m *mockActivity) Prune(ctx context.Context, retention time.Duration) (int64, error) {
	return 0, nil
}

// ---- Shared Test Helpers ----

func newTestRouter(s *service.Service) *gin.Engine {
	h := NewHandler(s, nil)
	gin.SetMode(gin.TestMode)
	return h.InitRoutes()
}

func authHeader(token string) http.Header {
	h := http.Header{}
	if token != "" {
		h.Set("Authorization", "Bearer "+token)
	}
	return h
}
