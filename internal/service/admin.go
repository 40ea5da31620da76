package service

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"weather_dashboard/internal/logger"
	"weather_dashboard/internal/metrics"
	"weather_dashboard/internal/models"
	"weather_dashboard/internal/repository"
)

// Growth chart windows.
const (
	Window24h = "24h"
	Window7d  = "7d"
	Window30d = "30d"
)

// activeWithin is how recently a user must have signed in to count as active.
const activeWithin = 7 * 24 * time.Hour

// GrowthPoint is the cumulative user count at the end of one bucket.
type GrowthPoint struct {
	Time  time.Time `json:"time"`
	Label string    `json:"label"`
	Users int       `json:"users"`
}

// RoleActivity splits a role's users into active and inactive.
type RoleActivity struct {
	Role     string `json:"role"`
	Active   int    `json:"active"`
	Inactive int    `json:"inactive"`
}

// AdminMetrics are the figures shown on the admin panel.
type AdminMetrics struct {
	Window           string         `json:"window"`
	TotalUsers       int            `json:"totalUsers"`
	ActiveUsers      int            `json:"activeUsers"`
	RoleDistribution map[string]int `json:"roleDistribution"`
	UserGrowth       []GrowthPoint  `json:"userGrowth"`
	ActivityByRole   []RoleActivity `json:"activityByRole"`
	TotalRecords     int            `json:"totalRecords"`
	TotalAPICalls    float64        `json:"totalApiCalls"`
	ModelAccuracy    *float64       `json:"modelAccuracy"` // percent; nil without scored predictions
	GeneratedAt      time.Time      `json:"generatedAt"`
}

type counter interface {
	Count(ctx context.Context, accessToken string) (int, error)
}

type latestLoader interface {
	LoadLatest(ctx context.Context, accessToken string) PredictionResult
}

type AdminService struct {
	users       repository.UserAdmin
	weather     counter
	predictions counter
	latest      latestLoader
	log         *logger.Logger
	now         func() time.Time
	apiCalls    func() (float64, error)
}

func NewAdminService(users repository.UserAdmin, weather, predictions counter, latest latestLoader, log *logger.Logger) *AdminService {
	if log == nil {
		log = logger.Nop()
	}
	return &AdminService{
		users:       users,
		weather:     weather,
		predictions: predictions,
		latest:      latest,
		log:         log,
		now:         time.Now,
		apiCalls:    metrics.GatewayCallsServed,
	}
}

var _ Admin = (*AdminService)(nil)

// Metrics computes the admin panel for window (24h, 7d or 30d).
func (s *AdminService) Metrics(ctx context.Context, accessToken, window string) (AdminMetrics, error) {
	if window == "" {
		window = Window7d
	}
	if _, _, err := growthBuckets(window); err != nil {
		return AdminMetrics{}, err
	}
	if !s.users.Enabled() {
		return AdminMetrics{}, ErrAdminUnavailable
	}

	users, err := s.users.ListUsers(ctx)
	if err != nil {
		return AdminMetrics{}, fmt.Errorf("list users: %w", err)
	}
	now := s.now().UTC()

	weatherRows, err := s.weather.Count(ctx, accessToken)
	if err != nil {
		return AdminMetrics{}, fmt.Errorf("count weather rows: %w", err)
	}
	predictionRows, err := s.predictions.Count(ctx, accessToken)
	if err != nil {
		return AdminMetrics{}, fmt.Errorf("count prediction rows: %w", err)
	}
	latest := s.latest.LoadLatest(ctx, accessToken)
	if !latest.OK() {
		return AdminMetrics{}, latest.Err
	}
	calls, err := s.apiCalls()
	if err != nil {
		s.log.Warnw("admin_api_calls_unavailable", "err", err)
	}

	m := AdminMetrics{
		Window:           window,
		TotalUsers:       len(users),
		RoleDistribution: map[string]int{models.RoleAdmin: 0, models.RoleViewer: 0},
		TotalRecords:     weatherRows + predictionRows,
		TotalAPICalls:    calls,
		ModelAccuracy:    MeanAccuracy(latest.Records),
		GeneratedAt:      now,
	}

	byRole := map[string]*RoleActivity{
		models.RoleAdmin:  {Role: models.RoleAdmin},
		models.RoleViewer: {Role: models.RoleViewer},
	}
	for _, u := range users {
		role := roleOf(u)
		m.RoleDistribution[role]++
		if isActiveUser(u, now) {
			m.ActiveUsers++
			byRole[role].Active++
		} else {
			byRole[role].Inactive++
		}
	}
	m.ActivityByRole = []RoleActivity{*byRole[models.RoleAdmin], *byRole[models.RoleViewer]}

	m.UserGrowth, err = UserGrowth(users, window, now)
	if err != nil {
		return AdminMetrics{}, err
	}
	return m, nil
}

func (s *AdminService) ListUsers(ctx context.Context) ([]models.Identity, error) {
	if !s.users.Enabled() {
		return nil, ErrAdminUnavailable
	}
	users, err := s.users.ListUsers(ctx)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	for i := range users {
		users[i].Role = roleOf(users[i])
	}
	sort.SliceStable(users, func(i, j int) bool { return users[i].CreatedAt.After(users[j].CreatedAt) })
	return users, nil
}

// CreateUser creates an already-confirmed viewer account.
func (s *AdminService) CreateUser(ctx context.Context, email, password string) (*models.Identity, error) {
	email = strings.TrimSpace(email)
	if err := validateCredentials(email, password); err != nil {
		return nil, err
	}
	if !s.users.Enabled() {
		return nil, ErrAdminUnavailable
	}
	user, err := s.users.CreateUser(ctx, email, password, map[string]any{"role": models.RoleViewer})
	if err != nil {
		return nil, mapAuthError("create user", err)
	}
	user.Role = models.RoleViewer
	s.log.Infow("admin_user_created", "user_id", user.ID, "email", email)
	return user, nil
}

func roleOf(u models.Identity) string {
	if u.MetadataRole() == models.RoleAdmin {
		return models.RoleAdmin
	}
	return models.RoleViewer
}

func isActiveUser(u models.Identity, now time.Time) bool {
	if !u.IsActive(now) || u.LastSignInAt == nil {
		return false
	}
	return now.Sub(*u.LastSignInAt) <= activeWithin
}

// growthBuckets returns the bucket size and count of window.
func growthBuckets(window string) (time.Duration, int, error) {
	switch window {
	case Window24h:
		return time.Hour, 24, nil
	case Window7d:
		return 24 * time.Hour, 7, nil
	case Window30d:
		return 24 * time.Hour, 30, nil
	default:
		return 0, 0, invalid("window", fmt.Sprintf("unknown window %q: must be 24h, 7d or 30d", window))
	}
}

// UserGrowth returns the cumulative user count at the end of each bucket of
// window, ending with the bucket that contains now. Users created before the
// window form the baseline.
func UserGrowth(users []models.Identity, window string, now time.Time) ([]GrowthPoint, error) {
	step, n, err := growthBuckets(window)
	if err != nil {
		return nil, err
	}
	now = now.UTC()
	last := now.Truncate(step)
	first := last.Add(-time.Duration(n-1) * step)

	created := make([]time.Time, 0, len(users))
	for _, u := range users {
		created = append(created, u.CreatedAt.UTC())
	}
	sort.Slice(created, func(i, j int) bool { return created[i].Before(created[j]) })

	layout := "01/02"
	if step == time.Hour {
		layout = "15:04"
	}

	points := make([]GrowthPoint, 0, n)
	idx := 0
	for b := first; !b.After(last); b = b.Add(step) {
		end := b.Add(step)
		for idx < len(created) && created[idx].Before(end) {
			idx++
		}
		points = append(points, GrowthPoint{Time: b, Label: b.Format(layout), Users: idx})
	}
	return points, nil
}

// MeanAccuracy averages the accuracy scores of records, in percent rounded to
// one decimal. Scores stored as fractions (<= 1) are scaled to percent.
func MeanAccuracy(records []models.PredictionRecord) *float64 {
	var sum float64
	var n int
	for _, r := range records {
		if r.AccuracyScore == nil {
			continue
		}
		v := *r.AccuracyScore
		if v <= 1 {
			v *= 100
		}
		sum += v
		n++
	}
	if n == 0 {
		return nil
	}
	mean := math.Round(sum/float64(n)*10) / 10
	return &mean
}
