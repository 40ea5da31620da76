package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"weather_dashboard/internal/logger"
	"weather_dashboard/internal/metrics"
	"weather_dashboard/internal/models"
)

// DashboardView is the display-ready state of one user's dashboard.
type DashboardView struct {
	Filter    models.DashboardFilter   `json:"filter"`
	Readings  []models.EnrichedReading `json:"readings"`
	Stats     models.SummaryStats      `json:"stats"`
	Chart     models.ChartSeries       `json:"chart"`
	LoadedAt  time.Time                `json:"loadedAt"`
	LastError string                   `json:"lastError,omitempty"`
}

type readingsLoader interface {
	LoadReadings(ctx context.Context, accessToken string, filter models.DashboardFilter) ([]models.EnrichedReading, error)
	NormalizeFilter(f models.DashboardFilter) (models.DashboardFilter, error)
}

// DefaultIdleTTL is how long an untouched dashboard state is kept.
const DefaultIdleTTL = 30 * time.Minute

type dashboardState struct {
	view     DashboardView
	loaded   bool
	ticket   uint64
	cancel   context.CancelFunc
	inflight *loadCall
	lastUsed time.Time
}

// loadCall is one load in flight. done is closed once view and err are set.
type loadCall struct {
	done chan struct{}
	view DashboardView
	err  error
}

// DashboardService holds per-user dashboard state in memory. Each load takes
// a ticket; starting a load cancels the previous one and only the newest
// ticket may commit. States idle for longer than the TTL are evicted, so the
// next Get loads from the gateway again.
type DashboardService struct {
	weather readingsLoader
	log     *logger.Logger
	now     func() time.Time
	idleTTL time.Duration

	mu     sync.Mutex
	states map[string]*dashboardState
}

func NewDashboardService(weather readingsLoader, log *logger.Logger) *DashboardService {
	if log == nil {
		log = logger.Nop()
	}
	return &DashboardService{
		weather: weather,
		log:     log,
		now:     time.Now,
		idleTTL: DefaultIdleTTL,
		states:  make(map[string]*dashboardState),
	}
}

// WithIdleTTL sets how long an untouched state survives. Non-positive values
// keep the default.
func (s *DashboardService) WithIdleTTL(d time.Duration) *DashboardService {
	if d > 0 {
		s.idleTTL = d
	}
	return s
}

var _ Dashboard = (*DashboardService)(nil)

func emptyView(filter models.DashboardFilter) DashboardView {
	return DashboardView{
		Filter:   filter,
		Readings: []models.EnrichedReading{},
		Stats:    Summarize(nil),
		Chart:    BuildChartSeries(nil, filter),
	}
}

// Get returns the current view. A cold or expired state is loaded with the
// default filter; a load already in flight for the user is awaited instead
// of started again.
func (s *DashboardService) Get(ctx context.Context, accessToken, userID string) (DashboardView, error) {
	for {
		s.mu.Lock()
		s.evictIdleLocked()
		st, ok := s.states[userID]
		if ok && st.loaded {
			st.lastUsed = s.now()
			v := st.view
			s.mu.Unlock()
			return v, nil
		}
		if !ok || st.inflight == nil {
			s.mu.Unlock()
			return s.load(ctx, accessToken, userID, models.DefaultFilter(), false)
		}
		call := st.inflight
		s.mu.Unlock()

		select {
		case <-call.done:
		case <-ctx.Done():
			return DashboardView{}, ctx.Err()
		}
		// The awaited load lost to a newer one or its caller went away.
		if errors.Is(call.err, ErrSuperseded) || errors.Is(call.err, context.Canceled) {
			continue
		}
		return call.view, call.err
	}
}

// Apply normalizes filter and reloads with it.
func (s *DashboardService) Apply(ctx context.Context, accessToken, userID string, filter models.DashboardFilter) (DashboardView, error) {
	nf, err := s.weather.NormalizeFilter(filter)
	if err != nil {
		return DashboardView{}, err
	}
	return s.load(ctx, accessToken, userID, nf, false)
}

// Refresh reloads with the current filter.
func (s *DashboardService) Refresh(ctx context.Context, accessToken, userID string) (DashboardView, error) {
	filter := models.DefaultFilter()
	s.mu.Lock()
	s.evictIdleLocked()
	if st, ok := s.states[userID]; ok && st.loaded {
		filter = st.view.Filter
	}
	s.mu.Unlock()

	// Preset ranges are relative to now.
	nf, err := s.weather.NormalizeFilter(filter)
	if err != nil {
		return DashboardView{}, err
	}
	return s.load(ctx, accessToken, userID, nf, false)
}

// Reset drops the current state, restores the default filter and reloads.
func (s *DashboardService) Reset(ctx context.Context, accessToken, userID string) (DashboardView, error) {
	return s.load(ctx, accessToken, userID, models.DefaultFilter(), true)
}

// Clear forgets userID's state and cancels any load in flight.
func (s *DashboardService) Clear(userID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if st, ok := s.states[userID]; ok {
		if st.cancel != nil {
			st.cancel()
		}
		delete(s.states, userID)
	}
}

// EvictIdle drops every state untouched for longer than the idle TTL and
// returns how many were dropped.
func (s *DashboardService) EvictIdle() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.evictIdleLocked()
}

// evictIdleLocked must be called with s.mu held. States with a load in
// flight are kept.
func (s *DashboardService) evictIdleLocked() int {
	cutoff := s.now().Add(-s.idleTTL)
	n := 0
	for uid, st := range s.states {
		if st.inflight == nil && st.lastUsed.Before(cutoff) {
			delete(s.states, uid)
			n++
		}
	}
	return n
}

func (s *DashboardService) begin(ctx context.Context, userID string, filter models.DashboardFilter, reset bool) (context.Context, uint64, *loadCall) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.evictIdleLocked()
	st, ok := s.states[userID]
	if !ok {
		st = &dashboardState{}
		s.states[userID] = st
	}
	if st.cancel != nil {
		st.cancel()
	}
	if reset {
		st.view = emptyView(filter)
		st.loaded = true
	}
	st.ticket++
	st.lastUsed = s.now()
	st.inflight = &loadCall{done: make(chan struct{})}
	loadCtx, cancel := context.WithCancel(ctx)
	st.cancel = cancel
	return loadCtx, st.ticket, st.inflight
}

func (s *DashboardService) load(ctx context.Context, accessToken, userID string, filter models.DashboardFilter, reset bool) (DashboardView, error) {
	loadCtx, ticket, call := s.begin(ctx, userID, filter, reset)
	readings, err := s.weather.LoadReadings(loadCtx, accessToken, filter)

	call.view, call.err = s.commit(ctx, userID, ticket, filter, readings, err)
	close(call.done)
	return call.view, call.err
}

func (s *DashboardService) commit(ctx context.Context, userID string, ticket uint64, filter models.DashboardFilter, readings []models.EnrichedReading, err error) (DashboardView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	st, ok := s.states[userID]
	if !ok || st.ticket != ticket {
		metrics.SupersededLoads.Inc()
		s.log.Debugw("dashboard_load_superseded", "user_id", userID, "ticket", ticket)
		return DashboardView{}, ErrSuperseded
	}
	st.cancel()
	st.cancel = nil
	st.inflight = nil
	st.lastUsed = s.now()

	if err != nil {
		if errors.Is(err, context.Canceled) && ctx.Err() != nil {
			return DashboardView{}, err
		}
		s.log.Errorw("dashboard_load_failed", "user_id", userID, "err", err)
		if !st.loaded {
			st.view = emptyView(models.DefaultFilter())
			st.loaded = true
		}
		st.view.LastError = err.Error()
		return st.view, err
	}

	st.view = DashboardView{
		Filter:   filter,
		Readings: readings,
		Stats:    Summarize(readings),
		Chart:    BuildChartSeries(readings, filter),
		LoadedAt: s.now().UTC(),
	}
	st.loaded = true
	return st.view, nil
}
