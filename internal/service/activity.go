package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"weather_dashboard/internal/logger"
	"weather_dashboard/internal/models"
	"weather_dashboard/internal/repository"
)

// Activity log listing bounds.
const (
	DefaultLogLimit = 100
	MaxLogLimit     = 1000
)

type ActivityService struct {
	repo repository.ActivityRepo
	log  *logger.Logger
}

func NewActivityService(repo repository.ActivityRepo, log *logger.Logger) *ActivityService {
	if log == nil {
		log = logger.Nop()
	}
	return &ActivityService{repo: repo, log: log}
}

var _ ActivityLog = (*ActivityService)(nil)

var (
	errInvalidTimeRange = errors.New("invalid time range: from must be <= to")
	errInvalidEventType = errors.New("invalid event type: must be SIGN_IN, SIGN_UP, SIGN_OUT or ACCESS_DENIED")
)

var knownEventTypes = map[string]bool{
	models.ActivitySignIn:       true,
	models.ActivitySignUp:       true,
	models.ActivitySignOut:      true,
	models.ActivityAccessDenied: true,
}

// normalizeToUTC returns t in UTC, preserving zero time values.
func normalizeToUTC(t time.Time) time.Time {
	if t.IsZero() {
		return t
	}
	return t.UTC()
}

// normalizeEventType trims spaces and uppercases the event type filter.
func normalizeEventType(s string) string {
	return strings.TrimSpace(strings.ToUpper(s))
}

// normalizeAndValidateFilter prepares query parameters and validates them.
func normalizeAndValidateFilter(f LogFilter) (LogFilter, error) {
	out := LogFilter{
		From:  normalizeToUTC(f.From),
		To:    normalizeToUTC(f.To),
		Type:  normalizeEventType(f.Type),
		Limit: f.Limit,
	}
	if !out.From.IsZero() && !out.To.IsZero() && out.From.After(out.To) {
		return LogFilter{}, &ValidationError{Field: "from", Message: errInvalidTimeRange.Error()}
	}
	if out.Type != "" && !knownEventTypes[out.Type] {
		return LogFilter{}, &ValidationError{Field: "type", Message: errInvalidEventType.Error()}
	}
	switch {
	case out.Limit <= 0:
		out.Limit = DefaultLogLimit
	case out.Limit > MaxLogLimit:
		out.Limit = MaxLogLimit
	}
	return out, nil
}

// Record appends e. Failures are logged, not returned.
func (s *ActivityService) Record(ctx context.Context, e models.ActivityEvent) {
	if err := s.repo.Append(ctx, e); err != nil {
		s.log.Errorw("activity_record_failed", "type", e.Type, "user_id", e.UserID, "err", err)
	}
}

func (s *ActivityService) List(ctx context.Context, f LogFilter) ([]models.ActivityEvent, error) {
	nf, err := normalizeAndValidateFilter(f)
	if err != nil {
		return nil, err
	}
	return s.repo.List(ctx, nf.From, nf.To, nf.Type, nf.Limit)
}

// Prune deletes events older than retention.
func (s *ActivityService) Prune(ctx context.Context, retention time.Duration) (int64, error) {
	if retention <= 0 {
		return 0, invalid("retention", "retention must be positive")
	}
	cutoff := time.Now().UTC().Add(-retention)
	n, err := s.repo.DeleteBefore(ctx, cutoff)
	if err != nil {
		return 0, err
	}
	s.log.Infow("activity_pruned", "deleted", n, "cutoff", cutoff)
	return n, nil
}
