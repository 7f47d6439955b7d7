package service

import (
	"context"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/olehvh/cek-outage-api/internal/feed"
	"github.com/olehvh/cek-outage-api/internal/models"
	appErrors "github.com/olehvh/cek-outage-api/pkg/errors"
)

// FeedFetcher downloads the raw announcement feed.
type FeedFetcher interface {
	Fetch(ctx context.Context) (string, error)
}

// ScheduleProvider is the structured secondary source.
type ScheduleProvider interface {
	FetchSchedule(ctx context.Context, group string) (*models.GroupSchedule, error)
}

// OutageService reconciles the feed-derived schedule with the structured
// provider and serves the combined result.
type OutageService struct {
	feed      FeedFetcher
	provider  ScheduleProvider
	cache     *CacheService
	metrics   *MetricsService
	validator *validator.Validate
	logger    *zap.Logger
	now       func() time.Time
}

// NewOutageService constructs the service.
func NewOutageService(feedSrc FeedFetcher, provider ScheduleProvider, cache *CacheService, metrics *MetricsService, validate *validator.Validate, logger *zap.Logger) *OutageService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	svc := &OutageService{
		feed:      feedSrc,
		provider:  provider,
		cache:     cache,
		metrics:   metrics,
		validator: validate,
		logger:    logger,
		now:       time.Now,
	}
	svc.validator.RegisterValidation("outage_group", func(fl validator.FieldLevel) bool {
		return models.ValidGroup(fl.Field().String())
	})
	return svc
}

type groupRequest struct {
	Group string `validate:"required,outage_group"`
}

// GroupSchedule returns the reconciled schedule for one group.
//
// Both sources are fetched in parallel; a failed fetch demotes that source to
// "absent" rather than failing the call. The feed-derived schedule is
// authoritative when it has the group; the provider's emergency status is
// injected on top of it, and the provider's record is used wholesale when the
// feed has nothing for the group. Only the absence of both sources is an error.
func (s *OutageService) GroupSchedule(ctx context.Context, group string) (*models.GroupSchedule, error) {
	if err := s.validator.Struct(groupRequest{Group: group}); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid group identifier")
	}

	cacheKey := "schedule:group:" + group
	var cached models.GroupSchedule
	if hit, _ := s.cache.Get(ctx, cacheKey, &cached); hit {
		return &cached, nil
	}

	runID := uuid.NewString()
	start := time.Now()
	primary, secondary := s.fetchSources(ctx, group, runID)
	if s.metrics != nil {
		s.metrics.ObserveReconcile(time.Since(start))
	}

	result, err := Reconcile(primary, secondary, group)
	if err != nil {
		s.logger.Error("no source returned data", zap.String("run_id", runID), zap.String("group", group))
		return nil, err
	}

	_ = s.cache.Set(ctx, cacheKey, result, 0)
	return result, nil
}

// FeedSchedule rebuilds and returns the full feed-derived schedule for all
// groups the feed currently mentions, without the provider overlay.
func (s *OutageService) FeedSchedule(ctx context.Context) (models.Schedule, error) {
	cacheKey := "schedule:feed"
	var cached models.Schedule
	if hit, _ := s.cache.Get(ctx, cacheKey, &cached); hit {
		return cached, nil
	}

	schedule, err := s.buildPrimary(ctx)
	if err != nil {
		return nil, err
	}

	_ = s.cache.Set(ctx, cacheKey, schedule, 0)
	return schedule, nil
}

// fetchSources fetches both sources concurrently. They share no mutable state;
// each failure is logged and reported as an absent source.
func (s *OutageService) fetchSources(ctx context.Context, group, runID string) (models.Schedule, *models.GroupSchedule) {
	var (
		wg        sync.WaitGroup
		primary   models.Schedule
		secondary *models.GroupSchedule
	)

	wg.Add(2)
	go func() {
		defer wg.Done()
		schedule, err := s.buildPrimary(ctx)
		if err != nil {
			s.logger.Warn("feed source unavailable", zap.String("run_id", runID), zap.Error(err))
			return
		}
		primary = schedule
	}()
	go func() {
		defer wg.Done()
		gs, err := s.provider.FetchSchedule(ctx, group)
		if s.metrics != nil {
			s.metrics.RecordSourceFetch("provider", err == nil)
		}
		if err != nil {
			s.logger.Warn("provider source unavailable", zap.String("run_id", runID), zap.String("group", group), zap.Error(err))
			return
		}
		secondary = gs
	}()
	wg.Wait()

	return primary, secondary
}

func (s *OutageService) buildPrimary(ctx context.Context) (models.Schedule, error) {
	raw, err := s.feed.Fetch(ctx)
	if s.metrics != nil {
		s.metrics.RecordSourceFetch("feed", err == nil)
	}
	if err != nil {
		return nil, err
	}

	messages := feed.ExtractMessages(raw)
	// The page lists messages newest first; replay needs oldest first.
	reverseMessages(messages)
	return feed.BuildSchedule(messages, s.now()), nil
}

// Reconcile applies the source precedence: the primary (feed-derived) entry
// wins when present, with the secondary's emergency status injected on top of
// it; otherwise the secondary entry is used wholesale. Slots are never taken
// from the secondary when the primary has the group, only the status field.
func Reconcile(primary models.Schedule, secondary *models.GroupSchedule, group string) (*models.GroupSchedule, error) {
	if gs, ok := primary[group]; ok {
		injectEmergencyStatus(gs, secondary)
		return gs, nil
	}
	if secondary != nil {
		return secondary, nil
	}
	return nil, appErrors.Clone(appErrors.ErrSourcesUnavailable, "no outage data available for group "+group)
}

func injectEmergencyStatus(gs, secondary *models.GroupSchedule) {
	if secondary == nil {
		return
	}
	for _, key := range []models.DayKey{models.DayToday, models.DayTomorrow} {
		sec := secondary.Day(key)
		pri := gs.Day(key)
		if sec == nil || pri == nil {
			continue
		}
		if sec.Status == models.StatusEmergencyShutdowns {
			pri.Status = models.StatusEmergencyShutdowns
		}
	}
}

func reverseMessages(messages []models.Message) {
	for i, j := 0, len(messages)-1; i < j; i, j = i+1, j-1 {
		messages[i], messages[j] = messages[j], messages[i]
	}
}
