package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/olehvh/cek-outage-api/pkg/jobs"
)

// RefreshService periodically re-reconciles the configured groups so the
// cache stays warm between client polls.
type RefreshService struct {
	outages  *OutageService
	queue    *jobs.Queue
	groups   []string
	interval time.Duration
	logger   *zap.Logger

	cancel context.CancelFunc
	done   chan struct{}
}

// NewRefreshService constructs the refresh worker.
func NewRefreshService(outages *OutageService, groups []string, interval time.Duration, logger *zap.Logger) *RefreshService {
	if interval <= 0 {
		interval = 15 * time.Minute
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	svc := &RefreshService{
		outages:  outages,
		groups:   groups,
		interval: interval,
		logger:   logger,
	}
	svc.queue = jobs.NewQueue("schedule-refresh", svc.handle, jobs.QueueConfig{
		Workers:    1,
		MaxRetries: 2,
		RetryDelay: 30 * time.Second,
		Logger:     logger,
	})
	return svc
}

// Start launches queue workers and the refresh ticker.
func (s *RefreshService) Start(ctx context.Context) {
	if len(s.groups) == 0 {
		s.logger.Info("refresh disabled: no groups configured")
		return
	}

	ctx, s.cancel = context.WithCancel(ctx)
	s.done = make(chan struct{})
	s.queue.Start(ctx)

	go func() {
		defer close(s.done)
		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()

		s.enqueueAll()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				s.enqueueAll()
			}
		}
	}()
}

// Stop halts the ticker and drains the workers.
func (s *RefreshService) Stop() {
	if s.cancel == nil {
		return
	}
	s.cancel()
	<-s.done
	s.queue.Stop()
}

func (s *RefreshService) enqueueAll() {
	for _, group := range s.groups {
		job := jobs.Job{ID: uuid.NewString(), Group: group}
		if err := s.queue.Enqueue(job); err != nil {
			s.logger.Warn("failed to enqueue refresh", zap.String("group", group), zap.Error(err))
		}
	}
}

func (s *RefreshService) handle(ctx context.Context, job jobs.Job) error {
	_, err := s.outages.GroupSchedule(ctx, job.Group)
	return err
}
