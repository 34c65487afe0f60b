package dashboard

import (
	"context"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/elskow/portfolio-cms/internal/cache"
)

const statsCacheKey = "dashboard:stats"

type Service struct {
	repository Repository
	cache      cache.Cache
	log        *zap.Logger
	now        func() time.Time
}

func NewService(repo Repository, c cache.Cache, log *zap.Logger) *Service {
	return &Service{repository: repo, cache: c, log: log, now: time.Now}
}

// Stats gathers the dashboard overview. Results are served from the cache
// until its TTL expires.
func (s *Service) Stats(ctx context.Context) (*Stats, error) {
	var cached Stats
	if hit, err := s.cache.Get(ctx, statsCacheKey, &cached); err != nil {
		s.log.Warn("dashboard cache read failed", zap.Error(err))
	} else if hit {
		return &cached, nil
	}

	var (
		stats    Stats
		overview *Overview
		activity *RecentActivity
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		overview, err = s.repository.Overview(gctx)
		return err
	})
	g.Go(func() (err error) {
		activity, err = s.repository.RecentActivity(gctx)
		return err
	})
	g.Go(func() (err error) {
		stats.Breakdown.SkillsByCategory, err = s.repository.SkillsByCategory(gctx)
		return err
	})
	g.Go(func() (err error) {
		stats.Breakdown.PostsByCategory, err = s.repository.PostsByCategory(gctx)
		return err
	})
	g.Go(func() (err error) {
		since := s.now().UTC().AddDate(-1, 0, 0)
		stats.Breakdown.MonthlyPosts, err = s.repository.MonthlyPosts(gctx, since)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	stats.Overview = *overview
	stats.RecentActivity = *activity

	if err := s.cache.Set(ctx, statsCacheKey, stats); err != nil {
		s.log.Warn("dashboard cache write failed", zap.Error(err))
	}
	return &stats, nil
}

func (s *Service) Summary(ctx context.Context) (*Summary, error) {
	return s.repository.Summary(ctx)
}
