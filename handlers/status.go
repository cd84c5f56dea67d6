package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/dmitrymomot/filesmanager"
	"github.com/dmitrymomot/filesmanager/internal/files"
	"github.com/dmitrymomot/filesmanager/internal/users"
	"github.com/dmitrymomot/filesmanager/pkg/cache"
	"github.com/dmitrymomot/filesmanager/pkg/health"
)

// Status serves /status and /stats.
type Status struct {
	redis      health.CheckFunc
	db         health.CheckFunc
	users      *users.Service
	files      *files.Service
	statsCache cache.Cache[StatsResponse]
	statsTTL   time.Duration
}

// StatusOption configures a Status handler.
type StatusOption func(*Status)

// WithRedisCheck reports redis liveness. Without it redis is reported up.
func WithRedisCheck(fn health.CheckFunc) StatusOption {
	return func(s *Status) {
		s.redis = fn
	}
}

// WithDBCheck reports database liveness. Without it the db is reported up.
func WithDBCheck(fn health.CheckFunc) StatusOption {
	return func(s *Status) {
		s.db = fn
	}
}

// WithStatsCache caches /stats for ttl. Default: 10s.
func WithStatsCache(c cache.Cache[StatsResponse], ttl time.Duration) StatusOption {
	return func(s *Status) {
		s.statsCache = c
		if ttl > 0 {
			s.statsTTL = ttl
		}
	}
}

func NewStatus(usersSvc *users.Service, filesSvc *files.Service, opts ...StatusOption) *Status {
	s := &Status{
		users:      usersSvc,
		files:      filesSvc,
		statsCache: cache.NewMemory[StatsResponse](cache.WithMaxEntries(1)),
		statsTTL:   10 * time.Second,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (h *Status) Routes(r filesmanager.Router) {
	r.GET("/status", h.status)
	r.GET("/stats", h.stats)
}

type StatusResponse struct {
	Redis bool `json:"redis"`
	DB    bool `json:"db"`
}

type StatsResponse struct {
	Users int `json:"users"`
	Files int `json:"files"`
}

func (h *Status) status(c filesmanager.Context) error {
	checks := health.Checks{}
	if h.redis != nil {
		checks["redis"] = h.redis
	}
	if h.db != nil {
		checks["db"] = h.db
	}
	res := health.Run(c, checks, health.WithLogger(c.Logger()))

	return c.JSON(http.StatusOK, StatusResponse{
		Redis: h.redis == nil || res.Healthy("redis"),
		DB:    h.db == nil || res.Healthy("db"),
	})
}

func (h *Status) stats(c filesmanager.Context) error {
	res, err := cache.GetOrSet(c, h.statsCache, "stats", func(ctx context.Context) (StatsResponse, time.Duration, error) {
		nUsers, err := h.users.CountUsers(ctx)
		if err != nil {
			return StatsResponse{}, 0, err
		}
		nFiles, err := h.files.CountFiles(ctx)
		if err != nil {
			return StatsResponse{}, 0, err
		}
		return StatsResponse{Users: nUsers, Files: nFiles}, h.statsTTL, nil
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, res)
}
