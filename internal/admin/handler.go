// AngelaMos | 2026
// handler.go

package admin

import (
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"runtime"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/redis/go-redis/v9"

	"github.com/carterperez-dev/dating-api/internal/access"
	"github.com/carterperez-dev/dating-api/internal/core"
	"github.com/carterperez-dev/dating-api/internal/middleware"
	"github.com/carterperez-dev/dating-api/internal/paging"
)

type Handler struct {
	service    *Service
	validator  *validator.Validate
	dbStats    func() sql.DBStats
	redisStats func() *redis.PoolStats
	redisPing  func(ctx context.Context) error
	dbPing     func(ctx context.Context) error
}

type HandlerConfig struct {
	Service    *Service
	DBStats    func() sql.DBStats
	RedisStats func() *redis.PoolStats
	RedisPing  func(ctx context.Context) error
	DBPing     func(ctx context.Context) error
}

func NewHandler(cfg HandlerConfig) *Handler {
	return &Handler{
		service:    cfg.Service,
		validator:  validator.New(validator.WithRequiredStructEnabled()),
		dbStats:    cfg.DBStats,
		redisStats: cfg.RedisStats,
		redisPing:  cfg.RedisPing,
		dbPing:     cfg.DBPing,
	}
}

func (h *Handler) RegisterRoutes(
	r chi.Router,
	authenticator func(http.Handler) http.Handler,
) {
	r.Route("/admin", func(r chi.Router) {
		r.Use(authenticator)

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireRole(access.RequireAdminRole...))

			r.Get("/users-with-roles", h.UsersWithRoles)
			r.Post("/edit-roles/{username}", h.EditRoles)

			r.Get("/stats", h.GetSystemStats)
			r.Get("/stats/db", h.GetDatabaseStats)
			r.Get("/stats/redis", h.GetRedisStats)
			r.Get("/stats/runtime", h.GetRuntimeStats)
		})

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireRole(access.ModeratePhotoRole...))

			r.Get("/photos-for-moderation", h.PhotosForModeration)
			r.Post("/approve-photo/{photoID}", h.ApprovePhoto)
			r.Post("/reject-photo/{photoID}", h.RejectPhoto)
		})

		r.With(middleware.RequireRole(access.VipOnly...)).Get("/vip", h.Vip)
	})
}

func pageParams(r *http.Request) paging.Params {
	return paging.Params{
		Page:     core.QueryInt(r, "page", 1),
		PageSize: core.QueryInt(r, "page_size", paging.DefaultPageSize),
	}
}

func (h *Handler) UsersWithRoles(w http.ResponseWriter, r *http.Request) {
	page, err := h.service.UsersWithRoles(r.Context(), access.CallerFrom(r.Context()), pageParams(r))
	if err != nil {
		core.HandleError(w, err, "user")
		return
	}

	core.Paginated(w, page.Items, page.Pagination)
}

func (h *Handler) EditRoles(w http.ResponseWriter, r *http.Request) {
	var req EditRolesRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	resp, err := h.service.EditRoles(
		r.Context(),
		access.CallerFrom(r.Context()),
		chi.URLParam(r, "username"),
		req.RoleNames,
	)
	if err != nil {
		core.HandleError(w, err, "user")
		return
	}

	core.OK(w, resp)
}

func (h *Handler) PhotosForModeration(w http.ResponseWriter, r *http.Request) {
	page, err := h.service.PhotosForModeration(r.Context(), access.CallerFrom(r.Context()), pageParams(r))
	if err != nil {
		core.HandleError(w, err, "photo")
		return
	}

	core.Paginated(w, page.Items, page.Pagination)
}

func (h *Handler) ApprovePhoto(w http.ResponseWriter, r *http.Request) {
	photoID, ok := core.PathID(r, "photoID")
	if !ok {
		core.BadRequest(w, "invalid photo id")
		return
	}

	if err := h.service.ApprovePhoto(r.Context(), access.CallerFrom(r.Context()), photoID); err != nil {
		core.HandleError(w, err, "photo")
		return
	}

	core.OK(w, nil)
}

func (h *Handler) RejectPhoto(w http.ResponseWriter, r *http.Request) {
	photoID, ok := core.PathID(r, "photoID")
	if !ok {
		core.BadRequest(w, "invalid photo id")
		return
	}

	if err := h.service.RejectPhoto(r.Context(), access.CallerFrom(r.Context()), photoID); err != nil {
		core.HandleError(w, err, "photo")
		return
	}

	core.OK(w, nil)
}

func (h *Handler) Vip(w http.ResponseWriter, r *http.Request) {
	resp, err := h.service.Vip(access.CallerFrom(r.Context()))
	if err != nil {
		core.HandleError(w, err, "vip")
		return
	}

	core.OK(w, resp)
}

func (h *Handler) statsAllowed(w http.ResponseWriter, r *http.Request) bool {
	if err := h.service.CanViewStats(access.CallerFrom(r.Context())); err != nil {
		core.HandleError(w, err, "stats")
		return false
	}
	return true
}

func (h *Handler) GetSystemStats(w http.ResponseWriter, r *http.Request) {
	if !h.statsAllowed(w, r) {
		return
	}

	ctx := r.Context()

	dbHealthy := true
	if h.dbPing != nil {
		if err := h.dbPing(ctx); err != nil {
			dbHealthy = false
		}
	}

	redisHealthy := h.redisPing != nil
	if h.redisPing != nil {
		if err := h.redisPing(ctx); err != nil {
			redisHealthy = false
		}
	}

	response := SystemStatsResponse{
		Database: DatabaseStatus{
			Healthy: dbHealthy,
			Stats:   h.getDBStats(),
		},
		Redis: RedisStatus{
			Healthy: redisHealthy,
			Stats:   h.getRedisStats(),
		},
		Runtime: readRuntimeStats(),
	}

	core.OK(w, response)
}

func (h *Handler) GetDatabaseStats(w http.ResponseWriter, r *http.Request) {
	if !h.statsAllowed(w, r) {
		return
	}
	core.OK(w, h.getDBStats())
}

func (h *Handler) GetRedisStats(w http.ResponseWriter, r *http.Request) {
	if !h.statsAllowed(w, r) {
		return
	}
	core.OK(w, h.getRedisStats())
}

func (h *Handler) GetRuntimeStats(w http.ResponseWriter, r *http.Request) {
	if !h.statsAllowed(w, r) {
		return
	}
	core.OK(w, readRuntimeStats())
}

func readRuntimeStats() RuntimeStats {
	var memStats runtime.MemStats
	runtime.ReadMemStats(&memStats)

	return RuntimeStats{
		GoVersion:    runtime.Version(),
		NumGoroutine: runtime.NumGoroutine(),
		NumCPU:       runtime.NumCPU(),
		MemAlloc:     memStats.Alloc,
		MemSys:       memStats.Sys,
		NumGC:        memStats.NumGC,
	}
}

func (h *Handler) getDBStats() *DBPoolStats {
	if h.dbStats == nil {
		return nil
	}

	stats := h.dbStats()
	return &DBPoolStats{
		MaxOpenConnections: stats.MaxOpenConnections,
		OpenConnections:    stats.OpenConnections,
		InUse:              stats.InUse,
		Idle:               stats.Idle,
		WaitCount:          stats.WaitCount,
		WaitDuration:       stats.WaitDuration.String(),
		MaxIdleClosed:      stats.MaxIdleClosed,
		MaxIdleTimeClosed:  stats.MaxIdleTimeClosed,
		MaxLifetimeClosed:  stats.MaxLifetimeClosed,
	}
}

func (h *Handler) getRedisStats() *RedisPoolStats {
	if h.redisStats == nil {
		return nil
	}

	stats := h.redisStats()
	return &RedisPoolStats{
		Hits:       stats.Hits,
		Misses:     stats.Misses,
		Timeouts:   stats.Timeouts,
		TotalConns: stats.TotalConns,
		IdleConns:  stats.IdleConns,
		StaleConns: stats.StaleConns,
	}
}

type SystemStatsResponse struct {
	Database DatabaseStatus `json:"database"`
	Redis    RedisStatus    `json:"redis"`
	Runtime  RuntimeStats   `json:"runtime"`
}

type DatabaseStatus struct {
	Healthy bool         `json:"healthy"`
	Stats   *DBPoolStats `json:"stats,omitempty"`
}

type RedisStatus struct {
	Healthy bool            `json:"healthy"`
	Stats   *RedisPoolStats `json:"stats,omitempty"`
}

type DBPoolStats struct {
	MaxOpenConnections int    `json:"max_open_connections"`
	OpenConnections    int    `json:"open_connections"`
	InUse              int    `json:"in_use"`
	Idle               int    `json:"idle"`
	WaitCount          int64  `json:"wait_count"`
	WaitDuration       string `json:"wait_duration"`
	MaxIdleClosed      int64  `json:"max_idle_closed"`
	MaxIdleTimeClosed  int64  `json:"max_idle_time_closed"`
	MaxLifetimeClosed  int64  `json:"max_lifetime_closed"`
}

type RedisPoolStats struct {
	Hits       uint32 `json:"hits"`
	Misses     uint32 `json:"misses"`
	Timeouts   uint32 `json:"timeouts"`
	TotalConns uint32 `json:"total_conns"`
	IdleConns  uint32 `json:"idle_conns"`
	StaleConns uint32 `json:"stale_conns"`
}

type RuntimeStats struct {
	GoVersion    string `json:"go_version"`
	NumGoroutine int    `json:"num_goroutine"`
	NumCPU       int    `json:"num_cpu"`
	MemAlloc     uint64 `json:"mem_alloc_bytes"`
	MemSys       uint64 `json:"mem_sys_bytes"`
	NumGC        uint32 `json:"num_gc"`
}
