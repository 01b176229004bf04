// AngelaMos | 2026
// handler.go

package admin

import (
	"context"
	"database/sql"
	"log/slog"
	"net/http"
	"runtime"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/redis/go-redis/v9"

	"github.com/umb-labs/umb-api/internal/core"
)

const probeTimeout = 2 * time.Second

// Counter reports how many records a store holds.
type Counter func(ctx context.Context) (int, error)

type Pinger func(ctx context.Context) error

type HandlerConfig struct {
	DBStats    func() sql.DBStats
	RedisStats func() *redis.PoolStats
	DBPing     Pinger
	RedisPing  Pinger
	CountUsers Counter
	CountBots  Counter
	Version    string
}

type Handler struct {
	cfg       HandlerConfig
	startedAt time.Time
}

func NewHandler(cfg HandlerConfig) *Handler {
	return &Handler{cfg: cfg, startedAt: time.Now()}
}

func (h *Handler) RegisterRoutes(
	r chi.Router,
	authenticator, adminOnly func(http.Handler) http.Handler,
) {
	r.With(authenticator, adminOnly).Get("/admin/sistema", h.GetSystemStats)
}

// GetSystemStats probes both stores and counts both tables concurrently.
// A failing probe degrades its section of the report instead of the request.
func (h *Handler) GetSystemStats(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), probeTimeout)
	defer cancel()

	resp := SystemStatsResponse{
		Version: h.cfg.Version,
		Uptime:  time.Since(h.startedAt).Round(time.Second).String(),
		Runtime: readRuntime(),
	}

	var wg sync.WaitGroup
	run := func(fn func()) {
		wg.Add(1)
		go func() {
			defer wg.Done()
			fn()
		}()
	}

	run(func() { resp.Totals.Users = count(ctx, "users", h.cfg.CountUsers) })
	run(func() { resp.Totals.Bots = count(ctx, "bots", h.cfg.CountBots) })
	run(func() { resp.Database = probe(ctx, h.cfg.DBPing, h.dbPool) })
	run(func() { resp.Redis = probe(ctx, h.cfg.RedisPing, h.redisPool) })
	wg.Wait()

	core.OK(w, "", resp)
}

func count(ctx context.Context, name string, fn Counter) *int {
	if fn == nil {
		return nil
	}

	n, err := fn(ctx)
	if err != nil {
		slog.WarnContext(ctx, "admin count failed", "store", name, "error", err)
		return nil
	}
	return &n
}

// probe reports pool stats only for a store that answered its ping.
func probe(ctx context.Context, ping Pinger, pool func() *PoolStats) StoreStatus {
	if ping == nil {
		return StoreStatus{}
	}

	start := time.Now()
	if err := ping(ctx); err != nil {
		return StoreStatus{}
	}

	return StoreStatus{
		Healthy: true,
		Latency: time.Since(start).Round(time.Microsecond).String(),
		Pool:    pool(),
	}
}

func (h *Handler) dbPool() *PoolStats {
	if h.cfg.DBStats == nil {
		return nil
	}

	s := h.cfg.DBStats()
	return &PoolStats{
		Open:  s.OpenConnections,
		InUse: s.InUse,
		Idle:  s.Idle,
		Waits: s.WaitCount,
	}
}

func (h *Handler) redisPool() *PoolStats {
	if h.cfg.RedisStats == nil {
		return nil
	}

	s := h.cfg.RedisStats()
	return &PoolStats{
		Open:    int(s.TotalConns),
		InUse:   max(int(s.TotalConns)-int(s.IdleConns), 0),
		Idle:    int(s.IdleConns),
		Misses:  int64(s.Misses),
		Timeout: int64(s.Timeouts),
	}
}

func readRuntime() RuntimeStats {
	var mem runtime.MemStats
	runtime.ReadMemStats(&mem)

	return RuntimeStats{
		GoVersion:  runtime.Version(),
		Goroutines: runtime.NumGoroutine(),
		CPUs:       runtime.NumCPU(),
		HeapBytes:  mem.HeapAlloc,
		SysBytes:   mem.Sys,
		GCRuns:     mem.NumGC,
	}
}
