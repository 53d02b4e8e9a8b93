package voltnet

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-enols/go-log"
)

// NewDashboardRouter 只读仪表盘的路由
// 所有数据都来自快照缓存 不直接打RPC
func NewDashboardRouter(cache *SnapshotCache) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	r.Get("/healthz", func(w http.ResponseWriter, req *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	r.Get("/api/state", func(w http.ResponseWriter, req *http.Request) {
		writeJSON(w, http.StatusOK, cache.Latest())
	})

	// 费用预览 纯客户端算术 不具权威性 实际以链上结算为准
	r.Get("/api/preview", func(w http.ResponseWriter, req *http.Request) {
		snap := cache.Latest()
		if snap.State == nil {
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{"error": "state not loaded yet"})
			return
		}
		raw, err := strconv.ParseInt(req.URL.Query().Get("count"), 10, 64)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "count must be an integer"})
			return
		}
		count, err := CheckCount(raw)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
			return
		}
		total, fee, toVault, err := snap.State.PreviewCost(count)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
			return
		}
		writeJSON(w, http.StatusOK, map[string]uint64{
			"count":       count,
			"total":       total,
			"platformFee": fee,
			"toVault":     toVault,
		})
	})

	return r
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("写响应失败 | %s", err)
	}
}

// ServeDashboard 启动仪表盘 ctx取消时优雅停机
func ServeDashboard(ctx context.Context, cfg *Config, cache *SnapshotCache) error {
	srv := &http.Server{
		Addr:    cfg.ListenAddr,
		Handler: NewDashboardRouter(cache),
	}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		srv.Shutdown(shutdownCtx)
	}()
	log.Printf("仪表盘启动 | %s", cfg.ListenAddr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
