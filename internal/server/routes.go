package server

import (
	"net/http"
	"runtime"
	"time"

	"github.com/shirou/gopsutil/v3/mem"

	"github.com/bobmcallan/folio/internal/common"
)

// registerRoutes sets up all REST API routes on the mux.
func (s *Server) registerRoutes(mux *http.ServeMux) {
	// System
	mux.HandleFunc("/api/health", s.handleHealth)
	mux.HandleFunc("/api/version", s.handleVersion)
	mux.HandleFunc("/api/config", s.handleConfig)
	mux.HandleFunc("/api/diagnostics", s.handleDiagnostics)
	mux.HandleFunc("/api/shutdown", s.handleShutdown)

	// Auth
	mux.HandleFunc("/api/auth/signup", s.handleAuthSignup)
	mux.HandleFunc("/api/auth/login", s.handleAuthLogin)
	mux.HandleFunc("/api/auth/validate", s.handleAuthValidate)

	// Users
	mux.HandleFunc("/api/users/me", s.handleUserMe)
	mux.HandleFunc("/api/admin/users/", s.routeAdminUsers) // handles {id}/role
	mux.HandleFunc("/api/admin/users", s.handleAdminListUsers)

	// Portfolio
	mux.HandleFunc("/api/portfolio/", s.routePortfolio)
	mux.HandleFunc("/api/portfolio", s.routePortfolio)

	// Reference data and tools
	mux.HandleFunc("/api/market/quotes", s.handleMarketQuotes)
	mux.HandleFunc("/api/news", s.handleNews)
	mux.HandleFunc("/api/options/calculate", s.handleOptionsCalculate)
	mux.HandleFunc("/api/options/chart.png", s.handleOptionsChart)
	mux.HandleFunc("/api/metadata", s.handleMetadata)
}

// --- System handlers ---

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet, http.MethodHead) {
		return
	}
	WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleVersion(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet, http.MethodHead) {
		return
	}
	WriteJSON(w, http.StatusOK, map[string]string{
		"version": common.GetVersion(),
		"build":   common.GetBuild(),
		"commit":  common.GetGitCommit(),
	})
}

func (s *Server) handleConfig(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}
	cfg := s.app.Config

	schema, _ := s.app.Storage.InternalStore().GetSystemKV(r.Context(), "schema_version")

	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"environment":       cfg.Environment,
		"schema_version":    schema,
		"storage_backend":   s.app.Storage.Backend(),
		"storage_path":      cfg.Storage.Path,
		"storage_address":   cfg.Storage.Address,
		"storage_namespace": cfg.Storage.Namespace,
		"storage_database":  cfg.Storage.Database,
		"storage_password":  maskSecret(cfg.Storage.Password),
		"jwt_secret":        maskSecret(cfg.Auth.JWTSecret),
		"token_expiry":      cfg.Auth.GetTokenExpiry().String(),
		"logging_level":     cfg.Logging.Level,
		"currency":          s.app.Quotes.Currency(),
		"display_currency":  common.ResolveDisplayCurrency(r.Context(), s.app.Quotes.Currency()),
		"quotes":            len(s.app.Quotes.Quotes()),
		"sectors":           len(cfg.Market.Sectors),
		"news_items":        len(cfg.News),
	})
}

func (s *Server) handleDiagnostics(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	resp := map[string]interface{}{
		"version":    common.GetVersion(),
		"build":      common.GetBuild(),
		"commit":     common.GetGitCommit(),
		"uptime":     time.Since(s.app.StartupTime).Round(time.Second).String(),
		"started_at": s.app.StartupTime,
		"runtime": map[string]interface{}{
			"go_version":    runtime.Version(),
			"goroutines":    runtime.NumGoroutine(),
			"heap_alloc_mb": float64(m.HeapAlloc) / 1024 / 1024,
			"sys_mb":        float64(m.Sys) / 1024 / 1024,
			"num_gc":        m.NumGC,
		},
	}

	if vm, err := mem.VirtualMemory(); err == nil {
		resp["host_memory"] = map[string]interface{}{
			"total_mb":     float64(vm.Total) / 1024 / 1024,
			"available_mb": float64(vm.Available) / 1024 / 1024,
			"used_percent": vm.UsedPercent,
		}
	} else {
		s.logger.Debug().Err(err).Msg("Host memory stats unavailable")
	}

	WriteJSON(w, http.StatusOK, resp)
}

// handleShutdown handles POST /api/shutdown (dev mode only).
func (s *Server) handleShutdown(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}

	if s.app.Config.IsProduction() {
		WriteError(w, http.StatusForbidden, "Shutdown endpoint disabled in production")
		return
	}

	s.logger.Info().Msg("Shutdown requested via HTTP endpoint")

	w.WriteHeader(http.StatusOK)
	w.Write([]byte("Shutting down gracefully...\n"))

	if flusher, ok := w.(http.Flusher); ok {
		flusher.Flush()
	}

	if s.shutdownChan != nil {
		go func() {
			time.Sleep(100 * time.Millisecond)
			s.shutdownChan <- struct{}{}
		}()
	}
}

func maskSecret(s string) string {
	if s == "" {
		return ""
	}
	if len(s) <= 4 {
		return "****"
	}
	return s[:4] + "****"
}
