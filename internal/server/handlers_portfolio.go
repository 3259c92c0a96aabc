package server

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/bobmcallan/folio/internal/models"
)

// routePortfolio dispatches /api/portfolio/* to the appropriate handler.
// Every portfolio route acts on the authenticated caller's document.
func (s *Server) routePortfolio(w http.ResponseWriter, r *http.Request) {
	if _, ok := requireUser(w, r); !ok {
		return
	}

	path := strings.Trim(strings.TrimPrefix(r.URL.Path, "/api/portfolio"), "/")

	switch {
	case path == "":
		s.handlePortfolio(w, r)
	case path == "holdings":
		s.handleHoldingAdd(w, r)
	case strings.HasPrefix(path, "holdings/"):
		symbol, err := url.PathUnescape(strings.TrimPrefix(path, "holdings/"))
		if err != nil || symbol == "" {
			WriteError(w, http.StatusBadRequest, "symbol is required in path")
			return
		}
		s.handleHoldingRemove(w, r, symbol)
	case path == "goal":
		s.handlePortfolioGoal(w, r)
	case path == "overview":
		s.handlePortfolioOverview(w, r)
	case path == "analytics":
		s.handlePortfolioAnalytics(w, r)
	case path == "analytics/chart.png":
		s.handlePortfolioChart(w, r)
	case path == "report":
		s.handlePortfolioReport(w, r)
	case path == "history":
		s.handlePortfolioHistory(w, r)
	default:
		WriteError(w, http.StatusNotFound, "Not found")
	}
}

// handlePortfolio handles GET/PUT /api/portfolio.
func (s *Server) handlePortfolio(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet, http.MethodPut) {
		return
	}
	ctx := r.Context()

	if r.Method == http.MethodGet {
		p, err := s.app.PortfolioService.Load(ctx)
		if err != nil {
			s.writeServiceError(w, err, nil)
			return
		}
		WriteJSON(w, http.StatusOK, p)
		return
	}

	var doc models.Portfolio
	if !DecodeJSON(w, r, &doc) {
		return
	}
	p, err := s.app.PortfolioService.Save(ctx, &doc)
	if err != nil {
		s.writeServiceError(w, err, p)
		return
	}
	WriteJSON(w, http.StatusOK, p)
}

// handleHoldingAdd handles POST /api/portfolio/holdings.
func (s *Server) handleHoldingAdd(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}

	var h models.Holding
	if !DecodeJSON(w, r, &h) {
		return
	}

	p, err := s.app.PortfolioService.AddHolding(r.Context(), h)
	if err != nil {
		s.writeServiceError(w, err, p)
		return
	}
	WriteJSON(w, http.StatusCreated, p)
}

// handleHoldingRemove handles DELETE /api/portfolio/holdings/{symbol}.
func (s *Server) handleHoldingRemove(w http.ResponseWriter, r *http.Request, symbol string) {
	if !RequireMethod(w, r, http.MethodDelete) {
		return
	}

	p, err := s.app.PortfolioService.RemoveHolding(r.Context(), symbol)
	if err != nil {
		s.writeServiceError(w, err, p)
		return
	}
	WriteJSON(w, http.StatusOK, p)
}

// handlePortfolioGoal handles GET/PUT /api/portfolio/goal.
func (s *Server) handlePortfolioGoal(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet, http.MethodPut) {
		return
	}
	ctx := r.Context()

	if r.Method == http.MethodPut {
		var req struct {
			InvestmentGoal float64 `json:"investmentGoal"`
			TargetDate     string  `json:"targetDate"`
		}
		if !DecodeJSON(w, r, &req) {
			return
		}
		if p, err := s.app.PortfolioService.SetGoal(ctx, req.InvestmentGoal, req.TargetDate); err != nil {
			s.writeServiceError(w, err, p)
			return
		}
	}

	progress, err := s.app.PortfolioService.GoalProgress(ctx)
	if err != nil {
		s.writeServiceError(w, err, nil)
		return
	}
	WriteJSON(w, http.StatusOK, progress)
}

// handlePortfolioOverview handles GET /api/portfolio/overview.
func (s *Server) handlePortfolioOverview(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}
	overview, err := s.app.PortfolioService.Overview(r.Context())
	if err != nil {
		s.writeServiceError(w, err, nil)
		return
	}
	WriteJSON(w, http.StatusOK, overview)
}

// handlePortfolioAnalytics handles GET /api/portfolio/analytics.
func (s *Server) handlePortfolioAnalytics(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}
	analysis, err := s.app.PortfolioService.Analyze(r.Context())
	if err != nil {
		s.writeServiceError(w, err, nil)
		return
	}
	WriteJSON(w, http.StatusOK, analysis)
}

// handlePortfolioChart handles GET /api/portfolio/analytics/chart.png.
func (s *Server) handlePortfolioChart(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}
	png, err := s.app.PortfolioService.SectorChart(r.Context())
	if err != nil {
		s.writeServiceError(w, err, nil)
		return
	}
	WritePNG(w, png)
}

// handlePortfolioReport handles GET /api/portfolio/report?format=markdown|html.
func (s *Server) handlePortfolioReport(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}
	ctx := r.Context()

	switch format := strings.ToLower(r.URL.Query().Get("format")); format {
	case "", "markdown", "md":
		md, err := s.app.ReportService.Markdown(ctx)
		if err != nil {
			s.writeServiceError(w, err, nil)
			return
		}
		w.Header().Set("Content-Type", "text/markdown; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(md))
	case "html":
		html, err := s.app.ReportService.HTML(ctx)
		if err != nil {
			s.writeServiceError(w, err, nil)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(html))
	default:
		WriteError(w, http.StatusBadRequest, "format must be markdown or html")
	}
}

// handlePortfolioHistory handles GET /api/portfolio/history?limit=N.
func (s *Server) handlePortfolioHistory(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}
	limit, ok := queryInt(r, "limit", 0)
	if !ok {
		WriteError(w, http.StatusBadRequest, "limit must be a non-negative integer")
		return
	}

	versions, err := s.app.PortfolioService.History(r.Context(), limit)
	if err != nil {
		s.writeServiceError(w, err, nil)
		return
	}
	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"versions": versions,
		"count":    len(versions),
	})
}
