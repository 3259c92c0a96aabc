package server

import (
	"errors"
	"net/http"
	"strings"

	"github.com/bobmcallan/folio/internal/models"
	"github.com/bobmcallan/folio/internal/services/metadata"
)

// handleMarketQuotes handles GET /api/market/quotes.
func (s *Server) handleMarketQuotes(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}
	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"currency": s.app.Quotes.Currency(),
		"quotes":   s.app.Quotes.Quotes(),
	})
}

// handleNews handles GET /api/news?limit=N&symbols=AAPL,MSFT.
func (s *Server) handleNews(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}
	limit, ok := queryInt(r, "limit", 0)
	if !ok {
		WriteError(w, http.StatusBadRequest, "limit must be a non-negative integer")
		return
	}
	items := s.app.NewsService.Latest(limit, splitCSV(r.URL.Query().Get("symbols")))
	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"items": items,
		"count": len(items),
	})
}

// decodeOption reads an option position from the request body.
func decodeOption(w http.ResponseWriter, r *http.Request) (models.OptionPosition, bool) {
	pos := models.OptionPosition{Contracts: 1}
	if !DecodeJSON(w, r, &pos) {
		return pos, false
	}
	pos.Type = models.OptionType(strings.ToLower(string(pos.Type)))
	return pos, true
}

// handleOptionsCalculate handles POST /api/options/calculate.
func (s *Server) handleOptionsCalculate(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}
	pos, ok := decodeOption(w, r)
	if !ok {
		return
	}
	analysis, err := s.app.OptionsService.Calculate(pos)
	if err != nil {
		s.writeServiceError(w, err, nil)
		return
	}
	WriteJSON(w, http.StatusOK, analysis)
}

// handleOptionsChart handles POST /api/options/chart.png.
func (s *Server) handleOptionsChart(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}
	pos, ok := decodeOption(w, r)
	if !ok {
		return
	}
	analysis, err := s.app.OptionsService.Calculate(pos)
	if err != nil {
		s.writeServiceError(w, err, nil)
		return
	}
	png, err := s.app.OptionsService.PayoffChart(analysis)
	if err != nil {
		s.writeServiceError(w, err, nil)
		return
	}
	WritePNG(w, png)
}

// handleMetadata handles POST /api/metadata (multipart field "file").
func (s *Server) handleMetadata(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}

	// Allow room for multipart framing around the image itself
	r.Body = http.MaxBytesReader(w, r.Body, metadata.MaxImageSize+1<<20)
	if err := r.ParseMultipartForm(8 << 20); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			WriteError(w, http.StatusRequestEntityTooLarge, metadata.ErrTooLarge.Error())
			return
		}
		WriteError(w, http.StatusBadRequest, "expected multipart form with a file field")
		return
	}
	defer r.MultipartForm.RemoveAll()

	file, header, err := r.FormFile("file")
	if err != nil {
		WriteError(w, http.StatusBadRequest, "file is required")
		return
	}
	defer file.Close()

	result, err := s.app.MetadataService.Extract(header.Filename, file)
	if err != nil {
		if errors.Is(err, metadata.ErrTooLarge) {
			WriteError(w, http.StatusRequestEntityTooLarge, err.Error())
			return
		}
		s.writeServiceError(w, err, nil)
		return
	}
	WriteJSON(w, http.StatusOK, result)
}
