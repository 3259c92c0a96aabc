package server

import (
	"bytes"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bobmcallan/folio/internal/models"
)

func TestMarketQuotes(t *testing.T) {
	srv := newTestServer(t)

	rec := do(t, srv, http.MethodGet, "/api/market/quotes", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Currency string         `json:"currency"`
		Quotes   []models.Quote `json:"quotes"`
	}
	decode(t, rec, &resp)
	assert.Equal(t, "USD", resp.Currency)
	require.Len(t, resp.Quotes, 3)
	assert.Equal(t, "AAPL", resp.Quotes[0].Symbol)
	assert.Equal(t, 175.43, resp.Quotes[0].Price)
}

func TestNews(t *testing.T) {
	srv := newTestServer(t)

	rec := do(t, srv, http.MethodGet, "/api/news", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	var resp struct {
		Items []models.NewsItem `json:"items"`
		Count int               `json:"count"`
	}
	decode(t, rec, &resp)
	require.Equal(t, 2, resp.Count)
	assert.Equal(t, "Apple Announces New iPhone Release Date", resp.Items[0].Title)

	rec = do(t, srv, http.MethodGet, "/api/news?symbols=googl", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	decode(t, rec, &resp)
	require.Equal(t, 1, resp.Count)
	assert.Equal(t, "Business Insider", resp.Items[0].Source)

	rec = do(t, srv, http.MethodGet, "/api/news?limit=1", nil, "")
	decode(t, rec, &resp)
	assert.Equal(t, 1, resp.Count)

	rec = do(t, srv, http.MethodGet, "/api/news?limit=abc", nil, "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestOptionsCalculate(t *testing.T) {
	srv := newTestServer(t)

	rec := do(t, srv, http.MethodPost, "/api/options/calculate", strings.NewReader(
		`{"type":"CALL","current_price":100,"strike_price":110,"premium":5,"contracts":1}`), "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var analysis models.OptionAnalysis
	decode(t, rec, &analysis)
	assert.Equal(t, 500.0, analysis.MaxLoss)
	assert.Equal(t, 115.0, analysis.BreakEven)
	require.Len(t, analysis.Curve, 21)
	assert.Equal(t, 50.0, analysis.Curve[0].Price)
	assert.Equal(t, -500.0, analysis.Curve[0].Profit)
}

func TestOptionsCalculate_Invalid(t *testing.T) {
	srv := newTestServer(t)

	for _, body := range []string{
		`{"type":"straddle","current_price":100,"strike_price":110,"premium":5,"contracts":1}`,
		`{"type":"put","current_price":0,"strike_price":110,"premium":5,"contracts":1}`,
		`{"type":"put","current_price":100,"strike_price":110,"premium":5,"contracts":0}`,
	} {
		rec := do(t, srv, http.MethodPost, "/api/options/calculate", strings.NewReader(body), "")
		assert.Equal(t, http.StatusBadRequest, rec.Code, body)
	}
}

func TestOptionsChart(t *testing.T) {
	srv := newTestServer(t)

	rec := do(t, srv, http.MethodPost, "/api/options/chart.png", strings.NewReader(
		`{"type":"put","current_price":100,"strike_price":95,"premium":3,"contracts":2}`), "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "image/png", rec.Header().Get("Content-Type"))
	assert.True(t, strings.HasPrefix(rec.Body.String(), "\x89PNG"))
}

func multipartRequest(t *testing.T, field, filename string, content []byte) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	if field != "" {
		fw, err := mw.CreateFormFile(field, filename)
		require.NoError(t, err)
		_, err = fw.Write(content)
		require.NoError(t, err)
	} else {
		require.NoError(t, mw.WriteField("note", "no file"))
	}
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/metadata", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func TestMetadata_NoExif(t *testing.T) {
	srv := newTestServer(t)

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, multipartRequest(t, "file", "notes.txt", []byte("just some text, not an image")))
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code, rec.Body.String())
	assert.Contains(t, rec.Body.String(), "no_metadata")
}

func TestMetadata_MissingFile(t *testing.T) {
	srv := newTestServer(t)

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, multipartRequest(t, "", "", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, srv, http.MethodPost, "/api/metadata", strings.NewReader("{}"), "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
