package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aristath/stock-advisor/internal/domain"
	"github.com/aristath/stock-advisor/internal/evaluation"
	"github.com/aristath/stock-advisor/internal/marketdata"
)

type stubFetcher struct {
	bars     []domain.Bar
	err      error
	resolved string
}

func (f stubFetcher) Fetch(symbol, period string) ([]domain.Bar, domain.Snapshot, string, error) {
	if f.err != nil {
		return nil, domain.Snapshot{}, "", f.err
	}
	return f.bars, domain.NewSnapshot(f.resolved), f.resolved, nil
}

func syntheticBars(n int) []domain.Bar {
	bars := make([]domain.Bar, n)
	start := time.Date(2021, 1, 4, 0, 0, 0, 0, time.UTC)
	for i := range bars {
		bars[i] = domain.Bar{
			Date:  start.AddDate(0, 0, i),
			Close: 100 + 0.1*float64(i) + 3*float64(i%5),
		}
	}
	return bars
}

func newTestServer(fetcher evaluation.Fetcher) *Server {
	service := evaluation.NewService(evaluation.Config{
		Fetcher: fetcher,
		Log:     zerolog.Nop(),
	})
	return New(Config{
		Port:       0,
		Log:        zerolog.Nop(),
		Evaluation: service,
	})
}

func doRequest(s *Server, target string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, target, nil)
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec
}

func TestHealthEndpoint(t *testing.T) {
	s := newTestServer(stubFetcher{})

	rec := doRequest(s, "/health")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestEvaluateRequiresSymbol(t *testing.T) {
	s := newTestServer(stubFetcher{})

	rec := doRequest(s, "/api/evaluate")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestEvaluateRejectsBadHorizon(t *testing.T) {
	s := newTestServer(stubFetcher{})

	rec := doRequest(s, "/api/evaluate?symbol=ASML&horizon=six")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestEvaluateHappyPath(t *testing.T) {
	s := newTestServer(stubFetcher{bars: syntheticBars(500), resolved: "ASML.AS"})

	rec := doRequest(s, "/api/evaluate?symbol=ASML&horizon=1")
	require.Equal(t, http.StatusOK, rec.Code)

	var payload struct {
		Ticker         string  `json:"ticker"`
		TotalScore     float64 `json:"total_score"`
		Recommendation string  `json:"recommendation"`
		Stars          int     `json:"stars"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &payload))

	assert.Equal(t, "ASML.AS", payload.Ticker)
	assert.NotEmpty(t, payload.Recommendation)
	assert.GreaterOrEqual(t, payload.Stars, 1)
	assert.LessOrEqual(t, payload.Stars, 5)
}

func TestEvaluateDataUnavailable(t *testing.T) {
	s := newTestServer(stubFetcher{err: &marketdata.DataUnavailableError{
		Symbol:   "GONE",
		Attempts: 5,
	}})

	rec := doRequest(s, "/api/evaluate?symbol=GONE&horizon=1")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestHeadlinesRequiresSymbol(t *testing.T) {
	s := newTestServer(stubFetcher{})

	rec := doRequest(s, "/api/headlines")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
