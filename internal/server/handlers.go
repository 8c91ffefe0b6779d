package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/aristath/stock-advisor/internal/evaluation"
	"github.com/aristath/stock-advisor/internal/marketdata"
	"github.com/aristath/stock-advisor/internal/scoring"
)

// evaluateResponse wraps the scoring result with its star rating for the
// presentation layer.
type evaluateResponse struct {
	*scoring.Result
	Stars int `json:"stars"`
}

// handleHealth responds to health checks
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleEvaluate runs the scoring pipeline for a symbol.
// GET /api/evaluate?symbol=ASML&horizon=6&thresholds=legacy
func (s *Server) handleEvaluate(w http.ResponseWriter, r *http.Request) {
	symbol := r.URL.Query().Get("symbol")
	if symbol == "" {
		s.writeError(w, http.StatusBadRequest, "symbol parameter is required")
		return
	}

	horizon := 6
	if raw := r.URL.Query().Get("horizon"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			s.writeError(w, http.StatusBadRequest, "horizon must be an integer number of months")
			return
		}
		horizon = parsed
	}

	result, err := s.evaluation.Evaluate(evaluation.Request{
		Symbol:        symbol,
		HorizonMonths: horizon,
		Thresholds:    r.URL.Query().Get("thresholds"),
	})
	if err != nil {
		var unavailable *marketdata.DataUnavailableError
		if errors.As(err, &unavailable) {
			s.writeError(w, http.StatusServiceUnavailable, unavailable.Error())
			return
		}
		s.log.Error().Err(err).Str("symbol", symbol).Msg("Evaluation failed")
		s.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	s.writeJSON(w, http.StatusOK, evaluateResponse{
		Result: result,
		Stars:  scoring.TotalScoreToStars(result.TotalScore),
	})
}

// handleHeadlines returns recent news articles for a symbol, passed through
// unmodified. GET /api/headlines?symbol=ASML
func (s *Server) handleHeadlines(w http.ResponseWriter, r *http.Request) {
	symbol := r.URL.Query().Get("symbol")
	if symbol == "" {
		s.writeError(w, http.StatusBadRequest, "symbol parameter is required")
		return
	}

	headlines, err := s.news.Headlines(symbol)
	if err != nil {
		s.log.Error().Err(err).Str("symbol", symbol).Msg("Headline fetch failed")
		s.writeError(w, http.StatusBadGateway, err.Error())
		return
	}

	s.writeJSON(w, http.StatusOK, map[string]interface{}{
		"symbol":    symbol,
		"headlines": headlines,
		"found":     len(headlines) > 0,
	})
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		s.log.Error().Err(err).Msg("Failed to encode response")
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, message string) {
	s.writeJSON(w, status, map[string]string{"error": message})
}
