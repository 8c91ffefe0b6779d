package evaluation

import (
	"fmt"
	"math"

	"github.com/rs/zerolog"

	"github.com/aristath/stock-advisor/internal/domain"
	"github.com/aristath/stock-advisor/internal/features"
	"github.com/aristath/stock-advisor/internal/indicators"
	"github.com/aristath/stock-advisor/internal/model"
	"github.com/aristath/stock-advisor/internal/scoring"
)

// BaselineDailyVolatility is the assumed market-wide daily volatility used
// to dampen forecasts on high-volatility days. Forecasts are divided by
// max(volatility/baseline, 1): dampened above baseline, never amplified
// below it.
const BaselineDailyVolatility = 0.02

// ForecastClip bounds the normalized forecast to ±50%.
const ForecastClip = 0.5

// Fetcher acquires the (series, snapshot, resolved symbol) triple.
type Fetcher interface {
	Fetch(symbol, period string) ([]domain.Bar, domain.Snapshot, string, error)
}

// SentimentSource produces a sentiment value in [0,10] plus a description.
// Implementations degrade to a neutral default internally and never fail;
// absence of a source (nil) is the only "no sentiment" state.
type SentimentSource interface {
	Score(symbol string) (float64, string)
}

// Request selects what to evaluate.
type Request struct {
	Symbol        string
	HorizonMonths int
	Thresholds    string // "" = service default
}

// Service runs the full scoring and prediction pipeline for one symbol:
// acquisition, indicator derivation, feature building, model training,
// volatility-normalized prediction, and multi-factor scoring.
type Service struct {
	fetcher    Fetcher
	sentiment  SentimentSource // nil when sentiment is disabled
	period     string
	thresholds string
	log        zerolog.Logger
}

// Config holds service dependencies and defaults.
type Config struct {
	Fetcher    Fetcher
	Sentiment  SentimentSource
	Period     string // lookback period, e.g. "5y"
	Thresholds string // default recommendation threshold set
	Log        zerolog.Logger
}

// NewService creates an evaluation service.
func NewService(cfg Config) *Service {
	period := cfg.Period
	if period == "" {
		period = "5y"
	}
	return &Service{
		fetcher:    cfg.Fetcher,
		sentiment:  cfg.Sentiment,
		period:     period,
		thresholds: cfg.Thresholds,
		log:        cfg.Log.With().Str("component", "evaluation").Logger(),
	}
}

// Evaluate runs the pipeline for one symbol. Any unexpected panic is caught
// and reported as a symbol-scoped error so a single bad evaluation cannot
// take down the process or corrupt shared state.
func (s *Service) Evaluate(req Request) (result *scoring.Result, err error) {
	defer func() {
		if r := recover(); r != nil {
			s.log.Error().Interface("panic", r).Str("symbol", req.Symbol).Msg("Evaluation panicked")
			result = nil
			err = fmt.Errorf("evaluation failed for %s: %v", req.Symbol, r)
		}
	}()

	if !domain.ValidHorizon(req.HorizonMonths) {
		return nil, fmt.Errorf("unsupported horizon %d, must be one of %v months", req.HorizonMonths, domain.Horizons)
	}

	bars, snapshot, resolved, err := s.fetcher.Fetch(req.Symbol, s.period)
	if err != nil {
		return nil, err
	}

	frame := indicators.Derive(bars)

	var sentimentValue *float64
	sentimentNote := ""
	if s.sentiment != nil {
		value, description := s.sentiment.Score(resolved)
		sentimentValue = &value
		sentimentNote = description
	}

	matrix, err := features.Build(frame, snapshot, sentimentValue, req.HorizonMonths)
	if err != nil {
		return nil, fmt.Errorf("feature construction failed for %s: %w", resolved, err)
	}
	if matrix.LowConfidence {
		s.log.Warn().
			Str("symbol", resolved).
			Int("rows", matrix.Len()).
			Msg("Very few usable feature rows, prediction reliability is low")
	}

	trained, fitQuality := model.Train(matrix)

	latest, latestVol := matrix.Latest()
	rawForecast := trained.Predict(latest)
	predictedReturn, predictionNote := normalizeForecast(rawForecast, latestVol)

	scorer := scoring.NewScorer(scoring.ThresholdsByName(s.pickThresholds(req)), s.log)
	result = scorer.Score(scoring.Input{
		Ticker:          resolved,
		Snapshot:        snapshot,
		PredictedReturn: predictedReturn,
		PredictionNote:  predictionNote,
		FitQuality:      fitQuality,
		Sentiment:       sentimentValue,
		SentimentNote:   sentimentNote,
	})

	s.log.Info().
		Str("symbol", resolved).
		Int("horizon_months", req.HorizonMonths).
		Float64("predicted_return", predictedReturn).
		Float64("fit_quality", fitQuality).
		Float64("total_score", result.TotalScore).
		Str("recommendation", result.Recommendation).
		Msg("Evaluation complete")

	return result, nil
}

func (s *Service) pickThresholds(req Request) string {
	if req.Thresholds != "" {
		return req.Thresholds
	}
	return s.thresholds
}

// normalizeForecast dampens a raw forward-return forecast on days whose
// rolling volatility exceeds the baseline, then clips it to ±ForecastClip.
// The note records when a clip bound was hit.
func normalizeForecast(raw, volatility float64) (float64, string) {
	damping := math.Max(volatility/BaselineDailyVolatility, 1.0)
	normalized := raw / damping

	note := ""
	if normalized > ForecastClip {
		normalized = ForecastClip
		note = "forecast clipped at upper bound"
	} else if normalized < -ForecastClip {
		normalized = -ForecastClip
		note = "forecast clipped at lower bound"
	}

	return normalized, note
}
