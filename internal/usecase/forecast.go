package usecase

import (
	"context"
	"fmt"
	"sync"
	"time"

	"AdPulse/internal/domain/models"
	domrepo "AdPulse/internal/domain/repository"
	domsvc "AdPulse/internal/domain/service"
	"AdPulse/internal/services/chart"
	"AdPulse/internal/services/period"
	"AdPulse/pkg/logger"
	"AdPulse/pkg/util"
)

// SlotForecast is the slot the forecast summary commits under.
const SlotForecast = "forecast"

// HistoryLoader returns the daily records of every channel in [from, to).
type HistoryLoader interface {
	Records(ctx context.Context, from, to time.Time) ([]models.HistoricalRecord, error)
}

// ForecastResult is everything the forecast panel shows.
type ForecastResult struct {
	SessionID         string                  `json:"session_id"`
	DaysAhead         int                     `json:"days_ahead"`
	GeneratedAt       time.Time               `json:"generated_at"`
	Charts            []models.ChartData      `json:"charts"`
	Stats             *models.ModelStats      `json:"stats,omitempty"`
	FeatureImportance []models.FeatureWeight  `json:"feature_importance,omitempty"`
	Recommendations   []models.Recommendation `json:"recommendations,omitempty"`
	Errors            map[string]string       `json:"errors,omitempty"`
	// Superseded lists slots whose result was dropped for a newer request.
	Superseded []string `json:"superseded,omitempty"`
}

// ForecastUseCase calls the prediction service and assembles forecast charts.
type ForecastUseCase struct {
	predictor   domsvc.Predictor
	stats       *StatsCache
	history     HistoryLoader
	historyDays int
	clock       period.Clock
	loc         *time.Location
	timeout     time.Duration
	metrics     domrepo.Metrics
	log         *logger.Logger
}

func NewForecastUseCase(predictor domsvc.Predictor, stats *StatsCache, history HistoryLoader, historyDays int, clock period.Clock, loc *time.Location, metrics domrepo.Metrics, log *logger.Logger) *ForecastUseCase {
	if historyDays <= 0 {
		historyDays = 90
	}
	if clock == nil {
		clock = period.SystemClock{}
	}
	if loc == nil {
		loc = time.UTC
	}
	if metrics == nil {
		metrics = nopMetrics{}
	}
	if log == nil {
		log = logger.Nop()
	}
	if stats == nil {
		stats = NewStatsCache(predictor, nil, 0, log)
	}
	return &ForecastUseCase{
		predictor: predictor, stats: stats, history: history, historyDays: historyDays,
		clock: clock, loc: loc, timeout: 10 * time.Second, metrics: metrics, log: log,
	}
}

// History loads the payload sent to the prediction service.
func (uc *ForecastUseCase) History(ctx context.Context) ([]models.HistoricalRecord, error) {
	to := util.StartOfDay(uc.clock.Now(), uc.loc).AddDate(0, 0, 1)
	from := to.AddDate(0, 0, -uc.historyDays)
	recs, err := uc.history.Records(ctx, from, to)
	if err != nil {
		return nil, fmt.Errorf("load history: %w", err)
	}
	return recs, nil
}

// Forecast requests predictions for daysAhead days and updates the forecast
// slots of sess. Every remote call is independent: a failure fills Errors and
// leaves the affected slot on its previous chart or a placeholder.
func (uc *ForecastUseCase) Forecast(ctx context.Context, sess *Session, daysAhead int) (*ForecastResult, error) {
	if daysAhead <= 0 {
		return nil, fmt.Errorf("days ahead must be positive, got %d", daysAhead)
	}
	start := time.Now()

	// tickets are taken before any call so that initiation order decides
	summaryTk := sess.Begin(SlotForecast)
	metricsList := chart.ForecastMetrics()
	tickets := make(map[models.Metric]Ticket, len(metricsList))
	for _, m := range metricsList {
		tickets[m] = sess.Begin(chart.ForecastSlot(m))
	}

	ctx, cancel := context.WithTimeout(ctx, uc.timeout)
	defer cancel()

	res := &ForecastResult{
		SessionID:   sess.ID,
		DaysAhead:   daysAhead,
		GeneratedAt: time.Now().UTC(),
		Errors:      map[string]string{},
	}

	history, err := uc.History(ctx)
	if err != nil {
		uc.fail("history", err, res)
		for _, m := range metricsList {
			res.Charts = append(res.Charts, uc.fallbackChart(sess, chart.ForecastSlot(m), err))
		}
		return uc.finish(sess, summaryTk, res, start), nil
	}

	type item struct {
		name string
		val  interface{}
		err  error
	}
	ch := make(chan item, 3)
	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		st, _, err := uc.stats.Get(ctx)
		ch <- item{"stats", st, err}
	}()
	wg.Add(1)
	go func() {
		defer wg.Done()
		v, err := uc.predictor.Predict(ctx, history, daysAhead)
		ch <- item{"predict", v, err}
	}()
	wg.Add(1)
	go func() {
		defer wg.Done()
		v, err := uc.predictor.Recommendations(ctx, history, daysAhead)
		ch <- item{"recommendations", v, err}
	}()

	go func() { wg.Wait(); close(ch) }()

	var (
		preds   []models.PredictionPoint
		predErr error
	)
	for it := range ch {
		if it.err != nil {
			uc.fail(it.name, it.err, res)
			if it.name == "predict" {
				predErr = it.err
			}
			continue
		}
		switch it.name {
		case "stats":
			v := it.val.(models.ModelStats)
			res.Stats = &v
			res.FeatureImportance = chart.SortedImportance(v.FeatureImportance)
		case "predict":
			preds = it.val.(models.PredictionResponse).Predictions
		case "recommendations":
			res.Recommendations = it.val.(models.RecommendationsResponse).Recommendations
		}
	}

	for _, m := range metricsList {
		slot := chart.ForecastSlot(m)
		if predErr != nil {
			res.Charts = append(res.Charts, uc.fallbackChart(sess, slot, predErr))
			continue
		}
		cd, err := chart.ForecastChart(m, history, preds)
		if err != nil {
			uc.fail(slot, err, res)
			res.Charts = append(res.Charts, uc.fallbackChart(sess, slot, err))
			continue
		}
		if !sess.applyChart(tickets[m], cd) {
			uc.metrics.RecordDiscard(slot)
			res.Superseded = append(res.Superseded, slot)
			if cur, ok := sess.Chart(slot); ok {
				cd = cur
			}
		}
		res.Charts = append(res.Charts, cd)
	}

	return uc.finish(sess, summaryTk, res, start), nil
}

// Recommendations asks the service for optimisation advice on its own.
func (uc *ForecastUseCase) Recommendations(ctx context.Context, daysAhead int) (models.RecommendationsResponse, error) {
	ctx, cancel := context.WithTimeout(ctx, uc.timeout)
	defer cancel()
	history, err := uc.History(ctx)
	if err != nil {
		return models.RecommendationsResponse{}, err
	}
	out, err := uc.predictor.Recommendations(ctx, history, daysAhead)
	if err != nil {
		uc.metrics.RecordError(ErrorKind(err))
		return models.RecommendationsResponse{}, err
	}
	return out, nil
}

func (uc *ForecastUseCase) finish(sess *Session, tk Ticket, res *ForecastResult, start time.Time) *ForecastResult {
	if len(res.Errors) == 0 {
		res.Errors = nil
	}
	if !sess.applyForecast(tk, res) {
		uc.metrics.RecordDiscard(SlotForecast)
		if cur := sess.LastForecast(); cur != nil {
			cur.Superseded = append(append([]string(nil), res.Superseded...), SlotForecast)
			return cur
		}
		res.Superseded = append(res.Superseded, SlotForecast)
	}
	uc.metrics.RecordLatency("forecast", time.Since(start).Seconds())
	return res
}

func (uc *ForecastUseCase) fail(name string, err error, res *ForecastResult) {
	res.Errors[name] = err.Error()
	uc.metrics.RecordError(ErrorKind(err))
	uc.log.Warn("forecast call failed",
		logger.String("call", name),
		logger.String("session", res.SessionID),
		logger.Error(err))
}

// fallbackChart keeps the previous chart with the error attached, or
// returns a placeholder.
func (uc *ForecastUseCase) fallbackChart(sess *Session, slot string, cause error) models.ChartData {
	if cd, ok := sess.Chart(slot); ok {
		cd.Error = cause.Error()
		return cd
	}
	return chart.Placeholder(slot, chart.SlotTitle(slot), cause)
}
