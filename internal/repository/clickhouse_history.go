package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"AdPulse/internal/domain/models"
	domrepo "AdPulse/internal/domain/repository"
	pkgch "AdPulse/pkg/clickhouse"
	applogger "AdPulse/pkg/logger"
)

// DefaultHistoryTable holds one row per channel and day.
const DefaultHistoryTable = "ad_metrics_daily"

// insertChunk bounds the rows of one multi-row INSERT.
const insertChunk = 2000

// HistorySchema returns the idempotent DDL for the history table.
func HistorySchema(database, table string) []string {
	return []string{
		fmt.Sprintf("CREATE DATABASE IF NOT EXISTS %s", database),
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s.%s (
    date        Date,
    channel     LowCardinality(String),
    impressions Float64,
    clicks      Float64,
    conversions Float64,
    spend       Float64,
    revenue     Float64,
    ingested_at DateTime DEFAULT now()
) ENGINE = ReplacingMergeTree(ingested_at)
ORDER BY (channel, date)`, database, table),
	}
}

// CHHistoryStore implements HistoryStore backed by ClickHouse. A day written
// twice keeps the latest row.
type CHHistoryStore struct {
	db    *sql.DB
	table string
	l     *applogger.Logger
}

var _ domrepo.HistoryStore = (*CHHistoryStore)(nil)

func NewCHHistoryStore(ch *pkgch.Client, table string, l *applogger.Logger) *CHHistoryStore {
	if table == "" {
		table = DefaultHistoryTable
	}
	if l == nil {
		l = applogger.Nop()
	}
	return &CHHistoryStore{db: ch.DB(), table: table, l: l}
}

func (s *CHHistoryStore) Records(ctx context.Context, ch models.Channel, from, to time.Time) ([]models.HistoricalRecord, error) {
	start := time.Now()
	rows, err := s.db.QueryContext(ctx, recordsQuery(s.table), string(ch), from.Format(models.DateLayout), to.Format(models.DateLayout))
	if err != nil {
		s.l.Error("clickhouse records query error",
			applogger.String("table", s.table),
			applogger.String("channel", string(ch)),
			applogger.Error(err))
		return nil, fmt.Errorf("%w: query history: %v", models.ErrNetworkFailure, err)
	}
	defer rows.Close()

	out := make([]models.HistoricalRecord, 0, 128)
	for rows.Next() {
		var (
			day time.Time
			r   models.HistoricalRecord
		)
		if err := rows.Scan(&day, &r.Impressions, &r.Clicks, &r.Conversions, &r.Spend, &r.Revenue); err != nil {
			return nil, fmt.Errorf("%w: scan history: %v", models.ErrMalformedResponse, err)
		}
		r.Date = day.Format(models.DateLayout)
		r.Channel = ch
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: read history: %v", models.ErrNetworkFailure, err)
	}
	s.l.Debug("clickhouse records",
		applogger.String("channel", string(ch)),
		applogger.Int("rows", len(out)),
		applogger.Duration("elapsed_ms", time.Since(start)))
	return out, nil
}

func (s *CHHistoryStore) StoreBatch(ctx context.Context, records []models.HistoricalRecord) error {
	for start := 0; start < len(records); start += insertChunk {
		end := min(start+insertChunk, len(records))
		q, args := insertStatement(s.table, records[start:end])
		if q == "" {
			continue
		}
		if _, err := s.db.ExecContext(ctx, q, args...); err != nil {
			return fmt.Errorf("insert history: %w", err)
		}
	}
	return nil
}

func (s *CHHistoryStore) Health(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func recordsQuery(table string) string {
	return fmt.Sprintf(`
        SELECT date, sum(impressions), sum(clicks), sum(conversions), sum(spend), sum(revenue)
        FROM %s FINAL
        WHERE channel = ? AND date >= toDate(?) AND date < toDate(?)
        GROUP BY date
        ORDER BY date ASC`, table)
}

// insertStatement builds one multi-row INSERT, skipping rows without a
// channel or a parsable date.
func insertStatement(table string, records []models.HistoricalRecord) (string, []interface{}) {
	values := make([]string, 0, len(records))
	args := make([]interface{}, 0, len(records)*7)
	for _, r := range records {
		day, err := r.Day()
		if err != nil || !r.Channel.Valid() {
			continue
		}
		values = append(values, "(?, ?, ?, ?, ?, ?, ?)")
		args = append(args, day, string(r.Channel), r.Impressions, r.Clicks, r.Conversions, r.Spend, r.Revenue)
	}
	if len(values) == 0 {
		return "", nil
	}
	q := fmt.Sprintf("INSERT INTO %s (date, channel, impressions, clicks, conversions, spend, revenue) VALUES %s",
		table, strings.Join(values, ","))
	return q, args
}
