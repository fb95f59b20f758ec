package repository

import (
	"strings"
	"testing"
	"time"

	"AdPulse/internal/domain/models"
)

func TestInsertStatementSkipsInvalidRows(t *testing.T) {
	q, args := insertStatement("ad_metrics_daily", []models.HistoricalRecord{
		{Date: "2025-03-01", Channel: models.ChannelOzon, Clicks: 5, Spend: 50},
		{Date: "bad", Channel: models.ChannelOzon},
		{Date: "2025-03-01", Channel: "amazon"},
		{Date: "2025-03-02", Channel: models.ChannelWildberries, Revenue: 10},
	})
	if strings.Count(q, "(?, ?, ?, ?, ?, ?, ?)") != 2 {
		t.Fatalf("expected 2 value rows, got %q", q)
	}
	if len(args) != 14 {
		t.Fatalf("expected 14 args, got %d", len(args))
	}
	if d, ok := args[0].(time.Time); !ok || d.Day() != 1 {
		t.Fatalf("first arg should be the parsed day, got %v", args[0])
	}
	if args[1] != "ozon" || args[8] != "wildberries" {
		t.Fatalf("unexpected channels %v %v", args[1], args[8])
	}
}

func TestInsertStatementEmpty(t *testing.T) {
	q, args := insertStatement("t", []models.HistoricalRecord{{Date: "x"}})
	if q != "" || args != nil {
		t.Fatalf("expected no statement, got %q", q)
	}
}

func TestHistorySchema(t *testing.T) {
	stmts := HistorySchema("adpulse", DefaultHistoryTable)
	if len(stmts) != 2 || !strings.Contains(stmts[1], "adpulse.ad_metrics_daily") {
		t.Fatalf("unexpected schema %v", stmts)
	}
	if !strings.Contains(recordsQuery("t"), "FROM t FINAL") {
		t.Fatalf("records query must read deduplicated rows")
	}
}
