package clickhouse

import (
	"strings"
	"testing"
	"time"
)

func TestBuildDSN(t *testing.T) {
	dsn := buildDSN(ClientConfig{
		Host: "ch", Port: 9000, Database: "adpulse", User: "u", Password: "p@ss",
		DialTimeout: 2 * time.Second, AsyncInsert: true, WaitForAsync: true,
	})
	for _, want := range []string{"clickhouse://u:p%40ss@ch:9000/adpulse", "dial_timeout=2s", "async_insert=1", "wait_for_async_insert=1"} {
		if !strings.Contains(dsn, want) {
			t.Fatalf("dsn %q missing %q", dsn, want)
		}
	}

	httpDSN := buildDSN(ClientConfig{Host: "ch", Port: 8123, Database: "d", User: "default", UseHTTP: true})
	if !strings.HasPrefix(httpDSN, "http://") {
		t.Fatalf("expected http scheme, got %q", httpDSN)
	}
}

func TestNewClientRequiresHost(t *testing.T) {
	if _, err := NewClient(); err == nil {
		t.Fatalf("expected error without host")
	}
}
