package queue

import (
	"encoding/json"
	"testing"
)

func TestParsePayload(t *testing.T) {
	type req struct {
		Reason string `json:"reason"`
	}
	got, err := ParsePayload[req](json.RawMessage(`{"reason":"manual"}`))
	if err != nil || got.Reason != "manual" {
		t.Fatalf("unexpected %+v %v", got, err)
	}

	empty, err := ParsePayload[req](nil)
	if err != nil || empty.Reason != "" {
		t.Fatalf("empty payload should decode to zero value")
	}

	if _, err := ParsePayload[req](json.RawMessage(`[`)); err == nil {
		t.Fatalf("expected error for invalid json")
	}
}
