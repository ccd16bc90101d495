package db

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestHealthResponse_JSONShape(t *testing.T) {
	resp := healthResponse{
		Status: "ok",
		Pool: &PoolStats{
			TotalConns:    4,
			IdleConns:     3,
			AcquiredConns: 1,
			MaxConns:      10,
		},
	}

	raw, err := json.Marshal(resp)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	body := string(raw)

	if !strings.Contains(body, `"status":"ok"`) {
		t.Errorf("missing status field: %s", body)
	}
	if strings.Contains(body, `"error"`) {
		t.Errorf("error field should be omitted when empty: %s", body)
	}
	for _, field := range []string{`"total_conns":4`, `"idle_conns":3`, `"acquired_conns":1`, `"max_conns":10`} {
		if !strings.Contains(body, field) {
			t.Errorf("missing pool field %s in %s", field, body)
		}
	}
}

func TestHealthResponse_UnhealthyIncludesError(t *testing.T) {
	resp := healthResponse{
		Status: "unhealthy",
		Error:  "connection refused",
		Pool:   &PoolStats{MaxConns: 10},
	}

	raw, err := json.Marshal(resp)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	body := string(raw)

	if !strings.Contains(body, `"status":"unhealthy"`) {
		t.Errorf("missing status field: %s", body)
	}
	if !strings.Contains(body, `"error":"connection refused"`) {
		t.Errorf("missing error field: %s", body)
	}
}
