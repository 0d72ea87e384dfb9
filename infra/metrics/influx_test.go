package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/influxdata/influxdb-client-go/v2/api/write"

	coremetrics "github.com/kilianp07/granthours/core/metrics"
)

func TestInfluxSink_RecordAllocation(t *testing.T) {
	var (
		mu     sync.Mutex
		bodies []string
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b, _ := io.ReadAll(r.Body)
		mu.Lock()
		bodies = append(bodies, strings.TrimSpace(string(b)))
		mu.Unlock()
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	sink := NewInfluxSink(srv.URL, "token", "org", "bucket")
	defer sink.Close()
	now := time.Now()
	ev := coremetrics.AllocationEvent{
		RunID:       "r1",
		Mode:        "exact",
		Grants:      []coremetrics.GrantUsage{{Grant: "Alpha", Allocated: 80, Maximum: 80}},
		Allocated:   80,
		Maximum:     80,
		RepairRound: 1,
		Converged:   true,
		Duration:    1500 * time.Microsecond,
		Time:        now,
	}
	if err := sink.RecordAllocation(ev); err != nil {
		t.Fatalf("record: %v", err)
	}
	run := write.NewPointWithMeasurement("allocation_run").
		AddTag("run_id", "r1").
		AddTag("mode", "exact").
		AddTag("balanced", "true").
		AddField("allocated_hours", 80.0).
		AddField("maximum_hours", 80.0).
		AddField("repair_rounds", 1).
		AddField("warnings", 0).
		AddField("duration_ms", 1.5).
		SetTime(now)
	grant := write.NewPointWithMeasurement("allocation_grant").
		AddTag("run_id", "r1").
		AddTag("grant", "Alpha").
		AddField("allocated_hours", 80.0).
		AddField("maximum_hours", 80.0).
		SetTime(now)
	exp1 := strings.TrimSpace(write.PointToLineProtocol(run, time.Nanosecond))
	exp2 := strings.TrimSpace(write.PointToLineProtocol(grant, time.Nanosecond))
	mu.Lock()
	defer mu.Unlock()
	if len(bodies) != 2 || bodies[0] != exp1 || bodies[1] != exp2 {
		t.Errorf("unexpected bodies: %#v", bodies)
	}
}

func TestNewInfluxSinkWithFallback(t *testing.T) {
	called := false
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/health" {
			called = true
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
	}))
	defer srv.Close()

	sink := NewInfluxSinkWithFallback(srv.URL+"/api/v2/write", "tok", "org", "bucket")
	if _, ok := sink.(*InfluxSink); ok {
		t.Fatalf("expected NopSink on failing health check")
	}
	if !called {
		t.Fatalf("health endpoint not called")
	}
}
