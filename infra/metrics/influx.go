package metrics

import (
	"context"
	"math"
	"net/http"
	"strconv"
	"strings"
	"time"

	influxdb2 "github.com/influxdata/influxdb-client-go/v2"
	"github.com/influxdata/influxdb-client-go/v2/api"
	"github.com/influxdata/influxdb-client-go/v2/api/write"

	coremetrics "github.com/kilianp07/granthours/core/metrics"
	"github.com/kilianp07/granthours/infra/logger"
)

// InfluxSink writes allocation runs to an InfluxDB instance using the official client.
type InfluxSink struct {
	client   influxdb2.Client
	writeAPI api.WriteAPIBlocking
	log      logger.Logger
}

// NewInfluxSink creates a new sink configured for the given InfluxDB endpoint.
func NewInfluxSink(url, token, org, bucket string) *InfluxSink {
	base := strings.TrimSuffix(url, "/api/v2/write")
	client := influxdb2.NewClientWithOptions(base, token,
		influxdb2.DefaultOptions().SetHTTPClient(&http.Client{Timeout: 5 * time.Second}))
	return &InfluxSink{
		client:   client,
		writeAPI: client.WriteAPIBlocking(org, bucket),
		log:      logger.New("influx-sink"),
	}
}

// NewInfluxSinkWithFallback pings the InfluxDB instance and returns a NopSink
// when the health check fails.
func NewInfluxSinkWithFallback(url, token, org, bucket string) coremetrics.MetricsSink {
	sink := NewInfluxSink(url, token, org, bucket)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	health, err := sink.client.Health(ctx)
	if err != nil || health.Status != "pass" {
		if err != nil {
			sink.log.Errorf("influx health check error: %v", err)
		} else {
			sink.log.Errorf("influx health status: %s", health.Status)
		}
		sink.client.Close()
		return coremetrics.NopSink{}
	}
	return sink
}

// RecordAllocation writes one allocation_run point followed by one
// allocation_grant point per grant.
func (s *InfluxSink) RecordAllocation(ev coremetrics.AllocationEvent) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	ts := ev.Time
	if ts.IsZero() {
		ts = time.Now()
	}
	warnings := 0
	for _, n := range ev.Warnings {
		warnings += n
	}
	points := make([]*write.Point, 0, len(ev.Grants)+1)
	points = append(points, write.NewPointWithMeasurement("allocation_run").
		AddTag("run_id", ev.RunID).
		AddTag("mode", ev.Mode).
		AddTag("balanced", strconv.FormatBool(ev.Balanced())).
		AddField("allocated_hours", round2(ev.Allocated)).
		AddField("maximum_hours", round2(ev.Maximum)).
		AddField("repair_rounds", ev.RepairRound).
		AddField("warnings", warnings).
		AddField("duration_ms", round2(float64(ev.Duration)/float64(time.Millisecond))).
		SetTime(ts))
	for _, g := range ev.Grants {
		points = append(points, write.NewPointWithMeasurement("allocation_grant").
			AddTag("run_id", ev.RunID).
			AddTag("grant", g.Grant).
			AddField("allocated_hours", round2(g.Allocated)).
			AddField("maximum_hours", round2(g.Maximum)).
			SetTime(ts))
	}
	for _, p := range points {
		if err := s.writeAPI.WritePoint(ctx, p); err != nil {
			return err
		}
	}
	return nil
}

// Close releases the underlying client.
func (s *InfluxSink) Close() {
	s.client.Close()
}

func round2(f float64) float64 {
	return math.Round(f*100) / 100
}
