// Package planner runs one allocation request end to end: it builds a fresh
// engine, aggregates the result into a report and hands the outcome to the
// metrics sink, the run log and the error monitor.
package planner

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/kilianp07/granthours/core/allocation"
	"github.com/kilianp07/granthours/core/logger"
	"github.com/kilianp07/granthours/core/metrics"
	"github.com/kilianp07/granthours/core/model"
	"github.com/kilianp07/granthours/core/monitoring"
	"github.com/kilianp07/granthours/core/report"
	"github.com/kilianp07/granthours/core/runlog"
)

// ErrRunLogDisabled is returned by Runs when no run log is configured.
var ErrRunLogDisabled = errors.New("run log disabled")

// Request is one allocation request.
type Request struct {
	Grants []model.GrantRequest `json:"grants"`
	// Seed makes the run reproducible. Nil picks a random seed.
	Seed *uint64 `json:"seed,omitempty"`
	// ScaleTo80 rescales the grants to a total of 80 hours first.
	ScaleTo80 bool `json:"scale_to_80,omitempty"`
}

// Response is the outcome of a successful request.
type Response struct {
	RunID    string             `json:"run_id"`
	Seed     uint64             `json:"seed"`
	Report   report.Report      `json:"report"`
	Result   *allocation.Result `json:"-"`
	Duration time.Duration      `json:"-"`
}

// Planner is safe for concurrent use. Each call gets its own engine.
type Planner struct {
	cfg     allocation.Config
	sink    metrics.MetricsSink
	store   runlog.LogStore
	log     logger.Logger
	monitor monitoring.Monitor
	now     func() time.Time
	newID   func() string
}

// Option configures a Planner.
type Option func(*Planner)

// WithSink sets the metrics sink.
func WithSink(s metrics.MetricsSink) Option {
	return func(p *Planner) {
		if s != nil {
			p.sink = s
		}
	}
}

// WithRunLog sets the store receiving one record per run.
func WithRunLog(s runlog.LogStore) Option { return func(p *Planner) { p.store = s } }

// WithLogger sets the logger.
func WithLogger(l logger.Logger) Option { return func(p *Planner) { p.log = logger.OrNop(l) } }

// WithMonitor sets the monitor. The global monitor is used otherwise.
func WithMonitor(m monitoring.Monitor) Option {
	return func(p *Planner) {
		if m != nil {
			p.monitor = m
		}
	}
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option { return func(p *Planner) { p.now = now } }

// New returns a Planner using cfg for every engine it creates.
func New(cfg allocation.Config, opts ...Option) *Planner {
	p := &Planner{
		cfg:     cfg,
		sink:    metrics.NopSink{},
		log:     logger.Nop{},
		monitor: monitoring.Current(),
		now:     time.Now,
		newID:   func() string { return uuid.NewString() },
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Plan runs the request. Validation failures are returned as
// *allocation.ValidationError; heuristic warnings are part of the report.
// Sink, run log and monitor failures are logged and never fail the call.
func (p *Planner) Plan(ctx context.Context, req Request) (*Response, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	grants := req.Grants
	if req.ScaleTo80 {
		grants = allocation.ScaleTo(grants, model.PeriodCapacity)
	}
	cfg := p.cfg
	if req.Seed != nil {
		seed := *req.Seed
		cfg.Seed = &seed
	}
	eng := allocation.NewEngine(cfg, allocation.WithLogger(p.log))

	start := p.now()
	res, err := eng.Allocate(grants)
	elapsed := p.now().Sub(start)
	if err != nil {
		p.reject(err)
		return nil, err
	}

	resp := &Response{
		RunID:    p.newID(),
		Seed:     res.Seed,
		Report:   report.Build(res),
		Result:   res,
		Duration: elapsed,
	}
	p.log.Infof("run %s: %s mode, %.2f/%.2f hours, %d warnings",
		resp.RunID, res.Mode, resp.Report.Totals.Allocated, resp.Report.Totals.Maximum, len(res.Warnings))

	p.record(resp, start)
	p.persist(ctx, resp, start)
	if res.Mode == allocation.ModeExact && !res.Repair.Converged {
		p.monitor.CaptureMessage("allocation repair did not converge", map[string]string{
			"run_id": resp.RunID,
			"seed":   fmt.Sprint(res.Seed),
			"rounds": fmt.Sprint(res.Repair.Rounds),
		})
	}
	return resp, nil
}

// Runs queries the run log.
func (p *Planner) Runs(ctx context.Context, q runlog.LogQuery) ([]runlog.RunRecord, error) {
	if p.store == nil {
		return nil, ErrRunLogDisabled
	}
	return p.store.Query(ctx, q)
}

func (p *Planner) reject(err error) {
	reason := RejectionReason(err)
	p.log.Warnf("allocation rejected (%s): %v", reason, err)
	if rec, ok := p.sink.(metrics.RejectionRecorder); ok {
		if rerr := rec.RecordRejection(reason); rerr != nil {
			p.log.Errorf("record rejection: %v", rerr)
		}
	}
}

func (p *Planner) record(resp *Response, at time.Time) {
	res := resp.Result
	ev := metrics.AllocationEvent{
		RunID:       resp.RunID,
		Mode:        string(res.Mode),
		Allocated:   resp.Report.Totals.Allocated,
		Maximum:     resp.Report.Totals.Maximum,
		RepairRound: res.Repair.Rounds,
		Converged:   res.Repair.Converged,
		Warnings:    map[string]int{},
		Duration:    resp.Duration,
		Time:        at,
	}
	for _, row := range resp.Report.Summary {
		ev.Grants = append(ev.Grants, metrics.GrantUsage{Grant: row.Grant, Allocated: row.TotalHours, Maximum: row.MaximumHours})
	}
	for _, w := range res.Warnings {
		ev.Warnings[string(w.Kind)]++
	}
	if err := p.sink.RecordAllocation(ev); err != nil {
		p.log.Errorf("record allocation metrics: %v", err)
	}
}

func (p *Planner) persist(ctx context.Context, resp *Response, at time.Time) {
	if p.store == nil {
		return
	}
	res := resp.Result
	rec := runlog.RunRecord{
		ID:           resp.RunID,
		Timestamp:    at,
		Mode:         string(res.Mode),
		Seed:         res.Seed,
		Allocated:    resp.Report.Totals.Allocated,
		Maximum:      resp.Report.Totals.Maximum,
		RepairRounds: res.Repair.Rounds,
		Converged:    res.Repair.Converged,
	}
	for _, row := range resp.Report.Summary {
		rec.Summary = append(rec.Summary, runlog.GrantSummary{Grant: row.Grant, Allocated: row.TotalHours, Maximum: row.MaximumHours})
	}
	for _, w := range res.Warnings {
		rec.Warnings = append(rec.Warnings, w.String())
	}
	if err := p.store.Append(ctx, rec); err != nil {
		p.log.Errorf("append run log: %v", err)
		p.monitor.CaptureException(err, map[string]string{"component": "runlog", "run_id": resp.RunID})
	}
}

// RejectionReason names the validation failure behind err.
func RejectionReason(err error) string {
	switch {
	case errors.Is(err, model.ErrNoGrants):
		return "no_grants"
	case errors.Is(err, model.ErrEmptyName):
		return "empty_name"
	case errors.Is(err, model.ErrNegativeHours):
		return "negative_hours"
	case errors.Is(err, model.ErrNonNumericHours):
		return "non_numeric_hours"
	default:
		return "other"
	}
}
