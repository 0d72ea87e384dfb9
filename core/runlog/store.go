package runlog

import (
	"context"
	"time"
)

// RunRecord captures one completed allocation run.
type RunRecord struct {
	ID           string         `json:"id"`
	Timestamp    time.Time      `json:"timestamp"`
	Mode         string         `json:"mode"`
	Seed         uint64         `json:"seed"`
	Allocated    float64        `json:"allocated"`
	Maximum      float64        `json:"maximum"`
	RepairRounds int            `json:"repair_rounds"`
	Converged    bool           `json:"converged"`
	Summary      []GrantSummary `json:"summary"`
	Warnings     []string       `json:"warnings,omitempty"`
}

// GrantSummary is the per-grant outcome stored with a run.
type GrantSummary struct {
	Grant     string  `json:"grant"`
	Allocated float64 `json:"allocated"`
	Maximum   float64 `json:"maximum"`
}

// LogQuery defines filters for retrieving records. Zero values match all.
type LogQuery struct {
	Start time.Time
	End   time.Time
	Mode  string
	Grant string
}

// Match reports whether r satisfies q.
func (q LogQuery) Match(r RunRecord) bool {
	if !q.Start.IsZero() && r.Timestamp.Before(q.Start) {
		return false
	}
	if !q.End.IsZero() && r.Timestamp.After(q.End) {
		return false
	}
	if q.Mode != "" && r.Mode != q.Mode {
		return false
	}
	if q.Grant != "" {
		for _, g := range r.Summary {
			if g.Grant == q.Grant {
				return true
			}
		}
		return false
	}
	return true
}

// LogStore persists RunRecords and supports querying. Stores are safe for
// concurrent use.
type LogStore interface {
	Append(ctx context.Context, rec RunRecord) error
	Query(ctx context.Context, q LogQuery) ([]RunRecord, error)
	Close() error
}
