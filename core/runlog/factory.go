package runlog

import (
	"fmt"

	"github.com/kilianp07/granthours/core/factory"
)

var storeRegistry = factory.NewRegistry[LogStore]()

func init() {
	_ = storeRegistry.Register("jsonl", func(conf map[string]any) (LogStore, error) {
		var c struct {
			Path string `json:"path"`
		}
		if err := factory.Decode(conf, &c); err != nil {
			return nil, err
		}
		if c.Path == "" {
			return nil, fmt.Errorf("jsonl run log: path required")
		}
		return NewJSONLStore(c.Path)
	})
	_ = storeRegistry.Register("rotating", func(conf map[string]any) (LogStore, error) {
		c := struct {
			Path       string `json:"path"`
			MaxSizeMB  int    `json:"max_size_mb"`
			MaxBackups int    `json:"max_backups"`
			MaxAgeDays int    `json:"max_age_days"`
		}{MaxSizeMB: 10, MaxBackups: 5, MaxAgeDays: 30}
		if err := factory.Decode(conf, &c); err != nil {
			return nil, err
		}
		if c.Path == "" {
			return nil, fmt.Errorf("rotating run log: path required")
		}
		return NewRotatingJSONLStore(c.Path, c.MaxSizeMB, c.MaxBackups, c.MaxAgeDays)
	})
	_ = storeRegistry.Register("sqlite", func(conf map[string]any) (LogStore, error) {
		var c struct {
			Path string `json:"path"`
		}
		if err := factory.Decode(conf, &c); err != nil {
			return nil, err
		}
		if c.Path == "" {
			return nil, fmt.Errorf("sqlite run log: path required")
		}
		return NewSQLiteStore(c.Path)
	})
}

// NewLogStore builds the store described by cfg. An empty type disables the
// run log and yields a nil store.
func NewLogStore(cfg factory.ModuleConfig) (LogStore, error) {
	if cfg.Type == "" {
		return nil, nil
	}
	return storeRegistry.Create(cfg)
}
