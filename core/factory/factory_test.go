package factory

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type store struct {
	Path   string `json:"path"`
	MaxAge int    `json:"max_age_days"`
}

func TestRegistry(t *testing.T) {
	r := NewRegistry[*store]()
	require.NoError(t, r.Register("file", func(conf map[string]any) (*store, error) {
		var s store
		if err := Decode(conf, &s); err != nil {
			return nil, err
		}
		return &s, nil
	}))
	require.NoError(t, r.Register("mem", func(map[string]any) (*store, error) { return &store{}, nil }))
	assert.Error(t, r.Register("file", func(map[string]any) (*store, error) { return nil, nil }))
	assert.Error(t, r.Register("nil", nil))

	assert.Equal(t, []string{"file", "mem"}, r.Names())
	assert.True(t, r.Has("mem"))
	assert.False(t, r.Has("nil"))

	s, err := r.Create(ModuleConfig{Type: "file", Conf: map[string]any{"path": "runs.jsonl", "max_age_days": 3.0}})
	require.NoError(t, err)
	assert.Equal(t, "runs.jsonl", s.Path)
	assert.Equal(t, 3, s.MaxAge)

	_, err = r.Create(ModuleConfig{Type: "missing"})
	assert.Error(t, err)
}
