//go:build !gcloud

package reconcilerecorder

import (
	"context"
	"testing"
	"time"

	"github.com/KasumiMercury/primind-pollination-agent/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRecorderFallsBackToNoop(t *testing.T) {
	tests := []struct {
		name string
		cfg  *Config
	}{
		{name: "disabled", cfg: &Config{Disabled: true, InfluxDBToken: "t", InfluxDBOrg: "o"}},
		{name: "missing token", cfg: &Config{InfluxDBOrg: "o"}},
		{name: "missing org", cfg: &Config{InfluxDBToken: "t"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, err := NewRecorder(context.Background(), tt.cfg)
			require.NoError(t, err)
			assert.IsType(t, &noopRecorder{}, rec)
			assert.NoError(t, rec.RecordPass(context.Background(), domain.ReconcilePassRecord{}))
			assert.NoError(t, rec.Close())
		})
	}
}

func TestPassPoint(t *testing.T) {
	started := time.Date(2025, 3, 10, 5, 0, 0, 0, time.UTC)
	p := passPoint(domain.ReconcilePassRecord{
		StartedAt: started,
		Duration:  1500 * time.Millisecond,
		Outcome:   "success",
		Fetched:   4,
		Scheduled: 3,
		Stale:     1,
	})

	assert.Equal(t, passMeasurement, p.Name())
	assert.Equal(t, started, p.Time())

	tags := map[string]string{}
	for _, tag := range p.TagList() {
		tags[tag.Key] = tag.Value
	}
	assert.Equal(t, "default", tags["run_id"])
	assert.Equal(t, "success", tags["outcome"])

	fields := map[string]any{}
	for _, f := range p.FieldList() {
		fields[f.Key] = f.Value
	}
	assert.EqualValues(t, 3, fields["scheduled"])
	assert.EqualValues(t, 1500, fields["duration_ms"])
}
