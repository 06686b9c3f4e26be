package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hetracker/internal/errors"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("DATASET_SOURCE", "")
	t.Setenv("COVID_NATIONAL_EXCLUDED_STATES", "")
	t.Setenv("MAX_CONCURRENT_PROVIDERS", "")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, SourceFiles, cfg.Data.Source)
	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, 4, cfg.Pipeline.MaxConcurrentProviders)
	assert.Empty(t, cfg.Pipeline.NationalExcludedStates)
	assert.Equal(t, 30*time.Minute, cfg.Database.ConnMaxLifetime)
}

func TestLoadPipelineSettings(t *testing.T) {
	t.Setenv("DATASET_SOURCE", "memory")
	t.Setenv("COVID_NATIONAL_EXCLUDED_STATES", "48, 36")
	t.Setenv("MAX_CONCURRENT_PROVIDERS", "2")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, []string{"48", "36"}, cfg.Pipeline.NationalExcludedStates)
	assert.Equal(t, 2, cfg.Pipeline.MaxConcurrentProviders)
}

func TestLoadRejectsInvalidConfig(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{"sql without url", map[string]string{"DATASET_SOURCE": "sql", "DATABASE_URL": ""}},
		{"unknown source", map[string]string{"DATASET_SOURCE": "s3"}},
		{"bad concurrency", map[string]string{"DATASET_SOURCE": "memory", "MAX_CONCURRENT_PROVIDERS": "0"}},
		{"county in exclusion list", map[string]string{"DATASET_SOURCE": "memory", "COVID_NATIONAL_EXCLUDED_STATES": "37001"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := Load()
			require.Error(t, err)
			assert.Equal(t, errors.CodeConfigInvalid, errors.GetCode(err))
		})
	}
}
