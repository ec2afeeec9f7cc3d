package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, 1024, cfg.EigenDenseMaxDim)
	assert.Equal(t, "nelder-mead", cfg.VQEMethod)
	assert.Equal(t, time.Hour, cfg.RunTTL)
	assert.Equal(t, []string{"*"}, cfg.CORSOrigins)
}

func TestLoad_FromEnvironment(t *testing.T) {
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("QALGO_PORT", "9090")
	t.Setenv("EIGEN_DENSE_MAX_DIM", "64")
	t.Setenv("VQE_METHOD", "cma-es")
	t.Setenv("VQE_FUNCTION_TOLERANCE", "1e-6")
	t.Setenv("RUN_TTL_MINUTES", "5")
	t.Setenv("SAMPLER_SEED", "42")
	t.Setenv("CORS_ORIGINS", "http://a.test, http://b.test")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, 9090, cfg.Port)
	assert.Equal(t, 64, cfg.EigenDenseMaxDim)
	assert.Equal(t, "cma-es", cfg.VQEMethod)
	assert.InDelta(t, 1e-6, cfg.VQEFunctionTolerance, 1e-15)
	assert.Equal(t, 5*time.Minute, cfg.RunTTL)
	assert.Equal(t, int64(42), cfg.SamplerSeed)
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.CORSOrigins)
}

func TestLoad_MalformedNumbersFallBack(t *testing.T) {
	t.Setenv("QALGO_PORT", "eighty")
	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 8080, cfg.Port)
}

func TestLoad_RejectsInvalidValues(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{"log level", "LOG_LEVEL", "verbose"},
		{"method", "VQE_METHOD", "bfgs"},
		{"dense dim", "EIGEN_DENSE_MAX_DIM", "1"},
		{"qubits", "MAX_QUBITS", "64"},
		{"schedule", "RUN_CLEANUP_SCHEDULE", "every minute"},
		{"tolerance", "VQE_FUNCTION_TOLERANCE", "-1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.key, tt.value)
			_, err := Load()
			assert.Error(t, err)
		})
	}
}
