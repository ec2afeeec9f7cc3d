// Package config provides configuration management functionality.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"

	"github.com/aristath/qalgo/internal/modules/vqe"
	"github.com/aristath/qalgo/internal/utils"
)

// Config holds application configuration
type Config struct {
	LogLevel    string
	LogPretty   bool
	Port        int
	DevMode     bool
	CORSOrigins []string

	EigenDenseMaxDim int // largest Hilbert-space dimension solved with the dense eigensolver

	VQEMethod            string
	VQEMaxEvaluations    int
	VQEFunctionTolerance float64

	MaxQubits int

	RunTTL                  time.Duration
	RunCleanupSchedule      string
	ResourceMonitorSchedule string
	MemoryWarnPercent       float64

	SamplerSeed int64
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if it exists
	_ = godotenv.Load()

	cfg := &Config{
		LogLevel:                getEnv("LOG_LEVEL", "info"),
		LogPretty:               getEnvAsBool("LOG_PRETTY", true),
		Port:                    getEnvAsInt("QALGO_PORT", 8080),
		DevMode:                 getEnvAsBool("DEV_MODE", false),
		CORSOrigins:             utils.ParseCSV(getEnv("CORS_ORIGINS", "*")),
		EigenDenseMaxDim:        getEnvAsInt("EIGEN_DENSE_MAX_DIM", 1024),
		VQEMethod:               getEnv("VQE_METHOD", vqe.MethodNelderMead),
		VQEMaxEvaluations:       getEnvAsInt("VQE_MAX_EVALUATIONS", 2000),
		VQEFunctionTolerance:    getEnvAsFloat("VQE_FUNCTION_TOLERANCE", 1e-8),
		MaxQubits:               getEnvAsInt("MAX_QUBITS", 16),
		RunTTL:                  time.Duration(getEnvAsInt("RUN_TTL_MINUTES", 60)) * time.Minute,
		RunCleanupSchedule:      getEnv("RUN_CLEANUP_SCHEDULE", "0 */5 * * * *"),
		ResourceMonitorSchedule: getEnv("RESOURCE_MONITOR_SCHEDULE", "*/30 * * * * *"),
		MemoryWarnPercent:       getEnvAsFloat("MEMORY_WARN_PERCENT", 90),
		SamplerSeed:             int64(getEnvAsInt("SAMPLER_SEED", 0)),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate rejects values the services cannot run with
func (c *Config) Validate() error {
	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid LOG_LEVEL %q", c.LogLevel)
	}
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("invalid QALGO_PORT %d", c.Port)
	}
	if c.EigenDenseMaxDim < 2 {
		return fmt.Errorf("EIGEN_DENSE_MAX_DIM must be at least 2, got %d", c.EigenDenseMaxDim)
	}

	known := false
	for _, m := range vqe.Methods() {
		if m == c.VQEMethod {
			known = true
		}
	}
	if !known {
		return fmt.Errorf("unknown VQE_METHOD %q (available: %v)", c.VQEMethod, vqe.Methods())
	}
	if c.VQEMaxEvaluations < 1 {
		return fmt.Errorf("VQE_MAX_EVALUATIONS must be positive, got %d", c.VQEMaxEvaluations)
	}
	if c.VQEFunctionTolerance <= 0 {
		return fmt.Errorf("VQE_FUNCTION_TOLERANCE must be positive, got %g", c.VQEFunctionTolerance)
	}
	if c.MaxQubits < 1 || c.MaxQubits > 30 {
		return fmt.Errorf("MAX_QUBITS must be in [1, 30], got %d", c.MaxQubits)
	}
	if c.RunTTL <= 0 {
		return fmt.Errorf("RUN_TTL_MINUTES must be positive")
	}
	if c.MemoryWarnPercent <= 0 || c.MemoryWarnPercent > 100 {
		return fmt.Errorf("MEMORY_WARN_PERCENT must be in (0, 100], got %g", c.MemoryWarnPercent)
	}

	parser := cron.NewParser(cron.Second | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor)
	for name, spec := range map[string]string{
		"RUN_CLEANUP_SCHEDULE":      c.RunCleanupSchedule,
		"RESOURCE_MONITOR_SCHEDULE": c.ResourceMonitorSchedule,
	} {
		if _, err := parser.Parse(spec); err != nil {
			return fmt.Errorf("invalid %s %q: %w", name, spec, err)
		}
	}
	return nil
}

// Helper functions
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}
