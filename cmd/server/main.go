// Package main is the entry point for the qalgo HTTP service. It exposes
// exact ground-state energies, Hamiltonian expectation values, background VQE
// runs with live traces, and Deutsch-Jozsa classification.
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aristath/qalgo/internal/config"
	"github.com/aristath/qalgo/internal/events"
	"github.com/aristath/qalgo/internal/modules/ansatz"
	"github.com/aristath/qalgo/internal/modules/circuit"
	"github.com/aristath/qalgo/internal/modules/eigensolver"
	"github.com/aristath/qalgo/internal/modules/vqe"
	"github.com/aristath/qalgo/internal/reliability"
	"github.com/aristath/qalgo/internal/runs"
	"github.com/aristath/qalgo/internal/scheduler"
	"github.com/aristath/qalgo/internal/server"
	"github.com/aristath/qalgo/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		// Use fallback logger if config fails
		fallbackLog := logger.New(logger.Config{
			Level:  "info",
			Pretty: true,
		})
		fallbackLog.Fatal().Err(err).Msg("Failed to load configuration")
	}

	log := logger.New(logger.Config{
		Level:  cfg.LogLevel,
		Pretty: cfg.LogPretty,
	})
	logger.SetGlobalLogger(log)

	log.Info().Msg("Starting qalgo")

	eventManager := events.NewManager(events.NewBus(), log)
	solver := eigensolver.NewSolver(eigensolver.Settings{DenseMaxDim: cfg.EigenDenseMaxDim}, log)
	guard := reliability.NewMemoryGuard(cfg.MaxQubits, log)
	ansatze := ansatz.NewRegistry()

	runService := runs.NewService(runs.ServiceConfig{
		Registry: runs.NewRegistry(),
		Ansatze:  ansatze,
		Solver:   solver,
		Guard:    guard,
		Events:   eventManager,
		Optimizer: vqe.OptimizerSettings{
			MaxEvaluations:    cfg.VQEMaxEvaluations,
			FunctionTolerance: cfg.VQEFunctionTolerance,
		},
		DefaultMethod: cfg.VQEMethod,
		Log:           log,
	})

	seed := cfg.SamplerSeed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	sched := scheduler.New(log)
	if err := sched.AddJob(cfg.RunCleanupSchedule, runs.NewEvictionJob(runService.Registry(), cfg.RunTTL, eventManager, log)); err != nil {
		log.Fatal().Err(err).Msg("Failed to register run eviction job")
	}
	if err := sched.AddJob(cfg.ResourceMonitorSchedule, reliability.NewResourceMonitorJob(cfg.MemoryWarnPercent, log)); err != nil {
		log.Fatal().Err(err).Msg("Failed to register resource monitor job")
	}
	sched.Start()

	srv := server.New(server.Config{
		Log:         log,
		Port:        cfg.Port,
		DevMode:     cfg.DevMode,
		CORSOrigins: cfg.CORSOrigins,
		Solver:      solver,
		Guard:       guard,
		Ansatze:     ansatze,
		Runs:        runService,
		Events:      eventManager,
		Sampler:     circuit.NewSampler(seed),
	})

	go func() {
		if err := srv.Start(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	log.Info().
		Int("port", cfg.Port).
		Int("dense_max_dim", solver.DenseMaxDim()).
		Int("max_qubits", guard.MaxQubits()).
		Msg("Server started successfully")

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	sched.Stop()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}

	// In-flight runs are CPU-bound and finish on their own.
	done := make(chan struct{})
	go func() {
		runService.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-shutdownCtx.Done():
		log.Warn().Msg("Abandoning unfinished VQE runs")
	}

	log.Info().Msg("Server stopped")
}
