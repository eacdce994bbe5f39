package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"setu/internal/shared/config"
	"setu/internal/shared/telemetry"
)

func main() {
	if err := run(); err != nil {
		log.Fatalf("Application error: %v", err)
	}
}

func run() error {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	ctx := context.Background()

	// Initialize telemetry (if enabled)
	if cfg.Telemetry.Enabled {
		shutdownTelemetry, err := telemetry.Init(ctx, telemetry.Config{
			ServiceName:  cfg.Telemetry.ServiceName,
			OTLPEndpoint: cfg.Telemetry.OTLPEndpoint,
			MetricsPort:  cfg.Telemetry.MetricsPort,
		})
		if err != nil {
			return err
		}
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if err := shutdownTelemetry(shutdownCtx); err != nil {
				log.Printf("Error shutting down telemetry: %v", err)
			}
		}()
	}

	deps, err := NewDependencies(ctx, cfg)
	if err != nil {
		return err
	}

	// Headless login when credentials are configured and no pair is stored
	if cfg.Login.Username != "" && cfg.Login.Password != "" && !deps.Auth.Store().LoggedIn(ctx) {
		result, err := deps.Auth.Login(ctx, cfg.Login.Username, cfg.Login.Password)
		if err != nil {
			return err
		}
		log.Printf("Logged in as %s", result.UserID)
	}

	// Start the reminder scheduler (if enabled)
	if deps.Scheduler != nil {
		deps.Scheduler.Start()
	}

	// Initial sync pass in the background
	if cfg.Sync.RunOnStartup {
		go syncAll(ctx, deps)
	}

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Agent shutting down...")

	if deps.Scheduler != nil {
		deps.Scheduler.Shutdown(30 * time.Second)
	}

	log.Println("Agent stopped")
	return nil
}

// syncAll fetches every enabled collection and registers local triggers
// for the medication reminders that came back. Failures are logged per
// collection; one collection failing never blocks the others.
func syncAll(ctx context.Context, deps *Dependencies) {
	if !deps.Auth.Store().LoggedIn(ctx) {
		log.Println("Sync: not logged in, skipping startup sync")
		return
	}
	if !deps.Probe.Online(ctx) {
		log.Println("Sync: offline, skipping startup sync")
		return
	}

	if deps.Documents != nil {
		if err := deps.Documents.List(ctx); err != nil {
			log.Printf("Sync: documents failed: %v", err)
		}
	}
	if deps.Prescriptions != nil {
		if err := deps.Prescriptions.List(ctx); err != nil {
			log.Printf("Sync: prescriptions failed: %v", err)
		}
	}
	if deps.HealthMetrics != nil {
		if err := deps.HealthMetrics.List(ctx); err != nil {
			log.Printf("Sync: health metrics failed: %v", err)
		}
	}
	if deps.Reminders != nil {
		if err := deps.Reminders.Synchronizer().List(ctx); err != nil {
			log.Printf("Sync: medication reminders failed: %v", err)
		} else {
			n := deps.Reminders.ScheduleAll(ctx)
			log.Printf("Sync: scheduled %d medication reminder trigger(s)", n)
		}
	}
}
