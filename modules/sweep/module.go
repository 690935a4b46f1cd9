package sweep

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/example/taskbuddy/modules/task"
	"github.com/go-monolith/mono"
	"github.com/go-monolith/mono/pkg/helper"
)

// SweepModule owns the periodic task status sweep.
type SweepModule struct {
	config   Config
	taskPort task.TaskPort
	sweeper  *Sweeper
}

// Compile-time interface checks.
var _ mono.Module = (*SweepModule)(nil)
var _ mono.ServiceProviderModule = (*SweepModule)(nil)
var _ mono.DependentModule = (*SweepModule)(nil)
var _ mono.HealthCheckableModule = (*SweepModule)(nil)

// NewModule creates a new SweepModule, reading its configuration from the
// environment.
func NewModule() *SweepModule {
	cfg := DefaultConfig()
	if v := os.Getenv("SWEEP_INTERVAL"); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			cfg.Interval = d
		} else {
			log.Printf("[sweep] Warning: invalid SWEEP_INTERVAL %q, using %v", v, cfg.Interval)
		}
	}
	if v := os.Getenv("SWEEP_PAGE_SIZE"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.PageSize = n
		} else {
			log.Printf("[sweep] Warning: invalid SWEEP_PAGE_SIZE %q, using %d", v, cfg.PageSize)
		}
	}
	return &SweepModule{config: cfg}
}

// Name returns the module name.
func (m *SweepModule) Name() string {
	return "sweep"
}

// Dependencies returns the list of module dependencies.
func (m *SweepModule) Dependencies() []string {
	return []string{"task"}
}

// SetDependencyServiceContainer receives service containers from dependencies.
func (m *SweepModule) SetDependencyServiceContainer(dependency string, container mono.ServiceContainer) {
	if dependency == "task" {
		m.taskPort = task.NewTaskAdapter(container)
	}
}

// RegisterServices registers request-reply services in the service container.
func (m *SweepModule) RegisterServices(container mono.ServiceContainer) error {
	if err := helper.RegisterTypedRequestReplyService(container, "run-now", json.Unmarshal, json.Marshal, m.runNow); err != nil {
		return fmt.Errorf("failed to register run-now service: %w", err)
	}
	log.Printf("[sweep] Registered services: run-now")
	return nil
}

// RunNowRequest triggers an immediate sweep pass.
type RunNowRequest struct{}

// runNow handles the run-now service request.
func (m *SweepModule) runNow(ctx context.Context, _ RunNowRequest, _ *mono.Msg) (Result, error) {
	if m.sweeper == nil {
		return Result{}, fmt.Errorf("sweeper not started")
	}
	return m.sweeper.RunOnce(ctx)
}

// Start launches the sweep loop.
func (m *SweepModule) Start(ctx context.Context) error {
	if m.taskPort == nil {
		return fmt.Errorf("taskPort dependency not set")
	}

	m.sweeper = NewSweeper(m.config, m.taskPort)
	if err := m.sweeper.Start(context.WithoutCancel(ctx)); err != nil {
		return err
	}

	log.Printf("[sweep] Module started")
	return nil
}

// Stop stops the sweep loop.
func (m *SweepModule) Stop(ctx context.Context) error {
	if m.sweeper != nil {
		if err := m.sweeper.Stop(ctx); err != nil {
			return err
		}
	}
	log.Println("[sweep] Module stopped")
	return nil
}

// Health returns the health status of the module.
func (m *SweepModule) Health(_ context.Context) mono.HealthStatus {
	if m.sweeper == nil || !m.sweeper.IsRunning() {
		return mono.HealthStatus{
			Healthy: false,
			Message: "sweeper not running",
		}
	}

	lastRun, lastRes := m.sweeper.LastRun()
	details := map[string]any{
		"interval":  m.config.Interval.String(),
		"page_size": m.config.PageSize,
	}
	if !lastRun.IsZero() {
		details["last_run"] = lastRun.Format(time.RFC3339)
		details["last_scanned"] = lastRes.Scanned
		details["last_changed"] = lastRes.Changed
		details["last_failed"] = lastRes.Failed
	}
	return mono.HealthStatus{
		Healthy: true,
		Message: "operational",
		Details: details,
	}
}
