// Package dashboard is the read side of the application: it assembles task
// statistics, workspace rollups and login streaks into one cached payload.
package dashboard

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/example/taskbuddy/events"
	"github.com/example/taskbuddy/modules/auth"
	"github.com/example/taskbuddy/modules/cache"
	"github.com/example/taskbuddy/modules/task"
	"github.com/example/taskbuddy/modules/workspace"
	"github.com/go-monolith/mono"
	"github.com/go-monolith/mono/pkg/helper"
	"golang.org/x/sync/singleflight"
)

// DashboardModule provides the get-dashboard service and keeps the cached
// dashboards consistent with the write side via event consumers.
type DashboardModule struct {
	authPort      auth.AuthPort
	workspacePort workspace.WorkspacePort
	taskPort      task.TaskPort
	cache         *cache.Cache
	group         singleflight.Group
}

// Compile-time interface checks.
var _ mono.Module = (*DashboardModule)(nil)
var _ mono.ServiceProviderModule = (*DashboardModule)(nil)
var _ mono.DependentModule = (*DashboardModule)(nil)
var _ mono.EventConsumerModule = (*DashboardModule)(nil)

// NewModule creates a new DashboardModule.
func NewModule() *DashboardModule {
	return &DashboardModule{}
}

// Name returns the module name.
func (m *DashboardModule) Name() string {
	return "dashboard"
}

// Dependencies returns the list of module dependencies.
func (m *DashboardModule) Dependencies() []string {
	return []string{"auth", "workspace", "task"}
}

// SetDependencyServiceContainer receives service containers from dependencies.
func (m *DashboardModule) SetDependencyServiceContainer(dependency string, container mono.ServiceContainer) {
	switch dependency {
	case "auth":
		m.authPort = auth.NewAuthAdapter(container)
	case "workspace":
		m.workspacePort = workspace.NewWorkspaceAdapter(container)
	case "task":
		m.taskPort = task.NewTaskAdapter(container)
	}
}

// SetCache wires the shared cache. A nil cache disables the read cache and
// every request rebuilds the dashboard.
func (m *DashboardModule) SetCache(c *cache.Cache) {
	m.cache = c
}

// RegisterServices registers request-reply services in the service container.
func (m *DashboardModule) RegisterServices(container mono.ServiceContainer) error {
	if err := helper.RegisterTypedRequestReplyService(container, "get", json.Unmarshal, json.Marshal, m.getDashboard); err != nil {
		return fmt.Errorf("failed to register get service: %w", err)
	}
	log.Printf("[dashboard] Registered services: get")
	return nil
}

// RegisterEventConsumers subscribes to the write-side events that make a
// cached dashboard stale.
func (m *DashboardModule) RegisterEventConsumers(registry mono.EventRegistry) error {
	if err := helper.RegisterTypedEventConsumer(registry, events.TaskCreatedV1, m.handleTaskCreated, m); err != nil {
		return fmt.Errorf("failed to register TaskCreated consumer: %w", err)
	}
	if err := helper.RegisterTypedEventConsumer(registry, events.TaskStatusChangedV1, m.handleTaskStatusChanged, m); err != nil {
		return fmt.Errorf("failed to register TaskStatusChanged consumer: %w", err)
	}
	if err := helper.RegisterTypedEventConsumer(registry, events.TaskDeletedV1, m.handleTaskDeleted, m); err != nil {
		return fmt.Errorf("failed to register TaskDeleted consumer: %w", err)
	}
	if err := helper.RegisterTypedEventConsumer(registry, events.AssignmentUpdatedV1, m.handleAssignmentUpdated, m); err != nil {
		return fmt.Errorf("failed to register AssignmentUpdated consumer: %w", err)
	}

	log.Printf("[dashboard] Registered event consumers: TaskCreated, TaskStatusChanged, TaskDeleted, AssignmentUpdated")
	return nil
}

func (m *DashboardModule) handleTaskCreated(ctx context.Context, event events.TaskCreatedEvent, _ *mono.Msg) error {
	m.invalidate(ctx, append([]string{event.OwnerID}, event.AssigneeIDs...)...)
	return nil
}

func (m *DashboardModule) handleTaskStatusChanged(ctx context.Context, event events.TaskStatusChangedEvent, _ *mono.Msg) error {
	// The event names no users; any member of the workspace may have the
	// old status on their dashboard.
	m.invalidateAll(ctx)
	return nil
}

func (m *DashboardModule) handleTaskDeleted(ctx context.Context, _ events.TaskDeletedEvent, _ *mono.Msg) error {
	m.invalidateAll(ctx)
	return nil
}

func (m *DashboardModule) handleAssignmentUpdated(ctx context.Context, event events.AssignmentUpdatedEvent, _ *mono.Msg) error {
	m.invalidate(ctx, event.AssigneeID)
	return nil
}

// Start checks the module's dependencies are wired.
func (m *DashboardModule) Start(_ context.Context) error {
	if m.authPort == nil || m.workspacePort == nil || m.taskPort == nil {
		return fmt.Errorf("dashboard dependencies not set")
	}
	if m.cache == nil {
		log.Println("[dashboard] No cache wired, serving uncached")
	}
	log.Printf("[dashboard] Module started")
	return nil
}

// Stop stops the module.
func (m *DashboardModule) Stop(_ context.Context) error {
	log.Println("[dashboard] Module stopped")
	return nil
}
