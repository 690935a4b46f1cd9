// Package notification turns domain events into user-facing notifications.
// Delivery is a log entry; actual channels (email, push) hang off the same
// records.
package notification

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	domain "github.com/example/taskbuddy/domain/task"
	"github.com/example/taskbuddy/events"
	"github.com/go-monolith/mono"
	"github.com/go-monolith/mono/pkg/helper"
)

// Notification is one recorded notification.
type Notification struct {
	ID        string    `json:"id"`
	Type      string    `json:"type"`
	UserID    string    `json:"user_id,omitempty"`
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
}

// NotificationModule consumes workspace and task events and records
// notifications in memory.
type NotificationModule struct {
	notifications []Notification
	mu            sync.RWMutex
}

// Compile-time interface checks.
var _ mono.Module = (*NotificationModule)(nil)
var _ mono.EventConsumerModule = (*NotificationModule)(nil)

// NewModule creates a new NotificationModule.
func NewModule() *NotificationModule {
	return &NotificationModule{
		notifications: make([]Notification, 0),
	}
}

// Name returns the module name.
func (m *NotificationModule) Name() string {
	return "notification"
}

// RegisterEventConsumers subscribes to the events that produce
// notifications.
func (m *NotificationModule) RegisterEventConsumers(registry mono.EventRegistry) error {
	if err := helper.RegisterTypedEventConsumer(registry, events.MemberJoinedV1, m.handleMemberJoined, m); err != nil {
		return fmt.Errorf("failed to register MemberJoined consumer: %w", err)
	}
	if err := helper.RegisterTypedEventConsumer(registry, events.TaskCreatedV1, m.handleTaskCreated, m); err != nil {
		return fmt.Errorf("failed to register TaskCreated consumer: %w", err)
	}
	if err := helper.RegisterTypedEventConsumer(registry, events.TaskStatusChangedV1, m.handleTaskStatusChanged, m); err != nil {
		return fmt.Errorf("failed to register TaskStatusChanged consumer: %w", err)
	}

	log.Printf("[notification] Registered event consumers: MemberJoined, TaskCreated, TaskStatusChanged")
	return nil
}

func (m *NotificationModule) handleMemberJoined(_ context.Context, event events.MemberJoinedEvent, _ *mono.Msg) error {
	name := event.Username
	if name == "" {
		name = event.UserID
	}
	log.Printf("[notification] %s joined workspace %s", name, event.WorkspaceName)
	m.record(event.WorkspaceID, "member_joined", event.UserID,
		fmt.Sprintf("Welcome to '%s', %s!", event.WorkspaceName, name))
	return nil
}

func (m *NotificationModule) handleTaskCreated(_ context.Context, event events.TaskCreatedEvent, _ *mono.Msg) error {
	log.Printf("[notification] Task created: %s - %s", event.TaskID, event.Title)
	for _, assigneeID := range event.AssigneeIDs {
		m.record(event.TaskID, "task_assigned", assigneeID,
			fmt.Sprintf("You were assigned to '%s'", event.Title))
	}
	return nil
}

func (m *NotificationModule) handleTaskStatusChanged(_ context.Context, event events.TaskStatusChangedEvent, _ *mono.Msg) error {
	log.Printf("[notification] Task %s status: %s -> %s", event.TaskID, event.OldStatus, event.NewStatus)
	switch event.NewStatus {
	case domain.StatusCompleted:
		m.record(event.TaskID, "task_completed", "",
			fmt.Sprintf("Task %s is done - every assignee finished", event.TaskID))
	case domain.StatusOverdue:
		m.record(event.TaskID, "task_overdue", "",
			fmt.Sprintf("Task %s slipped past its due date", event.TaskID))
	}
	return nil
}

// record appends a notification to the in-memory log.
func (m *NotificationModule) record(id, notificationType, userID, message string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.notifications = append(m.notifications, Notification{
		ID:        id,
		Type:      notificationType,
		UserID:    userID,
		Message:   message,
		Timestamp: time.Now(),
	})
}

// Notifications returns a copy of the recorded notifications.
func (m *NotificationModule) Notifications() []Notification {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]Notification, len(m.notifications))
	copy(out, m.notifications)
	return out
}

// Start starts the module.
func (m *NotificationModule) Start(_ context.Context) error {
	log.Println("[notification] Module started - listening for workspace and task events")
	return nil
}

// Stop stops the module.
func (m *NotificationModule) Stop(_ context.Context) error {
	log.Println("[notification] Module stopped")
	return nil
}
