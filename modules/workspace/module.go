package workspace

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"

	domain "github.com/example/taskbuddy/domain/workspace"
	"github.com/example/taskbuddy/events"
	"github.com/example/taskbuddy/modules/auth"
	"github.com/go-monolith/mono"
	"github.com/go-monolith/mono/pkg/helper"
	"github.com/jaevor/go-nanoid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// entryCodeAlphabet excludes look-alike characters so invite codes survive
// being read aloud.
const entryCodeAlphabet = "23456789abcdefghjkmnpqrstuvwxyz"

// WorkspaceModule provides workspace management services.
type WorkspaceModule struct {
	db           *gorm.DB
	repo         *Repository
	authPort     auth.AuthPort
	eventBus     mono.EventBus
	newEntryCode func() string
	dbPath       string
}

// Compile-time interface checks.
var _ mono.Module = (*WorkspaceModule)(nil)
var _ mono.ServiceProviderModule = (*WorkspaceModule)(nil)
var _ mono.DependentModule = (*WorkspaceModule)(nil)
var _ mono.EventEmitterModule = (*WorkspaceModule)(nil)
var _ mono.EventConsumerModule = (*WorkspaceModule)(nil)
var _ mono.HealthCheckableModule = (*WorkspaceModule)(nil)

// NewModule creates a new WorkspaceModule.
func NewModule() *WorkspaceModule {
	dbPath := os.Getenv("WORKSPACE_DB_PATH")
	if dbPath == "" {
		dbPath = "taskbuddy_workspaces.db"
	}
	return &WorkspaceModule{
		dbPath: dbPath,
	}
}

// Name returns the module name.
func (m *WorkspaceModule) Name() string {
	return "workspace"
}

// Dependencies returns the list of module dependencies.
func (m *WorkspaceModule) Dependencies() []string {
	return []string{"auth"}
}

// SetDependencyServiceContainer receives service containers from dependencies.
func (m *WorkspaceModule) SetDependencyServiceContainer(dependency string, container mono.ServiceContainer) {
	if dependency == "auth" {
		m.authPort = auth.NewAuthAdapter(container)
	}
}

// SetEventBus receives the event bus from the framework.
func (m *WorkspaceModule) SetEventBus(bus mono.EventBus) {
	m.eventBus = bus
}

// EmitEvents declares the events this module publishes.
func (m *WorkspaceModule) EmitEvents() []mono.BaseEventDefinition {
	return []mono.BaseEventDefinition{
		events.MemberJoinedV1.ToBase(),
	}
}

// RegisterEventConsumers subscribes to the user registration event that
// provisions each new account's default workspace.
func (m *WorkspaceModule) RegisterEventConsumers(registry mono.EventRegistry) error {
	if err := helper.RegisterTypedEventConsumer(registry, events.UserRegisteredV1, m.handleUserRegistered, m); err != nil {
		return fmt.Errorf("failed to register UserRegistered consumer: %w", err)
	}

	log.Printf("[workspace] Registered event consumers: UserRegistered")
	return nil
}

// RegisterServices registers request-reply services in the service container.
func (m *WorkspaceModule) RegisterServices(container mono.ServiceContainer) error {
	services := map[string]func() error{
		"create": func() error {
			return helper.RegisterTypedRequestReplyService(container, "create", json.Unmarshal, json.Marshal, m.createWorkspace)
		},
		"get": func() error {
			return helper.RegisterTypedRequestReplyService(container, "get", json.Unmarshal, json.Marshal, m.getWorkspace)
		},
		"update": func() error {
			return helper.RegisterTypedRequestReplyService(container, "update", json.Unmarshal, json.Marshal, m.updateWorkspace)
		},
		"delete": func() error {
			return helper.RegisterTypedRequestReplyService(container, "delete", json.Unmarshal, json.Marshal, m.deleteWorkspace)
		},
		"list": func() error {
			return helper.RegisterTypedRequestReplyService(container, "list", json.Unmarshal, json.Marshal, m.listWorkspaces)
		},
		"join": func() error {
			return helper.RegisterTypedRequestReplyService(container, "join", json.Unmarshal, json.Marshal, m.joinWorkspace)
		},
		"members": func() error {
			return helper.RegisterTypedRequestReplyService(container, "members", json.Unmarshal, json.Marshal, m.listMembers)
		},
	}

	for name, register := range services {
		if err := register(); err != nil {
			return fmt.Errorf("failed to register %s service: %w", name, err)
		}
	}

	log.Printf("[workspace] Registered services: create, get, update, delete, list, join, members")
	return nil
}

// Start initializes the database connection and runs migrations.
func (m *WorkspaceModule) Start(_ context.Context) error {
	if m.authPort == nil {
		return fmt.Errorf("authPort dependency not set")
	}

	db, err := gorm.Open(sqlite.Open(m.dbPath), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	m.db = db

	if err := db.AutoMigrate(&domain.Workspace{}, &domain.Member{}); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	m.repo = NewRepository(db)

	gen, err := nanoid.CustomASCII(entryCodeAlphabet, 6)
	if err != nil {
		return fmt.Errorf("failed to create entry code generator: %w", err)
	}
	m.newEntryCode = gen

	log.Printf("[workspace] Module started (database: %s)", m.dbPath)
	return nil
}

// Stop gracefully closes the database connection.
func (m *WorkspaceModule) Stop(_ context.Context) error {
	if m.db != nil {
		sqlDB, err := m.db.DB()
		if err == nil {
			sqlDB.Close()
		}
	}
	log.Println("[workspace] Module stopped")
	return nil
}

// Health returns the health status of the module.
func (m *WorkspaceModule) Health(ctx context.Context) mono.HealthStatus {
	if m.db == nil {
		return mono.HealthStatus{
			Healthy: false,
			Message: "database not initialized",
		}
	}

	sqlDB, err := m.db.DB()
	if err != nil {
		return mono.HealthStatus{
			Healthy: false,
			Message: fmt.Sprintf("failed to get sql.DB: %v", err),
		}
	}

	if err := sqlDB.PingContext(ctx); err != nil {
		return mono.HealthStatus{
			Healthy: false,
			Message: fmt.Sprintf("database ping failed: %v", err),
		}
	}

	return mono.HealthStatus{
		Healthy: true,
		Message: "operational",
		Details: map[string]any{
			"database": m.dbPath,
		},
	}
}
