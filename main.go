package main

import (
	"context"
	"log"
	"os"
	"time"

	gfshutdown "github.com/gelmium/graceful-shutdown"
	"github.com/go-monolith/mono"
	"github.com/joho/godotenv"

	apimod "github.com/example/taskbuddy/modules/api"
	authmod "github.com/example/taskbuddy/modules/auth"
	cachemod "github.com/example/taskbuddy/modules/cache"
	dashboardmod "github.com/example/taskbuddy/modules/dashboard"
	notificationmod "github.com/example/taskbuddy/modules/notification"
	sweepmod "github.com/example/taskbuddy/modules/sweep"
	taskmod "github.com/example/taskbuddy/modules/task"
	workspacemod "github.com/example/taskbuddy/modules/workspace"
)

const shutdownTimeout = 30 * time.Second

func main() {
	// .env is optional; real deployments set the environment directly.
	if err := godotenv.Load(); err == nil {
		log.Println("Loaded configuration from .env")
	}

	log.Println("=== TaskBuddy ===")

	cacheModule := cachemod.NewModule()
	dashboardModule := dashboardmod.NewModule()

	app, err := mono.NewMonoApplication(
		mono.WithShutdownTimeout(shutdownTimeout),
		mono.WithLogLevel(mono.LogLevelInfo),
	)
	if err != nil {
		log.Fatalf("Failed to create mono application: %v", err)
	}

	// Order: independent modules first, then modules with dependencies.
	app.Register(cacheModule)
	app.Register(notificationmod.NewModule())
	app.Register(authmod.NewModule())
	app.Register(workspacemod.NewModule())
	app.Register(taskmod.NewModule())
	app.Register(dashboardModule)
	app.Register(sweepmod.NewModule())
	app.Register(apimod.NewModule())

	ctx := context.Background()
	if err := app.Start(ctx); err != nil {
		log.Fatalf("Failed to start app: %v", err)
	}

	// The shared cache is wired after start, once the Redis connection
	// exists. Until then the dashboard serves uncached.
	dashboardModule.SetCache(cacheModule.GetCache())

	log.Println("=== Application Started ===")
	log.Println("Press Ctrl+C to shutdown")

	wait := gfshutdown.GracefulShutdown(
		context.Background(),
		shutdownTimeout,
		map[string]gfshutdown.Operation{
			"mono-app": func(ctx context.Context) error {
				log.Println("Graceful shutdown initiated...")
				return app.Stop(ctx)
			},
		},
	)

	exitCode := <-wait
	log.Printf("Application exited with code: %d", exitCode)
	os.Exit(exitCode)
}
