package main

import (
	"context"
	"os"

	"vox-tutor-be/internal/bootstrap"
	"vox-tutor-be/internal/config"
	"vox-tutor-be/internal/server"
	"vox-tutor-be/internal/tracer"
)

func main() {
	// 1. Initialize Tracer (no-op unless OTEL_ENABLED=true)
	shutdownTracer := tracer.InitTracer()
	defer shutdownTracer(context.Background())

	// 2. Load Configuration
	cfg := config.Load()

	// 3. Bootstrap Dependencies (Container)
	container := bootstrap.NewContainer(cfg)
	defer container.Logger.Sync()

	// 4. Initialize Server
	srv := server.New(cfg, container)

	// 5. Run Server. Flush the logger before exiting; os.Exit would
	// skip the deferred Sync.
	if err := srv.Run(); err != nil {
		container.Logger.Error("app", "server exited", map[string]interface{}{
			"error": err.Error(),
		})
		container.Logger.Sync()
		shutdownTracer(context.Background())
		os.Exit(1)
	}
}
