package main

import (
	"context"
	"fmt"
	"os"

	"github.com/letterboxhq/letterbox-api/internal/bootstrap"
	"github.com/letterboxhq/letterbox-api/pkg/contextkeys"
)

func main() {
	ctx := context.Background()
	ctx = context.WithValue(ctx, contextkeys.RequestIDKey, "app-main")

	app, cleanup, err := bootstrap.InitializeApp(ctx)
	if err != nil {
		// The structured logger is not available if bootstrap itself failed.
		fmt.Printf("Failed to initialize application: %v\n", err)
		os.Exit(1)
	}
	defer cleanup()

	if err := app.Run(ctx); err != nil {
		fmt.Printf("Application run failed: %v\n", err)
		os.Exit(1)
	}
}
