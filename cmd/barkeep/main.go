// Command barkeep runs the drink system API server.
//
// Configuration is read from the file named by BARKEEP_CONFIG (default
// ./config.yaml) with environment variable overrides.
package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/vendstack/barkeep/internal/app"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := app.Run(ctx); err != nil {
		log.Fatalf("barkeep: %v", err)
	}
}
