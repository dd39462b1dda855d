package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/ajitpratap0/idbridge/internal/cli"

	// Import all available connectors to register them
	_ "github.com/ajitpratap0/idbridge/pkg/connector/itop"
	_ "github.com/ajitpratap0/idbridge/pkg/connector/servicenow"
)

func main() {
	// Load .env file if it exists
	_ = godotenv.Load() // Ignore error if .env doesn't exist

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := cli.NewApp().Execute(ctx, os.Args[1:])
	stop()
	os.Exit(code)
}
