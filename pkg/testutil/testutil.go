// Package testutil provides testing utilities for idbridge
package testutil

import (
	"context"
	"testing"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"

	"github.com/ajitpratap0/idbridge/pkg/config"
)

// TestLogger creates a test logger that writes to the test output.
// The logger is automatically cleaned up when the test completes.
func TestLogger(t *testing.T) *zap.Logger {
	return zaptest.NewLogger(t)
}

// TestContext creates a test context with a 30-second timeout.
// The context is cancelled when the test completes.
func TestContext(t *testing.T) context.Context {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	t.Cleanup(cancel)
	return ctx
}

// TokenConfig returns a valid token-authenticated configuration for baseURL
func TokenConfig(baseURL string) *config.Config {
	cfg := config.NewConfig()
	cfg.BaseURL = baseURL
	cfg.AuthToken = "test-token"
	return cfg
}

// PasswordConfig returns a valid password-authenticated configuration for baseURL
func PasswordConfig(baseURL string) *config.Config {
	cfg := config.NewConfig()
	cfg.BaseURL = baseURL
	cfg.Username = "admin"
	cfg.Password = "secret"
	return cfg
}
