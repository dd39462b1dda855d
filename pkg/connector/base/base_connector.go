// Package base provides the BaseConnector embedded by idbridge connectors.
// It owns the per-invocation collaborators every backend needs: the validated
// configuration, a component logger, the HTTP transport and the tracer that
// records spans and operation metrics.
//
// # Usage
//
//	type MyConnector struct {
//	    *base.BaseConnector
//	    // connector-specific fields
//	}
//
//	func New(opts registry.Options) (*MyConnector, error) {
//	    return &MyConnector{
//	        BaseConnector: base.NewBaseConnector("my-system", "1.0.0", opts),
//	    }, nil
//	}
package base

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/ajitpratap0/idbridge/pkg/clients"
	"github.com/ajitpratap0/idbridge/pkg/config"
	"github.com/ajitpratap0/idbridge/pkg/connector/core"
	"github.com/ajitpratap0/idbridge/pkg/connector/registry"
	"github.com/ajitpratap0/idbridge/pkg/converter"
	"github.com/ajitpratap0/idbridge/pkg/observability"
)

// BaseConnector provides common functionality for all connectors
type BaseConnector struct {
	name    string                         // System identifier
	version string                         // Connector version
	config  *config.Config                 // Validated backend configuration
	debug   bool                           // Request/response logging
	logger  *zap.Logger                    // Structured logger
	http    *clients.HTTPClient            // Backend transport
	tracer  *observability.ConnectorTracer // Spans and operation metrics
}

// NewBaseConnector creates a new base connector. opts.Config must be non-nil.
func NewBaseConnector(name, version string, opts registry.Options) *BaseConnector {
	log := opts.Log().With(zap.String("connector", name))

	return &BaseConnector{
		name:    name,
		version: version,
		config:  opts.Config,
		debug:   opts.Debug,
		logger:  log,
		http:    clients.NewHTTPClient(clients.HTTPConfigFrom(opts.Config), log),
		tracer:  observability.NewConnectorTracer(name),
	}
}

// Name returns the system identifier
func (b *BaseConnector) Name() string {
	return b.name
}

// Version returns the connector version
func (b *BaseConnector) Version() string {
	return b.version
}

// Config returns the backend configuration
func (b *BaseConnector) Config() *config.Config {
	return b.config
}

// Debug reports whether request/response logging is enabled
func (b *BaseConnector) Debug() bool {
	return b.debug
}

// Logger returns the connector logger
func (b *BaseConnector) Logger() *zap.Logger {
	return b.logger
}

// HTTP returns the backend transport
func (b *BaseConnector) HTTP() *clients.HTTPClient {
	return b.http
}

// Close logs the transport statistics at debug level and releases idle
// connections
func (b *BaseConnector) Close() error {
	stats := b.http.GetStats()
	b.logger.Debug("connector closed",
		zap.Int64("requests", stats.TotalRequests),
		zap.Int64("failed", stats.FailedRequests),
		zap.Float64("success_rate", stats.SuccessRate),
		zap.Duration("avg_latency", stats.AverageLatency),
	)
	return b.http.Close()
}

// ConversionOptions returns the converter options for a full or partial write
func (b *BaseConnector) ConversionOptions(partial bool) converter.Options {
	return converter.Options{
		Partial:      partial,
		DefaultOrgID: b.config.DefaultOrgID,
	}
}

// Trace runs fn as one traced connector operation. Failures are logged at
// debug level; callers decide what reaches the user.
func (b *BaseConnector) Trace(ctx context.Context, op core.Operation, fn func(ctx context.Context) error) error {
	err := b.tracer.Trace(ctx, string(op), fn)
	if err != nil {
		b.logger.Debug("operation failed", zap.String("operation", string(op)), zap.Error(err))
	}
	return err
}

// Probe runs a connectivity check. Any error or panic is logged and reported
// as false.
func (b *BaseConnector) Probe(ctx context.Context, fn func(ctx context.Context) error) (ok bool) {
	defer func() {
		if r := recover(); r != nil {
			b.logger.Warn("connection test panicked", zap.String("panic", fmt.Sprint(r)))
			ok = false
		}
	}()

	if err := b.Trace(ctx, core.OperationTest, fn); err != nil {
		b.logger.Warn("connection test failed", zap.Error(err))
		return false
	}
	return true
}
