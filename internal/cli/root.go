// Package cli implements the idbridge command line: one cobra command per
// connector operation, invoked by the orchestrator's command connector as
//
//	idbridge <operation> <system> [uid] [name] [key=value ...]
//
// Results are written to stdout in the line protocol of package output.
// Logs, traces and failure messages go to stderr.
package cli

import (
	"context"
	goerrors "errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/ajitpratap0/idbridge/pkg/config"
	"github.com/ajitpratap0/idbridge/pkg/connector/core"
	"github.com/ajitpratap0/idbridge/pkg/connector/registry"
	"github.com/ajitpratap0/idbridge/pkg/logger"
	"github.com/ajitpratap0/idbridge/pkg/metrics"
	"github.com/ajitpratap0/idbridge/pkg/observability"
)

// Version is the idbridge release, overridden at build time
var Version = "1.0.0"

// Setting keys, bound to flags and IDBRIDGE_* environment variables
const (
	keyDebug       = "debug"
	keyConfig      = "config"
	keyLogLevel    = "log-level"
	keyMetricsFile = "metrics-file"
	keyTrace       = "trace"
)

// DefaultConfigPath is read when neither --config nor IDBRIDGE_CONFIG is set
const DefaultConfigPath = "config.json"

// ConnectFunc creates the connector for a system
type ConnectFunc func(system string, opts registry.Options) (core.Connector, error)

// App wires the commands to their collaborators
type App struct {
	Stdout io.Writer
	Stderr io.Writer
	// Connect defaults to registry.Create
	Connect ConnectFunc
	// LoadConfig defaults to config.Load
	LoadConfig func(path string) (*config.Config, error)

	v *viper.Viper
}

// NewApp returns an App writing to the process streams
func NewApp() *App {
	return &App{
		Stdout:     os.Stdout,
		Stderr:     os.Stderr,
		Connect:    registry.Create,
		LoadConfig: config.Load,
	}
}

// operationError carries the operation name into the failure message
type operationError struct {
	operation string
	err       error
}

func (e *operationError) Error() string {
	return fmt.Sprintf("%s failed: %v", e.operation, e.err)
}

func (e *operationError) Unwrap() error {
	return e.err
}

// exitError ends the process with a status and no further message
type exitError struct {
	code int
}

func (e *exitError) Error() string {
	return fmt.Sprintf("exit status %d", e.code)
}

// Execute runs the command line and returns the process exit status
func (a *App) Execute(ctx context.Context, args []string) int {
	root := a.NewRootCommand()
	root.SetArgs(args)

	err := root.ExecuteContext(ctx)
	if err == nil {
		return 0
	}

	var exit *exitError
	if goerrors.As(err, &exit) {
		return exit.code
	}

	fmt.Fprintln(a.Stderr, err)
	return 1
}

// NewRootCommand builds the command tree
func (a *App) NewRootCommand() *cobra.Command {
	a.v = viper.New()
	a.v.SetEnvPrefix("IDBRIDGE")
	a.v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	a.v.AutomaticEnv()

	root := &cobra.Command{
		Use:   "idbridge",
		Short: "idbridge - identity bridge between an IGA orchestrator and systems of record",
		Long: `idbridge translates identity attribute sets into person records and dispatches
create, read, update, delete and search operations to a per-system connector.

Every operation takes the same positional arguments:
  idbridge <operation> <system> [uid] [name] [key=value ...]`,
		SilenceErrors: true,
		SilenceUsage:  true,
	}
	root.SetOut(a.Stdout)
	root.SetErr(a.Stderr)

	flags := root.PersistentFlags()
	flags.BoolP(keyDebug, "d", false, "Log backend requests and responses")
	flags.String(keyConfig, DefaultConfigPath, "Path to the JSON or YAML backend configuration")
	flags.String(keyLogLevel, "warn", "Log level (debug, info, warn, error)")
	flags.String(keyMetricsFile, "", "Write Prometheus metrics to this textfile after the operation")
	flags.Bool(keyTrace, false, "Export trace spans as JSON to stderr")
	_ = a.v.BindPFlags(flags)

	root.AddCommand(
		a.newTestCommand(),
		a.newCreateCommand(),
		a.newSearchCommand(),
		a.newUpdateCommand(),
		a.newDeleteCommand(),
		a.newListCommand(),
		a.newVersionCommand(),
	)
	return root
}

// session is the per-invocation state shared by the operation commands
type session struct {
	inv       Invocation
	connector core.Connector
	log       *zap.Logger
	shutdown  observability.ShutdownFunc
}

// open configures logging and tracing, loads the configuration and creates
// the connector for inv.System
func (a *App) open(ctx context.Context, inv Invocation) (*session, error) {
	debug := a.v.GetBool(keyDebug)
	level := a.v.GetString(keyLogLevel)
	if debug {
		level = "debug"
	}
	if err := logger.Init(logger.Config{Level: level, Encoding: "console"}); err != nil {
		return nil, err
	}
	log := logger.WithContext(ctx).With(zap.String("component", "cli"))

	tracing := observability.DefaultTracingConfig()
	tracing.ServiceVersion = Version
	if a.v.GetBool(keyTrace) {
		tracing.Writer = a.Stderr
	}
	shutdown, err := observability.Init(tracing)
	if err != nil {
		return nil, err
	}

	path := a.v.GetString(keyConfig)
	cfg, err := a.LoadConfig(path)
	if err != nil {
		_ = shutdown(context.Background())
		return nil, err
	}
	log.Debug("configuration loaded",
		zap.String("file", path),
		zap.String("auth_mode", string(cfg.AuthMode())),
		zap.Any("config", cfg.Redacted()))

	conn, err := a.Connect(inv.System, registry.Options{Config: cfg, Debug: debug, Logger: logger.Get()})
	if err != nil {
		_ = shutdown(context.Background())
		return nil, err
	}

	return &session{inv: inv, connector: conn, log: log, shutdown: shutdown}, nil
}

// close releases the connector, flushes traces and writes the metrics
// textfile when requested
func (a *App) close(s *session) {
	if err := s.connector.Close(); err != nil {
		s.log.Warn("failed to close connector", zap.Error(err))
	}
	if err := s.shutdown(context.Background()); err != nil {
		s.log.Warn("failed to flush traces", zap.Error(err))
	}
	if path := a.v.GetString(keyMetricsFile); path != "" {
		if err := metrics.WriteTextfile(path); err != nil {
			s.log.Warn("failed to write metrics", zap.String("file", path), zap.Error(err))
		}
	}
	_ = logger.Sync()
}
