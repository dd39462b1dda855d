package registry

import (
	"fmt"
	"sort"
	"sync"

	"go.uber.org/zap"

	"github.com/ajitpratap0/idbridge/pkg/config"
	"github.com/ajitpratap0/idbridge/pkg/connector/core"
	"github.com/ajitpratap0/idbridge/pkg/errors"
	"github.com/ajitpratap0/idbridge/pkg/logger"
)

// Options are passed to a Factory when a connector is constructed
type Options struct {
	// Config is the validated backend configuration
	Config *config.Config
	// Debug enables request/response logging in the backend client
	Debug bool
	// Logger overrides the global logger. Nil uses logger.Get().
	Logger *zap.Logger
}

// Log returns the configured logger or the global one
func (o Options) Log() *zap.Logger {
	if o.Logger != nil {
		return o.Logger
	}
	return logger.Get()
}

// Factory is a function that creates connector instances.
// It takes the construction options and returns a configured Connector or an error.
type Factory func(opts Options) (core.Connector, error)

// Registry manages connector registration and instantiation
type Registry struct {
	factories map[string]Factory
	mu        sync.RWMutex
}

// Global registry instance
var globalRegistry = NewRegistry()

// NewRegistry creates a new connector registry
func NewRegistry() *Registry {
	return &Registry{
		factories: make(map[string]Factory),
	}
}

func (r *Registry) log() *zap.Logger {
	return logger.Get().With(zap.String("component", "connector_registry"))
}

// Register registers a connector factory under a system identifier
func (r *Registry) Register(name string, factory Factory) error {
	if name == "" {
		return errors.New(errors.ErrorTypeConfig, "connector name cannot be empty")
	}
	if factory == nil {
		return errors.New(errors.ErrorTypeConfig, fmt.Sprintf("connector %s has no factory", name))
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.factories[name]; exists {
		return errors.New(errors.ErrorTypeConfig, fmt.Sprintf("connector %s already registered", name))
	}

	r.factories[name] = factory
	r.log().Debug("connector registered", zap.String("name", name))
	return nil
}

// Create resolves name and constructs the connector. An unknown name or a
// failed construction is reported as a connector error naming the system.
func (r *Registry) Create(name string, opts Options) (core.Connector, error) {
	r.mu.RLock()
	factory, exists := r.factories[name]
	r.mu.RUnlock()

	if !exists || factory == nil {
		return nil, errors.Connector(name, fmt.Errorf("unknown system %q (available: %v)", name, r.ListAvailable()))
	}

	if opts.Config == nil {
		return nil, errors.Connector(name, errors.Config("configuration is required", nil))
	}

	connector, err := factory(opts)
	if err != nil {
		return nil, errors.Connector(name, err)
	}

	r.log().Debug("connector created", zap.String("name", name), zap.Bool("debug", opts.Debug))
	return connector, nil
}

// ListAvailable returns the sorted identifiers of connectors that can be constructed
func (r *Registry) ListAvailable() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.factories))
	for name, factory := range r.factories {
		if factory != nil {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}

// Global registry functions

// Register registers a connector in the global registry
func Register(name string, factory Factory) error {
	return globalRegistry.Register(name, factory)
}

// MustRegister registers a connector in the global registry and panics on
// failure. Intended for init functions.
func MustRegister(name string, factory Factory) {
	if err := Register(name, factory); err != nil {
		panic(err)
	}
}

// Create creates a connector from the global registry
func Create(name string, opts Options) (core.Connector, error) {
	return globalRegistry.Create(name, opts)
}

// ListAvailable returns registered connectors from the global registry
func ListAvailable() []string {
	return globalRegistry.ListAvailable()
}

// ConnectorCatalog manages connector metadata
type ConnectorCatalog struct {
	connectors map[string]*core.ConnectorInfo
	mu         sync.RWMutex
}

// NewConnectorCatalog creates a new connector catalog
func NewConnectorCatalog() *ConnectorCatalog {
	return &ConnectorCatalog{
		connectors: make(map[string]*core.ConnectorInfo),
	}
}

// Register adds a connector to the catalog
func (c *ConnectorCatalog) Register(info *core.ConnectorInfo) error {
	if info == nil || info.Name == "" {
		return errors.New(errors.ErrorTypeConfig, "connector info requires a name")
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.connectors[info.Name]; exists {
		return errors.New(errors.ErrorTypeConfig, fmt.Sprintf("connector %s already in catalog", info.Name))
	}

	c.connectors[info.Name] = info
	return nil
}

// Get retrieves connector information
func (c *ConnectorCatalog) Get(name string) (*core.ConnectorInfo, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	info, exists := c.connectors[name]
	if !exists {
		return nil, errors.New(errors.ErrorTypeNotFound, fmt.Sprintf("connector %s not found in catalog", name))
	}

	return info, nil
}

// Global catalog instance
var globalCatalog = NewConnectorCatalog()

// RegisterConnectorInfo registers connector information in the global catalog
func RegisterConnectorInfo(info *core.ConnectorInfo) error {
	return globalCatalog.Register(info)
}

// GetConnectorInfo retrieves connector information from the global catalog
func GetConnectorInfo(name string) (*core.ConnectorInfo, error) {
	return globalCatalog.Get(name)
}
