// Package connector groups the per-system person connectors of idbridge.
//
// # Architecture Overview
//
//   - core: the Connector interface every backend implements, the Lookup
//     result of GetPerson and the ConnectorInfo catalog entry.
//
//   - base: BaseConnector, embedded by every connector. It owns the backend
//     configuration, the HTTP transport, the component logger and the tracer
//     that wraps each operation in a span and records its metrics.
//
//   - registry: maps system identifiers to factories. Connectors register
//     themselves from init(); importing a connector package for its side
//     effect makes it available to registry.Create.
//
//   - itop: iTop CMDB Person objects over the REST/JSON API.
//
//   - servicenow: ServiceNow sys_user records over the Table API.
//
// # Contract
//
// A connector is created for one invocation and performs one logical
// operation. Identifiers are validated before any request is made. A person
// that does not exist is reported by GetPerson as a Lookup with Found ==
// false; every other operation treats a missing object as an API error.
// SearchPersons never returns a nil slice and applies a limit of 100 when
// called with limit <= 0.
//
// # Writing a Connector
//
//	type Connector struct {
//		*base.BaseConnector
//		client *Client
//	}
//
//	func New(opts registry.Options) (*Connector, error) {
//		b := base.NewBaseConnector("mysystem", "1.0.0", opts)
//		return &Connector{BaseConnector: b, client: NewClient(opts.Config, b.HTTP())}, nil
//	}
//
//	func (c *Connector) GetPerson(ctx context.Context, id string) (core.Lookup, error) {
//		var lookup core.Lookup
//		err := c.Trace(ctx, core.OperationGet, func(ctx context.Context) error {
//			// call the backend, convert with package converter
//			return nil
//		})
//		return lookup, err
//	}
//
//	func init() {
//		registry.MustRegister("mysystem", func(opts registry.Options) (core.Connector, error) {
//			return New(opts)
//		})
//	}
package connector
