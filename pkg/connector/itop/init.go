package itop

import (
	"github.com/ajitpratap0/idbridge/pkg/connector/core"
	"github.com/ajitpratap0/idbridge/pkg/connector/registry"
)

func init() {
	registry.MustRegister(Name, func(opts registry.Options) (core.Connector, error) {
		return New(opts)
	})

	_ = registry.RegisterConnectorInfo(&core.ConnectorInfo{
		Name:        Name,
		Description: "iTop CMDB Person objects over the REST/JSON API",
		Version:     Version,
		Capabilities: []string{
			string(core.OperationTest),
			string(core.OperationCreate),
			string(core.OperationGet),
			string(core.OperationSearch),
			string(core.OperationUpdate),
			string(core.OperationDelete),
		},
		AuthModes: []string{"token", "password"},
	})
}
