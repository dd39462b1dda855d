// Package idbridge bridges an identity-governance orchestrator and the
// systems of record that hold person data.
//
// The orchestrator invokes the idbridge command once per operation with an
// attribute set. idbridge maps the attributes to a canonical person, selects
// a connector by system identifier and performs the operation against the
// backend's REST interface. The result is written to stdout in the line
// protocol the orchestrator's command connector reads.
//
// # Architecture
//
// A single invocation flows through these layers:
//
//	internal/cli           argument parsing, one cobra command per operation
//	pkg/config             backend configuration (file, ${VAR}, IDBRIDGE_* env)
//	pkg/connector/registry system identifier -> connector factory
//	pkg/converter          attributes <-> models.Person <-> native record
//	pkg/connector/itop     iTop REST/JSON client and connector
//	pkg/connector/servicenow ServiceNow Table API connector
//	pkg/output             __UID__/__NAME__ line protocol
//
// Every connector embeds base.BaseConnector, which owns the HTTP transport
// (pkg/clients), the component logger (pkg/logger) and the tracer that
// records spans (pkg/observability) and operation metrics (pkg/metrics).
//
// # Quick Start
//
//	import (
//	    "github.com/ajitpratap0/idbridge/pkg/config"
//	    "github.com/ajitpratap0/idbridge/pkg/connector/registry"
//	    "github.com/ajitpratap0/idbridge/pkg/converter"
//	    _ "github.com/ajitpratap0/idbridge/pkg/connector/itop"
//	)
//
//	cfg, err := config.Load("config.json")
//	if err != nil {
//	    return err
//	}
//
//	conn, err := registry.Create("itop", registry.Options{Config: cfg})
//	if err != nil {
//	    return err
//	}
//
//	person := converter.FromAttributes(map[string]string{"cn": "John Doe", "mail": "jdoe@example.com"})
//	result, err := conn.CreatePerson(ctx, person)
//
// # Command Line
//
//	idbridge test   itop
//	idbridge create itop "" Doe first_name=John mail=jdoe@example.com
//	idbridge search itop 12
//	idbridge search itop doe
//	idbridge update itop 12 "" phone=+1-555-0100
//	idbridge delete itop 12
//
// Failures exit non-zero with "<operation> failed: <error>" on stderr.
//
// # Error Handling
//
// Errors are *errors.Error values typed by category (config, connector,
// invalid_id, api, transport, validation). Backend status codes are carried
// in the Code field; see pkg/errors.
package idbridge
