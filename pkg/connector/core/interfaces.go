package core

import (
	"context"

	"github.com/ajitpratap0/idbridge/pkg/models"
)

// DefaultSearchLimit applies when SearchPersons is called with limit <= 0
const DefaultSearchLimit = 100

// Operation names a connector capability. Used as a log field and metric label.
type Operation string

const (
	OperationTest   Operation = "test"
	OperationCreate Operation = "create"
	OperationGet    Operation = "get"
	OperationSearch Operation = "search"
	OperationUpdate Operation = "update"
	OperationDelete Operation = "delete"
)

// CreateResult is returned by CreatePerson
type CreateResult struct {
	// ID is the backend identifier of the created person
	ID string
	// Record is the native record as stored by the backend
	Record models.PersonRecord
}

// Lookup is the result of GetPerson. A missing person is reported with
// Found == false and a nil error; any other failure is returned as an error.
type Lookup struct {
	Person models.Person
	Found  bool
}

// NotFound is the Lookup for a person the backend does not hold
func NotFound() Lookup {
	return Lookup{}
}

// Found wraps a person in a successful Lookup
func Found(p models.Person) Lookup {
	return Lookup{Person: p, Found: true}
}

// Connector is the interface every backend system implementation satisfies.
// A Connector owns one backend client configured at construction and is used
// for a single logical operation.
type Connector interface {
	// Name returns the system identifier the connector is registered under
	Name() string

	// TestConnection reports whether the backend is reachable with the
	// configured credentials. Failures are logged and reported as false.
	TestConnection(ctx context.Context) bool

	// CreatePerson stores a new person. The backend must return the created
	// object; a missing object is an API error.
	CreatePerson(ctx context.Context, person models.Person) (CreateResult, error)

	// GetPerson fetches one person. Malformed ids fail with an invalid id
	// error before any request is made.
	GetPerson(ctx context.Context, id string) (Lookup, error)

	// SearchPersons returns up to limit persons whose name, first name or email
	// contains query. An empty query lists persons. The result is never nil.
	SearchPersons(ctx context.Context, query string, limit int) ([]models.Person, error)

	// UpdatePerson applies the populated fields of person and returns the
	// stored result.
	UpdatePerson(ctx context.Context, id string, person models.Person) (models.Person, error)

	// DeletePerson removes one person
	DeletePerson(ctx context.Context, id string) error

	// Close releases the backend transport. Called once at the end of an
	// invocation.
	Close() error
}

// ConnectorInfo describes a registered connector for diagnostics
type ConnectorInfo struct {
	Name         string   `json:"name"`
	Description  string   `json:"description"`
	Version      string   `json:"version"`
	Capabilities []string `json:"capabilities"`
	AuthModes    []string `json:"auth_modes"`
}

// EffectiveLimit returns limit, or DefaultSearchLimit when limit <= 0
func EffectiveLimit(limit int) int {
	if limit <= 0 {
		return DefaultSearchLimit
	}
	return limit
}
