// Package servicenow implements the connector for ServiceNow users.
//
// Persons are sys_user rows reached through the Table API. Identifiers are
// 32 hex digit sys_ids. Reference fields (department, company) are read and
// written by display value.
package servicenow

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/ajitpratap0/idbridge/pkg/connector/base"
	"github.com/ajitpratap0/idbridge/pkg/connector/core"
	"github.com/ajitpratap0/idbridge/pkg/connector/registry"
	"github.com/ajitpratap0/idbridge/pkg/errors"
	"github.com/ajitpratap0/idbridge/pkg/models"
)

const (
	// Name is the system identifier of the connector
	Name = "servicenow"
	// Version of the connector
	Version = "1.0.0"
)

// Connector implements core.Connector for ServiceNow
type Connector struct {
	*base.BaseConnector
	client *Client
}

var _ core.Connector = (*Connector)(nil)

// New creates a ServiceNow connector. Token-only configurations are rejected.
func New(opts registry.Options) (*Connector, error) {
	if opts.Config == nil {
		return nil, errors.Config("configuration is required", nil)
	}

	b := base.NewBaseConnector(Name, Version, opts)
	client, err := NewClient(opts.Config, b.HTTP(), b.Logger(), opts.Debug)
	if err != nil {
		return nil, err
	}

	return &Connector{BaseConnector: b, client: client}, nil
}

// Client returns the Table API client
func (c *Connector) Client() *Client {
	return c.client
}

// TestConnection reads a single sys_id from the user table
func (c *Connector) TestConnection(ctx context.Context) bool {
	return c.Probe(ctx, func(ctx context.Context) error {
		q := url.Values{}
		q.Set("sysparm_limit", "1")
		q.Set("sysparm_fields", "sys_id")
		var users []User
		return c.client.Do(ctx, http.MethodGet, "", q, nil, &users)
	})
}

// CreatePerson inserts an active sys_user row
func (c *Connector) CreatePerson(ctx context.Context, person models.Person) (core.CreateResult, error) {
	user := toUser(person, false)
	if models.Deref(user.LastName) == "" {
		return core.CreateResult{}, errors.Validation("name", "person creation")
	}

	var result core.CreateResult
	err := c.Trace(ctx, core.OperationCreate, func(ctx context.Context) error {
		var created User
		if err := c.client.Do(ctx, http.MethodPost, "", writeParams(), user, &created); err != nil {
			return err
		}
		if created.SysID == "" {
			return errors.New(errors.ErrorTypeAPI, "no user returned from create operation")
		}

		result = core.CreateResult{ID: created.SysID, Record: toRecord(created)}
		return nil
	})

	return result, err
}

// GetPerson reads one user. HTTP 404 yields a Lookup with Found == false.
func (c *Connector) GetPerson(ctx context.Context, id string) (core.Lookup, error) {
	sysID, err := parseSysID(id)
	if err != nil {
		return core.Lookup{}, err
	}

	var lookup core.Lookup
	err = c.Trace(ctx, core.OperationGet, func(ctx context.Context) error {
		var u User
		if err := c.client.Do(ctx, http.MethodGet, "/"+sysID, readParams(), nil, &u); err != nil {
			if errors.IsType(err, errors.ErrorTypeAPI) && errors.CodeOf(err) == http.StatusNotFound {
				lookup = core.NotFound()
				return nil
			}
			return err
		}
		lookup = core.Found(fromUser(u))
		return nil
	})

	return lookup, err
}

// SearchPersons matches query against name, first name and email
func (c *Connector) SearchPersons(ctx context.Context, query string, limit int) ([]models.Person, error) {
	persons := make([]models.Person, 0)

	err := c.Trace(ctx, core.OperationSearch, func(ctx context.Context) error {
		q := readParams()
		q.Set("sysparm_query", SearchQuery(strings.TrimSpace(query)))
		q.Set("sysparm_limit", strconv.Itoa(core.EffectiveLimit(limit)))

		var users []User
		if err := c.client.Do(ctx, http.MethodGet, "", q, nil, &users); err != nil {
			return err
		}
		for _, u := range users {
			persons = append(persons, fromUser(u))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return persons, nil
}

// UpdatePerson patches the populated fields of person
func (c *Connector) UpdatePerson(ctx context.Context, id string, person models.Person) (models.Person, error) {
	sysID, err := parseSysID(id)
	if err != nil {
		return models.Person{}, err
	}

	var updated models.Person
	err = c.Trace(ctx, core.OperationUpdate, func(ctx context.Context) error {
		var u User
		if err := c.client.Do(ctx, http.MethodPatch, "/"+sysID, writeParams(), toUser(person, true), &u); err != nil {
			return err
		}
		if u.SysID == "" {
			return errors.New(errors.ErrorTypeAPI, "user "+sysID+" not returned from update operation")
		}
		updated = fromUser(u)
		return nil
	})

	return updated, err
}

// DeletePerson deletes one user
func (c *Connector) DeletePerson(ctx context.Context, id string) error {
	sysID, err := parseSysID(id)
	if err != nil {
		return err
	}

	return c.Trace(ctx, core.OperationDelete, func(ctx context.Context) error {
		return c.client.Do(ctx, http.MethodDelete, "/"+sysID, nil, nil, nil)
	})
}

// readParams requests display values for reference fields as plain strings
func readParams() url.Values {
	q := url.Values{}
	q.Set("sysparm_fields", UserFields)
	q.Set("sysparm_display_value", "true")
	q.Set("sysparm_exclude_reference_link", "true")
	return q
}

// writeParams additionally resolves reference fields from display values
func writeParams() url.Values {
	q := readParams()
	q.Set("sysparm_input_display_value", "true")
	return q
}
