// Package itop implements the connector for the iTop CMDB REST/JSON API.
//
// Persons are stored in the iTop "Person" class. Every call is a multipart
// POST carrying a json_data envelope; identifiers are iTop's numeric object
// keys.
package itop

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/ajitpratap0/idbridge/pkg/connector/base"
	"github.com/ajitpratap0/idbridge/pkg/connector/core"
	"github.com/ajitpratap0/idbridge/pkg/connector/registry"
	"github.com/ajitpratap0/idbridge/pkg/converter"
	"github.com/ajitpratap0/idbridge/pkg/errors"
	"github.com/ajitpratap0/idbridge/pkg/models"
)

const (
	// Name is the system identifier of the connector
	Name = "itop"
	// Version of the connector
	Version = "1.0.0"
)

// Connector implements core.Connector for iTop
type Connector struct {
	*base.BaseConnector
	client *Client
}

var _ core.Connector = (*Connector)(nil)

// New creates an iTop connector. It fails with a configuration error when no
// usable credentials are configured.
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

// Client returns the REST client
func (c *Connector) Client() *Client {
	return c.client
}

// TestConnection lists the API operations with the configured credentials
func (c *Connector) TestConnection(ctx context.Context) bool {
	return c.Probe(ctx, func(ctx context.Context) error {
		_, err := c.client.MakeRequest(ctx, Request{Operation: OpListOperations})
		return err
	})
}

// CreatePerson creates a Person. The name comes from the surname or, failing
// that, the common name; without either no request is made. Without
// organization or ou the configured default organization is assigned.
func (c *Connector) CreatePerson(ctx context.Context, person models.Person) (core.CreateResult, error) {
	rec := converter.ToRecord(person, c.ConversionOptions(false))
	if rec.Name == "" {
		return core.CreateResult{}, errors.Validation("name", "person creation")
	}

	var result core.CreateResult
	err := c.Trace(ctx, core.OperationCreate, func(ctx context.Context) error {
		resp, err := c.client.MakeRequest(ctx, Request{
			Operation:    OpCreate,
			Comment:      CommentCreate,
			Class:        ClassPerson,
			OutputFields: OutputFields,
			Fields:       &rec,
		})
		if err != nil {
			return err
		}

		objs := resp.ObjectsOf(ClassPerson)
		switch len(objs) {
		case 0:
			return errors.New(errors.ErrorTypeAPI, "no person returned from create operation")
		case 1:
		default:
			return errors.New(errors.ErrorTypeAPI, fmt.Sprintf("create operation returned %d persons", len(objs)))
		}

		obj, err := checkObject(objs[0])
		if err != nil {
			return err
		}

		result = core.CreateResult{ID: obj.Key.String(), Record: obj.Fields}
		if result.ID == "" && obj.Fields.ID != nil {
			result.ID = obj.Fields.ID.String()
		}
		return nil
	})

	return result, err
}

// GetPerson reads one Person. A response without the requested object, or
// iTop's "No item found" error, yields a Lookup with Found == false.
func (c *Connector) GetPerson(ctx context.Context, id string) (core.Lookup, error) {
	key, err := parseID(id)
	if err != nil {
		return core.Lookup{}, err
	}

	var lookup core.Lookup
	err = c.Trace(ctx, core.OperationGet, func(ctx context.Context) error {
		resp, err := c.client.MakeRequest(ctx, Request{
			Operation:    OpGet,
			Class:        ClassPerson,
			Key:          key,
			OutputFields: OutputFields,
		})
		if err != nil {
			if isNotFound(err) {
				lookup = core.NotFound()
				return nil
			}
			return err
		}

		obj, ok := resp.Object(ClassPerson, key)
		if !ok {
			lookup = core.NotFound()
			return nil
		}
		lookup = core.Found(toPerson(obj))
		return nil
	})

	return lookup, err
}

// SearchPersons runs an OQL query matching query against name, first name
// and email. Results are ordered by id.
func (c *Connector) SearchPersons(ctx context.Context, query string, limit int) ([]models.Person, error) {
	persons := make([]models.Person, 0)

	err := c.Trace(ctx, core.OperationSearch, func(ctx context.Context) error {
		resp, err := c.client.MakeRequest(ctx, Request{
			Operation:    OpGet,
			Class:        ClassPerson,
			Key:          SearchQuery(strings.TrimSpace(query)),
			OutputFields: OutputFields,
			Limit:        core.EffectiveLimit(limit),
		})
		if err != nil {
			return err
		}

		for _, obj := range resp.ObjectsOf(ClassPerson) {
			persons = append(persons, toPerson(obj))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return persons, nil
}

// UpdatePerson applies the populated fields of person. The default
// organization is never assigned on update.
func (c *Connector) UpdatePerson(ctx context.Context, id string, person models.Person) (models.Person, error) {
	key, err := parseID(id)
	if err != nil {
		return models.Person{}, err
	}

	var updated models.Person
	err = c.Trace(ctx, core.OperationUpdate, func(ctx context.Context) error {
		rec := converter.ToRecord(person, c.ConversionOptions(true))
		resp, err := c.client.MakeRequest(ctx, Request{
			Operation:    OpUpdate,
			Comment:      CommentUpdate,
			Class:        ClassPerson,
			Key:          key,
			OutputFields: OutputFields,
			Fields:       &rec,
		})
		if err != nil {
			return err
		}

		obj, ok := resp.Object(ClassPerson, key)
		if !ok {
			return errors.New(errors.ErrorTypeAPI, fmt.Sprintf("person %d not returned from update operation", key))
		}
		if obj, err = checkObject(obj); err != nil {
			return err
		}
		updated = toPerson(obj)
		return nil
	})

	return updated, err
}

// DeletePerson deletes one Person
func (c *Connector) DeletePerson(ctx context.Context, id string) error {
	key, err := parseID(id)
	if err != nil {
		return err
	}

	return c.Trace(ctx, core.OperationDelete, func(ctx context.Context) error {
		simulate := false
		resp, err := c.client.MakeRequest(ctx, Request{
			Operation: OpDelete,
			Comment:   CommentDelete,
			Class:     ClassPerson,
			Key:       key,
			Simulate:  &simulate,
		})
		if err != nil {
			return err
		}

		obj, ok := resp.Object(ClassPerson, key)
		if !ok {
			return errors.New(errors.ErrorTypeAPI, fmt.Sprintf("person %d not returned from delete operation", key))
		}
		_, err = checkObject(obj)
		return err
	})
}

// parseID accepts positive decimal object keys
func parseID(id string) (int64, error) {
	key, err := strconv.ParseInt(strings.TrimSpace(id), 10, 64)
	if err != nil || key <= 0 {
		return 0, errors.InvalidID(id)
	}
	return key, nil
}

// checkObject surfaces a per-object failure code as an API error
func checkObject(obj Object) (Object, error) {
	if obj.Code != 0 {
		return obj, errors.API(obj.Code, obj.Message)
	}
	return obj, nil
}

// isNotFound reports whether err is iTop's answer to a key that matches
// nothing. Other failures mentioning "not found" (unknown attribute or class)
// are real errors.
func isNotFound(err error) bool {
	if !errors.IsType(err, errors.ErrorTypeAPI) {
		return false
	}
	return strings.Contains(strings.ToLower(err.Error()), "no item found")
}

// toPerson converts a returned object, filling the id from the object key
// when the projection did not include it
func toPerson(obj Object) models.Person {
	rec := obj.Fields
	if rec.ID == nil && obj.Key != "" {
		id := obj.Key
		rec.ID = &id
	}
	return converter.FromRecord(rec)
}
