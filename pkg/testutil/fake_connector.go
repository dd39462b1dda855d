package testutil

import (
	"context"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/ajitpratap0/idbridge/pkg/connector/core"
	"github.com/ajitpratap0/idbridge/pkg/converter"
	"github.com/ajitpratap0/idbridge/pkg/errors"
	"github.com/ajitpratap0/idbridge/pkg/models"
)

// FakeConnector is an in-memory core.Connector. Persons are stored as native
// records so reads go through the same conversion path as a real backend.
type FakeConnector struct {
	name string

	mu      sync.Mutex
	records map[int64]models.PersonRecord
	nextID  int64

	// Reachable is returned by TestConnection
	Reachable bool
	// Err, when set, is returned by every operation
	Err error
	// Calls records the operations performed, in order
	Calls []core.Operation
	// Closed is set by Close
	Closed bool
}

var _ core.Connector = (*FakeConnector)(nil)

// NewFakeConnector creates an empty, reachable fake connector
func NewFakeConnector(name string) *FakeConnector {
	return &FakeConnector{
		name:      name,
		records:   make(map[int64]models.PersonRecord),
		nextID:    1,
		Reachable: true,
	}
}

// Name returns the system identifier
func (f *FakeConnector) Name() string {
	return f.name
}

// Seed stores p and returns its id
func (f *FakeConnector) Seed(p models.Person) string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.store(converter.ToRecord(p, converter.Options{DefaultOrgID: 1}))
}

func (f *FakeConnector) store(rec models.PersonRecord) string {
	id := models.ID(strconv.FormatInt(f.nextID, 10))
	rec.ID = &id
	f.records[f.nextID] = rec
	f.nextID++
	return id.String()
}

func (f *FakeConnector) record(op core.Operation) error {
	f.Calls = append(f.Calls, op)
	return f.Err
}

func parseID(id string) (int64, error) {
	n, err := strconv.ParseInt(id, 10, 64)
	if err != nil {
		return 0, errors.InvalidID(id)
	}
	return n, nil
}

// TestConnection reports Reachable
func (f *FakeConnector) TestConnection(_ context.Context) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.record(core.OperationTest) == nil && f.Reachable
}

// CreatePerson stores person
func (f *FakeConnector) CreatePerson(_ context.Context, person models.Person) (core.CreateResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.record(core.OperationCreate); err != nil {
		return core.CreateResult{}, err
	}

	id := f.store(converter.ToRecord(person, converter.Options{DefaultOrgID: 1}))
	n, _ := strconv.ParseInt(id, 10, 64)
	return core.CreateResult{ID: id, Record: f.records[n]}, nil
}

// GetPerson returns the stored person
func (f *FakeConnector) GetPerson(_ context.Context, id string) (core.Lookup, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.record(core.OperationGet); err != nil {
		return core.Lookup{}, err
	}

	n, err := parseID(id)
	if err != nil {
		return core.Lookup{}, err
	}
	rec, ok := f.records[n]
	if !ok {
		return core.NotFound(), nil
	}
	return core.Found(converter.FromRecord(rec)), nil
}

// SearchPersons matches query against name, first name and email
func (f *FakeConnector) SearchPersons(_ context.Context, query string, limit int) ([]models.Person, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.record(core.OperationSearch); err != nil {
		return nil, err
	}

	ids := make([]int64, 0, len(f.records))
	for id := range f.records {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	persons := make([]models.Person, 0)
	for _, id := range ids {
		if len(persons) >= core.EffectiveLimit(limit) {
			break
		}
		rec := f.records[id]
		if query == "" || matches(rec, query) {
			persons = append(persons, converter.FromRecord(rec))
		}
	}
	return persons, nil
}

func matches(rec models.PersonRecord, query string) bool {
	for _, v := range []string{rec.Name, models.Deref(rec.FirstName), models.Deref(rec.Email)} {
		if strings.Contains(v, query) {
			return true
		}
	}
	return false
}

// UpdatePerson merges the populated fields of person into the stored record
func (f *FakeConnector) UpdatePerson(_ context.Context, id string, person models.Person) (models.Person, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.record(core.OperationUpdate); err != nil {
		return models.Person{}, err
	}

	n, err := parseID(id)
	if err != nil {
		return models.Person{}, err
	}
	rec, ok := f.records[n]
	if !ok {
		return models.Person{}, errors.API(0, "no object updated")
	}

	patch := converter.ToRecord(person, converter.Options{Partial: true})
	if patch.Name != "" {
		rec.Name = patch.Name
	}
	if patch.FirstName != nil {
		rec.FirstName = patch.FirstName
	}
	if patch.Email != nil {
		rec.Email = patch.Email
	}
	if patch.Phone != nil {
		rec.Phone = patch.Phone
	}
	if patch.Function != nil {
		rec.Function = patch.Function
	}
	if patch.OrgName != nil {
		rec.OrgName, rec.OrgID = patch.OrgName, nil
	}
	f.records[n] = rec
	return converter.FromRecord(rec), nil
}

// DeletePerson removes the stored person
func (f *FakeConnector) DeletePerson(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.record(core.OperationDelete); err != nil {
		return err
	}

	n, err := parseID(id)
	if err != nil {
		return err
	}
	if _, ok := f.records[n]; !ok {
		return errors.API(0, "no object deleted")
	}
	delete(f.records, n)
	return nil
}

// Close marks the connector closed
func (f *FakeConnector) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Closed = true
	return nil
}
