package converter

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ajitpratap0/idbridge/pkg/models"
)

var defaultOpts = Options{DefaultOrgID: 1}

func TestFromAttributesPrecedence(t *testing.T) {
	tests := []struct {
		name  string
		attrs map[string]string
		get   func(models.Person) *string
		want  string
	}{
		{"givenName over first_name", map[string]string{"first_name": "b", "givenName": "a"}, func(p models.Person) *string { return p.GivenName }, "a"},
		{"first_name fallback", map[string]string{"first_name": "b"}, func(p models.Person) *string { return p.GivenName }, "b"},
		{"sn over surname", map[string]string{"sn": "a", "surname": "b", "last_name": "c"}, func(p models.Person) *string { return p.Surname }, "a"},
		{"surname over last_name", map[string]string{"surname": "b", "last_name": "c"}, func(p models.Person) *string { return p.Surname }, "b"},
		{"last_name fallback", map[string]string{"last_name": "c"}, func(p models.Person) *string { return p.Surname }, "c"},
		{"mail over email", map[string]string{"mail": "a@x", "email": "b@x"}, func(p models.Person) *string { return p.Mail }, "a@x"},
		{"email fallback", map[string]string{"email": "b@x"}, func(p models.Person) *string { return p.Mail }, "b@x"},
		{"telephoneNumber over phone", map[string]string{"telephoneNumber": "1", "phone": "2"}, func(p models.Person) *string { return p.TelephoneNumber }, "1"},
		{"phone fallback", map[string]string{"phone": "2"}, func(p models.Person) *string { return p.TelephoneNumber }, "2"},
		{"o over organization", map[string]string{"o": "a", "organization": "b"}, func(p models.Person) *string { return p.Organization }, "a"},
		{"organization fallback", map[string]string{"organization": "b"}, func(p models.Person) *string { return p.Organization }, "b"},
		{"ou over organizationalUnit", map[string]string{"ou": "a", "organizationalUnit": "b"}, func(p models.Person) *string { return p.OU }, "a"},
		{"organizationalUnit fallback", map[string]string{"organizationalUnit": "b"}, func(p models.Person) *string { return p.OU }, "b"},
		{"l over localityName", map[string]string{"l": "a", "localityName": "b", "city": "c"}, func(p models.Person) *string { return p.LocalityName }, "a"},
		{"city fallback", map[string]string{"city": "c"}, func(p models.Person) *string { return p.LocalityName }, "c"},
		{"st over stateOrProvince", map[string]string{"st": "a", "stateOrProvince": "b", "state": "c"}, func(p models.Person) *string { return p.StateOrProvince }, "a"},
		{"state fallback", map[string]string{"state": "c"}, func(p models.Person) *string { return p.StateOrProvince }, "c"},
		{"postalCode over zipCode", map[string]string{"postalCode": "1", "zipCode": "2"}, func(p models.Person) *string { return p.PostalCode }, "1"},
		{"zipCode fallback", map[string]string{"zipCode": "2"}, func(p models.Person) *string { return p.PostalCode }, "2"},
		{"uid over userID", map[string]string{"uid": "a", "userID": "b"}, func(p models.Person) *string { return p.UserID }, "a"},
		{"userID fallback", map[string]string{"userID": "b"}, func(p models.Person) *string { return p.UserID }, "b"},
		{"employee_number fallback", map[string]string{"employee_number": "7"}, func(p models.Person) *string { return p.EmployeeNumber }, "7"},
		{"employee_type fallback", map[string]string{"employee_type": "contractor"}, func(p models.Person) *string { return p.EmployeeType }, "contractor"},
		{"empty first source skipped", map[string]string{"mail": "", "email": "b@x"}, func(p models.Person) *string { return p.Mail }, "b@x"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.get(FromAttributes(tt.attrs))
			require.NotNil(t, got)
			assert.Equal(t, tt.want, *got)
		})
	}
}

func TestFromAttributesCommonName(t *testing.T) {
	tests := []struct {
		name  string
		attrs map[string]string
		want  string
	}{
		{"commonName first", map[string]string{"commonName": "a", "cn": "b", "name": "c"}, "a"},
		{"cn second", map[string]string{"cn": "b", "name": "c"}, "b"},
		{"name last", map[string]string{"name": "c"}, "c"},
		{"empty default", map[string]string{"sn": "Doe"}, ""},
		{"nil map", nil, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FromAttributes(tt.attrs).CommonName)
		})
	}
}

func TestFromAttributesLeavesAbsentFieldsNil(t *testing.T) {
	p := FromAttributes(map[string]string{"sn": "Doe", "mail": "doe@example.com", "unrelated": "x", "phone": ""})

	want := models.Person{
		CommonName: "",
		Surname:    models.StringPtr("Doe"),
		Mail:       models.StringPtr("doe@example.com"),
	}
	if diff := cmp.Diff(want, p); diff != "" {
		t.Errorf("FromAttributes() mismatch (-want +got):\n%s", diff)
	}
}

func TestToRecordFull(t *testing.T) {
	p := FromAttributes(map[string]string{"sn": "Doe", "mail": "doe@example.com"})

	rec := ToRecord(p, defaultOpts)

	orgID := models.ID("1")
	want := models.PersonRecord{
		Name:   "Doe",
		Status: models.StatusActive,
		Email:  models.StringPtr("doe@example.com"),
		OrgID:  &orgID,
	}
	if diff := cmp.Diff(want, rec); diff != "" {
		t.Errorf("ToRecord() mismatch (-want +got):\n%s", diff)
	}
}

func TestToRecordNameFallsBackToCommonName(t *testing.T) {
	rec := ToRecord(models.Person{CommonName: "John Doe"}, defaultOpts)
	assert.Equal(t, "John Doe", rec.Name)
}

func TestToRecordOrganization(t *testing.T) {
	tests := []struct {
		name        string
		person      models.Person
		opts        Options
		wantOrgName *string
		wantOrgID   *models.ID
	}{
		{
			name:        "organization preferred",
			person:      models.Person{Organization: models.StringPtr("ACME"), OU: models.StringPtr("IT")},
			opts:        defaultOpts,
			wantOrgName: models.StringPtr("ACME"),
		},
		{
			name:        "ou fallback",
			person:      models.Person{OU: models.StringPtr("IT")},
			opts:        defaultOpts,
			wantOrgName: models.StringPtr("IT"),
		},
		{
			name:      "default on create",
			person:    models.Person{},
			opts:      Options{DefaultOrgID: 4},
			wantOrgID: idPtr("4"),
		},
		{
			name:   "no default on partial update",
			person: models.Person{},
			opts:   Options{Partial: true, DefaultOrgID: 4},
		},
		{
			name:        "organization on partial update",
			person:      models.Person{Organization: models.StringPtr("ACME")},
			opts:        Options{Partial: true, DefaultOrgID: 4},
			wantOrgName: models.StringPtr("ACME"),
		},
		{
			name:   "default disabled",
			person: models.Person{},
			opts:   Options{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := ToRecord(tt.person, tt.opts)
			assert.Equal(t, tt.wantOrgName, rec.OrgName)
			assert.Equal(t, tt.wantOrgID, rec.OrgID)
		})
	}
}

func TestToRecordPartialEmitsOnlySuppliedFields(t *testing.T) {
	p := FromAttributes(map[string]string{"phone": "+1 555"})

	rec := ToRecord(p, Options{Partial: true, DefaultOrgID: 1})

	want := models.PersonRecord{Phone: models.StringPtr("+1 555")}
	if diff := cmp.Diff(want, rec); diff != "" {
		t.Errorf("ToRecord(partial) mismatch (-want +got):\n%s", diff)
	}
}

func TestRoundTripStableFields(t *testing.T) {
	inputs := []map[string]string{
		{"sn": "Doe", "mail": "doe@example.com"},
		{"cn": "John Doe", "givenName": "John", "phone": "+1 555", "title": "Engineer", "o": "ACME"},
		{"name": "Roe", "email": "roe@example.com", "ou": "IT", "telephoneNumber": "42"},
		{},
	}

	for _, attrs := range inputs {
		first := ToRecord(FromAttributes(attrs), defaultOpts)
		second := ToRecord(FromRecord(first), defaultOpts)

		assert.Equal(t, first.Name, second.Name)
		assert.Equal(t, first.Email, second.Email)
		assert.Equal(t, first.Phone, second.Phone)
		assert.Equal(t, first.Function, second.Function)
		assert.Equal(t, first.Status, second.Status)
	}
}

func TestFromRecord(t *testing.T) {
	id := models.ID("12")
	rec := models.PersonRecord{
		ID:        &id,
		Name:      "Doe",
		FirstName: models.StringPtr("John"),
		Email:     models.StringPtr("doe@example.com"),
		Phone:     models.StringPtr("+1 555"),
		Function:  models.StringPtr("Engineer"),
		OrgName:   models.StringPtr("ACME"),
	}

	want := models.Person{
		CommonName:      "Doe",
		Surname:         models.StringPtr("Doe"),
		GivenName:       models.StringPtr("John"),
		Mail:            models.StringPtr("doe@example.com"),
		TelephoneNumber: models.StringPtr("+1 555"),
		Title:           models.StringPtr("Engineer"),
		InstanceID:      models.StringPtr("12"),
	}
	if diff := cmp.Diff(want, FromRecord(rec)); diff != "" {
		t.Errorf("FromRecord() mismatch (-want +got):\n%s", diff)
	}
}

func TestFromRecordEmpty(t *testing.T) {
	p := FromRecord(models.PersonRecord{})
	assert.Equal(t, "", p.CommonName)
	assert.Nil(t, p.Surname)
	assert.Nil(t, p.InstanceID)
}

func idPtr(s string) *models.ID {
	id := models.ID(s)
	return &id
}
