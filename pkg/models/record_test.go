package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	jsonpool "github.com/ajitpratap0/idbridge/pkg/json"
)

func TestIDJSON(t *testing.T) {
	tests := []struct {
		name string
		id   ID
		want string
	}{
		{name: "numeric", id: "42", want: `42`},
		{name: "non numeric", id: "Person::42", want: `"Person::42"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := jsonpool.Marshal(tt.id)
			require.NoError(t, err)
			assert.Equal(t, tt.want, string(data))

			var back ID
			require.NoError(t, jsonpool.Unmarshal(data, &back))
			assert.Equal(t, tt.id, back)
		})
	}
}

func TestIDAcceptsStringAndNumber(t *testing.T) {
	var a, b ID
	require.NoError(t, jsonpool.Unmarshal([]byte(`"17"`), &a))
	require.NoError(t, jsonpool.Unmarshal([]byte(`17`), &b))
	assert.Equal(t, a, b)

	n, ok := a.Int()
	assert.True(t, ok)
	assert.Equal(t, int64(17), n)
}

func TestPersonRecordMarshalOmitsUnset(t *testing.T) {
	rec := PersonRecord{
		Name:   "Doe",
		Status: StatusActive,
		Email:  StringPtr("doe@example.com"),
	}

	data, err := jsonpool.Marshal(rec)
	require.NoError(t, err)
	assert.JSONEq(t, `{"name":"Doe","status":"active","email":"doe@example.com"}`, string(data))
}

func TestPersonRecordOrgNameWinsOverOrgID(t *testing.T) {
	orgID := ID("1")
	rec := PersonRecord{
		Name:    "Doe",
		OrgID:   &orgID,
		OrgName: StringPtr("ACME"),
		Extra:   map[string]interface{}{"org_id": 9, "location_id": 4},
	}

	data, err := jsonpool.Marshal(rec)
	require.NoError(t, err)
	assert.JSONEq(t, `{"name":"Doe","org_name":"ACME","location_id":4}`, string(data))
}

func TestPersonRecordMarshalNumericOrgID(t *testing.T) {
	orgID := ID("1")
	data, err := jsonpool.Marshal(PersonRecord{Name: "Doe", Status: StatusActive, OrgID: &orgID})
	require.NoError(t, err)
	assert.JSONEq(t, `{"name":"Doe","status":"active","org_id":1}`, string(data))
}

func TestPersonRecordUnmarshal(t *testing.T) {
	data := []byte(`{
		"id": "12",
		"name": "Doe",
		"first_name": "John",
		"email": "",
		"phone": "+1 555",
		"org_id": "3",
		"status": "active",
		"function": "Engineer",
		"friendlyname": "John Doe"
	}`)

	var rec PersonRecord
	require.NoError(t, jsonpool.Unmarshal(data, &rec))

	require.NotNil(t, rec.ID)
	assert.Equal(t, ID("12"), *rec.ID)
	assert.Equal(t, "Doe", rec.Name)
	assert.Equal(t, "John", Deref(rec.FirstName))
	assert.Nil(t, rec.Email, "empty strings are absent")
	assert.Equal(t, "+1 555", Deref(rec.Phone))
	require.NotNil(t, rec.OrgID)
	assert.Equal(t, ID("3"), *rec.OrgID)
	assert.Equal(t, "Engineer", Deref(rec.Function))
	assert.Equal(t, "John Doe", rec.Extra["friendlyname"])
}

func TestPersonRecordUnmarshalNumericID(t *testing.T) {
	var rec PersonRecord
	require.NoError(t, jsonpool.Unmarshal([]byte(`{"id": 7, "name": "Roe"}`), &rec))
	require.NotNil(t, rec.ID)
	assert.Equal(t, ID("7"), *rec.ID)
}

func TestDisplayName(t *testing.T) {
	assert.Equal(t, "Doe", Person{CommonName: "John Doe", Surname: StringPtr("Doe")}.DisplayName())
	assert.Equal(t, "John Doe", Person{CommonName: "John Doe"}.DisplayName())
	assert.Equal(t, "", Person{}.DisplayName())
}

func TestPersonRecordUnmarshalEmptyArray(t *testing.T) {
	var rec PersonRecord
	require.NoError(t, jsonpool.Unmarshal([]byte(`[]`), &rec))
	assert.Equal(t, PersonRecord{}, rec)
}
