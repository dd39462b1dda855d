package output

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ajitpratap0/idbridge/pkg/converter"
	"github.com/ajitpratap0/idbridge/pkg/models"
)

func lines(t *testing.T, fn func(w *Writer)) []string {
	t.Helper()
	var buf bytes.Buffer
	w := NewWriter(&buf)
	fn(w)
	require.NoError(t, w.Flush())
	return strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n")
}

func TestPersonFullRecord(t *testing.T) {
	p := converter.FromAttributes(map[string]string{
		"cn":               "John Doe",
		"sn":               "Doe",
		"givenName":        "John",
		"mail":             "doe@example.com",
		"phone":            "+1 555",
		"title":            "Engineer",
		"o":                "ACME",
		"ou":               "IT",
		"uid":              "jdoe",
		"employeeNumber":   "42",
		"employeeType":     "staff",
		"manager":          "boss",
		"l":                "Berlin",
		"st":               "BE",
		"postalCode":       "10115",
		"description":      "test user",
		"unknownAttribute": "ignored",
	})
	p.InstanceID = models.StringPtr("7")

	got := lines(t, func(w *Writer) { w.Person(p, "") })
	assert.Equal(t, []string{
		"__UID__:7",
		"__NAME__:Doe",
		"name:Doe",
		"first_name:John",
		"email:doe@example.com",
		"phone:+1 555",
		"function:Engineer",
		"organization:ACME",
		"ou:IT",
		"userID:jdoe",
		"employeeNumber:42",
		"employeeType:staff",
		"manager:boss",
		"localityName:Berlin",
		"stateOrProvince:BE",
		"postalCode:10115",
		"description:test user",
		"status:active",
	}, got)
}

func TestPersonMinimalRecord(t *testing.T) {
	got := lines(t, func(w *Writer) {
		w.Person(models.Person{CommonName: "John Doe", InstanceID: models.StringPtr("7")}, "12")
	})
	assert.Equal(t, []string{"__UID__:12", "__NAME__:John Doe", "name:John Doe", "status:active"}, got)
}

func TestPersonWithoutIDOrName(t *testing.T) {
	got := lines(t, func(w *Writer) { w.Person(models.Person{}, "") })
	assert.Equal(t, []string{"status:active"}, got)
}

func TestPersonsSeparated(t *testing.T) {
	got := lines(t, func(w *Writer) {
		w.Linef("Found %d total persons", 2)
		w.Persons([]models.Person{
			{CommonName: "A", InstanceID: models.StringPtr("1")},
			{CommonName: "B", InstanceID: models.StringPtr("2")},
		})
	})
	assert.Equal(t, []string{
		"Found 2 total persons",
		"__UID__:1", "__NAME__:A", "name:A", "status:active", "---",
		"__UID__:2", "__NAME__:B", "name:B", "status:active", "---",
	}, got)
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, errors.New("closed pipe") }

func TestFlushReportsWriteError(t *testing.T) {
	w := NewWriter(failingWriter{})
	w.Line("Test successful")
	assert.EqualError(t, w.Flush(), "closed pipe")
}
