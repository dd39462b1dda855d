// Package converter maps between orchestrator attribute sets, the canonical
// models.Person and the native models.PersonRecord.
//
// All functions are pure. Source attributes are looked up in a fixed
// precedence order; the first present, non-empty key wins. A canonical field
// with no source stays nil.
package converter

import (
	"strconv"

	"github.com/ajitpratap0/idbridge/pkg/models"
)

// Source key precedence per canonical field.
var (
	commonNameKeys      = []string{"commonName", "cn", "name"}
	givenNameKeys       = []string{"givenName", "first_name"}
	surnameKeys         = []string{"sn", "surname", "last_name"}
	mailKeys            = []string{"mail", "email"}
	telephoneNumberKeys = []string{"telephoneNumber", "phone"}
	mobileKeys          = []string{"mobile"}
	organizationKeys    = []string{"o", "organization"}
	ouKeys              = []string{"ou", "organizationalUnit"}
	titleKeys           = []string{"title"}
	employeeNumberKeys  = []string{"employeeNumber", "employee_number"}
	employeeTypeKeys    = []string{"employeeType", "employee_type"}
	managerKeys         = []string{"manager"}
	localityNameKeys    = []string{"l", "localityName", "city"}
	stateOrProvinceKeys = []string{"st", "stateOrProvince", "state"}
	postalCodeKeys      = []string{"postalCode", "zipCode"}
	userIDKeys          = []string{"uid", "userID"}
	descriptionKeys     = []string{"description"}
)

// FromAttributes converts an orchestrator attribute map to a canonical person.
// CommonName falls back to "" when no source is present.
func FromAttributes(attrs map[string]string) models.Person {
	p := models.Person{
		CommonName: models.Deref(first(attrs, commonNameKeys)),
	}

	p.GivenName = first(attrs, givenNameKeys)
	p.Surname = first(attrs, surnameKeys)
	p.Mail = first(attrs, mailKeys)
	p.TelephoneNumber = first(attrs, telephoneNumberKeys)
	p.Mobile = first(attrs, mobileKeys)
	p.OU = first(attrs, ouKeys)
	p.Organization = first(attrs, organizationKeys)
	p.Title = first(attrs, titleKeys)
	p.EmployeeNumber = first(attrs, employeeNumberKeys)
	p.EmployeeType = first(attrs, employeeTypeKeys)
	p.UserID = first(attrs, userIDKeys)
	p.Manager = first(attrs, managerKeys)
	p.LocalityName = first(attrs, localityNameKeys)
	p.StateOrProvince = first(attrs, stateOrProvinceKeys)
	p.PostalCode = first(attrs, postalCodeKeys)
	p.Description = first(attrs, descriptionKeys)

	return p
}

// Options controls ToRecord
type Options struct {
	// Partial marks an update: only supplied fields are emitted and no default
	// organization is introduced.
	Partial bool
	// DefaultOrgID is assigned on full conversions when the person has neither
	// organization nor ou. Zero disables the default.
	DefaultOrgID int
}

// ToRecord converts a canonical person to a native record. The record name is
// the surname when present, else the common name. Organization resolves to
// organization, then ou; with neither, full conversions get DefaultOrgID.
func ToRecord(p models.Person, opts Options) models.PersonRecord {
	rec := models.PersonRecord{
		Name: p.DisplayName(),
	}
	if !opts.Partial {
		rec.Status = models.StatusActive
	}

	rec.FirstName = present(p.GivenName)
	rec.Email = present(p.Mail)
	rec.Phone = present(p.TelephoneNumber)
	rec.Function = present(p.Title)

	switch {
	case present(p.Organization) != nil:
		rec.OrgName = present(p.Organization)
	case present(p.OU) != nil:
		rec.OrgName = present(p.OU)
	case !opts.Partial && opts.DefaultOrgID > 0:
		id := models.ID(strconv.Itoa(opts.DefaultOrgID))
		rec.OrgID = &id
	}

	return rec
}

// FromRecord converts a native record back to a canonical person. The backend
// keeps a single name field, so both CommonName and Surname receive it.
func FromRecord(rec models.PersonRecord) models.Person {
	p := models.Person{
		CommonName: rec.Name,
	}

	if rec.Name != "" {
		p.Surname = models.StringPtr(rec.Name)
	}
	p.GivenName = present(rec.FirstName)
	p.Mail = present(rec.Email)
	p.TelephoneNumber = present(rec.Phone)
	p.Title = present(rec.Function)
	if rec.ID != nil && rec.ID.String() != "" {
		p.InstanceID = models.StringPtr(rec.ID.String())
	}

	return p
}

func first(attrs map[string]string, keys []string) *string {
	for _, k := range keys {
		if v, ok := attrs[k]; ok && v != "" {
			return models.StringPtr(v)
		}
	}
	return nil
}

func present(s *string) *string {
	if s == nil || *s == "" {
		return nil
	}
	return s
}
