// Package models provides the data models shared by idbridge connectors.
//
// Person is the canonical, backend-agnostic representation of an identity.
// PersonRecord is the native representation of a person in a CMDB backend.
// The two are related only through the pure functions of package converter.
package models

// Person is the canonical person schema. CommonName is always present (it may
// be the empty string). Every other field is nil when no source attribute
// supplied it; a nil field means "unknown / don't touch", never "clear".
type Person struct {
	// Core identity
	CommonName string  `json:"commonName"`
	GivenName  *string `json:"givenName,omitempty"`
	Surname    *string `json:"surname,omitempty"`
	Name       *string `json:"name,omitempty"`

	// Contact
	Mail            *string `json:"mail,omitempty"`
	TelephoneNumber *string `json:"telephoneNumber,omitempty"`
	Mobile          *string `json:"mobile,omitempty"`
	Facsimile       *string `json:"facsimileTelephoneNumber,omitempty"`
	HomePhone       *string `json:"homePhone,omitempty"`
	Pager           *string `json:"pager,omitempty"`

	// Organizational
	OU             *string `json:"ou,omitempty"`
	Organization   *string `json:"organization,omitempty"`
	Title          *string `json:"title,omitempty"`
	EmployeeNumber *string `json:"employeeNumber,omitempty"`
	EmployeeType   *string `json:"employeeType,omitempty"`
	Manager        *string `json:"manager,omitempty"`

	// Technical identifiers
	UserID     *string `json:"userID,omitempty"`
	InstanceID *string `json:"instanceID,omitempty"`

	// Location
	LocalityName      *string  `json:"localityName,omitempty"`
	StateOrProvince   *string  `json:"stateOrProvince,omitempty"`
	PostalCode        *string  `json:"postalCode,omitempty"`
	PostalAddress     []string `json:"postalAddress,omitempty"`
	HomePostalAddress []string `json:"homePostalAddress,omitempty"`

	// Free text
	BusinessCategory  *string `json:"businessCategory,omitempty"`
	PreferredLanguage *string `json:"preferredLanguage,omitempty"`
	Secretary         *string `json:"secretary,omitempty"`
	Description       *string `json:"description,omitempty"`
	Caption           *string `json:"caption,omitempty"`
	ElementName       *string `json:"elementName,omitempty"`
}

// DisplayName returns the surname when known, otherwise the common name.
// Backends with a single name field store this value.
func (p Person) DisplayName() string {
	if p.Surname != nil && *p.Surname != "" {
		return *p.Surname
	}
	return p.CommonName
}

// StringPtr returns a pointer to s
func StringPtr(s string) *string {
	return &s
}

// Deref returns the pointed-to string, or "" for nil
func Deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
