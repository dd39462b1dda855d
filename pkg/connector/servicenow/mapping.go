package servicenow

import (
	"regexp"
	"strings"

	"github.com/ajitpratap0/idbridge/pkg/errors"
	"github.com/ajitpratap0/idbridge/pkg/models"
)

// User is a sys_user row. Pointer fields are omitted from writes when nil so
// that updates only carry the supplied fields.
type User struct {
	SysID          string  `json:"sys_id,omitempty"`
	UserName       *string `json:"user_name,omitempty"`
	Name           string  `json:"name,omitempty"`
	FirstName      *string `json:"first_name,omitempty"`
	LastName       *string `json:"last_name,omitempty"`
	Email          *string `json:"email,omitempty"`
	Phone          *string `json:"phone,omitempty"`
	MobilePhone    *string `json:"mobile_phone,omitempty"`
	Title          *string `json:"title,omitempty"`
	Department     *string `json:"department,omitempty"`
	Company        *string `json:"company,omitempty"`
	EmployeeNumber *string `json:"employee_number,omitempty"`
	Active         *string `json:"active,omitempty"`
}

var sysIDPattern = regexp.MustCompile(`^[0-9a-fA-F]{32}$`)

// parseSysID accepts 32 hex digit sys_ids
func parseSysID(id string) (string, error) {
	s := strings.TrimSpace(id)
	if !sysIDPattern.MatchString(s) {
		return "", errors.InvalidID(id)
	}
	return strings.ToLower(s), nil
}

// toUser maps a canonical person to a sys_user row. Full conversions set
// last_name from the surname, falling back to the common name, and mark the
// user active. Partial conversions carry only what the person supplies.
func toUser(p models.Person, partial bool) User {
	u := User{
		UserName:       present(p.UserID),
		FirstName:      present(p.GivenName),
		LastName:       present(p.Surname),
		Email:          present(p.Mail),
		Phone:          present(p.TelephoneNumber),
		MobilePhone:    present(p.Mobile),
		Title:          present(p.Title),
		Department:     present(p.OU),
		Company:        present(p.Organization),
		EmployeeNumber: present(p.EmployeeNumber),
	}

	if u.LastName == nil && p.CommonName != "" {
		u.LastName = models.StringPtr(p.CommonName)
	}
	if !partial {
		u.Active = models.StringPtr("true")
	}
	return u
}

// fromUser maps a sys_user row back to a canonical person. CommonName is the
// display name, else first and last name joined.
func fromUser(u User) models.Person {
	p := models.Person{
		CommonName:      u.Name,
		UserID:          present(u.UserName),
		GivenName:       present(u.FirstName),
		Surname:         present(u.LastName),
		Mail:            present(u.Email),
		TelephoneNumber: present(u.Phone),
		Mobile:          present(u.MobilePhone),
		Title:           present(u.Title),
		OU:              present(u.Department),
		Organization:    present(u.Company),
		EmployeeNumber:  present(u.EmployeeNumber),
	}

	if p.CommonName == "" {
		p.CommonName = strings.TrimSpace(models.Deref(u.FirstName) + " " + models.Deref(u.LastName))
	}
	if u.SysID != "" {
		p.InstanceID = models.StringPtr(u.SysID)
	}
	return p
}

// toRecord flattens a sys_user row into the native record shape
func toRecord(u User) models.PersonRecord {
	rec := models.PersonRecord{
		Name:      models.Deref(u.LastName),
		FirstName: present(u.FirstName),
		Email:     present(u.Email),
		Phone:     present(u.Phone),
		Function:  present(u.Title),
		OrgName:   present(u.Company),
	}
	if rec.Name == "" {
		rec.Name = u.Name
	}
	if u.SysID != "" {
		id := models.ID(u.SysID)
		rec.ID = &id
	}
	if models.Deref(u.Active) == "true" {
		rec.Status = models.StatusActive
	}
	if u.UserName != nil {
		rec.Extra = map[string]interface{}{"user_name": *u.UserName}
	}
	return rec
}

func present(s *string) *string {
	if s == nil || *s == "" {
		return nil
	}
	return s
}
