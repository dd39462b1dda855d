package models

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"

	jsonpool "github.com/ajitpratap0/idbridge/pkg/json"
)

// StatusActive is the status given to every person written by idbridge
const StatusActive = "active"

// ID is a backend object identifier. CMDB backends report ids either as JSON
// numbers or as numeric strings; ID accepts both and encodes numeric ids as
// numbers.
type ID string

// String returns the identifier text
func (id ID) String() string {
	return string(id)
}

// Int returns the identifier as an integer when it is numeric
func (id ID) Int() (int64, bool) {
	n, err := strconv.ParseInt(string(id), 10, 64)
	if err != nil {
		return 0, false
	}
	return n, true
}

// MarshalJSON encodes numeric ids as numbers and everything else as strings
func (id ID) MarshalJSON() ([]byte, error) {
	if n, ok := id.Int(); ok {
		return strconv.AppendInt(nil, n, 10), nil
	}
	return jsonpool.Marshal(string(id))
}

// UnmarshalJSON accepts a JSON number or string
func (id *ID) UnmarshalJSON(data []byte) error {
	s := strings.TrimSpace(string(data))
	switch {
	case s == "null":
		return nil
	case strings.HasPrefix(s, `"`):
		var str string
		if err := jsonpool.Unmarshal(data, &str); err != nil {
			return err
		}
		*id = ID(str)
	default:
		*id = ID(s)
	}
	return nil
}

// PersonRecord is the native CMDB person record (an iTop "Person" object).
// Optional fields are nil when absent so that partial updates only carry the
// fields the caller supplied. OrgName and OrgID are mutually exclusive on the
// wire; OrgName wins when both are set. Backend fields without a dedicated
// member are kept in Extra.
type PersonRecord struct {
	ID        *ID
	Name      string
	Status    string
	FirstName *string
	Email     *string
	Phone     *string
	OrgID     *ID
	OrgName   *string
	Function  *string

	Extra map[string]interface{}
}

// MarshalJSON emits only populated fields, with Extra flattened into the object
func (r PersonRecord) MarshalJSON() ([]byte, error) {
	m := make(map[string]interface{}, len(r.Extra)+9)
	for k, v := range r.Extra {
		m[k] = v
	}

	if r.ID != nil {
		m["id"] = *r.ID
	}
	if r.Name != "" {
		m["name"] = r.Name
	}
	if r.Status != "" {
		m["status"] = r.Status
	}
	putString(m, "first_name", r.FirstName)
	putString(m, "email", r.Email)
	putString(m, "phone", r.Phone)
	putString(m, "function", r.Function)

	switch {
	case r.OrgName != nil:
		m["org_name"] = *r.OrgName
		delete(m, "org_id")
	case r.OrgID != nil:
		m["org_id"] = *r.OrgID
		delete(m, "org_name")
	}

	return jsonpool.Marshal(m)
}

// UnmarshalJSON decodes a backend object's fields. Empty strings are treated
// as absent.
func (r *PersonRecord) UnmarshalJSON(data []byte) error {
	// PHP backends encode an empty field set as [].
	if s := strings.TrimSpace(string(data)); s == "[]" || s == "null" {
		*r = PersonRecord{}
		return nil
	}

	var raw map[string]interface{}
	if err := jsonpool.Decode(bytes.NewReader(data), &raw); err != nil {
		return err
	}

	*r = PersonRecord{}
	for k, v := range raw {
		switch k {
		case "id":
			r.ID = idFrom(v)
		case "name":
			r.Name = stringFrom(v)
		case "status":
			r.Status = stringFrom(v)
		case "first_name":
			r.FirstName = optString(v)
		case "email":
			r.Email = optString(v)
		case "phone":
			r.Phone = optString(v)
		case "function":
			r.Function = optString(v)
		case "org_id":
			r.OrgID = idFrom(v)
		case "org_name":
			r.OrgName = optString(v)
		default:
			if r.Extra == nil {
				r.Extra = make(map[string]interface{})
			}
			r.Extra[k] = v
		}
	}
	return nil
}

func putString(m map[string]interface{}, key string, v *string) {
	if v != nil {
		m[key] = *v
	}
}

func stringFrom(v interface{}) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case jsonpool.Number:
		return t.String()
	default:
		return fmt.Sprint(t)
	}
}

func optString(v interface{}) *string {
	s := stringFrom(v)
	if s == "" {
		return nil
	}
	return &s
}

func idFrom(v interface{}) *ID {
	s := stringFrom(v)
	if s == "" {
		return nil
	}
	id := ID(s)
	return &id
}
