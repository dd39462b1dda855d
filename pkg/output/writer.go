// Package output writes persons in the line protocol read by the identity
// orchestrator's command connector: one "key:value" pair per line, starting
// with the __UID__ and __NAME__ markers and ending with the account status.
package output

import (
	"bufio"
	"fmt"
	"io"

	"github.com/ajitpratap0/idbridge/pkg/models"
)

// Protocol markers
const (
	UIDKey    = "__UID__"
	NameKey   = "__NAME__"
	Separator = "---"
	// StatusLine closes every record. Accounts are always reported active.
	StatusLine = "status:active"
)

// Writer buffers protocol lines for w. The first write error is kept and
// returned by Flush; later writes are dropped.
type Writer struct {
	w   *bufio.Writer
	err error
}

// NewWriter creates a Writer on w
func NewWriter(w io.Writer) *Writer {
	return &Writer{w: bufio.NewWriter(w)}
}

// Person writes one record. uid overrides the person's instance id when
// non-empty. Lines for absent attributes are skipped.
func (w *Writer) Person(p models.Person, uid string) {
	if uid == "" {
		uid = models.Deref(p.InstanceID)
	}
	if uid != "" {
		w.pair(UIDKey, uid)
	}

	name := p.DisplayName()
	if name != "" {
		w.pair(NameKey, name)
		w.pair("name", name)
	}

	for _, f := range []struct {
		key   string
		value *string
	}{
		{"first_name", p.GivenName},
		{"email", p.Mail},
		{"phone", p.TelephoneNumber},
		{"function", p.Title},
		{"organization", p.Organization},
		{"ou", p.OU},
		{"userID", p.UserID},
		{"employeeNumber", p.EmployeeNumber},
		{"employeeType", p.EmployeeType},
		{"manager", p.Manager},
		{"localityName", p.LocalityName},
		{"stateOrProvince", p.StateOrProvince},
		{"postalCode", p.PostalCode},
		{"description", p.Description},
	} {
		if v := models.Deref(f.value); v != "" {
			w.pair(f.key, v)
		}
	}

	w.Line(StatusLine)
}

// Persons writes each record followed by a separator line
func (w *Writer) Persons(persons []models.Person) {
	for _, p := range persons {
		w.Person(p, "")
		w.Line(Separator)
	}
}

// Line writes a free-form line
func (w *Writer) Line(s string) {
	if w.err != nil {
		return
	}
	_, w.err = fmt.Fprintln(w.w, s)
}

// Linef writes a formatted line
func (w *Writer) Linef(format string, args ...interface{}) {
	w.Line(fmt.Sprintf(format, args...))
}

// Flush writes buffered lines and returns the first error encountered
func (w *Writer) Flush() error {
	if w.err != nil {
		return w.err
	}
	w.err = w.w.Flush()
	return w.err
}

func (w *Writer) pair(key, value string) {
	w.Line(key + ":" + value)
}
