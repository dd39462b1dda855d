package cli

import (
	"strings"

	"github.com/ajitpratap0/idbridge/pkg/errors"
)

// AccountPlaceholder is passed as uid by the orchestrator when it lists all
// accounts
const AccountPlaceholder = "__ACCOUNT__"

// Invocation holds the positional arguments shared by every operation:
// system [uid] [name] [key=value ...]
type Invocation struct {
	System     string
	UID        string
	Name       string
	Attributes map[string]string
}

// ParseInvocation splits args into an Invocation. Attribute arguments are
// split on the first "="; arguments without one are ignored.
func ParseInvocation(args []string) (Invocation, error) {
	if len(args) == 0 || strings.TrimSpace(args[0]) == "" {
		return Invocation{}, errors.Validation("system", "every operation")
	}

	inv := Invocation{
		System:     args[0],
		Attributes: make(map[string]string),
	}
	if len(args) > 1 {
		inv.UID = args[1]
	}
	if len(args) > 2 {
		inv.Name = args[2]
	}
	if len(args) > 3 {
		for _, arg := range args[3:] {
			if key, value, ok := strings.Cut(arg, "="); ok && key != "" {
				inv.Attributes[key] = value
			}
		}
	}
	return inv, nil
}

// CreateAttributes returns the attributes with the positional name merged in
func (inv Invocation) CreateAttributes() map[string]string {
	attrs := make(map[string]string, len(inv.Attributes)+1)
	for k, v := range inv.Attributes {
		attrs[k] = v
	}
	attrs["name"] = inv.Name
	return attrs
}
