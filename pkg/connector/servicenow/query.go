package servicenow

import "strings"

// searchFields are matched with LIKE by SearchQuery
var searchFields = []string{"name", "first_name", "email"}

// orderBy keeps search results stable across calls
const orderBy = "ORDERBYuser_name"

// EscapeQuery escapes the encoded query separator. A literal caret is
// written as two carets.
func EscapeQuery(term string) string {
	return strings.ReplaceAll(term, "^", "^^")
}

// SearchQuery returns the encoded query matching term against name, first
// name and email. An empty term lists all users.
func SearchQuery(term string) string {
	if term == "" {
		return orderBy
	}

	escaped := EscapeQuery(term)
	clauses := make([]string, 0, len(searchFields)+1)
	for i, f := range searchFields {
		op := ""
		if i > 0 {
			op = "OR"
		}
		clauses = append(clauses, op+f+"LIKE"+escaped)
	}
	clauses = append(clauses, orderBy)
	return strings.Join(clauses, "^")
}
