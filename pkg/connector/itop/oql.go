package itop

import (
	"sort"
	"strconv"
	"strings"
)

var oqlEscaper = strings.NewReplacer(
	`\`, `\\`,
	`'`, `\'`,
	`%`, `\%`,
	`_`, `\_`,
)

// EscapeLike escapes term for use inside a quoted OQL LIKE pattern. Quotes and
// backslashes cannot terminate the literal; % and _ match themselves.
func EscapeLike(term string) string {
	return oqlEscaper.Replace(term)
}

// SearchQuery returns the OQL selecting persons whose name, first name or
// email contains term. An empty term selects every person.
func SearchQuery(term string) string {
	if term == "" {
		return "SELECT " + ClassPerson
	}

	pattern := "'%" + EscapeLike(term) + "%'"
	return "SELECT " + ClassPerson +
		" WHERE name LIKE " + pattern +
		" OR first_name LIKE " + pattern +
		" OR email LIKE " + pattern
}

// sortKeys orders composite keys by their numeric id suffix. Non-numeric
// suffixes sort after numeric ones, lexically.
func sortKeys(keys []string, prefix string) {
	sort.SliceStable(keys, func(i, j int) bool {
		a, aok := keyID(keys[i], prefix)
		b, bok := keyID(keys[j], prefix)
		switch {
		case aok && bok:
			return a < b
		case aok != bok:
			return aok
		default:
			return keys[i] < keys[j]
		}
	})
}

func keyID(key, prefix string) (int64, bool) {
	n, err := strconv.ParseInt(strings.TrimPrefix(key, prefix), 10, 64)
	return n, err == nil
}
