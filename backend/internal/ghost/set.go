package ghost

import (
	"sort"

	"github.com/ifatinha/ghost-following/backend/internal/github"
	apperrors "github.com/ifatinha/ghost-following/backend/pkg/errors"
)

// LoginField is the record key holding the account identifier
const LoginField = "login"

// Set is an unordered collection of unique logins
type Set map[string]struct{}

// NewSet builds a set from logins
func NewSet(logins ...string) Set {
	s := make(Set, len(logins))
	for _, l := range logins {
		s[l] = struct{}{}
	}
	return s
}

// Has reports whether login is in the set
func (s Set) Has(login string) bool {
	_, ok := s[login]
	return ok
}

// Sorted returns the logins in lexicographic order
func (s Set) Sorted() []string {
	out := make([]string, 0, len(s))
	for l := range s {
		out = append(out, l)
	}
	sort.Strings(out)
	return out
}

// Logins extracts the login of every record. A record without a non-empty
// string login fails the whole extraction.
func Logins(records []github.Record) (Set, error) {
	s := make(Set, len(records))
	for i, rec := range records {
		login, ok := rec[LoginField].(string)
		if !ok || login == "" {
			return nil, apperrors.NewMissingFieldError(LoginField, i)
		}
		s[login] = struct{}{}
	}
	return s, nil
}

// Difference returns the elements of a that are not in b
func Difference(a, b Set) Set {
	out := make(Set)
	for l := range a {
		if !b.Has(l) {
			out[l] = struct{}{}
		}
	}
	return out
}

// DifferenceList is Difference over plain slices, sorted
func DifferenceList(a, b []string) []string {
	return Difference(NewSet(a...), NewSet(b...)).Sorted()
}
