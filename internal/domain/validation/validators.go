// Package validation holds the field predicates applied to employee input
// before it reaches the store.
package validation

import (
	"errors"
	"regexp"
	"strconv"
	"strings"
)

// Word characters are Unicode letters, digits and marks plus underscore.
var emailPattern = regexp.MustCompile(`^[\p{L}\p{N}\p{M}_.-]+@[\p{L}\p{N}\p{M}_.-]+\.[\p{L}\p{N}\p{M}_]+$`)

// IDSet is the set of employee ids already in use.
type IDSet interface {
	Contains(id string) bool
}

// KeySet is a plain IDSet backed by a map.
type KeySet map[string]struct{}

// NewKeySet builds a KeySet from the given ids.
func NewKeySet(ids ...string) KeySet {
	s := make(KeySet, len(ids))
	for _, id := range ids {
		s[id] = struct{}{}
	}
	return s
}

// Contains implements IDSet.
func (s KeySet) Contains(id string) bool {
	_, ok := s[id]
	return ok
}

// ValidID reports whether candidate is a well-formed id that is not taken yet.
func ValidID(candidate string, existing IDSet) bool {
	if !isDigits(candidate) {
		return false
	}
	return existing == nil || !existing.Contains(candidate)
}

// ExistingID reports whether candidate names a stored employee.
func ExistingID(candidate string, existing IDSet) bool {
	return existing != nil && existing.Contains(candidate)
}

// ValidSalary reports whether candidate parses as a non-negative decimal
// number. Hex floats are not salaries.
func ValidSalary(candidate string) bool {
	candidate = strings.TrimSpace(candidate)
	if strings.ContainsAny(candidate, "xX") {
		return false
	}
	v, err := strconv.ParseFloat(candidate, 64)
	if err != nil && !errors.Is(err, strconv.ErrRange) {
		return false
	}
	return v >= 0
}

// ValidEmail performs a syntactic user@domain.tld check.
func ValidEmail(candidate string) bool {
	if candidate == "" {
		return false
	}
	return emailPattern.MatchString(candidate)
}

// NotEmpty is the predicate for required free-text fields.
func NotEmpty(candidate string) bool {
	return candidate != ""
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
