package models

import "regexp"

// Group identifiers follow the operator's queue numbering, e.g. "1.1", "3.2".
var reGroup = regexp.MustCompile(`^\d\.\d$`)

// ValidGroup reports whether s is a well-formed group identifier.
func ValidGroup(s string) bool {
	return reGroup.MatchString(s)
}
