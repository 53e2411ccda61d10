package auth

import (
	"fmt"
	"sort"
	"strings"
)

// Wildcard is the token that matches any part of a requested permission.
const Wildcard = "*"

// Permission is a parsed capability descriptor: an ordered sequence of
// parts, each part being either the wildcard or a set of tokens. The
// textual form is "part1:part2:..." with parts written "tokA,tokB".
// A Permission is immutable after construction.
type Permission struct {
	parts []permissionPart
	text  string
}

type permissionPart struct {
	wildcard bool
	tokens   []string // sorted, de-duplicated
	set      map[string]struct{}
}

// MalformedPermissionError is returned by ParsePermission when the input
// does not conform to the permission grammar. It is always raised at parse
// time, never during a Grants check.
type MalformedPermissionError struct {
	Input  string
	Reason string
}

func (e *MalformedPermissionError) Error() string {
	return fmt.Sprintf("malformed permission %q: %s", e.Input, e.Reason)
}

// ParsePermission parses a permission string. It fails if the string is
// empty, any part is empty, any token contains characters outside
// [A-Za-z0-9_-], or a part mixes the wildcard with other tokens.
func ParsePermission(s string) (Permission, error) {
	if s == "" {
		return Permission{}, &MalformedPermissionError{Input: s, Reason: "permission string is empty"}
	}

	rawParts := strings.Split(s, ":")
	parts := make([]permissionPart, 0, len(rawParts))
	for _, raw := range rawParts {
		if raw == "" {
			return Permission{}, &MalformedPermissionError{Input: s, Reason: "permission contains an empty part"}
		}

		rawTokens := strings.Split(raw, ",")
		part := permissionPart{
			tokens: make([]string, 0, len(rawTokens)),
			set:    make(map[string]struct{}, len(rawTokens)),
		}
		for _, tok := range rawTokens {
			switch {
			case tok == "":
				return Permission{}, &MalformedPermissionError{Input: s, Reason: "part contains an empty token"}
			case tok == Wildcard:
				if len(rawTokens) > 1 {
					return Permission{}, &MalformedPermissionError{
						Input:  s,
						Reason: "wildcard must be the sole token of its part",
					}
				}
				part.wildcard = true
			case !isValidToken(tok):
				return Permission{}, &MalformedPermissionError{
					Input:  s,
					Reason: fmt.Sprintf("token %q contains invalid characters", tok),
				}
			}
			if _, seen := part.set[tok]; !seen {
				part.set[tok] = struct{}{}
				part.tokens = append(part.tokens, tok)
			}
		}
		sort.Strings(part.tokens)
		parts = append(parts, part)
	}

	return Permission{parts: parts, text: canonicalText(parts)}, nil
}

// MustParsePermission is like ParsePermission but panics on error. Intended
// for well-known permission constants.
func MustParsePermission(s string) Permission {
	p, err := ParsePermission(s)
	if err != nil {
		panic(err)
	}
	return p
}

// Grants reports whether holding p authorizes the requested permission.
//
// A grant part that is the wildcard matches anything at its position. Once
// the grant runs out of explicit parts, all further requested parts are
// implicitly covered ("data" alone covers "data:read"). A non-wildcard
// grant part matches only when the requested part exists, is not itself the
// wildcard, and every requested token is present in the grant part.
func (p Permission) Grants(requested Permission) bool {
	for i, g := range p.parts {
		if g.wildcard {
			continue
		}
		if i >= len(requested.parts) {
			// The grant demands a part the request does not
			// specify; a narrower grant cannot satisfy the
			// broader scope.
			return false
		}
		r := requested.parts[i]
		if r.wildcard {
			return false
		}
		for _, tok := range r.tokens {
			if _, ok := g.set[tok]; !ok {
				return false
			}
		}
	}
	return true
}

// Equal reports structural equality: same part count, and per position the
// same wildcard status and token set.
func (p Permission) Equal(other Permission) bool {
	if len(p.parts) != len(other.parts) {
		return false
	}
	for i, a := range p.parts {
		b := other.parts[i]
		if a.wildcard != b.wildcard || len(a.tokens) != len(b.tokens) {
			return false
		}
		for j, tok := range a.tokens {
			if b.tokens[j] != tok {
				return false
			}
		}
	}
	return true
}

// String returns the canonical textual form: parts joined by ":", tokens
// within a part sorted and joined by ",".
func (p Permission) String() string {
	return p.text
}

// IsZero reports whether p is the zero Permission (never produced by a
// successful parse).
func (p Permission) IsZero() bool {
	return len(p.parts) == 0
}

func canonicalText(parts []permissionPart) string {
	var b strings.Builder
	for i, part := range parts {
		if i > 0 {
			b.WriteByte(':')
		}
		if part.wildcard {
			b.WriteByte('*')
			continue
		}
		b.WriteString(strings.Join(part.tokens, ","))
	}
	return b.String()
}

func isValidToken(tok string) bool {
	for i := 0; i < len(tok); i++ {
		c := tok[i]
		switch {
		case c >= 'a' && c <= 'z':
		case c >= 'A' && c <= 'Z':
		case c >= '0' && c <= '9':
		case c == '_' || c == '-':
		default:
			return false
		}
	}
	return true
}
