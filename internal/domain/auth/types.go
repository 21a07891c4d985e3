// Package auth contains domain-level types for role selection and credential checks.
// It is pure and free of framework/adapter concerns.
package auth

import "crypto/subtle"

// Role represents a gated audience of the application.
// Keep string form for easy persistence in session records.
type Role string

const (
	RoleNone       Role = ""
	RoleGovernment Role = "Government"
	RoleIndustry   Role = "Industry"
)

// Valid reports whether r is one of the gated roles.
func (r Role) Valid() bool {
	return r == RoleGovernment || r == RoleIndustry
}

// String implements fmt.Stringer.
func (r Role) String() string { return string(r) }

// Credentials maps a role to its username -> password accounts.
type Credentials map[Role]map[string]string

// DefaultCredentials is the static account table: one admin and one user account per role.
//
//nolint:gochecknoglobals // read-only lookup table
var DefaultCredentials = Credentials{
	RoleGovernment: {"admin": "gov_admin", "user": "gov_user"},
	RoleIndustry:   {"admin": "ind_admin", "user": "ind_user"},
}

// Verify reports whether username/password match an account of the given role.
// Unknown usernames and wrong passwords are indistinguishable to the caller.
func (c Credentials) Verify(role Role, username, password string) bool {
	accounts, ok := c[role]
	if !ok {
		return false
	}
	want, ok := accounts[username]
	if !ok {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(want), []byte(password)) == 1
}
