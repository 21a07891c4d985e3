package auth

import (
	"testing"
)

func TestCredentials_VerifyStaticTable(t *testing.T) {
	for role, accounts := range DefaultCredentials {
		for user, pass := range accounts {
			if !DefaultCredentials.Verify(role, user, pass) {
				t.Fatalf("expected %s/%s to verify for %s", user, pass, role)
			}
		}
	}
}

func TestCredentials_VerifyRejects(t *testing.T) {
	tests := []struct {
		name     string
		role     Role
		username string
		password string
	}{
		{name: "unknown user", role: RoleIndustry, username: "nobody", password: "ind_user"},
		{name: "wrong password", role: RoleIndustry, username: "user", password: "nope"},
		{name: "other role account", role: RoleGovernment, username: "user", password: "ind_user"},
		{name: "case sensitive", role: RoleIndustry, username: "User", password: "ind_user"},
		{name: "no role", role: RoleNone, username: "user", password: "ind_user"},
		{name: "empty", role: RoleIndustry},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if DefaultCredentials.Verify(tt.role, tt.username, tt.password) {
				t.Fatalf("did not expect %q/%q to verify", tt.username, tt.password)
			}
		})
	}
}

func TestRoleValid(t *testing.T) {
	if !RoleIndustry.Valid() || !RoleGovernment.Valid() {
		t.Fatalf("gated roles must be valid")
	}
	if Role("Public").Valid() {
		t.Fatalf("Public is not a gated role")
	}
	if RoleNone.Valid() {
		t.Fatalf("RoleNone must not be valid")
	}
}
