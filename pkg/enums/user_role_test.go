package enums

import "testing"

func TestUserRoleParseAndValidity(t *testing.T) {
	role, err := ParseUserRole("ADMIN")
	if err != nil || role != UserRoleAdmin {
		t.Fatalf("unexpected parse result %v %v", role, err)
	}
	if _, err := ParseUserRole("admin"); err == nil {
		t.Fatal("roles are case sensitive")
	}
	if UserRole("OWNER").IsValid() {
		t.Fatal("unknown role must be invalid")
	}
}

func TestUserRoleCapabilities(t *testing.T) {
	if !UserRoleAdmin.CanEdit() || !UserRoleAdmin.CanViewSensitive() {
		t.Fatal("admin must edit and view sensitive data")
	}
	if UserRoleViewer.CanEdit() || UserRoleViewer.CanViewSensitive() {
		t.Fatal("viewer is read-only with masked fields")
	}
}
