package profile

import (
	"errors"
	"testing"
)

func TestParseRole(t *testing.T) {
	for _, valid := range []string{"housekeeper", "household", "housekeeper and household"} {
		role, err := ParseRole(valid)
		if err != nil {
			t.Errorf("ParseRole(%q): %v", valid, err)
		}
		if string(role) != valid {
			t.Errorf("ParseRole(%q) = %q", valid, role)
		}
	}
	for _, invalid := range []string{"", "admin", "Housekeeper"} {
		if _, err := ParseRole(invalid); !errors.Is(err, ErrInvalidRole) {
			t.Errorf("ParseRole(%q) err = %v, want ErrInvalidRole", invalid, err)
		}
	}
}

func TestRoleSidesOfBoth(t *testing.T) {
	if !RoleBoth.IsHousekeeper() || !RoleBoth.IsHousehold() {
		t.Error("combined role must act on both sides")
	}
	if RoleHousekeeper.IsHousehold() {
		t.Error("housekeeper role reported as household")
	}
	if RoleHousehold.IsHousekeeper() {
		t.Error("household role reported as housekeeper")
	}
}

func TestSummaryNamePrefersDisplayName(t *testing.T) {
	s := Summary{FirstName: "Maria", LastName: "Santos", DisplayName: "Mitch"}
	if got := s.Name(); got != "Mitch" {
		t.Fatalf("Name() = %q, want Mitch", got)
	}
}

func TestSummaryNameFallsBackToParts(t *testing.T) {
	s := Summary{FirstName: "Maria", LastName: "Santos"}
	if got := s.Name(); got != "Maria Santos" {
		t.Fatalf("Name() = %q, want %q", got, "Maria Santos")
	}
	only := Summary{FirstName: "Maria"}
	if got := only.Name(); got != "Maria" {
		t.Fatalf("Name() = %q, want trimmed single part", got)
	}
}
