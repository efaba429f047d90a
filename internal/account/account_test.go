package account

import (
	"testing"

	"github.com/twiced-technology-gmbh/bugtrack/internal/clierr"
)

func testCreds() []Credential {
	return []Credential{
		{Account: Account{Username: "dev1", Role: Developer}, Password: "dev123"},
		{Account: Account{Username: "dev2", Role: Developer}, Password: "dev234"},
		{Account: Account{Username: "manager", Role: Manager}, Password: "mgr123"},
	}
}

func TestAuthenticate(t *testing.T) {
	t.Parallel()

	d, err := NewDirectory(testCreds())
	if err != nil {
		t.Fatalf("NewDirectory failed: %v", err)
	}

	tests := []struct {
		name     string
		user     string
		password string
		wantErr  bool
		wantRole Role
	}{
		{"developer", "dev1", "dev123", false, Developer},
		{"manager", "manager", "mgr123", false, Manager},
		{"wrong password", "dev1", "nope", true, ""},
		{"unknown user", "ghost", "dev123", true, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			acct, err := d.Authenticate(tt.user, tt.password)
			if tt.wantErr {
				if !clierr.Is(err, clierr.InvalidCredentials) {
					t.Fatalf("expected INVALID_CREDENTIALS, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if acct.Role != tt.wantRole {
				t.Errorf("role = %s, want %s", acct.Role, tt.wantRole)
			}
		})
	}
}

func TestNewDirectoryRejectsBadRows(t *testing.T) {
	t.Parallel()

	dup := append(testCreds(), Credential{Account: Account{Username: "dev1", Role: Developer}})
	if _, err := NewDirectory(dup); err == nil {
		t.Error("expected duplicate username error")
	}

	badRole := []Credential{{Account: Account{Username: "x", Role: "admin"}}}
	if _, err := NewDirectory(badRole); err == nil {
		t.Error("expected unknown role error")
	}
}

func TestDevelopersAndResolve(t *testing.T) {
	t.Parallel()

	d, err := NewDirectory(testCreds())
	if err != nil {
		t.Fatalf("NewDirectory failed: %v", err)
	}

	devs := d.Developers()
	if len(devs) != 2 || devs[0] != "dev1" || devs[1] != "dev2" {
		t.Errorf("Developers() = %v", devs)
	}
	if d.IsDeveloper("manager") {
		t.Error("manager is not a developer")
	}
	if _, err := d.Resolve("ghost"); !clierr.Is(err, clierr.UnknownAccount) {
		t.Errorf("Resolve(ghost) = %v, want UNKNOWN_ACCOUNT", err)
	}
}

func TestNewDirectoryCanonicalizesRoles(t *testing.T) {
	t.Parallel()

	d, err := NewDirectory([]Credential{
		{Account: Account{Username: "boss", Role: "Manager"}, Password: "x"},
		{Account: Account{Username: "dev", Role: " DEVELOPER "}, Password: "y"},
	})
	if err != nil {
		t.Fatalf("NewDirectory failed: %v", err)
	}

	boss, err := d.Authenticate("boss", "x")
	if err != nil {
		t.Fatal(err)
	}
	if boss.Role != Manager || !boss.IsManager() || boss.IsDeveloper() {
		t.Errorf("boss role = %q, IsManager=%v IsDeveloper=%v", boss.Role, boss.IsManager(), boss.IsDeveloper())
	}
	if !d.IsDeveloper("dev") {
		t.Error("dev should be a developer")
	}
}
