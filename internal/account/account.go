// Package account holds the static set of tracker accounts and their roles.
package account

import (
	"fmt"
	"strings"

	"github.com/twiced-technology-gmbh/bugtrack/internal/clierr"
)

// Role is the kind of access an account has.
type Role string

// Roles.
const (
	Developer Role = "developer"
	Manager   Role = "manager"
)

// Roles returns the valid roles in display order.
func Roles() []Role {
	return []Role{Developer, Manager}
}

// ParseRole validates a role name (case-insensitive).
func ParseRole(s string) (Role, error) {
	switch Role(strings.ToLower(strings.TrimSpace(s))) {
	case Developer:
		return Developer, nil
	case Manager:
		return Manager, nil
	}
	return "", fmt.Errorf("unknown role %q (expected developer or manager)", s)
}

// Account is a resolved user: the actor passed to authorization checks.
type Account struct {
	Username string `yaml:"username" json:"username"`
	Role     Role   `yaml:"role" json:"role"`
}

// IsManager reports whether the account has the manager role.
func (a Account) IsManager() bool { return a.Role == Manager }

// IsDeveloper reports whether the account has the developer role.
func (a Account) IsDeveloper() bool { return a.Role == Developer }

// Credential is one row of the static login table.
type Credential struct {
	Account  `yaml:",inline" mapstructure:",squash"`
	Password string `yaml:"password" mapstructure:"password"`
}

// Directory is an immutable lookup table of accounts.
type Directory struct {
	creds []Credential
	index map[string]int
}

// NewDirectory builds a Directory, rejecting blank or duplicate usernames
// and unknown roles. Roles are stored in canonical form.
func NewDirectory(creds []Credential) (*Directory, error) {
	d := &Directory{
		creds: make([]Credential, 0, len(creds)),
		index: make(map[string]int, len(creds)),
	}
	for _, c := range creds {
		if strings.TrimSpace(c.Username) == "" {
			return nil, fmt.Errorf("account username is required")
		}
		if _, dup := d.index[c.Username]; dup {
			return nil, fmt.Errorf("duplicate account %q", c.Username)
		}
		r, err := ParseRole(string(c.Role))
		if err != nil {
			return nil, fmt.Errorf("account %q: %w", c.Username, err)
		}
		c.Role = r
		d.index[c.Username] = len(d.creds)
		d.creds = append(d.creds, c)
	}
	return d, nil
}

// Lookup returns the account with the given username.
func (d *Directory) Lookup(username string) (Account, bool) {
	i, ok := d.index[username]
	if !ok {
		return Account{}, false
	}
	return d.creds[i].Account, true
}

// Resolve is Lookup returning an UNKNOWN_ACCOUNT error.
func (d *Directory) Resolve(username string) (Account, error) {
	a, ok := d.Lookup(username)
	if !ok {
		return Account{}, clierr.Newf(clierr.UnknownAccount, "unknown account %q", username).
			WithDetails(map[string]any{"username": username})
	}
	return a, nil
}

// IsDeveloper reports whether username names a developer account.
func (d *Directory) IsDeveloper(username string) bool {
	a, ok := d.Lookup(username)
	return ok && a.IsDeveloper()
}

// Authenticate checks a username/password pair against the static table.
// This is a mock login, not a credential system.
func (d *Directory) Authenticate(username, password string) (Account, error) {
	i, ok := d.index[username]
	if !ok || d.creds[i].Password != password {
		return Account{}, clierr.New(clierr.InvalidCredentials, "invalid credentials")
	}
	return d.creds[i].Account, nil
}

// Accounts returns all accounts in configured order.
func (d *Directory) Accounts() []Account {
	out := make([]Account, len(d.creds))
	for i, c := range d.creds {
		out[i] = c.Account
	}
	return out
}

// Developers returns the usernames of all developer accounts.
func (d *Directory) Developers() []string {
	var out []string
	for _, c := range d.creds {
		if c.IsDeveloper() {
			out = append(out, c.Username)
		}
	}
	return out
}
