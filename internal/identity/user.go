package identity

import "strings"

// DomainUser is a mail identity resolved from a login attempt.
// (Mailbox, Domain) is the durable remote identity; LocalID is the local
// account key derived from it and may differ from the email address.
type DomainUser struct {
	LocalID     string
	Mailbox     string
	Domain      string
	DisplayName string
}

// Email returns the remote mail address of the user
func (u DomainUser) Email() string {
	return u.Mailbox + "@" + u.Domain
}

// DisplayNameOrID returns the display name, or the local id when it is blank
func (u DomainUser) DisplayNameOrID() string {
	if name := strings.TrimSpace(u.DisplayName); name != "" {
		return name
	}
	return u.LocalID
}

// WithDisplayName returns a copy of u carrying the given display name
func (u DomainUser) WithDisplayName(name string) DomainUser {
	u.DisplayName = name
	return u
}

func (u DomainUser) String() string {
	return u.DisplayNameOrID() + " <" + u.Email() + ">"
}

// AccountDefaults holds the settings applied to a local account on its first login.
type AccountDefaults struct {
	Quota       string                       // empty means no quota preference
	Groups      []string                     // groups to join, created when missing
	Preferences map[string]map[string]string // app -> key -> value template
}

// splitEmail splits an address into mailbox and domain. An address with more
// than one '@' is rejected.
func splitEmail(s string) (mailbox, domain string, ok bool) {
	mailbox, domain, ok = strings.Cut(s, "@")
	if !ok || mailbox == "" || domain == "" || strings.Contains(domain, "@") {
		return "", "", false
	}
	return mailbox, domain, true
}

// SplitEmail splits a mail address into mailbox and domain.
// Returns false when s is not of the form mailbox@domain.
func SplitEmail(s string) (mailbox, domain string, ok bool) {
	return splitEmail(strings.ToLower(strings.TrimSpace(s)))
}
