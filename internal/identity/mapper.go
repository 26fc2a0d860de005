package identity

import "strings"

// encodedAt is how some clients transmit '@' inside a login name.
const encodedAt = "%40"

// Mapper turns raw login strings into candidate domain users.
type Mapper struct {
	rules   []DomainRule
	byName  map[string]MappingRule
	enabled bool
}

// NewMapper creates a mapper for the given rules in priority order.
// When enabled is false all rules are ignored: addresses map verbatim and
// bare names resolve to nothing.
func NewMapper(rules []DomainRule, enabled bool) *Mapper {
	m := &Mapper{
		byName:  make(map[string]MappingRule, len(rules)),
		enabled: enabled,
	}
	for _, r := range rules {
		domain := strings.ToLower(r.Domain)
		if _, dup := m.byName[domain]; dup {
			continue
		}
		m.byName[domain] = r.Rule
		m.rules = append(m.rules, DomainRule{Domain: domain, Rule: r.Rule})
	}
	return m
}

// Rule returns the mapping rule configured for a domain.
func (m *Mapper) Rule(domain string) (MappingRule, bool) {
	if !m.enabled {
		return MappingRule{}, false
	}
	r, ok := m.byName[strings.ToLower(domain)]
	return r, ok
}

// LocalIDFor applies the forward transform for mailbox@domain.
// Domains without a rule use the full address.
func (m *Mapper) LocalIDFor(mailbox, domain string) string {
	mailbox = strings.ToLower(mailbox)
	domain = strings.ToLower(domain)
	if r, ok := m.Rule(domain); ok {
		return r.LocalID(mailbox)
	}
	return mailbox + "@" + domain
}

// Normalize lowercases a login and decodes an encoded '@' when the login
// carries no literal one.
func Normalize(rawLogin string) string {
	login := strings.ToLower(strings.TrimSpace(rawLogin))
	if !strings.Contains(login, "@") && strings.Contains(login, encodedAt) {
		login = strings.ReplaceAll(login, encodedAt, "@")
	}
	return login
}

// ResolveCandidates returns the ordered identities a login may refer to.
// A known local record short-circuits resolution so returning users keep
// their account after a configuration change.
func (m *Mapper) ResolveCandidates(rawLogin string, known *DomainUser) []DomainUser {
	if known != nil {
		return []DomainUser{*known}
	}

	login := Normalize(rawLogin)
	if login == "" {
		return nil
	}

	if strings.Contains(login, "@") {
		mailbox, domain, ok := splitEmail(login)
		if !ok {
			return nil
		}
		return []DomainUser{{
			LocalID: m.LocalIDFor(mailbox, domain),
			Mailbox: mailbox,
			Domain:  domain,
		}}
	}

	if !m.enabled {
		return nil
	}

	var candidates []DomainUser
	for _, r := range m.rules {
		mailbox, ok := r.Rule.Mailbox(login)
		if !ok {
			continue
		}
		candidates = append(candidates, DomainUser{
			LocalID: login,
			Mailbox: mailbox,
			Domain:  r.Domain,
		})
	}
	return candidates
}
