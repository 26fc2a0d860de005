package identity

import "strings"

// Preference value placeholders
const (
	PlaceholderUID     = "%UID%"
	PlaceholderMailbox = "%MAILBOX%"
	PlaceholderDomain  = "%DOMAIN%"
)

// ExpandTemplate replaces the identity placeholders in value.
func ExpandTemplate(value string, u DomainUser) string {
	return strings.NewReplacer(
		PlaceholderUID, u.LocalID,
		PlaceholderMailbox, u.Mailbox,
		PlaceholderDomain, u.Domain,
	).Replace(value)
}

// ExpandPreferences returns a copy of prefs with placeholders substituted
// for the given user.
func ExpandPreferences(prefs map[string]map[string]string, u DomainUser) map[string]map[string]string {
	if len(prefs) == 0 {
		return nil
	}
	r := strings.NewReplacer(
		PlaceholderUID, u.LocalID,
		PlaceholderMailbox, u.Mailbox,
		PlaceholderDomain, u.Domain,
	)
	out := make(map[string]map[string]string, len(prefs))
	for app, values := range prefs {
		expanded := make(map[string]string, len(values))
		for key, value := range values {
			expanded[key] = r.Replace(value)
		}
		out[app] = expanded
	}
	return out
}
