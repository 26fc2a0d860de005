package ispconfig

import (
	"strings"

	"github.com/go-authgate/ispconfig-auth/internal/core"

	"github.com/hashicorp/go-version"
)

// LegacyVersionThreshold is the first panel version accepting flat date strings.
const LegacyVersionThreshold = "3.1dev"

var legacyThreshold = version.Must(version.NewVersion(LegacyVersionThreshold))

// dateFields are sent as component maps to legacy panels.
var dateFields = []string{"autoresponder_start_date", "autoresponder_end_date"}

// IsLegacyVersion reports whether a panel version predates LegacyVersionThreshold.
// Unparseable versions are treated as current.
func IsLegacyVersion(v string) bool {
	parsed, err := version.NewVersion(strings.TrimSpace(v))
	if err != nil {
		return false
	}
	return parsed.LessThan(legacyThreshold)
}

// restructureDates converts "YYYY-MM-DD HH:MM[:SS]" date fields into the
// {year, month, day, hour, minute} maps legacy panels expect.
func restructureDates(rec core.MailUser) {
	for _, field := range dateFields {
		switch v := rec[field].(type) {
		case nil:
			rec[field] = splitDate("")
		case string:
			rec[field] = splitDate(v)
		}
	}
}

func splitDate(s string) map[string]string {
	return map[string]string{
		"year":   substr(s, 0, 4),
		"month":  substr(s, 5, 2),
		"day":    substr(s, 8, 2),
		"hour":   substr(s, 11, 2),
		"minute": substr(s, 14, 2),
	}
}

// substr returns up to n bytes of s starting at start, or "" when out of range.
func substr(s string, start, n int) string {
	if start >= len(s) {
		return ""
	}
	end := min(start+n, len(s))
	return s[start:end]
}
