package identity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMappingRule_RoundTrip(t *testing.T) {
	tests := []struct {
		name    string
		rule    MappingRule
		mailbox string
		localID string
	}{
		{name: "bare name", rule: BareName(), mailbox: "alice", localID: "alice"},
		{name: "prefix", rule: Prefix("ex-"), mailbox: "alice", localID: "ex-alice"},
		{name: "suffix", rule: Suffix("-ops"), mailbox: "alice", localID: "alice-ops"},
		{name: "suffix with dots", rule: Suffix(".dev"), mailbox: "first.last", localID: "first.last.dev"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			localID := tt.rule.LocalID(tt.mailbox)
			assert.Equal(t, tt.localID, localID)

			mailbox, ok := tt.rule.Mailbox(localID)
			require.True(t, ok)
			assert.Equal(t, tt.mailbox, mailbox)
		})
	}
}

func TestMappingRule_InverseRejectsNonMatching(t *testing.T) {
	assert.False(t, func() bool { _, ok := Prefix("ex-").Mailbox("alice"); return ok }())
	assert.False(t, func() bool { _, ok := Prefix("ex-").Mailbox("foo-ex-alice"); return ok }())
	assert.False(t, func() bool { _, ok := Suffix("-ops").Mailbox("-ops"); return ok }())
	assert.False(t, func() bool { _, ok := Suffix("-ops").Mailbox("alice-dev"); return ok }())
	assert.False(t, func() bool { _, ok := BareName().Mailbox(""); return ok }())
}

func TestMappingRule_Validate(t *testing.T) {
	assert.NoError(t, BareName().Validate())
	assert.NoError(t, Prefix("x-").Validate())
	assert.Error(t, Prefix("").Validate())
	assert.Error(t, Suffix("@bad").Validate())
	assert.Error(t, MappingRule{}.Validate())
}

func TestResolveCandidates_EmailWithoutRule(t *testing.T) {
	m := NewMapper(nil, true)

	got := m.ResolveCandidates("user@example.com", nil)

	require.Len(t, got, 1)
	assert.Equal(t, DomainUser{
		LocalID: "user@example.com",
		Mailbox: "user",
		Domain:  "example.com",
	}, got[0])
}

func TestResolveCandidates_EmailWithRule(t *testing.T) {
	m := NewMapper([]DomainRule{
		{Domain: "example.com", Rule: Suffix("-ex")},
	}, true)

	got := m.ResolveCandidates("Alice@Example.COM", nil)

	require.Len(t, got, 1)
	assert.Equal(t, "alice-ex", got[0].LocalID)
	assert.Equal(t, "alice", got[0].Mailbox)
	assert.Equal(t, "example.com", got[0].Domain)
}

func TestResolveCandidates_EncodedAt(t *testing.T) {
	m := NewMapper(nil, true)

	got := m.ResolveCandidates("bob%40example.org", nil)
	require.Len(t, got, 1)
	assert.Equal(t, "bob@example.org", got[0].LocalID)

	// literal '@' wins, %40 stays part of the mailbox
	got = m.ResolveCandidates("a%40b@example.org", nil)
	require.Len(t, got, 1)
	assert.Equal(t, "a%40b", got[0].Mailbox)
}

func TestResolveCandidates_SuffixDisambiguation(t *testing.T) {
	m := NewMapper([]DomainRule{
		{Domain: "ops.example.com", Rule: Suffix("-ops")},
		{Domain: "dev.example.com", Rule: Suffix("-dev")},
	}, true)

	got := m.ResolveCandidates("bob-ops", nil)

	require.Len(t, got, 1)
	assert.Equal(t, "ops.example.com", got[0].Domain)
	assert.Equal(t, "bob", got[0].Mailbox)
	assert.Equal(t, "bob-ops", got[0].LocalID)
}

func TestResolveCandidates_MultipleDomainsKeepOrder(t *testing.T) {
	m := NewMapper([]DomainRule{
		{Domain: "b.example", Rule: BareName()},
		{Domain: "a.example", Rule: Prefix("x")},
		{Domain: "c.example", Rule: Suffix("z")},
	}, true)

	got := m.ResolveCandidates("xyz", nil)

	require.Len(t, got, 3)
	assert.Equal(t, "b.example", got[0].Domain)
	assert.Equal(t, "xyz", got[0].Mailbox)
	assert.Equal(t, "a.example", got[1].Domain)
	assert.Equal(t, "yz", got[1].Mailbox)
	assert.Equal(t, "c.example", got[2].Domain)
	assert.Equal(t, "xy", got[2].Mailbox)
	for _, c := range got {
		assert.Equal(t, "xyz", c.LocalID)
	}
}

func TestResolveCandidates_NoMatch(t *testing.T) {
	m := NewMapper([]DomainRule{
		{Domain: "example.com", Rule: Prefix("ex-")},
	}, true)

	assert.Empty(t, m.ResolveCandidates("alice", nil))
	assert.Empty(t, m.ResolveCandidates("", nil))
	assert.Empty(t, m.ResolveCandidates("@example.com", nil))
}

func TestResolveCandidates_KnownRecordShortCircuits(t *testing.T) {
	m := NewMapper([]DomainRule{
		{Domain: "example.com", Rule: Suffix("-new")},
	}, true)
	known := &DomainUser{LocalID: "alice-old", Mailbox: "alice", Domain: "example.com"}

	got := m.ResolveCandidates("alice-old", known)

	require.Len(t, got, 1)
	assert.Equal(t, *known, got[0])
}

func TestResolveCandidates_MappingDisabled(t *testing.T) {
	m := NewMapper([]DomainRule{
		{Domain: "example.com", Rule: Suffix("-ex")},
	}, false)

	got := m.ResolveCandidates("alice@example.com", nil)
	require.Len(t, got, 1)
	assert.Equal(t, "alice@example.com", got[0].LocalID)

	assert.Empty(t, m.ResolveCandidates("alice-ex", nil))
}

func TestResolveCandidates_NeverFabricatesDomains(t *testing.T) {
	rules := []DomainRule{
		{Domain: "one.example", Rule: BareName()},
		{Domain: "two.example", Rule: Suffix("-2")},
	}
	m := NewMapper(rules, true)
	allowed := map[string]bool{"one.example": true, "two.example": true}

	for _, login := range []string{"x", "x-2", "X-2", "foo%40bar"} {
		for _, c := range m.ResolveCandidates(login, nil) {
			assert.True(t, allowed[c.Domain] || c.Domain == "bar", "unexpected domain %q", c.Domain)
		}
	}
}

func TestDomainUser_DisplayName(t *testing.T) {
	u := DomainUser{LocalID: "alice", Mailbox: "alice", Domain: "example.com"}
	assert.Equal(t, "alice", u.DisplayNameOrID())
	assert.Equal(t, "alice <alice@example.com>", u.String())

	u = u.WithDisplayName("Alice Liddell")
	assert.Equal(t, "Alice Liddell", u.DisplayNameOrID())
	assert.Equal(t, "alice@example.com", u.Email())
}

func TestSplitEmail(t *testing.T) {
	mailbox, domain, ok := SplitEmail(" Alice@Example.com ")
	require.True(t, ok)
	assert.Equal(t, "alice", mailbox)
	assert.Equal(t, "example.com", domain)

	for _, bad := range []string{"alice", "@example.com", "alice@", "a@b@c", "alice@example.com@evil.org"} {
		_, _, ok = SplitEmail(bad)
		assert.False(t, ok, bad)
	}
}

func TestResolveCandidates_SecondAt(t *testing.T) {
	m := NewMapper([]DomainRule{{Domain: "example.com", Rule: BareName()}}, true)
	assert.Empty(t, m.ResolveCandidates("a@b@c", nil))
	assert.Empty(t, m.ResolveCandidates("alice@example.com@evil.org", nil))
}
