package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewProfile(t *testing.T) {
	p := NewProfile("alice", "alice@example.com", "Alice")

	assert.Equal(t, "alice", p.UID)
	assert.Equal(t, "Alice", p.DisplayName())
	require.Contains(t, p.Data, "email")
	assert.Equal(t, "alice@example.com", *p.Data["email"].Value)
	assert.Equal(t, ScopeContacts, p.Data["email"].Scope)
	assert.Equal(t, ScopePrivate, p.Data["phone"].Scope)
	assert.Equal(t, "", *p.Data["phone"].Value)
	assert.Len(t, p.Data, 7)
}

func TestProfileData_JSONShape(t *testing.T) {
	p := NewProfile("alice", "alice@example.com", "Alice")

	v, err := p.Data.Value()
	require.NoError(t, err)

	var decoded map[string]map[string]any
	require.NoError(t, json.Unmarshal([]byte(v.(string)), &decoded))

	assert.Equal(t, map[string]any{"scope": "contacts"}, decoded["avatar"])
	assert.Equal(t, map[string]any{
		"value":    "Alice",
		"scope":    "contacts",
		"verified": float64(0),
	}, decoded["displayname"])
}

func TestProfileData_Scan(t *testing.T) {
	var data ProfileData
	require.NoError(t, data.Scan(`{"displayname":{"value":"Bob","scope":"contacts","verified":0}}`))
	assert.Equal(t, "Bob", *data["displayname"].Value)

	require.NoError(t, data.Scan([]byte(`{"email":{"value":"b@x.org","scope":"private"}}`)))
	assert.Equal(t, "b@x.org", *data["email"].Value)

	require.NoError(t, data.Scan(nil))
	assert.Empty(t, data)

	assert.Error(t, data.Scan(42))
}

func TestAccountProfile_SetDisplayName(t *testing.T) {
	p := NewProfile("alice", "alice@example.com", "Alice")
	p.SetDisplayName("Alice B.")
	assert.Equal(t, "Alice B.", p.DisplayName())
	assert.Equal(t, ScopeContacts, p.Data["displayname"].Scope)

	empty := &AccountProfile{UID: "bob"}
	empty.SetDisplayName("Bob")
	assert.Equal(t, "Bob", empty.DisplayName())
}

func TestAccount_Identity(t *testing.T) {
	a := &Account{UID: "bob-ops", DisplayName: "Bob", Mailbox: "bob", Domain: "ops.example.net"}
	u := a.Identity()
	assert.Equal(t, "bob-ops", u.LocalID)
	assert.Equal(t, "bob@ops.example.net", u.Email())
	assert.Equal(t, "Bob", u.DisplayName)
}
