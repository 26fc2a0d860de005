package models

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
)

// Visibility scopes of profile properties
const (
	ScopePrivate  = "private"
	ScopeContacts = "contacts"
)

// ProfileProperty is one entry of an account profile.
type ProfileProperty struct {
	Value    *string `json:"value,omitempty"`
	Scope    string  `json:"scope"`
	Verified *int    `json:"verified,omitempty"`
}

// ProfileData is the JSON profile blob, keyed by property name.
type ProfileData map[string]ProfileProperty

// Scan implements sql.Scanner interface
func (p *ProfileData) Scan(value any) error {
	var raw []byte
	switch v := value.(type) {
	case nil:
		*p = ProfileData{}
		return nil
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		return errors.New("failed to unmarshal profile JSON value")
	}
	return json.Unmarshal(raw, p)
}

// Value implements driver.Valuer interface
func (p ProfileData) Value() (driver.Value, error) {
	if p == nil {
		return "{}", nil
	}
	b, err := json.Marshal(p)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// AccountProfile holds the profile shown to other users of the host.
type AccountProfile struct {
	UID  string      `gorm:"column:uid;primaryKey;size:64"`
	Data ProfileData `gorm:"column:data;type:text"`
}

// TableName overrides the table name used by AccountProfile to `accounts`
func (AccountProfile) TableName() string {
	return "accounts"
}

// NewProfile builds the initial profile of a freshly provisioned account.
// Display name and email are shared with contacts, the rest stays private and empty.
func NewProfile(uid, email, displayName string) *AccountProfile {
	property := func(value, scope string) ProfileProperty {
		verified := 0
		return ProfileProperty{Value: &value, Scope: scope, Verified: &verified}
	}

	return &AccountProfile{
		UID: uid,
		Data: ProfileData{
			"displayname": property(displayName, ScopeContacts),
			"address":     property("", ScopePrivate),
			"website":     property("", ScopePrivate),
			"email":       property(email, ScopeContacts),
			"avatar":      {Scope: ScopeContacts},
			"phone":       property("", ScopePrivate),
			"twitter":     property("", ScopePrivate),
		},
	}
}

// DisplayName returns the display name stored in the profile.
func (a *AccountProfile) DisplayName() string {
	if prop, ok := a.Data["displayname"]; ok && prop.Value != nil {
		return *prop.Value
	}
	return ""
}

// SetDisplayName updates the display name property, keeping its scope.
func (a *AccountProfile) SetDisplayName(name string) {
	if a.Data == nil {
		a.Data = ProfileData{}
	}
	prop, ok := a.Data["displayname"]
	if !ok {
		prop.Scope = ScopeContacts
	}
	prop.Value = &name
	a.Data["displayname"] = prop
}
