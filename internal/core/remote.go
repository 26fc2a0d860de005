package core

import (
	"context"
	"encoding/json"
	"fmt"
	"maps"
	"strconv"
	"strings"
)

// MailUser is a mail user record as returned by the panel's remote API.
// Field names follow the panel (email, name, password, login, sys_userid, mailuser_id, ...).
type MailUser map[string]any

// Field returns a field as a string; missing or null fields yield "".
func (m MailUser) Field(key string) string {
	switch v := m[key].(type) {
	case nil:
		return ""
	case string:
		return v
	case json.Number:
		return v.String()
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(v)
	default:
		return fmt.Sprint(v)
	}
}

// Int returns a numeric field; the panel encodes ids both as numbers and as strings.
func (m MailUser) Int(key string) (int64, error) {
	switch v := m[key].(type) {
	case nil:
		return 0, fmt.Errorf("field %q missing", key)
	case json.Number:
		return v.Int64()
	case float64:
		return int64(v), nil
	case int:
		return int64(v), nil
	case int64:
		return v, nil
	case string:
		return strconv.ParseInt(strings.TrimSpace(v), 10, 64)
	default:
		return 0, fmt.Errorf("field %q has unexpected type %T", key, v)
	}
}

// Email returns the full mail address of the record.
func (m MailUser) Email() string { return m.Field("email") }

// Name returns the display name stored on the panel.
func (m MailUser) Name() string { return m.Field("name") }

// PasswordHash returns the crypt-style password hash.
func (m MailUser) PasswordHash() string { return m.Field("password") }

// Login returns the optional custom login name.
func (m MailUser) Login() string { return m.Field("login") }

// Clone returns a shallow copy of the record.
func (m MailUser) Clone() MailUser {
	return maps.Clone(m)
}

// AppVersion holds the panel's version report.
type AppVersion struct {
	AppVersion string `json:"ispc_app_version"`
	Major      string `json:"ispc_app_version_major,omitempty"`
	Minor      string `json:"ispc_app_version_minor,omitempty"`
}

// RemoteAPI is the session-based RPC surface of the mail panel.
// Every call except Login takes the session id returned by Login.
type RemoteAPI interface {
	Login(ctx context.Context, username, password string) (string, error)
	Logout(ctx context.Context, sessionID string) error
	MailUserGet(ctx context.Context, sessionID string, filter map[string]string) ([]MailUser, error)
	MailUserUpdate(
		ctx context.Context,
		sessionID string,
		clientID, mailUserID int64,
		params MailUser,
	) (int64, error)
	ClientGetID(ctx context.Context, sessionID string, sysUserID int64) (int64, error)
	ServerGetAppVersion(ctx context.Context, sessionID string) (*AppVersion, error)
}
