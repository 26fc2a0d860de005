package ispconfig

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-authgate/ispconfig-auth/internal/core"

	retry "github.com/appleboy/go-httpretry"
)

// Remote fault codes reported in the response envelope.
const (
	faultLoginFailed      = "login_failed"
	faultPermissionDenied = "permission_denied"
	faultRemote           = "remote_fault"
)

// Remote API method names.
const (
	methodLogin               = "login"
	methodLogout              = "logout"
	methodMailUserGet         = "mail_user_get"
	methodMailUserUpdate      = "mail_user_update"
	methodClientGetID         = "client_get_id"
	methodServerGetAppVersion = "server_get_app_version"
)

// envelope is the response wrapper of the panel's JSON remote API
type envelope struct {
	Code     string          `json:"code"`
	Message  string          `json:"message"`
	Response json.RawMessage `json:"response"`
}

// JSONTransport talks to the panel's JSON remote API
// (POST <location>?<method> with a JSON object of named parameters).
type JSONTransport struct {
	location    string
	retryClient *retry.Client
	metrics     core.Recorder
}

var _ core.RemoteAPI = (*JSONTransport)(nil)

// NewJSONTransport creates a transport posting to location, e.g.
// https://panel.example.com:8080/remote/json.php
func NewJSONTransport(
	location string,
	retryClient *retry.Client,
	m core.Recorder,
) *JSONTransport {
	return &JSONTransport{
		location:    location,
		retryClient: retryClient,
		metrics:     m,
	}
}

// call posts params to the given method and returns the raw response payload
func (t *JSONTransport) call(ctx context.Context, method string, params any) (json.RawMessage, error) {
	start := time.Now()
	raw, err := t.doCall(ctx, method, params)
	if t.metrics != nil {
		t.metrics.RecordRemoteCall(method, err == nil, time.Since(start))
	}
	return raw, err
}

func (t *JSONTransport) doCall(ctx context.Context, method string, params any) (json.RawMessage, error) {
	jsonData, err := json.Marshal(params)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal %s request: %w", method, err)
	}

	resp, err := t.retryClient.Post(
		ctx,
		t.endpoint(method),
		retry.WithBody("application/json", bytes.NewBuffer(jsonData)),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRemoteUnavailable, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read response", ErrRemoteUnavailable)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		// Limit body preview to 200 characters to avoid overwhelming logs
		bodyPreview := string(body)
		if len(bodyPreview) > 200 {
			bodyPreview = bodyPreview[:200] + "..."
		}
		sentinel := ErrProtocolError
		if resp.StatusCode >= http.StatusInternalServerError {
			sentinel = ErrRemoteUnavailable
		}
		return nil, fmt.Errorf("%w: HTTP %d - %s", sentinel, resp.StatusCode, bodyPreview)
	}

	var env envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrProtocolError, err)
	}

	if env.Code != "ok" {
		return nil, faultError(env.Code, env.Message)
	}

	return env.Response, nil
}

func (t *JSONTransport) endpoint(method string) string {
	sep := "?"
	if strings.Contains(t.location, "?") {
		sep = "&"
	}
	return t.location + sep + method
}

// faultError maps a remote fault to one of the package sentinels.
// Generic remote faults are classified by their message.
func faultError(code, message string) error {
	var sentinel error
	switch code {
	case faultLoginFailed:
		sentinel = ErrAuthenticationFailed
	case faultPermissionDenied:
		sentinel = ErrPermissionDenied
	case faultRemote:
		lower := strings.ToLower(message)
		switch {
		case strings.Contains(lower, "login failed"),
			strings.Contains(lower, "username or password"):
			sentinel = ErrAuthenticationFailed
		case strings.Contains(lower, "permission"):
			sentinel = ErrPermissionDenied
		default:
			sentinel = ErrProtocolError
		}
	default:
		sentinel = ErrProtocolError
	}
	return fmt.Errorf("%w: [%s] %s", sentinel, code, message)
}

// decode unmarshals a payload keeping numbers as json.Number
func decode(raw json.RawMessage, out any) error {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	if err := dec.Decode(out); err != nil {
		return fmt.Errorf("%w: %v", ErrProtocolError, err)
	}
	return nil
}

// isEmptyPayload reports whether the panel answered with nothing useful
func isEmptyPayload(raw json.RawMessage) bool {
	s := strings.TrimSpace(string(raw))
	return s == "" || s == "null" || s == "false" || s == `""`
}

// decodeInt accepts numbers, numeric strings and booleans
func decodeInt(raw json.RawMessage) (int64, error) {
	if isEmptyPayload(raw) {
		return 0, nil
	}
	var v any
	if err := decode(raw, &v); err != nil {
		return 0, err
	}
	switch n := v.(type) {
	case json.Number:
		return n.Int64()
	case string:
		i, err := strconv.ParseInt(strings.TrimSpace(n), 10, 64)
		if err != nil {
			return 0, fmt.Errorf("%w: %q is not an integer", ErrProtocolError, n)
		}
		return i, nil
	case bool:
		if n {
			return 1, nil
		}
		return 0, nil
	default:
		return 0, fmt.Errorf("%w: unexpected integer payload %s", ErrProtocolError, raw)
	}
}

// Login opens a remote session and returns its id
func (t *JSONTransport) Login(ctx context.Context, username, password string) (string, error) {
	raw, err := t.call(ctx, methodLogin, map[string]any{
		"username": username,
		"password": password,
	})
	if err != nil {
		return "", err
	}
	if isEmptyPayload(raw) {
		return "", fmt.Errorf("%w: empty session id", ErrAuthenticationFailed)
	}
	var sessionID string
	if err := decode(raw, &sessionID); err != nil {
		return "", err
	}
	return sessionID, nil
}

// Logout closes a remote session
func (t *JSONTransport) Logout(ctx context.Context, sessionID string) error {
	_, err := t.call(ctx, methodLogout, map[string]any{
		"session_id": sessionID,
	})
	return err
}

// MailUserGet returns mail users matching filter
func (t *JSONTransport) MailUserGet(
	ctx context.Context,
	sessionID string,
	filter map[string]string,
) ([]core.MailUser, error) {
	raw, err := t.call(ctx, methodMailUserGet, map[string]any{
		"session_id": sessionID,
		"primary_id": filter,
	})
	if err != nil {
		return nil, err
	}
	if isEmptyPayload(raw) {
		return nil, nil
	}

	// A single record is returned as an object, several as a list
	if strings.HasPrefix(strings.TrimSpace(string(raw)), "{") {
		var user core.MailUser
		if err := decode(raw, &user); err != nil {
			return nil, err
		}
		return []core.MailUser{user}, nil
	}

	var users []core.MailUser
	if err := decode(raw, &users); err != nil {
		return nil, err
	}
	return users, nil
}

// MailUserUpdate writes params to a mail user and returns the affected row count
func (t *JSONTransport) MailUserUpdate(
	ctx context.Context,
	sessionID string,
	clientID, mailUserID int64,
	params core.MailUser,
) (int64, error) {
	raw, err := t.call(ctx, methodMailUserUpdate, map[string]any{
		"session_id": sessionID,
		"client_id":  clientID,
		"primary_id": mailUserID,
		"params":     params,
	})
	if err != nil {
		return 0, err
	}
	return decodeInt(raw)
}

// ClientGetID resolves the client owning a system user
func (t *JSONTransport) ClientGetID(
	ctx context.Context,
	sessionID string,
	sysUserID int64,
) (int64, error) {
	raw, err := t.call(ctx, methodClientGetID, map[string]any{
		"session_id": sessionID,
		"sys_userid": sysUserID,
	})
	if err != nil {
		return 0, err
	}
	return decodeInt(raw)
}

// ServerGetAppVersion returns the panel version
func (t *JSONTransport) ServerGetAppVersion(
	ctx context.Context,
	sessionID string,
) (*core.AppVersion, error) {
	raw, err := t.call(ctx, methodServerGetAppVersion, map[string]any{
		"session_id": sessionID,
	})
	if err != nil {
		return nil, err
	}
	if isEmptyPayload(raw) {
		return nil, fmt.Errorf("%w: empty version", ErrProtocolError)
	}
	var v core.AppVersion
	if err := decode(raw, &v); err != nil {
		return nil, err
	}
	return &v, nil
}
