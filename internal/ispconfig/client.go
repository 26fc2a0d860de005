package ispconfig

import (
	"context"
	"fmt"
	"log"
	"maps"

	"github.com/go-authgate/ispconfig-auth/internal/core"
)

// Client opens remote sessions on the mail panel with a fixed remote user.
type Client struct {
	api            core.RemoteAPI
	remoteUser     string
	remotePassword string
	metrics        core.Recorder
}

// NewClient creates a Client using api for transport.
func NewClient(api core.RemoteAPI, remoteUser, remotePassword string, m core.Recorder) *Client {
	return &Client{
		api:            api,
		remoteUser:     remoteUser,
		remotePassword: remotePassword,
		metrics:        m,
	}
}

// Connect logs in as the remote user and returns the open session.
func (c *Client) Connect(ctx context.Context) (*Session, error) {
	sessionID, err := c.api.Login(ctx, c.remoteUser, c.remotePassword)
	if err != nil {
		c.logError("login", err)
		return nil, err
	}
	if sessionID == "" {
		err = fmt.Errorf("%w: empty session id", ErrAuthenticationFailed)
		c.logError("login", err)
		return nil, err
	}
	c.recordSession(true)
	return &Session{client: c, id: sessionID}, nil
}

// WithSession runs fn inside a remote session. The session is closed exactly
// once after fn returns, on every path. Logout failures are logged only.
func (c *Client) WithSession(ctx context.Context, fn func(context.Context, *Session) error) error {
	session, err := c.Connect(ctx)
	if err != nil {
		return err
	}
	defer func() {
		_ = session.Disconnect(context.WithoutCancel(ctx))
	}()
	return fn(ctx, session)
}

func (c *Client) recordSession(opened bool) {
	if c.metrics != nil {
		c.metrics.RecordRemoteSession(opened)
	}
}

// Session is an open remote session. It is not safe for concurrent use.
type Session struct {
	client *Client
	id     string
}

// Connected reports whether the session still holds a session id.
func (s *Session) Connected() bool {
	return s != nil && s.id != ""
}

// Disconnect logs out of the panel. The session id is cleared even if the
// logout call fails, so a second Disconnect returns ErrNotConnected.
func (s *Session) Disconnect(ctx context.Context) error {
	if !s.Connected() {
		return ErrNotConnected
	}
	sessionID := s.id
	s.id = ""
	s.client.recordSession(false)

	if err := s.client.api.Logout(ctx, sessionID); err != nil {
		s.client.logError("logout", err)
		return err
	}
	return nil
}

// LookupByMailbox returns the first mail user whose address is mailbox@domain.
func (s *Session) LookupByMailbox(ctx context.Context, mailbox, domain string) (core.MailUser, error) {
	return s.lookup(ctx, map[string]string{"email": mailbox + "@" + domain})
}

// LookupByLoginName returns the first mail user with the given custom login name.
func (s *Session) LookupByLoginName(ctx context.Context, loginName string) (core.MailUser, error) {
	return s.lookup(ctx, map[string]string{"login": loginName})
}

func (s *Session) lookup(ctx context.Context, filter map[string]string) (core.MailUser, error) {
	if !s.Connected() {
		s.client.logError("mail_user_get", ErrNotConnected)
		return nil, ErrNotConnected
	}

	users, err := s.client.api.MailUserGet(ctx, s.id, filter)
	if err != nil {
		s.client.logError("mail_user_get", err)
		return nil, err
	}
	if len(users) == 0 {
		return nil, ErrMailUserNotFound
	}
	return users[0], nil
}

// UpdateMailbox applies changes to the mail user mailbox@domain.
func (s *Session) UpdateMailbox(ctx context.Context, mailbox, domain string, changes core.MailUser) error {
	record, err := s.LookupByMailbox(ctx, mailbox, domain)
	if err != nil {
		return err
	}
	return s.UpdateRecord(ctx, record, changes)
}

// UpdateLoginName applies changes to the mail user with the given login name.
func (s *Session) UpdateLoginName(ctx context.Context, loginName string, changes core.MailUser) error {
	record, err := s.LookupByLoginName(ctx, loginName)
	if err != nil {
		return err
	}
	return s.UpdateRecord(ctx, record, changes)
}

// UpdateRecord writes record with changes merged over it. For panels older
// than LegacyVersionThreshold the fetched date fields are restructured first.
// An update affecting no rows fails with ErrUpdateRejected.
func (s *Session) UpdateRecord(ctx context.Context, record, changes core.MailUser) error {
	if !s.Connected() {
		s.client.logError("mail_user_update", ErrNotConnected)
		return ErrNotConnected
	}

	appVersion, err := s.client.api.ServerGetAppVersion(ctx, s.id)
	if err != nil {
		s.client.logError("server_get_app_version", err)
		return err
	}

	params := record.Clone()
	if IsLegacyVersion(appVersion.AppVersion) {
		restructureDates(params)
	}
	maps.Copy(params, changes)

	sysUserID, err := record.Int("sys_userid")
	if err != nil {
		return fmt.Errorf("%w: %v", ErrProtocolError, err)
	}
	mailUserID, err := record.Int("mailuser_id")
	if err != nil {
		return fmt.Errorf("%w: %v", ErrProtocolError, err)
	}

	clientID, err := s.client.api.ClientGetID(ctx, s.id, sysUserID)
	if err != nil {
		s.client.logError("client_get_id", err)
		return err
	}

	rows, err := s.client.api.MailUserUpdate(ctx, s.id, clientID, mailUserID, params)
	if err != nil {
		s.client.logError("mail_user_update", err)
		return err
	}
	if rows == 0 {
		log.Printf("[ISPConfig] mail_user_update affected no rows for mail user %d", mailUserID)
		return ErrUpdateRejected
	}
	return nil
}
