package ispconfig

import (
	"context"
	"errors"
	"testing"

	"github.com/go-authgate/ispconfig-auth/internal/core"
	"github.com/go-authgate/ispconfig-auth/internal/mocks"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

const testSessionID = "sess-123"

func newTestClient(t *testing.T) (*Client, *mocks.MockRemoteAPI) {
	t.Helper()
	ctrl := gomock.NewController(t)
	api := mocks.NewMockRemoteAPI(ctrl)
	return NewClient(api, "remote", "secret", nil), api
}

func aliceRecord() core.MailUser {
	return core.MailUser{
		"mailuser_id":              "17",
		"sys_userid":               "3",
		"email":                    "alice@example.com",
		"name":                     "Alice",
		"password":                 "$1$saltsalt$hash",
		"autoresponder_start_date": "2024-03-05 08:30:00",
		"autoresponder_end_date":   nil,
	}
}

func TestConnect_Success(t *testing.T) {
	client, api := newTestClient(t)
	api.EXPECT().Login(gomock.Any(), "remote", "secret").Return(testSessionID, nil)

	session, err := client.Connect(context.Background())
	require.NoError(t, err)
	assert.True(t, session.Connected())
}

func TestConnect_AuthenticationFailed(t *testing.T) {
	client, api := newTestClient(t)
	api.EXPECT().
		Login(gomock.Any(), "remote", "secret").
		Return("", faultError(faultLoginFailed, "The login failed. Username or password wrong."))

	session, err := client.Connect(context.Background())
	require.ErrorIs(t, err, ErrAuthenticationFailed)
	assert.Nil(t, session)
}

func TestConnect_EmptySessionID(t *testing.T) {
	client, api := newTestClient(t)
	api.EXPECT().Login(gomock.Any(), gomock.Any(), gomock.Any()).Return("", nil)

	_, err := client.Connect(context.Background())
	require.ErrorIs(t, err, ErrAuthenticationFailed)
}

func TestDisconnect_ClearsSessionOnFailure(t *testing.T) {
	client, api := newTestClient(t)
	api.EXPECT().Login(gomock.Any(), gomock.Any(), gomock.Any()).Return(testSessionID, nil)
	api.EXPECT().Logout(gomock.Any(), testSessionID).Return(ErrRemoteUnavailable).Times(1)

	session, err := client.Connect(context.Background())
	require.NoError(t, err)

	err = session.Disconnect(context.Background())
	require.ErrorIs(t, err, ErrRemoteUnavailable)
	assert.False(t, session.Connected())

	// Second disconnect never reaches the panel
	err = session.Disconnect(context.Background())
	require.ErrorIs(t, err, ErrNotConnected)
}

func TestWithSession_LogsOutOnceOnError(t *testing.T) {
	client, api := newTestClient(t)
	gomock.InOrder(
		api.EXPECT().Login(gomock.Any(), gomock.Any(), gomock.Any()).Return(testSessionID, nil),
		api.EXPECT().
			MailUserGet(gomock.Any(), testSessionID, map[string]string{"email": "alice@example.com"}).
			Return(nil, ErrPermissionDenied),
		api.EXPECT().Logout(gomock.Any(), testSessionID).Return(nil).Times(1),
	)

	err := client.WithSession(context.Background(), func(ctx context.Context, s *Session) error {
		_, err := s.LookupByMailbox(ctx, "alice", "example.com")
		return err
	})
	require.ErrorIs(t, err, ErrPermissionDenied)
}

func TestWithSession_LogoutFailureDoesNotOverrideResult(t *testing.T) {
	client, api := newTestClient(t)
	api.EXPECT().Login(gomock.Any(), gomock.Any(), gomock.Any()).Return(testSessionID, nil)
	api.EXPECT().Logout(gomock.Any(), testSessionID).Return(errors.New("boom"))

	err := client.WithSession(context.Background(), func(context.Context, *Session) error {
		return nil
	})
	require.NoError(t, err)
}

func TestWithSession_LoginFailureSkipsCallback(t *testing.T) {
	client, api := newTestClient(t)
	api.EXPECT().Login(gomock.Any(), gomock.Any(), gomock.Any()).Return("", ErrRemoteUnavailable)

	called := false
	err := client.WithSession(context.Background(), func(context.Context, *Session) error {
		called = true
		return nil
	})
	require.ErrorIs(t, err, ErrRemoteUnavailable)
	assert.False(t, called)
}

func TestWithSession_RecordsSessionMetrics(t *testing.T) {
	ctrl := gomock.NewController(t)
	api := mocks.NewMockRemoteAPI(ctrl)
	recorder := mocks.NewMockRecorder(ctrl)
	client := NewClient(api, "remote", "secret", recorder)

	gomock.InOrder(
		api.EXPECT().Login(gomock.Any(), gomock.Any(), gomock.Any()).Return(testSessionID, nil),
		recorder.EXPECT().RecordRemoteSession(true),
		recorder.EXPECT().RecordRemoteSession(false),
		api.EXPECT().Logout(gomock.Any(), testSessionID).Return(nil),
	)

	err := client.WithSession(context.Background(), func(context.Context, *Session) error {
		return nil
	})
	require.NoError(t, err)
}

func TestLookup_NotConnected(t *testing.T) {
	client, _ := newTestClient(t)
	session := &Session{client: client}

	_, err := session.LookupByMailbox(context.Background(), "alice", "example.com")
	require.ErrorIs(t, err, ErrNotConnected)

	_, err = session.LookupByLoginName(context.Background(), "alice")
	require.ErrorIs(t, err, ErrNotConnected)
}

func TestLookup_FirstMatchAndNotFound(t *testing.T) {
	client, api := newTestClient(t)
	session := &Session{client: client, id: testSessionID}

	api.EXPECT().
		MailUserGet(gomock.Any(), testSessionID, map[string]string{"login": "alice"}).
		Return([]core.MailUser{{"email": "alice@example.com"}, {"email": "alice@other.org"}}, nil)
	api.EXPECT().
		MailUserGet(gomock.Any(), testSessionID, map[string]string{"login": "nobody"}).
		Return([]core.MailUser{}, nil)

	rec, err := session.LookupByLoginName(context.Background(), "alice")
	require.NoError(t, err)
	assert.Equal(t, "alice@example.com", rec.Email())

	_, err = session.LookupByLoginName(context.Background(), "nobody")
	require.ErrorIs(t, err, ErrMailUserNotFound)
}

func TestUpdateRecord_ModernPanel(t *testing.T) {
	client, api := newTestClient(t)
	session := &Session{client: client, id: testSessionID}
	record := aliceRecord()

	api.EXPECT().
		ServerGetAppVersion(gomock.Any(), testSessionID).
		Return(&core.AppVersion{AppVersion: "3.2.11"}, nil)
	api.EXPECT().ClientGetID(gomock.Any(), testSessionID, int64(3)).Return(int64(9), nil)
	api.EXPECT().
		MailUserUpdate(gomock.Any(), testSessionID, int64(9), int64(17), gomock.Any()).
		DoAndReturn(func(_ context.Context, _ string, _, _ int64, params core.MailUser) (int64, error) {
			assert.Equal(t, "$6$new", params["password"])
			assert.Equal(t, "2024-03-05 08:30:00", params["autoresponder_start_date"])
			assert.Nil(t, params["autoresponder_end_date"])
			assert.Equal(t, "Alice", params["name"])
			return 1, nil
		})

	err := session.UpdateRecord(context.Background(), record, core.MailUser{"password": "$6$new"})
	require.NoError(t, err)

	// The fetched record is left untouched
	assert.Equal(t, "$1$saltsalt$hash", record["password"])
}

func TestUpdateRecord_LegacyPanel(t *testing.T) {
	client, api := newTestClient(t)
	session := &Session{client: client, id: testSessionID}

	api.EXPECT().
		ServerGetAppVersion(gomock.Any(), testSessionID).
		Return(&core.AppVersion{AppVersion: "3.0.5.4p9"}, nil)
	api.EXPECT().ClientGetID(gomock.Any(), testSessionID, int64(3)).Return(int64(9), nil)
	api.EXPECT().
		MailUserUpdate(gomock.Any(), testSessionID, int64(9), int64(17), gomock.Any()).
		DoAndReturn(func(_ context.Context, _ string, _, _ int64, params core.MailUser) (int64, error) {
			assert.Equal(t, map[string]string{
				"year": "2024", "month": "03", "day": "05", "hour": "08", "minute": "30",
			}, params["autoresponder_start_date"])
			assert.Equal(t, map[string]string{
				"year": "", "month": "", "day": "", "hour": "", "minute": "",
			}, params["autoresponder_end_date"])
			assert.Equal(t, "$6$new", params["password"])
			return 1, nil
		})

	err := session.UpdateRecord(
		context.Background(),
		aliceRecord(),
		core.MailUser{"password": "$6$new"},
	)
	require.NoError(t, err)
}

func TestUpdateRecord_ZeroRowsRejected(t *testing.T) {
	client, api := newTestClient(t)
	session := &Session{client: client, id: testSessionID}

	api.EXPECT().
		ServerGetAppVersion(gomock.Any(), gomock.Any()).
		Return(&core.AppVersion{AppVersion: "3.2"}, nil)
	api.EXPECT().ClientGetID(gomock.Any(), gomock.Any(), gomock.Any()).Return(int64(9), nil)
	api.EXPECT().
		MailUserUpdate(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		Return(int64(0), nil)

	err := session.UpdateRecord(context.Background(), aliceRecord(), core.MailUser{"name": "A"})
	require.ErrorIs(t, err, ErrUpdateRejected)
}

func TestUpdateRecord_MissingIDs(t *testing.T) {
	client, api := newTestClient(t)
	session := &Session{client: client, id: testSessionID}

	api.EXPECT().
		ServerGetAppVersion(gomock.Any(), gomock.Any()).
		Return(&core.AppVersion{AppVersion: "3.2"}, nil)

	err := session.UpdateRecord(
		context.Background(),
		core.MailUser{"email": "alice@example.com"},
		core.MailUser{"name": "A"},
	)
	require.ErrorIs(t, err, ErrProtocolError)
}

func TestUpdateMailbox_LooksUpThenUpdates(t *testing.T) {
	client, api := newTestClient(t)
	session := &Session{client: client, id: testSessionID}

	gomock.InOrder(
		api.EXPECT().
			MailUserGet(gomock.Any(), testSessionID, map[string]string{"email": "alice@example.com"}).
			Return([]core.MailUser{aliceRecord()}, nil),
		api.EXPECT().
			ServerGetAppVersion(gomock.Any(), testSessionID).
			Return(&core.AppVersion{AppVersion: "3.2"}, nil),
		api.EXPECT().ClientGetID(gomock.Any(), testSessionID, int64(3)).Return(int64(9), nil),
		api.EXPECT().
			MailUserUpdate(gomock.Any(), testSessionID, int64(9), int64(17), gomock.Any()).
			Return(int64(1), nil),
	)

	err := session.UpdateMailbox(
		context.Background(),
		"alice",
		"example.com",
		core.MailUser{"name": "Alice B"},
	)
	require.NoError(t, err)
}

func TestIsLegacyVersion(t *testing.T) {
	tests := []struct {
		version string
		legacy  bool
	}{
		{"3.0.5.4p9", true},
		{"3.0", true},
		{"3.1dev", false},
		{"3.1", false},
		{"3.1.15p3", false},
		{"3.2.11", false},
		{"not-a-version", false},
	}
	for _, tt := range tests {
		t.Run(tt.version, func(t *testing.T) {
			assert.Equal(t, tt.legacy, IsLegacyVersion(tt.version))
		})
	}
}

func TestSplitDate_ShortInput(t *testing.T) {
	assert.Equal(t, map[string]string{
		"year": "2024", "month": "03", "day": "", "hour": "", "minute": "",
	}, splitDate("2024-03"))
}
