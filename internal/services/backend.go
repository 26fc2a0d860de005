package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/go-authgate/ispconfig-auth/internal/auth"
	"github.com/go-authgate/ispconfig-auth/internal/core"
	"github.com/go-authgate/ispconfig-auth/internal/identity"
	"github.com/go-authgate/ispconfig-auth/internal/ispconfig"
	"github.com/go-authgate/ispconfig-auth/internal/models"
	"github.com/go-authgate/ispconfig-auth/internal/store"
)

// Login results reported to metrics
const (
	LoginSuccess            = "success"
	LoginInvalidCredentials = "invalid_credentials"
	LoginUnavailable        = "unavailable"
	LoginError              = "error"
)

const displayNameKeyPrefix = "displayname:"

// DomainPolicy decides which domains may log in and what new accounts receive.
type DomainPolicy interface {
	Allowed(domain string) bool
	DefaultsFor(domain string) identity.AccountDefaults
}

// BackendOptions tunes optional UserBackend behavior.
type BackendOptions struct {
	// LoginNameFallback looks the login up as a custom panel login name
	// when no candidate derived from it matched.
	LoginNameFallback bool

	// DisplayNameCacheTTL is how long display names stay cached
	DisplayNameCacheTTL time.Duration
}

// UserBackend implements the user backend contract of the host application:
// password checks against the mail panel, and the local account listing.
type UserBackend struct {
	store       *store.Store
	remote      *ispconfig.Client
	mapper      *identity.Mapper
	policy      DomainPolicy
	provisioner *Provisioner
	names       core.Cache[string]
	metrics     core.Recorder
	opts        BackendOptions
}

func NewUserBackend(
	s *store.Store,
	remote *ispconfig.Client,
	mapper *identity.Mapper,
	policy DomainPolicy,
	provisioner *Provisioner,
	names core.Cache[string],
	m core.Recorder,
	opts BackendOptions,
) *UserBackend {
	return &UserBackend{
		store:       s,
		remote:      remote,
		mapper:      mapper,
		policy:      policy,
		provisioner: provisioner,
		names:       names,
		metrics:     m,
		opts:        opts,
	}
}

// CheckPassword verifies login and password against the mail panel and
// returns the resolved local identity. On the first successful login the
// local account is provisioned. Every authentication failure is returned as
// ErrInvalidCredentials joined with its cause.
func (b *UserBackend) CheckPassword(
	ctx context.Context,
	login, password string,
) (*identity.DomainUser, error) {
	start := time.Now()

	user, err := b.checkPassword(ctx, login, password)
	b.metrics.RecordLogin(loginResult(err), time.Since(start))
	if err != nil {
		log.Printf("[Auth] Login failed for %q: %v", login, err)
		return nil, err
	}
	log.Printf("[Auth] Login succeeded: %s", user)
	return user, nil
}

func (b *UserBackend) checkPassword(
	ctx context.Context,
	login, password string,
) (*identity.DomainUser, error) {
	var known *identity.DomainUser
	account, err := b.store.FindReturningAccount(ctx, login)
	switch {
	case err == nil:
		u := account.Identity()
		known = &u
	case !errors.Is(err, store.ErrRecordNotFound):
		b.metrics.RecordDatabaseQueryError("find_account")
		return nil, fmt.Errorf("%w: %v", ErrLocalPersistence, err)
	}

	candidates := b.mapper.ResolveCandidates(login, known)
	b.metrics.RecordCandidates(len(candidates))

	allowed := make([]identity.DomainUser, 0, len(candidates))
	for _, candidate := range candidates {
		if b.policy.Allowed(candidate.Domain) {
			allowed = append(allowed, candidate)
		}
	}

	fallback := b.opts.LoginNameFallback && known == nil
	if len(allowed) == 0 && !fallback {
		if len(candidates) > 0 {
			return nil, errors.Join(ErrInvalidCredentials, ErrDomainNotAllowed)
		}
		return nil, errors.Join(ErrInvalidCredentials, ErrNoMatchingIdentity)
	}

	var matched *identity.DomainUser
	err = b.remote.WithSession(ctx, func(ctx context.Context, s *ispconfig.Session) error {
		for _, candidate := range allowed {
			record, err := s.LookupByMailbox(ctx, candidate.Mailbox, candidate.Domain)
			if errors.Is(err, ispconfig.ErrMailUserNotFound) {
				continue
			}
			if err != nil {
				return err
			}
			if auth.VerifyPassword(password, record.PasswordHash()) {
				u := candidate
				if known == nil {
					u = u.WithDisplayName(record.Name())
				}
				matched = &u
				return nil
			}
		}

		if fallback {
			u, err := b.tryLoginName(ctx, s, login, password)
			if err != nil {
				return err
			}
			matched = u
		}
		return nil
	})
	if err != nil {
		return nil, errors.Join(ErrInvalidCredentials, err)
	}
	if matched == nil {
		return nil, errors.Join(ErrInvalidCredentials, ErrNoMatchingIdentity)
	}

	if known == nil {
		if _, err := b.provisioner.EnsureLocalAccount(
			ctx,
			*matched,
			b.policy.DefaultsFor(matched.Domain),
		); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrProvisioningFailed, err)
		}
	}
	return matched, nil
}

// tryLoginName looks the raw login up as a custom panel login name. A record
// found this way is mapped to its local id through its mail address.
func (b *UserBackend) tryLoginName(
	ctx context.Context,
	s *ispconfig.Session,
	login, password string,
) (*identity.DomainUser, error) {
	loginName := identity.Normalize(login)
	if loginName == "" {
		return nil, nil
	}

	record, err := s.LookupByLoginName(ctx, loginName)
	if errors.Is(err, ispconfig.ErrMailUserNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	mailbox, domain, ok := identity.SplitEmail(record.Email())
	if !ok {
		log.Printf("[Auth] Mail user with login name %q has no valid address", loginName)
		return nil, nil
	}
	if !b.policy.Allowed(domain) || !auth.VerifyPassword(password, record.PasswordHash()) {
		return nil, nil
	}

	return &identity.DomainUser{
		LocalID:     b.mapper.LocalIDFor(mailbox, domain),
		Mailbox:     mailbox,
		Domain:      domain,
		DisplayName: record.Name(),
	}, nil
}

func loginResult(err error) string {
	switch {
	case err == nil:
		return LoginSuccess
	case errors.Is(err, ispconfig.ErrRemoteUnavailable):
		return LoginUnavailable
	case errors.Is(err, ErrLocalPersistence),
		errors.Is(err, ispconfig.ErrAuthenticationFailed),
		errors.Is(err, ispconfig.ErrPermissionDenied),
		errors.Is(err, ispconfig.ErrProtocolError):
		return LoginError
	default:
		return LoginInvalidCredentials
	}
}

// SetPassword changes the mail password of a local account on the panel.
func (b *UserBackend) SetPassword(ctx context.Context, uid, password string) error {
	account, err := b.getAccount(ctx, uid)
	if err != nil {
		return err
	}

	changes := core.MailUser{"password": password}
	err = b.remote.WithSession(ctx, func(ctx context.Context, s *ispconfig.Session) error {
		err := s.UpdateMailbox(ctx, account.Mailbox, account.Domain, changes)
		if errors.Is(err, ispconfig.ErrMailUserNotFound) && b.opts.LoginNameFallback {
			return s.UpdateLoginName(ctx, uid, changes)
		}
		return err
	})
	b.metrics.RecordPasswordChange(err == nil)
	if err != nil {
		log.Printf("[Auth] Password change failed for %s: %v", uid, err)
		return errors.Join(ErrPasswordChangeFailed, err)
	}
	log.Printf("[Auth] Password changed for %s", uid)
	return nil
}

// UserExists reports whether a local account exists.
func (b *UserBackend) UserExists(ctx context.Context, uid string) (bool, error) {
	exists, err := b.store.AccountExists(ctx, uid)
	if err != nil {
		b.metrics.RecordDatabaseQueryError("user_exists")
		return false, fmt.Errorf("%w: %v", ErrLocalPersistence, err)
	}
	return exists, nil
}

// GetDisplayName returns the trimmed display name of a local account, or its
// local id when the name is blank.
func (b *UserBackend) GetDisplayName(ctx context.Context, uid string) (string, error) {
	fetch := func(ctx context.Context, _ string) (string, error) {
		account, err := b.getAccount(ctx, uid)
		if err != nil {
			return "", err
		}
		return account.Identity().DisplayNameOrID(), nil
	}
	if b.names == nil {
		return fetch(ctx, uid)
	}
	return b.names.GetWithFetch(
		ctx,
		displayNameKeyPrefix+uid,
		b.opts.DisplayNameCacheTTL,
		fetch,
	)
}

// SetDisplayName overwrites the display name of a local account. It reports
// false when the account does not exist.
func (b *UserBackend) SetDisplayName(ctx context.Context, uid, name string) (bool, error) {
	updated, err := b.provisioner.UpdateDisplayName(ctx, uid, strings.TrimSpace(name))
	if err != nil {
		return false, err
	}
	b.invalidateDisplayName(ctx, uid)
	return updated, nil
}

// GetUsers lists local ids starting with search.
func (b *UserBackend) GetUsers(ctx context.Context, search string, limit, offset int) ([]string, error) {
	uids, err := b.store.ListUIDs(ctx, store.NewListParams(search, limit, offset))
	if err != nil {
		b.metrics.RecordDatabaseQueryError("list_users")
		return nil, fmt.Errorf("%w: %v", ErrLocalPersistence, err)
	}
	if uids == nil {
		uids = []string{}
	}
	return uids, nil
}

// GetDisplayNames maps local ids to display names for accounts whose id or
// display name contains search.
func (b *UserBackend) GetDisplayNames(
	ctx context.Context,
	search string,
	limit, offset int,
) (map[string]string, error) {
	names, err := b.store.SearchDisplayNames(ctx, store.NewListParams(search, limit, offset))
	if err != nil {
		b.metrics.RecordDatabaseQueryError("list_display_names")
		return nil, fmt.Errorf("%w: %v", ErrLocalPersistence, err)
	}
	return names, nil
}

// HasUserListings reports that this backend can list its users.
func (b *UserBackend) HasUserListings() bool {
	return true
}

// DeleteUser removes a local account. The mail user on the panel is kept.
func (b *UserBackend) DeleteUser(ctx context.Context, uid string) (bool, error) {
	deleted, err := b.provisioner.DeleteAccount(ctx, uid)
	if err != nil {
		return false, err
	}
	b.invalidateDisplayName(ctx, uid)
	return deleted, nil
}

// GetAccount returns the local account of uid.
func (b *UserBackend) GetAccount(ctx context.Context, uid string) (*models.Account, error) {
	return b.getAccount(ctx, uid)
}

func (b *UserBackend) getAccount(ctx context.Context, uid string) (*models.Account, error) {
	account, err := b.store.GetAccount(ctx, uid)
	if errors.Is(err, store.ErrRecordNotFound) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		b.metrics.RecordDatabaseQueryError("get_account")
		return nil, fmt.Errorf("%w: %v", ErrLocalPersistence, err)
	}
	return account, nil
}

func (b *UserBackend) invalidateDisplayName(ctx context.Context, uid string) {
	if b.names == nil {
		return
	}
	if err := b.names.Delete(ctx, displayNameKeyPrefix+uid); err != nil {
		log.Printf("[Cache] Failed to invalidate display name of %s: %v", uid, err)
	}
}
