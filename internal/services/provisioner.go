package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"slices"
	"sort"

	"github.com/go-authgate/ispconfig-auth/internal/core"
	"github.com/go-authgate/ispconfig-auth/internal/identity"
	"github.com/go-authgate/ispconfig-auth/internal/models"
	"github.com/go-authgate/ispconfig-auth/internal/store"
)

// Provisioning results reported to metrics
const (
	ProvisionCreated  = "created"
	ProvisionExisting = "existing"
	ProvisionError    = "error"
)

// Preference keys written for every new account
const (
	settingsApp   = "settings"
	emailKey      = "email"
	filesApp      = "files"
	quotaKey      = "quota"
	dbOpProvision = "provision"
)

// Provisioner creates and maintains local accounts for verified mail users.
type Provisioner struct {
	store   *store.Store
	metrics core.Recorder
}

func NewProvisioner(s *store.Store, m core.Recorder) *Provisioner {
	return &Provisioner{store: s, metrics: m}
}

// EnsureLocalAccount creates the local account of user unless its local id
// already exists. Everything is written in one transaction. It reports
// whether an account was created.
func (p *Provisioner) EnsureLocalAccount(
	ctx context.Context,
	user identity.DomainUser,
	defaults identity.AccountDefaults,
) (bool, error) {
	exists, err := p.store.AccountExists(ctx, user.LocalID)
	if err != nil {
		p.recordError(dbOpProvision)
		return false, fmt.Errorf("%w: %v", ErrLocalPersistence, err)
	}
	if exists {
		p.metrics.RecordProvision(ProvisionExisting)
		return false, nil
	}

	created, err := p.store.CreateAccount(ctx, buildProvisionRequest(user, defaults))
	if err != nil {
		p.recordError(dbOpProvision)
		if errors.Is(err, store.ErrAccountConflict) {
			log.Printf("[Provision] %s is already mapped to another local id, refusing %s",
				user.Email(), user.LocalID)
		}
		return false, fmt.Errorf("%w: %w", ErrLocalPersistence, err)
	}

	if created {
		p.metrics.RecordProvision(ProvisionCreated)
		log.Printf("[Provision] Created local account %s for %s", user.LocalID, user.Email())
	} else {
		p.metrics.RecordProvision(ProvisionExisting)
	}
	return created, nil
}

func buildProvisionRequest(
	user identity.DomainUser,
	defaults identity.AccountDefaults,
) store.ProvisionRequest {
	email := user.Email()
	prefs := []models.Preference{
		{UserID: user.LocalID, AppID: settingsApp, ConfigKey: emailKey, ConfigValue: email},
	}
	if defaults.Quota != "" {
		prefs = append(prefs, models.Preference{
			UserID: user.LocalID, AppID: filesApp, ConfigKey: quotaKey, ConfigValue: defaults.Quota,
		})
	}

	expanded := identity.ExpandPreferences(defaults.Preferences, user)
	apps := make([]string, 0, len(expanded))
	for app := range expanded {
		apps = append(apps, app)
	}
	sort.Strings(apps)
	for _, app := range apps {
		keys := make([]string, 0, len(expanded[app]))
		for key := range expanded[app] {
			keys = append(keys, key)
		}
		sort.Strings(keys)
		for _, key := range keys {
			prefs = upsertPreference(prefs, models.Preference{
				UserID:      user.LocalID,
				AppID:       app,
				ConfigKey:   key,
				ConfigValue: expanded[app][key],
			})
		}
	}

	groups := make([]string, 0, len(defaults.Groups))
	for _, g := range defaults.Groups {
		if g != "" && !slices.Contains(groups, g) {
			groups = append(groups, g)
		}
	}

	return store.ProvisionRequest{
		Account: models.Account{
			UID:         user.LocalID,
			DisplayName: user.DisplayName,
			Mailbox:     user.Mailbox,
			Domain:      user.Domain,
		},
		Profile:     models.NewProfile(user.LocalID, email, user.DisplayName),
		Groups:      groups,
		Preferences: prefs,
	}
}

// upsertPreference replaces an entry with the same app and key, so a
// configured preference overrides a built-in one
func upsertPreference(prefs []models.Preference, pref models.Preference) []models.Preference {
	for i := range prefs {
		if prefs[i].AppID == pref.AppID && prefs[i].ConfigKey == pref.ConfigKey {
			prefs[i] = pref
			return prefs
		}
	}
	return append(prefs, pref)
}

// UpdateDisplayName overwrites the display name of a local account.
// It reports false when the account does not exist.
func (p *Provisioner) UpdateDisplayName(ctx context.Context, uid, name string) (bool, error) {
	updated, err := p.store.UpdateDisplayName(ctx, uid, name)
	if err != nil {
		p.recordError("update_display_name")
		return false, fmt.Errorf("%w: %v", ErrLocalPersistence, err)
	}
	return updated, nil
}

// DeleteAccount removes a local account and everything attached to it.
// It reports false when the account does not exist.
func (p *Provisioner) DeleteAccount(ctx context.Context, uid string) (bool, error) {
	deleted, err := p.store.DeleteAccount(ctx, uid)
	if err != nil {
		p.recordError("delete_account")
		return false, fmt.Errorf("%w: %v", ErrLocalPersistence, err)
	}
	if deleted {
		p.metrics.RecordAccountDeleted()
		log.Printf("[Provision] Deleted local account %s", uid)
	}
	return deleted, nil
}

func (p *Provisioner) recordError(operation string) {
	p.metrics.RecordDatabaseQueryError(operation)
}
