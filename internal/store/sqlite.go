package store

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"time"

	"github.com/go-authgate/ispconfig-auth/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"
)

const likeEscape = ` ESCAPE '\'`

type Store struct {
	db *gorm.DB
}

// ProvisionRequest holds every row written for a new local account
type ProvisionRequest struct {
	Account     models.Account
	Profile     *models.AccountProfile
	Groups      []string
	Preferences []models.Preference
}

// newGormLogger logs slow queries and errors. Lookups that find nothing are
// expected on every first login and stay quiet.
func newGormLogger(w io.Writer) logger.Interface {
	return logger.New(log.New(w, "\r\n", log.LstdFlags), logger.Config{
		SlowThreshold:             200 * time.Millisecond,
		LogLevel:                  logger.Warn,
		IgnoreRecordNotFoundError: true,
	})
}

func New(ctx context.Context, driver, dsn string) (*Store, error) {
	dialector, err := GetDialector(driver, dsn)
	if err != nil {
		return nil, err
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger:         newGormLogger(os.Stdout),
		TranslateError: true,
	})
	if err != nil {
		return nil, err
	}

	if driver == "sqlite" {
		// A single connection keeps :memory: databases shared and serializes writers
		sqlDB, err := db.DB()
		if err != nil {
			return nil, err
		}
		sqlDB.SetMaxOpenConns(1)
	}

	// Auto migrate
	if err := db.WithContext(ctx).AutoMigrate(
		&models.Account{},
		&models.AccountProfile{},
		&models.Preference{},
		&models.Group{},
		&models.GroupUser{},
	); err != nil {
		return nil, err
	}

	return &Store{db: db}, nil
}

// Account operations
func (s *Store) GetAccount(ctx context.Context, uid string) (*models.Account, error) {
	var account models.Account
	if err := s.db.WithContext(ctx).Where("uid = ?", uid).First(&account).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRecordNotFound
		}
		return nil, err
	}
	return &account, nil
}

// GetAccountByAddress finds the account mapped to mailbox@domain
func (s *Store) GetAccountByAddress(
	ctx context.Context,
	mailbox, domain string,
) (*models.Account, error) {
	var account models.Account
	err := s.db.WithContext(ctx).
		Where("mailbox = ? AND domain = ?", mailbox, domain).
		First(&account).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRecordNotFound
		}
		return nil, err
	}
	return &account, nil
}

// FindReturningAccount looks up the account of a user who logged in before.
// The login matches a local id, or a mail address already mapped to one.
func (s *Store) FindReturningAccount(ctx context.Context, login string) (*models.Account, error) {
	account, err := s.GetAccount(ctx, login)
	if err == nil || !errors.Is(err, ErrRecordNotFound) {
		return account, err
	}

	mailbox, domain, ok := strings.Cut(strings.ToLower(login), "@")
	if !ok || mailbox == "" || domain == "" || strings.Contains(domain, "@") {
		return nil, ErrRecordNotFound
	}
	return s.GetAccountByAddress(ctx, mailbox, domain)
}

func (s *Store) AccountExists(ctx context.Context, uid string) (bool, error) {
	var count int64
	if err := s.db.WithContext(ctx).
		Model(&models.Account{}).
		Where("uid = ?", uid).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// CountAccounts returns the number of provisioned local accounts
func (s *Store) CountAccounts(ctx context.Context) (int64, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&models.Account{}).Count(&count).Error
	return count, err
}

// CreateAccount writes a new account with its profile, preferences and group
// memberships in one transaction. It reports false without writing anything
// when the local id already exists.
func (s *Store) CreateAccount(ctx context.Context, req ProvisionRequest) (bool, error) {
	created := false
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.Account{}).
			Where("uid = ?", req.Account.UID).
			Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return nil
		}

		if err := tx.Create(&req.Account).Error; err != nil {
			return err
		}
		if req.Profile != nil {
			if err := tx.Create(req.Profile).Error; err != nil {
				return err
			}
		}
		for _, gid := range req.Groups {
			if err := addToGroup(tx, req.Account.UID, gid); err != nil {
				return err
			}
		}
		if len(req.Preferences) > 0 {
			if err := tx.Clauses(clause.OnConflict{UpdateAll: true}).
				Create(&req.Preferences).Error; err != nil {
				return err
			}
		}
		created = true
		return nil
	})
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return s.resolveDuplicate(ctx, req.Account.UID)
		}
		return false, err
	}
	return created, nil
}

// resolveDuplicate tells a concurrent create of the same account apart from a
// mail address already owned by another local id
func (s *Store) resolveDuplicate(ctx context.Context, uid string) (bool, error) {
	exists, err := s.AccountExists(ctx, uid)
	if err != nil {
		return false, err
	}
	if exists {
		return false, nil
	}
	return false, ErrAccountConflict
}

func addToGroup(tx *gorm.DB, uid, gid string) error {
	group := models.Group{GID: gid, DisplayName: gid}
	if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&group).Error; err != nil {
		return fmt.Errorf("failed to create group %s: %w", gid, err)
	}
	return tx.Clauses(clause.OnConflict{DoNothing: true}).
		Create(&models.GroupUser{GID: gid, UID: uid}).Error
}

// AddUserToGroup adds uid to gid, creating the group when missing
func (s *Store) AddUserToGroup(ctx context.Context, uid, gid string) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return addToGroup(tx, uid, gid)
	})
}

// UpdateDisplayName sets the display name of an account and its profile.
// It reports false when the account does not exist.
func (s *Store) UpdateDisplayName(ctx context.Context, uid, name string) (bool, error) {
	updated := false
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&models.Account{}).
			Where("uid = ?", uid).
			Update("displayname", name)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return nil
		}
		updated = true

		var profile models.AccountProfile
		err := tx.Where("uid = ?", uid).First(&profile).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		profile.SetDisplayName(name)
		return tx.Model(&profile).Update("data", profile.Data).Error
	})
	return updated, err
}

// DeleteAccount removes an account and all rows associated with it in one
// transaction. It reports false when the account does not exist.
func (s *Store) DeleteAccount(ctx context.Context, uid string) (bool, error) {
	deleted := false
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("uid = ?", uid).Delete(&models.AccountProfile{}).Error; err != nil {
			return err
		}
		if err := tx.Where("userid = ?", uid).Delete(&models.Preference{}).Error; err != nil {
			return err
		}
		if err := tx.Where("uid = ?", uid).Delete(&models.GroupUser{}).Error; err != nil {
			return err
		}
		result := tx.Where("uid = ?", uid).Delete(&models.Account{})
		if result.Error != nil {
			return result.Error
		}
		deleted = result.RowsAffected > 0
		return nil
	})
	if err != nil {
		log.Printf("[Store] failed to delete account %s: %v", uid, err)
		return false, err
	}
	return deleted, nil
}

// ListUIDs returns local ids starting with the search term, ordered by id
func (s *Store) ListUIDs(ctx context.Context, params ListParams) ([]string, error) {
	query := s.db.WithContext(ctx).Model(&models.Account{})
	if params.Search != "" {
		query = query.Where(
			"LOWER(uid) LIKE ?"+likeEscape,
			strings.ToLower(escapeLike(params.Search))+"%",
		)
	}

	var uids []string
	err := query.Scopes(params.paginate).Order("uid ASC").Pluck("uid", &uids).Error
	return uids, err
}

// SearchDisplayNames returns local id to display name for accounts whose id or
// display name contains the search term
func (s *Store) SearchDisplayNames(
	ctx context.Context,
	params ListParams,
) (map[string]string, error) {
	query := s.db.WithContext(ctx).Model(&models.Account{})
	if params.Search != "" {
		pattern := "%" + strings.ToLower(escapeLike(params.Search)) + "%"
		query = query.Where(
			"LOWER(displayname) LIKE ?"+likeEscape+" OR LOWER(uid) LIKE ?"+likeEscape,
			pattern,
			pattern,
		)
	}

	var accounts []models.Account
	if err := query.Scopes(params.paginate).Order("uid ASC").Find(&accounts).Error; err != nil {
		return nil, err
	}

	names := make(map[string]string, len(accounts))
	for _, a := range accounts {
		names[a.UID] = a.DisplayName
	}
	return names, nil
}

// GetProfile returns the profile blob of an account
func (s *Store) GetProfile(ctx context.Context, uid string) (*models.AccountProfile, error) {
	var profile models.AccountProfile
	if err := s.db.WithContext(ctx).Where("uid = ?", uid).First(&profile).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRecordNotFound
		}
		return nil, err
	}
	return &profile, nil
}

// Preference operations
func (s *Store) GetPreference(ctx context.Context, uid, app, key string) (string, error) {
	var pref models.Preference
	err := s.db.WithContext(ctx).
		Where("userid = ? AND appid = ? AND configkey = ?", uid, app, key).
		First(&pref).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", ErrRecordNotFound
		}
		return "", err
	}
	return pref.ConfigValue, nil
}

func (s *Store) ListPreferences(ctx context.Context, uid string) ([]models.Preference, error) {
	var prefs []models.Preference
	err := s.db.WithContext(ctx).
		Where("userid = ?", uid).
		Order("appid ASC, configkey ASC").
		Find(&prefs).
		Error
	return prefs, err
}

// Group operations
func (s *Store) ListGroupsForUser(ctx context.Context, uid string) ([]string, error) {
	var gids []string
	err := s.db.WithContext(ctx).
		Model(&models.GroupUser{}).
		Where("uid = ?", uid).
		Order("gid ASC").
		Pluck("gid", &gids).
		Error
	return gids, err
}

func (s *Store) GroupExists(ctx context.Context, gid string) (bool, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&models.Group{}).Where("gid = ?", gid).Count(&count).Error
	return count > 0, err
}

// Health checks the database connection
func (s *Store) Health(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

// DB returns the underlying GORM database connection (for transactions)
func (s *Store) DB() *gorm.DB {
	return s.db
}

// Close closes the underlying database connection pool
func (s *Store) Close(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}

	done := make(chan error, 1)
	go func() {
		done <- sqlDB.Close()
	}()

	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}
