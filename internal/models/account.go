package models

import (
	"github.com/go-authgate/ispconfig-auth/internal/identity"
)

// Account maps a local user id to the mail identity it was provisioned from.
type Account struct {
	UID         string `gorm:"column:uid;primaryKey;size:64"`
	DisplayName string `gorm:"column:displayname;size:255"`
	Mailbox     string `gorm:"column:mailbox;size:255;not null;uniqueIndex:mailaddress_unique"`
	Domain      string `gorm:"column:domain;size:255;not null;uniqueIndex:mailaddress_unique"`
}

// TableName overrides the table name used by Account to `users_ispconfig`
func (Account) TableName() string {
	return "users_ispconfig"
}

// Identity returns the account as a domain user.
func (a *Account) Identity() identity.DomainUser {
	return identity.DomainUser{
		LocalID:     a.UID,
		Mailbox:     a.Mailbox,
		Domain:      a.Domain,
		DisplayName: a.DisplayName,
	}
}

// Preference is a single per-user app setting.
type Preference struct {
	UserID      string `gorm:"column:userid;primaryKey;size:64"`
	AppID       string `gorm:"column:appid;primaryKey;size:32"`
	ConfigKey   string `gorm:"column:configkey;primaryKey;size:64"`
	ConfigValue string `gorm:"column:configvalue;type:text"`
}

// TableName overrides the table name used by Preference to `preferences`
func (Preference) TableName() string {
	return "preferences"
}

// Group is a named user group.
type Group struct {
	GID         string `gorm:"column:gid;primaryKey;size:64"`
	DisplayName string `gorm:"column:displayname;size:255"`
}

// TableName overrides the table name used by Group to `groups`
func (Group) TableName() string {
	return "groups"
}

// GroupUser is a group membership.
type GroupUser struct {
	GID string `gorm:"column:gid;primaryKey;size:64"`
	UID string `gorm:"column:uid;primaryKey;size:64;index"`
}

// TableName overrides the table name used by GroupUser to `group_user`
func (GroupUser) TableName() string {
	return "group_user"
}
