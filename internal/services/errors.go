package services

import "errors"

var (
	// ErrInvalidCredentials is the only failure reported to a login caller.
	// The cause is joined to it for logging.
	ErrInvalidCredentials = errors.New("invalid username or password")

	// ErrNoMatchingIdentity is returned when no candidate resolved or none verified
	ErrNoMatchingIdentity = errors.New("no matching identity")

	// ErrDomainNotAllowed is returned when every candidate domain is outside the whitelist
	ErrDomainNotAllowed = errors.New("domain not allowed")

	// ErrUserNotFound is returned for operations on an unknown local id
	ErrUserNotFound = errors.New("user not found")

	// ErrLocalPersistence wraps database failures
	ErrLocalPersistence = errors.New("local persistence failed")

	// ErrProvisioningFailed is returned when the remote login succeeded but the
	// local account could not be created
	ErrProvisioningFailed = errors.New("failed to provision local account")

	// ErrPasswordChangeFailed is returned when the panel did not accept a new password
	ErrPasswordChangeFailed = errors.New("password change failed")
)
