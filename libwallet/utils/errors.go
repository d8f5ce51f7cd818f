package utils

import (
	"fmt"

	"decred.org/dcrwallet/v2/errors"
	"github.com/asdine/storm"
	bolt "go.etcd.io/bbolt"
)

const (
	// Error Codes
	ErrInvalid                      = "invalid"
	ErrInvalidPassphrase            = "invalid_passphrase"
	ErrExist                        = "exists"
	ErrNotExist                     = "not_exists"
	ErrEmptySeed                    = "empty_seed"
	ErrWalletNotFound               = "wallet_not_found"
	ErrWalletNameExist              = "wallet_name_exists"
	ErrWalletCreationTimeout        = "wallet_creation_timeout"
	ErrWalletCreationFailed         = "wallet_creation_failed"
	ErrMissingActiveWalletInfo      = "missing_active_wallet_info"
	ErrSettingsDatabaseInUse        = "settings_db_in_use"
	ErrAccountLoggedOut             = "account_logged_out"
	ErrPluginUnknown                = "plugin_unknown"
	ErrReferralUnavailable          = "referral_unavailable"
	ErrLoggerAlreadyRegistered      = "logger_already_registered"
	ErrLogRotatorAlreadyInitialized = "log_rotator_already_initialized"
)

var (
	ErrInvalidNet  = errors.New("invalid network type found")
	ErrNilAccount  = errors.New("account cannot be nil")
	ErrNoStoreOpen = errors.New("store is not open")
)

// TranslateError maps storage level errors to the error codes exported by
// this package. Errors it does not recognise are returned unchanged.
func TranslateError(err error) error {
	switch err {
	case nil:
		return nil
	case storm.ErrNotFound:
		return errors.New(ErrNotExist)
	case storm.ErrAlreadyExists:
		return errors.New(ErrExist)
	case bolt.ErrTimeout:
		// timeout error occurs if storm fails to acquire a lock on the database file
		return errors.E(ErrSettingsDatabaseInUse)
	}

	if e, ok := err.(*errors.Error); ok {
		switch e.Kind {
		case errors.NotExist:
			return errors.New(ErrNotExist)
		case errors.Exist:
			return errors.New(ErrExist)
		case errors.Passphrase:
			return errors.New(ErrInvalidPassphrase)
		}
	}
	return err
}

// ErrUnknownPlugin returns an error describing a wallet type that no
// registered currency plugin handles.
func ErrUnknownPlugin(walletType string) error {
	return fmt.Errorf("%s: no currency plugin for wallet type %q", ErrPluginUnknown, walletType)
}
