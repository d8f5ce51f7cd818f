package login

import (
	"errors"
	"fmt"

	"github.com/crypto-power/walletinit/libwallet/utils"
)

// ErrWalletCreationTimeout is wrapped by a WalletCreationError when the
// wallet core did not answer in time.
var ErrWalletCreationTimeout = errors.New(utils.ErrWalletCreationTimeout)

// WalletCreationError wraps a failed wallet creation. Message is meant for
// the user.
type WalletCreationError struct {
	WalletType string
	Message    string
	Err        error
}

// Unwrap returns the embedded error
func (err WalletCreationError) Unwrap() error {
	return err.Err
}

func (err WalletCreationError) Error() string {
	m := err.Message
	if err.WalletType != "" {
		m += " (" + err.WalletType + ")"
	}
	if err.Err != nil {
		m += " : " + err.Err.Error()
	}
	return m
}

// MissingActiveWalletInfoError is returned when the account lists an active
// wallet it holds no key record for.
type MissingActiveWalletInfoError struct {
	WalletID string
}

func (err MissingActiveWalletInfoError) Error() string {
	return fmt.Sprintf("%s: cannot find a wallet info for active wallet %q", utils.ErrMissingActiveWalletInfo, err.WalletID)
}

// InitializationError wraps any failure of an initialization step.
type InitializationError struct {
	Step string
	Err  error
}

// Unwrap returns the embedded error
func (err InitializationError) Unwrap() error {
	return err.Err
}

func (err InitializationError) Error() string {
	return fmt.Sprintf("account initialization failed at %s: %v", err.Step, err.Err)
}
