package session

import (
	"github.com/crypto-power/walletinit/libwallet/sdk"
)

// ActionType names an event published on the session store.
type ActionType string

const (
	Login                      ActionType = "LOGIN"
	Logout                     ActionType = "LOGOUT"
	InsertWalletIDsForProgress ActionType = "INSERT_WALLET_IDS_FOR_PROGRESS"
	AccountInitComplete        ActionType = "ACCOUNT_INIT_COMPLETE"
	SelectWallet               ActionType = "UI/WALLETS/SELECT_WALLET"
	UpdateWallets              ActionType = "CORE/WALLETS/UPDATE_WALLETS"
	UpdateWalletEnabledTokens  ActionType = "UPDATE_WALLET_ENABLED_TOKENS"
	UpdateWalletsEnabledTokens ActionType = "UPDATE_WALLETS_ENABLED_TOKENS"
	AccountReferralLoaded      ActionType = "ACCOUNT_REFERRAL_LOADED"
)

// Action is a named event and its payload. The payload type is fixed per
// action type.
type Action struct {
	Type ActionType
	Data interface{}
}

// LoginData is the payload of Login.
type LoginData struct {
	Account sdk.Account
}

// LogoutData is the payload of Logout.
type LogoutData struct {
	Username string
}

// WalletIDsData is the payload of InsertWalletIDsForProgress.
type WalletIDsData struct {
	ActiveWalletIDs []string
}

// SelectWalletData is the payload of SelectWallet.
type SelectWalletData struct {
	WalletID     string
	CurrencyCode string
}

// WalletSummary is the display state of one wallet.
type WalletSummary struct {
	ID           string
	Name         string
	Type         string
	CurrencyCode string
	FiatCurrency string
}

// UpdateWalletsData is the payload of UpdateWallets.
type UpdateWalletsData struct {
	ActiveWalletIDs   []string
	ArchivedWalletIDs []string
	Wallets           []WalletSummary
}

// WalletEnabledTokensData is the payload of UpdateWalletEnabledTokens.
type WalletEnabledTokensData struct {
	WalletID      string
	EnabledTokens []string
}

// ReferralData is the payload of AccountReferralLoaded.
type ReferralData struct {
	InstallerID   string
	CurrencyCodes []string
}
