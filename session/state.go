package session

import (
	"github.com/crypto-power/walletinit/libwallet/sdk"
	"github.com/crypto-power/walletinit/libwallet/settings"
)

// TouchIDInfo is the biometric login state reported by the login screen.
type TouchIDInfo struct {
	IsTouchSupported bool
	IsTouchEnabled   bool
}

// AccountInitState is the reconciled state of a logged in account. It is
// built once per login and replaced as a whole on the next one.
type AccountInitState struct {
	Account     sdk.Account
	TouchIDInfo TouchIDInfo

	// WalletID and CurrencyCode describe the first active wallet. Both are
	// empty for a new account.
	WalletID     string
	CurrencyCode string

	ActiveWalletIDs   []string
	ArchivedWalletIDs []string

	DenominationKeys     []settings.DenominationKey
	CustomTokensSettings []settings.CustomTokenInfo

	PinLoginEnabled bool
	DefaultFiat     string
	DefaultIsoFiat  string

	// Settings is the synced document overlaid by the local one.
	Settings settings.Document
}

// Copy returns a copy of s that shares no slices or settings values with
// it. The account is shared.
func (s *AccountInitState) Copy() *AccountInitState {
	if s == nil {
		return nil
	}
	out := *s
	out.ActiveWalletIDs = append([]string(nil), s.ActiveWalletIDs...)
	out.ArchivedWalletIDs = append([]string(nil), s.ArchivedWalletIDs...)
	out.DenominationKeys = append([]settings.DenominationKey(nil), s.DenominationKeys...)
	out.CustomTokensSettings = append([]settings.CustomTokenInfo(nil), s.CustomTokensSettings...)
	out.Settings = s.Settings.Copy()
	return &out
}

func (s *AccountInitState) number(key string) float64 {
	v, _ := s.Settings[key].(float64)
	return v
}

func (s *AccountInitState) boolean(key string) bool {
	v, _ := s.Settings[key].(bool)
	return v
}

func (s *AccountInitState) str(key string) string {
	v, _ := s.Settings[key].(string)
	return v
}

func (s *AccountInitState) AutoLogoutTimeInSeconds() float64 {
	return s.number("autoLogoutTimeInSeconds")
}

func (s *AccountInitState) BluetoothMode() bool {
	return s.boolean("bluetoothMode")
}

func (s *AccountInitState) MerchantMode() bool {
	return s.boolean("merchantMode")
}

func (s *AccountInitState) CountryCode() string {
	return s.str("countryCode")
}

func (s *AccountInitState) IsAccountBalanceVisible() bool {
	return s.boolean("isAccountBalanceVisible")
}

func (s *AccountInitState) IsWalletFiatBalanceVisible() bool {
	return s.boolean("isWalletFiatBalanceVisible")
}

// Denomination returns the multiplier the currency is displayed in.
func (s *AccountInitState) Denomination(currencyCode string) (string, bool) {
	for _, key := range s.DenominationKeys {
		if key.CurrencyCode == currencyCode {
			return key.DenominationKey, true
		}
	}
	return "", false
}

// State is everything the session store holds.
type State struct {
	LoggedIn bool
	Username string

	Account sdk.Account
	Init    *AccountInitState

	SelectedWallet       SelectWalletData
	WalletIDsForProgress []string
	Wallets              []WalletSummary
	EnabledTokens        map[string][]string
	EnabledTokensSynced  bool
	Referral             ReferralData
}

func (s State) copy() State {
	out := s
	out.Init = s.Init.Copy()
	out.WalletIDsForProgress = append([]string(nil), s.WalletIDsForProgress...)
	out.Wallets = append([]WalletSummary(nil), s.Wallets...)
	out.EnabledTokens = make(map[string][]string, len(s.EnabledTokens))
	for id, tokens := range s.EnabledTokens {
		out.EnabledTokens[id] = append([]string(nil), tokens...)
	}
	out.Referral.CurrencyCodes = append([]string(nil), s.Referral.CurrencyCodes...)
	return out
}
