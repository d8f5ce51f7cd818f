// Package sdk declares the contract between the login pipeline and the wallet
// core that owns keys, currency plugins and wallet construction. The core is
// an external collaborator; only its shape is defined here.
package sdk

import (
	"context"
	"sort"
	"strings"
)

// Denomination is a unit of account for a currency. Multiplier is the number
// of smallest units in one unit of this denomination, in base 10.
type Denomination struct {
	Name       string `json:"name"`
	Multiplier string `json:"multiplier"`
	Symbol     string `json:"symbol,omitempty"`
}

// MetaToken is a token built into a currency plugin.
type MetaToken struct {
	CurrencyCode    string         `json:"currencyCode"`
	CurrencyName    string         `json:"currencyName"`
	ContractAddress string         `json:"contractAddress"`
	Denominations   []Denomination `json:"denominations"`
}

// CurrencyInfo describes the blockchain a currency plugin implements.
// Denominations is ordered and never empty; the first entry is the primary
// denomination.
type CurrencyInfo struct {
	PluginID      string
	CurrencyCode  string
	DisplayName   string
	WalletType    string
	Denominations []Denomination
	MetaTokens    []MetaToken
}

// PrimaryDenomination returns the first supported denomination.
func (info *CurrencyInfo) PrimaryDenomination() Denomination {
	return info.Denominations[0]
}

// HasMultiplier reports whether multiplier is one of the supported
// denominations.
func (info *CurrencyInfo) HasMultiplier(multiplier string) bool {
	for _, denom := range info.Denominations {
		if denom.Multiplier == multiplier {
			return true
		}
	}
	return false
}

// CurrencyConfig maps a plugin id to the info of that plugin.
type CurrencyConfig map[string]*CurrencyInfo

// PluginIDs returns the plugin ids in lexical order so that lookups over the
// config are deterministic.
func (cfg CurrencyConfig) PluginIDs() []string {
	ids := make([]string, 0, len(cfg))
	for id := range cfg {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// FindByCurrencyCode returns the info of the plugin whose currency code
// matches code, ignoring case.
func (cfg CurrencyConfig) FindByCurrencyCode(code string) (*CurrencyInfo, bool) {
	for _, id := range cfg.PluginIDs() {
		info := cfg[id]
		if strings.EqualFold(info.CurrencyCode, code) {
			return info, true
		}
	}
	return nil, false
}

// FindByWalletType returns the info of the plugin that creates wallets of
// walletType.
func (cfg CurrencyConfig) FindByWalletType(walletType string) (*CurrencyInfo, bool) {
	for _, id := range cfg.PluginIDs() {
		info := cfg[id]
		if info.WalletType == walletType {
			return info, true
		}
	}
	return nil, false
}

// HasCurrencyCode reports whether any plugin defines code as its own
// currency code. The comparison is exact.
func (cfg CurrencyConfig) HasCurrencyCode(code string) bool {
	for _, info := range cfg {
		if info.CurrencyCode == code {
			return true
		}
	}
	return false
}

// WalletInfo is the key record the core keeps for every wallet.
type WalletInfo struct {
	ID       string `json:"id"`
	Type     string `json:"type"`
	Archived bool   `json:"archived"`
	Deleted  bool   `json:"deleted"`
}

// CreateWalletOptions are passed to Account.CreateCurrencyWallet.
type CreateWalletOptions struct {
	Name             string
	FiatCurrencyCode string
}

// Wallet is a currency wallet owned by an account.
type Wallet interface {
	ID() string
	Name() string
	Type() string
	FiatCurrencyCode() string
	CurrencyInfo() *CurrencyInfo
}

// Account is an authenticated user session.
type Account interface {
	Username() string
	ActiveWalletIDs() []string
	ArchivedWalletIDs() []string
	AllKeys() []WalletInfo
	CurrencyConfig() CurrencyConfig
	CurrencyWallets() []Wallet

	// CreateCurrencyWallet may never return on its own. Callers must bound
	// it with ctx.
	CreateCurrencyWallet(ctx context.Context, walletType string, opts CreateWalletOptions) (Wallet, error)

	// HasSecurityAlerts reports pending OTP resets or voucher requests that
	// must be shown before the wallet list.
	HasSecurityAlerts() bool
	Logout(ctx context.Context) error
}

// PinLoginChecker answers whether PIN login is enabled for a user. It is
// implemented by the core context rather than by the account.
type PinLoginChecker interface {
	PinLoginEnabled(ctx context.Context, username string) (bool, error)
}
