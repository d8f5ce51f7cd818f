package login

import (
	"time"

	"github.com/crypto-power/walletinit/libwallet/plugins"
	"github.com/crypto-power/walletinit/libwallet/utils"
)

// DefaultWallet is a wallet created for new accounts without a referral.
type DefaultWallet struct {
	WalletType string
	Name       string
}

// Config holds the run time knobs of the login pipeline.
type Config struct {
	// WalletCreationTimeout bounds every wallet creation, including the
	// wait for an earlier creation on the same account.
	WalletCreationTimeout time.Duration

	// BackgroundTimeout bounds detached work such as referral refreshes.
	BackgroundTimeout time.Duration

	// DefaultFiat is used when the device locales name no currency.
	DefaultFiat string

	// Locales are the device locales in order of preference.
	Locales []string

	DefaultWallets []DefaultWallet
}

// DefaultConfig returns the configuration used when none is given.
func DefaultConfig() Config {
	return Config{
		WalletCreationTimeout: utils.DefaultWalletCreationTimeout,
		BackgroundTimeout:     time.Minute,
		DefaultFiat:           "USD",
		DefaultWallets: []DefaultWallet{
			{WalletType: plugins.WalletType(plugins.Bitcoin), Name: "My Bitcoin"},
			{WalletType: plugins.WalletType(plugins.BitcoinCash), Name: "My Bitcoin Cash"},
			{WalletType: plugins.WalletType(plugins.Ethereum), Name: "My Ethereum"},
		},
	}
}

func (cfg Config) withDefaults() Config {
	def := DefaultConfig()
	if cfg.WalletCreationTimeout <= 0 {
		cfg.WalletCreationTimeout = def.WalletCreationTimeout
	}
	if cfg.BackgroundTimeout <= 0 {
		cfg.BackgroundTimeout = def.BackgroundTimeout
	}
	if cfg.DefaultFiat == "" {
		cfg.DefaultFiat = def.DefaultFiat
	}
	if len(cfg.DefaultWallets) == 0 {
		cfg.DefaultWallets = def.DefaultWallets
	}
	return cfg
}
