// Package plugins provides the currency plugins built into the wallet core.
// Denomination multipliers come from the unit constants of each chain's own
// library so they cannot drift from what the chain code uses.
package plugins

import (
	"fmt"
	"strconv"

	"github.com/btcsuite/btcd/btcutil"
	"github.com/crypto-power/walletinit/libwallet/sdk"
	"github.com/decred/dcrd/dcrutil/v4"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/params"
	"github.com/ltcsuite/ltcd/ltcutil"
)

const (
	Bitcoin     = "bitcoin"
	BitcoinCash = "bitcoincash"
	Litecoin    = "litecoin"
	Decred      = "decred"
	Ethereum    = "ethereum"
)

// WalletType returns the wallet type created by the plugin with pluginID.
func WalletType(pluginID string) string {
	return "wallet:" + pluginID
}

func multiplier(v int64) string {
	return strconv.FormatInt(v, 10)
}

func bitcoinLike(pluginID, code, displayName string, perCoin int64) *sdk.CurrencyInfo {
	return &sdk.CurrencyInfo{
		PluginID:     pluginID,
		CurrencyCode: code,
		DisplayName:  displayName,
		WalletType:   WalletType(pluginID),
		Denominations: []sdk.Denomination{
			{Name: code, Multiplier: multiplier(perCoin)},
			{Name: "m" + code, Multiplier: multiplier(perCoin / 1000)},
			{Name: "bits", Multiplier: multiplier(perCoin / 1000000)},
		},
	}
}

func ethereum() *sdk.CurrencyInfo {
	token := func(code, name, contract string, decimals int64) sdk.MetaToken {
		perToken := int64(1)
		for i := int64(0); i < decimals; i++ {
			perToken *= 10
		}
		return sdk.MetaToken{
			CurrencyCode:    code,
			CurrencyName:    name,
			ContractAddress: contract,
			Denominations:   []sdk.Denomination{{Name: code, Multiplier: multiplier(perToken)}},
		}
	}

	return &sdk.CurrencyInfo{
		PluginID:     Ethereum,
		CurrencyCode: "ETH",
		DisplayName:  "Ethereum",
		WalletType:   WalletType(Ethereum),
		Denominations: []sdk.Denomination{
			{Name: "ETH", Multiplier: strconv.FormatUint(params.Ether, 10), Symbol: "Ξ"},
			{Name: "mETH", Multiplier: strconv.FormatUint(params.Ether/1000, 10), Symbol: "mΞ"},
			{Name: "gwei", Multiplier: strconv.FormatUint(params.GWei, 10)},
		},
		MetaTokens: []sdk.MetaToken{
			token("USDT", "Tether", "0xdAC17F958D2ee523a2206206994597C13D831ec7", 6),
			token("USDC", "USD Coin", "0xA0b86991c6218b36c1d19D4a2e9Eb0cE3606eB48", 6),
			token("DAI", "Dai Stablecoin", "0x6B175474E89094C44Da98b954EedeAC495271d0F", 18),
		},
	}
}

var constructors = map[string]func() *sdk.CurrencyInfo{
	Bitcoin: func() *sdk.CurrencyInfo {
		return bitcoinLike(Bitcoin, "BTC", "Bitcoin", int64(btcutil.SatoshiPerBitcoin))
	},
	BitcoinCash: func() *sdk.CurrencyInfo {
		return bitcoinLike(BitcoinCash, "BCH", "Bitcoin Cash", int64(btcutil.SatoshiPerBitcoin))
	},
	Litecoin: func() *sdk.CurrencyInfo {
		return bitcoinLike(Litecoin, "LTC", "Litecoin", int64(ltcutil.SatoshiPerBitcoin))
	},
	Decred: func() *sdk.CurrencyInfo {
		info := bitcoinLike(Decred, "DCR", "Decred", int64(dcrutil.AtomsPerCoin))
		// decred has no "bits" unit.
		info.Denominations = info.Denominations[:2]
		return info
	},
	Ethereum: ethereum,
}

// Supported returns the ids of every built-in plugin.
func Supported() []string {
	return []string{Bitcoin, BitcoinCash, Ethereum, Litecoin, Decred}
}

// NewCurrencyConfig builds a currency config holding the requested plugins,
// or every built-in plugin when pluginIDs is empty.
func NewCurrencyConfig(pluginIDs ...string) (sdk.CurrencyConfig, error) {
	if len(pluginIDs) == 0 {
		pluginIDs = Supported()
	}

	cfg := make(sdk.CurrencyConfig, len(pluginIDs))
	for _, id := range pluginIDs {
		newInfo, ok := constructors[id]
		if !ok {
			return nil, fmt.Errorf("unknown currency plugin %q", id)
		}
		info := newInfo()
		if err := validate(info); err != nil {
			return nil, err
		}
		cfg[id] = info
	}

	log.Debugf("Loaded %d currency plugins", len(cfg))
	return cfg, nil
}

func validate(info *sdk.CurrencyInfo) error {
	if len(info.Denominations) == 0 {
		return fmt.Errorf("plugin %s declares no denominations", info.PluginID)
	}
	for _, denom := range info.Denominations {
		if _, err := strconv.ParseUint(denom.Multiplier, 10, 64); err != nil {
			return fmt.Errorf("plugin %s denomination %s: invalid multiplier %q", info.PluginID, denom.Name, denom.Multiplier)
		}
	}
	for _, token := range info.MetaTokens {
		if !common.IsHexAddress(token.ContractAddress) {
			return fmt.Errorf("plugin %s token %s: invalid contract address %q", info.PluginID, token.CurrencyCode, token.ContractAddress)
		}
	}
	return nil
}

// IsContractAddress reports whether addr is a well formed token contract
// address for account based chains.
func IsContractAddress(addr string) bool {
	return common.IsHexAddress(addr)
}
