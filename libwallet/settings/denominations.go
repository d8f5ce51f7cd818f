package settings

import (
	"github.com/crypto-power/walletinit/libwallet/sdk"
)

const denominationField = "denomination"

// CurrencyPluginNames maps the currency code used as a settings key to the
// id of the plugin implementing that currency. Codes whose plugin is not
// loaded by the account are skipped during reconciliation.
var CurrencyPluginNames = map[string]string{
	"BCH":  "bitcoincash",
	"BSV":  "bitcoinsv",
	"BTC":  "bitcoin",
	"DASH": "dash",
	"DCR":  "decred",
	"DGB":  "digibyte",
	"DOGE": "dogecoin",
	"EOS":  "eos",
	"ETC":  "ethereumclassic",
	"ETH":  "ethereum",
	"FIO":  "fio",
	"LTC":  "litecoin",
	"XLM":  "stellar",
	"XRP":  "ripple",
	"XTZ":  "tezos",
	"ZEC":  "zcash",
}

// fallbackMultipliers is the primary denomination of every currency in
// CurrencyPluginNames, used as the default when its plugin is not loaded.
var fallbackMultipliers = map[string]string{
	"BCH":  "100000000",
	"BSV":  "100000000",
	"BTC":  "100000000",
	"DASH": "100000000",
	"DCR":  "100000000",
	"DGB":  "100000000",
	"DOGE": "100000000",
	"EOS":  "10000",
	"ETC":  "1000000000000000000",
	"ETH":  "1000000000000000000",
	"FIO":  "1000000000",
	"LTC":  "100000000",
	"XLM":  "10000000",
	"XRP":  "1000000",
	"XTZ":  "1000000",
	"ZEC":  "100000000",
}

// DenominationKey records the denomination a currency is displayed in.
type DenominationKey struct {
	CurrencyCode    string `json:"currencyCode"`
	DenominationKey string `json:"denominationKey"`
}

// ReconcileDenominations replaces every stored currency denomination that
// the matching plugin in cfg does not support with that plugin's primary
// denomination. It returns a new document and whether anything changed.
// Keys without a loaded plugin are copied untouched.
func ReconcileDenominations(doc Document, cfg sdk.CurrencyConfig) (Document, bool, []error) {
	out := doc.Copy()
	if out == nil {
		out = Document{}
	}

	var changed bool
	var issues []error
	for _, key := range sortedKeys(out) {
		pluginID, ok := CurrencyPluginNames[key]
		if !ok {
			continue
		}
		info, ok := cfg[pluginID]
		if !ok || info == nil || len(info.Denominations) == 0 {
			continue
		}
		currency, ok := out.Object(key)
		if !ok {
			continue
		}
		stored, ok := currency[denominationField]
		if !ok {
			continue
		}

		multiplier, _ := stored.(string)
		if multiplier != "" && info.HasMultiplier(multiplier) {
			continue
		}

		primary := info.PrimaryDenomination().Multiplier
		invalid := InvalidDenominationError{
			CurrencyCode: key,
			Stored:       multiplier,
			Replacement:  primary,
		}
		log.Warnf("%v, overwriting with plugin denomination", invalid)
		currency[denominationField] = primary
		changed = true
		issues = append(issues, invalid)
	}

	return out, changed, issues
}

// DenominationKeys lists the denomination of every object setting that
// carries a string denomination field, keyed by the setting name.
func DenominationKeys(doc Document) []DenominationKey {
	var keys []DenominationKey
	for _, key := range sortedKeys(doc) {
		obj, ok := doc.Object(key)
		if !ok {
			continue
		}
		if denomination, ok := obj[denominationField].(string); ok {
			keys = append(keys, DenominationKey{CurrencyCode: key, DenominationKey: denomination})
		}
	}
	return keys
}
