package settings

import (
	"sort"
	"strconv"

	"github.com/crypto-power/walletinit/libwallet/sdk"
)

// PasswordRecoveryReminders are the login counts after which the password
// recovery reminder is shown.
var PasswordRecoveryReminders = []int{20, 200, 2000, 20000, 200000}

func passwordRecoveryRemindersShown() map[string]interface{} {
	shown := make(map[string]interface{}, len(PasswordRecoveryReminders))
	for _, count := range PasswordRecoveryReminders {
		shown[strconv.Itoa(count)] = false
	}
	return shown
}

// SyncedSchema declares the settings shared by every device of an account.
// Per currency keys are added by SyncedDefaultsFor.
var SyncedSchema = Schema{
	"autoLogoutTimeInSeconds":        KindNumber,
	"countryCode":                    KindString,
	"customTokens":                   KindArray,
	"defaultFiat":                    KindString,
	"defaultIsoFiat":                 KindString,
	"merchantMode":                   KindBoolean,
	"mostRecentWallets":              KindArray,
	"passwordRecoveryRemindersShown": KindObject,
	"preferredSwapPluginId":          KindString,
	"walletsSort":                    KindString,
}

// SyncedDefaults returns a fresh copy of the synced defaults without any
// per currency settings.
func SyncedDefaults() Document {
	return Document{
		"autoLogoutTimeInSeconds":        float64(3600),
		"countryCode":                    "",
		"customTokens":                   []interface{}{},
		"defaultFiat":                    "USD",
		"defaultIsoFiat":                 "iso:USD",
		"merchantMode":                   false,
		"mostRecentWallets":              []interface{}{},
		"passwordRecoveryRemindersShown": passwordRecoveryRemindersShown(),
		"preferredSwapPluginId":          "",
		"walletsSort":                    "manual",
	}
}

// SyncedDefaultsFor extends the synced defaults and schema with a settings
// object per known currency holding its primary denomination. The plugins
// in cfg supply the denomination of the currencies they implement; every
// other code in CurrencyPluginNames keeps a static one so that its stored
// settings survive a login without the plugin.
func SyncedDefaultsFor(cfg sdk.CurrencyConfig) (Document, Schema) {
	defaults := SyncedDefaults()
	schema := make(Schema, len(SyncedSchema)+len(fallbackMultipliers)+len(cfg))
	for key, kind := range SyncedSchema {
		schema[key] = kind
	}

	for code, multiplier := range fallbackMultipliers {
		defaults[code] = map[string]interface{}{denominationField: multiplier}
		schema[code] = KindObject
	}

	for _, id := range cfg.PluginIDs() {
		info := cfg[id]
		if info == nil || len(info.Denominations) == 0 {
			continue
		}
		defaults[info.CurrencyCode] = map[string]interface{}{
			denominationField: info.PrimaryDenomination().Multiplier,
		}
		schema[info.CurrencyCode] = KindObject
	}
	return defaults, schema
}

// LocalSchema declares the settings kept on this device only.
var LocalSchema = Schema{
	"bluetoothMode":              KindBoolean,
	"isAccountBalanceVisible":    KindBoolean,
	"isWalletFiatBalanceVisible": KindBoolean,
	"passwordReminder":           KindObject,
	"spendingLimits":             KindObject,
}

// LocalDefaults returns a fresh copy of the local defaults.
func LocalDefaults() Document {
	return Document{
		"bluetoothMode":              false,
		"isAccountBalanceVisible":    true,
		"isWalletFiatBalanceVisible": false,
		"passwordReminder": map[string]interface{}{
			"needsPasswordCheck":     false,
			"lastPasswordUseDate":    float64(0),
			"passwordUseCount":       float64(0),
			"nonPasswordLoginsCount": float64(0),
			"nonPasswordDaysLimit":   float64(4),
			"nonPasswordLoginsLimit": float64(4),
		},
		"spendingLimits": map[string]interface{}{
			"transaction": map[string]interface{}{
				"isEnabled": false,
				"amount":    float64(0),
			},
		},
	}
}

// ValidateDefaults returns a SchemaDriftError for every default whose kind
// disagrees with schema, and for every schema key without a default.
func ValidateDefaults(defaults Document, schema Schema) []error {
	var issues []error
	for _, key := range sortedKeys(defaults) {
		actual := KindOf(defaults[key])
		expected, ok := schema[key]
		if !ok {
			expected = KindUndefined
		}
		if actual != expected {
			issues = append(issues, SchemaDriftError{Key: key, Expected: expected, Actual: actual})
		}
	}

	missing := make([]string, 0)
	for key := range schema {
		if _, ok := defaults[key]; !ok {
			missing = append(missing, key)
		}
	}
	sort.Strings(missing)
	for _, key := range missing {
		issues = append(issues, SchemaDriftError{Key: key, Expected: schema[key], Actual: KindUndefined})
	}
	return issues
}
