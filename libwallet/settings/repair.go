package settings

import (
	"sort"

	"github.com/crypto-power/walletinit/libwallet/sdk"
)

const customTokensKey = "customTokens"

// Result is the outcome of repairing a loaded settings document.
type Result struct {
	// Settings holds exactly the keys of the defaults document. It shares no
	// values with the inputs.
	Settings Document

	// IsOverwriteNeeded is set when Settings differs from what was loaded
	// and must be persisted.
	IsOverwriteNeeded bool

	// IsDefaultTypeIncorrect is set when a default disagrees with the kind
	// its schema declares.
	IsDefaultTypeIncorrect bool

	// Issues lists every SchemaDriftError, CorruptSettingError and
	// InvalidDenominationError found during the pass.
	Issues []error
}

// Repair validates loaded against schema, replacing every value whose kind
// is wrong (or which is missing) with a copy of its default. Keys that are
// not present in defaults are dropped. Neither loaded nor defaults is
// modified.
func Repair(loaded, defaults Document, schema Schema) Result {
	result := Result{
		Settings: make(Document, len(defaults)),
	}

	for _, key := range sortedKeys(defaults) {
		defaultValue := defaults[key]
		defaultKind := KindOf(defaultValue)

		expected, declared := schema[key]
		if !declared {
			expected = defaultKind
		}
		if !declared || defaultKind != expected {
			drift := SchemaDriftError{Key: key, Expected: expected, Actual: defaultKind}
			log.Errorf("Mismatched default setting type: %v", drift)
			result.IsDefaultTypeIncorrect = true
			result.Issues = append(result.Issues, drift)
		}

		loadedValue, found := loaded[key]
		loadedKind := KindOf(loadedValue)
		if loadedKind != expected {
			corrupt := CorruptSettingError{Key: key, Expected: expected, Actual: loadedKind}
			if found {
				log.Warnf("Settings overwrite needed: %v, replacing %v with default %v", corrupt, loadedValue, defaultValue)
			} else {
				log.Debugf("Setting %q missing, using default %v", key, defaultValue)
			}
			result.IsOverwriteNeeded = true
			result.Issues = append(result.Issues, corrupt)
			result.Settings[key] = deepCopy(defaultValue)
			continue
		}

		result.Settings[key] = deepCopy(loadedValue)
	}

	return result
}

// RepairWithAccount runs Repair and then reconciles the per currency
// denominations and the custom token list against the currency plugins of
// account. It is used for the synced document only.
func RepairWithAccount(loaded, defaults Document, schema Schema, account sdk.Account) Result {
	result := Repair(loaded, defaults, schema)
	if account == nil {
		return result
	}

	cfg := account.CurrencyConfig()

	reconciled, changed, issues := ReconcileDenominations(result.Settings, cfg)
	result.Settings = reconciled
	result.Issues = append(result.Issues, issues...)
	if changed {
		result.IsOverwriteNeeded = true
	}

	if tokens, ok := result.Settings[customTokensKey].([]interface{}); ok {
		result.Settings[customTokensKey] = FilterConflictingTokens(tokens, cfg)
	}

	return result
}

func sortedKeys(doc Document) []string {
	keys := make([]string, 0, len(doc))
	for key := range doc {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
