package settings

import (
	"encoding/json"

	"github.com/crypto-power/walletinit/libwallet/sdk"
)

// CustomTokenInfo is a user added token as stored in the synced settings.
type CustomTokenInfo struct {
	CurrencyName    string             `json:"currencyName"`
	CurrencyCode    string             `json:"currencyCode"`
	ContractAddress string             `json:"contractAddress"`
	Multiplier      string             `json:"multiplier"`
	Denomination    string             `json:"denomination,omitempty"`
	Denominations   []sdk.Denomination `json:"denominations,omitempty"`
	WalletType      string             `json:"walletType,omitempty"`
	IsVisible       bool               `json:"isVisible"`
}

// FilterConflictingTokens drops every token whose currency code is also the
// currency code of a plugin in cfg. Entries that are not token objects are
// kept, and the order of the survivors is preserved.
func FilterConflictingTokens(tokens []interface{}, cfg sdk.CurrencyConfig) []interface{} {
	filtered := make([]interface{}, 0, len(tokens))
	for _, token := range tokens {
		if obj, ok := token.(map[string]interface{}); ok {
			if code, ok := obj["currencyCode"].(string); ok && cfg.HasCurrencyCode(code) {
				log.Debugf("Dropping custom token %s, it conflicts with a built in currency", code)
				continue
			}
		}
		filtered = append(filtered, deepCopy(token))
	}
	return filtered
}

// FilterConflictingCustomTokens is FilterConflictingTokens for decoded
// tokens.
func FilterConflictingCustomTokens(tokens []CustomTokenInfo, cfg sdk.CurrencyConfig) []CustomTokenInfo {
	filtered := make([]CustomTokenInfo, 0, len(tokens))
	for _, token := range tokens {
		if cfg.HasCurrencyCode(token.CurrencyCode) {
			continue
		}
		filtered = append(filtered, token)
	}
	return filtered
}

// CustomTokens decodes the custom token list of doc. Entries that cannot be
// decoded are skipped.
func CustomTokens(doc Document) []CustomTokenInfo {
	raw, ok := doc[customTokensKey].([]interface{})
	if !ok {
		return nil
	}

	tokens := make([]CustomTokenInfo, 0, len(raw))
	for _, entry := range raw {
		obj, ok := entry.(map[string]interface{})
		if !ok {
			continue
		}
		data, err := json.Marshal(obj)
		if err != nil {
			log.Warnf("Skipping custom token: %v", err)
			continue
		}
		var token CustomTokenInfo
		if err := json.Unmarshal(data, &token); err != nil {
			log.Warnf("Skipping malformed custom token %v: %v", obj, err)
			continue
		}
		tokens = append(tokens, token)
	}
	return tokens
}
