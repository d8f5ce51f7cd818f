package settings_test

import (
	"context"
	"math/rand"

	"github.com/crypto-power/walletinit/libwallet/plugins"
	"github.com/crypto-power/walletinit/libwallet/sdk"
	"github.com/crypto-power/walletinit/libwallet/settings"
	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"
)

type stubAccount struct {
	sdk.Account
	cfg sdk.CurrencyConfig
}

func (a stubAccount) Username() string                   { return "stub" }
func (a stubAccount) CurrencyConfig() sdk.CurrencyConfig { return a.cfg }
func (a stubAccount) Logout(context.Context) error       { return nil }

// randomValue returns a value of a random kind, as it could appear in a
// decoded document.
func randomValue(depth int) interface{} {
	switch rand.Intn(7) {
	case 0:
		return nil
	case 1:
		return "value"
	case 2:
		return rand.Float64() * 1000
	case 3:
		return rand.Intn(2) == 0
	case 4:
		if depth > 1 {
			return "leaf"
		}
		return map[string]interface{}{"denomination": randomValue(depth + 1)}
	case 5:
		if depth > 1 {
			return float64(1)
		}
		return []interface{}{randomValue(depth + 1)}
	default:
		return "3600"
	}
}

func randomDocument(defaults settings.Document) settings.Document {
	doc := settings.Document{}
	for key := range defaults {
		if rand.Intn(3) > 0 {
			doc[key] = randomValue(0)
		}
	}
	doc["unknownKey"] = randomValue(0)
	return doc
}

var _ = Describe("Repair", func() {
	var (
		defaults settings.Document
		schema   settings.Schema
	)

	BeforeEach(func() {
		defaults = settings.SyncedDefaults()
		schema = settings.SyncedSchema
	})

	It("replaces a value with the wrong kind and requests an overwrite", func() {
		loaded := settings.Document{"autoLogoutTimeInSeconds": "3600"}
		result := settings.Repair(loaded,
			settings.Document{"autoLogoutTimeInSeconds": float64(3600)},
			settings.Schema{"autoLogoutTimeInSeconds": settings.KindNumber})

		Expect(result.Settings["autoLogoutTimeInSeconds"]).To(Equal(float64(3600)))
		Expect(result.IsOverwriteNeeded).To(BeTrue())
		Expect(result.IsDefaultTypeIncorrect).To(BeFalse())
		Expect(result.Issues).To(ConsistOf(settings.CorruptSettingError{
			Key:      "autoLogoutTimeInSeconds",
			Expected: settings.KindNumber,
			Actual:   settings.KindString,
		}))
	})

	It("keeps values of the declared kind", func() {
		loaded := settings.SyncedDefaults()
		loaded["autoLogoutTimeInSeconds"] = float64(60)
		loaded["defaultFiat"] = "EUR"

		result := settings.Repair(loaded, defaults, schema)
		Expect(result.IsOverwriteNeeded).To(BeFalse())
		Expect(result.Issues).To(BeEmpty())
		Expect(result.Settings["autoLogoutTimeInSeconds"]).To(Equal(float64(60)))
		Expect(result.Settings["defaultFiat"]).To(Equal("EUR"))
	})

	It("treats missing keys as undefined", func() {
		result := settings.Repair(settings.Document{}, defaults, schema)
		Expect(result.IsOverwriteNeeded).To(BeTrue())
		Expect(result.Settings).To(Equal(defaults))
	})

	It("flags defaults that disagree with the schema but still uses them", func() {
		result := settings.Repair(settings.Document{},
			settings.Document{"merchantMode": ""},
			settings.Schema{"merchantMode": settings.KindBoolean})

		Expect(result.IsDefaultTypeIncorrect).To(BeTrue())
		Expect(result.Settings["merchantMode"]).To(Equal(""))
		Expect(result.Issues).To(ContainElement(settings.SchemaDriftError{
			Key:      "merchantMode",
			Expected: settings.KindBoolean,
			Actual:   settings.KindString,
		}))
	})

	It("does not alias or mutate its inputs", func() {
		loaded := settings.Document{
			"passwordRecoveryRemindersShown": map[string]interface{}{"20": true},
		}
		result := settings.Repair(loaded, defaults, schema)

		shown := result.Settings["passwordRecoveryRemindersShown"].(map[string]interface{})
		shown["20"] = false
		Expect(loaded["passwordRecoveryRemindersShown"]).To(Equal(map[string]interface{}{"20": true}))

		tokens := result.Settings["customTokens"].([]interface{})
		result.Settings["customTokens"] = append(tokens, "x")
		Expect(defaults["customTokens"]).To(BeEmpty())
	})

	It("yields the key set and kinds of the defaults for any loaded document", func() {
		for i := 0; i < 200; i++ {
			loaded := randomDocument(defaults)
			result := settings.Repair(loaded, defaults, schema)

			Expect(result.Settings).To(HaveLen(len(defaults)))
			for key := range defaults {
				Expect(result.Settings).To(HaveKey(key))
				Expect(settings.KindOf(result.Settings[key])).To(Equal(schema[key]), "key %s", key)
			}
		}
	})

	It("is idempotent", func() {
		for i := 0; i < 200; i++ {
			first := settings.Repair(randomDocument(defaults), defaults, schema)
			second := settings.Repair(first.Settings, defaults, schema)
			Expect(second.IsOverwriteNeeded).To(BeFalse())
			Expect(second.Settings).To(Equal(first.Settings))
		}
	})

	Describe("RepairWithAccount", func() {
		var account stubAccount

		BeforeEach(func() {
			cfg, err := plugins.NewCurrencyConfig()
			Expect(err).To(BeNil())
			account = stubAccount{cfg: cfg}
			defaults, schema = settings.SyncedDefaultsFor(cfg)
		})

		It("replaces unsupported denominations with the primary one", func() {
			loaded := settings.SyncedDefaults()
			loaded["BTC"] = map[string]interface{}{"denomination": "7"}
			loaded["ETH"] = map[string]interface{}{"denomination": "1000000000"}

			result := settings.RepairWithAccount(loaded, defaults, schema, account)
			Expect(result.IsOverwriteNeeded).To(BeTrue())
			Expect(result.Settings["BTC"]).To(Equal(map[string]interface{}{"denomination": "100000000"}))
			Expect(result.Settings["ETH"]).To(Equal(map[string]interface{}{"denomination": "1000000000"}))
			Expect(loaded["BTC"]).To(Equal(map[string]interface{}{"denomination": "7"}))
		})

		It("filters custom tokens that shadow a built in currency", func() {
			loaded, _ := settings.SyncedDefaultsFor(account.cfg)
			loaded["customTokens"] = []interface{}{
				map[string]interface{}{"currencyCode": "BTC", "multiplier": "1"},
				map[string]interface{}{"currencyCode": "TOKENA", "multiplier": "1000"},
			}

			result := settings.RepairWithAccount(loaded, defaults, schema, account)
			Expect(result.IsOverwriteNeeded).To(BeFalse())
			Expect(result.Settings["customTokens"]).To(Equal([]interface{}{
				map[string]interface{}{"currencyCode": "TOKENA", "multiplier": "1000"},
			}))
		})

		It("keeps the settings of currencies whose plugin is not loaded", func() {
			cfg, err := plugins.NewCurrencyConfig(plugins.Bitcoin)
			Expect(err).To(BeNil())
			account = stubAccount{cfg: cfg}
			defaults, schema = settings.SyncedDefaultsFor(cfg)

			loaded := settings.SyncedDefaults()
			loaded["BTC"] = map[string]interface{}{"denomination": "100000000"}
			loaded["ETH"] = map[string]interface{}{"denomination": "1000000000"}
			loaded["autoLogoutTimeInSeconds"] = "3600"

			result := settings.RepairWithAccount(loaded, defaults, schema, account)
			Expect(result.IsOverwriteNeeded).To(BeTrue())
			Expect(result.Settings["autoLogoutTimeInSeconds"]).To(Equal(float64(3600)))
			Expect(result.Settings).To(HaveKeyWithValue("ETH", map[string]interface{}{"denomination": "1000000000"}))
			for _, issue := range result.Issues {
				Expect(issue).NotTo(BeAssignableToTypeOf(settings.InvalidDenominationError{}))
			}
		})

		It("is the same as Repair without an account", func() {
			loaded := settings.Document{"BTC": map[string]interface{}{"denomination": "7"}}
			result := settings.RepairWithAccount(loaded, defaults, schema, nil)
			Expect(result.Settings["BTC"]).To(Equal(map[string]interface{}{"denomination": "7"}))
		})
	})
})

var _ = Describe("KindOf", func() {
	expectKind := func(value interface{}, kind settings.Kind) {
		ExpectWithOffset(1, settings.KindOf(value)).To(Equal(kind))
	}

	It("classifies decoded and native values", func() {
		expectKind(nil, settings.KindUndefined)
		expectKind("", settings.KindString)
		expectKind(float64(1), settings.KindNumber)
		expectKind(3, settings.KindNumber)
		expectKind(false, settings.KindBoolean)
		expectKind(map[string]interface{}{}, settings.KindObject)
		expectKind(settings.Document{}, settings.KindObject)
		expectKind([]interface{}{}, settings.KindArray)
		expectKind([]string{"a"}, settings.KindArray)
		expectKind(map[string]bool{}, settings.KindObject)
		expectKind(func() {}, settings.KindUndefined)
	})
})

var _ = Describe("Defaults", func() {
	It("match their schemas", func() {
		Expect(settings.ValidateDefaults(settings.SyncedDefaults(), settings.SyncedSchema)).To(BeEmpty())
		Expect(settings.ValidateDefaults(settings.LocalDefaults(), settings.LocalSchema)).To(BeEmpty())

		cfg, err := plugins.NewCurrencyConfig()
		Expect(err).To(BeNil())
		defaults, schema := settings.SyncedDefaultsFor(cfg)
		Expect(settings.ValidateDefaults(defaults, schema)).To(BeEmpty())
		Expect(defaults).To(HaveKey("DCR"))
	})

	It("declare every known currency even without plugins", func() {
		defaults, schema := settings.SyncedDefaultsFor(sdk.CurrencyConfig{})
		Expect(settings.ValidateDefaults(defaults, schema)).To(BeEmpty())
		for code := range settings.CurrencyPluginNames {
			Expect(defaults).To(HaveKey(code))
			Expect(schema).To(HaveKeyWithValue(code, settings.KindObject))
			denomination, ok := defaults[code].(map[string]interface{})["denomination"].(string)
			Expect(ok).To(BeTrue(), code)
			Expect(denomination).NotTo(BeEmpty(), code)
		}
	})

	It("reports drift in both directions", func() {
		issues := settings.ValidateDefaults(
			settings.Document{"a": "x"},
			settings.Schema{"a": settings.KindNumber, "b": settings.KindString})
		Expect(issues).To(HaveLen(2))
	})
})
