package login

import (
	"golang.org/x/text/currency"
	"golang.org/x/text/language"
)

// LocaleFiat returns the currency of the region of the first locale that
// names one, e.g. "EUR" for "de-DE".
func LocaleFiat(locales []string) (string, bool) {
	for _, locale := range locales {
		tag, err := language.Parse(locale)
		if err != nil {
			log.Debugf("Ignoring locale %q: %v", locale, err)
			continue
		}
		region, confidence := tag.Region()
		if confidence == language.No {
			continue
		}
		unit, ok := currency.FromRegion(region)
		if !ok {
			continue
		}
		if code := unit.String(); len(code) >= 3 {
			return code, true
		}
	}
	return "", false
}
