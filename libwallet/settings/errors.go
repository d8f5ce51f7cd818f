package settings

import "fmt"

// SchemaDriftError reports a default value whose kind disagrees with the
// kind declared for its key. It is a defect in the defaults table, not in
// the loaded document.
type SchemaDriftError struct {
	Key      string
	Expected Kind
	Actual   Kind
}

func (err SchemaDriftError) Error() string {
	return fmt.Sprintf("default for %q is %s, schema declares %s", err.Key, err.Actual, err.Expected)
}

// CorruptSettingError reports a loaded value that was replaced by its
// default because it had the wrong kind.
type CorruptSettingError struct {
	Key      string
	Expected Kind
	Actual   Kind
}

func (err CorruptSettingError) Error() string {
	return fmt.Sprintf("setting %q is %s, expected %s", err.Key, err.Actual, err.Expected)
}

// InvalidDenominationError reports a stored denomination that the currency
// plugin does not support.
type InvalidDenominationError struct {
	CurrencyCode string
	Stored       string
	Replacement  string
}

func (err InvalidDenominationError) Error() string {
	return fmt.Sprintf("%s denomination %q is not supported, using %q", err.CurrencyCode, err.Stored, err.Replacement)
}
