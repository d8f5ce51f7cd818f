package utils

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

type NetworkType string

const (
	Mainnet    NetworkType = "mainnet"
	Testnet    NetworkType = "testnet3"
	Regression NetworkType = "regression"
	Simulation NetworkType = "simulation"
	Unknown    NetworkType = "unknown"
)

// Display returns the title case network name.
func (n NetworkType) Display() string {
	switch n {
	case Testnet:
		return "Testnet"
	default:
		caser := cases.Title(language.Und)
		return caser.String(string(n))
	}
}

// ToNetworkType maps the provided network string identifier to the available
// network type constants.
func ToNetworkType(str string) NetworkType {
	switch strings.ToLower(str) {
	case "mainnet":
		return Mainnet
	case "testnet", "testnet3", "test":
		return Testnet
	case "regression", "reg", "regnet":
		return Regression
	case "simulation", "sim", "simnet":
		return Simulation
	default:
		return Unknown
	}
}
