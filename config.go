package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/crypto-power/walletinit/libwallet/utils"
	"github.com/crypto-power/walletinit/logger"
	"github.com/decred/dcrd/dcrutil/v4"
	"github.com/jessevdk/go-flags"
)

const (
	appName               = "walletinit"
	defaultConfigFilename = "walletinit.conf"
	defaultLogDirname     = "logs"
	defaultMaxLogZips     = 8
)

var (
	defaultHomeDir    = dcrutil.AppDataDir(appName, false)
	defaultConfigFile = filepath.Join(defaultHomeDir, defaultConfigFilename)
)

type config struct {
	ConfigFile            string        `short:"C" long:"configfile" description:"Path to configuration file"`
	HomeDir               string        `long:"appdata" description:"Directory where the app data is stored"`
	LogDir                string        `long:"logdir" description:"Directory to log output"`
	DebugLevel            string        `short:"d" long:"debuglevel" description:"Logging level for all subsystems {trace, debug, info, warn, error, critical} or <subsystem>=<level>,... to set per subsystem levels"`
	MaxLogZips            int           `long:"maxlogzips" description:"The number of zipped log files created by the log rotator to be retained. Setting to 0 will keep all."`
	Network               string        `long:"net" description:"Network to use {mainnet, testnet, regression, simulation}"`
	Username              string        `short:"u" long:"username" description:"Account to log in, defaults to the last used account"`
	Password              string        `long:"password" env:"WALLETINIT_PASSWORD" description:"Account password"`
	Pin                   string        `long:"pin" env:"WALLETINIT_PIN" description:"Log in with this PIN instead of the password"`
	SetPin                string        `long:"setpin" description:"Enable PIN login with this PIN after logging in"`
	Create                bool          `long:"create" description:"Create the account if it does not exist"`
	ReferralServer        string        `long:"referralserver" description:"Base URL of the referral server"`
	InstallerID           string        `long:"installer" description:"Referral installer id of this install"`
	ReferralCurrencies    []string      `long:"referralcurrency" description:"Currency code, or PARENT:TOKEN, the install referral creates a wallet for; may be repeated"`
	Locales               []string      `long:"locale" description:"Device locale used to pick the fiat currency of new accounts; may be repeated"`
	WalletCreationTimeout time.Duration `long:"walletcreationtimeout" description:"Time to wait for a single wallet to be created"`
}

func defaultConfig() config {
	return config{
		ConfigFile:            defaultConfigFile,
		HomeDir:               defaultHomeDir,
		MaxLogZips:            defaultMaxLogZips,
		WalletCreationTimeout: utils.DefaultWalletCreationTimeout,
	}
}

// loadConfig reads the config file, if any, then the command line. Command
// line options take precedence.
func loadConfig() (*config, error) {
	cfg := defaultConfig()

	// Pre-parse the command line to find the config file.
	preCfg := cfg
	preParser := flags.NewParser(&preCfg, flags.HelpFlag|flags.PassDoubleDash|flags.IgnoreUnknown)
	if _, err := preParser.Parse(); err != nil {
		if e, ok := err.(*flags.Error); ok && e.Type == flags.ErrHelp {
			fmt.Fprintln(os.Stdout, err)
			os.Exit(0)
		}
		return nil, err
	}

	parser := flags.NewParser(&cfg, flags.Default)
	if exists, _ := utils.FileExists(preCfg.ConfigFile); exists {
		if err := flags.NewIniParser(parser).ParseFile(preCfg.ConfigFile); err != nil {
			return nil, fmt.Errorf("error parsing config file: %v", err)
		}
	} else if preCfg.ConfigFile != defaultConfigFile {
		return nil, fmt.Errorf("config file %s does not exist", preCfg.ConfigFile)
	}

	if _, err := parser.Parse(); err != nil {
		return nil, err
	}

	cfg.HomeDir = cleanAndExpandPath(cfg.HomeDir)
	if cfg.LogDir == "" {
		cfg.LogDir = filepath.Join(cfg.HomeDir, defaultLogDirname)
	}
	cfg.LogDir = cleanAndExpandPath(cfg.LogDir)

	if cfg.Network != "" && utils.ToNetworkType(cfg.Network) == utils.Unknown {
		return nil, fmt.Errorf("%v: %q", utils.ErrInvalidNet, cfg.Network)
	}
	if cfg.WalletCreationTimeout <= 0 {
		return nil, fmt.Errorf("walletcreationtimeout must be positive, got %v", cfg.WalletCreationTimeout)
	}
	if cfg.MaxLogZips < 0 {
		cfg.MaxLogZips = 0
	}
	return &cfg, nil
}

// parseAndSetDebugLevels applies either a single level to every subsystem
// or a comma separated list of <subsystem>=<level> pairs.
func parseAndSetDebugLevels(debugLevel string) error {
	if !strings.Contains(debugLevel, "=") {
		return logger.SetLogLevels(debugLevel)
	}

	for _, pair := range strings.Split(debugLevel, ",") {
		fields := strings.Split(pair, "=")
		if len(fields) != 2 {
			return fmt.Errorf("the specified debug level contains an invalid subsystem/level pair [%v]", pair)
		}
		subsysID, logLevel := fields[0], fields[1]
		if !logger.IsSubsystem(subsysID) {
			return fmt.Errorf("the specified subsystem [%v] is invalid", subsysID)
		}
		if err := logger.SetLogLevel(subsysID, logLevel); err != nil {
			return err
		}
	}
	return nil
}

// cleanAndExpandPath expands a leading ~ and environment variables and
// cleans the result.
func cleanAndExpandPath(path string) string {
	if strings.HasPrefix(path, "~") {
		if home, err := os.UserHomeDir(); err == nil {
			path = strings.Replace(path, "~", home, 1)
		}
	}
	return filepath.Clean(os.ExpandEnv(path))
}
