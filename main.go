package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"

	"github.com/asdine/storm"

	"github.com/crypto-power/walletinit/appcfg"
	"github.com/crypto-power/walletinit/libwallet/localaccount"
	"github.com/crypto-power/walletinit/libwallet/plugins"
	"github.com/crypto-power/walletinit/libwallet/referral"
	"github.com/crypto-power/walletinit/libwallet/settings"
	"github.com/crypto-power/walletinit/libwallet/tokens"
	"github.com/crypto-power/walletinit/libwallet/utils"
	"github.com/crypto-power/walletinit/listeners"
	"github.com/crypto-power/walletinit/login"
	"github.com/crypto-power/walletinit/session"
)

const (
	appConfigFilename = "config.json"
	accountsDbName    = "accounts.db"
	serviceDbName     = "services.db"
	settingsDirname   = "settings"
)

// Version is the application version. It is set using the -ldflags
var Version = "0.1.0"

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	appCfg, err := appcfg.AppConfigFromFile(filepath.Join(cfg.HomeDir, appConfigFilename))
	if err != nil {
		return err
	}

	netType := utils.ToNetworkType(appCfg.Values().NetType)
	if cfg.Network != "" {
		netType = utils.ToNetworkType(cfg.Network)
	}

	initLogRotator(filepath.Join(cfg.LogDir, string(netType)), cfg.MaxLogZips)
	defer logRotator.Close()
	debugLevel := cfg.DebugLevel
	if debugLevel == "" {
		debugLevel = utils.DefaultLogLevel
	}
	if err := parseAndSetDebugLevels(debugLevel); err != nil {
		return err
	}

	log.Infof("Starting walletinit v%s on %s", Version, netType.Display())

	username := cfg.Username
	if username == "" {
		username = appCfg.Values().LastUsername
	}
	if username == "" {
		return errors.New("no username given and no account was used before")
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	dataDir := filepath.Join(cfg.HomeDir, string(netType))
	if err := os.MkdirAll(dataDir, utils.UserFilePerm); err != nil {
		return err
	}

	currencyConfig, err := plugins.NewCurrencyConfig(plugins.Supported()...)
	if err != nil {
		return err
	}

	accounts, err := localaccount.Open(filepath.Join(dataDir, accountsDbName), currencyConfig)
	if err != nil {
		return err
	}
	defer accounts.Close()

	settingsStores, err := settings.OpenStores(filepath.Join(dataDir, settingsDirname))
	if err != nil {
		return err
	}
	defer settingsStores.Close()

	serviceDb, err := storm.Open(filepath.Join(dataDir, serviceDbName))
	if err != nil {
		return utils.TranslateError(err)
	}
	defer serviceDb.Close()

	store := session.NewStore()
	progress := listeners.NewInitProgressListener()
	store.Subscribe("progress", progress)
	go logProgress(ctx, progress)

	tokenService := tokens.NewService(serviceDb, store)
	referralService := referral.NewService(referral.Config{
		Server:        cfg.ReferralServer,
		InstallerID:   cfg.InstallerID,
		CurrencyCodes: cfg.ReferralCurrencies,
	}, serviceDb, store)

	loginCfg := login.DefaultConfig()
	loginCfg.WalletCreationTimeout = cfg.WalletCreationTimeout
	loginCfg.Locales = cfg.Locales
	if len(loginCfg.Locales) == 0 && appCfg.Values().Locale != "" {
		loginCfg.Locales = []string{appCfg.Values().Locale}
	}

	initializer := login.NewInitializer(loginCfg, login.Deps{
		Store:      store,
		Settings:   settingsStores,
		PinChecker: accounts,
		Referrals:  referralService,
		Tokens:     tokenService,
		Tracker:    login.LogTracker{},
		Router:     consoleRouter{},
		Reporter:   consoleReporter{},
	})

	account, err := logIn(ctx, cfg, accounts, username)
	if err != nil {
		return err
	}

	state, err := initializer.InitializeAccount(ctx, account, session.TouchIDInfo{})
	if err != nil {
		initializer.Logout(context.Background(), username)
		return err
	}

	if cfg.SetPin != "" {
		if err := account.SetPIN(ctx, cfg.SetPin); err != nil {
			log.Errorf("Unable to enable PIN login: %v", err)
		}
	}

	if err := appCfg.Update(func(values *appcfg.AppConfigValues) {
		values.NetType = string(netType)
		values.LastUsername = username
	}); err != nil {
		log.Warnf("Unable to save app config: %v", err)
	}

	printSummary(store.State(), state)

	// Detached work like referral refreshes finishes before logging out.
	initializer.Wait()
	drainBackgroundErrors(initializer.BackgroundErrors())

	if err := initializer.Logout(context.Background(), username); err != nil {
		return err
	}
	log.Info("Shutdown complete")
	return nil
}

// logIn logs into username with the PIN when one is given, otherwise
// with the password, creating the account first when allowed.
func logIn(ctx context.Context, cfg *config, accounts *localaccount.Context, username string) (*localaccount.Account, error) {
	if cfg.Pin != "" {
		return accounts.LoginWithPIN(ctx, username, cfg.Pin)
	}
	if cfg.Password == "" {
		return nil, errors.New("a password or PIN is required")
	}

	available, err := accounts.UsernameAvailable(ctx, username)
	if err != nil {
		return nil, err
	}
	if available {
		if !cfg.Create {
			return nil, fmt.Errorf("account %q does not exist, use --create to create it", username)
		}
		log.Infof("Creating account %s", username)
		return accounts.CreateAccount(ctx, username, []byte(cfg.Password))
	}
	return accounts.Login(ctx, username, []byte(cfg.Password))
}

func logProgress(ctx context.Context, progress *listeners.InitProgressListener) {
	for {
		select {
		case <-ctx.Done():
			return
		case n := <-progress.InitStatusChan:
			switch n.Type {
			case listeners.LoginAccepted:
				log.Infof("Login accepted for %s", n.Username)
			case listeners.InitCompleted:
				log.Infof("Account initialized, active wallet %q", n.WalletID)
			case listeners.WalletSelected:
				log.Infof("Selected wallet %s", n.WalletID)
			case listeners.WalletsRefreshed:
				log.Debug("Wallet list refreshed")
			case listeners.LoggedOut:
				log.Infof("Logged out %s", n.Username)
			}
		}
	}
}

func drainBackgroundErrors(errs <-chan error) {
	for {
		select {
		case err := <-errs:
			log.Warnf("Background work failed: %v", err)
		default:
			return
		}
	}
}

func printSummary(current session.State, init *session.AccountInitState) {
	fmt.Printf("Account:        %s\n", current.Username)
	fmt.Printf("Default fiat:   %s\n", init.DefaultIsoFiat)
	fmt.Printf("Active wallet:  %s (%s)\n", current.SelectedWallet.WalletID, current.SelectedWallet.CurrencyCode)
	for _, w := range current.Wallets {
		fmt.Printf("  %-12s %-6s %s\n", w.ID, w.CurrencyCode, w.Name)
	}
}

type consoleRouter struct{}

func (consoleRouter) ShowHome() {
	log.Info("Showing wallet list")
}

func (consoleRouter) ShowSecurityAlerts() {
	log.Warn("Account has pending security alerts")
}

type consoleReporter struct{}

func (consoleReporter) ShowError(err error) {
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
}
