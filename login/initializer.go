package login

import (
	"context"
	"sync"

	"github.com/crypto-power/walletinit/libwallet/referral"
	"github.com/crypto-power/walletinit/libwallet/sdk"
	"github.com/crypto-power/walletinit/libwallet/settings"
	"github.com/crypto-power/walletinit/session"
)

// ReferralService loads the promotion an account was created under.
type ReferralService interface {
	LoadAccountReferral(ctx context.Context, account sdk.Account) (*referral.Referral, error)
	RefreshAccountReferral(ctx context.Context, account sdk.Account) error
}

// TokenService is the token enablement the initializer needs.
type TokenService interface {
	TokenEnabler
	GetEnabledTokens(ctx context.Context, walletID string) ([]string, error)
}

// Router switches the visible scene.
type Router interface {
	ShowHome()
	ShowSecurityAlerts()
}

// ErrorReporter shows an error to the user.
type ErrorReporter interface {
	ShowError(err error)
}

// Store is the session store the initializer publishes to.
type Store interface {
	session.Dispatcher
	State() session.State
}

// Deps are the collaborators of an Initializer. Router and Reporter may
// be nil.
type Deps struct {
	Store      Store
	Settings   settings.Persistence
	PinChecker sdk.PinLoginChecker
	Referrals  ReferralService
	Tokens     TokenService
	Tracker    Tracker
	Router     Router
	Reporter   ErrorReporter
}

// Initializer turns a freshly logged in account into a published session.
type Initializer struct {
	cfg         Config
	deps        Deps
	provisioner *Provisioner

	wg               sync.WaitGroup
	backgroundErrors chan error
}

func NewInitializer(cfg Config, deps Deps) *Initializer {
	cfg = cfg.withDefaults()
	return &Initializer{
		cfg:              cfg,
		deps:             deps,
		provisioner:      NewProvisioner(cfg, deps.Store, deps.Tokens, deps.Tracker),
		backgroundErrors: make(chan error, 8),
	}
}

// Provisioner returns the wallet provisioner used for new accounts.
func (i *Initializer) Provisioner() *Provisioner {
	return i.provisioner
}

// BackgroundErrors delivers the failures of detached work. Errors are
// dropped when nobody reads them fast enough; they are always logged.
func (i *Initializer) BackgroundErrors() <-chan error {
	return i.backgroundErrors
}

// Wait blocks until all detached work started so far has finished.
func (i *Initializer) Wait() {
	i.wg.Wait()
}

func (i *Initializer) report(err error) {
	if i.deps.Reporter != nil {
		i.deps.Reporter.ShowError(err)
	}
}

// InitializeAccount runs the login pipeline for account and returns the
// published state. Any error has already been shown through the error
// reporter; the session must then be treated as not logged in. Steps are
// not resumable, callers retry by calling InitializeAccount again.
func (i *Initializer) InitializeAccount(ctx context.Context, account sdk.Account, touchIDInfo session.TouchIDInfo) (*session.AccountInitState, error) {
	state, err := i.initializeAccount(ctx, account, touchIDInfo)
	if err != nil {
		log.Errorf("Account initialization failed: %v", err)
		i.report(err)
		return nil, err
	}
	return state, nil
}

// firstActiveWalletInfo returns the id and currency code of the first
// active wallet.
func firstActiveWalletInfo(account sdk.Account) (string, string, error) {
	walletID := account.ActiveWalletIDs()[0]

	var walletType string
	var found bool
	for _, key := range account.AllKeys() {
		if key.ID == walletID {
			walletType, found = key.Type, true
			break
		}
	}
	if !found {
		return "", "", MissingActiveWalletInfoError{WalletID: walletID}
	}

	var currencyCode string
	if info, ok := account.CurrencyConfig().FindByWalletType(walletType); ok {
		currencyCode = info.CurrencyCode
	}
	return walletID, currencyCode, nil
}

func (i *Initializer) initializeAccount(ctx context.Context, account sdk.Account, touchIDInfo session.TouchIDInfo) (*session.AccountInitState, error) {
	store := i.deps.Store
	store.Dispatch(session.Action{Type: session.Login, Data: session.LoginData{Account: account}})

	if i.deps.Router != nil {
		i.deps.Router.ShowHome()
		if account.HasSecurityAlerts() {
			i.deps.Router.ShowSecurityAlerts()
		}
	}

	state := &session.AccountInitState{
		Account:     account,
		TouchIDInfo: touchIDInfo,
	}

	activeWalletIDs := account.ActiveWalletIDs()
	newAccount := len(activeWalletIDs) < 1
	defaultFiat := i.cfg.DefaultFiat
	if newAccount {
		if fiat, ok := LocaleFiat(i.cfg.Locales); ok {
			defaultFiat = fiat
		}
		log.Infof("New account %s, default fiat %s", account.Username(), defaultFiat)
	} else {
		walletID, currencyCode, err := firstActiveWalletInfo(account)
		if err != nil {
			return nil, err
		}
		state.WalletID = walletID
		state.CurrencyCode = currencyCode
	}

	store.Dispatch(session.Action{
		Type: session.InsertWalletIDsForProgress,
		Data: session.WalletIDsData{ActiveWalletIDs: activeWalletIDs},
	})
	state.ActiveWalletIDs = activeWalletIDs
	state.ArchivedWalletIDs = account.ArchivedWalletIDs()

	synced, err := i.loadSyncedSettings(ctx, account)
	if err != nil {
		return nil, err
	}

	state.CustomTokensSettings = settings.CustomTokens(synced)
	for _, token := range state.CustomTokensSettings {
		state.DenominationKeys = append(state.DenominationKeys, settings.DenominationKey{
			CurrencyCode:    token.CurrencyCode,
			DenominationKey: token.Multiplier,
		})
	}
	state.DenominationKeys = append(state.DenominationKeys, settings.DenominationKeys(synced)...)

	local, err := i.loadLocalSettings(ctx, account)
	if err != nil {
		return nil, err
	}

	merged := synced.Copy()
	for key, value := range local {
		merged[key] = value
	}
	state.Settings = merged

	state.PinLoginEnabled, err = i.deps.PinChecker.PinLoginEnabled(ctx, account.Username())
	if err != nil {
		return nil, InitializationError{Step: "pin login status", Err: err}
	}

	if newAccount {
		merged["defaultFiat"] = defaultFiat
		merged["defaultIsoFiat"] = "iso:" + defaultFiat
	}
	state.DefaultFiat, _ = merged["defaultFiat"].(string)
	state.DefaultIsoFiat, _ = merged["defaultIsoFiat"].(string)

	store.Dispatch(session.Action{Type: session.AccountInitComplete, Data: state.Copy()})

	if newAccount {
		if err := i.provisionNewAccount(ctx, account, defaultFiat); err != nil {
			return nil, err
		}
		i.goBackground("refresh referral", func(ctx context.Context) error {
			return i.deps.Referrals.RefreshAccountReferral(ctx, account)
		})
	} else {
		i.goBackground("load referral", func(ctx context.Context) error {
			if _, err := i.deps.Referrals.LoadAccountReferral(ctx, account); err != nil {
				return err
			}
			return i.deps.Referrals.RefreshAccountReferral(ctx, account)
		})
	}

	if err := i.refreshWallets(ctx, account); err != nil {
		return nil, err
	}
	return state, nil
}

// loadSyncedSettings loads, repairs and if needed persists the synced
// document. A failed load counts as an empty document.
func (i *Initializer) loadSyncedSettings(ctx context.Context, account sdk.Account) (settings.Document, error) {
	loaded, err := i.deps.Settings.LoadSynced(ctx, account)
	if err != nil {
		log.Warnf("Loading synced settings failed, using defaults: %v", err)
		loaded = settings.Document{}
	}

	defaults, schema := settings.SyncedDefaultsFor(account.CurrencyConfig())
	result := settings.RepairWithAccount(loaded, defaults, schema, account)
	if len(result.Issues) > 0 {
		log.Debugf("Synced settings repair found %d issues", len(result.Issues))
	}
	if result.IsOverwriteNeeded {
		if err := i.deps.Settings.SaveSynced(ctx, account, result.Settings); err != nil {
			return nil, InitializationError{Step: "save synced settings", Err: err}
		}
	}
	return result.Settings, nil
}

// loadLocalSettings is loadSyncedSettings for the device only document,
// without the currency reconciliation.
func (i *Initializer) loadLocalSettings(ctx context.Context, account sdk.Account) (settings.Document, error) {
	loaded, err := i.deps.Settings.LoadLocal(ctx, account)
	if err != nil {
		log.Warnf("Loading local settings failed, using defaults: %v", err)
		loaded = settings.Document{}
	}

	result := settings.Repair(loaded, settings.LocalDefaults(), settings.LocalSchema)
	if result.IsOverwriteNeeded {
		if err := i.deps.Settings.SaveLocal(ctx, account, result.Settings); err != nil {
			return nil, InitializationError{Step: "save local settings", Err: err}
		}
	}
	return result.Settings, nil
}

// provisionNewAccount creates the first wallets, from the referral list
// when there is one.
func (i *Initializer) provisionNewAccount(ctx context.Context, account sdk.Account, defaultFiat string) error {
	ref, err := i.deps.Referrals.LoadAccountReferral(ctx, account)
	if err != nil {
		return InitializationError{Step: "load referral", Err: err}
	}

	fiatCurrencyCode := "iso:" + defaultFiat
	if ref != nil && len(ref.CurrencyCodes) > 0 {
		_, err = i.provisioner.CreateCustomWallets(ctx, account, fiatCurrencyCode, ref.CurrencyCodes)
	} else {
		_, err = i.provisioner.CreateDefaultWallets(ctx, account, fiatCurrencyCode)
	}
	return err
}

// refreshWallets publishes the wallet list and then the enabled tokens of
// every active wallet, one wallet at a time.
func (i *Initializer) refreshWallets(ctx context.Context, account sdk.Account) error {
	wallets := account.CurrencyWallets()
	summaries := make([]session.WalletSummary, 0, len(wallets))
	for _, w := range wallets {
		summary := session.WalletSummary{
			ID:           w.ID(),
			Name:         w.Name(),
			Type:         w.Type(),
			FiatCurrency: w.FiatCurrencyCode(),
		}
		if info := w.CurrencyInfo(); info != nil {
			summary.CurrencyCode = info.CurrencyCode
		}
		summaries = append(summaries, summary)
	}

	activeWalletIDs := account.ActiveWalletIDs()
	i.deps.Store.Dispatch(session.Action{
		Type: session.UpdateWallets,
		Data: session.UpdateWalletsData{
			ActiveWalletIDs:   activeWalletIDs,
			ArchivedWalletIDs: account.ArchivedWalletIDs(),
			Wallets:           summaries,
		},
	})

	for _, walletID := range activeWalletIDs {
		if _, err := i.deps.Tokens.GetEnabledTokens(ctx, walletID); err != nil {
			return InitializationError{Step: "refresh enabled tokens", Err: err}
		}
	}
	i.deps.Store.Dispatch(session.Action{Type: session.UpdateWalletsEnabledTokens})
	return nil
}

// goBackground runs fn detached from the caller's context. Its error is
// logged and offered on BackgroundErrors, never returned.
func (i *Initializer) goBackground(name string, fn func(ctx context.Context) error) {
	i.wg.Add(1)
	go func() {
		defer i.wg.Done()
		ctx, cancel := context.WithTimeout(context.Background(), i.cfg.BackgroundTimeout)
		defer cancel()

		if err := fn(ctx); err != nil {
			log.Warnf("Background %s failed: %v", name, err)
			select {
			case i.backgroundErrors <- err:
			default:
			}
		}
	}()
}

// Logout destroys the session and logs the account out of the wallet
// core.
func (i *Initializer) Logout(ctx context.Context, username string) error {
	account := i.deps.Store.State().Account
	i.deps.Store.Dispatch(session.Action{Type: session.Logout, Data: session.LogoutData{Username: username}})
	if account == nil {
		return nil
	}
	return account.Logout(ctx)
}
