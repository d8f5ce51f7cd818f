package login_test

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/crypto-power/walletinit/libwallet/plugins"
	"github.com/crypto-power/walletinit/libwallet/referral"
	"github.com/crypto-power/walletinit/libwallet/sdk"
	"github.com/crypto-power/walletinit/libwallet/settings"
)

type fakeWallet struct {
	id, name, walletType, fiat string
	info                       *sdk.CurrencyInfo
}

func (w *fakeWallet) ID() string                      { return w.id }
func (w *fakeWallet) Name() string                    { return w.name }
func (w *fakeWallet) Type() string                    { return w.walletType }
func (w *fakeWallet) FiatCurrencyCode() string        { return w.fiat }
func (w *fakeWallet) CurrencyInfo() *sdk.CurrencyInfo { return w.info }

// fakeAccount is an in memory wallet core account.
type fakeAccount struct {
	mu       sync.Mutex
	username string
	cfg      sdk.CurrencyConfig
	wallets  []*fakeWallet
	keys     []sdk.WalletInfo
	alerts   bool

	// hang makes CreateCurrencyWallet block until its context ends.
	hang bool
	// failOn makes CreateCurrencyWallet fail for a wallet type.
	failOn string

	inFlight    int
	maxInFlight int
	created     []string
	loggedOut   bool
}

func newFakeAccount(username string) *fakeAccount {
	cfg, err := plugins.NewCurrencyConfig()
	if err != nil {
		panic(err)
	}
	return &fakeAccount{username: username, cfg: cfg}
}

func (a *fakeAccount) Username() string                   { return a.username }
func (a *fakeAccount) CurrencyConfig() sdk.CurrencyConfig { return a.cfg }
func (a *fakeAccount) HasSecurityAlerts() bool            { return a.alerts }

func (a *fakeAccount) ActiveWalletIDs() []string {
	a.mu.Lock()
	defer a.mu.Unlock()
	ids := make([]string, 0, len(a.wallets))
	for _, w := range a.wallets {
		ids = append(ids, w.id)
	}
	return ids
}

func (a *fakeAccount) ArchivedWalletIDs() []string { return []string{} }

func (a *fakeAccount) AllKeys() []sdk.WalletInfo {
	a.mu.Lock()
	defer a.mu.Unlock()
	keys := append([]sdk.WalletInfo(nil), a.keys...)
	for _, w := range a.wallets {
		keys = append(keys, sdk.WalletInfo{ID: w.id, Type: w.walletType})
	}
	return keys
}

func (a *fakeAccount) CurrencyWallets() []sdk.Wallet {
	a.mu.Lock()
	defer a.mu.Unlock()
	wallets := make([]sdk.Wallet, 0, len(a.wallets))
	for _, w := range a.wallets {
		wallets = append(wallets, w)
	}
	return wallets
}

// addWallet adds an existing wallet without going through creation.
func (a *fakeAccount) addWallet(id, walletType string) {
	info, _ := a.cfg.FindByWalletType(walletType)
	a.wallets = append(a.wallets, &fakeWallet{id: id, walletType: walletType, info: info})
}

func (a *fakeAccount) CreateCurrencyWallet(ctx context.Context, walletType string, opts sdk.CreateWalletOptions) (sdk.Wallet, error) {
	a.mu.Lock()
	a.inFlight++
	if a.inFlight > a.maxInFlight {
		a.maxInFlight = a.inFlight
	}
	hang, failOn := a.hang, a.failOn
	a.mu.Unlock()

	defer func() {
		a.mu.Lock()
		a.inFlight--
		a.mu.Unlock()
	}()

	if hang {
		<-ctx.Done()
		return nil, errors.New("core gave up")
	}
	if walletType == failOn {
		return nil, errors.New("core failure")
	}
	info, ok := a.cfg.FindByWalletType(walletType)
	if !ok {
		return nil, fmt.Errorf("unknown wallet type %s", walletType)
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	w := &fakeWallet{
		id:         fmt.Sprintf("%s-%d", info.PluginID, len(a.wallets)),
		name:       opts.Name,
		walletType: walletType,
		fiat:       opts.FiatCurrencyCode,
		info:       info,
	}
	a.wallets = append(a.wallets, w)
	a.created = append(a.created, walletType)
	return w, nil
}

func (a *fakeAccount) Logout(context.Context) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.loggedOut = true
	return nil
}

type memoryPersistence struct {
	mu            sync.Mutex
	synced, local settings.Document
	syncedSaves   int
	localSaves    int
	failLoad      bool
}

func (p *memoryPersistence) LoadSynced(context.Context, sdk.Account) (settings.Document, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.failLoad {
		return nil, errors.New("disk on fire")
	}
	return p.synced.Copy(), nil
}

func (p *memoryPersistence) SaveSynced(_ context.Context, _ sdk.Account, doc settings.Document) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.synced = doc.Copy()
	p.syncedSaves++
	return nil
}

func (p *memoryPersistence) LoadLocal(context.Context, sdk.Account) (settings.Document, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.failLoad {
		return nil, errors.New("disk on fire")
	}
	return p.local.Copy(), nil
}

func (p *memoryPersistence) SaveLocal(_ context.Context, _ sdk.Account, doc settings.Document) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.local = doc.Copy()
	p.localSaves++
	return nil
}

type pinChecker bool

func (c pinChecker) PinLoginEnabled(context.Context, string) (bool, error) { return bool(c), nil }

type fakeReferrals struct {
	mu         sync.Mutex
	codes      []string
	loads      int
	refreshes  int
	refreshErr error
	release    chan struct{}
}

func (r *fakeReferrals) LoadAccountReferral(context.Context, sdk.Account) (*referral.Referral, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.loads++
	return &referral.Referral{CurrencyCodes: r.codes}, nil
}

func (r *fakeReferrals) RefreshAccountReferral(context.Context, sdk.Account) error {
	if r.release != nil {
		<-r.release
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.refreshes++
	return r.refreshErr
}

func (r *fakeReferrals) counts() (int, int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.loads, r.refreshes
}

type tokenCall struct {
	op       string
	walletID string
	codes    []string
}

type fakeTokens struct {
	mu    sync.Mutex
	calls []tokenCall
}

func (t *fakeTokens) record(call tokenCall) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.calls = append(t.calls, call)
}

func (t *fakeTokens) SetWalletEnabledTokens(_ context.Context, walletID string, enable, _ []string) error {
	t.record(tokenCall{op: "set", walletID: walletID, codes: enable})
	return nil
}

func (t *fakeTokens) CheckEnabledTokensArray(_ context.Context, walletID string, codes []string) error {
	t.record(tokenCall{op: "check", walletID: walletID, codes: codes})
	return nil
}

func (t *fakeTokens) GetEnabledTokens(_ context.Context, walletID string) ([]string, error) {
	t.record(tokenCall{op: "get", walletID: walletID})
	return nil, nil
}

type fakeRouter struct{ scenes []string }

func (r *fakeRouter) ShowHome()           { r.scenes = append(r.scenes, "home") }
func (r *fakeRouter) ShowSecurityAlerts() { r.scenes = append(r.scenes, "securityAlerts") }

type fakeReporter struct{ errs []error }

func (r *fakeReporter) ShowError(err error) { r.errs = append(r.errs, err) }

type fakeTracker struct{ events []string }

func (t *fakeTracker) TrackAccountEvent(_ context.Context, event string) error {
	t.events = append(t.events, event)
	return nil
}
