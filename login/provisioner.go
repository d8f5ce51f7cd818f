package login

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/crypto-power/walletinit/libwallet/sdk"
	"github.com/crypto-power/walletinit/libwallet/utils"
	"github.com/crypto-power/walletinit/session"
	"golang.org/x/sync/semaphore"
)

const (
	errCreatingWallets = "Error creating wallets"

	// SignupWalletsCreated is tracked once the default wallets exist.
	SignupWalletsCreated = "SignupWalletsCreated"
)

// TokenEnabler enables tokens on a wallet.
type TokenEnabler interface {
	SetWalletEnabledTokens(ctx context.Context, walletID string, enable, disable []string) error
	CheckEnabledTokensArray(ctx context.Context, walletID string, codes []string) error
}

// Tracker records account events for analytics.
type Tracker interface {
	TrackAccountEvent(ctx context.Context, event string) error
}

// LogTracker is a Tracker that only logs.
type LogTracker struct{}

func (LogTracker) TrackAccountEvent(_ context.Context, event string) error {
	log.Infof("Account event: %s", event)
	return nil
}

// Provisioner creates the first wallets of an account. At most one wallet
// creation runs per account at any time, and a creation that does not
// finish within the configured timeout fails with ErrWalletCreationTimeout.
type Provisioner struct {
	cfg        Config
	dispatcher session.Dispatcher
	tokens     TokenEnabler
	tracker    Tracker

	mu         sync.Mutex
	semaphores map[string]*semaphore.Weighted
}

func NewProvisioner(cfg Config, dispatcher session.Dispatcher, tokens TokenEnabler, tracker Tracker) *Provisioner {
	if tracker == nil {
		tracker = LogTracker{}
	}
	return &Provisioner{
		cfg:        cfg.withDefaults(),
		dispatcher: dispatcher,
		tokens:     tokens,
		tracker:    tracker,
		semaphores: make(map[string]*semaphore.Weighted),
	}
}

func (p *Provisioner) semaphore(username string) *semaphore.Weighted {
	p.mu.Lock()
	defer p.mu.Unlock()
	sem, ok := p.semaphores[username]
	if !ok {
		sem = semaphore.NewWeighted(1)
		p.semaphores[username] = sem
	}
	return sem
}

type createResult struct {
	wallet sdk.Wallet
	err    error
}

// CreateWallet creates a wallet and selects it when it is the only active
// wallet of the account.
func (p *Provisioner) CreateWallet(ctx context.Context, account sdk.Account, walletType, walletName, fiatCurrencyCode string) (sdk.Wallet, error) {
	ctx, cancel := context.WithTimeout(ctx, p.cfg.WalletCreationTimeout)
	defer cancel()

	fail := func(err error) error {
		if err == context.DeadlineExceeded {
			err = ErrWalletCreationTimeout
		}
		log.Errorf("Creating %s wallet failed: %v", walletType, err)
		return WalletCreationError{WalletType: walletType, Message: errCreatingWallets, Err: err}
	}

	sem := p.semaphore(account.Username())
	if err := sem.Acquire(ctx, 1); err != nil {
		return nil, fail(ctx.Err())
	}

	// The call may outlive this function. The semaphore is held until it
	// returns so that a hung creation still blocks the next one.
	done := make(chan createResult, 1)
	go func() {
		defer sem.Release(1)
		w, err := account.CreateCurrencyWallet(ctx, walletType, sdk.CreateWalletOptions{
			Name:             walletName,
			FiatCurrencyCode: fiatCurrencyCode,
		})
		done <- createResult{wallet: w, err: err}
	}()

	var res createResult
	select {
	case res = <-done:
	case <-ctx.Done():
		return nil, fail(ctx.Err())
	}
	if res.err != nil {
		return nil, fail(res.err)
	}
	if res.wallet == nil {
		return nil, fail(errors.New(utils.ErrWalletCreationFailed))
	}

	log.Infof("Created %s wallet %s", walletType, res.wallet.ID())

	if len(account.ActiveWalletIDs()) <= 1 {
		var currencyCode string
		if info := res.wallet.CurrencyInfo(); info != nil {
			currencyCode = info.CurrencyCode
		}
		p.dispatcher.Dispatch(session.Action{
			Type: session.SelectWallet,
			Data: session.SelectWalletData{WalletID: res.wallet.ID(), CurrencyCode: currencyCode},
		})
	}
	return res.wallet, nil
}

// findCurrencyInfo returns the plugin whose upper cased currency code is
// code.
func findCurrencyInfo(account sdk.Account, code string) (*sdk.CurrencyInfo, bool) {
	cfg := account.CurrencyConfig()
	for _, id := range cfg.PluginIDs() {
		info := cfg[id]
		if strings.ToUpper(info.CurrencyCode) == code {
			return info, true
		}
	}
	return nil, false
}

func splitCode(code string) (parent, child string) {
	parts := strings.SplitN(code, ":", 2)
	if len(parts) == 2 {
		return parts[0], parts[1]
	}
	return parts[0], ""
}

// CreateCustomWallets creates one wallet per distinct parent currency named
// in codes, in order, and enables the "PARENT:TOKEN" tokens on it. When no
// code names a loaded plugin the default wallets are created instead.
func (p *Provisioner) CreateCustomWallets(ctx context.Context, account sdk.Account, fiatCurrencyCode string, codes []string) ([]sdk.Wallet, error) {
	var infos []*sdk.CurrencyInfo
	seen := make(map[string]bool)
	for _, code := range codes {
		parent, _ := splitCode(code)
		if seen[parent] {
			continue
		}
		info, ok := findCurrencyInfo(account, parent)
		if !ok {
			log.Debugf("No plugin for referral currency %q", code)
			continue
		}
		seen[info.CurrencyCode] = true
		infos = append(infos, info)
	}

	if len(infos) == 0 {
		log.Warnf("None of the referral currencies %v has a plugin, creating the default wallets", codes)
		return p.CreateDefaultWallets(ctx, account, fiatCurrencyCode)
	}

	wallets := make([]sdk.Wallet, 0, len(infos))
	for _, info := range infos {
		name := fmt.Sprintf("My %s", info.DisplayName)
		w, err := p.CreateWallet(ctx, account, info.WalletType, name, fiatCurrencyCode)
		if err != nil {
			return wallets, err
		}
		wallets = append(wallets, w)

		var tokenCodes []string
		for _, code := range codes {
			parent, child := splitCode(code)
			if parent == info.CurrencyCode && child != "" {
				tokenCodes = append(tokenCodes, child)
			}
		}
		if len(tokenCodes) == 0 || p.tokens == nil {
			continue
		}
		if err := p.tokens.SetWalletEnabledTokens(ctx, w.ID(), tokenCodes, nil); err != nil {
			return wallets, err
		}
		if err := p.tokens.CheckEnabledTokensArray(ctx, w.ID(), tokenCodes); err != nil {
			return wallets, err
		}
	}
	return wallets, nil
}

// CreateDefaultWallets creates the configured default wallets one after
// the other.
func (p *Provisioner) CreateDefaultWallets(ctx context.Context, account sdk.Account, fiatCurrencyCode string) ([]sdk.Wallet, error) {
	wallets := make([]sdk.Wallet, 0, len(p.cfg.DefaultWallets))
	for _, def := range p.cfg.DefaultWallets {
		w, err := p.CreateWallet(ctx, account, def.WalletType, def.Name, fiatCurrencyCode)
		if err != nil {
			return wallets, err
		}
		wallets = append(wallets, w)
	}

	if err := p.tracker.TrackAccountEvent(ctx, SignupWalletsCreated); err != nil {
		log.Warnf("Tracking %s failed: %v", SignupWalletsCreated, err)
	}
	return wallets, nil
}
