package localaccount

import (
	"context"
	"sort"
	"sync"
	"time"

	"decred.org/dcrwallet/v2/errors"
	"github.com/asdine/storm"
	"github.com/crypto-power/walletinit/libwallet/sdk"
	"github.com/crypto-power/walletinit/libwallet/utils"
	"github.com/kevinburke/nacl"
	"golang.org/x/crypto/bcrypt"
)

// Account is a logged in local account. It implements sdk.Account.
type Account struct {
	context  *Context
	username string

	mu        sync.Mutex
	key       nacl.Key
	loggedOut bool
}

// Wallet is a wallet of a local account. It implements sdk.Wallet.
type Wallet struct {
	record *walletRecord
	info   *sdk.CurrencyInfo
}

func (w *Wallet) ID() string                      { return w.record.ID }
func (w *Wallet) Name() string                    { return w.record.Name }
func (w *Wallet) Type() string                    { return w.record.Type }
func (w *Wallet) FiatCurrencyCode() string        { return w.record.FiatCurrencyCode }
func (w *Wallet) CurrencyInfo() *sdk.CurrencyInfo { return w.info }

func (a *Account) Username() string {
	return a.username
}

func (a *Account) CurrencyConfig() sdk.CurrencyConfig {
	return a.context.plugins
}

// records returns the wallets of the account in creation order.
func (a *Account) records() []*walletRecord {
	var records []*walletRecord
	err := a.context.db.Find("Username", a.username, &records)
	if err != nil && err != storm.ErrNotFound {
		log.Errorf("Error reading wallets of %s: %v", a.username, err)
		return nil
	}
	sort.Slice(records, func(i, j int) bool { return records[i].Seq < records[j].Seq })
	return records
}

func (a *Account) ActiveWalletIDs() []string {
	ids := make([]string, 0)
	for _, record := range a.records() {
		if !record.Archived && !record.Deleted {
			ids = append(ids, record.ID)
		}
	}
	return ids
}

func (a *Account) ArchivedWalletIDs() []string {
	ids := make([]string, 0)
	for _, record := range a.records() {
		if record.Archived && !record.Deleted {
			ids = append(ids, record.ID)
		}
	}
	return ids
}

func (a *Account) AllKeys() []sdk.WalletInfo {
	records := a.records()
	keys := make([]sdk.WalletInfo, 0, len(records))
	for _, record := range records {
		keys = append(keys, sdk.WalletInfo{
			ID:       record.ID,
			Type:     record.Type,
			Archived: record.Archived,
			Deleted:  record.Deleted,
		})
	}
	return keys
}

// CurrencyWallets returns the active wallets whose plugin is loaded.
func (a *Account) CurrencyWallets() []sdk.Wallet {
	var wallets []sdk.Wallet
	for _, record := range a.records() {
		if record.Archived || record.Deleted {
			continue
		}
		info, ok := a.context.plugins.FindByWalletType(record.Type)
		if !ok {
			continue
		}
		wallets = append(wallets, &Wallet{record: record, info: info})
	}
	return wallets
}

func (a *Account) checkLoggedIn() error {
	if a.loggedOut {
		return errors.E(errors.Invalid, utils.ErrAccountLoggedOut)
	}
	return nil
}

// CreateCurrencyWallet creates a wallet of walletType with a new seed.
func (a *Account) CreateCurrencyWallet(ctx context.Context, walletType string, opts sdk.CreateWalletOptions) (sdk.Wallet, error) {
	info, ok := a.context.plugins.FindByWalletType(walletType)
	if !ok {
		return nil, utils.ErrUnknownPlugin(walletType)
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	if err := a.checkLoggedIn(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	seed, err := generateSeed()
	if err != nil {
		return nil, err
	}
	id, err := newWalletID()
	if err != nil {
		return nil, err
	}

	a.context.mu.Lock()
	defer a.context.mu.Unlock()

	count, err := a.context.db.Count(&walletRecord{})
	if err != nil {
		return nil, utils.TranslateError(err)
	}

	name := opts.Name
	if name == "" {
		name = "My " + info.DisplayName
	}
	record := &walletRecord{
		ID:               id,
		Username:         a.username,
		Seq:              count + 1,
		Name:             name,
		Type:             walletType,
		FiatCurrencyCode: opts.FiatCurrencyCode,
		EncryptedSeed:    seal([]byte(seed), a.key),
		CreatedAt:        time.Now(),
	}
	if err := a.context.db.Save(record); err != nil {
		return nil, utils.TranslateError(err)
	}

	log.Infof("Created %s wallet %s for %s", walletType, id, a.username)
	return &Wallet{record: record, info: info}, nil
}

func (a *Account) wallet(walletID string) (*walletRecord, error) {
	record := new(walletRecord)
	if err := a.context.db.One("ID", walletID, record); err != nil {
		return nil, utils.TranslateError(err)
	}
	if record.Username != a.username {
		return nil, errors.New(utils.ErrWalletNotFound)
	}
	return record, nil
}

// WalletSeed decrypts the seed mnemonic of a wallet.
func (a *Account) WalletSeed(walletID string) (string, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if err := a.checkLoggedIn(); err != nil {
		return "", err
	}

	record, err := a.wallet(walletID)
	if err != nil {
		return "", err
	}
	seed, err := open(record.EncryptedSeed, a.key)
	if err != nil {
		return "", err
	}
	return string(seed), nil
}

// SetWalletArchived moves a wallet between the active and archived lists.
func (a *Account) SetWalletArchived(walletID string, archived bool) error {
	a.context.mu.Lock()
	defer a.context.mu.Unlock()

	record, err := a.wallet(walletID)
	if err != nil {
		return err
	}
	return utils.TranslateError(a.context.db.UpdateField(record, "Archived", archived))
}

// SetPIN enables PIN login for the account.
func (a *Account) SetPIN(ctx context.Context, pin string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if len(pin) < 4 {
		return errors.E(errors.Invalid, "pin must have at least 4 digits")
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	if err := a.checkLoggedIn(); err != nil {
		return err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(pin), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	salt, err := randomBytes(saltSize)
	if err != nil {
		return err
	}
	pinKey, err := naclLoadFromPass([]byte(pin), salt)
	if err != nil {
		return err
	}

	a.context.mu.Lock()
	defer a.context.mu.Unlock()
	user, err := a.context.user(a.username)
	if err != nil {
		return utils.TranslateError(err)
	}
	user.PinHash = hash
	user.PinSalt = salt
	user.PinKey = seal(a.key[:], pinKey)
	return utils.TranslateError(a.context.db.Save(user))
}

// SetOTPResetPending flags or clears a pending two factor reset.
func (a *Account) SetOTPResetPending(pending bool) error {
	a.context.mu.Lock()
	defer a.context.mu.Unlock()
	user, err := a.context.user(a.username)
	if err != nil {
		return utils.TranslateError(err)
	}
	return utils.TranslateError(a.context.db.UpdateField(user, "OTPResetPending", pending))
}

func (a *Account) HasSecurityAlerts() bool {
	user, err := a.context.user(a.username)
	if err != nil {
		return false
	}
	return user.OTPResetPending
}

// Logout forgets the account key. Any later call that needs it fails.
func (a *Account) Logout(ctx context.Context) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.loggedOut {
		return nil
	}
	for i := range a.key {
		a.key[i] = 0
	}
	a.loggedOut = true
	log.Infof("Logged out %s", a.username)
	return nil
}
