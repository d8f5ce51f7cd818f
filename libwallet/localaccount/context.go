// Package localaccount is a wallet core that keeps accounts and their
// wallet keys in a local storm database. Seeds are bip39 mnemonics sealed
// with a key derived from the account password.
package localaccount

import (
	"context"
	"sync"
	"time"

	"decred.org/dcrwallet/v2/errors"
	"github.com/asdine/storm"
	"github.com/crypto-power/walletinit/libwallet/sdk"
	"github.com/crypto-power/walletinit/libwallet/utils"
	"github.com/kevinburke/nacl"
	"golang.org/x/crypto/bcrypt"
)

type userRecord struct {
	Username     string `storm:"id"`
	PasswordHash []byte
	KeySalt      []byte
	// PinKey is the account key sealed with a key derived from the PIN.
	PinKey          []byte
	PinSalt         []byte
	PinHash         []byte
	OTPResetPending bool
	CreatedAt       time.Time
}

type walletRecord struct {
	ID               string `storm:"id"`
	Username         string `storm:"index"`
	Seq              int
	Name             string
	Type             string `storm:"index"`
	FiatCurrencyCode string
	EncryptedSeed    []byte
	Archived         bool
	Deleted          bool
	CreatedAt        time.Time
}

// Context owns the account database. It answers capability queries about
// users that are not logged in.
type Context struct {
	mu      sync.Mutex
	db      *storm.DB
	plugins sdk.CurrencyConfig
}

// Open opens or creates the account database at dbPath. Accounts logged in
// through the returned context use plugins as their currency config.
func Open(dbPath string, plugins sdk.CurrencyConfig) (*Context, error) {
	db, err := storm.Open(dbPath)
	if err != nil {
		return nil, utils.TranslateError(err)
	}

	for _, record := range []interface{}{&userRecord{}, &walletRecord{}} {
		if err := db.Init(record); err != nil {
			db.Close()
			return nil, errors.Errorf("error initializing account database: %v", err)
		}
	}

	return &Context{db: db, plugins: plugins}, nil
}

func (c *Context) Close() error {
	return c.db.Close()
}

// user returns storm.ErrNotFound untranslated for unknown users.
func (c *Context) user(username string) (*userRecord, error) {
	user := new(userRecord)
	if err := c.db.One("Username", username, user); err != nil {
		return nil, err
	}
	return user, nil
}

// UsernameAvailable reports whether no account is registered as username.
func (c *Context) UsernameAvailable(ctx context.Context, username string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	_, err := c.user(username)
	if err == storm.ErrNotFound {
		return true, nil
	}
	return false, utils.TranslateError(err)
}

// CreateAccount registers username and logs it in.
func (c *Context) CreateAccount(ctx context.Context, username string, password []byte) (*Account, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if username == "" || len(password) == 0 {
		return nil, errors.E(errors.Invalid, "username and password are required")
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	available, err := c.UsernameAvailable(ctx, username)
	if err != nil {
		return nil, err
	}
	if !available {
		return nil, errors.New(utils.ErrExist)
	}

	hash, err := bcrypt.GenerateFromPassword(password, bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	salt, err := randomBytes(saltSize)
	if err != nil {
		return nil, err
	}
	user := &userRecord{
		Username:     username,
		PasswordHash: hash,
		KeySalt:      salt,
		CreatedAt:    time.Now(),
	}
	if err := c.db.Save(user); err != nil {
		return nil, utils.TranslateError(err)
	}

	key, err := naclLoadFromPass(password, salt)
	if err != nil {
		return nil, err
	}
	log.Infof("Created account %s", username)
	return c.newAccount(user, key), nil
}

// Login verifies password and logs the account in.
func (c *Context) Login(ctx context.Context, username string, password []byte) (*Account, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	user, err := c.user(username)
	if err != nil {
		return nil, utils.TranslateError(err)
	}
	if err := bcrypt.CompareHashAndPassword(user.PasswordHash, password); err != nil {
		return nil, errors.E(errors.Passphrase, utils.ErrInvalidPassphrase)
	}
	key, err := naclLoadFromPass(password, user.KeySalt)
	if err != nil {
		return nil, err
	}
	return c.newAccount(user, key), nil
}

// LoginWithPIN logs in an account that enabled PIN login.
func (c *Context) LoginWithPIN(ctx context.Context, username, pin string) (*Account, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	user, err := c.user(username)
	if err != nil {
		return nil, utils.TranslateError(err)
	}
	if user.PinHash == nil {
		return nil, errors.E(errors.Invalid, "pin login is not enabled")
	}
	if err := bcrypt.CompareHashAndPassword(user.PinHash, []byte(pin)); err != nil {
		return nil, errors.E(errors.Passphrase, utils.ErrInvalidPassphrase)
	}

	pinKey, err := naclLoadFromPass([]byte(pin), user.PinSalt)
	if err != nil {
		return nil, err
	}
	rawKey, err := open(user.PinKey, pinKey)
	if err != nil {
		return nil, err
	}
	key := new([nacl.KeySize]byte)
	copy(key[:], rawKey)
	return c.newAccount(user, key), nil
}

// PinLoginEnabled reports whether username can log in with a PIN. Unknown
// users cannot.
func (c *Context) PinLoginEnabled(ctx context.Context, username string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	user, err := c.user(username)
	if err == storm.ErrNotFound {
		return false, nil
	}
	if err != nil {
		return false, utils.TranslateError(err)
	}
	return user.PinHash != nil, nil
}

func (c *Context) newAccount(user *userRecord, key nacl.Key) *Account {
	return &Account{
		context:  c,
		username: user.Username,
		key:      key,
	}
}
