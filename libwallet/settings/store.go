package settings

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"sync"

	"decred.org/dcrwallet/v2/errors"
	"github.com/asdine/storm"
	"github.com/crypto-power/walletinit/libwallet/sdk"
	"github.com/crypto-power/walletinit/libwallet/utils"
	"github.com/decred/slog"
	"github.com/dgraph-io/badger"
	"github.com/dgraph-io/badger/options"
)

const (
	SyncedDbName = "synced.db"
	LocalDbDir   = "local"

	syncedBucket = "synced_settings"
	localPrefix  = "local_settings/"
)

// Persistence loads and saves the two settings documents of an account.
// A document that was never saved loads as an empty document.
type Persistence interface {
	LoadSynced(ctx context.Context, account sdk.Account) (Document, error)
	SaveSynced(ctx context.Context, account sdk.Account, doc Document) error
	LoadLocal(ctx context.Context, account sdk.Account) (Document, error)
	SaveLocal(ctx context.Context, account sdk.Account, doc Document) error
}

// SyncedStore keeps the synced settings of every account in a storm
// database, keyed by username.
type SyncedStore struct {
	db *storm.DB
}

// OpenSyncedStore opens or creates the synced settings database at dbPath.
func OpenSyncedStore(dbPath string) (*SyncedStore, error) {
	db, err := storm.Open(dbPath)
	if err != nil {
		return nil, errors.E(errors.IO, utils.TranslateError(err))
	}
	return &SyncedStore{db: db}, nil
}

// Load returns the synced settings saved for username.
func (s *SyncedStore) Load(ctx context.Context, username string) (Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	doc := Document{}
	err := s.db.Get(syncedBucket, username, &doc)
	if err == storm.ErrNotFound {
		return Document{}, nil
	}
	if err != nil {
		return nil, utils.TranslateError(err)
	}
	return doc, nil
}

// Save replaces the synced settings of username.
func (s *SyncedStore) Save(ctx context.Context, username string, doc Document) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return utils.TranslateError(s.db.Set(syncedBucket, username, doc))
}

// Close closes the underlying database.
func (s *SyncedStore) Close() error {
	return s.db.Close()
}

// badgerLogger routes badger's internal logging into the settings
// subsystem at one level below what badger asks for.
type badgerLogger struct {
	slog.Logger
}

func (l badgerLogger) Warningf(format string, args ...interface{}) {
	l.Logger.Warnf(format, args...)
}

func (l badgerLogger) Infof(format string, args ...interface{}) {
	l.Logger.Debugf(format, args...)
}

func (l badgerLogger) Debugf(format string, args ...interface{}) {
	l.Logger.Tracef(format, args...)
}

// LocalStore keeps settings that never leave this device in a badger
// database.
type LocalStore struct {
	mu sync.Mutex
	db *badger.DB
}

// OpenLocalStore opens or creates the local settings database in dir.
func OpenLocalStore(dir string) (*LocalStore, error) {
	if err := os.MkdirAll(dir, utils.UserFilePerm); err != nil {
		return nil, errors.E(errors.IO, err)
	}

	opts := badger.DefaultOptions(dir).
		WithValueDir(dir).
		WithValueLogLoadingMode(options.FileIO).
		WithTableLoadingMode(options.FileIO).
		WithValueLogFileSize(16 << 20).
		WithMaxTableSize(4 << 20).
		WithNumMemtables(1).
		WithNumCompactors(1).
		WithLogger(badgerLogger{log})

	db, err := badger.Open(opts)
	if err != nil {
		return nil, errors.E(errors.IO, err)
	}
	return &LocalStore{db: db}, nil
}

func localKey(username string) []byte {
	return []byte(localPrefix + username)
}

// Load returns the local settings saved for username.
func (s *LocalStore) Load(ctx context.Context, username string) (Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var data []byte
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(localKey(username))
		if err != nil {
			return err
		}
		data, err = item.ValueCopy(nil)
		return err
	})
	if err == badger.ErrKeyNotFound {
		return Document{}, nil
	}
	if err != nil {
		return nil, errors.E(errors.IO, err)
	}

	doc := Document{}
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, errors.E(errors.Encoding, err)
	}
	return doc, nil
}

// Save replaces the local settings of username.
func (s *LocalStore) Save(ctx context.Context, username string, doc Document) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	data, err := json.Marshal(doc)
	if err != nil {
		return errors.E(errors.Encoding, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	err = s.db.Update(func(txn *badger.Txn) error {
		return txn.Set(localKey(username), data)
	})
	if err != nil {
		return errors.E(errors.IO, err)
	}
	return nil
}

// Close closes the underlying database.
func (s *LocalStore) Close() error {
	return s.db.Close()
}

// Stores implements Persistence on top of a synced and a local store.
type Stores struct {
	Synced *SyncedStore
	Local  *LocalStore
}

// OpenStores opens both settings databases under dataDir.
func OpenStores(dataDir string) (*Stores, error) {
	if err := os.MkdirAll(dataDir, utils.UserFilePerm); err != nil {
		return nil, errors.E(errors.IO, err)
	}

	synced, err := OpenSyncedStore(filepath.Join(dataDir, SyncedDbName))
	if err != nil {
		return nil, err
	}
	local, err := OpenLocalStore(filepath.Join(dataDir, LocalDbDir))
	if err != nil {
		synced.Close()
		return nil, err
	}
	return &Stores{Synced: synced, Local: local}, nil
}

func (s *Stores) LoadSynced(ctx context.Context, account sdk.Account) (Document, error) {
	return s.Synced.Load(ctx, account.Username())
}

func (s *Stores) SaveSynced(ctx context.Context, account sdk.Account, doc Document) error {
	return s.Synced.Save(ctx, account.Username(), doc)
}

func (s *Stores) LoadLocal(ctx context.Context, account sdk.Account) (Document, error) {
	return s.Local.Load(ctx, account.Username())
}

func (s *Stores) SaveLocal(ctx context.Context, account sdk.Account, doc Document) error {
	return s.Local.Save(ctx, account.Username(), doc)
}

// Close closes both stores.
func (s *Stores) Close() error {
	localErr := s.Local.Close()
	if err := s.Synced.Close(); err != nil {
		return err
	}
	return localErr
}
