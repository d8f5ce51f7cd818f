package localaccount

import (
	"crypto/rand"
	"encoding/hex"

	"decred.org/dcrwallet/v2/errors"
	"github.com/crypto-power/walletinit/libwallet/utils"
	"github.com/kevinburke/nacl"
	"github.com/kevinburke/nacl/secretbox"
	"github.com/tyler-smith/go-bip39"
	"golang.org/x/crypto/scrypt"
)

const saltSize = 16

// naclLoadFromPass derives a nacl.Key from pass and salt using scrypt.Key.
func naclLoadFromPass(pass, salt []byte) (nacl.Key, error) {
	const N, r, p = 1 << 15, 8, 1

	hash, err := scrypt.Key(pass, salt, N, r, p, 32)
	if err != nil {
		return nil, err
	}
	return nacl.Load(hex.EncodeToString(hash))
}

func seal(plain []byte, key nacl.Key) []byte {
	return secretbox.EasySeal(plain, key)
}

func open(sealed []byte, key nacl.Key) ([]byte, error) {
	plain, err := secretbox.EasyOpen(sealed, key)
	if err != nil {
		return nil, errors.New(utils.ErrInvalidPassphrase)
	}
	return plain, nil
}

func randomBytes(n int) ([]byte, error) {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		return nil, err
	}
	return b, nil
}

func newWalletID() (string, error) {
	b, err := randomBytes(16)
	if err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}

// generateSeed returns a new 24 word mnemonic.
func generateSeed() (string, error) {
	entropy, err := bip39.NewEntropy(256)
	if err != nil {
		return "", err
	}
	return bip39.NewMnemonic(entropy)
}

// VerifySeed reports whether mnemonic is a valid bip39 mnemonic.
func VerifySeed(mnemonic string) bool {
	return bip39.IsMnemonicValid(mnemonic)
}
