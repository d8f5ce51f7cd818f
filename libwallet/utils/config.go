package utils

import (
	"os"
	"time"
)

const (
	LogFileName = "walletinit.log"

	// UserFilePerm is the permission used for files and directories created
	// on behalf of the user.
	UserFilePerm = os.FileMode(0700)

	DefaultLogLevel = "info"

	// DefaultWalletCreationTimeout bounds a single wallet creation call.
	DefaultWalletCreationTimeout = 20 * time.Second
)

// FileExists reports whether the named file or directory exists.
func FileExists(filePath string) (bool, error) {
	_, err := os.Stat(filePath)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}
