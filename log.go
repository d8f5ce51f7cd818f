// Copyright (c) 2016, 2018 The Decred developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/crypto-power/walletinit/libwallet/localaccount"
	"github.com/crypto-power/walletinit/libwallet/plugins"
	"github.com/crypto-power/walletinit/libwallet/referral"
	"github.com/crypto-power/walletinit/libwallet/settings"
	"github.com/crypto-power/walletinit/libwallet/tokens"
	libutils "github.com/crypto-power/walletinit/libwallet/utils"
	"github.com/crypto-power/walletinit/logger"
	"github.com/crypto-power/walletinit/login"
	"github.com/crypto-power/walletinit/session"
	"github.com/decred/slog"
	"github.com/jrick/logrotate/rotator"
)

// logWriter implements an io.Writer that outputs to both standard output and
// the write-end pipe of an initialized log rotator.
type logWriter struct{}

// Write writes the data in p to standard out and the log rotator.
func (logWriter) Write(p []byte) (n int, err error) {
	os.Stdout.Write(p)
	if logRotator == nil {
		return len(p), nil
	}
	return logRotator.Write(p)
}

// Loggers per subsystem.  A single backend logger is created and all subsytem
// loggers created from it will write to the backend.  When adding new
// subsystems, add the subsystem logger variable here and to the
// subsystemLoggers map.
//
// Loggers write to standard output only until initLogRotator is called.
var (
	backendLog = slog.NewBackend(logWriter{})

	// logRotator is one of the logging outputs.
	logRotator *rotator.Rotator

	log     = backendLog.Logger("WINI")
	lginLog = backendLog.Logger("LGIN")
	stngLog = backendLog.Logger("STNG")
	toknLog = backendLog.Logger("TOKN")
	rfrlLog = backendLog.Logger("RFRL")
	sessLog = backendLog.Logger("SESS")
	laccLog = backendLog.Logger("LACC")
	plgnLog = backendLog.Logger("PLGN")
)

// Initialize package-global logger variables.
func init() {
	login.UseLogger(lginLog)
	settings.UseLogger(stngLog)
	tokens.UseLogger(toknLog)
	referral.UseLogger(rfrlLog)
	session.UseLogger(sessLog)
	localaccount.UseLogger(laccLog)
	plugins.UseLogger(plgnLog)

	logger.New(subsystemLoggers)
}

// subsystemLoggers maps each subsystem identifier to its associated logger.
var subsystemLoggers = map[string]slog.Logger{
	"WINI": log,
	"LGIN": lginLog,
	"STNG": stngLog,
	"TOKN": toknLog,
	"RFRL": rfrlLog,
	"SESS": sessLog,
	"LACC": laccLog,
	"PLGN": plgnLog,
}

// initLogRotator initializes the logging rotater to write logs to logFile and
// create roll files in the same directory.  It must be called before the
// package-global log rotater variables are used.
func initLogRotator(logDir string, maxRolls int) {
	if logRotator != nil {
		logRotator.Close()
	}

	err := os.MkdirAll(logDir, libutils.UserFilePerm)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create log directory: %v\n", err)
		os.Exit(1)
	}

	r, err := rotator.New(filepath.Join(logDir, libutils.LogFileName), 32*1024, false, maxRolls)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create file rotator: %v\n", err)
		os.Exit(1)
	}
	logRotator = r
}
