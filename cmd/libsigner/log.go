package main

import (
	"os"

	"github.com/btccom/adasigner/handle"
	"github.com/btccom/adasigner/wallet"
	"github.com/btcsuite/btclog"
)

// logLevelEnv names the environment variable holding the log level
const logLevelEnv = "ADASIGNER_LOG_LEVEL"

var (
	backendLog = btclog.NewBackend(os.Stderr)

	handleLog = backendLog.Logger("HNDL")
	walletLog = backendLog.Logger("WLLT")
)

// subsystemLoggers maps each subsystem identifier to its associated logger.
var subsystemLoggers = map[string]btclog.Logger{
	"HNDL": handleLog,
	"WLLT": walletLog,
}

func initLogging() {
	handle.UseLogger(handleLog)
	wallet.UseLogger(walletLog)

	setLogLevels(logLevel(os.Getenv(logLevelEnv)))
}

// logLevel parses the configured level, falling back to off for
// empty or unknown values.
func logLevel(s string) btclog.Level {
	level, ok := btclog.LevelFromString(s)
	if !ok {
		return btclog.LevelOff
	}
	return level
}

// setLogLevels sets the log level for all subsystem loggers.
func setLogLevels(level btclog.Level) {
	for _, logger := range subsystemLoggers {
		logger.SetLevel(level)
	}
}
