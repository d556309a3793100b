package main

import (
	"errors"
	"io/fs"
	"os"

	"cosmossdk.io/log"
	svrcmd "github.com/cosmos/cosmos-sdk/server/cmd"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"github.com/openalpha/farmchain/app"
	"github.com/openalpha/farmchain/cmd/farmd/cmd"
)

func main() {
	logger := log.NewLogger(os.Stderr, log.LevelOption(zerolog.InfoLevel))

	// FARMD_* overrides may live in a local .env file
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		logger.Error("failed to load .env", "err", err)
		os.Exit(1)
	}

	rootCmd := cmd.NewRootCmd()
	if err := svrcmd.Execute(rootCmd, "FARMD", app.DefaultNodeHome); err != nil {
		logger.Error("failure when running app", "err", err)
		os.Exit(1)
	}
}
