package main

import (
	"context"
	"flag"
	"os"
	"path"

	"github.com/google/subcommands"

	"portfoliodb/internal/cli"
	"portfoliodb/internal/config"
	"portfoliodb/internal/logger"
)

func main() {
	os.Exit(run())
}

func run() int {
	cfg, err := config.Load()
	if err != nil {
		logger.Init(os.Getenv("ENV"), os.Getenv("LOG_LEVEL"))
		logger.Get().Errorf("Failed to load configuration: %v", err)
		return int(subcommands.ExitFailure)
	}
	logger.Init(cfg.Env, cfg.LogLevel)
	defer logger.Sync()

	commander := subcommands.NewCommander(flag.CommandLine, path.Base(os.Args[0]))
	commander.Register(commander.HelpCommand(), "")
	commander.Register(commander.FlagsCommand(), "")
	commander.Register(commander.CommandsCommand(), "")
	cli.New(cfg).Register(commander)

	flag.Parse()
	return int(commander.Execute(context.Background()))
}
