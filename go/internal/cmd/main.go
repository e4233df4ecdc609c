package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	flag.Usage = usage
	flag.Parse()
	if flag.NArg() == 0 {
		usage()
		os.Exit(2)
	}

	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		fmt.Fprintf(os.Stderr, "Warning: could not load .env file: %v\n", err)
	}

	cfg, err := loadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}
	setupLogging(cfg)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, flag.Args()); err != nil {
		log.Error().Err(err).Msg("laliga failed")
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		stop()
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg Config, args []string) error {
	svc, err := setupServices(ctx, cfg, clockwork.NewRealClock())
	if err != nil {
		return err
	}
	defer func() {
		if err := svc.Close(); err != nil {
			log.Error().Err(err).Msg("failed to close services")
		}
	}()

	cmdErr := runCommands(ctx, svc, os.Stdout, args)
	if err := svc.Flush(ctx); err != nil {
		log.Error().Err(err).Msg("failed to publish league events")
	}
	return cmdErr
}

func setupLogging(cfg Config) {
	zerolog.SetGlobalLevel(cfg.logLevel())
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})
}

func usage() {
	out := flag.CommandLine.Output()
	fmt.Fprintf(out, "La Liga Lebowski salary-cap league\n\nUsage: laliga COMMAND [ARGS]... [COMMAND [ARGS]...]\n\nCommands:\n")
	for _, c := range commands {
		fmt.Fprintf(out, "  %-16s %-28s %s\n", c.name, strings.Join(c.args, " "), c.usage)
	}
	fmt.Fprintf(out, "\nCommands run in order against one league, e.g. laliga advance holdouts draft-order\n")
}
