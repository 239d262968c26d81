package clicmds

import (
	"context"
	"io/ioutil"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/pelletier/go-toml"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v2"
	"gitlab.com/schemeguard/filter"
	"gitlab.com/schemeguard/guardk"
	"gitlab.com/schemeguard/guards"
	"gitlab.com/schemeguard/host"
)

// GuardFlags for the guard command
func GuardFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:  "url",
			Usage: "url to load once the guards are in place",
			Value: "",
		},
		&cli.StringFlag{
			Name:  "config",
			Usage: "toml config to use",
			Value: "",
		},
		&cli.StringFlag{
			Name:  "chrome",
			Usage: "path to the chrome/nwjs binary",
			Value: "",
		},
		&cli.StringFlag{
			Name:  "datadir",
			Usage: "directory for temporary browser profiles",
			Value: "",
		},
		&cli.BoolFlag{
			Name:  "headless",
			Usage: "run chrome headless",
			Value: false,
		},
		&cli.BoolFlag{
			Name:  "debug",
			Usage: "log every decision",
			Value: false,
		},
	}
}

// LoadConfig from a toml file, flags fill anything the file left empty
func LoadConfig(ctx *cli.Context) (*guardk.Config, error) {
	cfg := &guardk.Config{}
	if path := ctx.String("config"); path != "" {
		data, err := ioutil.ReadFile(path)
		if err != nil {
			return nil, errors.Wrap(err, "failed to read config")
		}

		if err := toml.NewDecoder(strings.NewReader(string(data))).Decode(cfg); err != nil {
			return nil, errors.Wrap(err, "failed to decode config")
		}
	}

	if cfg.StartURL == "" {
		cfg.StartURL = ctx.String("url")
	}
	if cfg.ChromePath == "" {
		cfg.ChromePath = ctx.String("chrome")
	}
	if cfg.DataPath == "" {
		cfg.DataPath = ctx.String("datadir")
	}
	if ctx.Bool("headless") {
		cfg.Headless = true
	}
	cfg.SetDefaults()
	return cfg, nil
}

// Guard starts a guarded browser and runs until interrupted
func Guard(ctx *cli.Context) error {
	if ctx.Bool("debug") {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}

	cfg, err := LoadConfig(ctx)
	if err != nil {
		return err
	}
	return run(cfg)
}

func run(cfg *guardk.Config) error {
	chain := &guardk.Chain{}
	chain.AddReqHandler(filter.Handler(filter.Classify))

	leaser := host.NewLocalLeaser(cfg.ChromePath, cfg.DataPath, host.StartupFlags(cfg))
	guard := host.New(cfg, leaser, chain, guards.Default())
	log.Info().Str("session", guard.SessionID()).Msg("starting schemeguard")

	guardContext, cancel := context.WithCancel(context.Background())
	defer cancel()

	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(c)
	go func() {
		select {
		case <-c:
			log.Info().Msg("Ctrl-C Pressed, shutting down")
			cancel()
		case <-guardContext.Done():
		}
	}()

	if err := guard.Start(guardContext); err != nil {
		log.Error().Err(err).Msg("failed to start guard")
		return err
	}

	if err := guard.Wait(guardContext); err != nil {
		log.Error().Err(err).Msg("guard failure occurred")
		guard.Stop()
		return err
	}
	return guard.Stop()
}
