package clicmds

import (
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v2"
	"gitlab.com/schemeguard/game"
	"gitlab.com/schemeguard/guardk"
)

// ErrNoGameDir when launch is called without a folder
var ErrNoGameDir = errors.New("launch needs the game folder")

// LaunchFlags for the launch command
func LaunchFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:  "nwjs",
			Usage: "path to the nwjs binary",
			Value: "",
		},
		&cli.StringFlag{
			Name:  "config",
			Usage: "toml config to use",
			Value: "",
		},
		&cli.StringFlag{
			Name:  "datadir",
			Usage: "directory for temporary browser profiles",
			Value: "",
		},
		&cli.BoolFlag{
			Name:  "debug",
			Usage: "log every decision",
			Value: false,
		},
	}
}

// LaunchConfig for running the game in dir under nwjs
func LaunchConfig(ctx *cli.Context, dir string) (*guardk.Config, *game.Game, error) {
	g, err := game.Open(dir)
	if err != nil {
		return nil, nil, err
	}

	cfg, err := LoadConfig(ctx)
	if err != nil {
		return nil, nil, err
	}
	if nwjs := ctx.String("nwjs"); nwjs != "" {
		cfg.ChromePath = nwjs
	}
	cfg.AppDir = g.Dir
	cfg.StartURL = ""
	return cfg, g, nil
}

// Launch a game folder under nwjs with the guards in place
func Launch(ctx *cli.Context) error {
	if ctx.Bool("debug") {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}
	if ctx.NArg() == 0 {
		return ErrNoGameDir
	}

	cfg, g, err := LaunchConfig(ctx, ctx.Args().First())
	if err != nil {
		return err
	}
	log.Info().Str("game", g.Dir).Str("name", g.Name).Str("main", g.Main).Bool("name_fixed", g.Fixed).Msg("launching game")
	return run(cfg)
}
