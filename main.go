package main

import (
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v2"
	"gitlab.com/schemeguard/clicmds"
)

func main() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	zerolog.SetGlobalLevel(zerolog.InfoLevel)

	app := cli.NewApp()
	app.Name = "schemeguard"
	app.Version = "0.1"
	app.Usage = "only let file:// and chrome-extension:// requests out of the browser"
	app.Commands = []*cli.Command{
		{
			Name:    "guard",
			Aliases: []string{"g"},
			Usage:   "start a guarded browser",
			Action:  clicmds.Guard,
			Flags:   clicmds.GuardFlags(),
		},
		{
			Name:      "launch",
			Aliases:   []string{"l"},
			Usage:     "run an nwjs game folder with the guards in place",
			ArgsUsage: "<gamedir>",
			Action:    clicmds.Launch,
			Flags:     clicmds.LaunchFlags(),
		},
		{
			Name:    "classify",
			Aliases: []string{"c"},
			Usage:   "print the decision for each url",
			Action:  clicmds.Classify,
			Flags:   clicmds.ClassifyFlags(),
		},
	}
	err := app.Run(os.Args)
	if err != nil {
		log.Fatal().Err(err).Msg("schemeguard failed")
	}
}
