package clicmds

import (
	"fmt"

	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"
	"gitlab.com/schemeguard/filter"
)

// ClassifyFlags for the classify command
func ClassifyFlags() []cli.Flag {
	return []cli.Flag{
		&cli.BoolFlag{
			Name:  "quiet",
			Usage: "only print decisions",
			Value: false,
		},
	}
}

// Classify prints the decision for every url argument
func Classify(ctx *cli.Context) error {
	urls := ctx.Args().Slice()
	if len(urls) == 0 {
		return errors.New("classify requires at least one url")
	}

	for _, u := range urls {
		decision := filter.Classify(u)
		if ctx.Bool("quiet") {
			fmt.Fprintln(ctx.App.Writer, decision)
			continue
		}
		fmt.Fprintf(ctx.App.Writer, "%s\t%s\n", decision, u)
	}
	return nil
}
