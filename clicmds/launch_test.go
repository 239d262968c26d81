package clicmds_test

import (
	"io/ioutil"
	"os"
	"path/filepath"
	"testing"

	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"
	"gitlab.com/schemeguard/clicmds"
	"gitlab.com/schemeguard/game"
	"gitlab.com/schemeguard/guardk"
	"gitlab.com/schemeguard/host"
)

func launchConfig(args []string) (*guardk.Config, *game.Game, error) {
	var cfg *guardk.Config
	var g *game.Game
	app := cli.NewApp()
	app.Commands = []*cli.Command{
		{
			Name:  "launch",
			Flags: clicmds.LaunchFlags(),
			Action: func(ctx *cli.Context) error {
				var err error
				cfg, g, err = clicmds.LaunchConfig(ctx, ctx.Args().First())
				return err
			},
		},
	}
	err := app.Run(append([]string{"app", "launch"}, args...))
	return cfg, g, err
}

func TestLaunchConfig(t *testing.T) {
	dir, err := ioutil.TempDir("", "schemeguard-launch")
	if err != nil {
		t.Fatalf("err: %s\n", err)
	}
	defer os.RemoveAll(dir)

	ioutil.WriteFile(filepath.Join(dir, "package.json"), []byte(`{"name": "", "main": "index.html"}`), 0644)
	ioutil.WriteFile(filepath.Join(dir, "index.html"), []byte("<html></html>"), 0644)

	cfg, g, err := launchConfig([]string{"--nwjs", "/opt/nwjs/nw", dir})
	if err != nil {
		t.Fatalf("err: %s\n", err)
	}
	if !g.Fixed {
		t.Fatalf("expected empty name to be fixed before launch")
	}
	if cfg.ChromePath != "/opt/nwjs/nw" || cfg.AppDir != g.Dir || cfg.StartURL != "" {
		t.Fatalf("unexpected config %#v\n", cfg)
	}

	flags := host.StartupFlags(cfg)
	if flags[len(flags)-1] != g.Dir {
		t.Fatalf("expected app folder as last argument got %s\n", flags[len(flags)-1])
	}
}

func TestLaunchConfigNoPackage(t *testing.T) {
	dir, err := ioutil.TempDir("", "schemeguard-launch")
	if err != nil {
		t.Fatalf("err: %s\n", err)
	}
	defer os.RemoveAll(dir)

	_, _, err = launchConfig([]string{dir})
	if errors.Cause(err) != game.ErrNoPackageJSON {
		t.Fatalf("expected ErrNoPackageJSON got %v\n", err)
	}
}

func TestLaunchNoArgs(t *testing.T) {
	app := cli.NewApp()
	app.Commands = []*cli.Command{
		{Name: "launch", Flags: clicmds.LaunchFlags(), Action: clicmds.Launch},
	}
	if err := app.Run([]string{"app", "launch"}); err != clicmds.ErrNoGameDir {
		t.Fatalf("expected ErrNoGameDir got %v\n", err)
	}
}
