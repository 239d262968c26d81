// Package guards holds the startup guards installed into every document
// before the request filter is registered.
package guards

import (
	"github.com/gobuffalo/packr/v2"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"gitlab.com/schemeguard/guardk"
)

var box = packr.New("guards", "./scripts")

// ScriptGuard installs a single embedded script
type ScriptGuard struct {
	name   string
	script string
}

// Child blocks child_process spawning
func Child() *ScriptGuard {
	return &ScriptGuard{name: "disable-child", script: "disable-child.js"}
}

// Net blocks the node http/https/net/tls/dns modules
func Net() *ScriptGuard {
	return &ScriptGuard{name: "disable-net", script: "disable-net.js"}
}

// Default guards in the order they are installed
func Default() []guardk.Guard {
	return []guardk.Guard{Child(), Net()}
}

// Name of the guard
func (g *ScriptGuard) Name() string {
	return g.name
}

// Source of the guard script
func (g *ScriptGuard) Source() (string, error) {
	src, err := box.FindString(g.script)
	if err != nil {
		return "", errors.Wrap(err, "missing guard script "+g.script)
	}
	return src, nil
}

// Install the guard script
func (g *ScriptGuard) Install(inj guardk.Injector) error {
	src, err := g.Source()
	if err != nil {
		return err
	}

	id, err := inj.AddScript(src)
	if err != nil {
		return errors.Wrap(err, "failed to install "+g.name)
	}
	log.Info().Str("guard", g.name).Str("script_id", id).Msg("guard installed")
	return nil
}

// InstallAll guards in order, stopping at the first failure
func InstallAll(inj guardk.Injector, guards []guardk.Guard) error {
	for _, g := range guards {
		if err := g.Install(inj); err != nil {
			return err
		}
	}
	return nil
}
