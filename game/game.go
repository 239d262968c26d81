// Package game reads and repairs the package.json of an nwjs game folder
// (RPG Maker MV/MZ exports) before it is launched under the guard.
package game

import (
	"bytes"
	"encoding/json"
	"io/ioutil"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// PlaceholderName replaces an empty package name, nwjs refuses to start without one
const PlaceholderName = "tempname"

// DefaultMain is what nwjs loads when package.json has no main
const DefaultMain = "index.html"

// revive:exported
var (
	ErrNotDirectory  = errors.New("game path is not a directory")
	ErrNoPackageJSON = errors.New("no package.json found in the game folder")
	ErrNoMain        = errors.New("main file from package.json not found")
)

// Game folder with a valid package.json
type Game struct {
	Dir   string
	Name  string
	Main  string
	Fixed bool // package.json was rewritten with PlaceholderName
}

// Open validates dir, filling in an empty name in package.json
func Open(dir string) (*Game, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, err
	}
	info, err := os.Stat(abs)
	if err != nil || !info.IsDir() {
		return nil, errors.Wrap(ErrNotDirectory, abs)
	}

	path := filepath.Join(abs, "package.json")
	raw, err := ioutil.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, errors.Wrap(ErrNoPackageJSON, abs)
	} else if err != nil {
		return nil, errors.Wrap(err, "failed to read package.json")
	}

	data, err := decode(raw)
	if err != nil {
		return nil, err
	}

	g := &Game{Dir: abs, Main: DefaultMain}
	if name, ok := data["name"].(string); ok {
		g.Name = name
		if strings.TrimSpace(name) == "" {
			data["name"] = PlaceholderName
			g.Name = PlaceholderName
			if err := write(path, data); err != nil {
				return nil, err
			}
			g.Fixed = true
			log.Info().Str("path", path).Msg("package.json name was empty, set placeholder")
		}
	}

	if main, ok := data["main"].(string); ok && main != "" {
		g.Main = main
	}
	if !g.remoteMain() {
		if _, err := os.Stat(g.Index()); err != nil {
			return nil, errors.Wrap(ErrNoMain, g.Main)
		}
	}
	return g, nil
}

// Index is the absolute path of the main file
func (g *Game) Index() string {
	return filepath.Join(g.Dir, filepath.FromSlash(g.Main))
}

func (g *Game) remoteMain() bool {
	return strings.Contains(g.Main, "://")
}

// decode package.json in whatever unicode encoding its BOM says, utf-8 otherwise
func decode(raw []byte) (map[string]interface{}, error) {
	r := transform.NewReader(bytes.NewReader(raw), unicode.BOMOverride(unicode.UTF8.NewDecoder()))
	dec := json.NewDecoder(r)
	dec.UseNumber()

	data := make(map[string]interface{})
	if err := dec.Decode(&data); err != nil {
		return nil, errors.Wrap(err, "failed to decode package.json")
	}
	return data, nil
}

// write package.json back as utf-8 with four space indents
func write(path string, data map[string]interface{}) error {
	out := &bytes.Buffer{}
	enc := json.NewEncoder(out)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "    ")
	if err := enc.Encode(data); err != nil {
		return errors.Wrap(err, "failed to encode package.json")
	}
	if err := ioutil.WriteFile(path, out.Bytes(), 0644); err != nil {
		return errors.Wrap(err, "failed to write package.json")
	}
	return nil
}
