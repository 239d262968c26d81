package game_test

import (
	"io/ioutil"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pkg/errors"
	"gitlab.com/schemeguard/game"
)

func gameDir(t *testing.T, packageJSON []byte, files ...string) (string, func()) {
	dir, err := ioutil.TempDir("", "schemeguard-game")
	if err != nil {
		t.Fatalf("err: %s\n", err)
	}
	if packageJSON != nil {
		if err := ioutil.WriteFile(filepath.Join(dir, "package.json"), packageJSON, 0644); err != nil {
			t.Fatalf("err: %s\n", err)
		}
	}
	for _, f := range files {
		p := filepath.Join(dir, filepath.FromSlash(f))
		os.MkdirAll(filepath.Dir(p), 0755)
		if err := ioutil.WriteFile(p, []byte("<html></html>"), 0644); err != nil {
			t.Fatalf("err: %s\n", err)
		}
	}
	return dir, func() { os.RemoveAll(dir) }
}

func TestOpen(t *testing.T) {
	dir, cleanup := gameDir(t, []byte(`{"name": "rmmz-game", "main": "www/index.html", "window": {"width": 816}}`), "www/index.html")
	defer cleanup()

	g, err := game.Open(dir)
	if err != nil {
		t.Fatalf("error opening game: %s\n", err)
	}
	if g.Name != "rmmz-game" || g.Fixed {
		t.Fatalf("unexpected game %#v\n", g)
	}
	if g.Index() != filepath.Join(g.Dir, "www", "index.html") {
		t.Fatalf("unexpected index %s\n", g.Index())
	}
}

func TestOpenFixesEmptyName(t *testing.T) {
	dir, cleanup := gameDir(t, []byte(`{"name": "  ", "main": "index.html", "chromium-args": "--force-color-profile=srgb", "window": {"width": 816}}`), "index.html")
	defer cleanup()

	g, err := game.Open(dir)
	if err != nil {
		t.Fatalf("error opening game: %s\n", err)
	}
	if !g.Fixed || g.Name != game.PlaceholderName {
		t.Fatalf("expected name to be fixed: %#v\n", g)
	}

	data, err := ioutil.ReadFile(filepath.Join(dir, "package.json"))
	if err != nil {
		t.Fatalf("err: %s\n", err)
	}
	out := string(data)
	for _, want := range []string{`"name": "tempname"`, `"chromium-args": "--force-color-profile=srgb"`, `"width": 816`} {
		if !strings.Contains(out, want) {
			t.Fatalf("rewritten package.json missing %s:\n%s\n", want, out)
		}
	}
}

func TestOpenUTF8BOM(t *testing.T) {
	raw := append([]byte{0xEF, 0xBB, 0xBF}, []byte(`{"name": "bom-game"}`)...)
	dir, cleanup := gameDir(t, raw, "index.html")
	defer cleanup()

	g, err := game.Open(dir)
	if err != nil {
		t.Fatalf("error opening game: %s\n", err)
	}
	if g.Name != "bom-game" || g.Main != game.DefaultMain {
		t.Fatalf("unexpected game %#v\n", g)
	}
}

func TestOpenUTF16(t *testing.T) {
	src := `{"name": ""}`
	raw := []byte{0xFF, 0xFE}
	for _, r := range src {
		raw = append(raw, byte(r), 0)
	}
	dir, cleanup := gameDir(t, raw, "index.html")
	defer cleanup()

	g, err := game.Open(dir)
	if err != nil {
		t.Fatalf("error opening game: %s\n", err)
	}
	if !g.Fixed {
		t.Fatalf("expected empty utf-16 name to be fixed")
	}
}

func TestOpenNoNameLeftAlone(t *testing.T) {
	original := []byte(`{"main":"index.html"}`)
	dir, cleanup := gameDir(t, original, "index.html")
	defer cleanup()

	g, err := game.Open(dir)
	if err != nil {
		t.Fatalf("error opening game: %s\n", err)
	}
	data, _ := ioutil.ReadFile(filepath.Join(dir, "package.json"))
	if g.Fixed || string(data) != string(original) {
		t.Fatalf("package.json without a name key must not be rewritten")
	}
}

func TestOpenErrors(t *testing.T) {
	noPackage, cleanup := gameDir(t, nil)
	defer cleanup()
	badJSON, cleanup2 := gameDir(t, []byte(`{"name": `))
	defer cleanup2()
	noMain, cleanup3 := gameDir(t, []byte(`{"name": "x", "main": "www/index.html"}`))
	defer cleanup3()

	var inputs = []struct {
		dir   string
		cause error
	}{
		{noPackage, game.ErrNoPackageJSON},
		{filepath.Join(noPackage, "missing"), game.ErrNotDirectory},
		{noMain, game.ErrNoMain},
	}
	for _, in := range inputs {
		_, err := game.Open(in.dir)
		if errors.Cause(err) != in.cause {
			t.Fatalf("%s: expected %v got %v\n", in.dir, in.cause, err)
		}
	}

	if _, err := game.Open(badJSON); err == nil {
		t.Fatalf("expected decode error")
	}
}
