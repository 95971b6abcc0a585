package cli

import (
	"bytes"
	"context"
	stderrors "errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/openpit/blastgrid/pkg/errors"
	"github.com/openpit/blastgrid/pkg/pattern"
)

func TestOutputPath(t *testing.T) {
	tests := []struct {
		name     string
		output   string
		project  string
		suffix   string
		ext      string
		multiple bool
		want     string
	}{
		{"from project", "", "site/bench.toml", "", ".svg", false, "site/bench.svg"},
		{"with suffix", "", "bench.toml", "-scene", ".png", false, "bench-scene.png"},
		{"explicit single", "out/plan.svg", "bench.toml", "", ".svg", false, "out/plan.svg"},
		{"explicit multiple", "out/plan.svg", "bench.toml", "", ".png", true, "out/plan.png"},
		{"explicit base", "out/plan", "bench.toml", "", ".json", true, "out/plan.json"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := outputPath(tt.output, tt.project, tt.suffix, tt.ext, tt.multiple)
			if got != tt.want {
				t.Errorf("outputPath() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestParseFormats(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{"", []string{"svg"}},
		{"png", []string{"png"}},
		{"svg, png ,json", []string{"svg", "png", "json"}},
	}
	for _, tt := range tests {
		got := parseFormats(tt.in, "svg")
		if strings.Join(got, ",") != strings.Join(tt.want, ",") {
			t.Errorf("parseFormats(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestProjectName(t *testing.T) {
	if got := projectName("/data/pit-2/bench-420.toml"); got != "bench-420" {
		t.Errorf("projectName() = %q, want %q", got, "bench-420")
	}
}

func TestParsePosition(t *testing.T) {
	p, err := parsePosition("-2.5", "4")
	if err != nil || p.X != -2.5 || p.Y != 4 {
		t.Errorf("parsePosition() = %v, %v", p, err)
	}
	if _, err := parsePosition("east", "4"); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("parsePosition(east) error = %v, want INVALID_INPUT", err)
	}
}

// run executes the root command with args and returns its error.
func run(t *testing.T, args ...string) error {
	t.Helper()
	c := New(&bytes.Buffer{}, log.WarnLevel)
	root := c.RootCommand()
	root.SetArgs(args)
	root.SetOut(&bytes.Buffer{})
	root.SetErr(&bytes.Buffer{})
	return root.ExecuteContext(context.Background())
}

func load(t *testing.T, path string) *pattern.Project {
	t.Helper()
	p, err := pattern.Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	return p
}

func TestWorkflow(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_CACHE_HOME", filepath.Join(dir, "cache"))
	proj := filepath.Join(dir, "bench.toml")

	if err := run(t, "new", proj, "--origin-e", "500000", "--origin-n", "7200000", "--origin-z", "420"); err != nil {
		t.Fatalf("new: %v", err)
	}
	if n := len(load(t, proj).Points); n != 18 {
		t.Fatalf("new wrote %d points, want 18", n)
	}
	if err := run(t, "new", proj); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("new over existing file: err = %v, want INVALID_INPUT", err)
	}

	t.Run("place", func(t *testing.T) {
		if err := run(t, "place", proj, "4", "3.75"); err != nil {
			t.Fatalf("place: %v", err)
		}
		if n := len(load(t, proj).Points); n != 19 {
			t.Errorf("points after place = %d, want 19", n)
		}

		err := run(t, "place", proj, "2", "2")
		var rej *errors.RejectedError
		if !stderrors.As(err, &rej) || !rej.Duplicate || rej.ExistingID != "A1" {
			t.Errorf("duplicate place: err = %v", err)
		}

		err = run(t, "place", proj, "2.05", "2")
		if !stderrors.As(err, &rej) || rej.Duplicate {
			t.Errorf("close place: err = %v, want non-duplicate rejection", err)
		}
		if n := len(load(t, proj).Points); n != 19 {
			t.Errorf("rejected placements changed the project: %d points", n)
		}
	})

	t.Run("move", func(t *testing.T) {
		if err := run(t, "move", proj, "A1", "2.5", "2"); err != nil {
			t.Fatalf("move: %v", err)
		}
		a1, _ := load(t, proj).Point("A1")
		if a1.X != 2.5 || a1.Y != 2 {
			t.Errorf("A1 = (%v, %v), want (2.5, 2)", a1.X, a1.Y)
		}

		var rej *errors.RejectedError
		if err := run(t, "move", proj, "A1", "6", "2"); !stderrors.As(err, &rej) || rej.ExistingID != "A2" {
			t.Errorf("move onto A2: err = %v", err)
		}
		if err := run(t, "move", proj, "Z9", "1", "1"); !errors.Is(err, errors.ErrCodePointNotFound) {
			t.Errorf("move unknown: err = %v, want POINT_NOT_FOUND", err)
		}
	})

	t.Run("select", func(t *testing.T) {
		if err := run(t, "select", proj, "B2"); err != nil {
			t.Errorf("select: %v", err)
		}
		if err := run(t, "select", proj, "nope"); err != nil {
			t.Errorf("select unknown: %v", err)
		}
	})

	t.Run("render", func(t *testing.T) {
		if err := run(t, "render", proj, "-f", "svg,json", "--legend"); err != nil {
			t.Fatalf("render: %v", err)
		}
		data, err := os.ReadFile(filepath.Join(dir, "bench.svg"))
		if err != nil {
			t.Fatalf("read svg: %v", err)
		}
		if !strings.Contains(string(data), "<svg") {
			t.Error("render output is not SVG")
		}
		if _, err := os.Stat(filepath.Join(dir, "bench.json")); err != nil {
			t.Errorf("json output: %v", err)
		}
		if err := run(t, "render", proj, "-f", "pdf"); !errors.Is(err, errors.ErrCodeInvalidFormat) {
			t.Errorf("render pdf: err = %v, want INVALID_FORMAT", err)
		}
	})

	t.Run("scene", func(t *testing.T) {
		if err := run(t, "scene", proj, "--scene-width", "320", "--scene-height", "240"); err != nil {
			t.Fatalf("scene: %v", err)
		}
		data, err := os.ReadFile(filepath.Join(dir, "bench-scene.png"))
		if err != nil {
			t.Fatalf("read png: %v", err)
		}
		if !bytes.HasPrefix(data, []byte("\x89PNG")) {
			t.Error("scene output is not PNG")
		}
	})

	t.Run("export", func(t *testing.T) {
		if err := run(t, "export", proj, "-f", "dxf,geojson"); err != nil {
			t.Fatalf("export: %v", err)
		}
		for _, name := range []string{"bench.dxf", "bench.geojson"} {
			if _, err := os.Stat(filepath.Join(dir, name)); err != nil {
				t.Errorf("%s: %v", name, err)
			}
		}
		if err := run(t, "export", proj, "-f", "kml"); !errors.Is(err, errors.ErrCodeInvalidFormat) {
			t.Errorf("export kml: err = %v, want INVALID_FORMAT", err)
		}
	})

	t.Run("holes", func(t *testing.T) {
		if err := run(t, "holes", proj, "--plain"); err != nil {
			t.Errorf("holes: %v", err)
		}
	})

	t.Run("cache clear", func(t *testing.T) {
		if err := run(t, "cache", "clear"); err != nil {
			t.Errorf("cache clear: %v", err)
		}
	})
}
