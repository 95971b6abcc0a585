// Package cli implements the blastgrid command-line interface.
//
// Every command works on a TOML project file (see pkg/pattern). Commands
// that change the pattern (new, place, move) rewrite the file atomically;
// commands that produce output (render, scene, export) go through a
// pipeline.Runner so results are cached on disk between runs.
package cli

import (
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/openpit/blastgrid/pkg/buildinfo"
	"github.com/openpit/blastgrid/pkg/cache"
	"github.com/openpit/blastgrid/pkg/observability"
	"github.com/openpit/blastgrid/pkg/pattern"
	"github.com/openpit/blastgrid/pkg/pipeline"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for directories and display.
	appName = "blastgrid"
)

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level. At debug level the render engine's
// hooks are routed to the logger as well.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
	if level <= log.DebugLevel {
		installHooks(c.Logger)
	}
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          appName,
		Short:        "Blastgrid lays out and inspects drill-and-blast patterns",
		Long:         `Blastgrid is a CLI tool for laying out blast-hole patterns on a spacing × burden grid, validating hole placement, rendering the pattern plan, and projecting surveyed holes into a 3D preview.`,
		Version:      buildinfo.Get().Version,
		SilenceUsage: true,
	}

	root.SetVersionTemplate(buildinfo.Template())

	root.AddCommand(c.newCommand())
	root.AddCommand(c.renderCommand())
	root.AddCommand(c.sceneCommand())
	root.AddCommand(c.placeCommand())
	root.AddCommand(c.moveCommand())
	root.AddCommand(c.selectCommand())
	root.AddCommand(c.holesCommand())
	root.AddCommand(c.exportCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates a pipeline runner for CLI use.
func (c *CLI) newRunner(noCache bool) (*pipeline.Runner, error) {
	cache, err := newCache(noCache)
	if err != nil {
		return nil, err
	}
	return pipeline.NewRunner(cache, nil, c.Logger), nil
}

func newCache(noCache bool) (cache.Cache, error) {
	if noCache {
		return cache.NewNullCache(), nil
	}
	dir, err := cacheDir()
	if err != nil {
		return cache.NewNullCache(), nil
	}
	return cache.NewFileCache(dir)
}

// installHooks routes engine events to the logger.
func installHooks(l *log.Logger) {
	h := &logHooks{logger: l}
	observability.SetRenderHooks(h)
	observability.SetCacheHooks(h)
	observability.SetPlacementHooks(h)
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the cache directory using XDG standard (~/.cache/blastgrid/).
func cacheDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}

// outputPath derives an output file from the explicit output flag or the
// project path. With several formats the extension of output is replaced
// per format.
func outputPath(output, project, suffix, ext string, multiple bool) string {
	if output != "" && !multiple {
		return output
	}
	base := output
	if base == "" {
		base = strings.TrimSuffix(project, filepath.Ext(project)) + suffix
	} else {
		base = strings.TrimSuffix(base, filepath.Ext(base))
	}
	return base + ext
}

// projectName derives a display name from a project path.
func projectName(path string) string {
	return strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
}

// =============================================================================
// Options Helpers
// =============================================================================

// parseFormats parses a comma-separated format string into a slice.
func parseFormats(s, def string) []string {
	if s == "" {
		return []string{def}
	}
	parts := strings.Split(s, ",")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return parts
}

// loadProject reads the project file named on the command line.
func (c *CLI) loadProject(path string) (*pattern.Project, error) {
	p, err := pattern.Load(path)
	if err != nil {
		return nil, err
	}
	c.Logger.Debug("loaded project", "path", path, "points", len(p.Points), "survey", len(p.Survey))
	return p, nil
}
