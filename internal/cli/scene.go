package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/openpit/blastgrid/pkg/pipeline"
	"github.com/openpit/blastgrid/pkg/projector"
)

// sceneOpts holds the command-line flags for the scene command.
type sceneOpts struct {
	output  string
	formats string
	watch   bool
	noCache bool
	refresh bool
	pipeline.Options
}

// sceneCommand creates the scene command, which projects surveyed holes
// into 3D and writes a preview.
func (c *CLI) sceneCommand() *cobra.Command {
	var opts sceneOpts

	cmd := &cobra.Command{
		Use:   "scene [project]",
		Short: "Project surveyed holes into a 3D preview",
		Long: `Project the survey points (or the georeferenced pattern points) into a local
3D frame and write a perspective preview.

Holes without both azimuth and dip are drawn vertical. Points with a
non-positive easting, northing or elevation are skipped and counted.

With --watch the preview is rewritten whenever the project file changes,
until interrupted.`,
		Example: `  blastgrid scene bench-420.toml
  blastgrid scene bench-420.toml -f png,json --scene-width 1600 --scene-height 1200
  blastgrid scene bench-420.toml --watch`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.watch {
				return c.runSceneWatch(cmd.Context(), args[0], opts)
			}
			return c.runScene(cmd.Context(), args[0], opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (single format) or base path (multiple)")
	cmd.Flags().StringVarP(&opts.formats, "format", "f", "", "output format(s): png (default), json (comma-separated)")
	cmd.Flags().IntVar(&opts.SceneWidth, "scene-width", pipeline.DefaultSceneWidth, "preview width in pixels")
	cmd.Flags().IntVar(&opts.SceneHeight, "scene-height", pipeline.DefaultSceneHeight, "preview height in pixels")
	cmd.Flags().Float64Var(&opts.UnitScale, "unit-scale", 1, "scene units per meter")
	cmd.Flags().BoolVar(&opts.watch, "watch", false, "rewrite the preview when the project changes")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable the artifact cache")
	cmd.Flags().BoolVar(&opts.refresh, "refresh", false, "re-render even if cached")

	return cmd
}

func (c *CLI) runScene(ctx context.Context, path string, opts sceneOpts) error {
	p, err := c.loadProject(path)
	if err != nil {
		return err
	}
	opts.Formats = parseFormats(opts.formats, pipeline.FormatPNG)
	opts.Refresh = opts.refresh
	opts.Logger = c.Logger

	runner, err := c.newRunner(opts.noCache)
	if err != nil {
		return err
	}
	defer runner.Close()

	result, err := withSpinner(ctx, "Projecting scene...", func() (*pipeline.SceneResult, error) {
		return runner.RenderScene(ctx, p, opts.Options)
	})
	if err != nil {
		return err
	}

	multiple := len(opts.Formats) > 1
	for _, format := range opts.Formats {
		out := outputPath(opts.output, path, "-scene", "."+format, multiple)
		if err := os.WriteFile(out, result.Artifacts[format], 0o644); err != nil {
			return fmt.Errorf("write %s: %w", out, err)
		}
		printFile(out)
	}

	sc := result.Scene
	fallback := 0
	for _, h := range sc.Holes {
		if !h.Oriented {
			fallback++
		}
	}
	printStats(len(sc.Holes), 0, sc.SkippedCount(), result.CacheHit)
	if len(sc.Holes) == 0 {
		printWarning("no hole has usable coordinates; add survey points or set an origin")
	}
	if fallback > 0 {
		printDetail("%d hole(s) without survey angles drawn vertical", fallback)
	}
	return nil
}

// runSceneWatch re-projects the project whenever its file changes and
// redraws the preview from a frame loop.
func (c *CLI) runSceneWatch(ctx context.Context, path string, opts sceneOpts) error {
	if err := opts.ValidateForScene(); err != nil {
		return err
	}
	out := outputPath(opts.output, path, "-scene", ".png", false)

	var drawn *projector.Scene
	loop := projector.NewLoop(projector.DefaultFrameInterval, func(frame int64, s *projector.Scene) bool {
		if s == drawn {
			return false
		}
		drawn = s
		data, err := projector.RenderPNG(s, opts.SceneWidth, opts.SceneHeight)
		if err == nil {
			err = os.WriteFile(out, data, 0o644)
		}
		if err != nil {
			c.Logger.Error("preview not written", "err", err)
			return false
		}
		c.Logger.Info("preview updated", "frame", frame, "holes", len(s.Holes), "path", out)
		return true
	})
	loop.Start(ctx)
	defer loop.Stop()

	proj := projector.New(projector.WithLogger(c.Logger), projector.WithUnitScale(opts.UnitScale))
	reload := func() {
		p, err := c.loadProject(path)
		if err != nil {
			c.Logger.Warn("project not reloaded", "err", err)
			return
		}
		loop.Update(proj.Project(p.SurveyPoints()))
	}

	printInfo("Watching %s (Ctrl+C to stop)", path)
	if err := watchFile(ctx, path, c.Logger, reload); err != nil {
		return err
	}
	fmt.Println()
	printSuccess("Stopped after %d preview updates", loop.Frames())
	return nil
}
