package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/stackcraft/stackcraft"
)

func (c *cli) newBuildCmd() *cobra.Command {
	var (
		outDir string
		date   string
		clean  bool
	)
	cmd := &cobra.Command{
		Use:   "build",
		Short: "Prerender the site and generate sitemap.xml and rss.xml",
		Long: `The build command renders every indexable page and every post through
the site's own handlers into the output directory, copies the static assets,
writes the search index, and finally generates sitemap.xml, rss.xml and the
feed icon.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if outDir == "" {
				outDir = c.cfg.OutputDir
			}
			return c.runBuild(outDir, date, clean)
		},
	}
	cmd.Flags().StringVarP(&outDir, "out", "o", "", "output directory (default is output_dir from config)")
	cmd.Flags().StringVar(&date, "date", "", "build date as YYYY-MM-DD or RFC 3339, for reproducible output")
	cmd.Flags().BoolVar(&clean, "clean", true, "remove the output directory before building")
	return cmd
}

func (c *cli) runBuild(outDir, date string, clean bool) error {
	reg, err := c.loadContent()
	if err != nil {
		return fmt.Errorf("load content: %w", err)
	}

	opts := []stackcraft.Option{stackcraft.WithLogger(c.logger)}
	if date != "" {
		at, err := parseBuildDate(date)
		if err != nil {
			return err
		}
		opts = append(opts, stackcraft.WithClock(func() time.Time { return at }))
	}

	if clean {
		if err := cleanDir(outDir); err != nil {
			return err
		}
	}
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return fmt.Errorf("create output directory %s: %w", outDir, err)
	}

	app := stackcraft.New(c.cfg, reg, opts...)
	defer app.Close()

	res, err := app.Export(outDir)
	if err != nil {
		return err
	}
	app.Generator(outDir).Generate()

	c.logger.Info("build complete", "dir", outDir, "pages", res.Pages, "assets", res.Assets, "posts", len(reg.Posts))
	return nil
}

func parseBuildDate(s string) (time.Time, error) {
	for _, layout := range []string{time.RFC3339, time.DateOnly} {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("build date %q: want YYYY-MM-DD or RFC 3339", s)
}

// cleanDir removes dir, refusing paths that would take the working tree
// or the filesystem root with it.
func cleanDir(dir string) error {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return fmt.Errorf("resolve %s: %w", dir, err)
	}
	wd, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("working directory: %w", err)
	}
	if abs == wd || abs == filepath.Dir(abs) || !isWithin(wd, abs) {
		return fmt.Errorf("refusing to clean %s: not a subdirectory of %s (use --clean=false)", abs, wd)
	}
	if err := os.RemoveAll(abs); err != nil {
		return fmt.Errorf("clean %s: %w", abs, err)
	}
	return nil
}

func isWithin(parent, child string) bool {
	rel, err := filepath.Rel(parent, child)
	return err == nil && rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}
