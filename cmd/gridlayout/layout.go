package main

import (
	"context"
	"fmt"
	"io"
	"runtime"
	"strings"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	pr "github.com/benoitkugler/gridlayout/css/properties"
	bo "github.com/benoitkugler/gridlayout/html/boxes"
	"github.com/benoitkugler/gridlayout/html/layout"
	"github.com/benoitkugler/gridlayout/html/tree"
	"github.com/benoitkugler/gridlayout/logger"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// boxGeometry is the output for one box: its border box, relative
// to the border box of its parent, and the lines of grid containers.
type boxGeometry struct {
	Tag      string        `json:"tag"`
	ID       string        `json:"id,omitempty"`
	X        bo.Fl         `json:"x"`
	Y        bo.Fl         `json:"y"`
	Width    bo.Fl         `json:"width"`
	Height   bo.Fl         `json:"height"`
	Columns  []bo.Fl       `json:"columns,omitempty"`
	Rows     []bo.Fl       `json:"rows,omitempty"`
	Children []boxGeometry `json:"children,omitempty"`
}

type fileResult struct {
	File string      `json:"file"`
	Root boxGeometry `json:"root"`
}

func newLayoutCmd(v *viper.Viper) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "layout [files...]",
		Short: "Lay out HTML fixtures and print the geometry of their boxes",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(v)
			if err != nil {
				return err
			}
			if cfg.Output != "json" && cfg.Output != "text" {
				return fmt.Errorf("unknown output format %q", cfg.Output)
			}
			results, err := layoutFiles(cmd.Context(), cfg, args)
			if err != nil {
				return err
			}
			return writeResults(cmd.OutOrStdout(), cfg.Output, results)
		},
	}

	f := cmd.Flags()
	f.Float64("width", 800, "viewport width, in pixels")
	f.Float64("height", 0, "viewport height, in pixels (0 for an auto height)")
	f.StringP("output", "o", "json", "output format: json or text")
	f.IntP("jobs", "j", runtime.NumCPU(), "number of files laid out in parallel")
	f.Int("max-lines", layout.MaxLines, "maximum number of tracks of a grid, in each direction")
	bindFlags(v, f, map[string]string{
		"viewport.width":  "width",
		"viewport.height": "height",
		"output":          "output",
		"jobs":            "jobs",
		"max_lines":       "max-lines",
	})
	return cmd
}

// layoutFiles loads and lays out each file, in parallel.
// The results are in the order of files.
func layoutFiles(ctx context.Context, cfg config, files []string) ([]fileResult, error) {
	if cfg.MaxLines > 0 {
		layout.MaxLines = cfg.MaxLines
	}
	height := pr.AutoF
	if cfg.Viewport.Height > 0 {
		height = pr.F(cfg.Viewport.Height)
	}

	results := make([]fileResult, len(files))
	g, ctx := errgroup.WithContext(ctx)
	if cfg.Jobs > 0 {
		g.SetLimit(cfg.Jobs)
	}
	for i, file := range files {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			start := time.Now()
			t, err := tree.LoadFile(file, cfg.Metrics)
			if err != nil {
				return err
			}
			if err := layout.Layout(t, cfg.Viewport.Width, height); err != nil {
				return fmt.Errorf("%s: %w", file, err)
			}
			results[i] = fileResult{File: file, Root: snapshot(t, t.Root())}
			logger.L().Info("fixture laid out",
				zap.String("file", file),
				zap.Int("boxes", len(t.Boxes)),
				zap.Duration("elapsed", time.Since(start)))
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

func snapshot(t *bo.Tree, id bo.ItemID) boxGeometry {
	box := t.Box(id)
	out := boxGeometry{
		Tag:    box.ElementTag,
		ID:     box.ElementID,
		X:      box.PositionX,
		Y:      box.PositionY,
		Width:  box.Width,
		Height: box.Height,
	}
	if box.Grid != nil {
		out.Columns, out.Rows = box.Grid.ColumnPositions, box.Grid.RowPositions
	}
	for _, child := range t.InFlowChildren(id) {
		out.Children = append(out.Children, snapshot(t, child))
	}
	return out
}

func writeResults(w io.Writer, format string, results []fileResult) error {
	if format == "json" {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(results)
	}
	for _, result := range results {
		if _, err := fmt.Fprintln(w, result.File); err != nil {
			return err
		}
		if err := writeText(w, result.Root, 1); err != nil {
			return err
		}
	}
	return nil
}

func writeText(w io.Writer, box boxGeometry, depth int) error {
	name := box.Tag
	if box.ID != "" {
		name += "#" + box.ID
	}
	line := fmt.Sprintf("%s%s (%g, %g) %gx%g", strings.Repeat("  ", depth), name, box.X, box.Y, box.Width, box.Height)
	if box.Columns != nil {
		line += fmt.Sprintf(" columns=%g rows=%g", box.Columns, box.Rows)
	}
	if _, err := fmt.Fprintln(w, line); err != nil {
		return err
	}
	for _, child := range box.Children {
		if err := writeText(w, child, depth+1); err != nil {
			return err
		}
	}
	return nil
}
