package main

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"ledproj/internal/library"
	"ledproj/internal/pattern"
	"ledproj/internal/project"
	"ledproj/internal/textutil"
)

func newNewCommand(ctx *commandContext) *cobra.Command {
	var (
		width   int
		height  int
		frames  int
		color   string
		rainbow bool
		output  string
	)

	cmd := &cobra.Command{
		Use:   "new <name>",
		Short: "Create a pattern project",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			name := strings.TrimSpace(args[0])
			if name == "" {
				return fmt.Errorf("name must not be empty")
			}

			var p *pattern.Pattern
			if rainbow {
				p = pattern.Rainbow(width*height, frames)
				p.Name = name
				p.Metadata.Width = width
				p.Metadata.Height = height
			} else {
				px, err := parseHexColor(color)
				if err != nil {
					return err
				}
				p = pattern.Solid(width*height, px, cfg.Serialization.DefaultFrameDurationMS, name)
				p.Metadata.Width = width
				p.Metadata.Height = height
			}
			p.Metadata.ColorOrder = cfg.Serialization.DefaultColorOrder

			target := output
			if target == "" {
				target = filepath.Join(cfg.Paths.ProjectsDir, textutil.Slug(name)+project.FileExtension)
			}

			store, err := ctx.projectStore()
			if err != nil {
				return err
			}
			path, err := store.Save(target, project.New(name, p))
			if err != nil {
				return err
			}

			proj, err := store.Load(path)
			if err != nil {
				return err
			}
			if err := ctx.withLibrary(func(lib *library.Store) error {
				return lib.Upsert(cmd.Context(), library.NewEntry(path, proj))
			}); err != nil {
				return fmt.Errorf("catalog new pattern: %w", err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Created %s (%dx%d, %d frame(s))\n",
				path, width, height, p.FrameCount())
			return nil
		},
	}

	cmd.Flags().IntVar(&width, "width", 16, "Matrix width")
	cmd.Flags().IntVar(&height, "height", 16, "Matrix height")
	cmd.Flags().IntVar(&frames, "frames", 8, "Frame count for generated animations")
	cmd.Flags().StringVar(&color, "color", "#000000", "Fill color for static patterns (RRGGBB)")
	cmd.Flags().BoolVar(&rainbow, "rainbow", false, "Generate a cycling rainbow instead of a static fill")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Destination path (defaults to the projects directory)")
	return cmd
}
