package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"ledproj/internal/pattern"
	"ledproj/internal/project"
	"ledproj/internal/textutil"
)

type showPayload struct {
	Path          string   `json:"path"`
	ID            string   `json:"id"`
	Name          string   `json:"name"`
	Width         int      `json:"width"`
	Height        int      `json:"height"`
	LayoutType    string   `json:"layout_type"`
	WiringMode    string   `json:"wiring_mode"`
	ColorOrder    string   `json:"color_order"`
	FrameCount    int      `json:"frame_count"`
	TotalDuration int      `json:"total_duration_ms"`
	Tags          []string `json:"tags"`
	Version       string   `json:"project_version"`
}

func newShowCommand(ctx *commandContext) *cobra.Command {
	var jsonOut bool
	var withFrames bool

	cmd := &cobra.Command{
		Use:   "show <file>",
		Short: "Display a pattern project",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := ctx.projectStore()
			if err != nil {
				return err
			}
			proj, err := loadAny(store, args[0])
			if err != nil {
				return err
			}

			payload := summarize(args[0], proj)
			if jsonOut {
				return writeJSON(cmd, payload)
			}

			out := cmd.OutOrStdout()
			rows := [][]string{
				{"Name", payload.Name},
				{"ID", payload.ID},
				{"Matrix", fmt.Sprintf("%dx%d", payload.Width, payload.Height)},
				{"Layout", textutil.DisplayName(payload.LayoutType)},
				{"Wiring", payload.WiringMode},
				{"Color order", payload.ColorOrder},
				{"Frames", strconv.Itoa(payload.FrameCount)},
				{"Total duration", formatDurationMS(payload.TotalDuration)},
				{"Project version", payload.Version},
			}
			if len(payload.Tags) > 0 {
				rows = append(rows, []string{"Tags", strings.Join(payload.Tags, ", ")})
			}
			fmt.Fprintln(out, renderTable([]string{"Field", "Value"}, rows, nil))

			if withFrames {
				fmt.Fprintln(out, renderFrameTable(proj.Pattern))
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOut, "json", false, "Emit JSON instead of a table")
	cmd.Flags().BoolVar(&withFrames, "frames", false, "Include a per-frame listing")
	return cmd
}

func summarize(path string, proj *project.Project) showPayload {
	p := proj.Pattern
	total := 0
	for _, frame := range p.Frames {
		total += frame.DurationMS
	}
	return showPayload{
		Path:          path,
		ID:            p.ID,
		Name:          proj.Metadata.Name,
		Width:         p.Metadata.Width,
		Height:        p.Metadata.Height,
		LayoutType:    string(p.Metadata.LayoutType),
		WiringMode:    p.Metadata.WiringMode,
		ColorOrder:    p.Metadata.ColorOrder,
		FrameCount:    p.FrameCount(),
		TotalDuration: total,
		Tags:          proj.Metadata.Tags,
		Version:       proj.Metadata.ProjectVersion,
	}
}

func renderFrameTable(p *pattern.Pattern) string {
	rows := make([][]string, 0, len(p.Frames))
	for i, frame := range p.Frames {
		lit := 0
		for _, px := range frame.Pixels {
			if px != pattern.Black {
				lit++
			}
		}
		rows = append(rows, []string{
			strconv.Itoa(i),
			formatDurationMS(frame.DurationMS),
			strconv.Itoa(lit),
			strconv.Itoa(len(frame.Pixels)),
		})
	}
	return renderTable(
		[]string{"Frame", "Duration", "Lit", "Pixels"},
		rows,
		[]columnAlignment{alignRight, alignRight, alignRight, alignRight},
	)
}
