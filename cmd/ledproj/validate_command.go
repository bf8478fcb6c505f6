package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"ledproj/internal/convert"
	"ledproj/internal/mapping"
	"ledproj/internal/pattern"
	"ledproj/internal/project"
	"ledproj/internal/schema"
)

func newValidateCommand(ctx *commandContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate <file>",
		Short: "Validate a project or pattern document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]
			out := cmd.OutOrStdout()
			colorize := shouldColorize(out)

			data, err := os.ReadFile(path)
			if err != nil {
				return fmt.Errorf("read %s: %w", path, err)
			}
			var doc map[string]any
			if err := json.Unmarshal(data, &doc); err != nil {
				fmt.Fprintln(out, renderStatusLine("parse", statusError, err.Error(), colorize))
				return fmt.Errorf("%s is not valid JSON", path)
			}
			fmt.Fprintln(out, renderStatusLine("parse", statusOK, "", colorize))

			patternDoc := doc
			if isProjectFile(path) {
				if project.NeedsContainerMigration(doc) {
					version, ok := project.ContainerVersion(doc)
					if !ok {
						version = "legacy"
					}
					fmt.Fprintln(out, renderStatusLine("container", statusWarn,
						fmt.Sprintf("version %s needs migration to %s", version, project.CurrentVersion), colorize))
				} else {
					fmt.Fprintln(out, renderStatusLine("container", statusOK,
						"version "+project.CurrentVersion, colorize))
				}
				if inner, ok := doc["pattern"].(map[string]any); ok {
					patternDoc = inner
				} else if _, hasVersion := project.ContainerVersion(doc); hasVersion {
					fmt.Fprintln(out, renderStatusLine("pattern", statusError, "missing pattern block", colorize))
					return fmt.Errorf("%s has no pattern block", path)
				}
			}

			if schema.NeedsMigration(patternDoc) {
				version, ok := schema.DocVersion(patternDoc)
				if !ok {
					version = "legacy"
				}
				fmt.Fprintln(out, renderStatusLine("schema", statusWarn,
					fmt.Sprintf("version %s needs migration to %s", version, schema.Version), colorize))
				migrated, err := schema.Migrate(patternDoc, "")
				if err != nil {
					fmt.Fprintln(out, renderStatusLine("migration", statusError, err.Error(), colorize))
					return err
				}
				patternDoc = migrated
			}

			if err := schema.Validate(patternDoc); err != nil {
				fmt.Fprintln(out, renderStatusLine("schema", statusError, err.Error(), colorize))
				return fmt.Errorf("%s is invalid", path)
			}
			fmt.Fprintln(out, renderStatusLine("schema", statusOK, "version "+schema.Version, colorize))

			validateGeometry(cmd, patternDoc, colorize)
			return nil
		},
	}
	return cmd
}

// validateGeometry checks the mapping table for non-rectangular layouts.
// Problems are warnings since loading repairs them.
func validateGeometry(cmd *cobra.Command, doc map[string]any, colorize bool) {
	out := cmd.OutOrStdout()
	matrix, ok := doc["matrix"].(map[string]any)
	if !ok {
		return
	}
	layout, _ := matrix["layout_type"].(string)
	if layout == "" || layout == string(pattern.LayoutRectangular) || layout == string(pattern.LayoutIrregular) {
		return
	}

	meta := convert.MatrixMetadata(matrix)
	if err := mapping.ValidateTable(&meta); err != nil {
		fmt.Fprintln(out, renderStatusLine("mapping", statusWarn,
			err.Error()+" (regenerated on load)", colorize))
		return
	}
	fmt.Fprintln(out, renderStatusLine("mapping", statusOK,
		fmt.Sprintf("%d entries", len(meta.MappingTable)), colorize))
}
