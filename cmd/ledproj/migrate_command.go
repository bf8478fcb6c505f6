package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"ledproj/internal/project"
	"ledproj/internal/schema"
)

func newMigrateCommand(ctx *commandContext) *cobra.Command {
	var output string
	var check bool

	cmd := &cobra.Command{
		Use:   "migrate <file>",
		Short: "Upgrade a file to the current format versions",
		Long: `Migrate upgrades a .ledproj project (container and embedded pattern
document) or a bare pattern document (.json) to the current versions and
writes the result back. --check reports what would change without writing.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			input := args[0]
			out := cmd.OutOrStdout()

			if check {
				return reportMigration(cmd, input)
			}

			target := output
			if target == "" {
				target = input
			}

			switch {
			case isProjectFile(input):
				store, err := ctx.projectStore()
				if err != nil {
					return err
				}
				proj, err := store.Load(input)
				if err != nil {
					return err
				}
				path, err := store.Save(target, proj)
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "Migrated %s (project %s, schema %s)\n", path, project.CurrentVersion, schema.Version)
			case isDocumentFile(input):
				doc, err := readDocument(input)
				if err != nil {
					return err
				}
				if err := writeDocumentFile(target, doc); err != nil {
					return err
				}
				fmt.Fprintf(out, "Migrated %s (schema %s)\n", target, schema.Version)
			default:
				return fmt.Errorf("unsupported file type %q (want %s or .json)", input, project.FileExtension)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "Write the migrated file here instead of in place")
	cmd.Flags().BoolVar(&check, "check", false, "Report required migrations without writing")
	return cmd
}

func reportMigration(cmd *cobra.Command, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}
	var doc map[string]any
	if err := json.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}

	out := cmd.OutOrStdout()
	needsWork := false

	if isProjectFile(path) {
		version, ok := project.ContainerVersion(doc)
		label := version
		if !ok {
			label = "legacy"
		}
		if project.NeedsContainerMigration(doc) {
			needsWork = true
			fmt.Fprintf(out, "container: %s -> %s\n", label, project.CurrentVersion)
		} else {
			fmt.Fprintf(out, "container: %s (current)\n", label)
		}
		if inner, ok := doc["pattern"].(map[string]any); ok {
			doc = inner
		}
	}

	version, ok := schema.DocVersion(doc)
	label := version
	if !ok {
		label = "legacy"
	}
	if schema.NeedsMigration(doc) {
		needsWork = true
		fmt.Fprintf(out, "schema: %s -> %s\n", label, schema.Version)
	} else {
		fmt.Fprintf(out, "schema: %s (current)\n", label)
	}

	if !needsWork {
		fmt.Fprintln(out, "Up to date")
	}
	return nil
}
