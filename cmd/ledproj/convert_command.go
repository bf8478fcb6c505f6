package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"ledproj/internal/convert"
	"ledproj/internal/project"
)

func newConvertCommand(ctx *commandContext) *cobra.Command {
	var useRLE bool
	var useRaw bool

	cmd := &cobra.Command{
		Use:   "convert <input> <output>",
		Short: "Convert between project files and pattern documents",
		Long: `Convert reads a .ledproj project or a pattern document (.json) and writes
the other representation. Converting between two files of the same type
re-encodes the pixel payloads, which is how a project is switched between
run-length and raw encoding.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			if useRLE && useRaw {
				return fmt.Errorf("--rle and --raw are mutually exclusive")
			}
			compress := cfg.Serialization.UseRLE
			if useRLE {
				compress = true
			}
			if useRaw {
				compress = false
			}

			input, output := args[0], args[1]
			store := project.NewStore(ctx.ensureLogger(), compress)

			proj, err := loadAny(store, input)
			if err != nil {
				return err
			}

			switch {
			case isProjectFile(output):
				path, err := store.Save(output, proj)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", path)
			case isDocumentFile(output):
				doc, err := convert.ToDocument(proj.Pattern, compress)
				if err != nil {
					return err
				}
				if err := writeDocumentFile(output, doc); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", output)
			default:
				return fmt.Errorf("unsupported output type %q (want %s or .json)", output, project.FileExtension)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&useRLE, "rle", false, "Run-length compress pixel payloads")
	cmd.Flags().BoolVar(&useRaw, "raw", false, "Store pixel payloads as raw triples")
	return cmd
}
