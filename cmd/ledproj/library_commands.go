package main

import (
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"ledproj/internal/library"
	"ledproj/internal/textutil"
)

func newLibraryCommand(ctx *commandContext) *cobra.Command {
	libraryCmd := &cobra.Command{
		Use:   "library",
		Short: "Pattern library catalog",
	}

	libraryCmd.AddCommand(newLibraryListCommand(ctx))
	libraryCmd.AddCommand(newLibraryAddCommand(ctx))
	libraryCmd.AddCommand(newLibraryRemoveCommand(ctx))
	libraryCmd.AddCommand(newLibraryReindexCommand(ctx))

	return libraryCmd
}

func newLibraryListCommand(ctx *commandContext) *cobra.Command {
	var jsonOut bool
	var filter string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List cataloged patterns",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withLibrary(func(lib *library.Store) error {
				entries, err := lib.List(cmd.Context(), filter)
				if err != nil {
					return err
				}
				if jsonOut {
					if entries == nil {
						entries = []library.Entry{}
					}
					return writeJSON(cmd, entries)
				}
				if len(entries) == 0 {
					fmt.Fprintln(cmd.OutOrStdout(), "No patterns in the library")
					return nil
				}

				rows := make([][]string, 0, len(entries))
				for _, entry := range entries {
					rows = append(rows, []string{
						entry.ID,
						entry.Name,
						fmt.Sprintf("%dx%d", entry.Width, entry.Height),
						textutil.DisplayName(entry.LayoutType),
						strconv.Itoa(entry.FrameCount),
						entry.ModifiedAt.Local().Format(time.DateTime),
						entry.Path,
					})
				}
				fmt.Fprintln(cmd.OutOrStdout(), renderTable(
					[]string{"ID", "Name", "Matrix", "Layout", "Frames", "Modified", "Path"},
					rows,
					[]columnAlignment{alignLeft, alignLeft, alignLeft, alignLeft, alignRight, alignLeft, alignLeft},
				))
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&jsonOut, "json", false, "Emit JSON instead of a table")
	cmd.Flags().StringVar(&filter, "filter", "", "Only list patterns whose name contains this")
	return cmd
}

func newLibraryAddCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "add <file...>",
		Short: "Catalog one or more project files",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := ctx.projectStore()
			if err != nil {
				return err
			}
			return ctx.withLibrary(func(lib *library.Store) error {
				for _, path := range args {
					proj, err := store.Load(path)
					if err != nil {
						return err
					}
					entry := library.NewEntry(path, proj)
					if err := lib.Upsert(cmd.Context(), entry); err != nil {
						return err
					}
					fmt.Fprintf(cmd.OutOrStdout(), "Added %s (%s)\n", entry.Name, entry.ID)
				}
				return nil
			})
		},
	}
}

func newLibraryRemoveCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "remove <id>",
		Short: "Drop a pattern from the catalog",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withLibrary(func(lib *library.Store) error {
				if err := lib.Remove(cmd.Context(), args[0]); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Removed %s\n", args[0])
				return nil
			})
		},
	}
}

func newLibraryReindexCommand(ctx *commandContext) *cobra.Command {
	var dir string

	cmd := &cobra.Command{
		Use:   "reindex",
		Short: "Rebuild the catalog from the projects directory",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			root := dir
			if root == "" {
				root = cfg.Paths.ProjectsDir
			}

			store, err := ctx.projectStore()
			if err != nil {
				return err
			}
			load := func(path string) (library.Entry, error) {
				proj, err := store.Load(path)
				if err != nil {
					return library.Entry{}, err
				}
				return library.NewEntry(path, proj), nil
			}

			return ctx.withLibrary(func(lib *library.Store) error {
				indexed, err := lib.Reindex(cmd.Context(), root, load)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Indexed %d pattern(s) from %s\n", indexed, root)
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&dir, "dir", "", "Directory to scan (defaults to the projects directory)")
	return cmd
}
