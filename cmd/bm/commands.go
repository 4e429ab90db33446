package main

import (
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/nikbrunner/bm/internal/exporter"
	"github.com/nikbrunner/bm/internal/importer"
	"github.com/nikbrunner/bm/internal/logging"
	"github.com/nikbrunner/bm/internal/model"
	"github.com/nikbrunner/bm/internal/picker"
	"github.com/nikbrunner/bm/internal/search"
	"github.com/spf13/cobra"
)

// withEnv opens storage, runs fn and closes storage again.
func withEnv(opts *options, fn func(e *env) error) error {
	e, err := openEnv(opts)
	if err != nil {
		return err
	}
	defer e.Close()
	return fn(e)
}

func printSets(w io.Writer, list []model.BookmarkSet) {
	for _, s := range list {
		mark := " "
		if s.IsActive {
			mark = "*"
		}
		fmt.Fprintf(w, "%s %s  (%s)\n", mark, s.Name, s.ID)
	}
}

// resolveSet turns a query into one set. Ambiguous queries open the
// picker on a terminal and fail otherwise. A nil set with a nil error
// means the user cancelled the picker.
func resolveSet(list []model.BookmarkSet, query, action string) (*model.BookmarkSet, error) {
	results := search.Resolve(list, query)
	switch len(results) {
	case 0:
		return nil, fmt.Errorf("no set matches %q", query)
	case 1:
		s := results[0].Set
		return &s, nil
	}

	if !interactive() {
		names := make([]string, len(results))
		for i, r := range results {
			names[i] = r.Set.Name
		}
		return nil, fmt.Errorf("%q matches several sets: %s", query, strings.Join(names, ", "))
	}

	program := tea.NewProgram(picker.New(results, query, action))
	finalModel, err := program.Run()
	if err != nil {
		return nil, fmt.Errorf("running picker: %w", err)
	}
	p := finalModel.(picker.Picker)
	if p.Cancelled() {
		return nil, nil
	}
	return p.SelectedSet(), nil
}

func newListCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List bookmark sets, * marks the active one",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withEnv(opts, func(e *env) error {
				list, err := e.manager.List(cmd.Context())
				if err != nil {
					return err
				}
				printSets(cmd.OutOrStdout(), list)
				return nil
			})
		},
	}
}

func newCreateCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "create <name...>",
		Short: "Create an empty bookmark set",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := strings.Join(args, " ")
			return withEnv(opts, func(e *env) error {
				if _, err := e.manager.Create(cmd.Context(), name); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Created %q\n", strings.TrimSpace(name))
				return nil
			})
		},
	}
}

func newSwitchCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "switch <query>",
		Short: "Swap a set into the bookmark bar",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			query := strings.Join(args, " ")
			return withEnv(opts, func(e *env) error {
				ctx := cmd.Context()
				list, err := e.manager.List(ctx)
				if err != nil {
					return err
				}
				target, err := resolveSet(list, query, "switch")
				if err != nil || target == nil {
					return err
				}
				if _, err := e.manager.Switch(ctx, target.ID); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Switched to %q\n", target.Name)
				return nil
			})
		},
	}
}

func newDeleteCmd(opts *options) *cobra.Command {
	var mergeInto string

	cmd := &cobra.Command{
		Use:   "delete <query>",
		Short: "Delete a set, optionally merging its bookmarks into another",
		Long: `Delete a set. Without --merge-into its bookmarks are deleted too.

Deleting the last set leaves its bookmarks in the bookmark bar.`,
		Aliases: []string{"rm"},
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			query := strings.Join(args, " ")
			return withEnv(opts, func(e *env) error {
				ctx := cmd.Context()
				list, err := e.manager.List(ctx)
				if err != nil {
					return err
				}
				set, err := resolveSet(list, query, "delete")
				if err != nil || set == nil {
					return err
				}

				var target *model.BookmarkSet
				if mergeInto != "" {
					target, err = resolveSet(list, mergeInto, "merge into")
					if err != nil || target == nil {
						return err
					}
				}

				targetID := ""
				if target != nil {
					targetID = target.ID
				}
				if _, err := e.manager.Delete(ctx, set.ID, targetID); err != nil {
					return err
				}

				out := cmd.OutOrStdout()
				switch {
				case len(list) == 1:
					fmt.Fprintf(out, "Deleted %q, its bookmarks stay in the bookmark bar\n", set.Name)
				case target != nil:
					fmt.Fprintf(out, "Deleted %q, bookmarks merged into %q\n", set.Name, target.Name)
				default:
					fmt.Fprintf(out, "Deleted %q\n", set.Name)
				}
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&mergeInto, "merge-into", "", "Set that receives the deleted set's bookmarks")
	return cmd
}

func newRenameCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "rename <query> <name...>",
		Short: "Rename a set",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			query, name := args[0], strings.Join(args[1:], " ")
			return withEnv(opts, func(e *env) error {
				ctx := cmd.Context()
				list, err := e.manager.List(ctx)
				if err != nil {
					return err
				}
				set, err := resolveSet(list, query, "rename")
				if err != nil || set == nil {
					return err
				}
				if _, err := e.manager.Rename(ctx, set.ID, name); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Renamed %q to %q\n", set.Name, strings.TrimSpace(name))
				return nil
			})
		},
	}
}

func newImportCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "import <file.html>",
		Short: "Import Netscape HTML bookmarks into the bookmark bar",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			file, err := os.Open(args[0])
			if err != nil {
				return fmt.Errorf("opening file: %w", err)
			}
			defer file.Close()

			nodes, err := importer.ParseHTMLBookmarks(file)
			if err != nil {
				return fmt.Errorf("parsing HTML: %w", err)
			}

			folders := 0
			for _, n := range nodes {
				if n.IsFolder() {
					folders++
				}
			}

			return withEnv(opts, func(e *env) error {
				added, skipped, err := e.tree.Import(model.BarID, nodes)
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "Imported %d bookmarks, %d folders", added, folders)
				if skipped > 0 {
					fmt.Fprintf(out, " (%d duplicates skipped)", skipped)
				}
				fmt.Fprintln(out)
				return nil
			})
		},
	}
}

func newExportCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "export [path]",
		Short: "Export every set to Netscape HTML",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var outputPath string
			if len(args) == 1 {
				outputPath = args[0]
			} else {
				var err error
				outputPath, err = exporter.DefaultExportPath()
				if err != nil {
					return fmt.Errorf("getting default export path: %w", err)
				}
			}

			return withEnv(opts, func(e *env) error {
				list, err := e.manager.List(cmd.Context())
				if err != nil {
					return err
				}
				html := exporter.ExportSets(e.tree.Snapshot(), list, model.BarID)
				if err := os.WriteFile(outputPath, []byte(html), 0644); err != nil {
					return fmt.Errorf("writing file: %w", err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Exported %d sets to %s\n", len(list), outputPath)
				return nil
			})
		},
	}
}

func newServeCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Answer set commands as a native messaging host on stdin/stdout",
		// Browsers append the caller's origin to the host command line.
		Args: cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			return withEnv(opts, func(e *env) error {
				logger := logging.For("serve")
				done := logging.LogOperationStart(logger, "serve")
				defer done()

				return e.router.Serve(ctx, cmd.InOrStdin(), cmd.OutOrStdout())
			})
		},
	}
}
