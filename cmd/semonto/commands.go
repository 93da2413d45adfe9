package main

import (
	"context"
	"fmt"
	"io"
	"maps"
	"slices"
	"strings"

	"github.com/c360studio/semonto/config"
	"github.com/c360studio/semonto/export"
	"github.com/c360studio/semonto/manager"
	"github.com/c360studio/semonto/ontology"
	"github.com/spf13/cobra"
)

// withApp runs fn against a freshly loaded vocabulary. Overrides adjust the
// loaded configuration before anything is built from it.
func withApp(cmd *cobra.Command, opts *globalOptions, fn func(ctx context.Context, app *App) error, overrides ...func(*config.Config)) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	app, err := newApp(ctx, opts, overrides...)
	if err != nil {
		return err
	}
	defer app.Close()

	if _, _, err := app.loadSources(ctx); err != nil {
		return err
	}
	return fn(ctx, app)
}

func generateCmd(opts *globalOptions) *cobra.Command {
	var output, pkg string

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate Go code from the ontology sources",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, opts, func(ctx context.Context, app *App) error {
				target := app.cfg.Generate.Output
				if err := app.generate(cmd.OutOrStdout(), target); err != nil {
					return err
				}
				if target != "" {
					fmt.Fprintf(cmd.ErrOrStderr(), "Generated %s\n", target)
				}
				return nil
			}, func(cfg *config.Config) {
				if output != "" {
					cfg.Generate.Output = output
				}
				if pkg != "" {
					cfg.Generate.Package = pkg
				}
			})
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "Output file (default from config, else stdout)")
	cmd.Flags().StringVar(&pkg, "package", "", "Package name of the generated file")
	return cmd
}

func validateCmd(opts *globalOptions) *cobra.Command {
	var strict bool

	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Report parse logs, dependencies and label conflicts",
		Long: `Validate loads the sources, prints the log entries and dependency
statements of each source and lists labels shared by several entities.

It fails when labels conflict, since code generation would be refused.
With --strict it also fails on unfulfilled dependencies.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, opts, func(ctx context.Context, app *App) error {
				report, err := app.manager.Validate(app.cfg.Vocabulary)
				if err != nil {
					return err
				}
				printReport(cmd.OutOrStdout(), report)

				if !report.Valid {
					return fmt.Errorf("label conflicts: %s", strings.Join(conflictLabels(report), ", "))
				}
				if unfulfilled := report.Unfulfilled(); strict && len(unfulfilled) > 0 {
					return fmt.Errorf("%d unfulfilled dependencies", len(unfulfilled))
				}
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&strict, "strict", false, "Fail on unfulfilled dependencies")
	return cmd
}

func printReport(w io.Writer, r *manager.Report) {
	fmt.Fprintf(w, "Vocabulary: %s\n", r.Vocabulary)
	fmt.Fprintf(w, "  classes: %d, object properties: %d, data properties: %d, datatypes: %d, individuals: %d\n",
		r.Stats.Classes, r.Stats.ObjectProperties, r.Stats.DataProperties, r.Stats.Datatypes, r.Stats.Individuals)

	for _, src := range r.Sources {
		fmt.Fprintf(w, "\nSource %s (%s)\n", src.Name, src.ID)
		for _, entry := range src.Log {
			fmt.Fprintf(w, "  %s\n", entry)
		}
		for _, d := range src.Dependencies {
			state := "unfulfilled"
			if d.Fulfilled {
				state = "fulfilled"
			}
			fmt.Fprintf(w, "  depends on %s (%s of %s): %s\n", d.Dependency, d.Type, d.Owner, state)
		}
	}

	if r.HasConflicts() {
		fmt.Fprintln(w, "\nLabel conflicts:")
		for _, ns := range slices.Sorted(maps.Keys(r.Conflicts)) {
			labels := r.Conflicts[ns]
			for _, label := range slices.Sorted(maps.Keys(labels)) {
				fmt.Fprintf(w, "  [%s] %s: %s\n", ns, label, strings.Join(labels[label], ", "))
			}
		}
	}

	fmt.Fprintf(w, "\n%d critical, %d warnings, %d unfulfilled dependencies, valid: %t\n",
		r.CountLog(ontology.LogCritical), r.CountLog(ontology.LogWarning), len(r.Unfulfilled()), r.Valid)
}

func conflictLabels(r *manager.Report) []string {
	var out []string
	for _, labels := range r.Conflicts {
		for label := range labels {
			if !slices.Contains(out, label) {
				out = append(out, label)
			}
		}
	}
	slices.Sort(out)
	return out
}

func exportCmd(opts *globalOptions) *cobra.Command {
	var format, profile, output string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export the resolved vocabulary as RDF",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, opts, func(ctx context.Context, app *App) error {
				if format == "" {
					format = app.cfg.Export.Format
				}
				if profile == "" {
					profile = app.cfg.Export.Profile
				}
				if output == "" {
					output = app.cfg.Export.Output
				}

				f, err := export.ParseFormat(format)
				if err != nil {
					return err
				}
				p, err := export.ParseProfile(profile)
				if err != nil {
					return err
				}

				write := func(w io.Writer) error {
					return app.manager.Export(app.cfg.Vocabulary, f, p, w)
				}
				if output == "" {
					return write(cmd.OutOrStdout())
				}
				if err := writeFileAtomic(output, write); err != nil {
					return err
				}
				fmt.Fprintf(cmd.ErrOrStderr(), "Exported %s\n", output)
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "", "Export format (turtle, ntriples, jsonld)")
	cmd.Flags().StringVarP(&profile, "profile", "p", "", "Export profile (minimal, resolved, full)")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Output file (default from config, else stdout)")
	return cmd
}

func settingsCmd(opts *globalOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "settings",
		Short: "Change user settings that survive rebuilds",
	}

	toggle := func(use, short string, set func(*manager.Manager, context.Context, string, string, bool) error) *cobra.Command {
		var off bool
		c := &cobra.Command{
			Use:   use + " <iri-or-id>",
			Short: short,
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return withApp(cmd, opts, func(ctx context.Context, app *App) error {
					if err := set(app.manager, ctx, app.cfg.Vocabulary, args[0], !off); err != nil {
						return err
					}
					fmt.Fprintf(cmd.OutOrStdout(), "%s %s: %t\n", use, args[0], !off)
					return nil
				})
			},
		}
		c.Flags().BoolVar(&off, "off", false, "Clear the flag instead of setting it")
		return c
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "set-label <iri> [label]",
			Short: "Override the label of an entity (omit the label to reset it)",
			Args:  cobra.RangeArgs(1, 2),
			RunE: func(cmd *cobra.Command, args []string) error {
				label := ""
				if len(args) == 2 {
					label = args[1]
				}
				return withApp(cmd, opts, func(ctx context.Context, app *App) error {
					if err := app.manager.SetLabel(ctx, app.cfg.Vocabulary, args[0], label); err != nil {
						return err
					}
					fmt.Fprintf(cmd.OutOrStdout(), "set-label %s: %q\n", args[0], label)
					return nil
				})
			},
		},
		&cobra.Command{
			Use:   "set-field-type <iri> <simple|command|device_attribute>",
			Short: "Classify a data property",
			Args:  cobra.ExactArgs(2),
			RunE: func(cmd *cobra.Command, args []string) error {
				ft, err := ontology.ParseDataFieldType(args[1])
				if err != nil {
					return err
				}
				return withApp(cmd, opts, func(ctx context.Context, app *App) error {
					if err := app.manager.SetFieldType(ctx, app.cfg.Vocabulary, args[0], ft); err != nil {
						return err
					}
					fmt.Fprintf(cmd.OutOrStdout(), "set-field-type %s: %s\n", args[0], ft)
					return nil
				})
			},
		},
		toggle("set-device", "Mark a class as a device class", (*manager.Manager).SetDevice),
		toggle("set-agent", "Mark a class as an agent class", (*manager.Manager).SetAgent),
		toggle("set-key-information", "Mark a combined relation as key information", (*manager.Manager).SetKeyInformation),
		toggle("set-inspect", "Mark a combined relation for inspection", (*manager.Manager).SetInspect),
	)
	return cmd
}

func initCmd(opts *globalOptions) *cobra.Command {
	var vocabulary string
	var user bool

	cmd := &cobra.Command{
		Use:   "init [dir]",
		Short: "Write a default semonto.yaml",
		Long: `Init writes a project config with default settings into dir (default:
the working directory). With --user it creates the user config instead.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			loader := config.NewLoader(newLogger(opts.logLevel))
			if user {
				path, err := loader.EnsureUserConfig()
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "User config: %s\n", path)
				return nil
			}

			dir := "."
			if len(args) == 1 {
				dir = args[0]
			}
			path, err := loader.InitProject(dir, vocabulary)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created %s\n", path)
			return nil
		},
	}

	cmd.Flags().StringVar(&vocabulary, "vocabulary", "", "Vocabulary name (also derives the package name)")
	cmd.Flags().BoolVar(&user, "user", false, "Create the user config instead of a project config")
	return cmd
}
