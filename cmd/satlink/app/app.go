package app

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"text/tabwriter"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/roman-kulish/satlink-analyzer/internal/analysis"
	"github.com/roman-kulish/satlink-analyzer/internal/ingest"
	"github.com/roman-kulish/satlink-analyzer/internal/report"
	"github.com/roman-kulish/satlink-analyzer/internal/storage"
)

// App holds the state shared by all commands.
type App struct {
	logger   *slog.Logger
	logLevel *slog.LevelVar

	configPath string
	levelFlag  string
	config     *Config
}

// NewRootCommand builds the satlink command tree. The log level of logger is
// controlled through logLevel once the configuration is loaded.
func NewRootCommand(logger *slog.Logger, logLevel *slog.LevelVar) *cobra.Command {
	a := &App{logger: logger, logLevel: logLevel}

	root := &cobra.Command{
		Use:   "satlink",
		Short: "Characterize satellite downlink signals in spectrum analyzer traces",
		Long: `satlink reads a spectrum analyzer trace, estimates the noise floor, detects
signals above it, extracts their features, attributes them to satellites by
frequency, flags weak signals as interference and estimates channel attenuation
and propagation delay.

Examples:
  satlink analyze capture.csv
  satlink analyze capture.csv --column "11:29:31 p. m. 27/09/2024.2" --store
  satlink analyze trace.csv --plain --plot local.png --view local
  satlink runs
  satlink plot 0b6f3c1e-7c55-4b0a-a1a8-6a0f5f0f8a10 -o run.png`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.loadConfig,
	}

	root.PersistentFlags().StringVarP(&a.configPath, "config", "c", "", "path to the configuration file")
	root.PersistentFlags().StringVar(&a.levelFlag, "log-level", "", "log level (debug, info, warn, error); overrides the configuration")

	root.AddCommand(
		a.analyzeCommand(),
		a.columnsCommand(),
		a.runsCommand(),
		a.showCommand(),
		a.plotCommand(),
	)

	return root
}

func (a *App) loadConfig(cmd *cobra.Command, _ []string) error {
	config, err := LoadConfig(a.configPath)
	if err != nil {
		return fmt.Errorf("failed to load configuration file: %w", err)
	}
	if a.levelFlag != "" {
		config.Settings.LogLevel = a.levelFlag
	}

	level, err := config.Settings.Level()
	if err != nil {
		return err
	}
	a.logLevel.Set(level)

	a.config = config
	return nil
}

func (a *App) analyzeCommand() *cobra.Command {
	var (
		in       Input
		store    bool
		asJSON   bool
		plotPath string
		view     string
		xlsxPath string
	)

	cmd := &cobra.Command{
		Use:   "analyze FILE",
		Short: "Analyze a trace file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) (err error) {
			in.Path = args[0]

			var options []func(*Pipeline)
			if store {
				var s *storage.SqliteStore
				if s, err = openStore(a.config.Storage); err != nil {
					return err
				}
				defer closeWithError(s, &err)

				options = append(options, WithStore(s))
			}

			pipeline, err := NewPipeline(a.config.Analysis, a.logger, options...)
			if err != nil {
				return err
			}

			result, err := pipeline.Analyze(cmd.Context(), in)
			if err != nil {
				return err
			}

			if err = writeResult(cmd.OutOrStdout(), result, asJSON); err != nil {
				return err
			}
			if plotPath != "" {
				if err = plotResult(result, a.config.Render, view, plotPath, a.logger); err != nil {
					return fmt.Errorf("plotting: %w", err)
				}
			}
			if xlsxPath != "" {
				if err = exportXLSX(result, xlsxPath, a.logger); err != nil {
					return fmt.Errorf("exporting workbook: %w", err)
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&in.Column, "column", "", "capture column of the instrument file (default: first capture)")
	cmd.Flags().BoolVar(&in.Plain, "plain", false, "read a two-column frequency/magnitude CSV")
	cmd.Flags().BoolVar(&store, "store", false, "persist the run in the database")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the result as JSON")
	cmd.Flags().StringVar(&plotPath, "plot", "", "render the spectrum into this image file")
	cmd.Flags().StringVar(&view, "view", "", "plot view (global, local, interference)")
	cmd.Flags().StringVar(&xlsxPath, "xlsx", "", "export the tables into this workbook")

	return cmd
}

func (a *App) columnsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "columns FILE",
		Short: "List the capture columns of an instrument file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := ingest.Open(args[0])
			if err != nil {
				return err
			}
			for _, column := range doc.Columns() {
				if _, err = fmt.Fprintln(cmd.OutOrStdout(), column); err != nil {
					return err
				}
			}
			return nil
		},
	}
}

func (a *App) runsCommand() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "runs",
		Short: "List stored runs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) (err error) {
			store, err := openStore(a.config.Storage)
			if err != nil {
				return err
			}
			defer closeWithError(store, &err)

			runs, err := store.Runs(cmd.Context())
			if err != nil {
				return err
			}

			if asJSON {
				if runs == nil {
					runs = []*storage.RunSummary{}
				}
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(runs)
			}
			return writeRuns(cmd.OutOrStdout(), runs)
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print the runs as JSON")
	return cmd
}

func (a *App) showCommand() *cobra.Command {
	var (
		asJSON   bool
		xlsxPath string
	)

	cmd := &cobra.Command{
		Use:   "show RUN_ID",
		Short: "Print a stored run",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) (err error) {
			store, err := openStore(a.config.Storage)
			if err != nil {
				return err
			}
			defer closeWithError(store, &err)

			result, err := store.Run(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			if err = writeResult(cmd.OutOrStdout(), result, asJSON); err != nil {
				return err
			}
			if xlsxPath != "" {
				return exportXLSX(result, xlsxPath, a.logger)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print the result as JSON")
	cmd.Flags().StringVar(&xlsxPath, "xlsx", "", "export the tables into this workbook")
	return cmd
}

func (a *App) plotCommand() *cobra.Command {
	var (
		output string
		view   string
	)

	cmd := &cobra.Command{
		Use:   "plot RUN_ID",
		Short: "Render a stored run",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) (err error) {
			store, err := openStore(a.config.Storage)
			if err != nil {
				return err
			}
			defer closeWithError(store, &err)

			result, err := store.Run(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return plotResult(result, a.config.Render, view, output, a.logger)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "path to the output image")
	cmd.Flags().StringVar(&view, "view", "", "plot view (global, local, interference)")
	_ = cmd.MarkFlagRequired("output")
	return cmd
}

func writeResult(w io.Writer, result *analysis.Result, asJSON bool) error {
	if asJSON {
		return report.WriteJSON(w, result)
	}
	return report.WriteTable(w, result)
}

func writeRuns(w io.Writer, runs []*storage.RunSummary) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tCREATED\tSOURCE\tSTATUS\tSAMPLES\tSIGNALS\tINTERFERENCE")
	for _, r := range runs {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%d\t%d\n",
			r.ID,
			humanize.Time(r.CreatedAt),
			r.Source,
			r.Status,
			humanize.Comma(int64(r.Samples)),
			r.Signals,
			r.Interference,
		)
	}
	return tw.Flush()
}

func closeWithError(cl interface{ Close() error }, err *error) {
	if cErr := cl.Close(); cErr != nil && *err == nil {
		*err = cErr
	}
}
