package cli

import (
	"fmt"
	"os"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/haytac/emoji-scrub/internal/cleaner"
	"github.com/haytac/emoji-scrub/internal/config"
	"github.com/haytac/emoji-scrub/internal/csvout"
	"github.com/haytac/emoji-scrub/internal/database"
	"github.com/haytac/emoji-scrub/internal/logging"
	"github.com/haytac/emoji-scrub/internal/metrics"
	"github.com/haytac/emoji-scrub/internal/pipeline"
	"github.com/haytac/emoji-scrub/internal/spreadsheet"
)

var (
	cfgFile  string
	dryRun   bool
	input    string
	output   string
	sheet    string
	closeLog = func() {}

	// AppCfg is populated in PersistentPreRunE.
	AppCfg *config.AppConfig
)

// NewRootCmd builds the command tree. The root command itself performs the
// clean run.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "emoji-scrub",
		Short: "Remove emoji from every text cell of a spreadsheet and save it as CSV.",
		Long: `emoji-scrub reads the first worksheet of an .xlsx workbook (Book1.xlsx by default),
removes emoji from every text cell and writes the table to a CSV file (no_emoji.csv by default).
Numbers, dates and booleans are written unchanged.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			loadedCfg, err := config.LoadConfig(cfgFile)
			if err != nil {
				return fmt.Errorf("error loading config: %w", err)
			}
			AppCfg = loadedCfg

			flags := cmd.Flags()
			if flags.Changed("input") {
				AppCfg.Input = input
			}
			if flags.Changed("output") {
				AppCfg.Output = output
			}
			if flags.Changed("sheet") {
				AppCfg.Sheet = sheet
			}
			if flags.Changed("dry-run") {
				AppCfg.DryRun = dryRun
			}

			closeLog = logging.Setup(AppCfg.Log)
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			closeLog()
		},
		RunE: runClean,
	}

	cmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./config.yaml, $HOME/.emoji-scrub/config.yaml)")
	cmd.PersistentFlags().BoolVar(&dryRun, "dry-run", false, "load and clean but do not write the output file")
	cmd.Flags().StringVarP(&input, "input", "i", config.DefaultInput, "spreadsheet to read")
	cmd.Flags().StringVarP(&output, "output", "o", config.DefaultOutput, "CSV file to write")
	cmd.Flags().StringVar(&sheet, "sheet", "", "worksheet to read (default: first sheet)")

	cmd.AddCommand(NewServeCmd())
	cmd.AddCommand(NewHistoryCmd())
	cmd.AddCommand(NewDbCmd())
	return cmd
}

// RootCmd is the command run by main.
var RootCmd = NewRootCmd()

// Execute runs the root command and exits non-zero on error.
func Execute() {
	if err := RootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func runClean(cmd *cobra.Command, args []string) error {
	if AppCfg == nil {
		return fmt.Errorf("configuration not loaded")
	}

	runner := &pipeline.Runner{
		Loader:   spreadsheet.FileLoader{Options: spreadsheet.Options{Sheet: AppCfg.Sheet}},
		Cleaner:  cleaner.New(nil, AppCfg.Clean),
		Writer:   csvout.FileWriter{Options: AppCfg.CSV},
		Progress: cmd.OutOrStdout(),
		Sheet:    AppCfg.Sheet,
		DryRun:   AppCfg.DryRun,
	}

	if db := openHistory(); db != nil {
		defer db.Close()
		runner.Recorder = database.NewRunStore(db)
	}

	_, err := runner.Run(cmd.Context(), AppCfg.Input, AppCfg.Output)

	if merr := metrics.WriteTextfile(AppCfg.MetricsTextfile); merr != nil {
		log.Warn().Err(merr).Str("path", AppCfg.MetricsTextfile).Msg("Failed to write metrics textfile")
	}
	return err
}

// openHistory connects to the run ledger when one is configured. A ledger
// that cannot be opened is logged and skipped; it never blocks a run.
func openHistory() *database.DB {
	if AppCfg.DatabasePath == "" {
		return nil
	}
	db, err := database.Connect(AppCfg.DatabasePath)
	if err != nil {
		log.Warn().Err(err).Str("path", AppCfg.DatabasePath).Msg("Run history unavailable")
		return nil
	}
	return db
}

// requireHistory connects to the run ledger or explains why it cannot.
func requireHistory() (*database.DB, error) {
	if AppCfg == nil {
		return nil, fmt.Errorf("configuration not loaded")
	}
	if AppCfg.DatabasePath == "" {
		return nil, fmt.Errorf("database_path is not configured (set it in config.yaml or EMOJI_SCRUB_DATABASE_PATH)")
	}
	db, err := database.Connect(AppCfg.DatabasePath)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	return db, nil
}
