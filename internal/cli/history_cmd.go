package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/haytac/emoji-scrub/internal/database"
)

// NewHistoryCmd creates the 'history' command and its subcommands.
func NewHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recorded clean runs",
	}
	cmd.AddCommand(newHistoryListCmd())
	return cmd
}

func newHistoryListCmd() *cobra.Command {
	var limit int
	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List recent runs, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := requireHistory()
			if err != nil {
				return err
			}
			defer db.Close()

			runs, err := database.NewRunStore(db).ListRuns(cmd.Context(), limit)
			if err != nil {
				return fmt.Errorf("failed to list runs: %w", err)
			}

			out := cmd.OutOrStdout()
			if len(runs) == 0 {
				fmt.Fprintln(out, "No runs recorded.")
				return nil
			}
			fmt.Fprintln(out, "Recorded runs:")
			for _, r := range runs {
				fmt.Fprintf(out, "ID: %d, Started: %s, Source: %s, Status: %s, Rows: %d, Emoji removed: %d, Input: %s, Output: %s, Took: %s\n",
					r.ID, r.StartedAt.Local().Format(time.DateTime), r.Source, r.Status, r.Rows, r.EmojiRemoved,
					r.InputPath, r.OutputPath, r.Duration().Round(time.Millisecond))
				if r.Error != nil {
					fmt.Fprintf(out, "    Error: %s\n", *r.Error)
				}
			}
			return nil
		},
	}
	listCmd.Flags().IntVarP(&limit, "limit", "n", 20, "maximum number of runs to show (0 for all)")
	return listCmd
}
