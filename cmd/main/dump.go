package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

// newDumpCmd returns the command printing a trained frequency table.
func (a *app) newDumpCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dump <windowLength> <corpusPath>",
		Short: "Train on a corpus and print the frequency table",
		Long: `Prints one line per window with every following character, its count, ` +
			`its probability and its cumulative probability, followed by table statistics.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			windowLength, err := parseWindowLength(args[0])
			if err != nil {
				return err
			}
			cmd.SilenceUsage = true
			useDB, _ := cmd.Flags().GetBool("db")

			model, err := a.newModel(windowLength, "")
			if err != nil {
				return err
			}
			src, release, err := a.openSource(args[1], useDB)
			if err != nil {
				return err
			}
			defer release()

			if err = a.trainFromSource(cmd.Context(), model, src); err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			_, _ = fmt.Fprint(out, model.String())
			stats := model.Stats()
			_, _ = fmt.Fprintf(out, "windows=%d transitions=%d total_frequency=%d distinct_chars=%d\n",
				stats.Windows, stats.Transitions, stats.TotalFrequency, stats.DistinctChars)
			return nil
		},
	}
	cmd.Flags().Bool("db", false, "treat corpusPath as a SQLite corpus database instead of a text file")
	return cmd
}
