package main

import (
	"fmt"
	"os"
	"path/filepath"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

// newCorpusCmd returns the command group managing a SQLite corpus database.
func (a *app) newCorpusCmd() *cobra.Command {
	corpusCmd := &cobra.Command{
		Use:   "corpus",
		Short: "Manage a SQLite corpus database",
	}

	addCmd := &cobra.Command{
		Use:   "add <dbPath> <file>...",
		Short: "Store text files as corpus documents, named after their base name",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			db, store, err := a.openCorpusStore(args[0], true)
			if err != nil {
				return err
			}
			defer func() {
				store.Close()
				_ = db.Close()
			}()

			for _, path := range args[1:] {
				file, err := os.Open(path)
				if err != nil {
					return fmt.Errorf("could not open document: %w", err)
				}
				id, err := store.AddDocument(cmd.Context(), filepath.Base(path), file)
				_ = file.Close()
				if err != nil {
					return err
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%d\t%s\n", id, filepath.Base(path))
			}
			return nil
		},
	}

	listCmd := &cobra.Command{
		Use:   "list <dbPath>",
		Short: "List the stored corpus documents",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			db, store, err := a.openCorpusStore(args[0], false)
			if err != nil {
				return err
			}
			defer func() {
				store.Close()
				_ = db.Close()
			}()

			docs, err := store.Documents(cmd.Context())
			if err != nil {
				return err
			}
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			_, _ = fmt.Fprintln(w, "ID\tNAME\tLENGTH")
			for _, doc := range docs {
				_, _ = fmt.Fprintf(w, "%d\t%s\t%d\n", doc.Id, doc.Name, doc.Length)
			}
			return w.Flush()
		},
	}

	removeCmd := &cobra.Command{
		Use:   "remove <dbPath> <name>...",
		Short: "Remove corpus documents by name",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			db, store, err := a.openCorpusStore(args[0], false)
			if err != nil {
				return err
			}
			defer func() {
				store.Close()
				_ = db.Close()
			}()

			for _, name := range args[1:] {
				if err = store.RemoveDocument(cmd.Context(), name); err != nil {
					return err
				}
			}
			return nil
		},
	}

	corpusCmd.AddCommand(addCmd, listCmd, removeCmd)
	return corpusCmd
}
