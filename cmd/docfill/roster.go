package main

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/javajack/docfill/roster/importer"
)

func (a *app) importCmd() *cobra.Command {
	var db string
	cmd := &cobra.Command{
		Use:   "import FILE",
		Short: "Create or update roster members from a CSV or XLSX file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]
			data, err := os.ReadFile(path)
			if err != nil {
				return err
			}
			format, err := importer.DetectFormat(filepath.Base(path), "", data)
			if err != nil {
				return err
			}
			rows, rowErrs, err := importer.Read(format, bytes.NewReader(data))
			if err != nil {
				return fmt.Errorf("%s: %w", path, err)
			}

			store, err := a.openStore(cmd.Context(), db)
			if err != nil {
				return err
			}
			defer store.Close()

			sum, err := importer.Import(cmd.Context(), store, rows)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "created %d, updated %d, failed %d\n", sum.Created, sum.Updated, len(rowErrs)+len(sum.Failed))
			for _, e := range rowErrs {
				fmt.Fprintln(out, e.Error())
			}
			for _, msg := range sum.Errors() {
				fmt.Fprintln(out, msg)
			}
			a.logger.Info("roster imported",
				zap.String("file", path),
				zap.String("format", string(format)),
				zap.Int("created", sum.Created),
				zap.Int("updated", sum.Updated))
			return nil
		},
	}
	cmd.Flags().StringVar(&db, "db", "", "Roster database path (default $DOCFILL_DB_PATH)")
	return cmd
}

func (a *app) exportCmd() *cobra.Command {
	var db, out string
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the roster to an XLSX workbook",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := a.openStore(cmd.Context(), db)
			if err != nil {
				return err
			}
			defer store.Close()

			members, err := store.ListMembers(cmd.Context())
			if err != nil {
				return err
			}
			var buf bytes.Buffer
			if err := importer.WriteXLSX(&buf, members); err != nil {
				return err
			}
			if err := os.WriteFile(out, buf.Bytes(), 0o644); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "exported %d members to %s\n", len(members), out)
			return nil
		},
	}
	cmd.Flags().StringVar(&db, "db", "", "Roster database path (default $DOCFILL_DB_PATH)")
	cmd.Flags().StringVar(&out, "out", "roster.xlsx", "Output .xlsx path")
	return cmd
}
