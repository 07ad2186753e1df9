package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/javajack/docfill"
)

func (a *app) fillCmd() *cobra.Command {
	var template, data, out, db, edipi, mappingPath string
	var report bool

	cmd := &cobra.Command{
		Use:   "fill",
		Short: "Fill a template from a JSON field map or a roster entry",
		Long: `Fill replaces every editable cell of the template whose marker has a value.

Values come from --data (a JSON object, "-" for stdin), from the roster entry
named by --edipi, or both; --data entries win over mapped roster values.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if data == "" && edipi == "" {
				return errors.New("one of --data or --edipi is required")
			}

			fields := docfill.FieldMap{}
			if edipi != "" {
				store, err := a.openStore(cmd.Context(), db)
				if err != nil {
					return err
				}
				defer store.Close()
				m, err := a.loadMapping(mappingPath)
				if err != nil {
					return err
				}
				if fields, err = m.ForMember(cmd.Context(), store, edipi, now()); err != nil {
					return fmt.Errorf("member %s: %w", edipi, err)
				}
			}
			if data != "" {
				raw, err := readInput(cmd, data)
				if err != nil {
					return err
				}
				override, err := docfill.ParseFieldMap(raw)
				if err != nil {
					return err
				}
				fields = fields.Merge(override)
			}

			template = orDefault(template, a.cfg.TemplatePath)
			res, err := docfill.FillFile(template, out, fields,
				docfill.WithFont(a.cfg.Font()),
				docfill.WithLogger(a.logger))
			if perr := printResult(cmd.OutOrStdout(), res, report); perr != nil {
				return perr
			}
			if err != nil {
				return err
			}
			a.logger.Info("document filled",
				zap.String("template", template),
				zap.String("out", out),
				zap.Int("updated", len(res.Updated)))
			return nil
		},
	}
	cmd.Flags().StringVar(&template, "template", "", "Template .docx (default $DOCFILL_TEMPLATE_PATH)")
	cmd.Flags().StringVar(&data, "data", "", "JSON field map file, or - for stdin")
	cmd.Flags().StringVar(&out, "out", "", "Output .docx path")
	cmd.Flags().BoolVar(&report, "report", false, "Print the result as JSON instead of the operation log")
	cmd.Flags().StringVar(&db, "db", "", "Roster database path (default $DOCFILL_DB_PATH)")
	cmd.Flags().StringVar(&edipi, "edipi", "", "Fill from this roster member")
	cmd.Flags().StringVar(&mappingPath, "mapping", "", "Field mapping file (default built-in)")
	_ = cmd.MarkFlagRequired("out")
	return cmd
}

func printResult(w io.Writer, res *docfill.Result, asJSON bool) error {
	if res == nil {
		return nil
	}
	if asJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(res)
	}
	for _, msg := range res.Messages {
		if _, err := fmt.Fprintln(w, msg); err != nil {
			return err
		}
	}
	return nil
}

func (a *app) describeCmd() *cobra.Command {
	var template string
	cmd := &cobra.Command{
		Use:   "describe",
		Short: "Print the table structure of a template with editable cells flagged",
		RunE: func(cmd *cobra.Command, args []string) error {
			tree, err := docfill.Describe(orDefault(template, a.cfg.TemplatePath))
			if err != nil {
				return err
			}
			_, err = fmt.Fprint(cmd.OutOrStdout(), tree)
			return err
		},
	}
	cmd.Flags().StringVar(&template, "template", "", "Template .docx (default $DOCFILL_TEMPLATE_PATH)")
	return cmd
}

// errValidation is returned when validate finds error-level issues.
var errValidation = errors.New("field map does not fit the template")

func (a *app) validateCmd() *cobra.Command {
	var template, data string
	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Check a JSON field map against a template without writing a document",
		RunE: func(cmd *cobra.Command, args []string) error {
			raw, err := readInput(cmd, data)
			if err != nil {
				return err
			}
			fields, err := docfill.ParseFieldMap(raw)
			if err != nil {
				return err
			}
			issues, err := docfill.Validate(orDefault(template, a.cfg.TemplatePath), fields,
				docfill.WithFont(a.cfg.Font()))
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			failed := false
			for _, issue := range issues {
				fmt.Fprintln(out, issue)
				if issue.Severity == docfill.SeverityError {
					failed = true
				}
			}
			if len(issues) == 0 {
				fmt.Fprintln(out, "OK")
			}
			if failed {
				return errValidation
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&template, "template", "", "Template .docx (default $DOCFILL_TEMPLATE_PATH)")
	cmd.Flags().StringVar(&data, "data", "", "JSON field map file, or - for stdin")
	_ = cmd.MarkFlagRequired("data")
	return cmd
}
