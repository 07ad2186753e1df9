package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/javajack/docfill/internal/docxgen"
)

func (a *app) templateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "template",
		Short: "Template authoring helpers",
	}

	var out string
	var force bool
	initCmd := &cobra.Command{
		Use:   "init",
		Short: "Write a starter counseling template whose markers match the built-in mapping",
		RunE: func(cmd *cobra.Command, args []string) error {
			out = orDefault(out, a.cfg.TemplatePath)
			if _, err := os.Stat(out); err == nil && !force {
				return fmt.Errorf("%s already exists (use --force to overwrite)", out)
			}
			if dir := filepath.Dir(out); dir != "." {
				if err := os.MkdirAll(dir, 0o755); err != nil {
					return err
				}
			}
			if err := docxgen.Counseling().WriteFile(out); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", out)
			return nil
		},
	}
	initCmd.Flags().StringVar(&out, "out", "", "Output .docx path (default $DOCFILL_TEMPLATE_PATH)")
	initCmd.Flags().BoolVar(&force, "force", false, "Overwrite an existing file")

	cmd.AddCommand(initCmd)
	return cmd
}
