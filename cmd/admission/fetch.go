package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pctclasses/admission-form/internal/render"
)

func newFetchCommand(a *app) *cobra.Command {
	var pdfPath string

	cmd := &cobra.Command{
		Use:   "fetch <application-id>",
		Short: "Fetch a saved application and print its editable form values",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			values, record, err := a.pipeline.LoadForEdit(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			out, err := json.MarshalIndent(values, "", "  ")
			if err != nil {
				return fmt.Errorf("failed to encode form values: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(out))

			if pdfPath == "" {
				return nil
			}

			r := render.New(render.HTTPImageLoader(nil), a.logger)
			doc, err := r.Render(record, true)
			if err != nil {
				return err
			}
			if err := writeFile(pdfPath, doc); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Document written to %s\n", pdfPath)
			return nil
		},
	}

	cmd.Flags().StringVar(&pdfPath, "pdf", "", "also render the printable form to this path")
	return cmd
}
