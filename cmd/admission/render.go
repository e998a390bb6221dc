package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pctclasses/admission-form/internal/dto"
	"github.com/pctclasses/admission-form/internal/render"
)

func newRenderCommand(a *app) *cobra.Command {
	var (
		id       string
		outPath  string
		editMode bool
		offline  bool
	)

	cmd := &cobra.Command{
		Use:   "render [record.json]",
		Short: "Render the printable application form to a PDF",
		Long: "Renders the two-page application form from a saved record, either a local\n" +
			"JSON file or an application fetched by id with --id.",
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var record dto.ApplicationRecord

			switch {
			case id != "":
				fetched, err := a.client.GetApplication(cmd.Context(), id)
				if err != nil {
					return err
				}
				record = fetched
			case len(args) == 1:
				data, err := os.ReadFile(args[0])
				if err != nil {
					return fmt.Errorf("failed to read record file: %w", err)
				}
				if err := json.Unmarshal(data, &record); err != nil {
					return fmt.Errorf("failed to parse record file: %w", err)
				}
			default:
				return fmt.Errorf("either a record file or --id is required")
			}

			loader := render.HTTPImageLoader(nil)
			if offline {
				loader = render.DataURIImageLoader
			}

			doc, err := render.New(loader, a.logger).Render(record, editMode)
			if err != nil {
				return err
			}
			if err := writeFile(outPath, doc); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Document written to %s\n", outPath)
			return nil
		},
	}

	cmd.Flags().StringVar(&id, "id", "", "fetch the record by application id instead of reading a file")
	cmd.Flags().StringVarP(&outPath, "out", "o", render.ArtifactName, "output path for the generated PDF")
	cmd.Flags().BoolVar(&editMode, "edit", false, "include the office-use section")
	cmd.Flags().BoolVar(&offline, "offline", false, "inline data-uri images only, never fetch remote ones")
	return cmd
}

func writeFile(path string, data []byte) error {
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}
