package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/pctclasses/admission-form/internal/upload"
)

func newUploadCommand(a *app) *cobra.Command {
	var (
		slot     string
		existing string
	)

	cmd := &cobra.Command{
		Use:   "upload <image-file>",
		Short: "Upload a single image for a form slot and print its reference",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s := upload.Slot(slot)
			if _, known := uploadSlotNames()[s]; !known {
				return fmt.Errorf("unknown slot %q", slot)
			}

			data, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("failed to read image file: %w", err)
			}

			asset, err := a.uploads.Upload(cmd.Context(), s, filepath.Base(args[0]), data, existing)
			if err != nil {
				return err
			}

			if asset.Fallback {
				fmt.Fprintln(cmd.OutOrStdout(), "Upload fell back to an inline image.")
				fmt.Fprintf(cmd.OutOrStdout(), "URI: %.64s...\n", asset.URI)
				return nil
			}
			fmt.Fprintf(cmd.OutOrStdout(), "URI: %s\nFile ID: %s\n", asset.URI, asset.FileID)
			return nil
		},
	}

	cmd.Flags().StringVar(&slot, "slot", string(upload.SlotPhoto), "target slot: photo, student-signature, parent-signature, tenth-marklist, plus-two-marklist or office-signature")
	cmd.Flags().StringVar(&existing, "replace", "", "file id of a previous upload to replace")
	return cmd
}

func uploadSlotNames() map[upload.Slot]struct{} {
	return map[upload.Slot]struct{}{
		upload.SlotPhoto:            {},
		upload.SlotStudentSignature: {},
		upload.SlotParentSignature:  {},
		upload.SlotTenthMarklist:    {},
		upload.SlotPlusTwoMarklist:  {},
		upload.SlotOfficeSignature:  {},
	}
}
