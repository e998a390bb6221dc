package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pctclasses/admission-form/internal/admission"
	"github.com/pctclasses/admission-form/internal/upload"
)

// uploadSlots maps upload-bearing fields to their adapter slots.
var uploadSlots = map[string]upload.Slot{
	admission.FieldPhoto:                     upload.SlotPhoto,
	admission.FieldStudentSignature:          upload.SlotStudentSignature,
	admission.FieldParentSignature:           upload.SlotParentSignature,
	admission.FieldTenthMarklist:             upload.SlotTenthMarklist,
	admission.FieldPlusTwoMarklist:           upload.SlotPlusTwoMarklist,
	admission.FieldAuthorisedPersonSignature: upload.SlotOfficeSignature,
}

func newSubmitCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "submit <answers.json>",
		Short: "Validate an answers file and submit it as a new application",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			values, err := readValues(args[0])
			if err != nil {
				return err
			}

			if err := resolveUploads(cmd, a, values); err != nil {
				return err
			}

			f := admission.New(a.logger)
			applyValues(f, values)

			record, fieldErrs := f.Submit()
			if len(fieldErrs) > 0 {
				for _, name := range f.Registry.Order() {
					if ve, ok := fieldErrs[name]; ok {
						fmt.Fprintf(cmd.ErrOrStderr(), "%s: %s\n", ve.Field, ve.Message)
					}
				}
				return fmt.Errorf("%d field(s) failed validation", len(fieldErrs))
			}

			result, err := a.pipeline.Submit(cmd.Context(), record)
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Application saved: %s\n", result.Record.FirstStr("id", "_id"))
			return nil
		},
	}
}

func readValues(path string) (map[string]any, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read answers file: %w", err)
	}

	var values map[string]any
	if err := json.Unmarshal(data, &values); err != nil {
		return nil, fmt.Errorf("failed to parse answers file: %w", err)
	}
	return values, nil
}

// resolveUploads replaces local file paths in upload fields with stored
// image references. Values already holding URLs or data URIs pass through.
func resolveUploads(cmd *cobra.Command, a *app, values map[string]any) error {
	for field, slot := range uploadSlots {
		path, ok := values[field].(string)
		if !ok || path == "" || upload.IsRemote(path) || strings.HasPrefix(path, "data:") {
			continue
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("failed to read %s file: %w", field, err)
		}

		asset, err := a.uploads.Upload(cmd.Context(), slot, filepath.Base(path), data, "")
		if err != nil {
			return fmt.Errorf("failed to upload %s: %w", field, err)
		}
		values[field] = asset.URI
	}
	return nil
}

// applyValues feeds answers through the form in declared field order so
// watcher revalidation sees dependencies in a stable sequence. Keys the
// form does not declare are applied last, untouched.
func applyValues(f *admission.Form, values map[string]any) {
	seen := make(map[string]bool, len(values))
	for _, name := range f.Registry.Order() {
		if v, ok := values[name]; ok {
			f.Set(name, v)
			seen[name] = true
		}
	}
	for name, v := range values {
		if !seen[name] {
			f.Set(name, v)
		}
	}
}
