// Package pipeline assembles a validated form record into the wire
// payload, dispatches it to the public API, and prepares stored records
// for edit-mode pre-fill.
package pipeline

import (
	"context"
	"errors"
	"strings"

	"github.com/rs/zerolog"

	"github.com/pctclasses/admission-form/internal/admission"
	"github.com/pctclasses/admission-form/internal/client"
	"github.com/pctclasses/admission-form/internal/course"
	"github.com/pctclasses/admission-form/internal/dto"
	"github.com/pctclasses/admission-form/internal/form"
	"github.com/pctclasses/admission-form/internal/marks"
)

// Submitter is the API surface the pipeline dispatches to.
type Submitter interface {
	SubmitApplication(ctx context.Context, payload map[string]any) (dto.ApplicationRecord, error)
	GetApplication(ctx context.Context, id string) (dto.ApplicationRecord, error)
}

// Pipeline shapes and submits application records.
type Pipeline struct {
	api    Submitter
	logger zerolog.Logger
}

// New constructs a submission pipeline over the given API client.
func New(api Submitter, logger zerolog.Logger) *Pipeline {
	return &Pipeline{
		api:    api,
		logger: logger.With().Str("component", "submission_pipeline").Logger(),
	}
}

// uiOnlyFields never reach the wire payload.
var uiOnlyFields = []string{
	admission.FieldParentEmailConfirm,
	admission.FieldStudentEmailConfirm,
	admission.FieldMarksType,
}

// legacyMarksKeys are the dotted per-board paths some stored records carry
// alongside the nested sheet; they conflict with the main fields and are
// dropped before shaping.
var legacyMarksKeys = []string{
	"tenthMarks.cbse", "tenthMarks.stateboard", "tenthMarks.icse", "tenthMarks.others",
	"plusTwoMarks.cbse", "plusTwoMarks.stateboard", "plusTwoMarks.icse", "plusTwoMarks.others",
}

// BuildPayload turns a form record into the wire payload: UI-only fields
// stripped, marks rebuilt into board-keyed sheets, checkbox quirks
// normalized to strict booleans, and the course exclusivity invariant
// re-enforced in case registry state and payload diverged. Running it on
// its own output is a no-op.
func (p *Pipeline) BuildPayload(record form.Record) map[string]any {
	payload := make(map[string]any, len(record))
	for k, v := range record {
		payload[k] = v
	}

	for _, k := range uiOnlyFields {
		delete(payload, k)
	}
	for _, k := range legacyMarksKeys {
		delete(payload, k)
	}

	payload[admission.FieldTenthMarks] = shapeMarks(
		payload[admission.FieldTenthMarks],
		form.String(payload[admission.FieldTenthBoard]),
	)

	// The +2 sheet travels only when the +2 group was filled in.
	if form.String(payload[admission.FieldPlusTwoSchoolName]) != "" {
		payload[admission.FieldPlusTwoMarks] = shapeMarks(
			payload[admission.FieldPlusTwoMarks],
			form.String(payload[admission.FieldPlusTwoBoard]),
		)
	} else {
		delete(payload, admission.FieldPlusTwoMarks)
	}

	// Marklist URIs are mirrored to the storage keys the backend reads.
	if uri := form.String(payload[admission.FieldTenthMarklist]); uri != "" {
		payload["tenthMarklistUrl"] = uri
	}
	if uri := form.String(payload[admission.FieldPlusTwoMarklist]); uri != "" {
		payload["plusTwoMarklistUrl"] = uri
	}

	physics := form.Bool(payload[admission.FieldPhysics])
	chemistry := form.Bool(payload[admission.FieldChemistry])
	maths := form.Bool(payload[admission.FieldMaths])

	// Exclusivity enforced again on the payload: a programmatically loaded
	// record can carry stale subject flags next to an enumeration course.
	if sel, err := course.Parse(form.String(payload[admission.FieldSelectedCourse])); err == nil {
		if sel.State() == course.EnumSelected {
			physics, chemistry, maths = false, false, false
		}
	}

	payload[admission.FieldPhysics] = physics
	payload[admission.FieldChemistry] = chemistry
	payload[admission.FieldMaths] = maths

	return payload
}

// shapeMarks resolves a flat score against its board, passing an
// already-resolved sheet through unchanged.
func shapeMarks(value any, board string) marks.Sheet {
	if sheet, ok := marks.FromAny(value); ok {
		return sheet
	}
	return marks.Resolve(form.String(value), board)
}

// Result carries the outcome of a successful submission for the success
// screen.
type Result struct {
	Record dto.ApplicationRecord
}

// Submit shapes the record and dispatches it. On failure the server's
// message, when present, is surfaced and the caller's form state is left
// untouched for retry; no automatic retry is attempted.
func (p *Pipeline) Submit(ctx context.Context, record form.Record) (Result, error) {
	payload := p.BuildPayload(record)

	stored, err := p.api.SubmitApplication(ctx, payload)
	if err != nil {
		p.logger.Error().Err(err).Msg("application submission failed")
		return Result{}, submissionError(err)
	}

	p.logger.Info().Msg("application saved")
	return Result{Record: stored}, nil
}

func submissionError(err error) error {
	var apiErr *client.APIError
	if errors.As(err, &apiErr) && strings.TrimSpace(apiErr.Message) != "" {
		return apiErr
	}
	return errors.New("failed to save application")
}

// LoadForEdit fetches a stored record and reshapes it for registry
// pre-fill: nested marks flattened to display values via the fixed-order
// inverse, dotted legacy keys preserved for compatibility, confirmation
// fields mirrored from the primary emails, and marklist URLs aliased onto
// the preview fields.
func (p *Pipeline) LoadForEdit(ctx context.Context, id string) (map[string]any, dto.ApplicationRecord, error) {
	stored, err := p.api.GetApplication(ctx, id)
	if err != nil {
		p.logger.Error().Err(err).Str("id", id).Msg("failed to load application form")
		return nil, nil, err
	}

	values := make(map[string]any, len(stored)+12)
	for k, v := range stored {
		values[k] = v
	}

	values[admission.FieldMarksType] = "percentage"

	flattenInto(values, admission.FieldTenthMarks, "tenthMarks")
	flattenInto(values, admission.FieldPlusTwoMarks, "plusTwoMarks")

	values[admission.FieldParentEmailConfirm] = stored.Str(admission.FieldParentEmail)
	values[admission.FieldStudentEmailConfirm] = stored.Str(admission.FieldStudentEmail)

	if uri := stored.FirstStr("tenthMarklistUrl", admission.FieldTenthMarklist); uri != "" {
		values[admission.FieldTenthMarklist] = uri
	}
	if uri := stored.FirstStr("plusTwoMarklistUrl", admission.FieldPlusTwoMarklist); uri != "" {
		values[admission.FieldPlusTwoMarklist] = uri
	}

	return values, stored, nil
}

// flattenInto replaces a nested sheet with its flat display value and
// records the per-board values under dotted legacy keys.
func flattenInto(values map[string]any, field, prefix string) {
	sheet, ok := marks.FromAny(values[field])
	if !ok {
		return
	}
	values[field] = marks.Flatten(sheet)
	values[prefix+".cbse"] = sheet.CBSE
	values[prefix+".stateboard"] = sheet.StateBoard
	values[prefix+".icse"] = sheet.ICSE
	values[prefix+".others"] = sheet.Others
}
