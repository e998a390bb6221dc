package pipeline

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/pctclasses/admission-form/internal/admission"
	"github.com/pctclasses/admission-form/internal/client"
	"github.com/pctclasses/admission-form/internal/dto"
	"github.com/pctclasses/admission-form/internal/form"
	"github.com/pctclasses/admission-form/internal/marks"
)

type apiStub struct {
	submitted map[string]any
	stored    dto.ApplicationRecord
	submitErr error
	getErr    error
}

func (s *apiStub) SubmitApplication(ctx context.Context, payload map[string]any) (dto.ApplicationRecord, error) {
	s.submitted = payload
	if s.submitErr != nil {
		return nil, s.submitErr
	}
	return s.stored, nil
}

func (s *apiStub) GetApplication(ctx context.Context, id string) (dto.ApplicationRecord, error) {
	if s.getErr != nil {
		return nil, s.getErr
	}
	return s.stored, nil
}

func baseRecord() form.Record {
	return form.Record{
		admission.FieldSelectedCourse:      "repeater_jee",
		admission.FieldName:                "Anjali Menon",
		admission.FieldTenthBoard:          "CBSE",
		admission.FieldTenthMarks:          "92",
		admission.FieldPlusTwoSchoolName:   "Model HSS",
		admission.FieldPlusTwoBoard:        "STATE BOARD",
		admission.FieldPlusTwoMarks:        "88",
		admission.FieldParentEmail:         "parent@example.com",
		admission.FieldParentEmailConfirm:  "parent@example.com",
		admission.FieldStudentEmail:        "student@example.com",
		admission.FieldStudentEmailConfirm: "student@example.com",
		admission.FieldMarksType:           "percentage",
	}
}

func TestBuildPayloadStripsUIOnlyFields(t *testing.T) {
	p := New(&apiStub{}, zerolog.Nop())
	payload := p.BuildPayload(baseRecord())

	require.NotContains(t, payload, admission.FieldParentEmailConfirm)
	require.NotContains(t, payload, admission.FieldStudentEmailConfirm)
	require.NotContains(t, payload, admission.FieldMarksType)
	require.Contains(t, payload, admission.FieldParentEmail)
}

func TestBuildPayloadDropsLegacyDottedKeys(t *testing.T) {
	record := baseRecord()
	record["tenthMarks.cbse"] = "92"
	record["plusTwoMarks.others"] = "70"

	payload := New(&apiStub{}, zerolog.Nop()).BuildPayload(record)
	require.NotContains(t, payload, "tenthMarks.cbse")
	require.NotContains(t, payload, "plusTwoMarks.others")
}

func TestBuildPayloadResolvesMarks(t *testing.T) {
	payload := New(&apiStub{}, zerolog.Nop()).BuildPayload(baseRecord())

	require.Equal(t, marks.Sheet{CBSE: "92"}, payload[admission.FieldTenthMarks])
	require.Equal(t, marks.Sheet{StateBoard: "88"}, payload[admission.FieldPlusTwoMarks])
}

func TestBuildPayloadIsIdempotent(t *testing.T) {
	p := New(&apiStub{}, zerolog.Nop())

	once := p.BuildPayload(baseRecord())
	twice := p.BuildPayload(once)
	require.Equal(t, once, twice)
}

func TestBuildPayloadOmitsPlusTwoWithoutSchool(t *testing.T) {
	record := baseRecord()
	delete(record, admission.FieldPlusTwoSchoolName)

	payload := New(&apiStub{}, zerolog.Nop()).BuildPayload(record)
	require.NotContains(t, payload, admission.FieldPlusTwoMarks)
}

func TestBuildPayloadMirrorsMarklistURLs(t *testing.T) {
	record := baseRecord()
	record[admission.FieldTenthMarklist] = "https://cdn.example.com/marklist.png"

	payload := New(&apiStub{}, zerolog.Nop()).BuildPayload(record)
	require.Equal(t, "https://cdn.example.com/marklist.png", payload["tenthMarklistUrl"])
	require.NotContains(t, payload, "plusTwoMarklistUrl")
}

func TestBuildPayloadNormalizesCheckboxes(t *testing.T) {
	record := baseRecord()
	record[admission.FieldSelectedCourse] = "tuition_only_hybrid"
	record[admission.FieldPhysics] = []any{"on"}
	record[admission.FieldChemistry] = "true"
	record[admission.FieldMaths] = nil

	payload := New(&apiStub{}, zerolog.Nop()).BuildPayload(record)
	require.Equal(t, true, payload[admission.FieldPhysics])
	require.Equal(t, true, payload[admission.FieldChemistry])
	require.Equal(t, false, payload[admission.FieldMaths])
}

func TestBuildPayloadClearsStaleSubjectFlags(t *testing.T) {
	record := baseRecord()
	record[admission.FieldSelectedCourse] = "bridge_neet"
	record[admission.FieldPhysics] = true
	record[admission.FieldMaths] = true

	payload := New(&apiStub{}, zerolog.Nop()).BuildPayload(record)
	require.Equal(t, false, payload[admission.FieldPhysics])
	require.Equal(t, false, payload[admission.FieldChemistry])
	require.Equal(t, false, payload[admission.FieldMaths])
}

func TestSubmitReturnsStoredRecord(t *testing.T) {
	stub := &apiStub{stored: dto.ApplicationRecord{"id": "abc123", "name": "Anjali Menon"}}
	p := New(stub, zerolog.Nop())

	result, err := p.Submit(context.Background(), baseRecord())
	require.NoError(t, err)
	require.Equal(t, "abc123", result.Record.Str("id"))
	require.Equal(t, marks.Sheet{CBSE: "92"}, stub.submitted[admission.FieldTenthMarks])
}

func TestSubmitSurfacesServerMessage(t *testing.T) {
	stub := &apiStub{submitErr: &client.APIError{Status: 409, Message: "Application already exists"}}
	p := New(stub, zerolog.Nop())

	_, err := p.Submit(context.Background(), baseRecord())
	require.EqualError(t, err, "Application already exists")
}

func TestSubmitFallsBackToGenericMessage(t *testing.T) {
	stub := &apiStub{submitErr: errors.New("dial tcp: connection refused")}
	p := New(stub, zerolog.Nop())

	_, err := p.Submit(context.Background(), baseRecord())
	require.EqualError(t, err, "failed to save application")
}

func TestLoadForEditFlattensMarks(t *testing.T) {
	stub := &apiStub{stored: dto.ApplicationRecord{
		"id":                        "abc123",
		admission.FieldTenthMarks:   map[string]any{"cbse": "92"},
		admission.FieldPlusTwoMarks: map[string]any{"stateboard": "88"},
		admission.FieldParentEmail:  "parent@example.com",
		admission.FieldStudentEmail: "student@example.com",
		"tenthMarklistUrl":          "https://cdn.example.com/m.png",
	}}
	p := New(stub, zerolog.Nop())

	values, stored, err := p.LoadForEdit(context.Background(), "abc123")
	require.NoError(t, err)
	require.Equal(t, "abc123", stored.Str("id"))

	require.Equal(t, "92", values[admission.FieldTenthMarks])
	require.Equal(t, "88", values[admission.FieldPlusTwoMarks])
	require.Equal(t, "92", values["tenthMarks.cbse"])
	require.Equal(t, "88", values["plusTwoMarks.stateboard"])
	require.Equal(t, "percentage", values[admission.FieldMarksType])
	require.Equal(t, "parent@example.com", values[admission.FieldParentEmailConfirm])
	require.Equal(t, "student@example.com", values[admission.FieldStudentEmailConfirm])
	require.Equal(t, "https://cdn.example.com/m.png", values[admission.FieldTenthMarklist])
}

func TestLoadForEditPropagatesFetchError(t *testing.T) {
	stub := &apiStub{getErr: &client.APIError{Status: 404, Message: "Application form not found"}}
	p := New(stub, zerolog.Nop())

	_, _, err := p.LoadForEdit(context.Background(), "missing")
	var apiErr *client.APIError
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, 404, apiErr.Status)
}
