package admission

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/pctclasses/admission-form/internal/course"
)

func validAnswers() map[string]any {
	return map[string]any{
		FieldSelectedCourse: "bridge_jee",

		FieldName:        "Anjali Menon",
		FieldGender:      "Female",
		FieldDateOfBirth: "2008-04-12",
		FieldFathersName: "Suresh Menon",
		FieldOccupation:  "Teacher",
		FieldAddress:     "12 Temple Road, Thrissur",
		FieldPincode:     "680001",

		FieldParentMobile:        "+919876543210",
		FieldAlternateMobile:     "+919876500001",
		FieldParentWhatsapp:      "+919876543210",
		FieldStudentMobile:       "+919876500002",
		FieldParentEmail:         "parent@example.com",
		FieldParentEmailConfirm:  "parent@example.com",
		FieldStudentEmail:        "student@example.com",
		FieldStudentEmailConfirm: "student@example.com",

		FieldTenthSchoolName: "St. Thomas HSS",
		FieldTenthBoard:      "CBSE",
		FieldTenthMarks:      "92",

		FieldStudentName:       "Anjali Menon",
		FieldAccountHolderName: "Suresh Menon",
		FieldAmountRemitted:    float64(25000),
		FieldBankName:          "SBI",
		FieldReferenceNumber:   "TXN0012345",
		FieldRemittanceDate:    "2026-08-20",
		FieldMobileNumber:      "+919876543210",

		FieldTermsAgreed:  true,
		FieldRefundAgreed: true,
	}
}

func fill(f *Form, values map[string]any) {
	for _, name := range f.Registry.Order() {
		if v, ok := values[name]; ok {
			f.Set(name, v)
		}
	}
}

func TestSubmitValidForm(t *testing.T) {
	f := New(zerolog.Nop())
	fill(f, validAnswers())

	record, errs := f.Submit()
	require.Empty(t, errs)
	require.Equal(t, "bridge_jee", record[FieldSelectedCourse])
	require.Equal(t, false, record[FieldPhysics])
}

func TestSubmitCollectsEveryFailure(t *testing.T) {
	f := New(zerolog.Nop())

	_, errs := f.Submit()
	require.NotEmpty(t, errs)
	require.Equal(t, "Please select a course", errs[FieldSelectedCourse].Message)
	require.Equal(t, "Name is required", errs[FieldName].Message)
	require.Equal(t, "You must agree to all terms and conditions", errs[FieldTermsAgreed].Message)

	first, ok := errs.First(f.Registry.Order())
	require.True(t, ok)
	require.Equal(t, FieldSelectedCourse, first.Field)
}

func TestDuplicateMobileSurfacesOnLastEditedField(t *testing.T) {
	f := New(zerolog.Nop())
	f.Set(FieldParentMobile, "+919876543210")
	f.Set(FieldStudentMobile, "+919876543210")
	f.Registry.Validate(FieldStudentMobile)

	errs := f.Registry.Errors()
	require.Equal(t, "Student mobile number cannot be same as parent mobile number", errs[FieldStudentMobile].Message)

	// Editing the parent side re-checks the student side and clears it.
	f.Set(FieldParentMobile, "+919876500000")
	require.Empty(t, f.Registry.Errors()[FieldStudentMobile].Message)
}

func TestParentStudentEmailCaseInsensitive(t *testing.T) {
	f := New(zerolog.Nop())
	f.Set(FieldParentEmail, "Family@Example.COM")
	f.Set(FieldStudentEmail, "family@example.com")
	f.Registry.Validate(FieldStudentEmail)

	require.Equal(t, "Student email cannot be same as parent email",
		f.Registry.Errors()[FieldStudentEmail].Message)
}

func TestEmailConfirmTracksChanges(t *testing.T) {
	f := New(zerolog.Nop())
	f.Set(FieldParentEmail, "parent@example.com")
	f.Set(FieldParentEmailConfirm, "parent@example.com")
	f.Registry.Validate(FieldParentEmailConfirm)
	require.Empty(t, f.Registry.Errors())

	// The confirmation goes stale as soon as the primary changes.
	f.Set(FieldParentEmail, "new-parent@example.com")
	require.Equal(t, "Emails do not match", f.Registry.Errors()[FieldParentEmailConfirm].Message)
}

func TestCourseSelectionClearsSubjects(t *testing.T) {
	f := New(zerolog.Nop())
	f.Set(FieldSelectedCourse, "tuition_only_hybrid")
	f.Set(FieldPhysics, true)
	f.Set(FieldMaths, true)
	require.True(t, f.EnumRadiosDisabled())

	f.Set(FieldSelectedCourse, "repeater_neet")
	require.Equal(t, false, f.Registry.Get(FieldPhysics))
	require.Equal(t, false, f.Registry.Get(FieldMaths))
	require.False(t, f.EnumRadiosDisabled())
	require.Equal(t, course.EnumSelected, f.Selection().State())
}

func TestSubjectToggleIgnoredOutsideStandalone(t *testing.T) {
	f := New(zerolog.Nop())
	f.Set(FieldSelectedCourse, "bridge_jee")
	f.Set(FieldChemistry, true)

	require.Equal(t, false, f.Registry.Get(FieldChemistry))
	require.False(t, f.Selection().Subjects().Chemistry)
}

func TestRepeaterRequiresPlusTwoGroup(t *testing.T) {
	f := New(zerolog.Nop())
	answers := validAnswers()
	answers[FieldSelectedCourse] = "repeater_jee"
	fill(f, answers)

	_, errs := f.Submit()
	require.Equal(t, "+2 school name is required for repeater course", errs[FieldPlusTwoSchoolName].Message)
	require.Equal(t, "+2 board is required for repeater course", errs[FieldPlusTwoBoard].Message)
	require.Equal(t, "+2 marks are required for repeater course", errs[FieldPlusTwoMarks].Message)

	f.Set(FieldPlusTwoSchoolName, "Model HSS")
	f.Set(FieldPlusTwoBoard, "STATE BOARD")
	f.Set(FieldPlusTwoMarks, "88")
	record, errs := f.Submit()
	require.Empty(t, errs)
	require.Equal(t, "88", record[FieldPlusTwoMarks])
}

func TestSwitchingOffRepeaterDropsPlusTwoRequirement(t *testing.T) {
	f := New(zerolog.Nop())
	answers := validAnswers()
	answers[FieldSelectedCourse] = "repeater_jee"
	fill(f, answers)

	_, errs := f.Submit()
	require.Contains(t, errs, FieldPlusTwoSchoolName)

	f.Set(FieldSelectedCourse, "bridge_jee")
	_, errs = f.Submit()
	require.NotContains(t, errs, FieldPlusTwoSchoolName)
}

func TestUnknownCourseValueFailsValidation(t *testing.T) {
	f := New(zerolog.Nop())
	f.Set(FieldSelectedCourse, "weekend_special")

	require.Equal(t, "Please select a course", f.Registry.Errors()[FieldSelectedCourse].Message)
}

func TestEditModeFeeDerivation(t *testing.T) {
	f := New(zerolog.Nop(), WithEditMode())
	f.Set(FieldCourseFee, float64(60000))
	f.Set(FieldConcessionAmount, float64(5000))
	f.Set(FieldAmountPaidDuringAdmission, float64(20000))

	require.Equal(t, float64(55000), f.Registry.Get(FieldBalanceFeePayable))
	require.Equal(t, float64(35000), f.Registry.Get(FieldBalanceDue))

	f.Set(FieldConcessionAmount, float64(10000))
	require.Equal(t, float64(50000), f.Registry.Get(FieldBalanceFeePayable))
}

func TestEditModeRelaxesTermsCheckboxes(t *testing.T) {
	f := New(zerolog.Nop(), WithEditMode())
	answers := validAnswers()
	delete(answers, FieldTermsAgreed)
	delete(answers, FieldRefundAgreed)
	fill(f, answers)

	_, errs := f.Submit()
	require.NotContains(t, errs, FieldTermsAgreed)
	require.NotContains(t, errs, FieldRefundAgreed)
}

func TestLoadReconstructsCourseState(t *testing.T) {
	f := New(zerolog.Nop())
	f.Load(map[string]any{
		FieldSelectedCourse: "tuition_only_hybrid",
		FieldPhysics:        true,
		FieldMaths:          true,
		FieldName:           "Anjali Menon",
	})

	require.Equal(t, course.StandaloneSelected, f.Selection().State())
	require.True(t, f.Selection().Subjects().Physics)
	require.True(t, f.Selection().Subjects().Maths)
	require.False(t, f.Selection().Subjects().Chemistry)
	require.Equal(t, "Anjali Menon", f.Registry.Get(FieldName))
}
