// Package admission declares the application form: every field, its rules
// and the cross-field constraints between sections, built on the shared
// field registry. Sections read sibling values through the registry's
// watch contract rather than holding copies.
package admission

import (
	"regexp"

	"github.com/rs/zerolog"

	"github.com/pctclasses/admission-form/internal/course"
	"github.com/pctclasses/admission-form/internal/form"
)

var (
	pincodePattern = regexp.MustCompile(`^\d{6}$`)
	marksPattern   = regexp.MustCompile(`^[0-9.]+$`)
)

// Form is the admission form: a field registry populated with the full
// rule set, plus the course selection engine.
type Form struct {
	Registry  *form.Registry
	selection course.Selection
	editMode  bool
	logger    zerolog.Logger
}

// Option configures form construction.
type Option func(*Form)

// WithEditMode enables the office-use section and relaxes the terms
// checkboxes, mirroring the form's edit view.
func WithEditMode() Option {
	return func(f *Form) { f.editMode = true }
}

// New builds the admission form with all sections declared in form order.
func New(logger zerolog.Logger, opts ...Option) *Form {
	f := &Form{
		Registry: form.NewRegistry(logger),
		logger:   logger.With().Str("component", "admission_form").Logger(),
	}
	for _, opt := range opts {
		opt(f)
	}

	f.declareCourseSelection()
	f.declarePersonalInformation()
	f.declareParentInformation()
	f.declareEducationalDetails()
	f.declarePaymentDetails()
	f.declareTermsAndUploads()
	if f.editMode {
		f.declareOfficeUse()
	}

	return f
}

// EditMode reports whether the office-use section is active.
func (f *Form) EditMode() bool { return f.editMode }

// Selection exposes the current course selection.
func (f *Form) Selection() course.Selection { return f.selection }

func (f *Form) declareCourseSelection() {
	reg := f.Registry

	reg.Declare(FieldSelectedCourse,
		form.Required("Please select a course"),
		form.RuleFunc(func(value any, _ *form.Registry) string {
			if _, err := course.Parse(form.String(value)); err != nil {
				return "Please select a course"
			}
			return ""
		}),
	)
	reg.Declare(FieldPhysics)
	reg.Declare(FieldChemistry)
	reg.Declare(FieldMaths)
	if f.editMode {
		reg.Declare(FieldRollNumber)
	}
}

func (f *Form) declarePersonalInformation() {
	reg := f.Registry

	reg.Declare(FieldName, form.Required("Name is required"))
	reg.Declare(FieldGender, form.Required("Gender is required"))
	reg.Declare(FieldDateOfBirth, form.Required("Date of birth is required"))
	reg.Declare(FieldFathersName, form.Required("Father's name is required"))
	reg.Declare(FieldOccupation, form.Required("Occupation is required"))
	reg.Declare(FieldAddress, form.Required("Address is required"))
	reg.Declare(FieldPincode,
		form.Required("Pincode is required"),
		form.Pattern(pincodePattern, "Pincode must be 6 digits"),
	)
}

func (f *Form) declareParentInformation() {
	reg := f.Registry

	reg.Declare(FieldParentMobile,
		form.Required("Parent mobile number is required"),
		form.IndianMobile("Enter a valid Indian mobile number (+91...)"),
		form.DistinctFrom(FieldStudentMobile, "Parent mobile number cannot be same as student mobile number"),
		form.DistinctFrom(FieldAlternateMobile, "Parent mobile number cannot be same as alternate mobile number"),
	)
	reg.Declare(FieldAlternateMobile,
		form.Required("Alternate mobile number is required"),
		form.IndianMobile("Enter a valid Indian mobile number (+91...)"),
		form.DistinctFrom(FieldParentMobile, "Alternate mobile number cannot be same as parent mobile number"),
		form.DistinctFrom(FieldStudentMobile, "Alternate mobile number cannot be same as student mobile number"),
	)
	reg.Declare(FieldParentWhatsapp,
		form.Required("Parent's Whatsapp number is required"),
		form.Phone("Enter a valid phone number"),
	)
	reg.Declare(FieldStudentMobile,
		form.Required("Student mobile number is required"),
		form.IndianMobile("Enter a valid Indian mobile number (+91...)"),
		form.DistinctFrom(FieldParentMobile, "Student mobile number cannot be same as parent mobile number"),
		form.DistinctFrom(FieldAlternateMobile, "Student mobile number cannot be same as alternate mobile number"),
	)

	reg.Declare(FieldParentEmail,
		form.Required("Parent email is required"),
		form.Email("Invalid email address"),
		form.DistinctFromFold(FieldStudentEmail, "Parent email cannot be same as student email"),
	)
	reg.Declare(FieldParentEmailConfirm,
		form.Required("Please confirm parent email"),
		form.Email("Invalid email address"),
		form.Matches(FieldParentEmail, "Emails do not match"),
	)
	reg.Declare(FieldStudentEmail,
		form.Required("Student email is required"),
		form.Email("Invalid email address"),
		form.DistinctFromFold(FieldParentEmail, "Student email cannot be same as parent email"),
	)
	reg.Declare(FieldStudentEmailConfirm,
		form.Required("Please confirm student email"),
		form.Email("Invalid email address"),
		form.Matches(FieldStudentEmail, "Emails do not match"),
	)

	// Each pair is checked from both sides, so whichever field changes
	// last carries the error.
	reg.Watch(FieldParentMobile, FieldStudentMobile)
	reg.Watch(FieldParentMobile, FieldAlternateMobile)
	reg.Watch(FieldStudentMobile, FieldParentMobile)
	reg.Watch(FieldStudentMobile, FieldAlternateMobile)
	reg.Watch(FieldAlternateMobile, FieldParentMobile)
	reg.Watch(FieldAlternateMobile, FieldStudentMobile)
	reg.Watch(FieldParentEmail, FieldStudentEmail)
	reg.Watch(FieldParentEmail, FieldParentEmailConfirm)
	reg.Watch(FieldStudentEmail, FieldParentEmail)
	reg.Watch(FieldStudentEmail, FieldStudentEmailConfirm)
}

func repeaterSelected(reg *form.Registry) bool {
	sel, err := course.Parse(form.String(reg.Get(FieldSelectedCourse)))
	if err != nil {
		return false
	}
	return sel.IsRepeater()
}

func (f *Form) declareEducationalDetails() {
	reg := f.Registry

	reg.Declare(FieldTenthSchoolName, form.Required("10th school name is required"))
	reg.Declare(FieldTenthBoard, form.Required("10th board is required"))
	reg.Declare(FieldTenthMarks,
		form.Required("10th marks are required"),
		form.Pattern(marksPattern, "Please enter valid marks/percentage"),
	)
	reg.Declare(FieldTenthMarklist)

	// The +2 group is revealed and required only on the repeater path.
	reg.Declare(FieldPlusTwoSchoolName,
		form.RequiredWhen(repeaterSelected, "+2 school name is required for repeater course"))
	reg.Declare(FieldPlusTwoBoard,
		form.RequiredWhen(repeaterSelected, "+2 board is required for repeater course"))
	reg.Declare(FieldPlusTwoMarks,
		form.RequiredWhen(repeaterSelected, "+2 marks are required for repeater course"),
		form.Pattern(marksPattern, "Please enter valid marks/percentage"),
	)
	reg.Declare(FieldPlusTwoMarklist)

	reg.Declare(FieldJEEMainMarks, form.Pattern(marksPattern, "Please enter valid marks"))
	reg.Declare(FieldNEETMarks, form.Pattern(marksPattern, "Please enter valid marks"))

	reg.Watch(FieldSelectedCourse, FieldPlusTwoSchoolName)
	reg.Watch(FieldSelectedCourse, FieldPlusTwoBoard)
	reg.Watch(FieldSelectedCourse, FieldPlusTwoMarks)
}

func (f *Form) declarePaymentDetails() {
	reg := f.Registry

	reg.Declare(FieldStudentName, form.Required("Student name is required"))
	reg.Declare(FieldAccountHolderName, form.Required("Account holder name is required"))
	reg.Declare(FieldAmountRemitted,
		form.Required("Amount is required"),
		form.Min(1, "Amount must be greater than 0"),
	)
	reg.Declare(FieldBankName, form.Required("Bank name is required"))
	reg.Declare(FieldReferenceNumber, form.Required("Reference number is required"))
	reg.Declare(FieldRemittanceDate, form.Required("Remittance date is required"))
	reg.Declare(FieldMobileNumber,
		form.Required("Mobile number is required"),
		form.Phone("Enter a valid phone number"),
	)
}

func (f *Form) declareTermsAndUploads() {
	reg := f.Registry

	if f.editMode {
		// Stored records predate the checkbox fields; edit mode shows
		// them pre-ticked.
		reg.Declare(FieldTermsAgreed)
		reg.Declare(FieldRefundAgreed)
	} else {
		reg.Declare(FieldTermsAgreed, form.Required("You must agree to all terms and conditions"))
		reg.Declare(FieldRefundAgreed, form.Required("You must agree to the refund terms"))
	}

	reg.Declare(FieldPhoto)
	reg.Declare(FieldStudentSignature)
	reg.Declare(FieldParentSignature)
}

func (f *Form) declareOfficeUse() {
	reg := f.Registry

	reg.Declare(FieldCourseFee, form.Min(0, "Course fee must be positive"))
	reg.Declare(FieldConcessionAmount, form.Min(0, "Concession amount must be positive"))
	reg.Declare(FieldBalanceFeePayable)
	reg.Declare(FieldAmountPaidDuringAdmission, form.Min(0, "Amount must be positive"))
	reg.Declare(FieldFeeReceiptNo)
	reg.Declare(FieldReceiptDate)
	reg.Declare(FieldBalanceDue)
	reg.Declare(FieldReasonForConcession)
	reg.Declare(FieldAuthorisedPersonName)
	reg.Declare(FieldAuthorisedPersonSignature)
	reg.Declare(FieldFeeReceiptNoAndDate)

	reg.Watch(FieldCourseFee, FieldBalanceFeePayable)
	reg.Watch(FieldConcessionAmount, FieldBalanceFeePayable)
	reg.Watch(FieldAmountPaidDuringAdmission, FieldBalanceDue)
}

// Set writes a field value through the registry, maintaining the course
// engine for selection fields and recomputing derived fee fields.
func (f *Form) Set(name string, value any) {
	switch name {
	case FieldSelectedCourse:
		f.selectCourse(form.String(value))
		return
	case FieldPhysics, FieldChemistry, FieldMaths:
		f.setSubject(name, form.Bool(value))
		return
	}

	f.Registry.Set(name, value)

	if f.editMode {
		switch name {
		case FieldCourseFee, FieldConcessionAmount, FieldAmountPaidDuringAdmission:
			f.recalculateFees()
		}
	}
}

// selectCourse applies a radio choice to the course engine and mirrors the
// resulting state into the registry: choosing any course clears all three
// subject flags; the standalone variant clears the enumeration selection.
func (f *Form) selectCourse(id string) {
	sel, err := course.Parse(id)
	if err != nil {
		f.logger.Warn().Str("course", id).Msg("ignoring unknown course identifier")
		f.Registry.Set(FieldSelectedCourse, id)
		f.Registry.Validate(FieldSelectedCourse)
		return
	}

	f.selection = sel
	f.Registry.Set(FieldSelectedCourse, sel.ID())
	f.Registry.Set(FieldPhysics, false)
	f.Registry.Set(FieldChemistry, false)
	f.Registry.Set(FieldMaths, false)
}

// setSubject toggles a standalone subject flag. Flags are only meaningful
// while the standalone course is selected; otherwise the toggle is
// dropped, mirroring the disabled checkboxes.
func (f *Form) setSubject(name string, on bool) {
	subject := map[string]string{
		FieldPhysics:   "physics",
		FieldChemistry: "chemistry",
		FieldMaths:     "maths",
	}[name]

	if err := f.selection.ToggleSubject(subject, on); err != nil {
		f.logger.Debug().Str("subject", subject).Msg("subject toggle ignored outside standalone course")
		return
	}
	f.Registry.Set(name, on)
}

// EnumRadiosDisabled mirrors the UI rule: while any standalone subject
// flag is set, the enumeration radios are disabled. Presentation-layer
// mirror of the exclusivity invariant, not an independent rule.
func (f *Form) EnumRadiosDisabled() bool {
	return f.selection.Subjects().Any()
}

func (f *Form) recalculateFees() {
	courseFee := form.Number(f.Registry.Get(FieldCourseFee))
	concession := form.Number(f.Registry.Get(FieldConcessionAmount))
	paid := form.Number(f.Registry.Get(FieldAmountPaidDuringAdmission))

	payable := courseFee - concession
	f.Registry.Set(FieldBalanceFeePayable, payable)
	f.Registry.Set(FieldBalanceDue, payable-paid)
}

// Load pre-fills the registry from a stored record's flat field values,
// reconstructing the course engine state from the wire identifier.
func (f *Form) Load(values map[string]any) {
	if id, ok := values[FieldSelectedCourse]; ok {
		f.selectCourse(form.String(id))
	}
	for name, value := range values {
		switch name {
		case FieldSelectedCourse:
			continue
		case FieldPhysics, FieldChemistry, FieldMaths:
			f.setSubject(name, form.Bool(value))
		default:
			f.Registry.Set(name, value)
		}
	}
	if f.editMode {
		f.recalculateFees()
	}
}

// Submit validates every section and returns the record or the full set
// of field errors.
func (f *Form) Submit() (form.Record, form.FieldErrors) {
	return f.Registry.Submit()
}
