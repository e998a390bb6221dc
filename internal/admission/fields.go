package admission

// Field names of the application form, matching the wire payload keys.
const (
	FieldSelectedCourse = "selectedCourse"
	FieldPhysics        = "physics"
	FieldChemistry      = "chemistry"
	FieldMaths          = "maths"
	FieldRollNumber     = "rollNumber"

	FieldName        = "name"
	FieldGender      = "gender"
	FieldDateOfBirth = "dateOfBirth"
	FieldFathersName = "fathersName"
	FieldOccupation  = "occupation"
	FieldAddress     = "address"
	FieldPincode     = "pincode"

	FieldParentMobile        = "parentMobile"
	FieldAlternateMobile     = "alternateMobile"
	FieldParentWhatsapp      = "parentWhatsapp"
	FieldStudentMobile       = "studentMobile"
	FieldParentEmail         = "parentEmail"
	FieldParentEmailConfirm  = "parentEmailConfirm"
	FieldStudentEmail        = "studentEmail"
	FieldStudentEmailConfirm = "studentEmailConfirm"

	FieldTenthSchoolName   = "tenthSchoolName"
	FieldTenthBoard        = "tenthBoard"
	FieldTenthMarks        = "tenthMarks"
	FieldTenthMarklist     = "tenthMarklist"
	FieldPlusTwoSchoolName = "plusTwoSchoolName"
	FieldPlusTwoBoard      = "plusTwoBoard"
	FieldPlusTwoMarks      = "plusTwoMarks"
	FieldPlusTwoMarklist   = "plusTwoMarklist"
	FieldJEEMainMarks      = "jeeMainMarks"
	FieldNEETMarks         = "neetMarks"

	FieldStudentName       = "studentName"
	FieldAccountHolderName = "accountHolderName"
	FieldAmountRemitted    = "amountRemitted"
	FieldBankName          = "bankName"
	FieldReferenceNumber   = "referenceNumber"
	FieldRemittanceDate    = "remittanceDate"
	FieldMobileNumber      = "mobileNumber"

	FieldTermsAgreed  = "termsAgreed"
	FieldRefundAgreed = "refundAgreed"

	FieldPhoto            = "photo"
	FieldStudentSignature = "studentSignature"
	FieldParentSignature  = "parentSignature"

	FieldCourseFee                 = "courseFee"
	FieldConcessionAmount          = "concessionAmount"
	FieldBalanceFeePayable         = "balanceFeePayable"
	FieldAmountPaidDuringAdmission = "amountPaidDuringAdmission"
	FieldFeeReceiptNo              = "feeReceiptNo"
	FieldReceiptDate               = "receiptDate"
	FieldBalanceDue                = "balanceDue"
	FieldReasonForConcession       = "reasonForConcession"
	FieldAuthorisedPersonName      = "authorisedPersonName"
	FieldAuthorisedPersonSignature = "authorisedPersonSignature"

	// Legacy receipt field kept for records stored before the split into
	// number and date.
	FieldFeeReceiptNoAndDate = "feeReceiptNoAndDate"

	// UI-only discriminant for the marks input mode; stripped before
	// dispatch.
	FieldMarksType = "marksType"
)

// BoardOptions are the selectable boards for both educational levels.
var BoardOptions = []string{"CBSE", "STATE BOARD", "ICSE", "Others"}
