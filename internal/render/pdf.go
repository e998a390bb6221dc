// Package render lays out the printable application form: a fixed
// two-page A4 document mirroring the paper form. Rendering is a pure
// function of a stored record, never of live form state, so a record
// loaded straight from the API renders identically to one just submitted.
package render

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"strconv"
	"time"

	"github.com/jung-kurt/gofpdf"
	"github.com/rs/zerolog"

	"github.com/pctclasses/admission-form/internal/admission"
	"github.com/pctclasses/admission-form/internal/course"
	"github.com/pctclasses/admission-form/internal/dto"
	"github.com/pctclasses/admission-form/internal/marks"
)

// ArtifactName is the file name of the generated document.
const ArtifactName = "application-form.pdf"

const instituteName = "Prof. P. C. Thomas Classes & Chaithanya Classes"

// Renderer generates the printable application form.
type Renderer struct {
	images ImageLoader
	logger zerolog.Logger
}

// New constructs a renderer. A nil loader disables image inlining.
func New(images ImageLoader, logger zerolog.Logger) *Renderer {
	if images == nil {
		images = noImages
	}
	return &Renderer{
		images: images,
		logger: logger.With().Str("component", "document_renderer").Logger(),
	}
}

type doc struct {
	pdf    *gofpdf.Fpdf
	r      *Renderer
	record dto.ApplicationRecord
	seq    int
}

// Render produces the two-page PDF for a record. The office-use block is
// included only in edit mode.
func (r *Renderer) Render(record dto.ApplicationRecord, editMode bool) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(15, 10, 15)
	pdf.SetAutoPageBreak(false, 10)

	d := &doc{pdf: pdf, r: r, record: record}

	d.firstPage()
	d.secondPage(editMode)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to generate document: %w", err)
	}

	r.logger.Info().Int("bytes", buf.Len()).Msg("application document rendered")
	return buf.Bytes(), nil
}

func (d *doc) firstPage() {
	pdf := d.pdf
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 12)
	pdf.CellFormat(0, 6, instituteName, "", 1, "C", false, 0, "")
	pdf.SetFont("Helvetica", "", 10)
	pdf.CellFormat(0, 5, "APPLICATION FORM", "", 1, "C", false, 0, "")

	// Roll number box, top right.
	pdf.SetFont("Helvetica", "", 8)
	pdf.Text(168, 24, "Roll No")
	pdf.Rect(165, 25, 25, 8, "D")
	if roll := d.record.Str(admission.FieldRollNumber); roll != "" {
		pdf.SetFont("Helvetica", "", 9)
		pdf.Text(167, 30, roll)
	}
	pdf.Ln(8)

	d.courseTable()
	d.photoBox()
	d.personalSection()
	d.parentSection()
	d.educationalSection()
}

// courseTable prints the header and only the applicable row of the course
// selection table.
func (d *doc) courseTable() {
	pdf := d.pdf

	d.sectionTitle("Course Selection")

	sel, _ := course.Parse(d.record.Str(admission.FieldSelectedCourse))
	physics := d.record.Bool(admission.FieldPhysics)
	chemistry := d.record.Bool(admission.FieldChemistry)
	maths := d.record.Bool(admission.FieldMaths)

	const (
		noW     = 15.0
		nameW   = 90.0
		streamW = 27.0
		rowH    = 7.0
	)

	pdf.SetFont("Helvetica", "B", 8)
	pdf.CellFormat(noW, rowH, "Course No.", "1", 0, "C", false, 0, "")
	pdf.CellFormat(nameW, rowH, "Course", "1", 0, "L", false, 0, "")
	pdf.CellFormat(streamW, rowH, "JEE Stream", "1", 0, "C", false, 0, "")
	pdf.CellFormat(streamW, rowH, "NEET Stream", "1", 1, "C", false, 0, "")

	pdf.SetFont("Helvetica", "", 8)
	switch {
	case sel.State() == course.EnumSelected:
		c := sel.Course()
		pdf.CellFormat(noW, rowH, strconv.Itoa(c.Number()), "1", 0, "C", false, 0, "")
		pdf.CellFormat(nameW, rowH, c.DisplayName(), "1", 0, "L", false, 0, "")
		d.streamCell(streamW, rowH, sel.Stream() == course.JEE)
		d.streamCell(streamW, rowH, sel.Stream() == course.NEET)
		pdf.Ln(rowH)
	case sel.State() == course.StandaloneSelected || physics || chemistry || maths:
		c := course.TuitionOnlyHybrid
		pdf.CellFormat(noW, rowH, strconv.Itoa(c.Number()), "1", 0, "C", false, 0, "")
		pdf.CellFormat(nameW, rowH, c.DisplayName(), "1", 0, "L", false, 0, "")
		x, y := pdf.GetXY()
		pdf.CellFormat(streamW*2, rowH, "", "1", 1, "C", false, 0, "")
		d.subjectBox(x+4, y+2, "Phy", physics)
		d.subjectBox(x+22, y+2, "Che", chemistry)
		d.subjectBox(x+40, y+2, "Maths", maths)
	}
	pdf.Ln(2)
}

func (d *doc) streamCell(w, h float64, checked bool) {
	pdf := d.pdf
	x, y := pdf.GetXY()
	pdf.CellFormat(w, h, "", "1", 0, "C", false, 0, "")
	d.checkbox(x+w/2-1.5, y+h/2-1.5, checked)
}

func (d *doc) subjectBox(x, y float64, label string, checked bool) {
	pdf := d.pdf
	pdf.SetFont("Helvetica", "", 7)
	pdf.Text(x, y+2.6, label)
	d.checkbox(x+8, y, checked)
}

func (d *doc) checkbox(x, y float64, checked bool) {
	pdf := d.pdf
	pdf.Rect(x, y, 3, 3, "D")
	if checked {
		pdf.SetFillColor(0, 0, 0)
		pdf.Rect(x+0.7, y+0.7, 1.6, 1.6, "F")
	}
}

func (d *doc) photoBox() {
	pdf := d.pdf
	const x, y, w, h = 165.0, 60.0, 25.0, 30.0
	pdf.Rect(x, y, w, h, "D")
	if !d.inlineImage(d.record.Str(admission.FieldPhoto), "photo", x+0.5, y+0.5, w-1, h-1) {
		pdf.SetFont("Helvetica", "", 8)
		pdf.Text(x+8, y+h/2, "PHOTO")
	}
}

func (d *doc) sectionTitle(title string) {
	pdf := d.pdf
	pdf.SetFont("Helvetica", "B", 10)
	pdf.CellFormat(0, 6, title, "", 1, "C", false, 0, "")
}

// row prints one numbered label/value line of the paper form.
func (d *doc) row(label, value string) {
	d.seq++
	pdf := d.pdf
	pdf.SetFont("Helvetica", "", 9)
	pdf.CellFormat(60, 6, fmt.Sprintf("%d. %s", d.seq, label), "", 0, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 9)
	pdf.CellFormat(85, 6, value, "1", 1, "L", false, 0, "")
	pdf.Ln(0.5)
}

func (d *doc) personalSection() {
	rec := d.record
	d.sectionTitle("Personal Information")

	d.row("Name", rec.Str(admission.FieldName))

	// Sex and date of birth share the printed row.
	d.seq++
	pdf := d.pdf
	pdf.SetFont("Helvetica", "", 9)
	pdf.CellFormat(20, 6, fmt.Sprintf("%d. Sex", d.seq), "", 0, "L", false, 0, "")
	gender := rec.Str(admission.FieldGender)
	d.radio(gender == "Male", "Male")
	d.radio(gender == "Female", "Female")
	pdf.CellFormat(28, 6, "Date of Birth", "", 0, "R", false, 0, "")
	pdf.CellFormat(28, 6, formatDate(rec.Str(admission.FieldDateOfBirth)), "1", 1, "C", false, 0, "")
	pdf.Ln(0.5)

	d.row("Father's Name", rec.Str(admission.FieldFathersName))
	d.row("Occupation", rec.Str(admission.FieldOccupation))

	d.seq++
	pdf.SetFont("Helvetica", "", 9)
	pdf.CellFormat(60, 6, fmt.Sprintf("%d. Address", d.seq), "", 0, "L", false, 0, "")
	x := pdf.GetX()
	pdf.MultiCell(85, 6, rec.Str(admission.FieldAddress), "1", "L", false)
	pdf.SetX(x)
	pdf.CellFormat(10, 6, "Pin", "", 0, "L", false, 0, "")
	pdf.CellFormat(28, 6, rec.Str(admission.FieldPincode), "1", 1, "C", false, 0, "")
	pdf.Ln(0.5)
}

func (d *doc) radio(selected bool, label string) {
	pdf := d.pdf
	x, y := pdf.GetXY()
	pdf.Circle(x+2, y+3, 1.5, "D")
	if selected {
		pdf.SetFillColor(0, 0, 0)
		pdf.Circle(x+2, y+3, 0.8, "F")
	}
	pdf.SetXY(x+4.5, y)
	pdf.CellFormat(14, 6, label, "", 0, "L", false, 0, "")
}

func (d *doc) parentSection() {
	rec := d.record
	d.sectionTitle("Parent/Guardian Information")

	d.row("Parent Mobile No", rec.Str(admission.FieldParentMobile))
	d.rowUnnumbered("Alternate Mobile No", rec.Str(admission.FieldAlternateMobile))
	d.row("Parent's Whatsapp No", rec.Str(admission.FieldParentWhatsapp))
	d.row("Student Mobile number", rec.Str(admission.FieldStudentMobile))
	d.row("Parent's E-mail", rec.Str(admission.FieldParentEmail))
	d.row("Student's E-mail", rec.Str(admission.FieldStudentEmail))
}

func (d *doc) rowUnnumbered(label, value string) {
	pdf := d.pdf
	pdf.SetFont("Helvetica", "", 9)
	pdf.CellFormat(60, 6, "    "+label, "", 0, "L", false, 0, "")
	pdf.CellFormat(85, 6, value, "1", 1, "L", false, 0, "")
	pdf.Ln(0.5)
}

// marksDisplay re-derives the flat display value from the raw record
// shape: nested sheets go through the fixed-order inverse, flat values
// print as-is.
func marksDisplay(v any) string {
	if sheet, ok := marks.FromAny(v); ok {
		return marks.Flatten(sheet)
	}
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	default:
		return fmt.Sprintf("%v", t)
	}
}

// firstVal returns the first present key's value, letting legacy alias
// field names resolve while preferring the structured name.
func firstVal(rec dto.ApplicationRecord, keys ...string) any {
	for _, k := range keys {
		if v, ok := rec[k]; ok && v != nil {
			if s, isStr := v.(string); isStr && s == "" {
				continue
			}
			return v
		}
	}
	return nil
}

func (d *doc) educationalSection() {
	rec := d.record
	d.sectionTitle("Educational Details")

	tenthSchool := rec.FirstStr(admission.FieldTenthSchoolName, "schoolName")
	tenthBoard := rec.FirstStr(admission.FieldTenthBoard, "board")
	tenthMarks := marksDisplay(firstVal(rec, admission.FieldTenthMarks, "marks"))

	d.row("Name of School (10th Std)", tenthSchool)
	d.row("Board (10th Std)", tenthBoard)
	d.row("Marks/Percentage (10th)", tenthMarks)

	sel, _ := course.Parse(rec.Str(admission.FieldSelectedCourse))

	plusTwoSchool := rec.FirstStr(admission.FieldPlusTwoSchoolName, "schoolNamePlusTwo")
	plusTwoBoard := rec.FirstStr(admission.FieldPlusTwoBoard, "boardPlusTwo")
	plusTwoMarks := marksDisplay(firstVal(rec, admission.FieldPlusTwoMarks, "marksPlusTwo"))

	if sel.IsRepeater() || plusTwoSchool != "" || plusTwoBoard != "" || plusTwoMarks != "" {
		d.row("Name of School (+2/12th Std)", plusTwoSchool)
		d.row("Board (+2/12th Std)", plusTwoBoard)
		d.row("Marks/Percentage (+2/12th)", plusTwoMarks)
	}

	if sel.IsRepeater() {
		switch sel.Stream() {
		case course.JEE:
			d.row("JEE Main Percentile", rec.Str(admission.FieldJEEMainMarks))
		case course.NEET:
			d.row("NEET Marks", rec.Str(admission.FieldNEETMarks))
		}
	}
}

func (d *doc) secondPage(editMode bool) {
	pdf := d.pdf
	pdf.AddPage()
	rec := d.record

	d.sectionTitle("Payment Details")
	d.paymentRow("Name of the Student", rec.Str(admission.FieldStudentName))
	d.paymentRow("Name of the Account Holder", rec.Str(admission.FieldAccountHolderName))
	d.paymentRow("Amount Remitted", numberDisplay(rec[admission.FieldAmountRemitted]))
	d.paymentRow("Name of Bank", rec.Str(admission.FieldBankName))
	d.paymentRow("Reference Number", rec.Str(admission.FieldReferenceNumber))
	d.paymentRow("Date of Remittance", rec.Str(admission.FieldRemittanceDate))
	d.paymentRow("Mobile No", rec.Str(admission.FieldMobileNumber))
	pdf.Ln(2)

	d.sectionTitle("Terms and Conditions")
	pdf.SetFont("Helvetica", "", 8)
	for _, term := range termsText {
		pdf.MultiCell(0, 4, term, "", "L", false)
	}
	pdf.Ln(2)

	// Refund policy in its own bordered block.
	x, y := pdf.GetXY()
	pdf.SetFont("Helvetica", "B", 9)
	pdf.CellFormat(0, 5, "REFUND OF FEES (General Norms)", "", 1, "C", false, 0, "")
	pdf.SetFont("Helvetica", "", 7.5)
	for _, line := range refundText {
		pdf.MultiCell(0, 3.4, line, "", "L", false)
	}
	pdf.Rect(x-1, y-1, 182, pdf.GetY()-y+2, "D")
	pdf.Ln(2)

	pdf.SetFont("Helvetica", "B", 8)
	pdf.CellFormat(0, 4, "I agree to it.", "", 1, "L", false, 0, "")

	d.signatureSection()

	if editMode {
		d.officeSection()
	}
}

func (d *doc) paymentRow(label, value string) {
	pdf := d.pdf
	pdf.SetFont("Helvetica", "B", 9)
	pdf.CellFormat(65, 6, label, "", 0, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 9)
	pdf.CellFormat(0, 6, value, "1", 1, "L", false, 0, "")
	pdf.Ln(0.5)
}

func numberDisplay(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case string:
		return t
	default:
		return fmt.Sprintf("%v", t)
	}
}

func (d *doc) signatureSection() {
	pdf := d.pdf
	rec := d.record

	d.sectionTitle("Signatures")
	y := pdf.GetY()

	d.signatureBox(20, y, "Signature of Student", rec.Str(admission.FieldStudentSignature), "sig-student")
	d.signatureBox(85, y, "Signature of Parent", rec.Str(admission.FieldParentSignature), "sig-parent")

	pdf.SetFont("Helvetica", "", 9)
	pdf.Text(150, y+4, "Date")
	pdf.Rect(150, y+6, 35, 8, "D")
	pdf.SetFont("Helvetica", "", 9)
	pdf.Text(152, y+11, time.Now().Format("02/01/2006"))

	pdf.SetY(y + 28)
}

func (d *doc) signatureBox(x, y float64, label, uri, name string) {
	pdf := d.pdf
	pdf.SetFont("Helvetica", "", 9)
	pdf.Text(x, y+4, label)
	pdf.Rect(x, y+6, 35, 18, "D")
	d.inlineImage(uri, name, x+0.5, y+6.5, 34, 17)
}

func (d *doc) officeSection() {
	pdf := d.pdf
	rec := d.record

	pdf.SetFont("Helvetica", "BI", 10)
	pdf.CellFormat(0, 6, "For Office Use Only", "", 1, "C", false, 0, "")

	rows := []struct {
		label string
		value string
	}{
		{"Course Fee", numberDisplay(rec[admission.FieldCourseFee])},
		{"Concession Amount", numberDisplay(rec[admission.FieldConcessionAmount])},
		{"Balance Fee payable", numberDisplay(rec[admission.FieldBalanceFeePayable])},
		{"Amount paid during admission", numberDisplay(rec[admission.FieldAmountPaidDuringAdmission])},
		{"Fee Receipt No.", rec.FirstStr(admission.FieldFeeReceiptNo, admission.FieldFeeReceiptNoAndDate)},
		{"Receipt Date", rec.Str(admission.FieldReceiptDate)},
		{"Balance due", numberDisplay(rec[admission.FieldBalanceDue])},
		{"Reason for concession", rec.Str(admission.FieldReasonForConcession)},
	}

	pdf.SetFont("Helvetica", "", 9)
	for _, row := range rows {
		pdf.CellFormat(90, 6, row.label, "1", 0, "L", false, 0, "")
		pdf.CellFormat(90, 6, row.value, "1", 1, "L", false, 0, "")
	}

	y := pdf.GetY()
	pdf.CellFormat(90, 12, "", "1", 0, "L", false, 0, "")
	pdf.CellFormat(90, 12, "", "1", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 8)
	pdf.Text(17, y+4, "Name & Signature of Authorised Person")
	if name := rec.Str(admission.FieldAuthorisedPersonName); name != "" {
		pdf.SetFont("Helvetica", "B", 9)
		pdf.Text(17, y+9, name)
	}
	d.inlineImage(rec.Str(admission.FieldAuthorisedPersonSignature), "sig-office", 110, y+1, 30, 10)
}

// inlineImage places an image loaded from a data URI or remote URL. A
// missing or unloadable image degrades to the empty box. Bytes are
// decoded up front: gofpdf latches registration errors for the whole
// document, so nothing questionable may reach it.
func (d *doc) inlineImage(uri, name string, x, y, w, h float64) bool {
	if uri == "" {
		return false
	}

	data, imageType, err := d.r.images(uri)
	if err != nil {
		d.r.logger.Warn().Err(err).Str("image", name).Msg("skipping image")
		return false
	}
	if _, _, err := image.DecodeConfig(bytes.NewReader(data)); err != nil {
		d.r.logger.Warn().Err(err).Str("image", name).Msg("skipping undecodable image")
		return false
	}

	opts := gofpdf.ImageOptions{ImageType: imageType, ReadDpi: false}
	d.pdf.RegisterImageOptionsReader(name, opts, bytes.NewReader(data))
	d.pdf.ImageOptions(name, x, y, w, h, false, opts, 0, "")
	return true
}

var termsText = []string{
	"a) I have received the Prospectus and gone through it.",
	"b) I will not discontinue the course",
	"c) I am agreable to all the changes in the time table you make according to necessity",
	"d) I shall obey all the rules regarding discipline.",
	"e) Your decision will be final on matters regarding discipline.",
	"f) Prof. P. C. Thomas Classes reserve the absolute right to decide the mode of coaching.",
}

var refundText = []string{
	"If you discontinue the class room course you have joined, you are entitled for a partial refund of fee, as per the following norms",
	"a) The application for refund must be made in the prescribed form available free of cost from the office on request.",
	"b) Admission fees will not be refunded.",
	"c) The cost of study material supplied at the time of admission or later will not be refunded.",
	"d) GST will not be refunded.",
	"e) For getting refund of the remaining amount the student or guardian has to apply in the prescribed application form. If the application is submitted in person, he will get a receipt indicating the date of receiving the application. If not submitted in person the application is to be sent by registered post A/D. The date of receiving the application will be taken for calculating the amount of refund.",
	"f) (1) Number of sessions taken for deduction at the above rates will be the sessions conducted at the centre between the starting of the course and the receipt of refund application. Whether the student was actually present or not is not taken into consideration.",
	"(2) The actual number of sessions conducted may be more than the quoted above. It depends on the time available before the examination. Any how these sessions will not be included for refund.",
	"g) An amount of Rs. 650/Session for Repeater and Rs. 200/Session for other courses will be deducted for each teaching session conducted after the date of joining",
	"h) The following items namely (1) Fee Receipt (2) must be surrendered along with the application for refund. Without the above items the refund cannot be made.",
	"i) The refund amount will be given as crossed cheque in the name of the parent or guardian within 30 days after the receipt of the application for refund.",
}

func formatDate(raw string) string {
	if raw == "" {
		return ""
	}
	for _, layout := range []string{"2006-01-02", time.RFC3339} {
		if t, err := time.Parse(layout, raw); err == nil {
			return t.Format("02/01/2006")
		}
	}
	return raw
}
