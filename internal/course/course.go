// Package course models the admission form's course choice: five
// course-by-stream combinations sharing one radio slot, plus a standalone
// PCM tuition variant with independent subject flags. The composite wire
// identifier ("repeater_jee") is parsed once into a tagged selection so the
// rest of the system never string-matches on it.
package course

import (
	"errors"
	"fmt"
	"strings"
)

// Course identifies one row of the course table.
type Course int

const (
	CourseUnknown Course = iota
	Repeater
	Bridge
	OfflineRegular
	OnlineRegular
	HolidayVacation
	TuitionOnlyHybrid
)

// Stream tags the entrance coaching stream of an enumeration course.
type Stream int

const (
	StreamNone Stream = iota
	JEE
	NEET
)

// ErrUnknownCourse is returned when a wire identifier names no course.
var ErrUnknownCourse = errors.New("unknown course identifier")

var courseIDs = map[Course]string{
	Repeater:          "repeater",
	Bridge:            "bridge",
	OfflineRegular:    "offline_regular",
	OnlineRegular:     "online_regular",
	HolidayVacation:   "holiday_vacation",
	TuitionOnlyHybrid: "tuition_only_hybrid",
}

var courseNames = map[Course]string{
	Repeater:          "Repeater",
	Bridge:            "Bridge Course",
	OfflineRegular:    "Offline Regular Tuition & Entrance Coaching",
	OnlineRegular:     "Online Regular Tuition & Entrance Coaching",
	HolidayVacation:   "Holiday-Vacation Batch - Tuition & Entrance Coaching",
	TuitionOnlyHybrid: "PCM Tuition only",
}

// Number returns the printed course number on the paper form.
func (c Course) Number() int {
	switch c {
	case Repeater:
		return 1
	case Bridge:
		return 2
	case OfflineRegular:
		return 3
	case OnlineRegular:
		return 4
	case HolidayVacation:
		return 5
	case TuitionOnlyHybrid:
		return 6
	default:
		return 0
	}
}

// DisplayName returns the course name as printed on the form.
func (c Course) DisplayName() string { return courseNames[c] }

// ID returns the bare wire identifier of the course without a stream tag.
func (c Course) ID() string { return courseIDs[c] }

func (s Stream) suffix() string {
	switch s {
	case JEE:
		return "_jee"
	case NEET:
		return "_neet"
	default:
		return ""
	}
}

// Subjects holds the three independent flags of the standalone PCM course.
type Subjects struct {
	Physics   bool `json:"physics"`
	Chemistry bool `json:"chemistry"`
	Maths     bool `json:"maths"`
}

// Any reports whether at least one subject is ticked.
func (s Subjects) Any() bool { return s.Physics || s.Chemistry || s.Maths }

// State enumerates the three shapes a selection can be in.
type State int

const (
	Unselected State = iota
	EnumSelected
	StandaloneSelected
)

// Selection is the mutual-exclusivity engine. The zero value is Unselected.
type Selection struct {
	state    State
	course   Course
	stream   Stream
	subjects Subjects
}

// SelectEnum picks one of the five course-by-stream radios. From any state
// this lands in EnumSelected and clears all standalone subject flags.
func (s *Selection) SelectEnum(c Course, st Stream) error {
	if c == TuitionOnlyHybrid || c == CourseUnknown {
		return fmt.Errorf("course %q is not an enumeration course", c.ID())
	}
	if st != JEE && st != NEET {
		return fmt.Errorf("enumeration course requires a jee or neet stream")
	}

	s.state = EnumSelected
	s.course = c
	s.stream = st
	s.subjects = Subjects{}
	return nil
}

// SelectStandalone picks the PCM tuition radio, clearing any enumeration
// selection. The subject flags start false and are toggled afterwards.
func (s *Selection) SelectStandalone() {
	s.state = StandaloneSelected
	s.course = TuitionOnlyHybrid
	s.stream = StreamNone
	s.subjects = Subjects{}
}

// ToggleSubject flips one subject flag. Only meaningful in
// StandaloneSelected; in any other state it is rejected.
func (s *Selection) ToggleSubject(subject string, on bool) error {
	if s.state != StandaloneSelected {
		return fmt.Errorf("subject flags require the standalone course to be selected")
	}
	switch strings.ToLower(subject) {
	case "physics":
		s.subjects.Physics = on
	case "chemistry":
		s.subjects.Chemistry = on
	case "maths":
		s.subjects.Maths = on
	default:
		return fmt.Errorf("unknown subject %q", subject)
	}
	return nil
}

// State returns the current selection state.
func (s Selection) State() State { return s.state }

// Course returns the selected course, CourseUnknown when Unselected.
func (s *Selection) Course() Course {
	if s.state == Unselected {
		return CourseUnknown
	}
	return s.course
}

// Stream returns the entrance stream, StreamNone unless EnumSelected.
func (s *Selection) Stream() Stream {
	if s.state != EnumSelected {
		return StreamNone
	}
	return s.stream
}

// Subjects returns the standalone subject flags. All false unless
// StandaloneSelected.
func (s Selection) Subjects() Subjects {
	if s.state != StandaloneSelected {
		return Subjects{}
	}
	return s.subjects
}

// IsRepeater reports whether the repeater course is selected. The repeater
// path gates the +2 and entrance-exam field groups.
func (s *Selection) IsRepeater() bool {
	return s.state == EnumSelected && s.course == Repeater
}

// Validate enforces the submission rule: some course must be chosen. A
// standalone selection with no subject ticked still passes; the paper form
// treats the radio alone as a valid choice.
func (s *Selection) Validate() error {
	if s.state == Unselected {
		return errors.New("please select a course")
	}
	return nil
}

// ID renders the selection back to its composite wire identifier, or ""
// when Unselected.
func (s *Selection) ID() string {
	switch s.state {
	case EnumSelected:
		return s.course.ID() + s.stream.suffix()
	case StandaloneSelected:
		return TuitionOnlyHybrid.ID()
	default:
		return ""
	}
}

// Parse constructs a selection from a composite wire identifier such as
// "repeater_jee" or "tuition_only_hybrid". The subject flags of a
// standalone selection travel separately and are applied by the caller.
func Parse(id string) (Selection, error) {
	var s Selection
	id = strings.TrimSpace(id)
	if id == "" {
		return s, nil
	}

	if id == TuitionOnlyHybrid.ID() {
		s.SelectStandalone()
		return s, nil
	}

	stream := StreamNone
	base := id
	switch {
	case strings.HasSuffix(id, "_jee"):
		stream = JEE
		base = strings.TrimSuffix(id, "_jee")
	case strings.HasSuffix(id, "_neet"):
		stream = NEET
		base = strings.TrimSuffix(id, "_neet")
	}

	for c, cid := range courseIDs {
		if cid == base && c != TuitionOnlyHybrid {
			if err := s.SelectEnum(c, stream); err != nil {
				return Selection{}, err
			}
			return s, nil
		}
	}

	return Selection{}, fmt.Errorf("%w: %q", ErrUnknownCourse, id)
}
