package course

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSelectEnumClearsSubjectFlags(t *testing.T) {
	var s Selection
	s.SelectStandalone()
	require.NoError(t, s.ToggleSubject("physics", true))
	require.NoError(t, s.ToggleSubject("maths", true))
	require.True(t, s.Subjects().Any())

	require.NoError(t, s.SelectEnum(Repeater, JEE))
	require.Equal(t, EnumSelected, s.State())
	require.False(t, s.Subjects().Any())
	require.Equal(t, "repeater_jee", s.ID())
}

func TestSelectStandaloneClearsEnumSelection(t *testing.T) {
	var s Selection
	require.NoError(t, s.SelectEnum(OfflineRegular, NEET))

	s.SelectStandalone()
	require.Equal(t, StandaloneSelected, s.State())
	require.Equal(t, StreamNone, s.Stream())
	require.Equal(t, "tuition_only_hybrid", s.ID())
	require.False(t, s.Subjects().Any())
}

func TestToggleSubjectRequiresStandalone(t *testing.T) {
	var s Selection
	require.Error(t, s.ToggleSubject("physics", true))

	require.NoError(t, s.SelectEnum(Bridge, JEE))
	require.Error(t, s.ToggleSubject("chemistry", true))

	s.SelectStandalone()
	require.NoError(t, s.ToggleSubject("chemistry", true))
	require.True(t, s.Subjects().Chemistry)
	require.NoError(t, s.ToggleSubject("chemistry", false))
	require.False(t, s.Subjects().Any())

	require.Error(t, s.ToggleSubject("biology", true))
}

func TestSelectEnumRejectsStandaloneCourse(t *testing.T) {
	var s Selection
	require.Error(t, s.SelectEnum(TuitionOnlyHybrid, JEE))
	require.Error(t, s.SelectEnum(Repeater, StreamNone))
}

func TestValidate(t *testing.T) {
	var s Selection
	require.EqualError(t, s.Validate(), "please select a course")

	s.SelectStandalone()
	require.NoError(t, s.Validate(), "standalone radio alone is a valid choice")

	require.NoError(t, s.SelectEnum(HolidayVacation, NEET))
	require.NoError(t, s.Validate())
}

func TestParseRoundTrip(t *testing.T) {
	ids := []string{
		"repeater_jee", "repeater_neet",
		"bridge_jee", "bridge_neet",
		"offline_regular_jee", "offline_regular_neet",
		"online_regular_jee", "online_regular_neet",
		"holiday_vacation_jee", "holiday_vacation_neet",
		"tuition_only_hybrid",
	}

	for _, id := range ids {
		s, err := Parse(id)
		require.NoError(t, err, id)
		require.Equal(t, id, s.ID())
	}
}

func TestParseEdgeCases(t *testing.T) {
	s, err := Parse("")
	require.NoError(t, err)
	require.Equal(t, Unselected, s.State())

	_, err = Parse("repeater")
	require.Error(t, err, "enumeration id without a stream suffix")

	_, err = Parse("weekend_batch_jee")
	require.ErrorIs(t, err, ErrUnknownCourse)
}

func TestIsRepeater(t *testing.T) {
	var s Selection
	require.NoError(t, s.SelectEnum(Repeater, NEET))
	require.True(t, s.IsRepeater())

	require.NoError(t, s.SelectEnum(Bridge, NEET))
	require.False(t, s.IsRepeater())

	s.SelectStandalone()
	require.False(t, s.IsRepeater())
}

func TestCourseTableMetadata(t *testing.T) {
	require.Equal(t, 1, Repeater.Number())
	require.Equal(t, 6, TuitionOnlyHybrid.Number())
	require.Equal(t, "PCM Tuition only", TuitionOnlyHybrid.DisplayName())
	require.Equal(t, "Repeater", Repeater.DisplayName())
}
