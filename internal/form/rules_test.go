package form

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

func TestBoolNormalizesCheckboxShapes(t *testing.T) {
	require.True(t, Bool(true))
	require.True(t, Bool("true"))
	require.True(t, Bool("on"))
	require.True(t, Bool(float64(1)))
	require.True(t, Bool([]any{"on"}), "checkbox group yields array-of-one")
	require.True(t, Bool([]string{"true"}))

	require.False(t, Bool(false))
	require.False(t, Bool(nil))
	require.False(t, Bool(""))
	require.False(t, Bool([]any{}))
	require.False(t, Bool("yes"))
}

func TestStringCoercion(t *testing.T) {
	require.Equal(t, "", String(nil))
	require.Equal(t, "92.5", String(92.5))
	require.Equal(t, "92", String(float64(92)))
	require.Equal(t, "true", String(true))
	require.Equal(t, "abc", String("abc"))
}

func TestIndianMobileRule(t *testing.T) {
	rule := IndianMobile("enter a valid mobile number")
	reg := NewRegistry(zerolog.Nop())

	require.Empty(t, rule.Check("+919876543210", reg))
	require.Empty(t, rule.Check("", reg), "empty values pass; Required owns presence")

	for _, bad := range []string{
		"9876543210",     // missing prefix
		"+9198765432",    // too short
		"+9198765432101", // too long
		"+91 9876543210", // embedded space
		"+929876543210",  // wrong country code
		"+91abcdefghij",  // non-digits
	} {
		require.Equal(t, "enter a valid mobile number", rule.Check(bad, reg), "value %q", bad)
	}
}

func TestEmailRule(t *testing.T) {
	rule := Email("enter a valid email")
	reg := NewRegistry(zerolog.Nop())

	require.Empty(t, rule.Check("parent@example.com", reg))
	require.Empty(t, rule.Check("Parent.Name+tag@sub.example.co.in", reg))
	require.Equal(t, "enter a valid email", rule.Check("not-an-email", reg))
	require.Equal(t, "enter a valid email", rule.Check("a@b", reg))
}

func TestDistinctFromFoldIsCaseInsensitive(t *testing.T) {
	reg := NewRegistry(zerolog.Nop())
	reg.Declare("parentEmail")
	reg.Set("parentEmail", "Parent@Example.COM")

	rule := DistinctFromFold("parentEmail", "emails must differ")
	require.Equal(t, "emails must differ", rule.Check("parent@example.com", reg))
	require.Empty(t, rule.Check("student@example.com", reg))
}

func TestDistinctFromSkipsEmptySides(t *testing.T) {
	reg := NewRegistry(zerolog.Nop())
	reg.Declare("parentMobile")

	rule := DistinctFrom("parentMobile", "numbers must differ")
	require.Empty(t, rule.Check("+919876543210", reg), "other side unset")

	reg.Set("parentMobile", "+919876543210")
	require.Equal(t, "numbers must differ", rule.Check("+919876543210", reg))
	require.Empty(t, rule.Check("", reg))
}

func TestMatchesComparesExactly(t *testing.T) {
	reg := NewRegistry(zerolog.Nop())
	reg.Declare("parentEmail")
	reg.Set("parentEmail", "Parent@example.com")

	rule := Matches("parentEmail", "emails do not match")
	require.Empty(t, rule.Check("Parent@example.com", reg))
	require.Equal(t, "emails do not match", rule.Check("parent@example.com", reg))
}

func TestRequiredWhen(t *testing.T) {
	reg := NewRegistry(zerolog.Nop())
	reg.Declare("selectedCourse")

	repeater := func(r *Registry) bool { return String(r.Get("selectedCourse")) == "repeater_jee" }
	rule := RequiredWhen(repeater, "marks are required")

	require.Empty(t, rule.Check("", reg))

	reg.Set("selectedCourse", "repeater_jee")
	require.Equal(t, "marks are required", rule.Check("", reg))
	require.Empty(t, rule.Check("98.2", reg))
}
