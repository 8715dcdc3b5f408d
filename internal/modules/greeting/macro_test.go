package greeting

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testFields() Fields {
	birthday := time.Date(1990, time.March, 14, 0, 0, 0, 0, time.UTC)
	now := time.Date(2026, time.August, 31, 12, 0, 0, 0, time.UTC)
	return FieldsForEmployee("Anna", "Petrova", "HR", "Manager", &birthday, now)
}

func TestFieldsForEmployee(t *testing.T) {
	f := testFields()

	assert.Equal(t, "Anna", f["firstName"])
	assert.Equal(t, "Anna Petrova", f["fullName"])
	assert.Equal(t, "HR", f["department"])
	assert.Equal(t, 36, f["age"])
}

func TestFieldsForEmployeeAgeBeforeAnniversary(t *testing.T) {
	birthday := time.Date(1990, time.December, 1, 0, 0, 0, 0, time.UTC)
	now := time.Date(2026, time.August, 31, 12, 0, 0, 0, time.UTC)
	f := FieldsForEmployee("A", "B", "", "", &birthday, now)

	assert.Equal(t, 35, f["age"])
}

func TestFieldsForEmployeeNoBirthday(t *testing.T) {
	f := FieldsForEmployee("A", "B", "", "", nil, time.Now())

	_, hasAge := f["age"]
	assert.False(t, hasAge)
}

func TestExpandMacrosFieldSubstitution(t *testing.T) {
	out := ExpandMacros("Dear [[ $firstName ]] [[$lastName]]!", testFields())

	assert.Equal(t, "Dear Anna Petrova!", out)
}

func TestExpandMacrosUnknownFieldLeftVerbatim(t *testing.T) {
	out := ExpandMacros("Hello [[ $nickname ]]", testFields())

	assert.Equal(t, "Hello [[ $nickname ]]", out)
}

func TestExpandMacrosConditional(t *testing.T) {
	fields := testFields()

	assert.Equal(t, "senior",
		ExpandMacros(`[[ ?$age > 30|senior|junior? ]]`, fields))
	assert.Equal(t, "people team",
		ExpandMacros(`[[ ?$department == HR|people team|other? ]]`, fields))
	assert.Equal(t, "other",
		ExpandMacros(`[[ ?$department != HR|x|other? ]]`, fields))
}

func TestExpandMacrosConditionalMalformedLeftVerbatim(t *testing.T) {
	out := ExpandMacros(`[[ ?$age > 30|only-two-parts? ]]`, testFields())

	assert.Equal(t, `[[ ?$age > 30|only-two-parts? ]]`, out)
}

func TestExpandMacrosJSExpression(t *testing.T) {
	out := ExpandMacros("[[ #age + 1 ]]", testFields())

	assert.Equal(t, "37", out)
}

func TestExpandMacrosJSBuiltins(t *testing.T) {
	fields := testFields()

	assert.Equal(t, `<p align="center">hi</p>`,
		ExpandMacros(`[[ #center("hi") ]]`, fields))
	assert.Equal(t, `<span style="color: #e53935">hot</span>`,
		ExpandMacros(`[[ #color("hot", "#e53935") ]]`, fields))
	assert.Equal(t, `<span style="font-size: 2em">big</span>`,
		ExpandMacros(`[[ #size("big", "2em") ]]`, fields))
	assert.Equal(t, "1990-03-14",
		ExpandMacros(`[[ #dayjs("1990-03-14").format("YYYY-MM-DD") ]]`, fields))
}

func TestExpandMacrosJSErrorLeftVerbatim(t *testing.T) {
	out := ExpandMacros("[[ #nosuchfunc() ]]", testFields())

	assert.Equal(t, "[[ #nosuchfunc() ]]", out)
}

func TestExpandMacrosMixedText(t *testing.T) {
	body := "Happy birthday, [[ $firstName ]]! You turn [[ #age + 1 ]] today."
	out := ExpandMacros(body, testFields())

	assert.Equal(t, "Happy birthday, Anna! You turn 37 today.", out)
}

func TestFromNowString(t *testing.T) {
	now := time.Date(2026, time.August, 31, 12, 0, 0, 0, time.UTC)

	assert.Equal(t, "a few seconds ago", fromNowString(now.Add(-10*time.Second), now))
	assert.Equal(t, "3 minutes ago", fromNowString(now.Add(-3*time.Minute), now))
	assert.Equal(t, "in 2 days", fromNowString(now.Add(48*time.Hour), now))
	assert.Equal(t, "2 years ago", fromNowString(now.AddDate(-2, 0, 0), now))
}

func TestRenderPreview(t *testing.T) {
	body := "# Hello [[ $firstName ]]\n\nHave a **great** day."
	html, err := RenderPreview(body, testFields())
	require.NoError(t, err)

	assert.Contains(t, html, "Hello Anna")
	assert.Contains(t, html, "<strong>great</strong>")
}
