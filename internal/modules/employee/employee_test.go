package employee

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCreateInputValidation(t *testing.T) {
	in := CreateInput{FirstName: "  ", LastName: "Ivanova"}
	err := in.validate()
	assert.Error(t, err)
	var ve *ValidationError
	assert.ErrorAs(t, err, &ve)

	in = CreateInput{FirstName: "Anna", LastName: ""}
	assert.Error(t, in.validate())

	in = CreateInput{FirstName: " Anna ", LastName: " Ivanova "}
	assert.NoError(t, in.validate())
	assert.Equal(t, "Anna", in.FirstName)
	assert.Equal(t, "Ivanova", in.LastName)
}

func TestDaysUntilBirthday(t *testing.T) {
	now := time.Date(2026, time.August, 31, 10, 0, 0, 0, time.UTC)

	birthdayToday := time.Date(1990, time.August, 31, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, 0, daysUntilBirthday(now, birthdayToday))

	inThreeDays := time.Date(1985, time.September, 3, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, 3, daysUntilBirthday(now, inThreeDays))

	// Already passed this year: wraps to next year.
	passed := time.Date(1992, time.August, 30, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, 364, daysUntilBirthday(now, passed))
}
