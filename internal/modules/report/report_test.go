package report

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDay(t *testing.T) {
	day, err := parseDay("2026-08-31")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, time.August, 31, 0, 0, 0, 0, time.UTC), day)

	day, err = parseDay("2026-08-31T14:30:00Z")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, time.August, 31, 0, 0, 0, 0, time.UTC), day)

	_, err = parseDay("31.08.2026")
	assert.ErrorIs(t, err, ErrInvalid)

	_, err = parseDay("")
	assert.ErrorIs(t, err, ErrInvalid)
}
