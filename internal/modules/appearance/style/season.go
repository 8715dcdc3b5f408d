package style

import (
	"time"

	"github.com/issa-plus/core/internal/config"
)

// SnowActive evaluates the tri-state snow flag. True and false are literal;
// nil defers to the season: December, January, and February 1st through the
// 28th.
func SnowActive(s config.TitleSettings, now time.Time) bool {
	if s.SnowEnabled != nil {
		return *s.SnowEnabled
	}
	switch now.Month() {
	case time.December, time.January:
		return true
	case time.February:
		return now.Day() <= 28
	}
	return false
}
