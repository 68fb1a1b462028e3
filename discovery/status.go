package discovery

import (
	"time"

	"makanloka-backend/models"
)

// DefaultPlatformOffsetMinutes is the platform's reference offset from UTC
// (WIB, UTC+7). Weekday rollover happens at local midnight, not UTC midnight.
const DefaultPlatformOffsetMinutes = 7 * 60

// WeekdayAt derives the platform-local weekday for a UTC instant.
func WeekdayAt(now time.Time, refOffsetMinutes int) time.Weekday {
	return now.UTC().Add(time.Duration(refOffsetMinutes) * time.Minute).Weekday()
}

// IsOperationallyOpen decides whether a store is presently open. The clock
// and weekday source are explicit parameters so boundary cases are testable.
//
// Fail-closed: no schedule row for today, a day toggled off, or no matching
// shift window all mean closed. The manual is_store_open flag gates
// everything; a day-level (or store-level) 24h override skips the shift
// window check. Shift hours are UTC-normalized "HH:MM" strings compared as
// open <= now < close.
func IsOperationallyOpen(manualOpen, storeAlways24h bool, week []models.OperationalHours, now time.Time, refOffsetMinutes int) bool {
	if !manualOpen {
		return false
	}

	day := int(WeekdayAt(now, refOffsetMinutes))
	var today *models.OperationalHours
	for i := range week {
		if week[i].DayOfWeek == day {
			today = &week[i]
			break
		}
	}
	if today == nil {
		return false
	}
	if !today.IsOpen {
		return false
	}
	if storeAlways24h || today.IsOpen24h {
		return true
	}

	current := now.UTC().Format("15:04")
	for _, shift := range today.Shifts {
		if shift.OpenHour <= current && current < shift.CloseHour {
			return true
		}
	}
	return false
}
