package appointment

import (
	"strings"
	"time"
)

const BookingWindow = 90 * 24 * time.Hour

// Date validation outcomes, relayed verbatim to the model.
const (
	DateValid        = "La fecha es válida."
	DateNotExist     = "La fecha no existe."
	DatePast         = "La fecha ya pasó."
	DateTooFar       = "La fecha supera el límite de 90 días."
	DateWrongWeekday = "La fecha debe ser entre martes y domingo."
)

// ValidateDate checks the next occurrence of month/day relative to now.
// The date must exist, be after now, be within BookingWindow and not fall on a Monday.
func ValidateDate(now time.Time, month, day int) string {
	if month < 1 || month > 12 || day < 1 || day > 31 {
		return DateNotExist
	}

	year := now.Year()
	if int(now.Month()) > month || (int(now.Month()) == month && now.Day() > day) {
		year++
	}

	d := time.Date(year, time.Month(month), day, 0, 0, 0, 0, now.Location())
	if d.Month() != time.Month(month) || d.Day() != day {
		return DateNotExist
	}

	if !d.After(now) {
		return DatePast
	}
	if d.After(now.Add(BookingWindow)) {
		return DateTooFar
	}
	if d.Weekday() == time.Monday {
		return DateWrongWeekday
	}
	return DateValid
}

var weekdayNames = map[string]time.Weekday{
	"monday":    time.Monday,
	"tuesday":   time.Tuesday,
	"wednesday": time.Wednesday,
	"thursday":  time.Thursday,
	"friday":    time.Friday,
	"saturday":  time.Saturday,
	"sunday":    time.Sunday,
	"lunes":     time.Monday,
	"martes":    time.Tuesday,
	"miercoles": time.Wednesday,
	"miércoles": time.Wednesday,
	"jueves":    time.Thursday,
	"viernes":   time.Friday,
	"sabado":    time.Saturday,
	"sábado":    time.Saturday,
	"domingo":   time.Sunday,
}

// ParseWeekday resolves an English or Spanish weekday name, ignoring case.
func ParseWeekday(name string) (time.Weekday, bool) {
	wd, ok := weekdayNames[strings.ToLower(strings.TrimSpace(name))]
	return wd, ok
}

// NextWeekday returns the first date strictly after start that falls on wd.
func NextWeekday(start time.Time, wd time.Weekday) time.Time {
	delta := (int(wd) - int(start.Weekday()) + 7) % 7
	if delta == 0 {
		delta = 7
	}
	return start.AddDate(0, 0, delta)
}
