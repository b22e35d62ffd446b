package appointment

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

const (
	InputDateLayout = "2006-01-02"
	StoreDateLayout = "02/01/2006"
	StoreTimeLayout = "15:04:05"
	shortTimeLayout = "15:04"
	fieldCount      = 5
	fieldSeparator  = ","
)

var ErrValidation = errors.New("invalid appointment")

var validate = validator.New(validator.WithRequiredStructEnabled())

// Record is a single appointment. Code stays empty until the record is persisted.
type Record struct {
	Code     string    `json:"code"`
	Name     string    `json:"name" validate:"required"`
	Email    string    `json:"email" validate:"required,email"`
	Date     time.Time `json:"date" validate:"required"`
	Time     time.Time `json:"time"`
	Modality string    `json:"modality" validate:"required"`
}

// ValidationError describes why raw input could not become a Record.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Reason
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

// Parse builds a Record from name, email, date (YYYY-MM-DD), time (HH:MM[:SS]) and modality.
func Parse(fields []string) (Record, error) {
	if len(fields) != fieldCount {
		return Record{}, &ValidationError{Reason: fmt.Sprintf("se esperaban %d campos y se recibieron %d", fieldCount, len(fields))}
	}
	names := [fieldCount]string{"nombre", "correo", "fecha", "hora", "modalidad"}
	for i, f := range fields {
		if strings.TrimSpace(f) == "" {
			return Record{}, &ValidationError{Field: names[i], Reason: "el campo está vacío"}
		}
	}

	date, err := time.Parse(InputDateLayout, strings.TrimSpace(fields[2]))
	if err != nil {
		return Record{}, &ValidationError{Field: "fecha", Reason: "formato esperado YYYY-MM-DD"}
	}
	clock, err := ParseClock(fields[3])
	if err != nil {
		return Record{}, err
	}

	rec := Record{
		Name:     strings.TrimSpace(fields[0]),
		Email:    strings.TrimSpace(fields[1]),
		Date:     date,
		Time:     clock,
		Modality: strings.TrimSpace(fields[4]),
	}
	if err := validate.Struct(rec); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			return Record{}, &ValidationError{Field: strings.ToLower(verrs[0].Field()), Reason: "no cumple la regla " + verrs[0].Tag()}
		}
		return Record{}, &ValidationError{Reason: err.Error()}
	}
	return rec, nil
}

// ParseLine splits a comma separated line and parses it.
func ParseLine(line string) (Record, error) {
	parts := strings.Split(line, fieldSeparator)
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return Parse(parts)
}

// ParseClock accepts HH:MM or HH:MM:SS.
func ParseClock(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	for _, layout := range []string{StoreTimeLayout, shortTimeLayout} {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, nil
		}
	}
	return time.Time{}, &ValidationError{Field: "hora", Reason: "formato esperado HH:MM:SS"}
}

// ParseDate accepts YYYY-MM-DD or DD/MM/YYYY.
func ParseDate(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	for _, layout := range []string{InputDateLayout, StoreDateLayout} {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, nil
		}
	}
	return time.Time{}, &ValidationError{Field: "fecha", Reason: "formato esperado YYYY-MM-DD"}
}

// FormatDate renders a date the way it is stored.
func FormatDate(t time.Time) string { return t.Format(StoreDateLayout) }

// FormatClock renders a time of day the way it is stored.
func FormatClock(t time.Time) string { return t.Format(StoreTimeLayout) }

// Serialize returns code, name, email, date, time, modality.
func Serialize(r Record) []string {
	return []string{
		r.Code,
		r.Name,
		r.Email,
		FormatDate(r.Date),
		FormatClock(r.Time),
		r.Modality,
	}
}
