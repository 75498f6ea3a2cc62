// Package validate contains the field validators applied before any record
// is written. All validators are pure and fail closed.
package validate

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/ecoparque/residuos-go/internal/errors"
	"github.com/ecoparque/residuos-go/internal/schema"
)

// Sentinel errors identifying the validation failure kind. Callers match
// them with errors.Is.
var (
	ErrInvalidFormat   = errors.NewStd("invalid format")
	ErrOutOfRange      = errors.NewStd("value out of range")
	ErrTooLarge        = errors.NewStd("payload too large")
	ErrUnsupportedType = errors.NewStd("unsupported file type")
	ErrCorrupt         = errors.NewStd("corrupt payload")
	ErrFutureDate      = errors.NewStd("date is in the future")
	ErrMissingField    = errors.NewStd("missing required field")
)

// gpsPattern matches "lat, lon" with optional sign and decimals.
var gpsPattern = regexp.MustCompile(`^-?\d+(\.\d+)?\s*,\s*-?\d+(\.\d+)?$`)

// Latitude and longitude bounds in decimal degrees.
const (
	LatMin = -90.0
	LatMax = 90.0
	LonMin = -180.0
	LonMax = 180.0
)

func validationErr(err error, field string) error {
	return errors.New(err).
		Component("validate").
		Category(errors.CategoryValidation).
		Context("field", field).
		Build()
}

// ParseGPS parses and validates a "lat, lon" coordinate string, returning
// the numeric pair.
func ParseGPS(s string) (lat, lon float64, err error) {
	trimmed := strings.TrimSpace(s)
	if !gpsPattern.MatchString(trimmed) {
		return 0, 0, validationErr(fmt.Errorf("coordinates %q: %w", s, ErrInvalidFormat), "coordenadas_gps")
	}

	parts := strings.SplitN(trimmed, ",", 2)
	lat, err = strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	if err != nil {
		return 0, 0, validationErr(fmt.Errorf("latitude %q: %w", parts[0], ErrInvalidFormat), "coordenadas_gps")
	}
	lon, err = strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if err != nil {
		return 0, 0, validationErr(fmt.Errorf("longitude %q: %w", parts[1], ErrInvalidFormat), "coordenadas_gps")
	}

	if lat < LatMin || lat > LatMax {
		return 0, 0, validationErr(fmt.Errorf("latitude %v outside [%v, %v]: %w", lat, LatMin, LatMax, ErrOutOfRange), "coordenadas_gps")
	}
	if lon < LonMin || lon > LonMax {
		return 0, 0, validationErr(fmt.Errorf("longitude %v outside [%v, %v]: %w", lon, LonMin, LonMax, ErrOutOfRange), "coordenadas_gps")
	}
	return lat, lon, nil
}

// GPS validates a "lat, lon" coordinate string.
func GPS(s string) error {
	_, _, err := ParseGPS(s)
	return err
}

// Weight checks that w lies within [minKg, maxKg].
func Weight(w, minKg, maxKg float64) error {
	if w < minKg || w > maxKg {
		return validationErr(fmt.Errorf("weight %v kg outside [%v, %v]: %w", w, minKg, maxKg, ErrOutOfRange), "peso_kg")
	}
	return nil
}

// Date checks that d does not lie after now, at calendar-date granularity.
// The comparison uses the calendar date in each value's own location, so a
// record dated today is accepted regardless of the server's UTC offset.
func Date(d, now time.Time) error {
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	day := time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, time.UTC)
	if day.After(today) {
		return validationErr(fmt.Errorf("date %s: %w", d.Format(schema.DateLayout), ErrFutureDate), "fecha")
	}
	return nil
}

// Required checks that every required column of desc has a non-empty value
// in fields. The id column is exempt, it is allocated by the system.
func Required(fields map[string]string, desc *schema.Descriptor) error {
	for i := range desc.Columns {
		col := &desc.Columns[i]
		if !col.Required || col.Name == schema.ColumnID {
			continue
		}
		if strings.TrimSpace(fields[col.Name]) == "" {
			return validationErr(fmt.Errorf("column %q: %w", col.Name, ErrMissingField), col.Name)
		}
	}
	return nil
}

// Fields validates the supplied field values against the column types and
// domain rules of desc. Only supplied fields are checked, so the same
// function serves both create and partial update.
func Fields(fields map[string]string, desc *schema.Descriptor, weightMin, weightMax float64, now time.Time) error {
	for name, value := range fields {
		col := desc.Column(name)
		if col == nil || value == "" {
			continue
		}
		switch {
		case name == "coordenadas_gps":
			if err := GPS(value); err != nil {
				return err
			}
		case name == "peso_kg":
			w, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
			if err != nil {
				return validationErr(fmt.Errorf("weight %q: %w", value, ErrInvalidFormat), name)
			}
			if err := Weight(w, weightMin, weightMax); err != nil {
				return err
			}
		case col.Type == schema.TypeDate:
			d, err := time.Parse(schema.DateLayout, strings.TrimSpace(value))
			if err != nil {
				return validationErr(fmt.Errorf("date %q: %w", value, ErrInvalidFormat), name)
			}
			if err := Date(d, now); err != nil {
				return err
			}
		case col.Type == schema.TypeInt:
			if _, err := strconv.Atoi(strings.TrimSpace(value)); err != nil {
				return validationErr(fmt.Errorf("integer %q: %w", value, ErrInvalidFormat), name)
			}
		case col.Type == schema.TypeFloat:
			if _, err := strconv.ParseFloat(strings.TrimSpace(value), 64); err != nil {
				return validationErr(fmt.Errorf("number %q: %w", value, ErrInvalidFormat), name)
			}
		case col.Type == schema.TypeBool:
			if _, err := strconv.ParseBool(strings.ToLower(strings.TrimSpace(value))); err != nil {
				return validationErr(fmt.Errorf("boolean %q: %w", value, ErrInvalidFormat), name)
			}
		}
	}
	return nil
}
