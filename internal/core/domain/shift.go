package domain

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

var ErrShiftNotFound = errors.New("shift not found")

// ShiftUpdatableFields is the allow-list for shift updates.
var ShiftUpdatableFields = []string{"where", "when", "billed", "description", "paid"}

// Shift is a single work session owned by a user.
type Shift struct {
	ID          string
	Where       string
	When        time.Time
	Billed      float64
	Description string
	Paid        bool
	Owner       string
}

// Validate checks the invariants every stored shift must satisfy.
func (s *Shift) Validate() error {
	if s.Owner == "" {
		return Invalid("owner is required")
	}
	if s.Billed < 0 {
		return Invalid("amount billed cannot be a negative number")
	}
	if strings.TrimSpace(s.Description) == "" {
		return Invalid("description is required")
	}
	return nil
}

// ShiftChanges carries the submitted fields of a shift update.
type ShiftChanges struct {
	Where       *string
	When        *time.Time
	Billed      *float64
	Description *string
	Paid        *bool
}

// Apply copies the submitted changes onto s.
func (c ShiftChanges) Apply(s *Shift) {
	if c.Where != nil {
		s.Where = strings.TrimSpace(*c.Where)
	}
	if c.When != nil {
		s.When = *c.When
	}
	if c.Billed != nil {
		s.Billed = *c.Billed
	}
	if c.Description != nil {
		s.Description = *c.Description
	}
	if c.Paid != nil {
		s.Paid = *c.Paid
	}
}

// ShiftFilter narrows a shift listing. A nil Paid lists everything.
type ShiftFilter struct {
	Owner string
	Paid  *bool
}

// ShiftDateLayout is the DD-MM-YYYY form shift dates are rendered in.
const ShiftDateLayout = "02-01-2006"

var shiftDateInputLayouts = []string{ShiftDateLayout, "2006-01-02", time.RFC3339}

// ParseShiftDate accepts DD-MM-YYYY, YYYY-MM-DD or RFC 3339 and returns the
// calendar day at UTC midnight. An RFC 3339 offset keeps the day it names.
func ParseShiftDate(v string) (time.Time, error) {
	v = strings.TrimSpace(v)
	for _, layout := range shiftDateInputLayouts {
		if t, err := time.Parse(layout, v); err == nil {
			y, m, d := t.Date()
			return time.Date(y, m, d, 0, 0, 0, 0, time.UTC), nil
		}
	}
	return time.Time{}, Invalid(fmt.Sprintf("when %q is not a valid date", v))
}

// FormatShiftDate renders t as DD-MM-YYYY.
func FormatShiftDate(t time.Time) string {
	return t.UTC().Format(ShiftDateLayout)
}

// DateOf truncates t to its calendar day in UTC.
func DateOf(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
