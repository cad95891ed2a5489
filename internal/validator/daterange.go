package validator

import (
	"fmt"
	"time"

	ierr "github.com/vidinfra/churnalytics/internal/errors"
	"github.com/vidinfra/churnalytics/internal/types"
)

// ValidateDateRange checks that a requested churn range is well formed and
// within the window policy. Every violation is collected before failing so
// the caller sees all reasons at once, not just the first one.
//
// The window rule is inclusive: a range of exactly maxWindowDays days is
// valid, one day more is not.
func ValidateDateRange(startDate, endDate time.Time, maxWindowDays int) error {
	var reasons []string

	if startDate.IsZero() {
		reasons = append(reasons, "start_date can't be blank")
	}
	if endDate.IsZero() {
		reasons = append(reasons, "end_date can't be blank")
	}

	if !startDate.IsZero() && !endDate.IsZero() {
		if endDate.Before(startDate) {
			reasons = append(reasons, "end_date must be on or after start_date")
		}
		if days := types.DaysBetweenInclusive(startDate, endDate); days > maxWindowDays {
			reasons = append(reasons, fmt.Sprintf("date range cannot exceed %d days", maxWindowDays))
		}
	}

	if len(reasons) == 0 {
		return nil
	}

	return NewDateRangeError(reasons)
}

// NewDateRangeError wraps a set of collected range violations into the
// validation error shape the error handler renders as errors.base.
func NewDateRangeError(reasons []string) error {
	return ierr.NewError("invalid date range").
		WithHint("Invalid date range").
		WithReportableDetails(map[string]any{"base": reasons}).
		Mark(ierr.ErrValidation)
}
