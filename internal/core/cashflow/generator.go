// Package cashflow derives the scheduled payment sequence implied by a trade leg.
package cashflow

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/fxdesk/tradebook/internal/apperrors"
	"github.com/fxdesk/tradebook/internal/core/domain"
	"github.com/shopspring/decimal"
)

var tenorPattern = regexp.MustCompile(`^([0-9]+)([MY])$`)

// ParseTenor converts a schedule code such as "1M", "3M" or "1Y" into a step of
// calendar months. A code that does not match the pattern, or a zero-length
// tenor, is a configuration error.
func ParseTenor(code string) (int, error) {
	match := tenorPattern.FindStringSubmatch(strings.ToUpper(strings.TrimSpace(code)))
	if match == nil {
		return 0, fmt.Errorf("%w: unrecognised schedule tenor %q", apperrors.ErrValidation, code)
	}
	n, err := strconv.Atoi(match[1])
	if err != nil || n == 0 {
		return 0, fmt.Errorf("%w: schedule tenor %q must have a positive length", apperrors.ErrValidation, code)
	}
	if match[2] == "Y" {
		n *= 12
	}
	return n, nil
}

// Generate produces the ordered cashflow sequence for one leg.
//
// Payment dates are anchored at the start date and advance by whole tenor steps;
// the final cashflow always falls on the maturity date, absorbing any remainder
// shorter than the tenor into the last period. A maturity equal to the start
// date, or a tenor longer than the whole trade, yields exactly one cashflow at
// maturity. Each cashflow carries the full leg notional; this model does not
// amortise.
func Generate(startDate, maturityDate time.Time, tenor string, notional decimal.Decimal) ([]domain.Cashflow, error) {
	months, err := ParseTenor(tenor)
	if err != nil {
		return nil, err
	}

	var flows []domain.Cashflow
	for step := 1; ; step++ {
		valueDate := addMonths(startDate, step*months)
		if !valueDate.Before(maturityDate) {
			break
		}
		flows = append(flows, domain.Cashflow{
			ValueDate:     valueDate,
			Notional:      notional,
			SequenceIndex: len(flows),
		})
	}
	flows = append(flows, domain.Cashflow{
		ValueDate:     maturityDate,
		Notional:      notional,
		SequenceIndex: len(flows),
	})
	return flows, nil
}

// addMonths advances a date by whole calendar months, clamping the day of month
// to the length of the target month (Jan 31 + 1M = Feb 28/29). time.AddDate is
// not used because it normalises overflow into the following month.
func addMonths(t time.Time, months int) time.Time {
	year, month, day := t.Date()
	total := int(month) - 1 + months
	year += total / 12
	month = time.Month(total%12 + 1)
	if last := daysInMonth(year, month); day > last {
		day = last
	}
	return time.Date(year, month, day, 0, 0, 0, 0, t.Location())
}

func daysInMonth(year int, month time.Month) int {
	// day 0 of the next month is the last day of this one
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}
