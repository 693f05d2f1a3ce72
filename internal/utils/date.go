package utils

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// DateLayout is the wire format for docket dates.
const DateLayout = "02-01-2006"

var (
	ddmmyyyyPattern = regexp.MustCompile(`^\d{2}-\d{2}-\d{4}$`)

	// ErrInvalidDate is returned for anything that is not a real DD-MM-YYYY calendar date.
	ErrInvalidDate = errors.New("invalid date, expected DD-MM-YYYY")
)

// ParseDDMMYYYY converts "DD-MM-YYYY" into a UTC midnight time.
// Zero components and out-of-range components (e.g. 31-02-2024) are rejected
// rather than rolled over into the following month.
func ParseDDMMYYYY(s string) (time.Time, error) {
	if !ddmmyyyyPattern.MatchString(s) {
		return time.Time{}, ErrInvalidDate
	}

	parts := strings.Split(s, "-")
	day, _ := strconv.Atoi(parts[0])
	month, _ := strconv.Atoi(parts[1])
	year, _ := strconv.Atoi(parts[2])

	if day == 0 || month == 0 || year == 0 {
		return time.Time{}, ErrInvalidDate
	}

	d := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	if d.Day() != day || int(d.Month()) != month || d.Year() != year {
		return time.Time{}, fmt.Errorf("%w: %s does not exist", ErrInvalidDate, s)
	}

	return d, nil
}

// IsDDMMYYYY reports whether s parses as a valid calendar date.
func IsDDMMYYYY(s string) bool {
	_, err := ParseDDMMYYYY(s)
	return err == nil
}

// FormatDDMMYYYY renders t (in UTC) back into the wire format.
func FormatDDMMYYYY(t time.Time) string {
	return t.UTC().Format(DateLayout)
}
