package idml

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
)

// ErrDateFormat indicates a publication date in none of the accepted layouts.
var ErrDateFormat = errors.New("unknown date format")

// dateLayouts are tried in order. The first carries no day.
var dateLayouts = []string{"January 2006", "2006-01-02", "2 January 2006"}

// Date is a publication date split up for the byline.
type Date struct {
	Day   int // 0 when only the month is known
	Month string
	Year  int
}

// ParseDate reads "June 1908", "1908-06-13" or "13 June 1908".
func ParseDate(s string) (Date, error) {
	s = strings.TrimSpace(s)
	for i, layout := range dateLayouts {
		t, err := time.Parse(layout, s)
		if err != nil {
			continue
		}
		d := Date{Month: t.Month().String(), Year: t.Year()}
		if i > 0 {
			d.Day = t.Day()
		}
		return d, nil
	}
	return Date{}, fmt.Errorf("%w: %q", ErrDateFormat, s)
}

// Suffix returns the ordinal suffix of the day: "st", "nd", "rd" or "th".
// It is empty when the day is unknown.
func (d Date) Suffix() string {
	if d.Day == 0 {
		return ""
	}
	return strings.TrimPrefix(humanize.Ordinal(d.Day), strconv.Itoa(d.Day))
}
