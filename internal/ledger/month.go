package ledger

import (
	"fmt"
	"time"

	"github.com/jorellortega/covionpartners-sub003/internal/apperr"
)

// Month is a calendar month, the reporting window key. The upstream app
// passed these around as loose "YYYY-MM" strings; here it is a proper
// value type so a malformed month is rejected once, at the edge.
type Month struct {
	Year  int
	Month time.Month
}

// ParseMonth parses a "YYYY-MM" string.
func ParseMonth(s string) (Month, error) {
	t, err := time.Parse("2006-01", s)
	if err != nil {
		return Month{}, apperr.Wrap(apperr.KindValidation, fmt.Sprintf("invalid month %q, expected YYYY-MM", s), err)
	}
	m := Month{Year: t.Year(), Month: t.Month()}
	if m.Year < 2000 || m.Year > 2200 {
		return Month{}, apperr.Newf(apperr.KindValidation, "month %q is out of range", s)
	}
	return m, nil
}

// MonthOf returns the month containing t, in UTC.
func MonthOf(t time.Time) Month {
	u := t.UTC()
	return Month{Year: u.Year(), Month: u.Month()}
}

// Start is the first instant of the month, UTC.
func (m Month) Start() time.Time {
	return time.Date(m.Year, m.Month, 1, 0, 0, 0, 0, time.UTC)
}

// End is the first instant of the following month; the reporting window
// is [Start, End).
func (m Month) End() time.Time {
	return m.Start().AddDate(0, 1, 0)
}

func (m Month) String() string {
	return fmt.Sprintf("%04d-%02d", m.Year, int(m.Month))
}
