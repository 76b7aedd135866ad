package utils

import (
	"fmt"
	"sort"
)

// TradingCalendar answers "N trading days before/after a date" over an
// injected list of business dates in YYYYMMDD form. Where the calendar comes
// from (exchange feed, static file) is the caller's concern.
type TradingCalendar struct {
	dates []string
}

func NewTradingCalendar(dates []string) *TradingCalendar {
	sorted := make([]string, len(dates))
	copy(sorted, dates)
	sort.Strings(sorted)
	return &TradingCalendar{dates: sorted}
}

// PrevTradingDate returns the n-th trading date strictly before asOfDate.
func (c *TradingCalendar) PrevTradingDate(asOfDate string, n int) (string, error) {
	if n <= 0 {
		return "", fmt.Errorf("look-back count must be positive, got %d", n)
	}

	// first index >= asOfDate; everything before it is strictly earlier
	idx := sort.SearchStrings(c.dates, asOfDate)
	if idx < n {
		return "", fmt.Errorf("date %s is too early: only %d trading dates precede it", asOfDate, idx)
	}
	return c.dates[idx-n], nil
}

// NextTradingDate returns the n-th trading date counting from the first date
// at or after sinceDate. When sinceDate is itself a trading date, n=1 yields
// the following session, mirroring the asymmetry of the original date
// arithmetic this calendar preserves.
func (c *TradingCalendar) NextTradingDate(sinceDate string, n int) (string, error) {
	if n <= 0 {
		return "", fmt.Errorf("look-ahead count must be positive, got %d", n)
	}

	idx := sort.SearchStrings(c.dates, sinceDate)
	if idx+n >= len(c.dates) {
		return "", fmt.Errorf("date %s is too late: only %d trading dates follow it", sinceDate, len(c.dates)-idx)
	}
	return c.dates[idx+n], nil
}

// Dates returns the underlying sorted date list.
func (c *TradingCalendar) Dates() []string {
	return c.dates
}
