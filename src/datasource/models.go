package datasource

import (
	"github.com/wqtech/bullet/src/eventmodels"
)

// Dividend is one cash/stock dividend plan, effective on its ex-date.
// Amounts are quoted per 10 shares held.
type Dividend struct {
	Instrument  eventmodels.Instrument `csv:"sec_id"`
	ExDate      string                 `csv:"ex_date"`
	CashPer10   float64                `csv:"cash_per_10"`
	SharesPer10 float64                `csv:"shares_per_10"`
}

// RightIssue is one rights-issue plan, effective on its ex-date.
type RightIssue struct {
	Instrument  eventmodels.Instrument `csv:"sec_id"`
	ExDate      string                 `csv:"ex_date"`
	SharesPer10 float64                `csv:"shares_per_10"`
	Price       float64                `csv:"price"`
}

// DataSource is the consumed market/reference-event data interface. Dates
// are YYYYMMDD strings; range arguments are inclusive on both ends.
type DataSource interface {
	// GetData returns all rows for the given topics over the date range,
	// restricted to the requested fields (an all-fields set fetches every
	// column). Rows come back unordered; replay layers sort them.
	GetData(topics []eventmodels.Instrument, fields *eventmodels.FieldSet, startDate, endDate string) ([]*eventmodels.DataRecord, error)

	// GetBusinessDates returns the sorted trading dates in the range.
	GetBusinessDates(startDate, endDate string) ([]string, error)

	// GetDividendInformation returns dividend plans grouped by ex-date.
	GetDividendInformation(startDate, endDate string) (map[string][]Dividend, error)

	// GetRightIssueInformation returns rights-issue plans grouped by ex-date.
	GetRightIssueInformation(startDate, endDate string) (map[string][]RightIssue, error)

	// GetDelistedStocks returns delisting dates keyed by instrument.
	GetDelistedStocks(startDate, endDate string) (map[eventmodels.Instrument]string, error)

	// GetSuspensionDates returns suspended instruments grouped by date.
	GetSuspensionDates(startDate, endDate string) (map[string][]eventmodels.Instrument, error)
}
