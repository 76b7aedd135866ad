package datasource

import (
	"sort"

	"github.com/wqtech/bullet/src/eventmodels"
)

// MemoryDataSource is an in-memory DataSource. The CSV loader fills one from
// files; tests fill one directly.
type MemoryDataSource struct {
	records       []*eventmodels.DataRecord
	businessDates []string
	dividends     []Dividend
	rightIssues   []RightIssue
	delistings    map[eventmodels.Instrument]string
	suspensions   map[string][]eventmodels.Instrument
}

func NewMemoryDataSource() *MemoryDataSource {
	return &MemoryDataSource{
		delistings:  make(map[eventmodels.Instrument]string),
		suspensions: make(map[string][]eventmodels.Instrument),
	}
}

func (m *MemoryDataSource) AddRecords(records ...*eventmodels.DataRecord) {
	m.records = append(m.records, records...)
}

func (m *MemoryDataSource) SetBusinessDates(dates []string) {
	sorted := make([]string, len(dates))
	copy(sorted, dates)
	sort.Strings(sorted)
	m.businessDates = sorted
}

func (m *MemoryDataSource) AddDividend(d Dividend) {
	m.dividends = append(m.dividends, d)
}

func (m *MemoryDataSource) AddRightIssue(r RightIssue) {
	m.rightIssues = append(m.rightIssues, r)
}

func (m *MemoryDataSource) AddDelisting(id eventmodels.Instrument, date string) {
	m.delistings[id] = date
}

func (m *MemoryDataSource) AddSuspension(date string, ids ...eventmodels.Instrument) {
	m.suspensions[date] = append(m.suspensions[date], ids...)
}

func (m *MemoryDataSource) GetData(topics []eventmodels.Instrument, fields *eventmodels.FieldSet, startDate, endDate string) ([]*eventmodels.DataRecord, error) {
	wanted := make(map[eventmodels.Instrument]struct{}, len(topics))
	for _, t := range topics {
		wanted[t] = struct{}{}
	}

	var rows []*eventmodels.DataRecord
	for _, r := range m.records {
		if r.TradeDate < startDate || r.TradeDate > endDate {
			continue
		}
		if _, ok := wanted[r.Instrument]; !ok {
			continue
		}
		rows = append(rows, r)
	}
	return rows, nil
}

func (m *MemoryDataSource) GetBusinessDates(startDate, endDate string) ([]string, error) {
	var dates []string
	for _, d := range m.businessDates {
		if d >= startDate && d <= endDate {
			dates = append(dates, d)
		}
	}
	return dates, nil
}

func (m *MemoryDataSource) GetDividendInformation(startDate, endDate string) (map[string][]Dividend, error) {
	grouped := make(map[string][]Dividend)
	for _, d := range m.dividends {
		if d.ExDate >= startDate && d.ExDate <= endDate {
			grouped[d.ExDate] = append(grouped[d.ExDate], d)
		}
	}
	return grouped, nil
}

func (m *MemoryDataSource) GetRightIssueInformation(startDate, endDate string) (map[string][]RightIssue, error) {
	grouped := make(map[string][]RightIssue)
	for _, r := range m.rightIssues {
		if r.ExDate >= startDate && r.ExDate <= endDate {
			grouped[r.ExDate] = append(grouped[r.ExDate], r)
		}
	}
	return grouped, nil
}

func (m *MemoryDataSource) GetDelistedStocks(startDate, endDate string) (map[eventmodels.Instrument]string, error) {
	out := make(map[eventmodels.Instrument]string)
	for id, date := range m.delistings {
		if date >= startDate && date <= endDate {
			out[id] = date
		}
	}
	return out, nil
}

func (m *MemoryDataSource) GetSuspensionDates(startDate, endDate string) (map[string][]eventmodels.Instrument, error) {
	out := make(map[string][]eventmodels.Instrument)
	for date, ids := range m.suspensions {
		if date >= startDate && date <= endDate {
			out[date] = append([]eventmodels.Instrument(nil), ids...)
		}
	}
	return out, nil
}
