package datasource

import (
	"fmt"
	"os"

	"github.com/gocarina/gocsv"
	log "github.com/sirupsen/logrus"

	"github.com/wqtech/bullet/src/eventmodels"
)

// CSVConfig names the input files of a CSV-backed data source. Only Quotes
// and Calendar are required; event files are optional.
type CSVConfig struct {
	Quotes      string `yaml:"quotes"`
	Calendar    string `yaml:"calendar"`
	Dividends   string `yaml:"dividends"`
	RightIssues string `yaml:"right_issues"`
	Delistings  string `yaml:"delistings"`
	Suspensions string `yaml:"suspensions"`
}

type calendarRow struct {
	TradeDate string `csv:"trade_date"`
}

type delistingRow struct {
	Instrument eventmodels.Instrument `csv:"sec_id"`
	DelistDate string                 `csv:"delist_date"`
}

type suspensionRow struct {
	Instrument  eventmodels.Instrument `csv:"sec_id"`
	SuspendDate string                 `csv:"suspend_date"`
}

// NewCSVDataSource loads the configured files into a MemoryDataSource.
func NewCSVDataSource(cfg CSVConfig) (*MemoryDataSource, error) {
	src := NewMemoryDataSource()

	var quotes []*eventmodels.DataRecord
	if err := unmarshalFile(cfg.Quotes, &quotes); err != nil {
		return nil, fmt.Errorf("failed to load quotes from %s: %w", cfg.Quotes, err)
	}
	src.AddRecords(quotes...)

	var calendar []*calendarRow
	if err := unmarshalFile(cfg.Calendar, &calendar); err != nil {
		return nil, fmt.Errorf("failed to load calendar from %s: %w", cfg.Calendar, err)
	}
	dates := make([]string, 0, len(calendar))
	for _, row := range calendar {
		dates = append(dates, row.TradeDate)
	}
	src.SetBusinessDates(dates)

	if cfg.Dividends != "" {
		var dividends []*Dividend
		if err := unmarshalFile(cfg.Dividends, &dividends); err != nil {
			return nil, fmt.Errorf("failed to load dividends from %s: %w", cfg.Dividends, err)
		}
		for _, d := range dividends {
			src.AddDividend(*d)
		}
	}

	if cfg.RightIssues != "" {
		var rightIssues []*RightIssue
		if err := unmarshalFile(cfg.RightIssues, &rightIssues); err != nil {
			return nil, fmt.Errorf("failed to load right issues from %s: %w", cfg.RightIssues, err)
		}
		for _, r := range rightIssues {
			src.AddRightIssue(*r)
		}
	}

	if cfg.Delistings != "" {
		var delistings []*delistingRow
		if err := unmarshalFile(cfg.Delistings, &delistings); err != nil {
			return nil, fmt.Errorf("failed to load delistings from %s: %w", cfg.Delistings, err)
		}
		for _, row := range delistings {
			src.AddDelisting(row.Instrument, row.DelistDate)
		}
	}

	if cfg.Suspensions != "" {
		var suspensions []*suspensionRow
		if err := unmarshalFile(cfg.Suspensions, &suspensions); err != nil {
			return nil, fmt.Errorf("failed to load suspensions from %s: %w", cfg.Suspensions, err)
		}
		for _, row := range suspensions {
			src.AddSuspension(row.SuspendDate, row.Instrument)
		}
	}

	log.Infof("loaded %d quote rows and %d trading dates", len(quotes), len(dates))

	return src, nil
}

func unmarshalFile(path string, out interface{}) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	return gocsv.UnmarshalFile(f, out)
}
