package refdata

import (
	"fmt"

	"github.com/wqtech/bullet/src/eventmodels"
)

// Entry carries the reference values for one instrument.
type Entry struct {
	Instrument eventmodels.Instrument `csv:"sec_id"`
	TickSize   float64                `csv:"tick_size"`
	LotSize    int64                  `csv:"lot_size"`
	MarginRate float64                `csv:"margin_rate"`
	UpLimit    float64                `csv:"up_limit"`
	DownLimit  float64                `csv:"down_limit"`
}

// StaticRefData is a map-backed RefData.
type StaticRefData struct {
	entries map[eventmodels.Instrument]Entry
}

func NewStaticRefData() *StaticRefData {
	return &StaticRefData{entries: make(map[eventmodels.Instrument]Entry)}
}

func (s *StaticRefData) Set(e Entry) {
	s.entries[e.Instrument] = e
}

func (s *StaticRefData) lookup(id eventmodels.Instrument) (Entry, error) {
	e, ok := s.entries[id]
	if !ok {
		return Entry{}, fmt.Errorf("%w: %s", ErrInstrumentNotFound, id)
	}
	return e, nil
}

func (s *StaticRefData) GetTickSize(id eventmodels.Instrument) (float64, error) {
	e, err := s.lookup(id)
	if err != nil {
		return 0, err
	}
	return e.TickSize, nil
}

func (s *StaticRefData) GetLotSize(id eventmodels.Instrument) (int64, error) {
	e, err := s.lookup(id)
	if err != nil {
		return 0, err
	}
	return e.LotSize, nil
}

func (s *StaticRefData) GetMarginRate(id eventmodels.Instrument) (float64, error) {
	e, err := s.lookup(id)
	if err != nil {
		return 0, err
	}
	return e.MarginRate, nil
}

func (s *StaticRefData) GetUpLimit(id eventmodels.Instrument, asOfDate string) (float64, error) {
	e, err := s.lookup(id)
	if err != nil {
		return 0, err
	}
	return e.UpLimit, nil
}

func (s *StaticRefData) GetDownLimit(id eventmodels.Instrument, asOfDate string) (float64, error) {
	e, err := s.lookup(id)
	if err != nil {
		return 0, err
	}
	return e.DownLimit, nil
}
