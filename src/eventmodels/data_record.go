package eventmodels

import "sort"

// DataRecord is one market data row for a single instrument. Dates are
// YYYYMMDD and timestamps YYYYMMDDHHMM; both compare lexicographically.
type DataRecord struct {
	Instrument Instrument `csv:"sec_id"`
	TradeDate  string     `csv:"trade_date"`
	Timestamp  string     `csv:"timestamp"`
	Price      float64    `csv:"price"`
	Open       float64    `csv:"open"`
	High       float64    `csv:"high"`
	Low        float64    `csv:"low"`
	Close      float64    `csv:"close"`
	Volume     float64    `csv:"volume"`
	PctChange  float64    `csv:"pct_change"`
}

func (r *DataRecord) Get(f Field) float64 {
	switch f {
	case FieldPrice:
		return r.Price
	case FieldOpen:
		return r.Open
	case FieldHigh:
		return r.High
	case FieldLow:
		return r.Low
	case FieldClose:
		return r.Close
	case FieldVolume:
		return r.Volume
	case FieldPctChange:
		return r.PctChange
	}
	return 0
}

// AtUpLimit reports whether the record shows a locked up-limit session: the
// bar never traded away from a single price and closed up.
func (r *DataRecord) AtUpLimit() bool {
	return r.High == r.Open && r.Open == r.Close && r.Close == r.Low && r.PctChange > 0
}

// AtDownLimit is the down-side counterpart of AtUpLimit.
func (r *DataRecord) AtDownLimit() bool {
	return r.High == r.Open && r.Open == r.Close && r.Close == r.Low && r.PctChange < 0
}

// DataBatch groups the records sharing one (trade date, timestamp) pair. It
// is the unit of delivery on the data bus.
type DataBatch struct {
	TradeDate string
	Timestamp string
	Records   map[Instrument]*DataRecord
}

func NewDataBatch(tradeDate, timestamp string) *DataBatch {
	return &DataBatch{
		TradeDate: tradeDate,
		Timestamp: timestamp,
		Records:   make(map[Instrument]*DataRecord),
	}
}

func (b *DataBatch) Add(record *DataRecord) {
	b.Records[record.Instrument] = record
}

func (b *DataBatch) Get(id Instrument) (*DataRecord, bool) {
	r, ok := b.Records[id]
	return r, ok
}

func (b *DataBatch) Len() int {
	return len(b.Records)
}

// Instruments returns the batch's instrument keys in sorted order.
func (b *DataBatch) Instruments() []Instrument {
	ids := make([]Instrument, 0, len(b.Records))
	for id := range b.Records {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// Prices extracts the given field per instrument, skipping records without it.
func (b *DataBatch) Prices(f Field) map[Instrument]float64 {
	prices := make(map[Instrument]float64, len(b.Records))
	for id, r := range b.Records {
		prices[id] = r.Get(f)
	}
	return prices
}
