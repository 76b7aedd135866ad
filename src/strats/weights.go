package strats

import (
	"fmt"
	"os"

	"github.com/gocarina/gocsv"

	"github.com/wqtech/bullet/src/eventmodels"
)

// StaticWeightModel serves precomputed target weights keyed by date. Dates
// without an entry yield nil, which the strategy reads as "no view".
type StaticWeightModel struct {
	weights map[string]map[eventmodels.Instrument]float64
}

func NewStaticWeightModel() *StaticWeightModel {
	return &StaticWeightModel{weights: make(map[string]map[eventmodels.Instrument]float64)}
}

func (m *StaticWeightModel) SetWeight(asOfDate string, id eventmodels.Instrument, weight float64) {
	if _, ok := m.weights[asOfDate]; !ok {
		m.weights[asOfDate] = make(map[eventmodels.Instrument]float64)
	}
	m.weights[asOfDate][id] = weight
}

func (m *StaticWeightModel) TargetWeights(asOfDate string) (map[eventmodels.Instrument]float64, error) {
	return m.weights[asOfDate], nil
}

type weightRow struct {
	TradeDate  string                 `csv:"trade_date"`
	Instrument eventmodels.Instrument `csv:"sec_id"`
	Weight     float64                `csv:"weight"`
}

// NewCSVWeightModel loads a trade_date,sec_id,weight file into a
// StaticWeightModel.
func NewCSVWeightModel(path string) (*StaticWeightModel, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open weight file %s: %w", path, err)
	}
	defer f.Close()

	var rows []*weightRow
	if err := gocsv.UnmarshalFile(f, &rows); err != nil {
		return nil, fmt.Errorf("failed to parse weight file %s: %w", path, err)
	}

	model := NewStaticWeightModel()
	for _, row := range rows {
		model.SetWeight(row.TradeDate, row.Instrument, row.Weight)
	}
	return model, nil
}
