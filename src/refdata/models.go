package refdata

import (
	"errors"

	"github.com/wqtech/bullet/src/eventmodels"
)

// ErrInstrumentNotFound reports a lookup for an unrecognized instrument. The
// caller aborts on it: trading an instrument without reference data is a
// structural error, not a recoverable anomaly.
var ErrInstrumentNotFound = errors.New("instrument not found in reference data")

// RefData serves per-instrument static reference values. Implementations
// backed by a reference-data service may interpret asOfDate; the static
// variants ignore it.
type RefData interface {
	GetTickSize(id eventmodels.Instrument) (float64, error)
	GetLotSize(id eventmodels.Instrument) (int64, error)
	GetMarginRate(id eventmodels.Instrument) (float64, error)
	GetUpLimit(id eventmodels.Instrument, asOfDate string) (float64, error)
	GetDownLimit(id eventmodels.Instrument, asOfDate string) (float64, error)
}
