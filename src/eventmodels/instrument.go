package eventmodels

import "strings"

// Instrument identifies a tradable security. It doubles as the subscription
// topic on the data bus.
type Instrument string

func NewInstrument(s string) Instrument {
	return Instrument(strings.ToUpper(s))
}

func (i Instrument) String() string {
	return string(i)
}
